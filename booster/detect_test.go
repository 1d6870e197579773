package booster_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgessner/canopy/booster"
)

func decode(t *testing.T, raw string) interface{} {
	t.Helper()
	var v interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func TestDetect(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want booster.Schema
	}{
		{
			name: "flat columnar",
			raw:  `{"left_children":[1,-1,-1],"right_children":[2,-1,-1],"split_indices":[0,0,0],"split_conditions":[0.5,0,0],"base_weights":[0,1,-1]}`,
			want: booster.FlatColumnar,
		},
		{
			name: "nested node object",
			raw:  `{"nodeid":0,"split":"3","split_condition":1.5,"yes":1,"no":2,"children":[{"nodeid":1,"leaf":1},{"nodeid":2,"leaf":-1}]}`,
			want: booster.NestedNodeObject,
		},
		{
			name: "nested via children only",
			raw:  `{"children":[{"nodeid":1,"leaf":1},{"nodeid":2,"leaf":-1}]}`,
			want: booster.NestedNodeObject,
		},
		{
			name: "flat node list",
			raw:  `{"nodes":[{"nodeid":0,"leaf":0.25}]}`,
			want: booster.FlatNodeList,
		},
		{
			name: "columnar wins over nodes key",
			raw:  `{"left_children":[-1],"right_children":[-1],"nodes":[{"nodeid":0,"leaf":1}]}`,
			want: booster.FlatColumnar,
		},
		{
			name: "unknown object",
			raw:  `{"weights":[1,2,3]}`,
			want: booster.Unrecognized,
		},
		{
			name: "not an object",
			raw:  `[1,2,3]`,
			want: booster.Unrecognized,
		},
		{
			name: "left_children not an array",
			raw:  `{"left_children":3,"right_children":[1]}`,
			want: booster.Unrecognized,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, booster.Detect(decode(t, c.raw)))
		})
	}
}

func TestSchemaString(t *testing.T) {
	assert.Equal(t, "flat-columnar", booster.FlatColumnar.String())
	assert.Equal(t, "nested-node-object", booster.NestedNodeObject.String())
	assert.Equal(t, "flat-node-list", booster.FlatNodeList.String())
	assert.Equal(t, "unrecognized", booster.Unrecognized.String())
}
