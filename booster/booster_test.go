package booster_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgessner/canopy/booster"
)

func TestLocateCommonPaths(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{
			name: "full learner path",
			raw:  `{"learner":{"gradient_booster":{"model":{"trees":[{"nodeid":0,"leaf":1}]}}}}`,
		},
		{
			name: "booster without model level",
			raw:  `{"learner":{"gradient_booster":{"trees":[{"nodeid":0,"leaf":1}]}}}`,
		},
		{
			name: "top level trees",
			raw:  `{"trees":[{"nodeid":0,"leaf":1}]}`,
		},
		{
			name: "trees found by scan",
			raw:  `{"wrapped":{"inner":[{"trees":[{"nodeid":0,"leaf":1}]}]}}`,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			doc, err := booster.Locate(decode(t, c.raw))
			require.NoError(t, err)
			require.Len(t, doc.Trees, 1)
			assert.Equal(t, 1, doc.NumClasses)
			assert.Nil(t, doc.TreeInfo)
		})
	}
}

func TestLocateMissingTreeList(t *testing.T) {
	for _, raw := range []string{
		`{}`,
		`{"learner":{"gradient_booster":{}}}`,
		`{"trees":3}`,
		`[1,2,3]`,
	} {
		_, err := booster.Locate(decode(t, raw))
		assert.ErrorIs(t, err, booster.ErrMissingTreeList, "document %s", raw)
	}
}

func TestLocateNumClasses(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want int
	}{
		{
			name: "string num_class the way boosters dump it",
			raw:  `{"learner":{"learner_model_param":{"num_class":"3"},"gradient_booster":{"model":{"trees":[]}}}}`,
			want: 3,
		},
		{
			name: "numeric num_class",
			raw:  `{"learner":{"learner_model_param":{"num_class":4},"gradient_booster":{"model":{"trees":[]}}}}`,
			want: 4,
		},
		{
			name: "objective fallback",
			raw:  `{"learner":{"objective":{"softmax_multiclass_param":{"num_class":"5"}},"gradient_booster":{"model":{"trees":[]}}}}`,
			want: 5,
		},
		{
			name: "absent defaults to one",
			raw:  `{"trees":[]}`,
			want: 1,
		},
		{
			name: "zero defaults to one",
			raw:  `{"learner":{"learner_model_param":{"num_class":"0"},"gradient_booster":{"model":{"trees":[]}}}}`,
			want: 1,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			doc, err := booster.Locate(decode(t, c.raw))
			require.NoError(t, err)
			assert.Equal(t, c.want, doc.NumClasses)
		})
	}
}

func TestLocateTreeInfo(t *testing.T) {
	doc, err := booster.Locate(decode(t,
		`{"trees":[{"nodeid":0,"leaf":1},{"nodeid":0,"leaf":2}],"tree_info":[0,1]}`))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, doc.TreeInfo)

	doc, err = booster.Locate(decode(t,
		`{"trees":[{"nodeid":0,"leaf":1}],"tree_info":["a"]}`))
	require.NoError(t, err)
	assert.Nil(t, doc.TreeInfo, "a non-numeric tree_info is ignored")
}
