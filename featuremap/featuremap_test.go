package featuremap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgessner/canopy/featuremap"
)

func TestReadFeatureList(t *testing.T) {
	m, err := featuremap.Read([]byte(`
features:
  - age
  - heart_rate
  - systolic_bp
`))
	require.NoError(t, err)
	assert.Equal(t, featuremap.Map{"age": 0, "heart_rate": 1, "systolic_bp": 2}, m)
}

func TestReadFeatureIndexObject(t *testing.T) {
	m, err := featuremap.Read([]byte(`
features:
  heart_rate: 4
  age: 0
`))
	require.NoError(t, err)
	assert.Equal(t, featuremap.Map{"age": 0, "heart_rate": 4}, m)
}

func TestReadInvalid(t *testing.T) {
	cases := map[string]string{
		"no features key": `version: 2`,
		"negative index": `
features:
  age: -1
`,
		"non-integer index": `
features:
  age: first
`,
		"scalar features": `features: 7`,
		"broken yaml":     `features: [`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := featuremap.Read([]byte(doc))
			assert.Error(t, err)
		})
	}
}
