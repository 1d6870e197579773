package forest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgessner/canopy/forest"
)

func TestClassMapExplicit(t *testing.T) {
	cm := forest.NewClassMap(3, 6, []int{0, 1, 2, 0, 1, 2})
	require.True(t, cm.Explicit())
	require.Equal(t, 3, cm.NumClasses())
	for i, want := range []int{0, 1, 2, 0, 1, 2} {
		assert.Equal(t, want, cm.ClassOf(i))
	}
}

func TestClassMapRoundRobin(t *testing.T) {
	cm := forest.NewClassMap(3, 6, nil)
	require.False(t, cm.Explicit())
	for i := 0; i < 6; i++ {
		assert.Equal(t, i%3, cm.ClassOf(i))
	}
}

func TestClassMapFallbacks(t *testing.T) {
	for name, explicit := range map[string][]int{
		"wrong length":       {0, 1, 2},
		"class out of range": {0, 1, 2, 0, 1, 3},
		"negative class":     {0, 1, 2, 0, 1, -1},
	} {
		t.Run(name, func(t *testing.T) {
			cm := forest.NewClassMap(3, 6, explicit)
			require.False(t, cm.Explicit(), "inconsistent list must fall back to round-robin")
			for i := 0; i < 6; i++ {
				assert.Equal(t, i%3, cm.ClassOf(i))
			}
		})
	}
}

func TestClassMapSingleClass(t *testing.T) {
	cm := forest.NewClassMap(1, 4, nil)
	for i := 0; i < 4; i++ {
		assert.Equal(t, 0, cm.ClassOf(i), "a single-class map is constant 0")
	}
	assert.Equal(t, 1, forest.NewClassMap(0, 4, nil).NumClasses(), "non-positive class counts are treated as 1")
}
