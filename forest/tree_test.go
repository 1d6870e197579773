package forest_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgessner/canopy/forest"
)

// splitOnFeatureZero builds the concrete scenario tree: a root
// splitting on feature 0 at 0.5, scoring 1.0 on the yes branch
// and -1.0 on the no branch.
func splitOnFeatureZero() *forest.Tree {
	t := forest.New(0)
	t.Add(forest.NewSplit(0, 0, 0.5, 1, 2, 2))
	t.Add(forest.NewLeaf(1, 1.0))
	t.Add(forest.NewLeaf(2, -1.0))
	return t
}

func TestTreeScoreSplitDirection(t *testing.T) {
	tree := splitOnFeatureZero()
	require.NoError(t, tree.Validate())

	assert.Equal(t, 1.0, tree.Score([]float64{0.2}), "0.2 <= 0.5 must take the yes branch")
	assert.Equal(t, -1.0, tree.Score([]float64{0.7}), "0.7 > 0.5 must take the no branch")
	assert.Equal(t, 1.0, tree.Score([]float64{0.5}), "the threshold itself must take the yes branch")
}

func TestTreeScoreMissingBranch(t *testing.T) {
	// Missing branch explicitly set to the no child.
	tree := splitOnFeatureZero()
	assert.Equal(t, -1.0, tree.Score([]float64{math.NaN()}), "NaN must take the missing branch")
	assert.Equal(t, -1.0, tree.Score(nil), "an absent feature must take the missing branch")

	// Default missing branch is the yes child.
	defaulted := forest.New(0)
	defaulted.Add(forest.NewSplit(0, 0, 0.5, 1, 2, -7))
	defaulted.Add(forest.NewLeaf(1, 1.0))
	defaulted.Add(forest.NewLeaf(2, -1.0))
	assert.Equal(t, 1.0, defaulted.Score([]float64{math.NaN()}), "an invalid missing reference must default to yes")
}

func TestTreeScoreUnresolvedReferences(t *testing.T) {
	tree := forest.New(0)
	tree.Add(forest.NewSplit(0, 0, 0.5, 99, 2, 99))
	tree.Add(forest.NewLeaf(2, -1.0))

	assert.Equal(t, 0.0, tree.Score([]float64{0.2}), "a dangling child reference scores an implicit zero leaf")
	assert.Equal(t, -1.0, tree.Score([]float64{0.7}))

	empty := forest.New(0)
	assert.Equal(t, 0.0, empty.Score([]float64{0.2}), "a tree with no nodes scores zero")
}

func TestStubTree(t *testing.T) {
	stub := forest.Stub()
	require.NoError(t, stub.Validate())
	assert.Equal(t, 0, stub.Depth())
	assert.Equal(t, 0.0, stub.Score(nil))
	assert.Equal(t, 0.0, stub.Score([]float64{12.5, -3}))
}

// chain builds a tree of the given depth where level i splits on
// feature 0 at threshold i, scoring float64(i) when the walk
// stops at level i and float64(depth) at the deepest leaf.
func chain(depth int) *forest.Tree {
	t := forest.New(0)
	for i := 0; i < depth; i++ {
		t.Add(forest.NewSplit(i, 0, float64(i), depth+1+i, i+1, i+1))
		t.Add(forest.NewLeaf(depth+1+i, float64(i)))
	}
	t.Add(forest.NewLeaf(depth, float64(depth)))
	return t
}

func TestTreeScoreDeepChain(t *testing.T) {
	for _, depth := range []int{0, 1, 2, 5, 20, 64, 200} {
		tree := chain(depth)
		require.NoError(t, tree.Validate(), "depth %d", depth)
		require.Equal(t, depth, tree.Depth())
		// Walking with a value above every threshold reaches the
		// deepest leaf; stopping value i exits at level i.
		assert.Equal(t, float64(depth), tree.Score([]float64{float64(depth) + 0.5}))
		for i := 0; i < depth; i++ {
			assert.Equal(t, float64(i), tree.Score([]float64{float64(i)}), "depth %d, stop at level %d", depth, i)
		}
	}
}

func TestTreeValidate(t *testing.T) {
	t.Run("cycle", func(t *testing.T) {
		tree := forest.New(0)
		tree.Add(forest.NewSplit(0, 0, 0.5, 1, 2, 1))
		tree.Add(forest.NewSplit(1, 0, 0.25, 0, 2, 0))
		tree.Add(forest.NewLeaf(2, 1.0))
		require.Error(t, tree.Validate())
		// Score must still terminate on the malformed tree.
		assert.Equal(t, 0.0, tree.Score([]float64{0.1}))
	})
	t.Run("missing root", func(t *testing.T) {
		tree := forest.New(7)
		tree.Add(forest.NewLeaf(0, 1.0))
		require.Error(t, tree.Validate())
	})
	t.Run("no nodes", func(t *testing.T) {
		require.Error(t, forest.New(0).Validate())
	})
	t.Run("shared subtree is not a cycle", func(t *testing.T) {
		tree := forest.New(0)
		tree.Add(forest.NewSplit(0, 0, 0.5, 1, 2, 1))
		tree.Add(forest.NewSplit(1, 1, 0.5, 3, 3, 3))
		tree.Add(forest.NewSplit(2, 1, 1.5, 3, 3, 3))
		tree.Add(forest.NewLeaf(3, 2.0))
		require.NoError(t, tree.Validate())
	})
}
