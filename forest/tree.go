package forest

import (
	"fmt"
	"math"
)

/*
Tree is a canonical, schema-independent binary-split tree:
an arena of nodes indexed by their integer ID plus the ID
of the node the walks start at.

Trees are built once by a normalizer, validated, and then
only read. They are owned by the Forest that contains them.
*/
type Tree struct {
	RootID int
	Nodes  map[int]*Node
}

/*
New returns an empty tree with the given root ID.
*/
func New(rootID int) *Tree {
	return &Tree{RootID: rootID, Nodes: make(map[int]*Node)}
}

/*
Stub returns the designated stub tree: a single leaf with
value 0.0 at the root. It is what a tree that cannot be
interpreted degrades to.
*/
func Stub() *Tree {
	t := New(0)
	t.Add(NewLeaf(0, 0.0))
	return t
}

// Add stores the given node in the tree's arena, replacing
// any previous node with the same ID.
func (t *Tree) Add(n *Node) {
	t.Nodes[n.ID] = n
}

// Get returns the node with the given ID or nil if the
// tree has no such node.
func (t *Tree) Get(id int) *Node {
	return t.Nodes[id]
}

// Len returns the number of nodes in the tree's arena,
// reachable or not.
func (t *Tree) Len() int {
	return len(t.Nodes)
}

/*
Validate checks the tree's structural invariants: the root
exists, every node reachable from it exists in the arena,
every node is strictly a leaf or a split, and no walk from
the root can revisit a node already on its path (no cycles).
It returns an error describing the first violation found,
or nil.

A reference to a missing child is not a violation: walks
treat it as an implicit zero leaf (see Score).
*/
func (t *Tree) Validate() error {
	if t.Len() == 0 {
		return fmt.Errorf("validating tree: no nodes")
	}
	if t.Get(t.RootID) == nil {
		return fmt.Errorf("validating tree: root node %d not found", t.RootID)
	}
	onPath := make(map[int]bool)
	return t.validate(t.RootID, onPath)
}

func (t *Tree) validate(id int, onPath map[int]bool) error {
	n := t.Get(id)
	if n == nil {
		return nil
	}
	if onPath[id] {
		return fmt.Errorf("validating tree: node %d revisited, tree has a cycle", id)
	}
	if !n.Leaf {
		if n.Missing != n.Yes && n.Missing != n.No {
			return fmt.Errorf("validating tree: node %d missing-branch %d is neither child", id, n.Missing)
		}
		if n.FeatureIndex < 0 {
			return fmt.Errorf("validating tree: node %d has negative feature index %d", id, n.FeatureIndex)
		}
		onPath[id] = true
		if err := t.validate(n.Yes, onPath); err != nil {
			return err
		}
		if err := t.validate(n.No, onPath); err != nil {
			return err
		}
		delete(onPath, id)
	}
	return nil
}

/*
Score walks the tree for the given feature vector and
returns the value of the leaf the walk ends on: starting
at the root, an internal node routes to its Yes child when
features[FeatureIndex] <= Threshold and to its No child
otherwise. An absent feature (index beyond the vector) or
a NaN value routes to the node's Missing child.

A reference to a node that does not exist in the arena
scores as an implicit leaf of value 0.0, as does a tree
whose root is unresolved. Score never panics.
*/
func (t *Tree) Score(features []float64) float64 {
	id := t.RootID
	// A well-formed tree descends strictly, so any walk longer
	// than the arena means a cycle slipped past validation.
	for steps := 0; steps <= t.Len(); steps++ {
		n := t.Get(id)
		if n == nil {
			return 0.0
		}
		if n.Leaf {
			return n.LeafValue
		}
		v := math.NaN()
		if n.FeatureIndex < len(features) {
			v = features[n.FeatureIndex]
		}
		switch {
		case math.IsNaN(v):
			id = n.Missing
		case v <= n.Threshold:
			id = n.Yes
		default:
			id = n.No
		}
	}
	return 0.0
}

/*
Depth returns the number of splits on the longest walk
from the root to a leaf. A single-leaf tree has depth 0,
as does a tree whose root is unresolved.
*/
func (t *Tree) Depth() int {
	seen := make(map[int]bool)
	return t.depth(t.RootID, seen)
}

func (t *Tree) depth(id int, onPath map[int]bool) int {
	n := t.Get(id)
	if n == nil || n.Leaf || onPath[id] {
		return 0
	}
	onPath[id] = true
	dy := t.depth(n.Yes, onPath)
	dn := t.depth(n.No, onPath)
	delete(onPath, id)
	if dn > dy {
		dy = dn
	}
	return 1 + dy
}
