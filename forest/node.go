package forest

/*
Node is a node of a canonical tree: either an internal
binary split on one feature of the input vector, or a
leaf holding the scalar value the tree contributes when
the walk ends on it.
*/
type Node struct {
	// An ID to identify the node, unique within its tree
	ID int
	// Leaf indicates whether the node is a leaf. A node is
	// either a leaf (LeafValue set, no children) or internal
	// (FeatureIndex, Threshold and children set), never both.
	Leaf bool
	// The value the tree scores when a walk reaches this
	// node, only meaningful for leaves.
	LeafValue float64
	// The index into the caller's feature vector the node
	// splits on, only meaningful for internal nodes.
	FeatureIndex int
	// The split condition: the walk continues to Yes when
	// the feature value is less than or equal to Threshold,
	// to No otherwise.
	Threshold float64
	// IDs of the two children of an internal node.
	Yes, No int
	// The ID of the child the walk continues to when the
	// feature value is absent or NaN. It is always one of
	// Yes or No, and defaults to Yes when the source
	// encoding does not specify it.
	Missing int
}

/*
NewLeaf takes a node ID and a value and returns a leaf
node with them.
*/
func NewLeaf(id int, value float64) *Node {
	return &Node{ID: id, Leaf: true, LeafValue: value}
}

/*
NewSplit takes a node ID, a feature index, a threshold and
the IDs for the yes, no and missing children and returns an
internal node with them. If the given missing ID is neither
the yes nor the no child, the yes child is used instead.
*/
func NewSplit(id, featureIndex int, threshold float64, yes, no, missing int) *Node {
	if missing != yes && missing != no {
		missing = yes
	}
	return &Node{
		ID:           id,
		FeatureIndex: featureIndex,
		Threshold:    threshold,
		Yes:          yes,
		No:           no,
		Missing:      missing,
	}
}
