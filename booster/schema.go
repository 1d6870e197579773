package booster

/*
Schema identifies which of the known raw tree encodings a
tree object uses. Detection is structural: no version field
or other self-identification is assumed, because serialized
boosters in the wild carry none.
*/
type Schema int

const (
	// Unrecognized means the tree object matches none of the
	// known encodings. Such a tree normalizes to a stub.
	Unrecognized Schema = iota
	// FlatColumnar is the encoding with parallel per-node
	// arrays: left_children, right_children, split_indices,
	// split_conditions and base_weights.
	FlatColumnar
	// NestedNodeObject is the encoding where the tree object
	// is (or contains) a root node with a nodeid, and further
	// nodes hang off it via children lists or yes/no/missing
	// references.
	NestedNodeObject
	// FlatNodeList is the encoding with a flat nodes array
	// where every entry declares its own nodeid.
	FlatNodeList
)

func (s Schema) String() string {
	switch s {
	case FlatColumnar:
		return "flat-columnar"
	case NestedNodeObject:
		return "nested-node-object"
	case FlatNodeList:
		return "flat-node-list"
	}
	return "unrecognized"
}

/*
Detect takes a raw tree object and returns the Schema it
uses, probing for each known encoding in a fixed order and
returning the first match:

 1. FlatColumnar, when both left_children and right_children
    are present as arrays.
 2. NestedNodeObject, when the object carries a nodeid or a
    children list.
 3. FlatNodeList, when the object carries a nodes array.

Anything else, including tree objects that are not JSON
objects at all, is Unrecognized.
*/
func Detect(raw interface{}) Schema {
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return Unrecognized
	}
	_, left := obj["left_children"].([]interface{})
	_, right := obj["right_children"].([]interface{})
	if left && right {
		return FlatColumnar
	}
	if _, ok := obj["nodeid"]; ok {
		return NestedNodeObject
	}
	if _, ok := obj["children"].([]interface{}); ok {
		return NestedNodeObject
	}
	if _, ok := obj["nodes"].([]interface{}); ok {
		return FlatNodeList
	}
	return Unrecognized
}
