package booster

import "fmt"

/*
Code classifies a non-fatal problem found while interpreting
a serialized booster. Problems with a Code degrade the
affected tree (or mapping) and are reported to the caller;
they never abort the compilation of the forest.
*/
type Code string

const (
	// UnrecognizedTreeSchema flags a tree object matching none
	// of the known encodings; the tree degrades to a stub.
	UnrecognizedTreeSchema Code = "unrecognized-tree-schema"
	// UnresolvableReference flags a child reference to a node
	// id that does not exist in the tree; walks reaching it
	// score an implicit leaf of value 0.0.
	UnresolvableReference Code = "unresolvable-reference"
	// FeatureNameFallback flags a split feature encoded as a
	// non-numeric name with no feature map supplied; the split
	// degrades to feature index 0.
	FeatureNameFallback Code = "feature-name-fallback"
	// BroadcastLeafValues flags a flat-columnar tree whose leaf
	// value array matches neither the node count nor the leaf
	// count; the first available value is broadcast to all
	// leaves.
	BroadcastLeafValues Code = "broadcast-leaf-values"
	// InconsistentClassMapping flags an explicit per-tree class
	// list whose length or entries do not fit the forest; class
	// assignment falls back to round-robin.
	InconsistentClassMapping Code = "inconsistent-class-mapping"
)

/*
Diagnostic is one recovered problem: the position of the tree
it was found in (-1 for forest-wide problems), its Code and a
human-readable message.
*/
type Diagnostic struct {
	Tree    int
	Code    Code
	Message string
}

func (d Diagnostic) String() string {
	if d.Tree < 0 {
		return fmt.Sprintf("%s: %s", d.Code, d.Message)
	}
	return fmt.Sprintf("tree %d: %s: %s", d.Tree, d.Code, d.Message)
}
