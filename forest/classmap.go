package forest

/*
ClassMap is the total function from tree position to the
output class the tree contributes its score to.

When the source model carries an explicit per-tree class
list whose length matches the number of trees (and whose
entries are all valid class indices), ClassOf is a direct
lookup on it. Otherwise trees are assigned round-robin:
tree i belongs to class i modulo the number of classes,
the convention boosting libraries use when emitting trees
in class-interleaved rounds.
*/
type ClassMap struct {
	numClasses int
	explicit   []int
}

/*
NewClassMap takes the number of classes, the number of
trees and an optional explicit per-tree class list and
returns a ClassMap for them.

An empty list selects the round-robin assignment. A
non-empty list is used only if it is consistent: its
length equals numTrees and every entry is in
[0, numClasses). An inconsistent list is ignored and the
map falls back to round-robin; Explicit reports which
assignment is in effect so callers can surface the
fallback as a diagnostic.
*/
func NewClassMap(numClasses, numTrees int, explicit []int) *ClassMap {
	if numClasses < 1 {
		numClasses = 1
	}
	cm := &ClassMap{numClasses: numClasses}
	if len(explicit) != numTrees {
		return cm
	}
	for _, c := range explicit {
		if c < 0 || c >= numClasses {
			return cm
		}
	}
	cm.explicit = explicit
	return cm
}

// NumClasses returns the number of output classes.
func (cm *ClassMap) NumClasses() int {
	return cm.numClasses
}

// Explicit returns true when the map uses an explicit
// per-tree class list rather than round-robin assignment.
func (cm *ClassMap) Explicit() bool {
	return cm.explicit != nil
}

/*
ClassOf returns the class index the tree at the given
position contributes to.
*/
func (cm *ClassMap) ClassOf(treeIndex int) int {
	if cm.explicit != nil {
		return cm.explicit[treeIndex]
	}
	return treeIndex % cm.numClasses
}
