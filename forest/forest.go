/*
Package forest defines the canonical in-memory representation of a
gradient-boosted decision-tree ensemble: schema-independent binary-split
trees laid out as arenas of nodes indexed by integer ID, grouped into an
ordered Forest with class-assignment metadata.

The package also provides a reference interpreter (Tree.Score and
Forest.Predict) that walks the canonical representation directly. Emitted
scoring code must be numerically indistinguishable from it.
*/
package forest

import (
	"fmt"
	"math"
)

/*
Forest is an ordered sequence of canonical trees plus the metadata needed
to aggregate their scores into per-class logits. Tree order is significant
and preserved verbatim from the source model: it determines both the
round-robin class assignment and the order of floating-point summation.

A Forest is built once per compilation run, is immutable afterwards, and
is discarded when code emission completes.
*/
type Forest struct {
	Trees []*Tree
	// The number of output classes, 1 for a single-output model.
	NumClasses int
	// Optional explicit per-tree class assignment from the source
	// model. Empty means round-robin.
	TreeClasses []int
}

/*
NewForest takes a number of classes and returns an empty forest with it.
A non-positive number of classes is treated as 1.
*/
func NewForest(numClasses int) *Forest {
	if numClasses < 1 {
		numClasses = 1
	}
	return &Forest{NumClasses: numClasses}
}

/*
ClassMap returns the class-assignment function for the forest, built from
its explicit per-tree class list when that list is consistent and from the
round-robin convention otherwise.
*/
func (f *Forest) ClassMap() *ClassMap {
	return NewClassMap(f.NumClasses, len(f.Trees), f.TreeClasses)
}

/*
Validate checks every tree in the forest and returns an error describing
the first structural violation found, or nil. The error identifies the
offending tree by its position.
*/
func (f *Forest) Validate() error {
	for i, t := range f.Trees {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("tree %d: %v", i, err)
		}
	}
	return nil
}

/*
Predict scores the given feature vector against every tree in forest
order, sums the scores into per-class logits according to the forest's
class map, and returns the softmax of the logits: a probability vector of
length NumClasses summing to 1.

A forest with no trees yields all-zero logits and therefore a uniform
distribution. Softmax is applied for every number of classes, including 1,
where the result is always [1.0]; callers that want the raw single-class
score should sum Tree.Score themselves.
*/
func (f *Forest) Predict(features []float64) []float64 {
	cm := f.ClassMap()
	logits := make([]float64, f.NumClasses)
	for i, t := range f.Trees {
		logits[cm.ClassOf(i)] += t.Score(features)
	}
	return Softmax(logits)
}

/*
Softmax returns the softmax of the given logit vector, computed in the
numerically stable form: the maximum logit is subtracted from every entry
before exponentiating, which cannot overflow and does not change the
mathematical result. An empty input returns an empty vector.
*/
func Softmax(logits []float64) []float64 {
	if len(logits) == 0 {
		return nil
	}
	max := logits[0]
	for _, l := range logits[1:] {
		if l > max {
			max = l
		}
	}
	exps := make([]float64, len(logits))
	var sum float64
	for i, l := range logits {
		exps[i] = math.Exp(l - max)
		sum += exps[i]
	}
	for i := range exps {
		exps[i] /= sum
	}
	return exps
}
