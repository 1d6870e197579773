/*
Package booster interprets serialized gradient-boosted-tree ensembles
whose JSON encoding is only loosely specified: it locates the tree list
and model parameters inside a booster document regardless of nesting
depth, detects which of the known tree encodings each tree object uses,
and normalizes every tree into the canonical forest representation.

Interpretation is deliberately forgiving. A tree that cannot be
understood degrades to a stub instead of failing the run, and every
degradation is reported as a Diagnostic. The only fatal condition is a
document with no tree list at all.
*/
package booster

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrMissingTreeList is returned by Locate when the document
// contains no trees array anywhere in its structure. It is the
// only fatal interpretation error: with no trees there is
// nothing to compile.
var ErrMissingTreeList = errors.New("no trees list found in booster document")

/*
UnresolvableFeatureError is returned when a split feature is
encoded as a non-numeric name that the caller-supplied feature
map does not contain. Scoring against a guessed feature would
silently produce wrong predictions, so with a map present this
is a hard error.
*/
type UnresolvableFeatureError struct {
	Name string
}

func (e *UnresolvableFeatureError) Error() string {
	return fmt.Sprintf("split feature %q not present in feature map", e.Name)
}

/*
Document is the located payload of a serialized booster: the raw
tree objects in their original order, the number of output
classes and the optional explicit per-tree class list.
*/
type Document struct {
	Trees      []interface{}
	NumClasses int
	TreeInfo   []int
}

/*
Locate takes a decoded JSON document and finds its booster
payload. The trees array is looked up at the common booster
paths first and located by recursive scan as a last resort:

	learner.gradient_booster.model.trees
	learner.gradient_booster.trees
	trees
	(first object holding a trees array, depth-first)

The number of classes comes from
learner.learner_model_param.num_class (a string in most dumps),
falling back to learner.objective.softmax_multiclass_param.num_class
and defaulting to 1. The tree_info class list, when present and
well-formed, is read from the same object that holds the trees.

Locate returns ErrMissingTreeList when no trees array exists
anywhere in the document.
*/
func Locate(doc interface{}) (*Document, error) {
	holder := treesHolder(doc)
	if holder == nil {
		return nil, ErrMissingTreeList
	}
	trees, _ := holder["trees"].([]interface{})
	d := &Document{
		Trees:      trees,
		NumClasses: numClasses(doc),
		TreeInfo:   intList(holder["tree_info"]),
	}
	return d, nil
}

// treesHolder returns the first object in the document holding a
// trees array, preferring the common booster paths over a full
// depth-first scan.
func treesHolder(doc interface{}) map[string]interface{} {
	for _, candidate := range []interface{}{
		dig(doc, "learner", "gradient_booster", "model"),
		dig(doc, "learner", "gradient_booster"),
		doc,
	} {
		if obj, ok := candidate.(map[string]interface{}); ok {
			if _, ok := obj["trees"].([]interface{}); ok {
				return obj
			}
		}
	}
	return scanForTrees(doc)
}

func scanForTrees(v interface{}) map[string]interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		if _, ok := val["trees"].([]interface{}); ok {
			return val
		}
		for _, sub := range val {
			if found := scanForTrees(sub); found != nil {
				return found
			}
		}
	case []interface{}:
		for _, sub := range val {
			if found := scanForTrees(sub); found != nil {
				return found
			}
		}
	}
	return nil
}

func numClasses(doc interface{}) int {
	for _, candidate := range []interface{}{
		dig(doc, "learner", "learner_model_param", "num_class"),
		dig(doc, "learner", "objective", "softmax_multiclass_param", "num_class"),
	} {
		if n, ok := asInt(candidate); ok && n > 1 {
			return n
		}
	}
	return 1
}

// dig walks nested JSON objects by key, returning nil as soon
// as a key is missing or a level is not an object.
func dig(v interface{}, keys ...string) interface{} {
	for _, k := range keys {
		obj, ok := v.(map[string]interface{})
		if !ok {
			return nil
		}
		v = obj[k]
	}
	return v
}

// asInt converts the numeric shapes JSON decoding produces,
// including numbers serialized as strings the way booster dumps
// store their model parameters.
func asInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

func asFloat(v interface{}) (float64, bool) {
	n, ok := v.(float64)
	return n, ok
}

func intList(v interface{}) []int {
	raw, ok := v.([]interface{})
	if !ok || len(raw) == 0 {
		return nil
	}
	list := make([]int, 0, len(raw))
	for _, e := range raw {
		n, ok := asInt(e)
		if !ok {
			return nil
		}
		list = append(list, n)
	}
	return list
}
