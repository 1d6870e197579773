package booster

import (
	"fmt"
	"strconv"

	"github.com/mgessner/canopy/forest"
)

/*
Normalizer converts raw tree objects into canonical trees. The
zero value is ready to use.

FeatureMap optionally maps feature names to feature-vector
indices, for sources that encode split features as name strings.
With a map set, a non-numeric name missing from it makes
Normalize fail with an UnresolvableFeatureError. With no map,
such a name degrades to feature index 0 and is reported as a
FeatureNameFallback diagnostic, which keeps old name-encoded
dumps compiling at a known precision cost.
*/
type Normalizer struct {
	FeatureMap map[string]int
}

/*
Normalize takes one raw tree object of unknown encoding and
returns its canonical tree, the Schema it was detected as, and
the diagnostics recovered while interpreting it. The Tree field
of returned diagnostics is left at -1 for the caller to fill in
with the tree's forest position.

A tree matching no known encoding, or one with no interpretable
nodes, returns the stub tree together with an
UnrecognizedTreeSchema diagnostic and no error. The only error
condition is an unresolvable feature name (see FeatureMap).
*/
func (nz *Normalizer) Normalize(raw interface{}) (*forest.Tree, Schema, []Diagnostic, error) {
	schema := Detect(raw)
	if schema == Unrecognized {
		return forest.Stub(), schema, []Diagnostic{stubDiagnostic("tree object matches no known encoding")}, nil
	}
	obj := raw.(map[string]interface{})
	var t *forest.Tree
	var diags []Diagnostic
	var err error
	switch schema {
	case FlatColumnar:
		t, diags = nz.normalizeColumnar(obj)
	case NestedNodeObject:
		t, diags, err = nz.normalizeNested(obj)
	case FlatNodeList:
		t, diags, err = nz.normalizeNodeList(obj)
	}
	if err != nil {
		return nil, schema, diags, err
	}
	if t.Len() == 0 || t.Get(t.RootID) == nil {
		return forest.Stub(), schema, append(diags, stubDiagnostic("no interpretable nodes")), nil
	}
	diags = append(diags, danglingReferences(t)...)
	return t, schema, diags, nil
}

func stubDiagnostic(msg string) Diagnostic {
	return Diagnostic{Tree: -1, Code: UnrecognizedTreeSchema, Message: msg + ", emitting stub"}
}

/*
normalizeColumnar interprets the parallel-array encoding. Node i
is a leaf iff both its left and right child entries are negative
sentinels. Leaf values are taken from base_weights positionally
when the array covers every node, positionally among leaf
indices when it covers exactly the leaves, and broadcast from
the first entry otherwise (degraded but non-fatal). The missing
branch follows default_left, defaulting to the left (yes) child.
The root is node 0.
*/
func (nz *Normalizer) normalizeColumnar(obj map[string]interface{}) (*forest.Tree, []Diagnostic) {
	var diags []Diagnostic
	left := intArray(obj["left_children"])
	right := intArray(obj["right_children"])
	splits := intArray(obj["split_indices"])
	conds := floatArray(obj["split_conditions"])
	weights := floatArray(obj["base_weights"])
	defaultLeft := intArray(obj["default_left"])

	n := len(left)
	if len(right) < n {
		n = len(right)
	}
	isLeaf := func(i int) bool { return left[i] < 0 && right[i] < 0 }
	var leaves []int
	for i := 0; i < n; i++ {
		if isLeaf(i) {
			leaves = append(leaves, i)
		}
	}
	leafValue := make(map[int]float64, len(leaves))
	switch {
	case len(weights) == n:
		for i := 0; i < n; i++ {
			leafValue[i] = weights[i]
		}
	case len(weights) == len(leaves):
		for j, i := range leaves {
			leafValue[i] = weights[j]
		}
	default:
		var v float64
		if len(weights) > 0 {
			v = weights[0]
		}
		for _, i := range leaves {
			leafValue[i] = v
		}
		diags = append(diags, Diagnostic{
			Tree: -1,
			Code: BroadcastLeafValues,
			Message: fmt.Sprintf("leaf value array length %d matches neither %d nodes nor %d leaves, broadcasting %v",
				len(weights), n, len(leaves), v),
		})
	}

	t := forest.New(0)
	for i := 0; i < n; i++ {
		if isLeaf(i) {
			t.Add(forest.NewLeaf(i, leafValue[i]))
			continue
		}
		var feat int
		if i < len(splits) {
			feat = splits[i]
		}
		if feat < 0 {
			feat = 0
		}
		var cond float64
		if i < len(conds) {
			cond = conds[i]
		}
		missing := left[i]
		if i < len(defaultLeft) && defaultLeft[i] == 0 {
			missing = right[i]
		}
		t.Add(forest.NewSplit(i, feat, cond, left[i], right[i], missing))
	}
	return t, diags
}

/*
normalizeNested interprets the nested-node-object encoding: it
traverses the object graph without assuming any ordering,
collecting every object that declares a nodeid into the arena,
following children lists as well as left/right sub-objects. The
root resolves to node 0 when present and to the minimum node id
otherwise.
*/
func (nz *Normalizer) normalizeNested(obj map[string]interface{}) (*forest.Tree, []Diagnostic, error) {
	collected := make(map[int]map[string]interface{})
	stack := []interface{}{obj}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node, ok := v.(map[string]interface{})
		if !ok {
			continue
		}
		if id, ok := asInt(node["nodeid"]); ok {
			collected[id] = node
		}
		switch ch := node["children"].(type) {
		case []interface{}:
			stack = append(stack, ch...)
		case map[string]interface{}:
			stack = append(stack, ch)
		}
		for _, key := range []string{"left", "right"} {
			if sub, ok := node[key].(map[string]interface{}); ok {
				stack = append(stack, sub)
			}
		}
	}
	return nz.fromNodeObjects(collected)
}

/*
normalizeNodeList interprets the flat node-list encoding, where
every entry of the nodes array independently declares its own
nodeid and references siblings by id.
*/
func (nz *Normalizer) normalizeNodeList(obj map[string]interface{}) (*forest.Tree, []Diagnostic, error) {
	collected := make(map[int]map[string]interface{})
	nodes, _ := obj["nodes"].([]interface{})
	for _, v := range nodes {
		node, ok := v.(map[string]interface{})
		if !ok {
			continue
		}
		if id, ok := asInt(node["nodeid"]); ok {
			collected[id] = node
		}
	}
	return nz.fromNodeObjects(collected)
}

func (nz *Normalizer) fromNodeObjects(collected map[int]map[string]interface{}) (*forest.Tree, []Diagnostic, error) {
	if len(collected) == 0 {
		return forest.New(0), nil, nil
	}
	root, rootFound := 0, false
	for id := range collected {
		if id == 0 {
			root, rootFound = 0, true
			break
		}
		if !rootFound || id < root {
			root, rootFound = id, true
		}
	}
	t := forest.New(root)
	var diags []Diagnostic
	for id, obj := range collected {
		n, ds, err := nz.nodeFromObject(id, obj)
		if err != nil {
			return nil, diags, err
		}
		diags = append(diags, ds...)
		t.Add(n)
	}
	return t, diags, nil
}

/*
nodeFromObject converts one raw node object into a canonical
node. A node with a leaf value is a leaf; a node with no split
feature at all is treated as a leaf of its declared value or
0.0. Yes/no children come from explicit fields when present and
from the first two entries of the children list otherwise; the
missing branch defaults to yes.
*/
func (nz *Normalizer) nodeFromObject(id int, obj map[string]interface{}) (*forest.Node, []Diagnostic, error) {
	if v, ok := asFloat(obj["leaf"]); ok {
		return forest.NewLeaf(id, v), nil, nil
	}
	feat, diags, ok, err := nz.featureIndex(obj)
	if err != nil {
		return nil, diags, err
	}
	if !ok {
		return forest.NewLeaf(id, 0.0), diags, nil
	}
	if feat < 0 {
		feat = 0
	}
	threshold, ok := asFloat(obj["split_condition"])
	if !ok {
		threshold, _ = asFloat(obj["threshold"])
	}
	yes, yesOK := asInt(obj["yes"])
	no, noOK := asInt(obj["no"])
	if !yesOK || !noOK {
		if ch, ok := obj["children"].([]interface{}); ok && len(ch) >= 2 {
			yes, yesOK = childID(ch[0])
			no, noOK = childID(ch[1])
		}
	}
	if !yesOK {
		yes = -1
	}
	if !noOK {
		no = -1
	}
	missing, ok := asInt(obj["missing"])
	if !ok {
		missing = yes
	}
	return forest.NewSplit(id, feat, threshold, yes, no, missing), diags, nil
}

/*
featureIndex extracts the split feature index of a raw node,
probing split_index, then split_feature, then split. A name
string is parsed as a number first and resolved through the
feature map second; with no map it degrades to index 0 with a
FeatureNameFallback diagnostic. The third return value is false
when the node declares no split feature at all.
*/
func (nz *Normalizer) featureIndex(obj map[string]interface{}) (int, []Diagnostic, bool, error) {
	var raw interface{}
	for _, key := range []string{"split_index", "split_feature", "split"} {
		if v, ok := obj[key]; ok {
			raw = v
			break
		}
	}
	switch v := raw.(type) {
	case nil:
		return 0, nil, false, nil
	case float64:
		return int(v), nil, true, nil
	case string:
		if i, err := strconv.Atoi(v); err == nil {
			return i, nil, true, nil
		}
		if nz.FeatureMap != nil {
			i, ok := nz.FeatureMap[v]
			if !ok {
				return 0, nil, true, &UnresolvableFeatureError{Name: v}
			}
			return i, nil, true, nil
		}
		d := Diagnostic{
			Tree:    -1,
			Code:    FeatureNameFallback,
			Message: fmt.Sprintf("split feature %q is not numeric and no feature map was supplied, using index 0", v),
		}
		return 0, []Diagnostic{d}, true, nil
	}
	return 0, nil, false, nil
}

func childID(v interface{}) (int, bool) {
	obj, ok := v.(map[string]interface{})
	if !ok {
		return 0, false
	}
	return asInt(obj["nodeid"])
}

/*
danglingReferences walks the reachable part of the tree and
reports every child reference that does not resolve to a node in
the arena. Such references are not fatal: walks reaching them
score an implicit leaf of value 0.0.
*/
func danglingReferences(t *forest.Tree) []Diagnostic {
	var diags []Diagnostic
	seen := make(map[int]bool)
	stack := []int{t.RootID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[id] {
			continue
		}
		seen[id] = true
		n := t.Get(id)
		if n == nil || n.Leaf {
			continue
		}
		for _, child := range []int{n.Yes, n.No} {
			if t.Get(child) == nil {
				diags = append(diags, Diagnostic{
					Tree:    -1,
					Code:    UnresolvableReference,
					Message: fmt.Sprintf("node %d references missing child %d, scoring it as leaf 0.0", id, child),
				})
				continue
			}
			stack = append(stack, child)
		}
	}
	return diags
}

func intArray(v interface{}) []int {
	raw, ok := v.([]interface{})
	if !ok {
		return nil
	}
	list := make([]int, len(raw))
	for i, e := range raw {
		switch n := e.(type) {
		case float64:
			list[i] = int(n)
		case bool:
			if n {
				list[i] = 1
			}
		}
	}
	return list
}

func floatArray(v interface{}) []float64 {
	raw, ok := v.([]interface{})
	if !ok {
		return nil
	}
	list := make([]float64, len(raw))
	for i, e := range raw {
		if n, ok := e.(float64); ok {
			list[i] = n
		}
	}
	return list
}
