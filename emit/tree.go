/*
Package emit compiles canonical forests into standalone JavaScript
scoring modules: one side-effect-free function per tree, plus a predict
entry point that sums per-class logits in forest order and applies a
numerically stable softmax. The emitted text depends on nothing at its
own invocation time, neither on this compiler nor on any JSON parsing.
*/
package emit

import (
	"bytes"
	"fmt"
	"io"

	"github.com/mgessner/canopy/forest"
)

/*
WriteTree compiles one canonical tree into a scoring function named
tree_<index> taking the flat feature vector f and returning the leaf
value reached by walking the tree, and writes it to the given
io.Writer.

The emitted comparison reproduces the canonical node exactly: the walk
takes the yes branch iff f[featureIndex] <= threshold. A node whose
missing branch is the yes child is emitted as !(f[i] > t) instead of
f[i] <= t, which is the same comparison for ordinary values but routes
NaN and absent features to the yes branch, matching the canonical
missing-branch semantics without any extra runtime check.

A degenerate tree (no nodes, unresolved root) compiles to a constant
zero function, as does any walk reaching an unresolvable child
reference. A node already on the active path (a cycle, which Validate
would reject) terminates the branch with a constant zero rather than
recursing forever.
*/
func WriteTree(w io.Writer, t *forest.Tree, index int) error {
	buf := &bytes.Buffer{}
	fmt.Fprintf(buf, "function tree_%d(f) {\n", index)
	writeNode(buf, t, t.RootID, 1, make(map[int]bool))
	buf.WriteString("}\n")
	_, err := w.Write(buf.Bytes())
	if err != nil {
		return fmt.Errorf("emitting tree %d: %v", index, err)
	}
	return nil
}

func writeNode(buf *bytes.Buffer, t *forest.Tree, id, depth int, onPath map[int]bool) {
	sp := indent(depth)
	n := t.Get(id)
	if n == nil || onPath[id] {
		fmt.Fprintf(buf, "%sreturn 0;\n", sp)
		return
	}
	if n.Leaf {
		fmt.Fprintf(buf, "%sreturn %s;\n", sp, Literal(n.LeafValue))
		return
	}
	cond := fmt.Sprintf("f[%d] <= %s", n.FeatureIndex, Literal(n.Threshold))
	if n.Missing == n.Yes {
		cond = fmt.Sprintf("!(f[%d] > %s)", n.FeatureIndex, Literal(n.Threshold))
	}
	onPath[id] = true
	fmt.Fprintf(buf, "%sif (%s) {\n", sp, cond)
	writeNode(buf, t, n.Yes, depth+1, onPath)
	fmt.Fprintf(buf, "%s} else {\n", sp)
	writeNode(buf, t, n.No, depth+1, onPath)
	fmt.Fprintf(buf, "%s}\n", sp)
	delete(onPath, id)
}

func indent(depth int) string {
	b := make([]byte, 2*depth)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
