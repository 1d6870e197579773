package emit

import (
	"bytes"
	"fmt"
	"io"

	"github.com/mgessner/canopy/forest"
)

const softmaxSource = `function softmax(arr) {
  const m = Math.max(...arr);
  const exps = arr.map(v => Math.exp(v - m));
  const sum = exps.reduce((a, b) => a + b, 0);
  return exps.map(v => v / sum);
}
`

/*
WriteModule assembles already-emitted per-tree sources into one
self-contained ES module and writes it to the given io.Writer. The
module exposes exactly one export, predict(f), which:

 1. initializes one logit per class to zero,
 2. adds each tree's score to its class's logit, iterating trees in
    their original forest order (floating-point summation is not
    associative, so the explicit per-tree statements both document and
    pin the summation order), and
 3. returns the numerically stable softmax of the logits.

Softmax is applied for every class count, including a single class,
where predict always returns [1.0]. A forest with no trees leaves the
logits at zero and predict returns the uniform distribution.

The treeSources must be in forest order and each hold one function
emitted by WriteTree; the class map decides which logit each tree's
score is added to.
*/
func WriteModule(w io.Writer, treeSources [][]byte, classes *forest.ClassMap) error {
	buf := &bytes.Buffer{}
	fmt.Fprintf(buf, "// AUTO-GENERATED by canopy. DO NOT EDIT.\n")
	fmt.Fprintf(buf, "// %d trees, %d classes.\n\n", len(treeSources), classes.NumClasses())
	for _, src := range treeSources {
		buf.Write(src)
		buf.WriteByte('\n')
	}
	buf.WriteString(softmaxSource)
	buf.WriteByte('\n')
	fmt.Fprintf(buf, "export function predict(f) {\n")
	fmt.Fprintf(buf, "  const logits = new Array(%d).fill(0);\n", classes.NumClasses())
	for i := range treeSources {
		fmt.Fprintf(buf, "  logits[%d] += tree_%d(f);\n", classes.ClassOf(i), i)
	}
	buf.WriteString("  return softmax(logits);\n}\n")
	_, err := w.Write(buf.Bytes())
	if err != nil {
		return fmt.Errorf("emitting module: %v", err)
	}
	return nil
}

/*
WriteForest compiles every tree of the given forest and assembles the
full module in one call, writing it to the given io.Writer. It is the
single-threaded convenience over WriteTree and WriteModule; the
compiler's orchestration layer emits trees concurrently and assembles
them itself.
*/
func WriteForest(w io.Writer, f *forest.Forest) error {
	sources := make([][]byte, len(f.Trees))
	for i, t := range f.Trees {
		buf := &bytes.Buffer{}
		if err := WriteTree(buf, t, i); err != nil {
			return err
		}
		sources[i] = buf.Bytes()
	}
	return WriteModule(w, sources, f.ClassMap())
}
