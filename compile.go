/*
Package canopy compiles serialized gradient-boosted-tree ensembles into
self-contained JavaScript scoring modules.

Compile drives the whole pipeline: the booster package locates and
normalizes the loosely-specified source JSON into a canonical forest,
the forest package decides which class each tree contributes to, and
the emit package turns the canonical trees into dependency-free scoring
code. Trees are independent of each other, so normalization and
per-tree emission run on a bounded worker pool and are reassembled in
original forest order before the final module is put together.
*/
package canopy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"runtime"
	"sync"

	"github.com/mgessner/canopy/booster"
	"github.com/mgessner/canopy/emit"
	"github.com/mgessner/canopy/featuremap"
	"github.com/mgessner/canopy/forest"
)

/*
Options configures a compilation run. The zero value compiles
with one worker per CPU, no feature map and the default
diagnostic bound.
*/
type Options struct {
	// Workers is the number of trees normalized and emitted
	// concurrently. Non-positive means one per CPU.
	Workers int
	// FeatureMap resolves name-encoded split features to
	// feature-vector indices. With a map set, an unmapped name
	// fails the run; with none, it degrades to index 0 and is
	// reported.
	FeatureMap featuremap.Map
	// MaxDiagnostics bounds how many diagnostics the report
	// keeps verbatim. Non-positive means DefaultMaxDiagnostics.
	MaxDiagnostics int
}

func (o *Options) workers() int {
	if o != nil && o.Workers > 0 {
		return o.Workers
	}
	return runtime.NumCPU()
}

func (o *Options) featureMap() featuremap.Map {
	if o == nil {
		return nil
	}
	return o.FeatureMap
}

func (o *Options) maxDiagnostics() int {
	if o == nil {
		return 0
	}
	return o.MaxDiagnostics
}

/*
Artifact is the product of one compilation run: the emitted
module source together with the report of every problem the run
recovered from. The artifact is plain text; it carries no
reference back to the compiler.
*/
type Artifact struct {
	Source     []byte
	NumTrees   int
	NumClasses int
	Report     *Report
}

/*
Model is a normalized but not yet emitted ensemble: the
canonical forest, the detected schema of every tree in forest
order and the normalization report. It is what the compiler
works on internally and what inspection and reference
prediction consume.
*/
type Model struct {
	Forest  *forest.Forest
	Schemas []booster.Schema
	Report  *Report
}

/*
Compile takes a context, a serialized booster document and
options, and compiles the document into a scoring module. It
returns an error if the document is not valid JSON, if it
contains no trees list anywhere in its structure, if a
name-encoded split feature cannot be resolved through the
supplied feature map, or if the context is cancelled; every
other problem is degraded locally and surfaced on the
artifact's report.
*/
func Compile(ctx context.Context, doc []byte, opts *Options) (*Artifact, error) {
	var decoded interface{}
	if err := json.Unmarshal(doc, &decoded); err != nil {
		return nil, fmt.Errorf("decoding booster document: %v", err)
	}
	return CompileDocument(ctx, decoded, opts)
}

/*
CompileDocument is Compile for an already-decoded JSON document,
for callers that hold the parsed structure rather than its
bytes.
*/
func CompileDocument(ctx context.Context, doc interface{}, opts *Options) (*Artifact, error) {
	model, sources, err := normalize(ctx, doc, opts, true)
	if err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	if err := emit.WriteModule(buf, sources, model.Forest.ClassMap()); err != nil {
		return nil, err
	}
	return &Artifact{
		Source:     buf.Bytes(),
		NumTrees:   len(model.Forest.Trees),
		NumClasses: model.Forest.NumClasses,
		Report:     model.Report,
	}, nil
}

/*
Normalize takes a context, a serialized booster document and
options and returns the normalized Model without emitting any
code. Inspection and reference prediction build on it. The error
conditions are the same as Compile's.
*/
func Normalize(ctx context.Context, doc []byte, opts *Options) (*Model, error) {
	var decoded interface{}
	if err := json.Unmarshal(doc, &decoded); err != nil {
		return nil, fmt.Errorf("decoding booster document: %v", err)
	}
	model, _, err := normalize(ctx, decoded, opts, false)
	return model, err
}

type treeResult struct {
	tree   *forest.Tree
	schema booster.Schema
	source []byte
	diags  []booster.Diagnostic
	err    error
}

func normalize(ctx context.Context, doc interface{}, opts *Options, emitTrees bool) (*Model, [][]byte, error) {
	located, err := booster.Locate(doc)
	if err != nil {
		return nil, nil, fmt.Errorf("locating booster payload: %w", err)
	}
	results := make([]treeResult, len(located.Trees))
	indexes := make(chan int)
	wg := &sync.WaitGroup{}
	for w := 0; w < opts.workers(); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			nz := &booster.Normalizer{FeatureMap: opts.featureMap()}
			for i := range indexes {
				if ctx.Err() != nil {
					return
				}
				results[i] = compileTree(nz, located.Trees[i], i, emitTrees)
			}
		}()
	}
feed:
	for i := range located.Trees {
		select {
		case indexes <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(indexes)
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	report := NewReport(opts.maxDiagnostics())
	f := forest.NewForest(located.NumClasses)
	f.TreeClasses = located.TreeInfo
	sources := make([][]byte, len(results))
	for i, res := range results {
		if res.err != nil {
			return nil, nil, fmt.Errorf("tree %d: %w", i, res.err)
		}
		f.Trees = append(f.Trees, res.tree)
		sources[i] = res.source
		report.Add(res.diags...)
	}
	model := &Model{Forest: f, Report: report}
	for _, res := range results {
		model.Schemas = append(model.Schemas, res.schema)
	}
	if len(located.TreeInfo) > 0 && !f.ClassMap().Explicit() {
		report.Add(booster.Diagnostic{
			Tree: -1,
			Code: booster.InconsistentClassMapping,
			Message: fmt.Sprintf("tree_info has %d entries for %d trees and %d classes, falling back to round-robin",
				len(located.TreeInfo), len(f.Trees), f.NumClasses),
		})
	}
	return model, sources, nil
}

/*
compileTree normalizes one raw tree object and, when asked to,
emits its scoring function. A canonical tree that fails
validation after normalization is malformed beyond local repair
and degrades to the stub, like a tree of unknown encoding. Every
diagnostic is stamped with the tree's forest position.
*/
func compileTree(nz *booster.Normalizer, raw interface{}, index int, emitSource bool) treeResult {
	res := treeResult{}
	t, schema, diags, err := nz.Normalize(raw)
	if err != nil {
		return treeResult{err: err}
	}
	if verr := t.Validate(); verr != nil {
		diags = append(diags, booster.Diagnostic{
			Tree:    -1,
			Code:    booster.UnrecognizedTreeSchema,
			Message: fmt.Sprintf("normalized tree is malformed (%v), emitting stub", verr),
		})
		t = forest.Stub()
	}
	res.tree = t
	res.schema = schema
	for i := range diags {
		diags[i].Tree = index
	}
	res.diags = diags
	if emitSource {
		buf := &bytes.Buffer{}
		if err := emit.WriteTree(buf, t, index); err != nil {
			return treeResult{err: err}
		}
		res.source = buf.Bytes()
	}
	return res
}
