package canopy

import (
	"fmt"
	"strings"

	"github.com/mgessner/canopy/booster"
)

// DefaultMaxDiagnostics is the number of diagnostics a Report
// keeps before it starts counting instead of collecting.
const DefaultMaxDiagnostics = 8

/*
Report aggregates the problems recovered during one compilation
run. Per-tree problems are degraded locally (stub substitution,
implicit zero leaves, round-robin fallback) and reported here
instead of aborting the run; a bounded number of diagnostics is
kept verbatim and the rest only counted, so a model with
thousands of malformed trees does not drown the caller.
*/
type Report struct {
	Diagnostics []booster.Diagnostic
	Suppressed  int

	max int
}

/*
NewReport returns an empty report keeping at most max
diagnostics, or DefaultMaxDiagnostics when max is not positive.
*/
func NewReport(max int) *Report {
	if max <= 0 {
		max = DefaultMaxDiagnostics
	}
	return &Report{max: max}
}

// Add records the given diagnostics, keeping them verbatim while
// the report has room and counting them as suppressed after.
func (r *Report) Add(diags ...booster.Diagnostic) {
	for _, d := range diags {
		if len(r.Diagnostics) < r.max {
			r.Diagnostics = append(r.Diagnostics, d)
			continue
		}
		r.Suppressed++
	}
}

// Empty returns true when the run recovered no problems at all.
func (r *Report) Empty() bool {
	return len(r.Diagnostics) == 0 && r.Suppressed == 0
}

func (r *Report) String() string {
	if r.Empty() {
		return "no diagnostics"
	}
	lines := make([]string, 0, len(r.Diagnostics)+1)
	for _, d := range r.Diagnostics {
		lines = append(lines, d.String())
	}
	if r.Suppressed > 0 {
		lines = append(lines, fmt.Sprintf("... and %d more diagnostics suppressed", r.Suppressed))
	}
	return strings.Join(lines, "\n")
}
