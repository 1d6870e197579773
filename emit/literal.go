package emit

import (
	"math"
	"strconv"
)

/*
Literal formats a float64 as a JavaScript numeric literal with
full round-trip precision: the shortest decimal text that parses
back to exactly the same float64. Every number the emitter
writes, thresholds and leaf values alike, goes through this one
routine so emitted modules are numerically indistinguishable
from interpreting the canonical forest directly.
*/
func Literal(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
