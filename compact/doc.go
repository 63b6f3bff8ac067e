/*
Package compact turns the dense, human-legible intermediate structures
produced by determinize and lex into the sparse, space-efficient tables a
table-driven runtime actually ships: a boolean background/exception split
for the scanner's transition matrix, default-reduction plus edit-distance
fallback chains for the parser's ACTION table, and iterative quotient
pull-out plus first-fit-decreasing packing for the parser's GOTO table.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package compact

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lrforge.compact'.
func tracer() tracing.Trace {
	return tracing.Select("lrforge.compact")
}
