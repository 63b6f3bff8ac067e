/*
Package determinize turns a handle-finding automaton (possibly still
carrying non-deterministic reduce candidates after precedence-driven
pruning) into a dense action/goto table: one row per state, one column
per terminal (action) or non-terminal (goto). Three styles govern what
happens when a cell would otherwise hold more than one action: strict
determinism raises an error, permissive determinism favors shift and
otherwise the lowest-numbered rule, and the generalized style keeps every
candidate behind a split entry for a GLR-style runtime to explore.
*/
package determinize

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lrforge.determinize'.
func tracer() tracing.Trace {
	return tracing.Select("lrforge.determinize")
}
