/*
Package graph implements the traversal and classification plumbing shared by
the lex (NFA→DFA) and hfa (LR automaton) construction layers: breadth-first
traversal with canonical keys, transitive closure, Tarjan strongly-connected
components, a hash-keyed equivalence classifier, and first-fit-decreasing
displacement packing for sparse-matrix compaction.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package graph

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lrforge.graph'.
func tracer() tracing.Trace {
	return tracing.Select("lrforge.graph")
}
