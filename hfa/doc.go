/*
Package hfa builds handle-finding automata from a validated grammar: the
LR(0) characteristic finite state machine, its LALR(1) lookahead
enrichment, the canonical LR(1) construction, and a minimal-LR(1) hybrid
that only splits states where LALR genuinely under-approximates. A final
pass resolves shift/reduce and reduce/reduce conflicts using declared
operator precedence and associativity.

The grammar is implicitly augmented: for every declared start symbol, a
synthetic accept rule exists whose single right-hand-side symbol is the
start symbol. Synthetic items are never exposed to callers as grammar.Rule
values; they only shape the automaton's initial and accepting states.
*/
package hfa

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lrforge.hfa'.
func tracer() tracing.Trace {
	return tracing.Select("lrforge.hfa")
}
