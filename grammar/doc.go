/*
Package grammar implements the context-free grammar data model: symbols,
rules, a grammar builder, and static grammar analysis (nullability,
FIRST-sets, and the well-founded/reachable/rename-loop/epsilon-loop
validation checks).

Example:

    b := grammar.NewBuilder("G")
    b.LHS("S").N("A").T("a", 1).End()  // S -> A a
    b.LHS("A").T("b", 2).End()         // A -> b
    b.LHS("A").Epsilon()               // A ->
    b.Start("S")
    g := b.Grammar()

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package grammar

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lrforge.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("lrforge.grammar")
}
