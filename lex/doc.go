/*
Package lex turns the NFA built by package regex into a compact, minimal
DFA: subset construction with rule ranks, Moore state minimization, and
input-alphabet (column) minimization.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package lex

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lrforge.lex'.
func tracer() tracing.Trace {
	return tracing.Select("lrforge.lex")
}
