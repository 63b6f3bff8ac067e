/*
Package output renders the compacted tables produced by compact, lex and
grammar into the nested JSON artifact spec §6 "External Interfaces"
describes: scanner alphabet/delta/initial/final/action, parser
action/goto/rule/splits/terminals/nonterminals/initial/breadcrumbs, and a
version triple plus a run identifier stamping the whole set.

This package performs no construction of its own — it is a pure
assembly/serialization layer over artifacts the earlier pipeline stages
already computed.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package output

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lrforge.output'.
func tracer() tracing.Trace {
	return tracing.Select("lrforge.output")
}
