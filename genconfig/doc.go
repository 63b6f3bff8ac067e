/*
Package genconfig loads the small per-run configuration a generator
invocation needs: which determinization style to use, the output version
triple to stamp, and the trace level to run at. Loaded from TOML, the way
sibling pack repo dekarrin/tunaq loads its own tool configuration with
github.com/BurntSushi/toml. It also decodes the JSON grammar/lexicon input
contract spec §6 "External Interfaces" describes and replays it through
grammar.Builder and the regex package.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package genconfig

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lrforge.genconfig'.
func tracer() tracing.Trace {
	return tracing.Select("lrforge.genconfig")
}
