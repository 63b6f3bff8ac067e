/*
Tablegen drives one end-to-end table-generator run: it reads a grammar
spec and a lexicon spec (both pre-parsed JSON, see package genconfig), runs
them through construction, conflict resolution, determinization and
compaction, and writes the resulting compact table set as JSON.

Usage:

	tablegen [flags]

The flags are:

	-c, --config FILE
		TOML run configuration (determinization style, version triple,
		trace level). Defaults to genconfig.Default() when omitted.

	-g, --grammar FILE
		JSON-encoded genconfig.GrammarSpec.

	-l, --lexicon FILE
		JSON-encoded genconfig.LexiconSpec.

	-o, --out FILE
		Destination for the emitted table-set JSON. Defaults to stdout.

	-s, --style STYLE
		HFA construction style: "lalr" (default), "canonical", or "minimal".

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/pflag"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/halvardal/lrforge/compact"
	"github.com/halvardal/lrforge/determinize"
	"github.com/halvardal/lrforge/genconfig"
	"github.com/halvardal/lrforge/grammar"
	"github.com/halvardal/lrforge/hfa"
	"github.com/halvardal/lrforge/lex"
	"github.com/halvardal/lrforge/output"
	"github.com/halvardal/lrforge/regex"
)

const (
	exitSuccess = iota
	exitBadInput
	exitBuildError
)

var (
	configFile  = pflag.StringP("config", "c", "", "TOML run configuration")
	grammarFile = pflag.StringP("grammar", "g", "", "JSON grammar spec (required)")
	lexiconFile = pflag.StringP("lexicon", "l", "", "JSON lexicon spec (required)")
	outFile     = pflag.StringP("out", "o", "", "Output path for the table-set JSON; stdout if empty")
	style       = pflag.StringP("style", "s", "lalr", "HFA construction style: lalr|canonical|minimal")
)

func main() {
	os.Exit(run())
}

func run() int {
	initDisplay()
	gtrace.SyntaxTracer = gologadapter.New()
	pflag.Parse()

	cfg, err := genconfig.Load(*configFile)
	if err != nil {
		pterm.Error.Println(err.Error())
		return exitBadInput
	}
	tracer().SetTraceLevel(tracing.TraceLevelFromString(cfg.TraceLevel))

	if *grammarFile == "" || *lexiconFile == "" {
		pterm.Error.Println("both --grammar and --lexicon are required")
		return exitBadInput
	}

	grammarSpec, err := loadGrammarSpec(*grammarFile)
	if err != nil {
		pterm.Error.Println(err.Error())
		return exitBadInput
	}
	g, err := grammarSpec.Build()
	if err != nil {
		pterm.Error.Println(err.Error())
		return exitBuildError
	}
	numTerminals := 0
	g.EachTerminal(func(*grammar.Symbol) { numTerminals++ })
	pterm.Info.Println(fmt.Sprintf("grammar %q: %d rules, %d terminals", grammarSpec.Name, g.NumRules(), numTerminals))

	lexiconSpec, err := loadLexiconSpec(*lexiconFile)
	if err != nil {
		pterm.Error.Println(err.Error())
		return exitBadInput
	}
	patterns, meta, err := lexiconSpec.Build(nil)
	if err != nil {
		pterm.Error.Println(err.Error())
		return exitBuildError
	}

	pruned, err := buildAutomaton(g, *style)
	if err != nil {
		pterm.Error.Println(err.Error())
		return exitBuildError
	}
	pterm.Info.Println(fmt.Sprintf("automaton (%s): %d states", *style, len(pruned.Breadcrumbs)))

	tbl, err := determinize.Determinize(pruned, cfg.DeterminizeStyle())
	if err != nil {
		pterm.Error.Println(err.Error())
		return exitBuildError
	}
	act := compact.CompactAction(tbl)
	got := compact.CompactGoto(tbl)
	parser := output.BuildParser(g, tbl, act, got, pruned.Start, pruned.Breadcrumbs)

	nfa, rules := regex.Compile(patterns)
	dfa := lex.Minimize(lex.BuildDFA(nfa, rules))
	delta := compact.CompactDelta(dfa)
	rightContexts := make(map[int]int, len(rules))
	for _, r := range rules {
		rightContexts[r.RuleID] = r.RightContext
	}
	scannerMeta := make(map[int]output.RuleMeta, len(meta))
	for id, m := range meta {
		scannerMeta[id] = m
	}
	scanner := output.BuildScanner(dfa, delta, rightContexts, scannerMeta)

	ts := output.NewTableSet(scanner, parser)
	ts.Version = cfg.TableVersion()
	pterm.Info.Println(fmt.Sprintf("table set %s: %d scanner states, %d parser states", ts.RunID, dfa.NumStates(), tbl.NumStates))

	return writeTableSet(ts, *outFile)
}

// buildAutomaton runs grammar g through the HFA construction style named,
// mirroring the three entry points hfa offers: BuildLALR for the default
// merged-core automaton, BuildCanonicalLR1 for the unmerged split-state
// automaton, and MinimalLR1 for the LALR-core-with-canonical-splitting
// hybrid.
func buildAutomaton(g *grammar.Grammar, style string) (*hfa.PrunedAutomaton, error) {
	switch style {
	case "canonical":
		la := hfa.BuildCanonicalLR1(g)
		return hfa.ResolveConflicts(la), nil
	case "minimal":
		lr0 := hfa.BuildLR0(g)
		lalr := hfa.BuildLALR(lr0)
		la := hfa.MinimalLR1(lr0, lalr)
		return hfa.ResolveConflicts(la), nil
	case "lalr", "":
		lr0 := hfa.BuildLR0(g)
		lalr := hfa.BuildLALR(lr0)
		return hfa.ResolveConflicts(lalr.ToLA()), nil
	default:
		return nil, fmt.Errorf("tablegen: unknown automaton style %q", style)
	}
}

func writeTableSet(ts output.TableSet, path string) int {
	data, err := json.MarshalIndent(ts, "", "  ")
	if err != nil {
		pterm.Error.Println(err.Error())
		return exitBuildError
	}
	if path == "" {
		fmt.Println(string(data))
		return exitSuccess
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		pterm.Error.Println(err.Error())
		return exitBuildError
	}
	return exitSuccess
}

func loadGrammarSpec(path string) (genconfig.GrammarSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return genconfig.GrammarSpec{}, fmt.Errorf("tablegen: reading grammar spec: %w", err)
	}
	return genconfig.DecodeGrammarSpec(data)
}

func loadLexiconSpec(path string) (genconfig.LexiconSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return genconfig.LexiconSpec{}, fmt.Errorf("tablegen: reading lexicon spec: %w", err)
	}
	return genconfig.DecodeLexiconSpec(data)
}

// tracer traces with key 'lrforge.tablegen'.
func tracer() tracing.Trace {
	return tracing.Select("lrforge.tablegen")
}

func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}
