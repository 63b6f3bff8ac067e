package output

import (
	"github.com/halvardal/lrforge/compact"
	"github.com/halvardal/lrforge/lex"
)

// Alphabet is the JSON form of a lex.Alphabet: scanner.alphabet in spec §6.
type Alphabet struct {
	Bounds  []rune `json:"bounds"`
	Classes []int  `json:"classes"`
}

// BoolPlane is the JSON form of compact.BoolPlane.
type BoolPlane struct {
	RowClass []int `json:"row_class"`
	ColClass []int `json:"col_class"`
	Offset   []int `json:"offset"`
	Check    []int `json:"check"`
}

// Exceptions is the JSON form of compact.ExceptionTable.
type Exceptions struct {
	Offset []int `json:"offset"`
	Check  []int `json:"check"`
	Value  []int `json:"value"`
}

// Delta is scanner.dfa.delta in spec §6.
type Delta struct {
	Exceptions Exceptions `json:"exceptions"`
	Bg         struct {
		BoolPlane
		Zero     []int  `json:"zero"`
		One      []int  `json:"one"`
		Inverted []bool `json:"inverted"`
	} `json:"bg"`
}

// DFA is scanner.dfa in spec §6.
type DFA struct {
	Delta   Delta            `json:"delta"`
	Initial map[string][]int `json:"initial"` // condition -> [mid, bol]
	Final   struct {
		States []int `json:"states"`
		Rules  []int `json:"rules"`
	} `json:"final"`
}

// ScanAction is one entry of scanner.action in spec §6: the
// (right_context, message, line_number) binding for a rule. RightContext
// is -1 (mirroring regex.NoBoundary) when the rule has no trailing
// context. Message/LineNumber come from the rule-line source — an
// external collaborator per spec §1 — and are supplied by the caller.
type ScanAction struct {
	RuleID       int    `json:"rule_id"`
	RightContext int    `json:"right_context"`
	Message      string `json:"message"`
	LineNumber   int    `json:"line_number"`
}

// Scanner is the full scanner.* subtree.
type Scanner struct {
	Alphabet Alphabet     `json:"alphabet"`
	DFA      DFA          `json:"dfa"`
	Action   []ScanAction `json:"action"`
}

// RuleMeta supplies the message name and source line number a rule-line
// parser (external to this module) would have attached to a lexical rule;
// BuildScanner pairs these with the RightContext computed during regex
// compilation.
type RuleMeta struct {
	Message    string
	LineNumber int
}

// BuildScanner assembles the scanner.* output subtree from a minimized
// DFA, its compacted delta, and per-rule (right-context already baked
// into rightContexts) message/line metadata.
func BuildScanner(d *lex.DFA, delta *compact.ScannerDelta, rightContexts map[int]int, meta map[int]RuleMeta) Scanner {
	var out Scanner
	out.Alphabet = Alphabet{Bounds: append([]rune(nil), d.Alphabet.Bounds...), Classes: append([]int(nil), d.Alphabet.Classes...)}

	out.DFA.Delta.Exceptions = Exceptions{
		Offset: delta.Exceptions.Offset,
		Check:  delta.Exceptions.Check,
		Value:  delta.Exceptions.Value,
	}
	out.DFA.Delta.Bg.RowClass = delta.Bg.RowClass
	out.DFA.Delta.Bg.ColClass = delta.Bg.ColClass
	out.DFA.Delta.Bg.Offset = delta.Bg.Offset
	out.DFA.Delta.Bg.Check = delta.Bg.Check
	out.DFA.Delta.Bg.Zero = delta.Zero
	out.DFA.Delta.Bg.One = delta.One
	out.DFA.Delta.Bg.Inverted = delta.Inverted

	out.DFA.Initial = map[string][]int{}
	for cond, init := range d.Initial {
		out.DFA.Initial[cond] = []int{init.Mid, init.BOL}
	}

	for q, rid := range d.Final {
		out.DFA.Final.States = append(out.DFA.Final.States, q)
		out.DFA.Final.Rules = append(out.DFA.Final.Rules, rid)
	}

	for rid, rc := range rightContexts {
		m := meta[rid]
		out.Action = append(out.Action, ScanAction{RuleID: rid, RightContext: rc, Message: m.Message, LineNumber: m.LineNumber})
	}
	tracer().Debugf("scanner output assembled: %d states, %d action bindings", d.NumStates(), len(out.Action))
	return out
}
