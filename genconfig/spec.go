package genconfig

import (
	"encoding/json"
	"fmt"

	"github.com/halvardal/lrforge"
	"github.com/halvardal/lrforge/charset"
	"github.com/halvardal/lrforge/grammar"
	"github.com/halvardal/lrforge/output"
	"github.com/halvardal/lrforge/regex"
)

// GrammarSpec is the pre-parsed JSON shape of a context-free grammar, the
// input contract spec §6 "External Interfaces" describes: an ordered rule
// list, a start-symbol list, and ordered associativity declarations. The
// rule-line text syntax itself is parsed by an external collaborator (the
// tiny embedded grammar-rule scanner named in spec §1's Non-goals); what
// reaches this module is already structured.
type GrammarSpec struct {
	Name  string        `json:"name"`
	Start []string      `json:"start"`
	Assoc []AssocSpec   `json:"assoc"`
	Rules []RuleSpec    `json:"rules"`
	Bogus []string      `json:"bogus"`
}

// AssocSpec is one precedence-level declaration; declaration order is
// precedence-level order (spec §6).
type AssocSpec struct {
	Dir     string   `json:"dir"` // "left" | "right" | "none"
	Symbols []string `json:"symbols"`
}

// RuleSpec is one production LHS -> RHS.
type RuleSpec struct {
	LHS     string     `json:"lhs"`
	RHS     []RHSSym   `json:"rhs"`
	PrecSym string     `json:"prec_sym,omitempty"`
	Action  ActionSpec `json:"action"`
}

// RHSSym names one RHS symbol; Terminal distinguishes a token reference
// (with its token-type value) from a non-terminal reference.
type RHSSym struct {
	Name     string `json:"name"`
	Terminal bool   `json:"terminal"`
	TokType  int32  `json:"tok_type,omitempty"`
}

// ActionSpec mirrors grammar.Action's two-shape sum type over the wire:
// Kind "" means no action, "rename" uses Index, "message" uses Message
// and Args.
type ActionSpec struct {
	Kind    string `json:"kind,omitempty"`
	Index   int    `json:"index,omitempty"`
	Message string `json:"message,omitempty"`
	Args    []int  `json:"args,omitempty"`
}

// DecodeGrammarSpec parses a GrammarSpec from JSON bytes.
func DecodeGrammarSpec(data []byte) (GrammarSpec, error) {
	var spec GrammarSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return GrammarSpec{}, fmt.Errorf("genconfig: decoding grammar spec: %w", err)
	}
	return spec, nil
}

// Build replays spec through grammar.Builder, the same fluent idiom
// lr/doc.go documents for the teacher's own grammar construction.
func (spec GrammarSpec) Build() (*grammar.Grammar, error) {
	b := grammar.NewBuilder(spec.Name)
	for _, a := range spec.Assoc {
		switch a.Dir {
		case "left":
			b.AssocLeft(a.Symbols...)
		case "right":
			b.AssocRight(a.Symbols...)
		case "none":
			b.AssocNone(a.Symbols...)
		default:
			return nil, fmt.Errorf("genconfig: unknown associativity direction %q", a.Dir)
		}
	}
	if len(spec.Bogus) > 0 {
		b.Bogus(spec.Bogus...)
	}
	for _, r := range spec.Rules {
		b.LHS(r.LHS)
		for _, sy := range r.RHS {
			if sy.Terminal {
				b.T(sy.Name, lrforge.TokType(sy.TokType))
			} else {
				b.N(sy.Name)
			}
		}
		if r.PrecSym != "" {
			b.Prec(r.PrecSym)
		}
		switch r.Action.Kind {
		case "rename":
			b.Action(r.Action.Index)
		case "message":
			b.Message(r.Action.Message, r.Action.Args...)
		}
		b.End()
	}
	b.Start(spec.Start...)
	g := b.Grammar()
	if err := b.Err(); err != nil {
		return nil, err
	}
	return g, nil
}

// LexiconSpec is the pre-parsed JSON shape of a lexical rule set: one
// entry per scan rule, each carrying an already-built regex AST (see
// NodeSpec) rather than regex source text — the regex micro-parser is
// likewise an external collaborator per spec §1.
type LexiconSpec struct {
	Rules []LexRuleSpec `json:"rules"`
}

// LexRuleSpec is one lexical rule.
type LexRuleSpec struct {
	Pattern         NodeSpec  `json:"pattern"`
	TrailingContext *NodeSpec `json:"trailing_context,omitempty"`
	RuleID          int       `json:"rule_id"`
	Rank            int       `json:"rank"`
	Condition       string    `json:"condition"`
	BOL             bool      `json:"bol"`
	Message         string    `json:"message,omitempty"`
	LineNumber      int       `json:"line_number,omitempty"`
}

// NodeSpec is a tagged-union JSON rendering of regex.Node: Kind selects
// which of the remaining fields are populated.
type NodeSpec struct {
	Kind   string     `json:"kind"` // "char_class" | "alt" | "seq" | "star" | "hook" | "plus" | "counted" | "ref"
	Ranges [][2]int32 `json:"ranges,omitempty"`
	A, B   *NodeSpec  `json:"a,omitempty"`
	X      *NodeSpec  `json:"x,omitempty"`
	Min    int        `json:"min,omitempty"`
	Max    int        `json:"max,omitempty"`
	Name   string      `json:"name,omitempty"`
}

// Node converts a NodeSpec into the regex.Node it describes.
func (n NodeSpec) Node() (regex.Node, error) {
	switch n.Kind {
	case "char_class":
		pairs := make([][2]rune, len(n.Ranges))
		for i, r := range n.Ranges {
			pairs[i] = [2]rune{rune(r[0]), rune(r[1])}
		}
		return regex.CharClass{Set: charset.FromRanges(pairs)}, nil
	case "alt":
		a, err := n.A.Node()
		if err != nil {
			return nil, err
		}
		b, err := n.B.Node()
		if err != nil {
			return nil, err
		}
		return regex.Alt{A: a, B: b}, nil
	case "seq":
		a, err := n.A.Node()
		if err != nil {
			return nil, err
		}
		b, err := n.B.Node()
		if err != nil {
			return nil, err
		}
		return regex.Seq{A: a, B: b}, nil
	case "star":
		x, err := n.X.Node()
		if err != nil {
			return nil, err
		}
		return regex.Star{X: x}, nil
	case "hook":
		x, err := n.X.Node()
		if err != nil {
			return nil, err
		}
		return regex.Hook{X: x}, nil
	case "plus":
		x, err := n.X.Node()
		if err != nil {
			return nil, err
		}
		return regex.Plus{X: x}, nil
	case "counted":
		x, err := n.X.Node()
		if err != nil {
			return nil, err
		}
		max := n.Max
		if max == 0 {
			max = regex.Infinite
		}
		return regex.Counted{X: x, Min: n.Min, Max: max}, nil
	case "ref":
		return regex.Ref{Name: n.Name}, nil
	default:
		return nil, fmt.Errorf("genconfig: unknown regex node kind %q", n.Kind)
	}
}

// DecodeLexiconSpec parses a LexiconSpec from JSON bytes.
func DecodeLexiconSpec(data []byte) (LexiconSpec, error) {
	var spec LexiconSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return LexiconSpec{}, fmt.Errorf("genconfig: decoding lexicon spec: %w", err)
	}
	return spec, nil
}

// Build converts the lexicon spec into the regex.Pattern list Compile
// expects, plus the per-rule message/line metadata CompactDelta's
// consumer (package output) needs alongside the computed right contexts.
func (spec LexiconSpec) Build(env regex.Env) ([]regex.Pattern, map[int]output.RuleMeta, error) {
	patterns := make([]regex.Pattern, 0, len(spec.Rules))
	meta := map[int]output.RuleMeta{}
	for _, r := range spec.Rules {
		ast, err := r.Pattern.Node()
		if err != nil {
			return nil, nil, err
		}
		if env != nil {
			ast = regex.Resolve(ast, env)
		}
		var trailing regex.Node
		if r.TrailingContext != nil {
			trailing, err = r.TrailingContext.Node()
			if err != nil {
				return nil, nil, err
			}
			if env != nil {
				trailing = regex.Resolve(trailing, env)
			}
		}
		patterns = append(patterns, regex.Pattern{
			AST: ast, RuleID: r.RuleID, Rank: r.Rank, Condition: r.Condition,
			BOL: r.BOL, TrailingContext: trailing,
		})
		meta[r.RuleID] = output.RuleMeta{Message: r.Message, LineNumber: r.LineNumber}
	}
	return patterns, meta, nil
}
