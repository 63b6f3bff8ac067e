package regex

import "github.com/halvardal/lrforge/charset"

// State is a single NFA node: an epsilon-successor set, a labelled-edge
// list, and a rank. Rank is attached to every newly created state and is
// used during subset construction to support rule priority: when several
// final NFA states are active at once, the one with the highest rank (and,
// among ties, the lowest rule id) wins.
type State struct {
	ID    int
	Eps   []int
	Edges []Edge
	Rank  int
	Final int // rule id of the pattern this state accepts, or NoRule
}

// NoRule marks a State that does not accept.
const NoRule = -1

// Edge is a labelled NFA transition.
type Edge struct {
	Label *charset.Set
	To    int
}

// ConditionEntry records the pair of initial states (beginning-of-line and
// mid-line) for one scan condition.
type ConditionEntry struct {
	BOL int
	Mid int
}

// NFA is an arena of States plus the condition-name → (bol,mid) mapping
// that captures beginning-of-line anchoring.
type NFA struct {
	States     []*State
	Conditions map[string]ConditionEntry
}

// NewNFA creates an empty NFA arena.
func NewNFA() *NFA {
	return &NFA{Conditions: map[string]ConditionEntry{}}
}

// AddState allocates a fresh, non-accepting state with the given rank.
func (n *NFA) AddState(rank int) int {
	id := len(n.States)
	n.States = append(n.States, &State{ID: id, Rank: rank, Final: NoRule})
	return id
}

// AddEps adds an epsilon transition from -> to.
func (n *NFA) AddEps(from, to int) {
	n.States[from].Eps = append(n.States[from].Eps, to)
}

// AddEdge adds a labelled transition from -> to.
func (n *NFA) AddEdge(from int, label *charset.Set, to int) {
	n.States[from].Edges = append(n.States[from].Edges, Edge{Label: label, To: to})
}

// EntryPoint registers or retrieves the (bol,mid) initial state pair for a
// scan condition, creating both as fresh non-accepting states on first use.
func (n *NFA) EntryPoint(condition string) ConditionEntry {
	if e, ok := n.Conditions[condition]; ok {
		return e
	}
	e := ConditionEntry{BOL: n.AddState(0), Mid: n.AddState(0)}
	n.Conditions[condition] = e
	return e
}

// Pattern is one lexical rule: a regex AST bound to a scan condition, a
// rule rank (higher ranks take priority at equal length; among equal ranks
// the lower rule id wins), optional beginning-of-line anchoring, and an optional
// trailing-context expression (the "/" operator, e.g. `eat/ing|en|s`).
type Pattern struct {
	AST             Node
	RuleID          int
	Rank            int
	Condition       string
	BOL             bool
	TrailingContext Node // nil if the rule has no trailing context
}

// CompiledRule records where, within the NFA, a rule's acceptance and
// (optional) trailing-context boundary live. RightContext is the NFA state
// id reached immediately after the stem (before the trailing-context
// sub-expression is matched); it is NoRule's sibling sentinel NoBoundary
// when the rule has no trailing context. Downstream (the runtime scanner,
// out of scope for this module) uses RightContext to truncate the matched
// lexeme at the stem/trailing-context boundary.
type CompiledRule struct {
	RuleID       int
	AcceptState  int
	RightContext int
}

// NoBoundary marks a CompiledRule with no trailing context.
const NoBoundary = -1

// Compile builds the NFA for a whole set of patterns, one Thompson
// sub-automaton per pattern, merged into shared per-condition entry states.
// Patterns are expected to be pre-resolved (see Resolve) and pre-ranked by
// the caller (a higher rank takes priority, and among equal ranks the lower
// rule id wins, per the subset construction rule in package lex).
func Compile(patterns []Pattern) (*NFA, []CompiledRule) {
	nfa := NewNFA()
	rules := make([]CompiledRule, 0, len(patterns))
	for _, p := range patterns {
		entry := nfa.EntryPoint(p.Condition)
		var start, end int
		rc := NoBoundary
		if p.TrailingContext != nil {
			stemStart, stemEnd := build(nfa, p.AST, p.Rank)
			rc = stemEnd
			trailStart, trailEnd := build(nfa, p.TrailingContext, p.Rank)
			nfa.AddEps(stemEnd, trailStart)
			start, end = stemStart, trailEnd
		} else {
			start, end = build(nfa, p.AST, p.Rank)
		}
		nfa.States[end].Final = p.RuleID
		if p.BOL {
			nfa.AddEps(entry.BOL, start)
		} else {
			nfa.AddEps(entry.BOL, start)
			nfa.AddEps(entry.Mid, start)
		}
		rules = append(rules, CompiledRule{RuleID: p.RuleID, AcceptState: end, RightContext: rc})
	}
	return nfa, rules
}

// build is the visitor over the regex AST: each operator emits the minimal
// states/edges sufficient to encode its semantics (Thompson construction),
// returning the (start,end) state pair of the constructed fragment. Every
// newly created state is stamped with rank.
func build(n *NFA, node Node, rank int) (start, end int) {
	switch t := node.(type) {
	case CharClass:
		s := n.AddState(rank)
		e := n.AddState(rank)
		n.AddEdge(s, t.Set, e)
		return s, e
	case Alt:
		aStart, aEnd := build(n, t.A, rank)
		bStart, bEnd := build(n, t.B, rank)
		s := n.AddState(rank)
		e := n.AddState(rank)
		n.AddEps(s, aStart)
		n.AddEps(s, bStart)
		n.AddEps(aEnd, e)
		n.AddEps(bEnd, e)
		return s, e
	case Seq:
		aStart, aEnd := build(n, t.A, rank)
		bStart, bEnd := build(n, t.B, rank)
		n.AddEps(aEnd, bStart)
		return aStart, bEnd
	case Star:
		xStart, xEnd := build(n, t.X, rank)
		s := n.AddState(rank)
		e := n.AddState(rank)
		n.AddEps(s, xStart)
		n.AddEps(s, e)
		n.AddEps(xEnd, xStart)
		n.AddEps(xEnd, e)
		return s, e
	case Hook:
		xStart, xEnd := build(n, t.X, rank)
		s := n.AddState(rank)
		e := n.AddState(rank)
		n.AddEps(s, xStart)
		n.AddEps(s, e)
		n.AddEps(xEnd, e)
		return s, e
	case Plus:
		xStart, xEnd := build(n, t.X, rank)
		e := n.AddState(rank)
		n.AddEps(xEnd, xStart)
		n.AddEps(xEnd, e)
		return xStart, e
	case Counted:
		return buildCounted(n, t, rank)
	case Ref:
		panic("regex: unresolved Ref reached NFA construction; call Resolve first")
	default:
		panic("regex: unhandled node type in NFA construction")
	}
}

// buildCounted unrolls exactly Min copies in sequence, then either:
//   - chains up to Max-Min further copies, each with an epsilon shortcut to
//     the overall exit (so the repetition may stop early), when Max is
//     finite; or
//   - appends one further, self-looping copy when Max == Infinite, i.e. the
//     mandatory prefix followed by a Star of one more copy.
func buildCounted(n *NFA, c Counted, rank int) (start, end int) {
	if c.Min == 0 && c.Max == 0 {
		s := n.AddState(rank)
		return s, s
	}
	var first, prevEnd int
	for i := 0; i < c.Min; i++ {
		s, e := build(n, c.X, rank)
		if i == 0 {
			first = s
		} else {
			n.AddEps(prevEnd, s)
		}
		prevEnd = e
	}
	if c.Min == 0 {
		// no mandatory prefix: the whole construction starts at the exit node
		exit := n.AddState(rank)
		first = exit
		prevEnd = exit
	}
	if c.Max == Infinite {
		xStart, xEnd := build(n, c.X, rank)
		n.AddEps(prevEnd, xStart)
		n.AddEps(xEnd, xStart)
		exit := n.AddState(rank)
		n.AddEps(xEnd, exit)
		n.AddEps(prevEnd, exit)
		return first, exit
	}
	exit := n.AddState(rank)
	n.AddEps(prevEnd, exit)
	cur := prevEnd
	for i := c.Min; i < c.Max; i++ {
		xStart, xEnd := build(n, c.X, rank)
		n.AddEps(cur, xStart)
		n.AddEps(xEnd, exit)
		cur = xEnd
	}
	return first, exit
}
