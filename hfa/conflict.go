package hfa

import (
	"github.com/halvardal/lrforge"
	"github.com/halvardal/lrforge/grammar"
)

// assocDecision is the outcome of comparing a reducing rule's precedence
// against a conflicting shift terminal's precedence.
type assocDecision int

const (
	undecided assocDecision = iota
	decideLeft
	decideRight
	decideNonassoc
)

// PrunedAutomaton is a lookahead automaton after precedence-driven
// shift/reduce and reduce/reduce reachability pruning: some shift entries
// and some reduce candidates have been removed, and some cells have been
// marked "essential error" (NONASSOC), per spec component 4.D
// "Reachability pruning under precedence".
type PrunedAutomaton struct {
	*HFA
	ReduceOn       map[int]map[lrforge.TokType][]int
	EssentialError map[int]map[lrforge.TokType]bool
}

func ruleDecision(g *grammar.Grammar, r *grammar.Rule, term *grammar.Symbol) assocDecision {
	rp := grammar.NoPrecedence
	if r.PrecSym != nil {
		rp = r.PrecSym.Precedence
	}
	tp := term.Precedence
	if rp == grammar.NoPrecedence || tp == grammar.NoPrecedence {
		return undecided
	}
	if rp < tp {
		return decideRight
	}
	if rp > tp {
		return decideLeft
	}
	switch g.AssocOf(rp) {
	case grammar.LEFT:
		return decideLeft
	case grammar.RIGHT:
		return decideRight
	case grammar.NONASSOC:
		return decideNonassoc
	default:
		return undecided
	}
}

// ResolveConflicts applies decide_shift_reduce to every (state, terminal)
// cell where a shift and at least one reduce candidate coexist, deleting
// whichever side precedence/associativity rules out. It returns a fresh
// automaton; la's Shift maps and reduce sets are left untouched.
func ResolveConflicts(la *LAAutomaton) *PrunedAutomaton {
	g := la.Grammar
	out := &PrunedAutomaton{
		HFA:            &HFA{Grammar: g, Start: la.Start, Accept: la.Accept, Breadcrumbs: la.Breadcrumbs},
		ReduceOn:       map[int]map[lrforge.TokType][]int{},
		EssentialError: map[int]map[lrforge.TokType]bool{},
	}
	out.States = make([]*State, len(la.States))
	for q, st := range la.States {
		shift := make(map[string]int, len(st.Shift))
		for k, v := range st.Shift {
			shift[k] = v
		}
		out.States[q] = &State{ID: q, Shift: shift, Reduce: append([]int(nil), st.Reduce...)}

		reduceOn := make(map[lrforge.TokType][]int, len(la.ReduceOn[q]))
		for t, ids := range la.ReduceOn[q] {
			reduceOn[t] = append([]int(nil), ids...)
		}
		out.ReduceOn[q] = reduceOn
	}

	for q, st := range out.States {
		for sym, ids := range out.ReduceOn[q] {
			term := g.Symbol(symbolNameFor(g, sym))
			if term == nil {
				continue
			}
			if _, hasShift := st.Shift[term.Name]; !hasShift {
				continue
			}

			decisions := map[assocDecision][]int{}
			for _, r := range ids {
				d := ruleDecision(g, g.Rule(r), term)
				decisions[d] = append(decisions[d], r)
			}

			switch {
			case len(decisions) == 1 && decisions[decideLeft] != nil:
				delete(st.Shift, term.Name)
			case len(decisions) == 1 && decisions[decideRight] != nil:
				out.ReduceOn[q][sym] = nil
			case len(decisions) == 1 && decisions[decideNonassoc] != nil:
				delete(st.Shift, term.Name)
				out.ReduceOn[q][sym] = nil
				if out.EssentialError[q] == nil {
					out.EssentialError[q] = map[lrforge.TokType]bool{}
				}
				out.EssentialError[q][sym] = true
			case len(decisions) == 2 && decisions[decideLeft] != nil && decisions[decideNonassoc] != nil:
				delete(st.Shift, term.Name)
				out.ReduceOn[q][sym] = decisions[decideLeft]
			case len(decisions) == 2 && decisions[decideRight] != nil && decisions[undecided] != nil:
				out.ReduceOn[q][sym] = decisions[undecided]
			default:
				if len(decisions) > 1 {
					tracer().Errorf("unresolved shift/reduce mix at state %d on %s, leaving conflict in place", q, term.Name)
				}
			}
		}
	}
	return out
}

// symbolNameFor resolves a TokType back to a terminal name within g. Used
// to look up a conflicting terminal's declared precedence.
func symbolNameFor(g *grammar.Grammar, t lrforge.TokType) string {
	if t == lrforge.EndOfInput {
		return endMarker
	}
	var name string
	g.EachTerminal(func(sy *grammar.Symbol) {
		if sy.Value == t {
			name = sy.Name
		}
	})
	return name
}
