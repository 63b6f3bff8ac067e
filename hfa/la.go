package hfa

import "github.com/halvardal/lrforge"

// LAAutomaton is a handle-finding automaton enriched with lookahead: for
// each state, the rule-ids eligible to reduce on each terminal. More than
// one rule-id for the same terminal marks a reduce/reduce conflict; a
// nonempty ReduceOn entry alongside a Shift entry for the same terminal
// marks a shift/reduce conflict. Both are resolved by ResolveConflicts.
type LAAutomaton struct {
	*HFA
	ReduceOn map[int]map[lrforge.TokType][]int
}

// ConflictTokens returns, for state q, the set of terminals on which more
// than one action is derivable: a shift and at least one reduce, or more
// than one reduce.
func (la *LAAutomaton) ConflictTokens(q int) map[lrforge.TokType]bool {
	out := map[lrforge.TokType]bool{}
	st := la.States[q]
	shiftTerms := map[lrforge.TokType]bool{}
	for sym := range st.Shift {
		sy := la.Grammar.Symbol(sym)
		if sy != nil && sy.IsTerminal() {
			shiftTerms[sy.Value] = true
		}
	}
	for t, rules := range la.ReduceOn[q] {
		if len(rules) > 1 || shiftTerms[t] {
			out[t] = true
		}
	}
	return out
}

// ToLA pivots a LALRResult's per-(state,rule) terminal sets into the
// per-(state,terminal) candidate-rule-list shape shared by every lookahead
// style, so that downstream conflict resolution and determinization code
// need not special-case LALR vs. canonical vs. minimal LR(1).
func (res *LALRResult) ToLA() *LAAutomaton {
	out := map[int]map[lrforge.TokType][]int{}
	for q, byRule := range res.ReduceOn {
		for r, terms := range byRule {
			for t := range terms {
				if out[q] == nil {
					out[q] = map[lrforge.TokType][]int{}
				}
				out[q][t] = append(out[q][t], r)
			}
		}
	}
	for _, m := range out {
		for t, ids := range m {
			m[t] = dedupInts(ids)
		}
	}
	return &LAAutomaton{HFA: res.HFA, ReduceOn: out}
}
