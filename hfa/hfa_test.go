package hfa

import (
	"testing"

	"github.com/halvardal/lrforge"
	"github.com/halvardal/lrforge/grammar"
	"github.com/stretchr/testify/require"
)

// classic textbook grammar:
//
//	S -> E
//	E -> E + T | T
//	T -> T * F | F
//	F -> ( E ) | id
func exprGrammar(t *testing.T) *grammar.Grammar {
	b := grammar.NewBuilder("expr")
	b.AssocLeft("+")
	b.AssocLeft("*")
	b.LHS("S").N("E").End()
	b.LHS("E").N("E").T("+", 1).N("T").End()
	b.LHS("E").N("T").End()
	b.LHS("T").N("T").T("*", 2).N("F").End()
	b.LHS("T").N("F").End()
	b.LHS("F").T("(", 3).N("E").T(")", 4).End()
	b.LHS("F").T("id", 5).End()
	b.Start("S")
	g := b.Grammar()
	require.NoError(t, b.Err())
	return g
}

func TestLR0BuildsAndHasAcceptState(t *testing.T) {
	g := exprGrammar(t)
	h := BuildLR0(g)
	require.Greater(t, len(h.States), 0)
	s0, ok := h.Start["S"]
	require.True(t, ok)
	_ = s0
	acc, ok := h.Accept["S"]
	require.True(t, ok)
	require.True(t, h.IsAccepting(acc))
}

func TestLR0UnitRuleElision(t *testing.T) {
	// S -> A c; A -> b (a null-action unit rule referenced nowhere else):
	// shifting "b" from the start state lands in a trivial {A -> b .}
	// state and must be redirected to whatever shifting "A" would reach.
	b := grammar.NewBuilder("elision")
	b.LHS("S").N("A").T("c", 1).End()
	b.LHS("A").T("b", 2).End()
	b.Start("S")
	g := b.Grammar()
	require.NoError(t, b.Err())

	h := BuildLR0(g)
	s0 := h.Start["S"]
	shiftA, hasA := h.States[s0].Shift["A"]
	shiftB, hasB := h.States[s0].Shift["b"]
	require.True(t, hasA)
	require.True(t, hasB)
	require.Equal(t, shiftA, shiftB, "unit rule A -> b should redirect shift[b] to shift[A]")
}

func TestLALRReduceSetsCoverExpectedTerminals(t *testing.T) {
	g := exprGrammar(t)
	h := BuildLR0(g)
	lalr := BuildLALR(h)

	// F -> id is a null-action unit rule, so its shift of "id" is elided
	// (see TestLR0UnitRuleElision). The state reached after "( E )" from the
	// start reduces F -> ( E ) on every terminal that can follow an F
	// (+, *, ), $end).
	s0 := h.Start["S"]
	fState, ok := h.Traverse(s0, []*grammar.Symbol{g.Symbol("("), g.Symbol("E"), g.Symbol(")")})
	require.True(t, ok)
	require.Contains(t, lalr.ReduceOn, fState)

	found := false
	for ruleID, terms := range lalr.ReduceOn[fState] {
		r := g.Rule(ruleID)
		if r.LHS.Name == "F" {
			found = true
			require.True(t, terms[g.Symbol("+").Value])
			require.True(t, terms[g.Symbol("*").Value])
			require.True(t, terms[g.Symbol(")").Value])
			require.True(t, terms[lrforge.EndOfInput])
		}
	}
	require.True(t, found)
}

func TestCanonicalLR1NoReduceReduceConflicts(t *testing.T) {
	g := exprGrammar(t)
	la := BuildCanonicalLR1(g)
	for q, byTerm := range la.ReduceOn {
		for term, ids := range byTerm {
			require.LessOrEqual(t, len(ids), 1, "state %d terminal %v: unexpected reduce/reduce conflict in an unambiguous grammar", q, term)
		}
	}
}

func TestMinimalLR1MatchesCanonicalLanguageAcceptance(t *testing.T) {
	g := exprGrammar(t)
	lr0 := BuildLR0(g)
	lalr := BuildLALR(lr0)
	min := MinimalLR1(lr0, lalr)
	// an unambiguous grammar fully resolved by LALR should need no splits at
	// all under minimal-LR(1): same number of states as the LR0 automaton.
	require.Equal(t, len(lr0.States), len(min.States))
}

// splittingGrammar is spec §8 scenario 1: S -> aXd | aYe | bXe | bYd ; X -> c ;
// Y -> c. LALR merges the two {X -> c., Y -> c.} states reached after "a c"
// and "b c" into one, since they share an LR(0) core, producing a spurious
// reduce/reduce conflict; canonical LR(1) and minimal LR(1) must not.
func splittingGrammar(t *testing.T) *grammar.Grammar {
	b := grammar.NewBuilder("split")
	b.LHS("S").T("a", 1).N("X").T("d", 2).End()
	b.LHS("S").T("a", 1).N("Y").T("e", 3).End()
	b.LHS("S").T("b", 4).N("X").T("e", 3).End()
	b.LHS("S").T("b", 4).N("Y").T("d", 2).End()
	b.LHS("X").T("c", 5).End()
	b.LHS("Y").T("c", 5).End()
	b.Start("S")
	g := b.Grammar()
	require.NoError(t, b.Err())
	return g
}

func hasReduceReduceConflict(reduceOn map[int]map[lrforge.TokType][]int) bool {
	for _, byTerm := range reduceOn {
		for _, ids := range byTerm {
			if len(ids) > 1 {
				return true
			}
		}
	}
	return false
}

func TestLALRReportsAmbiguousOnClassicNonLALRGrammar(t *testing.T) {
	g := splittingGrammar(t)
	lr0 := BuildLR0(g)
	lalr := BuildLALR(lr0)
	la := lalr.ToLA()
	require.True(t, hasReduceReduceConflict(la.ReduceOn), "LALR should merge the X->c./Y->c. states and report a reduce/reduce conflict")
}

func TestCanonicalAndMinimalLR1ResolveSplittingGrammar(t *testing.T) {
	g := splittingGrammar(t)
	lr0 := BuildLR0(g)
	lalr := BuildLALR(lr0)

	canonical := BuildCanonicalLR1(g)
	require.False(t, hasReduceReduceConflict(canonical.ReduceOn), "canonical LR(1) must split the merged LALR states and fully resolve the conflict")

	minimal := MinimalLR1(lr0, lalr)
	require.False(t, hasReduceReduceConflict(minimal.ReduceOn), "minimal LR(1) must split exactly the inadequate LALR state and fully resolve the conflict")

	require.Greater(t, len(minimal.States), len(lr0.States), "minimal LR(1) must split at least the one genuinely inadequate LALR state")
	require.LessOrEqual(t, len(minimal.States), len(canonical.States), "minimal LR(1) must never produce more states than canonical LR(1)")
}

func TestResolveConflictsPrecedenceDisambiguatesDanglingShiftReduce(t *testing.T) {
	// classic dangling-else-style shift/reduce disambiguated purely by
	// declared precedence: E -> E + E | id, left-associative.
	b := grammar.NewBuilder("amb")
	b.AssocLeft("+")
	b.LHS("E").N("E").T("+", 1).N("E").End()
	b.LHS("E").T("id", 2).End()
	b.Start("E")
	g := b.Grammar()
	require.NoError(t, b.Err())

	lr0 := BuildLR0(g)
	lalr := BuildLALR(lr0)
	la := lalr.ToLA()
	pruned := ResolveConflicts(la)

	conflictsRemain := false
	for q, byTerm := range pruned.ReduceOn {
		for term, ids := range byTerm {
			if _, hasShift := pruned.States[q].Shift[symbolNameFor(g, term)]; hasShift && len(ids) > 0 {
				conflictsRemain = true
			}
		}
	}
	require.False(t, conflictsRemain, "left-associative + should fully resolve the classic E+E shift/reduce conflict")
}
