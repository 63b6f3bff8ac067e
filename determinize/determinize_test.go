package determinize

import (
	"testing"

	"github.com/halvardal/lrforge"
	"github.com/halvardal/lrforge/grammar"
	"github.com/halvardal/lrforge/hfa"
	"github.com/stretchr/testify/require"
)

func exprGrammar(t *testing.T) *grammar.Grammar {
	b := grammar.NewBuilder("expr")
	b.AssocLeft("+")
	b.LHS("S").N("E").End()
	b.LHS("E").N("E").T("+", 1).N("E").End()
	b.LHS("E").T("id", 2).End()
	b.Start("S")
	g := b.Grammar()
	require.NoError(t, b.Err())
	return g
}

func prunedOf(t *testing.T, g *grammar.Grammar) *hfa.PrunedAutomaton {
	lr0 := hfa.BuildLR0(g)
	lalr := hfa.BuildLALR(lr0)
	return hfa.ResolveConflicts(lalr.ToLA())
}

func TestDeterminizeStrictOnUnambiguousGrammar(t *testing.T) {
	g := exprGrammar(t)
	pruned := prunedOf(t, g)
	tbl, err := Determinize(pruned, DeterministicStrict)
	require.NoError(t, err)
	require.Equal(t, len(pruned.States), tbl.NumStates)
	require.Empty(t, tbl.Splits)
}

func TestDeterminizeAcceptStateSentinel(t *testing.T) {
	g := exprGrammar(t)
	pruned := prunedOf(t, g)
	tbl, err := Determinize(pruned, DeterministicStrict)
	require.NoError(t, err)

	accQ := pruned.Accept["S"]
	require.Equal(t, int64(accQ), tbl.Action[accQ][tbl.EndColumn])
}

func TestDeterminizeGeneralizedAllocatesSplitsForUnresolvedConflict(t *testing.T) {
	// a genuinely ambiguous grammar with no declared precedence at all:
	// E -> E + E | id can't be disambiguated without precedence, so the
	// shift/reduce conflict on "+" survives pruning unresolved.
	b := grammar.NewBuilder("amb")
	b.LHS("E").N("E").T("+", 1).N("E").End()
	b.LHS("E").T("id", 2).End()
	b.Start("E")
	g := b.Grammar()
	require.NoError(t, b.Err())

	lr0 := hfa.BuildLR0(g)
	lalr := hfa.BuildLALR(lr0)
	pruned := hfa.ResolveConflicts(lalr.ToLA())

	_, err := Determinize(pruned, DeterministicStrict)
	require.Error(t, err, "undeclared precedence should leave an unresolved shift/reduce conflict")

	tbl, err := Determinize(pruned, Generalized)
	require.NoError(t, err)
	require.NotEmpty(t, tbl.Splits)
}

func TestDeterminizeGeneralizedOrdersSplitCandidatesByIncreasingRHSLength(t *testing.T) {
	// Spec component 4.E / §5: "Generalized splits list candidate reductions
	// in increasing RHS length." Build a grammar with two rules of distinct
	// RHS length and hand-place both as reduce candidates on one state/token
	// in reverse length order, so a correct implementation must re-sort.
	b := grammar.NewBuilder("lens")
	b.LHS("S").N("A").End()
	b.LHS("A").T("a", 1).T("b", 2).T("c", 3).End() // rule 1, RHS length 3
	b.LHS("A").T("a", 1).End()                     // rule 2, RHS length 1
	b.Start("S")
	g := b.Grammar()
	require.NoError(t, b.Err())

	longRule, shortRule := -1, -1
	g.EachRule(func(r *grammar.Rule) {
		if r.LHS.Name != "A" {
			return
		}
		switch len(r.RHS) {
		case 3:
			longRule = r.Serial
		case 1:
			shortRule = r.Serial
		}
	})
	require.GreaterOrEqual(t, longRule, 0)
	require.GreaterOrEqual(t, shortRule, 0)

	tok := g.Symbol("a").Value // any valid terminal column to key the reduce set on
	pruned := &hfa.PrunedAutomaton{
		HFA: &hfa.HFA{
			Grammar: g,
			States:  []*hfa.State{{ID: 0, Shift: map[string]int{}}},
			Start:   map[string]int{"S": 0},
			Accept:  map[string]int{},
		},
		ReduceOn: map[int]map[lrforge.TokType][]int{
			0: {tok: {longRule, shortRule}}, // deliberately longest-first
		},
		EssentialError: map[int]map[lrforge.TokType]bool{},
	}

	tbl, err := Determinize(pruned, Generalized)
	require.NoError(t, err)
	require.Len(t, tbl.Splits, 1)

	split := tbl.Splits[0]
	require.Len(t, split, 2)
	require.Equal(t, -1-int64(shortRule), split[0], "shorter RHS rule must come first")
	require.Equal(t, -1-int64(longRule), split[1], "longer RHS rule must come second")
}

func TestDeterminizePermissiveFavorsShift(t *testing.T) {
	b := grammar.NewBuilder("amb")
	b.LHS("E").N("E").T("+", 1).N("E").End()
	b.LHS("E").T("id", 2).End()
	b.Start("E")
	g := b.Grammar()
	require.NoError(t, b.Err())

	lr0 := hfa.BuildLR0(g)
	lalr := hfa.BuildLALR(lr0)
	pruned := hfa.ResolveConflicts(lalr.ToLA())

	tbl, err := Determinize(pruned, DeterministicPermissive)
	require.NoError(t, err)
	require.Empty(t, tbl.Splits)

	plusSym := g.Symbol("+")
	col, ok := tbl.termColumn(plusSym)
	require.True(t, ok)
	for q := range tbl.Action {
		if _, ok := pruned.States[q].Shift["+"]; ok {
			require.Greater(t, tbl.Action[q][col], int64(0), "permissive style should keep the shift, not overwrite it with a reduce")
		}
	}
}
