package compact

import (
	"testing"

	"github.com/halvardal/lrforge/determinize"
	"github.com/halvardal/lrforge/grammar"
	"github.com/halvardal/lrforge/hfa"
	"github.com/stretchr/testify/require"
)

func exprGrammar(t *testing.T) *grammar.Grammar {
	b := grammar.NewBuilder("expr")
	b.AssocLeft("+")
	b.AssocLeft("*")
	b.LHS("S").N("E").End()
	b.LHS("E").N("E").T("+", 1).N("E").End()
	b.LHS("E").N("E").T("*", 2).N("E").End()
	b.LHS("E").T("id", 3).End()
	b.Start("S")
	g := b.Grammar()
	require.NoError(t, b.Err())
	return g
}

func denseTable(t *testing.T) *determinize.Table {
	g := exprGrammar(t)
	lr0 := hfa.BuildLR0(g)
	lalr := hfa.BuildLALR(lr0)
	pruned := hfa.ResolveConflicts(lalr.ToLA())
	tbl, err := determinize.Determinize(pruned, determinize.DeterministicStrict)
	require.NoError(t, err)
	return tbl
}

func TestCompactActionRoundTripsEveryCell(t *testing.T) {
	tbl := denseTable(t)
	act := CompactAction(tbl)
	require.Equal(t, tbl.NumStates, act.NumStates)
	for q := 0; q < tbl.NumStates; q++ {
		for col := 0; col < act.NumCols; col++ {
			require.Equal(t, tbl.Action[q][col], act.Lookup(q, col), "state %d col %d", q, col)
		}
	}
}

func TestCompactActionFallbackChainIsAcyclic(t *testing.T) {
	tbl := denseTable(t)
	act := CompactAction(tbl)
	for q := 0; q < act.NumStates; q++ {
		seen := map[int]bool{}
		r := q
		for {
			require.False(t, seen[r], "fallback chain from state %d cycles", q)
			seen[r] = true
			if act.Fallback[r] < 0 {
				break
			}
			require.Less(t, act.Fallback[r], r, "fallback must point to a strictly earlier row")
			r = act.Fallback[r]
		}
	}
}

func TestCompactActionErrorPlaneMatchesEssentialError(t *testing.T) {
	tbl := denseTable(t)
	act := CompactAction(tbl)
	for q := 0; q < tbl.NumStates; q++ {
		for col := 0; col < act.NumCols; col++ {
			want := tbl.EssentialError[q] != nil && tbl.EssentialError[q][col]
			require.Equal(t, want, act.ErrorPlane.Test(q, col), "state %d col %d", q, col)
		}
	}
}
