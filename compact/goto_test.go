package compact

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompactGotoRoundTripsEveryCell(t *testing.T) {
	tbl := denseTable(t)
	got := CompactGoto(tbl)
	for r := 0; r < tbl.NumStates; r++ {
		for c := 0; c < len(tbl.NonTerminals); c++ {
			require.Equal(t, tbl.Goto[r][c], got.Lookup(r, c), "state %d nonterminal col %d", r, c)
		}
	}
}

func TestCompactGotoPullsOutSparseRowsAndColumns(t *testing.T) {
	tbl := denseTable(t)
	got := CompactGoto(tbl)
	require.True(t, len(got.PulledRow)+len(got.PulledCol) > 0)
}
