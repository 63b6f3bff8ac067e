package compact

import "github.com/halvardal/lrforge/determinize"

// ActionTable is the compacted form of determinize.Table.Action.
//
// Two independent compaction passes run over the dense matrix, matching
// the two uses spec §4.E and §4.E's "Interactive-reduce analysis"
// paragraph put on the same data:
//
//   - DefaultReduce / ErrorPlane serve the interactive-reduce fast path: a
//     row qualifies when its only non-error, non-essential-error cell is a
//     single reduce, in which case a runtime may fire that reduction
//     without consulting a fresh lookahead token at all.
//   - Fallback/Edits is the general-purpose lookup path: rows are visited
//     in id order, each compared against every earlier row for the
//     smallest edit set (the columns where its value differs), and
//     encoded as a link to that earlier row plus only the differing
//     cells. Chasing Fallback at read time costs one hop per link in the
//     chain; chains are acyclic by construction (a row only ever links to
//     a strictly smaller id).
type ActionTable struct {
	NumStates int
	NumCols   int
	EndColumn int

	DefaultReduce []int64 // per row: the lone reduce rule (encoded), or 0
	ErrorPlane    *BoolPlane

	Fallback []int           // per row: an earlier row id, or -1 for a base row
	Edits    []map[int]int64 // per row: (col -> action value) overrides
}

// Lookup reconstructs the dense action cell at (row, col).
func (t *ActionTable) Lookup(row, col int) int64 {
	for {
		if v, ok := t.Edits[row][col]; ok {
			return v
		}
		if t.Fallback[row] < 0 {
			return 0
		}
		row = t.Fallback[row]
	}
}

// Interactive reports whether row may reduce eagerly, and the rule it
// would reduce by, per spec §4.E "Interactive-reduce analysis".
func (t *ActionTable) Interactive(row int) (rule int64, ok bool) {
	if t.DefaultReduce[row] == 0 {
		return 0, false
	}
	return t.DefaultReduce[row], true
}

// CompactAction builds an ActionTable from a dense determinize.Table.
func CompactAction(t *determinize.Table) *ActionTable {
	numStates := t.NumStates
	numCols := len(t.Terminals) + 1
	out := &ActionTable{NumStates: numStates, NumCols: numCols, EndColumn: t.EndColumn}

	errMatrix := make([][]bool, numStates)
	for q := 0; q < numStates; q++ {
		errMatrix[q] = make([]bool, numCols)
		for col := range errMatrix[q] {
			if t.EssentialError[q] != nil && t.EssentialError[q][col] {
				errMatrix[q][col] = true
			}
		}
	}
	out.ErrorPlane = packBoolMatrix(errMatrix, numStates, numCols)

	out.DefaultReduce = make([]int64, numStates)
	for q := 0; q < numStates; q++ {
		nonError, only := 0, int64(0)
		for col, v := range t.Action[q] {
			if v == 0 || errMatrix[q][col] {
				continue
			}
			nonError++
			only = v
		}
		if nonError == 1 && only < 0 {
			out.DefaultReduce[q] = only
		}
	}

	out.Fallback = make([]int, numStates)
	out.Edits = make([]map[int]int64, numStates)
	for q := 0; q < numStates; q++ {
		best, bestCount := -1, numCols+1
		var bestEdits map[int]int64
		for p := 0; p < q; p++ {
			edits := map[int]int64{}
			for col := 0; col < numCols; col++ {
				if t.Action[q][col] != t.Action[p][col] {
					edits[col] = t.Action[q][col]
				}
			}
			if len(edits) < bestCount {
				best, bestCount, bestEdits = p, len(edits), edits
			}
		}
		if best == -1 || bestCount == numCols {
			full := make(map[int]int64, numCols)
			for col := 0; col < numCols; col++ {
				full[col] = t.Action[q][col]
			}
			out.Fallback[q] = -1
			out.Edits[q] = full
		} else {
			out.Fallback[q] = best
			out.Edits[q] = bestEdits
		}
	}
	tracer().Debugf("action table compacted: %d states x %d columns", numStates, numCols)
	return out
}
