package compact

import (
	"strconv"
	"strings"

	"github.com/halvardal/lrforge/determinize"
	"github.com/halvardal/lrforge/graph"
)

// pulledEntry records a row (or column) that was pulled out of the GOTO
// matrix because it held at most one non-zero value: Other names the
// column (or row) that single value lives at, and Value is that value.
// Other == -1 marks an all-zero row/column (Value is always 0 then).
type pulledEntry struct {
	Other, Value int
}

// ValuePlane generalizes BoolPlane to store arbitrary int values instead
// of a single bit: it backs the residual GOTO matrix left over once every
// row/column with at most one non-zero value has been pulled out.
type ValuePlane struct {
	RowClass []int
	ColClass []int
	Offset   []int
	Check    []int
	Value    []int
}

// Lookup returns the value stored at (row, col) in the plane, or (0, false)
// if the position was never classified as non-zero.
func (p *ValuePlane) Lookup(row, col int) (int, bool) {
	rc := p.RowClass[row]
	cc := p.ColClass[col]
	pos := p.Offset[rc] + cc
	if pos < 0 || pos >= len(p.Check) || p.Check[pos] != rc {
		return 0, false
	}
	return p.Value[pos], true
}

// GotoTable is the compacted form of determinize.Table.Goto: spec §4.E's
// "iteratively pull out rows/columns with at most one non-zero value"
// pass, followed by row/column classification and FFD packing of
// whatever residual matrix remains.
type GotoTable struct {
	NumStates      int
	NumNonTerms    int
	PulledRow      map[int]pulledEntry
	PulledCol      map[int]pulledEntry
	ResidualRowIdx map[int]int // original row id -> row index within Residual
	ResidualColIdx map[int]int // original col id -> col index within Residual
	Residual       *ValuePlane
}

// Lookup reconstructs the dense GOTO cell at (row, col), or -1 for "no
// goto defined" (matching determinize.Table.Goto's own sentinel).
func (t *GotoTable) Lookup(row, col int) int {
	// A cell of a pulled row and a pulled column is recorded by whichever
	// of the two was pulled first, so both entries must be consulted.
	if e, ok := t.PulledRow[row]; ok && e.Other == col {
		return e.Value
	}
	if e, ok := t.PulledCol[col]; ok && e.Other == row {
		return e.Value
	}
	_, rowPulled := t.PulledRow[row]
	_, colPulled := t.PulledCol[col]
	if rowPulled || colPulled {
		return -1
	}
	rr, rok := t.ResidualRowIdx[row]
	cc, cok := t.ResidualColIdx[col]
	if !rok || !cok {
		return -1
	}
	if v, ok := t.Residual.Lookup(rr, cc); ok {
		return v
	}
	return -1
}

// CompactGoto builds a GotoTable from a dense determinize.Table.
func CompactGoto(t *determinize.Table) *GotoTable {
	numRows := t.NumStates
	numCols := len(t.NonTerminals)

	activeRow := make([]bool, numRows)
	activeCol := make([]bool, numCols)
	for r := range activeRow {
		activeRow[r] = true
	}
	for c := range activeCol {
		activeCol[c] = true
	}

	out := &GotoTable{
		NumStates:   numRows,
		NumNonTerms: numCols,
		PulledRow:   map[int]pulledEntry{},
		PulledCol:   map[int]pulledEntry{},
	}

	nonZeroCell := func(r, c int) (int, bool) {
		v := t.Goto[r][c]
		return v, v >= 0
	}

	for {
		progressed := false
		for r := 0; r < numRows; r++ {
			if !activeRow[r] {
				continue
			}
			count, lastCol, lastVal := 0, -1, 0
			for c := 0; c < numCols; c++ {
				if !activeCol[c] {
					continue
				}
				if v, ok := nonZeroCell(r, c); ok {
					count++
					lastCol, lastVal = c, v
					if count > 1 {
						break
					}
				}
			}
			if count <= 1 {
				if count == 0 {
					out.PulledRow[r] = pulledEntry{Other: -1, Value: 0}
				} else {
					out.PulledRow[r] = pulledEntry{Other: lastCol, Value: lastVal}
				}
				activeRow[r] = false
				progressed = true
			}
		}
		for c := 0; c < numCols; c++ {
			if !activeCol[c] {
				continue
			}
			count, lastRow, lastVal := 0, -1, 0
			for r := 0; r < numRows; r++ {
				if !activeRow[r] {
					continue
				}
				if v, ok := nonZeroCell(r, c); ok {
					count++
					lastRow, lastVal = r, v
					if count > 1 {
						break
					}
				}
			}
			if count <= 1 {
				if count == 0 {
					out.PulledCol[c] = pulledEntry{Other: -1, Value: 0}
				} else {
					out.PulledCol[c] = pulledEntry{Other: lastRow, Value: lastVal}
				}
				activeCol[c] = false
				progressed = true
			}
		}
		if !progressed {
			break
		}
	}

	var residRows, residCols []int
	for r := 0; r < numRows; r++ {
		if activeRow[r] {
			residRows = append(residRows, r)
		}
	}
	for c := 0; c < numCols; c++ {
		if activeCol[c] {
			residCols = append(residCols, c)
		}
	}
	out.ResidualRowIdx = make(map[int]int, len(residRows))
	for i, r := range residRows {
		out.ResidualRowIdx[r] = i
	}
	out.ResidualColIdx = make(map[int]int, len(residCols))
	for i, c := range residCols {
		out.ResidualColIdx[c] = i
	}

	matrix := make([][]int, len(residRows))
	for i, r := range residRows {
		matrix[i] = make([]int, len(residCols))
		for j, c := range residCols {
			if v, ok := nonZeroCell(r, c); ok {
				matrix[i][j] = v
			} else {
				matrix[i][j] = -1
			}
		}
	}
	out.Residual = packValueMatrix(matrix, len(residRows), len(residCols))

	tracer().Debugf("goto table compacted: %d/%d rows pulled, %d/%d cols pulled, residual %dx%d",
		len(out.PulledRow), numRows, len(out.PulledCol), numCols, len(residRows), len(residCols))
	return out
}

// packValueMatrix classifies rows and columns of a dense int matrix
// (numRows x numCols, -1 meaning "no value") and FFD-packs the non -1
// cells, mirroring packBoolMatrix but retaining the stored value.
func packValueMatrix(matrix [][]int, numRows, numCols int) *ValuePlane {
	colClass := make([]int, numCols)
	{
		cl := graph.NewClassifier()
		for c := 0; c < numCols; c++ {
			var b strings.Builder
			for r := 0; r < numRows; r++ {
				b.WriteString(strconv.Itoa(matrix[r][c]))
				b.WriteByte(',')
			}
			id, _ := cl.Classify(b.String(), nil)
			colClass[c] = id
		}
	}
	numColClasses := 0
	for _, c := range colClass {
		if c+1 > numColClasses {
			numColClasses = c + 1
		}
	}

	rowClass := make([]int, numRows)
	exemplarOfRowClass := map[int][]int{}
	{
		cl := graph.NewClassifier()
		for r := 0; r < numRows; r++ {
			compressed := make([]int, numColClasses)
			for cc := range compressed {
				compressed[cc] = -1
			}
			for c := 0; c < numCols; c++ {
				if matrix[r][c] != -1 {
					compressed[colClass[c]] = matrix[r][c]
				}
			}
			var b strings.Builder
			for _, v := range compressed {
				b.WriteString(strconv.Itoa(v))
				b.WriteByte(',')
			}
			key := b.String()
			id, fresh := cl.Classify(key, compressed)
			rowClass[r] = id
			if fresh {
				exemplarOfRowClass[id] = compressed
			}
		}
	}

	numRowClasses := len(exemplarOfRowClass)
	rows := make([]graph.Row, numRowClasses)
	for rc := 0; rc < numRowClasses; rc++ {
		exemplar := exemplarOfRowClass[rc]
		var row graph.Row
		for cc, v := range exemplar {
			if v != -1 {
				row = append(row, cc)
			}
		}
		rows[rc] = row
	}
	offset, size := graph.Pack(rows, true)

	check := make([]int, size)
	value := make([]int, size)
	for i := range check {
		check[i] = -1
	}
	for rc, row := range rows {
		exemplar := exemplarOfRowClass[rc]
		for _, cc := range row {
			pos := cc + offset[rc]
			check[pos] = rc
			value[pos] = exemplar[cc]
		}
	}

	return &ValuePlane{RowClass: rowClass, ColClass: colClass, Offset: offset, Check: check, Value: value}
}
