package compact

import (
	"strings"

	"github.com/halvardal/lrforge/graph"
)

// BoolPlane is a row/column-classified, FFD-displacement-packed encoding of
// a boolean matrix: probing (row, col) means looking up
// Check[Offset[RowClass[row]]+ColClass[col]] == RowClass[row]. It underlies
// both the scanner's background 1-mask and the parser ACTION table's
// error-plane predicate, which are the same compaction problem over
// different source matrices (see lex/alphabet.go's column classification
// and lex/minimize.go's row classification for the two halves this
// generalizes).
type BoolPlane struct {
	RowClass []int `json:"row_class"`
	ColClass []int `json:"col_class"`
	Offset   []int `json:"offset"`
	Check    []int `json:"check"`
}

// Test reports whether the plane records true at (row, col).
func (p *BoolPlane) Test(row, col int) bool {
	rc := p.RowClass[row]
	cc := p.ColClass[col]
	pos := p.Offset[rc] + cc
	if pos < 0 || pos >= len(p.Check) {
		return false
	}
	return p.Check[pos] == rc
}

// packBoolMatrix classifies columns, then rows, of a dense boolean matrix
// (numRows x numCols), then FFD-packs one row per row class, storing only
// the true positions (the matrix is expected to already have been
// transformed so that true is the sparse value, e.g. via scanner row
// inversion).
func packBoolMatrix(matrix [][]bool, numRows, numCols int) *BoolPlane {
	colClass := make([]int, numCols)
	{
		cl := graph.NewClassifier()
		for c := 0; c < numCols; c++ {
			var b strings.Builder
			for r := 0; r < numRows; r++ {
				if matrix[r][c] {
					b.WriteByte('1')
				} else {
					b.WriteByte('0')
				}
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
	exemplarOfRowClass := map[int][]bool{}
	{
		cl := graph.NewClassifier()
		for r := 0; r < numRows; r++ {
			compressed := make([]bool, numColClasses)
			for c := 0; c < numCols; c++ {
				if matrix[r][c] {
					compressed[colClass[c]] = true
				}
			}
			var b strings.Builder
			for _, v := range compressed {
				if v {
					b.WriteByte('1')
				} else {
					b.WriteByte('0')
				}
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
			if v {
				row = append(row, cc)
			}
		}
		rows[rc] = row
	}
	offset, size := graph.Pack(rows, true)

	check := make([]int, size)
	for i := range check {
		check[i] = -1
	}
	for rc, row := range rows {
		for _, cc := range row {
			check[cc+offset[rc]] = rc
		}
	}

	return &BoolPlane{RowClass: rowClass, ColClass: colClass, Offset: offset, Check: check}
}
