package graph

import "sort"

// Row is a sparse row given as the set of column indices it has a value in
// (the values themselves are irrelevant to packing — only collisions of
// displaced positions matter).
type Row []int

// Pack computes, for every row, a displacement offset such that the
// translated positions {c + offset[r] | c ∈ rows[r]} are pairwise disjoint
// across all rows r. This is first-fit-decreasing: rows are processed in
// decreasing cardinality (ties broken by original row index, i.e. a stable
// sort), and for each row the smallest feasible offset is claimed.
//
// Empty rows receive offset = size (the final total size), matching the
// convention that an always-empty row never collides with anything and
// can be pointed one past the end.
//
// If allowNegative is true, offsets may be negative (needed when packing a
// table whose rows are keyed by a signed alphabet/classifier index); the
// search still starts from the smallest offset that keeps every displaced
// index to begin with a value and proceeds upward.
func Pack(rows []Row, allowNegative bool) (offsets []int, size int) {
	n := len(rows)
	offsets = make([]int, n)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return len(rows[order[a]]) > len(rows[order[b]])
	})

	used := make(map[int]bool)
	size = 0
	for _, r := range order {
		row := rows[r]
		if len(row) == 0 {
			offsets[r] = size
			continue
		}
		start := 0
		if allowNegative {
			start = -minOf(row)
		}
		offset := start
		for {
			collision := false
			for _, c := range row {
				if used[c+offset] {
					collision = true
					break
				}
			}
			if !collision {
				break
			}
			offset++
		}
		offsets[r] = offset
		for _, c := range row {
			used[c+offset] = true
			if c+offset+1 > size {
				size = c + offset + 1
			}
		}
	}
	return offsets, size
}

func minOf(row Row) int {
	m := row[0]
	for _, v := range row[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
