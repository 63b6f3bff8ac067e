package lex

import (
	"sort"

	"github.com/halvardal/lrforge/charset"
	"github.com/halvardal/lrforge/graph"
	"github.com/halvardal/lrforge/regex"
)

// Alphabet classifies codepoints into a small number of equivalence classes.
// Bounds are the ascending transition points of the original (pre-
// minimization) partition; Classes[i] gives the class assigned to the
// half-open segment [Bounds[i], Bounds[i+1)) (the last segment runs to
// charset.MaxRune).
type Alphabet struct {
	Bounds  []rune
	Classes []int
}

// ClassOf returns the alphabet class of codepoint r.
func (a *Alphabet) ClassOf(r rune) int {
	idx := sort.Search(len(a.Bounds), func(i int) bool { return a.Bounds[i] > r }) - 1
	if idx < 0 {
		idx = 0
	}
	return a.Classes[idx]
}

// NumClasses returns the number of distinct alphabet classes.
func (a *Alphabet) NumClasses() int {
	max := -1
	for _, c := range a.Classes {
		if c > max {
			max = c
		}
	}
	return max + 1
}

// buildRawAlphabet collects every distinct cut point mentioned by an NFA
// edge label and builds the finest partition consistent with them: each
// segment between two consecutive cut points gets its own class, one class
// per segment (no minimization yet — that is minimizeAlphabet's job).
func buildRawAlphabet(n *regex.NFA) *Alphabet {
	cuts := map[rune]bool{0: true}
	for _, s := range n.States {
		for _, e := range s.Edges {
			for _, b := range e.Label.Bounds() {
				cuts[b] = true
			}
		}
	}
	bounds := make([]rune, 0, len(cuts))
	for b := range cuts {
		bounds = append(bounds, b)
	}
	sort.Slice(bounds, func(i, j int) bool { return bounds[i] < bounds[j] })
	classes := make([]int, len(bounds))
	for i := range classes {
		classes[i] = i
	}
	return &Alphabet{Bounds: bounds, Classes: classes}
}

// minimizeAlphabet transposes the DFA's dense transition matrix to columns
// (one column per raw alphabet segment), classifies columns by equality of
// their full successor-state vector, and rebuilds the alphabet with a
// composed classifier: original bounds paired with the per-original-class
// identification. The DFA's transition matrix is rebuilt to be indexed by
// the new, smaller set of classes.
func minimizeAlphabet(d *DFA) {
	raw := d.Alphabet
	rawClasses := raw.NumClasses()
	cl := graph.NewClassifier()
	newClassOf := make([]int, rawClasses)
	for c := 0; c < rawClasses; c++ {
		col := make([]int, len(d.States))
		for q := range d.States {
			col[q] = d.States[q][c]
		}
		key := columnKey(col)
		id, _ := cl.Classify(key, col)
		newClassOf[c] = id
	}
	newClasses := make([]int, len(raw.Classes))
	for i, oldClass := range raw.Classes {
		newClasses[i] = newClassOf[oldClass]
	}
	newAlphabet := &Alphabet{Bounds: raw.Bounds, Classes: newClasses}

	n := cl.NumClasses()
	newStates := make([][]int, len(d.States))
	for q := range d.States {
		row := make([]int, n)
		for id := 0; id < n; id++ {
			col := cl.Exemplar(id).([]int)
			row[id] = col[q]
		}
		newStates[q] = row
	}
	d.Alphabet = newAlphabet
	d.States = newStates
}

func columnKey(col []int) string {
	b := make([]byte, 0, len(col)*4)
	for _, v := range col {
		b = appendVarint(b, int64(v))
	}
	return string(b)
}

func appendVarint(b []byte, v int64) []byte {
	u := uint64(v)
	for u >= 0x80 {
		b = append(b, byte(u)|0x80)
		u >>= 7
	}
	b = append(b, byte(u))
	return b
}
