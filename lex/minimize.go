package lex

import (
	"strconv"
	"strings"

	"github.com/halvardal/lrforge/graph"
)

// Minimize runs Moore state minimization followed by input-alphabet
// (column) minimization, in that order, as prescribed by the component
// design: "DFA minimization (states, then input alphabet)".
func Minimize(d *DFA) *DFA {
	min := minimizeStates(d)
	minimizeAlphabet(min)
	return min
}

// minimizeStates partitions states by Moore's algorithm: the initial
// partition groups states by accepting rule id (all non-final states share
// one class); each subsequent pass refines a partition by comparing every
// state's row, translated through the current partition, against its
// class's first-seen (exemplar) row, splitting off any state that
// disagrees. The pass terminates when a full sweep splits nothing, and one
// representative state is emitted per final class.
func minimizeStates(d *DFA) *DFA {
	n := d.NumStates()
	classes := d.NumStates()
	groupOf := make([]int, n)
	{
		cl := graph.NewClassifier()
		for q := 0; q < n; q++ {
			key := finalityKey(d, q)
			id, _ := cl.Classify(key, nil)
			groupOf[q] = id
		}
		classes = cl.NumClasses()
	}
	for {
		cl := graph.NewClassifier()
		newGroupOf := make([]int, n)
		for q := 0; q < n; q++ {
			key := rowSignature(d, q, groupOf)
			id, _ := cl.Classify(key, nil)
			newGroupOf[q] = id
		}
		changed := false
		if cl.NumClasses() != classes {
			changed = true
		} else {
			for q := 0; q < n; q++ {
				if newGroupOf[q] != groupOf[q] {
					changed = true
					break
				}
			}
		}
		groupOf = newGroupOf
		classes = cl.NumClasses()
		if !changed {
			break
		}
	}

	// pick the lowest-numbered original state as each class's representative
	repOf := make([]int, classes)
	for i := range repOf {
		repOf[i] = -1
	}
	for q := 0; q < n; q++ {
		g := groupOf[q]
		if repOf[g] == -1 {
			repOf[g] = q
		}
	}

	numClasses := d.Alphabet.NumClasses()
	states := make([][]int, classes)
	final := map[int]int{}
	rc := map[int]int{}
	for g := 0; g < classes; g++ {
		q := repOf[g]
		row := make([]int, numClasses)
		for c := 0; c < numClasses; c++ {
			succ := d.States[q][c]
			if succ == NoState {
				row[c] = NoState
			} else {
				row[c] = groupOf[succ]
			}
		}
		states[g] = row
		if rid, ok := d.Final[q]; ok {
			final[g] = rid
		}
		if r, ok := d.RightContext[q]; ok {
			rc[g] = r
		}
	}
	initial := map[string]ConditionInit{}
	for cond, ci := range d.Initial {
		initial[cond] = ConditionInit{Mid: groupOf[ci.Mid], BOL: groupOf[ci.BOL]}
	}

	return &DFA{
		Alphabet:     d.Alphabet,
		States:       states,
		Final:        final,
		RightContext: rc,
		Initial:      initial,
	}
}

func finalityKey(d *DFA, q int) string {
	if rid, ok := d.Final[q]; ok {
		return "F:" + strconv.Itoa(rid)
	}
	return "N"
}

func rowSignature(d *DFA, q int, groupOf []int) string {
	var b strings.Builder
	b.WriteString(finalityKey(d, q))
	for _, succ := range d.States[q] {
		b.WriteByte('|')
		if succ == NoState {
			b.WriteString("-")
		} else {
			b.WriteString(strconv.Itoa(groupOf[succ]))
		}
	}
	return b.String()
}
