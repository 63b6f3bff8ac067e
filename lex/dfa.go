package lex

// NoState marks an absent (error) transition in a DFA's dense matrix.
const NoState = -1

// ConditionInit records a scan condition's pair of initial DFA states.
type ConditionInit struct {
	Mid int
	BOL int
}

// DFA is a deterministic scanner automaton: an input-alphabet classifier, a
// dense transition matrix (every row has width Alphabet.NumClasses(), per
// the invariant in the data model), a final-state → rule-id mapping, and a
// per-condition pair of initial states.
type DFA struct {
	Alphabet     *Alphabet
	States       [][]int // States[q][class] = successor state, or NoState
	Final        map[int]int
	RightContext map[int]int // accept state -> trailing-context boundary marker, if any
	Initial      map[string]ConditionInit
}

// Step looks up the successor of state q on codepoint r, or NoState.
func (d *DFA) Step(q int, r rune) int {
	class := d.Alphabet.ClassOf(r)
	return d.States[q][class]
}

// Accepts reports whether q is an accepting state and, if so, which rule.
func (d *DFA) Accepts(q int) (ruleID int, ok bool) {
	ruleID, ok = d.Final[q]
	return
}

// NumStates returns the number of DFA states.
func (d *DFA) NumStates() int { return len(d.States) }
