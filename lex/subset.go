package lex

import (
	"sort"
	"strconv"
	"strings"

	"github.com/cnf/structhash"
	"github.com/halvardal/lrforge/graph"
	"github.com/halvardal/lrforge/regex"
)

// BuildDFA performs subset construction over the rank-annotated NFA
// produced by regex.Compile, yielding a DFA whose states are reached by
// the breadth-first work list in package graph. See DESIGN.md for the
// documented simplification around the min_rank closure restriction.
func BuildDFA(n *regex.NFA, rules []regex.CompiledRule) *DFA {
	raw := buildRawAlphabet(n)
	rightContextOf := map[int]int{}
	for _, r := range rules {
		if r.RightContext != regex.NoBoundary {
			rightContextOf[r.RuleID] = r.RightContext
		}
	}

	trav := graph.NewTraversal()
	initial := map[string]ConditionInit{}
	internClosure := func(seed []int) int {
		closure := epsilonClosure(n, seed)
		key := closureKey(closure)
		id, _ := trav.Intern(key, closure, -1, "")
		return id
	}
	for cond, entry := range n.Conditions {
		mid := internClosure([]int{entry.Mid})
		bol := internClosure([]int{entry.BOL})
		initial[cond] = ConditionInit{Mid: mid, BOL: bol}
	}

	final := map[int]int{}
	rcOut := map[int]int{}
	rawClasses := raw.NumClasses()
	transitions := map[int][]int{} // dfa state id -> per-raw-class successor (NoState if none)

	trav.Execute(func(id int, key string, payload interface{}) {
		closure := payload.([]int)
		if rule, ok := bestAccepting(n, closure); ok {
			final[id] = rule
			if rc, has := rightContextOf[rule]; has {
				rcOut[id] = rc
			}
		}
		perClass := make([][]int, rawClasses)
		for c := 0; c < rawClasses; c++ {
			rep := representative(raw, c)
			var succ []int
			seen := map[int]bool{}
			for _, s := range closure {
				for _, e := range n.States[s].Edges {
					if e.Label.Contains(rep) && !seen[e.To] {
						seen[e.To] = true
						succ = append(succ, e.To)
					}
				}
			}
			perClass[c] = succ
		}
		// coalesce identical pre-closure successor sets: one closure call per
		// distinct set.
		closureCache := map[string]int{}
		row := make([]int, rawClasses)
		for c := 0; c < rawClasses; c++ {
			if len(perClass[c]) == 0 {
				row[c] = NoState
				continue
			}
			rawKey := closureKey(perClass[c])
			if cached, ok := closureCache[rawKey]; ok {
				row[c] = cached
				continue
			}
			nextClosure := epsilonClosure(n, perClass[c])
			nextKey := closureKey(nextClosure)
			nextID, _ := trav.Intern(nextKey, nextClosure, id, strconv.Itoa(c))
			row[c] = nextID
			closureCache[rawKey] = nextID
		}
		transitions[id] = row
	})

	numStates := trav.Len()
	states := make([][]int, numStates)
	for q := 0; q < numStates; q++ {
		states[q] = transitions[q]
	}

	d := &DFA{
		Alphabet:     raw,
		States:       states,
		Final:        final,
		RightContext: rcOut,
		Initial:      initial,
	}
	return d
}

func representative(a *Alphabet, class int) rune {
	return a.Bounds[class]
}

func bestAccepting(n *regex.NFA, closure []int) (ruleID int, ok bool) {
	bestRank := 0
	found := false
	for _, s := range closure {
		st := n.States[s]
		if st.Final == regex.NoRule {
			continue
		}
		if !found || st.Rank > bestRank || (st.Rank == bestRank && st.Final < ruleID) {
			bestRank = st.Rank
			ruleID = st.Final
			found = true
		}
	}
	return ruleID, found
}

func epsilonClosure(n *regex.NFA, seed []int) []int {
	seen := map[int]bool{}
	var stack []int
	for _, s := range seed {
		if !seen[s] {
			seen[s] = true
			stack = append(stack, s)
		}
	}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, e := range n.States[s].Eps {
			if !seen[e] {
				seen[e] = true
				stack = append(stack, e)
			}
		}
	}
	out := make([]int, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Ints(out)
	return out
}

// closureKey builds a canonical, hash-stable key for a (sorted) set of NFA
// state ids, via structhash — the same dependency the teacher uses for
// hashing composite Go values into stable keys.
func closureKey(sortedStates []int) string {
	h, err := structhash.Hash(sortedStates, 1)
	if err != nil {
		// structhash.Hash only errors on unhashable input shapes; a []int
		// is always hashable, so fall back defensively rather than panic.
		var b strings.Builder
		for _, s := range sortedStates {
			b.WriteString(strconv.Itoa(s))
			b.WriteByte(',')
		}
		return b.String()
	}
	return h
}
