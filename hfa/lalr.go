package hfa

import (
	"strconv"

	"github.com/halvardal/lrforge"
	"github.com/halvardal/lrforge/graph"
)

// LALRResult enriches an LR(0) automaton with LALR(1) lookahead: per
// reducing (state, rule) pair, the set of terminals that reduce-on.
type LALRResult struct {
	*HFA
	ReduceOn map[int]map[int]map[lrforge.TokType]bool // state id -> rule id -> terminal set
}

const endOfInputKey = lrforge.EndOfInput

// BuildLALR computes LALR(1) lookahead sets over an existing LR(0)
// automaton via the state-and-rule digraph method: FIRST(state) and
// FOLLOW(state,nonterminal) node sets flow into each other and into
// per-reducing-item terminal sets, with the fixed point computed by
// contracting the flow graph into strongly connected components (Tarjan)
// and propagating unions in topological order.
func BuildLALR(h *HFA) *LALRResult {
	g := h.Grammar

	type key = string
	sets := map[key]map[lrforge.TokType]bool{} // "F:<state>" | "W:<state>:<A>" | "R:<state>:<rule>"
	succOf := map[key][]key{}
	predOf := map[key][]key{}

	fkey := func(q int) key { return "F:" + strconv.Itoa(q) }
	wkey := func(q int, a string) key { return "W:" + strconv.Itoa(q) + ":" + a }
	rkey := func(q, r int) key { return "R:" + strconv.Itoa(q) + ":" + strconv.Itoa(r) }

	var nodes []key
	ensure := func(k key) {
		if _, ok := sets[k]; !ok {
			sets[k] = map[lrforge.TokType]bool{}
			nodes = append(nodes, k)
		}
	}
	addEdge := func(from, to key) {
		succOf[from] = append(succOf[from], to)
		predOf[to] = append(predOf[to], from)
	}

	// seed FIRST(q): terminals on outgoing shifts, plus end-of-input for
	// accepting states.
	for q, st := range h.States {
		ensure(fkey(q))
		for sym := range st.Shift {
			sy := g.Symbol(sym)
			if sy != nil && sy.IsTerminal() {
				sets[fkey(q)][sy.Value] = true
			}
		}
		if h.IsAccepting(q) {
			sets[fkey(q)][endOfInputKey] = true
		}
	}

	// register reduce nodes for every (state, rule) reducing pair.
	for q, st := range h.States {
		for _, r := range st.Reduce {
			ensure(rkey(q, r))
		}
	}

	// build FOLLOW(q,A) nodes and edges for every nonterminal shift.
	for q, st := range h.States {
		for sym, q2 := range st.Shift {
			sy := g.Symbol(sym)
			if sy == nil || sy.IsTerminal() {
				continue
			}
			w := wkey(q, sym)
			ensure(w)
			// FIRST(q') -> FOLLOW(q,A)
			ensure(fkey(q2))
			addEdge(fkey(q2), w)

			for _, r := range g.RulesFor(sy) {
				q2dash, ok := h.Traverse(q, r.RHS)
				if !ok {
					continue
				}
				ensure(fkey(q2dash))
				addEdge(w, fkey(q2dash))
				if _, ok := sets[rkey(q2dash, r.Serial)]; ok {
					addEdge(w, rkey(q2dash, r.Serial))
				}
			}
		}
	}

	succ := func(k key) []key { return succOf[k] }
	comps := graph.SCC(nodes, succ)
	// SCC returns components in reverse topological order (sinks first);
	// process sources first so every cross-component input is already
	// final by the time its target component is handled.
	for i, j := 0, len(comps)-1; i < j; i, j = i+1, j-1 {
		comps[i], comps[j] = comps[j], comps[i]
	}

	union := func(dst, src map[lrforge.TokType]bool) bool {
		changed := false
		for t := range src {
			if !dst[t] {
				dst[t] = true
				changed = true
			}
		}
		return changed
	}

	for _, comp := range comps {
		for {
			changed := false
			for _, v := range comp {
				dst := sets[v]
				for _, u := range predOf[v] {
					if union(dst, sets[u]) {
						changed = true
					}
				}
			}
			if !changed {
				break
			}
		}
	}

	res := &LALRResult{HFA: h, ReduceOn: map[int]map[int]map[lrforge.TokType]bool{}}
	for q, st := range h.States {
		for _, r := range st.Reduce {
			if res.ReduceOn[q] == nil {
				res.ReduceOn[q] = map[int]map[lrforge.TokType]bool{}
			}
			res.ReduceOn[q][r] = sets[rkey(q, r)]
		}
	}
	return res
}
