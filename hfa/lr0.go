package hfa

import (
	"github.com/halvardal/lrforge/grammar"
	"github.com/halvardal/lrforge/graph"
)

// State is one node of a handle-finding automaton: a frozen item set (its
// full closure, not just the kernel), the shifts leaving it (by symbol
// name) and the rule-ids reducible in it.
type State struct {
	ID      int
	Closure []Item
	Shift   map[string]int
	Reduce  []int // rule serials whose item is at-end in Closure
}

// HFA is a handle-finding automaton over a grammar: LR(0) by construction,
// optionally enriched with lookahead by package-level LALR/Canonical/Minimal
// constructors.
type HFA struct {
	Grammar     *grammar.Grammar
	States      []*State
	Start       map[string]int // start-symbol name -> initial state id
	Accept      map[string]int // start-symbol name -> accepting state id
	Breadcrumbs []string       // per state: the symbol whose shift first created it, "" for a root
}

// Traverse follows a chain of shifts for syms starting at state q, as used
// by the LALR follow-computation to find goto(q, alpha). It returns false
// if any shift in the chain is undefined.
func (h *HFA) Traverse(q int, syms []*grammar.Symbol) (int, bool) {
	for _, sy := range syms {
		next, ok := h.States[q].Shift[sy.Name]
		if !ok {
			return 0, false
		}
		q = next
	}
	return q, true
}

// BuildLR0 constructs the LR(0) characteristic finite state machine for g,
// applying unit-rule elision as items are discovered (see package doc and
// spec component 4.D).
func BuildLR0(g *grammar.Grammar) *HFA {
	trav := graph.NewTraversal()
	h := &HFA{Grammar: g, Start: map[string]int{}, Accept: map[string]int{}}

	internClosure := func(seed []Item, pred int, breadcrumb string) int {
		closure := closureLR0(g, seed)
		key := itemSetKey(closure)
		id, _ := trav.Intern(key, closure, pred, breadcrumb)
		return id
	}

	for _, ssym := range g.Start() {
		seed := []Item{{RuleID: synRuleID, Pos: 0, Start: ssym.Name}}
		id := internClosure(seed, -1, "")
		h.Start[ssym.Name] = id
	}

	trav.Execute(func(id int, key string, payload interface{}) {
		closure := payload.([]Item)

		// group by dot symbol, building the naive (pre-elision) successor
		// kernel for each.
		order := []string{}
		kernels := map[string][]Item{}
		for _, it := range closure {
			sy := it.DotSymbol(g)
			if sy == nil {
				continue
			}
			if _, ok := kernels[sy.Name]; !ok {
				order = append(order, sy.Name)
			}
			kernels[sy.Name] = append(kernels[sy.Name], it.Advance())
		}

		naiveClosure := map[string][]Item{}
		for _, name := range order {
			naiveClosure[name] = closureLR0(g, sortItems(kernels[name]))
		}

		// detect unit-rule elision candidates: symbol s whose naive closure
		// is exactly the single at-end item of some null-action rule A -> s.
		redirect := map[string]string{} // symbol name -> LHS name to redirect to
		for _, name := range order {
			cl := naiveClosure[name]
			if len(cl) != 1 || cl[0].RuleID == synRuleID {
				continue
			}
			r := g.Rule(cl[0].RuleID)
			if cl[0].Pos != len(r.RHS) {
				continue
			}
			if len(r.RHS) == 1 && r.RHS[0].Name == name && r.Action.IsNull() {
				redirect[name] = r.LHS.Name
			}
		}
		// resolve chains (s -> A -> possibly further) with a cycle guard.
		resolve := func(name string) string {
			seen := map[string]bool{}
			for {
				target, ok := redirect[name]
				if !ok || seen[name] {
					return name
				}
				seen[name] = true
				name = target
			}
		}

		shift := map[string]int{}
		resolved := map[string]int{} // resolved symbol name -> interned id
		for _, name := range order {
			final := resolve(name)
			id2, ok := resolved[final]
			if !ok {
				id2 = internClosure(naiveClosure[final], id, final)
				resolved[final] = id2
			}
			shift[name] = id2
		}

		var reduce []int
		for _, it := range closure {
			if it.RuleID != synRuleID && it.AtEnd(g) {
				reduce = append(reduce, it.RuleID)
			}
		}

		st := &State{ID: id, Closure: closure, Shift: shift, Reduce: reduce}
		// h.States grows lazily as ids are discovered by Execute, which visits
		// in id order, so append is safe here.
		for len(h.States) <= id {
			h.States = append(h.States, nil)
			h.Breadcrumbs = append(h.Breadcrumbs, "")
		}
		h.States[id] = st
		h.Breadcrumbs[id] = trav.Breadcrumb(id)
	})

	for name, s0 := range h.Start {
		if acc, ok := h.States[s0].Shift[name]; ok {
			h.Accept[name] = acc
		}
	}
	return h
}

// IsAccepting reports whether q is the accepting state of any start symbol.
func (h *HFA) IsAccepting(q int) bool {
	for _, acc := range h.Accept {
		if acc == q {
			return true
		}
	}
	return false
}
