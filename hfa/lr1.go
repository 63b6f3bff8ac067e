package hfa

import (
	"sort"
	"strconv"
	"strings"

	"github.com/cnf/structhash"
	"github.com/halvardal/lrforge"
	"github.com/halvardal/lrforge/grammar"
	"github.com/halvardal/lrforge/graph"
)

// endMarker stands in for end-of-input as a follower in canonical LR(1)
// items, independent of whatever name (if any) the grammar gave its
// end-of-input terminal.
const endMarker = "$end"

// lr1Item is a canonical LR(1) parse item: a rule, a dot position and a
// single concrete follower terminal (by name; endMarker for end-of-input).
type lr1Item struct {
	RuleID   int
	Pos      int
	Start    string
	Follower string
}

func (it lr1Item) dotSymbol(g *grammar.Grammar) *grammar.Symbol {
	if it.RuleID == synRuleID {
		if it.Pos == 0 {
			return g.Symbol(it.Start)
		}
		return nil
	}
	r := g.Rule(it.RuleID)
	if it.Pos >= len(r.RHS) {
		return nil
	}
	return r.RHS[it.Pos]
}

func (it lr1Item) atEnd(g *grammar.Grammar) bool { return it.dotSymbol(g) == nil }

func (it lr1Item) advance() lr1Item {
	it.Pos++
	return it
}

// tail returns the RHS symbols following the symbol right after the dot
// (i.e. what follows the non-terminal currently being predicted through).
func (it lr1Item) tail(g *grammar.Grammar) []*grammar.Symbol {
	if it.RuleID == synRuleID {
		return nil
	}
	r := g.Rule(it.RuleID)
	if it.Pos+1 >= len(r.RHS) {
		return nil
	}
	return r.RHS[it.Pos+1:]
}

func sortLR1(items []lr1Item) []lr1Item {
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.RuleID != b.RuleID {
			return a.RuleID < b.RuleID
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.Pos != b.Pos {
			return a.Pos < b.Pos
		}
		return a.Follower < b.Follower
	})
	return items
}

func dedupLR1(items []lr1Item) []lr1Item {
	out := items[:0]
	var last lr1Item
	has := false
	for _, it := range items {
		if has && it == last {
			continue
		}
		out = append(out, it)
		last = it
		has = true
	}
	return out
}

// closureLR1 computes the canonical LR(1) closure: for each item whose dot
// precedes a non-terminal, predict items (sub-rule, 0, t) for every
// terminal t in FIRST(tail . follower), where tail is what follows the
// predicted non-terminal in the current item.
func closureLR1(g *grammar.Grammar, a *grammar.Analysis, seed []lr1Item) []lr1Item {
	seen := map[lr1Item]bool{}
	queue := make([]lr1Item, 0, len(seed))
	add := func(it lr1Item) {
		if !seen[it] {
			seen[it] = true
			queue = append(queue, it)
		}
	}
	for _, it := range seed {
		add(it)
	}
	for i := 0; i < len(queue); i++ {
		it := queue[i]
		sy := it.dotSymbol(g)
		if sy == nil || sy.IsTerminal() {
			continue
		}
		tail := it.tail(g)
		firstSet := a.FirstOfSeq(tail)
		nullableTail := true
		for _, s := range tail {
			if !a.Nullable(s) {
				nullableTail = false
				break
			}
		}
		for _, r := range g.RulesFor(sy) {
			for t := range firstSet {
				add(lr1Item{RuleID: r.Serial, Pos: 0, Follower: t})
			}
			if nullableTail {
				add(lr1Item{RuleID: r.Serial, Pos: 0, Follower: it.Follower})
			}
		}
	}
	out := make([]lr1Item, 0, len(seen))
	for it := range seen {
		out = append(out, it)
	}
	return dedupLR1(sortLR1(out))
}

func lr1SetKey(items []lr1Item) string {
	h, err := structhash.Hash(items, 1)
	if err != nil {
		var b strings.Builder
		for _, it := range items {
			b.WriteString(strconv.Itoa(it.RuleID))
			b.WriteByte(':')
			b.WriteString(it.Start)
			b.WriteByte(':')
			b.WriteString(strconv.Itoa(it.Pos))
			b.WriteByte(':')
			b.WriteString(it.Follower)
			b.WriteByte(',')
		}
		return b.String()
	}
	return h
}

func dedupInts(ids []int) []int {
	sort.Ints(ids)
	out := ids[:0]
	var last int
	has := false
	for _, v := range ids {
		if has && v == last {
			continue
		}
		out = append(out, v)
		last = v
		has = true
	}
	return out
}

func followerTokType(g *grammar.Grammar, follower string) (lrforge.TokType, bool) {
	if follower == endMarker {
		return lrforge.EndOfInput, true
	}
	sy := g.Symbol(follower)
	if sy == nil {
		return 0, false
	}
	return sy.Value, true
}

// BuildCanonicalLR1 constructs the canonical LR(1) automaton for g: every
// state is a set of (rule, position, follower) triples, so states that
// LALR would merge stay split whenever their followers genuinely differ.
func BuildCanonicalLR1(g *grammar.Grammar) *LAAutomaton {
	a := grammar.Analyze(g)
	trav := graph.NewTraversal()
	h := &HFA{Grammar: g, Start: map[string]int{}, Accept: map[string]int{}}
	reduceOn := map[int]map[lrforge.TokType][]int{}

	internClosure := func(seed []lr1Item, pred int, breadcrumb string) int {
		closure := closureLR1(g, a, seed)
		key := lr1SetKey(closure)
		id, _ := trav.Intern(key, closure, pred, breadcrumb)
		return id
	}

	for _, ssym := range g.Start() {
		seed := []lr1Item{{RuleID: synRuleID, Pos: 0, Start: ssym.Name, Follower: endMarker}}
		id := internClosure(seed, -1, "")
		h.Start[ssym.Name] = id
	}

	trav.Execute(func(id int, key string, payload interface{}) {
		closure := payload.([]lr1Item)

		order := []string{}
		kernels := map[string][]lr1Item{}
		for _, it := range closure {
			sy := it.dotSymbol(g)
			if sy == nil {
				continue
			}
			if _, ok := kernels[sy.Name]; !ok {
				order = append(order, sy.Name)
			}
			kernels[sy.Name] = append(kernels[sy.Name], it.advance())
		}

		shift := map[string]int{}
		for _, name := range order {
			nid := internClosure(sortLR1(kernels[name]), id, name)
			shift[name] = nid
		}

		var reduceIDs []int
		for _, it := range closure {
			if it.RuleID == synRuleID || !it.atEnd(g) {
				continue
			}
			tt, ok := followerTokType(g, it.Follower)
			if !ok {
				continue
			}
			if reduceOn[id] == nil {
				reduceOn[id] = map[lrforge.TokType][]int{}
			}
			reduceOn[id][tt] = append(reduceOn[id][tt], it.RuleID)
			reduceIDs = append(reduceIDs, it.RuleID)
		}

		for len(h.States) <= id {
			h.States = append(h.States, nil)
			h.Breadcrumbs = append(h.Breadcrumbs, "")
		}
		h.States[id] = &State{ID: id, Shift: shift, Reduce: dedupInts(reduceIDs)}
		h.Breadcrumbs[id] = trav.Breadcrumb(id)
	})

	for name, s0 := range h.Start {
		if acc, ok := h.States[s0].Shift[name]; ok {
			h.Accept[name] = acc
		}
	}
	for _, m := range reduceOn {
		for t, ids := range m {
			m[t] = dedupInts(ids)
		}
	}
	return &LAAutomaton{HFA: h, ReduceOn: reduceOn}
}
