package hfa

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cnf/structhash"
	"github.com/halvardal/lrforge/grammar"
)

// synRuleID marks a parse item as belonging to the synthetic accept rule of
// a start symbol, rather than to a real grammar.Rule.
const synRuleID = -1

// Item is an LR(0) parse item: a rule and a dot position. RuleID == synRuleID
// marks a synthetic "accept -> start" item, in which case Start names the
// start symbol and Pos is either 0 (dot before) or 1 (dot after, i.e. the
// accepting position).
type Item struct {
	RuleID int
	Pos    int
	Start  string
}

// DotSymbol returns the symbol immediately after the dot, or nil if the dot
// is at the end of the item's right-hand side.
func (it Item) DotSymbol(g *grammar.Grammar) *grammar.Symbol {
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

// AtEnd reports whether the dot has reached the end of the item's
// right-hand side.
func (it Item) AtEnd(g *grammar.Grammar) bool {
	return it.DotSymbol(g) == nil
}

// Advance returns the item with its dot moved one position to the right.
func (it Item) Advance() Item {
	it.Pos++
	return it
}

// Rule returns the underlying grammar rule, or nil for a synthetic item.
func (it Item) Rule(g *grammar.Grammar) *grammar.Rule {
	if it.RuleID == synRuleID {
		return nil
	}
	return g.Rule(it.RuleID)
}

func (it Item) String(g *grammar.Grammar) string {
	if it.RuleID == synRuleID {
		if it.Pos == 0 {
			return fmt.Sprintf("accept -> . %s", it.Start)
		}
		return fmt.Sprintf("accept -> %s .", it.Start)
	}
	r := g.Rule(it.RuleID)
	var b strings.Builder
	fmt.Fprintf(&b, "%s ->", r.LHS.Name)
	for i, sy := range r.RHS {
		if i == it.Pos {
			b.WriteString(" .")
		}
		b.WriteByte(' ')
		b.WriteString(sy.Name)
	}
	if it.Pos == len(r.RHS) {
		b.WriteString(" .")
	}
	return b.String()
}

// sortItems sorts a slice of items into a canonical order (by rule id, then
// start-symbol name for synthetic items, then position), used both to
// de-duplicate cores and to derive stable hash keys.
func sortItems(items []Item) []Item {
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.RuleID != b.RuleID {
			return a.RuleID < b.RuleID
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.Pos < b.Pos
	})
	return items
}

// dedupItems removes duplicate items from an already-sorted slice.
func dedupItems(items []Item) []Item {
	out := items[:0]
	var last Item
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

// closureLR0 computes the LR(0) closure of a kernel item set: repeatedly
// predicting, for every item whose dot precedes a non-terminal, the
// initial items of that non-terminal's rules, to a fixed point.
func closureLR0(g *grammar.Grammar, seed []Item) []Item {
	seen := map[Item]bool{}
	queue := make([]Item, 0, len(seed))
	add := func(it Item) {
		if !seen[it] {
			seen[it] = true
			queue = append(queue, it)
		}
	}
	for _, it := range seed {
		add(it)
	}
	for i := 0; i < len(queue); i++ {
		sy := queue[i].DotSymbol(g)
		if sy == nil || sy.IsTerminal() {
			continue
		}
		for _, r := range g.RulesFor(sy) {
			add(Item{RuleID: r.Serial, Pos: 0})
		}
	}
	out := make([]Item, 0, len(seen))
	for it := range seen {
		out = append(out, it)
	}
	return dedupItems(sortItems(out))
}

// itemSetKey produces a canonical hash key for a (sorted) item set, the
// same structhash-based approach used by package lex for NFA closure keys.
func itemSetKey(items []Item) string {
	h, err := structhash.Hash(items, 1)
	if err != nil {
		var b strings.Builder
		for _, it := range items {
			b.WriteString(strconv.Itoa(it.RuleID))
			b.WriteByte(':')
			b.WriteString(it.Start)
			b.WriteByte(':')
			b.WriteString(strconv.Itoa(it.Pos))
			b.WriteByte(',')
		}
		return b.String()
	}
	return h
}
