package determinize

import (
	"fmt"
	"sort"

	"github.com/halvardal/lrforge"
	"github.com/halvardal/lrforge/grammar"
	"github.com/halvardal/lrforge/hfa"
)

// Style governs how Determinize resolves a cell that still carries more
// than one candidate action after precedence-driven pruning.
type Style int

const (
	// DeterministicStrict raises a ConflictError for every surviving cell
	// with more than one candidate; it produces a table only for grammars
	// already fully resolved.
	DeterministicStrict Style = iota
	// DeterministicPermissive keeps a shift over any reduce candidates, and
	// otherwise picks the lowest-numbered rule among competing reduces.
	DeterministicPermissive
	// Generalized keeps every surviving candidate behind a split entry,
	// for a GLR-style runtime to explore at parse time.
	Generalized
)

// ConflictError reports a cell DeterministicStrict refused to collapse.
type ConflictError struct {
	State      int
	Terminal   string
	Candidates []int // rule serials; a shift candidate is reported as -1
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("determinize: unresolved conflict at state %d on %q (candidates: %v)", e.State, e.Terminal, e.Candidates)
}

// Table is a dense action/goto table over a pruned automaton. Action cell
// encoding: 0 means error, a value in (0, SplitOffset) means shift to that
// state id, a negative value v means reduce rule -1-v, and a value >=
// SplitOffset indexes Splits for a non-deterministic choice. An accepting
// state's own end-of-input cell holds its own state id as a sentinel,
// distinguishing "done" from an ordinary shift.
type Table struct {
	Grammar      *grammar.Grammar
	NumStates    int
	Terminals    []*grammar.Symbol // column order for Action, excluding the trailing end-of-input column
	NonTerminals []*grammar.Symbol // column order for Goto
	EndColumn    int               // index of the end-of-input column in every Action row

	Action [][]int64
	Goto   [][]int // -1 means no goto defined

	// EssentialError marks, per row, the columns where the cell is a
	// deliberate NONASSOC error rather than an ordinary absent action; error
	// recovery and default-reduction compaction must not paper over these.
	EssentialError []map[int]bool

	// Splits holds the candidate-action lists referenced by Generalized
	// cells; Splits[i] is addressed by action value SplitOffset+i.
	Splits      [][]int64
	SplitOffset int64
}

func (t *Table) termColumn(sy *grammar.Symbol) (int, bool) {
	for i, s := range t.Terminals {
		if s == sy {
			return i, true
		}
	}
	return 0, false
}

func (t *Table) tokColumn(tok lrforge.TokType) (int, bool) {
	if tok == lrforge.EndOfInput {
		return t.EndColumn, true
	}
	for i, s := range t.Terminals {
		if s.Value == tok {
			return i, true
		}
	}
	return 0, false
}

func (t *Table) ntColumn(sy *grammar.Symbol) (int, bool) {
	for i, s := range t.NonTerminals {
		if s == sy {
			return i, true
		}
	}
	return 0, false
}

// newTable allocates an empty table shaped for pruned's grammar and state
// count, with every goto cell defaulted to "undefined".
func newTable(g *grammar.Grammar, numStates int) *Table {
	var terms, nts []*grammar.Symbol
	g.EachTerminal(func(sy *grammar.Symbol) { terms = append(terms, sy) })
	g.EachNonTerminal(func(sy *grammar.Symbol) { nts = append(nts, sy) })

	t := &Table{
		Grammar:      g,
		NumStates:    numStates,
		Terminals:    terms,
		NonTerminals: nts,
		EndColumn:    len(terms),
		SplitOffset:  int64(numStates),
	}
	if t.SplitOffset < 1 {
		t.SplitOffset = 1
	}
	numCols := len(terms) + 1
	t.Action = make([][]int64, numStates)
	t.Goto = make([][]int, numStates)
	t.EssentialError = make([]map[int]bool, numStates)
	for q := 0; q < numStates; q++ {
		t.Action[q] = make([]int64, numCols)
		row := make([]int, len(nts))
		for i := range row {
			row[i] = -1
		}
		t.Goto[q] = row
	}
	return t
}

// Determinize builds a dense action/goto table from pruned. style governs
// cells where a shift and one or more reduce candidates, or more than one
// reduce candidate, survive precedence-driven pruning.
func Determinize(pruned *hfa.PrunedAutomaton, style Style) (*Table, error) {
	g := pruned.Grammar
	t := newTable(g, len(pruned.States))

	for q, st := range pruned.States {
		for sym, target := range st.Shift {
			sy := g.Symbol(sym)
			if sy == nil {
				continue
			}
			if sy.IsTerminal() {
				col, ok := t.termColumn(sy)
				if !ok {
					continue
				}
				t.Action[q][col] = int64(target)
			} else {
				col, ok := t.ntColumn(sy)
				if ok {
					t.Goto[q][col] = target
				}
			}
		}
	}

	for q := range pruned.States {
		for tok, essential := range pruned.EssentialError[q] {
			if !essential {
				continue
			}
			col, ok := t.tokColumn(tok)
			if !ok {
				continue
			}
			t.Action[q][col] = 0
			if t.EssentialError[q] == nil {
				t.EssentialError[q] = map[int]bool{}
			}
			t.EssentialError[q][col] = true
		}
	}

	for q := range pruned.States {
		for tok, candidates := range pruned.ReduceOn[q] {
			if pruned.EssentialError[q][tok] {
				continue
			}
			col, ok := t.tokColumn(tok)
			if !ok || len(candidates) == 0 {
				continue
			}
			shiftVal := t.Action[q][col]
			shiftPresent := shiftVal != 0

			switch {
			case !shiftPresent && len(candidates) == 1:
				t.Action[q][col] = -1 - int64(candidates[0])
			case style == DeterministicStrict:
				all := append([]int(nil), candidates...)
				termName := symbolNameForColumn(g, col, t.EndColumn)
				if shiftPresent {
					return nil, &ConflictError{State: q, Terminal: termName, Candidates: append([]int{-1}, all...)}
				}
				return nil, &ConflictError{State: q, Terminal: termName, Candidates: all}
			case style == DeterministicPermissive:
				if shiftPresent {
					continue
				}
				min := candidates[0]
				for _, r := range candidates[1:] {
					if r < min {
						min = r
					}
				}
				t.Action[q][col] = -1 - int64(min)
			case style == Generalized:
				var list []int64
				if shiftPresent {
					list = append(list, shiftVal)
				}
				byRHSLen := append([]int(nil), candidates...)
				sort.SliceStable(byRHSLen, func(i, j int) bool {
					return len(g.Rule(byRHSLen[i]).RHS) < len(g.Rule(byRHSLen[j]).RHS)
				})
				for _, r := range byRHSLen {
					list = append(list, -1-int64(r))
				}
				idx := len(t.Splits)
				t.Splits = append(t.Splits, list)
				t.Action[q][col] = t.SplitOffset + int64(idx)
				tracer().Infof("state %d terminal column %d: allocated split entry %d (%d candidates)", q, col, idx, len(list))
			}
		}
	}

	for _, accQ := range pruned.Accept {
		t.Action[accQ][t.EndColumn] = int64(accQ)
	}

	return t, nil
}

func symbolNameForColumn(g *grammar.Grammar, col, endCol int) string {
	if col == endCol {
		return "$end"
	}
	var name string
	i := 0
	g.EachTerminal(func(sy *grammar.Symbol) {
		if i == col {
			name = sy.Name
		}
		i++
	})
	return name
}
