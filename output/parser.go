package output

import (
	"github.com/halvardal/lrforge/compact"
	"github.com/halvardal/lrforge/determinize"
	"github.com/halvardal/lrforge/grammar"
)

// ActionEdits is one row's edit-distance fallback encoding (compact
// ActionTable), keyed by column in the JSON rendering since Go maps with
// non-string keys don't marshal directly.
type ActionEdits struct {
	Col   int   `json:"col"`
	Value int64 `json:"value"`
}

// ParserAction is parser.action in spec §6. DefaultReduce/ErrorPlane
// serve the interactive-reduce fast path; Fallback/Edits is the general
// lookup path a runtime chases to reconstruct any cell.
type ParserAction struct {
	DefaultReduce []int64       `json:"d_reduce"`
	ErrorPlane    BoolPlane     `json:"error_plane"`
	Fallback      []int         `json:"fallback"`
	Edits         [][]ActionEdits `json:"edits"`
	EndColumn     int           `json:"end_column"`
}

// GotoEntry is one pulled-out row/column of the GOTO table: Other is the
// column (for a pulled row) or row (for a pulled column) the single
// surviving value sits at, -1 if the whole row/column was error.
type GotoEntry struct {
	Index int `json:"index"`
	Other int `json:"other"`
	Value int `json:"value"`
}

// ParserGoto is parser.goto in spec §6.
type ParserGoto struct {
	PulledRows    []GotoEntry `json:"pulled_rows"`
	PulledCols    []GotoEntry `json:"pulled_cols"`
	ResidualRowID []int       `json:"residual_row_id"` // original row ids that survived, in Residual row-index order
	ResidualColID []int       `json:"residual_col_id"`
	Residual      struct {
		BoolPlane
		Value []int `json:"value"`
	} `json:"residual"`
}

// RuleEntry is one entry of parser.rule.rules in spec §6.
type RuleEntry struct {
	LHSIndex      int    `json:"lhs_index"`
	RHSLength     int    `json:"rhs_length"`
	ConstructorID string `json:"constructor_id"`
	CaptureIdx    []int  `json:"capture_indices"`
}

// Parser is the full parser.* subtree.
type Parser struct {
	Action       ParserAction `json:"action"`
	Goto         ParserGoto   `json:"goto"`
	Rules        []RuleEntry  `json:"rules"`
	Splits       [][]int64    `json:"splits,omitempty"`
	Terminals    []string     `json:"terminals"`
	NonTerminals []string     `json:"nonterminals"`
	Initial      []int        `json:"initial"`
	Breadcrumbs  []string     `json:"breadcrumbs"`
}

// BuildParser assembles the parser.* output subtree from the dense
// determinize.Table, its compacted ACTION/GOTO forms, and the grammar's
// rule list plus the HFA breadcrumb ledger.
func BuildParser(g *grammar.Grammar, tbl *determinize.Table, act *compact.ActionTable, got *compact.GotoTable, start map[string]int, breadcrumbs []string) Parser {
	var out Parser

	out.Action.DefaultReduce = act.DefaultReduce
	out.Action.ErrorPlane = BoolPlane{
		RowClass: act.ErrorPlane.RowClass, ColClass: act.ErrorPlane.ColClass,
		Offset: act.ErrorPlane.Offset, Check: act.ErrorPlane.Check,
	}
	out.Action.Fallback = act.Fallback
	out.Action.EndColumn = act.EndColumn
	out.Action.Edits = make([][]ActionEdits, len(act.Edits))
	for i, row := range act.Edits {
		edits := make([]ActionEdits, 0, len(row))
		for col, v := range row {
			edits = append(edits, ActionEdits{Col: col, Value: v})
		}
		out.Action.Edits[i] = edits
	}

	for r, e := range got.PulledRow {
		out.Goto.PulledRows = append(out.Goto.PulledRows, GotoEntry{Index: r, Other: e.Other, Value: e.Value})
	}
	for c, e := range got.PulledCol {
		out.Goto.PulledCols = append(out.Goto.PulledCols, GotoEntry{Index: c, Other: e.Other, Value: e.Value})
	}
	out.Goto.ResidualRowID = make([]int, len(got.ResidualRowIdx))
	for orig, idx := range got.ResidualRowIdx {
		out.Goto.ResidualRowID[idx] = orig
	}
	out.Goto.ResidualColID = make([]int, len(got.ResidualColIdx))
	for orig, idx := range got.ResidualColIdx {
		out.Goto.ResidualColID[idx] = orig
	}
	out.Goto.Residual.RowClass = got.Residual.RowClass
	out.Goto.Residual.ColClass = got.Residual.ColClass
	out.Goto.Residual.Offset = got.Residual.Offset
	out.Goto.Residual.Check = got.Residual.Check
	out.Goto.Residual.Value = got.Residual.Value

	g.EachRule(func(r *grammar.Rule) {
		entry := RuleEntry{RHSLength: len(r.RHS)}
		i := 0
		g.EachNonTerminal(func(sy *grammar.Symbol) {
			if sy == r.LHS {
				entry.LHSIndex = i
			}
			i++
		})
		switch r.Action.Kind {
		case grammar.ActionRename:
			entry.ConstructorID = "rename"
			entry.CaptureIdx = []int{r.Action.Index}
		case grammar.ActionMessage:
			entry.ConstructorID = r.Action.Message
			entry.CaptureIdx = append([]int(nil), r.Action.Args...)
		default:
			entry.ConstructorID = ""
		}
		for len(out.Rules) <= r.Serial {
			out.Rules = append(out.Rules, RuleEntry{})
		}
		out.Rules[r.Serial] = entry
	})

	g.EachTerminal(func(sy *grammar.Symbol) { out.Terminals = append(out.Terminals, sy.Name) })
	g.EachNonTerminal(func(sy *grammar.Symbol) { out.NonTerminals = append(out.NonTerminals, sy.Name) })
	for _, ssym := range g.Start() {
		out.Initial = append(out.Initial, start[ssym.Name])
	}
	out.Breadcrumbs = breadcrumbs
	out.Splits = tbl.Splits

	tracer().Debugf("parser output assembled: %d states, %d rules", tbl.NumStates, len(out.Rules))
	return out
}
