package grammar

import "fmt"

// Analysis holds the static fixed-point results computed over a Grammar:
// nullability and FIRST-sets per non-terminal, keyed by symbol name.
type Analysis struct {
	g        *Grammar
	nullable map[string]bool
	first    map[string]map[string]bool // symbol name -> set of terminal names
}

// Nullable reports whether sy can derive the empty string.
func (a *Analysis) Nullable(sy *Symbol) bool {
	if sy == nil {
		return false
	}
	if sy.IsTerminal() {
		return false
	}
	return a.nullable[sy.Name]
}

// First returns the FIRST-set of sy as a set of terminal symbols (by name).
func (a *Analysis) First(sy *Symbol) map[string]bool {
	if sy == nil {
		return nil
	}
	if sy.IsTerminal() {
		return map[string]bool{sy.Name: true}
	}
	return a.first[sy.Name]
}

// FirstOfSeq computes FIRST of a symbol sequence (e.g. an item's remaining
// RHS), correctly propagating through leading nullable symbols.
func (a *Analysis) FirstOfSeq(seq []*Symbol) map[string]bool {
	out := map[string]bool{}
	for _, sy := range seq {
		for t := range a.First(sy) {
			out[t] = true
		}
		if !a.Nullable(sy) {
			return out
		}
	}
	return out
}

// Analyze computes nullability and FIRST-sets to their least fixed point.
func Analyze(g *Grammar) *Analysis {
	a := &Analysis{g: g, nullable: map[string]bool{}, first: map[string]map[string]bool{}}
	for _, sy := range g.nonterminals {
		a.first[sy.Name] = map[string]bool{}
	}
	for {
		changed := false
		for _, r := range g.rules {
			if r.IsEpsilon() {
				if !a.nullable[r.LHS.Name] {
					a.nullable[r.LHS.Name] = true
					changed = true
				}
				continue
			}
			allNullable := true
			for _, sy := range r.RHS {
				for t := range a.First(sy) {
					if !a.first[r.LHS.Name][t] {
						a.first[r.LHS.Name][t] = true
						changed = true
					}
				}
				if !a.Nullable(sy) {
					allNullable = false
					break
				}
			}
			if allNullable && !a.nullable[r.LHS.Name] {
				a.nullable[r.LHS.Name] = true
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return a
}

// FaultKind enumerates the grammar validation fault categories.
type FaultKind int

const (
	// FaultNotWellFounded marks a non-terminal with no rule that bottoms
	// out in terminals/epsilon alone (it can never derive a finite string).
	FaultNotWellFounded FaultKind = iota
	// FaultUnreachable marks a non-terminal never mentioned from any start
	// symbol's derivation.
	FaultUnreachable
	// FaultRenameLoop marks a cycle of unit rules (A -> B -> ... -> A) that
	// would loop forever under unit-rule elision.
	FaultRenameLoop
	// FaultEpsilonLoop marks a cycle of nullable non-terminals that
	// contributes no progress (A -> B, B -> A, both nullable).
	FaultEpsilonLoop
	// FaultDuplicateRule marks two rules with identical LHS and RHS.
	FaultDuplicateRule
	// FaultBogon marks a BOGUS-declared symbol appearing in some rule's RHS.
	FaultBogon
)

func (k FaultKind) String() string {
	switch k {
	case FaultNotWellFounded:
		return "not-well-founded"
	case FaultUnreachable:
		return "unreachable"
	case FaultRenameLoop:
		return "rename-loop"
	case FaultEpsilonLoop:
		return "epsilon-loop"
	case FaultDuplicateRule:
		return "duplicate-rule"
	case FaultBogon:
		return "bogon"
	default:
		return "unknown-fault"
	}
}

// Fault is one reported grammar defect.
type Fault struct {
	Kind    FaultKind
	Symbol  *Symbol
	Rule    *Rule
	Cycle   []*Symbol
	Message string
}

func (f Fault) String() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// FaultHandler receives grammar faults as Validate discovers them. Handlers
// may abort validation early by returning a non-nil error.
type FaultHandler interface {
	NotWellFounded(sy *Symbol) error
	Unreachable(sy *Symbol) error
	RenameLoop(cycle []*Symbol) error
	EpsilonLoop(cycle []*Symbol) error
	DuplicateRule(a, b *Rule) error
	Bogon(sy *Symbol, r *Rule) error
}

// RaisingHandler is a FaultHandler that aborts validation on the first
// fault reported, returning it wrapped as an error.
type RaisingHandler struct{}

func (RaisingHandler) NotWellFounded(sy *Symbol) error {
	return fmt.Errorf("grammar: non-terminal %q is not well-founded (no finite derivation)", sy.Name)
}
func (RaisingHandler) Unreachable(sy *Symbol) error {
	return fmt.Errorf("grammar: non-terminal %q is unreachable from any start symbol", sy.Name)
}
func (RaisingHandler) RenameLoop(cycle []*Symbol) error {
	return fmt.Errorf("grammar: rename (unit-rule) loop: %s", symNames(cycle))
}
func (RaisingHandler) EpsilonLoop(cycle []*Symbol) error {
	return fmt.Errorf("grammar: epsilon loop among nullable non-terminals: %s", symNames(cycle))
}
func (RaisingHandler) DuplicateRule(a, b *Rule) error {
	return fmt.Errorf("grammar: duplicate rule: %s (rule %d) duplicates rule %d", a, a.Serial, b.Serial)
}
func (RaisingHandler) Bogon(sy *Symbol, r *Rule) error {
	return fmt.Errorf("grammar: bogus symbol %q used in rule %d (%s)", sy.Name, r.Serial, r)
}

func symNames(syms []*Symbol) string {
	s := ""
	for i, sy := range syms {
		if i > 0 {
			s += " -> "
		}
		s += sy.Name
	}
	return s
}

// ReportingHandler collects every fault instead of aborting on the first.
type ReportingHandler struct {
	Faults []Fault
}

func (h *ReportingHandler) NotWellFounded(sy *Symbol) error {
	h.Faults = append(h.Faults, Fault{Kind: FaultNotWellFounded, Symbol: sy,
		Message: fmt.Sprintf("%q is not well-founded", sy.Name)})
	return nil
}
func (h *ReportingHandler) Unreachable(sy *Symbol) error {
	h.Faults = append(h.Faults, Fault{Kind: FaultUnreachable, Symbol: sy,
		Message: fmt.Sprintf("%q is unreachable", sy.Name)})
	return nil
}
func (h *ReportingHandler) RenameLoop(cycle []*Symbol) error {
	h.Faults = append(h.Faults, Fault{Kind: FaultRenameLoop, Cycle: cycle,
		Message: symNames(cycle)})
	return nil
}
func (h *ReportingHandler) EpsilonLoop(cycle []*Symbol) error {
	h.Faults = append(h.Faults, Fault{Kind: FaultEpsilonLoop, Cycle: cycle,
		Message: symNames(cycle)})
	return nil
}
func (h *ReportingHandler) DuplicateRule(a, b *Rule) error {
	h.Faults = append(h.Faults, Fault{Kind: FaultDuplicateRule, Rule: a,
		Message: fmt.Sprintf("rule %d duplicates rule %d", a.Serial, b.Serial)})
	return nil
}
func (h *ReportingHandler) Bogon(sy *Symbol, r *Rule) error {
	h.Faults = append(h.Faults, Fault{Kind: FaultBogon, Symbol: sy, Rule: r,
		Message: fmt.Sprintf("%q used in rule %d", sy.Name, r.Serial)})
	return nil
}

// Validate runs the full suite of static grammar checks against g, invoking
// handler for each fault found. It returns the first error a handler
// returns, or nil if every fault (if any) was absorbed by the handler.
func Validate(g *Grammar, handler FaultHandler) error {
	a := Analyze(g)

	if err := checkWellFounded(g, handler); err != nil {
		return err
	}
	if err := checkReachable(g, handler); err != nil {
		return err
	}
	if err := checkRenameLoops(g, handler); err != nil {
		return err
	}
	if err := checkEpsilonLoops(g, a, handler); err != nil {
		return err
	}
	if err := checkDuplicateRules(g, handler); err != nil {
		return err
	}
	if err := checkBogons(g, handler); err != nil {
		return err
	}
	return nil
}

// checkWellFounded marks a non-terminal well-founded once it has at least
// one rule whose RHS consists entirely of terminals and/or already-
// well-founded non-terminals (computed to a fixed point, since
// well-foundedness of A may depend on well-foundedness of B).
func checkWellFounded(g *Grammar, handler FaultHandler) error {
	founded := map[string]bool{}
	for {
		changed := false
		for _, r := range g.rules {
			if founded[r.LHS.Name] {
				continue
			}
			ok := true
			for _, sy := range r.RHS {
				if !sy.IsTerminal() && !founded[sy.Name] {
					ok = false
					break
				}
			}
			if ok {
				founded[r.LHS.Name] = true
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	for _, sy := range g.nonterminals {
		if !founded[sy.Name] {
			if err := handler.NotWellFounded(sy); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkReachable marks every symbol reachable by a breadth-first walk of
// the mentions graph starting at the declared start symbols.
func checkReachable(g *Grammar, handler FaultHandler) error {
	reached := map[string]bool{}
	queue := []string{}
	for _, name := range g.start {
		if !reached[name] {
			reached[name] = true
			queue = append(queue, name)
		}
	}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		for _, id := range g.symbolRuleIDs[name] {
			r := g.rules[id]
			for _, sy := range r.RHS {
				if !reached[sy.Name] {
					reached[sy.Name] = true
					queue = append(queue, sy.Name)
				}
			}
		}
	}
	for _, sy := range g.nonterminals {
		if !reached[sy.Name] {
			if err := handler.Unreachable(sy); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkRenameLoops detects cycles in the unit-rule (A -> B, null action)
// graph via simple DFS cycle detection -- a rename loop would never
// terminate under unit-rule elision.
func checkRenameLoops(g *Grammar, handler FaultHandler) error {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := map[string]int{}
	var path []*Symbol
	var visit func(name string) error
	visit = func(name string) error {
		color[name] = gray
		path = append(path, g.symbols[name])
		for _, id := range g.symbolRuleIDs[name] {
			r := g.rules[id]
			if !r.IsUnit() || r.RHS[0].IsTerminal() {
				continue
			}
			next := r.RHS[0].Name
			switch color[next] {
			case white:
				if err := visit(next); err != nil {
					return err
				}
			case gray:
				cycle := append(append([]*Symbol{}, path...), g.symbols[next])
				if err := handler.RenameLoop(cycle); err != nil {
					return err
				}
			}
		}
		path = path[:len(path)-1]
		color[name] = black
		return nil
	}
	for _, sy := range g.nonterminals {
		if color[sy.Name] == white {
			if err := visit(sy.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkEpsilonLoops detects cycles among nullable non-terminals where every
// rule along the cycle is itself nullable -- a degenerate loop that adds no
// terminals and would never make progress during closure computation.
func checkEpsilonLoops(g *Grammar, a *Analysis, handler FaultHandler) error {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := map[string]int{}
	var path []*Symbol
	var visit func(name string) error
	visit = func(name string) error {
		color[name] = gray
		path = append(path, g.symbols[name])
		for _, id := range g.symbolRuleIDs[name] {
			r := g.rules[id]
			if r.IsEpsilon() {
				continue
			}
			nullableRule := true
			for _, sy := range r.RHS {
				if !a.Nullable(sy) {
					nullableRule = false
					break
				}
			}
			if !nullableRule {
				continue
			}
			for _, sy := range r.RHS {
				if sy.IsTerminal() || !a.Nullable(sy) {
					continue
				}
				switch color[sy.Name] {
				case white:
					if err := visit(sy.Name); err != nil {
						return err
					}
				case gray:
					cycle := append(append([]*Symbol{}, path...), sy)
					if err := handler.EpsilonLoop(cycle); err != nil {
						return err
					}
				}
			}
		}
		path = path[:len(path)-1]
		color[name] = black
		return nil
	}
	for _, sy := range g.nonterminals {
		if a.Nullable(sy) && color[sy.Name] == white {
			if err := visit(sy.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkDuplicateRules reports rules sharing an identical LHS and RHS --
// almost always a copy-paste mistake in the source grammar.
func checkDuplicateRules(g *Grammar, handler FaultHandler) error {
	seen := map[string]*Rule{}
	for _, r := range g.rules {
		key := r.LHS.Name + "::="
		for _, sy := range r.RHS {
			key += "/" + sy.Name
		}
		if prev, ok := seen[key]; ok {
			if err := handler.DuplicateRule(r, prev); err != nil {
				return err
			}
			continue
		}
		seen[key] = r
	}
	return nil
}

// checkBogons reports any rule whose RHS mentions a symbol declared BOGUS.
func checkBogons(g *Grammar, handler FaultHandler) error {
	for level, assoc := range g.levelAssoc {
		if assoc != BOGUS {
			continue
		}
		_ = level
	}
	for _, r := range g.rules {
		for _, sy := range r.RHS {
			if sy.IsTerminal() && sy.Precedence != NoPrecedence && g.AssocOf(sy.Precedence) == BOGUS {
				if err := handler.Bogon(sy, r); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
