package grammar

import (
	"fmt"

	"github.com/halvardal/lrforge"
)

// Grammar is a context-free grammar: a set of rules over a vocabulary of
// terminal and non-terminal symbols, plus an operator precedence table.
type Grammar struct {
	Name string

	symbols      map[string]*Symbol
	terminals    []*Symbol
	nonterminals []*Symbol
	rules        []*Rule

	// symbolRuleIDs maps a non-terminal name to the ids of the rules it is
	// the LHS of.
	symbolRuleIDs map[string][]int
	// mentions maps a symbol name to the ids of the rules mentioning it
	// anywhere in their RHS -- the reverse index used by reachability and
	// FIRST-set propagation.
	mentions map[string][]int

	start []string

	// levelAssoc maps a precedence level to its associativity; precedence
	// levels are dense and start at 1 (0 is NoPrecedence's sibling "unset").
	levelAssoc []Assoc
}

// EachSymbol calls f for every symbol of the grammar: first every
// non-terminal, then every terminal, each group in declaration order.
func (g *Grammar) EachSymbol(f func(*Symbol)) {
	for _, sy := range g.nonterminals {
		f(sy)
	}
	for _, sy := range g.terminals {
		f(sy)
	}
}

// EachNonTerminal calls f for every non-terminal, in declaration order.
func (g *Grammar) EachNonTerminal(f func(*Symbol)) {
	for _, sy := range g.nonterminals {
		f(sy)
	}
}

// EachTerminal calls f for every terminal, in declaration order.
func (g *Grammar) EachTerminal(f func(*Symbol)) {
	for _, sy := range g.terminals {
		f(sy)
	}
}

// EachRule calls f for every rule, in serial order.
func (g *Grammar) EachRule(f func(*Rule)) {
	for _, r := range g.rules {
		f(r)
	}
}

// Symbol looks up a symbol by name.
func (g *Grammar) Symbol(name string) *Symbol { return g.symbols[name] }

// Rule returns the rule with the given serial, or nil.
func (g *Grammar) Rule(serial int) *Rule {
	if serial < 0 || serial >= len(g.rules) {
		return nil
	}
	return g.rules[serial]
}

// NumRules returns the number of rules in the grammar.
func (g *Grammar) NumRules() int { return len(g.rules) }

// RulesFor returns the rules with the given symbol as LHS.
func (g *Grammar) RulesFor(lhs *Symbol) []*Rule {
	if lhs == nil {
		return nil
	}
	ids := g.symbolRuleIDs[lhs.Name]
	rs := make([]*Rule, len(ids))
	for i, id := range ids {
		rs[i] = g.rules[id]
	}
	return rs
}

// FindNonTermRules returns the rules for a non-terminal; if requireNonEps is
// true, epsilon rules are excluded.
func (g *Grammar) FindNonTermRules(lhs *Symbol, requireNonEps bool) []*Rule {
	all := g.RulesFor(lhs)
	if !requireNonEps {
		return all
	}
	out := make([]*Rule, 0, len(all))
	for _, r := range all {
		if !r.IsEpsilon() {
			out = append(out, r)
		}
	}
	return out
}

// MentionedIn returns the ids of the rules that mention sym anywhere in
// their right-hand side.
func (g *Grammar) MentionedIn(sym *Symbol) []int {
	if sym == nil {
		return nil
	}
	return g.mentions[sym.Name]
}

// MatchesRHS reports whether lhs has a rule whose RHS is exactly prefix.
func (g *Grammar) MatchesRHS(lhs *Symbol, prefix []*Symbol) *Rule {
	for _, r := range g.RulesFor(lhs) {
		if len(r.RHS) != len(prefix) {
			continue
		}
		match := true
		for i, sy := range r.RHS {
			if sy != prefix[i] {
				match = false
				break
			}
		}
		if match {
			return r
		}
	}
	return nil
}

// Start returns the declared start symbols, in declaration order. A
// grammar may declare more than one start symbol (multiple independent
// entry points sharing one rule set); the first is the default.
func (g *Grammar) Start() []*Symbol {
	out := make([]*Symbol, len(g.start))
	for i, name := range g.start {
		out[i] = g.symbols[name]
	}
	return out
}

// AssocOf returns the associativity declared for a precedence level, or
// NoAssoc if the level carries no declaration.
func (g *Grammar) AssocOf(level int) Assoc {
	if level <= 0 || level > len(g.levelAssoc) {
		return NoAssoc
	}
	return g.levelAssoc[level-1]
}

func (g *Grammar) String() string {
	return fmt.Sprintf("Grammar(%s, %d rules, %d symbols)", g.Name, len(g.rules), len(g.symbols))
}

// --- Builder ---------------------------------------------------------------

// Builder assembles a Grammar one rule at a time, fluently:
//
//	b := NewBuilder("G")
//	b.LHS("S").N("A").T("a", 1).End()
//	b.LHS("A").T("b", 2).End()
//	b.LHS("A").Epsilon()
//	b.Start("S")
//	g := b.Grammar()
type Builder struct {
	g            *Grammar
	cur          *Rule
	pendingLevel int
	nextTermVal  lrforge.TokType
	err          error
}

// NewBuilder creates a Builder for a grammar named name.
func NewBuilder(name string) *Builder {
	return &Builder{
		g: &Grammar{
			Name:          name,
			symbols:       map[string]*Symbol{},
			symbolRuleIDs: map[string][]int{},
			mentions:      map[string][]int{},
		},
		pendingLevel: NoPrecedence,
		nextTermVal:  1,
	}
}

func (b *Builder) fail(format string, args ...interface{}) {
	if b.err == nil {
		b.err = fmt.Errorf(format, args...)
	}
}

// Err returns the first error encountered while building, if any.
func (b *Builder) Err() error { return b.err }

func (b *Builder) intern(name string, terminal bool, val lrforge.TokType) *Symbol {
	if sy, ok := b.g.symbols[name]; ok {
		return sy
	}
	sy := &Symbol{Name: name, Terminal: terminal, Value: val, Precedence: NoPrecedence}
	b.g.symbols[name] = sy
	if terminal {
		b.g.terminals = append(b.g.terminals, sy)
	} else {
		b.g.nonterminals = append(b.g.nonterminals, sy)
	}
	return sy
}

// LHS opens a new rule with the given non-terminal on the left-hand side.
func (b *Builder) LHS(name string) *Builder {
	lhs := b.intern(name, false, 0)
	serial := len(b.g.rules)
	b.cur = &Rule{Serial: serial, LHS: lhs}
	b.g.rules = append(b.g.rules, b.cur)
	b.g.symbolRuleIDs[name] = append(b.g.symbolRuleIDs[name], serial)
	return b
}

// N appends a non-terminal reference to the current rule's RHS.
func (b *Builder) N(name string) *Builder {
	return b.appendRHS(b.intern(name, false, 0))
}

// T appends a terminal reference to the current rule's RHS, declaring its
// token type if this is the terminal's first mention.
func (b *Builder) T(name string, tokType lrforge.TokType) *Builder {
	sy, ok := b.g.symbols[name]
	if !ok {
		sy = b.intern(name, true, tokType)
	}
	return b.appendRHS(sy)
}

// EOF appends the reserved end-of-input terminal to the current rule's RHS.
func (b *Builder) EOF() *Builder {
	return b.T("$", lrforge.EndOfInput)
}

func (b *Builder) appendRHS(sy *Symbol) *Builder {
	if b.cur == nil {
		b.fail("grammar: RHS symbol %q appended with no open rule", sy.Name)
		return b
	}
	b.cur.RHS = append(b.cur.RHS, sy)
	b.g.mentions[sy.Name] = append(b.g.mentions[sy.Name], b.cur.Serial)
	return b
}

// Epsilon closes the current rule as an empty-RHS (epsilon) production.
func (b *Builder) Epsilon() *Builder {
	if b.cur == nil {
		b.fail("grammar: Epsilon with no open rule")
		return b
	}
	b.cur = nil
	return b
}

// End closes the current rule. A precedence symbol set by Prec is kept;
// otherwise the rule takes the precedence of its rightmost terminal that
// has one.
func (b *Builder) End() *Builder {
	if b.cur == nil {
		b.fail("grammar: End with no open rule")
		return b
	}
	if b.pendingLevel != NoPrecedence {
		b.cur.PrecSym = &Symbol{Name: fmt.Sprintf("$prec%d", b.pendingLevel), Precedence: b.pendingLevel}
	} else if b.cur.PrecSym == nil && len(b.cur.RHS) > 0 {
		// default: inherit the precedence of the rightmost terminal, per the
		// usual yacc-family convention.
		for i := len(b.cur.RHS) - 1; i >= 0; i-- {
			if sy := b.cur.RHS[i]; sy.IsTerminal() && sy.Precedence != NoPrecedence {
				b.cur.PrecSym = sy
				break
			}
		}
	}
	b.pendingLevel = NoPrecedence
	b.cur = nil
	return b
}

// Action attaches a rename action (promote the value of the RHS symbol at
// index) to the rule currently open.
func (b *Builder) Action(index int) *Builder {
	if b.cur == nil {
		b.fail("grammar: Action with no open rule")
		return b
	}
	b.cur.Action = Action{Kind: ActionRename, Index: index}
	return b
}

// Message attaches a dynamically-dispatched message action, with args
// naming the RHS positions passed as arguments, to the rule currently open.
func (b *Builder) Message(name string, args ...int) *Builder {
	if b.cur == nil {
		b.fail("grammar: Message with no open rule")
		return b
	}
	b.cur.Action = Action{Kind: ActionMessage, Message: name, Args: args}
	return b
}

// Prec marks the rule about to be closed as using the precedence level of
// the most recently declared AssocLeft/AssocRight/AssocNone group
// containing sym, overriding the rightmost-terminal default.
func (b *Builder) Prec(sym string) *Builder {
	sy, ok := b.g.symbols[sym]
	if !ok || sy.Precedence == NoPrecedence {
		b.fail("grammar: Prec(%q): symbol has no declared precedence", sym)
		return b
	}
	if b.cur == nil {
		b.fail("grammar: Prec with no open rule")
		return b
	}
	b.cur.PrecSym = sy
	return b
}

// Start declares one or more grammar start symbols, in priority order.
func (b *Builder) Start(names ...string) *Builder {
	b.g.start = append(b.g.start, names...)
	return b
}

// assocLevel declares a new precedence level with assoc for the named
// terminals (interning them as terminals if not yet known, at the builder's
// next auto-assigned token value).
func (b *Builder) assocLevel(assoc Assoc, names []string) *Builder {
	level := len(b.g.levelAssoc) + 1
	b.g.levelAssoc = append(b.g.levelAssoc, assoc)
	for _, name := range names {
		sy, ok := b.g.symbols[name]
		if !ok {
			sy = b.intern(name, true, b.nextTermVal)
			b.nextTermVal++
		}
		sy.Precedence = level
	}
	return b
}

// AssocLeft declares a new, higher-than-previous precedence level, with
// left associativity, for the named terminals.
func (b *Builder) AssocLeft(names ...string) *Builder { return b.assocLevel(LEFT, names) }

// AssocRight declares a new precedence level with right associativity.
func (b *Builder) AssocRight(names ...string) *Builder { return b.assocLevel(RIGHT, names) }

// AssocNone declares a new precedence level that forbids chaining.
func (b *Builder) AssocNone(names ...string) *Builder { return b.assocLevel(NONASSOC, names) }

// Bogus declares terminals that must never occur in any rule's RHS --
// precedence-only pseudo-terminals used purely to anchor a precedence
// level (e.g. a "UNARY_MINUS" marker).
func (b *Builder) Bogus(names ...string) *Builder {
	level := len(b.g.levelAssoc) + 1
	b.g.levelAssoc = append(b.g.levelAssoc, BOGUS)
	for _, name := range names {
		sy, ok := b.g.symbols[name]
		if !ok {
			sy = b.intern(name, true, b.nextTermVal)
			b.nextTermVal++
		}
		sy.Precedence = level
	}
	return b
}

// Grammar finalizes and returns the built Grammar. It returns nil if the
// builder has recorded an error; check Err in that case.
func (b *Builder) Grammar() *Grammar {
	if b.err != nil {
		return nil
	}
	if b.cur != nil {
		b.fail("grammar: Grammar() called with an open rule (missing End/Epsilon)")
		return nil
	}
	if len(b.g.start) == 0 && len(b.g.nonterminals) > 0 {
		b.g.start = []string{b.g.nonterminals[0].Name}
	}
	return b.g
}
