package grammar

import (
	"fmt"

	"github.com/halvardal/lrforge"
)

// Assoc is an operator-precedence associativity.
type Assoc int

const (
	// NoAssoc marks a precedence level with no declared associativity (the
	// level exists only because a rule references it via Prec, never via
	// an explicit associativity declaration).
	NoAssoc Assoc = iota
	// LEFT is left-associative.
	LEFT
	// RIGHT is right-associative.
	RIGHT
	// NONASSOC forbids chaining operators at this level.
	NONASSOC
	// BOGUS marks a symbol that must never appear in any rule's RHS (used
	// to let precedence-only pseudo-terminals exist without being part of
	// the language).
	BOGUS
)

func (a Assoc) String() string {
	switch a {
	case LEFT:
		return "left"
	case RIGHT:
		return "right"
	case NONASSOC:
		return "nonassoc"
	case BOGUS:
		return "bogus"
	default:
		return "none"
	}
}

// NoPrecedence marks a symbol with no operator precedence level.
const NoPrecedence = -1

// Symbol is a terminal or non-terminal of a grammar.
type Symbol struct {
	Name       string
	Value      lrforge.TokType // token type for terminals; 0 for non-terminals
	Terminal   bool
	Precedence int // level in the precedence table, or NoPrecedence
}

// IsTerminal reports whether sy is a terminal.
func (sy *Symbol) IsTerminal() bool { return sy.Terminal }

// TokenType returns the token-type value of a terminal symbol.
func (sy *Symbol) TokenType() lrforge.TokType { return sy.Value }

func (sy *Symbol) String() string {
	if sy == nil {
		return "<nil>"
	}
	return sy.Name
}

func (sy *Symbol) GoString() string {
	return fmt.Sprintf("Symbol(%s,%d,terminal=%v)", sy.Name, sy.Value, sy.Terminal)
}
