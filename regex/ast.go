/*
Package regex defines the regex AST consumed by the lexical layer and its
Thompson-style NFA construction.

The AST is a small sum type: CharClass, Alt, Seq, Star, Hook (optionality),
Plus and Counted. Named sub-expressions are resolved against an Env before
construction.
*/
package regex

import "github.com/halvardal/lrforge/charset"

// Node is the sealed regex AST sum type.
type Node interface {
	regexNode()
}

// CharClass matches a single codepoint from set.
type CharClass struct {
	Set *charset.Set
}

func (CharClass) regexNode() {}

// Alt matches A or B.
type Alt struct {
	A, B Node
}

func (Alt) regexNode() {}

// Seq matches A followed by B.
type Seq struct {
	A, B Node
}

func (Seq) regexNode() {}

// Star matches X zero or more times.
type Star struct {
	X Node
}

func (Star) regexNode() {}

// Hook matches X zero or one times (X?).
type Hook struct {
	X Node
}

func (Hook) regexNode() {}

// Plus matches X one or more times.
type Plus struct {
	X Node
}

func (Plus) regexNode() {}

// Counted matches X between Min and Max times, inclusive. Max == Infinite
// denotes an unbounded upper count ({m,}).
type Counted struct {
	X        Node
	Min, Max int
}

// Infinite marks an unbounded Counted.Max.
const Infinite = -1

func (Counted) regexNode() {}

// Ref refers to a named sub-expression, resolved against an Env before NFA
// construction. Named captures let rule authors factor out common
// fragments (e.g. `digit = [0-9]`) the way flex/lex-family tools do.
type Ref struct {
	Name string
}

func (Ref) regexNode() {}

// Env resolves named sub-expressions.
type Env map[string]Node

// Resolve replaces every Ref node in n with its definition from env,
// recursively. It panics if a name is undefined or if resolution would not
// terminate (a self-referential or mutually-recursive definition) —
// regex fragment definitions are required to be well-founded.
func Resolve(n Node, env Env) Node {
	return resolve(n, env, map[string]bool{})
}

func resolve(n Node, env Env, inProgress map[string]bool) Node {
	switch t := n.(type) {
	case CharClass:
		return t
	case Alt:
		return Alt{A: resolve(t.A, env, inProgress), B: resolve(t.B, env, inProgress)}
	case Seq:
		return Seq{A: resolve(t.A, env, inProgress), B: resolve(t.B, env, inProgress)}
	case Star:
		return Star{X: resolve(t.X, env, inProgress)}
	case Hook:
		return Hook{X: resolve(t.X, env, inProgress)}
	case Plus:
		return Plus{X: resolve(t.X, env, inProgress)}
	case Counted:
		return Counted{X: resolve(t.X, env, inProgress), Min: t.Min, Max: t.Max}
	case Ref:
		if inProgress[t.Name] {
			panic("regex: recursive named sub-expression: " + t.Name)
		}
		def, ok := env[t.Name]
		if !ok {
			panic("regex: undefined named sub-expression: " + t.Name)
		}
		inProgress[t.Name] = true
		out := resolve(def, env, inProgress)
		delete(inProgress, t.Name)
		return out
	default:
		panic("regex: unhandled node type in Resolve")
	}
}
