/*
Package lrforge is a scanner-and-parser table generator toolkit.

From a declarative lexical grammar (regular patterns with scan conditions,
trailing context and rule ranks) and a context-free grammar (with operator
precedence/associativity and semantic action bindings), lrforge computes
compact, table-driven recognizers suitable for execution by a generic
runtime. Package structure is as follows:

■ charset: sorted-bounds character set arithmetic, shared by the regex and
lex layers.

■ regex: a regex AST and Thompson-style NFA construction with rule ranks.

■ lex: subset construction (NFA→DFA), Moore state minimization and input
alphabet minimization.

■ graph: breadth-first traversal with canonical keys, transitive closure,
strongly connected components, an equivalence classifier and first-fit
displacement packing — shared plumbing used by both the lex and hfa layers.

■ grammar: context-free grammar data model, FIRST/nullable analysis and
grammar validation.

■ hfa: handle-finding automaton construction — LR(0), LALR(1), canonical
LR(1) and minimal LR(1) — plus precedence-driven conflict pruning.

■ determinize: conversion of an HFA into a deterministic or split action
table.

■ compact: sparse-matrix encoding of the scanner delta table and the parser
action/goto tables.

■ output: assembly of the compact tables into the versioned, UUID-stamped
JSON table-set format a runtime consumer reads.

■ genconfig: TOML run configuration and JSON decoding of the grammar/lexicon
input contract.

■ cmd/tablegen: a CLI driving one end-to-end generator run.

The base package contains data types used throughout the other packages:
tokens, spans and the shared token-type.
*/
package lrforge

import "fmt"

// --- A general purpose interface for tokens --------------------------------

// TokType is a category type for a terminal symbol. Applications assign
// their own values; 0 is reserved for epsilon in rule right-hand sides.
type TokType int32

// EpsilonTok marks the empty symbol in rule right-hand sides.
const EpsilonTok TokType = 0

// EndOfInput is the pseudo-token denoting end of input. Codepoint -1 plays
// the analogous role in charset.Set and is excluded from the universal set.
const EndOfInput TokType = -1

// Token is produced by a scanner and reflects a terminal in a language.
type Token interface {
	TokType() TokType
	Lexeme() string
	Value() interface{}
	Span() Span
}

// --- Spans ------------------------------------------------------------

// Span captures a run of input positions: a start position and the
// position just behind the end, i.e. a half-open interval [From,To).
type Span [2]uint64

// From returns the start value of a span.
func (s Span) From() uint64 { return s[0] }

// To returns the end value of a span.
func (s Span) To() uint64 { return s[1] }

// Len returns the length of the span.
func (s Span) Len() uint64 { return s[1] - s[0] }

// IsNull returns true for the zero span.
func (s Span) IsNull() bool { return s == Span{} }

// Extend grows s to also cover other.
func (s Span) Extend(other Span) Span {
	if other[0] < s[0] {
		s[0] = other[0]
	}
	if other[1] > s[1] {
		s[1] = other[1]
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}

// Version is a (major, minor, patch) triple stamped on every table set that
// package output assembles (output.TableSet.Version). Consumers must refuse mismatched majors (see
// the external-interfaces table-versioning rule).
type Version struct {
	Major int `json:"major" toml:"major"`
	Minor int `json:"minor" toml:"minor"`
	Patch int `json:"patch" toml:"patch"`
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// CompatibleWith reports whether v can be consumed by a reader built for want,
// i.e. whether their majors match.
func (v Version) CompatibleWith(want Version) bool {
	return v.Major == want.Major
}
