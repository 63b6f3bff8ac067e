package lex

import (
	"testing"

	"github.com/halvardal/lrforge/charset"
	"github.com/halvardal/lrforge/regex"
	"github.com/stretchr/testify/require"
)

func ccChar(r rune) regex.Node { return regex.CharClass{Set: charset.Single(r)} }
func ccRange(lo, hi rune) regex.Node {
	return regex.CharClass{Set: charset.Range(lo, hi)}
}

func run(d *DFA, cond string, input string) (accepted bool, ruleID int) {
	q := d.Initial[cond].Mid
	for _, r := range input {
		q = d.Step(q, r)
		if q == NoState {
			return false, 0
		}
	}
	rid, ok := d.Accepts(q)
	return ok, rid
}

func buildScanner(patterns []regex.Pattern) *DFA {
	nfa, rules := regex.Compile(patterns)
	d := BuildDFA(nfa, rules)
	return Minimize(d)
}

func TestScannerAcceptsExpectedLanguage(t *testing.T) {
	digit := ccRange('0', '9')
	intPat := regex.Plus{X: digit}
	ident := regex.Seq{
		A: regex.Alt{A: ccRange('a', 'z'), B: ccRange('A', 'Z')},
		B: regex.Star{X: regex.Alt{A: regex.Alt{A: ccRange('a', 'z'), B: ccRange('A', 'Z')}, B: digit}},
	}
	d := buildScanner([]regex.Pattern{
		{AST: intPat, RuleID: 0, Rank: 0, Condition: "INITIAL"},
		{AST: ident, RuleID: 1, Rank: 1, Condition: "INITIAL"},
	})

	ok, rid := run(d, "INITIAL", "123")
	require.True(t, ok)
	require.Equal(t, 0, rid)

	ok, rid = run(d, "INITIAL", "x1")
	require.True(t, ok)
	require.Equal(t, 1, rid)

	ok, _ = run(d, "INITIAL", "123x")
	require.False(t, ok)
}

func TestScannerRuleRankTieBreak(t *testing.T) {
	// Two rules matching exactly the same language at equal rank; earlier
	// (lower rule id) must win.
	a := ccChar('a')
	d := buildScanner([]regex.Pattern{
		{AST: a, RuleID: 0, Rank: 0, Condition: "INITIAL"},
		{AST: a, RuleID: 1, Rank: 0, Condition: "INITIAL"},
	})
	ok, rid := run(d, "INITIAL", "a")
	require.True(t, ok)
	require.Equal(t, 0, rid)
}

func TestMinimizeReducesOrPreservesStateCount(t *testing.T) {
	// (a|b)*abb -- classic minimization textbook example
	ab := regex.Alt{A: ccChar('a'), B: ccChar('b')}
	pat := regex.Seq{A: regex.Star{X: ab}, B: regex.Seq{A: ccChar('a'), B: regex.Seq{A: ccChar('b'), B: ccChar('b')}}}
	nfa, rules := regex.Compile([]regex.Pattern{{AST: pat, RuleID: 0, Rank: 0, Condition: "INITIAL"}})
	raw := BuildDFA(nfa, rules)
	min := Minimize(raw)
	require.LessOrEqual(t, min.NumStates(), raw.NumStates())

	for _, s := range []string{"abb", "aabb", "babb", "ababb"} {
		ok, _ := run(min, "INITIAL", s)
		require.True(t, ok, "expected accept for %q", s)
		okRaw, _ := run(raw, "INITIAL", s)
		require.True(t, okRaw)
	}
	for _, s := range []string{"ab", "a", "", "abab"} {
		ok, _ := run(min, "INITIAL", s)
		require.False(t, ok, "expected reject for %q", s)
	}
}

func TestBOLAnchoring(t *testing.T) {
	pat := ccChar('x')
	nfa, rules := regex.Compile([]regex.Pattern{{AST: pat, RuleID: 0, Rank: 0, Condition: "INITIAL", BOL: true}})
	d := Minimize(BuildDFA(nfa, rules))
	q := d.Initial["INITIAL"].BOL
	q = d.Step(q, 'x')
	_, ok := d.Accepts(q)
	require.True(t, ok)

	// a BOL-only rule must not be reachable from the mid-line entry
	qm := d.Initial["INITIAL"].Mid
	qm = d.Step(qm, 'x')
	if qm != NoState {
		_, ok = d.Accepts(qm)
		require.False(t, ok)
	}
}
