package regex

import (
	"testing"

	"github.com/halvardal/lrforge/charset"
	"github.com/stretchr/testify/require"
)

// simulate runs str through the NFA starting at start via epsilon-closure
// simulation — a small reference interpreter used only by these tests to
// check that Compile produces the language we expect.
func simulate(n *NFA, start int, str string) (accepted bool, ruleID int) {
	cur := epsClosure(n, map[int]bool{start: true})
	for _, r := range str {
		next := map[int]bool{}
		for s := range cur {
			for _, e := range n.States[s].Edges {
				if e.Label.Contains(r) {
					next[e.To] = true
				}
			}
		}
		cur = epsClosure(n, next)
		if len(cur) == 0 {
			return false, NoRule
		}
	}
	best := NoRule
	for s := range cur {
		if f := n.States[s].Final; f != NoRule {
			if best == NoRule || f < best {
				best = f
			}
		}
	}
	return best != NoRule, best
}

func epsClosure(n *NFA, in map[int]bool) map[int]bool {
	out := map[int]bool{}
	var stack []int
	for s := range in {
		out[s] = true
		stack = append(stack, s)
	}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, e := range n.States[s].Eps {
			if !out[e] {
				out[e] = true
				stack = append(stack, e)
			}
		}
	}
	return out
}

func ccRange(lo, hi rune) Node { return CharClass{Set: charset.Range(lo, hi)} }
func ccChar(r rune) Node       { return CharClass{Set: charset.Single(r)} }

func TestCompileSimpleAlternation(t *testing.T) {
	// "cat" | "dog"
	cat := Seq{A: Seq{A: ccChar('c'), B: ccChar('a')}, B: ccChar('t')}
	dog := Seq{A: Seq{A: ccChar('d'), B: ccChar('o')}, B: ccChar('g')}
	pattern := Alt{A: cat, B: dog}
	nfa, rules := Compile([]Pattern{{AST: pattern, RuleID: 0, Rank: 0, Condition: "INITIAL"}})
	entry := nfa.Conditions["INITIAL"].Mid
	ok, rid := simulate(nfa, entry, "cat")
	require.True(t, ok)
	require.Equal(t, 0, rid)
	ok, _ = simulate(nfa, entry, "dog")
	require.True(t, ok)
	ok, _ = simulate(nfa, entry, "cow")
	require.False(t, ok)
	require.Equal(t, NoBoundary, rules[0].RightContext)
}

func TestCompileStarPlusHook(t *testing.T) {
	digit := ccRange('0', '9')
	intPat := Plus{X: digit}                     // [0-9]+
	floatPat := Seq{A: intPat, B: Seq{A: ccChar('.'), B: Star{X: digit}}} // [0-9]+.[0-9]*
	patterns := []Pattern{
		{AST: floatPat, RuleID: 0, Rank: 0, Condition: "INITIAL"},
		{AST: intPat, RuleID: 1, Rank: 1, Condition: "INITIAL"},
	}
	nfa, _ := Compile(patterns)
	entry := nfa.Conditions["INITIAL"].Mid
	ok, rid := simulate(nfa, entry, "123")
	require.True(t, ok)
	require.Equal(t, 1, rid)
	ok, rid = simulate(nfa, entry, "123.456")
	require.True(t, ok)
	require.Equal(t, 0, rid)
	ok, rid = simulate(nfa, entry, "123.")
	require.True(t, ok)
	require.Equal(t, 0, rid)
	hookPat := Seq{A: ccChar('x'), B: Hook{X: ccChar('y')}} // xy?
	hookNFA, _ := Compile([]Pattern{{AST: hookPat, RuleID: 0, Rank: 0, Condition: "INITIAL"}})
	hookEntry := hookNFA.Conditions["INITIAL"].Mid
	for _, s := range []string{"x", "xy"} {
		ok, _ := simulate(hookNFA, hookEntry, s)
		require.True(t, ok, "expected match for %q", s)
	}
	ok, _ = simulate(hookNFA, hookEntry, "xyy")
	require.False(t, ok)
}

func TestCompileCounted(t *testing.T) {
	// a{2,4}
	pat := Counted{X: ccChar('a'), Min: 2, Max: 4}
	nfa, _ := Compile([]Pattern{{AST: pat, RuleID: 0, Rank: 0, Condition: "INITIAL"}})
	entry := nfa.Conditions["INITIAL"].Mid
	for _, s := range []string{"a", "aaaaa"} {
		ok, _ := simulate(nfa, entry, s)
		require.False(t, ok, "unexpected match for %q", s)
	}
	for _, s := range []string{"aa", "aaa", "aaaa"} {
		ok, _ := simulate(nfa, entry, s)
		require.True(t, ok, "expected match for %q", s)
	}
}

func TestCompileCountedUnbounded(t *testing.T) {
	// a{2,}
	pat := Counted{X: ccChar('a'), Min: 2, Max: Infinite}
	nfa, _ := Compile([]Pattern{{AST: pat, RuleID: 0, Rank: 0, Condition: "INITIAL"}})
	entry := nfa.Conditions["INITIAL"].Mid
	ok, _ := simulate(nfa, entry, "a")
	require.False(t, ok)
	for _, s := range []string{"aa", "aaa", "aaaaaaaa"} {
		ok, _ := simulate(nfa, entry, s)
		require.True(t, ok, "expected match for %q", s)
	}
}

func TestCompileTrailingContext(t *testing.T) {
	// eat/ing|en|s
	stem := Seq{A: Seq{A: ccChar('e'), B: ccChar('a')}, B: ccChar('t')}
	ing := Seq{A: Seq{A: ccChar('i'), B: ccChar('n')}, B: ccChar('g')}
	en := Seq{A: ccChar('e'), B: ccChar('n')}
	s := ccChar('s')
	trailing := Alt{A: Alt{A: ing, B: en}, B: s}
	nfa, rules := Compile([]Pattern{{AST: stem, TrailingContext: trailing, RuleID: 0, Rank: 0, Condition: "INITIAL"}})
	entry := nfa.Conditions["INITIAL"].Mid
	for _, s := range []string{"eating", "eaten", "eats"} {
		ok, _ := simulate(nfa, entry, s)
		require.True(t, ok, "expected trailing-context match for %q", s)
	}
	ok, _ := simulate(nfa, entry, "eat.")
	require.False(t, ok)
	require.NotEqual(t, NoBoundary, rules[0].RightContext)
}

func TestResolveNamedSubexpressions(t *testing.T) {
	env := Env{"digit": ccRange('0', '9')}
	n := Plus{X: Ref{Name: "digit"}}
	resolved := Resolve(n, env)
	nfa, _ := Compile([]Pattern{{AST: resolved, RuleID: 0, Rank: 0, Condition: "INITIAL"}})
	entry := nfa.Conditions["INITIAL"].Mid
	ok, _ := simulate(nfa, entry, "42")
	require.True(t, ok)
}
