package compact

import (
	"testing"

	"github.com/halvardal/lrforge/charset"
	"github.com/halvardal/lrforge/lex"
	"github.com/halvardal/lrforge/regex"
	"github.com/stretchr/testify/require"
)

func ccChar(r rune) regex.Node { return regex.CharClass{Set: charset.Single(r)} }
func ccRange(lo, hi rune) regex.Node {
	return regex.CharClass{Set: charset.Range(lo, hi)}
}

func buildScanner(patterns []regex.Pattern) *lex.DFA {
	nfa, rules := regex.Compile(patterns)
	d := lex.BuildDFA(nfa, rules)
	return lex.Minimize(d)
}

func TestCompactDeltaRoundTripsEveryCell(t *testing.T) {
	digit := ccRange('0', '9')
	ident := regex.Seq{
		A: regex.Alt{A: ccRange('a', 'z'), B: ccRange('A', 'Z')},
		B: regex.Star{X: regex.Alt{A: regex.Alt{A: ccRange('a', 'z'), B: ccRange('A', 'Z')}, B: digit}},
	}
	d := buildScanner([]regex.Pattern{
		{AST: regex.Plus{X: digit}, RuleID: 0, Rank: 0, Condition: "INITIAL"},
		{AST: ident, RuleID: 1, Rank: 1, Condition: "INITIAL"},
	})

	delta := CompactDelta(d)
	for q := 0; q < d.NumStates(); q++ {
		for c := 0; c < d.Alphabet.NumClasses(); c++ {
			require.Equal(t, d.States[q][c], delta.Step(q, c), "row %d class %d", q, c)
		}
	}
}

func TestCompactDeltaAcceptsSameLanguageThroughDelta(t *testing.T) {
	a := ccChar('a')
	b := ccChar('b')
	pat := regex.Seq{A: regex.Star{X: regex.Alt{A: a, B: b}}, B: regex.Seq{A: a, B: regex.Seq{A: b, B: b}}}
	d := buildScanner([]regex.Pattern{{AST: pat, RuleID: 0, Rank: 0, Condition: "INITIAL"}})
	delta := CompactDelta(d)

	run := func(input string) bool {
		q := d.Initial["INITIAL"].Mid
		for _, r := range input {
			class := d.Alphabet.ClassOf(r)
			q = delta.Step(q, class)
			if q == lex.NoState {
				return false
			}
		}
		_, ok := d.Accepts(q)
		return ok
	}
	require.True(t, run("abb"))
	require.True(t, run("aabb"))
	require.False(t, run("ab"))
}
