package grammar

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// S -> A a | b
// A -> A a
// A ->
func buildSample(t *testing.T) *Grammar {
	b := NewBuilder("sample")
	b.LHS("S").N("A").T("a", 1).End()
	b.LHS("S").T("b", 2).End()
	b.LHS("A").N("A").T("a", 1).End()
	b.LHS("A").Epsilon()
	b.Start("S")
	g := b.Grammar()
	require.NoError(t, b.Err())
	require.NotNil(t, g)
	return g
}

func TestBuilderProducesExpectedShape(t *testing.T) {
	g := buildSample(t)
	require.Equal(t, 4, g.NumRules())
	require.NotNil(t, g.Symbol("S"))
	require.NotNil(t, g.Symbol("A"))
	require.True(t, g.Symbol("a").IsTerminal())
	require.Len(t, g.RulesFor(g.Symbol("A")), 2)
}

func TestAnalyzeNullableAndFirst(t *testing.T) {
	g := buildSample(t)
	a := Analyze(g)
	require.True(t, a.Nullable(g.Symbol("A")))
	require.False(t, a.Nullable(g.Symbol("S")))
	first := a.First(g.Symbol("S"))
	require.True(t, first["a"])
	require.True(t, first["b"])
}

func TestValidateCleanGrammarReportsNoFaults(t *testing.T) {
	g := buildSample(t)
	h := &ReportingHandler{}
	err := Validate(g, h)
	require.NoError(t, err)
	require.Empty(t, h.Faults)
}

func TestValidateDetectsUnreachable(t *testing.T) {
	b := NewBuilder("unreach")
	b.LHS("S").T("a", 1).End()
	b.LHS("Dead").T("b", 2).End()
	b.Start("S")
	g := b.Grammar()
	require.NoError(t, b.Err())

	h := &ReportingHandler{}
	require.NoError(t, Validate(g, h))
	require.Len(t, h.Faults, 1)
	require.Equal(t, FaultUnreachable, h.Faults[0].Kind)
	require.Equal(t, "Dead", h.Faults[0].Symbol.Name)
}

func TestValidateDetectsNotWellFounded(t *testing.T) {
	// A only ever derives itself -- never bottoms out in terminals.
	b := NewBuilder("unfounded")
	b.LHS("S").N("A").End()
	b.LHS("A").N("A").End()
	b.Start("S")
	g := b.Grammar()
	require.NoError(t, b.Err())

	h := &ReportingHandler{}
	require.NoError(t, Validate(g, h))
	kinds := map[FaultKind]bool{}
	for _, f := range h.Faults {
		kinds[f.Kind] = true
	}
	require.True(t, kinds[FaultNotWellFounded])
}

func TestValidateDetectsRenameLoop(t *testing.T) {
	b := NewBuilder("loop")
	b.LHS("S").T("a", 1).End()
	b.LHS("A").N("B").End()
	b.LHS("B").N("A").End()
	b.Start("S")
	g := b.Grammar()
	require.NoError(t, b.Err())

	h := &ReportingHandler{}
	require.NoError(t, Validate(g, h))
	found := false
	for _, f := range h.Faults {
		if f.Kind == FaultRenameLoop {
			found = true
		}
	}
	require.True(t, found)
}

func TestValidateDetectsDuplicateRule(t *testing.T) {
	b := NewBuilder("dup")
	b.LHS("S").T("a", 1).End()
	b.LHS("S").T("a", 1).End()
	b.Start("S")
	g := b.Grammar()
	require.NoError(t, b.Err())

	h := &ReportingHandler{}
	require.NoError(t, Validate(g, h))
	found := false
	for _, f := range h.Faults {
		if f.Kind == FaultDuplicateRule {
			found = true
		}
	}
	require.True(t, found)
}

func TestRaisingHandlerAbortsOnFirstFault(t *testing.T) {
	b := NewBuilder("unreach2")
	b.LHS("S").T("a", 1).End()
	b.LHS("Dead").T("b", 2).End()
	b.Start("S")
	g := b.Grammar()
	require.NoError(t, b.Err())

	err := Validate(g, RaisingHandler{})
	require.Error(t, err)
}

func TestPrecedenceAndAssociativity(t *testing.T) {
	b := NewBuilder("expr")
	b.AssocLeft("+", "-")
	b.AssocLeft("*", "/")
	b.LHS("E").N("E").T("+", 0).N("E").End()
	b.LHS("E").N("E").T("*", 0).N("E").End()
	b.LHS("E").T("num", 100).End()
	b.Start("E")
	g := b.Grammar()
	require.NoError(t, b.Err())

	plus := g.Symbol("+")
	star := g.Symbol("*")
	require.Less(t, plus.Precedence, star.Precedence)
	require.Equal(t, LEFT, g.AssocOf(plus.Precedence))
	require.Equal(t, LEFT, g.AssocOf(star.Precedence))
}
