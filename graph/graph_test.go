package graph

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTraversalVisitsOnceInIDOrder(t *testing.T) {
	tr := NewTraversal()
	tr.Intern("root", "R", -1, "")
	var visited []string
	tr.Execute(func(id int, key string, payload interface{}) {
		visited = append(visited, key)
		if key == "root" {
			tr.Intern("a", "A", id, "x")
			tr.Intern("b", "B", id, "y")
		}
		if key == "a" {
			// "b" already interned, should not create a new id
			id2, fresh := tr.Intern("b", "B", id, "z")
			require.False(t, fresh)
			require.Equal(t, 2, id2)
		}
	})
	require.Equal(t, []string{"root", "a", "b"}, visited)
	require.Equal(t, []string{"x"}, tr.BreadcrumbPath(1))
	require.Equal(t, []string{"y"}, tr.BreadcrumbPath(2))
}

func TestTransitiveClosure(t *testing.T) {
	adj := map[string][]string{
		"a": {"b", "c"},
		"b": {"d"},
		"c": {},
		"d": {"a"}, // cycle back, must terminate
	}
	reach := TransitiveClosure([]string{"a"}, func(k string) []string { return adj[k] })
	require.True(t, reach["a"])
	require.True(t, reach["b"])
	require.True(t, reach["c"])
	require.True(t, reach["d"])
	require.Len(t, reach, 4)
}

func TestSCCReverseTopo(t *testing.T) {
	// a <-> b form a cycle; b -> c is a separate, later component.
	adj := map[string][]string{
		"a": {"b"},
		"b": {"a", "c"},
		"c": {},
	}
	comps := SCC([]string{"a", "b", "c"}, func(k string) []string { return adj[k] })
	require.Len(t, comps, 2)
	// c's component must be completed before {a,b}'s, since c has no outgoing
	// edges back into the cycle.
	foundC := false
	for i, comp := range comps {
		for _, k := range comp {
			if k == "c" {
				foundC = true
				require.Equal(t, 0, i, "c's component must be completed first")
			}
		}
	}
	require.True(t, foundC)
	// the {a,b} component has size 2
	sawPair := false
	for _, comp := range comps {
		if len(comp) == 2 {
			sawPair = true
		}
	}
	require.True(t, sawPair)
}

func TestClassifierAssignsInFirstSeenOrder(t *testing.T) {
	cl := NewClassifier()
	id1, isNew1 := cl.Classify("k1", "v1")
	require.Equal(t, 0, id1)
	require.True(t, isNew1)
	id2, isNew2 := cl.Classify("k2", "v2")
	require.Equal(t, 1, id2)
	require.True(t, isNew2)
	id1b, isNew1b := cl.Classify("k1", "ignored")
	require.Equal(t, 0, id1b)
	require.False(t, isNew1b)
	require.Equal(t, 2, cl.NumClasses())
	require.Equal(t, "v1", cl.Exemplar(0))
}

func TestPackDisjointDisplacement(t *testing.T) {
	rows := []Row{
		{0, 2, 4},
		{1, 3},
		{},
		{0},
	}
	offsets, size := Pack(rows, false)
	require.Len(t, offsets, 4)
	used := map[int]bool{}
	for r, row := range rows {
		for _, c := range row {
			pos := c + offsets[r]
			require.False(t, used[pos], "collision at row %d", r)
			used[pos] = true
		}
	}
	require.Equal(t, offsets[2], size) // empty row placed at `size`
}
