package charset

import "testing"

func TestRangeContains(t *testing.T) {
	s := Range('a', 'z')
	for _, r := range []rune{'a', 'm', 'z'} {
		if !s.Contains(r) {
			t.Errorf("expected %q in range", r)
		}
	}
	for _, r := range []rune{'A', '0', '{'} {
		if s.Contains(r) {
			t.Errorf("did not expect %q in range", r)
		}
	}
}

func TestUnionIntersectDifference(t *testing.T) {
	digits := Range('0', '9')
	lower := Range('a', 'z')
	u := digits.Union(lower)
	if !u.Contains('5') || !u.Contains('q') || u.Contains('Q') {
		t.Fatalf("union wrong: %v", u)
	}
	i := digits.Intersect(lower)
	if !i.Empty() {
		t.Fatalf("expected empty intersection, got %v", i)
	}
	word := u.Union(Single('_'))
	d := word.Difference(digits)
	if d.Contains('5') || !d.Contains('_') || !d.Contains('a') {
		t.Fatalf("difference wrong: %v", d)
	}
}

func TestComplementExcludesEOF(t *testing.T) {
	c := Single('a').Complement()
	if c.Contains(EOF) {
		t.Fatalf("complement must never contain EOF")
	}
	if c.Contains('a') {
		t.Fatalf("complement must exclude the original member")
	}
	if !c.Contains('b') {
		t.Fatalf("complement must contain other codepoints")
	}
}

func TestEquals(t *testing.T) {
	a := Range('a', 'c').Union(Range('x', 'z'))
	b := Single('a').Union(Single('b')).Union(Single('c')).Union(Range('x', 'z'))
	if !a.Equals(b) {
		t.Fatalf("expected equal sets, got %v vs %v", a, b)
	}
}
