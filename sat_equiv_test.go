// Copyright (c) 2024 The eqbool authors
//
// MIT License

package eqbool

import "testing"

func TestIsUnsatOnConstants(t *testing.T) {
	c := New()
	if !c.IsUnsat(c.GetFalse()) {
		t.Errorf("IsUnsat(false) = false, want true")
	}
	if c.IsUnsat(c.GetTrue()) {
		t.Errorf("IsUnsat(true) = true, want false")
	}
}

func TestIsUnsatContradiction(t *testing.T) {
	c := New()
	a := c.GetTerm("a")
	conj := c.GetAndPair(a, c.Invert(a))
	if !c.IsUnsat(conj) {
		t.Errorf("a & ~a should be unsatisfiable")
	}
}

func TestSatRequiredEquivalence(t *testing.T) {
	c := New()
	a := c.GetTerm("a")
	b := c.GetTerm("b")
	cc := c.GetTerm("c")
	d := c.GetTerm("d")

	inner := c.GetAndPair(c.GetOrPair(c.Invert(b), c.GetOrPair(d, c.Invert(cc))), c.GetOrPair(cc, c.Invert(b)))
	disjunct := c.GetOrPair(c.Invert(a), inner)
	e1 := c.GetAndPair(a, c.GetOrPair(c.GetOrPair(b, cc), disjunct))
	e2 := a

	if c.IsTrue(c.GetEq(e1, e2)) {
		t.Fatalf("expected get_eq(e1,e2) to not fold to true without SAT")
	}

	before := c.GetStats().NumSATSolutions
	if !c.IsEquiv(e1, e2) {
		t.Fatalf("expected e1 and e2 to be equivalent")
	}
	if got := c.GetStats().NumSATSolutions - before; got != 1 {
		t.Fatalf("expected exactly 1 new SAT invocation, got %d", got)
	}

	if !c.IsTrue(c.GetEq(e1, e2)) {
		t.Fatalf("expected get_eq(e1,e2) to fold to true after the equivalence was recorded")
	}
}

func TestIsEquivSymmetricUnderInversion(t *testing.T) {
	c := New()
	a, b := c.GetTerm("a"), c.GetTerm("b")
	if c.IsEquiv(a, b) != c.IsEquiv(c.Invert(a), c.Invert(b)) {
		t.Fatalf("is_equiv(a,b) should equal is_equiv(~a,~b)")
	}
}

func TestIsEquivMatchesUnsatOfXor(t *testing.T) {
	c := New()
	a, b, cc := c.GetTerm("a"), c.GetTerm("b"), c.GetTerm("c")
	x := c.Ifelse(a, b, cc)
	y := c.GetOrPair(c.GetAndPair(a, b), c.GetAndPair(c.Invert(a), cc))
	want := c.IsUnsat(c.Invert(c.GetEq(x, y)))
	if c.IsEquiv(x, y) != want {
		t.Fatalf("is_equiv(x,y) should equal is_unsat(~get_eq(x,y))")
	}
}
