// Copyright (c) 2024 The eqbool authors
//
// MIT License

package eqbool

import "testing"

func TestConstantFolding(t *testing.T) {
	c := New()
	a := c.GetTerm("a")

	if got := c.GetOr(nil, false); got != c.GetFalse() {
		t.Errorf("GetOr([]) = %v, want false", got)
	}
	if got := c.GetAnd(nil, false); got != c.GetTrue() {
		t.Errorf("GetAnd([]) = %v, want true", got)
	}
	if got := c.Ifelse(c.GetTrue(), a, c.GetFalse()); got != a {
		t.Errorf("ifelse(true, a, false) = %v, want a", got)
	}
	if got := c.Ifelse(c.GetFalse(), a, c.GetFalse()); got != c.GetFalse() {
		t.Errorf("ifelse(false, a, false) = %v, want false", got)
	}
}

func TestOrOfFalseAndItsInversionIsTrue(t *testing.T) {
	c := New()
	got := c.GetOr([]Handle{c.GetFalse(), c.Invert(c.GetFalse())}, false)
	if got != c.GetTrue() {
		t.Fatalf("get_or([false, ~false]) = %v, want true", got)
	}
}

func TestAssociativitySharesStructure(t *testing.T) {
	c := New()
	a, b, cc := c.GetTerm("a"), c.GetTerm("b"), c.GetTerm("c")

	left := c.GetOrPair(c.GetOrPair(a, b), cc)
	right := c.GetOrPair(a, c.GetOrPair(b, cc))
	if left != right {
		t.Fatalf("(a|b)|c = %v, a|(b|c) = %v, want bit-equal", left, right)
	}
}

func TestAlgebraicSimplificationWithoutSAT(t *testing.T) {
	c := New()
	a, b := c.GetTerm("a"), c.GetTerm("b")

	lhs := c.Invert(c.GetOrPair(c.Invert(b), c.Invert(c.Ifelse(a, b, c.Invert(b)))))
	rhs := c.Invert(c.GetOrPair(c.Invert(a), c.Invert(b)))
	if lhs != rhs {
		t.Fatalf("~b | ~ifelse(a,b,~b) = %v, want bit-equal to ~a | ~b = %v", lhs, rhs)
	}
	if c.GetStats().NumSATSolutions != 0 {
		t.Fatalf("expected no SAT invocations, got %d", c.GetStats().NumSATSolutions)
	}
}

func TestEqCanonicalisation(t *testing.T) {
	c := New()
	i, tt := c.GetTerm("i"), c.GetTerm("t")

	n1 := c.Ifelse(i, tt, c.Invert(tt))
	n2 := c.Ifelse(tt, i, c.Invert(i))
	if n1 != n2 && n1 != c.Invert(n2) {
		t.Fatalf("ifelse(i,t,~t) = %v and ifelse(t,i,~i) = %v are neither equal nor inverses", n1, n2)
	}
	if c.KindOf(n1) != KindEq {
		t.Fatalf("expected an EQ node, got kind %v", c.KindOf(n1))
	}
}

func TestIfelseRecognitionFromOr(t *testing.T) {
	c := New()
	a, b, cc := c.GetTerm("a"), c.GetTerm("b"), c.GetTerm("c")

	lhs := c.GetOrPair(c.GetAndPair(a, b), c.GetAndPair(c.Invert(a), cc))
	rhs := c.Ifelse(a, b, cc)
	if lhs != rhs {
		t.Fatalf("(a&b)|(~a&c) = %v, ifelse(a,b,c) = %v, want bit-equal", lhs, rhs)
	}
}
