// Copyright (c) 2024 The eqbool authors
//
// MIT License

package eqbool

import (
	"math/rand"
	"testing"
)

// genFormula builds a random Boolean formula of bounded depth over the
// given atom handles, exercising GetOr/GetAnd/Ifelse/GetEq together the way
// a fuzzer over the public API would.
func genFormula(c *Context, rnd *rand.Rand, atoms []Handle, depth int) Handle {
	if depth <= 0 || rnd.Intn(3) == 0 {
		h := atoms[rnd.Intn(len(atoms))]
		if rnd.Intn(2) == 0 {
			h = c.Invert(h)
		}
		return h
	}
	switch rnd.Intn(4) {
	case 0:
		return c.GetOrPair(genFormula(c, rnd, atoms, depth-1), genFormula(c, rnd, atoms, depth-1))
	case 1:
		return c.GetAndPair(genFormula(c, rnd, atoms, depth-1), genFormula(c, rnd, atoms, depth-1))
	case 2:
		return c.Ifelse(genFormula(c, rnd, atoms, depth-1), genFormula(c, rnd, atoms, depth-1), genFormula(c, rnd, atoms, depth-1))
	default:
		return c.GetEq(genFormula(c, rnd, atoms, depth-1), genFormula(c, rnd, atoms, depth-1))
	}
}

// eval evaluates h (built only from atoms) under a bit assignment, walking
// the node store directly so the check is independent of the simplifier.
func eval(c *Context, h Handle, assign map[uint32]bool) bool {
	h = c.follow(h)
	if c.isConst(h) {
		return h == c.trueH
	}
	e := c.entry(h)
	var v bool
	switch e.kind {
	case kindTerm:
		v = assign[e.id]
	case kindOr:
		for _, a := range e.args {
			if eval(c, a, assign) {
				v = true
				break
			}
		}
	case kindIfelse:
		if eval(c, e.args[0], assign) {
			v = eval(c, e.args[1], assign)
		} else {
			v = eval(c, e.args[2], assign)
		}
	case kindEq:
		v = eval(c, e.args[0], assign) == eval(c, e.args[1], assign)
	}
	if h.isInversion() {
		v = !v
	}
	return v
}

func allAssignments(ids []uint32) []map[uint32]bool {
	if len(ids) == 0 {
		return []map[uint32]bool{{}}
	}
	rest := allAssignments(ids[1:])
	var out []map[uint32]bool
	for _, r := range rest {
		for _, v := range [2]bool{false, true} {
			m := make(map[uint32]bool, len(ids))
			for k, vv := range r {
				m[k] = vv
			}
			m[ids[0]] = v
			out = append(out, m)
		}
	}
	return out
}

func atomIDs(c *Context, atoms []Handle) []uint32 {
	ids := make([]uint32, len(atoms))
	for i, a := range atoms {
		ids[i] = a.id()
	}
	return ids
}

func TestRandomFormulaEquivalenceMatchesTruthTable(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for trial := 0; trial < 40; trial++ {
		c := New()
		names := []string{"a", "b", "c"}
		atoms := make([]Handle, len(names))
		for i, n := range names {
			atoms[i] = c.GetTerm(n)
		}

		a := genFormula(c, rnd, atoms, 3)
		b := genFormula(c, rnd, atoms, 3)

		equiv := c.IsEquiv(a, b)

		ids := atomIDs(c, atoms)
		truthTableEquiv := true
		for _, assign := range allAssignments(ids) {
			if eval(c, a, assign) != eval(c, b, assign) {
				truthTableEquiv = false
				break
			}
		}
		if equiv != truthTableEquiv {
			t.Fatalf("trial %d: is_equiv=%v, truth-table equiv=%v", trial, equiv, truthTableEquiv)
		}
		if got := c.IsEquiv(a, b); got != c.IsEquiv(c.Invert(a), c.Invert(b)) {
			t.Fatalf("trial %d: is_equiv(a,b)=%v != is_equiv(~a,~b)=%v", trial, got, c.IsEquiv(c.Invert(a), c.Invert(b)))
		}
		if c.IsEquiv(a, b) != c.IsEquiv(b, a) {
			t.Fatalf("trial %d: is_equiv not symmetric", trial)
		}
	}
}
