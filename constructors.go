// Copyright (c) 2024 The eqbool authors
//
// MIT License

package eqbool

import "sort"

// GetTerm returns the Handle for the named atom, interning it in the
// Context's TermSet on first use. Terms are never simplified: every
// distinct name maps to a distinct, stable node (spec.md section 4.3.1).
func (c *Context) GetTerm(name string) Handle {
	t := c.terms.Intern(name)
	return c.intern(kindTerm, t, nil)
}

// GetOrPair is the two-argument convenience form of GetOr.
func (c *Context) GetOrPair(a, b Handle) Handle {
	return c.GetOr([]Handle{a, b}, false)
}

// GetAndPair is the two-argument convenience form of GetAnd.
func (c *Context) GetAndPair(a, b Handle) Handle {
	return c.GetAnd([]Handle{a, b}, false)
}

// GetAnd builds the conjunction of args (each optionally inverted first, if
// invertArgs is set), via De Morgan's law: AND is not a distinct node kind,
// only OR is (spec.md section 3, "an AND is represented as an inverted OR of
// inverted arguments").
func (c *Context) GetAnd(args []Handle, invertArgs bool) Handle {
	return c.GetOr(args, !invertArgs).Invert()
}

// GetOr builds the disjunction of args (each optionally inverted first, if
// invertArgs is set), reduced to canonical form by spec.md section 4.3.2:
// flatten nested positive ORs, sort and deduplicate, run the sibling
// fixpoint simplifier, drop constants, detect complementary pairs, and
// finally look for the two-argument shape that identifies a disguised
// IFELSE.
func (c *Context) GetOr(args []Handle, invertArgs bool) Handle {
	for _, a := range args {
		c.checkHandle(a)
	}
	cur := make([]Handle, 0, len(args))
	for _, a := range args {
		f := c.follow(a)
		if invertArgs {
			f = f.Invert()
		}
		cur = append(cur, f)
	}
	cur = c.flattenOr(cur)
	sortHandles(cur)

	const maxPasses = 64
	for pass := 0; pass < maxPasses; pass++ {
		changed := false
		for i := range cur {
			others := siblingsExcept(cur, i)
			simplified := c.simplify(cur[i], others)
			if simplified != cur[i] {
				cur[i] = simplified
				changed = true
			}
		}
		cur = c.flattenOr(cur)
		sortHandles(cur)
		if !changed {
			break
		}
	}

	filtered := cur[:0]
	for _, h := range cur {
		if h == c.trueH {
			return c.trueH
		}
		if h == c.falseH {
			continue
		}
		filtered = append(filtered, h)
	}
	cur = filtered

	deduped := cur[:0]
	for i, h := range cur {
		if i > 0 {
			prev := deduped[len(deduped)-1]
			if prev == h {
				continue
			}
			if prev.id() == h.id() {
				// Same node, opposite polarity: h | ~h is a tautology.
				return c.trueH
			}
		}
		deduped = append(deduped, h)
	}
	cur = deduped

	switch len(cur) {
	case 0:
		return c.falseH
	case 1:
		return cur[0]
	case 2:
		if h, ok := c.tryIfelseFromOr(cur[0], cur[1]); ok {
			return h
		}
	}

	return c.intern(kindOr, sentinelTerm, cur)
}

func sortHandles(hs []Handle) {
	sort.Slice(hs, func(i, j int) bool { return hs[i].Less(hs[j]) })
}

func siblingsExcept(hs []Handle, skip int) []Handle {
	others := make([]Handle, 0, len(hs)-1)
	for i, h := range hs {
		if i != skip {
			others = append(others, h)
		}
	}
	return others
}

// flattenOr recursively expands any argument that is itself a positive OR
// node into that node's own arguments, following canonical chains along the
// way. This keeps OR nodes from ever nesting (spec.md section 4.2's
// canonical-shape invariant for OR).
func (c *Context) flattenOr(args []Handle) []Handle {
	out := make([]Handle, 0, len(args))
	var rec func(h Handle)
	rec = func(h Handle) {
		h = c.follow(h)
		if !h.isInversion() && c.entry(h).kind == kindOr {
			for _, a := range c.entry(h).args {
				rec(a)
			}
			return
		}
		out = append(out, h)
	}
	for _, a := range args {
		rec(a)
	}
	return out
}

// asInvertedOrPair reports whether h is the negation of a two-argument OR
// node, returning that OR's two disjuncts inverted (i.e. the two conjuncts
// of the AND that h actually denotes).
func (c *Context) asInvertedOrPair(h Handle) (x, y Handle, ok bool) {
	if !h.isInversion() {
		return 0, 0, false
	}
	e := c.entry(h)
	if e.kind != kindOr || len(e.args) != 2 {
		return 0, 0, false
	}
	return e.args[0].Invert(), e.args[1].Invert(), true
}

// tryIfelseFromOr recognises (i & t) | (~i & e), each disjunct written as an
// inverted two-argument OR, and rewrites it to Ifelse(i, t, e). This is the
// "IFELSE recognition" step of spec.md section 4.3.2.
func (c *Context) tryIfelseFromOr(h0, h1 Handle) (Handle, bool) {
	a0, a1, ok0 := c.asInvertedOrPair(h0)
	if !ok0 {
		return 0, false
	}
	b0, b1, ok1 := c.asInvertedOrPair(h1)
	if !ok1 {
		return 0, false
	}
	type candidate struct{ i, t, e Handle }
	checks := []struct {
		x, y Handle
		cand candidate
	}{
		{a0, b0, candidate{a0, a1, b1}},
		{a0, b1, candidate{a0, a1, b0}},
		{a1, b0, candidate{a1, a0, b1}},
		{a1, b1, candidate{a1, a0, b0}},
	}
	for _, ch := range checks {
		if ch.x == ch.y.Invert() {
			return c.Ifelse(ch.cand.i, ch.cand.t, ch.cand.e), true
		}
	}
	return 0, false
}

// Ifelse builds the if-then-else node for (i, t, e): "t if i is true,
// otherwise e" (spec.md section 4.3.4). It also produces EQ nodes, since
// eqbool represents a<->b as ite(a, b, ~b).
func (c *Context) Ifelse(i, t, e Handle) Handle {
	c.checkHandle(i)
	c.checkHandle(t)
	c.checkHandle(e)
	i = c.follow(i)
	t = c.follow(t)
	e = c.follow(e)

	for pass := 0; pass < 64; pass++ {
		newT := c.simplify(t, []Handle{i.Invert()})
		newE := c.simplify(e, []Handle{i})
		if newT == t && newE == e {
			break
		}
		t, e = newT, newE
	}

	if i == t {
		t = c.trueH
	} else if i == t.Invert() {
		t = c.falseH
	}
	if i == e {
		e = c.falseH
	} else if i == e.Invert() {
		e = c.trueH
	}

	if c.isConst(i) {
		if i == c.trueH {
			return t
		}
		return e
	}
	if c.isConst(t) {
		if t == c.trueH {
			return c.GetOrPair(i, e)
		}
		return c.GetAndPair(i.Invert(), e)
	}
	if c.isConst(e) {
		if e == c.trueH {
			return c.GetOrPair(i.Invert(), t)
		}
		return c.GetAndPair(i, t)
	}
	if t == e {
		return t
	}

	if t == e.Invert() {
		return c.buildEq(i, t)
	}

	return c.buildIfelse(i, t, e)
}

// buildEq builds an EQ node for (a, b), lifting inversions so that neither
// interned argument carries its own polarity bit, and folding a<->eq(a,x)
// down to x, per spec.md section 4.3.4's "EQ folding" step.
func (c *Context) buildEq(a, b Handle) Handle {
	if b.Less(a) {
		a, b = b, a
	}
	parity := false
	if a.isInversion() {
		a = a.Invert()
		parity = !parity
	}
	if b.isInversion() {
		b = b.Invert()
		parity = !parity
	}
	if b.Less(a) {
		a, b = b, a
	}

	if be := c.entry(b); be.kind == kindEq && be.args[0] == a {
		res := be.args[1]
		if parity {
			res = res.Invert()
		}
		return res
	}
	if ae := c.entry(a); ae.kind == kindEq && ae.args[0] == b {
		res := ae.args[1]
		if parity {
			res = res.Invert()
		}
		return res
	}

	res := c.intern(kindEq, sentinelTerm, []Handle{a, b})
	if parity {
		res = res.Invert()
	}
	return res
}

// buildIfelse lifts inversions on i, t and e into canonical form before
// interning: i is never inverted (ite(~i,t,e) == ite(i,e,t)), and t, e are
// never both inverted (ite(i,~t,~e) == ~ite(i,t,e)).
func (c *Context) buildIfelse(i, t, e Handle) Handle {
	if i.isInversion() {
		i = i.Invert()
		t, e = e, t
	}
	parity := false
	if t.isInversion() && e.isInversion() {
		t = t.Invert()
		e = e.Invert()
		parity = true
	}
	res := c.intern(kindIfelse, sentinelTerm, []Handle{i, t, e})
	if parity {
		res = res.Invert()
	}
	return res
}

// GetEq builds the EQ (biconditional) node for a and b. It is defined as
// Ifelse(a, b, ~b); EQ nodes are only ever created through the IFELSE
// pipeline's folding step (buildEq), which keeps SAT encoding to a single
// code path instead of a parallel one for EQ (spec.md section 4.3.5).
func (c *Context) GetEq(a, b Handle) Handle {
	c.checkHandle(a)
	c.checkHandle(b)
	return c.Ifelse(a, b, c.Invert(b))
}
