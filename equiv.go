// Copyright (c) 2024 The eqbool authors
//
// MIT License

package eqbool

// IsTriviallyEquiv reports whether a and b are the same handle once their
// canonical chains are resolved, without invoking the SAT solver. This is
// the cheap first check spec.md section 4.6 asks every equivalence query to
// perform before falling back to SAT.
func (c *Context) IsTriviallyEquiv(a, b Handle) bool {
	c.checkHandle(a)
	c.checkHandle(b)
	return c.follow(a) == c.follow(b)
}

// IsEquiv reports whether a and b denote the same Boolean function. It tries
// structural and construction-time shortcuts first (GetEq folding constants
// or collapsing to one of its arguments outright); only when those are
// inconclusive does it fall back to proving unsatisfiability of a XOR b with
// the SAT solver. A proof of equivalence is recorded into the canonical
// table (spec.md section 4.6), so a repeated or transitively-implied query
// is answered by IsTriviallyEquiv from then on.
func (c *Context) IsEquiv(a, b Handle) bool {
	c.checkHandle(a)
	c.checkHandle(b)
	a = c.follow(a)
	b = c.follow(b)
	if a == b {
		return true
	}
	if a == b.Invert() {
		return false
	}

	eq := c.GetEq(a, b)
	if c.IsTrue(eq) {
		c.recordEquiv(a, b)
		return true
	}
	if c.IsFalse(eq) {
		return false
	}

	equiv := c.IsUnsat(eq.Invert())
	if equiv {
		c.recordEquiv(a, b)
	}
	return equiv
}

// recordEquiv collapses a and b into a single canonical representative, the
// one with the smaller node id, as node.go's declareEquiv requires. By the
// time this is called a and b do not share a node id (IsEquiv's shortcuts
// above handle that case). A pair involving a constant is not recorded,
// since declareEquiv takes only non-constant handles.
func (c *Context) recordEquiv(a, b Handle) {
	if c.isConst(a) || c.isConst(b) {
		return
	}
	if a.id() > b.id() {
		c.declareEquiv(a, b)
		c.log.Debugf("recordEquiv: node %d now an alias of node %d", a.id(), b.id())
	} else {
		c.declareEquiv(b, a)
		c.log.Debugf("recordEquiv: node %d now an alias of node %d", b.id(), a.id())
	}
}
