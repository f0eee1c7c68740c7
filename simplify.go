// Copyright (c) 2024 The eqbool authors
//
// MIT License

package eqbool

import (
	"sort"
	"strings"
)

// simpCacheKey identifies a memoised "simplify e under falses" call. This is
// the same shape as the teacher's applycache/itecache entries (cache.go),
// generalised from a fixed (left,right,op) triple to a Handle plus an
// arbitrary-length set of assumed-false siblings.
type simpCacheKey struct {
	e    Handle
	S    string
}

func simpSetKey(falses []Handle) string {
	if len(falses) == 0 {
		return ""
	}
	sorted := append([]Handle(nil), falses...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })
	var b strings.Builder
	for _, h := range sorted {
		b.WriteByte(byte(h))
		b.WriteByte(byte(h >> 8))
		b.WriteByte(byte(h >> 16))
		b.WriteByte(byte(h >> 24))
		b.WriteByte(byte(h >> 32))
		b.WriteByte(byte(h >> 40))
		b.WriteByte(byte(h >> 48))
		b.WriteByte(byte(h >> 56))
	}
	return b.String()
}

// propagator implements spec.md section 4.4's "propagation of equalities":
// given a set of handles assumed false, it derives the forced truth value
// of every node reachable from that assumption through OR-recursion and
// EQ-propagation, and flags a contradiction if the assumption set is
// self-inconsistent.
type propagator struct {
	c             *Context
	known         map[uint32]bool   // node id -> positive-form truth
	watchers      map[uint32][]uint32 // operand id -> ids of EQ nodes depending on it
	queue         []uint32
	contradiction bool
}

func newPropagator(c *Context) *propagator {
	return &propagator{
		c:        c,
		known:    make(map[uint32]bool),
		watchers: make(map[uint32][]uint32),
	}
}

// literalValue returns the forced truth value of h, if known.
func (p *propagator) literalValue(h Handle) (bool, bool) {
	v, ok := p.known[h.id()]
	if !ok {
		return false, false
	}
	if h.isInversion() {
		v = !v
	}
	return v, true
}

// setLiteral records that h is forced to equal val.
func (p *propagator) setLiteral(h Handle, val bool) {
	posVal := val
	if h.isInversion() {
		posVal = !val
	}
	p.setID(h.id(), posVal)
}

func (p *propagator) setID(id uint32, val bool) {
	if p.contradiction {
		return
	}
	if existing, ok := p.known[id]; ok {
		if existing != val {
			p.contradiction = true
		}
		return
	}
	p.known[id] = val
	p.queue = append(p.queue, id)
}

// run drains the propagation worklist, recursing into OR arguments and
// EQ operands as spec.md section 4.4 describes.
func (p *propagator) run() {
	for len(p.queue) > 0 && !p.contradiction {
		id := p.queue[0]
		p.queue = p.queue[1:]
		e := &p.c.entries[id]
		val := p.known[id]
		switch e.kind {
		case kindOr:
			if !val {
				for _, a := range e.args {
					p.setLiteral(a, false)
				}
			}
		case kindEq:
			x, y := e.args[0], e.args[1]
			p.watchers[x.id()] = append(p.watchers[x.id()], id)
			p.watchers[y.id()] = append(p.watchers[y.id()], id)
			p.tryPropagateEq(id)
		}
		for _, eqID := range p.watchers[id] {
			p.tryPropagateEq(eqID)
		}
	}
}

func (p *propagator) tryPropagateEq(eqID uint32) {
	e := &p.c.entries[eqID]
	x, y := e.args[0], e.args[1]
	eqVal, eqKnown := p.known[eqID]
	if !eqKnown {
		return
	}
	xVal, xKnown := p.literalValue(x)
	yVal, yKnown := p.literalValue(y)
	if xKnown && !yKnown {
		want := xVal
		if !eqVal {
			want = !want
		}
		p.setLiteral(y, want)
	} else if yKnown && !xKnown {
		want := yVal
		if !eqVal {
			want = !want
		}
		p.setLiteral(x, want)
	}
}

// isSubsetSorted reports whether every handle in small also appears in big,
// where both are sorted ascending by Handle.Less. This implements the
// "containment" check of spec.md section 4.4.
func isSubsetSorted(small, big []Handle) bool {
	i, j := 0, 0
	for i < len(small) && j < len(big) {
		switch {
		case small[i] == big[j]:
			i++
			j++
		case big[j].Less(small[i]):
			j++
		default:
			return false
		}
	}
	return i == len(small)
}

// simplify returns a handle structurally equivalent to e under the
// assumption that every handle in falses is false, reduced as aggressively
// as spec.md section 4.4 allows. falses must already be followed to their
// canonical form by the caller (GetOr's fixpoint does this when it
// populates the sibling set).
func (c *Context) simplify(e Handle, falses []Handle) Handle {
	e = c.follow(e)
	if c.isConst(e) {
		return e
	}
	if len(falses) == 0 {
		return e
	}
	key := simpCacheKey{e: e, S: simpSetKey(falses)}
	if cached, ok := c.simpCache[key]; ok {
		return cached
	}
	var res Handle
	c.withLock(e.id(), func() { res = c.simplifyUncached(e, falses) })
	c.simpCache[key] = res
	return res
}

func (c *Context) simplifyUncached(e Handle, falses []Handle) Handle {
	p := newPropagator(c)
	for _, s := range falses {
		s = c.follow(s)
		p.setLiteral(s, false)
	}
	p.run()
	if p.contradiction {
		// The sibling premises can never all hold simultaneously, so the
		// disjunction they guard is unconditionally true regardless of e.
		return c.falseH
	}
	if v, ok := p.literalValue(e); ok {
		return c.Get(v)
	}

	ee := c.entry(e)
	switch ee.kind {
	case kindEq:
		x, y := ee.args[0], ee.args[1]
		if v, ok := p.literalValue(x); ok {
			res := y
			if !v {
				res = res.Invert()
			}
			if e.isInversion() {
				res = res.Invert()
			}
			return res
		}
		if v, ok := p.literalValue(y); ok {
			res := x
			if !v {
				res = res.Invert()
			}
			if e.isInversion() {
				res = res.Invert()
			}
			return res
		}
	case kindIfelse:
		i, t, el := ee.args[0], ee.args[1], ee.args[2]
		if v, ok := p.literalValue(i); ok {
			res := el
			if v {
				res = t
			}
			if e.isInversion() {
				res = res.Invert()
			}
			return res
		}
	case kindOr:
		args := ee.args
		newArgs := make([]Handle, len(args))
		numFalse := 0
		var lastNonFalse Handle
		anyTrue := false
		for idx, a := range args {
			na := c.simplify(a, falses)
			newArgs[idx] = na
			switch na {
			case c.trueH:
				anyTrue = true
			case c.falseH:
				numFalse++
			default:
				lastNonFalse = na
			}
		}
		if anyTrue {
			res := c.trueH
			if e.isInversion() {
				res = res.Invert()
			}
			return res
		}
		if len(args) > 0 && numFalse == len(args)-1 {
			res := lastNonFalse
			if e.isInversion() {
				res = res.Invert()
			}
			return res
		}
		if numFalse == len(args) {
			res := c.falseH
			if e.isInversion() {
				res = res.Invert()
			}
			return res
		}
	}

	if ee.kind == kindOr {
		for _, s := range falses {
			s = c.follow(s)
			if !s.isInversion() {
				continue
			}
			se := c.entry(s)
			if se.kind == kindOr && isSubsetSorted(se.args, ee.args) {
				res := c.trueH
				if e.isInversion() {
					res = res.Invert()
				}
				return res
			}
		}
	}

	return e
}
