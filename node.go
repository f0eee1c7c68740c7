// Copyright (c) 2024 The eqbool authors
//
// MIT License

package eqbool

import (
	"encoding/binary"
)

// nodeKind tags the shape of a nodeEntry.
type nodeKind uint8

const (
	kindTerm nodeKind = iota
	kindOr
	kindIfelse
	kindEq
)

func (k nodeKind) String() string {
	switch k {
	case kindTerm:
		return "term"
	case kindOr:
		return "or"
	case kindIfelse:
		return "ifelse"
	case kindEq:
		return "eq"
	default:
		return "?"
	}
}

// Term is the opaque token a TermSet hands back for a named atom. The
// Context never interprets a Term beyond comparing it for equality; see
// TermSet in termset.go.
type Term int32

// sentinelTerm is the token of the node underlying the two constants: "0"
// with inversion bit 0 is False, inverted is True. It can never be returned
// by a TermSet.
const sentinelTerm Term = -1

// nodeEntry is the interned record for one structurally-unique node. See
// spec.md section 3 for the invariants entries must satisfy. Entries are
// immutable except for canonical, which may only ever be rewritten to a
// Handle with a strictly smaller node id (Context.declareEquiv enforces
// this).
//
// This mirrors the teacher's huddnode (level/low/high/refcou), widened from
// a fixed-arity (level,low,high) triple to a variable-arity kind+term+args
// record -- our nodes are not organised by BDD variable level, so there is
// no level field, and nodes are never reclaimed, so there is no refcou.
type nodeEntry struct {
	id        uint32
	kind      nodeKind
	term      Term
	args      []Handle
	canonical Handle
}

// nodeKey builds the comparable Go map key used by the Context's unicity
// table. It is a direct generalisation of hudd.go's huddhash: that function
// packs a fixed (level,low,high) triple into a 12/20-byte array; we instead
// append a kind tag, an optional term, and a variable number of Handles,
// which forces the key into a string rather than a fixed-size byte array.
func nodeKey(kind nodeKind, term Term, args []Handle) string {
	buf := make([]byte, 1, 1+4+8*len(args))
	buf[0] = byte(kind)
	if kind == kindTerm {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(term))
		return string(buf)
	}
	for _, a := range args {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(a))
	}
	return string(buf)
}

// checkHandle panics with a *PrecondError if h does not name a live node of
// c. This is the Go-idiomatic stand-in for the teacher's seterror-based
// Error()/Errored() accumulation: the spec treats a foreign or undefined
// Handle as a programmer error that "must not arise from well-formed
// input", which is exactly what a panic should guard in Go.
func (c *Context) checkHandle(h Handle) {
	if h.IsUndefined() {
		precondf("undefined handle used")
	}
	if h.stamp() != c.stamp {
		precondf("handle from a different context")
	}
	if int(h.id()) >= len(c.entries) {
		precondf("handle index %d out of range", h.id())
	}
}

// entry returns the nodeEntry addressed by h's node id, ignoring polarity.
func (c *Context) entry(h Handle) *nodeEntry {
	return &c.entries[h.id()]
}

// intern returns the unique Handle for the structural key (kind, term,
// args). args must already be in the entry's canonical shape (sorted,
// deduplicated, flattened, ...); intern itself performs no normalisation,
// exactly like the teacher's makenode, which assumes its caller (the apply
// fixpoint) has already reduced the operands.
func (c *Context) intern(kind nodeKind, term Term, args []Handle) Handle {
	key := nodeKey(kind, term, args)
	if h, ok := c.index[key]; ok {
		return c.follow(h)
	}
	id := uint32(len(c.entries))
	self := makeHandle(c.stamp, id, false)
	stored := append([]Handle(nil), args...)
	c.entries = append(c.entries, nodeEntry{
		id:        id,
		kind:      kind,
		term:      term,
		args:      stored,
		canonical: self,
	})
	c.index[key] = self
	return self
}

// follow resolves h's canonical chain, XOR-accumulating inversion bits
// along the way, and path-compresses the chain it walked back into the
// originating entry so that later follows are O(1). Because
// Context.declareEquiv only ever rewrites an entry's canonical field to a
// Handle with a strictly smaller id, this loop always terminates.
func (c *Context) follow(h Handle) Handle {
	inv := h.isInversion()
	id := h.id()
	for {
		e := &c.entries[id]
		if e.canonical.id() == id {
			// Self-canonical: we are at the representative.
			break
		}
		next := e.canonical
		if inv {
			next = next.Invert()
		}
		inv = next.isInversion()
		id = next.id()
	}
	res := makeHandle(h.stamp(), id, inv)
	// Path compression: rewrite the entry h started at to point directly at
	// the representative, unless that entry is mid-simplification (locked),
	// in which case a compressed write could race with the in-progress
	// rewrite of its own canonical field.
	startID := h.id()
	if !c.locked[startID] && startID != id {
		start := &c.entries[startID]
		// canonical must record the positive-polarity relation; recompute
		// the parity between start's positive form and res's positive form.
		parity := h.isInversion() != inv
		start.canonical = makeHandle(h.stamp(), id, parity)
	}
	return res
}

// declareEquiv records that a and b denote the same Boolean function, with
// b the (already simpler, or at least no more complex) representative.
// Requires a and b non-constant and a.id() > b.id(); this is enforced by
// the caller (Context.recordEquiv in equiv.go), which also normalises
// polarity the way spec.md section 4.2 describes: if a is inverted, both a
// and b are inverted first, so the stored relation is always between two
// positive-polarity handles.
func (c *Context) declareEquiv(a, b Handle) {
	if a.isInversion() {
		a = a.Invert()
		b = b.Invert()
	}
	c.entries[a.id()].canonical = b
}

// withLock runs fn while id's entry is marked locked, so that follow (see
// above) will not path-compress through it: id's own simplification pass is
// in progress and has not settled on a final canonical Handle yet. See the
// re-entrancy note in spec.md section 4.4 and the deviation recorded in
// handle.go. Locking is idempotent: a node legitimately simplifying itself
// recursively (through a sibling argument that refers back to it) just
// leaves the lock held until the outermost call returns.
func (c *Context) withLock(id uint32, fn func()) {
	already := c.locked[id]
	c.locked[id] = true
	if !already {
		defer delete(c.locked, id)
	}
	fn()
}
