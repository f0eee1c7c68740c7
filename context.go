// Copyright (c) 2024 The eqbool authors
//
// MIT License

package eqbool

import (
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// nextStamp hands out the per-Context stamp folded into every Handle it
// produces (see handle.go). Stamps start at 1 and skip 0 when they wrap, so
// the zero Handle never matches a live Context.
var nextStamp uint32

func allocStamp() uint16 {
	// Stamps wrap modulo 1<<stampBits; collisions across that many
	// concurrently-alive Contexts are not a realistic concern for a
	// single-threaded, non-persisted library (spec.md section 5).
	for {
		if s := uint16(atomic.AddUint32(&nextStamp, 1)); s != 0 {
			return s
		}
	}
}

// Context owns a node store and an equivalence cache; it is the unit of
// hash-consing. A Context is not safe for concurrent use (spec.md section
// 5): all mutation funnels through the constructors and declareEquiv,
// exactly as for the teacher's *buddy.
type Context struct {
	stamp   uint16
	entries []nodeEntry
	index   map[string]Handle
	locked  map[uint32]bool

	terms TermSet
	log   *logrus.Logger
	stats Stats

	simpCache map[simpCacheKey]Handle

	falseH Handle
	trueH  Handle
}

// New creates a Context. By default it uses a fresh StringTermSet and a
// silenced logger; see WithTermSet, WithLogger and the other Option
// functions in config.go to change that, following the teacher's
// functional-options style (compare rudd.New(varnum, rudd.Nodesize(...))).
func New(opts ...Option) *Context {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	c := &Context{
		stamp:     allocStamp(),
		entries:   make([]nodeEntry, 0, o.tableSizeHint),
		index:     make(map[string]Handle, o.tableSizeHint),
		locked:    make(map[uint32]bool),
		terms:     o.terms,
		log:       o.logger,
		simpCache: make(map[simpCacheKey]Handle, o.simpCacheHint),
	}
	// The sentinel node for atom "0": false has inversion bit 0, true has
	// inversion bit 1, both ids 0, per spec.md section 3.
	id := uint32(len(c.entries))
	self := makeHandle(c.stamp, id, false)
	c.entries = append(c.entries, nodeEntry{
		id:        id,
		kind:      kindTerm,
		term:      sentinelTerm,
		canonical: self,
	})
	c.falseH = self
	c.trueH = self.Invert()
	return c
}

// GetFalse returns the constant false Handle.
func (c *Context) GetFalse() Handle { return c.falseH }

// GetTrue returns the constant true Handle.
func (c *Context) GetTrue() Handle { return c.trueH }

// Get returns the constant Handle for a Go bool.
func (c *Context) Get(v bool) Handle {
	if v {
		return c.trueH
	}
	return c.falseH
}

// IsFalse reports whether h is the constant false (after resolving its
// canonical chain).
func (c *Context) IsFalse(h Handle) bool {
	c.checkHandle(h)
	return c.follow(h) == c.falseH
}

// IsTrue reports whether h is the constant true (after resolving its
// canonical chain).
func (c *Context) IsTrue(h Handle) bool {
	c.checkHandle(h)
	return c.follow(h) == c.trueH
}

// isConst reports whether the (already-followed) Handle h is a constant.
func (c *Context) isConst(h Handle) bool {
	return h.id() == 0
}

// Invert returns the logical negation of h; a cheap bit flip, exposed as a
// method for symmetry with the rest of the API (spec.md section 6 lists
// `invert(h)` alongside the other Context operations).
func (c *Context) Invert(h Handle) Handle {
	c.checkHandle(h)
	return h.Invert()
}

// Kind identifies the syntactic shape of a node. It is exported so callers
// (notably the printer and the script interpreter) can inspect expressions
// without reaching into package-private fields.
type Kind = nodeKind

// Node kinds, re-exported for callers outside the package.
const (
	KindTerm   = kindTerm
	KindOr     = kindOr
	KindIfelse = kindIfelse
	KindEq     = kindEq
)

// KindOf returns the syntactic kind of the node h addresses (after
// following its canonical chain).
func (c *Context) KindOf(h Handle) Kind {
	c.checkHandle(h)
	h = c.follow(h)
	return c.entry(h).kind
}

// ArgsOf returns the argument handles of the node h addresses, ignoring h's
// own polarity. Individual arguments may themselves be inverted.
func (c *Context) ArgsOf(h Handle) []Handle {
	c.checkHandle(h)
	h = c.follow(h)
	e := c.entry(h)
	return append([]Handle(nil), e.args...)
}

// TermOf returns the name of the term node h addresses. It panics if h is
// not a term node.
func (c *Context) TermOf(h Handle) string {
	c.checkHandle(h)
	h = c.follow(h)
	e := c.entry(h)
	if e.kind != kindTerm || e.id == 0 {
		precondf("handle is not a named term")
	}
	return c.terms.Name(e.term)
}
