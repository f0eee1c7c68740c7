// Copyright (c) 2024 The eqbool authors
//
// MIT License

package eqbool

import "github.com/sirupsen/logrus"

// options holds the configurable parameters of a Context, following the
// functional-options pattern the teacher uses for Nodesize/Cachesize/...
// (config.go): New takes a variable number of Option values rather than a
// single options struct, so new knobs can be added without breaking
// callers.
type options struct {
	terms          TermSet
	logger         *logrus.Logger
	tableSizeHint  int
	simpCacheHint  int
}

func defaultOptions() options {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel) // silent unless the caller opts in
	return options{
		terms:         NewStringTermSet(),
		logger:        log,
		tableSizeHint: 1024,
		simpCacheHint: 1024,
	}
}

// Option configures a Context created with New.
type Option func(*options)

// WithTermSet injects the TermSet used to resolve names passed to GetTerm.
// The default is a fresh StringTermSet.
func WithTermSet(ts TermSet) Option {
	return func(o *options) { o.terms = ts }
}

// WithLogger sets the logrus.Logger the Context reports SAT-solver
// invocations and recorded equivalences to (at Debug level). The default logger is
// silenced (level PanicLevel), matching the teacher's behaviour of only
// emitting log output under its `debug` build tag.
func WithLogger(log *logrus.Logger) Option {
	return func(o *options) { o.logger = log }
}

// WithTableSizeHint pre-sizes the node table's backing storage, the way
// Nodesize does for the teacher's node table.
func WithTableSizeHint(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.tableSizeHint = n
		}
	}
}

// WithSimplifyCacheSizeHint pre-sizes the simplifier's memoisation cache
// (see simplify.go), the way Cachesize does for the teacher's apply cache.
func WithSimplifyCacheSizeHint(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.simpCacheHint = n
		}
	}
}
