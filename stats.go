// Copyright (c) 2024 The eqbool authors
//
// MIT License

package eqbool

import "time"

// Stats reports resource usage accumulated over the lifetime of a Context:
// solver invocations, total clauses emitted, and cumulative time spent
// building clauses versus solving them. This is the Go-idiomatic
// counterpart of the teacher's cacheStat/gcstat accounting structures
// (cache.go, gc.go), which the teacher only compiles in under its `debug`
// build tag; here the counters are always live since spec.md section 5
// requires them unconditionally ("a statistics record counts solver
// invocations, total clauses emitted, ...").
type Stats struct {
	// SATTime is the cumulative wall time, in seconds, spent inside the SAT
	// solver across all calls to IsUnsat.
	SATTime float64
	// ClausesTime is the cumulative wall time, in seconds, spent building
	// the CNF clauses handed to the solver.
	ClausesTime float64
	// NumSATSolutions is the number of times the SAT solver was actually
	// invoked (as opposed to IsUnsat/IsEquiv being answered by a constant
	// shortcut or the equivalence cache).
	NumSATSolutions uint64
	// NumClauses is the total number of CNF clauses ever emitted.
	NumClauses uint64
}

// GetStats returns a snapshot of the Context's resource-usage counters.
func (c *Context) GetStats() Stats {
	return c.stats
}

// scopedTimer accumulates elapsed wall time into acc when stopped. The
// caller is expected to write:
//
//	defer startTimer(&c.stats.ClausesTime).stop()
//
// so that the span closes on every exit path of the enclosing block,
// including early returns, per spec.md section 9's requirement that the
// scoped-acquisition pattern "must guarantee the span is closed on all exit
// paths".
type scopedTimer struct {
	start time.Time
	acc   *float64
}

func startTimer(acc *float64) scopedTimer {
	return scopedTimer{start: time.Now(), acc: acc}
}

func (t scopedTimer) stop() {
	*t.acc += time.Since(t.start).Seconds()
}
