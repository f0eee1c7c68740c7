// Copyright (c) 2024 The eqbool authors
//
// MIT License

package eqbool

import (
	"github.com/crillab/gophersat/solver"
)

// varOf returns the gophersat variable number for a node id, allocating one
// on first use. Variable numbers are 1-based and local to a single
// collectClauses call; they are never persisted on the Context.
func varOf(vars map[uint32]int, id uint32) int {
	if v, ok := vars[id]; ok {
		return v
	}
	v := len(vars) + 1
	vars[id] = v
	return v
}

func literal(vars map[uint32]int, h Handle) int {
	v := vars[h.id()]
	if h.isInversion() {
		return -v
	}
	return v
}

// collectClauses performs a Tseitin encoding of the DAG rooted at root into
// CNF (spec.md section 4.5): every reachable node gets a fresh variable, and
// each OR/IFELSE/EQ node gets clauses defining its variable in terms of its
// children's literals. Inversion bits fold directly into literal signs, so
// there is no explicit NOT node to encode. Term nodes contribute a bare free
// variable and no clauses.
func (c *Context) collectClauses(root Handle) (clauses [][]int, rootLit int) {
	vars := make(map[uint32]int)
	visited := make(map[uint32]bool)

	var visit func(id uint32)
	visit = func(id uint32) {
		if visited[id] {
			return
		}
		visited[id] = true
		if id == 0 {
			precondf("constant handle reached the SAT encoder")
		}
		e := &c.entries[id]
		v := varOf(vars, id)
		switch e.kind {
		case kindTerm:
			// A free variable; no defining clauses.
		case kindOr:
			for _, a := range e.args {
				visit(a.id())
			}
			lits := make([]int, len(e.args))
			for i, a := range e.args {
				lits[i] = literal(vars, a)
			}
			whole := append([]int{-v}, lits...)
			clauses = append(clauses, whole)
			for _, l := range lits {
				clauses = append(clauses, []int{v, -l})
			}
		case kindIfelse:
			for _, a := range e.args {
				visit(a.id())
			}
			li := literal(vars, e.args[0])
			lt := literal(vars, e.args[1])
			le := literal(vars, e.args[2])
			clauses = append(clauses,
				[]int{-v, -li, lt},
				[]int{-v, li, le},
				[]int{v, -li, -lt},
				[]int{v, li, -le},
			)
		case kindEq:
			for _, a := range e.args {
				visit(a.id())
			}
			lx := literal(vars, e.args[0])
			ly := literal(vars, e.args[1])
			clauses = append(clauses,
				[]int{-v, -lx, ly},
				[]int{-v, lx, -ly},
				[]int{v, lx, ly},
				[]int{v, -lx, -ly},
			)
		}
	}

	visit(root.id())
	rootLit = literal(vars, root)
	return clauses, rootLit
}

// IsUnsat reports whether h can never evaluate to true under any assignment
// of its terms. Constant handles are answered without invoking the solver;
// everything else is Tseitin-encoded and handed to gophersat as a one-shot,
// non-incremental problem (spec.md section 4.5 and 5: "the solver is used
// as a stateless black box, invoked fresh per query").
func (c *Context) IsUnsat(h Handle) bool {
	c.checkHandle(h)
	h = c.follow(h)
	if h == c.falseH {
		return true
	}
	if h == c.trueH {
		return false
	}

	var clauses [][]int
	var rootLit int
	func() {
		defer startTimer(&c.stats.ClausesTime).stop()
		clauses, rootLit = c.collectClauses(h)
		clauses = append(clauses, []int{rootLit})
	}()
	c.stats.NumClauses += uint64(len(clauses))

	pb := solver.ParseSlice(clauses)
	s := solver.New(pb)

	c.log.Debugf("is_unsat: invoking SAT solver with %d clauses", len(clauses))
	defer startTimer(&c.stats.SATTime).stop()
	c.stats.NumSATSolutions++
	status := s.Solve()
	unsat := status == solver.Unsat
	c.log.Debugf("is_unsat: solver returned unsat=%v", unsat)
	return unsat
}
