// Copyright (c) 2024 The eqbool authors
//
// MIT License

// Package script implements the line-oriented test-harness language
// described by the eqbool library's external interface: definitions of
// named atoms and derived expressions, and assertions checked against a
// single eqbool.Context. It is a thin collaborator that only exercises the
// library through its public API, grounded on the line-interpreter loop of
// kosarev/eqbool's original command-line driver (process_test_line).
package script

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/kosarev/eqbool"
)

// Error reports a script failure at a specific source location, formatted
// as "PATH: LINE: MESSAGE" per the harness's documented error contract.
type Error struct {
	Path string
	Line int
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %d: %s", e.Path, e.Line, e.Msg)
}

// Options configures a single Run.
type Options struct {
	// FindMismatches downgrades assert_is failures to diagnostics written
	// to Diagnostics instead of aborting the run.
	FindMismatches bool
	// StatsEvery, if positive, prints a snapshot of the context's
	// statistics to Diagnostics every StatsEvery lines.
	StatsEvery int
	// Diagnostics receives find-mismatches and periodic-stats output. It
	// defaults to io.Discard if left nil.
	Diagnostics io.Writer
}

// Env holds the variable bindings accumulated while running one script
// against one Context. The constants "0" and "1" are pre-bound to false and
// true, per the EXPR grammar.
type Env struct {
	ctx  *eqbool.Context
	vars map[string]eqbool.Handle
}

// NewEnv creates an Env over ctx with "0" and "1" pre-bound.
func NewEnv(ctx *eqbool.Context) *Env {
	return &Env{
		ctx: ctx,
		vars: map[string]eqbool.Handle{
			"0": ctx.GetFalse(),
			"1": ctx.GetTrue(),
		},
	}
}

// Run reads a script from r and executes it line by line against env,
// stopping at the first failing line. path is used only to label errors.
func Run(env *Env, opts Options, path string, r io.Reader) error {
	diag := opts.Diagnostics
	if diag == nil {
		diag = io.Discard
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		if err := env.processLine(sc.Text(), opts, diag); err != nil {
			return &Error{Path: path, Line: lineNo, Msg: err.Error()}
		}
		if opts.StatsEvery > 0 && lineNo%opts.StatsEvery == 0 {
			printStats(diag, env.ctx.GetStats())
		}
	}
	if err := sc.Err(); err != nil {
		return &Error{Path: path, Line: lineNo, Msg: err.Error()}
	}
	return nil
}

func printStats(w io.Writer, s eqbool.Stats) {
	fmt.Fprintf(w, "stats: sat_time=%.6f clauses_time=%.6f num_sat_solutions=%d num_clauses=%d\n",
		s.SATTime, s.ClausesTime, s.NumSATSolutions, s.NumClauses)
}

func (env *Env) processLine(line string, opts Options, diag io.Writer) error {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil
	}
	t := &tokenStream{toks: tokenize(trimmed)}
	cmd := t.next()
	switch cmd {
	case "def":
		return env.doDef(t)
	case "assert_is":
		a, b, err := env.parsePair(t)
		if err != nil {
			return err
		}
		if a == b {
			return nil
		}
		if opts.FindMismatches {
			fmt.Fprintf(diag, "mismatch: %s\n", line)
			return nil
		}
		return fmt.Errorf("assert_is failed: handles differ")
	case "assert_equiv", "assert_unequiv":
		a, b, err := env.parsePair(t)
		if err != nil {
			return err
		}
		want := cmd == "assert_equiv"
		if env.ctx.IsEquiv(a, b) != want {
			return fmt.Errorf("%s failed", cmd)
		}
		return nil
	case "assert_sat_equiv", "assert_sat_unequiv":
		a, b, err := env.parsePair(t)
		if err != nil {
			return err
		}
		want := cmd == "assert_sat_equiv"
		before := env.ctx.GetStats().NumSATSolutions
		got := env.ctx.IsEquiv(a, b)
		if got != want {
			return fmt.Errorf("%s failed", cmd)
		}
		if env.ctx.GetStats().NumSATSolutions == before {
			return fmt.Errorf("%s: SAT solver was not invoked", cmd)
		}
		return nil
	case "":
		return fmt.Errorf("empty command")
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (env *Env) doDef(t *tokenStream) error {
	name := t.next()
	if name == "" {
		return fmt.Errorf("def: missing identifier")
	}
	if t.done() {
		env.vars[name] = env.ctx.GetTerm(name)
		return nil
	}
	h, err := env.parseExpr(t)
	if err != nil {
		return err
	}
	if !t.done() {
		return fmt.Errorf("def %s: trailing tokens after expression", name)
	}
	env.vars[name] = h
	return nil
}

func (env *Env) parsePair(t *tokenStream) (eqbool.Handle, eqbool.Handle, error) {
	a, err := env.parseExpr(t)
	if err != nil {
		return 0, 0, err
	}
	b, err := env.parseExpr(t)
	if err != nil {
		return 0, 0, err
	}
	if !t.done() {
		return 0, 0, fmt.Errorf("trailing tokens after expression pair")
	}
	return a, b, nil
}

// parseExpr implements the EXPR grammar: id, ~EXPR, (not E), (and E...),
// (or E...), (ifelse I T E), (eq A B).
func (env *Env) parseExpr(t *tokenStream) (eqbool.Handle, error) {
	if t.done() {
		return 0, fmt.Errorf("unexpected end of expression")
	}
	tok := t.next()
	switch tok {
	case "~":
		sub, err := env.parseExpr(t)
		if err != nil {
			return 0, err
		}
		return env.ctx.Invert(sub), nil
	case "(":
		return env.parseForm(t)
	case ")":
		return 0, fmt.Errorf("unexpected )")
	default:
		h, ok := env.vars[tok]
		if !ok {
			return 0, fmt.Errorf("unknown identifier %q", tok)
		}
		return h, nil
	}
}

func (env *Env) parseForm(t *tokenStream) (eqbool.Handle, error) {
	op := t.next()
	var result eqbool.Handle
	switch op {
	case "not":
		sub, err := env.parseExpr(t)
		if err != nil {
			return 0, err
		}
		result = env.ctx.Invert(sub)
	case "and", "or":
		var args []eqbool.Handle
		for t.peek() != ")" {
			if t.done() {
				return 0, fmt.Errorf("unterminated (%s ...)", op)
			}
			sub, err := env.parseExpr(t)
			if err != nil {
				return 0, err
			}
			args = append(args, sub)
		}
		if op == "and" {
			result = env.ctx.GetAnd(args, false)
		} else {
			result = env.ctx.GetOr(args, false)
		}
	case "ifelse":
		i, err := env.parseExpr(t)
		if err != nil {
			return 0, err
		}
		th, err := env.parseExpr(t)
		if err != nil {
			return 0, err
		}
		el, err := env.parseExpr(t)
		if err != nil {
			return 0, err
		}
		result = env.ctx.Ifelse(i, th, el)
	case "eq":
		a, err := env.parseExpr(t)
		if err != nil {
			return 0, err
		}
		b, err := env.parseExpr(t)
		if err != nil {
			return 0, err
		}
		result = env.ctx.GetEq(a, b)
	case "":
		return 0, fmt.Errorf("expected operator after (")
	default:
		return 0, fmt.Errorf("unknown operator %q", op)
	}
	if t.next() != ")" {
		return 0, fmt.Errorf("expected ) after (%s ...)", op)
	}
	return result, nil
}

// tokenStream is a simple cursor over a pre-split line.
type tokenStream struct {
	toks []string
	pos  int
}

func (t *tokenStream) peek() string {
	if t.pos >= len(t.toks) {
		return ""
	}
	return t.toks[t.pos]
}

func (t *tokenStream) next() string {
	s := t.peek()
	t.pos++
	return s
}

func (t *tokenStream) done() bool {
	return t.pos >= len(t.toks)
}

// tokenize splits a line into tokens, treating "(", ")" and "~" as always
// self-delimiting even when written without surrounding whitespace (e.g.
// "~a" or "(and~a~b)").
func tokenize(line string) []string {
	var b strings.Builder
	for _, r := range line {
		switch r {
		case '(', ')', '~':
			b.WriteByte(' ')
			b.WriteRune(r)
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Fields(b.String())
}
