// Copyright (c) 2024 The eqbool authors
//
// MIT License

package script

import (
	"fmt"
	"strings"
	"testing"

	"github.com/kosarev/eqbool"
)

func run(t *testing.T, src string, opts Options) error {
	t.Helper()
	ctx := eqbool.New()
	env := NewEnv(ctx)
	return Run(env, opts, "test.eqb", strings.NewReader(src))
}

func TestScriptDefAndAssertIs(t *testing.T) {
	src := `
# a basic script
def a
def b
def c (or a b)
assert_is c (or b a)
`
	if err := run(t, src, Options{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestScriptAssertEquivAndUnequiv(t *testing.T) {
	src := `
def a
def b
assert_equiv (and a (not a)) 0
assert_unequiv a b
`
	if err := run(t, src, Options{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestScriptAssertSatEquivRequiresSolver(t *testing.T) {
	src := `
def a
def b
def c
def d
def e1 (and a (or (or b c) (or (not a) (and (or (not b) (or d (not c))) (or c (not b))))))
assert_sat_equiv e1 a
`
	if err := run(t, src, Options{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestScriptAssertIsFailureReportsLocation(t *testing.T) {
	src := "def a\ndef b\nassert_is a b\n"
	err := run(t, src, Options{})
	if err == nil {
		t.Fatalf("expected a failure")
	}
	se, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if se.Line != 3 {
		t.Fatalf("expected failure on line 3, got %d", se.Line)
	}
}

func TestScriptFindMismatchesDowngradesFailure(t *testing.T) {
	src := "def a\ndef b\nassert_is a b\n"
	var diag strings.Builder
	err := run(t, src, Options{FindMismatches: true, Diagnostics: &diag})
	if err != nil {
		t.Fatalf("unexpected error with find-mismatches set: %v", err)
	}
	if !strings.Contains(diag.String(), "mismatch") {
		t.Fatalf("expected a mismatch diagnostic, got %q", diag.String())
	}
}

func TestScriptUnknownIdentifier(t *testing.T) {
	err := run(t, "def a\nassert_is a z\n", Options{})
	if err == nil {
		t.Fatalf("expected an error for unknown identifier")
	}
}

// render renders h back into the EXPR grammar parseExpr accepts, so the
// round-trip property (spec.md section 8) can be checked without going
// through the library's own CSE-naming Print, which targets human debugging
// rather than re-parsing.
func render(ctx *eqbool.Context, h eqbool.Handle) string {
	var body string
	switch ctx.KindOf(h) {
	case eqbool.KindTerm:
		body = ctx.TermOf(h)
	case eqbool.KindOr:
		args := ctx.ArgsOf(h)
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = render(ctx, a)
		}
		body = "(or"
		for _, p := range parts {
			body += " " + p
		}
		body += ")"
	case eqbool.KindIfelse:
		args := ctx.ArgsOf(h)
		body = fmt.Sprintf("(ifelse %s %s %s)", render(ctx, args[0]), render(ctx, args[1]), render(ctx, args[2]))
	case eqbool.KindEq:
		args := ctx.ArgsOf(h)
		body = fmt.Sprintf("(eq %s %s)", render(ctx, args[0]), render(ctx, args[1]))
	}
	if h.IsInverted() {
		return "(not " + body + ")"
	}
	return body
}

func TestScriptRoundTrip(t *testing.T) {
	ctx := eqbool.New()
	env := NewEnv(ctx)
	env.vars["a"] = ctx.GetTerm("a")
	env.vars["b"] = ctx.GetTerm("b")
	env.vars["c"] = ctx.GetTerm("c")

	a, b, c := env.vars["a"], env.vars["b"], env.vars["c"]
	exprs := []eqbool.Handle{
		ctx.GetOrPair(a, b),
		ctx.Invert(ctx.GetOrPair(a, ctx.Invert(b))),
		ctx.Ifelse(a, b, c),
		ctx.GetEq(a, b),
	}
	for _, h := range exprs {
		text := render(ctx, h)
		t2 := &tokenStream{toks: tokenize(text)}
		got, err := env.parseExpr(t2)
		if err != nil {
			t.Fatalf("parsing rendered form %q: %v", text, err)
		}
		if got != h {
			t.Fatalf("round trip of %q: got %v, want %v", text, got, h)
		}
	}
}
