// Copyright (c) 2024 The eqbool authors
//
// MIT License

/*
Package eqbool decides equivalence of Boolean expressions built out of named
atoms (terms) and the connectives NOT, OR, AND, IF-THEN-ELSE and EQ.

Basics

All operations are methods on a Context. A Context hash-conses every
expression it is asked to build: two constructor calls that denote the same
Boolean function (up to the algebraic rewrites described below) return the
bit-equal Handle. A Handle is a small value that names a node inside the
Context that produced it, together with a polarity bit; it is meaningless
outside the Context that created it, the same way a Node from the BuDDy
family of BDD packages only makes sense relative to the BDD that produced
it -- except that, unlike a BDD, a Context has no fixed variable ordering
and no notion of "level": nodes are created lazily, in the order the caller
asks for them, and never reclaimed.

Construction-time simplification

Every constructor (GetOr, Ifelse, ...) first runs a fixpoint of local
algebraic rewrites -- constant folding, argument absorption, identity
extraction between IF-THEN-ELSE branches, recognition of
(A & B) | (~A & C) as Ifelse(A,B,C), and so on -- before interning the
result. Only when these rewrites cannot decide a question does the Context
fall back to a general SAT solver (see IsUnsat and IsEquiv), memoising
whatever the solver discovers back into the node store so that later,
cheaper, calls benefit from it.

Use of the package

A Context is created with New. Terms (the atomic Boolean variables) are
declared on demand with GetTerm -- there is no fixed variable count to
declare up front, unlike a traditional BDD package.
*/
package eqbool
