// Package weight implements the symbolic weight-expression algebra used to
// label WFST transitions.
//
// A WeightExpr is a node in an immutable, hash-consed expression DAG:
// integer/double constants, named parameter references, and the arithmetic
// and transcendental combinators (+, -, *, /, ^, log, exp). Every node is
// allocated through a single *Context (an arena), never constructed by hand,
// so identity-preserving rewrites (constant folding, singleton ZERO/ONE) can
// be applied at construction time rather than re-discovered on every walk.
//
// Nodes are referenced by other nodes only by value (Expr is an interned
// index, not a pointer), which makes graphs trivially copyable and rules out
// cycles by construction: a builder can only ever reference children that
// already exist in the arena.
//
// Concurrency: a *Context is safe for concurrent reads once nodes exist, but
// concurrent construction must go through the Context's own lock (held
// internally by every constructor). The recommended usage, matching
// core.Graph's locking discipline, is one Context per goroutine with an
// explicit Import step to merge graphs built on different arenas.
package weight
