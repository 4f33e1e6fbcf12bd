// Package unify implements substitution application, substitution
// composition and Robinson unification over the types in package types.
//
// Everything here is a pure function over immutable values: no I/O, no
// logging, no shared mutable state. Results may be shared freely between
// goroutines.
//
// ALGORITHM:
//
// Unify drives a LIFO worklist seeded with every constraint (the first
// constraint is popped first). Each popped pair is normalized against the
// substitution accumulated so far and then, in order:
//  1. discarded if both sides are structurally equal
//  2. bound if one side is a variable that does not occur in the other
//  3. decomposed if both sides are arrows (domain pair popped first)
//  4. rejected otherwise
//
// Bindings are folded into the accumulator with Compose(acc, {v: t}), so the
// accumulator stays idempotent: no bound variable ever appears in its range.
//
// Termination: every pop either discards a pair, eliminates a variable from
// all remaining work, or replaces an arrow pair by two strictly smaller ones.
// The occurs check guarantees that no binding ever creates an infinite type.
package unify
