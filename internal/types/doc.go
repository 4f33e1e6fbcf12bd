// Package types provides the monomorphic type terms, substitutions and
// constraints shared by every other tyunify package.
//
// This package contains data definitions only. All other internal packages
// import types; types imports nothing internal. The algorithms that operate on
// these values (apply, compose, unify) live in package unify.
//
// Key design constraints:
//   - Types are immutable once built; sub-terms are shared by pointer
//   - Equality is structural, never pointer identity
//   - Substitutions are never mutated after construction
//   - Variable ids are supplied by the caller (see Supply), never global state
package types
