// Package syntax parses and prints the textual form of types:
//
//	nat
//	bool -> nat
//	(a -> b) -> list_elem -> b
//	?3 -> ?3
//
// Arrows are right associative. Identifiers other than bool and nat are type
// variables; each distinct name receives a fresh id from a Names table, so the
// same name always denotes the same variable across every expression parsed
// with that table. ?N denotes variable N directly.
package syntax
