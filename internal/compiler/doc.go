// Package compiler turns constraint files into types.Constraint values.
//
// A constraint file (CUE, JSON or YAML) has the shape:
//
//	constraints: [
//		{left: "f", right: "nat -> r", label: "app"},
//		{left: "r", right: "bool"},
//	]
//
// Each side is a type expression in the syntax of package syntax. Every
// file is compiled with one syntax.Names table, so a variable name denotes
// the same variable throughout the file.
package compiler
