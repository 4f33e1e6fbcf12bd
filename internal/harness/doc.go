// Package harness runs YAML unification scenarios and checks their outcome.
//
// # Scenario Format
//
//	name: arrow_decomposition
//	description: "Arrows unify component-wise"
//	constraints:
//	  - left: nat -> nat
//	    right: a -> b
//	    label: app
//	expect:
//	  solvable: true
//	  bindings:
//	    a: nat
//	    b: nat
//	assertions:
//	  - type: trace_count
//	    action: bind
//	    count: 2
//
// An unsolvable scenario names the failure instead of bindings:
//
//	expect:
//	  solvable: false
//	  failure: OCCURS_CHECK
//
// # Checks
//
// Check compares a Result against the scenario's expectations: solvability,
// the failure code, each expected binding (after applying the substitution to
// the named variable) and soundness, i.e. that the returned substitution
// really satisfies every constraint. Trace assertions inspect the solver's
// steps:
//
//   - trace_contains: a step with the given action (and label, if set) exists
//   - trace_order: the given actions occur in order
//   - trace_count: the given action occurs exactly count times
//
// # Golden Traces
//
// RunWithGolden renders the solver trace as text and compares it with
// testdata/golden/<name>.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
