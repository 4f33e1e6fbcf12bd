package harness

import (
	"errors"
	"fmt"

	"github.com/roach88/tyunify/internal/compiler"
	"github.com/roach88/tyunify/internal/syntax"
	"github.com/roach88/tyunify/internal/types"
	"github.com/roach88/tyunify/internal/unify"
)

// Result is the outcome of running a scenario.
type Result struct {
	// Solvable reports whether the solver found a unifier.
	Solvable bool

	// Substitution is the unifier, nil when not solvable.
	Substitution types.Substitution

	// Names is the scenario's variable table.
	Names *syntax.Names

	// Constraints are the compiled constraints.
	Constraints []types.Constraint

	// Trace holds one step per worklist pop.
	Trace []unify.Step

	// Err is the solver's *unify.Error when not solvable.
	Err error
}

// Run compiles and solves a scenario. The returned error reports a scenario
// that cannot be compiled; an unsolvable constraint set is a normal Result.
func Run(scenario *Scenario) (*Result, error) {
	names := syntax.NewNames(nil)
	cs, err := compiler.CompileSpecs(scenario.Constraints, names)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	result := &Result{
		Names:       names,
		Constraints: cs,
		Trace:       []unify.Step{},
	}

	opts := []unify.Option{
		unify.WithTracer(func(s unify.Step) { result.Trace = append(result.Trace, s) }),
	}
	if scenario.MaxSteps > 0 {
		opts = append(opts, unify.WithMaxSteps(scenario.MaxSteps))
	}

	subst, err := unify.Solve(cs, opts...)
	if err != nil {
		result.Err = err
		return result, nil
	}
	result.Solvable = true
	result.Substitution = subst
	return result, nil
}

// Check compares result with the scenario's expectations and assertions.
// It returns every failure found (does not fail-fast); nil means the
// scenario passed.
func Check(scenario *Scenario, result *Result) []error {
	var failures []error
	exp := scenario.Expect

	if exp.Solvable != nil && *exp.Solvable != result.Solvable {
		actual := "solvable"
		if !result.Solvable {
			actual = fmt.Sprintf("unsolvable (%v)", result.Err)
		}
		failures = append(failures, &AssertionError{
			Type:     "solvable",
			Expected: fmt.Sprintf("solvable=%t", *exp.Solvable),
			Actual:   actual,
			Trace:    result.Trace,
			Names:    result.Names,
		})
		// Nothing else is meaningful once solvability differs.
		return failures
	}

	if result.Solvable {
		failures = append(failures, checkBindings(exp.Bindings, result)...)
		if err := checkSound(result); err != nil {
			failures = append(failures, err)
		}
	} else {
		failures = append(failures, checkFailure(exp, result)...)
	}

	for _, assertion := range scenario.Assertions {
		if err := evaluateAssertion(result.Trace, result.Names, assertion); err != nil {
			failures = append(failures, err)
		}
	}

	return failures
}

// checkBindings compares Apply(name, subst) with each expected type.
// Expected types are parsed against a copy of the scenario's names so that
// a misspelled variable is reported instead of silently becoming fresh.
func checkBindings(bindings map[string]string, result *Result) []error {
	var failures []error
	for _, name := range sortedKeys(bindings) {
		want := bindings[name]

		id, ok := result.Names.Lookup(name)
		if !ok {
			failures = append(failures, &AssertionError{
				Type:     "binding",
				Expected: fmt.Sprintf("variable %s in constraints", name),
				Actual:   "unknown variable",
			})
			continue
		}

		scratch := result.Names.Clone()
		wantType, err := syntax.Parse(want, scratch)
		if err != nil {
			failures = append(failures, &AssertionError{
				Type:     "binding",
				Expected: fmt.Sprintf("%s := %s", name, want),
				Actual:   fmt.Sprintf("invalid expected type: %v", err),
			})
			continue
		}
		if scratch.Len() != result.Names.Len() {
			failures = append(failures, &AssertionError{
				Type:     "binding",
				Expected: fmt.Sprintf("%s := %s", name, want),
				Actual:   "expected type mentions a variable not in the constraints",
			})
			continue
		}

		got := unify.Apply(types.NewVar(id), result.Substitution)
		if !types.Equal(got, wantType) {
			failures = append(failures, &AssertionError{
				Type:     "binding",
				Expected: fmt.Sprintf("%s := %s", name, syntax.Format(wantType, result.Names)),
				Actual:   fmt.Sprintf("%s := %s", name, syntax.Format(got, result.Names)),
				Trace:    result.Trace,
				Names:    result.Names,
			})
		}
	}
	return failures
}

// checkSound verifies that the substitution satisfies every constraint.
func checkSound(result *Result) error {
	idx, ok := unify.Satisfies(result.Substitution, result.Constraints)
	if ok {
		return nil
	}
	c := result.Constraints[idx]
	return &AssertionError{
		Type:     "sound",
		Expected: fmt.Sprintf("substitution satisfies %s", syntax.FormatConstraint(c, result.Names)),
		Actual: fmt.Sprintf("%s vs %s",
			syntax.Format(unify.Apply(c.Left, result.Substitution), result.Names),
			syntax.Format(unify.Apply(c.Right, result.Substitution), result.Names)),
		Trace: result.Trace,
		Names: result.Names,
	}
}

func checkFailure(exp Expectation, result *Result) []error {
	var ue *unify.Error
	if !errors.As(result.Err, &ue) {
		return []error{fmt.Errorf("unexpected solver error: %v", result.Err)}
	}

	var failures []error
	if exp.Failure != "" && exp.Failure != string(ue.Code) {
		failures = append(failures, &AssertionError{
			Type:     "failure",
			Expected: exp.Failure,
			Actual:   ue.Error(),
			Trace:    result.Trace,
			Names:    result.Names,
		})
	}
	if exp.Label != "" && exp.Label != ue.Label {
		failures = append(failures, &AssertionError{
			Type:     "failure_label",
			Expected: exp.Label,
			Actual:   fmt.Sprintf("%q", ue.Label),
			Trace:    result.Trace,
			Names:    result.Names,
		})
	}
	return failures
}
