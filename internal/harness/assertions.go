package harness

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/tyunify/internal/syntax"
	"github.com/roach88/tyunify/internal/unify"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []unify.Step // Full trace for debugging context
	Names    *syntax.Names
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, step := range e.Trace {
			fmt.Fprintf(&buf, "  %s\n", FormatStep(step, e.Names))
		}
	}

	return buf.String()
}

// evaluateAssertion dispatches on the assertion type.
func evaluateAssertion(trace []unify.Step, names *syntax.Names, a Assertion) error {
	var err *AssertionError
	switch a.Type {
	case AssertTraceContains:
		err = assertTraceContains(trace, a)
	case AssertTraceOrder:
		err = assertTraceOrder(trace, a)
	case AssertTraceCount:
		err = assertTraceCount(trace, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	if err == nil {
		return nil
	}
	err.Trace = trace
	err.Names = names
	return err
}

// assertTraceContains checks that some step has the action (and label, if set).
func assertTraceContains(trace []unify.Step, a Assertion) *AssertionError {
	for _, step := range trace {
		if string(step.Action) != a.Action {
			continue
		}
		if a.Label != "" && step.Label != a.Label {
			continue
		}
		return nil
	}

	expected := "step " + a.Action
	if a.Label != "" {
		expected += " from " + a.Label
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: expected,
		Actual:   "not found in trace",
	}
}

// assertTraceOrder checks that the actions appear in the given order.
// Steps need not be consecutive.
func assertTraceOrder(trace []unify.Step, a Assertion) *AssertionError {
	next := 0
	for _, step := range trace {
		if next < len(a.Actions) && string(step.Action) == a.Actions[next] {
			next++
		}
	}
	if next == len(a.Actions) {
		return nil
	}
	return &AssertionError{
		Type:     AssertTraceOrder,
		Expected: fmt.Sprintf("actions in order: %v", a.Actions),
		Actual:   fmt.Sprintf("matched %d of %d, missing %s", next, len(a.Actions), a.Actions[next]),
	}
}

// assertTraceCount checks the action occurs exactly Count times.
func assertTraceCount(trace []unify.Step, a Assertion) *AssertionError {
	count := 0
	for _, step := range trace {
		if string(step.Action) == a.Action {
			count++
		}
	}
	if count == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertTraceCount,
		Expected: fmt.Sprintf("%d occurrences of %s", a.Count, a.Action),
		Actual:   fmt.Sprintf("%d occurrences", count),
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
