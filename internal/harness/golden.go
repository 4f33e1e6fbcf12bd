package harness

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/tyunify/internal/syntax"
	"github.com/roach88/tyunify/internal/unify"
)

// FormatStep renders one trace step, e.g. "2 bind a := nat [app]".
func FormatStep(step unify.Step, names *syntax.Names) string {
	var line string
	if step.Action == unify.ActionBind {
		line = fmt.Sprintf("%d bind %s := %s",
			step.Seq, syntax.VarName(step.Var, names), syntax.Format(step.Right, names))
	} else {
		line = fmt.Sprintf("%d %s %s = %s",
			step.Seq, step.Action, syntax.Format(step.Left, names), syntax.Format(step.Right, names))
	}
	if step.Label != "" {
		line += " [" + step.Label + "]"
	}
	return line
}

// RenderTrace renders a scenario result as the text stored in golden files.
func RenderTrace(name string, result *Result) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "scenario: %s\n", name)

	b.WriteString("constraints:\n")
	for _, c := range result.Constraints {
		fmt.Fprintf(&b, "  %s", syntax.FormatConstraint(c, result.Names))
		if c.Label != "" {
			fmt.Fprintf(&b, " [%s]", c.Label)
		}
		b.WriteByte('\n')
	}

	b.WriteString("trace:\n")
	for _, step := range result.Trace {
		fmt.Fprintf(&b, "  %s\n", FormatStep(step, result.Names))
	}

	if !result.Solvable {
		fmt.Fprintf(&b, "result: %v\n", result.Err)
		return []byte(b.String())
	}

	b.WriteString("result: solvable\n")
	for _, line := range strings.Split(strings.TrimSuffix(syntax.FormatSubstitution(result.Substitution, result.Names), "\n"), "\n") {
		if line != "" {
			fmt.Fprintf(&b, "  %s\n", line)
		}
	}
	return []byte(b.String())
}

// RunWithGolden executes a scenario and compares the trace against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns the result so callers can run further checks. Test failure (via
// goldie) occurs if the trace doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	AssertGolden(t, scenario.Name, result)
	return result, nil
}

// AssertGolden compares an existing result's trace against a golden file.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, RenderTrace(name, result))
}
