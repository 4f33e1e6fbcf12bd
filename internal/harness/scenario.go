package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/tyunify/internal/compiler"
	"github.com/roach88/tyunify/internal/unify"
)

// Scenario is one unification test case.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Constraints are solved in order, with one name table for the scenario.
	Constraints []compiler.ConstraintSpec `yaml:"constraints"`

	// MaxSteps bounds the solver (zero means unlimited).
	MaxSteps int `yaml:"max_steps,omitempty"`

	// Expect describes the expected outcome.
	Expect Expectation `yaml:"expect"`

	// Assertions inspect the solver trace.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Expectation is the expected outcome of a scenario.
type Expectation struct {
	// Solvable is required.
	Solvable *bool `yaml:"solvable"`

	// Failure is the expected error code when not solvable.
	Failure string `yaml:"failure,omitempty"`

	// Label is the expected label of the failing constraint.
	Label string `yaml:"label,omitempty"`

	// Bindings maps variable names to the type the substitution must give
	// them. Variables not listed are not checked.
	Bindings map[string]string `yaml:"bindings,omitempty"`
}

// Assertion validates the solver trace.
type Assertion struct {
	// Type is one of trace_contains, trace_order, trace_count.
	Type string `yaml:"type"`

	// Action is a step action (used by trace_contains and trace_count).
	Action string `yaml:"action,omitempty"`

	// Label restricts trace_contains to steps from this constraint.
	Label string `yaml:"label,omitempty"`

	// Actions is the expected order (used by trace_order).
	Actions []string `yaml:"actions,omitempty"`

	// Count is the expected number of occurrences (used by trace_count).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
)

var validActions = map[string]bool{
	string(unify.ActionDiscard):   true,
	string(unify.ActionBind):      true,
	string(unify.ActionDecompose): true,
	string(unify.ActionFail):      true,
}

var validFailures = map[string]bool{
	string(unify.ErrCodeOccursCheck): true,
	string(unify.ErrCodeMismatch):    true,
	string(unify.ErrCodeStepLimit):   true,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Parse YAML with strict field validation (catches typos like "expects:" vs "expect:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadDir loads every *.yaml and *.yml scenario in dir, sorted by file name.
func LoadDir(dir string) ([]*Scenario, []string, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, nil, fmt.Errorf("glob %s: %w", dir, err)
		}
		paths = append(paths, matches...)
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", path, err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, paths, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.MaxSteps < 0 {
		return fmt.Errorf("max_steps must be non-negative")
	}

	for _, verr := range compiler.Validate(s.Constraints) {
		if verr.Code == compiler.ErrNoConstraints {
			continue
		}
		return verr
	}

	if err := validateExpect(&s.Expect); err != nil {
		return fmt.Errorf("expect: %w", err)
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

func validateExpect(e *Expectation) error {
	if e.Solvable == nil {
		return fmt.Errorf("solvable is required")
	}

	if *e.Solvable {
		if e.Failure != "" {
			return fmt.Errorf("failure must be empty when solvable is true")
		}
		if e.Label != "" {
			return fmt.Errorf("label must be empty when solvable is true")
		}
		return nil
	}

	if len(e.Bindings) > 0 {
		return fmt.Errorf("bindings must be empty when solvable is false")
	}
	if e.Failure != "" && !validFailures[e.Failure] {
		return fmt.Errorf("unknown failure %q", e.Failure)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if !validActions[a.Action] {
			return fmt.Errorf("assertions[%d]: unknown action %q for trace_contains", index, a.Action)
		}
	case AssertTraceOrder:
		if len(a.Actions) == 0 {
			return fmt.Errorf("assertions[%d]: actions list is required for trace_order", index)
		}
		for _, action := range a.Actions {
			if !validActions[action] {
				return fmt.Errorf("assertions[%d]: unknown action %q for trace_order", index, action)
			}
		}
	case AssertTraceCount:
		if !validActions[a.Action] {
			return fmt.Errorf("assertions[%d]: unknown action %q for trace_count", index, a.Action)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
