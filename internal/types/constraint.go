package types

import "fmt"

// Constraint asserts that Left and Right are the same type.
type Constraint struct {
	Left  Type   `json:"left"`
	Right Type   `json:"right"`
	Label string `json:"label,omitempty"` // Origin for diagnostics, e.g. "main.lam:3:7"
}

// Eq is a shorthand for an unlabeled Constraint.
// Example: []Constraint{Eq(NewVar(0), NewNat())}
func Eq(left, right Type) Constraint {
	return Constraint{Left: left, Right: right}
}

// Labeled returns a copy of c carrying label.
func (c Constraint) Labeled(label string) Constraint {
	c.Label = label
	return c
}

func (c Constraint) String() string {
	if c.Label != "" {
		return fmt.Sprintf("%s = %s (%s)", c.Left, c.Right, c.Label)
	}
	return fmt.Sprintf("%s = %s", c.Left, c.Right)
}
