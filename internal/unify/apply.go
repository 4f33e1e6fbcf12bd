package unify

import "github.com/roach88/tyunify/internal/types"

// Apply replaces every variable of t that is bound in s by its binding.
//
// Bindings are not re-applied: s is expected to be idempotent (as every
// substitution returned by Compose over idempotent inputs and by Unify is).
// An arrow is rebuilt only when one of its sides actually changed; otherwise
// the original node is returned, so untouched sub-trees stay shared and
// callers can detect a no-op by pointer comparison.
func Apply(t types.Type, s types.Substitution) types.Type {
	if len(s) == 0 {
		return t
	}
	out, _ := apply(t, s)
	return out
}

// apply returns the substituted type and whether anything changed.
func apply(t types.Type, s types.Substitution) (types.Type, bool) {
	switch v := t.(type) {
	case types.Var:
		if bound, ok := s[v.ID]; ok {
			return bound, true
		}
		return t, false
	case *types.Arr:
		from, fromChanged := apply(v.From, s)
		to, toChanged := apply(v.To, s)
		if !fromChanged && !toChanged {
			return t, false
		}
		return types.NewArr(from, to), true
	default:
		// Bool, Nat
		return t, false
	}
}

// ApplyAll applies s to both sides of every constraint.
func ApplyAll(constraints []types.Constraint, s types.Substitution) []types.Constraint {
	out := make([]types.Constraint, len(constraints))
	for i, c := range constraints {
		out[i] = types.Constraint{
			Left:  Apply(c.Left, s),
			Right: Apply(c.Right, s),
			Label: c.Label,
		}
	}
	return out
}

// Satisfies reports whether s solves every constraint. When it does not, the
// index of the first unsolved constraint is returned.
func Satisfies(s types.Substitution, constraints []types.Constraint) (int, bool) {
	for i, c := range constraints {
		if !types.Equal(Apply(c.Left, s), Apply(c.Right, s)) {
			return i, false
		}
	}
	return -1, true
}
