package unify

import "github.com/roach88/tyunify/internal/types"

// Unify returns the most general substitution that makes both sides of every
// constraint structurally equal. ok is false when no such substitution exists,
// either because a variable would have to contain itself or because two types
// have incompatible constructors. The two causes are not distinguished; use
// Solve for diagnostics.
//
// An empty constraint set yields an empty substitution.
func Unify(constraints []types.Constraint) (s types.Substitution, ok bool) {
	s, err := Solve(constraints)
	if err != nil {
		return nil, false
	}
	return s, true
}

// Solve is Unify with options and a typed failure (*Error).
func Solve(constraints []types.Constraint, opts ...Option) (types.Substitution, error) {
	cfg := newConfig(opts)
	work := newWorklist(constraints)
	acc := types.Substitution{}

	var steps int
	if cfg.stepCount != nil {
		defer func() { *cfg.stepCount = steps }()
	}
	for {
		p, ok := work.pop()
		if !ok {
			break
		}
		steps++
		if cfg.maxSteps > 0 && steps > cfg.maxSteps {
			return nil, NewStepLimitError(steps, cfg.maxSteps)
		}
		seq := int64(steps)

		left := Apply(p.left, acc)
		right := Apply(p.right, acc)

		if types.Equal(left, right) {
			cfg.trace(Step{Seq: seq, Action: ActionDiscard, Left: left, Right: right, Label: p.label})
			continue
		}

		if v, isVar := left.(types.Var); isVar {
			if Occurs(v.ID, right) {
				cfg.trace(Step{Seq: seq, Action: ActionFail, Left: left, Right: right, Label: p.label})
				return nil, NewOccursError(v.ID, right, p.label)
			}
			acc = Compose(acc, types.Singleton(v.ID, right))
			cfg.trace(Step{Seq: seq, Action: ActionBind, Left: left, Right: right, Var: v.ID, Label: p.label})
			continue
		}

		if v, isVar := right.(types.Var); isVar {
			if Occurs(v.ID, left) {
				cfg.trace(Step{Seq: seq, Action: ActionFail, Left: left, Right: right, Label: p.label})
				return nil, NewOccursError(v.ID, left, p.label)
			}
			acc = Compose(acc, types.Singleton(v.ID, left))
			cfg.trace(Step{Seq: seq, Action: ActionBind, Left: right, Right: left, Var: v.ID, Label: p.label})
			continue
		}

		la, lok := left.(*types.Arr)
		ra, rok := right.(*types.Arr)
		if lok && rok {
			// Codomain first so the domain pair is popped next.
			work.push(pair{left: la.To, right: ra.To, label: p.label})
			work.push(pair{left: la.From, right: ra.From, label: p.label})
			cfg.trace(Step{Seq: seq, Action: ActionDecompose, Left: left, Right: right, Label: p.label})
			continue
		}

		cfg.trace(Step{Seq: seq, Action: ActionFail, Left: left, Right: right, Label: p.label})
		return nil, NewMismatchError(left, right, p.label)
	}

	return acc, nil
}
