package unify

import "github.com/roach88/tyunify/internal/types"

// Occurs reports whether variable v appears anywhere inside t (including t
// being v itself). Uses an explicit stack so deep types cannot exhaust the
// goroutine stack.
func Occurs(v uint32, t types.Type) bool {
	stack := []types.Type{t}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch x := n.(type) {
		case types.Var:
			if x.ID == v {
				return true
			}
		case *types.Arr:
			stack = append(stack, x.To, x.From)
		}
	}
	return false
}
