package testutil

import (
	"math/rand/v2"

	"github.com/roach88/tyunify/internal/types"
)

// NewRand returns a deterministic generator for property tests.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// RandomType builds a random type of at most maxDepth levels whose variables
// are drawn from [0, numVars). numVars == 0 yields ground types only.
func RandomType(r *rand.Rand, maxDepth int, numVars uint32) types.Type {
	if maxDepth <= 1 || r.IntN(3) == 0 {
		return randomLeaf(r, numVars)
	}
	return types.NewArr(
		RandomType(r, maxDepth-1, numVars),
		RandomType(r, maxDepth-1, numVars),
	)
}

func randomLeaf(r *rand.Rand, numVars uint32) types.Type {
	choices := 2
	if numVars > 0 {
		choices = 4 // Weight variables higher
	}
	switch r.IntN(choices) {
	case 0:
		return types.NewBool()
	case 1:
		return types.NewNat()
	default:
		return types.NewVar(r.Uint32N(numVars))
	}
}

// RandomSubstitution binds a random subset of [0, numVars) to random types
// over the same variables. The result is generally NOT idempotent, which is
// what composition tests want.
func RandomSubstitution(r *rand.Rand, maxDepth int, numVars uint32) types.Substitution {
	s := types.Substitution{}
	for v := uint32(0); v < numVars; v++ {
		if r.IntN(2) == 0 {
			s[v] = RandomType(r, maxDepth, numVars)
		}
	}
	return s
}

// RandomConstraints builds n random constraints over [0, numVars).
func RandomConstraints(r *rand.Rand, n, maxDepth int, numVars uint32) []types.Constraint {
	cs := make([]types.Constraint, n)
	for i := range cs {
		cs[i] = types.Eq(RandomType(r, maxDepth, numVars), RandomType(r, maxDepth, numVars))
	}
	return cs
}
