package unify

import "github.com/roach88/tyunify/internal/types"

// Compose returns the substitution equivalent to applying s1 and then s2:
//
//	Apply(t, Compose(s1, s2)) == Apply(Apply(t, s1), s2)
//
// Every binding of s1 is pushed through s2; a binding that comes back as its
// own variable is dropped. Bindings of s2 for variables s1 does not bind are
// copied unchanged. Composition is order-sensitive: s1 is the earlier
// substitution. Neither input is modified.
func Compose(s1, s2 types.Substitution) types.Substitution {
	out := make(types.Substitution, len(s1)+len(s2))

	for v, t := range s1 {
		applied := Apply(t, s2)
		if self, ok := applied.(types.Var); ok && self.ID == v {
			continue
		}
		out[v] = applied
	}

	for v, t := range s2 {
		if _, bound := s1[v]; !bound {
			out[v] = t
		}
	}

	return out
}
