package types

import (
	"maps"
	"slices"
	"strings"
)

// Substitution is a finite mapping from variable ids to types.
//
// A Substitution is a mathematical function, not a sequence: it has no
// ordering semantics. Use Vars or Bindings for deterministic iteration.
// Substitutions are never mutated after construction; every update produces
// a new map. A nil Substitution is the empty substitution.
type Substitution map[uint32]Type

// Binding is a single variable -> type entry of a Substitution.
type Binding struct {
	Var  uint32 `json:"var"`
	Type Type   `json:"type"`
}

// Bind is a shorthand for Binding construction.
// Example: NewSubstitution(Bind(0, NewNat()), Bind(1, NewBool()))
func Bind(v uint32, t Type) Binding {
	return Binding{Var: v, Type: t}
}

// NewSubstitution creates a Substitution from bindings. Later bindings for the
// same variable replace earlier ones.
func NewSubstitution(bindings ...Binding) Substitution {
	s := make(Substitution, len(bindings))
	for _, b := range bindings {
		s[b.Var] = b.Type
	}
	return s
}

// Singleton creates the substitution {v: t}.
func Singleton(v uint32, t Type) Substitution {
	return Substitution{v: t}
}

// Lookup returns the type bound to v.
func (s Substitution) Lookup(v uint32) (Type, bool) {
	t, ok := s[v]
	return t, ok
}

// Vars returns the bound variable ids in ascending order.
func (s Substitution) Vars() []uint32 {
	return slices.Sorted(maps.Keys(s))
}

// Bindings returns the entries ordered by variable id.
func (s Substitution) Bindings() []Binding {
	out := make([]Binding, 0, len(s))
	for _, v := range s.Vars() {
		out = append(out, Binding{Var: v, Type: s[v]})
	}
	return out
}

// Equal reports whether s and other bind the same variables to structurally
// equal types.
func (s Substitution) Equal(other Substitution) bool {
	if len(s) != len(other) {
		return false
	}
	for v, t := range s {
		o, ok := other[v]
		if !ok || !Equal(t, o) {
			return false
		}
	}
	return true
}

func (s Substitution) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, binding := range s.Bindings() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(Var{ID: binding.Var}.String())
		b.WriteString(" := ")
		b.WriteString(binding.Type.String())
	}
	b.WriteByte('}')
	return b.String()
}
