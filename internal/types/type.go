package types

import (
	"fmt"
	"slices"
)

// Kind identifies the constructor of a Type.
type Kind uint8

const (
	// KindVar is a type variable.
	KindVar Kind = iota + 1
	// KindBool is the boolean base type.
	KindBool
	// KindNat is the natural-number base type.
	KindNat
	// KindArr is a function (arrow) type.
	KindArr
)

func (k Kind) String() string {
	switch k {
	case KindVar:
		return "var"
	case KindBool:
		return "bool"
	case KindNat:
		return "nat"
	case KindArr:
		return "arr"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Type is a sealed interface representing a monomorphic type term.
// Only Var, Bool, Nat and *Arr implement it.
type Type interface {
	fmt.Stringer
	Kind() Kind
	typ() // Sealed
}

// Var is a type variable identified by a non-negative integer.
type Var struct {
	ID uint32
}

func (Var) typ() {}

// Kind implements Type.
func (Var) Kind() Kind { return KindVar }

func (v Var) String() string { return fmt.Sprintf("Var(%d)", v.ID) }

// Bool is the boolean base type.
type Bool struct{}

func (Bool) typ() {}

// Kind implements Type.
func (Bool) Kind() Kind { return KindBool }

func (Bool) String() string { return "Bool" }

// Nat is the natural-number base type.
type Nat struct{}

func (Nat) typ() {}

// Kind implements Type.
func (Nat) Kind() Kind { return KindNat }

func (Nat) String() string { return "Nat" }

// Arr is a function type from From to To.
//
// Arr is always handled by pointer so that sub-terms can be shared by many
// parents. An *Arr is never modified after NewArr returns it.
type Arr struct {
	From Type
	To   Type
}

func (*Arr) typ() {}

// Kind implements Type.
func (*Arr) Kind() Kind { return KindArr }

func (a *Arr) String() string { return fmt.Sprintf("Arr(%s, %s)", a.From, a.To) }

// NewVar creates the type variable with the given id.
func NewVar(id uint32) Type {
	return Var{ID: id}
}

// NewBool creates the boolean type.
func NewBool() Type {
	return Bool{}
}

// NewNat creates the natural-number type.
func NewNat() Type {
	return Nat{}
}

// NewArr creates the function type from -> to. The arguments are shared, not copied.
func NewArr(from, to Type) Type {
	return &Arr{From: from, To: to}
}

// Equal reports whether a and b are structurally equal: same constructor and,
// for arrows, equal sub-terms. Shared sub-terms short-circuit on pointer equality.
//
// Equal walks with an explicit stack so arbitrarily deep types are safe.
func Equal(a, b Type) bool {
	stack := [][2]Type{{a, b}}
	for len(stack) > 0 {
		pair := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch x := pair[0].(type) {
		case Var:
			y, ok := pair[1].(Var)
			if !ok || x.ID != y.ID {
				return false
			}
		case Bool:
			if _, ok := pair[1].(Bool); !ok {
				return false
			}
		case Nat:
			if _, ok := pair[1].(Nat); !ok {
				return false
			}
		case *Arr:
			y, ok := pair[1].(*Arr)
			if !ok {
				return false
			}
			if x == y {
				continue
			}
			stack = append(stack, [2]Type{x.To, y.To}, [2]Type{x.From, y.From})
		default:
			return false
		}
	}
	return true
}

// FreeVars returns the distinct variable ids occurring in t, ascending.
func FreeVars(t Type) []uint32 {
	seen := make(map[uint32]bool)
	var vars []uint32
	walk(t, func(n Type) {
		if v, ok := n.(Var); ok && !seen[v.ID] {
			seen[v.ID] = true
			vars = append(vars, v.ID)
		}
	})
	slices.Sort(vars)
	return vars
}

// IsGround reports whether t contains no type variables.
func IsGround(t Type) bool {
	ground := true
	walk(t, func(n Type) {
		if n.Kind() == KindVar {
			ground = false
		}
	})
	return ground
}

// Size returns the number of nodes in t, counting shared sub-terms once per
// occurrence.
func Size(t Type) int {
	n := 0
	walk(t, func(Type) { n++ })
	return n
}

// Depth returns the height of t. Base types and variables have depth 1.
func Depth(t Type) int {
	type frame struct {
		t     Type
		depth int
	}
	maxDepth := 0
	stack := []frame{{t, 1}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.depth > maxDepth {
			maxDepth = f.depth
		}
		if a, ok := f.t.(*Arr); ok {
			stack = append(stack, frame{a.To, f.depth + 1}, frame{a.From, f.depth + 1})
		}
	}
	return maxDepth
}

// walk visits every node of t in pre-order, left to right.
func walk(t Type, visit func(Type)) {
	stack := []Type{t}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visit(n)
		if a, ok := n.(*Arr); ok {
			stack = append(stack, a.To, a.From)
		}
	}
}
