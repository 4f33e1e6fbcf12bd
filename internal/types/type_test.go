package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructorsKinds(t *testing.T) {
	assert.Equal(t, KindVar, NewVar(3).Kind())
	assert.Equal(t, KindBool, NewBool().Kind())
	assert.Equal(t, KindNat, NewNat().Kind())
	assert.Equal(t, KindArr, NewArr(NewNat(), NewBool()).Kind())
	assert.Equal(t, "arr", KindArr.String())
	assert.Equal(t, "kind(9)", Kind(9).String())
}

func TestNewArrSharesSubterms(t *testing.T) {
	shared := NewArr(NewNat(), NewNat())
	outer := NewArr(shared, shared).(*Arr)

	assert.Same(t, shared, outer.From)
	assert.Same(t, shared, outer.To)
}

func TestEqual(t *testing.T) {
	shared := NewArr(NewVar(1), NewBool())

	cases := []struct {
		name string
		a, b Type
		want bool
	}{
		{"same var", NewVar(0), NewVar(0), true},
		{"different var ids", NewVar(0), NewVar(1), false},
		{"bool", NewBool(), NewBool(), true},
		{"nat", NewNat(), NewNat(), true},
		{"bool vs nat", NewBool(), NewNat(), false},
		{"var vs base", NewVar(0), NewNat(), false},
		{"distinct but equal arrows", NewArr(NewNat(), NewVar(2)), NewArr(NewNat(), NewVar(2)), true},
		{"arrow codomain differs", NewArr(NewNat(), NewVar(2)), NewArr(NewNat(), NewVar(3)), false},
		{"arrow vs base", NewArr(NewNat(), NewNat()), NewNat(), false},
		{"shared pointer", shared, shared, true},
		{"nested", NewArr(shared, NewArr(NewNat(), shared)), NewArr(NewArr(NewVar(1), NewBool()), NewArr(NewNat(), shared)), true},
		{"nil", nil, NewNat(), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Equal(tc.a, tc.b))
			assert.Equal(t, tc.want, Equal(tc.b, tc.a), "Equal must be symmetric")
		})
	}
}

func TestEqualDeepType(t *testing.T) {
	// Deep enough that a naive recursive walk would be noticeably expensive.
	build := func() Type {
		var ty Type = NewNat()
		for i := 0; i < 100000; i++ {
			ty = NewArr(NewBool(), ty)
		}
		return ty
	}
	assert.True(t, Equal(build(), build()))
}

func TestFreeVars(t *testing.T) {
	ty := NewArr(NewVar(4), NewArr(NewVar(1), NewArr(NewVar(4), NewNat())))
	assert.Equal(t, []uint32{1, 4}, FreeVars(ty))
	assert.Empty(t, FreeVars(NewArr(NewNat(), NewBool())))
}

func TestIsGround(t *testing.T) {
	assert.True(t, IsGround(NewNat()))
	assert.True(t, IsGround(NewArr(NewNat(), NewArr(NewBool(), NewNat()))))
	assert.False(t, IsGround(NewVar(0)))
	assert.False(t, IsGround(NewArr(NewNat(), NewArr(NewVar(9), NewNat()))))
}

func TestSizeAndDepth(t *testing.T) {
	assert.Equal(t, 1, Size(NewNat()))
	assert.Equal(t, 1, Depth(NewVar(0)))

	ty := NewArr(NewArr(NewVar(0), NewNat()), NewBool())
	assert.Equal(t, 5, Size(ty))
	assert.Equal(t, 3, Depth(ty))
}

func TestTypeString(t *testing.T) {
	ty := NewArr(NewArr(NewVar(0), NewBool()), NewNat())
	assert.Equal(t, "Arr(Arr(Var(0), Bool), Nat)", ty.String())
}
