package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical(t *testing.T) {
	cs := []Constraint{
		Eq(NewVar(0), NewNat()),
		Eq(NewArr(NewVar(1), NewBool()), NewVar(2)).Labeled("a<b & c"),
	}

	data, err := MarshalCanonical(cs)
	require.NoError(t, err)
	assert.Equal(t,
		`[{"left":{"var":0},"right":"nat"},{"left":{"from":{"var":1},"to":"bool"},"right":{"var":2},"label":"a<b & c"}]`,
		string(data))

	decoded, err := UnmarshalConstraints(data)
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	assert.True(t, Equal(cs[1].Left, decoded[1].Left))
	assert.Equal(t, "a<b & c", decoded[1].Label)
}

func TestMarshalCanonicalEmpty(t *testing.T) {
	data, err := MarshalCanonical(nil)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))
}

func TestMarshalCanonicalRejectsNil(t *testing.T) {
	_, err := MarshalCanonical([]Constraint{{Left: NewNat()}})
	assert.Error(t, err)

	_, err = ConstraintSetHash([]Constraint{{Right: NewNat()}})
	assert.Error(t, err)
}

func TestConstraintSetHashDeterminism(t *testing.T) {
	build := func() []Constraint {
		return []Constraint{Eq(NewVar(0), NewArr(NewNat(), NewVar(1)))}
	}

	h1, err := ConstraintSetHash(build())
	require.NoError(t, err)
	h2, err := ConstraintSetHash(build())
	require.NoError(t, err)

	assert.Equal(t, h1, h2, "hash must be deterministic")
	assert.Len(t, h1, 64, "SHA-256 hex is 64 characters")
}

func TestConstraintSetHashChangesWithInput(t *testing.T) {
	base := []Constraint{Eq(NewVar(0), NewNat()), Eq(NewVar(1), NewBool())}
	swapped := []Constraint{base[1], base[0]}
	labeled := []Constraint{base[0].Labeled("x"), base[1]}

	h := MustConstraintSetHash(base)
	assert.NotEqual(t, h, MustConstraintSetHash(swapped), "order is part of identity")
	assert.NotEqual(t, h, MustConstraintSetHash(labeled), "labels are part of identity")
}

func TestConstraintSetHashNormalizesLabels(t *testing.T) {
	composed := []Constraint{Eq(NewNat(), NewNat()).Labeled("caf\u00e9")}
	decomposed := []Constraint{Eq(NewNat(), NewNat()).Labeled("cafe\u0301")}

	assert.Equal(t, MustConstraintSetHash(composed), MustConstraintSetHash(decomposed))
}

func TestSubstitutionHash(t *testing.T) {
	a := NewSubstitution(Bind(0, NewNat()), Bind(1, NewBool()))
	b := NewSubstitution(Bind(1, NewBool()), Bind(0, NewNat()))

	ha, err := SubstitutionHash(a)
	require.NoError(t, err)
	hb, err := SubstitutionHash(b)
	require.NoError(t, err)
	assert.Equal(t, ha, hb, "map order must not affect identity")

	hc, err := SubstitutionHash(Singleton(0, NewNat()))
	require.NoError(t, err)
	assert.NotEqual(t, ha, hc)

	hd := MustConstraintSetHash(nil)
	assert.NotEqual(t, hd, hc, "domains separate hashes")
}
