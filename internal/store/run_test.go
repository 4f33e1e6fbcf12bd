package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tyunify/internal/types"
	"github.com/roach88/tyunify/internal/unify"
)

func TestNewRun_Solvable(t *testing.T) {
	run := solvedRun(t, arrowConstraints())

	assert.True(t, run.Solvable)
	assert.Equal(t, types.MustConstraintSetHash(arrowConstraints()), run.ConstraintHash)
	assert.Equal(t, types.EngineVersion, run.EngineVersion)
	assert.Equal(t, 3, run.Steps) // decompose, bind, bind
	assert.Empty(t, run.FailureCode)
	assert.NoError(t, run.Err())

	want := types.NewSubstitution(
		types.Bind(0, types.NewNat()),
		types.Bind(1, types.NewNat()),
	)
	assert.True(t, want.Equal(run.Substitution))
}

func TestNewRun_Failure(t *testing.T) {
	run := solvedRun(t, mismatchConstraints())

	assert.False(t, run.Solvable)
	assert.Nil(t, run.Substitution)
	assert.Equal(t, "MISMATCH", run.FailureCode)
	assert.Equal(t, "lit", run.FailureLabel)

	err := run.Err()
	require.Error(t, err)
	assert.True(t, unify.IsMismatchError(err))
	assert.Contains(t, err.Error(), "(at lit)")
}

func TestNewRun_EmptySetHasSubstitution(t *testing.T) {
	run, err := NewRun(nil, nil, nil, 0)
	require.NoError(t, err)
	assert.True(t, run.Solvable)
	assert.NotNil(t, run.Substitution)
}

func TestNewRun_RejectsForeignError(t *testing.T) {
	_, err := NewRun(nil, nil, assert.AnError, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestUUIDv7Generator(t *testing.T) {
	g := UUIDv7Generator{}
	a, b := g.Generate(), g.Generate()

	parsed, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
	assert.NotEqual(t, a, b)
}
