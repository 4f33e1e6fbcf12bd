package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRun_AssignsIDAndTime(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run, err := s.WriteRun(ctx, solvedRun(t, arrowConstraints()))
	require.NoError(t, err)

	assert.Equal(t, "test-run-0001", run.ID)
	assert.True(t, run.CreatedAt.Equal(testEpoch))

	run2, err := s.WriteRun(ctx, solvedRun(t, arrowConstraints()))
	require.NoError(t, err)
	assert.Equal(t, "test-run-0002", run2.ID)
	assert.True(t, run2.CreatedAt.After(run.CreatedAt))
}

func TestWriteRun_KeepsExplicitID(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	in := solvedRun(t, arrowConstraints())
	in.ID = "custom"
	run, err := s.WriteRun(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "custom", run.ID)

	_, err = s.WriteRun(ctx, in)
	assert.Error(t, err, "duplicate id must fail")
}

func TestWriteRun_RequiresHash(t *testing.T) {
	s := createTestStore(t)

	_, err := s.WriteRun(context.Background(), Run{EngineVersion: "0.1.0"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing constraint hash")
}

func TestWriteRun_RequiresEngineVersion(t *testing.T) {
	s := createTestStore(t)

	run := solvedRun(t, arrowConstraints())
	run.EngineVersion = ""
	_, err := s.WriteRun(context.Background(), run)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing engine version")
}

func TestWriteRun_StoresNullSubstitutionOnFailure(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run, err := s.WriteRun(ctx, solvedRun(t, mismatchConstraints()))
	require.NoError(t, err)

	var isNull bool
	err = s.db.QueryRow("SELECT substitution IS NULL FROM runs WHERE id = ?", run.ID).Scan(&isNull)
	require.NoError(t, err)
	assert.True(t, isNull)
}
