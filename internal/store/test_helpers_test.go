package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/tyunify/internal/testutil"
	"github.com/roach88/tyunify/internal/types"
	"github.com/roach88/tyunify/internal/unify"
)

var testEpoch = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

// createTestStore creates a new store in a temp dir with deterministic ids
// and timestamps.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path,
		WithClock(testutil.NewFixedClock(testEpoch).Now),
		WithRunIDs(testutil.NewSequentialRunIDs("")),
	)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// solvedRun solves cs and builds the corresponding Run.
func solvedRun(t *testing.T, cs []types.Constraint) Run {
	t.Helper()
	steps := 0
	subst, err := unify.Solve(cs, unify.WithTracer(func(unify.Step) { steps++ }))
	run, rerr := NewRun(cs, subst, err, steps)
	if rerr != nil {
		t.Fatalf("NewRun() failed: %v", rerr)
	}
	return run
}

func arrowConstraints() []types.Constraint {
	return []types.Constraint{
		types.Eq(
			types.NewArr(types.NewNat(), types.NewNat()),
			types.NewArr(types.NewVar(0), types.NewVar(1)),
		).Labeled("app"),
	}
}

func mismatchConstraints() []types.Constraint {
	return []types.Constraint{
		types.Eq(types.NewNat(), types.NewBool()).Labeled("lit"),
	}
}
