package unify

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/tyunify/internal/types"
)

// Outcome is the result of solving one constraint set in a batch.
type Outcome struct {
	Substitution types.Substitution
	Err          error // *Error, or ctx.Err() if the set was never started
	Steps        int   // Worklist pops
}

// SolveAll solves independent constraint sets concurrently on at most workers
// goroutines (workers <= 0 means one per set). Results are returned in input
// order. Sets share nothing but their immutable types, so no locking is needed.
//
// A tracer passed in opts may be called from several goroutines at once.
//
// Cancelling ctx stops sets that have not started yet; a set already being
// solved runs to completion.
func SolveAll(ctx context.Context, sets [][]types.Constraint, workers int, opts ...Option) []Outcome {
	out := make([]Outcome, len(sets))

	var g errgroup.Group
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, set := range sets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				out[i] = Outcome{Err: err}
				return nil
			}
			var steps int
			setOpts := append(opts[:len(opts):len(opts)], WithStepCount(&steps))
			s, err := Solve(set, setOpts...)
			out[i] = Outcome{Substitution: s, Err: err, Steps: steps}
			return nil
		})
	}
	_ = g.Wait() // Workers never return errors; failures live in Outcome.

	return out
}
