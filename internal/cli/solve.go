package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/tyunify/internal/harness"
	"github.com/roach88/tyunify/internal/store"
	"github.com/roach88/tyunify/internal/syntax"
	"github.com/roach88/tyunify/internal/types"
	"github.com/roach88/tyunify/internal/unify"
)

// SolveOptions holds flags for the solve command.
type SolveOptions struct {
	*RootOptions
	Database string
	MaxSteps int
	Workers  int
	Watch    bool
	Trace    bool
	NoCache  bool
}

// BindingView is one binding as printed.
type BindingView struct {
	Var  string `json:"var"`
	Type string `json:"type"`
}

// FailureView describes why a constraint set is unsolvable.
type FailureView struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Label   string `json:"label,omitempty"`
}

// SolveResult is the outcome for one constraint file.
type SolveResult struct {
	File     string        `json:"file"`
	Solvable bool          `json:"solvable"`
	Bindings []BindingView `json:"bindings"`
	Failure  *FailureView  `json:"failure,omitempty"`
	Steps    int           `json:"steps"`
	Hash     string        `json:"constraint_hash"`
	RunID    string        `json:"run_id,omitempty"`
	Cached   bool          `json:"cached"`
	Trace    []string      `json:"trace,omitempty"`

	subst    types.Substitution
	solveErr error
}

// NewSolveCommand creates the solve command.
func NewSolveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SolveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "solve <file>...",
		Short: "Solve constraint files",
		Long: `Solve the constraints in each file and print the most general unifier.

Files may be CUE (.cue), JSON (.json) or YAML (.yaml, .yml):

  constraints: [
    {left: "f", right: "nat -> r", label: "app"},
    {left: "r", right: "bool"},
  ]

Several files are solved concurrently. With --db every run is recorded and
an identical constraint set solved earlier by a compatible engine version is
answered from the store.

Exit codes:
  0 - Every file is solvable
  1 - At least one file is unsolvable
  2 - Command error (unreadable file, bad type expression, database error)

Examples:
  tyunify solve constraints.cue
  tyunify solve --trace --max-steps 100 a.yaml b.yaml
  tyunify solve --db runs.db --format json constraints.json
  tyunify solve --watch constraints.cue`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(cmd.Context(), opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "record runs in (and answer from) this SQLite database")
	cmd.Flags().IntVar(&opts.MaxSteps, "max-steps", 0, "fail after this many solver steps (0 = unlimited)")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "files solved concurrently (0 = one per file)")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "re-solve whenever the file changes")
	cmd.Flags().BoolVar(&opts.Trace, "trace", false, "print solver steps (bypasses the run cache)")
	cmd.Flags().BoolVar(&opts.NoCache, "no-cache", false, "always solve, even when --db has a matching run")

	return cmd
}

func runSolve(ctx context.Context, opts *SolveOptions, paths []string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := opts.formatter(cmd)
	logger := opts.logger()

	if opts.MaxSteps < 0 {
		return NewExitError(ExitCommandError, "--max-steps must be non-negative")
	}
	if opts.Watch && len(paths) != 1 {
		return NewExitError(ExitCommandError, "--watch takes exactly one file")
	}

	var st *store.Store
	if opts.Database != "" {
		var err error
		st, err = openStore(opts.Database, logger)
		if err != nil {
			_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()
	}

	if opts.Watch {
		return watchAndSolve(ctx, opts, st, paths[0], formatter, logger)
	}

	results, err := solveFiles(ctx, opts, st, paths, logger)
	if err != nil {
		_ = formatter.Error(loadErrorCode(err), err.Error(), nil)
		return WrapExitError(ExitCommandError, "solve failed", err)
	}

	if err := renderSolveResults(formatter, results); err != nil {
		return err
	}

	for _, r := range results {
		if !r.Solvable {
			return NewExitError(ExitFailure, "constraints are unsolvable")
		}
	}
	return nil
}

func openStore(path string, logger *slog.Logger) (*store.Store, error) {
	logger.Debug("opening database", "path", path)
	return store.Open(path, store.WithLogger(logger))
}

// constraintShape returns the total node count and the deepest side of cs.
func constraintShape(cs []types.Constraint) (nodes, depth int) {
	for _, c := range cs {
		nodes += types.Size(c.Left) + types.Size(c.Right)
		depth = max(depth, types.Depth(c.Left), types.Depth(c.Right))
	}
	return nodes, depth
}

// solveFiles loads every file, answers what it can from the store and solves
// the rest concurrently. Results are in input order.
func solveFiles(ctx context.Context, opts *SolveOptions, st *store.Store, paths []string, logger *slog.Logger) ([]SolveResult, error) {
	files := make([]*ConstraintFile, len(paths))
	for i, path := range paths {
		f, err := LoadConstraintFile(path)
		if err != nil {
			return nil, err
		}
		nodes, depth := constraintShape(f.Constraints)
		logger.Debug("loaded constraints", "file", path, "count", len(f.Constraints),
			"nodes", nodes, "max_depth", depth)
		files[i] = f
	}

	results := make([]SolveResult, len(files))
	var pending []int
	for i, f := range files {
		hash, err := types.ConstraintSetHash(f.Constraints)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Path, err)
		}
		results[i] = SolveResult{File: f.Path, Hash: hash, Bindings: []BindingView{}}

		if st != nil && !opts.Trace && !opts.NoCache {
			run, err := st.LookupCached(ctx, hash, types.EngineVersion)
			switch {
			case err == nil && (opts.MaxSteps == 0 || run.Steps <= opts.MaxSteps):
				fillResult(&results[i], run.Substitution, run.Err(), run.Steps, f.Names)
				results[i].RunID = run.ID
				results[i].Cached = true
				continue
			case err != nil && !errors.Is(err, store.ErrNotFound):
				return nil, &LoadError{Code: ErrCodeDatabase, Message: err.Error(), Path: f.Path}
			}
		}
		pending = append(pending, i)
	}

	var solveOpts []unify.Option
	if opts.MaxSteps > 0 {
		solveOpts = append(solveOpts, unify.WithMaxSteps(opts.MaxSteps))
	}

	if opts.Trace {
		// Traced solves run one at a time so each trace stays whole.
		for _, i := range pending {
			var steps []unify.Step
			var n int
			tracer := unify.WithTracer(func(s unify.Step) { steps = append(steps, s) })
			subst, err := unify.Solve(files[i].Constraints, append(solveOpts, tracer, unify.WithStepCount(&n))...)
			fillResult(&results[i], subst, err, n, files[i].Names)
			for _, s := range steps {
				results[i].Trace = append(results[i].Trace, harness.FormatStep(s, files[i].Names))
			}
		}
	} else if len(pending) > 0 {
		sets := make([][]types.Constraint, len(pending))
		for j, i := range pending {
			sets[j] = files[i].Constraints
		}
		outcomes := unify.SolveAll(ctx, sets, opts.Workers, solveOpts...)
		for j, i := range pending {
			if errors.Is(outcomes[j].Err, context.Canceled) || errors.Is(outcomes[j].Err, context.DeadlineExceeded) {
				return nil, outcomes[j].Err
			}
			fillResult(&results[i], outcomes[j].Substitution, outcomes[j].Err, outcomes[j].Steps, files[i].Names)
		}
	}

	if st != nil {
		for _, i := range pending {
			if err := recordRun(ctx, st, files[i], &results[i], logger); err != nil {
				return nil, &LoadError{Code: ErrCodeDatabase, Message: err.Error(), Path: files[i].Path}
			}
		}
	}

	return results, nil
}

// fillResult copies a solver outcome into r.
func fillResult(r *SolveResult, subst types.Substitution, err error, steps int, names *syntax.Names) {
	r.Steps = steps
	r.Bindings = []BindingView{}
	r.subst = subst
	r.solveErr = err
	if err != nil {
		r.Solvable = false
		r.Failure = failureView(err)
		return
	}
	r.Solvable = true
	r.Failure = nil
	for _, b := range subst.Bindings() {
		r.Bindings = append(r.Bindings, BindingView{
			Var:  syntax.VarName(b.Var, names),
			Type: syntax.Format(b.Type, names),
		})
	}
}

func failureView(err error) *FailureView {
	var ue *unify.Error
	if errors.As(err, &ue) {
		return &FailureView{Code: string(ue.Code), Message: ue.Message, Label: ue.Label}
	}
	return &FailureView{Code: ErrCodeGeneric, Message: err.Error()}
}

// recordRun stores the outcome in r and sets r.RunID.
func recordRun(ctx context.Context, st *store.Store, f *ConstraintFile, r *SolveResult, logger *slog.Logger) error {
	run, err := store.NewRun(f.Constraints, r.subst, r.solveErr, r.Steps)
	if err != nil {
		return err
	}
	run, err = st.WriteRun(ctx, run)
	if err != nil {
		return err
	}
	r.RunID = run.ID
	logger.Debug("run recorded", "run", run.ID, "file", f.Path, "solvable", run.Solvable)
	return nil
}

func renderSolveResults(f *OutputFormatter, results []SolveResult) error {
	var data any = results
	if len(results) == 1 {
		data = results[0]
	}
	return f.Render(data, func(w io.Writer) {
		for _, r := range results {
			writeSolveResult(w, r)
		}
	})
}

func writeSolveResult(w io.Writer, r SolveResult) {
	meta := fmt.Sprintf("%d steps", r.Steps)
	if r.Cached {
		meta += ", cached"
	}
	if r.RunID != "" {
		meta += ", run " + r.RunID
	}

	for _, line := range r.Trace {
		fmt.Fprintf(w, "  | %s\n", line)
	}

	if !r.Solvable {
		msg := r.Failure.Code + ": " + r.Failure.Message
		if r.Failure.Label != "" {
			msg += " (at " + r.Failure.Label + ")"
		}
		fmt.Fprintf(w, "%s: unsolvable [%s]\n  %s\n", r.File, meta, msg)
		return
	}
	fmt.Fprintf(w, "%s: solvable [%s]\n", r.File, meta)
	for _, b := range r.Bindings {
		fmt.Fprintf(w, "  %s := %s\n", b.Var, b.Type)
	}
}

// watchAndSolve solves path, then again after every change, until ctx is
// cancelled or the process receives SIGINT/SIGTERM.
func watchAndSolve(ctx context.Context, opts *SolveOptions, st *store.Store, path string, f *OutputFormatter, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, stopping watch", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	solveOnce := func() {
		results, err := solveFiles(ctx, opts, st, []string{path}, logger)
		if err != nil {
			_ = f.Error(loadErrorCode(err), err.Error(), nil)
			return
		}
		_ = renderSolveResults(f, results)
	}

	solveOnce()
	logger.Info("watching for changes", "file", path)
	if err := watchFile(ctx, path, watchDebounce, solveOnce); err != nil {
		return WrapExitError(ExitCommandError, "watch failed", err)
	}
	return nil
}
