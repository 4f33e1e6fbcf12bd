package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/lestrrat-go/strftime"
	"github.com/spf13/cobra"

	"github.com/roach88/tyunify/internal/store"
	"github.com/roach88/tyunify/internal/syntax"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database   string
	Limit      int
	TimeFormat string
}

// RunView is a stored run as printed by history.
type RunView struct {
	ID            string        `json:"id"`
	Hash          string        `json:"constraint_hash"`
	Solvable      bool          `json:"solvable"`
	Steps         int           `json:"steps"`
	EngineVersion string        `json:"engine_version"`
	CreatedAt     string        `json:"created_at"`
	Failure       *FailureView  `json:"failure,omitempty"`
	Constraints   []string      `json:"constraints,omitempty"`
	Bindings      []BindingView `json:"bindings,omitempty"`
}

// HistoryResult is the output of history without a run id.
type HistoryResult struct {
	Runs  []RunView `json:"runs"`
	Total int       `json:"total"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List solver runs recorded in a database",
		Long: `List the runs recorded by "solve --db", newest first, or show one run
in full (its constraints and unifier) when a run id is given.

Timestamps are printed with a strftime pattern (--time-format).

Examples:
  tyunify history --db runs.db
  tyunify history --db runs.db --limit 5 --time-format "%H:%M:%S"
  tyunify history --db runs.db 0192f5c4-...`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "run database (required)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of runs to list")
	cmd.Flags().StringVar(&opts.TimeFormat, "time-format", "%Y-%m-%d %H:%M:%S", "strftime pattern for timestamps")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, args []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := opts.logger()

	if opts.Limit <= 0 {
		return NewExitError(ExitCommandError, "--limit must be positive")
	}
	timeFmt, err := strftime.New(opts.TimeFormat)
	if err != nil {
		_ = formatter.Error(ErrCodeBadArguments, fmt.Sprintf("invalid --time-format: %v", err), nil)
		return WrapExitError(ExitCommandError, "invalid time format", err)
	}

	st, err := openStore(opts.Database, logger)
	if err != nil {
		_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	ctx := cmd.Context()
	stamp := func(t time.Time) string { return timeFmt.FormatString(t) }

	if len(args) == 1 {
		run, err := st.ReadRun(ctx, args[0])
		if errors.Is(err, store.ErrNotFound) {
			_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("run %s not found", args[0]), nil)
			return WrapExitError(ExitFailure, "run not found", err)
		}
		if err != nil {
			_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to read run", err)
		}
		view := detailedRunView(run, stamp)
		return formatter.Render(view, func(w io.Writer) { writeRunDetail(w, view) })
	}

	runs, err := st.ListRuns(ctx, opts.Limit)
	if err != nil {
		_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}
	total, err := st.CountRuns(ctx)
	if err != nil {
		_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to count runs", err)
	}

	result := HistoryResult{Runs: make([]RunView, 0, len(runs)), Total: total}
	for _, run := range runs {
		result.Runs = append(result.Runs, summaryRunView(run, stamp))
	}
	return formatter.Render(result, func(w io.Writer) { writeRunList(w, result) })
}

func summaryRunView(run store.Run, stamp func(time.Time) string) RunView {
	view := RunView{
		ID:            run.ID,
		Hash:          run.ConstraintHash,
		Solvable:      run.Solvable,
		Steps:         run.Steps,
		EngineVersion: run.EngineVersion,
		CreatedAt:     stamp(run.CreatedAt),
	}
	if !run.Solvable {
		view.Failure = &FailureView{Code: run.FailureCode, Message: run.FailureMessage, Label: run.FailureLabel}
	}
	return view
}

// detailedRunView adds constraints and bindings. Stored runs carry no
// variable names, so variables print as ?N.
func detailedRunView(run store.Run, stamp func(time.Time) string) RunView {
	view := summaryRunView(run, stamp)
	view.Constraints = make([]string, 0, len(run.Constraints))
	for _, c := range run.Constraints {
		line := syntax.FormatConstraint(c, nil)
		if c.Label != "" {
			line += " [" + c.Label + "]"
		}
		view.Constraints = append(view.Constraints, line)
	}
	if run.Solvable {
		view.Bindings = []BindingView{}
		for _, b := range run.Substitution.Bindings() {
			view.Bindings = append(view.Bindings, BindingView{
				Var:  syntax.VarName(b.Var, nil),
				Type: syntax.Format(b.Type, nil),
			})
		}
	}
	return view
}

func writeRunList(w io.Writer, result HistoryResult) {
	if len(result.Runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}
	for _, r := range result.Runs {
		outcome := "solvable"
		if !r.Solvable {
			outcome = r.Failure.Code
		}
		fmt.Fprintf(w, "%s  %s  %-12s %4d steps  %s\n", r.CreatedAt, r.ID, outcome, r.Steps, shortHash(r.Hash))
	}
	fmt.Fprintf(w, "\nShowing %d of %d runs\n", len(result.Runs), result.Total)
}

func writeRunDetail(w io.Writer, r RunView) {
	fmt.Fprintf(w, "Run:      %s\n", r.ID)
	fmt.Fprintf(w, "Created:  %s\n", r.CreatedAt)
	fmt.Fprintf(w, "Engine:   %s\n", r.EngineVersion)
	fmt.Fprintf(w, "Hash:     %s\n", r.Hash)
	fmt.Fprintf(w, "Steps:    %d\n", r.Steps)
	fmt.Fprintln(w, "Constraints:")
	for _, c := range r.Constraints {
		fmt.Fprintf(w, "  %s\n", c)
	}
	if !r.Solvable {
		msg := r.Failure.Code + ": " + r.Failure.Message
		if r.Failure.Label != "" {
			msg += " (at " + r.Failure.Label + ")"
		}
		fmt.Fprintf(w, "Result:   unsolvable\n  %s\n", msg)
		return
	}
	fmt.Fprintln(w, "Result:   solvable")
	for _, b := range r.Bindings {
		fmt.Fprintf(w, "  %s := %s\n", b.Var, b.Type)
	}
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
