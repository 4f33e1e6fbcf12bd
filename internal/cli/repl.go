package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/roach88/tyunify/internal/syntax"
	"github.com/roach88/tyunify/internal/types"
	"github.com/roach88/tyunify/internal/unify"
)

const replHelp = `Enter a constraint "type = type" to add it to the session, or a command:
  :show           list constraints and the current unifier
  :apply <type>   apply the current unifier to a type
  :reset          forget all constraints and names
  :help           show this help
  :quit, :q       leave
Types: bool, nat, names (a, f, ...), ?N for explicit variables, t -> t.`

// ReplOptions holds flags for the repl command.
type ReplOptions struct {
	*RootOptions
	HistoryFile string
	MaxSteps    int
}

// NewReplCommand creates the repl command.
func NewReplCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Add constraints interactively",
		Long: `Start an interactive session that keeps a growing constraint set and its
most general unifier. A constraint that makes the set unsolvable is
reported and not added.

` + replHelp,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.HistoryFile, "history", defaultHistoryFile(), "readline history file (empty disables)")
	cmd.Flags().IntVar(&opts.MaxSteps, "max-steps", 0, "fail a constraint after this many solver steps (0 = unlimited)")

	return cmd
}

func defaultHistoryFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "tyunify", "repl_history")
}

func runRepl(opts *ReplOptions, cmd *cobra.Command) error {
	logger := opts.logger()

	if opts.HistoryFile != "" {
		if err := os.MkdirAll(filepath.Dir(opts.HistoryFile), 0755); err != nil {
			logger.Warn("history disabled", "error", err)
			opts.HistoryFile = ""
		}
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "tyunify> ",
		HistoryFile:     opts.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       ":quit",
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to start repl", err)
	}
	defer rl.Close()

	session := newReplSession(opts.MaxSteps)
	w := rl.Stdout()
	fmt.Fprintln(w, `Type ":help" for help.`)

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return WrapExitError(ExitCommandError, "read failed", err)
		}
		if session.eval(line, w) {
			return nil
		}
		logger.Debug("repl state", "constraints", len(session.constraints), "bindings", len(session.subst))
	}
}

// replSession holds the accepted constraints and their unifier.
type replSession struct {
	names       *syntax.Names
	constraints []types.Constraint
	subst       types.Substitution
	maxSteps    int
}

func newReplSession(maxSteps int) *replSession {
	return &replSession{
		names:    syntax.NewNames(nil),
		subst:    types.Substitution{},
		maxSteps: maxSteps,
	}
}

// eval handles one input line, writing its output to w. It reports whether
// the session should end.
func (s *replSession) eval(line string, w io.Writer) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	if strings.HasPrefix(line, ":") {
		name, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)
		switch name {
		case ":quit", ":q":
			return true
		case ":help":
			fmt.Fprintln(w, replHelp)
		case ":reset":
			s.names = syntax.NewNames(nil)
			s.constraints = nil
			s.subst = types.Substitution{}
			fmt.Fprintln(w, "cleared")
		case ":show":
			s.show(w)
		case ":apply":
			s.apply(arg, w)
		default:
			fmt.Fprintf(w, "unknown command %s (try :help)\n", name)
		}
		return false
	}

	s.add(line, w)
	return false
}

// add parses a constraint against a copy of the name table and keeps it only
// if the extended set is still solvable. The new constraint is solved under
// the current unifier and the result composed onto it.
func (s *replSession) add(line string, w io.Writer) {
	names := s.names.Clone()
	c, err := syntax.ParseConstraint(line, names)
	if err != nil {
		fmt.Fprintf(w, "Error [%s]: %v\n", ErrCodeInvalidType, err)
		return
	}
	c.Label = fmt.Sprintf("#%d", len(s.constraints)+1)

	var opts []unify.Option
	if s.maxSteps > 0 {
		opts = append(opts, unify.WithMaxSteps(s.maxSteps))
	}
	delta, err := unify.Solve(unify.ApplyAll([]types.Constraint{c}, s.subst), opts...)
	if err != nil {
		fmt.Fprintf(w, "Error [%s]: %s\n", ErrCodeUnsolvable, describeFailure(err, names))
		fmt.Fprintln(w, "constraint not added")
		return
	}

	s.names = names
	s.constraints = append(s.constraints, c)
	s.subst = unify.Compose(s.subst, delta)

	if len(delta) == 0 {
		fmt.Fprintf(w, "%s ok (no new bindings)\n", c.Label)
		return
	}
	fmt.Fprintf(w, "%s ok\n", c.Label)
	for _, b := range delta.Bindings() {
		fmt.Fprintf(w, "  %s := %s\n", syntax.VarName(b.Var, s.names), syntax.Format(unify.Apply(types.NewVar(b.Var), s.subst), s.names))
	}
}

func (s *replSession) show(w io.Writer) {
	if len(s.constraints) == 0 {
		fmt.Fprintln(w, "no constraints")
		return
	}
	fmt.Fprintln(w, "constraints:")
	for _, c := range s.constraints {
		fmt.Fprintf(w, "  %s %s\n", c.Label, syntax.FormatConstraint(c, s.names))
	}
	fmt.Fprintln(w, "unifier:")
	for _, line := range strings.Split(strings.TrimRight(syntax.FormatSubstitution(s.subst, s.names), "\n"), "\n") {
		if line != "" {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
}

// apply prints arg under the current unifier. Names first seen here are not
// kept.
func (s *replSession) apply(arg string, w io.Writer) {
	if arg == "" {
		fmt.Fprintln(w, "usage: :apply <type>")
		return
	}
	names := s.names.Clone()
	t, err := syntax.Parse(arg, names)
	if err != nil {
		fmt.Fprintf(w, "Error [%s]: %v\n", ErrCodeInvalidType, err)
		return
	}
	fmt.Fprintln(w, syntax.Format(unify.Apply(t, s.subst), names))
}

// describeFailure renders a solver error with variable names.
func describeFailure(err error, names *syntax.Names) string {
	var ue *unify.Error
	if !errors.As(err, &ue) {
		return err.Error()
	}
	switch ue.Code {
	case unify.ErrCodeOccursCheck:
		return fmt.Sprintf("%s occurs in %s (infinite type)", syntax.VarName(ue.Var, names), syntax.Format(ue.Right, names))
	case unify.ErrCodeMismatch:
		return fmt.Sprintf("cannot unify %s with %s", syntax.Format(ue.Left, names), syntax.Format(ue.Right, names))
	default:
		return ue.Message
	}
}
