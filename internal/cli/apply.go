package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/tyunify/internal/syntax"
	"github.com/roach88/tyunify/internal/types"
	"github.com/roach88/tyunify/internal/unify"
)

// ApplyOptions holds flags for the apply command.
type ApplyOptions struct {
	*RootOptions
	Raw bool
}

// ApplyResult is the output of the apply command.
type ApplyResult struct {
	Input  string `json:"input"`
	Result string `json:"result"`
	Raw    string `json:"raw"`
}

// NewApplyCommand creates the apply command.
func NewApplyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ApplyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "apply <type> [name=type]...",
		Short: "Apply a substitution to a type",
		Long: `Replace the variables of a type expression by their bindings.

Each binding is applied once, in a single pass: a bound type is not itself
rewritten by the other bindings.

Examples:
  tyunify apply 'a -> b' 'a=nat' 'b=bool'
  tyunify apply --raw '?0 -> ?0' '?0=nat -> nat'`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Raw, "raw", false, "print the constructor form, e.g. Arr(Var(0), Nat)")

	return cmd
}

func runApply(opts *ApplyOptions, args []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	names := syntax.NewNames(nil)
	t, err := syntax.Parse(args[0], names)
	if err != nil {
		_ = formatter.Error(ErrCodeInvalidType, fmt.Sprintf("type %q: %v", args[0], err), nil)
		return WrapExitError(ExitCommandError, "invalid type", err)
	}

	subst, err := parseBindings(args[1:], names)
	if err != nil {
		_ = formatter.Error(ErrCodeBadArguments, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid binding", err)
	}
	opts.logger().Debug("applying substitution", "bindings", len(subst))

	out := unify.Apply(t, subst)
	result := ApplyResult{
		Input:  syntax.Format(t, names),
		Result: syntax.Format(out, names),
		Raw:    out.String(),
	}
	return formatter.Render(result, func(w io.Writer) {
		if opts.Raw {
			fmt.Fprintln(w, result.Raw)
			return
		}
		fmt.Fprintln(w, result.Result)
	})
}

// parseBindings parses "name=type" arguments into a substitution. The left
// side must be a single variable and may be bound only once.
func parseBindings(args []string, names *syntax.Names) (types.Substitution, error) {
	subst := types.Substitution{}
	for _, arg := range args {
		lhs, rhs, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("binding %q: expected name=type", arg)
		}
		v, err := syntax.Parse(lhs, names)
		if err != nil {
			return nil, fmt.Errorf("binding %q: %w", arg, err)
		}
		bound, ok := v.(types.Var)
		if !ok {
			return nil, fmt.Errorf("binding %q: left side must be a variable", arg)
		}
		t, err := syntax.Parse(rhs, names)
		if err != nil {
			return nil, fmt.Errorf("binding %q: %w", arg, err)
		}
		if _, dup := subst[bound.ID]; dup {
			return nil, fmt.Errorf("binding %q: %s is already bound", arg, syntax.VarName(bound.ID, names))
		}
		subst[bound.ID] = t
	}
	return subst, nil
}
