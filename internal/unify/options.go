package unify

import "github.com/roach88/tyunify/internal/types"

// StepAction is what the solver did with one worklist pair.
type StepAction string

const (
	// ActionDiscard means the pair was already equal.
	ActionDiscard StepAction = "discard"
	// ActionBind means a variable was bound.
	ActionBind StepAction = "bind"
	// ActionDecompose means two arrows were split into domain and codomain pairs.
	ActionDecompose StepAction = "decompose"
	// ActionFail means the pair has no unifier; solving stops.
	ActionFail StepAction = "fail"
)

// Step records one worklist pop for tracing.
type Step struct {
	Seq    int64      // 1-based pop counter
	Action StepAction
	Left   types.Type // Normalized left side (the variable for ActionBind)
	Right  types.Type // Normalized right side (the bound type for ActionBind)
	Var    uint32     // Bound variable (ActionBind only)
	Label  string     // Label of the originating constraint
}

// Option configures Solve.
type Option func(*config)

type config struct {
	maxSteps  int
	tracer    func(Step)
	stepCount *int
}

// WithMaxSteps bounds the number of worklist pops. Zero means unlimited.
//
// Unification always terminates on finite input; the bound exists for callers
// that need predictable latency on untrusted constraint sets.
func WithMaxSteps(n int) Option {
	return func(c *config) {
		c.maxSteps = n
	}
}

// WithTracer calls fn once per worklist pop, in order.
func WithTracer(fn func(Step)) Option {
	return func(c *config) {
		c.tracer = fn
	}
}

// WithStepCount stores the number of worklist pops in *n when Solve
// returns, whether it succeeds or fails.
func WithStepCount(n *int) Option {
	return func(c *config) {
		c.stepCount = n
	}
}

func newConfig(opts []Option) config {
	var c config
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (c *config) trace(s Step) {
	if c.tracer != nil {
		c.tracer(s)
	}
}
