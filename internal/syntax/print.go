package syntax

import (
	"fmt"
	"strings"

	"github.com/roach88/tyunify/internal/types"
)

// Format prints t in the syntax accepted by Parse. Variables print by name
// when names knows them, otherwise as ?N. names may be nil.
func Format(t types.Type, names *Names) string {
	var b strings.Builder
	format(&b, t, names)
	return b.String()
}

func format(b *strings.Builder, t types.Type, names *Names) {
	switch x := t.(type) {
	case types.Var:
		b.WriteString(VarName(x.ID, names))
	case types.Bool:
		b.WriteString("bool")
	case types.Nat:
		b.WriteString("nat")
	case *types.Arr:
		if _, nested := x.From.(*types.Arr); nested {
			b.WriteByte('(')
			format(b, x.From, names)
			b.WriteByte(')')
		} else {
			format(b, x.From, names)
		}
		b.WriteString(" -> ")
		format(b, x.To, names)
	default:
		fmt.Fprintf(b, "<%v>", t)
	}
}

// VarName returns the display name of variable id.
func VarName(id uint32, names *Names) string {
	if names != nil {
		if name, ok := names.Name(id); ok {
			return name
		}
	}
	return fmt.Sprintf("?%d", id)
}

// FormatSubstitution prints one "name := type" line per binding, ordered by
// variable id. The empty substitution prints as "".
func FormatSubstitution(s types.Substitution, names *Names) string {
	var b strings.Builder
	for _, binding := range s.Bindings() {
		b.WriteString(VarName(binding.Var, names))
		b.WriteString(" := ")
		format(&b, binding.Type, names)
		b.WriteByte('\n')
	}
	return b.String()
}

// FormatConstraint prints "left = right".
func FormatConstraint(c types.Constraint, names *Names) string {
	return Format(c.Left, names) + " = " + Format(c.Right, names)
}
