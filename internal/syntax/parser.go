package syntax

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/tyunify/internal/types"
)

// Error is a parse error at a byte offset of the input.
type Error struct {
	Offset  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("offset %d: %s", e.Offset, e.Message)
}

// Parse parses a single type expression. Variable names are resolved through
// names, which is updated with any new names.
func Parse(src string, names *Names) (types.Type, error) {
	p := newParser(src, names)
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	switch p.tok.kind {
	case tokEOF:
	case tokIllegal:
		return nil, p.errorf("%s", p.tok.text)
	default:
		return nil, p.errorf("unexpected %s after type", p.tok)
	}
	return t, nil
}

// ParseConstraint parses "left = right". The label is left empty.
func ParseConstraint(src string, names *Names) (types.Constraint, error) {
	idx := strings.IndexByte(src, '=')
	if idx < 0 {
		return types.Constraint{}, &Error{Offset: len(src), Message: "expected '=' between two types"}
	}
	left, err := Parse(src[:idx], names)
	if err != nil {
		return types.Constraint{}, err
	}
	right, err := Parse(src[idx+1:], names)
	if err != nil {
		var pe *Error
		if errors.As(err, &pe) {
			return types.Constraint{}, &Error{Offset: pe.Offset + idx + 1, Message: pe.Message}
		}
		return types.Constraint{}, err
	}
	return types.Eq(left, right), nil
}

type parser struct {
	lex   *lexer
	tok   token
	names *Names
}

func newParser(src string, names *Names) *parser {
	if names == nil {
		names = NewNames(nil)
	}
	p := &parser{lex: &lexer{src: src}, names: names}
	p.next()
	return p
}

func (p *parser) next() {
	p.tok = p.lex.scan()
}

func (p *parser) errorf(format string, args ...any) *Error {
	return &Error{Offset: p.tok.offset, Message: fmt.Sprintf(format, args...)}
}

// parseType parses: atom ("->" type)?
func (p *parser) parseType() (types.Type, error) {
	from, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokArrow {
		return from, nil
	}
	p.next()
	to, err := p.parseType()
	if err != nil {
		return nil, err
	}
	return types.NewArr(from, to), nil
}

// parseAtom parses: "bool" | "nat" | ident | "?" digits | "(" type ")"
func (p *parser) parseAtom() (types.Type, error) {
	switch p.tok.kind {
	case tokIdent:
		name := p.tok.text
		offset := p.tok.offset
		p.next()
		switch name {
		case "bool", "Bool":
			return types.NewBool(), nil
		case "nat", "Nat":
			return types.NewNat(), nil
		}
		t, err := p.names.Var(name)
		if err != nil {
			return nil, &Error{Offset: offset, Message: err.Error()}
		}
		return t, nil

	case tokVarID:
		id, err := strconv.ParseUint(p.tok.text, 10, 32)
		if err != nil {
			return nil, p.errorf("variable id out of range: ?%s", p.tok.text)
		}
		offset := p.tok.offset
		p.next()
		t, err := p.names.Explicit(uint32(id))
		if err != nil {
			return nil, &Error{Offset: offset, Message: err.Error()}
		}
		return t, nil

	case tokLParen:
		p.next()
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if p.tok.kind != tokRParen {
			return nil, p.errorf("expected ')', found %s", p.tok)
		}
		p.next()
		return t, nil

	case tokIllegal:
		return nil, p.errorf("%s", p.tok.text)

	default:
		return nil, p.errorf("expected type, found %s", p.tok)
	}
}
