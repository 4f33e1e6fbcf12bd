package syntax

import "fmt"

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokVarID // ?N, text holds the digits
	tokArrow
	tokLParen
	tokRParen
	tokIllegal // text holds the error message
)

type token struct {
	kind   tokenKind
	text   string
	offset int
}

func (t token) String() string {
	switch t.kind {
	case tokEOF:
		return "end of input"
	case tokIdent:
		return fmt.Sprintf("%q", t.text)
	case tokVarID:
		return "?" + t.text
	case tokArrow:
		return "'->'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	default:
		return t.text
	}
}

type lexer struct {
	src string
	pos int
}

func (l *lexer) scan() token {
	for l.pos < len(l.src) && isSpace(l.src[l.pos]) {
		l.pos++
	}
	start := l.pos
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, offset: start}
	}

	c := l.src[l.pos]
	switch {
	case c == '(':
		l.pos++
		return token{kind: tokLParen, offset: start}
	case c == ')':
		l.pos++
		return token{kind: tokRParen, offset: start}
	case c == '-':
		if l.pos+1 < len(l.src) && l.src[l.pos+1] == '>' {
			l.pos += 2
			return token{kind: tokArrow, offset: start}
		}
		l.pos++
		return token{kind: tokIllegal, text: "expected '->'", offset: start}
	case c == '?':
		l.pos++
		digits := l.pos
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
		if l.pos == digits {
			return token{kind: tokIllegal, text: "expected digits after '?'", offset: start}
		}
		return token{kind: tokVarID, text: l.src[digits:l.pos], offset: start}
	case isIdentStart(c):
		for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
			l.pos++
		}
		return token{kind: tokIdent, text: l.src[start:l.pos], offset: start}
	default:
		l.pos++
		return token{kind: tokIllegal, text: fmt.Sprintf("unexpected character %q", c), offset: start}
	}
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '\''
}
