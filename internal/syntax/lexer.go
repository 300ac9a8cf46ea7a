package syntax

import (
	"strconv"
	"unicode"
	"unicode/utf8"
)

type tokenType int

const (
	tEOF      tokenType = iota
	tChar               // literal rune, escaped or not
	tClass              // \d \w \s and negations
	tDot                // .
	tCaret              // ^
	tDollar             // $
	tLParen             // (
	tRParen             // )
	tStar               // *
	tPlus               // +
	tQMark              // ?
	tUnion              // |
	tLBracket           // [
	tRBracket           // ]
	tDash               // - (only special inside [])
	tLBrace             // {
	tRBrace             // }
	tComma              // , (only special inside {})
)

type token struct {
	typ   tokenType
	ch    rune // source rune; for punctuation tokens this is the literal meaning
	pos   int
	class *CharClass // tClass
	label string     // tClass: source spelling
}

// literal reports whether the token stands for a plain rune when it
// appears where no operator is expected.
func (t token) literal() bool {
	switch t.typ {
	case tChar, tRBracket, tDash, tRBrace, tComma:
		return true
	}
	return false
}

type lexer struct {
	input string
	pos   int
}

func newLexer(s string) *lexer { return &lexer{input: s} }

func (l *lexer) next() (token, error) {
	start := l.pos
	if l.pos >= len(l.input) {
		return token{typ: tEOF, pos: start}, nil
	}
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size
	tok := token{ch: r, pos: start}
	switch r {
	case '.':
		tok.typ = tDot
	case '^':
		tok.typ = tCaret
	case '$':
		tok.typ = tDollar
	case '(':
		tok.typ = tLParen
	case ')':
		tok.typ = tRParen
	case '*':
		tok.typ = tStar
	case '+':
		tok.typ = tPlus
	case '?':
		tok.typ = tQMark
	case '|':
		tok.typ = tUnion
	case '[':
		tok.typ = tLBracket
	case ']':
		tok.typ = tRBracket
	case '-':
		tok.typ = tDash
	case '{':
		tok.typ = tLBrace
	case '}':
		tok.typ = tRBrace
	case ',':
		tok.typ = tComma
	case '\\':
		return l.escape(start)
	default:
		tok.typ = tChar
	}
	return tok, nil
}

func (l *lexer) escape(start int) (token, error) {
	if l.pos >= len(l.input) {
		return token{}, errorf(start, "trailing backslash at end of pattern")
	}
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size
	if c, ok := perlClass(r); ok {
		return token{typ: tClass, ch: r, pos: start, class: c, label: `\` + string(r)}, nil
	}
	tok := token{typ: tChar, pos: start}
	switch r {
	case 'n':
		tok.ch = '\n'
	case 't':
		tok.ch = '\t'
	case 'r':
		tok.ch = '\r'
	case 'f':
		tok.ch = '\f'
	case 'v':
		tok.ch = '\v'
	case '0':
		tok.ch = 0
	case 'x':
		h, err := l.hex(start)
		if err != nil {
			return token{}, err
		}
		tok.ch = h
	default:
		switch {
		case r >= '1' && r <= '9':
			return token{}, errorf(start, "backreference \\%c is not supported", r)
		case r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			return token{}, errorf(start, "invalid escape sequence \\%c", r)
		}
		tok.ch = r
	}
	return tok, nil
}

// hex reads the digits of \xHH or \x{H...}.
func (l *lexer) hex(start int) (rune, error) {
	var digits string
	if l.pos < len(l.input) && l.input[l.pos] == '{' {
		end := l.pos + 1
		for end < len(l.input) && l.input[end] != '}' {
			end++
		}
		if end >= len(l.input) {
			return 0, errorf(start, "unterminated \\x{...} escape")
		}
		digits = l.input[l.pos+1 : end]
		l.pos = end + 1
	} else {
		if l.pos+2 > len(l.input) {
			return 0, errorf(start, "invalid escape sequence \\x: want two hex digits")
		}
		digits = l.input[l.pos : l.pos+2]
		l.pos += 2
	}
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil || digits == "" || v > unicode.MaxRune {
		return 0, errorf(start, "invalid hex escape \\x%s", digits)
	}
	return rune(v), nil
}
