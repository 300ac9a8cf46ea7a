// Package syntax parses regular expression patterns into a Tree.
package syntax

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
)

type parser struct {
	lex    *lexer
	look   token
	flags  Flags
	groups int
	names  []string
}

// Parse parses pattern into a tree. Errors are always *Error.
func Parse(pattern string, flags Flags) (*Tree, error) {
	p := &parser{lex: newLexer(pattern), flags: flags}
	root, err := p.parse()
	if err != nil {
		var se *Error
		if errors.As(err, &se) {
			se.Pattern = pattern
		}
		return nil, err
	}
	return &Tree{
		Pattern:   pattern,
		Root:      root,
		Flags:     flags,
		NumGroups: p.groups,
		Names:     p.names,
	}, nil
}

func (p *parser) scan() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.look = tok
	return nil
}

func (p *parser) parse() (*Node, error) {
	if err := p.scan(); err != nil {
		return nil, err
	}
	root, err := p.parseAlternation()
	if err != nil {
		return nil, err
	}
	switch p.look.typ {
	case tEOF:
		return root, nil
	case tRParen:
		return nil, errorf(p.look.pos, "unmatched ')'")
	}
	return nil, errorf(p.look.pos, "unexpected %q", p.look.ch)
}

// alternation := concat ('|' concat)*
func (p *parser) parseAlternation() (*Node, error) {
	pos := p.look.pos
	first, err := p.parseConcat()
	if err != nil {
		return nil, err
	}
	subs := []*Node{first}
	for p.look.typ == tUnion {
		if err := p.scan(); err != nil {
			return nil, err
		}
		n, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		subs = append(subs, n)
	}
	if len(subs) == 1 {
		return first, nil
	}
	return &Node{Op: OpAlternate, Pos: pos, Subs: subs}, nil
}

// concat := repeat*
func (p *parser) parseConcat() (*Node, error) {
	pos := p.look.pos
	var subs []*Node
loop:
	for {
		switch p.look.typ {
		case tEOF, tUnion, tRParen:
			break loop
		}
		n, err := p.parseRepeat()
		if err != nil {
			return nil, err
		}
		subs = append(subs, n)
	}
	switch len(subs) {
	case 0:
		return &Node{Op: OpEmpty, Pos: pos}, nil
	case 1:
		return subs[0], nil
	}
	return &Node{Op: OpConcat, Pos: pos, Subs: subs}, nil
}

func isQuantifier(t tokenType) bool {
	switch t {
	case tStar, tPlus, tQMark, tLBrace:
		return true
	}
	return false
}

// repeat := atom (quantifier '?'?)?
func (p *parser) parseRepeat() (*Node, error) {
	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if !isQuantifier(p.look.typ) {
		return atom, nil
	}
	qpos := p.look.pos
	min, max, err := p.parseQuantifier()
	if err != nil {
		return nil, err
	}
	greedy := true
	if p.look.typ == tQMark {
		greedy = false
		if err := p.scan(); err != nil {
			return nil, err
		}
	}
	if isQuantifier(p.look.typ) {
		return nil, errorf(p.look.pos, "invalid nested repetition operator %q", p.look.ch)
	}
	return &Node{Op: OpRepeat, Pos: qpos, Sub: atom, Min: min, Max: max, Greedy: greedy}, nil
}

func (p *parser) parseQuantifier() (min, max int, err error) {
	switch p.look.typ {
	case tStar:
		min, max = 0, -1
	case tPlus:
		min, max = 1, -1
	case tQMark:
		min, max = 0, 1
	case tLBrace:
		return p.parseBounds()
	}
	return min, max, p.scan()
}

// parseBounds reads {n}, {n,}, {n,m} and {,m}. Inverted or oversized
// bounds are left to the automaton builder.
func (p *parser) parseBounds() (int, int, error) {
	open := p.look.pos
	if err := p.scan(); err != nil {
		return 0, 0, err
	}
	lo, hasLo, err := p.number(open)
	if err != nil {
		return 0, 0, err
	}
	min, max := lo, lo
	if p.look.typ == tComma {
		if err := p.scan(); err != nil {
			return 0, 0, err
		}
		hi, hasHi, err := p.number(open)
		if err != nil {
			return 0, 0, err
		}
		switch {
		case !hasLo && !hasHi:
			return 0, 0, errorf(open, "invalid repetition bounds: no count given")
		case !hasHi:
			max = -1
		default:
			max = hi
		}
	} else if !hasLo {
		return 0, 0, errorf(open, "invalid repetition bounds: expected a count")
	}
	if p.look.typ != tRBrace {
		return 0, 0, errorf(open, "invalid repetition bounds: missing '}'")
	}
	return min, max, p.scan()
}

func (p *parser) number(open int) (int, bool, error) {
	var digits strings.Builder
	for p.look.typ == tChar && p.look.ch >= '0' && p.look.ch <= '9' {
		digits.WriteRune(p.look.ch)
		if err := p.scan(); err != nil {
			return 0, false, err
		}
	}
	if digits.Len() == 0 {
		return 0, false, nil
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0, false, errorf(open, "repetition count %s out of range", digits.String())
	}
	return n, true, nil
}

func (p *parser) parseAtom() (*Node, error) {
	tok := p.look
	switch tok.typ {
	case tLBracket:
		return p.parseClass()
	case tLParen:
		return p.parseGroup()
	case tStar, tPlus, tQMark, tLBrace:
		return nil, errorf(tok.pos, "missing argument to repetition operator %q", tok.ch)
	}
	if err := p.scan(); err != nil {
		return nil, err
	}
	switch {
	case tok.literal():
		return p.literal(tok.ch, tok.pos), nil
	case tok.typ == tClass:
		c := tok.class
		if p.flags&CaseInsensitive != 0 {
			c.Fold()
		}
		return &Node{Op: OpClass, Pos: tok.pos, Class: c, Label: tok.label}, nil
	case tok.typ == tDot:
		return &Node{Op: OpAny, Pos: tok.pos}, nil
	case tok.typ == tCaret:
		a := BeginText
		if p.flags&Multiline != 0 {
			a = BeginLine
		}
		return &Node{Op: OpAnchor, Pos: tok.pos, Anchor: a}, nil
	case tok.typ == tDollar:
		a := EndText
		if p.flags&Multiline != 0 {
			a = EndLine
		}
		return &Node{Op: OpAnchor, Pos: tok.pos, Anchor: a}, nil
	}
	return nil, errorf(tok.pos, "unexpected %q", tok.ch)
}

func (p *parser) literal(r rune, pos int) *Node {
	if p.flags&CaseInsensitive != 0 && unicode.SimpleFold(r) != r {
		c := &CharClass{}
		c.AddRune(r)
		c.Fold()
		return &Node{Op: OpClass, Pos: pos, Class: c, Label: c.String()}
	}
	return &Node{Op: OpLiteral, Pos: pos, Rune: r}
}

// parseClass reads a bracket expression. A ']' right after '[' or '[^'
// and a '-' right before ']' are literals.
func (p *parser) parseClass() (*Node, error) {
	open := p.look.pos
	if err := p.scan(); err != nil {
		return nil, err
	}
	c := &CharClass{}
	negate := false
	if p.look.typ == tCaret {
		negate = true
		if err := p.scan(); err != nil {
			return nil, err
		}
	}
	for first := true; ; first = false {
		tok := p.look
		switch {
		case tok.typ == tEOF:
			return nil, errorf(open, "missing closing ]")
		case tok.typ == tRBracket && !first:
			end := tok.pos + 1
			if err := p.scan(); err != nil {
				return nil, err
			}
			if p.flags&CaseInsensitive != 0 {
				c.Fold()
			}
			if negate {
				c = c.Negate()
			}
			return &Node{Op: OpClass, Pos: open, Class: c, Label: p.lex.input[open:end]}, nil
		case tok.typ == tClass:
			c.AddClass(tok.class)
			if err := p.scan(); err != nil {
				return nil, err
			}
			continue
		}
		if err := p.scan(); err != nil {
			return nil, err
		}
		if p.look.typ != tDash {
			c.AddRune(tok.ch)
			continue
		}
		dash := p.look
		if err := p.scan(); err != nil {
			return nil, err
		}
		hi := p.look
		switch hi.typ {
		case tRBracket:
			c.AddRune(tok.ch)
			c.AddRune('-')
			continue
		case tClass, tEOF:
			return nil, errorf(dash.pos, "invalid character class range")
		}
		if hi.ch < tok.ch {
			return nil, errorf(tok.pos, "invalid character class range %c-%c", tok.ch, hi.ch)
		}
		c.AddRange(tok.ch, hi.ch)
		if err := p.scan(); err != nil {
			return nil, err
		}
	}
}

// group := '(' ('?:' | '?P<name>' | '?<name>')? alternation ')'
func (p *parser) parseGroup() (*Node, error) {
	open := p.look.pos
	if err := p.scan(); err != nil {
		return nil, err
	}
	g := &Node{Op: OpGroup, Pos: open, Capture: true}
	if p.look.typ == tQMark {
		if err := p.scan(); err != nil {
			return nil, err
		}
		switch {
		case p.look.typ == tChar && p.look.ch == ':':
			g.Capture = false
			if err := p.scan(); err != nil {
				return nil, err
			}
		case p.look.typ == tChar && (p.look.ch == 'P' || p.look.ch == '<'):
			if p.look.ch == 'P' {
				if err := p.scan(); err != nil {
					return nil, err
				}
				if p.look.typ != tChar || p.look.ch != '<' {
					return nil, errorf(p.look.pos, "invalid named group: expected '<'")
				}
			}
			if err := p.scan(); err != nil {
				return nil, err
			}
			name, err := p.groupName()
			if err != nil {
				return nil, err
			}
			g.Name = name
		default:
			return nil, errorf(p.look.pos, "unknown group flag %q", p.look.ch)
		}
	}
	if g.Capture {
		g.Index = p.groups
		p.groups++
		p.names = append(p.names, g.Name)
	}
	sub, err := p.parseAlternation()
	if err != nil {
		return nil, err
	}
	if p.look.typ != tRParen {
		return nil, errorf(open, "unclosed group: missing ')'")
	}
	g.Sub = sub
	return g, p.scan()
}

func (p *parser) groupName() (string, error) {
	pos := p.look.pos
	var b strings.Builder
	for p.look.typ == tChar && p.look.ch != '>' {
		b.WriteRune(p.look.ch)
		if err := p.scan(); err != nil {
			return "", err
		}
	}
	if p.look.typ != tChar {
		return "", errorf(pos, "unterminated group name")
	}
	name := b.String()
	if !isIdent(name) {
		return "", errorf(pos, "invalid group name %q", name)
	}
	for _, n := range p.names {
		if n == name {
			return "", errorf(pos, "duplicate group name %q", name)
		}
	}
	return name, p.scan()
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}
