package automaton

import (
	"fmt"
	"strings"
	"unicode"

	"reginald/internal/syntax"
)

// Binding strength of a rendered sub-pattern.
const (
	precAlt = iota
	precConcat
	precRepeat
	precAtom
)

// expr is a rendered sub-pattern. The zero value is "no path".
type expr struct {
	ok   bool
	src  string
	prec int
}

var empty = expr{ok: true, prec: precAtom}

func (e expr) isEmpty() bool { return e.ok && e.src == "" }

func (e expr) wrap(prec int) string {
	if e.prec < prec {
		return "(?:" + e.src + ")"
	}
	return e.src
}

func alt(x, y expr) expr {
	switch {
	case !x.ok:
		return y
	case !y.ok:
		return x
	case x.src == y.src:
		return x
	case x.isEmpty():
		x, y = y, x
		fallthrough
	case y.isEmpty():
		if x.prec == precRepeat && strings.HasSuffix(x.src, "*") {
			return x
		}
		return expr{ok: true, src: x.wrap(precAtom) + "?", prec: precRepeat}
	}
	return expr{ok: true, src: x.src + "|" + y.src, prec: precAlt}
}

func cat(parts ...expr) expr {
	out := empty
	for _, p := range parts {
		switch {
		case !p.ok:
			return expr{}
		case p.isEmpty():
		case out.isEmpty():
			out = p
		default:
			out = expr{ok: true, src: out.wrap(precConcat) + p.wrap(precConcat), prec: precConcat}
		}
	}
	return out
}

func star(x expr) expr {
	if !x.ok || x.isEmpty() {
		return empty
	}
	return expr{ok: true, src: x.wrap(precAtom) + "*", prec: precRepeat}
}

// Pattern rebuilds a pattern for the language of d by state
// elimination. The result has no capture groups and needs no flags to
// compile back to an equivalent automaton. It reports false when d
// accepts nothing.
func (d *DFA) Pattern() (string, bool) {
	n := len(d.States)
	start, final := n, n+1
	r := make([][]expr, n+2)
	for i := range r {
		r[i] = make([]expr, n+2)
	}
	r[start][d.Start] = empty
	for _, s := range d.States {
		if s.Accepting {
			r[s.ID][final] = empty
		}
		for _, e := range d.Edges(s.ID) {
			r[s.ID][e.Target] = expr{ok: true, src: classPattern(e.Class), prec: precAtom}
		}
	}

	for k := 0; k < n; k++ {
		loop := star(r[k][k])
		for i := 0; i < n+2; i++ {
			if i == k || !r[i][k].ok {
				continue
			}
			for j := 0; j < n+2; j++ {
				if j == k || !r[k][j].ok {
					continue
				}
				r[i][j] = alt(r[i][j], cat(r[i][k], loop, r[k][j]))
			}
		}
		for i := range r {
			r[i][k], r[k][i] = expr{}, expr{}
		}
	}
	res := r[start][final]
	return res.src, res.ok
}

// classPattern renders c in pattern syntax: a bare escaped rune for a
// singleton, otherwise a bracket expression.
func classPattern(c *syntax.CharClass) string {
	rs := c.Ranges
	if len(rs) == 1 && rs[0].Lo == rs[0].Hi {
		return escapePatternRune(rs[0].Lo)
	}
	var b strings.Builder
	b.WriteByte('[')
	if len(rs) > 1 && rs[0].Lo == 0 && rs[len(rs)-1].Hi == unicode.MaxRune {
		b.WriteByte('^')
		rs = c.Negate().Ranges
	}
	for _, r := range rs {
		b.WriteString(escapeClassMember(r.Lo))
		if r.Hi == r.Lo {
			continue
		}
		if r.Hi > r.Lo+1 {
			b.WriteByte('-')
		}
		b.WriteString(escapeClassMember(r.Hi))
	}
	b.WriteByte(']')
	return b.String()
}

func escapePatternRune(r rune) string {
	if strings.ContainsRune(`\.+*?()|[]{}^$`, r) {
		return `\` + string(r)
	}
	return printableOrHex(r)
}

func escapeClassMember(r rune) string {
	if strings.ContainsRune(`\]-[^`, r) {
		return `\` + string(r)
	}
	return printableOrHex(r)
}

func printableOrHex(r rune) string {
	if unicode.IsPrint(r) && r != ' ' {
		return string(r)
	}
	return fmt.Sprintf(`\x{%X}`, r)
}
