package syntax

import (
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// Range is a closed interval of runes.
type Range struct {
	Lo, Hi rune
}

// CharClass is a set of runes kept as sorted, non-overlapping,
// non-adjacent ranges.
type CharClass struct {
	Ranges []Range
}

func (c *CharClass) AddRune(r rune) { c.AddRange(r, r) }

func (c *CharClass) AddRange(lo, hi rune) {
	c.Ranges = append(c.Ranges, Range{lo, hi})
	c.normalize()
}

func (c *CharClass) AddClass(o *CharClass) {
	c.Ranges = append(c.Ranges, o.Ranges...)
	c.normalize()
}

func (c *CharClass) normalize() {
	if len(c.Ranges) < 2 {
		return
	}
	sort.Slice(c.Ranges, func(i, j int) bool {
		if c.Ranges[i].Lo != c.Ranges[j].Lo {
			return c.Ranges[i].Lo < c.Ranges[j].Lo
		}
		return c.Ranges[i].Hi < c.Ranges[j].Hi
	})
	out := c.Ranges[:1]
	for _, r := range c.Ranges[1:] {
		last := &out[len(out)-1]
		if r.Lo <= last.Hi+1 {
			if r.Hi > last.Hi {
				last.Hi = r.Hi
			}
			continue
		}
		out = append(out, r)
	}
	c.Ranges = out
}

// Negate returns the complement over [0, unicode.MaxRune].
func (c *CharClass) Negate() *CharClass {
	out := &CharClass{}
	next := rune(0)
	for _, r := range c.Ranges {
		if r.Lo > next {
			out.Ranges = append(out.Ranges, Range{next, r.Lo - 1})
		}
		next = r.Hi + 1
	}
	if next <= unicode.MaxRune {
		out.Ranges = append(out.Ranges, Range{next, unicode.MaxRune})
	}
	return out
}

func (c *CharClass) Contains(r rune) bool {
	i := sort.Search(len(c.Ranges), func(i int) bool { return c.Ranges[i].Hi >= r })
	return i < len(c.Ranges) && c.Ranges[i].Lo <= r
}

func (c *CharClass) Empty() bool { return len(c.Ranges) == 0 }

// Clone returns a deep copy.
func (c *CharClass) Clone() *CharClass {
	return &CharClass{Ranges: append([]Range(nil), c.Ranges...)}
}

// foldLimit bounds how many runes of a single range are case-folded
// one by one. Ranges wider than this are kept as they are.
const foldLimit = 1 << 12

// Fold adds the simple case folds of every rune in the class.
func (c *CharClass) Fold() {
	var extra []Range
	for _, r := range c.Ranges {
		if r.Hi-r.Lo > foldLimit {
			continue
		}
		for x := r.Lo; x <= r.Hi; x++ {
			for f := unicode.SimpleFold(x); f != x; f = unicode.SimpleFold(f) {
				extra = append(extra, Range{f, f})
			}
		}
	}
	c.Ranges = append(c.Ranges, extra...)
	c.normalize()
}

// String renders the class in bracket syntax. Classes that contain
// both 0 and MaxRune are rendered negated, which keeps labels short.
func (c *CharClass) String() string {
	if len(c.Ranges) == 1 && c.Ranges[0].Lo == 0 && c.Ranges[0].Hi == unicode.MaxRune {
		return "[^]"
	}
	var b strings.Builder
	b.WriteByte('[')
	rs := c.Ranges
	if len(rs) > 0 && rs[0].Lo == 0 && rs[len(rs)-1].Hi == unicode.MaxRune {
		b.WriteByte('^')
		rs = c.Negate().Ranges
	}
	for _, r := range rs {
		b.WriteString(escapeClassRune(r.Lo))
		if r.Hi == r.Lo {
			continue
		}
		if r.Hi > r.Lo+1 {
			b.WriteByte('-')
		}
		b.WriteString(escapeClassRune(r.Hi))
	}
	b.WriteByte(']')
	return b.String()
}

func escapeClassRune(r rune) string {
	switch r {
	case '\\', ']', '[', '-', '^':
		return `\` + string(r)
	}
	if unicode.IsPrint(r) && r != ' ' {
		return string(r)
	}
	q := strconv.QuoteRune(r)
	return q[1 : len(q)-1]
}

// Predefined escape classes.
var (
	digitClass = &CharClass{Ranges: []Range{{'0', '9'}}}
	wordClass  = &CharClass{Ranges: []Range{{'0', '9'}, {'A', 'Z'}, {'_', '_'}, {'a', 'z'}}}
	spaceClass = &CharClass{Ranges: []Range{{'\t', '\n'}, {'\f', '\r'}, {' ', ' '}}}
)

// perlClass returns the class for \d \w \s and their negations.
func perlClass(r rune) (*CharClass, bool) {
	switch r {
	case 'd':
		return digitClass.Clone(), true
	case 'D':
		return digitClass.Negate(), true
	case 'w':
		return wordClass.Clone(), true
	case 'W':
		return wordClass.Negate(), true
	case 's':
		// \v is included the way most engines do it.
		c := spaceClass.Clone()
		c.AddRune('\v')
		return c, true
	case 'S':
		c := spaceClass.Clone()
		c.AddRune('\v')
		return c.Negate(), true
	}
	return nil, false
}
