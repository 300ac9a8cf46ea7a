// Package replace expands replacement templates against matches.
//
// Template syntax:
//   - $0 or ${0}: the whole match
//   - $1, $2, ... or ${1}: capture group 0, 1, ... (references count from 1)
//   - $name or ${name}: named capture group
//   - $$: a literal dollar sign
//
// A '$' that starts no reference is copied literally.
package replace

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"reginald/internal/match"
)

type SegmentKind int

const (
	Literal SegmentKind = iota
	WholeMatch
	GroupIndex
	GroupName
)

type Segment struct {
	Kind    SegmentKind
	Literal string
	Group   int // 0-based group for GroupIndex, resolved group for GroupName
	Name    string
}

type Template struct {
	Source   string
	Segments []Segment
}

// Parse splits tmpl into segments. Group names and indices are not
// checked until Bind.
func Parse(tmpl string) (*Template, error) {
	t := &Template{Source: tmpl}
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			t.Segments = append(t.Segments, Segment{Kind: Literal, Literal: lit.String()})
			lit.Reset()
		}
	}
	for i := 0; i < len(tmpl); {
		if tmpl[i] != '$' || i+1 == len(tmpl) {
			lit.WriteByte(tmpl[i])
			i++
			continue
		}
		next := tmpl[i+1]
		var ref string
		switch {
		case next == '$':
			lit.WriteByte('$')
			i += 2
			continue
		case next == '{':
			end := strings.IndexByte(tmpl[i:], '}')
			if end < 0 {
				return nil, fmt.Errorf("replace: at position %d: unclosed ${", i)
			}
			ref = tmpl[i+2 : i+end]
			if ref == "" {
				return nil, fmt.Errorf("replace: at position %d: empty ${}", i)
			}
			if !isNumber(ref) && !isName(ref) {
				return nil, fmt.Errorf("replace: at position %d: invalid reference ${%s}", i, ref)
			}
			i += end + 1
		case next >= '0' && next <= '9':
			j := i + 1
			for j < len(tmpl) && j < i+3 && tmpl[j] >= '0' && tmpl[j] <= '9' {
				j++
			}
			if next == '0' {
				j = i + 2
			}
			ref = tmpl[i+1 : j]
			i = j
		default:
			r, _ := utf8.DecodeRuneInString(tmpl[i+1:])
			if r != '_' && !unicode.IsLetter(r) {
				lit.WriteByte('$')
				i++
				continue
			}
			j := i + 1
			for j < len(tmpl) {
				r, w := utf8.DecodeRuneInString(tmpl[j:])
				if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
					break
				}
				j += w
			}
			ref = tmpl[i+1 : j]
			i = j
		}
		flush()
		t.Segments = append(t.Segments, reference(ref))
	}
	flush()
	return t, nil
}

func reference(ref string) Segment {
	if !isNumber(ref) {
		return Segment{Kind: GroupName, Name: ref}
	}
	n, _ := strconv.Atoi(ref)
	if n == 0 {
		return Segment{Kind: WholeMatch}
	}
	return Segment{Kind: GroupIndex, Group: n - 1}
}

// Bind resolves named references against names and checks that every
// reference is in range.
func (t *Template) Bind(names []string) error {
	for i := range t.Segments {
		s := &t.Segments[i]
		switch s.Kind {
		case GroupIndex:
			if s.Group >= len(names) {
				return fmt.Errorf("replace: $%d refers past the last group (pattern has %d)", s.Group+1, len(names))
			}
		case GroupName:
			g := indexOf(names, s.Name)
			if g < 0 {
				return fmt.Errorf("replace: no group named %q", s.Name)
			}
			s.Group = g
		}
	}
	return nil
}

// Expand appends the template instantiated for m to b. Groups that did
// not take part in the match expand to the empty string.
func (t *Template) Expand(b *strings.Builder, text string, m match.Match) {
	for _, s := range t.Segments {
		switch s.Kind {
		case Literal:
			b.WriteString(s.Literal)
		case WholeMatch:
			b.WriteString(m.Text(text))
		case GroupIndex, GroupName:
			if g, ok := m.Group(s.Group); ok {
				b.WriteString(g.Text(text))
			}
		}
	}
}

// ReplaceAll replaces every match of mt in text with the expanded
// template. t must be bound.
func ReplaceAll(mt *match.Matcher, text string, t *Template) string {
	return replace(mt, text, func(b *strings.Builder, m match.Match) { t.Expand(b, text, m) })
}

// ReplaceAllLiteral replaces every match with repl, uninterpreted.
func ReplaceAllLiteral(mt *match.Matcher, text, repl string) string {
	return replace(mt, text, func(b *strings.Builder, _ match.Match) { b.WriteString(repl) })
}

func replace(mt *match.Matcher, text string, expand func(*strings.Builder, match.Match)) string {
	var b strings.Builder
	last := 0
	for m := range mt.FindAll(text) {
		b.WriteString(text[last:m.Start])
		expand(&b, m)
		last = m.End()
	}
	b.WriteString(text[last:])
	return b.String()
}

func isNumber(s string) bool {
	for _, c := range []byte(s) {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}

func isName(s string) bool {
	for i, r := range s {
		if r != '_' && !unicode.IsLetter(r) && (i == 0 || !unicode.IsDigit(r)) {
			return false
		}
	}
	return s != ""
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}
