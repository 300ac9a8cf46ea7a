// Package match simulates compiled automata over input text.
package match

import (
	"iter"
	"sync"
	"unicode/utf8"

	"reginald/internal/automaton"
)

// Span is a half-open byte range of the input.
type Span struct {
	Start  int
	Length int
}

func (s Span) End() int { return s.Start + s.Length }

// Text returns the part of text covered by s.
func (s Span) Text(text string) string { return text[s.Start:s.End()] }

// Match is one match of a pattern. Captures holds the groups that took
// part in the match, keyed by group index.
type Match struct {
	Span
	Captures map[int]Span
}

// Group returns the span of group i, if it participated.
func (m Match) Group(i int) (Span, bool) {
	s, ok := m.Captures[i]
	return s, ok
}

// Matcher runs queries against one automaton. It is safe for
// concurrent use; every call borrows its own Machine.
type Matcher struct {
	a    *automaton.Automaton
	pool sync.Pool
}

func New(a *automaton.Automaton) *Matcher {
	mt := &Matcher{a: a}
	mt.pool.New = func() any { return NewMachine(a) }
	return mt
}

func (mt *Matcher) get() *Machine  { return mt.pool.Get().(*Machine) }
func (mt *Matcher) put(m *Machine) { mt.pool.Put(m) }

// Test reports whether some substring of text matches.
func (mt *Matcher) Test(text string) bool {
	m := mt.get()
	defer mt.put(m)
	_, ok := m.run(text, 0, true)
	return ok
}

// FindFirst returns the leftmost match in text.
func (mt *Matcher) FindFirst(text string) (Match, bool) {
	return mt.FindAt(text, 0)
}

// FindAt returns the leftmost match that starts at or after pos.
func (mt *Matcher) FindAt(text string, pos int) (Match, bool) {
	m := mt.get()
	defer mt.put(m)
	caps, ok := m.run(text, pos, false)
	if !ok {
		return Match{}, false
	}
	return toMatch(caps), true
}

// FindAll yields the non-overlapping matches in text in order.
// After an empty match the search resumes one rune further on. The
// sequence may be ranged over any number of times.
func (mt *Matcher) FindAll(text string) iter.Seq[Match] {
	return func(yield func(Match) bool) {
		m := mt.get()
		defer mt.put(m)
		for pos := 0; pos < len(text) || (pos == 0 && text == ""); {
			caps, ok := m.run(text, pos, false)
			if !ok {
				return
			}
			found := toMatch(caps)
			if !yield(found) {
				return
			}
			pos = found.End()
			if found.Length == 0 {
				pos += advance(text, pos)
			}
		}
	}
}

func advance(text string, pos int) int {
	if pos >= len(text) {
		return 1
	}
	_, w := utf8.DecodeRuneInString(text[pos:])
	return w
}

func toMatch(caps []int) Match {
	m := Match{Span: Span{Start: caps[0], Length: caps[1] - caps[0]}}
	for g := 0; 2*g+3 < len(caps); g++ {
		lo, hi := caps[2*g+2], caps[2*g+3]
		if lo < 0 || hi < 0 {
			continue
		}
		if m.Captures == nil {
			m.Captures = make(map[int]Span)
		}
		m.Captures[g] = Span{Start: lo, Length: hi - lo}
	}
	return m
}
