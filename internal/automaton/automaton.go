// Package automaton builds Thompson automata from pattern trees and
// derives the minimal DFA view used for display and code generation.
package automaton

import (
	"fmt"
	"strconv"
	"strings"

	"reginald/internal/syntax"
)

type LabelKind uint8

const (
	Epsilon LabelKind = iota
	RuneLabel
	ClassLabel
	AssertLabel
)

// Label says what a transition consumes. Epsilon and assertion labels
// consume nothing.
type Label struct {
	Kind   LabelKind
	Rune   rune
	Class  *syntax.CharClass
	Text   string // display text for class labels
	Assert syntax.Anchor
}

// Consumes reports whether the transition reads one rune of input.
func (l Label) Consumes() bool { return l.Kind == RuneLabel || l.Kind == ClassLabel }

// Matches reports whether a consuming label accepts r.
func (l Label) Matches(r rune) bool {
	switch l.Kind {
	case RuneLabel:
		return l.Rune == r
	case ClassLabel:
		return l.Class.Contains(r)
	}
	return false
}

func (l Label) String() string {
	switch l.Kind {
	case Epsilon:
		return "ε"
	case RuneLabel:
		q := strconv.QuoteRune(l.Rune)
		return q[1 : len(q)-1]
	case ClassLabel:
		if l.Text != "" {
			return l.Text
		}
		return l.Class.String()
	case AssertLabel:
		return l.Assert.String()
	}
	panic(fmt.Sprintf("unreachable: label kind %d", l.Kind))
}

type Transition struct {
	Label  Label
	Target int
}

// State is one node of the automaton. Save is the capture slot written
// when a thread enters the state (2*g on group entry, 2*g+1 on exit),
// or -1.
type State struct {
	ID          int
	Accepting   bool
	Save        int
	Transitions []Transition
}

// String renders the state on one line, e.g. "3 save=0: a->4 ε->6".
func (s State) String() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(s.ID))
	if s.Save >= 0 {
		fmt.Fprintf(&b, " save=%d", s.Save)
	}
	if s.Accepting {
		b.WriteString(" accept")
	}
	b.WriteByte(':')
	for _, t := range s.Transitions {
		fmt.Fprintf(&b, " %s->%d", t.Label, t.Target)
	}
	return b.String()
}

// Automaton is an arena of states addressed by dense ids. It is never
// modified after Build returns.
type Automaton struct {
	Pattern   string
	States    []State
	Start     int
	Accept    int
	NumGroups int
	Names     []string
}

func (a *Automaton) Len() int { return len(a.States) }

// State returns the state with the given id.
func (a *Automaton) State(id int) *State {
	if id < 0 || id >= len(a.States) {
		panic(fmt.Sprintf("unreachable: automaton has no state %d", id))
	}
	return &a.States[id]
}

// HasAssertions reports whether any transition is an anchor.
func (a *Automaton) HasAssertions() bool {
	for _, s := range a.States {
		for _, t := range s.Transitions {
			if t.Label.Kind == AssertLabel {
				return true
			}
		}
	}
	return false
}
