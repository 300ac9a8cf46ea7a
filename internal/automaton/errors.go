package automaton

import (
	"errors"
	"fmt"
)

type ErrorKind uint8

const (
	InvertedBounds ErrorKind = iota // {m,n} with m > n
	RepeatTooLarge                  // bound above Config.MaxRepeat
	TooManyStates                   // automaton above Config.MaxStates
)

func (k ErrorKind) String() string {
	switch k {
	case InvertedBounds:
		return "inverted repetition bounds"
	case RepeatTooLarge:
		return "repetition count too large"
	case TooManyStates:
		return "too many automaton states"
	}
	return "unknown"
}

// CompileError reports a well-formed pattern that exceeds a safety bound.
type CompileError struct {
	Pattern string
	Offset  int
	Kind    ErrorKind
	Detail  string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile error at offset %d in %q: %s: %s", e.Offset, e.Pattern, e.Kind, e.Detail)
}

var (
	ErrAssertions       = errors.New("automaton: DFA view does not support anchors")
	ErrTooManyDFAStates = errors.New("automaton: DFA state limit exceeded")
)
