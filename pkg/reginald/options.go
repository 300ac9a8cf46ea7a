package reginald

import (
	"reginald/internal/automaton"
	"reginald/internal/logging"
	"reginald/internal/syntax"
)

// Options control how a pattern is compiled. The zero value gives the
// default dialect: '.' stops at '\n', anchors match only at the text
// boundaries, and the builder limits are DefaultMaxRepeat and
// DefaultMaxStates.
type Options struct {
	DotAll          bool
	Multiline       bool
	CaseInsensitive bool
	MaxRepeat       int
	MaxStates       int
	MaxDFAStates    int
	Logger          *logging.Logger
}

type Option func(*Options)

const (
	DefaultMaxRepeat    = automaton.DefaultMaxRepeat
	DefaultMaxStates    = automaton.DefaultMaxStates
	DefaultMaxDFAStates = automaton.DefaultMaxDFAStates
)

// WithDotAll lets '.' match '\n'.
func WithDotAll() Option { return func(o *Options) { o.DotAll = true } }

// WithMultiline makes '^' and '$' match at line boundaries too.
func WithMultiline() Option { return func(o *Options) { o.Multiline = true } }

func WithCaseInsensitive() Option { return func(o *Options) { o.CaseInsensitive = true } }

// WithMaxRepeat sets the largest accepted {m,n} bound.
func WithMaxRepeat(n int) Option { return func(o *Options) { o.MaxRepeat = n } }

// WithMaxStates caps the size of the compiled automaton.
func WithMaxStates(n int) Option { return func(o *Options) { o.MaxStates = n } }

// WithMaxDFAStates caps the subset construction behind Regex.DFA.
func WithMaxDFAStates(n int) Option { return func(o *Options) { o.MaxDFAStates = n } }

// WithLogger enables diagnostics for compilation.
func WithLogger(l *logging.Logger) Option { return func(o *Options) { o.Logger = l } }

func (o Options) flags() syntax.Flags {
	var f syntax.Flags
	if o.DotAll {
		f |= syntax.DotAll
	}
	if o.Multiline {
		f |= syntax.Multiline
	}
	if o.CaseInsensitive {
		f |= syntax.CaseInsensitive
	}
	return f
}
