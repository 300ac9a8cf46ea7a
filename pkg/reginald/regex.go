// Package reginald compiles regular expressions into Thompson automata
// and matches them without backtracking.
//
//	re, err := reginald.Compile(`(foo|bar)baz`)
//	m, ok := re.FindFirst("xxfoobazyy") // {Start: 2, Length: 6}, group 0 = {2, 3}
//
// A compiled Regex is immutable and may be used from many goroutines.
package reginald

import (
	"bytes"
	"fmt"
	"io"
	"iter"
	"strings"
	"sync"

	"reginald/internal/automaton"
	"reginald/internal/codegen"
	"reginald/internal/graph"
	"reginald/internal/match"
	"reginald/internal/replace"
	"reginald/internal/syntax"
)

type (
	// SyntaxError reports a malformed pattern.
	SyntaxError = syntax.Error
	// CompileError reports a pattern that exceeds a safety bound.
	CompileError = automaton.CompileError

	Match = match.Match
	Span  = match.Span
)

type Regex struct {
	pattern string
	opts    Options
	auto    *automaton.Automaton
	matcher *match.Matcher

	dfaOnce sync.Once
	dfa     *automaton.DFA
	dfaErr  error
}

// Compile parses pattern and builds its automaton. It fails with a
// *SyntaxError or a *CompileError.
func Compile(pattern string, opts ...Option) (*Regex, error) {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	return CompileWith(pattern, o)
}

func CompileWith(pattern string, o Options) (*Regex, error) {
	tree, err := syntax.Parse(pattern, o.flags())
	if err != nil {
		o.Logger.Debugf("parse failed: %v", err)
		return nil, err
	}
	o.Logger.Section("Parse")
	o.Logger.Debugf("tree: %s", tree.Root)

	a, err := automaton.Build(tree, automaton.Config{
		MaxRepeat: o.MaxRepeat,
		MaxStates: o.MaxStates,
		Logger:    o.Logger,
	})
	if err != nil {
		return nil, err
	}
	return &Regex{
		pattern: pattern,
		opts:    o,
		auto:    a,
		matcher: match.New(a),
	}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(pattern string, opts ...Option) *Regex {
	re, err := Compile(pattern, opts...)
	if err != nil {
		panic(err)
	}
	return re
}

func (re *Regex) String() string { return re.pattern }

func (re *Regex) NumGroups() int { return re.auto.NumGroups }

// GroupNames returns the name of every group by index; unnamed groups
// have "".
func (re *Regex) GroupNames() []string { return append([]string(nil), re.auto.Names...) }

// Automaton exposes the compiled automaton, read-only.
func (re *Regex) Automaton() *automaton.Automaton { return re.auto }

// Test reports whether text contains a match.
func (re *Regex) Test(text string) bool { return re.matcher.Test(text) }

// FindFirst returns the leftmost match in text.
func (re *Regex) FindFirst(text string) (Match, bool) { return re.matcher.FindFirst(text) }

// FindAt returns the leftmost match starting at or after pos.
func (re *Regex) FindAt(text string, pos int) (Match, bool) { return re.matcher.FindAt(text, pos) }

// FindAll yields the successive non-overlapping matches in text.
func (re *Regex) FindAll(text string) iter.Seq[Match] { return re.matcher.FindAll(text) }

// FindAllSlice collects at most n matches; n < 0 means all of them.
func (re *Regex) FindAllSlice(text string, n int) []Match {
	var out []Match
	if n == 0 {
		return out
	}
	for m := range re.matcher.FindAll(text) {
		out = append(out, m)
		if len(out) == n {
			break
		}
	}
	return out
}

// GraphDescription renders the automaton as a Mermaid flowchart.
func (re *Regex) GraphDescription() string { return graph.FromNFA(re.auto).Mermaid() }

// WriteDOT writes the automaton as a Graphviz digraph.
func (re *Regex) WriteDOT(w io.Writer) error { return graph.FromNFA(re.auto).WriteDOT(w) }

// ReplaceAll substitutes every match with the expansion of tmpl; see
// package replace for the template syntax.
func (re *Regex) ReplaceAll(text, tmpl string) (string, error) {
	t, err := replace.Parse(tmpl)
	if err != nil {
		return "", err
	}
	if err := t.Bind(re.auto.Names); err != nil {
		return "", err
	}
	return replace.ReplaceAll(re.matcher, text, t), nil
}

// ReplaceAllLiteral substitutes every match with repl as is.
func (re *Regex) ReplaceAllLiteral(text, repl string) string {
	return replace.ReplaceAllLiteral(re.matcher, text, repl)
}

// DFA returns the minimal DFA of the pattern, built on first use.
// Patterns with anchors have no DFA view.
func (re *Regex) DFA() (*automaton.DFA, error) {
	re.dfaOnce.Do(func() {
		d, err := automaton.Determinize(re.auto, re.opts.MaxDFAStates)
		if err != nil {
			re.dfaErr = fmt.Errorf("reginald: %q: %w", re.pattern, err)
			return
		}
		re.dfa = automaton.Minimize(d)
		re.opts.Logger.Section("DFA")
		re.opts.Logger.Debugf("subset states: %d, minimal: %d, atoms: %d", len(d.States), len(re.dfa.States), len(d.Atoms))
	})
	return re.dfa, re.dfaErr
}

// Rewrite returns a capture-free pattern rebuilt from the minimal DFA,
// matching the same whole strings as re.
func (re *Regex) Rewrite() (string, error) {
	d, err := re.DFA()
	if err != nil {
		return "", err
	}
	src, ok := d.Pattern()
	if !ok {
		return "", fmt.Errorf("reginald: %q matches nothing", re.pattern)
	}
	return src, nil
}

// Equivalent reports whether x and y match exactly the same whole
// strings. When they differ, witness is a shortest string that only one
// of them matches.
func Equivalent(x, y *Regex) (same bool, witness string, err error) {
	dx, err := x.DFA()
	if err != nil {
		return false, "", err
	}
	dy, err := y.DFA()
	if err != nil {
		return false, "", err
	}
	same, witness = automaton.Equivalent(dx, dy)
	return same, witness, nil
}

// GenerateGo renders a standalone Go matcher for the pattern.
func (re *Regex) GenerateGo(name, pkg string) ([]byte, error) {
	d, err := re.DFA()
	if err != nil {
		return nil, err
	}
	g, err := codegen.New(codegen.Config{Pattern: re.pattern, Name: name, Package: pkg, Logger: re.opts.Logger}, d)
	if err != nil {
		return nil, err
	}
	return g.Generate()
}

// Highlight returns text with every match passed through mark.
func (re *Regex) Highlight(text string, mark func(string) string) string {
	var b strings.Builder
	last := 0
	for m := range re.matcher.FindAll(text) {
		b.WriteString(text[last:m.Start])
		b.WriteString(mark(m.Text(text)))
		last = m.End()
	}
	b.WriteString(text[last:])
	return b.String()
}

// Describe lists the matches of text one per line with their groups,
// in the form used by the CLI and playground scripts.
func (re *Regex) Describe(text string) string {
	var b strings.Builder
	for m := range re.matcher.FindAll(text) {
		b.WriteString(re.DescribeMatch(text, m))
		b.WriteByte('\n')
	}
	return b.String()
}

// DescribeMatch renders one match as `start-end "text" group=...`.
func (re *Regex) DescribeMatch(text string, m Match) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%d-%d %q", m.Start, m.End(), m.Text(text))
	for g := 0; g < re.auto.NumGroups; g++ {
		name := fmt.Sprint(g)
		if n := re.auto.Names[g]; n != "" {
			name = n
		}
		if s, ok := m.Group(g); ok {
			fmt.Fprintf(&buf, " %s=%q", name, s.Text(text))
		} else {
			fmt.Fprintf(&buf, " %s=<nil>", name)
		}
	}
	return buf.String()
}
