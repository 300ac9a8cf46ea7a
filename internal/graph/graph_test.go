package graph

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"reginald/internal/automaton"
	"reginald/internal/syntax"
)

func nfa(t *testing.T, pat string) *automaton.Automaton {
	t.Helper()
	tree, err := syntax.Parse(pat, 0)
	if err != nil {
		t.Fatalf("parse %q: %v", pat, err)
	}
	a, err := automaton.Build(tree, automaton.Config{})
	if err != nil {
		t.Fatalf("build %q: %v", pat, err)
	}
	return a
}

func lines(s ...string) string { return strings.Join(s, "\n") + "\n" }

func TestMermaidNFA(t *testing.T) {
	got := FromNFA(nfa(t, "ab")).Mermaid()
	want := lines(
		"flowchart LR",
		"\tstart([start]) --> 0",
		`	0(("0"))`,
		`	0 -- "a" --> 1`,
		`	1(("1"))`,
		`	1 -- "ε" --> 2`,
		`	2(("2"))`,
		`	2 -- "b" --> 3`,
		`	3(("3"))`,
		`	3 -- "ε" --> 4`,
		`	4((("4")))`,
	)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mermaid (-want +got):\n%s", diff)
	}
}

func TestMermaidCaptureNotes(t *testing.T) {
	got := FromNFA(nfa(t, "(a)")).Mermaid()
	for _, s := range []string{`0(("0 open 0"))`, `3(("3 close 0"))`, `4((("4")))`} {
		if !strings.Contains(got, s) {
			t.Errorf("missing %q in\n%s", s, got)
		}
	}
}

func TestMermaidEscaping(t *testing.T) {
	got := FromNFA(nfa(t, `"|[x]`)).Mermaid()
	if !strings.Contains(got, `-- "#quot;" -->`) {
		t.Errorf("quote not escaped:\n%s", got)
	}
	if !strings.Contains(got, `-- "[x]" -->`) {
		t.Errorf("class label missing:\n%s", got)
	}
}

func TestDeterministic(t *testing.T) {
	for _, pat := range []string{"(a|b)*abb", `(?P<x>\d+)?z`, "a{2,4}?"} {
		g1 := FromNFA(nfa(t, pat))
		g2 := FromNFA(nfa(t, pat))
		if g1.Mermaid() != g1.Mermaid() || g1.Mermaid() != g2.Mermaid() {
			t.Errorf("%q: mermaid output not stable", pat)
		}
		if g1.DOT() != g2.DOT() {
			t.Errorf("%q: dot output not stable", pat)
		}
	}
}

func TestEdgeOrdering(t *testing.T) {
	g := FromNFA(nfa(t, "a|b*|c"))
	for i := 1; i < len(g.Edges); i++ {
		if g.Edges[i].From < g.Edges[i-1].From {
			t.Fatalf("edges out of order at %d: %+v", i, g.Edges)
		}
	}
	var eps int
	for _, e := range g.Edges {
		if e.Label == "ε" {
			eps++
		}
	}
	if eps == 0 {
		t.Fatal("epsilon edges dropped")
	}
}

func TestDOTMinimalDFA(t *testing.T) {
	d, err := automaton.Determinize(nfa(t, "a[bc]"), 0)
	if err != nil {
		t.Fatal(err)
	}
	got := FromDFA(automaton.Minimize(d)).DOT()
	want := lines(
		"digraph G {",
		"    rankdir=LR;",
		`    q0 [shape=circle, label="0"];`,
		`    q0 -> q1 [label="a"];`,
		`    q1 [shape=circle, label="1"];`,
		`    q1 -> q2 [label="[bc]"];`,
		`    q2 [shape=doublecircle, label="2"];`,
		"    _start [shape=point]; _start -> q0;",
		"}",
	)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("dot (-want +got):\n%s", diff)
	}
}

func TestDOTQuoting(t *testing.T) {
	got := FromNFA(nfa(t, `\\"`)).DOT()
	if !strings.Contains(got, `[label="\\\\"]`) || !strings.Contains(got, `[label="\""]`) {
		t.Errorf("labels not escaped:\n%s", got)
	}
}
