// Package graph renders automata as Mermaid flowcharts or Graphviz
// digraphs. Output depends only on the automaton, so repeated renders
// are byte-identical.
package graph

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"reginald/internal/automaton"
)

type Node struct {
	ID        int
	Accepting bool
	Note      string // capture marker, e.g. "open 0"
}

type Edge struct {
	From, To int
	Label    string
}

// Graph is a flattened automaton: nodes ascending by id, edges
// ascending by source and then in insertion order.
type Graph struct {
	Start int
	Nodes []Node
	Edges []Edge
}

// FromNFA flattens a. Epsilon edges are kept and labeled "ε".
func FromNFA(a *automaton.Automaton) *Graph {
	g := &Graph{Start: a.Start}
	for _, s := range a.States {
		n := Node{ID: s.ID, Accepting: s.Accepting}
		if s.Save >= 0 {
			kind := "open"
			if s.Save%2 == 1 {
				kind = "close"
			}
			n.Note = fmt.Sprintf("%s %d", kind, s.Save/2)
		}
		g.Nodes = append(g.Nodes, n)
		for _, t := range s.Transitions {
			g.Edges = append(g.Edges, Edge{From: s.ID, To: t.Target, Label: t.Label.String()})
		}
	}
	return g
}

// FromDFA flattens d, merging parallel atom edges into one class label.
func FromDFA(d *automaton.DFA) *Graph {
	g := &Graph{Start: d.Start}
	for _, s := range d.States {
		g.Nodes = append(g.Nodes, Node{ID: s.ID, Accepting: s.Accepting})
		for _, e := range d.Edges(s.ID) {
			g.Edges = append(g.Edges, Edge{From: s.ID, To: e.Target, Label: e.Label()})
		}
	}
	return g
}

func (g *Graph) nodeText(n Node) string {
	if n.Note == "" {
		return fmt.Sprint(n.ID)
	}
	return fmt.Sprintf("%d %s", n.ID, n.Note)
}

// WriteMermaid writes g as a left-to-right Mermaid flowchart.
func (g *Graph) WriteMermaid(w io.Writer) error {
	ew := &errWriter{w: w}
	ew.printf("flowchart LR\n")
	ew.printf("\tstart([start]) --> %d\n", g.Start)
	i := 0
	for _, n := range g.Nodes {
		text := mermaidText(g.nodeText(n))
		if n.Accepting {
			ew.printf("\t%d(((%s)))\n", n.ID, text)
		} else {
			ew.printf("\t%d((%s))\n", n.ID, text)
		}
		for ; i < len(g.Edges) && g.Edges[i].From == n.ID; i++ {
			e := g.Edges[i]
			ew.printf("\t%d -- %s --> %d\n", e.From, mermaidText(e.Label), e.To)
		}
	}
	return ew.err
}

// Mermaid returns the Mermaid rendering of g.
func (g *Graph) Mermaid() string {
	var buf bytes.Buffer
	_ = g.WriteMermaid(&buf)
	return buf.String()
}

// WriteDOT writes g as a Graphviz digraph.
func (g *Graph) WriteDOT(w io.Writer) error {
	ew := &errWriter{w: w}
	ew.printf("digraph G {\n")
	ew.printf("    rankdir=LR;\n")
	i := 0
	for _, n := range g.Nodes {
		shape := "circle"
		if n.Accepting {
			shape = "doublecircle"
		}
		ew.printf("    q%d [shape=%s, label=%s];\n", n.ID, shape, dotQuote(g.nodeText(n)))
		for ; i < len(g.Edges) && g.Edges[i].From == n.ID; i++ {
			e := g.Edges[i]
			ew.printf("    q%d -> q%d [label=%s];\n", e.From, e.To, dotQuote(e.Label))
		}
	}
	ew.printf("    _start [shape=point]; _start -> q%d;\n", g.Start)
	ew.printf("}\n")
	return ew.err
}

func (g *Graph) DOT() string {
	var buf bytes.Buffer
	_ = g.WriteDOT(&buf)
	return buf.String()
}

var mermaidEscaper = strings.NewReplacer(`"`, "#quot;")

// mermaidText quotes s so that brackets, pipes and the like are not
// read as Mermaid syntax.
func mermaidText(s string) string {
	return `"` + mermaidEscaper.Replace(s) + `"`
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func dotQuote(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
