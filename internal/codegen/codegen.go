// Package codegen emits standalone Go matchers from minimal DFAs.
package codegen

import (
	"bytes"
	"fmt"
	"go/token"

	"github.com/dave/jennifer/jen"

	"reginald/internal/automaton"
	"reginald/internal/logging"
)

type Config struct {
	Pattern string
	Name    string // exported prefix, e.g. "Date" gives DateMatch
	Package string
	Logger  *logging.Logger
}

type Generator struct {
	cfg  Config
	dfa  *automaton.DFA
	file *jen.File
}

func New(cfg Config, d *automaton.DFA) (*Generator, error) {
	if !token.IsIdentifier(cfg.Name) || !token.IsExported(cfg.Name) {
		return nil, fmt.Errorf("codegen: %q is not an exported Go identifier", cfg.Name)
	}
	if cfg.Package == "" {
		cfg.Package = "main"
	}
	if !token.IsIdentifier(cfg.Package) {
		return nil, fmt.Errorf("codegen: %q is not a valid package name", cfg.Package)
	}
	return &Generator{cfg: cfg, dfa: d, file: jen.NewFile(cfg.Package)}, nil
}

// Generate renders the matcher source. The generated <Name>Match
// reports whether the whole input is in the pattern's language.
func (g *Generator) Generate() ([]byte, error) {
	g.cfg.Logger.Section("Codegen")
	g.cfg.Logger.Debugf("pattern: %s, states: %d, atoms: %d", g.cfg.Pattern, len(g.dfa.States), len(g.dfa.Atoms))

	g.file.HeaderComment(fmt.Sprintf("Code generated by reginald from %q. DO NOT EDIT.", g.cfg.Pattern))

	g.file.Commentf("%sPattern is the source pattern of %sMatch.", g.cfg.Name, g.cfg.Name)
	g.file.Const().Id(g.cfg.Name + "Pattern").Op("=").Lit(g.cfg.Pattern)
	g.file.Line()

	g.file.Commentf("%sMatch reports whether the whole of input matches %sPattern.", g.cfg.Name, g.cfg.Name)
	g.file.Func().Id(g.cfg.Name + "Match").Params(jen.Id("input").String()).Bool().Block(g.body()...)

	var buf bytes.Buffer
	if err := g.file.Render(&buf); err != nil {
		return nil, fmt.Errorf("codegen: render: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *Generator) body() []jen.Code {
	if len(g.dfa.Atoms) == 0 {
		// no rune is ever consumed
		if g.dfa.States[g.dfa.Start].Accepting {
			return []jen.Code{jen.Return(jen.Id("input").Op("==").Lit(""))}
		}
		return []jen.Code{jen.Return(jen.False())}
	}
	var cases []jen.Code
	for _, s := range g.dfa.States {
		cases = append(cases, jen.Case(jen.Lit(s.ID)).Block(g.stateSwitch(s.ID)))
	}
	return []jen.Code{
		jen.Id("state").Op(":=").Lit(g.dfa.Start),
		jen.For(jen.List(jen.Id("_"), jen.Id("r")).Op(":=").Range().Id("input")).Block(
			jen.Switch(jen.Id("state")).Block(cases...),
		),
		jen.Return(g.accepting()),
	}
}

func (g *Generator) stateSwitch(id int) jen.Code {
	edges := g.dfa.Edges(id)
	if len(edges) == 0 {
		return jen.Return(jen.False())
	}
	var cases []jen.Code
	for _, e := range edges {
		cases = append(cases, jen.Case(inClass(e)).Block(jen.Id("state").Op("=").Lit(e.Target)))
	}
	cases = append(cases, jen.Default().Block(jen.Return(jen.False())))
	return jen.Switch().Block(cases...)
}

func inClass(e automaton.DFAEdge) jen.Code {
	var cond *jen.Statement
	for _, r := range e.Class.Ranges {
		var c jen.Code
		if r.Lo == r.Hi {
			c = jen.Id("r").Op("==").LitRune(r.Lo)
		} else {
			c = jen.Id("r").Op(">=").LitRune(r.Lo).Op("&&").Id("r").Op("<=").LitRune(r.Hi)
		}
		if cond == nil {
			cond = jen.Add(c)
		} else {
			cond = cond.Op("||").Add(c)
		}
	}
	return cond
}

func (g *Generator) accepting() jen.Code {
	var cond *jen.Statement
	for _, s := range g.dfa.States {
		if !s.Accepting {
			continue
		}
		c := jen.Id("state").Op("==").Lit(s.ID)
		if cond == nil {
			cond = c
		} else {
			cond = cond.Op("||").Add(c)
		}
	}
	if cond == nil {
		return jen.False()
	}
	return cond
}
