// Package script runs playground scripts: small programs that compile a
// pattern and query it against sample text.
//
//	let text = "xxfoobazyy";
//	compile `(foo|bar)baz`;
//	test text;
//	matches text;
//	replace text with "<$1>";
//	graph dfa dot;
package script

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/spf13/afero"

	"reginald/internal/graph"
	"reginald/pkg/reginald"
)

type Program struct {
	Statements []*Statement `parser:"@@*"`
}

type Statement struct {
	Pos lexer.Position

	Let     *Let     `parser:"( @@"`
	Compile *Compile `parser:"| @@"`
	Test    *Value   `parser:"| 'test' @@"`
	Match   *Value   `parser:"| 'match' @@"`
	Matches *Value   `parser:"| 'matches' @@"`
	Replace *Replace `parser:"| @@"`
	Graph   *Graph   `parser:"| @@"`
	Print   *Value   `parser:"| 'print' @@ ) ';'"`
}

type Let struct {
	Name  string `parser:"'let' @Ident"`
	Value *Value `parser:"'=' @@"`
}

type Compile struct {
	Pattern *Value   `parser:"'compile' @@"`
	Flags   []string `parser:"( 'with' @Ident ( ',' @Ident )* )?"`
}

type Replace struct {
	Text     *Value `parser:"'replace' @@"`
	Template *Value `parser:"'with' @@"`
	Literal  bool   `parser:"@'literally'?"`
}

type Graph struct {
	DFA    bool   `parser:"'graph' @'dfa'?"`
	Format string `parser:"@( 'mermaid' | 'dot' )?"`
}

type Value struct {
	Str *string `parser:"@( String | RawString )"`
	Var *string `parser:"| @Ident"`
}

var parser = participle.MustBuild[Program](
	participle.Unquote("String", "RawString"),
)

func Parse(name, data string) (*Program, error) {
	return parser.ParseString(name, data)
}

// ParseFile reads and parses the script at path.
func ParseFile(fs afero.Fs, path string) (*Program, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("script: %w", err)
	}
	return Parse(path, string(data))
}

func (p *Program) Exec(ctx *Context) error {
	for _, stmt := range p.Statements {
		if err := stmt.Exec(ctx); err != nil {
			return fmt.Errorf("%s: %w", stmt.Pos, err)
		}
	}
	return nil
}

func (s *Statement) Exec(ctx *Context) error {
	switch {
	case s.Let != nil:
		val, err := s.Let.Value.Eval(ctx)
		if err != nil {
			return err
		}
		ctx.Env.Set(s.Let.Name, val)
	case s.Compile != nil:
		return s.Compile.Exec(ctx)
	case s.Print != nil:
		val, err := s.Print.Eval(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(ctx.Out, val)
	default:
		if ctx.Regex == nil {
			return ErrNoPattern
		}
		return s.query(ctx)
	}
	return nil
}

// query runs the statements that need a compiled pattern.
func (s *Statement) query(ctx *Context) error {
	re := ctx.Regex
	switch {
	case s.Test != nil:
		text, err := s.Test.Eval(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(ctx.Out, re.Test(text))
	case s.Match != nil:
		text, err := s.Match.Eval(ctx)
		if err != nil {
			return err
		}
		if m, ok := re.FindFirst(text); ok {
			fmt.Fprintln(ctx.Out, re.DescribeMatch(text, m))
		} else {
			fmt.Fprintln(ctx.Out, "no match")
		}
	case s.Matches != nil:
		text, err := s.Matches.Eval(ctx)
		if err != nil {
			return err
		}
		desc := re.Describe(text)
		if desc == "" {
			fmt.Fprintln(ctx.Out, "no match")
			return nil
		}
		fmt.Fprintln(ctx.Out, re.Highlight(text, ctx.Mark))
		io.WriteString(ctx.Out, desc)
	case s.Replace != nil:
		return s.Replace.Exec(ctx)
	case s.Graph != nil:
		return s.Graph.Exec(ctx)
	}
	return nil
}

func (c *Compile) Exec(ctx *Context) error {
	pattern, err := c.Pattern.Eval(ctx)
	if err != nil {
		return err
	}
	opts := ctx.Options
	for _, f := range c.Flags {
		switch strings.ToLower(f) {
		case "dotall":
			opts.DotAll = true
		case "multiline":
			opts.Multiline = true
		case "icase", "ignorecase":
			opts.CaseInsensitive = true
		default:
			return fmt.Errorf("unknown compile flag %q", f)
		}
	}
	re, err := reginald.CompileWith(pattern, opts)
	if err != nil {
		var se *reginald.SyntaxError
		var ce *reginald.CompileError
		if !errors.As(err, &se) && !errors.As(err, &ce) {
			return err
		}
		// pattern errors are reported, not fatal
		ctx.Regex = nil
		fmt.Fprintf(ctx.Out, "error: %v\n", err)
		return nil
	}
	ctx.Regex = re
	ctx.Log.Debugf("compiled %q with %d states", pattern, re.Automaton().Len())
	fmt.Fprintf(ctx.Out, "compiled %q: %d states, %d groups\n", pattern, re.Automaton().Len(), re.NumGroups())
	return nil
}

func (r *Replace) Exec(ctx *Context) error {
	text, err := r.Text.Eval(ctx)
	if err != nil {
		return err
	}
	tmpl, err := r.Template.Eval(ctx)
	if err != nil {
		return err
	}
	if r.Literal {
		fmt.Fprintln(ctx.Out, ctx.Regex.ReplaceAllLiteral(text, tmpl))
		return nil
	}
	out, err := ctx.Regex.ReplaceAll(text, tmpl)
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.Out, out)
	return nil
}

func (g *Graph) Exec(ctx *Context) error {
	gr := graph.FromNFA(ctx.Regex.Automaton())
	if g.DFA {
		d, err := ctx.Regex.DFA()
		if err != nil {
			return err
		}
		gr = graph.FromDFA(d)
	}
	if g.Format == "dot" {
		return gr.WriteDOT(ctx.Out)
	}
	return gr.WriteMermaid(ctx.Out)
}

func (v *Value) Eval(ctx *Context) (string, error) {
	switch {
	case v.Str != nil:
		return *v.Str, nil
	case v.Var != nil:
		val, ok := ctx.Env.Get(*v.Var)
		if !ok {
			return "", fmt.Errorf("undefined variable %s", *v.Var)
		}
		return val, nil
	}
	return "", fmt.Errorf("invalid value")
}
