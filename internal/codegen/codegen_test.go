package codegen

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/go-toolsmith/astequal"
	"github.com/google/go-cmp/cmp"

	"reginald/internal/automaton"
	"reginald/internal/syntax"
)

func minimalDFA(t *testing.T, pat string) *automaton.DFA {
	t.Helper()
	tree, err := syntax.Parse(pat, 0)
	if err != nil {
		t.Fatal(err)
	}
	a, err := automaton.Build(tree, automaton.Config{})
	if err != nil {
		t.Fatal(err)
	}
	d, err := automaton.Determinize(a, 0)
	if err != nil {
		t.Fatal(err)
	}
	return automaton.Minimize(d)
}

func generate(t *testing.T, pat, name string) string {
	t.Helper()
	g, err := New(Config{Pattern: pat, Name: name, Package: "gen"}, minimalDFA(t, pat))
	if err != nil {
		t.Fatal(err)
	}
	src, err := g.Generate()
	if err != nil {
		t.Fatal(err)
	}
	return string(src)
}

func declNames(t *testing.T, src string) []string {
	t.Helper()
	f, err := parser.ParseFile(token.NewFileSet(), "gen.go", src, parser.ParseComments)
	if err != nil {
		t.Fatalf("generated code does not parse: %v\n%s", err, src)
	}
	var names []string
	for _, d := range f.Decls {
		switch d := d.(type) {
		case *ast.FuncDecl:
			names = append(names, d.Name.Name)
		case *ast.GenDecl:
			for _, s := range d.Specs {
				if v, ok := s.(*ast.ValueSpec); ok {
					names = append(names, v.Names[0].Name)
				}
			}
		}
	}
	return names
}

func TestGenerateParses(t *testing.T) {
	for _, pat := range []string{`\d{4}-\d{2}`, "(a|b)*abb", "", `[^a-z]`, `[^\x00-\x{10FFFF}]`} {
		src := generate(t, pat, "Pat")
		if diff := cmp.Diff([]string{"PatPattern", "PatMatch"}, declNames(t, src)); diff != "" {
			t.Errorf("%q: declarations (-want +got):\n%s", pat, diff)
		}
		if !strings.HasPrefix(src, "// Code generated by reginald") || !strings.Contains(src, "DO NOT EDIT.") {
			t.Errorf("%q: missing generated header", pat)
		}
	}
}

func TestGenerateShape(t *testing.T) {
	src := generate(t, "a[b-d]", "Ab")
	for _, want := range []string{
		"package gen",
		`const AbPattern = "a[b-d]"`,
		"func AbMatch(input string) bool",
		"r == 'a'",
		"r >= 'b' && r <= 'd'",
		"return state == 2",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("missing %q in:\n%s", want, src)
		}
	}
}

func funcBody(t *testing.T, src, name string) *ast.BlockStmt {
	t.Helper()
	f, err := parser.ParseFile(token.NewFileSet(), "gen.go", src, 0)
	if err != nil {
		t.Fatalf("parse: %v\n%s", err, src)
	}
	for _, d := range f.Decls {
		if fn, ok := d.(*ast.FuncDecl); ok && fn.Name.Name == name {
			return fn.Body
		}
	}
	t.Fatalf("no func %s in:\n%s", name, src)
	return nil
}

func TestGenerateBody(t *testing.T) {
	got := funcBody(t, generate(t, "a", "A"), "AMatch")
	want := funcBody(t, `package gen
func AMatch(input string) bool {
	state := 0
	for _, r := range input {
		switch state {
		case 0:
			switch {
			case r == 'a':
				state = 1
			default:
				return false
			}
		case 1:
			return false
		}
	}
	return state == 1
}`, "AMatch")
	if !astequal.Stmt(want, got) {
		t.Errorf("generated body differs from the expected transition switch")
	}
}

func TestGenerateEmptyPattern(t *testing.T) {
	src := generate(t, "", "Empty")
	if !strings.Contains(src, `return input == ""`) {
		t.Errorf("unexpected body:\n%s", src)
	}
}

func TestNewRejectsBadNames(t *testing.T) {
	d := minimalDFA(t, "a")
	for _, cfg := range []Config{{Name: "lower"}, {Name: "Has Space"}, {Name: "Ok", Package: "1pkg"}} {
		if _, err := New(cfg, d); err == nil {
			t.Errorf("%+v: expected error", cfg)
		}
	}
}
