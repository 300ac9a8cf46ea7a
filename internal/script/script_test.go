package script

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"

	"reginald/pkg/reginald"
)

func run(t *testing.T, src string) (string, error) {
	t.Helper()
	prog, err := Parse("test.rgs", src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var out bytes.Buffer
	err = prog.Exec(NewContext(&out, reginald.Options{}))
	return out.String(), err
}

func TestParseStatements(t *testing.T) {
	prog, err := Parse("t", `
		let s = "abc";
		compile `+"`a|b`"+` with icase, dotall;
		test s; match "x"; matches s;
		replace s with "$0$0";
		replace s with "$1" literally;
		graph dfa dot;
		graph;
		print s;
	`)
	if err != nil {
		t.Fatal(err)
	}
	if len(prog.Statements) != 10 {
		t.Fatalf("got %d statements", len(prog.Statements))
	}
	c := prog.Statements[1].Compile
	if c == nil || *c.Pattern.Str != "a|b" {
		t.Fatalf("compile statement %+v", prog.Statements[1])
	}
	if diff := cmp.Diff([]string{"icase", "dotall"}, c.Flags); diff != "" {
		t.Fatalf("flags (-want +got):\n%s", diff)
	}
	g := prog.Statements[7].Graph
	if g == nil || !g.DFA || g.Format != "dot" {
		t.Fatalf("graph statement %+v", g)
	}
	if !prog.Statements[6].Replace.Literal {
		t.Fatal("literally not parsed")
	}
}

func TestParseError(t *testing.T) {
	if _, err := Parse("t", `compile "a"`); err == nil {
		t.Fatal("missing ';' should fail")
	}
	if _, err := Parse("t", `frobnicate "a";`); err == nil {
		t.Fatal("unknown statement should fail")
	}
}

func TestExecSession(t *testing.T) {
	got, err := run(t, `
		let text = "xxfoobazyy barbaz";
		compile "(foo|bar)baz";
		test text;
		test "nope";
		match text;
		matches text;
		replace text with "<$1>";
		replace "foobaz" with "$1" literally;
	`)
	if err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		`compiled "(foo|bar)baz": 23 states, 1 groups`,
		"true",
		"false",
		`2-8 "foobaz" 0="foo"`,
		"xx[foobaz]yy [barbaz]",
		`2-8 "foobaz" 0="foo"`,
		`11-17 "barbaz" 0="bar"`,
		"xx<foo>yy <bar>",
		"$1",
	}, "\n") + "\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("output (-want +got):\n%s", diff)
	}
}

func TestCompileErrorsAreReported(t *testing.T) {
	got, err := run(t, `compile "(abc"; compile "a{9,2}";`)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(got), "\n")
	if len(lines) != 2 || !strings.Contains(lines[0], "unclosed group") || !strings.Contains(lines[1], "inverted") {
		t.Fatalf("unexpected output:\n%s", got)
	}
}

func TestNoPattern(t *testing.T) {
	_, err := run(t, `compile "(x"; test "x";`)
	if !errors.Is(err, ErrNoPattern) {
		t.Fatalf("want ErrNoPattern, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "test.rgs:1:") {
		t.Fatalf("error lacks position: %v", err)
	}
}

func TestUndefinedVariable(t *testing.T) {
	if _, err := run(t, `compile "a"; test missing;`); err == nil || !strings.Contains(err.Error(), "undefined variable missing") {
		t.Fatalf("got %v", err)
	}
}

func TestCompileFlags(t *testing.T) {
	got, err := run(t, `compile "a.b" with dotall, icase; test "A\nB";`)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(got, "true\n") {
		t.Fatalf("flags not applied:\n%s", got)
	}
	if _, err := run(t, `compile "a" with turbo;`); err == nil {
		t.Fatal("unknown flag should fail")
	}
}

func TestGraphStatement(t *testing.T) {
	got, err := run(t, `compile "ab"; graph;`)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "flowchart LR\n") {
		t.Fatalf("no mermaid output:\n%s", got)
	}
	got, err = run(t, `compile "ab"; graph dfa dot;`)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "digraph G {") || !strings.Contains(got, "doublecircle") {
		t.Fatalf("no dot output:\n%s", got)
	}
	if _, err := run(t, `compile "^a"; graph dfa;`); err == nil {
		t.Fatal("anchored DFA view should fail")
	}
}

func TestParseFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/s.rgs", []byte(`print "hi";`), 0o644); err != nil {
		t.Fatal(err)
	}
	prog, err := ParseFile(fs, "/s.rgs")
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := prog.Exec(NewContext(&out, reginald.Options{})); err != nil {
		t.Fatal(err)
	}
	if out.String() != "hi\n" {
		t.Fatalf("got %q", out.String())
	}
	if _, err := ParseFile(fs, "/missing.rgs"); err == nil {
		t.Fatal("expected error")
	}
}

func TestEnvironmentString(t *testing.T) {
	env := NewEnvironment()
	env.Set("b", "2")
	env.Set("a", "1")
	if got := env.String(); got != `{a="1" b="2"}` {
		t.Fatalf("got %s", got)
	}
}
