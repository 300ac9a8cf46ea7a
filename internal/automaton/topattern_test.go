package automaton

import "testing"

func TestPatternFromDFA(t *testing.T) {
	tests := []struct {
		pat  string
		want string
	}{
		{"ab", "ab"},
		{"a*", "a*"},
		{"a+", "aa*"},
		{"a|b", "[ab]"},
		{"x{2,3}", "xx|xxx"},
		{`a\.b`, `a\.b`},
		{"[^x]", `[^x]`},
		{"a b", `a\x{20}b`},
	}
	for _, tt := range tests {
		got, ok := minimal(t, tt.pat).Pattern()
		if !ok || got != tt.want {
			t.Errorf("%q: Pattern() = %q, %v; want %q", tt.pat, got, ok, tt.want)
		}
	}
}

func TestPatternRoundTrip(t *testing.T) {
	for _, pat := range []string{
		"(a|b)*abb",
		`\d{2,4}-\d+`,
		"(foo|bar)+baz?",
		"[a-c]*[a-c]",
		"a.c",
		"(ab|a)(bc|c)",
		"",
		"(x?y?)*z",
		`[\]\-^]+`,
	} {
		d := minimal(t, pat)
		src, ok := d.Pattern()
		if !ok {
			t.Errorf("%q: no pattern", pat)
			continue
		}
		back := minimal(t, src)
		if same, w := Equivalent(d, back); !same {
			t.Errorf("%q rebuilt as %q, which differs on %q", pat, src, w)
		}
	}
}
