package match

import (
	"fmt"
	"regexp"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"reginald/internal/automaton"
	"reginald/internal/syntax"
)

func compile(t *testing.T, pat string, flags syntax.Flags) *Matcher {
	t.Helper()
	tree, err := syntax.Parse(pat, flags)
	if err != nil {
		t.Fatalf("parse %q: %v", pat, err)
	}
	a, err := automaton.Build(tree, automaton.Config{})
	if err != nil {
		t.Fatalf("build %q: %v", pat, err)
	}
	return New(a)
}

func collect(mt *Matcher, text string) []Span {
	var out []Span
	for m := range mt.FindAll(text) {
		out = append(out, m.Span)
	}
	return out
}

func TestFindFirst(t *testing.T) {
	tests := []struct {
		pat, text string
		want      Span
		caps      map[int]Span
	}{
		{"a*", "aaa", Span{0, 3}, nil},
		{"a*?", "aaa", Span{0, 0}, nil},
		{"a+?", "aaa", Span{0, 1}, nil},
		{"(foo|bar)baz", "xxfoobazyy", Span{2, 6}, map[int]Span{0: {2, 3}}},
		{"é+", "cafééé!", Span{3, 6}, nil},
		{".", "\xffa", Span{0, 1}, nil},
		{"(a)|(b)", "b", Span{0, 1}, map[int]Span{1: {0, 1}}},
		{"(a|ab)(c|bcd)(d*)", "abcd", Span{0, 4}, map[int]Span{0: {0, 1}, 1: {1, 3}, 2: {4, 0}}},
		{"(a)+", "aaa", Span{0, 3}, map[int]Span{0: {2, 1}}},
		{"x{2,3}?", "xxxx", Span{0, 2}, nil},
		{"$", "ab", Span{2, 0}, nil},
	}
	for _, tt := range tests {
		m, ok := compile(t, tt.pat, 0).FindFirst(tt.text)
		if !ok {
			t.Errorf("%q on %q: no match", tt.pat, tt.text)
			continue
		}
		if diff := cmp.Diff(tt.want, m.Span); diff != "" {
			t.Errorf("%q on %q: span (-want +got):\n%s", tt.pat, tt.text, diff)
		}
		if diff := cmp.Diff(tt.caps, m.Captures); diff != "" {
			t.Errorf("%q on %q: captures (-want +got):\n%s", tt.pat, tt.text, diff)
		}
	}
}

func TestAnchors(t *testing.T) {
	mt := compile(t, "^abc$", 0)
	if !mt.Test("abc") {
		t.Error("^abc$ should match abc")
	}
	if mt.Test("xabc") || mt.Test("abc\n") || mt.Test("abc\nabc") {
		t.Error("^abc$ anchors to the whole text")
	}

	ml := compile(t, "^b$", syntax.Multiline)
	m, ok := ml.FindFirst("a\nb\nc")
	if !ok || m.Span != (Span{2, 1}) {
		t.Errorf("multiline: got %v %v", m, ok)
	}
}

func TestDot(t *testing.T) {
	if compile(t, "a.b", 0).Test("a\nb") {
		t.Error(". matched newline")
	}
	if !compile(t, "a.b", syntax.DotAll).Test("a\nb") {
		t.Error(". with DotAll should match newline")
	}
}

func TestFindAll(t *testing.T) {
	tests := []struct {
		pat, text string
		want      []Span
	}{
		{"a*", "bbb", []Span{{0, 0}, {1, 0}, {2, 0}}},
		{"a*", "", []Span{{0, 0}}},
		{"a*", "aaa", []Span{{0, 3}}},
		{"b*", "abb", []Span{{0, 0}, {1, 2}}},
		{`\d+`, "a1b22c333", []Span{{1, 1}, {3, 2}, {6, 3}}},
		{"x?", "☺☺", []Span{{0, 0}, {3, 0}}},
		{"z", "abc", nil},
		{"$", "ab", []Span{{2, 0}}},
	}
	for _, tt := range tests {
		got := collect(compile(t, tt.pat, 0), tt.text)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("%q on %q (-want +got):\n%s", tt.pat, tt.text, diff)
		}
	}
}

func TestFindAllStopsEarly(t *testing.T) {
	mt := compile(t, "a", 0)
	n := 0
	for range mt.FindAll("aaaaaaaa") {
		n++
		if n == 3 {
			break
		}
	}
	if n != 3 {
		t.Fatalf("got %d", n)
	}
	// restartable
	if got := len(collect(mt, "aaaa")); got != 4 {
		t.Fatalf("second run got %d matches", got)
	}
}

var (
	gridPatterns = []string{
		"a*", "a*?", "a+", "(a|ab)(c|bcd)(d*)", "(foo|bar)baz", "x+?y",
		"[a-c]+", `\d{2,3}`, "(a|b)*abb", "^abc$", "a{2,}", "(?:ab)?c",
		`\w+@\w+\.com`, "[^ ]+", "b|", `(\s*)(\S+)`,
	}
	gridTexts = []string{
		"", "aaa", "abcd", "xxfoobazyy", "xxxy", "12345", "abababb",
		"abc", "mail me@host.com now", "ccabc", "  hello world",
	}
)

func TestAgreesWithStdlib(t *testing.T) {
	for _, pat := range gridPatterns {
		mt := compile(t, pat, 0)
		std := regexp.MustCompile(pat)
		for _, text := range gridTexts {
			m, ok := mt.FindFirst(text)
			loc := std.FindStringSubmatchIndex(text)
			if ok != (loc != nil) {
				t.Errorf("%q on %q: found %v, stdlib %v", pat, text, ok, loc != nil)
				continue
			}
			if !ok {
				continue
			}
			want := []int{loc[0], loc[1]}
			got := []int{m.Start, m.End()}
			for g := 0; 2*g+3 < len(loc); g++ {
				want = append(want, loc[2*g+2], loc[2*g+3])
				if s, ok := m.Group(g); ok {
					got = append(got, s.Start, s.End())
				} else {
					got = append(got, -1, -1)
				}
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("%q on %q (-stdlib +got):\n%s", pat, text, diff)
			}
		}
	}
}

func TestProperties(t *testing.T) {
	for _, pat := range gridPatterns {
		mt := compile(t, pat, 0)
		for _, text := range gridTexts {
			_, found := mt.FindFirst(text)
			if mt.Test(text) != found {
				t.Errorf("%q on %q: Test disagrees with FindFirst", pat, text)
			}
			prev := -1
			for _, s := range collect(mt, text) {
				if s.Start < prev {
					t.Errorf("%q on %q: overlapping or unordered matches", pat, text)
				}
				prev = s.End()
				if s.Length == 0 {
					prev = s.Start
				}
			}
		}
	}
}

func TestConcurrentQueries(t *testing.T) {
	mt := compile(t, `(\w+)@(\w+)\.com`, 0)
	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			text := fmt.Sprintf("user%d@host%d.com", i, i)
			for j := 0; j < 100; j++ {
				m, ok := mt.FindFirst(text)
				if !ok || m.Length != len(text) {
					errs <- fmt.Errorf("goroutine %d: got %v", i, m)
					return
				}
				if s, _ := m.Group(0); s.Text(text) != fmt.Sprintf("user%d", i) {
					errs <- fmt.Errorf("goroutine %d: group %q", i, s.Text(text))
					return
				}
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
