package automaton

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"reginald/internal/syntax"
)

func build(t *testing.T, pat string, cfg Config) *Automaton {
	t.Helper()
	tree, err := syntax.Parse(pat, 0)
	if err != nil {
		t.Fatalf("parse %q: %v", pat, err)
	}
	a, err := Build(tree, cfg)
	if err != nil {
		t.Fatalf("build %q: %v", pat, err)
	}
	return a
}

func buildErr(t *testing.T, pat string, cfg Config) *CompileError {
	t.Helper()
	tree, err := syntax.Parse(pat, 0)
	if err != nil {
		t.Fatalf("parse %q: %v", pat, err)
	}
	_, err = Build(tree, cfg)
	var ce *CompileError
	if !errors.As(err, &ce) {
		t.Fatalf("build %q: want *CompileError, got %v", pat, err)
	}
	return ce
}

type edge struct {
	From, To int
	Label    string
}

func edges(a *Automaton) []edge {
	var out []edge
	for _, s := range a.States {
		for _, tr := range s.Transitions {
			out = append(out, edge{s.ID, tr.Target, tr.Label.String()})
		}
	}
	return out
}

func TestBuildConcat(t *testing.T) {
	a := build(t, "ab", Config{})
	want := []edge{
		{0, 1, "a"},
		{1, 2, "ε"},
		{2, 3, "b"},
		{3, 4, "ε"},
	}
	if diff := cmp.Diff(want, edges(a)); diff != "" {
		t.Fatalf("edges mismatch (-want +got):\n%s", diff)
	}
	if a.Start != 0 || a.Accept != 4 || !a.State(4).Accepting {
		t.Fatalf("start %d accept %d", a.Start, a.Accept)
	}
}

func TestStateString(t *testing.T) {
	a := build(t, "(a)", Config{})
	var got []string
	for _, s := range a.States {
		got = append(got, s.String())
	}
	want := []string{"0 save=0: ε->1", "1: a->2", "2: ε->3", "3 save=1: ε->4", "4 accept:"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("states (-want +got):\n%s", diff)
	}
}

func TestBuildStarOrdering(t *testing.T) {
	greedy := build(t, "a*", Config{})
	lazy := build(t, "a*?", Config{})
	// entry state 0 prefers the body when greedy
	if got := greedy.State(0).Transitions[0].Target; got != 1 {
		t.Fatalf("greedy first target %d", got)
	}
	if got := lazy.State(0).Transitions[0].Target; got != 3 {
		t.Fatalf("lazy first target %d", got)
	}
}

func TestBuildDeterministic(t *testing.T) {
	for _, pat := range []string{"(a|b)*abb", "x{2,4}?", `(?P<y>\d+)-(\w)`, "[^a-z]|."} {
		a1 := build(t, pat, Config{})
		a2 := build(t, pat, Config{})
		if diff := cmp.Diff(a1, a2); diff != "" {
			t.Fatalf("%q: builds differ:\n%s", pat, diff)
		}
		if a1.State(a1.Start).ID != a1.Start {
			t.Fatalf("%q: ids not dense", pat)
		}
		for i, s := range a1.States {
			if s.ID != i {
				t.Fatalf("%q: state %d has id %d", pat, i, s.ID)
			}
		}
	}
}

func TestBuildSaveSlots(t *testing.T) {
	a := build(t, "(a)(?:b)(c)", Config{})
	var saves []int
	for _, s := range a.States {
		if s.Save >= 0 {
			saves = append(saves, s.Save)
		}
	}
	if diff := cmp.Diff([]int{0, 1, 2, 3}, saves); diff != "" {
		t.Fatalf("save slots (-want +got):\n%s", diff)
	}
	if a.NumGroups != 2 {
		t.Fatalf("groups %d", a.NumGroups)
	}
}

func TestBuildCounted(t *testing.T) {
	tests := []struct {
		pat    string
		states int
	}{
		{"a{0}", 2},
		{"a{3}", 7},
		{"a{2,3}", 9},
	}
	for _, tt := range tests {
		if got := build(t, tt.pat, Config{}).Len(); got != tt.states {
			t.Errorf("%q: %d states, want %d", tt.pat, got, tt.states)
		}
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		pat    string
		cfg    Config
		kind   ErrorKind
		offset int
	}{
		{"a{5,2}", Config{}, InvertedBounds, 1},
		{"a{1,1000000000}", Config{}, RepeatTooLarge, 1},
		{"xy{1001}", Config{}, RepeatTooLarge, 2},
		{"a{20}", Config{MaxRepeat: 10}, RepeatTooLarge, 1},
		{"(abc){50}", Config{MaxStates: 100}, TooManyStates, 0},
	}
	for _, tt := range tests {
		ce := buildErr(t, tt.pat, tt.cfg)
		if ce.Kind != tt.kind || ce.Offset != tt.offset || ce.Pattern != tt.pat {
			t.Errorf("%q: got %v (kind %v offset %d)", tt.pat, ce, ce.Kind, ce.Offset)
		}
	}
}

func TestBuildAssertions(t *testing.T) {
	if build(t, "ab", Config{}).HasAssertions() {
		t.Fatal("ab has no anchors")
	}
	if !build(t, "^ab$", Config{}).HasAssertions() {
		t.Fatal("^ab$ has anchors")
	}
}
