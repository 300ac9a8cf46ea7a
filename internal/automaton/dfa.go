package automaton

import (
	"sort"
	"strconv"
	"strings"
	"unicode"

	"reginald/internal/syntax"
)

const DefaultMaxDFAStates = 4096

// DFAState has one successor per atom of the owning DFA; -1 means the
// input is rejected.
type DFAState struct {
	ID        int
	Accepting bool
	Next      []int
}

// DFA is the deterministic view of an automaton over a partition of the
// rune space into Atoms. Runes outside every atom reject.
type DFA struct {
	Atoms  []syntax.Range
	States []DFAState
	Start  int
}

// Determinize runs the subset construction on a. Capture tags are
// ignored; anchors are not supported.
func Determinize(a *Automaton, limit int) (*DFA, error) {
	if a.HasAssertions() {
		return nil, ErrAssertions
	}
	if limit <= 0 {
		limit = DefaultMaxDFAStates
	}
	d := &DFA{Atoms: atoms(a)}

	index := map[string]int{}
	var sets [][]int
	add := func(set []int) (int, error) {
		k := setKey(set)
		if id, ok := index[k]; ok {
			return id, nil
		}
		if len(d.States) >= limit {
			return 0, ErrTooManyDFAStates
		}
		id := len(d.States)
		index[k] = id
		sets = append(sets, set)
		d.States = append(d.States, DFAState{ID: id, Accepting: containsID(set, a.Accept)})
		return id, nil
	}

	start, err := add(closure(a, []int{a.Start}))
	if err != nil {
		return nil, err
	}
	d.Start = start
	for cur := 0; cur < len(d.States); cur++ {
		next := make([]int, len(d.Atoms))
		for i, at := range d.Atoms {
			moved := move(a, sets[cur], at.Lo)
			if len(moved) == 0 {
				next[i] = -1
				continue
			}
			id, err := add(closure(a, moved))
			if err != nil {
				return nil, err
			}
			next[i] = id
		}
		d.States[cur].Next = next
	}
	return d, nil
}

// atoms splits the rune space at every label boundary and keeps the
// pieces that some label accepts.
func atoms(a *Automaton) []syntax.Range {
	cuts := map[rune]struct{}{0: {}}
	var labels []Label
	for _, s := range a.States {
		for _, t := range s.Transitions {
			switch t.Label.Kind {
			case RuneLabel:
				cuts[t.Label.Rune] = struct{}{}
				cuts[t.Label.Rune+1] = struct{}{}
			case ClassLabel:
				for _, r := range t.Label.Class.Ranges {
					cuts[r.Lo] = struct{}{}
					cuts[r.Hi+1] = struct{}{}
				}
			default:
				continue
			}
			labels = append(labels, t.Label)
		}
	}
	points := make([]rune, 0, len(cuts))
	for r := range cuts {
		if r <= unicode.MaxRune {
			points = append(points, r)
		}
	}
	sort.Slice(points, func(i, j int) bool { return points[i] < points[j] })

	var out []syntax.Range
	for i, lo := range points {
		hi := rune(unicode.MaxRune)
		if i+1 < len(points) {
			hi = points[i+1] - 1
		}
		for _, l := range labels {
			if l.Matches(lo) {
				out = append(out, syntax.Range{Lo: lo, Hi: hi})
				break
			}
		}
	}
	return out
}

// closure returns the sorted set of states reachable from set through
// ε-transitions.
func closure(a *Automaton, set []int) []int {
	seen := make(map[int]bool, len(set))
	stack := append([]int(nil), set...)
	for _, s := range set {
		seen[s] = true
	}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, t := range a.States[s].Transitions {
			if t.Label.Kind == Epsilon && !seen[t.Target] {
				seen[t.Target] = true
				stack = append(stack, t.Target)
			}
		}
	}
	out := make([]int, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Ints(out)
	return out
}

func move(a *Automaton, set []int, r rune) []int {
	var out []int
	for _, s := range set {
		for _, t := range a.States[s].Transitions {
			if t.Label.Consumes() && t.Label.Matches(r) {
				out = append(out, t.Target)
			}
		}
	}
	return out
}

func setKey(set []int) string {
	var b strings.Builder
	for i, s := range set {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(s))
	}
	return b.String()
}

func containsID(set []int, id int) bool {
	i := sort.SearchInts(set, id)
	return i < len(set) && set[i] == id
}

// atom returns the index of the atom containing r, or -1.
func (d *DFA) atom(r rune) int {
	i := sort.Search(len(d.Atoms), func(i int) bool { return d.Atoms[i].Hi >= r })
	if i < len(d.Atoms) && d.Atoms[i].Lo <= r {
		return i
	}
	return -1
}

// Accepts reports whether the whole of s is in the language of d.
func (d *DFA) Accepts(s string) bool {
	state := d.Start
	for _, r := range s {
		i := d.atom(r)
		if i < 0 {
			return false
		}
		state = d.States[state].Next[i]
		if state < 0 {
			return false
		}
	}
	return d.States[state].Accepting
}

// Edges returns, for state id, the class of runes leading to each
// target, ordered by target id.
func (d *DFA) Edges(id int) []DFAEdge {
	byTarget := map[int]*syntax.CharClass{}
	var targets []int
	for i, to := range d.States[id].Next {
		if to < 0 {
			continue
		}
		c, ok := byTarget[to]
		if !ok {
			c = &syntax.CharClass{}
			byTarget[to] = c
			targets = append(targets, to)
		}
		c.AddRange(d.Atoms[i].Lo, d.Atoms[i].Hi)
	}
	sort.Ints(targets)
	out := make([]DFAEdge, 0, len(targets))
	for _, to := range targets {
		out = append(out, DFAEdge{Class: byTarget[to], Target: to})
	}
	return out
}

type DFAEdge struct {
	Class  *syntax.CharClass
	Target int
}

// Label renders the edge class, using the bare rune for singletons.
func (e DFAEdge) Label() string {
	rs := e.Class.Ranges
	if len(rs) == 1 && rs[0].Lo == rs[0].Hi {
		return Label{Kind: RuneLabel, Rune: rs[0].Lo}.String()
	}
	return e.Class.String()
}
