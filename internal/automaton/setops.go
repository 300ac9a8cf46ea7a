package automaton

import (
	"sort"
	"unicode"

	"reginald/internal/syntax"
)

// Product runs a and b in lockstep over a common refinement of their
// atoms. A product state accepts when op does on the two sides'
// acceptance; a side that has rejected counts as non-accepting.
func Product(a, b *DFA, op func(x, y bool) bool) *DFA {
	p, _ := product(a, b, op)
	return p
}

func Intersect(a, b *DFA) *DFA { return Product(a, b, func(x, y bool) bool { return x && y }) }

func Union(a, b *DFA) *DFA { return Product(a, b, func(x, y bool) bool { return x || y }) }

// Difference accepts what a accepts and b does not.
func Difference(a, b *DFA) *DFA { return Product(a, b, func(x, y bool) bool { return x && !y }) }

// Equivalent reports whether a and b accept the same strings. If they
// do not, witness is a shortest string accepted by exactly one of them.
func Equivalent(a, b *DFA) (ok bool, witness string) {
	p, from := product(a, b, func(x, y bool) bool { return x != y })
	for id, s := range p.States {
		if s.Accepting {
			return false, from.path(id)
		}
	}
	return true, ""
}

type pair struct{ a, b int }

// trail remembers how the breadth-first product walk first reached
// each state, so that a shortest input can be rebuilt.
type trail struct {
	parent []int
	via    []rune
}

func (t trail) path(id int) string {
	var rs []rune
	for ; t.parent[id] >= 0; id = t.parent[id] {
		rs = append(rs, t.via[id])
	}
	for i, j := 0, len(rs)-1; i < j; i, j = i+1, j-1 {
		rs[i], rs[j] = rs[j], rs[i]
	}
	return string(rs)
}

func product(a, b *DFA, op func(x, y bool) bool) (*DFA, trail) {
	atoms := refine(a.Atoms, b.Atoms)
	ai := make([]int, len(atoms))
	bi := make([]int, len(atoms))
	for i, at := range atoms {
		ai[i] = a.atom(at.Lo)
		bi[i] = b.atom(at.Lo)
	}
	accepting := func(d *DFA, s int) bool { return s >= 0 && d.States[s].Accepting }
	step := func(d *DFA, s, atom int) int {
		if s < 0 || atom < 0 {
			return -1
		}
		return d.States[s].Next[atom]
	}

	out := &DFA{Atoms: atoms}
	var tr trail
	index := map[pair]int{}
	var pairs []pair
	add := func(p pair, parent int, via rune) int {
		if id, ok := index[p]; ok {
			return id
		}
		id := len(out.States)
		index[p] = id
		pairs = append(pairs, p)
		out.States = append(out.States, DFAState{ID: id, Accepting: op(accepting(a, p.a), accepting(b, p.b))})
		tr.parent = append(tr.parent, parent)
		tr.via = append(tr.via, via)
		return id
	}

	out.Start = add(pair{a.Start, b.Start}, -1, 0)
	for cur := 0; cur < len(out.States); cur++ {
		p := pairs[cur]
		next := make([]int, len(atoms))
		for i, at := range atoms {
			np := pair{step(a, p.a, ai[i]), step(b, p.b, bi[i])}
			if np.a < 0 && np.b < 0 {
				next[i] = -1
				continue
			}
			next[i] = add(np, cur, at.Lo)
		}
		out.States[cur].Next = next
	}
	return out, tr
}

// refine returns the coarsest partition finer than both x and y,
// restricted to runes covered by either.
func refine(x, y []syntax.Range) []syntax.Range {
	cuts := map[rune]struct{}{}
	for _, rs := range [][]syntax.Range{x, y} {
		for _, r := range rs {
			cuts[r.Lo] = struct{}{}
			if r.Hi < unicode.MaxRune {
				cuts[r.Hi+1] = struct{}{}
			}
		}
	}
	points := make([]rune, 0, len(cuts))
	for r := range cuts {
		points = append(points, r)
	}
	sort.Slice(points, func(i, j int) bool { return points[i] < points[j] })

	covered := func(rs []syntax.Range, r rune) bool {
		i := sort.Search(len(rs), func(i int) bool { return rs[i].Hi >= r })
		return i < len(rs) && rs[i].Lo <= r
	}
	var out []syntax.Range
	for i, lo := range points {
		hi := rune(unicode.MaxRune)
		if i+1 < len(points) {
			hi = points[i+1] - 1
		}
		if covered(x, lo) || covered(y, lo) {
			out = append(out, syntax.Range{Lo: lo, Hi: hi})
		}
	}
	return out
}
