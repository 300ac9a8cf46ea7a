package match

import (
	"fmt"
	"unicode/utf8"

	"reginald/internal/automaton"
	"reginald/internal/syntax"
)

type thread struct {
	state int
	caps  []int
}

// queue is an ordered set of threads keyed by state id. Order is
// priority: earlier threads are preferred.
type queue struct {
	sparse  []int
	threads []thread
}

func newQueue(n int) *queue {
	return &queue{sparse: make([]int, n), threads: make([]thread, 0, n)}
}

func (q *queue) contains(s int) bool {
	i := q.sparse[s]
	return i < len(q.threads) && q.threads[i].state == s
}

func (q *queue) push(t thread) {
	q.sparse[t.state] = len(q.threads)
	q.threads = append(q.threads, t)
}

func (q *queue) clear() { q.threads = q.threads[:0] }

// Machine holds the per-call buffers for simulating one automaton. A
// Machine must not be used by two goroutines at once.
type Machine struct {
	a      *automaton.Automaton
	clist  *queue
	nlist  *queue
	stack  []thread
	nslots int
}

func NewMachine(a *automaton.Automaton) *Machine {
	return &Machine{
		a:      a,
		clist:  newQueue(a.Len()),
		nlist:  newQueue(a.Len()),
		nslots: 2 + 2*a.NumGroups,
	}
}

// run looks for the leftmost-first match starting at or after pos and
// returns its capture slots; slots 0 and 1 bound the whole match. With
// earliest set it stops at the first accepting thread and keeps no
// slots.
func (m *Machine) run(text string, pos int, earliest bool) ([]int, bool) {
	if pos > len(text) {
		return nil, false
	}
	nslots := m.nslots
	if earliest {
		nslots = 0
	}
	clist, nlist := m.clist, m.nlist
	defer func() { m.clist, m.nlist = clist, nlist }()
	clist.clear()
	var (
		matched []int
		found   bool
	)
	for p := pos; ; {
		if !found {
			caps := make([]int, nslots)
			for i := range caps {
				caps[i] = -1
			}
			if nslots > 0 {
				caps[0] = p
			}
			m.add(clist, m.a.Start, p, caps, text)
		}
		if len(clist.threads) == 0 && found {
			break
		}
		r, w := rune(-1), 1
		if p < len(text) {
			r, w = utf8.DecodeRuneInString(text[p:])
		}
		nlist.clear()
		for _, t := range clist.threads {
			st := &m.a.States[t.state]
			if st.Accepting {
				if earliest {
					return nil, true
				}
				matched = append(t.caps[:0:0], t.caps...)
				matched[1] = p
				found = true
				// lower-priority threads are cut
				break
			}
			if r < 0 {
				continue
			}
			for _, tr := range st.Transitions {
				if tr.Label.Consumes() && tr.Label.Matches(r) {
					m.add(nlist, tr.Target, p+w, t.caps, text)
				}
			}
		}
		if p >= len(text) {
			break
		}
		clist, nlist = nlist, clist
		p += w
	}
	return matched, found
}

// add puts s and everything reachable from it without consuming input
// onto q, in priority order. The walk is a preorder DFS on an explicit
// stack, children pushed in reverse.
func (m *Machine) add(q *queue, s, pos int, caps []int, text string) {
	stack := append(m.stack[:0], thread{state: s, caps: caps})
	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if q.contains(t.state) {
			continue
		}
		st := &m.a.States[t.state]
		if st.Save >= 0 && st.Save+2 < len(t.caps) {
			t.caps = append(t.caps[:0:0], t.caps...)
			t.caps[st.Save+2] = pos
		}
		q.push(t)
		for i := len(st.Transitions) - 1; i >= 0; i-- {
			tr := st.Transitions[i]
			switch tr.Label.Kind {
			case automaton.Epsilon:
			case automaton.AssertLabel:
				if !assert(tr.Label.Assert, text, pos) {
					continue
				}
			default:
				continue
			}
			if !q.contains(tr.Target) {
				stack = append(stack, thread{state: tr.Target, caps: t.caps})
			}
		}
	}
	m.stack = stack
}

func assert(a syntax.Anchor, text string, pos int) bool {
	switch a {
	case syntax.BeginText:
		return pos == 0
	case syntax.EndText:
		return pos == len(text)
	case syntax.BeginLine:
		return pos == 0 || text[pos-1] == '\n'
	case syntax.EndLine:
		return pos == len(text) || text[pos] == '\n'
	}
	panic(fmt.Sprintf("unreachable: anchor %d", a))
}
