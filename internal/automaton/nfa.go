package automaton

import (
	"fmt"

	"reginald/internal/logging"
	"reginald/internal/syntax"
)

const (
	DefaultMaxRepeat = 1000
	DefaultMaxStates = 10000
)

// Config bounds the size of the automaton Build may produce.
type Config struct {
	MaxRepeat int // largest accepted {m,n} bound
	MaxStates int // largest accepted number of states
	Logger    *logging.Logger
}

func (c Config) withDefaults() Config {
	if c.MaxRepeat <= 0 {
		c.MaxRepeat = DefaultMaxRepeat
	}
	if c.MaxStates < 2 {
		c.MaxStates = DefaultMaxStates
	}
	return c
}

var (
	anyClass      = (&syntax.CharClass{}).Negate()
	anyNotNLClass = func() *syntax.CharClass {
		c := &syntax.CharClass{}
		c.AddRune('\n')
		return c.Negate()
	}()
)

type builder struct {
	a      *Automaton
	cfg    Config
	dotAll bool
	err    *CompileError
}

// frag is a compiled sub-automaton. exit has no outgoing transitions
// until the fragment is wired into its parent.
type frag struct {
	entry, exit int
}

// Build compiles tree into an automaton. State ids are assigned in
// construction order, so equal patterns give equal automata.
func Build(tree *syntax.Tree, cfg Config) (*Automaton, error) {
	cfg = cfg.withDefaults()
	b := &builder{
		a: &Automaton{
			Pattern:   tree.Pattern,
			NumGroups: tree.NumGroups,
			Names:     tree.Names,
		},
		cfg:    cfg,
		dotAll: tree.Flags&syntax.DotAll != 0,
	}
	f := b.compile(tree.Root)
	accept := b.newState()
	b.epsilon(f.exit, accept)
	if b.err != nil {
		b.err.Pattern = tree.Pattern
		cfg.Logger.Debugf("build failed: %v", b.err)
		return nil, b.err
	}
	b.a.States[accept].Accepting = true
	b.a.Start = f.entry
	b.a.Accept = accept

	cfg.Logger.Section("Automaton")
	cfg.Logger.Debugf("pattern: %s", tree.Pattern)
	cfg.Logger.Debugf("states: %d (limit %d), groups: %d", len(b.a.States), cfg.MaxStates, tree.NumGroups)
	if cfg.Logger.Enabled() {
		for _, st := range b.a.States {
			cfg.Logger.Debugf("  %s", st)
		}
	}
	return b.a, nil
}

func (b *builder) fail(kind ErrorKind, pos int, format string, args ...any) {
	if b.err == nil {
		b.err = &CompileError{Offset: pos, Kind: kind, Detail: fmt.Sprintf(format, args...)}
	}
}

func (b *builder) newState() int {
	if b.err != nil {
		return -1
	}
	if len(b.a.States) >= b.cfg.MaxStates {
		b.fail(TooManyStates, 0, "automaton needs more than %d states", b.cfg.MaxStates)
		return -1
	}
	id := len(b.a.States)
	b.a.States = append(b.a.States, State{ID: id, Save: -1})
	return id
}

func (b *builder) add(from, to int, l Label) {
	if b.err != nil {
		return
	}
	s := &b.a.States[from]
	s.Transitions = append(s.Transitions, Transition{Label: l, Target: to})
}

func (b *builder) epsilon(from, to int) { b.add(from, to, Label{Kind: Epsilon}) }

// split gives from two ε-exits, the preferred one first.
func (b *builder) split(from, body, skip int, greedy bool) {
	if greedy {
		b.epsilon(from, body)
		b.epsilon(from, skip)
		return
	}
	b.epsilon(from, skip)
	b.epsilon(from, body)
}

func (b *builder) single(l Label) frag {
	s1 := b.newState()
	s2 := b.newState()
	b.add(s1, s2, l)
	return frag{s1, s2}
}

func (b *builder) compile(n *syntax.Node) frag {
	if b.err != nil {
		return frag{-1, -1}
	}
	switch n.Op {
	case syntax.OpEmpty:
		s := b.newState()
		return frag{s, s}
	case syntax.OpLiteral:
		return b.single(Label{Kind: RuneLabel, Rune: n.Rune})
	case syntax.OpClass:
		return b.single(Label{Kind: ClassLabel, Class: n.Class, Text: n.Label})
	case syntax.OpAny:
		c := anyNotNLClass
		if b.dotAll {
			c = anyClass
		}
		return b.single(Label{Kind: ClassLabel, Class: c, Text: "."})
	case syntax.OpAnchor:
		return b.single(Label{Kind: AssertLabel, Assert: n.Anchor})
	case syntax.OpConcat:
		f := b.compile(n.Subs[0])
		for _, sub := range n.Subs[1:] {
			g := b.compile(sub)
			b.epsilon(f.exit, g.entry)
			f.exit = g.exit
		}
		return f
	case syntax.OpAlternate:
		entry := b.newState()
		alts := make([]frag, 0, len(n.Subs))
		for _, sub := range n.Subs {
			f := b.compile(sub)
			b.epsilon(entry, f.entry)
			alts = append(alts, f)
		}
		exit := b.newState()
		for _, f := range alts {
			b.epsilon(f.exit, exit)
		}
		return frag{entry, exit}
	case syntax.OpGroup:
		if !n.Capture {
			return b.compile(n.Sub)
		}
		open := b.newState()
		f := b.compile(n.Sub)
		exit := b.newState()
		if b.err != nil {
			return frag{-1, -1}
		}
		b.a.States[open].Save = 2 * n.Index
		b.a.States[exit].Save = 2*n.Index + 1
		b.epsilon(open, f.entry)
		b.epsilon(f.exit, exit)
		return frag{open, exit}
	case syntax.OpRepeat:
		return b.repeat(n)
	}
	panic(fmt.Sprintf("unreachable: unknown op %d", n.Op))
}

func (b *builder) repeat(n *syntax.Node) frag {
	min, max := n.Min, n.Max
	switch {
	case max >= 0 && min > max:
		b.fail(InvertedBounds, n.Pos, "{%d,%d}: minimum exceeds maximum", min, max)
		return frag{-1, -1}
	case min > b.cfg.MaxRepeat || max > b.cfg.MaxRepeat:
		b.fail(RepeatTooLarge, n.Pos, "bound exceeds the limit of %d", b.cfg.MaxRepeat)
		return frag{-1, -1}
	}
	switch {
	case min == 0 && max == -1:
		return b.star(n.Sub, n.Greedy)
	case min == 1 && max == -1:
		return b.plus(n.Sub, n.Greedy)
	case min == 0 && max == 1:
		return b.quest(n.Sub, n.Greedy)
	case min == 0 && max == 0:
		s := b.newState()
		return frag{s, s}
	}

	// {m,n}: m mandatory copies followed by n-m optional ones, or by a
	// single loop when unbounded.
	f := frag{-1, -1}
	then := func(g frag) {
		if f.entry < 0 {
			f = g
			return
		}
		b.epsilon(f.exit, g.entry)
		f.exit = g.exit
	}
	for i := 0; i < min && b.err == nil; i++ {
		then(b.compile(n.Sub))
	}
	switch {
	case max == -1:
		then(b.star(n.Sub, n.Greedy))
	case max > min:
		k := max - min
		entries := make([]int, k)
		bodies := make([]frag, k)
		for i := 0; i < k && b.err == nil; i++ {
			entries[i] = b.newState()
			bodies[i] = b.compile(n.Sub)
			if i > 0 {
				b.epsilon(bodies[i-1].exit, entries[i])
			}
		}
		exit := b.newState()
		if b.err != nil {
			return frag{-1, -1}
		}
		b.epsilon(bodies[k-1].exit, exit)
		for i := range entries {
			b.split(entries[i], bodies[i].entry, exit, n.Greedy)
		}
		then(frag{entries[0], exit})
	}
	return f
}

func (b *builder) star(sub *syntax.Node, greedy bool) frag {
	entry := b.newState()
	body := b.compile(sub)
	exit := b.newState()
	b.split(entry, body.entry, exit, greedy)
	b.epsilon(body.exit, entry)
	return frag{entry, exit}
}

func (b *builder) plus(sub *syntax.Node, greedy bool) frag {
	body := b.compile(sub)
	exit := b.newState()
	b.split(body.exit, body.entry, exit, greedy)
	return frag{body.entry, exit}
}

func (b *builder) quest(sub *syntax.Node, greedy bool) frag {
	entry := b.newState()
	body := b.compile(sub)
	exit := b.newState()
	b.split(entry, body.entry, exit, greedy)
	b.epsilon(body.exit, exit)
	return frag{entry, exit}
}
