package syntax

import (
	"fmt"
	"strings"
)

type Op uint8

const (
	OpEmpty     Op = iota // ε
	OpLiteral             // single rune
	OpClass               // character class
	OpAny                 // .
	OpConcat              // xy
	OpAlternate           // x|y
	OpRepeat              // x*, x+, x?, x{m,n}
	OpGroup               // ( ... )
	OpAnchor              // ^ $
)

// Anchor is a zero-width assertion about the current text position.
type Anchor uint8

const (
	BeginText Anchor = iota
	EndText
	BeginLine
	EndLine
)

func (a Anchor) String() string {
	switch a {
	case BeginText:
		return "^"
	case EndText:
		return "$"
	case BeginLine:
		return "(?m)^"
	case EndLine:
		return "(?m)$"
	}
	return "?"
}

// Flags change how the parser reads a pattern.
type Flags uint8

const (
	DotAll          Flags = 1 << iota // . also matches \n
	Multiline                         // ^ and $ also match at line boundaries
	CaseInsensitive                   // literals and classes match all case folds
)

// Node is one element of the pattern tree. Which fields are meaningful
// depends on Op.
type Node struct {
	Op  Op
	Pos int // byte offset of the node in the pattern

	Rune  rune       // OpLiteral
	Class *CharClass // OpClass
	Label string     // OpClass: source spelling, used by graph labels

	Subs []*Node // OpConcat, OpAlternate
	Sub  *Node   // OpRepeat, OpGroup

	Min, Max int // OpRepeat; Max == -1 means unbounded
	Greedy   bool

	Capture bool   // OpGroup
	Index   int    // OpGroup: 0-based capture index
	Name    string // OpGroup: optional group name

	Anchor Anchor // OpAnchor
}

// Tree is a parsed pattern.
type Tree struct {
	Pattern   string
	Root      *Node
	Flags     Flags
	NumGroups int
	Names     []string // Names[i] is the name of group i, "" when unnamed
}

// String renders the node as a compact s-expression; tests use it to
// check the shape of parsed patterns.
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	switch n.Op {
	case OpEmpty:
		b.WriteString("empty")
	case OpLiteral:
		fmt.Fprintf(b, "lit(%c)", n.Rune)
	case OpClass:
		fmt.Fprintf(b, "class(%s)", n.Label)
	case OpAny:
		b.WriteString("any")
	case OpAnchor:
		b.WriteString(n.Anchor.String())
	case OpConcat, OpAlternate:
		if n.Op == OpConcat {
			b.WriteString("cat(")
		} else {
			b.WriteString("alt(")
		}
		for i, s := range n.Subs {
			if i > 0 {
				b.WriteByte(' ')
			}
			s.write(b)
		}
		b.WriteByte(')')
	case OpRepeat:
		max := "inf"
		if n.Max >= 0 {
			max = fmt.Sprint(n.Max)
		}
		fmt.Fprintf(b, "rep{%d,%s}", n.Min, max)
		if !n.Greedy {
			b.WriteByte('?')
		}
		b.WriteByte('(')
		n.Sub.write(b)
		b.WriteByte(')')
	case OpGroup:
		switch {
		case !n.Capture:
			b.WriteString("group(")
		case n.Name != "":
			fmt.Fprintf(b, "cap%d<%s>(", n.Index, n.Name)
		default:
			fmt.Fprintf(b, "cap%d(", n.Index)
		}
		n.Sub.write(b)
		b.WriteByte(')')
	default:
		fmt.Fprintf(b, "op%d", n.Op)
	}
}
