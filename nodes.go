package serious

import (
	"strconv"
	"strings"
)

// Node is a node in the tree of a parsed expression. Each node exclusively
// owns its children.
type Node struct {
	Kind NodeKind
	// Value is the value of a NodeConst.
	Value float64
	// Name is the letter of a NodeIdent.
	Name rune
	// Op, Left, and Right are the operator and operands of a NodeBinary.
	Op          Operator
	Left, Right *Node
	// Span is the location of the node in the source. For binary nodes, it
	// covers both operands, plus the parentheses if the node was
	// parenthesized. The zero inserted for a unary minus has an empty span
	// at the minus sign.
	Span Span
}

// NodeKind is the kind of a Node.
type NodeKind int8

const (
	nodeNone NodeKind = iota

	NodeConst  // Value
	NodeIdent  // lookup(Name)
	NodeBinary // Left Op Right
)

func (k NodeKind) String() string {
	switch k {
	case nodeNone:
		return "None"
	case NodeConst:
		return "Const"
	case NodeIdent:
		return "Ident"
	case NodeBinary:
		return "Binary"
	default:
		return "NodeKind(" + strconv.Itoa(int(k)) + ")"
	}
}

func constant(v float64, sp Span) *Node {
	return &Node{Kind: NodeConst, Value: v, Span: sp}
}

func ident(name rune, sp Span) *Node {
	return &Node{Kind: NodeIdent, Name: name, Span: sp}
}

func binary(l *Node, op Operator, r *Node) *Node {
	return &Node{Kind: NodeBinary, Op: op, Left: l, Right: r, Span: l.Span.Union(r.Span)}
}

func (n *Node) String() string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

// fmt writes n with every node parenthesized. Constants are written without
// exponents so that the result lexes back to the same tree.
func (n *Node) fmt(b *strings.Builder) {
	b.WriteByte('(')
	defer b.WriteByte(')')
	switch n.Kind {
	case NodeConst:
		b.WriteString(strconv.FormatFloat(n.Value, 'f', -1, 64))
	case NodeIdent:
		b.WriteRune(n.Name)
	case NodeBinary:
		n.Left.fmt(b)
		b.WriteByte(' ')
		b.WriteString(n.Op.String())
		b.WriteByte(' ')
		n.Right.fmt(b)
	default:
		panic("serious: invalid node kind " + n.Kind.String() + " after writing " + b.String())
	}
}

// walk calls f on each node of the tree rooted at n in post-order.
func (n *Node) walk(f func(*Node)) {
	if n == nil {
		return
	}
	n.Left.walk(f)
	n.Right.walk(f)
	f(n)
}
