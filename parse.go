package serious

import (
	"sort"

	"github.com/samber/lo"
)

// Expr = ['-'] Term { Op Term | Implicit }
// Term = num | name | '(' Expr ')'
// Implicit = name | '(' Expr ')'
// Op = '+' | '-' | '*' | '/' | '^'
//
// An Implicit term following another term is a multiplication. A leading '-'
// subtracts the rest of the expression from zero, up to the first operator of
// the same precedence.

// Expr is a parsed expression that can be evaluated with bindings.
type Expr struct {
	// n is the root node of the expression.
	n *Node
	// names is the sorted list of identifiers used in the expression.
	names []rune
}

// Parse tokenizes and parses text.
func Parse(text string) (*Expr, error) {
	toks, err := Tokenize(text)
	if err != nil {
		return nil, err
	}
	return Build(toks)
}

// Build parses a complete token sequence, as returned from Tokenize, into an
// expression tree.
func Build(tokens []Token) (*Expr, error) {
	p := parser{toks: tokens, match: matchparens(tokens)}
	n, err := p.parseexpr(0, len(tokens))
	if err != nil {
		return nil, err
	}
	return &Expr{n: n, names: varnames(n)}, nil
}

type parser struct {
	toks []Token
	// match maps the index of each open paren to the index of its matching
	// close paren, or -1 if it has none.
	match []int
}

// matchparens pairs up parentheses in toks. Indices of tokens that are not
// open parens are left as -1, as are open parens with no match. Close parens
// with no match are left for the parser to report in order.
func matchparens(toks []Token) []int {
	match := make([]int, len(toks))
	var open []int
	for i, tok := range toks {
		match[i] = -1
		switch tok.Kind {
		case TokenOpen:
			open = append(open, i)
		case TokenClose:
			if len(open) > 0 {
				match[open[len(open)-1]] = i
				open = open[:len(open)-1]
			}
		}
	}
	return match
}

// parseexpr parses toks[start:end] as a whole expression. Each pending
// operator waits on ops until an operator that binds no tighter arrives or
// the range ends, at which point it is folded with the top two operands.
func (p *parser) parseexpr(start, end int) (*Node, error) {
	lhs, i, err := p.parseterm(start, end, true)
	if err != nil {
		return nil, err
	}
	terms := []*Node{lhs}
	var ops []operator
	for i < end {
		tok := p.toks[i]
		var op operator
		switch tok.Kind {
		case TokenOp:
			op = binop(tok.Op)
			i++
		case TokenIdent, TokenOpen:
			// x y -> (x) * (y)
			// x (expr) -> (x) * (expr)
			op = termprec
		case TokenNum:
			// Disallow x 3 so that 3x is the only way to write it.
			return nil, errat(BadParse, tok.Span, "constant on RHS of implicit multiplication")
		case TokenClose:
			// Ranges passed to parseexpr end at their matching paren, so this
			// one has no open paren.
			return nil, errat(BadParse, tok.Span, "expected expression")
		default:
			panic("serious: unknown token: " + tok.String())
		}
		for len(ops) > 0 && !op.moreBinding(ops[len(ops)-1]) {
			terms, ops = fold(terms, ops)
		}
		rhs, next, err := p.parseterm(i, end, false)
		if err != nil {
			return nil, err
		}
		terms = append(terms, rhs)
		ops = append(ops, op)
		i = next
	}
	for len(ops) > 0 {
		terms, ops = fold(terms, ops)
	}
	return terms[0], nil
}

// fold replaces the top two terms with the binary node joining them by the
// top operator.
func fold(terms []*Node, ops []operator) ([]*Node, []operator) {
	k := len(terms) - 2
	terms[k] = binary(terms[k], ops[len(ops)-1].op, terms[k+1])
	return terms[:k+1], ops[:len(ops)-1]
}

// parseterm parses the term beginning at toks[i], within a range ending at
// end. lhs indicates that the term begins an expression, where a minus sign
// is unary. The second result is the index of the token following the term.
func (p *parser) parseterm(i, end int, lhs bool) (*Node, int, error) {
	if i >= end {
		return nil, i, errat(BadParse, p.after(end), "expected expression")
	}
	tok := p.toks[i]
	switch tok.Kind {
	case TokenNum:
		return constant(tok.Value, tok.Span), i + 1, nil
	case TokenIdent:
		return ident(tok.Name, tok.Span), i + 1, nil
	case TokenOpen:
		k := p.match[i]
		if k < 0 || k >= end {
			return nil, i, errat(BadParse, tok.Span, "failed to match paren")
		}
		n, err := p.parseexpr(i+1, k)
		if err != nil {
			return nil, i, err
		}
		n.Span = tok.Span.Union(p.toks[k].Span)
		return n, k + 1, nil
	case TokenClose:
		return nil, i, errat(BadParse, tok.Span, "expected expression")
	case TokenOp:
		if tok.Op != Subtract {
			return nil, i, errat(BadParse, tok.Span, "expected expression")
		}
		if !lhs {
			// x*-y is ambiguous enough to reject.
			return nil, i, errat(BadParse, tok.Span, "expected expression; wrap in parens for unary minus")
		}
		// -x -> (0) - (x). Leave the minus for parseexpr to treat as binary.
		return constant(0, Span{tok.Span.Start, tok.Span.Start}), i, nil
	default:
		panic("serious: unknown token: " + tok.String())
	}
}

// after gets the span of the position following a range ending at end: the
// closing paren of the range if it has one, otherwise one past the last token.
func (p *parser) after(end int) Span {
	if end < len(p.toks) {
		return p.toks[end].Span
	}
	if len(p.toks) == 0 {
		return Span{0, 1}
	}
	e := p.toks[len(p.toks)-1].Span.End
	return Span{e, e + 1}
}

// varnames collects the sorted identifiers used in the tree rooted at n.
func varnames(n *Node) []rune {
	var names []rune
	n.walk(func(n *Node) {
		if n.Kind == NodeIdent {
			names = append(names, n.Name)
		}
	})
	names = lo.Uniq(names)
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Root returns the root node of the expression tree.
func (e *Expr) Root() *Node {
	return e.n
}

// Vars returns the identifiers the expression uses, in ascending order.
func (e *Expr) Vars() []rune {
	return append(([]rune)(nil), e.names...)
}

// String creates a string representation of the parsed expression, with
// parentheses around each term.
func (e *Expr) String() string {
	return e.n.String()
}

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
	// op is the operator to use when this operator is folded.
	op Operator
}

// moreBinding reports whether p, arriving after than, should take the most
// recent term as its left operand before than does.
func (p operator) moreBinding(than operator) bool {
	if p.prec != than.prec {
		return p.prec > than.prec
	}
	return p.right
}

// binop gets the precedence of a binary operator.
func binop(op Operator) operator {
	switch op {
	case Add, Subtract:
		return operator{0, false, op}
	case Multiply, Divide:
		return operator{1, false, op}
	case Exponentiate:
		return operator{2, true, op}
	default:
		panic("serious: invalid operator " + op.String())
	}
}

// termprec is the precedence of implicit multiplication. It must match that
// of explicit multiplication.
var termprec = binop(Multiply)
