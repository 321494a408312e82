package serious

import (
	"math"
	"strconv"
)

// Bindings maps single-letter identifiers to their values. Evaluation only
// reads bindings, so one Bindings may be shared by concurrent evaluations as
// long as nothing modifies it.
type Bindings map[rune]float64

// Eval evaluates the expression with the given bindings.
func (e *Expr) Eval(b Bindings) (float64, error) {
	return Eval(e.n, b)
}

// Eval evaluates the tree rooted at n. Operands are evaluated left before
// right, and the first error stops evaluation. Division by zero, 0^0, and any
// operation with an infinite or NaN result are UndefinedOperation errors.
func Eval(n *Node, b Bindings) (float64, error) {
	switch n.Kind {
	case NodeConst:
		return n.Value, nil
	case NodeIdent:
		v, ok := b[n.Name]
		if !ok {
			return 0, errat(UnboundIdentifier, n.Span, "identifier "+quoteChar(n.Name)+" is not bound")
		}
		return v, nil
	case NodeBinary:
		l, err := Eval(n.Left, b)
		if err != nil {
			return 0, err
		}
		r, err := Eval(n.Right, b)
		if err != nil {
			return 0, err
		}
		return apply(n, l, r)
	default:
		panic("serious: invalid node kind " + n.Kind.String())
	}
}

// apply computes the operation of the binary node n on its evaluated
// operands.
func apply(n *Node, l, r float64) (float64, error) {
	var v float64
	switch n.Op {
	case Add:
		v = l + r
	case Subtract:
		v = l - r
	case Multiply:
		v = l * r
	case Divide:
		// Checked first; IEEE division would give an infinity or NaN.
		if r == 0 {
			return 0, errat(UndefinedOperation, n.Span, "division by zero is undefined")
		}
		v = l / r
	case Exponentiate:
		// math.Pow gives 1 for 0^0, which we treat as undefined.
		if l == 0 && r == 0 {
			return 0, errat(UndefinedOperation, n.Span, opstr(l, n.Op, r)+" is undefined")
		}
		v = math.Pow(l, r)
	default:
		panic("serious: invalid operator " + n.Op.String())
	}
	switch {
	case math.IsInf(v, 0):
		return 0, errat(UndefinedOperation, n.Span, opstr(l, n.Op, r)+" is infinity")
	case math.IsNaN(v):
		return 0, errat(UndefinedOperation, n.Span, opstr(l, n.Op, r)+" is undefined")
	}
	return v, nil
}

// opstr formats an operation for an error message, e.g. "(2) ^ (0.5)".
func opstr(l float64, op Operator, r float64) string {
	return "(" + strconv.FormatFloat(l, 'g', -1, 64) + ") " + op.String() + " (" + strconv.FormatFloat(r, 'g', -1, 64) + ")"
}

// Run is a shortcut to parse and evaluate text.
func Run(text string, b Bindings) (float64, error) {
	e, err := Parse(text)
	if err != nil {
		return 0, err
	}
	return e.Eval(b)
}
