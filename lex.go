package serious

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Operator is one of the five binary operators.
type Operator int8

const (
	Add Operator = iota
	Subtract
	Multiply
	Divide
	Exponentiate
)

// Operators contains the bytes which are lexed as operators, in the order of
// the Operator constants.
const Operators = "+-*/^"

// String returns the operator's symbol.
func (op Operator) String() string {
	if op < 0 || int(op) >= len(Operators) {
		return "Operator(" + strconv.Itoa(int(op)) + ")"
	}
	return Operators[op : op+1]
}

// TokenKind is the kind of a lexed token.
type TokenKind int8

const (
	tokenNone TokenKind = iota
	// TokenOpen is an open parenthesis.
	TokenOpen
	// TokenClose is a close parenthesis.
	TokenClose
	// TokenOp is an operator. The token's Op field holds which.
	TokenOp
	// TokenNum is a numeric literal. The token's Value field holds its value.
	TokenNum
	// TokenIdent is a single-letter identifier. The token's Name field holds
	// the letter.
	TokenIdent
)

func (k TokenKind) String() string {
	switch k {
	case tokenNone:
		return "None"
	case TokenOpen:
		return "Open"
	case TokenClose:
		return "Close"
	case TokenOp:
		return "Op"
	case TokenNum:
		return "Num"
	case TokenIdent:
		return "Ident"
	default:
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Token is a lexed token along with its location in the source text.
type Token struct {
	Kind  TokenKind
	Op    Operator
	Value float64
	Name  rune
	Span  Span
}

func (t Token) String() string {
	var s string
	switch t.Kind {
	case TokenOpen:
		s = "("
	case TokenClose:
		s = ")"
	case TokenOp:
		s = t.Op.String()
	case TokenNum:
		s = strconv.FormatFloat(t.Value, 'g', -1, 64)
	case TokenIdent:
		s = string(t.Name)
	}
	return t.Kind.String() + ":" + s + "@" + t.Span.String()
}

type lexer struct {
	src  string
	toks []Token
	// num is the start of the numeric literal being scanned, or -1 if there
	// is none.
	num int
}

// Tokenize splits text into tokens. Digits and decimal points accumulate
// into numeric literals; each of ( ) + - * / ^ and each ASCII letter is a
// token by itself; spaces separate tokens. Any other character is an error.
func Tokenize(text string) ([]Token, error) {
	if text == "" {
		return nil, errat(BadParse, Span{0, 1}, "expected token")
	}
	l := lexer{src: text, num: -1}
	for i := 0; i < len(text); {
		c := text[i]
		if '0' <= c && c <= '9' || c == '.' {
			if l.num < 0 {
				l.num = i
			}
			i++
			continue
		}
		if err := l.flush(i); err != nil {
			return nil, err
		}
		sp := Span{i, i + 1}
		switch {
		case c == '(':
			l.emit(Token{Kind: TokenOpen, Span: sp})
		case c == ')':
			l.emit(Token{Kind: TokenClose, Span: sp})
		case c == ' ':
			// do nothing
		case isLetter(c):
			l.emit(Token{Kind: TokenIdent, Name: rune(c), Span: sp})
		default:
			k := strings.IndexByte(Operators, c)
			if k < 0 {
				r, sz := utf8.DecodeRuneInString(text[i:])
				return nil, errat(BadParse, Span{i, i + sz}, "invalid character "+quoteChar(r))
			}
			l.emit(Token{Kind: TokenOp, Op: Operator(k), Span: sp})
		}
		i++
	}
	if err := l.flush(len(text)); err != nil {
		return nil, err
	}
	return l.toks, nil
}

func (l *lexer) emit(tok Token) {
	l.toks = append(l.toks, tok)
}

// flush parses the pending numeric literal, which ends at byte end, if there
// is one.
func (l *lexer) flush(end int) error {
	if l.num < 0 {
		return nil
	}
	sp := Span{l.num, end}
	l.num = -1
	v, err := strconv.ParseFloat(sp.Text(l.src), 64)
	switch {
	case err == nil: // do nothing
	case errors.Is(err, strconv.ErrRange) && math.IsInf(v, 1):
		return errat(Overflow, sp, "number too large to fit in f64")
	default:
		return errat(BadParse, sp, "invalid float literal")
	}
	l.emit(Token{Kind: TokenNum, Value: v, Span: sp})
	return nil
}

func isLetter(c byte) bool {
	return 'A' <= c && c <= 'Z' || 'a' <= c && c <= 'z'
}

// quoteChar quotes a character in single quotes without escaping it, unless
// it is unprintable.
func quoteChar(r rune) string {
	if !strconv.IsPrint(r) {
		return strconv.QuoteRune(r)
	}
	return "'" + string(r) + "'"
}
