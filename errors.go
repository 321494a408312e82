package serious

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Span is a half-open range [Start, End) of byte offsets into the source text
// of an expression.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of bytes the span covers.
func (s Span) Len() int {
	return s.End - s.Start
}

// Union returns the smallest span that covers both s and t.
func (s Span) Union(t Span) Span {
	if t.Start < s.Start {
		s.Start = t.Start
	}
	if t.End > s.End {
		s.End = t.End
	}
	return s
}

// Text returns the part of src covered by the span, clamped to the bounds of
// src.
func (s Span) Text(src string) string {
	start, end := clamp(s.Start, len(src)), clamp(s.End, len(src))
	if end < start {
		return ""
	}
	return src[start:end]
}

func (s Span) String() string {
	return "[" + strconv.Itoa(s.Start) + "," + strconv.Itoa(s.End) + ")"
}

func clamp(x, n int) int {
	switch {
	case x < 0:
		return 0
	case x > n:
		return n
	default:
		return x
	}
}

// Kind classifies an Error. Kind implements error so that it can be used as
// the target of errors.Is.
type Kind int

const (
	// BadParse is a lexical or syntactic failure: a malformed literal, an
	// invalid character, unmatched parentheses, or a misplaced operator.
	BadParse Kind = iota + 1
	// UnboundIdentifier is an identifier with no value in the bindings.
	UnboundIdentifier
	// UndefinedOperation is a division by zero, 0^0, or an operation whose
	// result is infinite or NaN.
	UndefinedOperation
	// Overflow is a numeric literal too large to represent. Overflow errors
	// also match BadParse.
	Overflow
)

func (k Kind) String() string {
	switch k {
	case BadParse:
		return "bad parse"
	case UnboundIdentifier:
		return "unbound identifier"
	case UndefinedOperation:
		return "undefined operation"
	case Overflow:
		return "overflow"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

func (k Kind) Error() string {
	return k.String()
}

// MarshalText encodes the kind as its name with spaces replaced by
// underscores, e.g. "bad_parse".
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(strings.ReplaceAll(k.String(), " ", "_")), nil
}

// Error is the error produced by every stage of evaluation. Its Span always
// refers to the original source text, so it can be used to point at the
// offending part of the input.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Span    Span   `json:"span"`
}

func (err *Error) Error() string {
	return err.Span.String() + " " + err.Kind.String() + ": " + err.Message
}

// Is reports whether target is the Kind of err. An Overflow error is also a
// BadParse.
func (err *Error) Is(target error) bool {
	k, ok := target.(Kind)
	if !ok {
		return false
	}
	return k == err.Kind || err.Kind == Overflow && k == BadParse
}

// Underline renders src on one line followed by a line of carets beneath the
// part of src that caused the error. Empty spans and spans past the end of
// src get a single caret.
func (err *Error) Underline(src string) string {
	start := clamp(err.Span.Start, len(src))
	end := clamp(err.Span.End, len(src))
	col := utf8.RuneCountInString(src[:start])
	w := 1
	if end > start {
		w = utf8.RuneCountInString(src[start:end])
	}
	var b strings.Builder
	b.Grow(len(src) + 1 + col + w)
	b.WriteString(src)
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(" ", col))
	b.WriteString(strings.Repeat("^", w))
	return b.String()
}

// errat is a shortcut to create an error of a given kind.
func errat(kind Kind, span Span, msg string) *Error {
	return &Error{Kind: kind, Message: msg, Span: span}
}
