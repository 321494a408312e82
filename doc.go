// Package serious evaluates concise mathematical expressions to float64.
//
// The syntax is meant to look like math you'd write in your notes.
// Identifiers are single ASCII letters, so "2xy" is a multiplication of three
// terms, as is "2x(y)". A constant cannot follow another term implicitly:
// "x3" is an error, write "3x" instead. The operators, from most to least
// binding, are ^ (right-associative), * and /, then + and -. A leading minus
// sign is subtraction from zero, so "-2x^2" is "0 - (2 (x^2))"; it is not
// allowed directly after another operator, so "3*-x" must be "3*(-x)".
//
// Every error is an *Error with a Span of byte offsets into the source text,
// which Underline can render for diagnostics. Infinite and NaN results are
// errors rather than values.
//
// Parsing and evaluation have no shared state, so they are safe to call
// concurrently.
package serious
