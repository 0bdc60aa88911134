package expr

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax is wrapped by every *SyntaxError.
	ErrSyntax = errors.New("syntax error")

	// ErrDivisionByZero is returned when a divisor evaluates to exactly zero.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrDomain is returned for a square root of a negative operand or
	// a non-finite result.
	ErrDomain = errors.New("domain error")

	// ErrInvalidExpression is returned when operators and operands do not
	// balance during evaluation.
	ErrInvalidExpression = errors.New("invalid expression")
)

// SyntaxError describes why a string could not be parsed.
type SyntaxError struct {
	// Pos is the byte offset of the offending token, or -1 when the
	// problem is at the end of input.
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	if e.Pos < 0 {
		return fmt.Sprintf("syntax error at end of input: %s", e.Msg)
	}
	return fmt.Sprintf("syntax error at offset %d: %s", e.Pos, e.Msg)
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}
