package expr

import (
	"errors"
	"fmt"
)

// ParseError is returned for expressions that do not fit the grammar.
type ParseError struct {
	Pos     int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at column %d: %s", e.Pos, e.Message)
}

// ErrNotBoolean is returned when an expression yields a number where a
// boolean is required.
var ErrNotBoolean = errors.New("expression does not yield a boolean")

// TypeError is returned when an operator is applied to operands of the wrong type.
type TypeError struct {
	Op   Kind
	Want string
	Got  string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("operator %s expects %s, got %s", e.Op, e.Want, e.Got)
}

// Common error messages
const (
	errUnexpectedToken = "unexpected token %q, expected %s"
	errIllegalChar     = "illegal character %q"
	errInvalidNumber   = "invalid number literal %q"
	errTrailingInput   = "unexpected %q after end of expression"
)
