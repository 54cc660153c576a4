package eval

import (
	"fmt"

	"ablpp/internal/diag"
	"ablpp/internal/source"
)

// SyntaxError reports a condition that does not parse.
type SyntaxError struct {
	Pos source.Pos
	Msg string
}

func (e *SyntaxError) Error() string { return e.Msg }

// Code is the diagnostic code for the error.
func (e *SyntaxError) Code() diag.Code { return diag.PreproBadCondition }

// UnsupportedError reports a call to a function outside the built-in library.
type UnsupportedError struct {
	Pos  source.Pos
	Name string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("function %s is not supported in preprocessor conditions", e.Name)
}

// Code is the diagnostic code for the error.
func (e *UnsupportedError) Code() diag.Code { return diag.PreproUnknownFunction }

// Error reports a failure while evaluating a parsed condition, such as
// incompatible operand types.
type Error struct {
	Msg string
}

func (e *Error) Error() string { return e.Msg }

// Code is the diagnostic code for the error.
func (e *Error) Code() diag.Code { return diag.PreproEvalError }

func errorf(format string, args ...any) *Error {
	return &Error{Msg: fmt.Sprintf(format, args...)}
}
