package eval

import (
	"strings"

	"ablpp/internal/source"
)

// Expr is a node of a parsed condition. String renders it in a compact
// C-like form (&&, ||, ==, !) that tooling shows for the branch taken.
type Expr interface {
	String() string
	Position() source.Pos
}

// Literal is a number, a quoted string, TRUE/FALSE or '?'.
type Literal struct {
	Pos  source.Pos
	Text string // как в исходнике
	Val  Value
}

// Paren is an expression in parentheses.
type Paren struct {
	Pos source.Pos
	X   Expr
}

// Unary is NOT or unary minus.
type Unary struct {
	Pos source.Pos
	Op  Op
	X   Expr
}

// Binary is an infix operation.
type Binary struct {
	Op   Op
	L, R Expr
}

// Call is a built-in function. Bare environment queries such as OPSYS have
// no argument list. Supported is false for names outside the library.
type Call struct {
	Pos       source.Pos
	Name      string
	Args      []Expr
	Bare      bool
	Supported bool
}

func (e *Literal) String() string { return e.Text }
func (e *Paren) String() string   { return "(" + e.X.String() + ")" }
func (e *Unary) String() string   { return e.Op.String() + e.X.String() }
func (e *Binary) String() string {
	return e.L.String() + " " + e.Op.String() + " " + e.R.String()
}

func (e *Call) String() string {
	if e.Bare {
		return e.Name
	}
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.String()
	}
	return e.Name + "(" + strings.Join(args, ",") + ")"
}

func (e *Literal) Position() source.Pos { return e.Pos }
func (e *Paren) Position() source.Pos   { return e.Pos }
func (e *Unary) Position() source.Pos   { return e.Pos }
func (e *Binary) Position() source.Pos  { return e.L.Position() }
func (e *Call) Position() source.Pos    { return e.Pos }
