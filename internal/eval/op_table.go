package eval

import "ablpp/internal/token"

// Op is an operator of the condition language.
type Op uint8

const (
	OpOr Op = iota
	OpAnd
	OpNot
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpBegins
	OpMatches
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpNeg
)

var opText = [...]string{
	OpOr:      "||",
	OpAnd:     "&&",
	OpNot:     "!",
	OpEq:      "==",
	OpNe:      "!=",
	OpLt:      "<",
	OpLe:      "<=",
	OpGt:      ">",
	OpGe:      ">=",
	OpBegins:  "BEGINS",
	OpMatches: "MATCHES",
	OpAdd:     "+",
	OpSub:     "-",
	OpMul:     "*",
	OpDiv:     "/",
	OpMod:     "%",
	OpNeg:     "-",
}

func (op Op) String() string { return opText[op] }

// Таблица приоритетов: чем больше число, тем сильнее связывание.
// NOT стоит между AND и сравнениями: NOT a = b читается как NOT (a = b).
const (
	precOr         = 1
	precAnd        = 2
	precNot        = 3
	precComparison = 4 // = <> < <= > >= BEGINS MATCHES
	precAdditive   = 5
	precMultiply   = 6
)

// binaryOp maps a lexeme kind to its binary operator and precedence.
func binaryOp(kind token.Kind) (Op, int, bool) {
	switch kind {
	case token.KwOr:
		return OpOr, precOr, true
	case token.KwAnd:
		return OpAnd, precAnd, true

	case token.Equal, token.KwEQ:
		return OpEq, precComparison, true
	case token.GTorLT, token.KwNE:
		return OpNe, precComparison, true
	case token.LeftAngle, token.KwLT:
		return OpLt, precComparison, true
	case token.LTorEqual, token.KwLE:
		return OpLe, precComparison, true
	case token.RightAngle, token.KwGT:
		return OpGt, precComparison, true
	case token.GTorEqual, token.KwGE:
		return OpGe, precComparison, true
	case token.KwBegins:
		return OpBegins, precComparison, true
	case token.KwMatches:
		return OpMatches, precComparison, true

	case token.Plus:
		return OpAdd, precAdditive, true
	case token.Minus:
		return OpSub, precAdditive, true
	case token.Star:
		return OpMul, precMultiply, true
	case token.Slash:
		return OpDiv, precMultiply, true
	case token.KwModulo:
		return OpMod, precMultiply, true
	}
	return 0, -1, false
}
