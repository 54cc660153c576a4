package eval

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"

	"ablpp/internal/token"
)

// Env supplies the session values returned by OPSYS, PROVERSION, PROPATH
// and PROCESS-ARCHITECTURE.
type Env interface {
	OpSys() string
	ProVersion() string
	Propath() []string
	ProcessArchitecture() int
}

// StaticEnv is an Env with fixed values.
type StaticEnv struct {
	OS      string
	Version string
	Path    []string
	Arch    int
}

func (e StaticEnv) OpSys() string            { return e.OS }
func (e StaticEnv) ProVersion() string       { return e.Version }
func (e StaticEnv) Propath() []string        { return e.Path }
func (e StaticEnv) ProcessArchitecture() int { return e.Arch }

// DefaultEnv matches a 64-bit Windows session of OpenEdge 11.6.
var DefaultEnv = StaticEnv{OS: "WIN32", Version: "11.6", Arch: 64}

// Evaluator evaluates conditions. It is not safe for concurrent use.
type Evaluator struct {
	env  Env
	fold cases.Caser
}

// New returns an evaluator bound to env; a nil env means DefaultEnv.
func New(env Env) *Evaluator {
	if env == nil {
		env = DefaultEnv
	}
	return &Evaluator{env: env, fold: cases.Fold()}
}

// Result is the outcome of a condition.
type Result struct {
	Value bool
	// Text is the rendered condition, or the raw lexemes when it did not parse.
	Text string
	Expr Expr
	// Err explains why the condition counted as false: a *SyntaxError,
	// an *UnsupportedError or an *Error.
	Err error
}

// Condition parses and evaluates the lexemes of an &IF or &ELSEIF
// condition. A condition that is empty, does not parse, calls an unsupported
// function or fails to evaluate is false. Unknown is false as well.
func (ev *Evaluator) Condition(toks []token.Token) Result {
	x, err := Parse(toks)
	if err != nil {
		return Result{Text: rawText(toks), Err: err}
	}
	res := Result{Text: x.String(), Expr: x}
	v, err := ev.Eval(x)
	if err != nil {
		res.Err = err
		return res
	}
	if v.IsUnknown() {
		return res
	}
	res.Value, res.Err = truth(v)
	return res
}

func rawText(toks []token.Token) string {
	parts := make([]string, 0, len(toks))
	for _, t := range toks {
		if t.Kind == token.WS || t.Kind == token.Comment {
			continue
		}
		parts = append(parts, t.Text)
	}
	return strings.Join(parts, " ")
}

// Eval computes the value of x.
func (ev *Evaluator) Eval(x Expr) (Value, error) {
	switch x := x.(type) {
	case *Literal:
		return x.Val, nil
	case *Paren:
		return ev.Eval(x.X)
	case *Unary:
		v, err := ev.Eval(x.X)
		if err != nil || v.IsUnknown() {
			return v, err
		}
		if x.Op == OpNot {
			b, err := truth(v)
			return BoolValue(!b), err
		}
		switch v.Kind {
		case Integer:
			return IntValue(-v.Int), nil
		case Decimal:
			return DecValue(-v.Dec), nil
		}
		return Value{}, errorf("cannot negate a %s value", v.Kind)
	case *Binary:
		l, err := ev.Eval(x.L)
		if err != nil {
			return Value{}, err
		}
		r, err := ev.Eval(x.R)
		if err != nil {
			return Value{}, err
		}
		return ev.binary(x.Op, l, r)
	case *Call:
		if !x.Supported {
			return Value{}, &UnsupportedError{Pos: x.Pos, Name: x.Name}
		}
		args := make([]Value, len(x.Args))
		for i, a := range x.Args {
			v, err := ev.Eval(a)
			if err != nil {
				return Value{}, err
			}
			args[i] = v
		}
		return builtinsByName[x.Name].fn(ev, args)
	}
	return Value{}, errorf("unexpected expression %T", x)
}

func (ev *Evaluator) binary(op Op, l, r Value) (Value, error) {
	switch op {
	case OpAnd, OpOr:
		lb, err := ev.logical(l)
		if err != nil {
			return Value{}, err
		}
		rb, err := ev.logical(r)
		if err != nil {
			return Value{}, err
		}
		if op == OpAnd {
			return BoolValue(lb && rb), nil
		}
		return BoolValue(lb || rb), nil
	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe:
		return ev.compareOp(op, l, r)
	case OpBegins, OpMatches:
		if l.IsUnknown() || r.IsUnknown() {
			return Value{}, nil
		}
		s, err := needString(l)
		if err != nil {
			return Value{}, err
		}
		pattern, err := needString(r)
		if err != nil {
			return Value{}, err
		}
		if op == OpBegins {
			return BoolValue(strings.HasPrefix(strings.ToLower(s), strings.ToLower(pattern))), nil
		}
		return BoolValue(matches(s, pattern)), nil
	case OpMod:
		if l.IsUnknown() || r.IsUnknown() {
			return Value{}, nil
		}
		if !l.isNumber() || !r.isNumber() {
			return Value{}, errorf("incompatible data type in expression")
		}
		a, b := int64(l.float()+.5), int64(r.float()+.5)
		if b == 0 {
			return Value{}, errorf("division by zero")
		}
		return IntValue(a % b), nil
	}
	return arith(op, l, r)
}

// logical treats unknown as false for AND and OR.
func (ev *Evaluator) logical(v Value) (bool, error) {
	if v.IsUnknown() {
		return false, nil
	}
	return truth(v)
}

func arith(op Op, l, r Value) (Value, error) {
	if l.IsUnknown() || r.IsUnknown() {
		return Value{}, nil
	}
	if op == OpAdd && l.Kind == Character && r.Kind == Character {
		return StrValue(l.Str + r.Str), nil
	}
	if l.Kind == Integer && r.Kind == Integer {
		a, b := l.Int, r.Int
		switch op {
		case OpAdd:
			return IntValue(a + b), nil
		case OpSub:
			return IntValue(a - b), nil
		case OpMul:
			return IntValue(a * b), nil
		case OpDiv:
			if b == 0 {
				return Value{}, errorf("division by zero")
			}
			return IntValue(a / b), nil
		}
	}
	if !l.isNumber() || !r.isNumber() {
		return Value{}, errorf("incompatible data type in expression")
	}
	a, b := l.float(), r.float()
	switch op {
	case OpAdd:
		return DecValue(a + b), nil
	case OpSub:
		return DecValue(a - b), nil
	case OpMul:
		return DecValue(a * b), nil
	case OpDiv:
		return DecValue(a / b), nil
	}
	return Value{}, errorf("operator %s is not arithmetic", op)
}

func (ev *Evaluator) compareOp(op Op, l, r Value) (Value, error) {
	c, known, err := ev.compare(l, r)
	if err != nil {
		return Value{}, err
	}
	if !known {
		// сравнение с '?' даёт '?', кроме <>
		if op == OpNe {
			return BoolValue(true), nil
		}
		return Value{}, nil
	}
	switch op {
	case OpEq:
		return BoolValue(c == 0), nil
	case OpNe:
		return BoolValue(c != 0), nil
	case OpLt:
		return BoolValue(c < 0), nil
	case OpLe:
		return BoolValue(c <= 0), nil
	case OpGt:
		return BoolValue(c > 0), nil
	default:
		return BoolValue(c >= 0), nil
	}
}

// compare orders two values. Two unknowns are equal; one unknown makes the
// result unknown (known is false). Strings compare case-insensitively with
// trailing blanks ignored.
func (ev *Evaluator) compare(l, r Value) (c int, known bool, err error) {
	switch {
	case l.IsUnknown() && r.IsUnknown():
		return 0, true, nil
	case l.IsUnknown() || r.IsUnknown():
		return 0, false, nil
	case l.Kind == Logical && r.Kind == Logical:
		switch {
		case l.Bool == r.Bool:
			return 0, true, nil
		case r.Bool:
			return -1, true, nil
		}
		return 1, true, nil
	case l.Kind == Character && r.Kind == Character:
		return strings.Compare(ev.compareKey(l.Str), ev.compareKey(r.Str)), true, nil
	case l.isNumber() && r.isNumber():
		a, b := l.float(), r.float()
		switch {
		case a < b:
			return -1, true, nil
		case a > b:
			return 1, true, nil
		}
		return 0, true, nil
	}
	return 0, false, errorf("incompatible data types in comparison expression")
}

func (ev *Evaluator) compareKey(s string) string {
	return strings.TrimRightFunc(ev.fold.String(s), unicode.IsSpace)
}

func needString(v Value) (string, error) {
	if v.Kind != Character {
		return "", errorf("expected a character value, got %s", v.Kind)
	}
	return v.Str, nil
}

func needInt(v Value) (int64, error) {
	if v.Kind != Integer {
		return 0, errorf("expected an integer value, got %s", v.Kind)
	}
	return v.Int, nil
}
