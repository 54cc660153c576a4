package eval

import (
	"strconv"
	"strings"
)

// ValueKind is the data type of a condition value.
type ValueKind uint8

const (
	// Unknown is the ABL unknown value '?'.
	Unknown ValueKind = iota
	Integer
	Decimal
	Character
	Logical
)

func (k ValueKind) String() string {
	switch k {
	case Integer:
		return "INTEGER"
	case Decimal:
		return "DECIMAL"
	case Character:
		return "CHARACTER"
	case Logical:
		return "LOGICAL"
	default:
		return "UNKNOWN"
	}
}

// Value is the result of evaluating an expression node.
type Value struct {
	Kind ValueKind
	Int  int64
	Dec  float64
	Str  string
	Bool bool
}

// конструкторы
func IntValue(n int64) Value   { return Value{Kind: Integer, Int: n} }
func DecValue(f float64) Value { return Value{Kind: Decimal, Dec: f} }
func StrValue(s string) Value  { return Value{Kind: Character, Str: s} }
func BoolValue(b bool) Value   { return Value{Kind: Logical, Bool: b} }

// IsUnknown reports whether v is '?'.
func (v Value) IsUnknown() bool { return v.Kind == Unknown }

func (v Value) isNumber() bool { return v.Kind == Integer || v.Kind == Decimal }

func (v Value) float() float64 {
	if v.Kind == Integer {
		return float64(v.Int)
	}
	return v.Dec
}

// String renders v the way ABL's STRING() does: '?' for unknown and yes/no
// for logicals.
func (v Value) String() string {
	switch v.Kind {
	case Integer:
		return strconv.FormatInt(v.Int, 10)
	case Decimal:
		s := strconv.FormatFloat(v.Dec, 'f', -1, 64)
		if !strings.ContainsRune(s, '.') {
			s += ".0"
		}
		return s
	case Character:
		return v.Str
	case Logical:
		if v.Bool {
			return "yes"
		}
		return "no"
	default:
		return "?"
	}
}

// truth converts v to a logical. Only characters (non-empty), logicals and
// integers convert; decimals do not.
func truth(v Value) (bool, error) {
	switch v.Kind {
	case Character:
		return v.Str != "", nil
	case Logical:
		return v.Bool, nil
	case Integer:
		return v.Int != 0, nil
	}
	return false, errorf("cannot use %s value as a logical", v.Kind)
}

// parseNumber converts text to a number. A trailing '-' is a sign ("256-"),
// a leading '+' is dropped, a '.' makes a decimal and the empty text is 0.
func parseNumber(text string) (Value, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return IntValue(0), nil
	}
	if strings.HasSuffix(s, "-") {
		s = "-" + s[:len(s)-1]
	}
	s = strings.TrimPrefix(s, "+")
	if strings.ContainsRune(s, '.') {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Value{}, errorf("lexical cast to number from '%s' failed", text)
		}
		return DecValue(f), nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return Value{}, errorf("lexical cast to number from '%s' failed", text)
	}
	return IntValue(n), nil
}

// stripQuotes returns the contents of a quoted string lexeme: the quotes and
// any :attribute suffix removed, doubled quotes collapsed.
func stripQuotes(s string) string {
	if len(s) < 2 {
		return s
	}
	q := s[0]
	if q != '"' && q != '\'' {
		return s
	}
	end := strings.LastIndexByte(s, q)
	if end < 1 {
		return s
	}
	return strings.ReplaceAll(s[1:end], string([]byte{q, q}), string(q))
}
