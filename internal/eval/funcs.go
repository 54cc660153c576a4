package eval

import (
	"math"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"ablpp/internal/token"
)

type builtin struct {
	kind     token.Kind
	name     string
	min, max int  // max < 0: без ограничения
	bare     bool // допускается без скобок
	fn       func(ev *Evaluator, args []Value) (Value, error)
}

var library = []builtin{
	{token.KwAbsolute, "ABSOLUTE", 1, 1, false, fnAbsolute},
	{token.KwDBType, "DBTYPE", 0, 1, true, fnDBType},
	{token.KwDecimal, "DECIMAL", 1, 1, false, fnDecimal},
	{token.KwEntry, "ENTRY", 2, 3, false, fnEntry},
	{token.KwIndex, "INDEX", 2, 3, false, fnIndex},
	{token.KwInt64, "INT64", 1, 1, false, fnInteger},
	{token.KwInteger, "INTEGER", 1, 1, false, fnInteger},
	{token.KwKeyword, "KEYWORD", 1, 1, false, fnKeyword},
	{token.KwKeywordAll, "KEYWORD-ALL", 1, 1, false, fnKeywordAll},
	{token.KwLeftTrim, "LEFT-TRIM", 1, 2, false, fnLeftTrim},
	{token.KwLength, "LENGTH", 1, 2, false, fnLength},
	{token.KwLookup, "LOOKUP", 2, 3, false, fnLookup},
	{token.KwMaximum, "MAXIMUM", 2, -1, false, fnMaximum},
	{token.KwMinimum, "MINIMUM", 2, -1, false, fnMinimum},
	{token.KwNumEntries, "NUM-ENTRIES", 1, 2, false, fnNumEntries},
	{token.KwOpsys, "OPSYS", 0, 0, true, fnOpSys},
	{token.KwProcessArchitecture, "PROCESS-ARCHITECTURE", 0, 0, true, fnArchitecture},
	{token.KwPropath, "PROPATH", 0, 0, true, fnPropath},
	{token.KwProversion, "PROVERSION", 0, 0, true, fnProVersion},
	{token.KwRandom, "RANDOM", 0, 3, false, fnRandom},
	{token.KwReplace, "REPLACE", 3, 3, false, fnReplace},
	{token.KwRightTrim, "RIGHT-TRIM", 1, 2, false, fnRightTrim},
	{token.KwRIndex, "R-INDEX", 2, 3, false, fnRIndex},
	{token.KwSubstring, "SUBSTRING", 2, 4, false, fnSubstring},
	{token.KwTrim, "TRIM", 1, 2, false, fnTrim},
}

var (
	builtins       = make(map[token.Kind]*builtin, len(library))
	builtinsByName = make(map[string]*builtin, len(library))
)

// Functions returns the names of the built-in functions usable in &IF
// conditions, in alphabetical order.
func Functions() []string {
	out := make([]string, len(library))
	for i := range library {
		out[i] = library[i].name
	}
	slices.Sort(out)
	return out
}

func init() {
	for i := range library {
		b := &library[i]
		builtins[b.kind] = b
		builtinsByName[b.name] = b
	}
}

func anyUnknown(args []Value) bool {
	for _, a := range args {
		if a.IsUnknown() {
			return true
		}
	}
	return false
}

func fnOpSys(ev *Evaluator, _ []Value) (Value, error) { return StrValue(ev.env.OpSys()), nil }

func fnProVersion(ev *Evaluator, _ []Value) (Value, error) {
	return StrValue(ev.env.ProVersion()), nil
}

func fnPropath(ev *Evaluator, _ []Value) (Value, error) {
	return StrValue(strings.Join(ev.env.Propath(), ",")), nil
}

func fnArchitecture(ev *Evaluator, _ []Value) (Value, error) {
	return IntValue(int64(ev.env.ProcessArchitecture())), nil
}

func fnDBType(*Evaluator, []Value) (Value, error) { return StrValue("PROGRESS"), nil }

// RANDOM is constant so that preprocessing stays reproducible.
func fnRandom(*Evaluator, []Value) (Value, error) { return IntValue(4), nil }

func fnAbsolute(_ *Evaluator, args []Value) (Value, error) {
	switch v := args[0]; v.Kind {
	case Unknown:
		return v, nil
	case Integer:
		if v.Int < 0 {
			return IntValue(-v.Int), nil
		}
		return v, nil
	case Decimal:
		return DecValue(math.Abs(v.Dec)), nil
	}
	return Value{}, errorf("ABSOLUTE expects a number, got %s", args[0].Kind)
}

// toNumber converts for INTEGER and DECIMAL: strings are parsed, logicals
// become 1 or 0.
func toNumber(v Value) (Value, error) {
	switch v.Kind {
	case Integer, Decimal, Unknown:
		return v, nil
	case Character:
		return parseNumber(v.Str)
	}
	if v.Bool {
		return IntValue(1), nil
	}
	return IntValue(0), nil
}

func fnInteger(_ *Evaluator, args []Value) (Value, error) {
	v, err := toNumber(args[0])
	if err != nil || v.Kind != Decimal {
		return v, err
	}
	return IntValue(int64(math.Floor(v.Dec + .5))), nil
}

func fnDecimal(_ *Evaluator, args []Value) (Value, error) {
	v, err := toNumber(args[0])
	if err != nil || v.Kind != Integer {
		return v, err
	}
	return DecValue(float64(v.Int)), nil
}

func fnEntry(_ *Evaluator, args []Value) (Value, error) {
	if args[0].IsUnknown() || args[1].IsUnknown() {
		return Value{}, nil
	}
	n, err := needInt(args[0])
	if err != nil {
		return Value{}, err
	}
	list, err := needString(args[1])
	if err != nil {
		return Value{}, err
	}
	delim := ","
	if len(args) > 2 && !args[2].IsUnknown() {
		if delim, err = needString(args[2]); err != nil {
			return Value{}, err
		}
		if delim == "" {
			delim = " "
		}
		_, size := utf8.DecodeRuneInString(delim)
		delim = delim[:size]
	}
	if n < 1 {
		return Value{}, errorf("ENTRY function received non-positive number")
	}
	entries := splitFold(list, delim)
	if n > int64(len(entries)) {
		return StrValue(""), nil
	}
	return StrValue(entries[n-1]), nil
}

func fnIndex(_ *Evaluator, args []Value) (Value, error) {
	if args[0].IsUnknown() || args[1].IsUnknown() {
		return IntValue(0), nil
	}
	return index(args, false)
}

func fnRIndex(_ *Evaluator, args []Value) (Value, error) {
	if anyUnknown(args) {
		return Value{}, nil
	}
	return index(args, true)
}

// index implements INDEX and R-INDEX: case-insensitive, positions count
// from 1, zero means not found.
func index(args []Value, last bool) (Value, error) {
	src, err := needString(args[0])
	if err != nil {
		return Value{}, err
	}
	target, err := needString(args[1])
	if err != nil {
		return Value{}, err
	}
	if src == "" || target == "" {
		return IntValue(0), nil
	}
	s, t := []rune(strings.ToLower(src)), []rune(strings.ToLower(target))
	from := -1
	if len(args) > 2 && !args[2].IsUnknown() {
		start, err := needInt(args[2])
		if err != nil {
			return Value{}, err
		}
		from = int(start) - 1
	}
	if last {
		if from < 0 && len(args) > 2 {
			return IntValue(0), nil
		}
		if from < 0 || from > len(s)-len(t) {
			from = len(s) - len(t)
		}
		for i := from; i >= 0; i-- {
			if runesEqual(s[i:i+len(t)], t) {
				return IntValue(int64(i + 1)), nil
			}
		}
		return IntValue(0), nil
	}
	for i := max(from, 0); i+len(t) <= len(s); i++ {
		if runesEqual(s[i:i+len(t)], t) {
			return IntValue(int64(i + 1)), nil
		}
	}
	return IntValue(0), nil
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func fnKeyword(_ *Evaluator, args []Value) (Value, error) { return keyword(args[0], true) }

func fnKeywordAll(_ *Evaluator, args []Value) (Value, error) { return keyword(args[0], false) }

func keyword(v Value, reservedOnly bool) (Value, error) {
	if v.IsUnknown() {
		return v, nil
	}
	s, err := needString(v)
	if err != nil {
		return Value{}, err
	}
	name, ok := token.KeywordName(strings.TrimSpace(s), reservedOnly)
	if !ok {
		return Value{}, nil
	}
	return StrValue(name), nil
}

func fnLeftTrim(_ *Evaluator, args []Value) (Value, error) {
	return trim(args, true, false)
}

func fnRightTrim(_ *Evaluator, args []Value) (Value, error) {
	return trim(args, false, true)
}

func fnTrim(_ *Evaluator, args []Value) (Value, error) {
	return trim(args, true, true)
}

// trim strips whitespace, or any of the given characters in either case.
func trim(args []Value, left, right bool) (Value, error) {
	if anyUnknown(args) {
		return Value{}, nil
	}
	s, err := needString(args[0])
	if err != nil {
		return Value{}, err
	}
	cut := unicode.IsSpace
	if len(args) > 1 {
		chars, err := needString(args[1])
		if err != nil {
			return Value{}, err
		}
		lower := strings.ToLower(chars)
		cut = func(r rune) bool { return strings.ContainsRune(lower, unicode.ToLower(r)) }
	}
	if left {
		s = strings.TrimLeftFunc(s, cut)
	}
	if right {
		s = strings.TrimRightFunc(s, cut)
	}
	return StrValue(s), nil
}

func fnLength(_ *Evaluator, args []Value) (Value, error) {
	if args[0].IsUnknown() {
		return Value{}, nil
	}
	return IntValue(int64(utf8.RuneCountInString(args[0].String()))), nil
}

// fnLookup: LOOKUP(expr, list [, delim]). An expression holding the
// delimiter matches a run of entries: LOOKUP("a,b", "x,a,b") is 2.
func fnLookup(_ *Evaluator, args []Value) (Value, error) {
	if args[0].IsUnknown() || args[1].IsUnknown() {
		return Value{}, nil
	}
	a, err := needString(args[0])
	if err != nil {
		return Value{}, err
	}
	b, err := needString(args[1])
	if err != nil {
		return Value{}, err
	}
	delim := ","
	if len(args) > 2 && !args[2].IsUnknown() {
		if delim, err = needString(args[2]); err != nil {
			return Value{}, err
		}
		if delim == "" {
			delim = ","
		}
	}
	a, b, delim = strings.ToLower(a), strings.ToLower(b), strings.ToLower(delim)
	expr := strings.Split(a, delim)
	list := strings.Split(b, delim)
	for i := 0; i+len(expr) <= len(list); i++ {
		if equalStrings(list[i:i+len(expr)], expr) {
			return IntValue(int64(i + 1)), nil
		}
	}
	return IntValue(0), nil
}

func equalStrings(a, b []string) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func fnMaximum(ev *Evaluator, args []Value) (Value, error) { return ev.extreme(args, 1) }

func fnMinimum(ev *Evaluator, args []Value) (Value, error) { return ev.extreme(args, -1) }

func (ev *Evaluator) extreme(args []Value, sign int) (Value, error) {
	if anyUnknown(args) {
		return Value{}, nil
	}
	best := args[0]
	for _, v := range args[1:] {
		c, _, err := ev.compare(v, best)
		if err != nil {
			return Value{}, err
		}
		if c*sign > 0 {
			best = v
		}
	}
	return best, nil
}

func fnNumEntries(_ *Evaluator, args []Value) (Value, error) {
	if anyUnknown(args) {
		return Value{}, nil
	}
	s, err := needString(args[0])
	if err != nil {
		return Value{}, err
	}
	if s == "" {
		return IntValue(0), nil
	}
	delim := ","
	if len(args) > 1 {
		if delim, err = needString(args[1]); err != nil {
			return Value{}, err
		}
		if delim == "" {
			delim = ","
		}
	}
	return IntValue(int64(len(splitFold(s, delim)))), nil
}

func fnReplace(_ *Evaluator, args []Value) (Value, error) {
	if anyUnknown(args) {
		return Value{}, nil
	}
	var s [3]string
	for i := range s {
		str, err := needString(args[i])
		if err != nil {
			return Value{}, err
		}
		s[i] = str
	}
	if s[1] == "" {
		return StrValue(s[0]), nil
	}
	return StrValue(strings.Join(splitFold(s[0], s[1]), s[2])), nil
}

// fnSubstring supports only the CHARACTER type.
func fnSubstring(_ *Evaluator, args []Value) (Value, error) {
	if args[0].IsUnknown() {
		return Value{}, nil
	}
	s, err := needString(args[0])
	if err != nil {
		return Value{}, err
	}
	start, err := needInt(args[1])
	if err != nil {
		return Value{}, err
	}
	length := int64(-1)
	if len(args) > 2 && !args[2].IsUnknown() {
		if length, err = needInt(args[2]); err != nil {
			return Value{}, err
		}
	}
	if len(args) > 3 {
		typ, err := needString(args[3])
		if err != nil {
			return Value{}, err
		}
		if !strings.EqualFold(strings.TrimSpace(typ), "CHARACTER") {
			return Value{}, errorf("FIXED / COLUMN / RAW options of SUBSTRING function not yet supported")
		}
	}
	rs := []rune(s)
	pos := max(start-1, 0)
	if pos >= int64(len(rs)) {
		return StrValue(""), nil
	}
	if length == -1 {
		return StrValue(string(rs[pos:])), nil
	}
	end := min(pos+max(length, 0), int64(len(rs)))
	return StrValue(string(rs[pos:end])), nil
}

// splitFold splits s around each occurrence of sep, matching case-insensitively.
// Empty entries, trailing ones included, are kept.
func splitFold(s, sep string) []string {
	rs, ps := []rune(s), []rune(strings.ToLower(sep))
	if len(ps) == 0 {
		return []string{s}
	}
	var out []string
	start := 0
	for i := 0; i+len(ps) <= len(rs); {
		if foldPrefix(rs[i:], ps) {
			out = append(out, string(rs[start:i]))
			i += len(ps)
			start = i
			continue
		}
		i++
	}
	return append(out, string(rs[start:]))
}

func foldPrefix(s, lowerPrefix []rune) bool {
	for i, r := range lowerPrefix {
		if unicode.ToLower(s[i]) != r {
			return false
		}
	}
	return true
}
