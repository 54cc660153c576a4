package lexer

import (
	"strconv"
	"strings"
)

// RefKind classifies the text of a {...} reference.
type RefKind uint8

const (
	// RefEmpty is "{ }", ignored.
	RefEmpty RefKind = iota
	// RefProparse is "{&_proparse_ text}".
	RefProparse
	// RefAllArgs is "{*}".
	RefAllArgs
	// RefAllNamedArgs is "{&*}".
	RefAllNamedArgs
	// RefNumbered is "{N}".
	RefNumbered
	// RefNamed is "{&name}": a macro or a named include argument.
	RefNamed
	// RefInclude is "{file args...}".
	RefInclude
)

// IncludeArg is one argument of an include reference. Name is empty for positional arguments.
type IncludeArg struct {
	Name  string
	Value string
	// HasValue is false for a named argument written without '='.
	HasValue bool
}

// RefSpec is a parsed {...} reference.
type RefSpec struct {
	Kind RefKind
	// Name is the lowercased macro name, the include file name, or the directive text.
	Name   string
	Number int
	Args   []IncludeArg
	// NamedArgs is set when the include arguments use the &name=value form.
	NamedArgs bool
}

// ParseReference classifies ref, the full text including both braces.
// Proparse directives are only recognized when directives is set.
func ParseReference(ref string, directives bool) RefSpec {
	closing := len(ref) - 1
	body := ref[1:closing]
	switch {
	case directives && strings.HasPrefix(strings.ToLower(ref), "{&_proparse_"):
		return RefSpec{Kind: RefProparse, Name: strings.TrimSpace(ref[len("{&_proparse_"):closing])}
	case ref == "{*}":
		return RefSpec{Kind: RefAllArgs, Name: "*"}
	case strings.HasPrefix(ref, "{&*"):
		return RefSpec{Kind: RefAllNamedArgs, Name: "&*"}
	case isDigits(body):
		n, err := strconv.Atoi(body)
		if err != nil {
			// слишком длинное число: такого аргумента всё равно нет
			n = -1
		}
		return RefSpec{Kind: RefNumbered, Number: n, Name: body}
	case strings.TrimSpace(body) == "":
		return RefSpec{Kind: RefEmpty}
	case strings.HasPrefix(ref, "{&"):
		return RefSpec{Kind: RefNamed, Name: strings.ToLower(strings.TrimSpace(ref[2:closing]))}
	}
	return parseInclude([]rune(ref))
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func parseInclude(chars []rune) RefSpec {
	closing := len(chars) - 1
	pos := 1
	skipSpace := func() {
		for pos < closing && isSpace(chars[pos]) {
			pos++
		}
	}

	rs := RefSpec{Kind: RefInclude}
	skipSpace()
	rs.Name = includeRefArg(chars, &pos)
	skipSpace()

	switch {
	case pos >= closing:
	case chars[pos] == '&':
		rs.NamedArgs = true
		for pos < closing && chars[pos] == '&' {
			pos++
			// имя до '=', следующего '&' или '}', пробелы выбрасываем
			var name strings.Builder
			for pos < closing && chars[pos] != '=' && chars[pos] != '&' {
				if !isSpace(chars[pos]) {
					name.WriteRune(chars[pos])
				}
				pos++
			}
			arg := IncludeArg{Name: name.String()}
			if pos < closing && chars[pos] == '=' {
				pos++
				arg.HasValue = true
				skipSpace()
				if pos < closing {
					arg.Value = includeRefArg(chars, &pos)
				}
			}
			rs.Args = append(rs.Args, arg)
			for pos < closing && chars[pos] != '&' {
				pos++
			}
		}
	default:
		for pos < closing {
			skipSpace()
			if pos >= closing {
				break
			}
			rs.Args = append(rs.Args, IncludeArg{Value: includeRefArg(chars, &pos), HasValue: true})
		}
	}
	return rs
}

// includeRefArg reads one include argument. A double quote toggles
// whitespace gathering, a doubled one is a literal quote.
func includeRefArg(chars []rune, pos *int) string {
	closing := len(chars) - 1
	gobble := false
	var sb strings.Builder
	for *pos < closing {
		c := chars[*pos]
		switch {
		case c == '"':
			if chars[*pos+1] == '"' {
				sb.WriteRune('"')
				*pos += 2
			} else {
				gobble = !gobble
				*pos++
			}
		case isSpace(c) && c != '\v':
			if !gobble {
				return sb.String()
			}
			sb.WriteRune(c)
			*pos++
		default:
			sb.WriteRune(c)
			*pos++
		}
	}
	return sb.String()
}
