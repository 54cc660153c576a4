package lexer

import (
	"strings"
)

// SplitDefine splits the text of a &GLOBAL-DEFINE or &SCOPED-DEFINE lexeme
// into the lowercased macro name and its value. Comments are stripped from
// the value and surrounding whitespace trimmed.
func SplitDefine(text string) (name, value string) {
	rest := skipWord(text)
	rest = strings.TrimLeftFunc(rest, isSpace)
	i := strings.IndexFunc(rest, isSpace)
	if i < 0 {
		return strings.ToLower(rest), ""
	}
	name = strings.ToLower(rest[:i])
	value = strings.TrimSpace(StripComments(strings.TrimLeftFunc(rest[i:], isSpace)))
	return name, value
}

// UndefineName returns the lowercased name of an &UNDEFINE lexeme.
func UndefineName(text string) string {
	rest := strings.TrimLeftFunc(skipWord(text), isSpace)
	if i := strings.IndexFunc(rest, isSpace); i >= 0 {
		rest = rest[:i]
	}
	return strings.ToLower(rest)
}

// AnalyzeSuspendArgs returns the options of &ANALYZE-SUSPEND as a comma separated list.
func AnalyzeSuspendArgs(text string) string {
	i := strings.IndexByte(text, ' ')
	if i < 0 {
		return ""
	}
	return strings.Join(strings.Fields(text[i+1:]), ",")
}

// MessageText returns the text after &MESSAGE.
func MessageText(text string) string {
	return strings.TrimSpace(skipWord(text))
}

// StripComments removes (possibly nested) /* */ comments.
// An unterminated comment swallows the rest of the text.
func StripComments(s string) string {
	if !strings.Contains(s, "/*") {
		return s
	}
	var sb strings.Builder
	level := 0
	for i := 0; i < len(s); i++ {
		switch {
		case strings.HasPrefix(s[i:], "/*"):
			level++
			i++
		case level > 0 && strings.HasPrefix(s[i:], "*/"):
			level--
			i++
		case level == 0:
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}

func skipWord(text string) string {
	if i := strings.IndexFunc(text, isSpace); i >= 0 {
		return text[i:]
	}
	return ""
}
