package eval

import "strings"

// matches implements MATCHES: '*' stands for any run of characters, '.' for
// exactly one and '~' makes the next pattern character literal. The
// comparison ignores case.
func matches(s, pattern string) bool {
	return matchRunes([]rune(strings.ToLower(s)), []rune(strings.ToLower(pattern)))
}

func matchRunes(s, p []rune) bool {
	for len(p) > 0 {
		switch p[0] {
		case '*':
			for len(p) > 0 && p[0] == '*' {
				p = p[1:]
			}
			if len(p) == 0 {
				return true
			}
			for i := 0; i <= len(s); i++ {
				if matchRunes(s[i:], p) {
					return true
				}
			}
			return false
		case '.':
			if len(s) == 0 {
				return false
			}
		case '~':
			if len(p) > 1 {
				p = p[1:]
			}
			fallthrough
		default:
			if len(s) == 0 || s[0] != p[0] {
				return false
			}
		}
		s, p = s[1:], p[1:]
	}
	return len(s) == 0
}
