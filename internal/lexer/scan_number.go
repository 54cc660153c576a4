package lexer

import "ablpp/internal/token"

// digitStart scans a number. Letters turn it into an ID, a slash into a date,
// a backslash into a file name. With hex set, a-f stay digits.
func (s *Scanner) digitStart(hex bool) token.Token {
	kind := token.Number
	for {
		c := s.lc
		switch {
		case isDigit(c):
		case c >= 'a' && c <= 'f' && hex:
		case isLetter(c) || c == '#' || c == '$' || c == '%' || c == '&' || c == '_':
			if kind != token.FileName {
				kind = token.ID
			}
		case c == '+' || c == '-':
			// знак может оказаться и в середине, и в конце: тип не меняем
		case c == '/':
			if kind == token.Number {
				kind = token.LexDate
			}
		case c == '\\':
			kind = token.FileName
		case c == '.' && s.cur.NameDot:
		default:
			return s.make(kind)
		}
		s.appendCur()
		s.advance()
	}
}

// plusMinusStart scans after a leading '+' or '-'. A lone sign is an operator.
func (s *Scanner) plusMinusStart(op token.Kind) token.Token {
	kind := token.Number
	for {
		c := s.lc
		switch {
		case c == '0':
			s.appendCur()
			s.advance()
			if s.lc == 'x' {
				s.appendCur()
				s.advance()
				return s.digitStart(true)
			}
			return s.digitStart(false)
		case isDigit(c):
			s.appendCur()
			s.advance()
			return s.digitStart(false)
		case isFileNameChar(c):
			kind = token.FileName
		case c == '.' && s.cur.NameDot:
		default:
			if len(s.text) == 1 {
				return s.make(op)
			}
			return s.make(kind)
		}
		s.appendCur()
		s.advance()
	}
}

// periodStart: '.' not followed by a digit is NAMEDOT or PERIOD, otherwise a decimal number.
func (s *Scanner) periodStart() token.Token {
	if !isDigit(s.lc) {
		if s.start.NameDot {
			return s.make(token.NameDot)
		}
		return s.make(token.Period)
	}
	kind := token.Number
	for {
		c := s.lc
		switch {
		case isDigit(c) || c == '+' || c == '-':
		case isFileNameChar(c):
			kind = token.FileName
		default:
			return s.make(kind)
		}
		s.appendCur()
		s.advance()
	}
}

func isFileNameChar(c rune) bool {
	switch c {
	case '#', '$', '%', '&', '/', '\\', '_':
		return true
	}
	return isLetter(c)
}
