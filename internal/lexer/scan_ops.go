package lexer

import "ablpp/internal/token"

var punct = map[rune]token.Kind{
	'[': token.LeftBrace,
	']': token.RightBrace,
	'^': token.Caret,
	',': token.Comma,
	'!': token.Exclamation,
	'=': token.Equal,
	'(': token.LeftParen,
	')': token.RightParen,
	';': token.Semi,
	'*': token.Star,
	'?': token.UnknownValue,
	'`': token.Backtick,
	'<': token.LeftAngle,
	'>': token.RightAngle,
}

// punctuation finishes a one or two character operator; its first character is consumed.
func (s *Scanner) punctuation(kind token.Kind) token.Token {
	switch kind {
	case token.RightAngle:
		if s.lc == '=' {
			s.appendCur()
			s.advance()
			return s.make(token.GTorEqual)
		}
	case token.LeftAngle:
		switch s.lc {
		case '>':
			s.appendCur()
			s.advance()
			return s.make(token.GTorLT)
		case '=':
			s.appendCur()
			s.advance()
			return s.make(token.LTorEqual)
		}
	}
	return s.make(kind)
}

// colon: '::', ':' before whitespace, or ':' before a member name.
func (s *Scanner) colon() token.Token {
	if s.lc == ':' {
		s.appendCur()
		s.advance()
		return s.make(token.DoubleColon)
	}
	if s.curIsSpace() {
		return s.make(token.LexColon)
	}
	return s.make(token.ObjColon)
}

// slash: comments, the division operator, or the start of a file name.
// Division is only recognized before whitespace, a digit or '('.
func (s *Scanner) slash() token.Token {
	switch {
	case s.lc == '*':
		return s.comment()
	case s.lc == '/':
		return s.lineComment()
	case s.lc == '(' || isDigit(s.lc) || s.curIsSpace():
		return s.make(token.Slash)
	}
	s.appendCur()
	s.advance()
	return s.id(token.FileName)
}
