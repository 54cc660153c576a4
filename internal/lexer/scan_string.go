package lexer

import (
	"ablpp/internal/diag"
	"ablpp/internal/token"
)

func (s *Scanner) whitespace() token.Token {
	for {
		switch s.lc {
		case ' ', '\t', '\f', '\n', '\r':
			s.appendCur()
			s.advance()
		default:
			return s.make(token.WS)
		}
	}
}

// comment scans a nested /* */ comment; cur is the '*'. Escapes stay in the
// text and macros are not expanded inside.
func (s *Scanner) comment() token.Token {
	if !s.commentBody() {
		return s.fail(diag.LexUnterminatedComment, s.start.Pos)
	}
	return s.make(token.Comment)
}

// commentBody appends a comment starting at the current '*' and moves past
// the closing '/'. It reports false at end of input.
func (s *Scanner) commentBody() bool {
	s.in.SetInComment(true)
	s.appendCur()
	level := 1
	for level > 0 {
		s.advance()
		s.appendOriginal()
		switch {
		case s.lc == '/':
			s.advance()
			s.appendOriginal()
			if s.lc == '*' {
				level++
			}
		case s.lc == '*':
			for s.lc == '*' {
				s.advance()
				s.appendOriginal()
				if s.lc == '/' {
					level--
				}
			}
		case s.cur.R == EOF:
			s.in.SetInComment(false)
			return false
		}
	}
	s.in.SetInComment(false)
	s.advance()
	return true
}

// lineComment scans // up to an unescaped line end, which is left for the next lexeme.
func (s *Scanner) lineComment() token.Token {
	s.in.SetInComment(true)
	s.appendCur()
	for {
		s.advance()
		if s.cur.R == EOF || (!s.cur.Escaped && (s.lc == '\r' || s.lc == '\n')) {
			s.in.SetInComment(false)
			return s.make(token.Comment)
		}
		s.appendOriginal()
	}
}

// quotedString keeps the original text including escapes. Macros are
// expanded inside strings. A trailing :attributes suffix such as :U or :R30
// belongs to the string; a bare ':' starts the next lexeme.
func (s *Scanner) quotedString(quote rune) token.Token {
	for {
		if s.cur.R == EOF {
			return s.fail(diag.LexUnterminatedString, s.start.Pos)
		}
		s.appendOriginal()
		if s.cur.R == quote && !s.cur.Escaped {
			s.advance()
			if s.cur.R != quote {
				break
			}
			s.appendOriginal()
		}
		s.advance()
	}

	if s.lc != ':' {
		return s.make(token.QString)
	}
	s.preserve()
	attrs := []rune{':'}
	for {
		s.advance()
		if !isStringAttr(s.lc) {
			break
		}
		attrs = append(attrs, s.cur.R)
	}
	if len(attrs) == 1 {
		return s.make(token.QString)
	}
	s.dropPreserved()
	s.text = append(s.text, attrs...)
	return s.make(token.QString)
}

func isStringAttr(r rune) bool {
	switch r {
	case 'r', 'l', 'c', 't', 'u', 'x':
		return true
	}
	return isDigit(r)
}
