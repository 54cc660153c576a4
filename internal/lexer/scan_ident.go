package lexer

import (
	"strings"
	"unicode"

	"ablpp/internal/diag"
	"ablpp/internal/token"
)

// id scans a name. Besides letters and digits a name may hold the key label
// characters !"*+;@^` and the usual _-$#%&/. A backslash or a single quote
// makes it a file name. Plain IDs are checked against the keyword table.
func (s *Scanner) id(kind token.Kind) token.Token {
loop:
	for {
		c := s.lc
		switch {
		case isLetter(c) || isDigit(c):
		case strings.ContainsRune("_-$#%&/!\"*+;@^`", c):
		case c == '\\' || c == '\'':
			if kind == token.ID {
				kind = token.FileName
			}
		case c >= 128:
		default:
			break loop
		}
		s.appendCur()
		s.advance()
	}
	if kind != token.ID {
		return s.make(kind)
	}
	kw, abbreviated, ok := token.LookupKeyword(string(s.text))
	tok := s.make(kw)
	if ok {
		tok.Abbreviated = abbreviated
	}
	return tok
}

// ampText scans &name. Comments may be embedded in (or follow) the name and
// are dropped from the text; any other slash is part of the name. Directive names become directive lexemes,
// anything else is a file name.
func (s *Scanner) ampText() token.Token {
	for {
		c := s.cur.R
		if unicode.IsLetter(c) || unicode.IsDigit(c) || c >= 128 || strings.ContainsRune("#$%&-_", c) {
			s.appendCur()
			s.advance()
			continue
		}
		if c == '/' {
			s.advance()
			if s.lc != '*' {
				s.text = append(s.text, '/')
				continue
			}
			n := len(s.text)
			if !s.commentBody() {
				return s.fail(diag.LexUnterminatedComment, s.start.Pos)
			}
			s.text = s.text[:n]
			continue
		}
		break
	}
	if tok, ok := s.directive(); ok {
		return tok
	}
	return s.make(token.FileName)
}

func (s *Scanner) directive() (token.Token, bool) {
	name := strings.ToLower(string(s.text))
	switch {
	case len(name) >= 4 && strings.HasPrefix("&global-define", name):
		return s.define(token.AmpGlobalDefine), true
	case len(name) >= 4 && strings.HasPrefix("&scoped-define", name):
		return s.define(token.AmpScopedDefine), true
	case len(name) >= 5 && strings.HasPrefix("&undefine", name):
		return s.undefine(), true
	case name == "&analyze-suspend":
		return s.toEOL(token.AmpAnalyzeSuspend), true
	case name == "&analyze-resume":
		return s.toEOL(token.AmpAnalyzeResume), true
	case name == "&message":
		return s.toEOL(token.AmpMessage), true
	}
	if kind, ok := condDirectives[name]; ok {
		return s.make(kind), true
	}
	return token.Token{}, false
}

var condDirectives = map[string]token.Kind{
	"&if":     token.AmpIf,
	"&then":   token.AmpThen,
	"&elseif": token.AmpElseIf,
	"&else":   token.AmpElse,
	"&endif":  token.AmpEndIf,
}

// define scans a define to the end of its line. The terminating newline is
// part of the lexeme but is not consumed yet: the caller applies the
// definition before the next character (possibly a reference to it) is read.
func (s *Scanner) define(kind token.Kind) token.Token {
	if !s.appendToEOL() {
		return s.fail(diag.LexUnterminatedComment, s.start.Pos)
	}
	if s.cur.R == EOF {
		return s.make(kind)
	}
	s.appendCur()
	s.need = true
	return s.emit(kind, string(s.text), s.start.Pos, s.cur.Pos)
}

func (s *Scanner) toEOL(kind token.Kind) token.Token {
	if !s.appendToEOL() {
		return s.fail(diag.LexUnterminatedComment, s.start.Pos)
	}
	if s.cur.R != EOF {
		s.appendCur()
		s.advance()
	}
	return s.make(kind)
}

// appendToEOL gathers the rest of the line, comments included, and stops
// on the newline without appending it.
func (s *Scanner) appendToEOL() bool {
	for {
		switch {
		case s.lc == '/':
			s.appendCur()
			s.advance()
			if s.lc == '*' && !s.commentBody() {
				return false
			}
		case s.cur.R == EOF, s.lc == '\n':
			return true
		default:
			s.appendCur()
			s.advance()
		}
	}
}

// undefine consumes the name and the first whitespace after it.
func (s *Scanner) undefine() token.Token {
	for s.cur.R != EOF && isSpace(s.cur.R) {
		s.appendCur()
		s.advance()
	}
	for s.cur.R != EOF && !isSpace(s.cur.R) {
		s.appendCur()
		s.advance()
	}
	switch {
	case s.lc == '\r':
		s.appendCur()
		s.advance()
		if s.lc == '\n' {
			s.appendCur()
			s.advance()
		}
	case s.cur.R != EOF:
		s.appendCur()
		s.advance()
	}
	return s.make(token.AmpUndefine)
}

// definedArgText gathers the text up to ')' for DEFINED( ... ), dropping comments.
func (s *Scanner) definedArgText() token.Token {
	for s.lc != ')' && s.cur.R != EOF {
		if s.lc == '/' {
			s.advance()
			if s.lc != '*' {
				s.text = append(s.text, '/')
				continue
			}
			n := len(s.text)
			if !s.commentBody() {
				return s.fail(diag.LexUnterminatedComment, s.start.Pos)
			}
			s.text = s.text[:n]
			continue
		}
		s.appendCur()
		s.advance()
	}
	return s.make(token.DefinedArg)
}
