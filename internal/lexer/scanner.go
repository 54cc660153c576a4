package lexer

import (
	"strings"
	"unicode"

	"ablpp/internal/diag"
	"ablpp/internal/source"
	"ablpp/internal/token"
)

// Options configures the Scanner.
type Options struct {
	// TokenStartChars are extra characters that may start an identifier
	// when a letter or digit follows, e.g. "^" makes ^name a single ID.
	TokenStartChars string
}

// Scanner turns the characters of an Input into lexemes with exact spans.
// It recognizes directive lexemes but leaves their meaning to the caller.
type Scanner struct {
	in   *Input
	opts Options

	cur  Char
	lc   rune // cur в нижнем регистре
	prev Char
	// need is set when cur has not been read yet. A define directive leaves
	// it set so the definition is applied before the next character is read.
	need bool

	text  []rune
	start Char

	preserved *Char
	endAt     *source.Pos

	definedArg bool

	loc      map[int]struct{}
	comments map[int]struct{}
}

// NewScanner creates a scanner over in.
func NewScanner(in *Input, opts Options) *Scanner {
	return &Scanner{
		in:       in,
		opts:     opts,
		need:     true,
		loc:      make(map[int]struct{}),
		comments: make(map[int]struct{}),
	}
}

// Input returns the character layer the scanner reads from.
func (s *Scanner) Input() *Input { return s.in }

// Next returns the next lexeme. After a fatal error it returns EOF and the error.
func (s *Scanner) Next() (token.Token, error) {
	if s.need {
		s.need = false
		s.advance()
	}
	tok := s.scan()
	if err := s.in.Err(); err != nil {
		return token.Token{Kind: token.EOF, Pos: tok.Pos, End: tok.Pos}, err
	}
	return tok, nil
}

// NextDefinedArg reads the argument of DEFINED( ... ): all text up to the
// closing parenthesis with comments dropped, as a single ID lexeme.
func (s *Scanner) NextDefinedArg() (token.Token, error) {
	s.definedArg = true
	return s.Next()
}

// LinesOfCode is the number of lines of the main file holding a token other than whitespace.
func (s *Scanner) LinesOfCode() int { return len(s.loc) }

// CommentedLines is the number of lines of the main file touched by a comment.
func (s *Scanner) CommentedLines() int { return len(s.comments) }

func (s *Scanner) advance() {
	s.prev = s.cur
	s.cur = s.in.Read()
	if s.cur.R >= 0 {
		s.lc = unicode.ToLower(s.cur.R)
	} else {
		s.lc = s.cur.R
	}
}

func (s *Scanner) begin(c Char) {
	s.start = c
	s.text = append(s.text[:0], c.R)
}

// appendCur adds the current character as read, escapes removed.
func (s *Scanner) appendCur() {
	if s.cur.R >= 0 {
		s.text = append(s.text, s.cur.R)
	}
}

// appendOriginal adds the current character as written in the source, escapes included.
func (s *Scanner) appendOriginal() {
	s.text = append(s.text, []rune(s.cur.Original())...)
}

func (s *Scanner) curIsSpace() bool {
	return s.cur.R == EOF || isSpace(s.cur.R)
}

// preserve keeps the current character for the next lexeme; the lexeme in
// progress ends on the character before it.
func (s *Scanner) preserve() {
	p := s.cur
	e := s.prev.Pos
	s.preserved = &p
	s.endAt = &e
}

func (s *Scanner) dropPreserved() {
	s.preserved = nil
	s.endAt = nil
}

func (s *Scanner) make(kind token.Kind) token.Token {
	return s.makeText(kind, string(s.text))
}

func (s *Scanner) makeText(kind token.Kind, text string) token.Token {
	end := s.prev.Pos
	if s.endAt != nil {
		end = *s.endAt
		s.endAt = nil
	}
	return s.emit(kind, text, s.start.Pos, end)
}

func (s *Scanner) emit(kind token.Kind, text string, start, end source.Pos) token.Token {
	if start.File == 0 && start.Line > 0 {
		switch kind {
		case token.Comment:
			n := strings.Count(text, "\n")
			for l := start.Line; l <= start.Line+n; l++ {
				s.comments[l] = struct{}{}
			}
		case token.WS, token.EOF:
		default:
			s.loc[start.Line] = struct{}{}
		}
	}
	return token.Token{
		Kind:           kind,
		Text:           text,
		Pos:            start,
		End:            end,
		Channel:        token.ChannelOf(kind),
		MacroExpansion: s.start.Macro,
	}
}

func (s *Scanner) fail(code diag.Code, at source.Pos) token.Token {
	s.in.Fail(&diag.LexicalError{
		Location: s.in.Location(at),
		Code:     code,
		Msg:      code.Title(),
	})
	return token.Token{Kind: token.EOF, Pos: at, End: at}
}

func (s *Scanner) isTokenStart(c rune) bool {
	return s.opts.TokenStartChars != "" && strings.ContainsRune(s.opts.TokenStartChars, c)
}

func (s *Scanner) scan() token.Token {
	if p := s.preserved; p != nil {
		s.preserved = nil
		s.begin(*p)
		return s.colon()
	}

	if s.cur.R == DirectiveChar {
		d := s.in.Directive()
		s.start = Char{Pos: d.Pos, Macro: s.cur.Macro}
		s.advance()
		return s.makeText(d.Kind, d.Text)
	}

	if s.definedArg {
		s.definedArg = false
		if s.lc == ')' {
			s.start = s.cur
			return s.emit(token.DefinedArg, "", s.cur.Pos, s.cur.Pos)
		}
		s.begin(s.cur)
		s.advance()
		return s.definedArgText()
	}
	s.begin(s.cur)

	c := s.lc
	escaped := s.cur.Escaped
	s.advance()

	if s.isTokenStart(c) && (isLetter(s.lc) || isDigit(s.lc) || s.lc == '_') {
		if c == '/' {
			s.appendCur()
			s.advance()
			return s.id(token.FileName)
		}
		return s.id(token.ID)
	}

	switch c {
	case '\t', '\n', '\f', '\r', ' ':
		return s.whitespace()
	case '"', '\'':
		if escaped {
			return s.id(token.FileName)
		}
		return s.quotedString(s.start.R)
	case '/':
		return s.slash()
	case ':':
		return s.colon()
	case '&':
		return s.ampText()
	case '@':
		if s.curIsSpace() {
			return s.make(token.LexAt)
		}
		s.appendCur()
		s.advance()
		return s.id(token.Annotation)
	case '0':
		if s.lc == 'x' {
			s.appendCur()
			s.advance()
			return s.digitStart(true)
		}
		return s.digitStart(false)
	case '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return s.digitStart(false)
	case '.':
		return s.periodStart()
	case '+':
		return s.plusMinusStart(token.Plus)
	case '-':
		return s.plusMinusStart(token.Minus)
	case '#', '|', '%':
		return s.id(token.FileName)
	case EOF:
		return s.makeText(token.EOF, "")
	}
	if kind, ok := punct[c]; ok {
		return s.punctuation(kind)
	}
	return s.id(token.ID)
}

func isLetter(r rune) bool { return r >= 'a' && r <= 'z' }

func isDigit(r rune) bool { return r >= '0' && r <= '9' }
