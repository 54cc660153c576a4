package lexer

import (
	"strings"
	"unicode/utf8"

	"ablpp/internal/diag"
	"ablpp/internal/source"
	"ablpp/internal/token"
)

// Псевдо-символы, которые Input возвращает вместо обычных рун.
const (
	// EOF is returned once every source of the main file is exhausted, and forever after.
	EOF rune = -1
	// DirectiveChar stands for a whole {...} reference that produced a token (see Input.Directive).
	DirectiveChar rune = -2

	skipChar rune = -100
)

// Char is one character delivered by Input together with its provenance.
type Char struct {
	R   rune
	Pos source.Pos
	// Macro is set when the character came from a macro expansion.
	Macro bool
	// Escaped is set when R was produced by an escape sequence.
	Escaped bool
	// WasEscape is set when escape characters were consumed while reading R.
	WasEscape bool
	// EscapeText is the discarded escape text, e.g. "~" or "~\n~".
	EscapeText string
	// EscapeAppend tells whether R itself belongs after EscapeText in the original text.
	EscapeAppend bool
	// NameDot is meaningful for '.': the next character is neither whitespace nor end of input.
	NameDot bool
}

// Original returns the character as it was spelled in the source, escapes included.
func (c Char) Original() string {
	if !c.WasEscape {
		if c.R < 0 {
			return ""
		}
		return string(c.R)
	}
	if c.EscapeAppend && c.R >= 0 {
		return c.EscapeText + string(c.R)
	}
	return c.EscapeText
}

// Reference is the text of a {...} reference gathered from the input.
type Reference struct {
	Text string     // включая фигурные скобки
	Pos  source.Pos // позиция '{'
	End  source.Pos // позиция сразу после '}'
}

// Directive is a reference the expander turned into a token of its own
// (a proparse directive or an unexpanded include).
type Directive struct {
	Kind token.Kind
	Text string
	Pos  source.Pos
}

// Expander interprets {...} references for Input. It may push text or
// include sources onto the input and may return a Directive instead.
type Expander interface {
	Expand(in *Input, ref Reference) (*Directive, error)
	// Popped is called after a source was dropped from the input; include
	// tells whether a whole include frame ended.
	Popped(include bool)
}

// Source is one text being read: a file or a macro expansion.
type Source struct {
	text  []rune
	off   int
	line  int
	col   int
	file  source.FileID
	macro bool
}

// next position, i.e. the position of the character get() will return.
func (s *Source) pos() source.Pos {
	return source.Pos{File: s.file, Line: s.line, Col: s.col}
}

func (s *Source) get() (rune, bool) {
	if s.off >= len(s.text) {
		return 0, false
	}
	r := s.text[s.off]
	s.off++
	// Расширение макроса держит позицию '{' неподвижной.
	if !s.macro {
		if r == '\n' {
			s.line++
			s.col = 1
		} else {
			s.col++
		}
	}
	return r, true
}

type frame struct {
	sources []*Source
	ref     source.Pos // позиция '{' в файле-включателе
}

// InputOptions configures character input.
type InputOptions struct {
	// Backslash makes '\' an escape character in addition to '~'.
	Backslash bool
	// Reporter receives non fatal findings such as undecodable characters. May be nil.
	Reporter diag.Reporter
}

// Input is the character layer: a stack of include frames, each a stack of
// sources. It handles escapes and hands {...} references to the Expander.
type Input struct {
	files  *source.FileTable
	exp    Expander
	opts   InputOptions
	frames []*frame

	la    Char
	hasLA bool

	inComment  bool
	wasEscape  bool
	escCurrent bool
	escText    string
	escAppend  bool
	nameDot    bool

	directive *Directive
	last      source.Pos
	err       error
}

// NewInput starts reading the main file. A nil expander leaves '{' as an ordinary character.
func NewInput(files *source.FileTable, main source.FileID, exp Expander, opts InputOptions) *Input {
	in := &Input{files: files, exp: exp, opts: opts}
	in.frames = append(in.frames, &frame{sources: []*Source{in.fileSource(main)}})
	return in
}

func (in *Input) fileSource(id source.FileID) *Source {
	f := in.files.Get(id)
	return &Source{text: []rune(string(f.Content)), line: 1, col: 1, file: id}
}

// PushInclude starts reading file in a new include frame referenced at ref.
func (in *Input) PushInclude(file source.FileID, ref source.Pos) {
	in.frames = append(in.frames, &frame{sources: []*Source{in.fileSource(file)}, ref: ref})
}

// PushText splices text into the current frame. Every character carries the position at.
func (in *Input) PushText(text string, at source.Pos) {
	in.top().sources = append(in.top().sources, &Source{
		text:  []rune(text),
		line:  at.Line,
		col:   at.Col,
		file:  at.File,
		macro: true,
	})
}

// SetInComment disables macro expansion while a comment is scanned.
func (in *Input) SetInComment(v bool) { in.inComment = v }

// Depth is the number of open include frames above the main file.
func (in *Input) Depth() int { return len(in.frames) - 1 }

// File returns the index of the file currently being read.
func (in *Input) File() source.FileID { return in.top().sources[0].file }

// Directive returns the directive behind the last DirectiveChar.
func (in *Input) Directive() *Directive { return in.directive }

// Err returns the first fatal error. Once set, Read only returns EOF.
func (in *Input) Err() error { return in.err }

// Fail records a fatal error unless one is already set.
func (in *Input) Fail(err error) {
	if in.err == nil {
		in.err = err
	}
}

// Location builds an error location for pos including the chain of include references.
func (in *Input) Location(pos source.Pos) diag.Location {
	return in.locate(pos, in.refChain())
}

// refChain returns the include reference positions, innermost first.
func (in *Input) refChain() []source.Pos {
	refs := make([]source.Pos, 0, len(in.frames)-1)
	for i := len(in.frames) - 1; i >= 1; i-- {
		refs = append(refs, in.frames[i].ref)
	}
	return refs
}

func (in *Input) locate(pos source.Pos, refs []source.Pos) diag.Location {
	loc := diag.Location{At: diag.Frame{Path: in.files.Path(pos.File), Pos: pos}}
	for _, ref := range refs {
		loc.Chain = append(loc.Chain, diag.Frame{Path: in.files.Path(ref.File), Pos: ref})
	}
	return loc
}

func (in *Input) top() *frame { return in.frames[len(in.frames)-1] }

func (in *Input) topSource() *Source {
	f := in.top()
	return f.sources[len(f.sources)-1]
}

// Read returns the next character after escape and reference processing.
func (in *Input) Read() Char {
	in.wasEscape = false
	for {
		in.escCurrent = false
		c := in.raw()
		switch c.R {
		case '\\', '~':
			if c.R == '\\' && !in.opts.Backslash {
				return in.finish(c)
			}
			c = in.escape(c)
			if c.R == '.' {
				in.checkNameDot()
			}
			if c.R != skipChar {
				return in.finish(c)
			}
		case '{':
			if in.inComment || in.exp == nil {
				return in.finish(c)
			}
			if d := in.reference(c); d != nil {
				in.directive = d
				return in.finish(Char{R: DirectiveChar, Pos: in.last})
			}
			if in.err != nil {
				return in.finish(Char{R: EOF, Pos: c.Pos})
			}
		case '.':
			in.checkNameDot()
			return in.finish(c)
		default:
			return in.finish(c)
		}
	}
}

func (in *Input) finish(c Char) Char {
	c.Escaped = in.escCurrent
	c.WasEscape = in.wasEscape
	c.EscapeText = in.escText
	c.EscapeAppend = in.escAppend
	c.NameDot = in.nameDot
	in.last = c.Pos
	return c
}

// raw reads one character, popping exhausted sources. Leaving an include
// yields a single space at the includer's position.
func (in *Input) raw() Char {
	if in.hasLA {
		in.hasLA = false
		return in.la
	}
	if in.err != nil {
		return Char{R: EOF, Pos: in.last}
	}
	for {
		src := in.topSource()
		pos := src.pos()
		r, ok := src.get()
		if ok {
			if r == utf8.RuneError {
				in.badChar(pos)
				r = ' '
			}
			return Char{R: r, Pos: pos, Macro: src.macro}
		}
		switch in.pop() {
		case popNone:
			return Char{R: EOF, Pos: pos}
		case popInclude:
			src = in.topSource()
			return Char{R: ' ', Pos: src.pos(), Macro: src.macro}
		}
	}
}

type popResult uint8

const (
	popNone popResult = iota
	popMacro
	popInclude
)

func (in *Input) pop() popResult {
	f := in.top()
	if len(f.sources) > 1 {
		f.sources = f.sources[:len(f.sources)-1]
		if in.exp != nil {
			in.exp.Popped(false)
		}
		return popMacro
	}
	if len(in.frames) > 1 {
		in.frames = in.frames[:len(in.frames)-1]
		if in.exp != nil {
			in.exp.Popped(true)
		}
		return popInclude
	}
	return popNone
}

func (in *Input) badChar(pos source.Pos) {
	if in.opts.Reporter == nil {
		return
	}
	in.opts.Reporter.Report(diag.LexBadCharacter, diag.SevWarning, pos,
		"character conversion error in "+in.files.Path(pos.File), nil)
}

// escape consumes the character after '~' (or '\'). Escaped newlines vanish,
// ~r and ~n become CR and LF, anything else is taken literally.
func (in *Input) escape(c Char) Char {
	if in.wasEscape {
		in.escText += string(c.R)
	} else {
		in.wasEscape = true
		in.escText = string(c.R)
		in.escAppend = true
	}
	n := in.raw()
	in.escCurrent = true
	switch n.R {
	case '\n':
		in.escText += "\n"
		n.R = skipChar
	case '\r':
		la := in.lookahead()
		if la.R == '\n' {
			in.escText += "\r\n"
			in.hasLA = false
			n.R = skipChar
		}
	case 'r':
		in.escText += "r"
		in.escAppend = false
		n.R = '\r'
	case 'n':
		in.escText += "n"
		in.escAppend = false
		n.R = '\n'
	default:
		in.escAppend = true
	}
	return n
}

func (in *Input) lookahead() Char {
	if !in.hasLA {
		in.la = in.raw()
		in.hasLA = true
	}
	return in.la
}

func (in *Input) checkNameDot() {
	la := in.lookahead()
	in.nameDot = la.R != EOF && !isSpace(la.R)
}

// reference gathers a {...} reference and hands it to the expander.
// Nested references inside are expanded while gathering.
func (in *Input) reference(open Char) *Directive {
	// цепочка включений может закончиться раньше, чем найдётся '}'
	refs := in.refChain()
	var sb strings.Builder
	sb.WriteByte('{')
	c := in.Read()
	for (c.R != '}' || c.WasEscape) && c.R != EOF {
		if c.R >= 0 {
			sb.WriteRune(c.R)
		}
		c = in.Read()
	}
	if c.R == EOF {
		in.Fail(&diag.LexicalError{
			Location: in.locate(open.Pos, refs),
			Code:     diag.LexUnmatchedCurly,
			Msg:      diag.LexUnmatchedCurly.Title(),
		})
		return nil
	}
	sb.WriteByte('}')
	ref := Reference{
		Text: sb.String(),
		Pos:  open.Pos,
		End:  source.Pos{File: c.Pos.File, Line: c.Pos.Line, Col: c.Pos.Col + 1},
	}
	in.last = c.Pos
	d, err := in.exp.Expand(in, ref)
	if err != nil {
		in.Fail(err)
		return nil
	}
	return d
}

// Whitespace as the language sees it.
func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
