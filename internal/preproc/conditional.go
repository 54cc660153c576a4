package preproc

import (
	"errors"
	"strconv"
	"strings"

	"ablpp/internal/diag"
	"ablpp/internal/token"
	"ablpp/internal/trace"
)

// ifState is one open &IF. done: a branch was taken; consuming: the
// current branch is being discarded.
type ifState struct {
	consuming bool
	done      bool
}

// post returns the next lexeme after conditional compilation. Text of
// discarded branches never leaves this stage; the directives of the
// visible &IF chain are passed on for the preprocessor channel.
func (p *Processor) post() (token.Token, error) {
	for len(p.queue) == 0 {
		tok, err := p.lex()
		if err != nil {
			return tok, err
		}
		switch tok.Kind {
		case token.AmpIf:
			err = p.ampIf(tok)
		case token.AmpThen:
			err = p.syntaxError(tok, diag.PreproUnexpectedThen)
		case token.AmpElseIf:
			err = p.ampElseIf(tok)
		case token.AmpElse:
			err = p.ampElse(tok)
		case token.AmpEndIf:
			p.ampEndIf(tok)
		default:
			return tok, nil
		}
		if err != nil {
			return token.Token{Kind: token.EOF, Pos: tok.Pos}, err
		}
	}
	tok := p.queue[0]
	p.queue = p.queue[1:]
	return tok, nil
}

func (p *Processor) emit(tok token.Token) {
	p.queue = append(p.queue, tok)
}

// discarding reports whether the text being read belongs to a discarded branch.
func (p *Processor) discarding() bool {
	for _, st := range p.ifs {
		if st.consuming {
			return true
		}
	}
	return false
}

// outerDiscarding reports whether an &IF enclosing the innermost one discards its text.
func (p *Processor) outerDiscarding() bool {
	if len(p.ifs) == 0 {
		return false
	}
	for _, st := range p.ifs[:len(p.ifs)-1] {
		if st.consuming {
			return true
		}
	}
	return false
}

func (p *Processor) syntaxError(tok token.Token, code diag.Code) error {
	err := &diag.PreprocessorSyntaxError{Location: p.in.Location(tok.Pos), Code: code, Msg: code.Title()}
	p.fail(err)
	return err
}

func (p *Processor) ampIf(tok token.Token) error {
	p.metrics.Directives++
	visible := !p.discarding()
	p.ifs = append(p.ifs, ifState{})
	level := len(p.ifs) - 1
	if visible {
		p.emit(tok)
	}
	ok, err := p.condition(tok, visible, visible)
	if err != nil {
		return err
	}
	if ok {
		p.ifs[level].done = true
		return nil
	}
	p.ifs[level].consuming = true
	return p.consume()
}

func (p *Processor) ampElseIf(tok token.Token) error {
	if len(p.ifs) == 0 {
		return p.syntaxError(tok, diag.PreproUnmatchedElse)
	}
	p.metrics.Directives++
	level := len(p.ifs) - 1
	visible := !p.outerDiscarding()
	if visible {
		p.emit(tok)
	}
	ok, err := p.condition(tok, visible && !p.ifs[level].done, visible)
	if err != nil {
		return err
	}
	st := &p.ifs[level]
	if ok && !st.done {
		st.done = true
		st.consuming = false
		return nil
	}
	if !st.consuming {
		st.consuming = true
		return p.consume()
	}
	return nil
}

func (p *Processor) ampElse(tok token.Token) error {
	if len(p.ifs) == 0 {
		return p.syntaxError(tok, diag.PreproUnmatchedElse)
	}
	p.metrics.Directives++
	if !p.outerDiscarding() {
		p.emit(tok)
		trace.Point(p.tracer, trace.ScopeDirective, "&ELSE", "", p.parentSpan())
	}
	st := &p.ifs[len(p.ifs)-1]
	if !st.done {
		st.consuming = false
		return nil
	}
	if !st.consuming {
		st.consuming = true
		return p.consume()
	}
	return nil
}

// ampEndIf closes the innermost &IF. A stray &ENDIF is passed through.
func (p *Processor) ampEndIf(tok token.Token) {
	p.metrics.Directives++
	if !p.outerDiscarding() {
		p.emit(tok)
	}
	if len(p.ifs) > 0 {
		p.ifs = p.ifs[:len(p.ifs)-1]
	}
}

// consume discards text until the innermost &IF stops discarding: a taken
// &ELSEIF or &ELSE, or its &ENDIF. Nested chains are followed so that their
// directives do not end this one.
func (p *Processor) consume() error {
	level := len(p.ifs)
	for level <= len(p.ifs) && p.ifs[level-1].consuming {
		tok, err := p.lex()
		if err != nil {
			return err
		}
		switch tok.Kind {
		case token.AmpIf:
			err = p.ampIf(tok)
		case token.AmpElseIf:
			err = p.ampElseIf(tok)
		case token.AmpElse:
			err = p.ampElse(tok)
		case token.AmpEndIf:
			p.ampEndIf(tok)
		case token.EOF:
			err = p.syntaxError(tok, diag.PreproEOFInDiscard)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// condition reads the lexemes up to &THEN. When evaluate is set they are
// evaluated and the result is emitted as a PREPROEXPR token; when visible
// is set the &THEN is emitted too. A condition that cannot be evaluated is
// false and reported as a warning.
func (p *Processor) condition(dir token.Token, evaluate, visible bool) (bool, error) {
	var toks []token.Token
	for {
		tok, err := p.lex()
		if err != nil {
			return false, err
		}
		switch tok.Kind {
		case token.EOF:
			return false, p.syntaxError(tok, diag.PreproEOFInCondition)
		case token.AmpThen:
			if !evaluate {
				if visible {
					p.emit(tok)
				}
				return false, nil
			}
			ok := p.evaluate(dir, toks)
			p.emit(tok)
			return ok, nil
		case token.WS, token.Comment:
		case token.KwDefined:
			if !evaluate {
				break
			}
			num, err := p.defined(tok)
			if err != nil {
				return false, err
			}
			toks = append(toks, num)
		case token.ID:
			if !evaluate {
				break
			}
			if !strings.EqualFold(tok.Text, "DEFAULT") {
				toks = append(toks, tok)
				break
			}
			val, err := p.defaultValue(tok)
			if err != nil {
				return false, err
			}
			toks = append(toks, val...)
		default:
			if evaluate {
				toks = append(toks, tok)
			}
		}
	}
}

func (p *Processor) evaluate(dir token.Token, toks []token.Token) bool {
	res := p.eval.Condition(toks)
	if res.Err != nil {
		code := diag.PreproEvalError
		var coded interface{ Code() diag.Code }
		if errors.As(res.Err, &coded) {
			code = coded.Code()
		}
		diag.ReportWarning(p.cfg.Reporter, code, dir.Pos, res.Err.Error()).
			WithNote(dir.Pos, "condition: "+res.Text).
			Emit()
	}

	expr := token.Token{Kind: token.PreproExprFalse, Text: res.Text, Pos: dir.Pos, End: dir.End}
	if res.Value {
		expr.Kind = token.PreproExprTrue
	}
	if len(toks) > 0 {
		expr.Pos = toks[0].Pos
		expr.End = toks[len(toks)-1].End
	}
	expr.Channel = token.ChannelOf(expr.Kind)
	p.emit(expr)
	trace.Point(p.tracer, trace.ScopeDirective, strings.ToUpper(dir.Text), expr.Kind.String()+" "+res.Text, p.parentSpan())
	return res.Value
}

// defined replaces DEFINED ( name ) by a NUMBER lexeme holding the level
// the name is bound on.
func (p *Processor) defined(kw token.Token) (token.Token, error) {
	tok, err := p.lex()
	if err == nil && tok.Kind == token.WS {
		tok, err = p.lex()
	}
	if err != nil {
		return tok, err
	}
	if tok.Kind != token.LeftParen {
		return tok, p.syntaxError(tok, diag.PreproBadDefined)
	}
	arg, err := p.sc.NextDefinedArg()
	if err != nil {
		p.fail(err)
		return arg, err
	}
	tok, err = p.lex()
	if err != nil {
		return tok, err
	}
	if tok.Kind != token.RightParen {
		return tok, p.syntaxError(tok, diag.PreproBadDefined)
	}
	level := p.store.Defined(strings.ToLower(strings.TrimSpace(arg.Text)))
	return token.Token{
		Kind:    token.Number,
		Text:    strconv.Itoa(level),
		RawText: "DEFINED(" + arg.Text + ")",
		Pos:     kw.Pos,
		End:     tok.End,
	}, nil
}

// defaultValue reads DEFAULT(name, fallback). A bound name gives its value
// as a string literal; an undefined one gives the fallback lexemes.
func (p *Processor) defaultValue(kw token.Token) ([]token.Token, error) {
	next := func() (token.Token, error) {
		for {
			tok, err := p.lex()
			if err != nil || (tok.Kind != token.WS && tok.Kind != token.Comment) {
				return tok, err
			}
		}
	}
	tok, err := next()
	if err != nil {
		return nil, err
	}
	if tok.Kind != token.LeftParen {
		return nil, p.syntaxError(tok, diag.PreproBadDefault)
	}
	name, err := next()
	if err != nil {
		return nil, err
	}
	if name.Text == "" || name.Kind == token.EOF {
		return nil, p.syntaxError(name, diag.PreproBadDefault)
	}
	if tok, err = next(); err != nil {
		return nil, err
	}
	if tok.Kind != token.Comma {
		return nil, p.syntaxError(tok, diag.PreproBadDefault)
	}

	var fallback []token.Token
	depth := 0
	for {
		if tok, err = next(); err != nil {
			return nil, err
		}
		switch tok.Kind {
		case token.EOF, token.AmpThen:
			return nil, p.syntaxError(tok, diag.PreproBadDefault)
		case token.LeftParen:
			depth++
		case token.RightParen:
			depth--
		}
		if depth < 0 {
			break
		}
		fallback = append(fallback, tok)
	}
	if len(fallback) == 0 {
		return nil, p.syntaxError(tok, diag.PreproBadDefault)
	}

	def := p.store.Lookup(strings.ToLower(name.Text))
	if def.Undefined {
		if len(fallback) == 1 {
			return fallback, nil
		}
		open := token.Token{Kind: token.LeftParen, Text: "(", Pos: fallback[0].Pos, End: fallback[0].Pos}
		closing := token.Token{Kind: token.RightParen, Text: ")", Pos: tok.Pos, End: tok.End}
		return append(append([]token.Token{open}, fallback...), closing), nil
	}
	return []token.Token{{
		Kind:    token.QString,
		Text:    `"` + strings.ReplaceAll(def.Value, `"`, `""`) + `"`,
		RawText: "DEFAULT(" + name.Text + ")",
		Pos:     kw.Pos,
		End:     tok.End,
	}}, nil
}
