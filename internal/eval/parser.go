package eval

import (
	"fmt"

	"ablpp/internal/source"
	"ablpp/internal/token"
)

type parser struct {
	toks []token.Token
	pos  int
}

// Parse builds the expression tree of the lexemes of a condition, the text
// between &IF (or &ELSEIF) and &THEN after macro expansion. Whitespace and
// comments are skipped. DEFINED(...) must already be replaced by its level.
func Parse(toks []token.Token) (Expr, error) {
	p := &parser{toks: make([]token.Token, 0, len(toks))}
	for _, t := range toks {
		if t.Kind == token.WS || t.Kind == token.Comment {
			continue
		}
		p.toks = append(p.toks, t)
	}
	if len(p.toks) == 0 {
		return nil, &SyntaxError{Msg: "empty condition"}
	}
	x, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		t := p.peek()
		return nil, p.errorf(t.Pos, "unexpected %q after condition", t.Text)
	}
	return x, nil
}

func (p *parser) atEnd() bool { return p.pos >= len(p.toks) }

func (p *parser) peek() token.Token {
	if p.atEnd() {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[p.pos]
}

func (p *parser) advance() token.Token {
	t := p.peek()
	if !p.atEnd() {
		p.pos++
	}
	return t
}

func (p *parser) errorf(at source.Pos, format string, args ...any) *SyntaxError {
	if !at.IsValid() && len(p.toks) > 0 {
		at = p.toks[len(p.toks)-1].Pos
	}
	return &SyntaxError{Pos: at, Msg: fmt.Sprintf(format, args...)}
}

// parseBinary - Pratt parsing для бинарных операторов, minPrec - минимальный
// приоритет текущего уровня. Все бинарные операторы левоассоциативны.
func (p *parser) parseBinary(minPrec int) (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op, prec, ok := binaryOp(p.peek().Kind)
		if !ok || prec < minPrec {
			return left, nil
		}
		p.advance()
		right, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, L: left, R: right}
	}
}

func (p *parser) parseUnary() (Expr, error) {
	t := p.peek()
	switch t.Kind {
	case token.KwNot:
		p.advance()
		x, err := p.parseBinary(precNot + 1)
		if err != nil {
			return nil, err
		}
		return &Unary{Pos: t.Pos, Op: OpNot, X: x}, nil
	case token.Minus:
		p.advance()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Unary{Pos: t.Pos, Op: OpNeg, X: x}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expr, error) {
	t := p.advance()
	switch t.Kind {
	case token.EOF:
		return nil, p.errorf(source.Pos{}, "unexpected end of condition")
	case token.Number:
		v, err := parseNumber(t.Text)
		if err != nil {
			return nil, p.errorf(t.Pos, "%s", err.Error())
		}
		return &Literal{Pos: t.Pos, Text: t.Text, Val: v}, nil
	case token.QString:
		return &Literal{Pos: t.Pos, Text: t.Text, Val: StrValue(stripQuotes(t.Text))}, nil
	case token.UnknownValue:
		return &Literal{Pos: t.Pos, Text: "?"}, nil
	case token.KwTrue, token.KwYes:
		return &Literal{Pos: t.Pos, Text: "TRUE", Val: BoolValue(true)}, nil
	case token.KwFalse, token.KwNo:
		return &Literal{Pos: t.Pos, Text: "FALSE", Val: BoolValue(false)}, nil
	case token.LeftParen:
		x, err := p.parseBinary(0)
		if err != nil {
			return nil, err
		}
		if p.peek().Kind != token.RightParen {
			return nil, p.errorf(p.peek().Pos, "expected ')'")
		}
		p.advance()
		return &Paren{Pos: t.Pos, X: x}, nil
	case token.KwDefined:
		return nil, p.errorf(t.Pos, "DEFINED was not resolved")
	}

	if b, ok := builtins[t.Kind]; ok {
		return p.parseCall(t, b)
	}
	if (t.Kind == token.ID || t.Kind.IsKeyword()) && p.peek().Kind == token.LeftParen {
		call, err := p.parseCall(t, nil)
		if err != nil {
			return nil, err
		}
		call.Supported = false
		return call, nil
	}
	return nil, p.errorf(t.Pos, "unexpected %q in condition", t.Text)
}

// parseCall reads the argument list of a function. b is nil for names the
// library does not know; their arguments are still parsed so that the
// condition renders.
func (p *parser) parseCall(name token.Token, b *builtin) (*Call, error) {
	call := &Call{Pos: name.Pos, Supported: true}
	if b != nil {
		call.Name = b.name
	} else if full, ok := token.KeywordName(name.Text, false); ok {
		call.Name = full
	} else {
		call.Name = name.Text
	}

	if p.peek().Kind != token.LeftParen {
		if b != nil && b.bare {
			call.Bare = true
			return call, nil
		}
		return nil, p.errorf(name.Pos, "expected '(' after %s", call.Name)
	}
	p.advance()
	if p.peek().Kind == token.RightParen {
		p.advance()
	} else {
		for {
			arg, err := p.parseBinary(0)
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, arg)
			next := p.advance()
			if next.Kind == token.RightParen {
				break
			}
			if next.Kind != token.Comma {
				return nil, p.errorf(next.Pos, "expected ',' or ')' in %s arguments", call.Name)
			}
		}
	}
	if b != nil && (len(call.Args) < b.min || (b.max >= 0 && len(call.Args) > b.max)) {
		return nil, p.errorf(name.Pos, "wrong number of arguments to %s", call.Name)
	}
	return call, nil
}
