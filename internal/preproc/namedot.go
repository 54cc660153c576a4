package preproc

import (
	"strings"

	"ablpp/internal/token"
)

// nameDotFilter glues qualified names back together:
//
//	ID NAMEDOT ID                 tt.fld
//	ID NAMEDOT COMMENT (WS|COMMENT)* ID
//	ID FILENAME                   a/b
//	ID NUMBER                     x.5, when the number starts with '.'
//
// Keywords and annotations may start a name too; the result is an ID
// unless it started with an annotation.
type nameDotFilter struct {
	src func() (token.Token, error)

	held    token.Token // последняя лексема, к которой ещё можно приклеить следующую
	hasHeld bool
	out     []token.Token
}

func (f *nameDotFilter) next() (token.Token, error) {
	if len(f.out) > 0 {
		tok := f.out[0]
		f.out = f.out[1:]
		return tok, nil
	}
	if !f.hasHeld {
		tok, err := f.src()
		if err != nil {
			return tok, err
		}
		f.held, f.hasHeld = tok, true
	}
	for f.held.Kind != token.EOF {
		nxt, err := f.src()
		if err != nil {
			return nxt, err
		}
		ok, hold, err := f.merge(nxt)
		if err != nil {
			return f.held, err
		}
		if ok {
			continue
		}
		tok := f.held
		f.held = hold
		return tok, nil
	}
	return f.held, nil
}

func startsName(k token.Kind) bool {
	return k == token.ID || k == token.Annotation || k.IsKeyword()
}

// merge tries to glue nxt (and for a name dot the lexemes after it) onto
// held. When nothing was glued, hold is the lexeme to keep next.
func (f *nameDotFilter) merge(nxt token.Token) (ok bool, hold token.Token, err error) {
	prev := f.held
	switch {
	case nxt.Kind == token.FileName && (prev.Kind == token.ID || prev.Kind == token.Annotation):
		f.held = join(prev, nxt, "")
		return true, hold, nil
	case nxt.Kind == token.Number && strings.HasPrefix(nxt.Text, ".") && startsName(prev.Kind):
		f.held = join(prev, nxt, "")
		return true, hold, nil
	case nxt.Kind == token.NameDot && startsName(prev.Kind):
	default:
		return false, nxt, nil
	}

	after, err := f.src()
	if err != nil {
		return false, hold, err
	}
	var skipped []token.Token
	var raw strings.Builder
	if after.Kind == token.Comment {
		for after.Kind == token.Comment || after.Kind == token.WS {
			skipped = append(skipped, after)
			raw.WriteString(after.Text)
			if after, err = f.src(); err != nil {
				return false, hold, err
			}
		}
	}
	if after.Kind == token.EOF {
		// имени после точки нет: отдаём всё как есть
		f.out = append(f.out, nxt)
		f.out = append(f.out, skipped...)
		return false, after, nil
	}
	f.held = join(join(prev, nxt, ""), after, raw.String())
	return true, hold, nil
}

// join appends b to a. between is hidden text that sat between them and
// only shows up in RawText.
func join(a, b token.Token, between string) token.Token {
	raw := a.Raw() + b.Raw()
	if between != "" {
		raw = a.Raw() + between + b.Raw()
	}
	a.Text += b.Text
	if raw != a.Text {
		a.RawText = raw
	} else {
		a.RawText = ""
	}
	a.End = b.End
	if a.Kind != token.Annotation {
		a.Kind = token.ID
		a.Channel = token.ChannelDefault
		a.Abbreviated = false
	}
	return a
}
