package token

import (
	"strings"

	"ablpp/internal/source"
)

// Token represents a single token with its location and the hidden tokens before it.
type Token struct {
	Kind Kind
	Text string
	// RawText keeps the original spelling when Text dropped embedded comments or spacing.
	RawText string
	Pos     source.Pos // первый символ
	End     source.Pos // последний символ, включительно
	Channel Channel
	// HiddenBefore is the nearest preceding hidden token; the chain runs backwards.
	HiddenBefore *Token
	// Abbreviated is set for keywords written in a short form (DEF for DEFINE).
	Abbreviated bool
	// MacroExpansion is set when the first character came from a macro expansion.
	MacroExpansion bool
}

// IsHidden reports whether the token is off the default channel.
func (t *Token) IsHidden() bool { return t.Channel != ChannelDefault }

// IsKeyword reports whether the token is a keyword.
func (t *Token) IsKeyword() bool { return t.Kind.IsKeyword() }

// IsIdent reports whether the token is an identifier.
func (t *Token) IsIdent() bool { return t.Kind == ID }

// Raw returns RawText when present, Text otherwise.
func (t *Token) Raw() string {
	if t.RawText != "" {
		return t.RawText
	}
	return t.Text
}

// Hidden returns the hidden chain in source order.
func (t *Token) Hidden() []*Token {
	var out []*Token
	for h := t.HiddenBefore; h != nil; h = h.HiddenBefore {
		out = append(out, h)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Directives returns the payloads of the proparse directives chained before the token, nearest first.
func (t *Token) Directives() []string {
	var out []string
	for h := t.HiddenBefore; h != nil; h = h.HiddenBefore {
		if h.Kind == ProparseDirective {
			out = append(out, h.Text)
		}
	}
	return out
}

// HasDirective reports whether a "prolint-nowarn(a,b,...)" directive before the token lists name.
func (t *Token) HasDirective(name string) bool {
	const prefix = "prolint-nowarn("
	for _, d := range t.Directives() {
		if !strings.HasPrefix(d, prefix) || !strings.HasSuffix(d, ")") {
			continue
		}
		for _, item := range strings.Split(d[len(prefix):len(d)-1], ",") {
			if strings.EqualFold(strings.TrimSpace(item), name) {
				return true
			}
		}
	}
	return false
}
