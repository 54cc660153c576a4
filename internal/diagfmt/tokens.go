package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"ablpp/internal/token"
)

type TokenOutput struct {
	Kind    string   `json:"kind"`
	Text    string   `json:"text,omitempty"`
	Raw     string   `json:"raw,omitempty"`
	Channel string   `json:"channel"`
	File    uint32   `json:"file"`
	Line    int      `json:"line"`
	Col     int      `json:"col"`
	EndLine int      `json:"end_line"`
	EndCol  int      `json:"end_col"`
	Hidden  []string `json:"hidden,omitempty"`
	// Abbreviated и Macro пишутся только когда выставлены
	Abbreviated bool `json:"abbreviated,omitempty"`
	Macro       bool `json:"macro,omitempty"`
}

func hiddenKinds(tok *token.Token) []string {
	var out []string
	for _, h := range tok.Hidden() {
		out = append(out, h.Kind.String())
	}
	return out
}

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, tokens []token.Token) error {
	for i := range tokens {
		tok := &tokens[i]
		var b strings.Builder

		// Выводим информацию о токене
		fmt.Fprintf(&b, "%3d: %-15s", i+1, tok.Kind.String())
		if tok.Text != "" {
			fmt.Fprintf(&b, " %q", tok.Text)
		}
		fmt.Fprintf(&b, " at %d:%d:%d-%d:%d",
			tok.Pos.File, tok.Pos.Line, tok.Pos.Col,
			tok.End.Line, tok.End.Col)
		if tok.Channel != token.ChannelDefault {
			fmt.Fprintf(&b, " [%s]", tok.Channel)
		}
		if tok.RawText != "" && tok.RawText != tok.Text {
			fmt.Fprintf(&b, " raw=%q", tok.RawText)
		}
		if tok.Abbreviated {
			b.WriteString(" abbrev")
		}
		if tok.MacroExpansion {
			b.WriteString(" macro")
		}
		if hidden := hiddenKinds(tok); len(hidden) > 0 {
			fmt.Fprintf(&b, " (hidden: %s)", strings.Join(hidden, ", "))
		}
		b.WriteByte('\n')

		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// BuildTokensOutput converts tokens to their JSON form, up to and including EOF.
func BuildTokensOutput(tokens []token.Token) []TokenOutput {
	output := make([]TokenOutput, 0, len(tokens))
	for i := range tokens {
		tok := &tokens[i]
		tokenOut := TokenOutput{
			Kind:        tok.Kind.String(),
			Text:        tok.Text,
			Channel:     tok.Channel.String(),
			File:        uint32(tok.Pos.File),
			Line:        tok.Pos.Line,
			Col:         tok.Pos.Col,
			EndLine:     tok.End.Line,
			EndCol:      tok.End.Col,
			Hidden:      hiddenKinds(tok),
			Abbreviated: tok.Abbreviated,
			Macro:       tok.MacroExpansion,
		}
		if tok.RawText != tok.Text {
			tokenOut.Raw = tok.RawText
		}
		output = append(output, tokenOut)

		if tok.Kind == token.EOF {
			break
		}
	}
	return output
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildTokensOutput(tokens))
}

// FormatTokensText writes the preprocessed source: every default channel
// token preceded by the whitespace and comments chained before it.
// Directives and discarded text do not appear.
func FormatTokensText(w io.Writer, tokens []token.Token) error {
	var b strings.Builder
	for i := range tokens {
		tok := &tokens[i]
		for _, h := range tok.Hidden() {
			if h.Kind == token.WS || h.Kind == token.Comment {
				b.WriteString(h.Text)
			}
		}
		if tok.Kind == token.EOF {
			break
		}
		if tok.Channel == token.ChannelDefault {
			b.WriteString(tok.Text)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
