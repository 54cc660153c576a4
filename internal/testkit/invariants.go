// Package testkit holds invariant checks shared by the preprocessor tests.
package testkit

import (
	"fmt"

	"ablpp/internal/source"
	"ablpp/internal/token"
)

// CheckTokenInvariants runs a minimal set of invariants on a preprocessed stream:
// 1) the stream ends with exactly one EOF
// 2) visible tokens are on the default channel, chained tokens are not
// 3) every position points into a known file and inside its line range
// 4) a token never ends before it starts within the same file
func CheckTokenInvariants(toks []token.Token, files *source.FileTable) error {
	if len(toks) == 0 {
		return fmt.Errorf("empty token stream")
	}
	for i := range toks {
		tok := &toks[i]
		last := i == len(toks)-1
		if (tok.Kind == token.EOF) != last {
			return fmt.Errorf("token %d: EOF must be the last token, got %s", i, tok.Kind)
		}
		if tok.Channel != token.ChannelDefault {
			return fmt.Errorf("token %d %s: visible token on channel %s", i, tok.Kind, tok.Channel)
		}
		if err := checkPos(files, tok.Pos); err != nil {
			return fmt.Errorf("token %d %s start: %w", i, tok.Kind, err)
		}
		if err := checkPos(files, tok.End); err != nil {
			return fmt.Errorf("token %d %s end: %w", i, tok.Kind, err)
		}
		if tok.Pos.File == tok.End.File && tok.End.Compare(tok.Pos) < 0 {
			return fmt.Errorf("token %d %s %q ends before it starts: %s..%s", i, tok.Kind, tok.Text, tok.Pos, tok.End)
		}
		for _, h := range tok.Hidden() {
			if h.Channel == token.ChannelDefault {
				return fmt.Errorf("token %d: default channel %s %q in hidden chain", i, h.Kind, h.Text)
			}
		}
	}
	return nil
}

func checkPos(files *source.FileTable, p source.Pos) error {
	if !p.IsValid() {
		return nil
	}
	if int(p.File) >= files.Len() {
		return fmt.Errorf("unknown file id %d", p.File)
	}
	// EOF стоит на строке после последнего перевода строки
	if limit := files.Get(p.File).LineCount() + 1; p.Line > limit {
		return fmt.Errorf("line %d beyond %s (%d lines)", p.Line, files.Path(p.File), limit-1)
	}
	if p.Col < 1 {
		return fmt.Errorf("column %d at %s", p.Col, p)
	}
	return nil
}
