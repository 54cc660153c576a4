package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ablpp/internal/source"
	"ablpp/internal/token"
)

func sampleTokens() []token.Token {
	comment := &token.Token{Kind: token.Comment, Text: "/* c */", Channel: token.ChannelHidden}
	ws := &token.Token{Kind: token.WS, Text: " ", Channel: token.ChannelHidden, HiddenBefore: comment}
	return []token.Token{
		{
			Kind: token.KwMessage, Text: "MESS", Abbreviated: true,
			Pos: source.Pos{Line: 1, Col: 9}, End: source.Pos{Line: 1, Col: 12},
			HiddenBefore: ws,
		},
		{
			Kind: token.QString, Text: `"x"`, MacroExpansion: true,
			Pos: source.Pos{Line: 1, Col: 14}, End: source.Pos{Line: 1, Col: 14},
		},
		{Kind: token.EOF, Pos: source.Pos{Line: 2, Col: 1}, End: source.Pos{Line: 2, Col: 1}},
		{Kind: token.ID, Text: "after-eof"},
	}
}

func TestFormatTokensPretty(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, sampleTokens()); err != nil {
		t.Fatal(err)
	}
	want := "  1: MESSAGE         \"MESS\" at 0:1:9-1:12 abbrev (hidden: COMMENT, WS)\n" +
		"  2: QSTRING         \"\\\"x\\\"\" at 0:1:14-1:14 macro\n" +
		"  3: EOF             at 0:2:1-2:1\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatTokensPrettyChannelAndRaw(t *testing.T) {
	toks := []token.Token{{
		Kind: token.ID, Text: "a.b", RawText: "a. b", Channel: token.ChannelDefault,
		Pos: source.Pos{File: 1, Line: 3, Col: 1}, End: source.Pos{File: 1, Line: 3, Col: 4},
	}, {
		Kind: token.AmpGlobalDefine, Text: "&GLOBAL-DEFINE x 1", Channel: token.ChannelPreprocessor,
		Pos: source.Pos{File: 1, Line: 4, Col: 1}, End: source.Pos{File: 1, Line: 4, Col: 18},
	}}
	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, toks); err != nil {
		t.Fatal(err)
	}
	want := "  1: ID              \"a.b\" at 1:3:1-3:4 raw=\"a. b\"\n" +
		"  2: AMPGLOBALDEFINE \"&GLOBAL-DEFINE x 1\" at 1:4:1-4:18 [prepro]\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatTokensJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatTokensJSON(&buf, sampleTokens()); err != nil {
		t.Fatal(err)
	}
	var got []TokenOutput
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	want := []TokenOutput{
		{Kind: "MESSAGE", Text: "MESS", Channel: "default", Line: 1, Col: 9, EndLine: 1, EndCol: 12, Hidden: []string{"COMMENT", "WS"}, Abbreviated: true},
		{Kind: "QSTRING", Text: `"x"`, Channel: "default", Line: 1, Col: 14, EndLine: 1, EndCol: 14, Macro: true},
		{Kind: "EOF", Channel: "default", Line: 2, Col: 1, EndLine: 2, EndCol: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatTokensText(t *testing.T) {
	ifTok := &token.Token{Kind: token.AmpIf, Text: "&IF", Channel: token.ChannelPreprocessor}
	ws := &token.Token{Kind: token.WS, Text: "\n", Channel: token.ChannelHidden, HiddenBefore: ifTok}
	toks := []token.Token{
		{Kind: token.ID, Text: "a"},
		{Kind: token.Period, Text: ".", HiddenBefore: &token.Token{Kind: token.Comment, Text: "/* x */", Channel: token.ChannelHidden}},
		{Kind: token.ID, Text: "b", HiddenBefore: ws},
		{Kind: token.EOF, HiddenBefore: &token.Token{Kind: token.WS, Text: "\n", Channel: token.ChannelHidden}},
	}
	var buf bytes.Buffer
	if err := FormatTokensText(&buf, toks); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "a/* x */.\nb\n"; got != want {
		t.Errorf("text = %q, want %q", got, want)
	}
}
