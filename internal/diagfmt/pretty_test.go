package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ablpp/internal/diag"
	"ablpp/internal/source"
)

func sampleBag() (*diag.Bag, *source.FileTable) {
	files := source.NewFileTable()
	main := files.AddVirtual("/home/user/project/src/main.p", []byte("a\n\t{nowhere.i}\n"))
	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.IOIncludeNotFound, source.Pos{File: main, Line: 2, Col: 2}, "include file not found: nowhere.i").
		WithNote(source.Pos{File: main, Line: 1, Col: 1}, "unit starts here"))
	return bag, files
}

func TestPrettyPreviewAndNotes(t *testing.T) {
	bag, files := sampleBag()
	var buf bytes.Buffer
	opts := PrettyOpts{PathMode: PathModeBasename, ShowNotes: true, ShowPreview: true}
	if err := Pretty(&buf, bag, files, opts); err != nil {
		t.Fatalf("Pretty() error: %v", err)
	}
	want := "main.p:2:2: ERROR IO3002: include file not found: nowhere.i\n" +
		"   2 | \t{nowhere.i}\n" +
		"     | \t^\n" +
		"  note: main.p:1:1: unit starts here\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	files := source.NewFileTable()
	id := files.Add("/home/user/project/src/test.p", []byte("x.\n"), 0)
	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevWarning, diag.PreproBadCondition, source.Pos{File: id, Line: 1, Col: 1}, "bad"))

	tests := []struct {
		name string
		mode PathMode
		want string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/src/test.p:1:1:"},
		{"Relative path", PathModeRelative, "src/test.p:1:1:"},
		{"Basename only", PathModeBasename, "test.p:1:1:"},
		{"Auto inside base", PathModeAuto, "src/test.p:1:1:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			opts := PrettyOpts{PathMode: tt.mode, BaseDir: "/home/user/project"}
			if err := Pretty(&buf, bag, files, opts); err != nil {
				t.Fatal(err)
			}
			if !strings.HasPrefix(buf.String(), tt.want+" WARNING PPR2005: bad") {
				t.Errorf("got %q, want prefix %q", buf.String(), tt.want)
			}
		})
	}
}

func TestPrettyWithoutPosition(t *testing.T) {
	bag := diag.NewBag(10)
	bag.Add(diag.Diagnostic{Severity: diag.SevError, Code: diag.IOLoadFileError, Message: "failed to load file"})
	var buf bytes.Buffer
	if err := Pretty(&buf, bag, source.NewFileTable(), PrettyOpts{ShowPreview: true}); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "ERROR IO3001: failed to load file\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPrettyColor(t *testing.T) {
	bag, files := sampleBag()
	var plain, colored bytes.Buffer
	if err := Pretty(&plain, bag, files, PrettyOpts{PathMode: PathModeBasename}); err != nil {
		t.Fatal(err)
	}
	if err := Pretty(&colored, bag, files, PrettyOpts{PathMode: PathModeBasename, Color: true}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(plain.String(), "\x1b[") {
		t.Errorf("plain output has escapes: %q", plain.String())
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Errorf("colored output has no escapes: %q", colored.String())
	}
}

func TestPrettyTruncatesWideLines(t *testing.T) {
	files := source.NewFileTable()
	id := files.AddVirtual("w.p", []byte("MESSAGE \"日本語のテキストです\".\n"))
	bag := diag.NewBag(1)
	bag.Add(diag.NewError(diag.LexUnterminatedString, source.Pos{File: id, Line: 1, Col: 9}, "quote"))
	var buf bytes.Buffer
	if err := Pretty(&buf, bag, files, PrettyOpts{ShowPreview: true, Width: 16}); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(buf.String(), "\n")
	if !strings.HasSuffix(lines[1], "...") {
		t.Errorf("preview not truncated: %q", lines[1])
	}
	if got, want := lines[2], "     | "+strings.Repeat(" ", 8)+"^"; got != want {
		t.Errorf("caret line = %q, want %q", got, want)
	}
}

func TestCaretPaddingWideRunes(t *testing.T) {
	if got := caretPadding("日本x", 3); got != "    " {
		t.Errorf("padding = %q", got)
	}
}

func TestJSONDiagnostics(t *testing.T) {
	bag, files := sampleBag()
	var buf bytes.Buffer
	opts := JSONOpts{IncludePositions: true, PathMode: PathModeBasename, IncludeNotes: true}
	if err := JSON(&buf, bag, files, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput: %s", err, buf.String())
	}
	want := DiagnosticsOutput{
		Count: 1,
		Diagnostics: []DiagnosticJSON{{
			Severity: "ERROR",
			Code:     "IO3002",
			Title:    "Include file not found",
			Message:  "include file not found: nowhere.i",
			Location: &LocationJSON{File: "main.p", Line: 2, Col: 2},
			Notes: []NoteJSON{{
				Message:  "unit starts here",
				Location: &LocationJSON{File: "main.p", Line: 1, Col: 1},
			}},
		}},
	}
	if diff := cmp.Diff(want, output); diff != "" {
		t.Errorf("JSON mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONMaxAndTimingNotes(t *testing.T) {
	bag := diag.NewBag(10)
	bag.Add(diag.Diagnostic{Severity: diag.SevInfo, Code: diag.ObsTimings, Message: "timings", Notes: []diag.Note{{Msg: "{}"}}})
	bag.Add(diag.Diagnostic{Severity: diag.SevInfo, Code: diag.PreproMessage, Message: "second"})
	out := BuildDiagnosticsOutput(bag, source.NewFileTable(), JSONOpts{Max: 1})
	if out.Count != 1 {
		t.Fatalf("count = %d", out.Count)
	}
	if len(out.Diagnostics[0].Notes) != 1 || out.Diagnostics[0].Location != nil {
		t.Errorf("timings diagnostic = %+v", out.Diagnostics[0])
	}
}

func TestSarif(t *testing.T) {
	bag, files := sampleBag()
	bag.Add(diag.New(diag.SevWarning, diag.PreproBadCondition, source.Pos{Line: 1, Col: 1}, "bad condition"))
	var buf bytes.Buffer
	meta := SarifRunMeta{ToolName: "ablpp", ToolVersion: "dev", InvocationArgs: []string{"preprocess", "main.p"}}
	if err := Sarif(&buf, bag, files, meta); err != nil {
		t.Fatal(err)
	}
	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF: %v", err)
	}
	run := log.Runs[0]
	var rules []string
	for _, r := range run.Tool.Driver.Rules {
		rules = append(rules, r.ID)
	}
	if diff := cmp.Diff([]string{"IO3002", "PPR2005"}, rules); diff != "" {
		t.Errorf("rules mismatch (-want +got):\n%s", diff)
	}
	if len(run.Results) != 2 || run.Results[0].Level != "error" || run.Results[1].Level != "warning" {
		t.Fatalf("results = %+v", run.Results)
	}
	if got := run.Results[0].Locations[0].Physical.Region; got.StartLine != 2 || got.StartColumn != 2 {
		t.Errorf("region = %+v", got)
	}
	if len(run.Results[0].Related) != 1 {
		t.Errorf("related = %+v", run.Results[0].Related)
	}
	if run.Invocations[0].ExecutionSuccessful {
		t.Error("run with errors reported as successful")
	}
}
