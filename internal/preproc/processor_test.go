package preproc_test

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ablpp/internal/diag"
	"ablpp/internal/eval"
	"ablpp/internal/include"
	"ablpp/internal/macro"
	"ablpp/internal/preproc"
	"ablpp/internal/source"
	"ablpp/internal/testkit"
	"ablpp/internal/token"
	"ablpp/internal/trace"
)

// unit пишет файлы во временный каталог и готовит процессор для main.p
type unit struct {
	dir   string
	files *source.FileTable
	bag   *diag.Bag
	p     *preproc.Processor
}

func newUnit(t *testing.T, files map[string]string, configure func(*preproc.Config)) *unit {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	table := source.NewFileTable()
	main, err := table.Load(filepath.Join(dir, "main.p"), "")
	if err != nil {
		t.Fatal(err)
	}
	bag := diag.NewBag(100)
	cfg := preproc.DefaultConfig()
	cfg.Finder = include.NewResolver([]string{dir})
	cfg.Reporter = diag.BagReporter{Bag: bag}
	if configure != nil {
		configure(&cfg)
	}
	return &unit{
		dir:   dir,
		files: table,
		bag:   bag,
		p:     preproc.New(context.Background(), table, main, cfg),
	}
}

func (u *unit) all(t *testing.T) []token.Token {
	t.Helper()
	toks, err := u.p.All()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return toks
}

// texts returns the text of the visible tokens, EOF excluded.
func texts(toks []token.Token) []string {
	var out []string
	for _, tok := range toks {
		if tok.Kind != token.EOF {
			out = append(out, tok.Text)
		}
	}
	return out
}

func hiddenKinds(tok token.Token) []token.Kind {
	var out []token.Kind
	for _, h := range tok.Hidden() {
		if h.Kind != token.WS {
			out = append(out, h.Kind)
		}
	}
	return out
}

func TestConditionalBranches(t *testing.T) {
	src := "&SCOPED-DEFINE X 1\n" +
		"&IF {&X} = 1 &THEN\n" +
		"MESSAGE \"ok\".\n" +
		"&ELSE\n" +
		"MESSAGE \"no\".\n" +
		"&ENDIF\n"
	u := newUnit(t, map[string]string{"main.p": src}, nil)
	toks := u.all(t)

	if diff := cmp.Diff([]string{"MESSAGE", `"ok"`, "."}, texts(toks)); diff != "" {
		t.Fatalf("visible tokens mismatch (-want +got):\n%s", diff)
	}
	for _, tok := range toks {
		for _, h := range append(tok.Hidden(), &tok) {
			if strings.Contains(h.Text, `"no"`) {
				t.Errorf("discarded text leaked: %s %q", h.Kind, h.Text)
			}
		}
	}

	want := []token.Kind{token.AmpScopedDefine, token.AmpIf, token.PreproExprTrue, token.AmpThen}
	if diff := cmp.Diff(want, hiddenKinds(toks[0])); diff != "" {
		t.Errorf("hidden before MESSAGE mismatch (-want +got):\n%s", diff)
	}
	for _, h := range toks[0].Hidden() {
		if h.Kind == token.PreproExprTrue && h.Text != "1 == 1" {
			t.Errorf("condition rendered as %q", h.Text)
		}
	}
	eof := toks[len(toks)-1]
	if diff := cmp.Diff([]token.Kind{token.AmpElse, token.AmpEndIf}, hiddenKinds(eof)); diff != "" {
		t.Errorf("hidden before EOF mismatch (-want +got):\n%s", diff)
	}
}

func TestNestedConditionals(t *testing.T) {
	src := `&IF FALSE &THEN
  a
  &IF TRUE &THEN b &ENDIF
&ELSEIF 1 > 2 &THEN
  c
&ELSEIF "x" = "x" &THEN
  d
  &IF FALSE &THEN e &ELSE f &ENDIF
&ELSE
  g
&ENDIF
h
`
	u := newUnit(t, map[string]string{"main.p": src}, nil)
	if diff := cmp.Diff([]string{"d", "f", "h"}, texts(u.all(t))); diff != "" {
		t.Errorf("visible tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestDefinedLevels(t *testing.T) {
	src := "&GLOBAL-DEFINE g 1\n&SCOPED-DEFINE s 1\n" +
		"&IF DEFINED(g) = 1 AND DEFINED(s) = 3 AND DEFINED(nope) = 0 &THEN yes &ELSE no &ENDIF\n"
	u := newUnit(t, map[string]string{"main.p": src}, nil)
	if diff := cmp.Diff([]string{"yes"}, texts(u.all(t))); diff != "" {
		t.Errorf("visible tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultFallback(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"unbound", "&IF DEFAULT(zz, \"1\") = \"1\" &THEN yes &ELSE no &ENDIF\n", []string{"yes"}},
		{"bound", "&GLOBAL-DEFINE zz 2\n&IF DEFAULT(zz, \"1\") = \"2\" &THEN yes &ELSE no &ENDIF\n", []string{"yes"}},
		{"bound wins", "&SCOPED-DEFINE zz abc\n&IF DEFAULT(zz, \"1\") = \"1\" &THEN yes &ELSE no &ENDIF\n", []string{"no"}},
		{"expression fallback", "&IF DEFAULT(zz, 1 + 2) = 3 &THEN yes &ELSE no &ENDIF\n", []string{"yes"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := newUnit(t, map[string]string{"main.p": tt.src}, nil)
			if diff := cmp.Diff(tt.want, texts(u.all(t))); diff != "" {
				t.Errorf("visible tokens mismatch (-want +got):\n%s", diff)
			}
			for _, d := range u.bag.Items() {
				if d.Severity >= diag.SevWarning {
					t.Errorf("unexpected diagnostic: %s", d.Message)
				}
			}
		})
	}
}

func TestScopedAndGlobalAcrossInclude(t *testing.T) {
	files := map[string]string{
		"main.p": "&GLOBAL-DEFINE g gval\n&SCOPED-DEFINE s sval\n{inc.i}\n{&inner}x {&g2}\n",
		"inc.i":  "&SCOPED-DEFINE inner ival\n&GLOBAL-DEFINE g2 g2val\n{&g} {&s} {&inner}\n",
	}
	u := newUnit(t, files, nil)
	want := []string{"gval", "sval", "ival", "x", "g2val"}
	if diff := cmp.Diff(want, texts(u.all(t))); diff != "" {
		t.Errorf("visible tokens mismatch (-want +got):\n%s", diff)
	}
	if got := u.p.Store().Lookup("inner"); !got.Undefined {
		t.Errorf("scoped define of the include survived it: %+v", got)
	}
}

func TestFileArray(t *testing.T) {
	files := map[string]string{
		"main.p": "a\nb\nc\n{a.i}\n",
		"a.i":    "d\n{b.i}\n",
		"b.i":    "e\n",
	}
	u := newUnit(t, files, nil)
	if diff := cmp.Diff([]string{"a", "b", "c", "d", "e"}, texts(u.all(t))); diff != "" {
		t.Fatalf("visible tokens mismatch (-want +got):\n%s", diff)
	}
	if u.files.Len() != 3 {
		t.Fatalf("files = %v", u.files.Paths())
	}
	for id, name := range []string{"main.p", "a.i", "b.i"} {
		if got := filepath.Base(u.files.Path(source.FileID(id))); got != name {
			t.Errorf("file %d = %s, want %s", id, got, name)
		}
	}

	g := u.p.Graph()
	refs := g.SourceArray()
	if len(refs) != 3 {
		t.Fatalf("source array = %v", refs)
	}
	a, b := g.Event(refs[1]), g.Event(refs[2])
	if a.Target != 1 || a.Start != (source.Pos{File: 0, Line: 4, Col: 1}) {
		t.Errorf("a.i include = target %d at %s", a.Target, a.Start)
	}
	if b.Target != 2 || b.Start != (source.Pos{File: 1, Line: 2, Col: 1}) {
		t.Errorf("b.i include = target %d at %s", b.Target, b.Start)
	}
	if !a.Contains(4, 3) || a.Contains(5, 1) {
		t.Errorf("a.i include range = %s", a.Range())
	}
	if diff := cmp.Diff([]macro.EventID{refs[2]}, g.FindIncludeReferences(1)); diff != "" {
		t.Errorf("includes opened by a.i mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]macro.EventID{refs[2]}, g.FindReferencesTo(2)); diff != "" {
		t.Errorf("references to b.i mismatch (-want +got):\n%s", diff)
	}
}

func TestIncludeArguments(t *testing.T) {
	files := map[string]string{
		"main.p": "{x.i &abc &myParam=1}\n",
		"x.i":    "&IF DEFINED(abc) = 2 &THEN named &ENDIF\n{&myParam}\n",
	}
	u := newUnit(t, files, nil)
	if diff := cmp.Diff([]string{"named", "1"}, texts(u.all(t))); diff != "" {
		t.Fatalf("visible tokens mismatch (-want +got):\n%s", diff)
	}
	g := u.p.Graph()
	incl := g.SourceArray()[1]
	if !g.Event(incl).UsesNamedArgs {
		t.Errorf("include does not use named arguments")
	}
	if arg := g.ArgNumber(incl, 1); arg == nil || arg.Name != "abc" || !arg.Undefined {
		t.Errorf("arg 1 = %+v", arg)
	}
	if arg := g.ArgNumber(incl, 2); arg == nil || arg.Value != "1" {
		t.Errorf("arg 2 = %+v", arg)
	}
	if arg := g.LookupNamedArg(incl, "MYPARAM"); arg == nil || arg.Value != "1" {
		t.Errorf("named arg myParam = %+v", arg)
	}
}

func TestPositionalArguments(t *testing.T) {
	files := map[string]string{
		"main.p": "{p.i one \"two words\"}\n",
		"p.i":    "{2} {1} {*}\n",
	}
	u := newUnit(t, files, nil)
	want := []string{"two", "words", "one", "one", "two", "words"}
	if diff := cmp.Diff(want, texts(u.all(t))); diff != "" {
		t.Errorf("visible tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestBuiltinNames(t *testing.T) {
	src := "{&opsys} {&batch-mode} {&sequence} {&sequence} {&window-system}\n{&line-number}\n"
	u := newUnit(t, map[string]string{"main.p": src}, func(cfg *preproc.Config) {
		cfg.Env = eval.StaticEnv{OS: "UNIX", Version: "12.8", Arch: 64}
		cfg.BatchMode = true
		cfg.WindowSystem = "TTY"
	})
	want := []string{"UNIX", "true", "0", "1", "TTY", "2"}
	if diff := cmp.Diff(want, texts(u.all(t))); diff != "" {
		t.Errorf("visible tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestUserDefineShadowsBuiltin(t *testing.T) {
	src := "&GLOBAL-DEFINE opsys mine\n{&opsys}\n"
	u := newUnit(t, map[string]string{"main.p": src}, nil)
	if diff := cmp.Diff([]string{"mine"}, texts(u.all(t))); diff != "" {
		t.Errorf("visible tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestNameDotMerge(t *testing.T) {
	tests := []struct {
		name string
		src  string
		text []string
		raw  []string
	}{
		{
			name: "qualified field",
			src:  "DISPLAY tt.fld1.",
			text: []string{"DISPLAY", "tt.fld1", "."},
			raw:  []string{"DISPLAY", "tt.fld1", "."},
		},
		{
			name: "comment after dot",
			src:  "tt./* c */ fld1",
			text: []string{"tt.fld1"},
			raw:  []string{"tt./* c */ fld1"},
		},
		{
			name: "decimal suffix",
			src:  "x.5 y",
			text: []string{"x.5", "y"},
			raw:  []string{"x.5", "y"},
		},
		{
			name: "dot before end of input",
			src:  "a./* c */",
			text: []string{"a", "."},
			raw:  []string{"a", "."},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := newUnit(t, map[string]string{"main.p": tt.src}, nil)
			toks := u.all(t)
			if diff := cmp.Diff(tt.text, texts(toks)); diff != "" {
				t.Errorf("text mismatch (-want +got):\n%s", diff)
			}
			var raw []string
			for _, tok := range toks[:len(toks)-1] {
				raw = append(raw, tok.Raw())
			}
			if diff := cmp.Diff(tt.raw, raw); diff != "" {
				t.Errorf("raw text mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestProparseDirective(t *testing.T) {
	src := "{&_proparse_ prolint-nowarn(shared)}\nDEFINE SHARED VARIABLE x AS INTEGER NO-UNDO.\n"
	u := newUnit(t, map[string]string{"main.p": src}, nil)
	toks := u.all(t)
	if toks[0].Kind != token.KwDefine {
		t.Fatalf("first token = %s %q", toks[0].Kind, toks[0].Text)
	}
	if !toks[0].HasDirective("shared") {
		t.Errorf("directive not attached: %v", toks[0].Directives())
	}
	if toks[1].HasDirective("shared") {
		t.Errorf("directive attached to %q too", toks[1].Text)
	}
}

func TestLexOnlyKeepsIncludeReferences(t *testing.T) {
	files := map[string]string{
		"main.p": "{inc.i arg}\nx\n",
		"inc.i":  "y\n",
	}
	u := newUnit(t, files, func(cfg *preproc.Config) { cfg.LexOnly = true })
	toks := u.all(t)
	if toks[0].Kind != token.IncludeDirective || toks[0].Text != "{inc.i arg}" {
		t.Errorf("first token = %s %q", toks[0].Kind, toks[0].Text)
	}
	if diff := cmp.Diff([]string{"{inc.i arg}", "x"}, texts(toks)); diff != "" {
		t.Errorf("visible tokens mismatch (-want +got):\n%s", diff)
	}
	if u.files.Len() != 1 {
		t.Errorf("include was read: %v", u.files.Paths())
	}
}

func TestFatalErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
	}{
		{"stray then", "a &THEN b", diag.PreproUnexpectedThen},
		{"end in condition", "&IF TRUE", diag.PreproEOFInCondition},
		{"end in discarded text", "&IF FALSE &THEN x", diag.PreproEOFInDiscard},
		{"else without if", "&ELSE x &ENDIF", diag.PreproUnmatchedElse},
		{"bad defined", "&IF DEFINED x &THEN &ENDIF", diag.PreproBadDefined},
		{"default without fallback", "&IF DEFAULT(x) = 1 &THEN &ENDIF", diag.PreproBadDefault},
		{"default cut by then", "&IF DEFAULT(x, 1 &THEN &ENDIF", diag.PreproBadDefault},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := newUnit(t, map[string]string{"main.p": tt.src}, nil)
			toks, err := u.p.All()
			var synErr *diag.PreprocessorSyntaxError
			if !errors.As(err, &synErr) {
				t.Fatalf("err = %v, want PreprocessorSyntaxError", err)
			}
			if synErr.Code != tt.code {
				t.Errorf("code = %v, want %v", synErr.Code, tt.code)
			}
			if last := toks[len(toks)-1]; last.Kind != token.EOF {
				t.Errorf("last token = %s", last.Kind)
			}
			tok, again := u.p.Next()
			if tok.Kind != token.EOF || !errors.Is(again, err) {
				t.Errorf("Next after failure = %s, %v", tok.Kind, again)
			}
		})
	}
}

// Лишний &ENDIF не ошибка: он уходит в препроцессорный канал.
func TestStrayEndIf(t *testing.T) {
	u := newUnit(t, map[string]string{"main.p": "a &ENDIF b\n"}, nil)
	toks := u.all(t)
	if diff := cmp.Diff([]string{"a", "b"}, texts(toks)); diff != "" {
		t.Fatalf("visible tokens mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]token.Kind{token.AmpEndIf}, hiddenKinds(toks[1])); diff != "" {
		t.Errorf("hidden before b mismatch (-want +got):\n%s", diff)
	}
}

func TestIncludeNotFound(t *testing.T) {
	u := newUnit(t, map[string]string{"main.p": "a\n  {missing.i}\n"}, nil)
	_, err := u.p.All()
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("err = %v, want not exist", err)
	}
	var nf *diag.IncludeNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %T", err)
	}
	if nf.Name != "missing.i" {
		t.Errorf("name = %q", nf.Name)
	}
	if nf.At.Pos != (source.Pos{File: 0, Line: 2, Col: 3}) {
		t.Errorf("at = %s", nf.At.Pos)
	}
	if u.p.Err() != err {
		t.Errorf("Err() = %v", u.p.Err())
	}
}

func TestXCodedInclude(t *testing.T) {
	files := map[string]string{
		"main.p": "a {enc.i} b\n",
		"enc.i":  "\x11secret",
	}
	t.Run("skipped", func(t *testing.T) {
		u := newUnit(t, files, nil)
		if diff := cmp.Diff([]string{"a", "b"}, texts(u.all(t))); diff != "" {
			t.Errorf("visible tokens mismatch (-want +got):\n%s", diff)
		}
	})
	t.Run("fatal", func(t *testing.T) {
		u := newUnit(t, files, func(cfg *preproc.Config) { cfg.SkipXCode = false })
		_, err := u.p.All()
		var xerr *diag.XCodeEncounteredError
		if !errors.As(err, &xerr) {
			t.Fatalf("err = %v, want XCodeEncounteredError", err)
		}
		if filepath.Base(xerr.Path) != "enc.i" {
			t.Errorf("path = %s", xerr.Path)
		}
	})
}

func TestStickyEOF(t *testing.T) {
	u := newUnit(t, map[string]string{"main.p": "a"}, nil)
	kinds := make([]token.Kind, 0, 4)
	for range 4 {
		tok, err := u.p.Next()
		if err != nil {
			t.Fatal(err)
		}
		kinds = append(kinds, tok.Kind)
	}
	want := []token.Kind{token.ID, token.EOF, token.EOF, token.EOF}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestDiagnostics(t *testing.T) {
	src := "&MESSAGE hello there\n&IF myfunc(1) &THEN a &ENDIF b\n&IF FALSE &THEN\n&MESSAGE hidden\n&ENDIF\n"
	u := newUnit(t, map[string]string{"main.p": src}, nil)
	if diff := cmp.Diff([]string{"b"}, texts(u.all(t))); diff != "" {
		t.Errorf("visible tokens mismatch (-want +got):\n%s", diff)
	}
	type item struct {
		Code diag.Code
		Sev  diag.Severity
		Line int
	}
	var got []item
	for _, d := range u.bag.Items() {
		got = append(got, item{d.Code, d.Severity, d.Primary.Line})
	}
	want := []item{
		{diag.PreproMessage, diag.SevInfo, 1},
		{diag.PreproUnknownFunction, diag.SevWarning, 2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}
	if msg := u.bag.Items()[0].Message; msg != "hello there" {
		t.Errorf("message = %q", msg)
	}
}

func TestUndefine(t *testing.T) {
	src := "&GLOBAL-DEFINE x 1\n&UNDEFINE x\n&IF DEFINED(x) = 0 &THEN gone &ENDIF\n"
	u := newUnit(t, map[string]string{"main.p": src}, nil)
	if diff := cmp.Diff([]string{"gone"}, texts(u.all(t))); diff != "" {
		t.Errorf("visible tokens mismatch (-want +got):\n%s", diff)
	}
	var undefs int
	for _, id := range u.p.Graph().AllEvents() {
		if e := u.p.Graph().Event(id); e.Kind == macro.EventDef && e.DefKind == macro.DefUndefine {
			undefs++
		}
	}
	if undefs != 1 {
		t.Errorf("undefine events = %d", undefs)
	}
}

func TestAnalyzeSections(t *testing.T) {
	src := "&ANALYZE-SUSPEND _UIB-CODE-BLOCK _CUSTOM _DEFINITIONS\nx\n&ANALYZE-RESUME\n"
	u := newUnit(t, map[string]string{"main.p": src}, nil)
	u.all(t)
	if !u.p.IsAppBuilderCode() {
		t.Errorf("unit not marked as AppBuilder code")
	}
}

func TestStreamInvariants(t *testing.T) {
	cases := map[string]map[string]string{
		"namedot": {
			"main.p": "&GLOBAL-DEFINE fld name\nDISPLAY customer.{&fld} {inc.i}.\n",
			"inc.i":  "WITH FRAME f",
		},
		"conditional": {
			"main.p": "&IF DEFINED(x) = 0 &THEN\n  a.\n&ELSE\n  b.\n&ENDIF\n/* tail */",
		},
		"nested include": {
			"main.p": "{a.i &p=1}\nc.\n",
			"a.i":    "{b.i x}\n",
			"b.i":    "MESSAGE {1} {&p}.\n",
		},
	}
	for name, files := range cases {
		t.Run(name, func(t *testing.T) {
			u := newUnit(t, files, nil)
			if err := testkit.CheckTokenInvariants(u.all(t), u.files); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestDeterministic(t *testing.T) {
	files := map[string]string{
		"main.p": "&SCOPED-DEFINE a 1\n{inc.i x}\n&IF {&a} > 0 &THEN y &ENDIF\n",
		"inc.i":  "{1} {&sequence}\n",
	}
	type summary struct {
		Kind token.Kind
		Text string
		Pos  source.Pos
	}
	run := func() ([]summary, int) {
		u := newUnit(t, files, nil)
		var out []summary
		for _, tok := range u.all(t) {
			out = append(out, summary{tok.Kind, tok.Text, tok.Pos})
		}
		return out, u.p.Graph().Len()
	}
	first, firstLen := run()
	second, secondLen := run()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("runs differ (-first +second):\n%s", diff)
	}
	if firstLen != secondLen {
		t.Errorf("graph sizes differ: %d vs %d", firstLen, secondLen)
	}
}

func TestTraceEvents(t *testing.T) {
	u := newUnit(t, map[string]string{
		"main.p": "&GLOBAL-DEFINE a 1\n{inc.i}\n&IF {&a} = 1 &THEN x &ENDIF\n",
		"inc.i":  "y\n",
	}, nil)
	ring := trace.NewRingTracer(64, trace.LevelDetail)
	ctx := trace.WithTracer(context.Background(), ring)
	main, _ := u.files.Lookup(filepath.Join(u.dir, "main.p"))
	cfg := preproc.DefaultConfig()
	cfg.Finder = include.NewResolver([]string{u.dir})
	p := preproc.New(ctx, u.files, main, cfg)
	if _, err := p.All(); err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, ev := range ring.Snapshot() {
		if ev.Unit != u.files.Path(main) {
			t.Errorf("event %s has unit %q", ev.Name, ev.Unit)
		}
		names = append(names, ev.Kind.String()+" "+ev.Name)
	}
	want := []string{
		"begin unit",
		"point &GLOBAL-DEFINE",
		"begin include:inc.i",
		"end include:inc.i",
		"point &IF",
		"end unit",
	}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("trace mismatch (-want +got):\n%s", diff)
	}
}

func TestMetrics(t *testing.T) {
	files := map[string]string{
		"main.p": "/* header */\na {inc.i} {&x}\n\nb\n",
		"inc.i":  "c\n",
	}
	u := newUnit(t, files, nil)
	u.all(t)
	m := u.p.Metrics()
	if m.Includes != 1 || m.MacroRefs != 1 || m.Tokens != 3 {
		t.Errorf("metrics = %+v", m)
	}
	if m.LinesOfCode != 2 || m.CommentedLines != 1 {
		t.Errorf("line counts = %d loc, %d commented", m.LinesOfCode, m.CommentedLines)
	}
}
