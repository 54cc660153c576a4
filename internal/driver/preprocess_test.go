package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ablpp/internal/diag"
	"ablpp/internal/project"
	"ablpp/internal/token"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	return dir
}

func testOptions(dir string) Options {
	s := project.Default()
	s.Propath = []string{filepath.Join(dir, "inc")}
	return Options{Settings: s, MaxDiagnostics: 50}
}

func visibleTexts(toks []token.Token) []string {
	var out []string
	for _, tok := range toks {
		if tok.Kind != token.EOF {
			out = append(out, tok.Text)
		}
	}
	return out
}

func TestPreprocessUsesPropath(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"main.p":        "&GLOBAL-DEFINE who world\n{hello.i}\n",
		"inc/hello.i":   "MESSAGE \"hello\" \"{&who}\".\n",
		"other/hello.i": "wrong\n",
	})
	res, err := Preprocess(context.Background(), filepath.Join(dir, "main.p"), testOptions(dir))
	if err != nil {
		t.Fatalf("Preprocess error: %v", err)
	}
	if res.Err != nil {
		t.Fatalf("unit failed: %v", res.Err)
	}
	want := []string{"MESSAGE", `"hello"`, `"world"`, "."}
	if diff := cmp.Diff(want, visibleTexts(res.Tokens)); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
	if res.Files.Len() != 2 {
		t.Errorf("files = %v", res.Files.Paths())
	}
}

func TestPreprocessFatalErrorGoesToBag(t *testing.T) {
	dir := writeTree(t, map[string]string{"main.p": "a\n{nowhere.i}\n"})
	res, err := Preprocess(context.Background(), filepath.Join(dir, "main.p"), testOptions(dir))
	if err != nil {
		t.Fatalf("Preprocess error: %v", err)
	}
	var nf *diag.IncludeNotFoundError
	if !errors.As(res.Err, &nf) {
		t.Fatalf("Err = %v", res.Err)
	}
	if !res.Bag.HasErrors() {
		t.Fatalf("bag has no error")
	}
	d := res.Bag.Items()[res.Bag.Len()-1]
	if d.Code != diag.IOIncludeNotFound || d.Primary.Line != 2 {
		t.Errorf("diagnostic = %+v", d)
	}
}

func TestPreprocessMissingMainFile(t *testing.T) {
	_, err := Preprocess(context.Background(), filepath.Join(t.TempDir(), "none.p"), testOptions(""))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v", err)
	}
}

func TestTokenizeKeepsIncludes(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"main.p":  "{x.i}\n&IF FALSE &THEN y &ENDIF\n",
		"inc/x.i": "never\n",
	})
	res, err := Tokenize(context.Background(), filepath.Join(dir, "main.p"), testOptions(dir))
	if err != nil || res.Err != nil {
		t.Fatalf("Tokenize error: %v %v", err, res.Err)
	}
	if res.Tokens[0].Kind != token.IncludeDirective {
		t.Errorf("first token = %s", res.Tokens[0].Kind)
	}
	for _, tok := range res.Tokens {
		if tok.Text == "never" {
			t.Errorf("include was expanded")
		}
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"main.p":  "&SCOPED-DEFINE a 1\n/* c */ {x.i 2}\n&MESSAGE note\n",
		"inc/x.i": "v = {&a} + {1}.\n",
	})
	cache, err := NewDiskCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	opts := testOptions(dir)
	opts.Cache = cache
	main := filepath.Join(dir, "main.p")

	first, err := Preprocess(context.Background(), main, opts)
	if err != nil || first.Err != nil {
		t.Fatalf("first run: %v %v", err, first.Err)
	}
	if first.Cached {
		t.Fatal("first run came from the cache")
	}
	second, err := Preprocess(context.Background(), main, opts)
	if err != nil || second.Err != nil {
		t.Fatalf("second run: %v %v", err, second.Err)
	}
	if !second.Cached {
		t.Fatal("second run missed the cache")
	}
	if diff := cmp.Diff(visibleTexts(first.Tokens), visibleTexts(second.Tokens)); diff != "" {
		t.Errorf("tokens differ (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first.Files.Paths(), second.Files.Paths()); diff != "" {
		t.Errorf("files differ (-first +second):\n%s", diff)
	}
	if first.Graph.Len() != second.Graph.Len() || first.Metrics != second.Metrics {
		t.Errorf("graph %d/%d, metrics %+v/%+v", first.Graph.Len(), second.Graph.Len(), first.Metrics, second.Metrics)
	}
	if second.Bag.Len() != 1 || second.Bag.Items()[0].Code != diag.PreproMessage {
		t.Errorf("cached diagnostics = %+v", second.Bag.Items())
	}
	hidden := second.Tokens[0].Hidden()
	if len(hidden) == 0 {
		t.Errorf("hidden chain lost in the cache")
	}

	// изменение include делает запись устаревшей
	if err := os.WriteFile(filepath.Join(dir, "inc", "x.i"), []byte("w.\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	third, err := Preprocess(context.Background(), main, opts)
	if err != nil || third.Err != nil {
		t.Fatalf("third run: %v %v", err, third.Err)
	}
	if third.Cached {
		t.Error("stale entry was used")
	}
	if diff := cmp.Diff([]string{"w", "."}, visibleTexts(third.Tokens)); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestPreprocessDir(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"b.p":          "{common.i}\nb.\n",
		"a.w":          "{common.i}\na.\n",
		"sub/c.cls":    "CLASS c: END CLASS.\n",
		"broken.p":     "&IF TRUE\n",
		"inc/common.i": "common.\n",
		"notes.txt":    "ignored",
	})
	var mu sync.Mutex
	var done []string
	opts := DirOptions{
		Options: testOptions(dir),
		Jobs:    2,
		OnUnit: func(ev UnitEvent) {
			if !ev.Done {
				return
			}
			mu.Lock()
			done = append(done, filepath.Base(ev.Path))
			mu.Unlock()
		},
	}
	results, err := PreprocessDir(context.Background(), dir, opts)
	if err != nil {
		t.Fatalf("PreprocessDir error: %v", err)
	}
	var names []string
	var failed []string
	for _, res := range results {
		names = append(names, filepath.Base(res.Path))
		if res.Err != nil {
			failed = append(failed, filepath.Base(res.Path))
		}
	}
	if diff := cmp.Diff([]string{"a.w", "b.p", "broken.p", "c.cls"}, names); diff != "" {
		t.Errorf("units mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"broken.p"}, failed); diff != "" {
		t.Errorf("failed units mismatch (-want +got):\n%s", diff)
	}
	if len(done) != 4 {
		t.Errorf("progress events = %v", done)
	}
	if diff := cmp.Diff([]string{"common", ".", "b", "."}, visibleTexts(results[1].Tokens)); diff != "" {
		t.Errorf("b.p tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestPreprocessDirCancelled(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.p": "a.\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := PreprocessDir(ctx, dir, DirOptions{Options: testOptions(dir)})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v", err)
	}
}

func TestTimingsDiagnostic(t *testing.T) {
	dir := writeTree(t, map[string]string{"main.p": "x.\n"})
	opts := testOptions(dir)
	opts.EnableTimings = true
	var phases []string
	opts.Observer = func(ev PhaseEvent) {
		if ev.Status == PhaseEnd {
			phases = append(phases, ev.Name)
		}
	}
	res, err := Preprocess(context.Background(), filepath.Join(dir, "main.p"), opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.Timing == nil || len(res.Timing.Phases) != 2 {
		t.Fatalf("timing = %+v", res.Timing)
	}
	if diff := cmp.Diff([]string{"load", "preprocess"}, phases); diff != "" {
		t.Errorf("phases mismatch (-want +got):\n%s", diff)
	}
	last := res.Bag.Items()[res.Bag.Len()-1]
	if last.Code != diag.ObsTimings || len(last.Notes) != 1 {
		t.Errorf("timing diagnostic = %+v", last)
	}
}
