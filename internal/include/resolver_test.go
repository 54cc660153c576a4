package include

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"ablpp/internal/diag"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("/* */\n"), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestResolvePropathOrder(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(second, "inc", "a.i"))
	writeFile(t, filepath.Join(first, "inc", "b.i"))
	writeFile(t, filepath.Join(second, "inc", "b.i"))

	r := NewResolver([]string{first, second})
	got, err := r.Resolve("inc/a.i")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(second, "inc", "a.i"); got != want {
		t.Errorf("Resolve(a.i) = %q, want %q", got, want)
	}
	got, err = r.Resolve(`inc\b.i`)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(first, "inc", "b.i"); got != want {
		t.Errorf("first propath entry should win: %q, want %q", got, want)
	}
}

func TestResolveSkipsDirectories(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	if err := os.MkdirAll(filepath.Join(first, "x.i"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(second, "x.i"))
	got, err := Resolve("x.i", []string{first, second})
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(second, "x.i"); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestResolveAbsolute(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "abs.i")
	writeFile(t, path)
	got, err := Resolve(filepath.ToSlash(path), nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != path {
		t.Errorf("got %q, want %q", got, path)
	}
}

func TestResolveNotFound(t *testing.T) {
	r := NewResolver([]string{t.TempDir()})
	for range 2 {
		_, err := r.Resolve("missing.i")
		var nf *diag.IncludeNotFoundError
		if !errors.As(err, &nf) {
			t.Fatalf("err = %v", err)
		}
		if nf.Name != "missing.i" || len(nf.Propath) != 1 {
			t.Errorf("error fields = %+v", nf)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("not-found error should match fs.ErrNotExist")
		}
	}
	if r.CacheHits() != 1 {
		t.Errorf("CacheHits = %d, want 1", r.CacheHits())
	}
	if _, err := r.Resolve("  "); err == nil {
		t.Errorf("blank name resolved")
	}
}

func TestResolverCachesAnswers(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "c.i"))
	r := NewResolver([]string{dir})
	calls := 0
	stat := r.stat
	r.stat = func(p string) (fs.FileInfo, error) {
		calls++
		return stat(p)
	}
	for range 3 {
		if _, err := r.Resolve("c.i"); err != nil {
			t.Fatal(err)
		}
	}
	if calls != 1 {
		t.Errorf("stat called %d times", calls)
	}
	if r.CacheHits() != 2 {
		t.Errorf("CacheHits = %d", r.CacheHits())
	}
}
