package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileTableFirstReferenceOrder(t *testing.T) {
	ft := NewFileTable()

	main := ft.AddVirtual("main.p", []byte("{a.i}\n"))
	if main != 0 {
		t.Fatalf("main file must be 0, got %d", main)
	}
	a := ft.Intern("a.i")
	b := ft.Intern("sub/../b.i")
	again := ft.Intern("a.i")

	if a != 1 || b != 2 {
		t.Errorf("expected indices 1 and 2, got %d and %d", a, b)
	}
	if again != a {
		t.Errorf("same path must keep its index: %d != %d", again, a)
	}
	if got := ft.Path(b); got != "b.i" {
		t.Errorf("expected normalized path b.i, got %q", got)
	}
	want := []string{"main.p", "a.i", "b.i"}
	got := ft.Paths()
	if len(got) != len(want) {
		t.Fatalf("Paths() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Paths()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFileTableAddKeepsFirstContent(t *testing.T) {
	ft := NewFileTable()
	id := ft.Intern("x.i")
	if ft.Get(id).Flags&FilePending == 0 {
		t.Fatal("interned file must be pending")
	}
	ft.Add("x.i", []byte("first"), 0)
	ft.Add("x.i", []byte("second"), 0)

	if got := string(ft.Get(id).Content); got != "first" {
		t.Errorf("content = %q, want first", got)
	}
	if ft.Get(id).Flags&FilePending != 0 {
		t.Error("pending flag must be cleared")
	}
}

func TestLoadNormalizesAndFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bom.p")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBFa\r\nb\r\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	ft := NewFileTable()
	id, err := ft.Load(path, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := ft.Get(id)
	if string(f.Content) != "a\nb\n" {
		t.Errorf("content = %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Errorf("flags = %b, want BOM and CRLF", f.Flags)
	}
	if f.GetLine(2) != "b" {
		t.Errorf("GetLine(2) = %q", f.GetLine(2))
	}
	if f.LineCount() != 2 {
		t.Errorf("LineCount = %d", f.LineCount())
	}
}

func TestLoadTranscodesLatin1(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "latin.p")
	// "é" в ISO-8859-1
	if err := os.WriteFile(path, []byte{'a', 0xE9}, 0o600); err != nil {
		t.Fatal(err)
	}

	ft := NewFileTable()
	id, err := ft.Load(path, "iso-8859-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := ft.Get(id)
	if string(f.Content) != "aé" {
		t.Errorf("content = %q", f.Content)
	}
	if f.Flags&FileTranscoded == 0 {
		t.Error("expected FileTranscoded")
	}
}

func TestLoadXCoded(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "enc.i")
	if err := os.WriteFile(path, []byte{0x13, 'x', 'y'}, 0o600); err != nil {
		t.Fatal(err)
	}

	ft := NewFileTable()
	id, err := ft.Load(path, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := ft.Get(id)
	if f.Flags&FileXCoded == 0 || len(f.Content) != 0 {
		t.Errorf("expected empty xcoded file, got flags=%b content=%q", f.Flags, f.Content)
	}
}

func TestLoadUnknownEncoding(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.p")
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileTable().Load(path, "no-such-charset"); err == nil {
		t.Fatal("expected error for unknown encoding")
	}
}
