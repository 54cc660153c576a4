package source

import (
	"bytes"
	"path/filepath"
)

var (
	utf8BOM = []byte{0xEF, 0xBB, 0xBF}
	crlf    = []byte("\r\n")
	lf      = []byte("\n")
)

// normalizeCRLF заменяет \r\n на \n; одиночный \r остаётся (в ABL это
// обычный символ внутри строк).
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !bytes.Contains(content, crlf) {
		return content, false
	}
	return bytes.ReplaceAll(content, crlf, lf), true
}

func removeBOM(content []byte) ([]byte, bool) {
	return bytes.CutPrefix(content, utf8BOM)
}

// buildLineIndex returns the offsets of every '\n'.
func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, bytes.Count(content, lf))
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i))
		}
	}
	return out
}

func normalizePath(p string) string {
	// единый вид в кроссплатформенных дифах
	return filepath.ToSlash(filepath.Clean(p))
}

// CanonicalPath returns an absolute, slash-separated path, or the normalized input when it cannot be made absolute.
func CanonicalPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return normalizePath(abs)
	}
	return normalizePath(p)
}

// BaseName returns the last element of a normalized path.
func BaseName(p string) string {
	return filepath.Base(filepath.FromSlash(p))
}
