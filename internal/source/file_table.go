package source

import (
	"crypto/sha256"
	"fmt"
	"os"

	"fortio.org/safecast"
)

// FileTable assigns a stable index to every file of a compile unit.
// Indices follow the order of first reference; the main file is 0.
type FileTable struct {
	files []File
	index map[string]FileID // normalized path -> id
}

// NewFileTable creates a new empty FileTable.
func NewFileTable() *FileTable {
	return &FileTable{
		files: make([]File, 0, 8),
		index: make(map[string]FileID),
	}
}

// Intern возвращает индекс пути, резервируя новый при первом обращении.
// Содержимое можно привязать позже через Add или Load.
func (t *FileTable) Intern(path string) FileID {
	normalizedPath := normalizePath(path)
	if id, ok := t.index[normalizedPath]; ok {
		return id
	}
	id := t.nextID()
	t.files = append(t.files, File{ID: id, Path: normalizedPath, Flags: FilePending})
	t.index[normalizedPath] = id
	return id
}

// Add stores normalized content for path, computes LineIdx and Hash, and returns its FileID.
// A path that already has content keeps its first version.
func (t *FileTable) Add(path string, content []byte, flags FileFlags) FileID {
	id := t.Intern(path)
	f := &t.files[id]
	if f.Flags&FilePending == 0 {
		return id
	}
	f.Content = content
	f.LineIdx = buildLineIndex(content)
	f.Hash = sha256.Sum256(content)
	f.Flags = flags
	return id
}

// Load reads a file from disk, decodes it from encoding and normalizes BOM/CRLF.
// Encrypted (xcode) payloads are kept with empty content and the FileXCoded flag;
// the caller decides whether that is fatal.
func (t *FileTable) Load(path, encoding string) (FileID, error) {
	if id, ok := t.Lookup(path); ok && t.files[id].Flags&FilePending == 0 {
		return id, nil
	}
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	if IsXCoded(content) {
		return t.Add(path, nil, FileXCoded), nil
	}

	flags := FileFlags(0)
	content, hadBOM := removeBOM(content)
	if hadBOM {
		flags |= FileHadBOM
	}
	content, transcoded, err := Decode(content, encoding)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	if transcoded {
		flags |= FileTranscoded
	}
	content, hadCRLF := normalizeCRLF(content)
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return t.Add(path, content, flags), nil
}

// AddVirtual adds a virtual file (stdin, test, or generated) with the FileVirtual flag.
func (t *FileTable) AddVirtual(name string, content []byte) FileID {
	content, hadBOM := removeBOM(content)
	flags := FileVirtual
	if hadBOM {
		flags |= FileHadBOM
	}
	return t.Add(name, content, flags)
}

// Get returns the file metadata for the given ID.
func (t *FileTable) Get(id FileID) *File {
	return &t.files[id]
}

// Lookup returns the index already assigned to path.
func (t *FileTable) Lookup(path string) (FileID, bool) {
	id, ok := t.index[normalizePath(path)]
	return id, ok
}

// Path возвращает путь файла или "" для неизвестного индекса.
func (t *FileTable) Path(id FileID) string {
	if int(id) >= len(t.files) {
		return ""
	}
	return t.files[id].Path
}

func (t *FileTable) Len() int {
	return len(t.files)
}

// Paths returns the file array in index order.
func (t *FileTable) Paths() []string {
	out := make([]string, len(t.files))
	for i := range t.files {
		out[i] = t.files[i].Path
	}
	return out
}

func (t *FileTable) nextID() FileID {
	n, err := safecast.Conv[uint32](len(t.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	return FileID(n)
}

// GetLine возвращает строку с заданным номером (1-based) из файла.
// Если строка не существует, возвращает пустую строку.
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 {
		return ""
	}

	var start, end, lenLineIdx, lenContent uint32
	var err error
	lenLineIdx, err = safecast.Conv[uint32](len(f.LineIdx))
	if err != nil {
		panic(fmt.Errorf("line index length overflow: %w", err))
	}
	lenContent, err = safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}

	switch {
	case lineNum == 1:
		start = 0
	case (lineNum - 2) < lenLineIdx:
		start = f.LineIdx[lineNum-2] + 1
	default:
		return ""
	}

	if (lineNum - 1) < lenLineIdx {
		end = f.LineIdx[lineNum-1]
	} else {
		end = lenContent
	}

	if start >= lenContent {
		return ""
	}
	return string(f.Content[start:end])
}

// LineCount returns the number of lines, counting a trailing partial line.
func (f *File) LineCount() int {
	n := len(f.LineIdx)
	if len(f.Content) > 0 && f.Content[len(f.Content)-1] != '\n' {
		n++
	}
	return n
}
