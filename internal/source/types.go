package source

type (
	// FileID is the index of a file within a compile unit. The main file is always 0.
	FileID uint32 // порядок первого обращения
	// FileFlags encodes metadata about a source file.
	FileFlags uint8 // метаданные
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota // добавлен не с диска (тест, stdin)
	FileHadBOM
	FileNormalizedCRLF
	// FileXCoded marks an encrypted include; its content is dropped.
	FileXCoded
	// FileTranscoded marks content converted from a non UTF-8 encoding.
	FileTranscoded
	// FilePending marks an index reserved by name before the content was read.
	FilePending
)

// File captures metadata and content for a single source file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}
