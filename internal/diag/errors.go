package diag

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"ablpp/internal/source"
)

// Frame is a position inside a named file.
type Frame struct {
	Path string
	Pos  source.Pos
}

func (f Frame) String() string {
	return fmt.Sprintf("%s:%d:%d", f.Path, f.Pos.Line, f.Pos.Col)
}

// Location is where a fatal error happened plus the chain of include
// references that led there, innermost includer first.
type Location struct {
	At    Frame
	Chain []Frame
}

func (l Location) format(msg string) string {
	var sb strings.Builder
	sb.WriteString(l.At.String())
	sb.WriteString(": ")
	sb.WriteString(msg)
	for _, fr := range l.Chain {
		sb.WriteString("\n\tincluded from ")
		sb.WriteString(fr.String())
	}
	return sb.String()
}

func (l Location) notes() []Note {
	notes := make([]Note, 0, len(l.Chain))
	for _, fr := range l.Chain {
		notes = append(notes, Note{Pos: fr.Pos, Msg: "included from " + fr.String()})
	}
	return notes
}

// LexicalError is a malformed character sequence. It aborts the compile unit.
type LexicalError struct {
	Location
	Code Code
	Msg  string
}

func (e *LexicalError) Error() string { return e.format(e.Msg) }

// PreprocessorSyntaxError is a misplaced or unterminated conditional directive.
type PreprocessorSyntaxError struct {
	Location
	Code Code
	Msg  string
}

func (e *PreprocessorSyntaxError) Error() string { return e.format(e.Msg) }

// IncludeNotFoundError reports an include reference that no propath entry satisfies.
type IncludeNotFoundError struct {
	Location
	Name    string
	Propath []string
}

func (e *IncludeNotFoundError) Error() string {
	return e.format(fmt.Sprintf("unable to find include file %q", e.Name))
}

func (e *IncludeNotFoundError) Unwrap() error { return fs.ErrNotExist }

// XCodeEncounteredError is returned for encrypted includes when skipping them is disabled.
type XCodeEncounteredError struct {
	Location
	Path string
}

func (e *XCodeEncounteredError) Error() string {
	return e.format(fmt.Sprintf("unable to read xcoded include %s", e.Path))
}

// AsDiagnostic converts one of the fatal errors into an error Diagnostic.
func AsDiagnostic(err error) (Diagnostic, bool) {
	var (
		lexErr   *LexicalError
		synErr   *PreprocessorSyntaxError
		notFound *IncludeNotFoundError
		xcode    *XCodeEncounteredError
	)
	switch {
	case errors.As(err, &lexErr):
		return Diagnostic{Severity: SevError, Code: lexErr.Code, Message: lexErr.Msg, Primary: lexErr.At.Pos, Notes: lexErr.notes()}, true
	case errors.As(err, &synErr):
		return Diagnostic{Severity: SevError, Code: synErr.Code, Message: synErr.Msg, Primary: synErr.At.Pos, Notes: synErr.notes()}, true
	case errors.As(err, &notFound):
		msg := fmt.Sprintf("unable to find include file %q", notFound.Name)
		return Diagnostic{Severity: SevError, Code: IOIncludeNotFound, Message: msg, Primary: notFound.At.Pos, Notes: notFound.notes()}, true
	case errors.As(err, &xcode):
		msg := "unable to read xcoded include " + xcode.Path
		return Diagnostic{Severity: SevError, Code: IOXCodeEncountered, Message: msg, Primary: xcode.At.Pos, Notes: xcode.notes()}, true
	}
	return Diagnostic{}, false
}
