package macro

import (
	"strings"

	"ablpp/internal/source"
)

// Section is a code block of the main file that AppBuilder lets the user edit.
type Section struct {
	File      source.FileID
	StartLine int
	EndLine   int
	Args      string
}

// AnalyzeSuspend marks the unit as AppBuilder code and, for an editable
// block of the main file, opens a section. args are the comma separated
// directive options.
func (g *Graph) AnalyzeSuspend(args string, line int) {
	g.appBuilder = true
	file := g.Event(g.include).Target
	if file == 0 && IsEditableInAppBuilder(args) {
		g.open = &Section{File: file, StartLine: line, Args: args}
	}
}

// AnalyzeResume closes the open section.
func (g *Graph) AnalyzeResume(line int) {
	if g.open != nil && g.Event(g.include).Target == g.open.File {
		g.open.EndLine = line
		g.sections = append(g.sections, *g.open)
	}
	g.open = nil
}

// IsAppBuilderCode reports whether an &ANALYZE-SUSPEND was seen.
func (g *Graph) IsAppBuilderCode() bool { return g.appBuilder }

// Sections returns the closed editable sections in source order.
func (g *Graph) Sections() []Section { return g.sections }

// IsLineEditable reports whether line of file lies in an editable section.
func (g *Graph) IsLineEditable(file source.FileID, line int) bool {
	for _, s := range g.sections {
		if s.File == file && s.StartLine <= line && line <= s.EndLine {
			return true
		}
	}
	return false
}

// IsEditableInAppBuilder reports whether &ANALYZE-SUSPEND options (comma
// separated) open a block the user may edit: a _UIB-CODE-BLOCK of kind
// _CONTROL, _PROCEDURE, _FUNCTION or _CUSTOM _DEFINITIONS / _MAIN-BLOCK.
func IsEditableInAppBuilder(args string) bool {
	opts := strings.Split(strings.ToUpper(args), ",")
	if len(opts) < 2 || opts[0] != "_UIB-CODE-BLOCK" {
		return false
	}
	switch opts[1] {
	case "_CONTROL", "_PROCEDURE", "_FUNCTION":
		return true
	case "_CUSTOM":
		return len(opts) > 2 && (opts[2] == "_DEFINITIONS" || opts[2] == "_MAIN-BLOCK")
	}
	return false
}
