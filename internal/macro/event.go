package macro

import "ablpp/internal/source"

// EventID addresses an event in a Graph. NoEvent is the zero id.
type EventID uint32

const NoEvent EventID = 0

// EventKind tags the variant of an Event.
type EventKind uint8

const (
	// EventInclude is an include reference. It owns its arguments and the
	// events that happen inside the included file.
	EventInclude EventKind = iota + 1
	// EventMacroRef is a {&name}, {N}, {*} or {&*} reference. Its children
	// are the events produced while its value was scanned.
	EventMacroRef
	// EventDef is a define, an undefine or an include argument (see DefKind).
	EventDef
)

func (k EventKind) String() string {
	switch k {
	case EventInclude:
		return "include"
	case EventMacroRef:
		return "macroref"
	case EventDef:
		return "def"
	default:
		return "?"
	}
}

// Event is one node of the macro graph. Shared fields come first; the rest
// is meaningful only for the variants named in the comments. Links between
// events are ids into the same graph.
type Event struct {
	Kind   EventKind
	Parent EventID
	// Start is the position of '{' or of the directive's '&'; End is just
	// past the reference or directive. Both are in the coordinates of the
	// file the event occurs in.
	Start source.Pos
	End   source.Pos

	// include, macroref
	Children []EventID

	// include
	Target        source.FileID
	RefName       string
	Args          []EventID
	UsesNamedArgs bool

	// macroref, def
	Name string
	// macroref: the definition the name resolved to, NoEvent when none.
	Def EventID

	// def
	DefKind   DefKind
	Value     string
	Undefined bool
	// IncludeRef is the owning include of an argument.
	IncludeRef EventID
	// UndefWhat is the definition an UNDEFINE removed.
	UndefWhat EventID
	// Removed marks a named argument dropped by &UNDEFINE.
	Removed bool
}

// File is the index of the file the event occurs in.
func (e *Event) File() source.FileID { return e.Start.File }

// Range returns the half-open span of the event.
func (e *Event) Range() source.Range { return source.Range{Start: e.Start, End: e.End} }

// Contains reports whether line:col lies on or after the start of the event and strictly before its end.
func (e *Event) Contains(line, col int) bool {
	return e.Range().Contains(line, col)
}

// NumArgs is the number of arguments of an include.
func (e *Event) NumArgs() int { return len(e.Args) }

// IsRef reports whether the event is a reference (include or macro).
func (e *Event) IsRef() bool { return e.Kind == EventInclude || e.Kind == EventMacroRef }
