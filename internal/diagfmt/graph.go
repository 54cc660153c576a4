package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"ablpp/internal/macro"
	"ablpp/internal/source"
)

// GraphNodeJSON is one event of the macro graph in JSON output.
type GraphNodeJSON struct {
	Kind    string          `json:"kind"`
	DefKind string          `json:"def_kind,omitempty"`
	Name    string          `json:"name,omitempty"`
	Value   *string         `json:"value,omitempty"`
	File    string          `json:"file,omitempty"`
	At      string          `json:"at,omitempty"`
	Def     string          `json:"def,omitempty"`
	Args    []GraphNodeJSON `json:"args,omitempty"`
	Nodes   []GraphNodeJSON `json:"children,omitempty"`
}

// describeEvent возвращает однострочное описание события без отступа
func describeEvent(g *macro.Graph, files *source.FileTable, id macro.EventID, mode PathMode) string {
	e := g.Event(id)
	var b strings.Builder
	switch e.Kind {
	case macro.EventInclude:
		b.WriteString("include ")
		if id == g.Root() {
			b.WriteString(displayPath(files, e.Target, mode, ""))
			return b.String()
		}
		fmt.Fprintf(&b, "{%s} -> %s", e.RefName, displayPath(files, e.Target, mode, ""))
	case macro.EventMacroRef:
		fmt.Fprintf(&b, "ref {%s}", e.Name)
		if e.Def != macro.NoEvent {
			fmt.Fprintf(&b, " -> %s", g.DefinitionPosition(e.Def))
		} else {
			b.WriteString(" -> undefined")
		}
	case macro.EventDef:
		fmt.Fprintf(&b, "%s %s", strings.ToLower(e.DefKind.String()), e.Name)
		if e.DefKind != macro.DefUndefine {
			fmt.Fprintf(&b, " = %s", strconv.Quote(e.Value))
		}
		if e.Removed {
			b.WriteString(" (removed)")
		}
	}
	if e.Start.IsValid() {
		fmt.Fprintf(&b, " @%s", e.Start)
	}
	return b.String()
}

// FormatGraphPretty печатает дерево событий с отступом по глубине.
// Аргументы include идут сразу под ним с пометкой "arg".
func FormatGraphPretty(w io.Writer, g *macro.Graph, files *source.FileTable, mode PathMode) error {
	var b strings.Builder
	g.Walk(func(id macro.EventID, depth int) bool {
		indent := strings.Repeat("  ", depth)
		b.WriteString(indent)
		b.WriteString(describeEvent(g, files, id, mode))
		b.WriteByte('\n')
		for i, arg := range g.Event(id).Args {
			a := g.Event(arg)
			name := a.Name
			if a.DefKind == macro.DefNumberedArg {
				name = strconv.Itoa(i + 1)
			}
			fmt.Fprintf(&b, "%s    arg %s = %s\n", indent, name, strconv.Quote(a.Value))
		}
		return true
	})
	_, err := io.WriteString(w, b.String())
	return err
}

// BuildGraphOutput converts the graph to a nested JSON tree rooted at the main file.
func BuildGraphOutput(g *macro.Graph, files *source.FileTable, mode PathMode) GraphNodeJSON {
	return graphNode(g, files, g.Root(), mode)
}

func graphNode(g *macro.Graph, files *source.FileTable, id macro.EventID, mode PathMode) GraphNodeJSON {
	e := g.Event(id)
	n := GraphNodeJSON{Kind: e.Kind.String()}
	if e.Start.IsValid() {
		n.At = e.Start.String()
	}
	switch e.Kind {
	case macro.EventInclude:
		n.Name = e.RefName
		n.File = displayPath(files, e.Target, mode, "")
		for _, arg := range e.Args {
			n.Args = append(n.Args, graphNode(g, files, arg, mode))
		}
	case macro.EventMacroRef:
		n.Name = e.Name
		if e.Def != macro.NoEvent {
			n.Def = g.DefinitionPosition(e.Def).String()
		}
	case macro.EventDef:
		n.DefKind = e.DefKind.String()
		n.Name = e.Name
		if e.DefKind != macro.DefUndefine {
			v := e.Value
			n.Value = &v
		}
	}
	for _, child := range e.Children {
		n.Nodes = append(n.Nodes, graphNode(g, files, child, mode))
	}
	return n
}

// FormatGraphJSON выводит граф в JSON формате
func FormatGraphJSON(w io.Writer, g *macro.Graph, files *source.FileTable, mode PathMode) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildGraphOutput(g, files, mode))
}

// FormatExternalRefs lists the external references of the graph in
// document order, one per line or as a flat JSON array.
func FormatExternalRefs(w io.Writer, g *macro.Graph, files *source.FileTable, mode PathMode, format string) error {
	refs := g.FindExternalMacroReferences()
	if format == "json" {
		out := make([]GraphNodeJSON, 0, len(refs))
		for _, id := range refs {
			n := graphNode(g, files, id, mode)
			n.Nodes = nil
			out = append(out, n)
		}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(out)
	}
	var b strings.Builder
	for _, id := range refs {
		b.WriteString(describeEvent(g, files, id, mode))
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}
