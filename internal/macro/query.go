package macro

import (
	"ablpp/internal/source"
)

// FindExternalMacroReferences returns the external references under the
// root in document order: includes, references to definitions made outside
// the tree, and undefines of arguments or of outside definitions.
func (g *Graph) FindExternalMacroReferences() []EventID {
	return g.ExternalRefs(g.root)
}

// ExternalRefs is FindExternalMacroReferences for the subtree of ref.
func (g *Graph) ExternalRefs(ref EventID) []EventID {
	var out []EventID
	e := g.Event(ref)
	if e == nil {
		return nil
	}
	for _, child := range e.Children {
		out = g.external(ref, child, out)
	}
	return out
}

// FindExternalMacroReferencesInRange is FindExternalMacroReferences limited to
// the top level events whose range intersects [from, to]: an event starting
// exactly at to is included, one ending exactly at from is not.
func (g *Graph) FindExternalMacroReferencesInRange(from, to source.Pos) []EventID {
	var out []EventID
	for _, child := range g.Event(g.root).Children {
		if g.Event(child).Range().Intersects(from, to) {
			out = g.external(g.root, child, out)
		}
	}
	return out
}

func (g *Graph) external(owner, id EventID, out []EventID) []EventID {
	e := g.Event(id)
	switch e.Kind {
	case EventInclude:
		return append(out, id)
	case EventDef:
		if e.DefKind != DefUndefine || e.UndefWhat == NoEvent {
			return out
		}
		what := g.Event(e.UndefWhat)
		if what.DefKind == DefNamedArg || !g.isUnder(what.Parent, owner) {
			out = append(out, id)
		}
		return out
	}
	if e.Def == NoEvent || !g.isUnder(g.Event(e.Def).Parent, owner) {
		return append(out, id)
	}
	// локальный макрос может ссылаться на внешние
	for _, child := range e.Children {
		out = g.external(owner, child, out)
	}
	return out
}

// isUnder reports whether id is owner or one of its descendants.
func (g *Graph) isUnder(id, owner EventID) bool {
	for id != NoEvent {
		if id == owner {
			return true
		}
		id = g.Event(id).Parent
	}
	return false
}

// FindIncludeReferences returns the includes opened by file, in document order.
// Includes nested deeper (opened by the included files) are not listed.
func (g *Graph) FindIncludeReferences(file source.FileID) []EventID {
	var out []EventID
	g.Walk(func(id EventID, _ int) bool {
		e := g.Event(id)
		if id != g.root && e.Kind == EventInclude && g.openerFile(e) == file {
			out = append(out, id)
		}
		return true
	})
	return out
}

// FindReferencesTo returns every include of file, at any depth.
func (g *Graph) FindReferencesTo(file source.FileID) []EventID {
	var out []EventID
	g.Walk(func(id EventID, _ int) bool {
		e := g.Event(id)
		if id != g.root && e.Kind == EventInclude && e.Target == file {
			out = append(out, id)
		}
		return true
	})
	return out
}

// openerFile is the file whose text holds the reference: the target of the
// nearest enclosing include.
func (g *Graph) openerFile(e *Event) source.FileID {
	for p := e.Parent; p != NoEvent; p = g.Event(p).Parent {
		if pe := g.Event(p); pe.Kind == EventInclude {
			return pe.Target
		}
	}
	return 0
}

// Walk visits the root and every reference and definition below it in
// document order. Returning false from fn skips the children of that event.
// Include arguments are not visited.
func (g *Graph) Walk(fn func(id EventID, depth int) bool) {
	g.walk(g.root, 0, fn)
}

func (g *Graph) walk(id EventID, depth int, fn func(EventID, int) bool) {
	if !fn(id, depth) {
		return
	}
	for _, child := range g.Event(id).Children {
		g.walk(child, depth+1, fn)
	}
}

// AllEvents returns every event in document order, include arguments right
// after their include.
func (g *Graph) AllEvents() []EventID {
	out := make([]EventID, 0, g.Len())
	g.Walk(func(id EventID, _ int) bool {
		out = append(out, id)
		out = append(out, g.Event(id).Args...)
		return true
	})
	return out
}

// SourceArray lists the root and every reference below it in document
// order. Index i is the source number of the i-th text the scanner read.
func (g *Graph) SourceArray() []EventID {
	var out []EventID
	g.Walk(func(id EventID, _ int) bool {
		if !g.Event(id).IsRef() {
			return false
		}
		out = append(out, id)
		return true
	})
	return out
}

// ArgNumber returns argument n (counting from 1) of include, or nil.
func (g *Graph) ArgNumber(include EventID, n int) *Event {
	e := g.Event(include)
	if e == nil || n < 1 || n > len(e.Args) {
		return nil
	}
	return g.Event(e.Args[n-1])
}

// LookupNamedArg returns the named argument of include, or nil. Includes
// with positional arguments have no named ones.
func (g *Graph) LookupNamedArg(include EventID, name string) *Event {
	return g.Event(g.namedArg(include, name))
}

// DefinitionPosition traces a definition back to the text it was written
// in. A define made while a macro value was scanned is located at the
// definition of that macro; an include argument at its include reference.
func (g *Graph) DefinitionPosition(def EventID) source.Pos {
	e := g.Event(def)
	if e == nil {
		return source.Pos{}
	}
	at := e
	if e.IncludeRef != NoEvent {
		at = g.Event(e.IncludeRef)
	}
	if parent := g.Event(at.Parent); parent != nil && parent.Kind == EventMacroRef && parent.Def != NoEvent && parent.Def != def {
		return g.DefinitionPosition(parent.Def)
	}
	return at.Start
}
