package macro

import (
	"golang.org/x/text/cases"

	"ablpp/internal/source"
)

type graphScope struct {
	include EventID
	defs    map[string]EventID
}

// Graph is the macro event tree of one compile unit, kept as a flat arena.
// The root is a synthetic include of the main file. The processor feeds it
// through the builder methods while it scans; afterwards it is read-only.
type Graph struct {
	events *Arena[Event]
	root   EventID

	cur     EventID // открытая ссылка (include или макрос)
	include EventID // открытый include
	scopes  []graphScope
	global  map[string]EventID
	fold    cases.Caser

	appBuilder bool
	sections   []Section
	open       *Section
}

// NewGraph creates a graph holding only the root include of file 0.
func NewGraph() *Graph {
	g := &Graph{
		events: NewArena[Event](64),
		global: make(map[string]EventID),
		fold:   cases.Fold(),
	}
	g.root = g.add(Event{Kind: EventInclude, Target: 0})
	g.cur = g.root
	g.include = g.root
	g.scopes = []graphScope{{include: g.root, defs: make(map[string]EventID)}}
	return g
}

func (g *Graph) add(e Event) EventID {
	return EventID(g.events.Allocate(e))
}

func (g *Graph) key(name string) string { return g.fold.String(name) }

// addChild adds e as the last child of the open reference.
func (g *Graph) addChild(e Event) EventID {
	e.Parent = g.cur
	id := g.add(e)
	parent := g.events.Get(uint32(g.cur))
	parent.Children = append(parent.Children, id)
	return id
}

// Root returns the synthetic include of the main file.
func (g *Graph) Root() EventID { return g.root }

// Event returns the event with the given id, nil for NoEvent.
func (g *Graph) Event(id EventID) *Event { return g.events.Get(uint32(id)) }

// Len is the number of events, the root included.
func (g *Graph) Len() int { return g.events.Len() }

// Current returns the reference events are currently appended to.
func (g *Graph) Current() EventID { return g.cur }

// Define records a &GLOBAL-DEFINE or &SCOPED-DEFINE.
func (g *Graph) Define(kind DefKind, name, value string, start, end source.Pos) EventID {
	id := g.addChild(Event{Kind: EventDef, DefKind: kind, Name: name, Value: value, Start: start, End: end})
	switch kind {
	case DefGlobal:
		g.global[g.key(name)] = id
	case DefScoped:
		g.scopes[len(g.scopes)-1].defs[g.key(name)] = id
	}
	return id
}

// Undefine records an &UNDEFINE and links it to the definition it removes,
// searched in the same order as Store.Undefine.
func (g *Graph) Undefine(name string, start, end source.Pos) EventID {
	id := g.addChild(Event{Kind: EventDef, DefKind: DefUndefine, Name: name, Start: start, End: end})
	g.Event(id).UndefWhat = g.undefine(name)
	return id
}

func (g *Graph) undefine(name string) EventID {
	k := g.key(name)
	top := g.scopes[len(g.scopes)-1]
	if def, ok := top.defs[k]; ok {
		delete(top.defs, k)
		return def
	}
	if arg := g.namedArg(g.include, name); arg != NoEvent {
		g.Event(arg).Removed = true
		return arg
	}
	for i := len(g.scopes) - 2; i >= 0; i-- {
		if def, ok := g.scopes[i].defs[k]; ok {
			delete(g.scopes[i].defs, k)
			return def
		}
	}
	if def, ok := g.global[k]; ok {
		delete(g.global, k)
		return def
	}
	return NoEvent
}

// Include opens an include reference to file target. Following events
// belong to it until IncludeEnd.
func (g *Graph) Include(refName string, target source.FileID, start, end source.Pos) EventID {
	id := g.addChild(Event{Kind: EventInclude, RefName: refName, Target: target, Start: start, End: end})
	g.cur = id
	g.include = id
	g.scopes = append(g.scopes, graphScope{include: id, defs: make(map[string]EventID)})
	return id
}

// IncludeArg adds an argument to the open include. An empty name makes a
// positional argument; hasValue is false for &name written without '='.
func (g *Graph) IncludeArg(name, value string, hasValue bool) EventID {
	incl := g.Event(g.include)
	e := Event{
		Kind:       EventDef,
		Parent:     incl.Parent,
		Name:       name,
		Value:      value,
		Undefined:  !hasValue,
		IncludeRef: g.include,
		Start:      incl.Start,
		End:        incl.End,
		DefKind:    DefNumberedArg,
	}
	if name != "" {
		e.DefKind = DefNamedArg
	}
	id := g.add(e)
	// incl мог переехать при росте арены
	incl = g.Event(g.include)
	incl.Args = append(incl.Args, id)
	if name != "" {
		incl.UsesNamedArgs = true
	}
	return id
}

// IncludeEnd closes the open include.
func (g *Graph) IncludeEnd() {
	if len(g.scopes) == 1 {
		return
	}
	closing := g.scopes[len(g.scopes)-1].include
	g.scopes = g.scopes[:len(g.scopes)-1]
	g.include = g.scopes[len(g.scopes)-1].include
	g.cur = g.Event(closing).Parent
}

// MacroRef opens a macro reference and resolves name to its definition.
func (g *Graph) MacroRef(name string, start, end source.Pos) EventID {
	id := g.addChild(Event{Kind: EventMacroRef, Name: name, Def: g.lookup(name), Start: start, End: end})
	g.cur = id
	return id
}

// MacroRefEnd closes the innermost open macro reference.
func (g *Graph) MacroRefEnd() {
	if e := g.Event(g.cur); e != nil && e.Kind == EventMacroRef {
		g.cur = e.Parent
	}
}

func (g *Graph) lookup(name string) EventID {
	k := g.key(name)
	if def, ok := g.scopes[len(g.scopes)-1].defs[k]; ok {
		return def
	}
	if arg := g.namedArg(g.include, name); arg != NoEvent {
		return arg
	}
	for i := len(g.scopes) - 2; i >= 0; i-- {
		if def, ok := g.scopes[i].defs[k]; ok {
			return def
		}
	}
	return g.global[k]
}

func (g *Graph) namedArg(include EventID, name string) EventID {
	incl := g.Event(include)
	if incl == nil || !incl.UsesNamedArgs {
		return NoEvent
	}
	k := g.key(name)
	for _, id := range incl.Args {
		arg := g.Event(id)
		if !arg.Removed && arg.DefKind == DefNamedArg && g.key(arg.Name) == k {
			return id
		}
	}
	return NoEvent
}
