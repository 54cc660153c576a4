package macro

import "golang.org/x/text/cases"

// Data is the serializable form of a finished Graph.
type Data struct {
	Events     []Event   `msgpack:"events"`
	AppBuilder bool      `msgpack:"app_builder"`
	Sections   []Section `msgpack:"sections"`
}

// Data returns the events and sections of g. The slices are shared.
func (g *Graph) Data() Data {
	return Data{Events: g.events.Slice(), AppBuilder: g.appBuilder, Sections: g.sections}
}

// FromData rebuilds a read-only graph from d.
func FromData(d Data) *Graph {
	g := &Graph{
		events:     &Arena[Event]{data: d.Events},
		global:     make(map[string]EventID),
		fold:       cases.Fold(),
		appBuilder: d.AppBuilder,
		sections:   d.Sections,
	}
	if len(d.Events) == 0 {
		return NewGraph()
	}
	g.root = 1
	g.cur = g.root
	g.include = g.root
	g.scopes = []graphScope{{include: g.root, defs: make(map[string]EventID)}}
	return g
}
