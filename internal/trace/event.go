package trace

import "time"

// Kind is the type of a trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindHeartbeat // liveness signal while a unit is running
)

var kindNames = [...]string{
	KindSpanBegin: "begin",
	KindSpanEnd:   "end",
	KindPoint:     "point",
	KindHeartbeat: "heartbeat",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is the granularity of an event. Lower values are coarser.
type Scope uint8

const (
	// ScopeDriver covers the CLI run and per-unit driver work (cache, load).
	ScopeDriver Scope = iota + 1
	// ScopeUnit covers one compile unit: a main file and everything it includes.
	ScopeUnit
	// ScopeInclude covers the text of one include reference.
	ScopeInclude
	// ScopeDirective marks a single &-directive.
	ScopeDirective
	ScopeToken
)

var scopeNames = [...]string{
	ScopeDriver:    "driver",
	ScopeUnit:      "unit",
	ScopeInclude:   "include",
	ScopeDirective: "directive",
	ScopeToken:     "token",
}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// Attr is one key/value pair attached to a span end.
type Attr struct {
	Key   string
	Value string
}

// Event is a single trace record.
type Event struct {
	Time     time.Time
	Seq      uint64 // assigned by the sink that stores the event
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for top level spans
	Unit     string // path of the compile unit, empty outside units
	Name     string // "unit", "include:x.i", "&IF"...
	Detail   string
	Attrs    []Attr // in the order they were set
}
