package macro

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"ablpp/internal/source"
)

// DefKind classifies a macro definition.
type DefKind uint8

const (
	DefGlobal DefKind = iota + 1
	DefScoped
	DefNumberedArg
	DefNamedArg
	DefUndefine
)

func (k DefKind) String() string {
	switch k {
	case DefGlobal:
		return "GLOBAL"
	case DefScoped:
		return "SCOPED"
	case DefNumberedArg:
		return "NUMBEREDARG"
	case DefNamedArg:
		return "NAMEDARG"
	case DefUndefine:
		return "UNDEFINE"
	default:
		return "?"
	}
}

// Def is a binding found by Store.Lookup. Undefined marks the sentinel for a
// name that is not bound, or a named include argument given without a value.
type Def struct {
	Name      string
	Kind      DefKind
	Value     string
	Undefined bool
	Pos       source.Pos
}

// Значения DEFINED(): уровень, на котором найдено имя.
const (
	LevelUndefined = 0
	LevelGlobal    = 1
	LevelNamedArg  = 2
	LevelScoped    = 3
)

type namedArg struct {
	name     string
	value    string
	hasValue bool
}

// scope holds what one include file sees on its own level: its scoped
// defines and the arguments it was included with.
type scope struct {
	defs map[string]*Def
	// numbered[0] is the name the file was referenced with ({0}); named
	// arguments are numbered too.
	numbered []string
	named    []namedArg
}

// Store is the macro definition store of one compile unit: a stack of
// include scopes over a global map. Scope 0 belongs to the main file.
type Store struct {
	fold   cases.Caser
	global map[string]*Def
	scopes []*scope
}

// NewStore creates a store with the main file's scope. mainName is what {0} returns there.
func NewStore(mainName string) *Store {
	s := &Store{
		fold:   cases.Fold(),
		global: make(map[string]*Def),
	}
	s.PushScope(mainName)
	return s
}

func (s *Store) key(name string) string {
	return s.fold.String(name)
}

func (s *Store) top() *scope { return s.scopes[len(s.scopes)-1] }

// PushScope opens the scope of an include file referenced as refName.
func (s *Store) PushScope(refName string) {
	s.scopes = append(s.scopes, &scope{
		defs:     make(map[string]*Def),
		numbered: []string{refName},
	})
}

// PopScope drops the innermost include scope with its scoped defines and
// arguments. The main file's scope is never popped.
func (s *Store) PopScope() {
	if len(s.scopes) > 1 {
		s.scopes = s.scopes[:len(s.scopes)-1]
	}
}

// Depth is the number of open scopes, 1 for the main file alone.
func (s *Store) Depth() int { return len(s.scopes) }

// DefineGlobal binds name for the rest of the compile unit.
func (s *Store) DefineGlobal(name, value string, at source.Pos) *Def {
	d := &Def{Name: name, Kind: DefGlobal, Value: value, Pos: at}
	s.global[s.key(name)] = d
	return d
}

// DefineScoped binds name in the current include scope.
func (s *Store) DefineScoped(name, value string, at source.Pos) *Def {
	d := &Def{Name: name, Kind: DefScoped, Value: value, Pos: at}
	s.top().defs[s.key(name)] = d
	return d
}

// AddArg appends a positional argument to the current scope.
func (s *Store) AddArg(value string) {
	sc := s.top()
	sc.numbered = append(sc.numbered, value)
}

// AddNamedArg appends a named argument; it is also reachable by number.
// When a name is repeated the first one wins.
func (s *Store) AddNamedArg(name, value string, hasValue bool) {
	sc := s.top()
	sc.named = append(sc.named, namedArg{name: name, value: value, hasValue: hasValue})
	sc.numbered = append(sc.numbered, value)
}

func (s *Store) namedArg(sc *scope, name string) (namedArg, bool) {
	k := s.key(name)
	for _, a := range sc.named {
		// пустое имя находит первый «стёртый» аргумент
		if s.key(a.name) == k {
			return a, true
		}
	}
	return namedArg{}, false
}

// Lookup resolves name: local scoped defines, then named arguments of the
// current include, then scoped defines of the includers (innermost first),
// then globals. A miss returns a sentinel with Undefined set.
func (s *Store) Lookup(name string) *Def {
	k := s.key(name)
	cur := s.top()
	if d, ok := cur.defs[k]; ok {
		return d
	}
	if a, ok := s.namedArg(cur, name); ok {
		return &Def{Name: a.name, Kind: DefNamedArg, Value: a.value, Undefined: !a.hasValue}
	}
	for i := len(s.scopes) - 2; i >= 0; i-- {
		if d, ok := s.scopes[i].defs[k]; ok {
			return d
		}
	}
	if d, ok := s.global[k]; ok {
		return d
	}
	return &Def{Name: name, Undefined: true}
}

// Defined reports the level name is bound on, as DEFINED() does: 3 for a
// scoped define, 2 for a named argument, 1 for a global, 0 otherwise.
func (s *Store) Defined(name string) int {
	k := s.key(name)
	cur := s.top()
	if _, ok := cur.defs[k]; ok {
		return LevelScoped
	}
	if _, ok := s.namedArg(cur, name); ok {
		return LevelNamedArg
	}
	for i := len(s.scopes) - 2; i >= 0; i-- {
		if _, ok := s.scopes[i].defs[k]; ok {
			return LevelScoped
		}
	}
	if _, ok := s.global[k]; ok {
		return LevelGlobal
	}
	return LevelUndefined
}

// Undefine removes the binding Lookup would find and reports whether there
// was one. An undefined named argument loses its name but stays numbered.
func (s *Store) Undefine(name string) bool {
	k := s.key(name)
	cur := s.top()
	if _, ok := cur.defs[k]; ok {
		delete(cur.defs, k)
		return true
	}
	for i := range cur.named {
		if cur.named[i].name != "" && s.key(cur.named[i].name) == k {
			cur.named[i].name = ""
			return true
		}
	}
	for i := len(s.scopes) - 2; i >= 0; i-- {
		if _, ok := s.scopes[i].defs[k]; ok {
			delete(s.scopes[i].defs, k)
			return true
		}
	}
	if _, ok := s.global[k]; ok {
		delete(s.global, k)
		return true
	}
	return false
}

// Arg returns positional argument n of the current include; {0} is the
// name the file was referenced with. Missing arguments are empty.
func (s *Store) Arg(n int) string {
	sc := s.top()
	if n < 0 || n >= len(sc.numbered) {
		return ""
	}
	return sc.numbered[n]
}

// NumArgs is the number of arguments of the current include, {0} excluded.
func (s *Store) NumArgs() int { return len(s.top().numbered) - 1 }

// AllArgs is {*}: every argument joined by spaces.
func (s *Store) AllArgs() string {
	return strings.Join(s.top().numbered[1:], " ")
}

// AllNamedArgs is {&*}: the named arguments as &name="value".
func (s *Store) AllNamedArgs() string {
	var sb strings.Builder
	for _, a := range s.top().named {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte('&')
		sb.WriteString(a.name)
		sb.WriteString(`="`)
		sb.WriteString(a.value)
		sb.WriteByte('"')
	}
	return sb.String()
}

// Globals returns a copy of the global bindings keyed by folded name.
func (s *Store) Globals() map[string]string {
	out := make(map[string]string, len(s.global))
	for k, d := range s.global {
		out[k] = d.Value
	}
	return out
}

// String renders the scope stack for trace output.
func (s *Store) String() string {
	var sb strings.Builder
	sb.WriteString("globals=")
	sb.WriteString(strconv.Itoa(len(s.global)))
	for i, sc := range s.scopes {
		sb.WriteString(" [")
		sb.WriteString(strconv.Itoa(i))
		sb.WriteString(" ")
		sb.WriteString(sc.numbered[0])
		sb.WriteString(" defs=")
		sb.WriteString(strconv.Itoa(len(sc.defs)))
		sb.WriteString(" args=")
		sb.WriteString(strconv.Itoa(len(sc.numbered) - 1))
		sb.WriteString("]")
	}
	return sb.String()
}
