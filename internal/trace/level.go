package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff    Level = iota
	LevelError        // ring only, dumped when the run fails
	LevelPhase        // driver and unit spans
	LevelDetail       // plus includes and directives
	LevelDebug        // plus every token
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel converts a flag value to a Level.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(s)
	for i, name := range levelNames {
		if name == s {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// deepest scope emitted at each level; 0 emits nothing
var maxScope = [...]Scope{
	LevelOff:    0,
	LevelError:  ScopeDirective,
	LevelPhase:  ScopeUnit,
	LevelDetail: ScopeDirective,
	LevelDebug:  ScopeToken,
}

// ShouldEmit reports whether events of scope pass at this level.
func (l Level) ShouldEmit(scope Scope) bool {
	if int(l) >= len(maxScope) {
		return false
	}
	return scope != 0 && scope <= maxScope[l]
}

// accepts is the filter shared by the sinks. Heartbeats always pass.
func accepts(l Level, ev *Event) bool {
	return ev.Kind == KindHeartbeat || l.ShouldEmit(ev.Scope)
}
