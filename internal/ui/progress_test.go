package ui

import (
	"errors"
	"strings"
	"testing"

	"ablpp/internal/driver"
)

func TestProgressModelTracksUnits(t *testing.T) {
	events := make(chan driver.UnitEvent)
	m := NewProgressModel("preprocess", []string{"a.p", "b.p", "c.p"}, events).(*progressModel)

	m.Update(eventMsg{Path: "a.p"})
	if m.rows[0].status != statusWorking {
		t.Fatalf("a.p status = %s", m.rows[0].status)
	}
	m.Update(eventMsg{Path: "a.p", Done: true, Tokens: 12})
	m.Update(eventMsg{Path: "b.p", Done: true, Err: errors.New("boom")})
	m.Update(eventMsg{Path: "c.p", Done: true, Cached: true, Tokens: 3})
	// повтор не должен сдвигать счётчики
	m.Update(eventMsg{Path: "b.p", Done: true})
	m.Update(eventMsg{Path: "unknown.p", Done: true})

	if m.finished != 3 || m.failed != 1 || m.cached != 1 || m.tokens != 15 {
		t.Errorf("finished=%d failed=%d cached=%d tokens=%d", m.finished, m.failed, m.cached, m.tokens)
	}
	view := m.View()
	for _, want := range []string{"(3/3, 1 cached, 1 failed)", "a.p: 12 tokens", "b.p: boom", "c.p: 3 tokens", "cached", "error"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q:\n%s", want, view)
		}
	}

	_, cmd := m.Update(doneMsg{})
	if !m.done || cmd == nil {
		t.Errorf("done=%v cmd=%v", m.done, cmd)
	}
	if !strings.Contains(m.View(), "done: preprocess (3/3, 1 cached, 1 failed), 15 tokens") {
		t.Errorf("final view:\n%s", m.View())
	}
}

func TestProgressModelEmpty(t *testing.T) {
	m := NewProgressModel("x", nil, nil)
	if v := m.View(); v != "" {
		t.Errorf("view = %q", v)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.p", 20, "short.p"},
		{"very/long/path/unit.p", 10, "very/lo..."},
		{"日本語.p", 5, "日..."},
		{"abcdef", 3, "abc"},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
