package macro

import (
	"testing"

	"ablpp/internal/source"
)

func TestStoreScopedAndGlobal(t *testing.T) {
	s := NewStore("main.p")
	s.DefineScoped("a", "main-a", source.Pos{})
	s.PushScope("inc.i")
	s.DefineScoped("b", "inc-b", source.Pos{})
	s.DefineGlobal("g", "inc-g", source.Pos{})

	if got := s.Lookup("A").Value; got != "main-a" {
		t.Errorf("outer scoped lookup = %q", got)
	}
	if got := s.Lookup("b").Value; got != "inc-b" {
		t.Errorf("local scoped lookup = %q", got)
	}
	s.PopScope()

	if d := s.Lookup("b"); !d.Undefined {
		t.Errorf("scoped define leaked out of its include: %+v", d)
	}
	if d := s.Lookup("g"); d.Undefined || d.Value != "inc-g" || d.Kind != DefGlobal {
		t.Errorf("global define lost after include: %+v", d)
	}
	if s.Depth() != 1 {
		t.Errorf("Depth = %d", s.Depth())
	}
	s.PopScope()
	if s.Depth() != 1 {
		t.Errorf("main scope popped")
	}
}

func TestStoreLookupOrder(t *testing.T) {
	s := NewStore("main.p")
	s.DefineGlobal("x", "global", source.Pos{})
	s.DefineScoped("x", "outer", source.Pos{})
	s.PushScope("inc.i")
	s.AddNamedArg("x", "arg", true)

	if got := s.Lookup("x").Value; got != "arg" {
		t.Errorf("named arg should shadow outer scoped, got %q", got)
	}
	if got := s.Defined("x"); got != LevelNamedArg {
		t.Errorf("Defined = %d", got)
	}
	s.DefineScoped("x", "local", source.Pos{})
	if got := s.Lookup("x").Value; got != "local" {
		t.Errorf("local scoped should win, got %q", got)
	}
	if got := s.Defined("x"); got != LevelScoped {
		t.Errorf("Defined = %d", got)
	}

	// снимаем уровни по одному
	wantAfter := []string{"arg", "outer", "global", ""}
	for _, want := range wantAfter {
		if !s.Undefine("x") {
			t.Fatalf("Undefine found nothing before %q", want)
		}
		if got := s.Lookup("x").Value; got != want {
			t.Errorf("after undefine got %q, want %q", got, want)
		}
	}
	if s.Undefine("x") {
		t.Errorf("Undefine of a missing name reported true")
	}
	if s.Defined("x") != LevelUndefined {
		t.Errorf("Defined after undefine = %d", s.Defined("x"))
	}
}

func TestStoreArguments(t *testing.T) {
	s := NewStore("main.p")
	s.PushScope("x.i")
	s.AddNamedArg("abc", "", false)
	s.AddNamedArg("myParam", "1", true)
	s.AddNamedArg("myparam", "2", true)

	if d := s.Lookup("abc"); !d.Undefined || d.Kind != DefNamedArg {
		t.Errorf("bare named arg = %+v", d)
	}
	if got := s.Lookup("MYPARAM").Value; got != "1" {
		t.Errorf("first named arg should win, got %q", got)
	}
	if got := s.Arg(0); got != "x.i" {
		t.Errorf("{0} = %q", got)
	}
	if got := s.Arg(2); got != "1" {
		t.Errorf("{2} = %q", got)
	}
	if got := s.Arg(9); got != "" {
		t.Errorf("{9} = %q", got)
	}
	if got := s.AllArgs(); got != " 1 2" {
		t.Errorf("{*} = %q", got)
	}
	if got := s.AllNamedArgs(); got != `&abc="" &myParam="1" &myparam="2"` {
		t.Errorf("{&*} = %q", got)
	}

	s.Undefine("myParam")
	if got := s.Lookup("myparam").Value; got != "2" {
		t.Errorf("after undefine the next argument of that name applies, got %q", got)
	}
	if got := s.NumArgs(); got != 3 {
		t.Errorf("NumArgs = %d", got)
	}
}

func TestStorePositionalArgs(t *testing.T) {
	s := NewStore("main.p")
	s.PushScope("inc.i")
	s.AddArg("a b")
	s.AddArg("c")
	if got := s.AllArgs(); got != "a b c" {
		t.Errorf("{*} = %q", got)
	}
	if got := s.AllNamedArgs(); got != "" {
		t.Errorf("{&*} = %q", got)
	}
	s.PopScope()
	if got := s.Arg(1); got != "" {
		t.Errorf("arguments visible after include: %q", got)
	}
	if got := s.Arg(0); got != "main.p" {
		t.Errorf("{0} = %q", got)
	}
}
