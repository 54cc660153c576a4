package observ

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// fakeClock отдаёт заранее заданные моменты по очереди
func fakeClock(ms ...int) func() time.Time {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	i := 0
	return func() time.Time {
		t := base.Add(time.Duration(ms[i]) * time.Millisecond)
		i++
		return t
	}
}

func TestTimerReportOverlappingPhases(t *testing.T) {
	tm := NewTimer()
	tm.now = fakeClock(0, 5, 12, 30)
	a := tm.Begin("unit a.p")
	b := tm.Begin("unit b.p")
	tm.End(a, "")
	tm.End(b, "12 tokens")

	got := tm.Report()
	want := Report{
		TotalMS: 30,
		Phases: []PhaseReport{
			{Name: "unit a.p", DurationMS: 12},
			{Name: "unit b.p", DurationMS: 25, Note: "12 tokens"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestTimerMeasureRecordsError(t *testing.T) {
	tm := NewTimer()
	boom := errors.New("boom")
	if err := tm.Measure("settings", func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	rep := tm.Report()
	if len(rep.Phases) != 1 || rep.Phases[0].Note != "boom" {
		t.Errorf("phases = %+v", rep.Phases)
	}
	if !strings.Contains(tm.Summary(), "// boom") {
		t.Errorf("summary:\n%s", tm.Summary())
	}
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	tm.End(tm.Begin("x"), "")
	if rep := tm.Report(); len(rep.Phases) != 0 {
		t.Errorf("nil timer reported %+v", rep)
	}
}
