package diag

import "ablpp/internal/source"

type dedupKey struct {
	code Code
	sev  Severity
	pos  source.Pos
	msg  string
}

// DedupReporter drops repeated warnings and errors: an include expanded
// twice would otherwise report the same finding at the same place twice.
// Info diagnostics (&MESSAGE output) always pass, one per expansion.
type DedupReporter struct {
	next Reporter
	seen map[dedupKey]struct{}
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{next: next, seen: make(map[dedupKey]struct{})}
}

func (r *DedupReporter) Report(code Code, sev Severity, primary source.Pos, msg string, notes []Note) {
	if r == nil || r.next == nil {
		return
	}
	if sev > SevInfo {
		key := dedupKey{code: code, sev: sev, pos: primary, msg: msg}
		if _, ok := r.seen[key]; ok {
			return
		}
		r.seen[key] = struct{}{}
	}
	r.next.Report(code, sev, primary, msg, notes)
}
