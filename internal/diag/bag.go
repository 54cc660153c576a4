package diag

import "fortio.org/safecast"

// Bag collects the diagnostics of one unit up to a limit
// (--max-diagnostics). Diagnostics past the limit are counted, not kept.
type Bag struct {
	items   []Diagnostic
	max     uint16
	dropped int
}

func NewBag(max int) *Bag {
	limit, err := safecast.Conv[uint16](max)
	if err != nil {
		limit = ^uint16(0)
	}
	return &Bag{
		items: make([]Diagnostic, 0, min(int(limit), 64)),
		max:   limit,
	}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика отброшена.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.max) {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Force adds d past the limit. Used for the timing report, which must
// survive a full bag.
func (b *Bag) Force(d Diagnostic) {
	b.items = append(b.items, d)
}

// Dropped returns how many diagnostics Add refused.
func (b *Bag) Dropped() int {
	return b.dropped
}

func (b *Bag) HasErrors() bool {
	return b.any(SevError)
}

func (b *Bag) HasWarnings() bool {
	return b.any(SevWarning)
}

// any reports whether some kept diagnostic is at least sev.
func (b *Bag) any(sev Severity) bool {
	for i := range b.items {
		if b.items[i].Severity >= sev {
			return true
		}
	}
	return false
}

// длина
func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает slice диагностик в порядке добавления.
// Не модифицируйте его: это внутренний массив Bag.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Filter returns a new bag with the diagnostics keep accepts.
// The dropped count is carried over.
func (b *Bag) Filter(keep func(Diagnostic) bool) *Bag {
	out := &Bag{max: b.max, dropped: b.dropped}
	for _, d := range b.items {
		if keep(d) {
			out.items = append(out.items, d)
		}
	}
	return out
}
