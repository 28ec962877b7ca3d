package diag

import (
	"cmp"
	"slices"

	"fortio.org/safecast"
)

// Bag collects diagnostics of one run up to a limit.
type Bag struct {
	items []Diagnostic
	max   uint16
	// dropped counts diagnostics refused because of the limit.
	dropped int
}

func NewBag(limitHint int) *Bag {
	limit, err := safecast.Conv[uint16](limitHint)
	if err != nil {
		limit = ^uint16(0)
	}
	return &Bag{
		items: make([]Diagnostic, 0, min(limit, 256)),
		max:   limit,
	}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не добавлена (достигнут лимит).
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.max) {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Dropped returns how many diagnostics did not fit.
func (b *Bag) Dropped() int {
	return b.dropped
}

// HasErrors возвращает true, если есть хотя бы одна диагностика с Severity >= Error
func (b *Bag) HasErrors() bool {
	return b.count(func(d *Diagnostic) bool { return d.Severity >= SevError }) > 0
}

// HasWarnings возвращает true, если есть хотя бы одна диагностика с Severity >= Warning
func (b *Bag) HasWarnings() bool {
	return b.count(func(d *Diagnostic) bool { return d.Severity >= SevWarning }) > 0
}

// Violations counts ordering diagnostics (SA12xx).
func (b *Bag) Violations() int {
	return b.count(func(d *Diagnostic) bool { return d.Code.IsOrdering() })
}

func (b *Bag) count(pred func(*Diagnostic) bool) int {
	n := 0
	for i := range b.items {
		if pred(&b.items[i]) {
			n++
		}
	}
	return n
}

// длина
func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает read-only slice диагностик.
// ВАЖНО: не модифицируйте возвращаемый срез! (он указывает на внутренний массив Bag)
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Filter keeps the diagnostics for which keep returns true.
func (b *Bag) Filter(keep func(Diagnostic) bool) {
	b.items = slices.DeleteFunc(b.items, func(d Diagnostic) bool { return !keep(d) })
}

// Transform rewrites every diagnostic in place.
func (b *Bag) Transform(fn func(*Diagnostic)) {
	for i := range b.items {
		fn(&b.items[i])
	}
}

// Merge объединяет диагностики из другого Bag.
// Увеличивает max, если нужно вместить все элементы.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	if total := len(b.items) + len(other.items); total > int(b.max) {
		if limit, err := safecast.Conv[uint16](total); err == nil {
			b.max = limit
		} else {
			b.max = ^uint16(0)
		}
	}
	room := int(b.max) - len(b.items)
	take := min(room, len(other.items))
	b.items = append(b.items, other.items[:take]...)
	b.dropped += other.dropped + len(other.items) - take
}

// Sort orders diagnostics by file, start, end, severity (desc) and rule ID
// so that output is deterministic.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.File, y.Primary.File),
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}
