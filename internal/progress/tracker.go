package progress

// Tracker is the progress state for one run: bytes completed against a
// fixed total, plus an item counter advanced once per item. Completed
// never decreases.
type Tracker struct {
	total     int64
	completed int64
	item      int
	items     int
}

// NewTracker fixes the byte total and item count for the run. A zero or
// unknown total falls back to 1 so percentages stay well-defined.
func NewTracker(total int64, items int) *Tracker {
	if total <= 0 {
		total = 1
	}
	return &Tracker{total: total, items: items}
}

func (t *Tracker) Advance(n int64) {
	if n <= 0 {
		return
	}
	t.completed += n
}

func (t *Tracker) SetItem(current int) {
	if current > t.item {
		t.item = current
	}
}

func (t *Tracker) Completed() int64 { return t.completed }
func (t *Tracker) Total() int64     { return t.total }
func (t *Tracker) Item() int        { return t.item }
func (t *Tracker) Items() int       { return t.items }

// Percent is display-only and capped at 100.
func (t *Tracker) Percent() float64 {
	pct := float64(t.completed) / float64(t.total) * 100
	if pct > 100 {
		return 100
	}
	return pct
}
