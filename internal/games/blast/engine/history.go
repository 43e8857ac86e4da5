package engine

// Entry is the state captured just before a placement.
type Entry struct {
	Board Board // value copy
	Score int
	Slot  int
}

// History is a LIFO stack of entries. A positive limit drops the oldest entries.
type History struct {
	entries []Entry
	limit   int
}

// NewHistory creates an empty history. limit <= 0 means unbounded.
func NewHistory(limit int) History {
	return History{limit: max(0, limit)}
}

// Record pushes a snapshot. Board is an array, so the entry owns its copy.
func (h *History) Record(b *Board, score, slot int) {
	h.entries = append(h.entries, Entry{Board: *b, Score: score, Slot: slot})
	if h.limit > 0 && len(h.entries) > h.limit {
		drop := len(h.entries) - h.limit
		h.entries = append(h.entries[:0], h.entries[drop:]...)
	}
}

// Pop removes and returns the newest entry.
func (h *History) Pop() (Entry, bool) {
	if len(h.entries) == 0 {
		return Entry{}, false
	}
	last := len(h.entries) - 1
	e := h.entries[last]
	h.entries = h.entries[:last]
	return e, true
}

// Peek returns the newest entry without removing it.
func (h *History) Peek() (Entry, bool) {
	if len(h.entries) == 0 {
		return Entry{}, false
	}
	return h.entries[len(h.entries)-1], true
}

// Len returns the number of recorded placements.
func (h *History) Len() int {
	return len(h.entries)
}

// Clear drops every entry.
func (h *History) Clear() {
	h.entries = nil
}

// Entries returns a copy of the stack, oldest first.
func (h *History) Entries() []Entry {
	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}
