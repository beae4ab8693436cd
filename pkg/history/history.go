// Package history keeps a bounded list of submitted lines with up/down
// navigation.
package history

// DefaultCapacity is used when a non-positive capacity is requested.
const DefaultCapacity = 100

// History is a fixed capacity list of lines, oldest first. When full, a push
// evicts the oldest line. A History is not safe for concurrent use.
type History struct {
	entries []string
	limit   int
	// cursor indexes entries while navigating, -1 otherwise.
	cursor int
}

// New returns an empty history holding at most capacity lines.
func New(capacity int) *History {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &History{entries: make([]string, 0, capacity), limit: capacity, cursor: -1}
}

// Push appends line as the newest entry and ends navigation. Empty lines
// are ignored.
func (h *History) Push(line string) {
	h.cursor = -1
	if line == "" {
		return
	}
	if len(h.entries) == h.limit {
		copy(h.entries, h.entries[1:])
		h.entries = h.entries[:len(h.entries)-1]
	}
	h.entries = append(h.entries, line)
}

// Prev moves one entry back in time. The first call after a push returns the
// newest entry; further calls stick at the oldest. It reports false only when
// the history is empty.
func (h *History) Prev() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	switch {
	case h.cursor < 0:
		h.cursor = len(h.entries) - 1
	case h.cursor > 0:
		h.cursor--
	}
	return h.entries[h.cursor], true
}

// Next moves one entry forward in time and sticks at the newest. It reports
// false when not navigating.
func (h *History) Next() (string, bool) {
	if h.cursor < 0 {
		return "", false
	}
	if h.cursor < len(h.entries)-1 {
		h.cursor++
	}
	return h.entries[h.cursor], true
}

// Reset ends navigation without touching the entries.
func (h *History) Reset() { h.cursor = -1 }

// Navigating reports whether Prev has been called since the last push or
// reset.
func (h *History) Navigating() bool { return h.cursor >= 0 }

// Len returns the number of stored lines.
func (h *History) Len() int { return len(h.entries) }

// Cap returns the capacity.
func (h *History) Cap() int { return h.limit }

// Entries returns a copy of the stored lines, oldest first.
func (h *History) Entries() []string {
	return append([]string(nil), h.entries...)
}
