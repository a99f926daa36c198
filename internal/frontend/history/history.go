// Package history records dispatched command lines and lets the operator
// pick one to run again.
package history

// History is a bounded list of command lines, oldest first.
type History struct {
	entries []string
	limit   int
}

// New returns a History keeping at most limit entries. A limit below 1 keeps one.
func New(limit int) *History {
	if limit < 1 {
		limit = 1
	}
	return &History{limit: limit}
}

// Add appends line, dropping the oldest entry when full.
func (h *History) Add(line string) {
	if line == "" {
		return
	}
	h.entries = append(h.entries, line)
	if over := len(h.entries) - h.limit; over > 0 {
		h.entries = append(h.entries[:0], h.entries[over:]...)
	}
}

// Entries returns a copy of the recorded lines, oldest first.
func (h *History) Entries() []string {
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of recorded lines.
func (h *History) Len() int { return len(h.entries) }
