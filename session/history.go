package session

import (
	"strings"
	"time"
)

// HistoryEntry stores a query and when it was last submitted
type HistoryEntry struct {
	Query     string
	Timestamp time.Time
}

// History holds recently submitted queries, newest first. It lives only as
// long as the session.
type History struct {
	entries []HistoryEntry
	max     int
	now     func() time.Time
}

func NewHistory(max int) *History {
	return &History{max: max, now: time.Now}
}

// Add records a query, keeping at most max entries. Blank queries are
// ignored and repeating the newest entry only touches its timestamp.
func (h *History) Add(query string) {
	query = strings.TrimSpace(query)
	if query == "" || h.max <= 0 {
		return
	}
	// avoid consecutive duplicates
	if len(h.entries) > 0 && h.entries[0].Query == query {
		h.entries[0].Timestamp = h.now()
		return
	}
	h.entries = append([]HistoryEntry{{Query: query, Timestamp: h.now()}}, h.entries...)
	if len(h.entries) > h.max {
		h.entries = h.entries[:h.max]
	}
}

func (h *History) Len() int { return len(h.entries) }

// At returns the i-th newest entry.
func (h *History) At(i int) HistoryEntry { return h.entries[i] }

// Queries lists the stored queries, newest first.
func (h *History) Queries() []string {
	out := make([]string, len(h.entries))
	for i, e := range h.entries {
		out[i] = e.Query
	}
	return out
}
