// Package browser numbers the error-ish lines of a snapshot and serves
// them as fixed-size pages with a context view around any entry.
package browser

import (
	"errors"

	"github.com/aegis-aio/shellder/internal/classifier"
	"github.com/aegis-aio/shellder/internal/logs"
	"github.com/aegis-aio/shellder/internal/models"
)

const (
	// PageSize is the number of entries per page.
	PageSize = 20
	// PreviewWidth is the maximum preview length in runes.
	PreviewWidth = 60
)

var (
	// ErrPageOutOfRange is returned for a page number outside [1, Pages()].
	ErrPageOutOfRange = errors.New("page out of range")
	// ErrEntryOutOfRange is returned for a sequence number outside [1, Len()].
	ErrEntryOutOfRange = errors.New("entry out of range")
)

// Entry is one numbered line of the browser.
type Entry struct {
	Seq       int        `json:"seq"`
	Ordinal   int        `json:"line"`
	Tag       models.Tag `json:"tag"`
	Preview   string     `json:"preview"`
	Text      string     `json:"text"`
	Timestamp string     `json:"timestamp,omitempty"`
}

// Page is one slice of entries.
type Page struct {
	Number  int     `json:"page"`
	Pages   int     `json:"pages"`
	Total   int     `json:"total"`
	Entries []Entry `json:"entries"`
}

// Session is a numbered view over a single snapshot. All pages and
// context views of a session share that snapshot.
type Session struct {
	snapshot *logs.Snapshot
	entries  []Entry
}

// NewSession classifies the snapshot once and numbers the surviving lines.
func NewSession(snap *logs.Snapshot, c *classifier.Classifier) *Session {
	s := &Session{snapshot: snap}
	if !snap.Available() {
		return s
	}

	start := snap.Container.StartedAt
	for _, line := range snap.Lines {
		classified, ok := c.Classify(line, start)
		if !ok || classified.Tag == models.TagExcluded {
			continue
		}

		entry := Entry{
			Seq:     len(s.entries) + 1,
			Ordinal: line.Ordinal,
			Tag:     classified.Tag,
			Preview: Preview(line.Text),
			Text:    line.Text,
		}
		if classified.Timestamp != nil {
			entry.Timestamp = classified.Timestamp.Format("2006-01-02 15:04:05")
		}
		s.entries = append(s.entries, entry)
	}
	return s
}

// Snapshot returns the snapshot the session was built from.
func (s *Session) Snapshot() *logs.Snapshot {
	return s.snapshot
}

// Len returns the number of entries.
func (s *Session) Len() int {
	return len(s.entries)
}

// Entries returns a copy of all entries in sequence order.
func (s *Session) Entries() []Entry {
	result := make([]Entry, len(s.entries))
	copy(result, s.entries)
	return result
}

// Entry returns the entry with the given sequence number.
func (s *Session) Entry(seq int) (Entry, error) {
	if seq < 1 || seq > len(s.entries) {
		return Entry{}, ErrEntryOutOfRange
	}
	return s.entries[seq-1], nil
}

// Pages returns the number of pages. An empty session has one empty page.
func (s *Session) Pages() int {
	if len(s.entries) == 0 {
		return 1
	}
	return (len(s.entries) + PageSize - 1) / PageSize
}

// Page returns the 1-based page n.
func (s *Session) Page(n int) (Page, error) {
	pages := s.Pages()
	if n < 1 || n > pages {
		return Page{}, ErrPageOutOfRange
	}

	from := (n - 1) * PageSize
	to := min(from+PageSize, len(s.entries))

	entries := make([]Entry, to-from)
	copy(entries, s.entries[from:to])
	return Page{
		Number:  n,
		Pages:   pages,
		Total:   len(s.entries),
		Entries: entries,
	}, nil
}

// Counts returns the number of entries per tag.
func (s *Session) Counts() map[models.Tag]int {
	counts := make(map[models.Tag]int)
	for _, e := range s.entries {
		counts[e.Tag]++
	}
	return counts
}

// Preview shortens text to PreviewWidth runes, marking a cut with "...".
func Preview(text string) string {
	runes := []rune(text)
	if len(runes) <= PreviewWidth {
		return text
	}
	return string(runes[:PreviewWidth-3]) + "..."
}
