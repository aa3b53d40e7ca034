// Package logs takes immutable, numbered snapshots of container logs.
package logs

import (
	"strings"
	"time"

	"github.com/aegis-aio/shellder/internal/models"
)

// Snapshot is the log of one service captured at one instant.
// Its ordinals are stable for the lifetime of the snapshot.
type Snapshot struct {
	Service   string               `json:"service"`
	Container models.ContainerInfo `json:"container"`
	Lines     []models.LogLine     `json:"-"`
	TakenAt   time.Time            `json:"taken_at"`
}

// NewSnapshot numbers the lines of text starting at 1.
// A trailing newline does not produce an empty final line.
func NewSnapshot(service string, info models.ContainerInfo, text string, takenAt time.Time) *Snapshot {
	return &Snapshot{
		Service:   service,
		Container: info,
		Lines:     splitLines(text),
		TakenAt:   takenAt,
	}
}

// Unavailable returns a snapshot without lines for a container that
// cannot be read.
func Unavailable(service string, info models.ContainerInfo, takenAt time.Time) *Snapshot {
	return &Snapshot{
		Service:   service,
		Container: info,
		TakenAt:   takenAt,
	}
}

// Available reports whether the container was running when the snapshot
// was taken. An unavailable snapshot is not the same as an empty log.
func (s *Snapshot) Available() bool {
	return s.Container.Available()
}

// Len returns the number of lines.
func (s *Snapshot) Len() int {
	return len(s.Lines)
}

// Line returns the line with the given ordinal.
func (s *Snapshot) Line(ordinal int) (models.LogLine, bool) {
	if ordinal < 1 || ordinal > len(s.Lines) {
		return models.LogLine{}, false
	}
	return s.Lines[ordinal-1], true
}

// Range returns the lines with ordinals in [from, to], clamped to the
// snapshot. An empty range yields nil.
func (s *Snapshot) Range(from, to int) []models.LogLine {
	if from < 1 {
		from = 1
	}
	if to > len(s.Lines) {
		to = len(s.Lines)
	}
	if from > to {
		return nil
	}

	result := make([]models.LogLine, to-from+1)
	copy(result, s.Lines[from-1:to])
	return result
}

func splitLines(text string) []models.LogLine {
	if text == "" {
		return nil
	}

	raw := strings.Split(text, "\n")
	if raw[len(raw)-1] == "" {
		raw = raw[:len(raw)-1]
	}

	lines := make([]models.LogLine, len(raw))
	for i, r := range raw {
		lines[i] = models.LogLine{
			Ordinal: i + 1,
			Text:    strings.TrimSuffix(r, "\r"),
		}
	}
	return lines
}
