package browser

import "github.com/aegis-aio/shellder/internal/models"

// DefaultRadius is the number of lines shown on each side of the target.
const DefaultRadius = 50

// Radii are the context sizes cycled through by NextRadius.
var Radii = []int{50, 100, 200}

// ContextLine is a line of a context view.
type ContextLine struct {
	models.LogLine
	Target bool `json:"target,omitempty"`
}

// ContextView is the slice of the snapshot around one entry.
type ContextView struct {
	Entry  Entry         `json:"entry"`
	Radius int           `json:"radius"`
	From   int           `json:"from"`
	To     int           `json:"to"`
	Total  int           `json:"total"`
	Lines  []ContextLine `json:"lines"`
}

// Context returns lines [max(1, T-radius), min(N, T+radius)] around the
// entry with sequence number seq. A non-positive radius uses DefaultRadius.
func (s *Session) Context(seq, radius int) (ContextView, error) {
	entry, err := s.Entry(seq)
	if err != nil {
		return ContextView{}, err
	}
	if radius <= 0 {
		radius = DefaultRadius
	}

	from, to := Window(entry.Ordinal, radius, s.snapshot.Len())
	lines := s.snapshot.Range(from, to)

	view := ContextView{
		Entry:  entry,
		Radius: radius,
		From:   from,
		To:     to,
		Total:  s.snapshot.Len(),
		Lines:  make([]ContextLine, len(lines)),
	}
	for i, line := range lines {
		view.Lines[i] = ContextLine{LogLine: line, Target: line.Ordinal == entry.Ordinal}
	}
	return view, nil
}

// Window returns the inclusive clamped range around target. The bounds are
// compared before adding so that any radius up to math.MaxInt is safe.
func Window(target, radius, total int) (int, int) {
	from, to := 1, total
	if radius < target-1 {
		from = target - radius
	}
	if radius < total-target {
		to = target + radius
	}
	return from, to
}

// NextRadius returns the preset following r, wrapping back to the first.
func NextRadius(r int) int {
	for _, preset := range Radii {
		if preset > r {
			return preset
		}
	}
	return Radii[0]
}
