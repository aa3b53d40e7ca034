package classifier

import (
	"fmt"
	"regexp"
	"time"
)

// DefaultStartupWindow is how long after container start errors are
// considered startup noise.
const DefaultStartupWindow = 120 * time.Second

// TimestampFormat recognizes a timestamp at the very start of a line.
// Match must be anchored; the matched text is parsed with Layout.
type TimestampFormat struct {
	Match  *regexp.Regexp
	Layout string
}

// DefaultTimestampFormat is the only format recognized out of the box:
// "YYYY-MM-DD HH:MM:SS" at line start.
var DefaultTimestampFormat = TimestampFormat{
	Match:  regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}`),
	Layout: "2006-01-02 15:04:05",
}

// NewTimestampFormat compiles a prefix pattern for a layout. The pattern is
// anchored to the line start if it is not already.
func NewTimestampFormat(pattern, layout string) (TimestampFormat, error) {
	if len(pattern) == 0 || pattern[0] != '^' {
		pattern = "^" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return TimestampFormat{}, fmt.Errorf("compiling timestamp pattern for layout %q: %w", layout, err)
	}
	if layout == "" {
		return TimestampFormat{}, fmt.Errorf("timestamp layout is required")
	}
	return TimestampFormat{Match: re, Layout: layout}, nil
}

// TimestampParser extracts line timestamps using an ordered list of formats.
type TimestampParser struct {
	formats  []TimestampFormat
	location *time.Location
}

// NewTimestampParser creates a parser. Timestamps without zone information
// are interpreted in loc (UTC when nil).
func NewTimestampParser(loc *time.Location, formats ...TimestampFormat) *TimestampParser {
	if loc == nil {
		loc = time.UTC
	}
	if len(formats) == 0 {
		formats = []TimestampFormat{DefaultTimestampFormat}
	}
	return &TimestampParser{formats: formats, location: loc}
}

// Parse returns the timestamp at the start of line, or nil when the line has
// no recognized prefix. Nothing beyond the configured formats is inferred.
func (p *TimestampParser) Parse(line string) *time.Time {
	for _, f := range p.formats {
		prefix := f.Match.FindString(line)
		if prefix == "" {
			continue
		}
		t, err := time.ParseInLocation(f.Layout, prefix, p.location)
		if err != nil {
			continue
		}
		return &t
	}
	return nil
}

// Window classifies timestamps relative to a container's start time.
type Window struct {
	Duration time.Duration
}

// IsStartup reports whether lineTime falls within [start, start+Duration].
// A missing line time or an unknown start time is never startup. The start
// time is truncated to whole seconds to match log timestamp precision.
func (w Window) IsStartup(lineTime *time.Time, start time.Time) bool {
	if lineTime == nil || start.IsZero() || start.Unix() <= 0 {
		return false
	}
	delta := lineTime.Sub(start.Truncate(time.Second))
	return delta >= 0 && delta <= w.Duration
}
