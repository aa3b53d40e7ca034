package classifier

import (
	"time"

	"github.com/aegis-aio/shellder/internal/models"
)

// Classifier applies the category table, the exclusion table and the
// startup window to log lines. It holds no state between calls.
type Classifier struct {
	categories []Category
	exclusions *ExclusionTable
	timestamps *TimestampParser
	window     Window
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithCategories replaces the category table.
func WithCategories(categories []Category) Option {
	return func(c *Classifier) {
		c.categories = categories
	}
}

// WithExclusions replaces the exclusion table.
func WithExclusions(exclusions *ExclusionTable) Option {
	return func(c *Classifier) {
		c.exclusions = exclusions
	}
}

// WithTimestampParser sets the parser used for the startup window.
func WithTimestampParser(p *TimestampParser) Option {
	return func(c *Classifier) {
		c.timestamps = p
	}
}

// WithStartupWindow sets the startup window duration.
func WithStartupWindow(d time.Duration) Option {
	return func(c *Classifier) {
		if d > 0 {
			c.window = Window{Duration: d}
		}
	}
}

// New creates a classifier with the built-in tables.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		categories: DefaultCategories(),
		exclusions: DefaultExclusions(),
		timestamps: NewTimestampParser(time.UTC),
		window:     Window{Duration: DefaultStartupWindow},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Categories returns the category table in display order.
func (c *Classifier) Categories() []Category {
	out := make([]Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// Category looks up a category by name.
func (c *Classifier) Category(name string) (Category, bool) {
	for _, cat := range c.categories {
		if cat.Name == name {
			return cat, true
		}
	}
	return Category{}, false
}

// Exclusions returns the exclusion table.
func (c *Classifier) Exclusions() *ExclusionTable {
	return c.exclusions
}

// Window returns the startup window.
func (c *Classifier) Window() Window {
	return c.window
}

// Suppressed reports whether line is hidden by the exclusion table.
func (c *Classifier) Suppressed(line string) bool {
	return Suppressed(c.exclusions, line)
}

// Classify tags an error-ish line. ok is false when the line carries no
// error keyword at all and therefore is not part of the error listing.
func (c *Classifier) Classify(line models.LogLine, start time.Time) (models.ClassifiedEntry, bool) {
	if !IsErrorish(line.Text) {
		return models.ClassifiedEntry{}, false
	}

	entry := models.ClassifiedEntry{
		Line:      line,
		Timestamp: c.timestamps.Parse(line.Text),
	}

	switch {
	case c.Suppressed(line.Text):
		entry.Tag = models.TagExcluded
	case c.window.IsStartup(entry.Timestamp, start):
		entry.Tag = models.TagStartup
	default:
		entry.Tag = models.TagError
	}

	return entry, true
}

// ClassifyAll classifies every error-ish line, including excluded ones, in
// ordinal order.
func (c *Classifier) ClassifyAll(lines []models.LogLine, start time.Time) []models.ClassifiedEntry {
	var entries []models.ClassifiedEntry
	for _, line := range lines {
		if entry, ok := c.Classify(line, start); ok {
			entries = append(entries, entry)
		}
	}
	return entries
}
