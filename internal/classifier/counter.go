package classifier

import (
	"regexp"

	"github.com/aegis-aio/shellder/internal/models"
)

// SearchResult is the outcome of a user-supplied keyword search.
type SearchResult struct {
	Pattern string           `json:"pattern"`
	Count   int              `json:"count"`
	Matches []models.LogLine `json:"matches"`
	// Invalid is set when the pattern did not compile. The result is then
	// reported as "no matches" rather than an error.
	Invalid bool `json:"invalid,omitempty"`
}

// Count returns the number of lines that match the category and are not
// suppressed by the exclusion table.
func (c *Classifier) Count(lines []models.LogLine, category Category) int {
	return len(c.matching(lines, category.Pattern))
}

// CountAll counts every category in table order.
func (c *Classifier) CountAll(lines []models.LogLine) []CategoryCount {
	counts := make([]CategoryCount, 0, len(c.categories))
	for _, cat := range c.categories {
		counts = append(counts, CategoryCount{Name: cat.Name, Count: c.Count(lines, cat)})
	}
	return counts
}

// Search runs a case-insensitive user pattern with the same exclusion rules
// as the category counter. A malformed or empty pattern yields zero matches.
func (c *Classifier) Search(lines []models.LogLine, pattern string) SearchResult {
	result := SearchResult{Pattern: pattern}
	if pattern == "" {
		result.Invalid = true
		return result
	}

	re, err := compileInsensitive(pattern)
	if err != nil {
		result.Invalid = true
		return result
	}

	result.Matches = c.matching(lines, re)
	result.Count = len(result.Matches)
	return result
}

func (c *Classifier) matching(lines []models.LogLine, re *regexp.Regexp) []models.LogLine {
	if re == nil {
		return nil
	}
	var out []models.LogLine
	for _, line := range lines {
		if re.MatchString(line.Text) && !c.Suppressed(line.Text) {
			out = append(out, line)
		}
	}
	return out
}
