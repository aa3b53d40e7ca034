package classifier

import (
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/aegis-aio/shellder/internal/models"
)

// fragments mixes category words, benign phrasings, structured markers and
// filler so generated lines hit every branch of the exclusion predicate.
var fragments = []string{
	"connection established",
	"connected to db",
	"[INFO]",
	"[DEBUG]",
	"level=info",
	"0 errors",
	"successfully",
	`error="disk full"`,
	`failed="upload"`,
	`error=""`,
	"connection refused",
	"database is locked",
	"timeout waiting",
	"out of memory",
	"permission denied",
	"panic: runtime error",
	"FATAL",
	"failed to start",
	"exception in thread",
	"listening on :8080",
	"request served",
	"worker",
}

func genLine() gopter.Gen {
	return gen.SliceOfN(4, gen.IntRange(0, len(fragments)-1)).Map(func(idx []int) string {
		parts := make([]string, len(idx))
		for i, j := range idx {
			parts[i] = fragments[j]
		}
		return strings.Join(parts, " ")
	})
}

func genLines() gopter.Gen {
	return gen.SliceOf(genLine()).Map(func(texts []string) []models.LogLine {
		return numbered(texts)
	})
}

func numbered(texts []string) []models.LogLine {
	lines := make([]models.LogLine, len(texts))
	for i, t := range texts {
		lines[i] = models.LogLine{Ordinal: i + 1, Text: t}
	}
	return lines
}

// **Feature: log-classifier, Property 1: Category Count Predicate**
// *For any* log and category, the count SHALL equal the number of lines that
// match the category and either carry a structured marker or match no
// exclusion rule.
func TestPropertyCategoryCountPredicate(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)
	c := New()

	properties.Property("count matches brute-force predicate for every category", prop.ForAll(
		func(lines []models.LogLine) bool {
			for _, cat := range c.Categories() {
				want := 0
				for _, l := range lines {
					if !cat.Pattern.MatchString(l.Text) {
						continue
					}
					_, excluded := c.Exclusions().Match(l.Text)
					if HasStructuredMarker(l.Text) || !excluded {
						want++
					}
				}
				if got := c.Count(lines, cat); got != want {
					t.Logf("category %s: got %d, want %d", cat.Name, got, want)
					return false
				}
			}
			return true
		},
		genLines(),
	))

	properties.Property("structured markers are never suppressed", prop.ForAll(
		func(line string, marker int) bool {
			markers := []string{`error="x"`, `failed="upload"`, `ERR="boom"`, `panic="nil map"`}
			withMarker := line + " " + markers[marker]
			return !c.Suppressed(withMarker)
		},
		genLine(),
		gen.IntRange(0, 3),
	))

	properties.Property("counts are idempotent over an unchanged snapshot", prop.ForAll(
		func(lines []models.LogLine) bool {
			first := c.CountAll(lines)
			second := c.CountAll(lines)
			if len(first) != len(second) {
				return false
			}
			for i := range first {
				if first[i] != second[i] {
					return false
				}
			}
			return true
		},
		genLines(),
	))

	properties.TestingRun(t)
}

// **Feature: log-classifier, Property 2: Startup Window Boundary**
// *For any* container start time and window, a line stamped exactly at
// start+window SHALL be startup and a line one second later SHALL NOT.
func TestPropertyStartupWindowBoundary(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)
	parser := NewTimestampParser(time.UTC)
	layout := DefaultTimestampFormat.Layout

	genStart := gen.Int64Range(1_000_000_000, 2_000_000_000).Map(func(sec int64) time.Time {
		return time.Unix(sec, 0).UTC()
	})
	genWindow := gen.IntRange(1, 3600).Map(func(s int) time.Duration {
		return time.Duration(s) * time.Second
	})

	properties.Property("upper edge is inclusive", prop.ForAll(
		func(start time.Time, window time.Duration) bool {
			w := Window{Duration: window}
			atEdge := parser.Parse(start.Add(window).Format(layout) + " ERROR boom")
			past := parser.Parse(start.Add(window+time.Second).Format(layout) + " ERROR boom")
			return w.IsStartup(atEdge, start) && !w.IsStartup(past, start)
		},
		genStart,
		genWindow,
	))

	properties.Property("lines before start are never startup", prop.ForAll(
		func(start time.Time, window time.Duration, before int) bool {
			w := Window{Duration: window}
			ts := parser.Parse(start.Add(-time.Duration(before)*time.Second).Format(layout) + " x")
			return !w.IsStartup(ts, start)
		},
		genStart,
		genWindow,
		gen.IntRange(1, 10000),
	))

	properties.Property("unknown start or missing timestamp is never startup", prop.ForAll(
		func(start time.Time, window time.Duration) bool {
			w := Window{Duration: window}
			ts := parser.Parse(start.Format(layout) + " x")
			return !w.IsStartup(ts, time.Time{}) &&
				!w.IsStartup(ts, time.Unix(0, 0)) &&
				!w.IsStartup(nil, start)
		},
		genStart,
		genWindow,
	))

	properties.TestingRun(t)
}
