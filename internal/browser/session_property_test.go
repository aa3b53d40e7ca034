package browser

import (
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/aegis-aio/shellder/internal/classifier"
	"github.com/aegis-aio/shellder/internal/logs"
	"github.com/aegis-aio/shellder/internal/models"
)

var lineKinds = []string{
	"request served in 3ms",
	"ERROR connection refused",
	"connection established, no error",
	`level=info msg="retry" error="timeout"`,
	"[INFO] failed login banner",
	"panic: nil map",
	"worker idle",
	"FATAL out of memory",
}

func genLogText() gopter.Gen {
	return gen.SliceOf(gen.IntRange(0, len(lineKinds)-1)).Map(func(kinds []int) string {
		var b strings.Builder
		for i, k := range kinds {
			fmt.Fprintf(&b, "%04d %s\n", i, lineKinds[k])
		}
		return b.String()
	})
}

func running() models.ContainerInfo {
	return models.ContainerInfo{
		Name:      "golbat",
		State:     models.ContainerStateRunning,
		StartedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

// **Feature: error-browser, Property 1: Pagination Completeness**
// *For any* snapshot, concatenating every page SHALL reproduce the entry list
// exactly once, in ordinal order.
func TestPropertyPaginationCompleteness(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)
	c := classifier.New()

	properties.Property("pages concatenate to all entries", prop.ForAll(
		func(text string) bool {
			s := NewSession(logs.NewSnapshot("golbat", running(), text, time.Now()), c)

			var all []Entry
			for n := 1; n <= s.Pages(); n++ {
				page, err := s.Page(n)
				if err != nil {
					return false
				}
				if len(page.Entries) > PageSize {
					return false
				}
				all = append(all, page.Entries...)
			}
			if len(all) != s.Len() {
				return false
			}
			for i, e := range all {
				if e.Seq != i+1 {
					return false
				}
				if i > 0 && all[i-1].Ordinal >= e.Ordinal {
					return false
				}
			}

			_, err := s.Page(s.Pages() + 1)
			return err == ErrPageOutOfRange
		},
		genLogText(),
	))

	properties.Property("sessions over the same snapshot are identical", prop.ForAll(
		func(text string) bool {
			snap := logs.NewSnapshot("golbat", running(), text, time.Now())
			first := NewSession(snap, c).Entries()
			second := NewSession(snap, c).Entries()
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
		genLogText(),
	))

	properties.TestingRun(t)
}

// **Feature: error-browser, Property 2: Context Window Clamping**
// *For any* target T, radius R and log length N, the context range SHALL be
// [max(1, T-R), min(N, T+R)].
func TestPropertyContextClamping(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("window is clamped to the log", prop.ForAll(
		func(total, target, radius int) bool {
			if target > total {
				target = total
			}
			from, to := Window(target, radius, total)
			wantFrom := target - radius
			if wantFrom < 1 {
				wantFrom = 1
			}
			wantTo := target + radius
			if wantTo > total {
				wantTo = total
			}
			return from == wantFrom && to == wantTo && from <= target && target <= to
		},
		gen.IntRange(1, 1000),
		gen.IntRange(1, 1000),
		gen.IntRange(1, 300),
	))

	properties.Property("radius beyond the log covers all of it", prop.ForAll(
		func(total, target, radius int) bool {
			if target > total {
				target = total
			}
			from, to := Window(target, radius, total)
			return from == 1 && to == total
		},
		gen.IntRange(1, 1000),
		gen.IntRange(1, 1000),
		gen.OneConstOf(math.MaxInt, math.MaxInt-1, math.MaxInt/2+1, 1000),
	))

	properties.Property("context marks exactly the target line", prop.ForAll(
		func(text string, radius int) bool {
			s := NewSession(logs.NewSnapshot("golbat", running(), text, time.Now()), classifier.New())
			for seq := 1; seq <= s.Len(); seq++ {
				view, err := s.Context(seq, radius)
				if err != nil {
					return false
				}
				if len(view.Lines) != view.To-view.From+1 {
					return false
				}
				marked := 0
				for _, l := range view.Lines {
					if l.Target {
						marked++
						if l.Ordinal != view.Entry.Ordinal {
							return false
						}
					}
				}
				if marked != 1 {
					return false
				}
			}
			return true
		},
		genLogText(),
		gen.IntRange(1, 10),
	))

	properties.TestingRun(t)
}
