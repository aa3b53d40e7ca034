// Package export writes classification reports of a snapshot to disk.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/aegis-aio/shellder/internal/browser"
	"github.com/aegis-aio/shellder/internal/classifier"
	"github.com/aegis-aio/shellder/internal/models"
)

// Format is a report encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatText:
		return Format(s), nil
	default:
		return "", &models.ValidationError{Field: "format", Message: fmt.Sprintf("unsupported format %q (want json or text)", s)}
	}
}

// Report is the exported view of one browsing session.
type Report struct {
	Service   string                     `json:"service"`
	Container models.ContainerInfo       `json:"container"`
	TakenAt   time.Time                  `json:"taken_at"`
	Available bool                       `json:"available"`
	Lines     int                        `json:"lines"`
	Counts    []classifier.CategoryCount `json:"counts"`
	Tags      map[models.Tag]int         `json:"tags"`
	Entries   []browser.Entry            `json:"entries"`
}

// Build assembles a report from a session.
func Build(s *browser.Session, c *classifier.Classifier) Report {
	snap := s.Snapshot()
	r := Report{
		Service:   snap.Service,
		Container: snap.Container,
		TakenAt:   snap.TakenAt,
		Available: snap.Available(),
		Lines:     snap.Len(),
		Tags:      s.Counts(),
		Entries:   s.Entries(),
	}
	if r.Available {
		r.Counts = c.CountAll(snap.Lines)
	}
	return r
}

// Write encodes the report to w.
func Write(w io.Writer, r Report, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatText:
		return writeText(w, r)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// Fixer restores ownership of a written file.
type Fixer interface {
	Fix(path string) error
}

// WriteFile writes the report to path and then passes the path to fixer.
func WriteFile(path string, r Report, format Format, fixer Fixer) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	if err := Write(f, r, format); err != nil {
		f.Close()
		return fmt.Errorf("writing report: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}

	if fixer != nil {
		if err := fixer.Fix(path); err != nil {
			return err
		}
	}
	return nil
}

func writeText(w io.Writer, r Report) error {
	fmt.Fprintf(w, "service:  %s\n", r.Service)
	fmt.Fprintf(w, "taken at: %s\n", r.TakenAt.Format(time.RFC3339))
	if !r.Available {
		_, err := fmt.Fprintf(w, "not applicable: container %s\n", r.Container.State)
		return err
	}
	fmt.Fprintf(w, "lines:    %d\n\n", r.Lines)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tCOUNT")
	for _, c := range r.Counts {
		fmt.Fprintf(tw, "%s\t%d\n", c.Name, c.Count)
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "#\tLINE\tTAG\tTEXT")
	for _, e := range r.Entries {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\n", e.Seq, e.Ordinal, e.Tag.Label(), e.Text)
	}
	return tw.Flush()
}
