// Package models provides data models for the shellder log tooling.
package models

import "time"

// LogLine is a single line of a log snapshot.
// Ordinal is 1-based and only meaningful within the snapshot it came from.
type LogLine struct {
	Ordinal int    `json:"line"`
	Text    string `json:"text"`
}

// Tag is the classification given to an error-ish log line.
type Tag string

const (
	// TagError marks a line that survived exclusion outside the startup window.
	TagError Tag = "error"
	// TagStartup marks a line that falls inside the container's startup window.
	TagStartup Tag = "startup"
	// TagExcluded marks a line suppressed by an exclusion rule.
	TagExcluded Tag = "excluded"
)

// Label returns the short display label used in listings.
func (t Tag) Label() string {
	switch t {
	case TagStartup:
		return "Startup"
	case TagExcluded:
		return "Excluded"
	default:
		return "Error"
	}
}

// ClassifiedEntry is a log line together with its classification.
type ClassifiedEntry struct {
	Line      LogLine    `json:"line"`
	Tag       Tag        `json:"tag"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}
