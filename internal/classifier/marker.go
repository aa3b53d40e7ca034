package classifier

import "regexp"

// structuredMarker matches explicit key="value" error fragments such as
// error="disk full" or failed="upload".
var structuredMarker = regexp.MustCompile(`(?i)\b(error|err|failed|failure|fatal|panic|exception)="[^"]+"`)

// HasStructuredMarker reports whether line carries a structured error marker.
func HasStructuredMarker(line string) bool {
	return structuredMarker.MatchString(line)
}

// Suppressed is the single exclusion predicate used by every counting,
// search and classification path. A structured marker always wins over the
// exclusion table.
func Suppressed(exclusions *ExclusionTable, line string) bool {
	if HasStructuredMarker(line) {
		return false
	}
	_, excluded := exclusions.Match(line)
	return excluded
}
