package classifier

import (
	"fmt"
	"regexp"
)

// ExclusionRule is a named pattern describing a known-benign phrasing.
type ExclusionRule struct {
	Name    string
	Pattern *regexp.Regexp
}

// ExclusionTable is an ordered set of exclusion rules.
type ExclusionTable struct {
	rules []ExclusionRule
}

var defaultExclusionSources = []struct {
	name    string
	pattern string
}{
	{"connection-established", `connection established`},
	{"connected-to", `\bconnected to\b`},
	{"info-tag", `\[info\]`},
	{"debug-tag", `\[debug\]`},
	{"level-info", `\blevel=(info|debug|trace)\b`},
	{"zero-errors", `\b(0|no) errors?\b|\berrors?[=:] ?0\b`},
	{"successfully", `\bsuccessful(ly)?\b`},
	{"health-check-ok", `health ?check.*\b(ok|passed|healthy)\b`},
	{"retry-success", `\bretry(ing)? succeeded\b`},
	{"error-log-directive", `\berror_log\b`},
}

// NewExclusionTable builds a table from already compiled rules.
func NewExclusionTable(rules ...ExclusionRule) *ExclusionTable {
	t := &ExclusionTable{rules: make([]ExclusionRule, 0, len(rules))}
	t.rules = append(t.rules, rules...)
	return t
}

// DefaultExclusions returns the built-in exclusion table.
func DefaultExclusions() *ExclusionTable {
	rules := make([]ExclusionRule, 0, len(defaultExclusionSources))
	for _, src := range defaultExclusionSources {
		rules = append(rules, ExclusionRule{
			Name:    src.name,
			Pattern: regexp.MustCompile("(?i)" + src.pattern),
		})
	}
	return NewExclusionTable(rules...)
}

// CompileExclusion compiles a named exclusion rule case-insensitively.
func CompileExclusion(name, pattern string) (ExclusionRule, error) {
	re, err := compileInsensitive(pattern)
	if err != nil {
		return ExclusionRule{}, fmt.Errorf("compiling exclusion %q: %w", name, err)
	}
	return ExclusionRule{Name: name, Pattern: re}, nil
}

// Match returns the name of the first rule matching line.
func (t *ExclusionTable) Match(line string) (string, bool) {
	if t == nil {
		return "", false
	}
	for _, r := range t.rules {
		if r.Pattern.MatchString(line) {
			return r.Name, true
		}
	}
	return "", false
}

// Rules returns a copy of the rules in evaluation order.
func (t *ExclusionTable) Rules() []ExclusionRule {
	if t == nil {
		return nil
	}
	out := make([]ExclusionRule, len(t.rules))
	copy(out, t.rules)
	return out
}

// Rule looks up a rule by name.
func (t *ExclusionTable) Rule(name string) (ExclusionRule, bool) {
	for _, r := range t.Rules() {
		if r.Name == name {
			return r, true
		}
	}
	return ExclusionRule{}, false
}

// Len returns the number of rules.
func (t *ExclusionTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rules)
}
