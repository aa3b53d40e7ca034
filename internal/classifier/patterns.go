// Package classifier buckets container log lines into error categories,
// suppresses known-benign phrasings and separates startup noise from real
// errors.
package classifier

import (
	"fmt"
	"regexp"
)

// Category is a named, case-insensitive pattern used to bucket log lines.
type Category struct {
	Name    string
	Pattern *regexp.Regexp
}

// CategoryCount is the number of surviving lines for one category.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// defaultCategorySources is the fixed category table, in display order.
var defaultCategorySources = []struct {
	name    string
	pattern string
}{
	{"critical", `\b(fatal|panic|critical|crash(ed|ing)?|segfault|sigsegv)\b`},
	{"database", `\b(database|postgres(ql)?|mysql|mariadb|sql|deadlock|migration)\b`},
	{"connection", `\b(connection|connect(ed|ing)?|disconnect(ed)?|refused|unreachable|reset by peer|broken pipe)\b`},
	{"timeout", `\b(timed? ?out|timeout|deadline exceeded)\b`},
	{"auth", `\b(auth(entication|orization)?|unauthori[sz]ed|forbidden|invalid (token|credentials)|login failed)\b`},
	{"memory", `\b(out of memory|oom(killed)?|memory|heap)\b`},
	{"permission", `\b(permission denied|access denied|not permitted|eacces|eperm)\b`},
	{"disk", `\b(no space left|disk full|disk|i/o error|read-only file system)\b`},
}

// errorishPattern selects the lines shown by the numbered error browser.
var errorishPattern = regexp.MustCompile(`(?i)(error|fatal|panic|critical|failed|exception)`)

// CompileCategory compiles a category pattern case-insensitively.
func CompileCategory(name, pattern string) (Category, error) {
	re, err := compileInsensitive(pattern)
	if err != nil {
		return Category{}, fmt.Errorf("compiling category %q: %w", name, err)
	}
	return Category{Name: name, Pattern: re}, nil
}

// DefaultCategories returns the built-in category table.
func DefaultCategories() []Category {
	categories := make([]Category, 0, len(defaultCategorySources))
	for _, src := range defaultCategorySources {
		categories = append(categories, Category{
			Name:    src.name,
			Pattern: regexp.MustCompile("(?i)" + src.pattern),
		})
	}
	return categories
}

// IsErrorish reports whether a line carries one of the error keywords
// (error, fatal, panic, critical, failed, exception).
func IsErrorish(line string) bool {
	return errorishPattern.MatchString(line)
}

func compileInsensitive(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile("(?i)" + pattern)
}
