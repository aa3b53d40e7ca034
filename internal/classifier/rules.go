package classifier

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Rules is the on-disk form of the classifier tables.
//
// Example:
//
//	startup_window: 90s
//	categories:
//	  - name: redis
//	    pattern: '\bredis\b'
//	exclusions:
//	  - name: koji-heartbeat
//	    pattern: 'heartbeat (ok|sent)'
//	timestamp_formats:
//	  - pattern: '\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}'
//	    layout: '2006-01-02T15:04:05'
type Rules struct {
	StartupWindow     string          `yaml:"startup_window"`
	ReplaceCategories bool            `yaml:"replace_categories"`
	Categories        []PatternRule   `yaml:"categories"`
	ReplaceExclusions bool            `yaml:"replace_exclusions"`
	Exclusions        []PatternRule   `yaml:"exclusions"`
	TimestampFormats  []TimestampRule `yaml:"timestamp_formats"`
}

// PatternRule is a named regular expression.
type PatternRule struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
}

// TimestampRule pairs a line-prefix pattern with a Go time layout.
type TimestampRule struct {
	Pattern string `yaml:"pattern"`
	Layout  string `yaml:"layout"`
}

// LoadRules reads a rules file.
func LoadRules(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules file: %w", err)
	}
	return ParseRules(data)
}

// ParseRules decodes rules from YAML.
func ParseRules(data []byte) (*Rules, error) {
	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parsing rules: %w", err)
	}
	return &rules, nil
}

// Options compiles the rules into classifier options. Unlike user searches,
// a bad pattern in a rules file is an error.
func (r *Rules) Options(loc *time.Location) ([]Option, error) {
	var opts []Option

	categories, err := r.categories()
	if err != nil {
		return nil, err
	}
	opts = append(opts, WithCategories(categories))

	exclusions, err := r.exclusions()
	if err != nil {
		return nil, err
	}
	opts = append(opts, WithExclusions(exclusions))

	formats := []TimestampFormat{DefaultTimestampFormat}
	for _, tr := range r.TimestampFormats {
		f, err := NewTimestampFormat(tr.Pattern, tr.Layout)
		if err != nil {
			return nil, err
		}
		formats = append(formats, f)
	}
	opts = append(opts, WithTimestampParser(NewTimestampParser(loc, formats...)))

	if r.StartupWindow != "" {
		d, err := time.ParseDuration(r.StartupWindow)
		if err != nil {
			return nil, fmt.Errorf("parsing startup_window: %w", err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("startup_window must be positive, got %v", d)
		}
		opts = append(opts, WithStartupWindow(d))
	}

	return opts, nil
}

func (r *Rules) categories() ([]Category, error) {
	var base []Category
	if !r.ReplaceCategories {
		base = DefaultCategories()
	}

	for _, pr := range r.Categories {
		if pr.Name == "" {
			return nil, fmt.Errorf("category name is required")
		}
		cat, err := CompileCategory(pr.Name, pr.Pattern)
		if err != nil {
			return nil, err
		}
		replaced := false
		for i := range base {
			if base[i].Name == cat.Name {
				base[i] = cat
				replaced = true
				break
			}
		}
		if !replaced {
			base = append(base, cat)
		}
	}

	return base, nil
}

func (r *Rules) exclusions() (*ExclusionTable, error) {
	var rules []ExclusionRule
	if !r.ReplaceExclusions {
		rules = DefaultExclusions().Rules()
	}

	for _, pr := range r.Exclusions {
		if pr.Name == "" {
			return nil, fmt.Errorf("exclusion name is required")
		}
		rule, err := CompileExclusion(pr.Name, pr.Pattern)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}

	return NewExclusionTable(rules...), nil
}
