package models

import (
	"fmt"
	"regexp"
)

// containerNameRegex matches the names Docker accepts for containers, which
// also covers compose service names.
var containerNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)

// ValidateContainerName checks a user-supplied service or container name.
func ValidateContainerName(name string) error {
	if name == "" {
		return &ValidationError{Field: "service", Message: "is required"}
	}
	if len(name) > 255 {
		return &ValidationError{Field: "service", Message: "must be at most 255 characters"}
	}
	if !containerNameRegex.MatchString(name) {
		return &ValidationError{Field: "service", Message: fmt.Sprintf("%q is not a valid container name", name)}
	}
	return nil
}
