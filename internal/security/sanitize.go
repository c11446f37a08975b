package security

import (
	"fmt"
	"regexp"
	"strings"
)

var projectPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// MaxProjectNameLength caps project identifiers accepted from configuration.
const MaxProjectNameLength = 64

// ValidateProjectName ensures a project name is safe to pass as a positional
// argument to the deployment executable and to use in URLs.
func ValidateProjectName(name string) error {
	if name == "" {
		return fmt.Errorf("project name cannot be empty")
	}
	if len(name) > MaxProjectNameLength {
		return fmt.Errorf("project name longer than %d characters", MaxProjectNameLength)
	}
	if strings.HasPrefix(name, "-") || strings.HasPrefix(name, ".") {
		return fmt.Errorf("project name cannot start with '-' or '.'")
	}
	if !projectPattern.MatchString(name) {
		return fmt.Errorf("project name contains invalid characters (only a-z, A-Z, 0-9, _, - allowed)")
	}
	return nil
}
