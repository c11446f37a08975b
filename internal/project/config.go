package project

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/netip"
	"os"
	"slices"
	"strings"

	"bradhook/internal/security"
	"bradhook/pkg/cmdutil"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultCommand is the deployment executable used when deploy.command is unset.
	DefaultCommand = "../brad"
)

// LoadConfig loads and validates the configuration from a YAML file
func LoadConfig(configPath string) (*Config, []*Project, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig decodes and validates a YAML configuration document.
// Projects are returned in declaration order with duplicates removed.
func ParseConfig(data []byte) (*Config, []*Project, error) {
	var config Config

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	// Apply defaults
	if strings.TrimSpace(config.Deploy.Command) == "" {
		config.Deploy.Command = DefaultCommand
	}

	if errs := ValidateConfig(config); len(errs) > 0 {
		return nil, nil, fmt.Errorf("invalid configuration:\n%s", strings.Join(errs, "\n"))
	}

	seen := make(map[string]bool, len(config.Projects))
	projects := make([]*Project, 0, len(config.Projects))
	for _, pc := range config.Projects {
		if seen[pc.Name] {
			continue
		}
		seen[pc.Name] = true
		projects = append(projects, &Project{
			Name:        pc.Name,
			Description: pc.Description,
		})
	}

	return &config, projects, nil
}

// ValidateConfig validates a decoded configuration and returns one message per problem
func ValidateConfig(config Config) []string {
	var errors []string

	// Validate deploy section
	if _, err := cmdutil.ParseCommandString(config.Deploy.Command); err != nil {
		errors = append(errors, fmt.Sprintf("  - deploy.command: %v", err))
	}
	if config.Deploy.Timeout < 0 {
		errors = append(errors, fmt.Sprintf("  - deploy.timeout must be zero or a positive integer, got %d", config.Deploy.Timeout))
	}

	// Validate trusted ranges
	for _, provider := range slices.Sorted(maps.Keys(config.Trusted)) {
		cidrs := config.Trusted[provider]
		if strings.TrimSpace(provider) == "" {
			errors = append(errors, "  - trusted: provider name cannot be empty")
		}
		for i, cidr := range cidrs {
			if _, err := netip.ParsePrefix(strings.TrimSpace(cidr)); err != nil {
				errors = append(errors, fmt.Sprintf("  - trusted.%s[%d]: invalid CIDR '%s': %v", provider, i, cidr, err))
			}
		}
	}

	// Validate projects
	for i, pc := range config.Projects {
		if err := security.ValidateProjectName(pc.Name); err != nil {
			errors = append(errors, fmt.Sprintf("  - projects[%d]: %v", i, err))
		}
	}

	return errors
}
