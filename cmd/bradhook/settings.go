package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"bradhook/internal/access"
	"bradhook/internal/project"
	"bradhook/pkg/fileutil"
)

// githubMetaTimeout bounds the startup call to the GitHub meta API.
const githubMetaTimeout = 15 * time.Second

var (
	configFile string
	githubMeta bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", getEnvOrDefault("BRADHOOK_CONFIG_FILE", ""), "Path to bradhook.yaml configuration file")
	rootCmd.PersistentFlags().BoolVar(&githubMeta, "github-meta", os.Getenv("BRADHOOK_GITHUB_META") == "1", "Replace the static GitHub ranges with the hook ranges from the GitHub meta API")
}

// settings is everything loaded from the configuration file at startup
type settings struct {
	configPath string
	config     *project.Config
	projects   []*project.Project
	providers  []access.Provider
}

// resolveConfigPath returns --config or the first config file found in the
// default locations. When required is false a missing file yields "".
func resolveConfigPath(required bool) (string, error) {
	if configFile != "" {
		return configFile, nil
	}

	searchPaths := fileutil.DefaultConfigPaths(fileutil.ConfigFileName)
	if !required {
		return fileutil.SearchPathsOptional(searchPaths), nil
	}

	path, err := fileutil.SearchPaths(searchPaths)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: No configuration file found in default locations:\n")
		for _, p := range searchPaths {
			fmt.Fprintf(os.Stderr, "  - %s\n", p)
		}
		fmt.Fprintf(os.Stderr, "Use --config flag to specify a custom location\n")
		return "", fmt.Errorf("configuration file not found: %w", err)
	}
	return path, nil
}

// loadSettings loads the configuration and builds the trusted provider table.
func loadSettings(ctx context.Context, logger *slog.Logger, requireConfig bool) (*settings, error) {
	path, err := resolveConfigPath(requireConfig)
	if err != nil {
		return nil, err
	}

	s := &settings{configPath: path, config: &project.Config{}}
	if path != "" {
		logger.Info("Loading configuration", "config", path)
		s.config, s.projects, err = project.LoadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
	}

	s.providers = access.MergeProviders(access.DefaultProviders(), s.config.Trusted)

	if githubMeta {
		metaCtx, cancel := context.WithTimeout(ctx, githubMetaTimeout)
		defer cancel()

		client := access.NewGitHubClient(metaCtx, os.Getenv("GITHUB_TOKEN"))
		refreshed, err := access.RefreshGitHub(metaCtx, client, s.providers)
		if err != nil {
			logger.Warn("Could not refresh GitHub hook ranges, keeping static table", "error", err)
		} else {
			s.providers = refreshed
			logger.Info("Refreshed GitHub hook ranges from meta API")
		}
	}

	return s, nil
}

// Helper functions for environment variables
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var intVal int
		if _, err := fmt.Sscanf(value, "%d", &intVal); err == nil {
			return intVal
		}
	}
	return defaultValue
}
