package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"bradhook/internal/access"
	"bradhook/internal/deployment"
	"bradhook/internal/project"
	"bradhook/internal/server"
	"bradhook/pkg/cmdutil"
	"bradhook/pkg/fileutil"

	"github.com/spf13/cobra"
)

var (
	logFile   string
	host      string
	port      int
	rateLimit int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the webhook server",
	Long: `Start the HTTP server that receives deployment triggers.

GET  /hooks              lists the configured projects
POST /hook/{name}/{env}  runs the deployment executable for name in env (prod or beta)`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&logFile, "log", getEnvOrDefault("BRADHOOK_LOG_FILE", ""), "Also write logs to this file")
	serveCmd.Flags().StringVar(&host, "host", getEnvOrDefault("BRADHOOK_HOST", "127.0.0.1"), "Host to bind to")
	serveCmd.Flags().IntVarP(&port, "port", "p", getEnvOrDefaultInt("BRADHOOK_PORT", 4978), "Port to listen on")
	serveCmd.Flags().IntVar(&rateLimit, "rate-limit", getEnvOrDefaultInt("BRADHOOK_RATE_LIMIT", 0), "Triggers per minute allowed per client address (0 disables)")
}

func runServe(cmd *cobra.Command, args []string) error {
	// Set up logging
	logger, logFileHandle, err := setupLogging(logFile)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	if logFileHandle != nil {
		defer logFileHandle.Close()
	}

	logger.Info("Starting bradhook", "version", version)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	s, err := loadSettings(ctx, logger, true)
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		return err
	}

	registry := project.NewRegistry(s.projects)
	logger.Info("Configuration validated successfully", "count", registry.Count(), "projects", registry.List())

	// Warn if no projects are configured
	if registry.Count() == 0 {
		logger.Warn("No projects configured in config file", "config", s.configPath)
		logger.Warn("The server will start but every trigger will answer 404 until projects are added")
	}

	authorizer, err := access.NewAuthorizer(s.providers)
	if err != nil {
		logger.Error("Invalid trusted ranges", "error", err)
		return fmt.Errorf("invalid trusted ranges: %w", err)
	}
	for _, p := range authorizer.Providers() {
		logger.Info("Trusting provider", "provider", p.Name, "ranges", p.Ranges)
	}

	command, err := cmdutil.ParseCommandString(s.config.Deploy.Command)
	if err != nil {
		return fmt.Errorf("invalid deploy command: %w", err)
	}
	if !commandAvailable(command[0], s.config.Deploy.Dir) {
		logger.Warn("Deployment executable not found or not executable, triggers will fail", "command", command[0])
	}

	dispatcher := deployment.NewDispatcher(registry, deployment.Options{
		Command:   command,
		Dir:       s.config.Deploy.Dir,
		Timeout:   time.Duration(s.config.Deploy.Timeout) * time.Second,
		Serialize: s.config.Deploy.Serialize,
		Logger:    logger,
	})

	srv := server.NewServer(registry, authorizer, dispatcher, logger)
	srv.RateLimit = rateLimit

	logger.Info("Starting HTTP server", "host", host, "port", port)
	if err := srv.ListenAndServe(ctx, host, port); err != nil {
		logger.Error("Server failed", "error", err)
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// commandAvailable reports whether the deployment executable can be found.
// Paths are resolved against dir the same way the child will see them.
func commandAvailable(name, dir string) bool {
	if !strings.Contains(name, "/") {
		_, err := exec.LookPath(name)
		return err == nil
	}
	if !filepath.IsAbs(name) && dir != "" {
		name = filepath.Join(dir, name)
	}
	return fileutil.IsExecutable(name)
}

// setupLogging configures slog JSON logging to stdout, tee'd to logPath when set.
// The returned file is nil when no log file is used; otherwise the caller must close it.
func setupLogging(logPath string) (*slog.Logger, *os.File, error) {
	var out io.Writer = os.Stdout
	var file *os.File

	if logPath != "" {
		// Create log directory if needed
		if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}

		var err error
		file, err = os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}

		out = io.MultiWriter(os.Stdout, file)
	}

	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})

	return slog.New(handler), file, nil
}
