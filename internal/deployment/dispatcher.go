package deployment

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"bradhook/pkg/cmdutil"
)

// AssumeYesFlag keeps the deployment executable from prompting.
const AssumeYesFlag = "-y"

// ProjectLookup is the read-only view of the project registry the
// dispatcher needs.
type ProjectLookup interface {
	Contains(name string) bool
	Description(name string) string
}

// Options configures a Dispatcher.
type Options struct {
	// Command is the deployment executable and any fixed leading arguments.
	// "-y <name> <env>" is appended per dispatch.
	Command []string

	// Dir is the working directory for the child. Empty means the current directory.
	Dir string

	// Timeout bounds each child. Zero waits for the child indefinitely.
	Timeout time.Duration

	// Serialize runs at most one child per project/environment pair at a time.
	Serialize bool

	// Sink receives child output. Defaults to a LogSink on Logger.
	Sink Sink

	Logger *slog.Logger
}

// Dispatcher validates triggers and runs the deployment executable.
type Dispatcher struct {
	projects ProjectLookup
	command  []string
	dir      string
	timeout  time.Duration
	locks    *LockManager
	sink     Sink
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher reading projects from lookup
func NewDispatcher(projects ProjectLookup, opts Options) *Dispatcher {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sink := opts.Sink
	if sink == nil {
		sink = NewLogSink(logger)
	}

	d := &Dispatcher{
		projects: projects,
		command:  slices.Clone(opts.Command),
		dir:      opts.Dir,
		timeout:  opts.Timeout,
		sink:     sink,
		logger:   logger,
	}
	if opts.Serialize {
		d.locks = NewLockManager()
	}

	return d
}

// Command returns the full argument list that would be run for a target.
func (d *Dispatcher) Command(name string, env Environment) []string {
	args := slices.Clone(d.command)
	return append(args, AssumeYesFlag, name, env.String())
}

// Dispatch checks env then name and, only if both are valid, runs the
// deployment executable and waits for it to exit.
//
// The child is not tied to ctx cancellation: once started it runs to
// completion (or to the configured timeout) even if the caller goes away.
func (d *Dispatcher) Dispatch(ctx context.Context, name, env string) Result {
	environment, ok := ParseEnvironment(env)
	if !ok || !d.projects.Contains(name) {
		d.logger.Info("project or env not found", "project", name, "env", env)
		return Result{Outcome: NotFound, ExitCode: -1}
	}

	target := Target{Project: name, Environment: environment}

	if d.locks != nil {
		d.locks.Lock(target.Key())
		defer d.locks.Unlock(target.Key())
	}

	return d.run(context.WithoutCancel(ctx), target)
}

func (d *Dispatcher) run(ctx context.Context, target Target) Result {
	cmd := d.Command(target.Project, target.Environment)

	attrs := []any{
		"project", target.Project,
		"env", target.Environment.String(),
		"command", cmdutil.FormatCommand(cmd),
	}
	if desc := d.projects.Description(target.Project); desc != "" {
		attrs = append(attrs, "description", desc)
	}
	d.logger.Info("deploying", attrs...)

	res, err := cmdutil.Run(ctx, cmdutil.ExecOptions{
		Dir:     d.dir,
		Timeout: d.timeout,
		Stdout:  &streamWriter{sink: d.sink, target: target, stream: StreamStdout},
		Stderr:  &streamWriter{sink: d.sink, target: target, stream: StreamStderr},
	}, cmd)

	if !res.Started {
		d.logger.Error("failed to start deployment",
			"project", target.Project,
			"env", target.Environment.String(),
			"error", err)
		return Result{Outcome: Failure, ExitCode: -1, Duration: res.Duration}
	}

	d.sink.Exited(target, res.ExitCode, res.Duration)

	if err != nil {
		d.logger.Warn("deployment failed",
			"project", target.Project,
			"env", target.Environment.String(),
			"exit_code", res.ExitCode,
			"error", err)
		return Result{Outcome: Failure, ExitCode: res.ExitCode, Duration: res.Duration}
	}

	return Result{Outcome: Success, ExitCode: res.ExitCode, Duration: res.Duration}
}
