package cmdutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
)

// PipeWaitDelay bounds how long Run keeps draining output pipes once a
// timed-out command has been killed.
const PipeWaitDelay = 5 * time.Second

// ExecOptions configures command execution.
type ExecOptions struct {
	// Dir is the working directory for the command.
	Dir string

	// Timeout is the maximum execution time.
	// If zero, no timeout is applied and Run waits for the process to exit.
	Timeout time.Duration

	// Stdout and Stderr receive the child's output as it is produced.
	// Each Write carries one chunk read from the pipe. Nil discards the stream.
	Stdout io.Writer
	Stderr io.Writer
}

// Result contains the result of a command execution.
type Result struct {
	// ExitCode is the exit code of the command.
	// -1 if the process could not be started or was terminated by a signal.
	ExitCode int

	// Started reports whether the process was spawned at all.
	Started bool

	// Duration is how long the command took to execute.
	Duration time.Duration
}

// Run executes a command with the given options and blocks until it exits.
// The command is provided as a slice of arguments (command and its arguments).
// A non-zero exit is reported through Result.ExitCode together with an error.
func Run(ctx context.Context, opts ExecOptions, cmdParts []string) (*Result, error) {
	result := &Result{ExitCode: -1}

	if len(cmdParts) == 0 {
		return result, fmt.Errorf("empty command")
	}

	// Apply timeout if specified
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, cmdParts[0], cmdParts[1:]...)
	cmd.Dir = opts.Dir
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr
	if opts.Timeout > 0 {
		// Grandchildren holding the pipes open must not keep Wait blocked past the kill
		cmd.WaitDelay = PipeWaitDelay
	}

	start := time.Now()

	if err := cmd.Start(); err != nil {
		result.Duration = time.Since(start)
		return result, fmt.Errorf("failed to start command: %w", err)
	}
	result.Started = true

	err := cmd.Wait()
	result.Duration = time.Since(start)

	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, fmt.Errorf("command aborted: %w", ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return result, fmt.Errorf("command exited with code %d: %w", result.ExitCode, err)
		}
		return result, fmt.Errorf("command failed: %w", err)
	}

	return result, nil
}

// ParseCommandString parses a shell-quoted command string into parts.
// This is useful when commands are stored as strings with proper quoting.
//
// Example:
//
//	"/opt/brad/brad --config \"/etc/brad/brad.conf\"" -> ["/opt/brad/brad", "--config", "/etc/brad/brad.conf"]
func ParseCommandString(cmdStr string) ([]string, error) {
	parts, err := shellquote.Split(cmdStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse command string: %w", err)
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty command string")
	}
	return parts, nil
}

// FormatCommand formats command parts into a readable string for logging.
// Example: ["brad", "-y", "my site", "prod"] -> "brad -y 'my site' prod"
func FormatCommand(cmdParts []string) string {
	if len(cmdParts) == 0 {
		return "<empty command>"
	}

	// Quote arguments that contain spaces or special characters
	quoted := make([]string, len(cmdParts))
	for i, part := range cmdParts {
		if part == "" || strings.ContainsAny(part, " \t\n\"'") {
			quoted[i] = shellquote.Join(part)
		} else {
			quoted[i] = part
		}
	}

	return strings.Join(quoted, " ")
}
