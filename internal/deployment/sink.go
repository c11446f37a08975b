package deployment

import (
	"log/slog"
	"time"
)

// Stream names passed to Sink.Output.
const (
	StreamStdout = "stdout"
	StreamStderr = "stderr"
)

// Target identifies what a child process is deploying.
type Target struct {
	Project     string
	Environment Environment
}

// Key is the lock key for the target.
func (t Target) Key() string {
	return t.Project + "/" + t.Environment.String()
}

// Sink receives a child's output as it is produced and its final exit code.
// Output is called from one goroutine per stream; implementations must be
// safe for concurrent use and must not retain chunk after returning.
type Sink interface {
	Output(target Target, stream string, chunk []byte)
	Exited(target Target, exitCode int, duration time.Duration)
}

// LogSink writes child output to a structured logger.
type LogSink struct {
	Logger *slog.Logger
}

// NewLogSink creates a sink logging through logger
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{Logger: logger}
}

func (s *LogSink) Output(target Target, stream string, chunk []byte) {
	s.Logger.Info(stream,
		"project", target.Project,
		"env", target.Environment.String(),
		"data", string(chunk))
}

func (s *LogSink) Exited(target Target, exitCode int, duration time.Duration) {
	s.Logger.Info("child process exited",
		"project", target.Project,
		"env", target.Environment.String(),
		"exit_code", exitCode,
		"duration_ms", duration.Milliseconds())
}

// streamWriter forwards each Write to a Sink unchanged.
type streamWriter struct {
	sink   Sink
	target Target
	stream string
}

func (w *streamWriter) Write(p []byte) (int, error) {
	w.sink.Output(w.target, w.stream, p)
	return len(p), nil
}
