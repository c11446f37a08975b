package deployment

import (
	"net/http"
	"time"
)

// Outcome is the result class of one dispatch.
type Outcome int

const (
	// NotFound means the environment or project was rejected; nothing ran.
	NotFound Outcome = iota
	// Success means the executable ran and exited 0.
	Success
	// Failure means the executable could not start, exited non-zero,
	// was killed by a signal or ran past the configured timeout.
	Failure
)

func (o Outcome) String() string {
	switch o {
	case NotFound:
		return "not_found"
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return "unknown"
	}
}

// HTTPStatus maps an outcome to the status code returned to the webhook caller.
func (o Outcome) HTTPStatus() int {
	switch o {
	case Success:
		return http.StatusOK
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Result describes one dispatch. ExitCode and Duration are only meaningful
// when Outcome is not NotFound; ExitCode is -1 when no exit status exists.
type Result struct {
	Outcome  Outcome
	ExitCode int
	Duration time.Duration
}
