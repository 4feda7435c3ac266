package operator

import (
	"time"

	"github.com/google/uuid"
)

// Run statuses.
const (
	StatusRunning   = "RUNNING"
	StatusSucceeded = "SUCCEEDED"
	StatusSkipped   = "SKIPPED"
	StatusFailed    = "FAILED"
)

// Run records one execute-phase invocation of the operator.
type Run struct {
	ID          string
	Status      string
	StartTime   time.Time
	EndTime     time.Time
	ContainerID string
	ExitCode    int
	Err         error
}

// newRun creates a run record in the RUNNING state.
func newRun() *Run {
	return &Run{
		ID:        uuid.New().String(),
		Status:    StatusRunning,
		StartTime: time.Now(),
	}
}

// complete finalizes the run with the launch outcome.
func (r *Run) complete(containerID string, exitCode int, skipped bool, err error) {
	r.EndTime = time.Now()
	r.ContainerID = containerID
	r.ExitCode = exitCode
	r.Err = err

	switch {
	case err != nil:
		r.Status = StatusFailed
	case skipped:
		r.Status = StatusSkipped
	default:
		r.Status = StatusSucceeded
	}
}
