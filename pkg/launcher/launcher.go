// Package launcher defines the container-launch boundary: the operator hands
// a fully merged environment map and command line to a Launcher, which owns
// the container lifecycle from there.
package launcher

import (
	"context"
	"fmt"

	"github.com/pwalczyk/dockerop/pkg/environment"
)

// Auto-remove policies.
const (
	AutoRemoveSuccess = "success" // remove only after a clean (or skipped) exit
	AutoRemoveForce   = "force"   // always remove
	AutoRemoveNever   = "never"   // keep the container
)

// AutoRemovePolicies lists the recognized auto-remove policies.
var AutoRemovePolicies = []string{AutoRemoveSuccess, AutoRemoveForce, AutoRemoveNever}

// Request describes one container launch. The environment map is fully
// merged by the time it reaches the launcher.
type Request struct {
	Image        string
	Command      []string
	Env          *environment.Map
	TTY          bool
	NetworkMode  string
	AutoRemove   string
	SkipExitCode *int
}

// Result reports the outcome of a finished container. StdoutTail holds the
// last log lines of a failed container, fetched before any removal.
type Result struct {
	ContainerID string
	ExitCode    int
	Skipped     bool
	StdoutTail  string
}

// Outcome maps a finished container's exit code to its result and error,
// applying the request's skip-exit-code: a matching exit code yields a
// skipped result and no error, any other non-zero exit code is a failure
// carrying the exit code.
func (r *Request) Outcome(containerID string, exitCode int) (*Result, error) {
	result := &Result{ContainerID: containerID, ExitCode: exitCode}
	if r.SkipExitCode != nil && exitCode == *r.SkipExitCode {
		result.Skipped = true
		return result, nil
	}
	if exitCode != 0 {
		return result, fmt.Errorf("container %s exited with code %d", containerID, exitCode)
	}
	return result, nil
}

// ShouldRemove reports whether a container is removed after exit under the
// given auto-remove policy. A nil result means the container's exit status
// is unknown (the wait itself failed); only the force policy removes then.
func ShouldRemove(policy string, result *Result) bool {
	switch policy {
	case AutoRemoveForce:
		return true
	case AutoRemoveSuccess:
		return result != nil && (result.ExitCode == 0 || result.Skipped)
	default:
		return false
	}
}

// Launcher runs a container to completion. It owns container-level failure
// handling; the operator performs no retries of its own.
type Launcher interface {
	Launch(ctx context.Context, req *Request) (*Result, error)
}
