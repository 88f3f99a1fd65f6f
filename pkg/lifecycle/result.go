package lifecycle

import (
	"fmt"
	"strings"

	"github.com/efortin/podctl/pkg/provider"
)

// ErrorKind classifies a failed lifecycle operation.
type ErrorKind string

const (
	ErrNone                ErrorKind = ""
	ErrNoAffordableGPU     ErrorKind = "no_affordable_gpu"
	ErrNoCapacity          ErrorKind = "no_capacity"
	ErrProviderUnreachable ErrorKind = "provider_unreachable"
	ErrStartFailed         ErrorKind = "start_failed"
	ErrStopFailed          ErrorKind = "stop_failed"
	ErrRestartFailed       ErrorKind = "restart_failed"
	ErrTerminateFailed     ErrorKind = "terminate_failed"
	ErrNotFound            ErrorKind = "not_found"
	ErrConfiguration       ErrorKind = "configuration_error"
)

// Status is the provider-observed state of a pod.
type Status string

const (
	StatusNotFound   Status = "NOT_FOUND"
	StatusPending    Status = "PENDING"
	StatusRunning    Status = "RUNNING"
	StatusStopped    Status = "STOPPED"
	StatusTerminated Status = "TERMINATED"
)

// statusFromDesired maps the provider's desiredStatus strings onto the
// status enum. Unrecognized states count as Pending.
func statusFromDesired(desired string) Status {
	switch strings.ToUpper(desired) {
	case "RUNNING":
		return StatusRunning
	case "EXITED", "STOPPED":
		return StatusStopped
	case "TERMINATED":
		return StatusTerminated
	default:
		return StatusPending
	}
}

// Result is the outcome of a lifecycle operation. It is returned to the
// caller and never persisted.
type Result struct {
	OK      bool
	Kind    ErrorKind
	Message string
	// Stage names the half of a restart that failed ("stop" or "start").
	Stage  string
	Status Status
	Pod    *provider.Pod
	Err    error
}

func okResult(status Status, pod *provider.Pod, format string, args ...any) Result {
	return Result{
		OK:      true,
		Status:  status,
		Pod:     pod,
		Message: fmt.Sprintf(format, args...),
	}
}

func failure(kind ErrorKind, err error, format string, args ...any) Result {
	return Result{
		Kind:    kind,
		Err:     err,
		Message: fmt.Sprintf(format, args...),
	}
}
