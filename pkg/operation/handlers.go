// Package operation provides HTTP handlers exposing pod lifecycle
// operations (deploy/start/stop/restart/status/terminate).
package operation

import (
	"context"
	"net/http"

	"github.com/efortin/podctl/pkg/lifecycle"
	"github.com/efortin/podctl/pkg/provider"
)

// Manager defines the interface for pod lifecycle operations.
type Manager interface {
	Deploy(ctx context.Context, podType string) lifecycle.Result
	Start(ctx context.Context, podType string, deployNewIfNeeded bool) lifecycle.Result
	Stop(ctx context.Context, podType string) lifecycle.Result
	Restart(ctx context.Context, podType string, deployNewIfNeeded bool) lifecycle.Result
	Status(ctx context.Context, podType string) lifecycle.Result
	Terminate(ctx context.Context, podType string) lifecycle.Result
	ListGPUs(ctx context.Context) ([]provider.GPUType, []lifecycle.Candidate, error)
}

// httpStatusFor maps a result error kind to an HTTP status code.
func httpStatusFor(kind lifecycle.ErrorKind) int {
	switch kind {
	case lifecycle.ErrNotFound:
		return http.StatusNotFound
	case lifecycle.ErrNoAffordableGPU, lifecycle.ErrNoCapacity:
		return http.StatusConflict
	case lifecycle.ErrProviderUnreachable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
