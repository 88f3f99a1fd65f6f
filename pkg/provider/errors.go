package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// CapacityError reports that a specific GPU type is currently
// unavailable on the marketplace. It is a domain error: callers must
// not retry it, they move on to the next candidate instead.
type CapacityError struct {
	GPUTypeID string
	Message   string
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("no capacity for %s: %s", e.GPUTypeID, e.Message)
}

// APIError is a non-2xx response from the provider API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("provider API error (status %d): %s", e.StatusCode, e.Message)
}

// Transient reports whether the response indicates a temporary server
// side condition worth retrying.
func (e *APIError) Transient() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}

// IsCapacity reports whether err is a capacity/availability error.
func IsCapacity(err error) bool {
	var ce *CapacityError
	return errors.As(err, &ce)
}

// IsTransient classifies an error as retryable: network/timeout
// failures and 5xx/429 API responses. Capacity errors are never
// transient.
func IsTransient(err error) bool {
	if err == nil || IsCapacity(err) {
		return false
	}
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Transient()
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
