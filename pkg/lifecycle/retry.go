package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/efortin/podctl/pkg/provider"
)

// retriesExhaustedError marks a call whose transient failures outlived
// the retry budget. The manager surfaces it as ProviderUnreachable.
type retriesExhaustedError struct {
	op       string
	attempts int
	err      error
}

func (e *retriesExhaustedError) Error() string {
	return fmt.Sprintf("%s: retries exhausted after %d attempts: %v", e.op, e.attempts, e.err)
}

func (e *retriesExhaustedError) Unwrap() error { return e.err }

func isRetriesExhausted(err error) bool {
	var re *retriesExhaustedError
	return errors.As(err, &re)
}

// withRetry runs call up to maxAttempts times with exponential backoff
// between attempts. Only errors classified as transient by the
// provider package are retried; domain errors such as capacity
// rejections return immediately.
func withRetry(ctx context.Context, op string, maxAttempts int, backoff time.Duration, call func() error) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	delay := backoff
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = call(); err == nil {
			return nil
		}
		if !provider.IsTransient(err) {
			return err
		}
		if attempt == maxAttempts {
			break
		}
		log.Printf("🔄 %s failed (attempt %d/%d), retrying in %s: %v", op, attempt, maxAttempts, delay, err)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		delay *= 2
	}
	return &retriesExhaustedError{op: op, attempts: maxAttempts, err: err}
}
