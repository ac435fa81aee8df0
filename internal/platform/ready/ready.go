// Package ready implements a polling readiness check with a fixed retry
// budget, used at startup and by the status endpoint to wait for the
// document store and the session cache.
package ready

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrDependencyUnavailable is returned when a dependency does not become
// reachable within the configured retry budget.
var ErrDependencyUnavailable = errors.New("dependency unavailable")

// Pinger probes a backing service for liveness.
type Pinger interface {
	// Ping returns nil when the service is reachable.
	Ping(ctx context.Context) error
}

// Wait polls the pinger until it succeeds, up to attempts probes separated
// by interval. It returns ErrDependencyUnavailable (wrapped with the
// dependency name) once the budget is exhausted, or the context error if
// the caller gives up first.
func Wait(
	ctx context.Context,
	name string,
	p Pinger,
	attempts int,
	interval time.Duration,
	logger *slog.Logger,
) error {
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		if err := p.Ping(ctx); err == nil {
			return nil
		} else {
			lastErr = err
			logger.Debug("dependency not ready",
				"dependency", name,
				"attempt", attempt,
				"max_attempts", attempts,
				"error", err)
		}

		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}

	return fmt.Errorf("%w: %s after %d attempts: %v",
		ErrDependencyUnavailable, name, attempts, lastErr)
}
