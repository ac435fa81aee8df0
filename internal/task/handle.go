package task

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Handle tracks a submitted task and delivers its single terminal outcome.
// The outcome is latched: exactly one resolve ever takes effect, and every
// Await after resolution observes the same value and error. Abandoning a
// handle does not cancel the task; it still runs to completion.
type Handle struct {
	id   uuid.UUID
	lane Lane
	kind Kind

	mu     sync.Mutex
	status Status

	once  sync.Once
	done  chan struct{}
	value any
	err   error
}

func newHandle(lane Lane, kind Kind) *Handle {
	return &Handle{
		id:     uuid.New(),
		lane:   lane,
		kind:   kind,
		status: StatusQueued,
		done:   make(chan struct{}),
	}
}

// ID returns the task's unique identifier.
func (h *Handle) ID() uuid.UUID {
	return h.id
}

// Lane returns the lane the task was submitted to.
func (h *Handle) Lane() Lane {
	return h.lane
}

// Kind returns the task kind.
func (h *Handle) Kind() Kind {
	return h.kind
}

// Status returns the current task status.
func (h *Handle) Status() Status {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status
}

// Await blocks until the task reaches its terminal state and returns the
// latched outcome. It may be called any number of times and always yields
// the same result. If ctx is cancelled first, Await returns the context
// error; the task itself keeps running.
func (h *Handle) Await(ctx context.Context) (any, error) {
	select {
	case <-h.done:
		return h.value, h.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// markActive records the queued -> active transition.
func (h *Handle) markActive() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.status == StatusQueued {
		h.status = StatusActive
	}
}

// resolve latches the terminal outcome. Later calls are no-ops.
func (h *Handle) resolve(value any, err error) {
	h.once.Do(func() {
		h.mu.Lock()
		if err != nil {
			h.status = StatusFailed
		} else {
			h.status = StatusSucceeded
		}
		h.mu.Unlock()

		h.value = value
		h.err = err
		close(h.done)
	})
}
