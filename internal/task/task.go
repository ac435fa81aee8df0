package task

import (
	"context"
	"errors"
)

// Lane identifies an independently ordered task sub-queue. Submission
// order is preserved within a lane; there is no cross-lane ordering
// guarantee.
type Lane string

// The two lanes of the system.
const (
	LaneUser Lane = "user"
	LaneFile Lane = "file"
)

// Kind identifies the processor a task is dispatched to.
type Kind string

// Task kinds.
const (
	KindCreateUser         Kind = "createUser"
	KindSignIn             Kind = "signInUser"
	KindSignOut            Kind = "signOutUser"
	KindUploadFile         Kind = "uploadFile"
	KindGenerateThumbnails Kind = "generateThumbnails"
)

// Status represents the current state of a task. Transitions are
// monotonic: queued -> active -> {succeeded, failed}.
type Status string

// Possible task status values.
const (
	StatusQueued    Status = "queued"
	StatusActive    Status = "active"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Payload is the closed union of task inputs. Each kind has exactly one
// payload type; the Kind method ties the variant to its processor.
type Payload interface {
	Kind() Kind
}

// Processor executes one task kind. Validation and not-found conditions
// are returned as errors from the domain taxonomy; collaborator failures
// must be wrapped in domain.ErrInternal at the processor boundary so they
// never crash a worker loop.
type Processor func(ctx context.Context, payload Payload) (any, error)

// Errors returned by the queue itself.
var (
	// ErrUnknownTaskKind is a configuration defect: no processor is
	// registered for the submitted kind on this lane.
	ErrUnknownTaskKind = errors.New("unknown task kind")

	// ErrQueueClosed is returned when submitting to a stopped queue.
	ErrQueueClosed = errors.New("task queue is closed")

	// ErrQueueFull is returned when the lane's buffer is at capacity.
	ErrQueueFull = errors.New("task queue is full")
)
