package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/filedepot/filedepot-api/internal/domain"
)

// envelope pairs a queued payload with the handle its outcome resolves.
type envelope struct {
	handle  *Handle
	payload Payload
}

// QueueConfig holds configuration for one lane's queue.
type QueueConfig struct {
	// WorkerCount determines how many concurrent workers drain the lane.
	// If zero or negative, defaults to 1.
	WorkerCount int

	// BufferSize determines the capacity of the lane's task channel.
	// If zero or negative, defaults to 100.
	BufferSize int
}

// DefaultQueueConfig returns a QueueConfig with reasonable defaults.
func DefaultQueueConfig() QueueConfig {
	return QueueConfig{
		WorkerCount: 2,
		BufferSize:  100,
	}
}

// Queue is one lane of the task pipeline: an ordered multi-producer/
// multi-consumer channel of tasks drained by a pool of workers. Tasks are
// dispatched to workers in submission order; completion order across
// concurrently running tasks is not guaranteed.
type Queue struct {
	lane   Lane
	tasks  chan envelope
	procs  map[Kind]Processor
	config QueueConfig
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewQueue creates the queue for one lane. Processors must be registered
// before Start is called; registration is not safe for concurrent use with
// Submit.
func NewQueue(lane Lane, config QueueConfig, logger *slog.Logger) *Queue {
	if config.WorkerCount <= 0 {
		logger.Warn("invalid worker count specified, using default",
			"lane", lane,
			"specified_count", config.WorkerCount,
			"default_count", 1)
		config.WorkerCount = 1
	}
	if config.BufferSize <= 0 {
		config.BufferSize = 100
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Queue{
		lane:   lane,
		tasks:  make(chan envelope, config.BufferSize),
		procs:  make(map[Kind]Processor),
		config: config,
		logger: logger.With("lane", lane),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Register binds a processor to a task kind on this lane.
func (q *Queue) Register(kind Kind, p Processor) {
	q.procs[kind] = p
}

// Submit enqueues a task and returns its handle immediately without
// blocking on execution. A payload whose kind has no registered processor
// fails the task at once with ErrUnknownTaskKind, delivered through the
// handle. Submit itself errors only when the queue is closed or full.
func (q *Queue) Submit(payload Payload) (*Handle, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil, ErrQueueClosed
	}

	handle := newHandle(q.lane, payload.Kind())

	if _, ok := q.procs[payload.Kind()]; !ok {
		q.logger.Error("no processor registered for task kind",
			"task_id", handle.ID(),
			"task_kind", payload.Kind())
		handle.resolve(nil, fmt.Errorf("%w: %q on lane %q",
			ErrUnknownTaskKind, payload.Kind(), q.lane))
		return handle, nil
	}

	select {
	case q.tasks <- envelope{handle: handle, payload: payload}:
		q.logger.Debug("task enqueued",
			"task_id", handle.ID(),
			"task_kind", payload.Kind(),
			"queue_len", len(q.tasks),
			"queue_cap", cap(q.tasks))
		return handle, nil
	default:
		return nil, fmt.Errorf("%w: queue capacity %d reached", ErrQueueFull, cap(q.tasks))
	}
}

// Start launches the worker pool.
func (q *Queue) Start() {
	for i := 0; i < q.config.WorkerCount; i++ {
		q.wg.Add(1)
		go q.worker(i)
	}
}

// Stop prevents further submission, waits for in-flight tasks to finish,
// and fails any tasks still buffered in the channel so no awaiting caller
// is left unresolved.
func (q *Queue) Stop() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.mu.Unlock()

	q.cancel()
	q.wg.Wait()
	close(q.tasks)

	for env := range q.tasks {
		env.handle.resolve(nil, fmt.Errorf("%w: shutting down", domain.ErrInternal))
	}

	q.logger.Info("task queue stopped")
}

// worker drains the lane, dispatching each task to the processor
// registered for its kind.
func (q *Queue) worker(id int) {
	defer q.wg.Done()

	q.logger.Debug("starting worker", "worker_id", id)

	for {
		select {
		case <-q.ctx.Done():
			q.logger.Debug("stopping worker", "worker_id", id)
			return

		case env, ok := <-q.tasks:
			if !ok {
				q.logger.Debug("task channel closed, stopping worker", "worker_id", id)
				return
			}
			q.process(env, id)
		}
	}
}

// process handles execution of a single task.
func (q *Queue) process(env envelope, workerID int) {
	logger := q.logger.With(
		"task_id", env.handle.ID(),
		"task_kind", env.handle.Kind(),
		"worker_id", workerID,
	)

	env.handle.markActive()
	logger.Info("processing task")

	value, err := q.execute(env.payload)

	if err != nil {
		logger.Error("task failed", "error", err)
	} else {
		logger.Info("task completed")
	}

	env.handle.resolve(value, err)
}

// execute runs the processor with panic containment: a panicking processor
// fails its own task instead of crashing the worker loop.
func (q *Queue) execute(payload Payload) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			value = nil
			err = fmt.Errorf("%w: processor panic: %v", domain.ErrInternal, r)
		}
	}()

	// Workers keep running tasks to completion even while the caller's
	// request context ends; cancellation is not supported.
	return q.procs[payload.Kind()](context.Background(), payload)
}
