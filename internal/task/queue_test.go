package task

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filedepot/filedepot-api/internal/domain"
)

// testPayload is a minimal payload for queue-level tests; its kind is not
// one of the real task kinds so tests control registration explicitly.
type testPayload struct {
	kind Kind
	n    int
}

func (p testPayload) Kind() Kind { return p.kind }

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

func TestQueueExecutesTask(t *testing.T) {
	q := NewQueue(LaneUser, DefaultQueueConfig(), setupTestLogger())
	q.Register("double", func(ctx context.Context, payload Payload) (any, error) {
		return payload.(testPayload).n * 2, nil
	})
	q.Start()
	defer q.Stop()

	handle, err := q.Submit(testPayload{kind: "double", n: 21})
	require.NoError(t, err)

	value, err := handle.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, value)
	assert.Equal(t, StatusSucceeded, handle.Status())
}

func TestQueueDeliversFailures(t *testing.T) {
	boom := errors.New("boom")

	q := NewQueue(LaneUser, DefaultQueueConfig(), setupTestLogger())
	q.Register("fail", func(ctx context.Context, payload Payload) (any, error) {
		return nil, boom
	})
	q.Start()
	defer q.Stop()

	handle, err := q.Submit(testPayload{kind: "fail"})
	require.NoError(t, err)

	_, err = handle.Await(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StatusFailed, handle.Status())
}

func TestQueueUnknownKindFailsImmediately(t *testing.T) {
	q := NewQueue(LaneUser, DefaultQueueConfig(), setupTestLogger())
	// No processors registered, workers not even started.

	handle, err := q.Submit(testPayload{kind: "nobody-home"})
	require.NoError(t, err)

	_, err = handle.Await(context.Background())
	assert.ErrorIs(t, err, ErrUnknownTaskKind)
	assert.Equal(t, StatusFailed, handle.Status())
}

func TestQueueDispatchesInSubmissionOrder(t *testing.T) {
	var mu sync.Mutex
	var order []int

	// A single worker makes dispatch order observable as execution order.
	q := NewQueue(LaneUser, QueueConfig{WorkerCount: 1, BufferSize: 100}, setupTestLogger())
	q.Register("record", func(ctx context.Context, payload Payload) (any, error) {
		mu.Lock()
		order = append(order, payload.(testPayload).n)
		mu.Unlock()
		return nil, nil
	})

	var handles []*Handle
	for i := 0; i < 20; i++ {
		handle, err := q.Submit(testPayload{kind: "record", n: i})
		require.NoError(t, err)
		handles = append(handles, handle)
	}

	q.Start()
	for _, h := range handles {
		_, err := h.Await(context.Background())
		require.NoError(t, err)
	}
	q.Stop()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, order, 20)
	for i, n := range order {
		assert.Equal(t, i, n)
	}
}

func TestQueueCompletionOrderNotGuaranteed(t *testing.T) {
	q := NewQueue(LaneFile, QueueConfig{WorkerCount: 2, BufferSize: 10}, setupTestLogger())

	release := make(chan struct{})
	q.Register("slow", func(ctx context.Context, payload Payload) (any, error) {
		<-release
		return "slow", nil
	})
	q.Register("fast", func(ctx context.Context, payload Payload) (any, error) {
		return "fast", nil
	})
	q.Start()
	defer q.Stop()

	slow, err := q.Submit(testPayload{kind: "slow"})
	require.NoError(t, err)
	fast, err := q.Submit(testPayload{kind: "fast"})
	require.NoError(t, err)

	// The later-submitted fast task finishes while the slow one is held.
	value, err := fast.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fast", value)
	require.Eventually(t, func() bool {
		return slow.Status() == StatusActive
	}, time.Second, time.Millisecond)

	close(release)
	value, err = slow.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "slow", value)
}

func TestQueueFull(t *testing.T) {
	q := NewQueue(LaneUser, QueueConfig{WorkerCount: 1, BufferSize: 1}, setupTestLogger())
	q.Register("noop", func(ctx context.Context, payload Payload) (any, error) {
		return nil, nil
	})
	// Workers are not started, so the single buffer slot fills up.

	_, err := q.Submit(testPayload{kind: "noop"})
	require.NoError(t, err)

	_, err = q.Submit(testPayload{kind: "noop"})
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestQueueSubmitAfterStop(t *testing.T) {
	q := NewQueue(LaneUser, DefaultQueueConfig(), setupTestLogger())
	q.Start()
	q.Stop()

	_, err := q.Submit(testPayload{kind: "noop"})
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestQueueStopResolvesBufferedTasks(t *testing.T) {
	q := NewQueue(LaneUser, QueueConfig{WorkerCount: 1, BufferSize: 10}, setupTestLogger())
	q.Register("noop", func(ctx context.Context, payload Payload) (any, error) {
		return nil, nil
	})
	// Never started: submitted tasks stay buffered until Stop fails them.

	handle, err := q.Submit(testPayload{kind: "noop"})
	require.NoError(t, err)

	q.Stop()

	_, err = handle.Await(context.Background())
	assert.ErrorIs(t, err, domain.ErrInternal)
}

func TestQueueContainsProcessorPanic(t *testing.T) {
	q := NewQueue(LaneFile, DefaultQueueConfig(), setupTestLogger())
	q.Register("panics", func(ctx context.Context, payload Payload) (any, error) {
		panic("kaboom")
	})
	q.Register("fine", func(ctx context.Context, payload Payload) (any, error) {
		return "still alive", nil
	})
	q.Start()
	defer q.Stop()

	bad, err := q.Submit(testPayload{kind: "panics"})
	require.NoError(t, err)

	_, err = bad.Await(context.Background())
	assert.ErrorIs(t, err, domain.ErrInternal)

	// The worker loop survived the panic.
	good, err := q.Submit(testPayload{kind: "fine"})
	require.NoError(t, err)

	value, err := good.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "still alive", value)
}

func TestQueueConcurrentSubmitters(t *testing.T) {
	q := NewQueue(LaneUser, QueueConfig{WorkerCount: 4, BufferSize: 200}, setupTestLogger())
	q.Register("echo", func(ctx context.Context, payload Payload) (any, error) {
		return payload.(testPayload).n, nil
	})
	q.Start()
	defer q.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			handle, err := q.Submit(testPayload{kind: "echo", n: i})
			require.NoError(t, err)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			value, err := handle.Await(ctx)
			require.NoError(t, err)
			assert.Equal(t, i, value)
		}(i)
	}
	wg.Wait()
}
