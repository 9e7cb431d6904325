package jobs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueRequiresStart(t *testing.T) {
	q := NewQueue("test", func(context.Context, Job) error { return nil }, QueueConfig{})

	_, err := q.Enqueue(Job{Key: "a"})
	assert.Error(t, err)
}

func TestQueueCoalescesPendingKeys(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 4)
	var runs int32
	q := NewQueue("test", func(_ context.Context, job Job) error {
		atomic.AddInt32(&runs, 1)
		started <- struct{}{}
		<-release
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 4})
	q.Start(context.Background())
	defer q.Stop()

	queued, err := q.Enqueue(Job{Key: "perf"})
	require.NoError(t, err)
	require.True(t, queued)
	<-started

	// the first run is in flight, so one more may wait
	queued, err = q.Enqueue(Job{Key: "perf"})
	require.NoError(t, err)
	assert.True(t, queued)
	queued, err = q.Enqueue(Job{Key: "perf"})
	require.NoError(t, err)
	assert.False(t, queued)

	close(release)
	<-started
	require.Eventually(t, func() bool { return atomic.LoadInt32(&runs) == 2 }, time.Second, 5*time.Millisecond)
}

func TestQueueRetriesFailedJobs(t *testing.T) {
	var mu sync.Mutex
	attempts := []int{}
	done := make(chan struct{})
	q := NewQueue("test", func(_ context.Context, job Job) error {
		mu.Lock()
		defer mu.Unlock()
		attempts = append(attempts, job.Attempt)
		if job.Attempt < 2 {
			return errors.New("boom")
		}
		close(done)
		return nil
	}, QueueConfig{MaxRetries: 3, RetryDelay: time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	_, err := q.Enqueue(Job{Key: "perf"})
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job was not retried")
	}
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{0, 1, 2}, attempts)
}

func TestQueueStopRejectsNewJobs(t *testing.T) {
	q := NewQueue("test", func(context.Context, Job) error { return nil }, QueueConfig{})
	q.Start(context.Background())
	q.Stop()

	_, err := q.Enqueue(Job{Key: "perf"})
	assert.Error(t, err)
}
