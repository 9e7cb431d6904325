package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-dashboard-api/pkg/jobs"
)

// PerformanceRefresher rebuilds the cached school ranking on a background
// queue. Repeated invalidations while a rebuild is waiting collapse into one.
type PerformanceRefresher struct {
	queue       *jobs.Queue
	performance *PerformanceService
	logger      *zap.Logger
}

// NewPerformanceRefresher constructs a refresher. Bind must be called before
// Start.
func NewPerformanceRefresher(logger *zap.Logger) *PerformanceRefresher {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &PerformanceRefresher{logger: logger}
	r.queue = jobs.NewQueue("performance-refresh", r.handle, jobs.QueueConfig{
		Workers:    1,
		BufferSize: 1,
		MaxRetries: 2,
		RetryDelay: 2 * time.Second,
		Logger:     logger,
	})
	return r
}

// Bind sets the service whose cache is rebuilt.
func (r *PerformanceRefresher) Bind(performance *PerformanceService) {
	r.performance = performance
}

// Start launches the worker.
func (r *PerformanceRefresher) Start(ctx context.Context) {
	r.queue.Start(ctx)
}

// Stop waits for the worker to exit.
func (r *PerformanceRefresher) Stop() {
	r.queue.Stop()
}

// Schedule queues a rebuild of the school ranking.
func (r *PerformanceRefresher) Schedule() {
	if r == nil {
		return
	}
	if _, err := r.queue.Enqueue(jobs.Job{Key: schoolPerformanceKey}); err != nil {
		r.logger.Debug("performance refresh not queued", zap.Error(err))
	}
}

func (r *PerformanceRefresher) handle(ctx context.Context, job jobs.Job) error {
	if r.performance == nil {
		return nil
	}
	start := time.Now()
	if err := r.performance.Refresh(ctx); err != nil {
		return err
	}
	r.logger.Debug("performance cache rebuilt", zap.String("key", job.Key), zap.Duration("took", time.Since(start)))
	return nil
}
