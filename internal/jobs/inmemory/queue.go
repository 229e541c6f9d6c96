// Package inmemory implements the jobs queue and store on Go channels and
// maps, suitable for single-instance deployments.
package inmemory

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/finbridge/statement-analyzer/internal/jobs"
)

// QueueConfig tunes worker and retry behavior.
type QueueConfig struct {
	BufferSize int
	Workers    int
	MaxRetries int
	// RetryDelay is the base backoff; attempt n waits n * RetryDelay.
	RetryDelay time.Duration
}

// Queue distributes statement processing jobs over a channel to a fixed
// worker pool. Failed jobs are re-enqueued with linear backoff until their
// retries are exhausted.
type Queue struct {
	cfg       QueueConfig
	jobChan   chan *jobs.ProcessStatementJob
	closeChan chan struct{}
	wg        sync.WaitGroup
	mu        sync.RWMutex
	store     jobs.Store
	logger    *slog.Logger
	closed    bool
}

func NewQueue(cfg QueueConfig, store jobs.Store, logger *slog.Logger) *Queue {
	if cfg.BufferSize < 1 {
		cfg.BufferSize = 64
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Queue{
		cfg:       cfg,
		jobChan:   make(chan *jobs.ProcessStatementJob, cfg.BufferSize),
		closeChan: make(chan struct{}),
		store:     store,
		logger:    logger,
	}
}

// Publish enqueues a job, filling in identity and bookkeeping defaults.
// It blocks when the buffer is full.
func (q *Queue) Publish(ctx context.Context, job *jobs.ProcessStatementJob) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return fmt.Errorf("queue is closed")
	}

	if job.JobID == "" {
		job.JobID = uuid.NewString()
	}
	if job.Status == "" {
		job.Status = jobs.StatusPending
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}
	if job.MaxRetries == 0 {
		job.MaxRetries = q.cfg.MaxRetries
	}

	if err := q.store.Save(ctx, job); err != nil {
		return fmt.Errorf("save job: %w", err)
	}

	select {
	case q.jobChan <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-q.closeChan:
		return fmt.Errorf("queue is closed")
	}
}

// Start launches the worker pool. It returns immediately; workers run until
// ctx is cancelled or the queue is stopped.
func (q *Queue) Start(ctx context.Context, handler jobs.Handler) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return fmt.Errorf("queue is closed")
	}

	for i := 0; i < q.cfg.Workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx, handler)
	}
	q.logger.Info("job workers started", slog.Int("workers", q.cfg.Workers))
	return nil
}

func (q *Queue) worker(ctx context.Context, handler jobs.Handler) {
	defer q.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-q.closeChan:
			return
		case job := <-q.jobChan:
			if job == nil {
				return
			}
			q.runJob(ctx, job, handler)
		}
	}
}

func (q *Queue) runJob(ctx context.Context, job *jobs.ProcessStatementJob, handler jobs.Handler) {
	now := time.Now()
	job.Status = jobs.StatusRunning
	job.StartedAt = &now
	_ = q.store.Save(ctx, job)

	err := handler(ctx, job)

	completedAt := time.Now()
	job.CompletedAt = &completedAt

	if err == nil {
		job.Status = jobs.StatusCompleted
		job.Error = ""
		_ = q.store.Save(ctx, job)
		return
	}

	job.Error = err.Error()
	if job.RetryCount >= job.MaxRetries {
		job.Status = jobs.StatusFailed
		_ = q.store.Save(ctx, job)
		q.logger.Error("job failed permanently",
			slog.String("job_id", job.JobID),
			slog.String("file", job.FilePath),
			slog.Int("attempts", job.RetryCount+1),
			slog.Any("error", err))
		return
	}

	job.RetryCount++
	job.Status = jobs.StatusRetrying
	_ = q.store.Save(ctx, job)

	backoff := time.Duration(job.RetryCount) * q.cfg.RetryDelay
	q.logger.Warn("job failed, retrying",
		slog.String("job_id", job.JobID),
		slog.Int("retry", job.RetryCount),
		slog.Duration("backoff", backoff),
		slog.Any("error", err))

	time.AfterFunc(backoff, func() {
		job.Status = jobs.StatusPending
		job.StartedAt = nil
		job.CompletedAt = nil
		if err := q.Publish(ctx, job); err != nil {
			q.logger.Error("failed to re-enqueue job",
				slog.String("job_id", job.JobID),
				slog.Any("error", err))
		}
	})
}

// Stop closes the queue and waits for in-flight jobs, honoring ctx.
func (q *Queue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.closeChan)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Queue) Close() error {
	return q.Stop(context.Background())
}

var (
	_ jobs.Publisher = (*Queue)(nil)
	_ jobs.Consumer  = (*Queue)(nil)
)
