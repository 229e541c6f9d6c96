// Package jobs defines the asynchronous statement processing job model and
// the queue abstractions the pipeline runs behind.
package jobs

import (
	"context"
	"time"
)

// Status is the lifecycle state of a job.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusRetrying  Status = "retrying"
)

// Terminal reports whether the job will not change state again.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// ProcessStatementJob asks for one statement document to be analyzed.
type ProcessStatementJob struct {
	JobID    string `json:"job_id"`
	FilePath string `json:"file_path"`
	Password string `json:"-"`

	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       string     `json:"error,omitempty"`
	RetryCount  int        `json:"retry_count"`
	MaxRetries  int        `json:"max_retries"`

	// ResultPaths lists the report files a completed run produced.
	ResultPaths []string `json:"result_paths,omitempty"`
}

// Handler processes one job. A returned error marks the attempt failed and
// eligible for retry.
type Handler func(ctx context.Context, job *ProcessStatementJob) error

// Publisher enqueues statement processing jobs.
type Publisher interface {
	Publish(ctx context.Context, job *ProcessStatementJob) error
	Close() error
}

// Consumer runs queued jobs through a handler.
type Consumer interface {
	Start(ctx context.Context, handler Handler) error
	Stop(ctx context.Context) error
}

// Store tracks job state for status queries.
type Store interface {
	Save(ctx context.Context, job *ProcessStatementJob) error
	Get(ctx context.Context, jobID string) (*ProcessStatementJob, error)
	List(ctx context.Context, status Status) ([]*ProcessStatementJob, error)
}
