package inmemory

import (
	"context"
	"fmt"
	"sync"

	"github.com/finbridge/statement-analyzer/internal/jobs"
)

// Store keeps job state in memory. Safe for concurrent use; state is lost
// on restart.
type Store struct {
	mu   sync.RWMutex
	jobs map[string]*jobs.ProcessStatementJob
}

func NewStore() *Store {
	return &Store{jobs: make(map[string]*jobs.ProcessStatementJob)}
}

func (s *Store) Save(_ context.Context, job *jobs.ProcessStatementJob) error {
	if job.JobID == "" {
		return fmt.Errorf("job ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Stored copies never alias caller state.
	cp := *job
	s.jobs[job.JobID] = &cp
	return nil
}

func (s *Store) Get(_ context.Context, jobID string) (*jobs.ProcessStatementJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return nil, fmt.Errorf("job not found: %s", jobID)
	}
	cp := *job
	return &cp, nil
}

// List returns jobs in the given status, or all jobs when status is empty.
func (s *Store) List(_ context.Context, status jobs.Status) ([]*jobs.ProcessStatementJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*jobs.ProcessStatementJob
	for _, job := range s.jobs {
		if status != "" && job.Status != status {
			continue
		}
		cp := *job
		result = append(result, &cp)
	}
	return result, nil
}

var _ jobs.Store = (*Store)(nil)
