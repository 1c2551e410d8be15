package repository

import (
	"context"
	"sync"

	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/model"
)

const defaultJobRetention = 10000

// JobStore tracks report jobs by id.
type JobStore interface {
	Put(ctx context.Context, j model.ReportJob) error
	Get(ctx context.Context, id string) (model.ReportJob, error)
	// Update applies fn to the stored job under the store lock.
	Update(ctx context.Context, id string, fn func(*model.ReportJob)) (model.ReportJob, error)
	// Delete forgets a job, e.g. one that could not be queued.
	Delete(ctx context.Context, id string)
	Len() int
}

// MemoryJobStore keeps jobs in a map. Once retention is reached the oldest
// finished job is forgotten to make room.
type MemoryJobStore struct {
	mu        sync.RWMutex
	jobs      map[string]*model.ReportJob
	order     []string
	retention int
}

// NewMemoryJobStore creates a job store retaining at most retention jobs;
// retention <= 0 uses the default.
func NewMemoryJobStore(retention int) *MemoryJobStore {
	if retention <= 0 {
		retention = defaultJobRetention
	}
	return &MemoryJobStore{
		jobs:      make(map[string]*model.ReportJob),
		retention: retention,
	}
}

// Put stores a new job, replacing one with the same id.
func (s *MemoryJobStore) Put(_ context.Context, j model.ReportJob) error { //nolint:gocritic // hugeParam: stored by copy
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[j.ID]; !ok {
		if len(s.jobs) >= s.retention && !s.evictFinished() {
			return ErrJobStoreFull
		}
		s.order = append(s.order, j.ID)
	}
	s.jobs[j.ID] = &j
	return nil
}

// evictFinished drops the oldest terminal job. Pending jobs are never
// evicted.
func (s *MemoryJobStore) evictFinished() bool {
	for i, id := range s.order {
		if j := s.jobs[id]; j != nil && j.Status.Terminal() {
			delete(s.jobs, id)
			s.order = append(s.order[:i], s.order[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns a copy of the job.
func (s *MemoryJobStore) Get(_ context.Context, id string) (model.ReportJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.jobs[id]
	if !ok {
		return model.ReportJob{}, ErrJobNotFound
	}
	return *j, nil
}

// Update mutates the job in place and returns the result.
func (s *MemoryJobStore) Update(_ context.Context, id string, fn func(*model.ReportJob)) (model.ReportJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok {
		return model.ReportJob{}, ErrJobNotFound
	}
	fn(j)
	return *j, nil
}

// Delete removes the job if present.
func (s *MemoryJobStore) Delete(_ context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[id]; !ok {
		return
	}
	delete(s.jobs, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of tracked jobs.
func (s *MemoryJobStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}
