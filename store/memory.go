package store

import (
	"context"
	"slices"
	"sync"

	"mingle/types"

	"github.com/google/uuid"
)

// MemoryStore keeps jobs in process memory. It is used when no database is
// configured.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]types.Job
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[uuid.UUID]types.Job)}
}

func (m *MemoryStore) SaveJob(_ context.Context, job types.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.jobs[job.ID]; ok {
		job.CreatedAt = prev.CreatedAt
	}
	m.jobs[job.ID] = job
	return nil
}

func (m *MemoryStore) GetJobByID(_ context.Context, id uuid.UUID) (*types.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	return &job, nil
}

func (m *MemoryStore) ListJobs(_ context.Context, limit int) ([]types.Job, error) {
	m.mu.RLock()
	jobs := make([]types.Job, 0, len(m.jobs))
	for _, job := range m.jobs {
		jobs = append(jobs, job)
	}
	m.mu.RUnlock()

	slices.SortFunc(jobs, func(a, b types.Job) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if limit > 0 && len(jobs) > limit {
		jobs = jobs[:limit]
	}
	return jobs, nil
}

func (m *MemoryStore) Close() error {
	return nil
}
