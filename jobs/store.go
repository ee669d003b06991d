package jobs

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Store keeps envelopes until they are due. PopDue removes what it returns, so a job is
// handed to one runner only.
type Store interface {
	Push(ctx context.Context, env Envelope) error
	PopDue(ctx context.Context, now time.Time, limit int) ([]Envelope, error)
}

// MemoryStore is a process-local Store used when no Redis is configured and in tests.
type MemoryStore struct {
	mu   sync.Mutex
	jobs []Envelope
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Push(_ context.Context, env Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = append(s.jobs, env)
	sort.SliceStable(s.jobs, func(i, j int) bool { return s.jobs[i].RunAt.Before(s.jobs[j].RunAt) })
	return nil
}

func (s *MemoryStore) PopDue(_ context.Context, now time.Time, limit int) ([]Envelope, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for n < len(s.jobs) && n < limit && !s.jobs[n].RunAt.After(now) {
		n++
	}
	due := make([]Envelope, n)
	copy(due, s.jobs[:n])
	s.jobs = s.jobs[n:]
	return due, nil
}

// Len returns the number of pending jobs.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}
