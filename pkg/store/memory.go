package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// MemoryStore keeps runs in process memory. It backs the "memory" store
// backend and tests.
type MemoryStore struct {
	mu   sync.RWMutex
	runs map[string]Run
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{runs: make(map[string]Run)}
}

// Save stores a copy of run. IDs must be unique.
func (s *MemoryStore) Save(_ context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.runs[run.ID]; dup {
		return fmt.Errorf("save run %s: duplicate id", run.ID)
	}
	run.Vertices = slices.Clone(run.Vertices)
	s.runs[run.ID] = run
	return nil
}

// Get returns the run with the given ID or an error wrapping ErrRunNotFound.
func (s *MemoryStore) Get(_ context.Context, id string) (Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	run.Vertices = slices.Clone(run.Vertices)
	return run, nil
}

// List returns stored runs, newest first, filtered and capped by opts.
func (s *MemoryStore) List(_ context.Context, opts ListOptions) ([]Run, error) {
	s.mu.RLock()
	out := make([]Run, 0, len(s.runs))
	for _, run := range s.runs {
		if opts.Instance != "" && run.Instance != opts.Instance {
			continue
		}
		out = append(out, run)
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b Run) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	if n := opts.limit(); len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// Close is a no-op.
func (s *MemoryStore) Close(context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
