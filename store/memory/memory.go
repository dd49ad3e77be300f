// Package memory provides in-memory implementations of the store interfaces,
// suitable for tests and single-process runs.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/moleculab/drugflow/store"
)

// Store implements store.CheckpointStore and store.CandidateStore in memory.
type Store struct {
	mu          sync.RWMutex
	checkpoints map[string]*store.Checkpoint
	byRun       map[string][]string
	candidates  map[string][]*store.Candidate
}

var (
	_ store.CheckpointStore = (*Store)(nil)
	_ store.CandidateStore  = (*Store)(nil)
)

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		checkpoints: make(map[string]*store.Checkpoint),
		byRun:       make(map[string][]string),
		candidates:  make(map[string][]*store.Candidate),
	}
}

// Save stores a checkpoint.
func (s *Store) Save(_ context.Context, cp *store.Checkpoint) error {
	if cp.ID == "" {
		return fmt.Errorf("checkpoint ID is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.checkpoints[cp.ID]; !exists {
		s.byRun[cp.RunID] = append(s.byRun[cp.RunID], cp.ID)
	}
	copied := *cp
	s.checkpoints[cp.ID] = &copied
	return nil
}

// Load retrieves a checkpoint by ID.
func (s *Store) Load(_ context.Context, id string) (*store.Checkpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cp, ok := s.checkpoints[id]
	if !ok {
		return nil, fmt.Errorf("checkpoint %s: %w", id, store.ErrNotFound)
	}
	copied := *cp
	return &copied, nil
}

// Latest returns the highest-sequence checkpoint of a run.
func (s *Store) Latest(ctx context.Context, runID string) (*store.Checkpoint, error) {
	list, err := s.List(ctx, runID)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("run %s: %w", runID, store.ErrNotFound)
	}
	return list[len(list)-1], nil
}

// List returns all checkpoints of a run ordered by sequence.
func (s *Store) List(_ context.Context, runID string) ([]*store.Checkpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byRun[runID]
	list := make([]*store.Checkpoint, 0, len(ids))
	for _, id := range ids {
		if cp, ok := s.checkpoints[id]; ok {
			copied := *cp
			list = append(list, &copied)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Seq < list[j].Seq })
	return list, nil
}

// Delete removes a checkpoint.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp, ok := s.checkpoints[id]
	if !ok {
		return fmt.Errorf("checkpoint %s: %w", id, store.ErrNotFound)
	}
	delete(s.checkpoints, id)

	ids := s.byRun[cp.RunID]
	for i, cid := range ids {
		if cid == id {
			s.byRun[cp.RunID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

// Clear removes all checkpoints of a run.
func (s *Store) Clear(_ context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.byRun[runID] {
		delete(s.checkpoints, id)
	}
	delete(s.byRun, runID)
	return nil
}

// SaveCandidate stores a candidate record.
func (s *Store) SaveCandidate(_ context.Context, c *store.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *c
	copied.ID = int64(len(s.candidates[c.RunID]) + 1)
	s.candidates[c.RunID] = append(s.candidates[c.RunID], &copied)
	return nil
}

// Candidates returns all candidates of a run ordered by descending score.
func (s *Store) Candidates(_ context.Context, runID string) ([]*store.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*store.Candidate, 0, len(s.candidates[runID]))
	for _, c := range s.candidates[runID] {
		copied := *c
		list = append(list, &copied)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Score > list[j].Score })
	return list, nil
}
