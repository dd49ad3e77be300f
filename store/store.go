// Package store defines persistence interfaces for workflow checkpoints and
// validated drug candidates, with in-memory, SQLite, Redis and Postgres
// backends in subpackages.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned when a checkpoint or candidate does not exist.
var ErrNotFound = errors.New("not found")

// Checkpoint is a snapshot of workflow state taken after a node has run.
type Checkpoint struct {
	ID        string          `json:"id"`
	RunID     string          `json:"run_id"`
	Node      string          `json:"node"`
	State     json.RawMessage `json:"state"`
	Meta      map[string]any  `json:"meta,omitempty"`
	Seq       int             `json:"seq"`
	CreatedAt time.Time       `json:"created_at"`
}

// CheckpointStore persists workflow checkpoints keyed by run.
type CheckpointStore interface {
	// Save stores a checkpoint.
	Save(ctx context.Context, cp *Checkpoint) error

	// Load retrieves a checkpoint by ID.
	Load(ctx context.Context, id string) (*Checkpoint, error)

	// Latest returns the highest-sequence checkpoint of a run.
	Latest(ctx context.Context, runID string) (*Checkpoint, error)

	// List returns all checkpoints of a run ordered by sequence.
	List(ctx context.Context, runID string) ([]*Checkpoint, error)

	// Delete removes a checkpoint.
	Delete(ctx context.Context, id string) error

	// Clear removes all checkpoints of a run.
	Clear(ctx context.Context, runID string) error
}

// Candidate is a validated drug candidate produced by a workflow run.
type Candidate struct {
	ID        int64           `json:"id,omitempty"`
	RunID     string          `json:"run_id"`
	Target    string          `json:"target"`
	Compound  string          `json:"compound"`
	ChEMBLID  string          `json:"chembl_id,omitempty"`
	Score     float64         `json:"score"`
	Decision  string          `json:"decision"`
	Profile   json.RawMessage `json:"profile,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// CandidateStore persists validated candidates.
type CandidateStore interface {
	// SaveCandidate stores a candidate record.
	SaveCandidate(ctx context.Context, c *Candidate) error

	// Candidates returns all candidates of a run ordered by descending score.
	Candidates(ctx context.Context, runID string) ([]*Candidate, error)
}
