// Package sqlite persists workflow checkpoints and validated candidates in a
// SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/moleculab/drugflow/store"
)

// Store implements store.CheckpointStore and store.CandidateStore on SQLite.
type Store struct {
	db *sql.DB
}

var (
	_ store.CheckpointStore = (*Store)(nil)
	_ store.CandidateStore  = (*Store)(nil)
)

// Options configuration for the SQLite store.
type Options struct {
	Path string
}

// NewStore opens (or creates) the database at opts.Path and initializes the
// schema.
func NewStore(opts Options) (*Store, error) {
	db, err := sql.Open("sqlite3", opts.Path)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS checkpoints (
			id TEXT PRIMARY KEY,
			run_id TEXT NOT NULL,
			node TEXT NOT NULL,
			state TEXT NOT NULL,
			meta TEXT,
			seq INTEGER NOT NULL,
			created_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_checkpoints_run_id ON checkpoints (run_id);

		CREATE TABLE IF NOT EXISTS candidates (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			target TEXT NOT NULL,
			compound TEXT NOT NULL,
			chembl_id TEXT,
			score REAL,
			decision TEXT NOT NULL,
			profile TEXT,
			created_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_candidates_run_id ON candidates (run_id);
	`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores a checkpoint.
func (s *Store) Save(ctx context.Context, cp *store.Checkpoint) error {
	metaJSON, err := json.Marshal(cp.Meta)
	if err != nil {
		return fmt.Errorf("failed to marshal meta: %w", err)
	}

	query := `
		INSERT INTO checkpoints (id, run_id, node, state, meta, seq, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			run_id = excluded.run_id,
			node = excluded.node,
			state = excluded.state,
			meta = excluded.meta,
			seq = excluded.seq,
			created_at = excluded.created_at
	`
	_, err = s.db.ExecContext(ctx, query,
		cp.ID, cp.RunID, cp.Node, string(cp.State), string(metaJSON), cp.Seq, cp.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}
	return nil
}

// Load retrieves a checkpoint by ID.
func (s *Store) Load(ctx context.Context, id string) (*store.Checkpoint, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, run_id, node, state, meta, seq, created_at FROM checkpoints WHERE id = ?`, id)
	cp, err := scanCheckpoint(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("checkpoint %s: %w", id, store.ErrNotFound)
	}
	return cp, err
}

// Latest returns the highest-sequence checkpoint of a run.
func (s *Store) Latest(ctx context.Context, runID string) (*store.Checkpoint, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, run_id, node, state, meta, seq, created_at FROM checkpoints
		 WHERE run_id = ? ORDER BY seq DESC LIMIT 1`, runID)
	cp, err := scanCheckpoint(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s: %w", runID, store.ErrNotFound)
	}
	return cp, err
}

// List returns all checkpoints of a run ordered by sequence.
func (s *Store) List(ctx context.Context, runID string) ([]*store.Checkpoint, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, node, state, meta, seq, created_at FROM checkpoints
		 WHERE run_id = ? ORDER BY seq ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list checkpoints: %w", err)
	}
	defer rows.Close()

	var list []*store.Checkpoint
	for rows.Next() {
		cp, err := scanCheckpoint(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, cp)
	}
	return list, rows.Err()
}

// Delete removes a checkpoint.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM checkpoints WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete checkpoint: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("checkpoint %s: %w", id, store.ErrNotFound)
	}
	return nil
}

// Clear removes all checkpoints of a run.
func (s *Store) Clear(ctx context.Context, runID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM checkpoints WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("failed to clear checkpoints: %w", err)
	}
	return nil
}

// SaveCandidate stores a candidate record.
func (s *Store) SaveCandidate(ctx context.Context, c *store.Candidate) error {
	createdAt := c.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO candidates (run_id, target, compound, chembl_id, score, decision, profile, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.RunID, c.Target, c.Compound, c.ChEMBLID, c.Score, c.Decision, string(c.Profile), createdAt)
	if err != nil {
		return fmt.Errorf("failed to save candidate: %w", err)
	}
	c.ID, _ = res.LastInsertId()
	return nil
}

// Candidates returns all candidates of a run ordered by descending score.
func (s *Store) Candidates(ctx context.Context, runID string) ([]*store.Candidate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, target, compound, chembl_id, score, decision, profile, created_at
		FROM candidates WHERE run_id = ? ORDER BY score DESC`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	var list []*store.Candidate
	for rows.Next() {
		var c store.Candidate
		var chemblID, profile sql.NullString
		if err := rows.Scan(&c.ID, &c.RunID, &c.Target, &c.Compound, &chemblID, &c.Score,
			&c.Decision, &profile, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		c.ChEMBLID = chemblID.String
		if profile.Valid && profile.String != "" {
			c.Profile = json.RawMessage(profile.String)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

type scannable interface {
	Scan(dest ...any) error
}

func scanCheckpoint(row scannable) (*store.Checkpoint, error) {
	var cp store.Checkpoint
	var state, meta string
	if err := row.Scan(&cp.ID, &cp.RunID, &cp.Node, &state, &meta, &cp.Seq, &cp.CreatedAt); err != nil {
		return nil, err
	}
	cp.State = json.RawMessage(state)
	if meta != "" && meta != "null" {
		if err := json.Unmarshal([]byte(meta), &cp.Meta); err != nil {
			return nil, fmt.Errorf("failed to unmarshal meta: %w", err)
		}
	}
	return &cp, nil
}
