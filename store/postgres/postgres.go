// Package postgres persists workflow checkpoints in PostgreSQL via pgx.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/moleculab/drugflow/store"
)

// DBPool defines the interface for the database connection pool.
type DBPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// Store implements store.CheckpointStore using PostgreSQL.
type Store struct {
	pool      DBPool
	tableName string
}

var _ store.CheckpointStore = (*Store)(nil)

// Options configuration for the Postgres connection.
type Options struct {
	ConnString string
	TableName  string // Default "checkpoints"
}

// NewStore creates a new Postgres checkpoint store.
func NewStore(ctx context.Context, opts Options) (*Store, error) {
	pool, err := pgxpool.New(ctx, opts.ConnString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	tableName := opts.TableName
	if tableName == "" {
		tableName = "checkpoints"
	}
	return &Store{pool: pool, tableName: tableName}, nil
}

// NewStoreWithPool creates a store with an existing pool. Useful for testing
// with mocks.
func NewStoreWithPool(pool DBPool, tableName string) *Store {
	if tableName == "" {
		tableName = "checkpoints"
	}
	return &Store{pool: pool, tableName: tableName}
}

// InitSchema creates the necessary table if it doesn't exist.
func (s *Store) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			run_id TEXT NOT NULL,
			node TEXT NOT NULL,
			state JSONB NOT NULL,
			meta JSONB,
			seq INTEGER NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_%s_run_id ON %s (run_id);
	`, s.tableName, s.tableName, s.tableName)

	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Save stores a checkpoint.
func (s *Store) Save(ctx context.Context, cp *store.Checkpoint) error {
	metaJSON, err := json.Marshal(cp.Meta)
	if err != nil {
		return fmt.Errorf("failed to marshal meta: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, run_id, node, state, meta, seq, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			run_id = EXCLUDED.run_id,
			node = EXCLUDED.node,
			state = EXCLUDED.state,
			meta = EXCLUDED.meta,
			seq = EXCLUDED.seq,
			created_at = EXCLUDED.created_at
	`, s.tableName)

	_, err = s.pool.Exec(ctx, query,
		cp.ID, cp.RunID, cp.Node, []byte(cp.State), metaJSON, cp.Seq, cp.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}
	return nil
}

// Load retrieves a checkpoint by ID.
func (s *Store) Load(ctx context.Context, id string) (*store.Checkpoint, error) {
	query := fmt.Sprintf(
		`SELECT id, run_id, node, state, meta, seq, created_at FROM %s WHERE id = $1`, s.tableName)

	cp, err := scanCheckpoint(s.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("checkpoint %s: %w", id, store.ErrNotFound)
	}
	return cp, err
}

// Latest returns the highest-sequence checkpoint of a run.
func (s *Store) Latest(ctx context.Context, runID string) (*store.Checkpoint, error) {
	query := fmt.Sprintf(
		`SELECT id, run_id, node, state, meta, seq, created_at FROM %s
		 WHERE run_id = $1 ORDER BY seq DESC LIMIT 1`, s.tableName)

	cp, err := scanCheckpoint(s.pool.QueryRow(ctx, query, runID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", runID, store.ErrNotFound)
	}
	return cp, err
}

// List returns all checkpoints of a run ordered by sequence.
func (s *Store) List(ctx context.Context, runID string) ([]*store.Checkpoint, error) {
	query := fmt.Sprintf(
		`SELECT id, run_id, node, state, meta, seq, created_at FROM %s
		 WHERE run_id = $1 ORDER BY seq ASC`, s.tableName)

	rows, err := s.pool.Query(ctx, query, runID)
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
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, s.tableName)
	tag, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete checkpoint: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("checkpoint %s: %w", id, store.ErrNotFound)
	}
	return nil
}

// Clear removes all checkpoints of a run.
func (s *Store) Clear(ctx context.Context, runID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE run_id = $1`, s.tableName)
	if _, err := s.pool.Exec(ctx, query, runID); err != nil {
		return fmt.Errorf("failed to clear checkpoints: %w", err)
	}
	return nil
}

func scanCheckpoint(row pgx.Row) (*store.Checkpoint, error) {
	var cp store.Checkpoint
	var state, meta []byte
	if err := row.Scan(&cp.ID, &cp.RunID, &cp.Node, &state, &meta, &cp.Seq, &cp.CreatedAt); err != nil {
		return nil, err
	}
	cp.State = json.RawMessage(state)
	if len(meta) > 0 && string(meta) != "null" {
		if err := json.Unmarshal(meta, &cp.Meta); err != nil {
			return nil, fmt.Errorf("failed to unmarshal meta: %w", err)
		}
	}
	return &cp, nil
}
