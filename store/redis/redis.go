// Package redis persists workflow checkpoints in Redis and provides a TTL
// response cache used by the scientific API clients.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/moleculab/drugflow/store"
)

// Store implements store.CheckpointStore using Redis.
type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ store.CheckpointStore = (*Store)(nil)

// Options configuration for the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string        // Key prefix, default "drugflow:"
	TTL      time.Duration // Expiration for checkpoints, default 0 (no expiration)
}

// NewStore creates a new Redis checkpoint store.
func NewStore(opts Options) *Store {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	prefix := opts.Prefix
	if prefix == "" {
		prefix = "drugflow:"
	}

	return &Store{
		client: client,
		prefix: prefix,
		ttl:    opts.TTL,
	}
}

// Client exposes the underlying redis client, mainly for building a Cache on
// the same connection.
func (s *Store) Client() *redis.Client {
	return s.client
}

func (s *Store) checkpointKey(id string) string {
	return fmt.Sprintf("%scheckpoint:%s", s.prefix, id)
}

func (s *Store) runKey(runID string) string {
	return fmt.Sprintf("%srun:%s:checkpoints", s.prefix, runID)
}

// Save stores a checkpoint.
func (s *Store) Save(ctx context.Context, cp *store.Checkpoint) error {
	data, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("failed to marshal checkpoint: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.checkpointKey(cp.ID), data, s.ttl)
	pipe.SAdd(ctx, s.runKey(cp.RunID), cp.ID)
	if s.ttl > 0 {
		pipe.Expire(ctx, s.runKey(cp.RunID), s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}
	return nil
}

// Load retrieves a checkpoint by ID.
func (s *Store) Load(ctx context.Context, id string) (*store.Checkpoint, error) {
	data, err := s.client.Get(ctx, s.checkpointKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("checkpoint %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load checkpoint: %w", err)
	}

	var cp store.Checkpoint
	if err := json.Unmarshal([]byte(data), &cp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal checkpoint: %w", err)
	}
	return &cp, nil
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
	latest := list[0]
	for _, cp := range list[1:] {
		if cp.Seq > latest.Seq {
			latest = cp
		}
	}
	return latest, nil
}

// List returns all checkpoints of a run ordered by sequence.
func (s *Store) List(ctx context.Context, runID string) ([]*store.Checkpoint, error) {
	ids, err := s.client.SMembers(ctx, s.runKey(runID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list checkpoints for run %s: %w", runID, err)
	}
	if len(ids) == 0 {
		return []*store.Checkpoint{}, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, s.checkpointKey(id))
	}

	// MGet returns nil for expired members, which we skip.
	results, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch checkpoints: %w", err)
	}

	list := make([]*store.Checkpoint, 0, len(results))
	for _, result := range results {
		strData, ok := result.(string)
		if !ok {
			continue
		}
		var cp store.Checkpoint
		if err := json.Unmarshal([]byte(strData), &cp); err != nil {
			continue
		}
		list = append(list, &cp)
	}

	for i := 1; i < len(list); i++ {
		for j := i; j > 0 && list[j-1].Seq > list[j].Seq; j-- {
			list[j-1], list[j] = list[j], list[j-1]
		}
	}
	return list, nil
}

// Delete removes a checkpoint.
func (s *Store) Delete(ctx context.Context, id string) error {
	cp, err := s.Load(ctx, id)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.checkpointKey(id))
	pipe.SRem(ctx, s.runKey(cp.RunID), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete checkpoint: %w", err)
	}
	return nil
}

// Clear removes all checkpoints of a run.
func (s *Store) Clear(ctx context.Context, runID string) error {
	ids, err := s.client.SMembers(ctx, s.runKey(runID)).Result()
	if err != nil {
		return fmt.Errorf("failed to get checkpoints for clearing: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for _, id := range ids {
		pipe.Del(ctx, s.checkpointKey(id))
	}
	pipe.Del(ctx, s.runKey(runID))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to clear checkpoints: %w", err)
	}
	return nil
}

// Cache is a TTL key/value cache backed by Redis. The API clients in the tool
// package use it to avoid re-fetching identical requests.
type Cache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewCache creates a cache on an existing client. A zero ttl means entries
// never expire.
func NewCache(client *redis.Client, prefix string, ttl time.Duration) *Cache {
	if prefix == "" {
		prefix = "drugflow:cache:"
	}
	return &Cache{client: client, prefix: prefix, ttl: ttl}
}

// Get returns the cached value and whether it was present.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores a value.
func (c *Cache) Set(ctx context.Context, key string, value []byte) {
	c.client.Set(ctx, c.prefix+key, value, c.ttl)
}
