package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moleculab/drugflow/store"
)

func TestCheckpointStore(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	s := NewStore(Options{Addr: mr.Addr()})
	ctx := context.Background()

	state, _ := json.Marshal(map[string]any{"compound": "aspirin"})
	cp := &store.Checkpoint{
		ID:        "cp-1",
		RunID:     "run-1",
		Node:      "design",
		State:     state,
		Seq:       1,
		CreatedAt: time.Now(),
	}

	require.NoError(t, s.Save(ctx, cp))

	loaded, err := s.Load(ctx, "cp-1")
	require.NoError(t, err)
	assert.Equal(t, "design", loaded.Node)
	assert.JSONEq(t, string(state), string(loaded.State))

	_, err = s.Load(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Save(ctx, &store.Checkpoint{ID: "cp-2", RunID: "run-1", Node: "admet", Seq: 2}))

	latest, err := s.Latest(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "cp-2", latest.ID)

	list, err := s.List(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "cp-1", list[0].ID)

	require.NoError(t, s.Delete(ctx, "cp-1"))
	list, err = s.List(ctx, "run-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, s.Clear(ctx, "run-1"))
	list, err = s.List(ctx, "run-1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCheckpointTTL(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	s := NewStore(Options{Addr: mr.Addr(), TTL: time.Minute})
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, &store.Checkpoint{ID: "cp-1", RunID: "run-1", Seq: 1}))

	// Expired members are skipped by List
	mr.FastForward(2 * time.Minute)
	list, err := s.List(ctx, "run-1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCache(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	s := NewStore(Options{Addr: mr.Addr()})
	cache := NewCache(s.Client(), "", time.Minute)
	ctx := context.Background()

	_, ok := cache.Get(ctx, "pubchem:aspirin")
	assert.False(t, ok)

	cache.Set(ctx, "pubchem:aspirin", []byte(`{"cid":2244}`))
	data, ok := cache.Get(ctx, "pubchem:aspirin")
	require.True(t, ok)
	assert.Equal(t, `{"cid":2244}`, string(data))

	mr.FastForward(2 * time.Minute)
	_, ok = cache.Get(ctx, "pubchem:aspirin")
	assert.False(t, ok)
}
