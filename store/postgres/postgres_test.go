package postgres

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moleculab/drugflow/store"
)

func TestSave(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewStoreWithPool(mock, "checkpoints")

	state, _ := json.Marshal(map[string]any{"compound": "aspirin"})
	cp := &store.Checkpoint{
		ID:        "cp-1",
		RunID:     "run-1",
		Node:      "design",
		State:     state,
		Meta:      map[string]any{"thread_id": "t-1"},
		Seq:       1,
		CreatedAt: time.Now(),
	}
	metaJSON, _ := json.Marshal(cp.Meta)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO checkpoints")).
		WithArgs(cp.ID, cp.RunID, cp.Node, []byte(cp.State), metaJSON, cp.Seq, cp.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(t, s.Save(context.Background(), cp))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoad(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewStoreWithPool(mock, "checkpoints")

	createdAt := time.Now()
	state := []byte(`{"compound":"aspirin"}`)
	meta := []byte(`{"thread_id":"t-1"}`)

	rows := pgxmock.NewRows([]string{"id", "run_id", "node", "state", "meta", "seq", "created_at"}).
		AddRow("cp-1", "run-1", "design", state, meta, 1, createdAt)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, run_id, node, state, meta, seq, created_at FROM checkpoints WHERE id = $1")).
		WithArgs("cp-1").
		WillReturnRows(rows)

	loaded, err := s.Load(context.Background(), "cp-1")
	require.NoError(t, err)
	assert.Equal(t, "design", loaded.Node)
	assert.Equal(t, 1, loaded.Seq)
	assert.JSONEq(t, string(state), string(loaded.State))
	assert.Equal(t, "t-1", loaded.Meta["thread_id"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewStoreWithPool(mock, "checkpoints")

	rows := pgxmock.NewRows([]string{"id", "run_id", "node", "state", "meta", "seq", "created_at"})
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, run_id, node, state, meta, seq, created_at FROM checkpoints WHERE id = $1")).
		WithArgs("missing").
		WillReturnRows(rows)

	_, err = s.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestLatest(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewStoreWithPool(mock, "checkpoints")

	rows := pgxmock.NewRows([]string{"id", "run_id", "node", "state", "meta", "seq", "created_at"}).
		AddRow("cp-3", "run-1", "decide", []byte(`{}`), []byte(`null`), 3, time.Now())

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY seq DESC LIMIT 1")).
		WithArgs("run-1").
		WillReturnRows(rows)

	latest, err := s.Latest(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, "cp-3", latest.ID)
	assert.Nil(t, latest.Meta)
}

func TestList(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewStoreWithPool(mock, "checkpoints")

	rows := pgxmock.NewRows([]string{"id", "run_id", "node", "state", "meta", "seq", "created_at"}).
		AddRow("cp-1", "run-1", "initialize", []byte(`{}`), []byte(`null`), 1, time.Now()).
		AddRow("cp-2", "run-1", "design", []byte(`{}`), []byte(`null`), 2, time.Now())

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY seq ASC")).
		WithArgs("run-1").
		WillReturnRows(rows)

	list, err := s.List(context.Background(), "run-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "initialize", list[0].Node)
	assert.Equal(t, "design", list[1].Node)
}

func TestDelete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewStoreWithPool(mock, "checkpoints")

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM checkpoints WHERE id = $1")).
		WithArgs("cp-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	assert.NoError(t, s.Delete(context.Background(), "cp-1"))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM checkpoints WHERE id = $1")).
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(t, s.Delete(context.Background(), "missing"), store.ErrNotFound)
}

func TestClear(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewStoreWithPool(mock, "checkpoints")

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM checkpoints WHERE run_id = $1")).
		WithArgs("run-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	assert.NoError(t, s.Clear(context.Background(), "run-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInitSchema(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewStoreWithPool(mock, "")

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS checkpoints").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	assert.NoError(t, s.InitSchema(context.Background()))
}
