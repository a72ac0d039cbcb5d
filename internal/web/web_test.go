package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marlonpp/casabot/internal/db"
)

func newTestServer(t *testing.T) (*Server, *db.Store) {
	t.Helper()
	sqlDB, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	store := db.NewStore(sqlDB)
	return NewServer(store, "Familia"), store
}

func TestStatusPage(t *testing.T) {
	srv, store := newTestServer(t)
	ctx := context.Background()

	_, err := store.AddTask(ctx, db.TaskInput{Text: "Lavar louça", ChatID: 1})
	require.NoError(t, err)
	_, err = store.AddItem(ctx, "Café")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Lavar louça")
	assert.Contains(t, body, "Café")
	assert.Contains(t, body, "Familia")
}

func TestAPISavings(t *testing.T) {
	srv, store := newTestServer(t)
	ctx := context.Background()

	_, err := store.AddSavings(ctx, decimal.RequireFromString("10.50"), "")
	require.NoError(t, err)
	_, err = store.SetSavingsGoal(ctx, decimal.RequireFromString("500"))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/savings", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var payload savingsJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "10.50", payload.Saved)
	assert.Equal(t, "500.00", payload.Goal)
	assert.Equal(t, 1, payload.Entries)
}

func TestAPITasksIncludesCompleted(t *testing.T) {
	srv, store := newTestServer(t)
	ctx := context.Background()

	task, err := store.AddTask(ctx, db.TaskInput{Text: "done task", ChatID: 1})
	require.NoError(t, err)
	_, err = store.MarkTaskDone(ctx, task.ID)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var payload []taskJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload, 1)
	assert.True(t, payload[0].Done)
}
