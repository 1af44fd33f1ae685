package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/client/internal/adapters/session"
	"github.com/taskmaster/client/internal/domain/entities"
	"github.com/taskmaster/client/internal/infrastructure/config"
	"github.com/taskmaster/client/internal/infrastructure/logger"
	"github.com/taskmaster/client/internal/ports"
)

func testClient(t *testing.T, handler http.Handler) (*Client, ports.SessionStore, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	store := session.NewMemoryStore()
	client := NewClient(config.APIConfig{
		BaseURL: ts.URL + "/api",
		Timeout: 5 * time.Second,
	}, store, logger.NewNop(), nil)
	return client, store, ts
}

func TestDoDecodesEnvelope(t *testing.T) {
	client, _, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tasks", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": true,
			"data": [{"id": "t1", "title": "First", "priority": "high"}],
			"meta": {"total": 21, "page": 2, "limit": 10, "totalPages": 3}
		}`))
	}))

	tasks, meta, err := do[[]*entities.Task](context.Background(), client, http.MethodGet, "/tasks", nil, nil)

	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "t1", tasks[0].ID)
	assert.Equal(t, entities.PriorityHigh, tasks[0].Priority)
	require.NotNil(t, meta)
	assert.Equal(t, 21, meta.Total)
	assert.Equal(t, 3, meta.TotalPages)
}

func TestDoParsesErrorMessage(t *testing.T) {
	client, _, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success": false, "message": "Task not found"}`))
	}))

	_, _, err := do[*entities.Task](context.Background(), client, http.MethodGet, "/tasks/x", nil, nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Task not found", apiErr.Message)
	assert.False(t, apiErr.IsNetwork())
}

func TestDoFallsBackToGenericMessage(t *testing.T) {
	client, _, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`boom`))
	}))

	_, _, err := do[struct{}](context.Background(), client, http.MethodGet, "/tasks", nil, nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "HTTP 500", apiErr.Message)
}

func TestDoTransportFailureIsStatusZero(t *testing.T) {
	store := session.NewMemoryStore()
	client := NewClient(config.APIConfig{
		// Nothing listens here
		BaseURL: "http://127.0.0.1:1/api",
		Timeout: time.Second,
	}, store, logger.NewNop(), nil)

	_, _, err := do[struct{}](context.Background(), client, http.MethodGet, "/tasks", nil, nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsNetwork())
	assert.Zero(t, apiErr.Status)
}

func TestDoSendsBearerToken(t *testing.T) {
	var gotAuth string
	client, store, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"success": true, "data": null}`))
	}))
	require.NoError(t, store.Set(&entities.Session{
		User:  &entities.User{ID: "u1", Email: "a@b.c"},
		Token: "tok-123",
	}))

	_, _, err := do[struct{}](context.Background(), client, http.MethodGet, "/tasks", nil, nil)

	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestDoOmitsAuthHeaderWithoutSession(t *testing.T) {
	var gotAuth string
	client, _, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"success": true, "data": null}`))
	}))

	_, _, err := do[struct{}](context.Background(), client, http.MethodGet, "/tasks", nil, nil)

	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestDoEmptyBodyYieldsZeroValue(t *testing.T) {
	client, _, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	task, meta, err := do[*entities.Task](context.Background(), client, http.MethodDelete, "/tasks/x", nil, nil)

	require.NoError(t, err)
	assert.Nil(t, task)
	assert.Nil(t, meta)
}

func TestDoEncodesQueryParameters(t *testing.T) {
	var gotQuery string
	client, _, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"success": true, "data": []}`))
	}))

	filters := entities.DefaultFilters()
	filters.Search = "report"
	_, _, err := do[[]*entities.Task](context.Background(), client, http.MethodGet, "/tasks", filters.QueryValues(), nil)

	require.NoError(t, err)
	assert.Contains(t, gotQuery, "search=report")
	assert.Contains(t, gotQuery, "sortBy=createdAt")
	assert.Contains(t, gotQuery, "sortOrder=desc")
}
