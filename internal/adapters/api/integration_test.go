package api_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/client/internal/adapters/api"
	"github.com/taskmaster/client/internal/adapters/session"
	"github.com/taskmaster/client/internal/domain/entities"
	"github.com/taskmaster/client/internal/infrastructure/config"
	"github.com/taskmaster/client/internal/infrastructure/logger"
	"github.com/taskmaster/client/internal/ports"
	"github.com/taskmaster/client/internal/stub"
)

// startStub boots the stub service on an httptest listener and returns
// clients wired against it
func startStub(t *testing.T) (*api.TaskClient, *api.AuthClient, ports.SessionStore) {
	t.Helper()

	cfg := &config.Config{
		Auth: config.AuthConfig{
			MockSecret:   "integration-secret",
			MockTokenTTL: time.Hour,
		},
		Stub: config.StubConfig{
			RateLimitRequests: 1000,
			RateLimitWindow:   time.Minute,
		},
	}
	server := stub.New(cfg, logger.NewNop())
	ts := httptest.NewServer(server.Echo())
	t.Cleanup(ts.Close)

	store := session.NewMemoryStore()
	client := api.NewClient(config.APIConfig{
		BaseURL: ts.URL + "/api",
		Timeout: 5 * time.Second,
	}, store, logger.NewNop(), nil)

	return api.NewTaskClient(client), api.NewAuthClient(client, store), store
}

func login(t *testing.T, auth *api.AuthClient) {
	t.Helper()
	_, err := auth.Login(context.Background(), ports.LoginRequest{
		Email:    "admin@taskmaster.dev",
		Password: "admin123",
	})
	require.NoError(t, err)
}

func TestIntegrationUnauthenticatedRequestsRejected(t *testing.T) {
	tasks, _, _ := startStub(t)

	_, _, err := tasks.List(context.Background(), entities.DefaultFilters())

	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.Status)
}

func TestIntegrationLoginAndList(t *testing.T) {
	tasks, auth, store := startStub(t)
	login(t, auth)

	sess, err := store.Get()
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "admin@taskmaster.dev", sess.User.Email)

	list, meta, err := tasks.List(context.Background(), entities.DefaultFilters())
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, meta.Total, 6, "stub boots with the seeded demo set")
	assert.Len(t, list, 6)
	assert.Equal(t, 1, meta.TotalPages)
}

func TestIntegrationTaskLifecycle(t *testing.T) {
	tasks, auth, _ := startStub(t)
	login(t, auth)
	ctx := context.Background()

	created, err := tasks.Create(ctx, ports.CreateTaskRequest{
		Title:    "Integration check",
		Priority: entities.PriorityHigh,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.False(t, created.Completed)

	completed, err := tasks.Complete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, completed.Completed)

	title := "Integration check (renamed)"
	updated, err := tasks.Update(ctx, created.ID, ports.UpdateTaskRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)

	require.NoError(t, tasks.Delete(ctx, created.ID))

	_, err = tasks.Get(ctx, created.ID)
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)
}

func TestIntegrationSearchAndFilter(t *testing.T) {
	tasks, auth, _ := startStub(t)
	login(t, auth)
	ctx := context.Background()

	found, _, err := tasks.Search(ctx, "roadmap", entities.DefaultFilters())
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Contains(t, found[0].Title, "roadmap")

	completed := false
	filters := entities.DefaultFilters()
	filters.Completed = &completed
	pending, meta, err := tasks.List(ctx, filters)
	require.NoError(t, err)
	assert.Equal(t, meta.Total, len(pending))
	for _, task := range pending {
		assert.False(t, task.Completed)
	}
}

func TestIntegrationBulkOperations(t *testing.T) {
	tasks, auth, _ := startStub(t)
	login(t, auth)
	ctx := context.Background()

	a, err := tasks.Create(ctx, ports.CreateTaskRequest{Title: "bulk a"})
	require.NoError(t, err)
	b, err := tasks.Create(ctx, ports.CreateTaskRequest{Title: "bulk b"})
	require.NoError(t, err)

	updated, err := tasks.BulkComplete(ctx, []string{a.ID, b.ID})
	require.NoError(t, err)
	assert.Len(t, updated, 2)

	require.NoError(t, tasks.BulkDelete(ctx, []string{a.ID}))
	_, err = tasks.Get(ctx, a.ID)
	require.Error(t, err)

	require.NoError(t, tasks.DeleteAllCompleted(ctx))
	_, err = tasks.Get(ctx, b.ID)
	require.Error(t, err, "completed tasks are purged")
}

func TestIntegrationStatsAndSummary(t *testing.T) {
	tasks, auth, _ := startStub(t)
	login(t, auth)
	ctx := context.Background()

	stats, err := tasks.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, stats.Total)
	assert.Equal(t, stats.Total, stats.Completed+stats.Pending)

	summary, err := tasks.DailySummary(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, summary.Recommendations)
}

func TestIntegrationDueDateEndpoints(t *testing.T) {
	tasks, auth, _ := startStub(t)
	login(t, auth)
	ctx := context.Background()

	today, err := tasks.DueToday(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, today, "the seed set includes a task due today")

	overdue, err := tasks.Overdue(ctx, "")
	require.NoError(t, err)
	assert.NotEmpty(t, overdue, "the seed set includes an overdue task")
}

func TestIntegrationAuthRoundTrip(t *testing.T) {
	_, auth, store := startStub(t)
	login(t, auth)

	me, err := auth.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "admin@taskmaster.dev", me.Email)

	refreshed, err := auth.Refresh(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.Token)

	require.NoError(t, auth.Logout(context.Background()))
	sess, err := store.Get()
	require.NoError(t, err)
	assert.Nil(t, sess)
}
