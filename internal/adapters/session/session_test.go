package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/client/internal/domain/entities"
	"github.com/taskmaster/client/internal/infrastructure/config"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(config.AuthConfig{
		TokenKey:    "taskmaster_token",
		UserKey:     "taskmaster_user",
		SessionFile: filepath.Join(t.TempDir(), "session.json"),
	})
	require.NoError(t, err)
	return store
}

func testSession() *entities.Session {
	return &entities.Session{
		User: &entities.User{
			ID:        "u-1",
			Email:     "user@taskmaster.dev",
			Name:      "Demo User",
			Role:      "user",
			CreatedAt: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		Token: "opaque-token",
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)

	got, err := store.Get()
	require.NoError(t, err)
	assert.Nil(t, got, "fresh store holds no session")

	require.NoError(t, store.Set(testSession()))

	got, err = store.Get()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "opaque-token", got.Token)
	assert.Equal(t, "user@taskmaster.dev", got.User.Email)
}

func TestFileStoreClear(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set(testSession()))
	require.NoError(t, store.Clear())

	got, err := store.Get()
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFileStoreRejectsIncompleteSession(t *testing.T) {
	store := newTestStore(t)

	assert.ErrorIs(t, store.Set(nil), entities.ErrNoSession)
	assert.ErrorIs(t, store.Set(&entities.Session{Token: "t"}), entities.ErrNoSession)
	assert.ErrorIs(t, store.Set(&entities.Session{User: &entities.User{ID: "u"}}), entities.ErrNoSession)
}

func TestFileStoreCorruptFileIsNoSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store, err := NewFileStore(config.AuthConfig{
		TokenKey:    "taskmaster_token",
		UserKey:     "taskmaster_user",
		SessionFile: path,
	})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	got, err := store.Get()
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()

	got, err := store.Get()
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, store.Set(testSession()))
	got, err = store.Get()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "opaque-token", got.Token)

	require.NoError(t, store.Clear())
	got, err = store.Get()
	require.NoError(t, err)
	assert.Nil(t, got)
}
