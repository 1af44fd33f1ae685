package authctrl

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/client/internal/adapters/authmock"
	"github.com/taskmaster/client/internal/adapters/session"
	"github.com/taskmaster/client/internal/domain/entities"
	"github.com/taskmaster/client/internal/infrastructure/config"
	"github.com/taskmaster/client/internal/infrastructure/logger"
	"github.com/taskmaster/client/internal/infrastructure/notify"
	"github.com/taskmaster/client/internal/ports"
)

func newController(t *testing.T) (*Controller, ports.SessionStore) {
	t.Helper()
	store := session.NewMemoryStore()
	auth := authmock.New(config.AuthConfig{
		MockSecret:   "test-secret",
		MockTokenTTL: time.Hour,
	}, store)
	return New(auth, store, notify.Nop{}, logger.NewNop()), store
}

func TestLoginMovesToAuthenticated(t *testing.T) {
	c, store := newController(t)
	assert.Equal(t, PhaseAnonymous, c.CurrentPhase())

	user, err := c.Login(context.Background(), ports.LoginRequest{
		Email:    "admin@taskmaster.dev",
		Password: "admin123",
	})

	require.NoError(t, err)
	assert.Equal(t, PhaseAuthenticated, c.CurrentPhase())
	assert.True(t, c.Authenticated())
	assert.Equal(t, "admin@taskmaster.dev", user.Email)
	assert.Equal(t, user.Email, c.CurrentUser().Email)

	persisted, err := store.Get()
	require.NoError(t, err)
	require.NotNil(t, persisted, "a successful login persists the session")
}

func TestLoginWrongPassword(t *testing.T) {
	c, _ := newController(t)

	_, err := c.Login(context.Background(), ports.LoginRequest{
		Email:    "admin@taskmaster.dev",
		Password: "nope",
	})

	assert.ErrorIs(t, err, entities.ErrWrongPassword)
	assert.Equal(t, PhaseError, c.CurrentPhase())
	assert.False(t, c.Authenticated())
	assert.ErrorIs(t, c.Err(), entities.ErrWrongPassword)
}

func TestLoginRejectsMalformedRequest(t *testing.T) {
	c, _ := newController(t)

	_, err := c.Login(context.Background(), ports.LoginRequest{Email: "not-an-email", Password: "x"})

	require.Error(t, err)
	assert.Equal(t, PhaseError, c.CurrentPhase())
}

func TestFailedLoginThenSuccess(t *testing.T) {
	c, _ := newController(t)

	_, err := c.Login(context.Background(), ports.LoginRequest{
		Email:    "admin@taskmaster.dev",
		Password: "nope",
	})
	require.Error(t, err)

	_, err = c.Login(context.Background(), ports.LoginRequest{
		Email:    "admin@taskmaster.dev",
		Password: "admin123",
	})
	require.NoError(t, err)
	assert.Equal(t, PhaseAuthenticated, c.CurrentPhase())
	assert.NoError(t, c.Err(), "a successful attempt clears the recorded error")
}

func TestRegisterLogsStraightIn(t *testing.T) {
	c, _ := newController(t)

	user, err := c.Register(context.Background(), ports.RegisterRequest{
		Name:            "New User",
		Email:           "new@taskmaster.dev",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	})

	require.NoError(t, err)
	assert.Equal(t, PhaseAuthenticated, c.CurrentPhase())
	assert.Equal(t, "New User", user.Name)
}

func TestRegisterPasswordMismatch(t *testing.T) {
	c, _ := newController(t)

	_, err := c.Register(context.Background(), ports.RegisterRequest{
		Name:            "New User",
		Email:           "new@taskmaster.dev",
		Password:        "secret1",
		ConfirmPassword: "secret2",
	})

	assert.ErrorIs(t, err, entities.ErrPasswordMismatch)
	assert.Equal(t, PhaseError, c.CurrentPhase())
}

func TestLogoutClearsEverything(t *testing.T) {
	c, store := newController(t)
	_, err := c.Login(context.Background(), ports.LoginRequest{
		Email:    "user@taskmaster.dev",
		Password: "user123",
	})
	require.NoError(t, err)

	require.NoError(t, c.Logout(context.Background()))

	assert.Equal(t, PhaseAnonymous, c.CurrentPhase())
	assert.Nil(t, c.CurrentUser())

	persisted, err := store.Get()
	require.NoError(t, err)
	assert.Nil(t, persisted)
}

func TestCheckAuthRestoresPersistedSession(t *testing.T) {
	c, store := newController(t)
	_, err := c.Login(context.Background(), ports.LoginRequest{
		Email:    "maria@taskmaster.dev",
		Password: "maria123",
	})
	require.NoError(t, err)

	// A fresh controller over the same store stands in for a new process
	auth := authmock.New(config.AuthConfig{
		MockSecret:   "test-secret",
		MockTokenTTL: time.Hour,
	}, store)
	restarted := New(auth, store, notify.Nop{}, logger.NewNop())

	ok, err := restarted.CheckAuth(context.Background())

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, PhaseAuthenticated, restarted.CurrentPhase())
	assert.Equal(t, "maria@taskmaster.dev", restarted.CurrentUser().Email)
}

func TestCheckAuthWithNoSession(t *testing.T) {
	c, _ := newController(t)

	ok, err := c.CheckAuth(context.Background())

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, PhaseAnonymous, c.CurrentPhase())
}

func TestCheckAuthClearsInvalidSession(t *testing.T) {
	c, store := newController(t)
	require.NoError(t, store.Set(&entities.Session{
		User:  &entities.User{ID: "u1", Email: "ghost@taskmaster.dev"},
		Token: "not-a-jwt",
	}))

	ok, err := c.CheckAuth(context.Background())

	require.NoError(t, err)
	assert.False(t, ok)

	persisted, err := store.Get()
	require.NoError(t, err)
	assert.Nil(t, persisted, "an invalid session is evicted from the store")
}

func TestRefreshWithoutSessionDropsToAnonymous(t *testing.T) {
	c, _ := newController(t)

	err := c.Refresh(context.Background())

	assert.ErrorIs(t, err, entities.ErrNoSession)
	assert.Equal(t, PhaseAnonymous, c.CurrentPhase())
}

func TestRefreshRenewsSession(t *testing.T) {
	c, _ := newController(t)
	_, err := c.Login(context.Background(), ports.LoginRequest{
		Email:    "admin@taskmaster.dev",
		Password: "admin123",
	})
	require.NoError(t, err)

	require.NoError(t, c.Refresh(context.Background()))
	assert.Equal(t, PhaseAuthenticated, c.CurrentPhase())
	assert.Equal(t, "admin@taskmaster.dev", c.CurrentUser().Email)
}
