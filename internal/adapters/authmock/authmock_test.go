package authmock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/client/internal/adapters/session"
	"github.com/taskmaster/client/internal/domain/entities"
	"github.com/taskmaster/client/internal/infrastructure/config"
	"github.com/taskmaster/client/internal/ports"
)

func newTestService() (*Service, *session.MemoryStore) {
	store := session.NewMemoryStore()
	svc := New(config.AuthConfig{
		MockSecret:   "test-secret",
		MockTokenTTL: time.Hour,
	}, store)
	return svc, store
}

func TestLogin(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	sess, err := svc.Login(ctx, ports.LoginRequest{Email: "user@taskmaster.dev", Password: "user123"})
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "Demo User", sess.User.Name)
	assert.NotEmpty(t, sess.Token)

	stored, err := store.Get()
	require.NoError(t, err)
	require.NotNil(t, stored, "login persists the session")
	assert.Equal(t, sess.Token, stored.Token)
}

func TestLoginFailures(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	_, err := svc.Login(ctx, ports.LoginRequest{Email: "nobody@taskmaster.dev", Password: "x"})
	assert.ErrorIs(t, err, entities.ErrUserNotFound)

	_, err = svc.Login(ctx, ports.LoginRequest{Email: "user@taskmaster.dev", Password: "wrong"})
	assert.ErrorIs(t, err, entities.ErrWrongPassword)

	stored, _ := store.Get()
	assert.Nil(t, stored, "failed logins persist nothing")
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, ports.RegisterRequest{
		Name: "New", Email: "new@taskmaster.dev", Password: "secret1", ConfirmPassword: "secret2",
	})
	assert.ErrorIs(t, err, entities.ErrPasswordMismatch)

	_, err = svc.Register(ctx, ports.RegisterRequest{
		Name: "New", Email: "new@taskmaster.dev", Password: "short", ConfirmPassword: "short",
	})
	assert.ErrorIs(t, err, entities.ErrPasswordTooShort)

	_, err = svc.Register(ctx, ports.RegisterRequest{
		Name: "Dup", Email: "USER@taskmaster.dev", Password: "secret123", ConfirmPassword: "secret123",
	})
	assert.ErrorIs(t, err, entities.ErrUserExists)
}

func TestRegisterThenLogin(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	sess, err := svc.Register(ctx, ports.RegisterRequest{
		Name: "New User", Email: "new@taskmaster.dev", Password: "secret123", ConfirmPassword: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, "user", sess.User.Role)

	again, err := svc.Login(ctx, ports.LoginRequest{Email: "new@taskmaster.dev", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, again.User.ID)
}

func TestTokenExpiry(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	base := time.Date(2024, 6, 17, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	sess, err := svc.Login(ctx, ports.LoginRequest{Email: "user@taskmaster.dev", Password: "user123"})
	require.NoError(t, err)
	assert.True(t, svc.Valid(sess))

	// Past the embedded expiry the same token is rejected
	svc.now = func() time.Time { return base.Add(2 * time.Hour) }
	assert.False(t, svc.Valid(sess))
}

func TestValidRejectsForeignTokens(t *testing.T) {
	svc, _ := newTestService()

	assert.False(t, svc.Valid(nil))
	assert.False(t, svc.Valid(&entities.Session{Token: "garbage", User: &entities.User{ID: "1"}}))
}

func TestLogoutClearsSession(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	_, err := svc.Login(ctx, ports.LoginRequest{Email: "user@taskmaster.dev", Password: "user123"})
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx))

	stored, err := store.Get()
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestRefreshWithoutSession(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Refresh(context.Background())
	assert.ErrorIs(t, err, entities.ErrNoSession)
}
