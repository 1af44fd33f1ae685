package api

import (
	"context"
	"net/http"

	"github.com/taskmaster/client/internal/domain/entities"
	"github.com/taskmaster/client/internal/ports"
)

// AuthClient is the real auth service strategy. It owns the persisted
// session: every successful login/register/refresh replaces it, logout
// clears it.
type AuthClient struct {
	client  *Client
	session ports.SessionStore
}

// NewAuthClient creates an auth client over the shared transport
func NewAuthClient(client *Client, session ports.SessionStore) *AuthClient {
	return &AuthClient{client: client, session: session}
}

var _ ports.AuthAPI = (*AuthClient)(nil)

// authPayload is the data block of auth envelope responses
type authPayload struct {
	User  *entities.User `json:"user"`
	Token string         `json:"token"`
}

// Login exchanges credentials for a session and persists it
func (a *AuthClient) Login(ctx context.Context, req ports.LoginRequest) (*entities.Session, error) {
	payload, _, err := do[authPayload](ctx, a.client, http.MethodPost, "/auth/login", nil, req)
	if err != nil {
		return nil, err
	}
	return a.storeSession(payload)
}

// Register creates an account and persists the returned session.
// Password confirmation is checked before any network call.
func (a *AuthClient) Register(ctx context.Context, req ports.RegisterRequest) (*entities.Session, error) {
	if req.Password != req.ConfirmPassword {
		return nil, entities.ErrPasswordMismatch
	}
	if len(req.Password) < 6 {
		return nil, entities.ErrPasswordTooShort
	}

	payload, _, err := do[authPayload](ctx, a.client, http.MethodPost, "/auth/register", nil, req)
	if err != nil {
		return nil, err
	}
	return a.storeSession(payload)
}

// Logout tells the service to revoke the token, then clears the local
// session even if the call failed. A dead server must not keep a client
// logged in.
func (a *AuthClient) Logout(ctx context.Context) error {
	_, _, err := do[struct{}](ctx, a.client, http.MethodPost, "/auth/logout", nil, nil)
	if clearErr := a.session.Clear(); clearErr != nil {
		return clearErr
	}
	return err
}

// Refresh exchanges the current token for a fresh one
func (a *AuthClient) Refresh(ctx context.Context) (*entities.Session, error) {
	payload, _, err := do[authPayload](ctx, a.client, http.MethodPost, "/auth/refresh", nil, nil)
	if err != nil {
		// A rejected refresh invalidates whatever was stored
		_ = a.session.Clear()
		return nil, err
	}
	return a.storeSession(payload)
}

// Me fetches the current user record and refreshes the stored copy
func (a *AuthClient) Me(ctx context.Context) (*entities.User, error) {
	user, _, err := do[*entities.User](ctx, a.client, http.MethodGet, "/auth/me", nil, nil)
	if err != nil {
		return nil, err
	}
	if session, sErr := a.session.Get(); sErr == nil && session != nil {
		session.User = user
		_ = a.session.Set(session)
	}
	return user, nil
}

// Valid reports whether a session is usable. The real variant trusts the
// server to reject expired tokens, so presence of both parts suffices.
func (a *AuthClient) Valid(session *entities.Session) bool {
	return session != nil && session.Token != "" && session.User != nil
}

func (a *AuthClient) storeSession(payload authPayload) (*entities.Session, error) {
	if payload.Token == "" || payload.User == nil {
		return nil, entities.ErrInvalidToken
	}
	session := &entities.Session{User: payload.User, Token: payload.Token}
	if err := a.session.Set(session); err != nil {
		return nil, err
	}
	return session, nil
}
