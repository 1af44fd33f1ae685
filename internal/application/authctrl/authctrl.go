// Package authctrl tracks the authentication lifecycle of the client: who
// is logged in, whether a login is in flight and what the last auth error
// was. It sits between the UI layer and the auth service, so commands never
// talk to the auth adapter directly.
package authctrl

import (
	"context"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/taskmaster/client/internal/domain/entities"
	"github.com/taskmaster/client/internal/infrastructure/logger"
	"github.com/taskmaster/client/internal/infrastructure/notify"
	"github.com/taskmaster/client/internal/ports"
)

// Phase is the controller's position in the auth lifecycle
type Phase string

const (
	PhaseAnonymous      Phase = "anonymous"
	PhaseAuthenticating Phase = "authenticating"
	PhaseAuthenticated  Phase = "authenticated"
	PhaseError          Phase = "error"
)

// Controller owns the session lifecycle. A failed attempt lands in
// PhaseError and the next attempt starts clean; an expired session drops
// back to PhaseAnonymous.
type Controller struct {
	mu       sync.Mutex
	auth     ports.AuthAPI
	session  ports.SessionStore
	notifier ports.Notifier
	logger   *logger.Logger
	validate *validator.Validate

	phase   Phase
	user    *entities.User
	lastErr error
}

// New creates a controller in the anonymous phase. Call CheckAuth to pick
// up a previously persisted session.
func New(auth ports.AuthAPI, session ports.SessionStore, notifier ports.Notifier, appLogger *logger.Logger) *Controller {
	return &Controller{
		auth:     auth,
		session:  session,
		notifier: notifier,
		logger:   appLogger.WithComponent("auth"),
		validate: validator.New(),
		phase:    PhaseAnonymous,
	}
}

// Login authenticates with credentials and moves to PhaseAuthenticated on
// success
func (c *Controller) Login(ctx context.Context, req ports.LoginRequest) (*entities.User, error) {
	if err := c.validate.Struct(req); err != nil {
		return nil, c.fail("Login failed", notify.MsgValidationError, err)
	}

	c.setPhase(PhaseAuthenticating)
	session, err := c.auth.Login(ctx, req)
	if err != nil {
		return nil, c.fail("Login failed", err.Error(), err)
	}

	c.mu.Lock()
	c.phase = PhaseAuthenticated
	c.user = session.User
	c.lastErr = nil
	c.mu.Unlock()

	c.logger.Infow("user logged in", "email", session.User.Email)
	c.notifier.Success(notify.Welcome(session.User.Name))
	return session.User, nil
}

// Register creates an account and logs straight in
func (c *Controller) Register(ctx context.Context, req ports.RegisterRequest) (*entities.User, error) {
	if err := c.validate.Struct(req); err != nil {
		return nil, c.fail("Registration failed", notify.MsgValidationError, err)
	}
	if req.Password != req.ConfirmPassword {
		return nil, c.fail("Registration failed", entities.ErrPasswordMismatch.Error(), entities.ErrPasswordMismatch)
	}

	c.setPhase(PhaseAuthenticating)
	session, err := c.auth.Register(ctx, req)
	if err != nil {
		return nil, c.fail("Registration failed", err.Error(), err)
	}

	c.mu.Lock()
	c.phase = PhaseAuthenticated
	c.user = session.User
	c.lastErr = nil
	c.mu.Unlock()

	c.logger.Infow("user registered", "email", session.User.Email)
	c.notifier.Success(notify.MsgAccountCreated)
	return session.User, nil
}

// Logout ends the session. The local state is cleared even when the
// service call fails; a client must always be able to log out.
func (c *Controller) Logout(ctx context.Context) error {
	err := c.auth.Logout(ctx)
	if err != nil {
		c.logger.Warnw("logout call failed, clearing local session anyway", "error", err)
	}

	c.mu.Lock()
	c.phase = PhaseAnonymous
	c.user = nil
	c.lastErr = nil
	c.mu.Unlock()

	c.notifier.Info(notify.MsgLoggedOut)
	return nil
}

// Refresh renews the current session token. A rejected refresh drops the
// controller back to anonymous.
func (c *Controller) Refresh(ctx context.Context) error {
	session, err := c.auth.Refresh(ctx)
	if err != nil {
		c.mu.Lock()
		c.phase = PhaseAnonymous
		c.user = nil
		c.lastErr = err
		c.mu.Unlock()
		c.notifier.Warn(notify.MsgSessionExpired)
		return err
	}

	c.mu.Lock()
	c.phase = PhaseAuthenticated
	c.user = session.User
	c.lastErr = nil
	c.mu.Unlock()
	return nil
}

// CheckAuth restores a persisted session if one exists and is still valid.
// A stale or invalid session is cleared from the store so the next check
// starts from nothing.
func (c *Controller) CheckAuth(ctx context.Context) (bool, error) {
	session, err := c.session.Get()
	if err != nil {
		return false, err
	}
	if session == nil {
		c.setAnonymous()
		return false, nil
	}

	if !c.auth.Valid(session) {
		if err := c.session.Clear(); err != nil {
			c.logger.Warnw("failed to clear stale session", "error", err)
		}
		c.setAnonymous()
		return false, nil
	}

	c.mu.Lock()
	c.phase = PhaseAuthenticated
	c.user = session.User
	c.lastErr = nil
	c.mu.Unlock()
	return true, nil
}

// CurrentUser returns the logged-in user, or nil when anonymous
func (c *Controller) CurrentUser() *entities.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

// Phase returns the current lifecycle phase
func (c *Controller) CurrentPhase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Authenticated reports whether a user is logged in
func (c *Controller) Authenticated() bool {
	return c.CurrentPhase() == PhaseAuthenticated
}

// Err returns the error recorded by the last failed attempt
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *Controller) setPhase(p Phase) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.phase = p
	if p == PhaseAuthenticating {
		c.lastErr = nil
	}
}

func (c *Controller) setAnonymous() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.phase = PhaseAnonymous
	c.user = nil
}

func (c *Controller) fail(operation, reason string, err error) error {
	c.mu.Lock()
	c.phase = PhaseError
	c.user = nil
	c.lastErr = err
	c.mu.Unlock()

	c.logger.Errorw(operation, "error", err)
	c.notifier.Error(notify.FailureMessage(operation, reason))
	return err
}
