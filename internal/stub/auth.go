package stub

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/taskmaster/client/internal/adapters/authmock"
	"github.com/taskmaster/client/internal/adapters/session"
	"github.com/taskmaster/client/internal/domain/entities"
	"github.com/taskmaster/client/internal/infrastructure/config"
	"github.com/taskmaster/client/internal/infrastructure/logger"
	"github.com/taskmaster/client/internal/ports"
)

// authBackend serves the auth endpoints. Credentials are checked against
// the demo user table; tokens are the same JWTs the mock strategy mints,
// so a client can switch between mock and stub auth without re-login.
type authBackend struct {
	mu     sync.Mutex
	mock   *authmock.Service
	users  map[string]*entities.User
	secret []byte
	ttl    time.Duration
	logger *logger.Logger
}

func newAuthBackend(cfg config.AuthConfig, appLogger *logger.Logger) *authBackend {
	ttl := cfg.MockTokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &authBackend{
		// The mock keeps its own throwaway store; the stub is stateless
		// per token and never persists sessions server-side.
		mock:   authmock.New(cfg, session.NewMemoryStore()),
		users:  make(map[string]*entities.User),
		secret: []byte(cfg.MockSecret),
		ttl:    ttl,
		logger: appLogger.WithComponent("stub.auth"),
	}
}

// Login checks credentials and returns a {user, token} payload
func (a *authBackend) Login(c echo.Context) error {
	var req ports.LoginRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	sess, err := a.mock.Login(c.Request().Context(), req)
	if err != nil {
		a.logger.Warnw("login rejected", "email", req.Email, "error", err)
		return fail(c, http.StatusUnauthorized, "Invalid credentials")
	}

	a.remember(sess.User)
	return ok(c, http.StatusOK, sess)
}

// Register creates an account and returns its first session
func (a *authBackend) Register(c echo.Context) error {
	var req ports.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	sess, err := a.mock.Register(c.Request().Context(), req)
	if err != nil {
		status := http.StatusBadRequest
		if err == entities.ErrUserExists {
			status = http.StatusConflict
		}
		return fail(c, status, err.Error())
	}

	a.remember(sess.User)
	return ok(c, http.StatusCreated, sess)
}

// Logout acknowledges; tokens are stateless so there is nothing to revoke
func (a *authBackend) Logout(c echo.Context) error {
	return ok(c, http.StatusOK, nil)
}

// Refresh issues a fresh token for the bearer's identity
func (a *authBackend) Refresh(c echo.Context) error {
	user := currentUser(c)
	if user == nil {
		return fail(c, http.StatusUnauthorized, "Invalid token")
	}

	sess, err := a.reissue(user)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Could not issue token")
	}
	return ok(c, http.StatusOK, sess)
}

// Me returns the bearer's user record
func (a *authBackend) Me(c echo.Context) error {
	user := currentUser(c)
	if user == nil {
		return fail(c, http.StatusUnauthorized, "Invalid token")
	}
	return ok(c, http.StatusOK, user)
}

// requireAuth validates the bearer token and stores the resolved user in
// the request context
func (a *authBackend) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if header == "" {
			return fail(c, http.StatusUnauthorized, "Missing authorization header")
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return fail(c, http.StatusUnauthorized, "Invalid authorization header format")
		}

		claims := &authmock.Claims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(*jwt.Token) (interface{}, error) {
			return a.secret, nil
		})
		if err != nil || !token.Valid {
			a.logger.Warnw("rejected token", "ip", c.RealIP(), "error", err)
			return fail(c, http.StatusUnauthorized, "Invalid token")
		}

		c.Set("user", a.resolve(claims))
		return next(c)
	}
}

func (a *authBackend) remember(user *entities.User) {
	a.mu.Lock()
	defer a.mu.Unlock()
	copied := *user
	a.users[user.ID] = &copied
}

// resolve maps token claims back to a user record. Unknown ids (a stub
// restart after the token was minted) degrade to a record built from the
// claims alone.
func (a *authBackend) resolve(claims *authmock.Claims) *entities.User {
	a.mu.Lock()
	defer a.mu.Unlock()
	if user, ok := a.users[claims.UserID]; ok {
		copied := *user
		return &copied
	}
	return &entities.User{ID: claims.UserID, Email: claims.Email, Role: "user"}
}

// reissue signs a fresh token with the same claim shape the mock mints
func (a *authBackend) reissue(user *entities.User) (*entities.Session, error) {
	now := time.Now()
	claims := authmock.Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
			Issuer:    "taskmaster-stub",
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return nil, err
	}
	copied := *user
	return &entities.Session{User: &copied, Token: token}, nil
}

func currentUser(c echo.Context) *entities.User {
	user, _ := c.Get("user").(*entities.User)
	return user
}
