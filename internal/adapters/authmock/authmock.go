// Package authmock simulates the auth service contract in process against
// a fixed user table. Tokens are self-describing JWTs carrying an expiry,
// so session validity can be checked without a server.
package authmock

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskmaster/client/internal/domain/entities"
	"github.com/taskmaster/client/internal/infrastructure/config"
	"github.com/taskmaster/client/internal/ports"
)

// Claims are the mock token claims
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type mockUser struct {
	user         entities.User
	passwordHash []byte
}

// Service is the in-process auth strategy. It satisfies the same contract
// as the HTTP client, against a built-in demo user table.
type Service struct {
	mu      sync.Mutex
	users   map[string]*mockUser
	session ports.SessionStore
	secret  []byte
	ttl     time.Duration
	now     func() time.Time
}

// Demo accounts available out of the box
var seedUsers = []struct {
	email, name, role, password string
	createdAt                   time.Time
}{
	{"admin@taskmaster.dev", "Administrator", "admin", "admin123", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	{"user@taskmaster.dev", "Demo User", "user", "user123", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
	{"maria@taskmaster.dev", "Maria Garcia", "user", "maria123", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
}

// New creates a mock auth service with the demo accounts
func New(cfg config.AuthConfig, session ports.SessionStore) *Service {
	s := &Service{
		users:   make(map[string]*mockUser),
		session: session,
		secret:  []byte(cfg.MockSecret),
		ttl:     cfg.MockTokenTTL,
		now:     time.Now,
	}
	if s.ttl <= 0 {
		s.ttl = 24 * time.Hour
	}

	for i, seed := range seedUsers {
		hash, _ := bcrypt.GenerateFromPassword([]byte(seed.password), bcrypt.MinCost)
		s.users[seed.email] = &mockUser{
			user: entities.User{
				ID:        strconv.Itoa(i + 1),
				Email:     seed.email,
				Name:      seed.name,
				Role:      seed.role,
				CreatedAt: seed.createdAt,
			},
			passwordHash: hash,
		}
	}
	return s
}

var _ ports.AuthAPI = (*Service)(nil)

// Login checks credentials against the user table and persists a session
func (s *Service) Login(ctx context.Context, req ports.LoginRequest) (*entities.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.users[strings.ToLower(req.Email)]
	if !ok {
		return nil, entities.ErrUserNotFound
	}
	if bcrypt.CompareHashAndPassword(entry.passwordHash, []byte(req.Password)) != nil {
		return nil, entities.ErrWrongPassword
	}

	entry.user.LastLogin = s.now()
	return s.issueSession(&entry.user)
}

// Register adds a user to the table and persists a session. Validation
// mirrors the real service: matching passwords, minimum length 6.
func (s *Service) Register(ctx context.Context, req ports.RegisterRequest) (*entities.Session, error) {
	if req.Password != req.ConfirmPassword {
		return nil, entities.ErrPasswordMismatch
	}
	if len(req.Password) < 6 {
		return nil, entities.ErrPasswordTooShort
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(req.Email)
	if _, exists := s.users[email]; exists {
		return nil, entities.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	entry := &mockUser{
		user: entities.User{
			ID:        strconv.Itoa(len(s.users) + 1),
			Email:     email,
			Name:      req.Name,
			Role:      "user",
			CreatedAt: s.now(),
			LastLogin: s.now(),
		},
		passwordHash: hash,
	}
	s.users[email] = entry

	return s.issueSession(&entry.user)
}

// Logout clears the persisted session
func (s *Service) Logout(ctx context.Context) error {
	return s.session.Clear()
}

// Refresh issues a fresh token for the currently stored user
func (s *Service) Refresh(ctx context.Context) (*entities.Session, error) {
	current, err := s.session.Get()
	if err != nil {
		return nil, err
	}
	if current == nil || current.User == nil {
		return nil, entities.ErrNoSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issueSession(current.User)
}

// Me returns the currently stored user
func (s *Service) Me(ctx context.Context) (*entities.User, error) {
	current, err := s.session.Get()
	if err != nil {
		return nil, err
	}
	if current == nil || current.User == nil {
		return nil, entities.ErrNoSession
	}
	return current.User, nil
}

// Valid reports whether the session's token parses and its embedded
// expiry is still in the future
func (s *Service) Valid(session *entities.Session) bool {
	if session == nil || session.Token == "" || session.User == nil {
		return false
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(session.Token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	return err == nil && token.Valid
}

// Users lists the demo accounts with their passwords, for the login help
func (s *Service) Users() []ports.LoginRequest {
	creds := make([]ports.LoginRequest, 0, len(seedUsers))
	for _, seed := range seedUsers {
		creds = append(creds, ports.LoginRequest{Email: seed.email, Password: seed.password})
	}
	return creds
}

// issueSession signs a token for user and persists the pair. Caller holds
// the lock.
func (s *Service) issueSession(user *entities.User) (*entities.Session, error) {
	now := s.now()
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			Issuer:    "taskmaster-mock",
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	copied := *user
	session := &entities.Session{User: &copied, Token: token}
	if err := s.session.Set(session); err != nil {
		return nil, err
	}
	return session, nil
}
