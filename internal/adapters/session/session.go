// Package session persists the process-wide authentication session. Both
// auth strategies read and write through the same two well-known keys, so
// only one session can be active per client instance.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/taskmaster/client/internal/domain/entities"
	"github.com/taskmaster/client/internal/infrastructure/config"
	"github.com/taskmaster/client/internal/ports"
)

// FileStore keeps the session in a JSON key-value file under the user
// config directory, token and user record under separate keys.
type FileStore struct {
	mu       sync.Mutex
	path     string
	tokenKey string
	userKey  string
}

// NewFileStore creates a file-backed session store. When cfg.SessionFile
// is empty the file lives under the user config directory.
func NewFileStore(cfg config.AuthConfig) (*FileStore, error) {
	path := cfg.SessionFile
	if path == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config directory: %w", err)
		}
		path = filepath.Join(base, "taskmaster", "session.json")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	return &FileStore{
		path:     path,
		tokenKey: cfg.TokenKey,
		userKey:  cfg.UserKey,
	}, nil
}

var _ ports.SessionStore = (*FileStore)(nil)

func (s *FileStore) read() (map[string]json.RawMessage, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	entries := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &entries); err != nil {
		// A corrupt session file is treated as no session
		return map[string]json.RawMessage{}, nil
	}
	return entries, nil
}

func (s *FileStore) write(entries map[string]json.RawMessage) error {
	raw, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Get returns the persisted session, or nil when either key is missing
func (s *FileStore) Get() (*entities.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return nil, err
	}

	rawToken, okToken := entries[s.tokenKey]
	rawUser, okUser := entries[s.userKey]
	if !okToken || !okUser {
		return nil, nil
	}

	var token string
	if err := json.Unmarshal(rawToken, &token); err != nil || token == "" {
		return nil, nil
	}

	var user entities.User
	if err := json.Unmarshal(rawUser, &user); err != nil {
		return nil, nil
	}

	return &entities.Session{User: &user, Token: token}, nil
}

// Set replaces the persisted session under both keys
func (s *FileStore) Set(session *entities.Session) error {
	if session == nil || session.Token == "" || session.User == nil {
		return entities.ErrNoSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return err
	}

	rawToken, err := json.Marshal(session.Token)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	rawUser, err := json.Marshal(session.User)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	entries[s.tokenKey] = rawToken
	entries[s.userKey] = rawUser
	return s.write(entries)
}

// Clear removes both session keys
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return err
	}

	delete(entries, s.tokenKey)
	delete(entries, s.userKey)
	return s.write(entries)
}

// MemoryStore keeps the session in memory. Used by tests and as the
// non-persistent fallback.
type MemoryStore struct {
	mu      sync.Mutex
	session *entities.Session
}

// NewMemoryStore creates an empty in-memory session store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

var _ ports.SessionStore = (*MemoryStore)(nil)

// Get returns the stored session, or nil
func (s *MemoryStore) Get() (*entities.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session, nil
}

// Set replaces the stored session
func (s *MemoryStore) Set(session *entities.Session) error {
	if session == nil || session.Token == "" || session.User == nil {
		return entities.ErrNoSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
	return nil
}

// Clear drops the stored session
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	return nil
}
