// Package commands implements the taskcli command tree. Each command maps
// onto one store or auth controller intent; no command talks to the
// services directly.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/taskmaster/client/internal/adapters/api"
	"github.com/taskmaster/client/internal/adapters/authmock"
	"github.com/taskmaster/client/internal/adapters/session"
	"github.com/taskmaster/client/internal/application/authctrl"
	"github.com/taskmaster/client/internal/application/store"
	"github.com/taskmaster/client/internal/infrastructure/config"
	"github.com/taskmaster/client/internal/infrastructure/logger"
	"github.com/taskmaster/client/internal/infrastructure/metrics"
	"github.com/taskmaster/client/internal/infrastructure/notify"
	"github.com/taskmaster/client/internal/ports"
)

// App bundles the wired client components every command works against
type App struct {
	Config   *config.Config
	Logger   *logger.Logger
	Session  ports.SessionStore
	Notifier ports.Notifier
	Store    *store.Store
	Auth     *authctrl.Controller
	Tasks    ports.TaskAPI
	AuthAPI  ports.AuthAPI
	Metrics  *metrics.Collector
}

// NewApp loads configuration and wires the full component graph. The auth
// strategy is picked once here: the in-process mock by default, the HTTP
// client when USE_MOCK_AUTH is off.
func NewApp() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	sessionStore, err := session.NewFileStore(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	notifier := notify.NewWriter(os.Stderr)
	collector := metrics.New()

	client := api.NewClient(cfg.API, sessionStore, appLogger, collector)
	taskAPI := api.NewTaskClient(client)

	var authAPI ports.AuthAPI
	if cfg.Auth.UseMock {
		authAPI = authmock.New(cfg.Auth, sessionStore)
	} else {
		authAPI = api.NewAuthClient(client, sessionStore)
	}

	return &App{
		Config:   cfg,
		Logger:   appLogger,
		Session:  sessionStore,
		Notifier: notifier,
		Store:    store.New(taskAPI, notifier, appLogger),
		Auth:     authctrl.New(authAPI, sessionStore, notifier, appLogger),
		Tasks:    taskAPI,
		AuthAPI:  authAPI,
		Metrics:  collector,
	}, nil
}

// Close flushes the logger
func (a *App) Close() {
	_ = a.Logger.Close()
}

// selectionPath is the file the selection set persists in between
// invocations. A CLI process is short-lived, so the selection must
// outlive it to be usable for bulk commands.
func selectionPath(cfg *config.Config) (string, error) {
	if cfg.Auth.SessionFile != "" {
		return filepath.Join(filepath.Dir(cfg.Auth.SessionFile), "selection.json"), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "taskmaster", "selection.json"), nil
}

// loadSelection reads the persisted selection ids; a missing or corrupt
// file is an empty selection
func loadSelection(cfg *config.Config) []string {
	path, err := selectionPath(cfg)
	if err != nil {
		return nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil
	}
	return ids
}

// saveSelection persists the selection ids; an empty set removes the file
func saveSelection(cfg *config.Config, ids []string) error {
	path, err := selectionPath(cfg)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		err := os.Remove(path)
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o600)
}

// requireLogin restores a persisted session and fails the command when
// none is valid
func requireLogin(ctx context.Context, app *App) error {
	ok, err := app.Auth.CheckAuth(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("not logged in; run: taskcli login")
	}
	return nil
}
