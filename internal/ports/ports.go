package ports

import (
	"context"
	"time"

	"github.com/taskmaster/client/internal/domain/entities"
)

// TaskAPI is the task service contract consumed by the store. Implementations
// own no state; they translate calls into request/response pairs.
type TaskAPI interface {
	List(ctx context.Context, filters entities.TaskFilters) ([]*entities.Task, *entities.Meta, error)
	Get(ctx context.Context, id string) (*entities.Task, error)
	Create(ctx context.Context, req CreateTaskRequest) (*entities.Task, error)
	Update(ctx context.Context, id string, req UpdateTaskRequest) (*entities.Task, error)
	Patch(ctx context.Context, id string, req UpdateTaskRequest) (*entities.Task, error)
	Delete(ctx context.Context, id string) error

	Complete(ctx context.Context, id string) (*entities.Task, error)
	Incomplete(ctx context.Context, id string) (*entities.Task, error)
	UpdatePriority(ctx context.Context, id string, priority entities.Priority) (*entities.Task, error)
	UpdateDueDate(ctx context.Context, id string, dueDate *time.Time) (*entities.Task, error)
	Duplicate(ctx context.Context, id, title string) (*entities.Task, error)

	Search(ctx context.Context, term string, filters entities.TaskFilters) ([]*entities.Task, *entities.Meta, error)

	DueToday(ctx context.Context) ([]*entities.Task, error)
	DueThisWeek(ctx context.Context) ([]*entities.Task, error)
	DueNextWeek(ctx context.Context) ([]*entities.Task, error)
	DueThisMonth(ctx context.Context) ([]*entities.Task, error)
	Overdue(ctx context.Context, priority entities.Priority) ([]*entities.Task, error)
	DateRange(ctx context.Context, start, end string, filters entities.TaskFilters) ([]*entities.Task, error)

	Stats(ctx context.Context) (*entities.TaskStats, error)
	DailySummary(ctx context.Context) (*entities.DailySummary, error)

	BulkComplete(ctx context.Context, ids []string) ([]*entities.Task, error)
	BulkDelete(ctx context.Context, ids []string) error
	DeleteAllCompleted(ctx context.Context) error
}

// AuthAPI is the auth service contract. The real variant speaks HTTP; the
// mock variant simulates the same contract in process. The strategy is
// chosen once at startup and injected into every consumer.
type AuthAPI interface {
	Login(ctx context.Context, req LoginRequest) (*entities.Session, error)
	Register(ctx context.Context, req RegisterRequest) (*entities.Session, error)
	Logout(ctx context.Context) error
	Refresh(ctx context.Context) (*entities.Session, error)
	Me(ctx context.Context) (*entities.User, error)
	Valid(session *entities.Session) bool
}

// SessionStore persists the process-wide session singleton. Both auth
// variants read and write through the same store.
type SessionStore interface {
	Get() (*entities.Session, error)
	Set(session *entities.Session) error
	Clear() error
}

// Notifier delivers one-shot user-visible notifications, the terminal
// analog of toast messages.
type Notifier interface {
	Success(message string)
	Info(message string)
	Warn(message string)
	Error(message string)
}

// CreateTaskRequest is the payload for creating a task
type CreateTaskRequest struct {
	Title       string            `json:"title" validate:"required,min=1"`
	Description *string           `json:"description,omitempty"`
	Priority    entities.Priority `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	DueDate     *time.Time        `json:"dueDate,omitempty"`
}

// UpdateTaskRequest is a partial task mutation; nil fields are untouched
type UpdateTaskRequest struct {
	Title       *string            `json:"title,omitempty" validate:"omitempty,min=1"`
	Description *string            `json:"description,omitempty"`
	Priority    *entities.Priority `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	Completed   *bool              `json:"completed,omitempty"`
	DueDate     *time.Time         `json:"dueDate,omitempty"`
}

// LoginRequest carries user credentials
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest carries a new account registration
type RegisterRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}
