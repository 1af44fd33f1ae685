package entities

import (
	"errors"
	"time"
)

// Common errors
var (
	ErrEmptyTitle       = errors.New("task title cannot be empty")
	ErrInvalidPriority  = errors.New("invalid priority")
	ErrTaskNotFound     = errors.New("task not found")
	ErrNoSession        = errors.New("no active session")
	ErrSessionExpired   = errors.New("session expired")
	ErrInvalidToken     = errors.New("invalid token")
	ErrUserNotFound     = errors.New("user not found")
	ErrWrongPassword    = errors.New("wrong password")
	ErrUserExists       = errors.New("user already exists")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
)

// Priority is the task priority level
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// IsValid reports whether the priority is one of the known levels
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// SortField is a field the task service can sort by
type SortField string

const (
	SortByTitle     SortField = "title"
	SortByPriority  SortField = "priority"
	SortByDueDate   SortField = "dueDate"
	SortByCreatedAt SortField = "createdAt"
)

// IsValid reports whether the sort field is accepted by the task service
func (f SortField) IsValid() bool {
	switch f {
	case SortByTitle, SortByPriority, SortByDueDate, SortByCreatedAt:
		return true
	default:
		return false
	}
}

// SortOrder is the sort direction
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Task is the client-side copy of a task owned by the task service.
// ID and the timestamps are server-assigned and immutable here.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Priority    Priority   `json:"priority"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// IsOverdue reports whether the task's due date has passed and the task
// is still pending
func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil || t.Completed {
		return false
	}
	return t.DueDate.Before(now)
}

// User represents an authenticated user
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	LastLogin time.Time `json:"lastLogin"`
}

// Session is a persisted authentication session: the user record plus
// the bearer token presented to the task service
type Session struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// TaskStats are global aggregates computed by the task service. They are
// never derived from the locally cached (filtered, paginated) collection.
type TaskStats struct {
	Total          int            `json:"total"`
	Completed      int            `json:"completed"`
	Pending        int            `json:"pending"`
	Overdue        int            `json:"overdue"`
	CompletionRate float64        `json:"completionRate"`
	ByPriority     PriorityCounts `json:"byPriority"`
}

// PriorityCounts breaks a task count down by priority level
type PriorityCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// DailySummary is the task service's daily digest
type DailySummary struct {
	DueToday        int           `json:"dueToday"`
	Overdue         int           `json:"overdue"`
	Completed       int           `json:"completed"`
	HighPriority    int           `json:"highPriority"`
	Recommendations []string      `json:"recommendations"`
	Productivity    Productivity  `json:"productivity"`
	UrgentActions   UrgentActions `json:"urgentActions"`
}

// Productivity holds completion counters for the daily summary
type Productivity struct {
	CompletedToday    int     `json:"completedToday"`
	CompletedThisWeek int     `json:"completedThisWeek"`
	CompletionRate    float64 `json:"completionRate"`
}

// UrgentActions counts tasks needing immediate attention
type UrgentActions struct {
	OverdueHighPriority  int `json:"overdueHighPriority"`
	DueTodayHighPriority int `json:"dueTodayHighPriority"`
}

// Meta is the pagination block attached to list responses
type Meta struct {
	Timestamp  string `json:"timestamp,omitempty"`
	Total      int    `json:"total"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"totalPages"`
}

// Response is the {success, data, message?, meta?} envelope every task
// service endpoint speaks
type Response[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
	Meta    *Meta  `json:"meta,omitempty"`
}

// PageCount derives the number of pages from a total and a page size.
// An empty but valid result set still counts as one page.
func PageCount(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 1
	}
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return pages
}
