// Package store holds the authoritative client-side task state: the cached
// collection, active filters, pagination metadata, selection set and stats.
// Every mutation goes through the task service and reconciles the response
// back into the cache; the server response is always the source of truth.
package store

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/taskmaster/client/internal/adapters/api"
	"github.com/taskmaster/client/internal/domain/entities"
	"github.com/taskmaster/client/internal/infrastructure/logger"
	"github.com/taskmaster/client/internal/infrastructure/notify"
	"github.com/taskmaster/client/internal/ports"
)

// Store is the single authoritative in-memory representation of the task
// list. Only the store mutates this state. One operation is assumed in
// flight at a time; the mutex guards against accidental concurrent use,
// it does not order overlapping mutations.
type Store struct {
	mu       sync.Mutex
	tasksAPI ports.TaskAPI
	notifier ports.Notifier
	logger   *logger.Logger
	validate *validator.Validate

	tasks    []*entities.Task
	filters  entities.TaskFilters
	selected map[string]struct{}
	stats    *entities.TaskStats
	summary  *entities.DailySummary

	currentPage int
	totalPages  int
	total       int
	loading     bool
	lastErr     error
}

// New creates a store with the default filter state
func New(tasksAPI ports.TaskAPI, notifier ports.Notifier, appLogger *logger.Logger) *Store {
	return &Store{
		tasksAPI:    tasksAPI,
		notifier:    notifier,
		logger:      appLogger.WithComponent("store"),
		validate:    validator.New(),
		filters:     entities.DefaultFilters(),
		selected:    make(map[string]struct{}),
		currentPage: 1,
		totalPages:  1,
	}
}

// Fetch loads the task collection. With a nil override the active filters
// are used; otherwise the override becomes the active filter state on
// success. On failure the prior state stays untouched.
func (s *Store) Fetch(ctx context.Context, override *entities.TaskFilters) error {
	s.mu.Lock()
	filters := s.filters
	if override != nil {
		filters = *override
	}
	s.loading = true
	s.lastErr = nil
	s.mu.Unlock()

	tasks, meta, err := s.tasksAPI.List(ctx, filters)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	if err != nil {
		return s.fail("Failed to load tasks", err)
	}

	s.replaceCollection(tasks, meta)
	if override != nil {
		s.filters = *override
	}
	return nil
}

// Create validates and creates a task, then prepends the server-returned
// copy to the collection. Pagination metadata is not touched.
func (s *Store) Create(ctx context.Context, req ports.CreateTaskRequest) (*entities.Task, error) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		s.recordErr(entities.ErrEmptyTitle)
		s.notifier.Error(entities.ErrEmptyTitle.Error())
		return nil, entities.ErrEmptyTitle
	}
	if err := s.validate.Struct(req); err != nil {
		s.recordErr(err)
		s.notifier.Error(notify.FailureMessage("Failed to create task", notify.MsgValidationError))
		return nil, err
	}
	normalizeCreate(&req)

	s.setLoading(true)
	task, err := s.tasksAPI.Create(ctx, req)
	s.setLoading(false)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		return nil, s.fail("Failed to create task", err)
	}

	s.tasks = append([]*entities.Task{task}, s.tasks...)
	s.total++
	s.notifier.Success(notify.MsgTaskCreated)
	return task, nil
}

// Update replaces the cached task with the server-returned copy. An id
// unknown locally leaves the collection unchanged.
func (s *Store) Update(ctx context.Context, id string, req ports.UpdateTaskRequest) (*entities.Task, error) {
	if err := s.validate.Struct(req); err != nil {
		s.recordErr(err)
		s.notifier.Error(notify.FailureMessage("Failed to update task", notify.MsgValidationError))
		return nil, err
	}

	s.setLoading(true)
	task, err := s.tasksAPI.Update(ctx, id, req)
	s.setLoading(false)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		return nil, s.fail("Failed to update task", err)
	}

	s.replaceTask(task)
	s.notifier.Success(notify.MsgTaskUpdated)
	return task, nil
}

// Remove deletes a task, drops it from the collection and the selection,
// and decrements the total
func (s *Store) Remove(ctx context.Context, id string) error {
	s.setLoading(true)
	err := s.tasksAPI.Delete(ctx, id)
	s.setLoading(false)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		return s.fail("Failed to delete task", err)
	}

	s.removeTasks(map[string]struct{}{id: {}})
	s.notifier.Success(notify.MsgTaskDeleted)
	return nil
}

// ToggleComplete flips completion through the dedicated endpoints
func (s *Store) ToggleComplete(ctx context.Context, id string, completed bool) (*entities.Task, error) {
	var (
		task *entities.Task
		err  error
	)
	if completed {
		task, err = s.tasksAPI.Complete(ctx, id)
	} else {
		task, err = s.tasksAPI.Incomplete(ctx, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		return nil, s.fail("Failed to toggle task completion", err)
	}

	s.replaceTask(task)
	if completed {
		s.notifier.Success(notify.MsgTaskCompleted)
	} else {
		s.notifier.Success(notify.MsgTaskIncompleted)
	}
	return task, nil
}

// ChangePriority updates only the priority field
func (s *Store) ChangePriority(ctx context.Context, id string, priority entities.Priority) (*entities.Task, error) {
	if !priority.IsValid() {
		s.recordErr(entities.ErrInvalidPriority)
		s.notifier.Error(entities.ErrInvalidPriority.Error())
		return nil, entities.ErrInvalidPriority
	}

	task, err := s.tasksAPI.UpdatePriority(ctx, id, priority)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		return nil, s.fail("Failed to update priority", err)
	}

	s.replaceTask(task)
	s.notifier.Success(notify.MsgPriorityChanged)
	return task, nil
}

// ChangeDueDate updates only the due date; nil clears it. A non-nil date
// is normalized to midnight UTC of its calendar day.
func (s *Store) ChangeDueDate(ctx context.Context, id string, dueDate *time.Time) (*entities.Task, error) {
	if dueDate != nil {
		normalized := midnightUTC(*dueDate)
		dueDate = &normalized
	}

	task, err := s.tasksAPI.UpdateDueDate(ctx, id, dueDate)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		return nil, s.fail("Failed to update due date", err)
	}

	s.replaceTask(task)
	s.notifier.Success(notify.MsgDueDateChanged)
	return task, nil
}

// Duplicate asks the server to copy a task and prepends the new copy,
// exactly like Create
func (s *Store) Duplicate(ctx context.Context, id, title string) (*entities.Task, error) {
	s.setLoading(true)
	task, err := s.tasksAPI.Duplicate(ctx, id, title)
	s.setLoading(false)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		return nil, s.fail("Failed to duplicate task", err)
	}

	s.tasks = append([]*entities.Task{task}, s.tasks...)
	s.total++
	s.notifier.Success(notify.MsgTaskDuplicated)
	return task, nil
}

// DeleteAllCompleted purges completed tasks server-side, then refetches:
// the response names no ids, so incremental reconciliation is impossible.
func (s *Store) DeleteAllCompleted(ctx context.Context) error {
	s.setLoading(true)
	err := s.tasksAPI.DeleteAllCompleted(ctx)
	s.setLoading(false)

	if err != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.fail("Failed to delete completed tasks", err)
	}

	s.notifier.Success(notify.MsgCompletedPurged)
	return s.Fetch(ctx, nil)
}

// Search merges the term into the active filters and queries the search
// endpoint. Terms of length 1 are suppressed client-side; an empty term
// clears the search. The page resets to 1 unless extra sets it explicitly.
func (s *Store) Search(ctx context.Context, term string, extra *entities.FilterUpdate) error {
	if len(term) > 0 && len(term) < entities.MinSearchLength {
		return nil
	}

	s.mu.Lock()
	update := entities.FilterUpdate{Search: &term}
	if extra != nil {
		update.Completed = extra.Completed
		update.Priority = extra.Priority
		update.DueDateFrom = extra.DueDateFrom
		update.DueDateTo = extra.DueDateTo
		update.SortBy = extra.SortBy
		update.SortOrder = extra.SortOrder
		update.Limit = extra.Limit
		update.Page = extra.Page
	}
	filters := s.filters.Merge(update)
	s.loading = true
	s.lastErr = nil
	s.mu.Unlock()

	tasks, meta, err := s.tasksAPI.Search(ctx, term, filters)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	if err != nil {
		return s.fail("Failed to search tasks", err)
	}

	s.replaceCollection(tasks, meta)
	s.filters = filters
	return nil
}

// SetFilters merges a partial update into the active filters without
// fetching; callers decide whether to refetch
func (s *Store) SetFilters(update entities.FilterUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = s.filters.Merge(update)
}

// ClearFilters resets the filters to their defaults
func (s *Store) ClearFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = entities.DefaultFilters()
}

// GoToPage fetches a page, clamped to [1, totalPages]
func (s *Store) GoToPage(ctx context.Context, page int) error {
	s.mu.Lock()
	if page < 1 {
		page = 1
	}
	if s.totalPages > 0 && page > s.totalPages {
		page = s.totalPages
	}
	filters := s.filters.Merge(entities.FilterUpdate{Page: &page})
	s.mu.Unlock()

	return s.Fetch(ctx, &filters)
}

// FetchStats loads the global aggregates. Stats are fetched independently
// of the list: the cached subset cannot produce them.
func (s *Store) FetchStats(ctx context.Context) error {
	stats, err := s.tasksAPI.Stats(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		return s.fail("Failed to load stats", err)
	}
	s.stats = stats
	return nil
}

// FetchDailySummary loads the daily digest
func (s *Store) FetchDailySummary(ctx context.Context) error {
	summary, err := s.tasksAPI.DailySummary(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		return s.fail("Failed to load daily summary", err)
	}
	s.summary = summary
	return nil
}

// replaceCollection swaps the task collection and pagination metadata in
// from a list response. Selection is pruned so it never references a task
// the collection no longer holds.
func (s *Store) replaceCollection(tasks []*entities.Task, meta *entities.Meta) {
	s.tasks = tasks
	if meta != nil {
		s.currentPage = meta.Page
		if s.currentPage < 1 {
			s.currentPage = 1
		}
		s.total = meta.Total
		limit := meta.Limit
		if limit <= 0 {
			limit = s.filters.Limit
		}
		s.totalPages = entities.PageCount(meta.Total, limit)
	} else {
		// Display fallback before the first successful meta block
		s.currentPage = 1
		s.total = len(tasks)
		s.totalPages = 1
	}
	s.pruneSelection()
	s.lastErr = nil
}

// replaceTask swaps in a server-returned task by id; a miss is a no-op
func (s *Store) replaceTask(task *entities.Task) {
	if task == nil {
		return
	}
	for i, t := range s.tasks {
		if t.ID == task.ID {
			s.tasks[i] = task
			return
		}
	}
}

// removeTasks drops every task in ids from the collection, the selection,
// and the total
func (s *Store) removeTasks(ids map[string]struct{}) {
	kept := s.tasks[:0]
	removed := 0
	for _, t := range s.tasks {
		if _, gone := ids[t.ID]; gone {
			removed++
			delete(s.selected, t.ID)
			continue
		}
		kept = append(kept, t)
	}
	s.tasks = kept
	s.total -= removed
	if s.total < 0 {
		s.total = 0
	}
}

// fail records the error, emits one notification and hands the error back
// to the caller. Caller holds the lock.
func (s *Store) fail(operation string, err error) error {
	s.lastErr = err
	s.logger.Errorw(operation, "error", err)

	reason := err.Error()
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && strings.HasPrefix(apiErr.Message, "HTTP ") {
		reason = notify.StatusMessage(apiErr.Status)
	}
	s.notifier.Error(notify.FailureMessage(operation, reason))
	return err
}

func (s *Store) recordErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = v
	if v {
		s.lastErr = nil
	}
}

// normalizeCreate trims optional fields before transmission: an empty
// description becomes absent, a due date becomes midnight UTC of its
// calendar day
func normalizeCreate(req *ports.CreateTaskRequest) {
	if req.Description != nil && strings.TrimSpace(*req.Description) == "" {
		req.Description = nil
	}
	if req.DueDate != nil {
		normalized := midnightUTC(*req.DueDate)
		req.DueDate = &normalized
	}
}

func midnightUTC(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
