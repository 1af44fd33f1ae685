package stub

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taskmaster/client/internal/domain/entities"
	"github.com/taskmaster/client/internal/ports"
)

// Repo is the stub's in-memory task table. It implements the same
// filter, sort and pagination semantics as the production task service,
// which is what makes it usable as an integration test fixture.
type Repo struct {
	mu    sync.RWMutex
	tasks map[string]*entities.Task
	now   func() time.Time
}

// NewRepo creates an empty repository
func NewRepo() *Repo {
	return &Repo{
		tasks: make(map[string]*entities.Task),
		now:   time.Now,
	}
}

var priorityRank = map[entities.Priority]int{
	entities.PriorityHigh:   3,
	entities.PriorityMedium: 2,
	entities.PriorityLow:    1,
}

// List returns one page of tasks matching the filters plus the total
// match count before pagination
func (r *Repo) List(filters entities.TaskFilters) ([]*entities.Task, int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*entities.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		if r.matches(t, filters) {
			matched = append(matched, t)
		}
	}
	sortTasks(matched, filters.SortBy, filters.SortOrder)

	total := len(matched)
	page := filters.Page
	if page < 1 {
		page = 1
	}
	limit := filters.Limit
	if limit < 1 {
		limit = entities.DefaultLimit
	}
	start := (page - 1) * limit
	if start >= total {
		return []*entities.Task{}, total
	}
	end := start + limit
	if end > total {
		end = total
	}

	out := make([]*entities.Task, end-start)
	for i, t := range matched[start:end] {
		out[i] = copyTask(t)
	}
	return out, total
}

func (r *Repo) matches(t *entities.Task, f entities.TaskFilters) bool {
	if f.Completed != nil && t.Completed != *f.Completed {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		inTitle := strings.Contains(strings.ToLower(t.Title), term)
		inDesc := t.Description != nil && strings.Contains(strings.ToLower(*t.Description), term)
		if !inTitle && !inDesc {
			return false
		}
	}
	if f.DueDateFrom != "" || f.DueDateTo != "" {
		if t.DueDate == nil {
			return false
		}
		day := t.DueDate.Format("2006-01-02")
		if f.DueDateFrom != "" && day < f.DueDateFrom {
			return false
		}
		if f.DueDateTo != "" && day > f.DueDateTo {
			return false
		}
	}
	return true
}

func sortTasks(tasks []*entities.Task, by entities.SortField, order entities.SortOrder) {
	if by == "" {
		by = entities.SortByCreatedAt
	}
	if order == "" {
		order = entities.SortDesc
	}
	less := func(a, b *entities.Task) bool {
		switch by {
		case entities.SortByTitle:
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		case entities.SortByPriority:
			return priorityRank[a.Priority] < priorityRank[b.Priority]
		case entities.SortByDueDate:
			// Tasks without a due date sort last in either direction
			switch {
			case a.DueDate == nil:
				return false
			case b.DueDate == nil:
				return true
			default:
				return a.DueDate.Before(*b.DueDate)
			}
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		if order == entities.SortDesc {
			return less(tasks[j], tasks[i])
		}
		return less(tasks[i], tasks[j])
	})
}

// Get returns a copy of the task, or ErrTaskNotFound
func (r *Repo) Get(id string) (*entities.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tasks[id]
	if !ok {
		return nil, entities.ErrTaskNotFound
	}
	return copyTask(t), nil
}

// Create inserts a new task with a generated id and timestamps
func (r *Repo) Create(req ports.CreateTaskRequest) *entities.Task {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	priority := req.Priority
	if priority == "" {
		priority = entities.PriorityMedium
	}
	t := &entities.Task{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		DueDate:     req.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.tasks[t.ID] = t
	return copyTask(t)
}

// Update applies the non-nil fields of req to the task
func (r *Repo) Update(id string, req ports.UpdateTaskRequest) (*entities.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]
	if !ok {
		return nil, entities.ErrTaskNotFound
	}
	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Description != nil {
		t.Description = req.Description
	}
	if req.Priority != nil {
		t.Priority = *req.Priority
	}
	if req.Completed != nil {
		t.Completed = *req.Completed
	}
	if req.DueDate != nil {
		t.DueDate = req.DueDate
	}
	t.UpdatedAt = r.now().UTC()
	return copyTask(t), nil
}

// Delete removes a task
func (r *Repo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return entities.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

// SetCompleted flips the completion flag
func (r *Repo) SetCompleted(id string, completed bool) (*entities.Task, error) {
	return r.Update(id, ports.UpdateTaskRequest{Completed: &completed})
}

// SetDueDate replaces the due date; nil clears it
func (r *Repo) SetDueDate(id string, dueDate *time.Time) (*entities.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return nil, entities.ErrTaskNotFound
	}
	t.DueDate = dueDate
	t.UpdatedAt = r.now().UTC()
	return copyTask(t), nil
}

// Duplicate copies a task as a new pending task. An empty title keeps
// the source title with a copy suffix.
func (r *Repo) Duplicate(id, title string) (*entities.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	src, ok := r.tasks[id]
	if !ok {
		return nil, entities.ErrTaskNotFound
	}
	if title == "" {
		title = src.Title + " (copy)"
	}
	now := r.now().UTC()
	dup := &entities.Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: src.Description,
		Priority:    src.Priority,
		DueDate:     src.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.tasks[dup.ID] = dup
	return copyTask(dup), nil
}

// DueBetween returns pending and completed tasks whose due date falls in
// [from, to)
func (r *Repo) DueBetween(from, to time.Time) []*entities.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*entities.Task
	for _, t := range r.tasks {
		if t.DueDate == nil {
			continue
		}
		if !t.DueDate.Before(from) && t.DueDate.Before(to) {
			out = append(out, copyTask(t))
		}
	}
	sortTasks(out, entities.SortByDueDate, entities.SortAsc)
	return out
}

// Overdue returns pending tasks past their due date, optionally narrowed
// to one priority
func (r *Repo) Overdue(priority entities.Priority) []*entities.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := r.now()
	var out []*entities.Task
	for _, t := range r.tasks {
		if !t.IsOverdue(now) {
			continue
		}
		if priority != "" && t.Priority != priority {
			continue
		}
		out = append(out, copyTask(t))
	}
	sortTasks(out, entities.SortByDueDate, entities.SortAsc)
	return out
}

// Stats computes the global aggregates over the whole table
func (r *Repo) Stats() *entities.TaskStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := r.now()
	stats := &entities.TaskStats{}
	for _, t := range r.tasks {
		stats.Total++
		if t.Completed {
			stats.Completed++
		} else {
			stats.Pending++
		}
		if t.IsOverdue(now) {
			stats.Overdue++
		}
		switch t.Priority {
		case entities.PriorityHigh:
			stats.ByPriority.High++
		case entities.PriorityMedium:
			stats.ByPriority.Medium++
		case entities.PriorityLow:
			stats.ByPriority.Low++
		}
	}
	if stats.Total > 0 {
		stats.CompletionRate = float64(stats.Completed) / float64(stats.Total) * 100
	}
	return stats
}

// DailySummary computes the daily digest
func (r *Repo) DailySummary() *entities.DailySummary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := r.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := today.AddDate(0, 0, 1)
	weekAgo := today.AddDate(0, 0, -7)

	summary := &entities.DailySummary{}
	total := 0
	for _, t := range r.tasks {
		total++
		if t.Completed {
			summary.Completed++
			if !t.UpdatedAt.Before(today) {
				summary.Productivity.CompletedToday++
			}
			if !t.UpdatedAt.Before(weekAgo) {
				summary.Productivity.CompletedThisWeek++
			}
			continue
		}
		dueToday := t.DueDate != nil && !t.DueDate.Before(today) && t.DueDate.Before(tomorrow)
		overdue := t.IsOverdue(now)
		if dueToday {
			summary.DueToday++
			if t.Priority == entities.PriorityHigh {
				summary.UrgentActions.DueTodayHighPriority++
			}
		}
		if overdue {
			summary.Overdue++
			if t.Priority == entities.PriorityHigh {
				summary.UrgentActions.OverdueHighPriority++
			}
		}
		if t.Priority == entities.PriorityHigh {
			summary.HighPriority++
		}
	}
	if total > 0 {
		summary.Productivity.CompletionRate = float64(summary.Completed) / float64(total) * 100
	}

	if summary.Overdue > 0 {
		summary.Recommendations = append(summary.Recommendations, "Deal with overdue tasks first")
	}
	if summary.UrgentActions.DueTodayHighPriority > 0 {
		summary.Recommendations = append(summary.Recommendations, "High priority tasks are due today")
	}
	if len(summary.Recommendations) == 0 {
		summary.Recommendations = append(summary.Recommendations, "You are on track. Keep going")
	}
	return summary
}

// BulkComplete marks every existing id completed and returns the updated
// copies; unknown ids are skipped
func (r *Repo) BulkComplete(ids []string) []*entities.Task {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	var out []*entities.Task
	for _, id := range ids {
		t, ok := r.tasks[id]
		if !ok {
			continue
		}
		t.Completed = true
		t.UpdatedAt = now
		out = append(out, copyTask(t))
	}
	return out
}

// BulkDelete removes every existing id, returning the removed count
func (r *Repo) BulkDelete(ids []string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for _, id := range ids {
		if _, ok := r.tasks[id]; ok {
			delete(r.tasks, id)
			removed++
		}
	}
	return removed
}

// PurgeCompleted deletes every completed task, returning the count
func (r *Repo) PurgeCompleted() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, t := range r.tasks {
		if t.Completed {
			delete(r.tasks, id)
			removed++
		}
	}
	return removed
}

// Seed fills the repository with a small demo data set
func (r *Repo) Seed() {
	now := r.now()
	// Seed due dates are local-midnight so the date-window endpoints see
	// them in the expected buckets regardless of the host timezone
	day := func(offset int) *time.Time {
		d := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, offset)
		return &d
	}
	desc := func(s string) *string { return &s }

	seeds := []*entities.Task{
		{Title: "Review quarterly report", Description: desc("Finance needs sign-off before Friday"), Priority: entities.PriorityHigh, DueDate: day(0)},
		{Title: "Update project roadmap", Priority: entities.PriorityMedium, DueDate: day(2)},
		{Title: "Fix login page styling", Description: desc("Button misaligned on mobile"), Priority: entities.PriorityLow, DueDate: day(-1)},
		{Title: "Prepare sprint demo", Priority: entities.PriorityHigh, DueDate: day(4)},
		{Title: "Archive old tickets", Priority: entities.PriorityLow, Completed: true},
		{Title: "Write onboarding notes", Description: desc("For the new hire starting next month"), Priority: entities.PriorityMedium, DueDate: day(9)},
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i, t := range seeds {
		t.ID = uuid.NewString()
		t.CreatedAt = now.Add(time.Duration(-i) * time.Hour)
		t.UpdatedAt = t.CreatedAt
		r.tasks[t.ID] = t
	}
}

func copyTask(t *entities.Task) *entities.Task {
	c := *t
	return &c
}
