package api

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/taskmaster/client/internal/domain/entities"
	"github.com/taskmaster/client/internal/ports"
)

// TaskClient speaks the task service's REST contract. It owns no state;
// reconciliation of responses into the cache is the store's job.
type TaskClient struct {
	client *Client
}

// NewTaskClient creates a task service client over the shared transport
func NewTaskClient(client *Client) *TaskClient {
	return &TaskClient{client: client}
}

var _ ports.TaskAPI = (*TaskClient)(nil)

// List fetches tasks matching the filters, with pagination metadata
func (t *TaskClient) List(ctx context.Context, filters entities.TaskFilters) ([]*entities.Task, *entities.Meta, error) {
	return do[[]*entities.Task](ctx, t.client, http.MethodGet, "/tasks", filters.QueryValues(), nil)
}

// Get fetches a single task by id
func (t *TaskClient) Get(ctx context.Context, id string) (*entities.Task, error) {
	task, _, err := do[*entities.Task](ctx, t.client, http.MethodGet, "/tasks/"+id, nil, nil)
	return task, err
}

// Create creates a task; the server assigns id and timestamps
func (t *TaskClient) Create(ctx context.Context, req ports.CreateTaskRequest) (*entities.Task, error) {
	task, _, err := do[*entities.Task](ctx, t.client, http.MethodPost, "/tasks", nil, req)
	return task, err
}

// Update replaces a task's mutable fields
func (t *TaskClient) Update(ctx context.Context, id string, req ports.UpdateTaskRequest) (*entities.Task, error) {
	task, _, err := do[*entities.Task](ctx, t.client, http.MethodPut, "/tasks/"+id, nil, req)
	return task, err
}

// Patch applies a partial field-level update
func (t *TaskClient) Patch(ctx context.Context, id string, req ports.UpdateTaskRequest) (*entities.Task, error) {
	task, _, err := do[*entities.Task](ctx, t.client, http.MethodPatch, "/tasks/"+id, nil, req)
	return task, err
}

// Delete removes a task
func (t *TaskClient) Delete(ctx context.Context, id string) error {
	_, _, err := do[struct{}](ctx, t.client, http.MethodDelete, "/tasks/"+id, nil, nil)
	return err
}

// Complete marks a task completed through the dedicated endpoint
func (t *TaskClient) Complete(ctx context.Context, id string) (*entities.Task, error) {
	task, _, err := do[*entities.Task](ctx, t.client, http.MethodPatch, "/tasks/"+id+"/complete", nil, nil)
	return task, err
}

// Incomplete marks a task pending again
func (t *TaskClient) Incomplete(ctx context.Context, id string) (*entities.Task, error) {
	task, _, err := do[*entities.Task](ctx, t.client, http.MethodPatch, "/tasks/"+id+"/incomplete", nil, nil)
	return task, err
}

// UpdatePriority changes only the priority field
func (t *TaskClient) UpdatePriority(ctx context.Context, id string, priority entities.Priority) (*entities.Task, error) {
	body := map[string]entities.Priority{"priority": priority}
	task, _, err := do[*entities.Task](ctx, t.client, http.MethodPatch, "/tasks/"+id+"/priority", nil, body)
	return task, err
}

// UpdateDueDate changes only the due date; nil clears it
func (t *TaskClient) UpdateDueDate(ctx context.Context, id string, dueDate *time.Time) (*entities.Task, error) {
	body := map[string]*time.Time{"dueDate": dueDate}
	task, _, err := do[*entities.Task](ctx, t.client, http.MethodPatch, "/tasks/"+id+"/due-date", nil, body)
	return task, err
}

// Duplicate asks the server to copy a task, optionally retitled
func (t *TaskClient) Duplicate(ctx context.Context, id, title string) (*entities.Task, error) {
	body := map[string]string{}
	if title != "" {
		body["title"] = title
	}
	task, _, err := do[*entities.Task](ctx, t.client, http.MethodPost, "/tasks/"+id+"/duplicate", nil, body)
	return task, err
}

// Search lists tasks for a search term combined with the given filters
func (t *TaskClient) Search(ctx context.Context, term string, filters entities.TaskFilters) ([]*entities.Task, *entities.Meta, error) {
	filters.Search = term
	return do[[]*entities.Task](ctx, t.client, http.MethodGet, "/tasks", filters.QueryValues(), nil)
}

// DueToday lists tasks due on the current day
func (t *TaskClient) DueToday(ctx context.Context) ([]*entities.Task, error) {
	tasks, _, err := do[[]*entities.Task](ctx, t.client, http.MethodGet, "/tasks/due-today", nil, nil)
	return tasks, err
}

// DueThisWeek lists tasks due in the current week
func (t *TaskClient) DueThisWeek(ctx context.Context) ([]*entities.Task, error) {
	tasks, _, err := do[[]*entities.Task](ctx, t.client, http.MethodGet, "/tasks/due-this-week", nil, nil)
	return tasks, err
}

// DueNextWeek lists tasks due in the following week
func (t *TaskClient) DueNextWeek(ctx context.Context) ([]*entities.Task, error) {
	tasks, _, err := do[[]*entities.Task](ctx, t.client, http.MethodGet, "/tasks/due-next-week", nil, nil)
	return tasks, err
}

// DueThisMonth lists tasks due in the current month
func (t *TaskClient) DueThisMonth(ctx context.Context) ([]*entities.Task, error) {
	tasks, _, err := do[[]*entities.Task](ctx, t.client, http.MethodGet, "/tasks/due-this-month", nil, nil)
	return tasks, err
}

// Overdue lists overdue tasks, optionally narrowed to one priority
func (t *TaskClient) Overdue(ctx context.Context, priority entities.Priority) ([]*entities.Task, error) {
	var query url.Values
	if priority != "" {
		query = url.Values{"priority": []string{string(priority)}}
	}
	tasks, _, err := do[[]*entities.Task](ctx, t.client, http.MethodGet, "/tasks/overdue", query, nil)
	return tasks, err
}

// DateRange lists tasks due between two ISO dates, combined with filters
func (t *TaskClient) DateRange(ctx context.Context, start, end string, filters entities.TaskFilters) ([]*entities.Task, error) {
	query := filters.QueryValues()
	query.Set("startDate", start)
	query.Set("endDate", end)
	tasks, _, err := do[[]*entities.Task](ctx, t.client, http.MethodGet, "/tasks/date-range", query, nil)
	return tasks, err
}

// Stats fetches the global aggregates
func (t *TaskClient) Stats(ctx context.Context) (*entities.TaskStats, error) {
	stats, _, err := do[*entities.TaskStats](ctx, t.client, http.MethodGet, "/tasks/stats", nil, nil)
	return stats, err
}

// DailySummary fetches the daily digest
func (t *TaskClient) DailySummary(ctx context.Context) (*entities.DailySummary, error) {
	summary, _, err := do[*entities.DailySummary](ctx, t.client, http.MethodGet, "/tasks/daily-summary", nil, nil)
	return summary, err
}

// BulkComplete completes every task in ids, returning the updated copies
func (t *TaskClient) BulkComplete(ctx context.Context, ids []string) ([]*entities.Task, error) {
	body := map[string][]string{"ids": ids}
	tasks, _, err := do[[]*entities.Task](ctx, t.client, http.MethodPost, "/tasks/bulk/complete", nil, body)
	return tasks, err
}

// BulkDelete removes every task in ids
func (t *TaskClient) BulkDelete(ctx context.Context, ids []string) error {
	body := map[string][]string{"ids": ids}
	_, _, err := do[struct{}](ctx, t.client, http.MethodPost, "/tasks/bulk/delete", nil, body)
	return err
}

// DeleteAllCompleted purges every completed task server-side. The response
// does not name the affected ids, so callers must refetch to resynchronize.
func (t *TaskClient) DeleteAllCompleted(ctx context.Context) error {
	_, _, err := do[struct{}](ctx, t.client, http.MethodDelete, "/tasks/bulk/completed", nil, nil)
	return err
}
