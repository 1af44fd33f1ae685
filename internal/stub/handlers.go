package stub

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/taskmaster/client/internal/domain/entities"
	"github.com/taskmaster/client/internal/infrastructure/logger"
	"github.com/taskmaster/client/internal/ports"
)

// Handler exposes the repository over the task service's REST contract
type Handler struct {
	repo   *Repo
	logger *logger.Logger
}

// NewHandler creates a handler over a repository
func NewHandler(repo *Repo, appLogger *logger.Logger) *Handler {
	return &Handler{repo: repo, logger: appLogger.WithComponent("stub")}
}

// ok writes a success envelope
func ok(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

// okPage writes a success envelope with pagination metadata
func okPage(c echo.Context, data interface{}, meta *entities.Meta) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    data,
		"meta":    meta,
	})
}

// fail writes a failure envelope with a message
func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]interface{}{
		"success": false,
		"message": message,
	})
}

func pageMeta(total, page, limit int) *entities.Meta {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = entities.DefaultLimit
	}
	return &entities.Meta{
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: entities.PageCount(total, limit),
	}
}

// parseFilters reads the list query parameters
func parseFilters(c echo.Context) entities.TaskFilters {
	f := entities.DefaultFilters()
	if v := c.QueryParam("completed"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			f.Completed = &b
		}
	}
	if v := c.QueryParam("priority"); v != "" {
		f.Priority = entities.Priority(v)
	}
	f.Search = c.QueryParam("search")
	f.DueDateFrom = c.QueryParam("dueDateFrom")
	f.DueDateTo = c.QueryParam("dueDateTo")
	if v := c.QueryParam("sortBy"); v != "" {
		f.SortBy = entities.SortField(v)
	}
	if v := c.QueryParam("sortOrder"); v != "" {
		f.SortOrder = entities.SortOrder(v)
	}
	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil && v > 0 {
		f.Page = v
	}
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 {
		f.Limit = v
	}
	return f
}

// ListTasks returns one page of tasks matching the query
func (h *Handler) ListTasks(c echo.Context) error {
	filters := parseFilters(c)
	if filters.Priority != "" && !filters.Priority.IsValid() {
		return fail(c, http.StatusBadRequest, "invalid priority filter")
	}
	if filters.SortBy != "" && !filters.SortBy.IsValid() {
		return fail(c, http.StatusBadRequest, "invalid sort field")
	}

	tasks, total := h.repo.List(filters)
	return okPage(c, tasks, pageMeta(total, filters.Page, filters.Limit))
}

// GetTask returns a single task
func (h *Handler) GetTask(c echo.Context) error {
	task, err := h.repo.Get(c.Param("id"))
	if err != nil {
		return fail(c, http.StatusNotFound, "Task not found")
	}
	return ok(c, http.StatusOK, task)
}

// CreateTask creates a task from the request body
func (h *Handler) CreateTask(c echo.Context) error {
	var req ports.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	task := h.repo.Create(req)
	h.logger.Infow("task created", "id", task.ID, "title", task.Title)
	return ok(c, http.StatusCreated, task)
}

// UpdateTask applies a full or partial update
func (h *Handler) UpdateTask(c echo.Context) error {
	var req ports.UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	task, err := h.repo.Update(c.Param("id"), req)
	if err != nil {
		return fail(c, http.StatusNotFound, "Task not found")
	}
	return ok(c, http.StatusOK, task)
}

// DeleteTask removes a task
func (h *Handler) DeleteTask(c echo.Context) error {
	if err := h.repo.Delete(c.Param("id")); err != nil {
		return fail(c, http.StatusNotFound, "Task not found")
	}
	return ok(c, http.StatusOK, nil)
}

// CompleteTask marks a task completed
func (h *Handler) CompleteTask(c echo.Context) error {
	task, err := h.repo.SetCompleted(c.Param("id"), true)
	if err != nil {
		return fail(c, http.StatusNotFound, "Task not found")
	}
	return ok(c, http.StatusOK, task)
}

// IncompleteTask marks a task pending again
func (h *Handler) IncompleteTask(c echo.Context) error {
	task, err := h.repo.SetCompleted(c.Param("id"), false)
	if err != nil {
		return fail(c, http.StatusNotFound, "Task not found")
	}
	return ok(c, http.StatusOK, task)
}

// UpdatePriority changes only the priority field
func (h *Handler) UpdatePriority(c echo.Context) error {
	var body struct {
		Priority entities.Priority `json:"priority"`
	}
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request format")
	}
	if !body.Priority.IsValid() {
		return fail(c, http.StatusBadRequest, "invalid priority")
	}

	task, err := h.repo.Update(c.Param("id"), ports.UpdateTaskRequest{Priority: &body.Priority})
	if err != nil {
		return fail(c, http.StatusNotFound, "Task not found")
	}
	return ok(c, http.StatusOK, task)
}

// UpdateDueDate changes only the due date; a null body value clears it
func (h *Handler) UpdateDueDate(c echo.Context) error {
	var body struct {
		DueDate *time.Time `json:"dueDate"`
	}
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request format")
	}

	task, err := h.repo.SetDueDate(c.Param("id"), body.DueDate)
	if err != nil {
		return fail(c, http.StatusNotFound, "Task not found")
	}
	return ok(c, http.StatusOK, task)
}

// DuplicateTask copies a task, optionally retitled
func (h *Handler) DuplicateTask(c echo.Context) error {
	var body struct {
		Title string `json:"title"`
	}
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request format")
	}

	task, err := h.repo.Duplicate(c.Param("id"), body.Title)
	if err != nil {
		return fail(c, http.StatusNotFound, "Task not found")
	}
	return ok(c, http.StatusCreated, task)
}

// DueToday lists tasks due on the current day
func (h *Handler) DueToday(c echo.Context) error {
	today := startOfToday()
	return ok(c, http.StatusOK, h.repo.DueBetween(today, today.AddDate(0, 0, 1)))
}

// DueThisWeek lists tasks due from today through the end of the week
func (h *Handler) DueThisWeek(c echo.Context) error {
	today := startOfToday()
	return ok(c, http.StatusOK, h.repo.DueBetween(today, endOfWeek(today)))
}

// DueNextWeek lists tasks due in the following calendar week
func (h *Handler) DueNextWeek(c echo.Context) error {
	weekEnd := endOfWeek(startOfToday())
	return ok(c, http.StatusOK, h.repo.DueBetween(weekEnd, weekEnd.AddDate(0, 0, 7)))
}

// DueThisMonth lists tasks due from today through the end of the month
func (h *Handler) DueThisMonth(c echo.Context) error {
	today := startOfToday()
	monthEnd := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()).AddDate(0, 1, 0)
	return ok(c, http.StatusOK, h.repo.DueBetween(today, monthEnd))
}

// OverdueTasks lists pending tasks past their due date
func (h *Handler) OverdueTasks(c echo.Context) error {
	priority := entities.Priority(c.QueryParam("priority"))
	if priority != "" && !priority.IsValid() {
		return fail(c, http.StatusBadRequest, "invalid priority filter")
	}
	return ok(c, http.StatusOK, h.repo.Overdue(priority))
}

// DateRange lists tasks due between two ISO dates
func (h *Handler) DateRange(c echo.Context) error {
	start, err := time.Parse("2006-01-02", c.QueryParam("startDate"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid startDate")
	}
	end, err := time.Parse("2006-01-02", c.QueryParam("endDate"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid endDate")
	}
	return ok(c, http.StatusOK, h.repo.DueBetween(start, end.AddDate(0, 0, 1)))
}

// Stats returns the global aggregates
func (h *Handler) Stats(c echo.Context) error {
	return ok(c, http.StatusOK, h.repo.Stats())
}

// DailySummary returns the daily digest
func (h *Handler) DailySummary(c echo.Context) error {
	return ok(c, http.StatusOK, h.repo.DailySummary())
}

type bulkRequest struct {
	IDs []string `json:"ids" validate:"required,min=1"`
}

// BulkComplete completes every task in the id list
func (h *Handler) BulkComplete(c echo.Context) error {
	var req bulkRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	tasks := h.repo.BulkComplete(req.IDs)
	h.logger.Infow("bulk complete", "requested", len(req.IDs), "updated", len(tasks))
	return ok(c, http.StatusOK, tasks)
}

// BulkDelete removes every task in the id list
func (h *Handler) BulkDelete(c echo.Context) error {
	var req bulkRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	removed := h.repo.BulkDelete(req.IDs)
	h.logger.Infow("bulk delete", "requested", len(req.IDs), "removed", removed)
	return ok(c, http.StatusOK, nil)
}

// DeleteAllCompleted purges every completed task
func (h *Handler) DeleteAllCompleted(c echo.Context) error {
	removed := h.repo.PurgeCompleted()
	h.logger.Infow("purged completed tasks", "removed", removed)
	return ok(c, http.StatusOK, nil)
}

func startOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// endOfWeek returns the start of the Monday after day
func endOfWeek(day time.Time) time.Time {
	offset := int(time.Monday - day.Weekday())
	if offset > 0 {
		offset -= 7
	}
	weekStart := day.AddDate(0, 0, offset)
	return weekStart.AddDate(0, 0, 7)
}
