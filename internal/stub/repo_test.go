package stub

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/client/internal/domain/entities"
	"github.com/taskmaster/client/internal/ports"
)

var repoNow = time.Date(2024, 6, 17, 12, 0, 0, 0, time.UTC) // a Monday

func newTestRepo() *Repo {
	r := NewRepo()
	r.now = func() time.Time { return repoNow }
	return r
}

func seed(r *Repo, title string, priority entities.Priority, completed bool, dueOffset *int) *entities.Task {
	var due *time.Time
	if dueOffset != nil {
		d := time.Date(repoNow.Year(), repoNow.Month(), repoNow.Day(), 0, 0, 0, 0, time.UTC).
			AddDate(0, 0, *dueOffset)
		due = &d
	}
	t := r.Create(ports.CreateTaskRequest{Title: title, Priority: priority, DueDate: due})
	if completed {
		updated, _ := r.SetCompleted(t.ID, true)
		return updated
	}
	return t
}

func days(n int) *int { return &n }

func TestRepoFilterByCompletion(t *testing.T) {
	r := newTestRepo()
	seed(r, "open one", entities.PriorityLow, false, nil)
	seed(r, "done one", entities.PriorityLow, true, nil)

	done := true
	f := entities.DefaultFilters()
	f.Completed = &done

	tasks, total := r.List(f)
	require.Equal(t, 1, total)
	assert.Equal(t, "done one", tasks[0].Title)
}

func TestRepoFilterByPriority(t *testing.T) {
	r := newTestRepo()
	seed(r, "urgent", entities.PriorityHigh, false, nil)
	seed(r, "someday", entities.PriorityLow, false, nil)

	f := entities.DefaultFilters()
	f.Priority = entities.PriorityHigh

	tasks, total := r.List(f)
	require.Equal(t, 1, total)
	assert.Equal(t, "urgent", tasks[0].Title)
}

func TestRepoSearchMatchesTitleAndDescription(t *testing.T) {
	r := newTestRepo()
	desc := "quarterly budget review"
	r.Create(ports.CreateTaskRequest{Title: "Misc admin", Description: &desc})
	seed(r, "Fix BUDGET spreadsheet", entities.PriorityMedium, false, nil)
	seed(r, "Walk the dog", entities.PriorityLow, false, nil)

	f := entities.DefaultFilters()
	f.Search = "budget"

	_, total := r.List(f)
	assert.Equal(t, 2, total, "search is case-insensitive over title and description")
}

func TestRepoDueDateRangeFilter(t *testing.T) {
	r := newTestRepo()
	seed(r, "yesterday", entities.PriorityLow, false, days(-1))
	seed(r, "today", entities.PriorityLow, false, days(0))
	seed(r, "next week", entities.PriorityLow, false, days(8))
	seed(r, "no date", entities.PriorityLow, false, nil)

	f := entities.DefaultFilters()
	f.DueDateFrom = repoNow.Format("2006-01-02")
	f.DueDateTo = repoNow.AddDate(0, 0, 7).Format("2006-01-02")

	tasks, total := r.List(f)
	require.Equal(t, 1, total)
	assert.Equal(t, "today", tasks[0].Title)
}

func TestRepoSortByTitle(t *testing.T) {
	r := newTestRepo()
	seed(r, "banana", entities.PriorityLow, false, nil)
	seed(r, "Apple", entities.PriorityLow, false, nil)
	seed(r, "cherry", entities.PriorityLow, false, nil)

	f := entities.DefaultFilters()
	f.SortBy = entities.SortByTitle
	f.SortOrder = entities.SortAsc

	tasks, _ := r.List(f)
	titles := []string{tasks[0].Title, tasks[1].Title, tasks[2].Title}
	assert.Equal(t, []string{"Apple", "banana", "cherry"}, titles)
}

func TestRepoSortByPriorityDesc(t *testing.T) {
	r := newTestRepo()
	seed(r, "low", entities.PriorityLow, false, nil)
	seed(r, "high", entities.PriorityHigh, false, nil)
	seed(r, "medium", entities.PriorityMedium, false, nil)

	f := entities.DefaultFilters()
	f.SortBy = entities.SortByPriority
	f.SortOrder = entities.SortDesc

	tasks, _ := r.List(f)
	assert.Equal(t, "high", tasks[0].Title)
	assert.Equal(t, "low", tasks[2].Title)
}

func TestRepoSortByDueDateNilsLast(t *testing.T) {
	r := newTestRepo()
	seed(r, "later", entities.PriorityLow, false, days(5))
	seed(r, "dateless", entities.PriorityLow, false, nil)
	seed(r, "soon", entities.PriorityLow, false, days(1))

	f := entities.DefaultFilters()
	f.SortBy = entities.SortByDueDate
	f.SortOrder = entities.SortAsc

	tasks, _ := r.List(f)
	assert.Equal(t, "soon", tasks[0].Title)
	assert.Equal(t, "later", tasks[1].Title)
	assert.Equal(t, "dateless", tasks[2].Title)
}

func TestRepoPagination(t *testing.T) {
	r := newTestRepo()
	for i := 0; i < 25; i++ {
		seed(r, "task", entities.PriorityLow, false, nil)
	}

	f := entities.DefaultFilters()
	f.Page = 3
	f.Limit = 10

	tasks, total := r.List(f)
	assert.Equal(t, 25, total)
	assert.Len(t, tasks, 5, "last page holds the remainder")

	f.Page = 4
	tasks, total = r.List(f)
	assert.Equal(t, 25, total)
	assert.Empty(t, tasks, "out-of-range page is empty, not an error")
}

func TestRepoUpdatePartialFields(t *testing.T) {
	r := newTestRepo()
	created := seed(r, "original", entities.PriorityLow, false, nil)

	title := "renamed"
	updated, err := r.Update(created.ID, ports.UpdateTaskRequest{Title: &title})
	require.NoError(t, err)

	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, entities.PriorityLow, updated.Priority, "untouched fields survive")
}

func TestRepoUpdateUnknownID(t *testing.T) {
	r := newTestRepo()
	_, err := r.Update("missing", ports.UpdateTaskRequest{})
	assert.ErrorIs(t, err, entities.ErrTaskNotFound)
}

func TestRepoDuplicateKeepsFieldsResetsCompletion(t *testing.T) {
	r := newTestRepo()
	src := seed(r, "template", entities.PriorityHigh, true, days(3))

	dup, err := r.Duplicate(src.ID, "")
	require.NoError(t, err)

	assert.Equal(t, "template (copy)", dup.Title)
	assert.Equal(t, entities.PriorityHigh, dup.Priority)
	assert.False(t, dup.Completed, "a duplicate starts pending")
	assert.NotEqual(t, src.ID, dup.ID)
}

func TestRepoOverdueSkipsCompleted(t *testing.T) {
	r := newTestRepo()
	seed(r, "overdue open", entities.PriorityHigh, false, days(-2))
	seed(r, "overdue done", entities.PriorityHigh, true, days(-2))
	seed(r, "future", entities.PriorityHigh, false, days(2))

	overdue := r.Overdue("")
	require.Len(t, overdue, 1)
	assert.Equal(t, "overdue open", overdue[0].Title)
}

func TestRepoStats(t *testing.T) {
	r := newTestRepo()
	seed(r, "a", entities.PriorityHigh, false, days(-1))
	seed(r, "b", entities.PriorityMedium, true, nil)
	seed(r, "c", entities.PriorityLow, false, nil)
	seed(r, "d", entities.PriorityHigh, true, nil)

	stats := r.Stats()
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Completed)
	assert.Equal(t, 2, stats.Pending)
	assert.Equal(t, 1, stats.Overdue)
	assert.InDelta(t, 50.0, stats.CompletionRate, 0.01)
	assert.Equal(t, 2, stats.ByPriority.High)
	assert.Equal(t, 1, stats.ByPriority.Medium)
	assert.Equal(t, 1, stats.ByPriority.Low)
}

func TestRepoDailySummary(t *testing.T) {
	r := newTestRepo()
	seed(r, "due today high", entities.PriorityHigh, false, days(0))
	seed(r, "overdue high", entities.PriorityHigh, false, days(-1))
	seed(r, "done", entities.PriorityLow, true, nil)

	summary := r.DailySummary()
	assert.Equal(t, 1, summary.DueToday)
	assert.Equal(t, 1, summary.Overdue)
	assert.Equal(t, 1, summary.Completed)
	assert.Equal(t, 1, summary.UrgentActions.DueTodayHighPriority)
	assert.Equal(t, 1, summary.UrgentActions.OverdueHighPriority)
	assert.NotEmpty(t, summary.Recommendations)
}

func TestRepoBulkCompleteSkipsUnknown(t *testing.T) {
	r := newTestRepo()
	a := seed(r, "a", entities.PriorityLow, false, nil)
	b := seed(r, "b", entities.PriorityLow, false, nil)

	updated := r.BulkComplete([]string{a.ID, "ghost", b.ID})

	assert.Len(t, updated, 2)
	for _, task := range updated {
		assert.True(t, task.Completed)
	}
}

func TestRepoBulkDeleteCountsRemoved(t *testing.T) {
	r := newTestRepo()
	a := seed(r, "a", entities.PriorityLow, false, nil)
	seed(r, "b", entities.PriorityLow, false, nil)

	removed := r.BulkDelete([]string{a.ID, "ghost"})

	assert.Equal(t, 1, removed)
	_, total := r.List(entities.DefaultFilters())
	assert.Equal(t, 1, total)
}

func TestRepoPurgeCompleted(t *testing.T) {
	r := newTestRepo()
	seed(r, "done a", entities.PriorityLow, true, nil)
	seed(r, "done b", entities.PriorityLow, true, nil)
	seed(r, "open", entities.PriorityLow, false, nil)

	removed := r.PurgeCompleted()

	assert.Equal(t, 2, removed)
	tasks, total := r.List(entities.DefaultFilters())
	require.Equal(t, 1, total)
	assert.Equal(t, "open", tasks[0].Title)
}
