package commands

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/taskmaster/client/internal/application/store"
	"github.com/taskmaster/client/internal/dateutil"
	"github.com/taskmaster/client/internal/domain/entities"
)

// renderTasks prints the task collection as a table with the pagination
// footer
func renderTasks(s *store.Store) {
	tasks := s.Tasks()
	if len(tasks) == 0 {
		fmt.Println("No tasks found.")
		return
	}

	now := time.Now()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "\tID\tPRI\tTITLE\tDUE\tSTATUS")
	for _, t := range tasks {
		marker := " "
		if s.IsSelected(t.ID) {
			marker = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s %s\t%s\t%s\t%s\n",
			marker,
			shortID(t.ID),
			dateutil.PriorityIcon(t.Priority),
			dateutil.PriorityLabel(t.Priority),
			truncate(t.Title, 48),
			dueLabel(t, now),
			statusLabel(t),
		)
	}
	w.Flush()

	fmt.Printf("\nPage %d of %d (%d tasks total)\n", s.CurrentPage(), s.TotalPages(), s.Total())
}

// renderTask prints one task in full
func renderTask(t *entities.Task) {
	now := time.Now()
	fmt.Printf("ID:        %s\n", t.ID)
	fmt.Printf("Title:     %s\n", t.Title)
	if t.Description != nil {
		fmt.Printf("About:     %s\n", *t.Description)
	}
	fmt.Printf("Priority:  %s %s\n", dateutil.PriorityIcon(t.Priority), dateutil.PriorityLabel(t.Priority))
	fmt.Printf("Status:    %s\n", statusLabel(t))
	fmt.Printf("Due:       %s\n", dueLabel(t, now))
	fmt.Printf("Created:   %s\n", dateutil.FormatDateTime(t.CreatedAt))
	fmt.Printf("Updated:   %s\n", dateutil.FormatDateTime(t.UpdatedAt))
}

// renderStats prints the global aggregates
func renderStats(stats *entities.TaskStats) {
	fmt.Printf("Total:       %d\n", stats.Total)
	fmt.Printf("Completed:   %d (%.0f%%)\n", stats.Completed, stats.CompletionRate)
	fmt.Printf("Pending:     %d\n", stats.Pending)
	fmt.Printf("Overdue:     %d\n", stats.Overdue)
	fmt.Printf("By priority: %s %d  %s %d  %s %d\n",
		dateutil.PriorityIcon(entities.PriorityHigh), stats.ByPriority.High,
		dateutil.PriorityIcon(entities.PriorityMedium), stats.ByPriority.Medium,
		dateutil.PriorityIcon(entities.PriorityLow), stats.ByPriority.Low,
	)
}

// renderSummary prints the daily digest. When the service omits a due
// count, roughly a third of pending work is shown as due this week; the
// estimate never leaves the view layer.
func renderSummary(summary *entities.DailySummary, stats *entities.TaskStats) {
	fmt.Printf("Due today:      %d\n", summary.DueToday)
	fmt.Printf("Overdue:        %d\n", summary.Overdue)
	fmt.Printf("Completed:      %d\n", summary.Completed)
	fmt.Printf("High priority:  %d\n", summary.HighPriority)

	dueThisWeek := summary.DueToday
	if dueThisWeek == 0 && stats != nil {
		dueThisWeek = stats.Pending * 30 / 100
	}
	fmt.Printf("Due this week:  ~%d\n", dueThisWeek)

	fmt.Printf("Productivity:   %d today, %d this week (%.0f%% done)\n",
		summary.Productivity.CompletedToday,
		summary.Productivity.CompletedThisWeek,
		summary.Productivity.CompletionRate,
	)
	if summary.UrgentActions.OverdueHighPriority > 0 || summary.UrgentActions.DueTodayHighPriority > 0 {
		fmt.Printf("Urgent:         %d overdue high, %d due today high\n",
			summary.UrgentActions.OverdueHighPriority,
			summary.UrgentActions.DueTodayHighPriority,
		)
	}
	for _, rec := range summary.Recommendations {
		fmt.Printf("  - %s\n", rec)
	}
}

// renderTaskList prints a flat list without pagination, for the date
// window commands
func renderTaskList(tasks []*entities.Task) {
	if len(tasks) == 0 {
		fmt.Println("No tasks found.")
		return
	}
	now := time.Now()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, t := range tasks {
		fmt.Fprintf(w, "%s\t%s %s\t%s\t%s\n",
			shortID(t.ID),
			dateutil.PriorityIcon(t.Priority),
			truncate(t.Title, 48),
			dueLabel(t, now),
			statusLabel(t),
		)
	}
	w.Flush()
}

func dueLabel(t *entities.Task, now time.Time) string {
	if t.DueDate == nil {
		return "-"
	}
	return dateutil.RelativeLabel(*t.DueDate, now)
}

func statusLabel(t *entities.Task) string {
	if t.Completed {
		return "done"
	}
	return "pending"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
