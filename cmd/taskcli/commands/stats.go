package commands

import (
	"github.com/spf13/cobra"

	"github.com/taskmaster/client/internal/domain/entities"
)

// NewStatsCommand creates the stats command
func NewStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show global task statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loggedInApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Store.FetchStats(cmd.Context()); err != nil {
				return err
			}
			renderStats(app.Store.Stats())
			return nil
		},
	}
}

// NewSummaryCommand creates the summary command
func NewSummaryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show the daily digest",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loggedInApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Store.FetchDailySummary(cmd.Context()); err != nil {
				return err
			}
			// Stats feed the due-this-week estimate; a failure here only
			// degrades that one line
			_ = app.Store.FetchStats(cmd.Context())

			renderSummary(app.Store.DailySummary(), app.Store.Stats())
			return nil
		},
	}
}

// NewDueTodayCommand creates the due-today command
func NewDueTodayCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "due-today",
		Short: "List tasks due today",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loggedInApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			tasks, err := app.Tasks.DueToday(cmd.Context())
			if err != nil {
				return err
			}
			renderTaskList(tasks)
			return nil
		},
	}
}

// NewDueWeekCommand creates the due-week command
func NewDueWeekCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "due-week",
		Short: "List tasks due this week",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loggedInApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			next, _ := cmd.Flags().GetBool("next")
			var tasks []*entities.Task
			if next {
				tasks, err = app.Tasks.DueNextWeek(cmd.Context())
			} else {
				tasks, err = app.Tasks.DueThisWeek(cmd.Context())
			}
			if err != nil {
				return err
			}
			renderTaskList(tasks)
			return nil
		},
	}

	cmd.Flags().Bool("next", false, "Show the following week instead")
	return cmd
}

// NewDueMonthCommand creates the due-month command
func NewDueMonthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "due-month",
		Short: "List tasks due this month",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loggedInApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			tasks, err := app.Tasks.DueThisMonth(cmd.Context())
			if err != nil {
				return err
			}
			renderTaskList(tasks)
			return nil
		},
	}
}

// NewOverdueCommand creates the overdue command
func NewOverdueCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "overdue",
		Short: "List overdue tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loggedInApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			priority, _ := cmd.Flags().GetString("priority")
			if priority != "" && !entities.Priority(priority).IsValid() {
				return entities.ErrInvalidPriority
			}

			tasks, err := app.Tasks.Overdue(cmd.Context(), entities.Priority(priority))
			if err != nil {
				return err
			}
			renderTaskList(tasks)
			return nil
		},
	}

	cmd.Flags().String("priority", "", "Narrow to one priority (low|medium|high)")
	return cmd
}
