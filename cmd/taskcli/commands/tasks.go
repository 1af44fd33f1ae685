package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskmaster/client/internal/domain/entities"
	"github.com/taskmaster/client/internal/ports"
)

func addListFlags(cmd *cobra.Command) {
	cmd.Flags().String("status", "", "Filter by status (pending|done)")
	cmd.Flags().String("priority", "", "Filter by priority (low|medium|high)")
	cmd.Flags().String("due-from", "", "Filter by due date from (YYYY-MM-DD)")
	cmd.Flags().String("due-to", "", "Filter by due date to (YYYY-MM-DD)")
	cmd.Flags().String("sort", "", "Sort field (title|priority|dueDate|createdAt)")
	cmd.Flags().String("order", "", "Sort order (asc|desc)")
	cmd.Flags().Int("page", 0, "Page number")
	cmd.Flags().Int("limit", 0, "Page size")
}

// filtersFromFlags translates list flags into a partial filter update
func filtersFromFlags(cmd *cobra.Command) (entities.FilterUpdate, error) {
	var update entities.FilterUpdate

	if v, _ := cmd.Flags().GetString("status"); v != "" {
		switch v {
		case "pending":
			f := false
			update.Completed = &f
		case "done":
			t := true
			update.Completed = &t
		default:
			return update, fmt.Errorf("invalid status %q (want pending or done)", v)
		}
	}
	if v, _ := cmd.Flags().GetString("priority"); v != "" {
		p := entities.Priority(v)
		if !p.IsValid() {
			return update, entities.ErrInvalidPriority
		}
		update.Priority = &p
	}
	if v, _ := cmd.Flags().GetString("due-from"); v != "" {
		update.DueDateFrom = &v
	}
	if v, _ := cmd.Flags().GetString("due-to"); v != "" {
		update.DueDateTo = &v
	}
	if v, _ := cmd.Flags().GetString("sort"); v != "" {
		f := entities.SortField(v)
		if !f.IsValid() {
			return update, fmt.Errorf("invalid sort field %q", v)
		}
		update.SortBy = &f
	}
	if v, _ := cmd.Flags().GetString("order"); v != "" {
		o := entities.SortOrder(v)
		if o != entities.SortAsc && o != entities.SortDesc {
			return update, fmt.Errorf("invalid sort order %q (want asc or desc)", v)
		}
		update.SortOrder = &o
	}
	if v, _ := cmd.Flags().GetInt("page"); v > 0 {
		update.Page = &v
	}
	if v, _ := cmd.Flags().GetInt("limit"); v > 0 {
		update.Limit = &v
	}
	return update, nil
}

func loggedInApp(ctx context.Context) (*App, error) {
	app, err := NewApp()
	if err != nil {
		return nil, err
	}
	if err := requireLogin(ctx, app); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

// NewListCommand creates the list command
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loggedInApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			update, err := filtersFromFlags(cmd)
			if err != nil {
				return err
			}
			app.Store.SetFilters(update)

			if err := app.Store.Fetch(cmd.Context(), nil); err != nil {
				return err
			}
			for _, id := range loadSelection(app.Config) {
				app.Store.ToggleSelection(id)
			}
			renderTasks(app.Store)
			return nil
		},
	}
	addListFlags(cmd)
	return cmd
}

// NewShowCommand creates the show command
func NewShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one task in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loggedInApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			task, err := app.Tasks.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			renderTask(task)
			return nil
		},
	}
}

// NewCreateCommand creates the create command
func NewCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loggedInApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			req := ports.CreateTaskRequest{Title: strings.Join(args, " ")}
			if v, _ := cmd.Flags().GetString("description"); v != "" {
				req.Description = &v
			}
			if v, _ := cmd.Flags().GetString("priority"); v != "" {
				req.Priority = entities.Priority(v)
			}
			if v, _ := cmd.Flags().GetString("due"); v != "" {
				due, err := parseDueDate(v)
				if err != nil {
					return err
				}
				req.DueDate = &due
			}

			task, err := app.Store.Create(cmd.Context(), req)
			if err != nil {
				return err
			}
			renderTask(task)
			return nil
		},
	}

	cmd.Flags().String("description", "", "Task description")
	cmd.Flags().String("priority", "", "Priority (low|medium|high)")
	cmd.Flags().String("due", "", "Due date (YYYY-MM-DD, today, tomorrow)")
	return cmd
}

// NewEditCommand creates the edit command
func NewEditCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a task's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loggedInApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			var req ports.UpdateTaskRequest
			if cmd.Flags().Changed("title") {
				v, _ := cmd.Flags().GetString("title")
				req.Title = &v
			}
			if cmd.Flags().Changed("description") {
				v, _ := cmd.Flags().GetString("description")
				req.Description = &v
			}
			if cmd.Flags().Changed("priority") {
				v, _ := cmd.Flags().GetString("priority")
				p := entities.Priority(v)
				if !p.IsValid() {
					return entities.ErrInvalidPriority
				}
				req.Priority = &p
			}
			if req.Title == nil && req.Description == nil && req.Priority == nil {
				return fmt.Errorf("nothing to change; pass --title, --description or --priority")
			}

			task, err := app.Store.Update(cmd.Context(), args[0], req)
			if err != nil {
				return err
			}
			renderTask(task)
			return nil
		},
	}

	cmd.Flags().String("title", "", "New title")
	cmd.Flags().String("description", "", "New description")
	cmd.Flags().String("priority", "", "New priority (low|medium|high)")
	return cmd
}

// NewRemoveCommand creates the rm command
func NewRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loggedInApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			return app.Store.Remove(cmd.Context(), args[0])
		},
	}
}

// NewDoneCommand creates the done command
func NewDoneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loggedInApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			_, err = app.Store.ToggleComplete(cmd.Context(), args[0], true)
			return err
		},
	}
}

// NewUndoneCommand creates the undone command
func NewUndoneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "undone <id>",
		Short: "Mark a task pending again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loggedInApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			_, err = app.Store.ToggleComplete(cmd.Context(), args[0], false)
			return err
		},
	}
}

// NewPriorityCommand creates the priority command
func NewPriorityCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "priority <id> <low|medium|high>",
		Short: "Change a task's priority",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loggedInApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			_, err = app.Store.ChangePriority(cmd.Context(), args[0], entities.Priority(args[1]))
			return err
		},
	}
}

// NewDueCommand creates the due command
func NewDueCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "due <id> <date|clear>",
		Short: "Change or clear a task's due date",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loggedInApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			if args[1] == "clear" {
				_, err = app.Store.ChangeDueDate(cmd.Context(), args[0], nil)
				return err
			}

			due, err := parseDueDate(args[1])
			if err != nil {
				return err
			}
			_, err = app.Store.ChangeDueDate(cmd.Context(), args[0], &due)
			return err
		},
	}
}

// NewDuplicateCommand creates the duplicate command
func NewDuplicateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "duplicate <id>",
		Short: "Copy a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loggedInApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			title, _ := cmd.Flags().GetString("title")
			task, err := app.Store.Duplicate(cmd.Context(), args[0], title)
			if err != nil {
				return err
			}
			renderTask(task)
			return nil
		},
	}

	cmd.Flags().String("title", "", "Title for the copy (defaults to the source title)")
	return cmd
}

// NewClearCompletedCommand creates the clear-completed command
func NewClearCompletedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-completed",
		Short: "Delete every completed task",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loggedInApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Store.DeleteAllCompleted(cmd.Context()); err != nil {
				return err
			}
			renderTasks(app.Store)
			return nil
		},
	}
}

// parseDueDate accepts an ISO date or a relative keyword
func parseDueDate(v string) (time.Time, error) {
	now := time.Now()
	switch strings.ToLower(v) {
	case "today":
		return now, nil
	case "tomorrow":
		return now.AddDate(0, 0, 1), nil
	}
	due, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid due date %q (want YYYY-MM-DD, today or tomorrow)", v)
	}
	return due, nil
}
