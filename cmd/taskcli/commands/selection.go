package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// restoreSelection replays the persisted ids into the store. Ids no longer
// in the fetched collection fall away here, which keeps the persisted set
// consistent with what a bulk operation can actually touch.
func restoreSelection(ctx context.Context, app *App) error {
	if err := app.Store.Fetch(ctx, nil); err != nil {
		return err
	}
	for _, id := range loadSelection(app.Config) {
		app.Store.ToggleSelection(id)
	}
	return nil
}

// NewSelectCommand creates the select command
func NewSelectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "select <id>...",
		Short: "Add tasks to the selection",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loggedInApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			if err := restoreSelection(cmd.Context(), app); err != nil {
				return err
			}
			for _, id := range args {
				if !app.Store.IsSelected(id) {
					app.Store.ToggleSelection(id)
				}
			}
			if err := saveSelection(app.Config, app.Store.Selection()); err != nil {
				return err
			}
			fmt.Printf("%d selected\n", len(app.Store.Selection()))
			return nil
		},
	}
}

// NewUnselectCommand creates the unselect command
func NewUnselectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unselect <id>...",
		Short: "Remove tasks from the selection",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loggedInApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			if err := restoreSelection(cmd.Context(), app); err != nil {
				return err
			}
			for _, id := range args {
				if app.Store.IsSelected(id) {
					app.Store.ToggleSelection(id)
				}
			}
			if err := saveSelection(app.Config, app.Store.Selection()); err != nil {
				return err
			}
			fmt.Printf("%d selected\n", len(app.Store.Selection()))
			return nil
		},
	}
}

// NewSelectAllCommand creates the select-all command
func NewSelectAllCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "select-all",
		Short: "Select every task on the current page",
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
			app.Store.SelectAll()
			if err := saveSelection(app.Config, app.Store.Selection()); err != nil {
				return err
			}
			fmt.Printf("%d selected\n", len(app.Store.Selection()))
			return nil
		},
	}
	addListFlags(cmd)
	return cmd
}

// NewClearSelectionCommand creates the clear-selection command
func NewClearSelectionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-selection",
		Short: "Empty the selection",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp()
			if err != nil {
				return err
			}
			defer app.Close()

			return saveSelection(app.Config, nil)
		},
	}
}

// NewBulkCompleteCommand creates the bulk-complete command
func NewBulkCompleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "bulk-complete [id]...",
		Short: "Complete the selected tasks (or the given ids)",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loggedInApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			if err := restoreSelection(cmd.Context(), app); err != nil {
				return err
			}
			for _, id := range args {
				if !app.Store.IsSelected(id) {
					app.Store.ToggleSelection(id)
				}
			}

			// The selection is spent once the operation fires
			err = app.Store.BulkComplete(cmd.Context())
			if saveErr := saveSelection(app.Config, nil); saveErr != nil && err == nil {
				err = saveErr
			}
			return err
		},
	}
}

// NewBulkDeleteCommand creates the bulk-delete command
func NewBulkDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "bulk-delete [id]...",
		Short: "Delete the selected tasks (or the given ids)",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loggedInApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			if err := restoreSelection(cmd.Context(), app); err != nil {
				return err
			}
			for _, id := range args {
				if !app.Store.IsSelected(id) {
					app.Store.ToggleSelection(id)
				}
			}

			err = app.Store.BulkDelete(cmd.Context())
			if saveErr := saveSelection(app.Config, nil); saveErr != nil && err == nil {
				err = saveErr
			}
			return err
		},
	}
}
