package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskmaster/client/internal/debounce"
)

// searchDebounce is how long interactive search waits for the input to
// settle before querying
const searchDebounce = 300 * time.Millisecond

// NewSearchCommand creates the search command. With a term it runs one
// query; with --interactive it re-queries as the user types, debounced.
func NewSearchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [term]",
		Short: "Search tasks by title and description",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loggedInApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			interactive, _ := cmd.Flags().GetBool("interactive")
			if interactive {
				return runInteractiveSearch(cmd.Context(), app)
			}

			if len(args) == 0 {
				return fmt.Errorf("a search term is required (or use --interactive)")
			}

			if err := app.Store.Search(cmd.Context(), strings.Join(args, " "), nil); err != nil {
				return err
			}
			renderTasks(app.Store)
			return nil
		},
	}

	cmd.Flags().BoolP("interactive", "i", false, "Re-run the search as you type")
	return cmd
}

// runInteractiveSearch reads the term line by line and queries after the
// input has been quiet. Single characters never trigger a request; an
// empty line clears the search and shows everything.
func runInteractiveSearch(ctx context.Context, app *App) error {
	fmt.Fprintln(os.Stderr, "Type to search, empty line to clear, Ctrl-D to quit.")

	debouncer := debounce.New(searchDebounce)
	defer debouncer.Stop()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		term := strings.TrimSpace(scanner.Text())
		debouncer.Do(func() {
			if err := app.Store.Search(ctx, term, nil); err != nil {
				return
			}
			renderTasks(app.Store)
		})
	}
	return scanner.Err()
}
