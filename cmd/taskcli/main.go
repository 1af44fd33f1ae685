package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/taskmaster/client/cmd/taskcli/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "taskcli",
		Short:        "TaskMaster command line client",
		Long:         `taskcli is a terminal client for the TaskMaster task service: list, create and organize tasks, run bulk operations over a selection, and inspect statistics.`,
		SilenceUsage: true,
	}

	// Auth
	rootCmd.AddCommand(commands.NewLoginCommand())
	rootCmd.AddCommand(commands.NewLogoutCommand())
	rootCmd.AddCommand(commands.NewRegisterCommand())
	rootCmd.AddCommand(commands.NewWhoamiCommand())
	rootCmd.AddCommand(commands.NewDemoUsersCommand())

	// Tasks
	rootCmd.AddCommand(commands.NewListCommand())
	rootCmd.AddCommand(commands.NewShowCommand())
	rootCmd.AddCommand(commands.NewCreateCommand())
	rootCmd.AddCommand(commands.NewEditCommand())
	rootCmd.AddCommand(commands.NewRemoveCommand())
	rootCmd.AddCommand(commands.NewDoneCommand())
	rootCmd.AddCommand(commands.NewUndoneCommand())
	rootCmd.AddCommand(commands.NewPriorityCommand())
	rootCmd.AddCommand(commands.NewDueCommand())
	rootCmd.AddCommand(commands.NewDuplicateCommand())
	rootCmd.AddCommand(commands.NewSearchCommand())
	rootCmd.AddCommand(commands.NewClearCompletedCommand())

	// Selection and bulk operations
	rootCmd.AddCommand(commands.NewSelectCommand())
	rootCmd.AddCommand(commands.NewUnselectCommand())
	rootCmd.AddCommand(commands.NewSelectAllCommand())
	rootCmd.AddCommand(commands.NewClearSelectionCommand())
	rootCmd.AddCommand(commands.NewBulkCompleteCommand())
	rootCmd.AddCommand(commands.NewBulkDeleteCommand())

	// Insights
	rootCmd.AddCommand(commands.NewStatsCommand())
	rootCmd.AddCommand(commands.NewSummaryCommand())
	rootCmd.AddCommand(commands.NewDueTodayCommand())
	rootCmd.AddCommand(commands.NewDueWeekCommand())
	rootCmd.AddCommand(commands.NewDueMonthCommand())
	rootCmd.AddCommand(commands.NewOverdueCommand())

	// Local development
	rootCmd.AddCommand(commands.NewServeStubCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
