package commands

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskmaster/client/internal/infrastructure/config"
	"github.com/taskmaster/client/internal/infrastructure/logger"
	"github.com/taskmaster/client/internal/stub"
)

// NewServeStubCommand creates the serve-stub command
func NewServeStubCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve-stub",
		Short: "Run the in-process stub task service",
		Long:  "Run a local task service speaking the same REST contract, seeded with demo data. Point API_URL at it for development without a deployment.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			appLogger, err := logger.New(cfg.Logger)
			if err != nil {
				return err
			}
			defer appLogger.Close()

			server := stub.New(cfg, appLogger)

			errCh := make(chan error, 1)
			go func() {
				if err := server.Start(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case <-quit:
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(ctx)
		},
	}
}
