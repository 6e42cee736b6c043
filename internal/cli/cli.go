// Package cli wires the datasweeper commands.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/shandysiswandi/datasweeper/internal/app"
)

// shutdownTimeout bounds the graceful stop of the server.
const shutdownTimeout = 10 * time.Second

// NewRootCommand builds the datasweeper command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "datasweeper",
		Short:         "Ingest, clean and export tabular files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCommand(), newConvertCommand())

	return root
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "error:", err)
		return 1
	}
	return 0
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			application := app.New()
			runErr := <-application.Start()

			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			application.Stop(ctx)

			return runErr
		},
	}
}
