// Package cli implements the sheetsmith command-line interface: the API
// server and offline layout/export passes over saved sheets. Built with
// cobra; --verbose switches charmbracelet/log to debug level.
package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// newLogger creates the CLI logger with timestamp formatting.
func newLogger(w *os.File, level charmlog.Level) *charmlog.Logger {
	return charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// ctxKey is the type for context keys used in this package.
type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *charmlog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by the root command, or
// the package default when none is set.
func loggerFromContext(ctx context.Context) *charmlog.Logger {
	if l, ok := ctx.Value(loggerKey).(*charmlog.Logger); ok {
		return l
	}
	return charmlog.Default()
}

// Execute runs the sheetsmith CLI.
func Execute() error {
	var verbose bool
	var configPath string

	root := &cobra.Command{
		Use:          "sheetsmith",
		Short:        "sheetsmith composes print-on-demand sheets",
		Long:         `sheetsmith is the Imagination Sheet compositor: it lays out image, text, and shape layers on fixed-width print sheets, validates print resolution, and serves the editing session API.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")

	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newNestCmd(&configPath))
	root.AddCommand(newExportCmd(&configPath))

	return root.ExecuteContext(context.Background())
}
