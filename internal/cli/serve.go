package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/piwi3910/sheetsmith/internal/api"
	"github.com/piwi3910/sheetsmith/internal/config"
	"github.com/piwi3910/sheetsmith/internal/project"
	"github.com/piwi3910/sheetsmith/internal/services"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the editing session API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			store := project.NewFileStore(cfg.DataDir)
			opts := []api.ServerOption{}
			if cfg.ImageServiceURL != "" {
				client := services.NewHTTPClient(cfg.ImageServiceURL)
				opts = append(opts, api.WithCollaborators(client, client))
			}
			if cfg.AutosaveTickSeconds > 0 && cfg.MinSaveSeconds > 0 {
				opts = append(opts, api.WithAutosaveTiming(
					time.Duration(cfg.AutosaveTickSeconds)*time.Second,
					time.Duration(cfg.MinSaveSeconds)*time.Second,
				))
			}

			server := api.NewServer(store, logger, opts...)
			defer server.Close()

			httpServer := &http.Server{
				Addr:    cfg.ListenAddr,
				Handler: server.Router(),
			}

			go func() {
				<-cmd.Context().Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = httpServer.Shutdown(shutdownCtx)
			}()

			logger.Infof("listening on %s (data dir %s)", cfg.ListenAddr, cfg.DataDir)
			if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
}
