package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/sheetsmith/internal/config"
	"github.com/piwi3910/sheetsmith/internal/project"
	"github.com/piwi3910/sheetsmith/internal/session"
	"github.com/piwi3910/sheetsmith/internal/thumbnail"
)

func newNestCmd(configPath *string) *cobra.Command {
	var padding float64

	cmd := &cobra.Command{
		Use:   "nest <sheet-id>",
		Short: "Run the auto-nest layout pass over a saved sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			store := project.NewFileStore(cfg.DataDir)

			payload, err := store.Load(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("loading sheet %s: %w", args[0], err)
			}
			sheet, layers, viewport := project.Decode(payload)

			sess := session.New(sheet)
			sess.Restore(layers)
			sess.SetViewport(viewport)

			result := sess.AutoNest(padding)
			logger.Infof("nested %d layer(s), %d unplaced", len(result.Placements), len(result.Unplaced))
			for _, id := range result.Unplaced {
				logger.Warnf("layer %s did not fit and keeps its position", id)
			}

			thumb, err := thumbnail.RenderBase64(sheet, sess.Layers())
			if err != nil {
				return err
			}
			return store.Save(cmd.Context(), project.Encode(sheet, sess.Layers(), viewport, thumb))
		},
	}

	cmd.Flags().Float64VarP(&padding, "padding", "p", 0.25, "minimum spacing between layers in inches")
	return cmd
}
