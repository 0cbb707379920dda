package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/sheetsmith/internal/config"
	"github.com/piwi3910/sheetsmith/internal/export"
	"github.com/piwi3910/sheetsmith/internal/project"
)

func newExportCmd(configPath *string) *cobra.Command {
	var format string
	var output string

	cmd := &cobra.Command{
		Use:   "export <sheet-id>",
		Short: "Export a saved sheet as a PDF proof, labels, manifest, or cutlines",
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
			sheet, layers, _ := project.Decode(payload)

			if output == "" {
				output = sheet.ID + "." + defaultExt(format)
			}

			switch format {
			case "pdf":
				err = export.ExportPDF(output, sheet, layers)
			case "labels":
				err = export.ExportLabels(output, sheet, layers)
			case "manifest":
				err = export.ExportManifest(output, sheet, layers)
			case "cutlines":
				err = export.ExportCutlines(output, sheet, layers)
			default:
				return fmt.Errorf("unknown export format %q (pdf, labels, manifest, cutlines)", format)
			}
			if err != nil {
				return err
			}
			logger.Infof("wrote %s", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "pdf", "export format: pdf, labels, manifest, cutlines")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file path")
	return cmd
}

func defaultExt(format string) string {
	switch format {
	case "manifest":
		return "xlsx"
	case "cutlines":
		return "dxf"
	default:
		return "pdf"
	}
}
