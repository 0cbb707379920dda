package export

import (
	"fmt"

	"github.com/piwi3910/sheetsmith/internal/model"
	"github.com/xuri/excelize/v2"
)

// manifestHeaders are the columns of the production manifest worksheet.
var manifestHeaders = []string{
	"Layer ID", "Kind", "X (in)", "Y (in)", "Width (in)", "Height (in)",
	"Rotation", "Z-Index", "DPI", "Quality", "Source",
}

// ExportManifest writes an Excel production manifest: one row per layer
// with geometry and DPI quality, plus a summary block with the sheet
// dimensions and the price computed from the print-type preset.
func ExportManifest(path string, sheet model.Sheet, layers []model.Layer) error {
	f := excelize.NewFile()
	defer f.Close()

	const ws = "Sheet1"
	for col, h := range manifestHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(ws, cell, h); err != nil {
			return err
		}
	}

	for row, l := range layers {
		dpi := ""
		quality := ""
		source := ""
		if l.Image != nil {
			source = l.Image.SourceURL
			if l.Image.ProcessedURL != "" {
				source = l.Image.ProcessedURL
			}
			if l.Image.Dpi != nil {
				dpi = fmt.Sprintf("%.0f", l.Image.Dpi.Dpi)
				quality = string(l.Image.Dpi.Quality)
			}
		}
		values := []any{
			l.ID, string(l.Kind), l.Position.X, l.Position.Y,
			l.Size.Width, l.Size.Height, l.RotationDegrees, l.ZIndex,
			dpi, quality, source,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(ws, cell, v); err != nil {
				return err
			}
		}
	}

	// Summary block below the layer rows
	summaryRow := len(layers) + 3
	preset, err := model.GetPreset(sheet.PrintType)
	if err != nil {
		return err
	}
	summary := [][2]any{
		{"Sheet", fmt.Sprintf("%s (%s)", sheet.Name, sheet.PrintType)},
		{"Dimensions", fmt.Sprintf("%.1f x %.1f in", sheet.WidthInches, sheet.HeightInches)},
		{"Layers", len(layers)},
		{"Price", sheet.Area() * preset.PricePerSquareInch},
	}
	for i, kv := range summary {
		keyCell, err := excelize.CoordinatesToCellName(1, summaryRow+i)
		if err != nil {
			return err
		}
		valCell, err := excelize.CoordinatesToCellName(2, summaryRow+i)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(ws, keyCell, kv[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(ws, valCell, kv[1]); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}
