// Package export provides production exports for a composed sheet: a PDF
// proof, QR-coded layer labels, an Excel production manifest, and DXF
// cutlines.
package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/sheetsmith/internal/model"
)

// layerColor represents an RGB fill for a rendered layer.
type layerColor struct {
	R, G, B int
}

// kindColors mirrors the color scheme used by the thumbnail renderer.
var kindColors = map[model.LayerKind]layerColor{
	model.LayerKindImage: {R: 33, G: 150, B: 243}, // blue
	model.LayerKindText:  {R: 156, G: 39, B: 176}, // purple
	model.LayerKindShape: {R: 76, G: 175, B: 80},  // green
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF generates a one-page PDF proof of the sheet: a scaled layout
// diagram with per-layer fills and a stats line with area utilization and
// the worst image DPI quality.
func ExportPDF(path string, sheet model.Sheet, layers []model.Layer) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.AddPage()

	// Title
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("%s - %s %.1f x %.1f in", sheet.Name, sheet.PrintType,
		sheet.WidthInches, sheet.HeightInches)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	// Stats line
	var usedArea float64
	for _, l := range layers {
		usedArea += l.Bounds().Area()
	}
	utilization := 0.0
	if sheet.Area() > 0 {
		utilization = usedArea / sheet.Area() * 100
	}
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Layers: %d | Used area: %.1f sq in | Utilization: %.1f%% | Worst DPI: %s",
		len(layers), usedArea, utilization, worstQuality(layers))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	// Scale sheet into the drawing area
	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom
	scale := math.Min(drawWidth/sheet.WidthInches, drawHeight/sheet.HeightInches)
	canvasW := sheet.WidthInches * scale
	canvasH := sheet.HeightInches * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Sheet background
	pdf.SetFillColor(250, 250, 250)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	// Layers
	for _, l := range layers {
		if !l.Visible {
			continue
		}
		col := kindColors[l.Kind]
		b := l.Bounds()
		lx := offsetX + b.X*scale
		ly := offsetY + b.Y*scale
		lw := b.Width * scale
		lh := b.Height * scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(lx, ly, lw, lh, "FD")

		// Annotation: id plus DPI tier for image layers
		label := l.ID
		if l.Image != nil && l.Image.Dpi != nil {
			label = fmt.Sprintf("%s (%.0f dpi %s)", l.ID, l.Image.Dpi.Dpi, l.Image.Dpi.Quality)
		}
		pdf.SetFont("Helvetica", "", 7)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetXY(lx+1, ly+1)
		pdf.CellFormat(lw-2, 4, label, "", 0, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}

	return pdf.OutputFileAndClose(path)
}

// worstQuality returns the lowest DPI tier among image layers, or "n/a"
// when the sheet has no image layers.
func worstQuality(layers []model.Layer) string {
	rank := map[model.DpiQuality]int{model.DpiGood: 0, model.DpiWarning: 1, model.DpiDanger: 2}
	worst := ""
	best := -1
	for _, l := range layers {
		if l.Image == nil || l.Image.Dpi == nil {
			continue
		}
		if r := rank[l.Image.Dpi.Quality]; r > best {
			best = r
			worst = string(l.Image.Dpi.Quality)
		}
	}
	if worst == "" {
		return "n/a"
	}
	return worst
}
