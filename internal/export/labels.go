package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/sheetsmith/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// LabelInfo holds the data encoded into each layer label's QR code, enough
// for the production floor to locate the element on the printed sheet.
type LabelInfo struct {
	SheetID   string          `json:"sheet_id"`
	SheetName string          `json:"sheet_name"`
	LayerID   string          `json:"layer_id"`
	Kind      model.LayerKind `json:"kind"`
	X         float64         `json:"x_in"`
	Y         float64         `json:"y_in"`
	Width     float64         `json:"width_in"`
	Height    float64         `json:"height_in"`
	Rotation  float64         `json:"rotation_deg"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10
// rows per page on US Letter).
const (
	labelPageMarginTop  = 12.7 // mm
	labelPageMarginLeft = 4.8  // mm
	labelWidth          = 66.7 // mm per label
	labelHeight         = 25.4 // mm per label
	labelCols           = 3
	labelRows           = 10
	labelsPerPage       = labelCols * labelRows
	qrSize              = 20.0 // QR code size in mm
	labelPadding        = 2.0  // mm internal padding
)

// ExportLabels generates a PDF of QR-coded production labels, one per
// layer on the sheet.
func ExportLabels(path string, sheet model.Sheet, layers []model.Layer) error {
	if len(layers) == 0 {
		return fmt.Errorf("no layers to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, l := range layers {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}
		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols
		x := labelPageMarginLeft + float64(col)*labelWidth
		y := labelPageMarginTop + float64(row)*labelHeight

		info := LabelInfo{
			SheetID:   sheet.ID,
			SheetName: sheet.Name,
			LayerID:   l.ID,
			Kind:      l.Kind,
			X:         l.Position.X,
			Y:         l.Position.Y,
			Width:     l.Size.Width,
			Height:    l.Size.Height,
			Rotation:  l.RotationDegrees,
		}
		if err := renderLabel(pdf, x, y, info); err != nil {
			return fmt.Errorf("failed to render label for layer %q: %w", l.ID, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	// Light border as a cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}
	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%s_%s", info.SheetID, info.LayerID)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	// Text block on the left
	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 4, fmt.Sprintf("%s / %s", info.SheetName, info.LayerID), "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetXY(textX, y+labelPadding+5)
	pdf.CellFormat(textW, 4, fmt.Sprintf("%s %.1f x %.1f in", info.Kind, info.Width, info.Height), "", 0, "L", false, 0, "")

	pdf.SetXY(textX, y+labelPadding+10)
	pdf.CellFormat(textW, 4, fmt.Sprintf("at (%.1f, %.1f) rot %.0f", info.X, info.Y, info.Rotation), "", 0, "L", false, 0, "")

	return nil
}
