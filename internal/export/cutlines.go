package export

import (
	"fmt"

	"github.com/piwi3910/sheetsmith/internal/model"
	"github.com/yofu/dxf"
)

// ExportCutlines writes a DXF with one closed LWPOLYLINE per layer
// bounding box, used by the cutter when the checkout cutlines flag is
// set. Coordinates are in inches with the DXF origin at the sheet's
// bottom-left corner, so the top-left layer origin is flipped on Y.
func ExportCutlines(path string, sheet model.Sheet, layers []model.Layer) error {
	if len(layers) == 0 {
		return fmt.Errorf("no layers to export cutlines for")
	}

	d := dxf.NewDrawing()
	for _, l := range layers {
		b := l.Bounds()
		y0 := sheet.HeightInches - b.Y - b.Height
		y1 := sheet.HeightInches - b.Y
		_, err := d.LwPolyline(true,
			[]float64{b.X, y0},
			[]float64{b.X + b.Width, y0},
			[]float64{b.X + b.Width, y1},
			[]float64{b.X, y1},
		)
		if err != nil {
			return fmt.Errorf("writing cutline for layer %s: %w", l.ID, err)
		}
	}
	return d.SaveAs(path)
}
