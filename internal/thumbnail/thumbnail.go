// Package thumbnail renders a small raster preview of a sheet and its
// layers. The preview is embedded base64-encoded in the save payload so a
// recovered session never has to re-derive it from the geometry.
package thumbnail

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"

	"github.com/fogleman/gg"

	"github.com/piwi3910/sheetsmith/internal/model"
)

// maxEdgePx caps the longer edge of the rendered preview.
const maxEdgePx = 320

// layerColors assigns a fill color per layer kind.
var layerColors = map[model.LayerKind][3]float64{
	model.LayerKindImage: {0.30, 0.59, 0.95}, // blue
	model.LayerKindText:  {0.61, 0.15, 0.69}, // purple
	model.LayerKindShape: {0.30, 0.69, 0.31}, // green
}

// Render draws the sheet and its visible layers to a PNG.
func Render(sheet model.Sheet, layers []model.Layer) ([]byte, error) {
	if sheet.WidthInches <= 0 || sheet.HeightInches <= 0 {
		return nil, fmt.Errorf("sheet %s has no area to render", sheet.ID)
	}

	scale := float64(maxEdgePx) / sheet.WidthInches
	if sheet.HeightInches > sheet.WidthInches {
		scale = float64(maxEdgePx) / sheet.HeightInches
	}
	w := int(sheet.WidthInches * scale)
	h := int(sheet.HeightInches * scale)

	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	for _, l := range layers {
		if !l.Visible {
			continue
		}
		c := layerColors[l.Kind]
		dc.Push()
		b := l.Bounds()
		cx := (b.X + b.Width/2) * scale
		cy := (b.Y + b.Height/2) * scale
		dc.RotateAbout(gg.Radians(l.RotationDegrees), cx, cy)
		dc.SetRGBA(c[0], c[1], c[2], l.Opacity)
		dc.DrawRectangle(b.X*scale, b.Y*scale, b.Width*scale, b.Height*scale)
		dc.Fill()
		dc.SetRGBA(0.2, 0.2, 0.2, l.Opacity)
		dc.SetLineWidth(1)
		dc.DrawRectangle(b.X*scale, b.Y*scale, b.Width*scale, b.Height*scale)
		dc.Stroke()
		dc.Pop()
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, fmt.Errorf("encoding thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderBase64 renders the preview and returns it base64-encoded for
// embedding in the save payload.
func RenderBase64(sheet model.Sheet, layers []model.Layer) (string, error) {
	data, err := Render(sheet, layers)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
