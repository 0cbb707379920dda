// Package project implements sheet persistence: the canvas-state save
// payload, the on-disk JSON store, and the gateway that governs manual
// and automatic save timing.
package project

import (
	"time"

	"github.com/piwi3910/sheetsmith/internal/model"
)

// PayloadVersion is the current canvas-state payload format version.
const PayloadVersion = 1

// Stage is the persisted editing surface snapshot.
type Stage struct {
	WidthPx  int         `json:"widthPx"`
	HeightPx int         `json:"heightPx"`
	Scale    float64     `json:"scale"`
	Position model.Point `json:"position"`
}

// LayerAttrs is the geometry block of one persisted layer.
type LayerAttrs struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"`
	ScaleX   float64 `json:"scaleX"`
	ScaleY   float64 `json:"scaleY"`
	ZIndex   int     `json:"zIndex"`
	Opacity  float64 `json:"opacity"`
	Visible  bool    `json:"visible"`
	Locked   bool    `json:"locked"`
}

// PayloadLayer is one persisted layer: geometry attrs, the effective
// raster source for image layers, and the kind-specific payload so decode
// reproduces the full layer set.
type PayloadLayer struct {
	ID    string              `json:"id"`
	Type  model.LayerKind     `json:"type"`
	Attrs LayerAttrs          `json:"attrs"`
	Src   string              `json:"src,omitempty"`
	Image *model.ImagePayload `json:"image,omitempty"`
	Text  *model.TextPayload  `json:"text,omitempty"`
	Shape *model.ShapePayload `json:"shape,omitempty"`
}

// Payload is the full canvas-state save document. Sheet, layers, viewport
// and thumbnail are serialized together so recovery never has to
// re-derive one from the others.
type Payload struct {
	Version     int            `json:"version"`
	Timestamp   time.Time      `json:"timestamp"`
	Sheet       model.Sheet    `json:"sheet"`
	Stage       Stage          `json:"stage"`
	Layers      []PayloadLayer `json:"layers"`
	GridEnabled bool           `json:"gridEnabled"`
	SnapEnabled bool           `json:"snapEnabled"`
	Thumbnail   string         `json:"thumbnail,omitempty"` // base64 PNG
}

// Encode builds the save payload from the session state.
func Encode(sheet model.Sheet, layers []model.Layer, viewport model.Viewport, thumbnail string) Payload {
	p := Payload{
		Version:   PayloadVersion,
		Timestamp: time.Now().UTC(),
		Sheet:     sheet,
		Stage: Stage{
			WidthPx:  viewport.WidthPx,
			HeightPx: viewport.HeightPx,
			Scale:    viewport.Scale,
			Position: viewport.Position,
		},
		GridEnabled: viewport.GridEnabled,
		SnapEnabled: viewport.SnapEnabled,
		Thumbnail:   thumbnail,
	}
	for _, l := range layers {
		pl := PayloadLayer{
			ID:   l.ID,
			Type: l.Kind,
			Attrs: LayerAttrs{
				X:        l.Position.X,
				Y:        l.Position.Y,
				Width:    l.Size.Width,
				Height:   l.Size.Height,
				Rotation: l.RotationDegrees,
				ScaleX:   l.ScaleX,
				ScaleY:   l.ScaleY,
				ZIndex:   l.ZIndex,
				Opacity:  l.Opacity,
				Visible:  l.Visible,
				Locked:   l.Locked,
			},
		}
		cp := l.Clone()
		pl.Image = cp.Image
		pl.Text = cp.Text
		pl.Shape = cp.Shape
		if cp.Image != nil {
			pl.Src = cp.Image.SourceURL
			if cp.Image.ProcessedURL != "" {
				pl.Src = cp.Image.ProcessedURL
			}
		}
		p.Layers = append(p.Layers, pl)
	}
	return p
}

// Decode rebuilds the sheet, layers, and viewport from a save payload.
// Image DPI info is recomputed rather than trusted from disk, since it is
// a derived value.
func Decode(p Payload) (model.Sheet, []model.Layer, model.Viewport) {
	viewport := model.Viewport{
		WidthPx:     p.Stage.WidthPx,
		HeightPx:    p.Stage.HeightPx,
		Scale:       p.Stage.Scale,
		Position:    p.Stage.Position,
		GridEnabled: p.GridEnabled,
		SnapEnabled: p.SnapEnabled,
	}

	layers := make([]model.Layer, 0, len(p.Layers))
	for _, pl := range p.Layers {
		l := model.Layer{
			ID:              pl.ID,
			SheetID:         p.Sheet.ID,
			Kind:            pl.Type,
			Position:        model.Point{X: pl.Attrs.X, Y: pl.Attrs.Y},
			Size:            model.Size{Width: pl.Attrs.Width, Height: pl.Attrs.Height},
			RotationDegrees: pl.Attrs.Rotation,
			ScaleX:          pl.Attrs.ScaleX,
			ScaleY:          pl.Attrs.ScaleY,
			ZIndex:          pl.Attrs.ZIndex,
			Opacity:         pl.Attrs.Opacity,
			Visible:         pl.Attrs.Visible,
			Locked:          pl.Attrs.Locked,
			Image:           pl.Image,
			Text:            pl.Text,
			Shape:           pl.Shape,
		}
		l = l.Clone()
		l.RefreshDpi()
		layers = append(layers, l)
	}
	return p.Sheet, layers, viewport
}
