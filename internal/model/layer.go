package model

import (
	"math"

	"github.com/google/uuid"
)

// LayerKind discriminates the layer variants.
type LayerKind string

const (
	LayerKindImage LayerKind = "image"
	LayerKindText  LayerKind = "text"
	LayerKindShape LayerKind = "shape"
)

// Layer is one element placed on a sheet. The shared geometry fields apply
// to every kind; exactly one of Image, Text, or Shape is non-nil and carries
// the kind-specific payload. DPI info exists only on the image variant.
type Layer struct {
	ID              string    `json:"id"`
	SheetID         string    `json:"sheet_id"`
	Kind            LayerKind `json:"kind"`
	Position        Point     `json:"position"`
	Size            Size      `json:"size"`
	RotationDegrees float64   `json:"rotation_degrees"`
	ScaleX          float64   `json:"scale_x"`
	ScaleY          float64   `json:"scale_y"`
	ZIndex          int       `json:"z_index"`
	Visible         bool      `json:"visible"`
	Locked          bool      `json:"locked"`
	Opacity         float64   `json:"opacity"`

	Image *ImagePayload `json:"image,omitempty"`
	Text  *TextPayload  `json:"text,omitempty"`
	Shape *ShapePayload `json:"shape,omitempty"`
}

// ImagePayload holds the raster source for an image layer. ProcessedURL is
// set after background removal, upscaling, or enhancement; the original
// pixel dimensions change only when an upscale reports its applied factor.
type ImagePayload struct {
	SourceURL           string   `json:"source_url"`
	ProcessedURL        string   `json:"processed_url,omitempty"`
	OriginalPixelWidth  int      `json:"original_pixel_width"`
	OriginalPixelHeight int      `json:"original_pixel_height"`
	Dpi                 *DpiInfo `json:"dpi,omitempty"`
}

// TextPayload holds a text layer's content and styling.
type TextPayload struct {
	Text       string  `json:"text"`
	FontFamily string  `json:"font_family"`
	FontSize   float64 `json:"font_size"`
	Color      string  `json:"color"`
}

// ShapePayload holds a shape layer's geometry kind and paint attributes.
type ShapePayload struct {
	ShapeKind   string  `json:"shape_kind"`
	Fill        string  `json:"fill"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"stroke_width"`
}

func newLayerID() string {
	return uuid.New().String()[:8]
}

func baseLayer(sheetID string, kind LayerKind, pos Point, size Size) Layer {
	return Layer{
		ID:       newLayerID(),
		SheetID:  sheetID,
		Kind:     kind,
		Position: pos,
		Size:     size,
		ScaleX:   1,
		ScaleY:   1,
		Visible:  true,
		Opacity:  1,
	}
}

// NewImageLayer creates an image layer with its DPI info computed from the
// original pixel dimensions and the initial rendered size.
func NewImageLayer(sheetID, sourceURL string, pixelW, pixelH int, pos Point, size Size) Layer {
	l := baseLayer(sheetID, LayerKindImage, pos, size)
	l.Image = &ImagePayload{
		SourceURL:           sourceURL,
		OriginalPixelWidth:  pixelW,
		OriginalPixelHeight: pixelH,
	}
	l.RefreshDpi()
	return l
}

// NewTextLayer creates a text layer.
func NewTextLayer(sheetID, text string, pos Point, size Size) Layer {
	l := baseLayer(sheetID, LayerKindText, pos, size)
	l.Text = &TextPayload{
		Text:       text,
		FontFamily: "Inter",
		FontSize:   24,
		Color:      "#000000",
	}
	return l
}

// NewShapeLayer creates a shape layer.
func NewShapeLayer(sheetID, shapeKind string, pos Point, size Size) Layer {
	l := baseLayer(sheetID, LayerKindShape, pos, size)
	l.Shape = &ShapePayload{
		ShapeKind: shapeKind,
		Fill:      "#cccccc",
		Stroke:    "#000000",
	}
	return l
}

// Bounds returns the layer's axis-aligned bounding box.
func (l Layer) Bounds() Rect {
	return Rect{X: l.Position.X, Y: l.Position.Y, Width: l.Size.Width, Height: l.Size.Height}
}

// SetSize updates the rendered size and recomputes the DPI info for image
// layers so the derived metric is never stale.
func (l *Layer) SetSize(s Size) {
	l.Size = s
	l.RefreshDpi()
}

// SetOriginalPixels updates an image layer's source pixel dimensions (after
// an upscale reported its applied factor) and recomputes the DPI info.
// It is a no-op for non-image layers.
func (l *Layer) SetOriginalPixels(pixelW, pixelH int) {
	if l.Image == nil {
		return
	}
	l.Image.OriginalPixelWidth = pixelW
	l.Image.OriginalPixelHeight = pixelH
	l.RefreshDpi()
}

// SetRotation normalizes degrees into [0, 360) and applies it.
func (l *Layer) SetRotation(degrees float64) {
	d := math.Mod(degrees, 360)
	if d < 0 {
		d += 360
	}
	l.RotationDegrees = d
}

// RefreshDpi recomputes the derived DPI info from the current size and
// original pixel dimensions. No-op for non-image layers.
func (l *Layer) RefreshDpi() {
	if l.Image == nil {
		return
	}
	info := ComputeDpi(l.Image.OriginalPixelWidth, l.Image.OriginalPixelHeight,
		l.Size.Width, l.Size.Height)
	l.Image.Dpi = &info
}

// Clone returns a deep copy of the layer, including its payload.
func (l Layer) Clone() Layer {
	cp := l
	if l.Image != nil {
		img := *l.Image
		if l.Image.Dpi != nil {
			dpi := *l.Image.Dpi
			img.Dpi = &dpi
		}
		cp.Image = &img
	}
	if l.Text != nil {
		txt := *l.Text
		cp.Text = &txt
	}
	if l.Shape != nil {
		shp := *l.Shape
		cp.Shape = &shp
	}
	return cp
}

// CloneLayers deep-copies a layer slice.
func CloneLayers(layers []Layer) []Layer {
	if layers == nil {
		return nil
	}
	cp := make([]Layer, len(layers))
	for i, l := range layers {
		cp[i] = l.Clone()
	}
	return cp
}
