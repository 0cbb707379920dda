// Package model defines the core data types for the sheet compositor:
// print sheets, layers, and the derived print-resolution (DPI) metrics.
// All geometry is expressed in inches with a top-left origin.
package model

import "time"

// PrintType identifies the production process a sheet is composed for.
// The print type fixes the sheet width and the set of allowed heights.
type PrintType string

const (
	PrintTypeDTF         PrintType = "dtf"
	PrintTypeUVDTF       PrintType = "uv_dtf"
	PrintTypeSublimation PrintType = "sublimation"
)

// SheetStatus tracks a sheet through its production lifecycle.
type SheetStatus string

const (
	SheetStatusDraft     SheetStatus = "draft"
	SheetStatusSubmitted SheetStatus = "submitted"
	SheetStatusProduced  SheetStatus = "produced"
)

// Point is a 2D coordinate in inches from the sheet's top-left corner.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a width/height pair in inches.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect is an axis-aligned bounding box in inches.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Intersects reports whether two rectangles overlap (not just touch).
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.X+o.Width && r.X+r.Width > o.X &&
		r.Y < o.Y+o.Height && r.Y+r.Height > o.Y
}

// Inflate grows the rectangle by d on all four sides.
func (r Rect) Inflate(d float64) Rect {
	return Rect{X: r.X - d, Y: r.Y - d, Width: r.Width + 2*d, Height: r.Height + 2*d}
}

// Area returns the rectangle area in square inches.
func (r Rect) Area() float64 {
	return r.Width * r.Height
}

// Sheet is one fixed-size print canvas. Width and height are immutable
// once the sheet is created from a registry preset.
type Sheet struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	PrintType    PrintType   `json:"print_type"`
	WidthInches  float64     `json:"width_inches"`
	HeightInches float64     `json:"height_inches"`
	Status       SheetStatus `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// Area returns the sheet area in square inches.
func (s Sheet) Area() float64 {
	return s.WidthInches * s.HeightInches
}

// Viewport captures the editing surface state that is persisted alongside
// the layers so a session can be restored without re-deriving anything.
type Viewport struct {
	WidthPx     int     `json:"width_px"`
	HeightPx    int     `json:"height_px"`
	Scale       float64 `json:"scale"`
	Position    Point   `json:"position"`
	GridEnabled bool    `json:"grid_enabled"`
	SnapEnabled bool    `json:"snap_enabled"`
}
