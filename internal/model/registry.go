package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Preset describes one print type: its fixed sheet width, the heights a
// sheet may be created at, and the per-area price used at checkout.
type Preset struct {
	PrintType          PrintType `json:"print_type"`
	WidthInches        float64   `json:"width_inches"`
	AllowedHeights     []float64 `json:"allowed_heights"`
	PricePerSquareInch float64   `json:"price_per_square_inch"`
}

// Built-in print type presets. Widths are fixed by the production printers;
// heights are the roll cut lengths offered per type.
var presets = []Preset{
	{
		PrintType:          PrintTypeDTF,
		WidthInches:        22.5,
		AllowedHeights:     []float64{12, 24, 36, 48, 60, 120},
		PricePerSquareInch: 0.025,
	},
	{
		PrintType:          PrintTypeUVDTF,
		WidthInches:        16,
		AllowedHeights:     []float64{12, 24, 48},
		PricePerSquareInch: 0.045,
	},
	{
		PrintType:          PrintTypeSublimation,
		WidthInches:        24,
		AllowedHeights:     []float64{12, 24, 36, 100},
		PricePerSquareInch: 0.015,
	},
}

// Presets returns all built-in print type presets.
func Presets() []Preset {
	return presets
}

// GetPreset returns the preset for a print type.
func GetPreset(pt PrintType) (Preset, error) {
	for _, p := range presets {
		if p.PrintType == pt {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("unknown print type %q", pt)
}

// NewSheet creates a sheet from a preset, validating that the requested
// height belongs to the preset's allowed list. The resulting width and
// height are immutable for the life of the sheet.
func NewSheet(pt PrintType, heightInches float64, name string) (Sheet, error) {
	preset, err := GetPreset(pt)
	if err != nil {
		return Sheet{}, err
	}
	valid := false
	for _, h := range preset.AllowedHeights {
		if h == heightInches {
			valid = true
			break
		}
	}
	if !valid {
		return Sheet{}, fmt.Errorf("height %.1f\" is not offered for print type %q", heightInches, pt)
	}
	if name == "" {
		name = "Untitled Sheet"
	}
	now := time.Now().UTC()
	return Sheet{
		ID:           uuid.New().String()[:8],
		Name:         name,
		PrintType:    pt,
		WidthInches:  preset.WidthInches,
		HeightInches: heightInches,
		Status:       SheetStatusDraft,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
