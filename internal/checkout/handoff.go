// Package checkout compiles a finished sheet into the opaque line item
// handed to the cart subsystem. The compositor is never called back by
// checkout; the gate here is its last word on print quality.
package checkout

import (
	"errors"
	"fmt"
	"strings"

	"github.com/piwi3910/sheetsmith/internal/model"
)

// ErrEmptySheet rejects hand-off of a sheet with no layers.
var ErrEmptySheet = errors.New("sheet has no layers")

// LayerRef identifies an offending layer to the caller.
type LayerRef struct {
	ID      string           `json:"id"`
	Kind    model.LayerKind  `json:"kind"`
	Quality model.DpiQuality `json:"quality"`
	Dpi     float64          `json:"dpi"`
}

// QualityError reports image layers whose print resolution blocks the
// hand-off. Danger layers block unconditionally; warning layers block
// until the caller confirms explicitly.
type QualityError struct {
	Danger  []LayerRef
	Warning []LayerRef
}

func (e *QualityError) Error() string {
	var parts []string
	if len(e.Danger) > 0 {
		ids := make([]string, len(e.Danger))
		for i, r := range e.Danger {
			ids[i] = r.ID
		}
		parts = append(parts, fmt.Sprintf("%d layer(s) below printable resolution: %s",
			len(e.Danger), strings.Join(ids, ", ")))
	}
	if len(e.Warning) > 0 {
		ids := make([]string, len(e.Warning))
		for i, r := range e.Warning {
			ids[i] = r.ID
		}
		parts = append(parts, fmt.Sprintf("%d layer(s) need quality confirmation: %s",
			len(e.Warning), strings.Join(ids, ", ")))
	}
	return strings.Join(parts, "; ")
}

// LineItem is the compiled, opaque hand-off to the cart subsystem.
type LineItem struct {
	Price        float64 `json:"price"`
	WidthInches  float64 `json:"width_inches"`
	HeightInches float64 `json:"height_inches"`
	LayerCount   int     `json:"layer_count"`
	ThumbnailURL string  `json:"thumbnail_url"`
	CutlinesFlag bool    `json:"cutlines_flag"`
	MirrorFlag   bool    `json:"mirror_flag"`
}

// Options carries the caller's finishing choices into the hand-off.
type Options struct {
	ConfirmWarnings bool
	Cutlines        bool
	Mirror          bool
	ThumbnailURL    string
}

// Compile gates the sheet on image DPI quality and builds the line item.
// Danger-quality layers hard-block; warning-quality layers block unless
// ConfirmWarnings is set. Both lists are enumerated in the returned
// *QualityError so the caller can point at the offending layers.
func Compile(sheet model.Sheet, layers []model.Layer, opts Options) (LineItem, error) {
	if len(layers) == 0 {
		return LineItem{}, ErrEmptySheet
	}

	qerr := &QualityError{}
	for _, l := range layers {
		if l.Image == nil || l.Image.Dpi == nil {
			continue
		}
		ref := LayerRef{ID: l.ID, Kind: l.Kind, Quality: l.Image.Dpi.Quality, Dpi: l.Image.Dpi.Dpi}
		switch l.Image.Dpi.Quality {
		case model.DpiDanger:
			qerr.Danger = append(qerr.Danger, ref)
		case model.DpiWarning:
			if !opts.ConfirmWarnings {
				qerr.Warning = append(qerr.Warning, ref)
			}
		}
	}
	if len(qerr.Danger) > 0 || len(qerr.Warning) > 0 {
		return LineItem{}, qerr
	}

	preset, err := model.GetPreset(sheet.PrintType)
	if err != nil {
		return LineItem{}, err
	}

	return LineItem{
		Price:        sheet.Area() * preset.PricePerSquareInch,
		WidthInches:  sheet.WidthInches,
		HeightInches: sheet.HeightInches,
		LayerCount:   len(layers),
		ThumbnailURL: opts.ThumbnailURL,
		CutlinesFlag: opts.Cutlines,
		MirrorFlag:   opts.Mirror,
	}, nil
}
