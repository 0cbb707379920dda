package engine

import "github.com/piwi3910/sheetsmith/internal/model"

// defaultFillStep bounds the scan resolution when padding is zero, so the
// scan always terminates with a sensible grid.
const defaultFillStep = 0.1

// Fill scans the sheet in row-major order and proposes origins where a
// copy of the seed footprint fits without overlapping any occupied region
// or any previously proposed duplicate, honoring padding on all sides.
// Existing layers are never moved; an empty result means no candidate
// position was found, which is not an error.
func Fill(sheetWidth, sheetHeight float64, occupied []model.Rect, seed model.Size, padding float64) []model.Point {
	if seed.Width <= 0 || seed.Height <= 0 {
		return nil
	}

	step := padding
	if step <= 0 {
		step = defaultFillStep
	}

	var duplicates []model.Point
	var placed []model.Rect

	for y := 0.0; y+seed.Height <= sheetHeight+eps; y += step {
		for x := 0.0; x+seed.Width <= sheetWidth+eps; x += step {
			candidate := model.Rect{X: x, Y: y, Width: seed.Width, Height: seed.Height}
			inflated := candidate.Inflate(padding)

			if overlapsAny(inflated, occupied) || overlapsAny(inflated, placed) {
				continue
			}
			duplicates = append(duplicates, model.Point{X: x, Y: y})
			placed = append(placed, candidate)
		}
	}
	return duplicates
}

func overlapsAny(r model.Rect, rects []model.Rect) bool {
	for _, o := range rects {
		if r.Intersects(o) {
			return true
		}
	}
	return false
}
