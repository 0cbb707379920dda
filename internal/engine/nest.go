// Package engine implements the sheet layout algorithms: auto-nest
// (shelf bin-packing that repositions every layer to minimize waste) and
// smart-fill (duplicating a seed footprint into the remaining free area).
// Both are pure: they read geometry and return proposed positions without
// touching the layer collection.
package engine

import "sort"

const eps = 0.001

// NestItem is one layer footprint handed to the packer.
type NestItem struct {
	ID       string
	Width    float64
	Height   float64
	Rotation float64
}

// NestPlacement is the packed position for a single item. Rotation carries
// the item's rotation after packing; it differs from the input only when
// the 90-degree fallback was applied.
type NestPlacement struct {
	ID       string
	X        float64
	Y        float64
	Rotation float64
}

// NestResult holds the packed positions plus the ids of items that could
// not be placed. Partial success is not an error: placed items are still
// committed by the caller and the unplaced remainder keeps its existing
// positions.
type NestResult struct {
	Placements []NestPlacement
	Unplaced   []string
}

// shelf is one horizontal packing strip. Its height is fixed by the first
// item placed on it; items are appended left to right at the fill cursor.
type shelf struct {
	y          float64 // top offset on the sheet
	height     float64 // strip height including padding
	itemHeight float64 // height of the first-placed item
	cursor     float64 // next x position
}

// Nest packs the given items onto a sheet using shelf packing with a
// height-descending sort. The sort breaks ties by width descending, then
// id ascending, so repeated runs over an unchanged item set produce
// identical placements.
func Nest(sheetWidth, sheetHeight float64, items []NestItem, padding float64) NestResult {
	sorted := make([]NestItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Height != sorted[j].Height {
			return sorted[i].Height > sorted[j].Height
		}
		if sorted[i].Width != sorted[j].Width {
			return sorted[i].Width > sorted[j].Width
		}
		return sorted[i].ID < sorted[j].ID
	})

	result := NestResult{}
	var shelves []shelf
	var nextShelfY float64

	for _, item := range sorted {
		w, h, rot := item.Width, item.Height, item.Rotation

		// An item wider than the sheet itself can only ever fit rotated.
		if w+padding > sheetWidth+eps && h+padding <= sheetWidth+eps {
			w, h = h, w
			rot += 90
		}

		placed := false
		for i := range shelves {
			s := &shelves[i]
			if h > s.itemHeight+eps {
				continue
			}
			if s.cursor+w+padding > sheetWidth+eps {
				continue
			}
			result.Placements = append(result.Placements, NestPlacement{
				ID: item.ID, X: s.cursor, Y: s.y, Rotation: rot,
			})
			s.cursor += w + padding
			placed = true
			break
		}
		if placed {
			continue
		}

		// Open a new shelf if the remaining sheet height permits.
		if w+padding <= sheetWidth+eps && nextShelfY+h <= sheetHeight+eps {
			s := shelf{y: nextShelfY, height: h + padding, itemHeight: h, cursor: 0}
			result.Placements = append(result.Placements, NestPlacement{
				ID: item.ID, X: 0, Y: s.y, Rotation: rot,
			})
			s.cursor = w + padding
			shelves = append(shelves, s)
			nextShelfY += s.height
			continue
		}

		result.Unplaced = append(result.Unplaced, item.ID)
	}

	return result
}
