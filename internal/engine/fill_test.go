package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/sheetsmith/internal/model"
)

func TestFill_EmptySheetProducesGrid(t *testing.T) {
	// A 10x10 sheet with a 4x4 seed and 0.5 padding holds a 2x2 grid.
	dups := Fill(10, 10, nil, model.Size{Width: 4, Height: 4}, 0.5)
	assert.Len(t, dups, 4)
}

func TestFill_DuplicatesDoNotOverlap(t *testing.T) {
	padding := 0.5
	seed := model.Size{Width: 3, Height: 2}
	occupied := []model.Rect{
		{X: 0, Y: 0, Width: 5, Height: 5},
		{X: 8, Y: 6, Width: 4, Height: 4},
	}
	dups := Fill(15, 12, occupied, seed, padding)
	require.NotEmpty(t, dups)

	var placed []model.Rect
	for _, d := range dups {
		r := model.Rect{X: d.X, Y: d.Y, Width: seed.Width, Height: seed.Height}

		// Inside the sheet.
		assert.GreaterOrEqual(t, r.X, 0.0)
		assert.GreaterOrEqual(t, r.Y, 0.0)
		assert.LessOrEqual(t, r.X+r.Width, 15.0+eps)
		assert.LessOrEqual(t, r.Y+r.Height, 12.0+eps)

		// No overlap with pre-existing layers, honoring padding.
		for _, occ := range occupied {
			assert.False(t, r.Inflate(padding-eps).Intersects(occ),
				"duplicate at (%.1f,%.1f) crowds an existing layer", d.X, d.Y)
		}
		// No overlap with sibling duplicates.
		for _, sib := range placed {
			assert.False(t, r.Inflate(padding-eps).Intersects(sib),
				"duplicate at (%.1f,%.1f) crowds a sibling", d.X, d.Y)
		}
		placed = append(placed, r)
	}
}

func TestFill_FullSheetReturnsEmpty(t *testing.T) {
	occupied := []model.Rect{{X: 0, Y: 0, Width: 10, Height: 10}}
	dups := Fill(10, 10, occupied, model.Size{Width: 2, Height: 2}, 0.25)
	assert.Empty(t, dups, "no candidate position is not an error")
}

func TestFill_SeedLargerThanSheet(t *testing.T) {
	dups := Fill(10, 10, nil, model.Size{Width: 12, Height: 2}, 0.25)
	assert.Empty(t, dups)
}

func TestFill_InvalidSeed(t *testing.T) {
	assert.Empty(t, Fill(10, 10, nil, model.Size{}, 0.25))
}
