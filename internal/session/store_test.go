package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/sheetsmith/internal/model"
)

func TestLayerStore_AddAssignsUniqueZIndex(t *testing.T) {
	s := NewLayerStore("sheet")
	a := s.Add(model.NewShapeLayer("sheet", "rect", model.Point{}, model.Size{Width: 1, Height: 1}))
	b := s.Add(model.NewShapeLayer("sheet", "rect", model.Point{}, model.Size{Width: 1, Height: 1}))
	c := s.Add(model.NewShapeLayer("sheet", "rect", model.Point{}, model.Size{Width: 1, Height: 1}))

	seen := map[int]bool{}
	for _, l := range []model.Layer{a, b, c} {
		assert.False(t, seen[l.ZIndex], "duplicate z-index %d", l.ZIndex)
		seen[l.ZIndex] = true
	}
	assert.Greater(t, b.ZIndex, a.ZIndex)
	assert.Greater(t, c.ZIndex, b.ZIndex)
}

func TestLayerStore_ResizeRefreshesDpi(t *testing.T) {
	s := NewLayerStore("sheet")
	l := s.Add(model.NewImageLayer("sheet", "u", 600, 600, model.Point{}, model.Size{Width: 6, Height: 6}))

	require.NoError(t, s.Resize(l.ID, model.Size{Width: 2, Height: 2}))

	got, err := s.Get(l.ID)
	require.NoError(t, err)
	assert.Equal(t, 300.0, got.Image.Dpi.Dpi)
	assert.Equal(t, model.DpiGood, got.Image.Dpi.Quality)
}

func TestLayerStore_LockedLayerRejectsGeometryEdits(t *testing.T) {
	s := NewLayerStore("sheet")
	l := s.Add(model.NewShapeLayer("sheet", "rect", model.Point{}, model.Size{Width: 1, Height: 1}))
	require.NoError(t, s.SetLocked(l.ID, true))

	assert.ErrorIs(t, s.Move(l.ID, model.Point{X: 5}), ErrLayerLocked)
	assert.ErrorIs(t, s.Resize(l.ID, model.Size{Width: 2, Height: 2}), ErrLayerLocked)
	assert.ErrorIs(t, s.Rotate(l.ID, 45), ErrLayerLocked)

	// Unlocking a locked layer must still be possible.
	assert.NoError(t, s.SetLocked(l.ID, false))
	assert.NoError(t, s.Move(l.ID, model.Point{X: 5}))
}

func TestLayerStore_UnknownLayer(t *testing.T) {
	s := NewLayerStore("sheet")
	assert.ErrorIs(t, s.Move("nope", model.Point{}), ErrLayerNotFound)
	_, err := s.Get("nope")
	assert.ErrorIs(t, err, ErrLayerNotFound)
	assert.ErrorIs(t, s.Remove("nope"), ErrLayerNotFound)
}

func TestLayerStore_ReplaceKeepsZIndexUnique(t *testing.T) {
	s := NewLayerStore("sheet")
	s.Add(model.NewShapeLayer("sheet", "rect", model.Point{}, model.Size{Width: 1, Height: 1}))
	snapshot := s.Layers()

	s.Add(model.NewShapeLayer("sheet", "circle", model.Point{}, model.Size{Width: 1, Height: 1}))
	s.Replace(snapshot)

	added := s.Add(model.NewShapeLayer("sheet", "rect", model.Point{}, model.Size{Width: 1, Height: 1}))
	for _, l := range snapshot {
		assert.NotEqual(t, l.ZIndex, added.ZIndex,
			"layer added after a restore must not reuse a z-index")
	}
}

func TestLayerStore_LayersReturnsDeepCopy(t *testing.T) {
	s := NewLayerStore("sheet")
	s.Add(model.NewImageLayer("sheet", "u", 600, 600, model.Point{}, model.Size{Width: 6, Height: 6}))

	got := s.Layers()
	got[0].Image.SourceURL = "mutated"

	fresh := s.Layers()
	assert.Equal(t, "u", fresh[0].Image.SourceURL)
}

func TestLayerStore_Clear(t *testing.T) {
	s := NewLayerStore("sheet")
	s.Add(model.NewShapeLayer("sheet", "rect", model.Point{}, model.Size{Width: 1, Height: 1}))
	s.Clear()
	assert.Equal(t, 0, s.Len())
}
