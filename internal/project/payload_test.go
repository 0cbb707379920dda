package project

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/sheetsmith/internal/model"
)

func testLayers(t *testing.T, sheetID string) []model.Layer {
	t.Helper()
	img := model.NewImageLayer(sheetID, "https://cdn/cat.png", 1800, 1200,
		model.Point{X: 1, Y: 2}, model.Size{Width: 6, Height: 4})
	img.Image.ProcessedURL = "https://cdn/cat-nobg.png"
	img.SetRotation(45)
	img.Opacity = 0.8
	img.Locked = true

	txt := model.NewTextLayer(sheetID, "hello", model.Point{X: 8, Y: 1}, model.Size{Width: 5, Height: 2})
	txt.Text.FontFamily = "Roboto"
	txt.Text.Color = "#ff0000"

	shp := model.NewShapeLayer(sheetID, "circle", model.Point{X: 0, Y: 10}, model.Size{Width: 3, Height: 3})
	shp.Visible = false

	return []model.Layer{img, txt, shp}
}

func TestPayload_RoundTrip(t *testing.T) {
	sheet, err := model.NewSheet(model.PrintTypeDTF, 24, "round trip")
	require.NoError(t, err)
	layers := testLayers(t, sheet.ID)
	viewport := model.Viewport{
		WidthPx:     1280,
		HeightPx:    720,
		Scale:       0.75,
		Position:    model.Point{X: -10, Y: 4},
		GridEnabled: true,
		SnapEnabled: true,
	}

	p := Encode(sheet, layers, viewport, "dGh1bWI=")
	assert.Equal(t, PayloadVersion, p.Version)
	assert.False(t, p.Timestamp.IsZero())

	gotSheet, gotLayers, gotViewport := Decode(p)
	assert.Equal(t, sheet, gotSheet)
	assert.Equal(t, viewport, gotViewport)
	assert.Equal(t, layers, gotLayers)
}

func TestPayload_SrcPrefersProcessedURL(t *testing.T) {
	sheet, err := model.NewSheet(model.PrintTypeDTF, 24, "")
	require.NoError(t, err)
	layers := testLayers(t, sheet.ID)

	p := Encode(sheet, layers, model.Viewport{Scale: 1}, "")
	require.Len(t, p.Layers, 3)
	assert.Equal(t, "https://cdn/cat-nobg.png", p.Layers[0].Src)
	assert.Empty(t, p.Layers[1].Src)
	assert.Empty(t, p.Layers[2].Src)
}

func TestPayload_DecodeRecomputesDpi(t *testing.T) {
	sheet, err := model.NewSheet(model.PrintTypeDTF, 24, "")
	require.NoError(t, err)
	img := model.NewImageLayer(sheet.ID, "https://cdn/cat.png", 600, 600,
		model.Point{}, model.Size{Width: 6, Height: 6})

	p := Encode(sheet, []model.Layer{img}, model.Viewport{Scale: 1}, "")
	// A stale or tampered on-disk value must not survive a load.
	p.Layers[0].Image.Dpi = &model.DpiInfo{Dpi: 9999, Quality: model.DpiGood}

	_, gotLayers, _ := Decode(p)
	require.Len(t, gotLayers, 1)
	assert.Equal(t, 100.0, gotLayers[0].Image.Dpi.Dpi)
	assert.Equal(t, model.DpiWarning, gotLayers[0].Image.Dpi.Quality)
}

func TestFileStore_SaveLoadList(t *testing.T) {
	dir := t.TempDir()
	fs := NewFileStore(dir)
	ctx := context.Background()

	sheet, err := model.NewSheet(model.PrintTypeUVDTF, 12, "store test")
	require.NoError(t, err)
	p := Encode(sheet, testLayers(t, sheet.ID), model.Viewport{Scale: 1}, "")

	require.NoError(t, fs.Save(ctx, p))

	got, err := fs.Load(ctx, sheet.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Sheet.ID, got.Sheet.ID)
	assert.Len(t, got.Layers, 3)

	ids, err := fs.List()
	require.NoError(t, err)
	assert.Equal(t, []string{sheet.ID}, ids)
}

func TestFileStore_LoadMissingSheet(t *testing.T) {
	fs := NewFileStore(t.TempDir())
	_, err := fs.Load(context.Background(), "nope")
	assert.Error(t, err)
}

func TestFileStore_SaveRejectsEmptySheetID(t *testing.T) {
	fs := NewFileStore(t.TempDir())
	err := fs.Save(context.Background(), Payload{Version: PayloadVersion})
	assert.Error(t, err)
}
