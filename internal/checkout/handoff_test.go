package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/sheetsmith/internal/model"
)

func testSheet(t *testing.T) model.Sheet {
	t.Helper()
	sheet, err := model.NewSheet(model.PrintTypeDTF, 24, "checkout test")
	require.NoError(t, err)
	return sheet
}

// imageAt builds an image layer whose DPI works out to pixels/6.
func imageAt(sheetID string, pixels int) model.Layer {
	return model.NewImageLayer(sheetID, "https://cdn/img.png", pixels, pixels,
		model.Point{}, model.Size{Width: 6, Height: 6})
}

func TestCompile_EmptySheetRejected(t *testing.T) {
	_, err := Compile(testSheet(t), nil, Options{})
	assert.ErrorIs(t, err, ErrEmptySheet)
}

func TestCompile_DangerLayerBlocksUnconditionally(t *testing.T) {
	sheet := testSheet(t)
	bad := imageAt(sheet.ID, 480) // 80 dpi

	_, err := Compile(sheet, []model.Layer{bad}, Options{ConfirmWarnings: true})
	var qerr *QualityError
	require.ErrorAs(t, err, &qerr)
	require.Len(t, qerr.Danger, 1)
	assert.Equal(t, bad.ID, qerr.Danger[0].ID)
	assert.Equal(t, 80.0, qerr.Danger[0].Dpi)
	assert.Contains(t, err.Error(), bad.ID)
}

func TestCompile_WarningLayerNeedsConfirmation(t *testing.T) {
	sheet := testSheet(t)
	marginal := imageAt(sheet.ID, 600) // 100 dpi

	_, err := Compile(sheet, []model.Layer{marginal}, Options{})
	var qerr *QualityError
	require.ErrorAs(t, err, &qerr)
	assert.Empty(t, qerr.Danger)
	require.Len(t, qerr.Warning, 1)
	assert.Equal(t, marginal.ID, qerr.Warning[0].ID)

	item, err := Compile(sheet, []model.Layer{marginal}, Options{ConfirmWarnings: true})
	require.NoError(t, err)
	assert.Equal(t, 1, item.LayerCount)
}

func TestCompile_SucceedsAfterUpscale(t *testing.T) {
	sheet := testSheet(t)
	l := imageAt(sheet.ID, 480)
	require.Equal(t, model.DpiDanger, l.Image.Dpi.Quality)

	_, err := Compile(sheet, []model.Layer{l}, Options{})
	assert.Error(t, err)

	l.SetOriginalPixels(960, 960) // 2x upscale, 160 dpi
	require.Equal(t, model.DpiGood, l.Image.Dpi.Quality)

	item, err := Compile(sheet, []model.Layer{l}, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, item.LayerCount)
}

func TestCompile_NonImageLayersNeverGate(t *testing.T) {
	sheet := testSheet(t)
	layers := []model.Layer{
		model.NewTextLayer(sheet.ID, "hello", model.Point{}, model.Size{Width: 4, Height: 1}),
		model.NewShapeLayer(sheet.ID, "rect", model.Point{X: 5}, model.Size{Width: 2, Height: 2}),
	}

	item, err := Compile(sheet, layers, Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, item.LayerCount)
}

func TestCompile_LineItem(t *testing.T) {
	sheet := testSheet(t)
	good := imageAt(sheet.ID, 1800) // 300 dpi

	item, err := Compile(sheet, []model.Layer{good}, Options{
		Cutlines:     true,
		Mirror:       true,
		ThumbnailURL: "https://cdn/thumb.png",
	})
	require.NoError(t, err)

	// 22.5" x 24" DTF sheet at $0.025 per square inch.
	assert.InDelta(t, 13.5, item.Price, 0.0001)
	assert.Equal(t, 22.5, item.WidthInches)
	assert.Equal(t, 24.0, item.HeightInches)
	assert.True(t, item.CutlinesFlag)
	assert.True(t, item.MirrorFlag)
	assert.Equal(t, "https://cdn/thumb.png", item.ThumbnailURL)
}

func TestCompile_MixedQualityReportsBothLists(t *testing.T) {
	sheet := testSheet(t)
	danger := imageAt(sheet.ID, 480)
	warning := imageAt(sheet.ID, 700) // ~116 dpi

	_, err := Compile(sheet, []model.Layer{danger, warning}, Options{})
	var qerr *QualityError
	require.ErrorAs(t, err, &qerr)
	assert.Len(t, qerr.Danger, 1)
	assert.Len(t, qerr.Warning, 1)
}
