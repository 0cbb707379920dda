package model

// DpiQuality is the print-resolution tier for an image layer.
type DpiQuality string

const (
	DpiGood    DpiQuality = "good"    // >= 150 DPI
	DpiWarning DpiQuality = "warning" // >= 100 and < 150 DPI
	DpiDanger  DpiQuality = "danger"  // < 100 DPI
)

// DPI tier thresholds.
const (
	dpiGoodThreshold    = 150.0
	dpiWarningThreshold = 100.0
)

// DpiInfo is the derived print-resolution metric for an image layer. It is
// a pure function of the original pixel dimensions and the rendered size,
// recomputed on every size-affecting mutation and never read stale.
type DpiInfo struct {
	Dpi              float64    `json:"dpi"`
	Quality          DpiQuality `json:"quality"`
	OriginalWidth    int        `json:"original_width"`
	OriginalHeight   int        `json:"original_height"`
	CanvasSizeInches Size       `json:"canvas_size_inches"`
}

// ComputeDpi computes the effective print resolution for an image rendered
// at the given size. Each axis resolves to originalPixels / renderedInches;
// the effective DPI is the smaller of the two, so the worse axis determines
// the quality tier.
func ComputeDpi(originalW, originalH int, renderW, renderH float64) DpiInfo {
	info := DpiInfo{
		OriginalWidth:    originalW,
		OriginalHeight:   originalH,
		CanvasSizeInches: Size{Width: renderW, Height: renderH},
	}
	if renderW <= 0 || renderH <= 0 || originalW <= 0 || originalH <= 0 {
		info.Quality = DpiDanger
		return info
	}

	dpiX := float64(originalW) / renderW
	dpiY := float64(originalH) / renderH
	if dpiX < dpiY {
		info.Dpi = dpiX
	} else {
		info.Dpi = dpiY
	}

	switch {
	case info.Dpi >= dpiGoodThreshold:
		info.Quality = DpiGood
	case info.Dpi >= dpiWarningThreshold:
		info.Quality = DpiWarning
	default:
		info.Quality = DpiDanger
	}
	return info
}
