package model

import "testing"

func TestNewImageLayerComputesDpi(t *testing.T) {
	l := NewImageLayer("sheet1", "https://cdn/img.png", 600, 600,
		Point{X: 1, Y: 2}, Size{Width: 6, Height: 6})

	if l.Kind != LayerKindImage {
		t.Fatalf("expected image kind, got %s", l.Kind)
	}
	if l.Image == nil || l.Image.Dpi == nil {
		t.Fatal("expected dpi info on a new image layer")
	}
	if l.Image.Dpi.Dpi != 100 {
		t.Errorf("expected dpi 100, got %.1f", l.Image.Dpi.Dpi)
	}
	if l.Text != nil || l.Shape != nil {
		t.Error("image layer must not carry text or shape payloads")
	}
}

func TestSetSizeRecomputesDpi(t *testing.T) {
	l := NewImageLayer("s", "u", 600, 600, Point{}, Size{Width: 6, Height: 6})
	l.SetSize(Size{Width: 3, Height: 3})

	if l.Image.Dpi.Dpi != 200 {
		t.Errorf("expected dpi 200 after shrink, got %.1f", l.Image.Dpi.Dpi)
	}
	if l.Image.Dpi.Quality != DpiGood {
		t.Errorf("expected good quality, got %s", l.Image.Dpi.Quality)
	}
	if l.Image.Dpi.CanvasSizeInches.Width != 3 {
		t.Error("dpi info must reflect the current render size")
	}
}

func TestSetOriginalPixelsRecomputesDpi(t *testing.T) {
	l := NewImageLayer("s", "u", 480, 480, Point{}, Size{Width: 6, Height: 6})
	if l.Image.Dpi.Quality != DpiDanger {
		t.Fatalf("expected danger before upscale, got %s", l.Image.Dpi.Quality)
	}
	// 2x upscale: 480 -> 960 px over 6in = 160 dpi
	l.SetOriginalPixels(960, 960)
	if l.Image.Dpi.Dpi != 160 {
		t.Errorf("expected dpi 160 after upscale, got %.1f", l.Image.Dpi.Dpi)
	}
	if l.Image.Dpi.Quality != DpiGood {
		t.Errorf("expected good after upscale, got %s", l.Image.Dpi.Quality)
	}
}

func TestSetRotationNormalizes(t *testing.T) {
	l := NewShapeLayer("s", "rect", Point{}, Size{Width: 1, Height: 1})
	l.SetRotation(450)
	if l.RotationDegrees != 90 {
		t.Errorf("expected 90, got %.1f", l.RotationDegrees)
	}
	l.SetRotation(-90)
	if l.RotationDegrees != 270 {
		t.Errorf("expected 270, got %.1f", l.RotationDegrees)
	}
}

func TestCloneIsDeep(t *testing.T) {
	l := NewImageLayer("s", "u", 600, 600, Point{}, Size{Width: 6, Height: 6})
	cp := l.Clone()
	cp.Image.SourceURL = "changed"
	cp.Image.Dpi.Dpi = 1

	if l.Image.SourceURL == "changed" {
		t.Error("clone shares the image payload")
	}
	if l.Image.Dpi.Dpi == 1 {
		t.Error("clone shares the dpi info")
	}
}
