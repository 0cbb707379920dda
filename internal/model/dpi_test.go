package model

import "testing"

func TestComputeDpiUsesWorseAxis(t *testing.T) {
	// 1200px over 4in is 300 dpi; 600px over 6in is 100 dpi. The lower
	// axis wins.
	info := ComputeDpi(1200, 600, 4, 6)
	if info.Dpi != 100 {
		t.Errorf("expected dpi 100, got %.1f", info.Dpi)
	}
	if info.Quality != DpiWarning {
		t.Errorf("expected warning quality, got %s", info.Quality)
	}
}

func TestComputeDpiBoundary100IsWarning(t *testing.T) {
	// 600px square rendered at 6x6in is exactly 100 dpi, which is
	// inclusive of warning, not danger.
	info := ComputeDpi(600, 600, 6, 6)
	if info.Dpi != 100 {
		t.Errorf("expected dpi 100, got %.1f", info.Dpi)
	}
	if info.Quality != DpiWarning {
		t.Errorf("expected warning at the 100 boundary, got %s", info.Quality)
	}
}

func TestComputeDpiBoundary150IsGood(t *testing.T) {
	info := ComputeDpi(900, 900, 6, 6)
	if info.Dpi != 150 {
		t.Errorf("expected dpi 150, got %.1f", info.Dpi)
	}
	if info.Quality != DpiGood {
		t.Errorf("expected good at the 150 boundary, got %s", info.Quality)
	}
}

func TestComputeDpiDanger(t *testing.T) {
	info := ComputeDpi(480, 480, 6, 6)
	if info.Dpi != 80 {
		t.Errorf("expected dpi 80, got %.1f", info.Dpi)
	}
	if info.Quality != DpiDanger {
		t.Errorf("expected danger below 100, got %s", info.Quality)
	}
}

func TestComputeDpiMonotonicInRenderSize(t *testing.T) {
	// For fixed original pixels, growing the render size never increases
	// the effective dpi.
	prev := ComputeDpi(1000, 800, 1, 1).Dpi
	for size := 2.0; size <= 20; size++ {
		cur := ComputeDpi(1000, 800, size, size).Dpi
		if cur > prev {
			t.Fatalf("dpi increased from %.2f to %.2f at size %.0f", prev, cur, size)
		}
		prev = cur
	}
}

func TestComputeDpiZeroDimensions(t *testing.T) {
	info := ComputeDpi(0, 0, 6, 6)
	if info.Quality != DpiDanger {
		t.Errorf("expected danger for zero pixel dimensions, got %s", info.Quality)
	}
	info = ComputeDpi(600, 600, 0, 6)
	if info.Quality != DpiDanger {
		t.Errorf("expected danger for zero render size, got %s", info.Quality)
	}
}
