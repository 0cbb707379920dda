package model

import "testing"

func TestNewSheetFromPreset(t *testing.T) {
	sheet, err := NewSheet(PrintTypeDTF, 24, "Gang Sheet")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sheet.WidthInches != 22.5 {
		t.Errorf("expected dtf width 22.5, got %.1f", sheet.WidthInches)
	}
	if sheet.HeightInches != 24 {
		t.Errorf("expected height 24, got %.1f", sheet.HeightInches)
	}
	if sheet.Status != SheetStatusDraft {
		t.Errorf("expected draft status, got %s", sheet.Status)
	}
	if sheet.ID == "" {
		t.Error("expected a sheet id")
	}
}

func TestNewSheetRejectsInvalidHeight(t *testing.T) {
	if _, err := NewSheet(PrintTypeDTF, 17, "Bad"); err == nil {
		t.Error("expected error for a height outside the preset list")
	}
}

func TestNewSheetRejectsUnknownPrintType(t *testing.T) {
	if _, err := NewSheet(PrintType("vinyl"), 24, "Bad"); err == nil {
		t.Error("expected error for an unknown print type")
	}
}

func TestPresetsCoverAllPrintTypes(t *testing.T) {
	for _, pt := range []PrintType{PrintTypeDTF, PrintTypeUVDTF, PrintTypeSublimation} {
		p, err := GetPreset(pt)
		if err != nil {
			t.Errorf("missing preset for %s: %v", pt, err)
			continue
		}
		if p.WidthInches <= 0 || len(p.AllowedHeights) == 0 || p.PricePerSquareInch <= 0 {
			t.Errorf("incomplete preset for %s: %+v", pt, p)
		}
	}
}
