package display

import (
	"testing"

	"github.com/scrollshot/scrollshot/internal/caperr"
)

func testMonitors() []Monitor {
	return []Monitor{
		{ID: 0, X: 0, Y: 0, Width: 800, Height: 600, Scale: 2.0, PixelWidth: 1600, PixelHeight: 1200},
		{ID: 1, X: 800, Y: 0, Width: 800, Height: 600, Scale: 1.0, PixelWidth: 800, PixelHeight: 600},
	}
}

func TestResolveHiDPIScaling(t *testing.T) {
	rect := CaptureRect{X: 10, Y: 20, Width: 100, Height: 50}

	id, crop, err := Resolve(rect, testMonitors())
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if id != 0 {
		t.Errorf("monitor = %d, want 0", id)
	}

	want := PixelRect{X: 20, Y: 40, Width: 200, Height: 100}
	if crop != want {
		t.Errorf("crop = %+v, want %+v", crop, want)
	}
}

func TestResolveCenterPointOwnership(t *testing.T) {
	// The rect straddles the seam; its center lands exactly on the
	// second monitor's left edge, which the half-open bounds own.
	rect := CaptureRect{X: 750, Y: 100, Width: 100, Height: 50}

	id, crop, err := Resolve(rect, testMonitors())
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if id != 1 {
		t.Errorf("monitor = %d, want 1", id)
	}

	// The portion hanging off the monitor's left edge is clamped away.
	want := PixelRect{X: 0, Y: 100, Width: 50, Height: 50}
	if crop != want {
		t.Errorf("crop = %+v, want %+v", crop, want)
	}
}

func TestResolveOutsideAllMonitors(t *testing.T) {
	rect := CaptureRect{X: 5000, Y: 5000, Width: 100, Height: 100}

	_, _, err := Resolve(rect, testMonitors())
	if !caperr.IsKind(err, caperr.KindCaptureFailed) {
		t.Errorf("error = %v, want CaptureFailed", err)
	}
}

func TestResolveClampsNegativeOrigin(t *testing.T) {
	rect := CaptureRect{X: 100, Y: -5, Width: 50, Height: 40}

	id, crop, err := Resolve(rect, []Monitor{
		{ID: 0, X: 0, Y: 0, Width: 800, Height: 600, Scale: 1.0, PixelWidth: 800, PixelHeight: 600},
	})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if id != 0 {
		t.Errorf("monitor = %d, want 0", id)
	}

	want := PixelRect{X: 100, Y: 0, Width: 50, Height: 35}
	if crop != want {
		t.Errorf("crop = %+v, want %+v", crop, want)
	}
}

func TestResolveRejectsTinyClampedCrop(t *testing.T) {
	rect := CaptureRect{X: 795, Y: 100, Width: 8, Height: 50}

	_, _, err := Resolve(rect, []Monitor{
		{ID: 0, X: 0, Y: 0, Width: 800, Height: 600, Scale: 1.0, PixelWidth: 800, PixelHeight: 600},
	})
	if !caperr.IsKind(err, caperr.KindCaptureFailed) {
		t.Errorf("error = %v, want CaptureFailed", err)
	}
}

func TestResolveDerivesPixelBounds(t *testing.T) {
	rect := CaptureRect{X: 700, Y: 100, Width: 100, Height: 50}

	_, crop, err := Resolve(rect, []Monitor{
		{ID: 0, X: 0, Y: 0, Width: 800, Height: 600, Scale: 2.0},
	})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	want := PixelRect{X: 1400, Y: 200, Width: 200, Height: 100}
	if crop != want {
		t.Errorf("crop = %+v, want %+v", crop, want)
	}
}

func TestResolveDefaultsNonPositiveScale(t *testing.T) {
	rect := CaptureRect{X: 10, Y: 10, Width: 100, Height: 100}

	_, crop, err := Resolve(rect, []Monitor{
		{ID: 0, X: 0, Y: 0, Width: 800, Height: 600, Scale: 0},
	})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	want := PixelRect{X: 10, Y: 10, Width: 100, Height: 100}
	if crop != want {
		t.Errorf("crop = %+v, want %+v", crop, want)
	}
}

func TestCaptureRectValid(t *testing.T) {
	tests := []struct {
		name string
		rect CaptureRect
		want bool
	}{
		{"usable", CaptureRect{Width: 100, Height: 50}, true},
		{"minimum edge", CaptureRect{Width: 10, Height: 10}, true},
		{"too narrow", CaptureRect{Width: 9, Height: 100}, false},
		{"too short", CaptureRect{Width: 100, Height: 9}, false},
		{"zero", CaptureRect{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rect.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}
