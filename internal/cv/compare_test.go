package cv

import (
	"image"
	"testing"

	"github.com/scrollshot/scrollshot/internal/caperr"
)

func TestDifferenceIdenticalFrames(t *testing.T) {
	a := gradientFrame(160, 240, 0)
	b := gradientFrame(160, 240, 0)

	score, err := Difference(a, b)
	if err != nil {
		t.Fatalf("Difference returned error: %v", err)
	}
	if score >= 0.5 {
		t.Errorf("identical frames scored %.3f, want < 0.5", score)
	}
}

func TestDifferenceScrolledFrames(t *testing.T) {
	a := gradientFrame(160, 240, 0)
	b := gradientFrame(160, 240, 80)

	score, err := Difference(a, b)
	if err != nil {
		t.Fatalf("Difference returned error: %v", err)
	}
	if score < DefaultChangeThreshold {
		t.Errorf("scrolled frames scored %.3f, want >= %.1f", score, DefaultChangeThreshold)
	}
}

func TestDifferenceDegenerateFrames(t *testing.T) {
	tests := []struct {
		name    string
		prev    *image.RGBA
		current *image.RGBA
	}{
		{"nil prev", nil, gradientFrame(160, 240, 0)},
		{"nil current", gradientFrame(160, 240, 0), nil},
		{"empty prev", image.NewRGBA(image.Rect(0, 0, 0, 0)), gradientFrame(160, 240, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, err := Difference(tt.prev, tt.current)
			if err != nil {
				t.Fatalf("degenerate input returned error: %v", err)
			}
			if score != MaxDifference {
				t.Errorf("score = %.3f, want sentinel %.1f", score, MaxDifference)
			}
		})
	}
}

func TestDifferenceDimensionMismatch(t *testing.T) {
	a := gradientFrame(160, 240, 0)
	b := gradientFrame(160, 200, 0)

	score, err := Difference(a, b)
	if score != MaxDifference {
		t.Errorf("score = %.3f, want sentinel %.1f", score, MaxDifference)
	}
	if !caperr.IsKind(err, caperr.KindValidationFailed) {
		t.Errorf("error = %v, want ValidationFailed", err)
	}
}

func TestDifferenceMaximallyDifferentFrames(t *testing.T) {
	black := solidFrame(160, 240, 0, 0, 0)
	white := solidFrame(160, 240, 255, 255, 255)

	score, err := Difference(black, white)
	if err != nil {
		t.Fatalf("Difference returned error: %v", err)
	}
	if score != 255.0 {
		t.Errorf("black vs white scored %.3f, want 255.0", score)
	}
}
