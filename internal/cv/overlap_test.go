package cv

import (
	"errors"
	"testing"
)

func TestFindBestOverlapScrolledGradient(t *testing.T) {
	// The current frame is the previous one scrolled up by 80px, so the
	// bottom 160 rows of prev exactly equal the top 160 rows of current.
	prev := gradientFrame(160, 240, 0)
	current := gradientFrame(160, 240, 80)

	overlap, score, err := FindBestOverlap(prev, current)
	if err != nil {
		t.Fatalf("FindBestOverlap returned error: %v", err)
	}
	if overlap != 160 {
		t.Errorf("overlap = %d, want 160", overlap)
	}
	if score >= 1.0 {
		t.Errorf("best error = %.3f, want near zero for an exact match", score)
	}
}

func TestFindBestOverlapRejectsUnrelatedFrames(t *testing.T) {
	black := solidFrame(160, 240, 0, 0, 0)
	white := solidFrame(160, 240, 255, 255, 255)

	_, _, err := FindBestOverlap(black, white)
	if !errors.Is(err, ErrMatchFailed) {
		t.Errorf("error = %v, want ErrMatchFailed", err)
	}
}

func TestFindBestOverlapDegenerateHeight(t *testing.T) {
	prev := gradientFrame(160, 1, 0)
	current := gradientFrame(160, 1, 0)

	_, _, err := FindBestOverlap(prev, current)
	if !errors.Is(err, ErrMatchFailed) {
		t.Errorf("error = %v, want ErrMatchFailed", err)
	}
}
