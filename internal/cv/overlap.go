package cv

import (
	"errors"
	"fmt"
	"image"
	"math"
)

// ErrMatchFailed is returned when no acceptable overlap exists between
// two frames. The stitcher treats it as a per-frame skip, not an abort.
var ErrMatchFailed = errors.New("scroll frame match failed")

const (
	// minOverlap is the smallest vertical overlap considered between
	// consecutive scroll frames.
	minOverlap = 24
	// minNewContent is the smallest number of fresh rows a frame must
	// contribute, which bounds the largest overlap searched.
	minNewContent = 40
	// maxMatchError is the quality ceiling: a best candidate scoring
	// above it is reported as a failed match.
	maxMatchError = 42.0

	overlapColSamples = 70
	overlapRowSamples = 80
)

// FindBestOverlap searches candidate vertical overlaps between the
// bottom of prev and the top of current and returns the overlap with
// the lowest band error. Candidates step by 2 in ascending order and
// the first minimum encountered wins, so the tie-break is stable but
// callers must not assume a unique optimum.
//
// Both failure conditions wrap ErrMatchFailed: no candidate could be
// evaluated (degenerate height), or the best error exceeds the quality
// ceiling.
func FindBestOverlap(prev, current *image.RGBA) (int, float64, error) {
	height := prev.Bounds().Dy()

	lo := minOverlap
	if height-1 < lo {
		lo = height - 1
	}
	hi := height - minNewContent
	if hi < lo {
		hi = lo
	}

	bestOverlap := 0
	bestError := math.MaxFloat64

	for overlap := lo; overlap <= hi; overlap += 2 {
		err := overlapError(prev, current, overlap)
		if err < bestError {
			bestError = err
			bestOverlap = overlap
		}
	}

	if bestOverlap == 0 {
		return 0, 0, fmt.Errorf("no overlap candidate between frames: %w", ErrMatchFailed)
	}
	if bestError > maxMatchError {
		return 0, 0, fmt.Errorf("best overlap error %.2f exceeds ceiling %.1f: %w",
			bestError, maxMatchError, ErrMatchFailed)
	}

	return bestOverlap, bestError, nil
}

// overlapError scores one overlap candidate: the bottom `overlap` rows
// of prev against the top `overlap` rows of current, sampling columns
// in the central 15%-85% band. Lower is better.
func overlapError(prev, current *image.RGBA, overlap int) float64 {
	width := prev.Bounds().Dx()
	height := prev.Bounds().Dy()
	if overlap <= 0 || overlap > height {
		return math.MaxFloat64
	}

	xStart := width * 15 / 100
	xEnd := width * 85 / 100
	colStep := (xEnd - xStart) / overlapColSamples
	if colStep < 1 {
		colStep = 1
	}
	rowStep := overlap / overlapRowSamples
	if rowStep < 1 {
		rowStep = 1
	}

	var total float64
	var samples uint64

	for r := 0; r < overlap; r += rowStep {
		pRow := prev.Pix[(height-overlap+r)*prev.Stride:]
		cRow := current.Pix[r*current.Stride:]
		for x := xStart; x < xEnd; x += colStep {
			idx := x * 4
			total += (absDiff(pRow[idx], cRow[idx]) +
				absDiff(pRow[idx+1], cRow[idx+1]) +
				absDiff(pRow[idx+2], cRow[idx+2])) / 3.0
			samples++
		}
	}

	if samples == 0 {
		return math.MaxFloat64
	}
	return total / float64(samples)
}
