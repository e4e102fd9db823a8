package cv

import (
	"image"

	"github.com/scrollshot/scrollshot/internal/caperr"
)

// DefaultChangeThreshold is the standard "frame changed" boundary used
// by callers (poller, stitcher). Scores below it mean the frames are
// effectively the same content.
const DefaultChangeThreshold = 1.8

// MaxDifference is the sentinel returned for degenerate inputs. Callers
// must treat it as "maximally different", never as an error.
const MaxDifference = 255.0

// diffSampleGrid caps the number of sampled rows/columns per axis.
const diffSampleGrid = 80

// Difference computes a strided pixel-sampling difference score between
// two same-size frames. It samples a grid of at most 80x80 pixels and
// averages the mean absolute RGB difference at each sample (alpha is
// ignored). The result is deterministic for a given input pair.
//
// Empty frames score MaxDifference with a nil error. Mismatched
// dimensions score MaxDifference and additionally report a
// ValidationFailed error.
func Difference(prev, current *image.RGBA) (float64, error) {
	if prev == nil || current == nil {
		return MaxDifference, nil
	}

	width := prev.Bounds().Dx()
	height := prev.Bounds().Dy()
	if width <= 0 || height <= 0 {
		return MaxDifference, nil
	}

	if current.Bounds().Dx() != width || current.Bounds().Dy() != height {
		return MaxDifference, caperr.Newf(caperr.KindValidationFailed,
			"frame dimensions differ: %dx%d vs %dx%d",
			width, height, current.Bounds().Dx(), current.Bounds().Dy())
	}

	colStep := width / diffSampleGrid
	if colStep < 1 {
		colStep = 1
	}
	rowStep := height / diffSampleGrid
	if rowStep < 1 {
		rowStep = 1
	}

	var total float64
	var count uint64

	for y := 0; y < height; y += rowStep {
		pRow := prev.Pix[y*prev.Stride:]
		cRow := current.Pix[y*current.Stride:]
		for x := 0; x < width; x += colStep {
			idx := x * 4
			total += (absDiff(pRow[idx], cRow[idx]) +
				absDiff(pRow[idx+1], cRow[idx+1]) +
				absDiff(pRow[idx+2], cRow[idx+2])) / 3.0
			count++
		}
	}

	if count == 0 {
		return MaxDifference, nil
	}
	return total / float64(count), nil
}

func absDiff(a, b uint8) float64 {
	if a > b {
		return float64(a - b)
	}
	return float64(b - a)
}
