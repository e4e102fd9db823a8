package cv

import (
	"errors"
	"image"
	"image/draw"

	"github.com/scrollshot/scrollshot/internal/caperr"
)

// StitchMode selects how tolerant the stitcher is of unusable input.
type StitchMode int

const (
	// StitchStrict is the final-output mode: it requires at least two
	// usable frames and fails when filtering leaves too little content.
	StitchStrict StitchMode = iota
	// StitchLenient is the preview mode: it never hard-fails on weak
	// matches and silently truncates oversized input.
	StitchLenient
)

// SkipReason explains why a frame contributed nothing to the composite.
type SkipReason int

const (
	// SkipDuplicate means the frame scored below the change threshold.
	SkipDuplicate SkipReason = iota
	// SkipTooSmallDelta means the detected slice was under 10px tall.
	SkipTooSmallDelta
	// SkipMatchFailed means no acceptable overlap was found.
	SkipMatchFailed
)

func (r SkipReason) String() string {
	switch r {
	case SkipDuplicate:
		return "duplicate"
	case SkipTooSmallDelta:
		return "too_small_delta"
	case SkipMatchFailed:
		return "match_failed"
	default:
		return "unknown"
	}
}

// minSliceHeight is the smallest slice worth compositing.
const minSliceHeight = 10

// minFrameDimension rejects frames too small to match reliably.
const minFrameDimension = 20

// StitchOptions parameterizes a stitch run. The strict and lenient
// paths share one scan loop and differ only here.
type StitchOptions struct {
	Mode            StitchMode
	FrameCap        int
	ChangeThreshold float64
}

// StitchResult summarizes a completed stitch.
type StitchResult struct {
	TotalFrames   int
	UsedFrames    int
	SkippedFrames int
	FinalHeight   int
	Skips         map[SkipReason]int
}

// Stitch assembles an ordered frame sequence into one tall composite.
// Frame 0 is always kept whole; each later frame contributes the rows
// below its detected overlap with the running reference. Frames that
// are duplicates, fail to match, or add under 10px are skipped and
// counted. The reference only advances on an accepted slice and always
// to the full uncropped frame.
func Stitch(frames []*image.RGBA, opts StitchOptions) (*image.RGBA, *StitchResult, error) {
	if opts.FrameCap <= 0 {
		return nil, nil, caperr.New(caperr.KindValidationFailed, "frame cap must be positive")
	}
	if opts.ChangeThreshold <= 0 {
		opts.ChangeThreshold = DefaultChangeThreshold
	}

	switch opts.Mode {
	case StitchStrict:
		if len(frames) < 2 {
			return nil, nil, caperr.New(caperr.KindValidationFailed,
				"at least two frames are required to stitch a scroll capture")
		}
		if len(frames) > opts.FrameCap {
			return nil, nil, caperr.Newf(caperr.KindValidationFailed,
				"too many frames: %d exceeds cap of %d", len(frames), opts.FrameCap)
		}
	case StitchLenient:
		if len(frames) == 0 {
			return nil, nil, caperr.New(caperr.KindValidationFailed,
				"no frames available for preview")
		}
		if len(frames) > opts.FrameCap {
			frames = frames[len(frames)-opts.FrameCap:]
		}
	default:
		return nil, nil, caperr.Newf(caperr.KindValidationFailed, "unknown stitch mode %d", opts.Mode)
	}

	width := frames[0].Bounds().Dx()
	height := frames[0].Bounds().Dy()
	if width < minFrameDimension || height < minFrameDimension {
		return nil, nil, caperr.New(caperr.KindValidationFailed, "captured frame is too small")
	}
	for _, frame := range frames[1:] {
		if frame.Bounds().Dx() != width || frame.Bounds().Dy() != height {
			return nil, nil, caperr.New(caperr.KindValidationFailed,
				"scroll frames have different dimensions")
		}
	}

	result := &StitchResult{
		TotalFrames: len(frames),
		Skips:       make(map[SkipReason]int),
	}

	slices := []*image.RGBA{frames[0]}
	ref := frames[0]

	for _, frame := range frames[1:] {
		diff, _ := Difference(ref, frame)
		if diff < opts.ChangeThreshold {
			result.Skips[SkipDuplicate]++
			continue
		}

		overlap, _, err := FindBestOverlap(ref, frame)
		if err != nil {
			if !errors.Is(err, ErrMatchFailed) {
				return nil, nil, err
			}
			result.Skips[SkipMatchFailed]++
			continue
		}

		sliceHeight := height - overlap
		if sliceHeight < minSliceHeight {
			result.Skips[SkipTooSmallDelta]++
			continue
		}

		slices = append(slices, cropRows(frame, overlap, sliceHeight))
		ref = frame
	}

	if opts.Mode == StitchStrict && len(slices) < 2 {
		return nil, nil, caperr.New(caperr.KindStitchFailed,
			"not enough unique frames after filtering; scroll further between captures")
	}
	if opts.Mode == StitchLenient && len(slices) == 1 {
		// Preview fallback: show the most recent frame instead of stale context.
		slices = []*image.RGBA{frames[len(frames)-1]}
	}

	finalHeight := 0
	for _, s := range slices {
		finalHeight += s.Bounds().Dy()
	}

	composite := image.NewRGBA(image.Rect(0, 0, width, finalHeight))
	yOffset := 0
	for _, s := range slices {
		h := s.Bounds().Dy()
		draw.Draw(composite, image.Rect(0, yOffset, width, yOffset+h), s, s.Bounds().Min, draw.Src)
		yOffset += h
	}

	for _, n := range result.Skips {
		result.SkippedFrames += n
	}
	result.UsedFrames = len(slices)
	result.FinalHeight = finalHeight

	return composite, result, nil
}

// cropRows returns the slice of frame covering rows [top, top+height).
func cropRows(frame *image.RGBA, top, height int) *image.RGBA {
	width := frame.Bounds().Dx()
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(out, out.Bounds(), frame, image.Pt(frame.Bounds().Min.X, frame.Bounds().Min.Y+top), draw.Src)
	return out
}
