package display

import (
	"math"

	"github.com/scrollshot/scrollshot/internal/caperr"
)

// Resolve maps a logical capture rectangle to a pixel-space crop on a
// specific monitor. The monitor owning the rectangle's center point
// wins (first match in input order, half-open bounds on both axes).
// The crop is scaled by the monitor's pixel density, rounded to the
// nearest pixel, floored at 1px, and clamped to the monitor bitmap.
func Resolve(rect CaptureRect, monitors []Monitor) (int, PixelRect, error) {
	cx := float64(rect.X) + float64(rect.Width)/2
	cy := float64(rect.Y) + float64(rect.Height)/2

	for _, mon := range monitors {
		if cx < float64(mon.X) || cx >= float64(mon.X+mon.Width) {
			continue
		}
		if cy < float64(mon.Y) || cy >= float64(mon.Y+mon.Height) {
			continue
		}

		crop, err := mapToPixels(rect, mon)
		if err != nil {
			return 0, PixelRect{}, err
		}
		return mon.ID, crop, nil
	}

	return 0, PixelRect{}, caperr.New(caperr.KindCaptureFailed,
		"capture rectangle lies outside all monitors")
}

func mapToPixels(rect CaptureRect, mon Monitor) (PixelRect, error) {
	scale := mon.Scale
	if scale <= 0 {
		scale = 1.0
	}

	bmWidth := mon.PixelWidth
	bmHeight := mon.PixelHeight
	if bmWidth <= 0 {
		bmWidth = roundScaled(mon.Width, scale)
	}
	if bmHeight <= 0 {
		bmHeight = roundScaled(mon.Height, scale)
	}

	px := roundScaled(rect.X-mon.X, scale)
	py := roundScaled(rect.Y-mon.Y, scale)
	pw := roundScaled(rect.Width, scale)
	ph := roundScaled(rect.Height, scale)
	if pw < 1 {
		pw = 1
	}
	if ph < 1 {
		ph = 1
	}

	if px < 0 {
		pw += px
		px = 0
	}
	if py < 0 {
		ph += py
		py = 0
	}
	if px >= bmWidth || py >= bmHeight {
		return PixelRect{}, caperr.New(caperr.KindCaptureFailed,
			"capture rectangle starts outside the monitor bitmap")
	}
	if px+pw > bmWidth {
		pw = bmWidth - px
	}
	if py+ph > bmHeight {
		ph = bmHeight - py
	}

	if pw < MinCaptureDimension || ph < MinCaptureDimension {
		return PixelRect{}, caperr.New(caperr.KindCaptureFailed,
			"capture rectangle is too small after clamping")
	}

	return PixelRect{X: px, Y: py, Width: pw, Height: ph}, nil
}

func roundScaled(v int, scale float64) int {
	return int(math.Round(float64(v) * scale))
}
