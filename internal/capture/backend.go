// Package capture drives live scroll-capture sessions: grabbing
// region frames from a backend, polling for stabilization, and
// stitching the accepted frames into one composite.
package capture

import (
	"image"
	"strings"

	"github.com/kbinani/screenshot"

	"github.com/scrollshot/scrollshot/internal/caperr"
	"github.com/scrollshot/scrollshot/internal/display"
)

// Backend captures a region of the screen and enumerates monitors.
// Implementations map OS-level failures onto caperr kinds.
type Backend interface {
	Capture(rect display.CaptureRect) (*image.RGBA, error)
	Monitors() ([]display.Monitor, error)
}

// ScreenBackend captures via the cross-platform screenshot library.
type ScreenBackend struct{}

// NewScreenBackend returns the default display backend.
func NewScreenBackend() *ScreenBackend {
	return &ScreenBackend{}
}

// Monitors returns a fresh snapshot of the active displays. The
// screenshot library reports virtual-screen pixel bounds, so logical
// and pixel dimensions coincide (scale 1.0).
func (b *ScreenBackend) Monitors() ([]display.Monitor, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return nil, caperr.New(caperr.KindCaptureFailed, "no active displays found")
	}

	monitors := make([]display.Monitor, 0, n)
	for i := 0; i < n; i++ {
		bounds := screenshot.GetDisplayBounds(i)
		monitors = append(monitors, display.Monitor{
			ID:          i,
			X:           bounds.Min.X,
			Y:           bounds.Min.Y,
			Width:       bounds.Dx(),
			Height:      bounds.Dy(),
			Scale:       1.0,
			PixelWidth:  bounds.Dx(),
			PixelHeight: bounds.Dy(),
		})
	}
	return monitors, nil
}

// Capture grabs the given logical region. The region is resolved onto
// the monitor containing its center and clamped to that monitor's
// bitmap before capture.
func (b *ScreenBackend) Capture(rect display.CaptureRect) (*image.RGBA, error) {
	if !rect.Valid() {
		return nil, caperr.New(caperr.KindValidationFailed, "capture area is too small")
	}

	monitors, err := b.Monitors()
	if err != nil {
		return nil, err
	}

	id, crop, err := display.Resolve(rect, monitors)
	if err != nil {
		return nil, err
	}

	mon := monitors[id]
	img, err := screenshot.Capture(mon.X+crop.X, mon.Y+crop.Y, crop.Width, crop.Height)
	if err != nil {
		return nil, classifyCaptureError(err)
	}
	return img, nil
}

// classifyCaptureError maps backend failures onto error kinds, using
// the same message heuristics the OS capture tools emit.
func classifyCaptureError(err error) error {
	lower := strings.ToLower(err.Error())
	switch {
	case strings.Contains(lower, "permission"),
		strings.Contains(lower, "denied"),
		strings.Contains(lower, "not authorized"),
		strings.Contains(lower, "could not create image from display"):
		return caperr.Wrap(err, caperr.KindPermission,
			"screen recording permission required")
	case strings.Contains(lower, "cancel"):
		return caperr.Wrap(err, caperr.KindCancelled, "capture was cancelled")
	default:
		return caperr.Wrap(err, caperr.KindCaptureFailed, "failed to capture region")
	}
}
