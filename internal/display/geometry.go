// Package display maps logical capture rectangles onto physical
// monitor pixel buffers.
package display

// CaptureRect is a capture region in logical (display-independent)
// coordinates. Width and height are validated by callers before
// geometry resolution; the resolver additionally rejects regions that
// map to fewer than 10 physical pixels per axis.
type CaptureRect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Valid reports whether the rectangle meets the minimum capture size.
func (r CaptureRect) Valid() bool {
	return r.Width >= MinCaptureDimension && r.Height >= MinCaptureDimension
}

// MinCaptureDimension is the smallest usable capture edge in pixels.
const MinCaptureDimension = 10

// Monitor describes one display's logical placement and pixel density.
// A fresh snapshot is supplied per resolution call; nothing is cached.
type Monitor struct {
	ID     int
	X      int
	Y      int
	Width  int
	Height int
	// Scale is pixels per logical unit (e.g. 2.0 on HiDPI displays).
	Scale float64
	// PixelWidth/PixelHeight are the raw bitmap dimensions. When zero
	// they are derived from the logical size and scale.
	PixelWidth  int
	PixelHeight int
}

// PixelRect is a crop in a monitor bitmap's pixel space.
type PixelRect struct {
	X      int
	Y      int
	Width  int
	Height int
}
