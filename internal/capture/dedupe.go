package capture

import (
	"image"

	"github.com/corona10/goimagehash"
)

// Deduper is a perceptual-hash duplicate guard applied to frames the
// poller reports as captured, before they are kept for stitching. It
// catches near-identical frames that slip past the sampling comparator
// (cursor blinks, antialiasing jitter).
type Deduper struct {
	maxDistance int
	lastHash    *goimagehash.ImageHash
}

// NewDeduper creates a guard that treats frames within maxDistance
// Hamming bits of the previous kept frame as duplicates.
func NewDeduper(maxDistance int) *Deduper {
	return &Deduper{maxDistance: maxDistance}
}

// Reset clears the stored hash. Call at session start.
func (d *Deduper) Reset() {
	d.lastHash = nil
}

// IsDuplicate reports whether the frame is perceptually identical to
// the previously kept frame. Hashing failures never reject a frame.
func (d *Deduper) IsDuplicate(frame *image.RGBA) bool {
	hash, err := goimagehash.PerceptionHash(frame)
	if err != nil {
		return false
	}

	if d.lastHash == nil {
		d.lastHash = hash
		return false
	}

	dist, err := d.lastHash.Distance(hash)
	if err != nil {
		d.lastHash = hash
		return false
	}

	if dist <= d.maxDistance {
		return true
	}

	d.lastHash = hash
	return false
}
