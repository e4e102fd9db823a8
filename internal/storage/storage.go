// Package storage handles frame persistence: save directories, unique
// filenames, PNG encode/decode, and preview thumbnails.
package storage

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/nfnt/resize"

	"github.com/scrollshot/scrollshot/internal/caperr"
)

// EnsureDir creates the directory (and parents) if missing.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return caperr.Wrapf(err, caperr.KindCommandFailed,
			"failed to create directory %q", dir)
	}
	return nil
}

// ValidateSaveDir ensures the directory exists and is writable by
// creating and removing a probe file.
func ValidateSaveDir(dir string) error {
	if dir == "" {
		return caperr.New(caperr.KindValidationFailed, "save directory is required")
	}
	if err := EnsureDir(dir); err != nil {
		return err
	}

	probe := filepath.Join(dir, fmt.Sprintf(".scrollshot_write_test_%d", os.Getpid()))
	f, err := os.OpenFile(probe, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return caperr.Wrapf(err, caperr.KindCommandFailed,
			"directory %q is not writable", dir)
	}
	f.Close()
	os.Remove(probe)
	return nil
}

// GenerateFilename returns a collision-free filename with the given
// prefix and extension, e.g. "scrollshot_20260824-153045_4f6c1a.png".
func GenerateFilename(prefix, ext string) string {
	stamp := time.Now().Format("20060102-150405")
	short := uuid.NewString()[:8]
	return fmt.Sprintf("%s_%s_%s.%s", prefix, stamp, short, ext)
}

// SavePNG writes the frame as a PNG under dir using a generated
// filename and returns the full path.
func SavePNG(frame *image.RGBA, dir, prefix string) (string, error) {
	if err := EnsureDir(dir); err != nil {
		return "", err
	}

	path := filepath.Join(dir, GenerateFilename(prefix, "png"))
	f, err := os.Create(path)
	if err != nil {
		return "", caperr.Wrapf(err, caperr.KindCommandFailed, "failed to create %q", path)
	}
	defer f.Close()

	if err := png.Encode(f, frame); err != nil {
		return "", caperr.Wrapf(err, caperr.KindCommandFailed, "failed to encode %q", path)
	}
	return path, nil
}

// LoadPNG reads a PNG file into an RGBA frame.
func LoadPNG(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, caperr.Wrapf(err, caperr.KindCommandFailed, "failed to open frame %q", path)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, caperr.Wrapf(err, caperr.KindValidationFailed, "failed to decode frame %q", path)
	}
	return ToRGBA(img), nil
}

// ToRGBA converts any decoded image to the RGBA layout the pipeline
// works with, avoiding a copy when possible.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == image.Pt(0, 0) {
		return rgba
	}
	bounds := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(out, out.Bounds(), img, bounds.Min, draw.Src)
	return out
}

// SavePreview writes a downscaled thumbnail of the composite for quick
// inspection. Composites narrower than maxWidth are saved as-is.
func SavePreview(composite *image.RGBA, dir string, maxWidth int) (string, error) {
	if err := EnsureDir(dir); err != nil {
		return "", err
	}

	var thumb image.Image = composite
	if maxWidth > 0 && composite.Bounds().Dx() > maxWidth {
		thumb = resize.Resize(uint(maxWidth), 0, composite, resize.Bilinear)
	}

	path := filepath.Join(dir, GenerateFilename("preview", "png"))
	f, err := os.Create(path)
	if err != nil {
		return "", caperr.Wrapf(err, caperr.KindCommandFailed, "failed to create %q", path)
	}
	defer f.Close()

	if err := png.Encode(f, thumb); err != nil {
		return "", caperr.Wrapf(err, caperr.KindCommandFailed, "failed to encode %q", path)
	}
	return path, nil
}

// CleanupSessionDir removes a session's temporary frame directory.
// Missing or empty paths are ignored.
func CleanupSessionDir(dir string) error {
	if dir == "" {
		return nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}
	if err := os.RemoveAll(dir); err != nil {
		return caperr.Wrapf(err, caperr.KindCommandFailed,
			"failed to clean session directory %q", dir)
	}
	return nil
}
