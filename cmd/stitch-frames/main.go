package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/scrollshot/scrollshot/internal/cv"
	"github.com/scrollshot/scrollshot/internal/session"
	"github.com/scrollshot/scrollshot/internal/storage"
)

func main() {
	dir := flag.String("dir", "", "Directory of PNG frames to stitch, in filename order")
	out := flag.String("out", "captures", "Output directory for the composite")
	lenient := flag.Bool("lenient", false, "Always produce output, falling back to the last frame")
	frameCap := flag.Int("max-frames", session.DefaultConfig().MaxFrames, "Maximum frames accepted per stitch")
	threshold := flag.Float64("threshold", cv.DefaultChangeThreshold, "Frame-difference score treated as changed content")
	flag.Parse()

	paths := framePaths(*dir, flag.Args())
	if len(paths) == 0 {
		log.Fatal("No frames given: pass -dir or PNG paths as arguments")
	}

	frames := make([]*image.RGBA, 0, len(paths))
	for _, path := range paths {
		frame, err := storage.LoadPNG(path)
		if err != nil {
			log.Fatalf("Failed to load %s: %v", path, err)
		}
		frames = append(frames, frame)
	}

	mode := cv.StitchStrict
	if *lenient {
		mode = cv.StitchLenient
	}

	composite, result, err := cv.Stitch(frames, cv.StitchOptions{
		Mode:            mode,
		FrameCap:        *frameCap,
		ChangeThreshold: *threshold,
	})
	if err != nil {
		log.Fatalf("Stitch failed: %v", err)
	}

	path, err := storage.SavePNG(composite, *out, "stitched")
	if err != nil {
		log.Fatalf("Failed to save composite: %v", err)
	}

	fmt.Printf("Saved %s\n", path)
	fmt.Printf("  frames: %d total, %d used, %d skipped\n",
		result.TotalFrames, result.UsedFrames, result.SkippedFrames)
	fmt.Printf("  final height: %dpx\n", result.FinalHeight)
	for reason, count := range result.Skips {
		fmt.Printf("  skipped (%s): %d\n", reason, count)
	}
}

// framePaths gathers frames from -dir (sorted by name) plus any
// explicit arguments, in that order.
func framePaths(dir string, args []string) []string {
	var paths []string

	if dir != "" {
		entries, err := os.ReadDir(dir)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", dir, err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".png") {
				continue
			}
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
		sort.Strings(paths)
	}

	return append(paths, args...)
}
