package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/scrollshot/scrollshot/internal/capture"
	"github.com/scrollshot/scrollshot/internal/config"
	"github.com/scrollshot/scrollshot/internal/database"
	"github.com/scrollshot/scrollshot/internal/display"
	"github.com/scrollshot/scrollshot/internal/events"
	"github.com/scrollshot/scrollshot/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "Path to Settings.ini (optional)")
	profilesPath := flag.String("profiles", "", "Path to capture profiles YAML (optional)")
	profileName := flag.String("profile", "", "Named capture profile to use")
	rectSpec := flag.String("rect", "", "Capture region as x,y,width,height in logical pixels")
	listMonitors := flag.Bool("monitors", false, "List active monitors and exit")
	flag.Parse()

	backend := capture.NewScreenBackend()

	if *listMonitors {
		monitors, err := backend.Monitors()
		if err != nil {
			log.Fatalf("Failed to enumerate monitors: %v", err)
		}
		for _, m := range monitors {
			fmt.Printf("monitor %d: origin=(%d,%d) size=%dx%d scale=%.2f pixels=%dx%d\n",
				m.ID, m.X, m.Y, m.Width, m.Height, m.Scale, m.PixelWidth, m.PixelHeight)
		}
		return
	}

	settings := loadSettings(*configPath)

	rect, err := resolveRect(*rectSpec, *profilesPath, *profileName, &settings)
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger := logging.NewLogger("scrollshot")
	logger.SetMinLevel(logging.Level(strings.ToUpper(settings.LogLevel)))

	bus := events.NewEventBus(64)
	defer bus.Stop()
	bus.Subscribe(events.EventTypeFrameCaptured, func(e events.Event) {
		logger.InfoWithContext("frame captured", e.Data)
	})
	bus.Subscribe(events.EventTypeFrameSkipped, func(e events.Event) {
		logger.DebugWithContext("frame skipped", e.Data)
	})
	bus.Subscribe(events.EventTypeSessionAutoStopped, func(e events.Event) {
		logger.InfoWithContext("session auto-stopped", e.Data)
	})

	runner := capture.NewRunner(backend, settings).WithEventBus(bus)

	if settings.DatabasePath != "" {
		db, err := database.Open(settings.DatabasePath)
		if err != nil {
			log.Fatalf("Failed to open history database: %v", err)
		}
		defer db.Close()
		runner = runner.WithHistory(db)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.InfoWithContext("starting scroll capture, press Ctrl+C to finish", map[string]interface{}{
		"rect": fmt.Sprintf("%d,%d %dx%d", rect.X, rect.Y, rect.Width, rect.Height),
	})

	outcome, err := runner.Run(ctx, rect)
	if err != nil {
		log.Fatalf("Capture failed: %v", err)
	}

	fmt.Printf("Saved %s (%d frames used, %d skipped, final height %dpx)\n",
		outcome.OutputPath, outcome.Stitch.UsedFrames,
		outcome.Stitch.SkippedFrames, outcome.Stitch.FinalHeight)
	if outcome.PreviewPath != "" {
		fmt.Printf("Preview: %s\n", outcome.PreviewPath)
	}
}

func loadSettings(path string) config.Settings {
	if path == "" {
		return config.Defaults()
	}
	settings, err := config.LoadFromINI(path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	return *settings
}

// resolveRect picks the capture region from -rect, or from a named
// profile when -profile is given. Profiles may also tighten session
// limits.
func resolveRect(rectSpec, profilesPath, profileName string, settings *config.Settings) (display.CaptureRect, error) {
	if profileName != "" {
		if profilesPath == "" {
			return display.CaptureRect{}, fmt.Errorf("-profile requires -profiles")
		}
		profiles, err := config.LoadProfiles(profilesPath)
		if err != nil {
			return display.CaptureRect{}, fmt.Errorf("failed to load profiles: %w", err)
		}
		profile, ok := config.FindProfile(profiles, profileName)
		if !ok {
			return display.CaptureRect{}, fmt.Errorf("profile %q not found", profileName)
		}
		*settings = profile.Apply(*settings)
		return profile.CaptureRect(), nil
	}

	if rectSpec == "" {
		return display.CaptureRect{}, fmt.Errorf("either -rect or -profile is required")
	}
	return parseRect(rectSpec)
}

func parseRect(spec string) (display.CaptureRect, error) {
	parts := strings.Split(spec, ",")
	if len(parts) != 4 {
		return display.CaptureRect{}, fmt.Errorf("invalid -rect %q, expected x,y,width,height", spec)
	}

	values := make([]int, 4)
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return display.CaptureRect{}, fmt.Errorf("invalid -rect %q: %w", spec, err)
		}
		values[i] = v
	}

	rect := display.CaptureRect{X: values[0], Y: values[1], Width: values[2], Height: values[3]}
	if !rect.Valid() {
		return display.CaptureRect{}, fmt.Errorf("capture region %q is smaller than %dx%d",
			spec, display.MinCaptureDimension, display.MinCaptureDimension)
	}
	return rect, nil
}
