// Package config loads capture settings from Settings.ini and named
// capture profiles from YAML.
package config

import (
	"fmt"

	"gopkg.in/ini.v1"

	"github.com/scrollshot/scrollshot/internal/cv"
	"github.com/scrollshot/scrollshot/internal/session"
)

// Settings holds runtime configuration for the capture pipeline.
type Settings struct {
	// Session limits
	Scroll session.Config

	// ChangeThreshold is the frame-difference score above which content
	// counts as changed.
	ChangeThreshold float64

	// DedupeDistance is the perceptual-hash Hamming distance at or
	// below which a captured frame is considered a duplicate.
	DedupeDistance int

	// SaveDir is where composites are written.
	SaveDir string

	// DatabasePath is the capture history database location. Empty
	// disables history recording.
	DatabasePath string

	// PreviewMaxWidth bounds preview thumbnail width in pixels.
	PreviewMaxWidth int

	// LogLevel is the minimum level emitted by pipeline loggers.
	LogLevel string
}

// Defaults returns the settings used when no Settings.ini exists.
func Defaults() Settings {
	return Settings{
		Scroll:          session.DefaultConfig(),
		ChangeThreshold: cv.DefaultChangeThreshold,
		DedupeDistance:  3,
		SaveDir:         "captures",
		DatabasePath:    "scrollshot.db",
		PreviewMaxWidth: 480,
		LogLevel:        "INFO",
	}
}

// LoadFromINI loads settings from a Settings.ini file, falling back to
// defaults for missing keys.
func LoadFromINI(path string) (*Settings, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	defaults := Defaults()
	section := cfg.Section("Capture")

	settings := &Settings{
		Scroll: session.Config{
			MaxHeightPx:            section.Key("maxHeightPx").MustInt(defaults.Scroll.MaxHeightPx),
			MaxFrames:              section.Key("maxFrames").MustInt(defaults.Scroll.MaxFrames),
			ThrottleMs:             section.Key("throttleMs").MustInt(defaults.Scroll.ThrottleMs),
			MaxConsecutiveFailures: section.Key("maxConsecutiveFailures").MustInt(defaults.Scroll.MaxConsecutiveFailures),
		},
		ChangeThreshold: section.Key("changeThreshold").MustFloat64(defaults.ChangeThreshold),
		DedupeDistance:  section.Key("dedupeDistance").MustInt(defaults.DedupeDistance),
		SaveDir:         section.Key("saveDir").MustString(defaults.SaveDir),
		DatabasePath:    section.Key("databasePath").MustString(defaults.DatabasePath),
		PreviewMaxWidth: section.Key("previewMaxWidth").MustInt(defaults.PreviewMaxWidth),
		LogLevel:        section.Key("logLevel").MustString(defaults.LogLevel),
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Validate rejects settings that would stall or overrun a session.
func (s *Settings) Validate() error {
	if s.Scroll.MaxHeightPx < 1 {
		return fmt.Errorf("maxHeightPx must be at least 1, got %d", s.Scroll.MaxHeightPx)
	}
	if s.Scroll.MaxFrames < 1 {
		return fmt.Errorf("maxFrames must be at least 1, got %d", s.Scroll.MaxFrames)
	}
	if s.Scroll.MaxConsecutiveFailures < 1 {
		return fmt.Errorf("maxConsecutiveFailures must be at least 1, got %d", s.Scroll.MaxConsecutiveFailures)
	}
	if s.ChangeThreshold <= 0 {
		return fmt.Errorf("changeThreshold must be positive, got %g", s.ChangeThreshold)
	}
	if s.DedupeDistance < 0 {
		return fmt.Errorf("dedupeDistance must not be negative, got %d", s.DedupeDistance)
	}
	return nil
}
