package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/scrollshot/scrollshot/internal/display"
)

// Profile is a named capture preset: a region plus optional limit
// overrides applied on top of the loaded settings.
type Profile struct {
	Name string `yaml:"name"`
	Rect struct {
		X      int `yaml:"x"`
		Y      int `yaml:"y"`
		Width  int `yaml:"width"`
		Height int `yaml:"height"`
	} `yaml:"rect"`
	MaxHeightPx int `yaml:"max_height_px,omitempty"`
	MaxFrames   int `yaml:"max_frames,omitempty"`
}

// ProfileFile is the on-disk YAML layout.
type ProfileFile struct {
	Profiles []Profile `yaml:"profiles"`
}

// LoadProfiles reads capture profiles from a YAML file.
func LoadProfiles(path string) ([]Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles file: %w", err)
	}

	var file ProfileFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse profiles file: %w", err)
	}

	for i, p := range file.Profiles {
		if p.Name == "" {
			return nil, fmt.Errorf("profile %d has no name", i)
		}
		if !p.CaptureRect().Valid() {
			return nil, fmt.Errorf("profile %q capture rect is below the %dpx minimum",
				p.Name, display.MinCaptureDimension)
		}
	}

	return file.Profiles, nil
}

// FindProfile returns the named profile.
func FindProfile(profiles []Profile, name string) (Profile, bool) {
	for _, p := range profiles {
		if p.Name == name {
			return p, true
		}
	}
	return Profile{}, false
}

// CaptureRect converts the profile's region to a capture rectangle.
func (p Profile) CaptureRect() display.CaptureRect {
	return display.CaptureRect{
		X:      p.Rect.X,
		Y:      p.Rect.Y,
		Width:  p.Rect.Width,
		Height: p.Rect.Height,
	}
}

// Apply overrides settings limits with any the profile specifies.
func (p Profile) Apply(settings Settings) Settings {
	if p.MaxHeightPx > 0 {
		settings.Scroll.MaxHeightPx = p.MaxHeightPx
	}
	if p.MaxFrames > 0 {
		settings.Scroll.MaxFrames = p.MaxFrames
	}
	return settings
}
