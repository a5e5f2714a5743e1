// Package config loads the fix settings file and derives the resolution
// values the fix callbacks consume. Derived values are computed once and
// treated as read-only for the rest of the process lifetime.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// nativeAspect is the aspect ratio the game was authored for.
var nativeAspect = float32(16) / float32(9)

// File mirrors the settings document on disk.
type File struct {
	Name         string `yaml:"name"`
	MasterEnable bool   `yaml:"masterEnable"`
	Resolution   struct {
		Width  uint32 `yaml:"width"`
		Height uint32 `yaml:"height"`
	} `yaml:"resolution"`
	Features struct {
		ConstrainHud struct {
			Enable bool `yaml:"enable"`
		} `yaml:"constrainHud"`
	} `yaml:"features"`
}

// Config holds the settings plus the derived values. All scaling values are
// single precision; the integer derivations truncate, matching the formulas
// the callbacks were tuned against.
type Config struct {
	Name         string
	MasterEnable bool
	ConstrainHud bool

	Width       uint32
	Height      uint32
	AspectRatio float32

	NativeWidth  uint32 // width of a 16:9 render at the configured height
	NativeOffset uint32 // horizontal pixel offset centering the 16:9 area
	WidthScale   float32
}

// Load reads and parses the settings file. A missing or malformed file is
// fatal to the startup sequence; there are no fallback defaults beyond the
// zero width/height case handled by Derive.
func Load(path string) (File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return File{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return f, nil
}

// Derive computes the read-only values from the loaded settings. A zero
// width or height means "use the desktop resolution", supplied by the
// desktop callback so the derivation stays testable.
func (f File) Derive(desktop func() (uint32, uint32, error)) (Config, error) {
	w, h := f.Resolution.Width, f.Resolution.Height
	if w == 0 || h == 0 {
		if desktop == nil {
			return Config{}, errors.New("config: zero resolution and no desktop query")
		}
		dw, dh, err := desktop()
		if err != nil {
			return Config{}, fmt.Errorf("config: desktop resolution: %w", err)
		}
		w, h = dw, dh
	}
	if w == 0 || h == 0 {
		return Config{}, errors.New("config: resolution is zero")
	}

	c := Config{
		Name:         f.Name,
		MasterEnable: f.MasterEnable,
		ConstrainHud: f.Features.ConstrainHud.Enable,
		Width:        w,
		Height:       h,
		AspectRatio:  float32(w) / float32(h),
	}
	c.NativeWidth = uint32(nativeAspect * float32(h))
	c.NativeOffset = uint32(float32(w-c.NativeWidth) / 2)
	c.WidthScale = float32(w) / float32(c.NativeWidth)
	return c, nil
}
