// Package config loads the lane timing settings. Each lane maps a task to a
// due horizon; users pick among a small set of supported spans.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ParkReviewDays is the fixed review horizon for parked tasks.
const ParkReviewDays = 30

const defaultConfigYAML = `# igd lane timing configuration
# soon_days: due horizon for the "soon" lane (3 or 7)
# later_days: due horizon for the "later" lane (7 or 14)
soon_days: 3
later_days: 7
`

// LaneTimings selects the due horizon per lane. "now" is always end of the
// current day and "park" is always ParkReviewDays; neither is configurable.
type LaneTimings struct {
	SoonDays  int `yaml:"soon_days"`
	LaterDays int `yaml:"later_days"`
}

func Default() LaneTimings {
	return LaneTimings{SoonDays: 3, LaterDays: 7}
}

func (t LaneTimings) Validate() error {
	if t.SoonDays != 3 && t.SoonDays != 7 {
		return fmt.Errorf("soon_days must be 3 or 7, got %d", t.SoonDays)
	}
	if t.LaterDays != 7 && t.LaterDays != 14 {
		return fmt.Errorf("later_days must be 7 or 14, got %d", t.LaterDays)
	}
	return nil
}

// Path returns the settings file location, honoring the IGD_CONFIG override.
func Path() (string, error) {
	if p := os.Getenv("IGD_CONFIG"); p != "" {
		return p, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(homeDir, ".igd.yaml"), nil
}

// Load reads lane timings from path. A missing file yields the defaults and
// writes a commented starter file so users can discover the knobs.
func Load(path string) (LaneTimings, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		// Best effort; a read-only home dir still gets working defaults.
		_ = os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
		return Default(), nil
	}
	if err != nil {
		return LaneTimings{}, fmt.Errorf("read config: %w", err)
	}

	t := Default()
	if err := yaml.Unmarshal(data, &t); err != nil {
		return LaneTimings{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return LaneTimings{}, fmt.Errorf("config %s: %w", path, err)
	}
	return t, nil
}
