// Package config loads the sheet's snap table and spring constants from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/olivier-w/sheet/internal/physics"
)

// Snap is one entry of the snaps sequence. A sequence keeps the table ordered.
type Snap struct {
	Name  string  `yaml:"name"`
	Value float64 `yaml:"value"`
}

// Spring mirrors physics.SpringConfig in YAML form.
type Spring struct {
	Mass                float64       `yaml:"mass"`
	Stiffness           float64       `yaml:"stiffness"`
	Damping             float64       `yaml:"damping"`
	AllowOvershoot      bool          `yaml:"allow_overshoot"`
	OvershootMultiplier float64       `yaml:"overshoot_multiplier"`
	DistanceThreshold   float64       `yaml:"distance_threshold"`
	MaxFrameDelta       time.Duration `yaml:"max_frame_delta"`
	MaxFrames           int           `yaml:"max_frames"`
}

// Config is the file layout. Keys missing from a file keep their defaults.
type Config struct {
	Initial        string   `yaml:"initial"`
	FPS            int      `yaml:"fps"`
	Snaps          []Snap   `yaml:"snaps"`
	BackgroundDrag []string `yaml:"background_drag"`
	// ScenePositions lists where the terminal host shows its backdrop.
	ScenePositions []string `yaml:"scene_positions"`
	Spring         Spring   `yaml:"spring"`
}

// Default returns the built-in closed/docked/half/full layout.
func Default() Config {
	sc := physics.DefaultSpringConfig()
	return Config{
		Initial: "docked",
		FPS:     60,
		Snaps: []Snap{
			{Name: "closed", Value: 0},
			{Name: "docked", Value: 0.12},
			{Name: "half", Value: 0.5},
			{Name: "full", Value: 0.95},
		},
		BackgroundDrag: []string{"closed", "docked"},
		ScenePositions: []string{"closed", "docked"},
		Spring: Spring{
			Mass:                sc.Mass,
			Stiffness:           sc.Stiffness,
			Damping:             sc.Damping,
			AllowOvershoot:      sc.AllowOvershoot,
			OvershootMultiplier: sc.OvershootMultiplier,
			DistanceThreshold:   sc.DistanceThreshold,
			MaxFrameDelta:       sc.MaxFrameDelta,
			MaxFrames:           sc.MaxFrames,
		},
	}
}

// Load reads path over the defaults. An empty path returns Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.FPS <= 0 {
		return Config{}, errors.New("parse config: fps must be positive")
	}
	return cfg, nil
}

// SnapTable builds the validated snap table.
func (c Config) SnapTable() (physics.SnapTable, error) {
	points := make([]physics.SnapPoint, len(c.Snaps))
	for i, s := range c.Snaps {
		points[i] = physics.SnapPoint{Name: s.Name, Value: s.Value}
	}
	return physics.NewSnapTable(points...)
}

// SpringConfig converts the spring section.
func (c Config) SpringConfig() physics.SpringConfig {
	return physics.SpringConfig{
		Mass:                c.Spring.Mass,
		Stiffness:           c.Spring.Stiffness,
		Damping:             c.Spring.Damping,
		AllowOvershoot:      c.Spring.AllowOvershoot,
		OvershootMultiplier: c.Spring.OvershootMultiplier,
		DistanceThreshold:   c.Spring.DistanceThreshold,
		MaxFrameDelta:       c.Spring.MaxFrameDelta,
		MaxFrames:           c.Spring.MaxFrames,
	}
}
