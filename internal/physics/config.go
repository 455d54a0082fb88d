package physics

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidSpring is returned when a SpringConfig cannot drive a stable animation.
var ErrInvalidSpring = errors.New("invalid spring config")

// SpringConfig holds the constants of the damped spring.
type SpringConfig struct {
	Mass                float64
	Stiffness           float64
	Damping             float64
	AllowOvershoot      bool
	OvershootMultiplier float64
	DistanceThreshold   float64

	// MaxFrameDelta caps the elapsed time fed into one integration step,
	// so a stalled host does not fling the sheet off screen.
	MaxFrameDelta time.Duration
	// MaxFrames bounds a single animation. Zero disables the bound.
	MaxFrames int
}

// DefaultSpringConfig returns constants that settle in well under a second and
// stay stable at the full MaxFrameDelta.
func DefaultSpringConfig() SpringConfig {
	return SpringConfig{
		Mass:                1,
		Stiffness:           170,
		Damping:             20,
		AllowOvershoot:      true,
		OvershootMultiplier: 0.02,
		DistanceThreshold:   0.05,
		MaxFrameDelta:       64 * time.Millisecond,
		MaxFrames:           900,
	}
}

// Validate reports whether c can be used to build a Simulator.
func (c SpringConfig) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"mass", c.Mass},
		{"stiffness", c.Stiffness},
		{"damping", c.Damping},
	} {
		if !(f.v > 0) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidSpring, f.name, f.v)
		}
	}
	if c.OvershootMultiplier < 0 || math.IsNaN(c.OvershootMultiplier) {
		return fmt.Errorf("%w: overshoot multiplier must be >= 0, got %v", ErrInvalidSpring, c.OvershootMultiplier)
	}
	if c.DistanceThreshold < 0 || math.IsNaN(c.DistanceThreshold) {
		return fmt.Errorf("%w: distance threshold must be >= 0, got %v", ErrInvalidSpring, c.DistanceThreshold)
	}
	if c.MaxFrameDelta <= 0 {
		return fmt.Errorf("%w: max frame delta must be positive, got %v", ErrInvalidSpring, c.MaxFrameDelta)
	}
	if c.MaxFrames < 0 {
		return fmt.Errorf("%w: max frames must be >= 0, got %d", ErrInvalidSpring, c.MaxFrames)
	}
	return nil
}
