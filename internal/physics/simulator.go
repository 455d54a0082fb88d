// Package physics integrates the damped spring that moves the sheet.
//
// Positions are fractions of the viewport height in [0,1]; velocities are
// positions per second. A Simulator is not safe for concurrent use: all calls
// must come from the goroutine that owns it.
package physics

import (
	"log/slog"
	"math"
	"time"

	"github.com/olivier-w/sheet/internal/notify"
)

const (
	settleVelocity  = 0.01
	settleDistance  = 0.001
	snapTolerance   = 0.01
	overshootMinVel = 2.0
	maxOvershoot    = 0.1
	dampingDrag     = 0.05

	// maxSpringVelocity bounds the integrated velocity. With the default
	// spring and a 64ms frame, starting speeds above about 130/s diverge.
	maxSpringVelocity = 100.0
)

// SpringState is a snapshot of the simulator.
type SpringState struct {
	Position  float64
	Velocity  float64
	Target    float64
	Animating bool
}

// Options configures optional collaborators of a Simulator.
type Options struct {
	Logger *slog.Logger
	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time
}

// Simulator owns the spring state of one sheet.
type Simulator struct {
	cfg   SpringConfig
	snaps SnapTable
	log   *slog.Logger
	now   func() time.Time

	position  float64
	velocity  float64
	target    float64
	animating bool
	lastFrame time.Time
	frames    int

	history *History

	updates notify.List[float64]
	settles notify.List[float64]
}

// New validates cfg and snaps and returns an idle simulator at position 0.
func New(cfg SpringConfig, snaps SnapTable, opts Options) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if snaps.Len() == 0 {
		return nil, ErrEmptySnapTable
	}
	s := &Simulator{
		cfg:     cfg,
		snaps:   snaps,
		log:     opts.Logger,
		now:     opts.Clock,
		history: NewHistory(HistorySize),
	}
	if s.log == nil {
		s.log = slog.New(slog.DiscardHandler)
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// State returns a snapshot of the spring state.
func (s *Simulator) State() SpringState {
	return SpringState{
		Position:  s.position,
		Velocity:  s.velocity,
		Target:    s.target,
		Animating: s.animating,
	}
}

// Position returns the current position.
func (s *Simulator) Position() float64 { return s.position }

// Animating reports whether a spring animation is running.
func (s *Simulator) Animating() bool { return s.animating }

// Snaps returns the snap table the simulator settles onto.
func (s *Simulator) Snaps() SnapTable { return s.snaps }

// OnUpdate registers fn to run whenever the position changes.
func (s *Simulator) OnUpdate(fn func(position float64)) (unsubscribe func()) {
	return s.updates.Subscribe(fn)
}

// OnSettle registers fn to run when an animation comes to rest.
func (s *Simulator) OnSettle(fn func(position float64)) (unsubscribe func()) {
	return s.settles.Subscribe(fn)
}

// AnimateTo animates toward target, keeping the current velocity.
func (s *Simulator) AnimateTo(target float64) {
	s.Fling(target, s.velocity)
}

// Fling animates toward target starting with the given velocity. A fast
// release overshoots the target by min(0.1, |velocity|*OvershootMultiplier),
// clamped to [0,1]. The overshoot uses velocity as given; only the
// integrated velocity is bounded.
func (s *Simulator) Fling(target, velocity float64) {
	if math.IsNaN(velocity) {
		velocity = 0
	}
	s.velocity = math.Max(-maxSpringVelocity, math.Min(maxSpringVelocity, velocity))
	travel := target - s.position
	if s.cfg.AllowOvershoot && math.Abs(velocity) > overshootMinVel && math.Abs(travel) > s.cfg.DistanceThreshold {
		extra := math.Min(maxOvershoot, math.Abs(velocity)*s.cfg.OvershootMultiplier)
		target += math.Copysign(extra, velocity)
	}
	s.target = clamp01(target)

	if !s.animating {
		s.animating = true
		s.frames = 0
		s.lastFrame = s.now()
	}
}

// Step advances the animation to now. It is meant to be called once per
// frame by the host's frame clock; it does nothing while idle.
func (s *Simulator) Step(now time.Time) {
	if !s.animating {
		return
	}
	dt := now.Sub(s.lastFrame)
	s.lastFrame = now
	s.Advance(dt)
}

// Advance runs one integration step of dt, capped at MaxFrameDelta.
func (s *Simulator) Advance(dt time.Duration) {
	if !s.animating {
		return
	}
	if dt > s.cfg.MaxFrameDelta {
		dt = s.cfg.MaxFrameDelta
	}
	if dt < 0 {
		dt = 0
	}
	sec := dt.Seconds()

	spring := (s.target - s.position) * s.cfg.Stiffness
	damping := (s.cfg.Damping + math.Abs(s.velocity)*dampingDrag) * s.velocity
	accel := (spring - damping) / s.cfg.Mass

	s.velocity += accel * sec
	s.position += s.velocity * sec
	s.frames++

	if math.Abs(s.velocity) < settleVelocity && math.Abs(s.target-s.position) < settleDistance {
		s.settle()
		return
	}
	if s.cfg.MaxFrames > 0 && s.frames >= s.cfg.MaxFrames {
		s.log.Warn("spring did not converge, forcing settle",
			"frames", s.frames, "position", s.position, "velocity", s.velocity, "target", s.target)
		s.position = s.target
		s.settle()
		return
	}
	s.updates.Emit(s.position)
}

func (s *Simulator) settle() {
	if p := s.snaps.Nearest(s.position); math.Abs(p.Value-s.position) < snapTolerance {
		s.position = p.Value
	} else {
		s.position = s.target
	}
	s.velocity = 0
	s.animating = false
	s.frames = 0
	s.log.Debug("spring settled", "position", s.position)
	s.updates.Emit(s.position)
	s.settles.Emit(s.position)
}

// Stop halts a running animation where it is, without firing settle.
func (s *Simulator) Stop() {
	s.animating = false
	s.velocity = 0
	s.target = s.position
	s.frames = 0
}

// Jump moves to value immediately, cancelling any animation.
func (s *Simulator) Jump(value float64) {
	s.Stop()
	s.position = value
	s.target = value
	s.updates.Emit(s.position)
}

// TrackDrag sets the position from a drag without integrating and records
// the sample for velocity estimation.
func (s *Simulator) TrackDrag(value float64) {
	s.position = value
	s.history.Push(Sample{Position: value, At: s.now()})
	s.updates.Emit(s.position)
}

// Velocity estimates the drag velocity from the recorded samples.
func (s *Simulator) Velocity() float64 {
	return WeightedVelocity(s.history.Samples())
}

// ResetHistory discards the recorded drag samples.
func (s *Simulator) ResetHistory() { s.history.Clear() }

// NearestSnap returns the value of the snap point closest to position.
func (s *Simulator) NearestSnap(position float64) float64 {
	return s.snaps.Nearest(position).Value
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
