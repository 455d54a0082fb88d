package physics

import (
	"context"
	"time"
)

// Run drives the simulator from a ticker until the current animation settles
// or ctx is done. It is for hosts without their own frame clock; the caller
// must not touch the simulator from another goroutine while Run is active.
func (s *Simulator) Run(ctx context.Context, interval time.Duration) error {
	if !s.animating {
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			s.Step(now)
			if !s.animating {
				return nil
			}
		}
	}
}

// Settle advances in fixed steps of dt until the animation rests and returns
// the number of frames it took. maxFrames bounds the loop when the spring
// config has no frame bound of its own.
func (s *Simulator) Settle(dt time.Duration, maxFrames int) int {
	frames := 0
	for s.animating && frames < maxFrames {
		s.Advance(dt)
		frames++
	}
	return frames
}
