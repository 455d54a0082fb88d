package sheet

import (
	"math"

	"github.com/olivier-w/sheet/internal/physics"
)

const (
	// ResistanceFactor scales drag travel past the valid range.
	ResistanceFactor = 0.3
	// UpperLimit is where upward resistance begins.
	UpperLimit = 0.95

	// FlickGain makes a release feel more decisive than the measured velocity.
	FlickGain = 1.2
	// CommitVelocity is the speed above which a release may skip to the
	// neighboring snap point in the direction of travel.
	CommitVelocity = 0.5
	// commitNear commits to the neighbor regardless of speed when it is
	// this close.
	commitNear = 0.1
)

// Target identifies what a pointer went down on.
type Target int

const (
	// TargetSheet is the non-interactive surface of the sheet.
	TargetSheet Target = iota
	// TargetHandle is the grab bar at the top of the sheet.
	TargetHandle
	// TargetContent is an interactive control inside the sheet, such as a
	// text field. It never starts a drag.
	TargetContent
	// TargetBackground is the area above the sheet.
	TargetBackground
)

func (t Target) String() string {
	switch t {
	case TargetHandle:
		return "handle"
	case TargetContent:
		return "content"
	case TargetBackground:
		return "background"
	default:
		return "sheet"
	}
}

// PointerEvent is a pointer or touch event in screen space. Y grows downward.
type PointerEvent struct {
	ID     int
	Y      float64
	Target Target
}

// gesture is the bookkeeping for the drag in progress.
type gesture struct {
	dragging  bool
	pointerID int
	startY    float64
	startPos  float64
}

func (g *gesture) reset() { *g = gesture{} }

// Resist softens a raw drag position outside [0, UpperLimit]. The result
// stays continuous so velocity estimation sees an unbroken signal.
func Resist(raw float64) float64 {
	switch {
	case raw < 0:
		return raw * ResistanceFactor
	case raw > UpperLimit:
		return UpperLimit + (raw-UpperLimit)*ResistanceFactor
	default:
		return raw
	}
}

// ResolveCommit picks the snap point a release at position with velocity
// commits to. The nearest point wins unless the release is fast enough to
// carry the sheet to the next point in the direction of travel.
func ResolveCommit(snaps physics.SnapTable, position, velocity float64) physics.SnapPoint {
	nearest := snaps.Nearest(position)
	if math.Abs(velocity) <= CommitVelocity {
		return nearest
	}

	ordered := snaps.Sorted()
	i := 0
	for j, p := range ordered {
		if p.Name == nearest.Name {
			i = j
			break
		}
	}

	switch {
	case velocity > 0 && i+1 < len(ordered):
		next := ordered[i+1]
		if d := next.Value - position; d < commitNear || velocity > CommitVelocity*(1+d*2) {
			return next
		}
	case velocity < 0 && i > 0:
		prev := ordered[i-1]
		if d := position - prev.Value; d < commitNear || -velocity > CommitVelocity*(1+d*2) {
			return prev
		}
	}
	return nearest
}
