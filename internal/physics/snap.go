package physics

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	ErrEmptySnapTable = errors.New("snap table is empty")
	ErrDuplicateSnap  = errors.New("duplicate snap name")
	ErrSnapRange      = errors.New("snap value outside [0,1]")
)

// SnapPoint is a named resting position of the sheet.
type SnapPoint struct {
	Name  string
	Value float64
}

// SnapTable is an ordered, immutable list of snap points.
type SnapTable struct {
	points []SnapPoint
	sorted []SnapPoint // ascending by Value, stable for equal values
}

// NewSnapTable validates points and returns a table preserving their order.
func NewSnapTable(points ...SnapPoint) (SnapTable, error) {
	if len(points) == 0 {
		return SnapTable{}, ErrEmptySnapTable
	}
	seen := make(map[string]bool, len(points))
	for _, p := range points {
		if p.Name == "" {
			return SnapTable{}, fmt.Errorf("snap point with value %v has no name", p.Value)
		}
		if seen[p.Name] {
			return SnapTable{}, fmt.Errorf("%w: %q", ErrDuplicateSnap, p.Name)
		}
		seen[p.Name] = true
		if math.IsNaN(p.Value) || p.Value < 0 || p.Value > 1 {
			return SnapTable{}, fmt.Errorf("%w: %q = %v", ErrSnapRange, p.Name, p.Value)
		}
	}

	t := SnapTable{
		points: append([]SnapPoint(nil), points...),
		sorted: append([]SnapPoint(nil), points...),
	}
	sort.SliceStable(t.sorted, func(i, j int) bool {
		return t.sorted[i].Value < t.sorted[j].Value
	})
	return t, nil
}

// Len returns the number of snap points.
func (t SnapTable) Len() int { return len(t.points) }

// Points returns the snap points in configuration order.
func (t SnapTable) Points() []SnapPoint {
	return append([]SnapPoint(nil), t.points...)
}

// Sorted returns the snap points ordered by ascending value.
func (t SnapTable) Sorted() []SnapPoint {
	return append([]SnapPoint(nil), t.sorted...)
}

// Value returns the position configured for name.
func (t SnapTable) Value(name string) (float64, bool) {
	for _, p := range t.points {
		if p.Name == name {
			return p.Value, true
		}
	}
	return 0, false
}

// Nearest returns the snap point closest to position. Ties go to the
// point listed first in the table.
func (t SnapTable) Nearest(position float64) SnapPoint {
	if len(t.points) == 0 {
		return SnapPoint{}
	}
	best := t.points[0]
	bestDist := math.Abs(best.Value - position)
	for _, p := range t.points[1:] {
		if d := math.Abs(p.Value - position); d < bestDist {
			best, bestDist = p, d
		}
	}
	return best
}
