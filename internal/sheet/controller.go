// Package sheet turns pointer gestures into snap-resolving sheet motion.
//
// A Controller is single-threaded: pointer events, frame steps and
// SetPosition calls must all come from the goroutine that owns it (the
// Bubbletea Update loop in the terminal host).
package sheet

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/olivier-w/sheet/internal/notify"
	"github.com/olivier-w/sheet/internal/physics"
)

// ErrUnknownPosition is returned for a position name missing from the snap table.
var ErrUnknownPosition = errors.New("unknown sheet position")

// Frame is what the view needs to draw the sheet.
type Frame struct {
	Position   float64
	TranslateY float64 // offset of the sheet's top edge from the top of the viewport
	Name       string  // current named position
	Dragging   bool
}

// View receives every position the controller applies.
type View interface {
	ApplyPosition(Frame)
}

// ViewFunc adapts a plain function to View.
type ViewFunc func(Frame)

func (f ViewFunc) ApplyPosition(fr Frame) { f(fr) }

// Options configures a Controller.
type Options struct {
	Snaps   physics.SnapTable
	Spring  physics.SpringConfig
	Initial string
	// BackgroundDrag lists the positions from which a press on the
	// background starts a drag. Defaults to closed and docked.
	BackgroundDrag []string
	View           View
	Logger         *slog.Logger
	Clock          func() time.Time
}

// Controller is the sheet's gesture state machine.
type Controller struct {
	sim      *physics.Simulator
	snaps    physics.SnapTable
	view     View
	log      *slog.Logger
	initial  string
	bgDrag   []string
	viewport float64
	current  string
	mounted  bool
	gesture  gesture

	positionChanged notify.List[string]
	transitionStart notify.List[struct{}]
	transitionEnd   notify.List[struct{}]
	dragStart       notify.List[struct{}]
	dragEnd         notify.List[string]
}

// New validates opts and returns an unmounted controller.
func New(opts Options) (*Controller, error) {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	sim, err := physics.New(opts.Spring, opts.Snaps, physics.Options{Logger: log, Clock: opts.Clock})
	if err != nil {
		return nil, fmt.Errorf("sheet: %w", err)
	}
	if _, ok := opts.Snaps.Value(opts.Initial); !ok {
		return nil, fmt.Errorf("sheet: initial position %q: %w", opts.Initial, ErrUnknownPosition)
	}
	bg := opts.BackgroundDrag
	if bg == nil {
		bg = []string{"closed", "docked"}
	}

	c := &Controller{
		sim:     sim,
		snaps:   opts.Snaps,
		view:    opts.View,
		log:     log,
		initial: opts.Initial,
		bgDrag:  bg,
		current: opts.Initial,
	}
	sim.OnUpdate(func(float64) { c.apply() })
	sim.OnSettle(c.settled)
	return c, nil
}

// Mount sets the viewport height and applies the initial position without
// animating. Later calls only resize.
func (c *Controller) Mount(viewportHeight float64) {
	c.viewport = viewportHeight
	if c.mounted {
		c.apply()
		return
	}
	c.mounted = true
	v, _ := c.snaps.Value(c.initial)
	c.sim.Jump(v)
	c.log.Debug("sheet mounted", "position", c.initial, "viewport", viewportHeight)
}

// Resize updates the viewport height and reapplies the current position.
func (c *Controller) Resize(viewportHeight float64) {
	c.viewport = viewportHeight
	c.apply()
}

// Position returns the sheet's current position in [0,1].
func (c *Controller) Position() float64 { return c.sim.Position() }

// Current returns the name of the last committed position.
func (c *Controller) Current() string { return c.current }

// Dragging reports whether a pointer is captured.
func (c *Controller) Dragging() bool { return c.gesture.dragging }

// Animating reports whether the spring is moving the sheet.
func (c *Controller) Animating() bool { return c.sim.Animating() }

// Snaps returns the controller's snap table.
func (c *Controller) Snaps() physics.SnapTable { return c.snaps }

// State returns a snapshot of the spring.
func (c *Controller) State() physics.SpringState { return c.sim.State() }

// PositionValue returns the configured value of name.
func (c *Controller) PositionValue(name string) (float64, bool) {
	return c.snaps.Value(name)
}

// Frame returns what the view would currently be given.
func (c *Controller) Frame() Frame {
	pos := c.sim.Position()
	return Frame{
		Position:   pos,
		TranslateY: (1 - pos) * c.viewport,
		Name:       c.current,
		Dragging:   c.gesture.dragging,
	}
}

// Step advances the spring to now. Call it once per frame while Animating.
func (c *Controller) Step(now time.Time) { c.sim.Step(now) }

// SetPosition moves the sheet to the named position.
func (c *Controller) SetPosition(name string, animated bool) error {
	v, ok := c.snaps.Value(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPosition, name)
	}
	if animated {
		if !c.sim.Animating() {
			c.transitionStart.Emit(struct{}{})
		}
		c.sim.AnimateTo(v)
		return nil
	}
	c.interrupt()
	c.sim.Jump(v)
	c.changeTo(name)
	return nil
}

// PointerDown begins a drag if no pointer is captured and the target accepts one.
func (c *Controller) PointerDown(ev PointerEvent) bool {
	if c.gesture.dragging || !c.accepts(ev.Target) {
		return false
	}
	c.interrupt()
	c.sim.ResetHistory()
	c.gesture = gesture{
		dragging:  true,
		pointerID: ev.ID,
		startY:    ev.Y,
		startPos:  c.sim.Position(),
	}
	c.log.Debug("drag start", "pointer", ev.ID, "target", ev.Target, "position", c.gesture.startPos)
	c.transitionStart.Emit(struct{}{})
	c.dragStart.Emit(struct{}{})
	return true
}

// interrupt halts a running animation and closes its transition.
func (c *Controller) interrupt() {
	if !c.sim.Animating() {
		return
	}
	c.sim.Stop()
	c.log.Debug("transition interrupted", "position", c.sim.Position())
	c.transitionEnd.Emit(struct{}{})
}

func (c *Controller) accepts(t Target) bool {
	switch t {
	case TargetSheet, TargetHandle:
		return true
	case TargetBackground:
		return slices.Contains(c.bgDrag, c.current)
	default:
		return false
	}
}

// PointerMove tracks the captured pointer.
func (c *Controller) PointerMove(ev PointerEvent) {
	if !c.gesture.dragging || ev.ID != c.gesture.pointerID || c.viewport <= 0 {
		return
	}
	delta := (c.gesture.startY - ev.Y) / c.viewport
	c.sim.TrackDrag(Resist(c.gesture.startPos + delta))
}

// PointerUp ends the drag and commits to a snap point using the release velocity.
func (c *Controller) PointerUp(ev PointerEvent) {
	if !c.gesture.dragging || ev.ID != c.gesture.pointerID {
		return
	}
	c.completeDrag(c.sim.Velocity() * FlickGain)
}

// PointerCancel ends the drag and returns to the nearest snap point.
func (c *Controller) PointerCancel(ev PointerEvent) {
	if !c.gesture.dragging || ev.ID != c.gesture.pointerID {
		return
	}
	c.completeDrag(0)
}

func (c *Controller) completeDrag(velocity float64) {
	pos := c.sim.Position()
	target := ResolveCommit(c.snaps, pos, velocity)
	c.log.Debug("drag end", "position", pos, "velocity", velocity, "target", target.Name)

	c.gesture.reset()
	c.sim.ResetHistory()
	c.sim.Fling(target.Value, velocity)
	c.dragEnd.Emit(target.Name)
}

func (c *Controller) settled(pos float64) {
	c.changeTo(c.snaps.Nearest(pos).Name)
	c.transitionEnd.Emit(struct{}{})
}

func (c *Controller) changeTo(name string) {
	if name == c.current {
		c.apply()
		return
	}
	c.log.Debug("position changed", "from", c.current, "to", name)
	c.current = name
	c.apply()
	c.positionChanged.Emit(name)
}

func (c *Controller) apply() {
	if c.view != nil {
		c.view.ApplyPosition(c.Frame())
	}
}

// OnPositionChange registers fn to run when the sheet settles at a new named position.
func (c *Controller) OnPositionChange(fn func(name string)) (unsubscribe func()) {
	return c.positionChanged.Subscribe(fn)
}

// OnTransitionStart registers fn to run when a drag or animated move begins.
// Retargeting a running animation does not start a new transition.
func (c *Controller) OnTransitionStart(fn func()) (unsubscribe func()) {
	return subscribe(&c.transitionStart, fn)
}

// OnTransitionEnd registers fn to run when an animation settles or is
// interrupted by a grab or an unanimated SetPosition. Every transition start
// is followed by exactly one end.
func (c *Controller) OnTransitionEnd(fn func()) (unsubscribe func()) {
	return subscribe(&c.transitionEnd, fn)
}

// OnDragStart registers fn to run when a pointer captures the sheet.
func (c *Controller) OnDragStart(fn func()) (unsubscribe func()) {
	return subscribe(&c.dragStart, fn)
}

// OnDragEnd registers fn to run when a drag is released, with the committed position name.
func (c *Controller) OnDragEnd(fn func(target string)) (unsubscribe func()) {
	return c.dragEnd.Subscribe(fn)
}

func subscribe(l *notify.List[struct{}], fn func()) func() {
	if fn == nil {
		return func() {}
	}
	return l.Subscribe(func(struct{}) { fn() })
}
