package sheet

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/olivier-w/sheet/internal/physics"
)

const frame = time.Second / 60

type recorder struct {
	frames []Frame
}

func (r *recorder) ApplyPosition(f Frame) { r.frames = append(r.frames, f) }

func (r *recorder) last() Frame {
	if len(r.frames) == 0 {
		return Frame{}
	}
	return r.frames[len(r.frames)-1]
}

type harness struct {
	c      *Controller
	view   *recorder
	now    time.Time
	events []string
}

func defaultTable(t *testing.T) physics.SnapTable {
	t.Helper()
	table, err := physics.NewSnapTable(
		physics.SnapPoint{Name: "closed", Value: 0},
		physics.SnapPoint{Name: "docked", Value: 0.12},
		physics.SnapPoint{Name: "half", Value: 0.5},
		physics.SnapPoint{Name: "full", Value: 0.95},
	)
	if err != nil {
		t.Fatalf("NewSnapTable: %v", err)
	}
	return table
}

func newHarness(t *testing.T, initial string) *harness {
	t.Helper()
	h := &harness{view: &recorder{}, now: time.Unix(1700000000, 0)}
	c, err := New(Options{
		Snaps:   defaultTable(t),
		Spring:  physics.DefaultSpringConfig(),
		Initial: initial,
		View:    h.view,
		Clock:   func() time.Time { return h.now },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.OnTransitionStart(func() { h.events = append(h.events, "transition-start") })
	c.OnTransitionEnd(func() { h.events = append(h.events, "transition-end") })
	c.OnDragStart(func() { h.events = append(h.events, "drag-start") })
	c.OnDragEnd(func(name string) { h.events = append(h.events, "drag-end:"+name) })
	c.OnPositionChange(func(name string) { h.events = append(h.events, "position:"+name) })
	c.Mount(100)
	h.c = c
	return h
}

func (h *harness) tick(d time.Duration) { h.now = h.now.Add(d) }

func (h *harness) settle(t *testing.T) {
	t.Helper()
	for i := 0; h.c.Animating(); i++ {
		if i > 1000 {
			t.Fatalf("sheet did not settle, state %+v", h.c.State())
		}
		h.tick(frame)
		h.c.Step(h.now)
	}
}

func (h *harness) drag(id int, ys ...float64) {
	for _, y := range ys {
		h.tick(10 * time.Millisecond)
		h.c.PointerMove(PointerEvent{ID: id, Y: y})
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := New(Options{Spring: physics.DefaultSpringConfig(), Initial: "half"})
	if !errors.Is(err, physics.ErrEmptySnapTable) {
		t.Fatalf("expected ErrEmptySnapTable, got %v", err)
	}

	_, err = New(Options{Snaps: defaultTable(t), Spring: physics.DefaultSpringConfig(), Initial: "peek"})
	if !errors.Is(err, ErrUnknownPosition) {
		t.Fatalf("expected ErrUnknownPosition, got %v", err)
	}

	bad := physics.DefaultSpringConfig()
	bad.Stiffness = 0
	_, err = New(Options{Snaps: defaultTable(t), Spring: bad, Initial: "half"})
	if !errors.Is(err, physics.ErrInvalidSpring) {
		t.Fatalf("expected ErrInvalidSpring, got %v", err)
	}
}

func TestMountAppliesInitialPositionUnanimated(t *testing.T) {
	h := newHarness(t, "docked")

	f := h.view.last()
	if f.Position != 0.12 || f.Name != "docked" {
		t.Fatalf("unexpected frame %+v", f)
	}
	if math.Abs(f.TranslateY-88) > 1e-9 {
		t.Fatalf("expected translate 88, got %v", f.TranslateY)
	}
	if h.c.Animating() {
		t.Fatal("expected no animation on mount")
	}
	if len(h.events) != 0 {
		t.Fatalf("expected no events on mount, got %v", h.events)
	}

	h.c.Mount(50)
	if h.c.Position() != 0.12 {
		t.Fatalf("expected second mount to keep position, got %v", h.c.Position())
	}
}

func TestResizeRescalesTranslation(t *testing.T) {
	h := newHarness(t, "half")
	h.c.Resize(40)

	if got := h.view.last().TranslateY; got != 20 {
		t.Fatalf("expected translate 20 after resize, got %v", got)
	}
}

func TestFlickUpCommitsToNextSnap(t *testing.T) {
	h := newHarness(t, "half")

	if !h.c.PointerDown(PointerEvent{ID: 1, Y: 50, Target: TargetHandle}) {
		t.Fatal("expected drag to start on handle")
	}
	h.drag(1, 48, 46, 44, 42, 40)
	if math.Abs(h.c.Position()-0.6) > 1e-9 {
		t.Fatalf("expected tracked position 0.6, got %v", h.c.Position())
	}
	if !h.view.last().Dragging {
		t.Fatal("expected frames during drag to be marked dragging")
	}

	h.c.PointerUp(PointerEvent{ID: 1, Y: 40})
	if h.c.Dragging() {
		t.Fatal("expected drag to end on release")
	}
	h.settle(t)

	want := "transition-start,drag-start,drag-end:full,position:full,transition-end"
	if got := strings.Join(h.events, ","); got != want {
		t.Fatalf("events = %s, want %s", got, want)
	}
	if h.c.Current() != "full" {
		t.Fatalf("expected current full, got %q", h.c.Current())
	}
	if st := h.c.State(); st.Animating || st.Velocity != 0 {
		t.Fatalf("expected rest, got %+v", st)
	}
}

func TestSlowDragSettlesOnNearest(t *testing.T) {
	h := newHarness(t, "half")

	h.c.PointerDown(PointerEvent{ID: 1, Y: 50, Target: TargetSheet})
	for y := 50.0; y <= 62; y++ {
		h.tick(100 * time.Millisecond)
		h.c.PointerMove(PointerEvent{ID: 1, Y: y})
	}
	h.c.PointerUp(PointerEvent{ID: 1, Y: 62})
	h.settle(t)

	if h.c.Current() != "half" || h.c.Position() != 0.5 {
		t.Fatalf("expected return to half, got %q at %v", h.c.Current(), h.c.Position())
	}
	for _, e := range h.events {
		if strings.HasPrefix(e, "position:") {
			t.Fatalf("expected no position change, got %v", h.events)
		}
	}
}

func TestSecondPointerIsIgnored(t *testing.T) {
	h := newHarness(t, "half")

	h.c.PointerDown(PointerEvent{ID: 1, Y: 50, Target: TargetSheet})
	h.drag(1, 45)
	if h.c.PointerDown(PointerEvent{ID: 2, Y: 80, Target: TargetSheet}) {
		t.Fatal("expected second pointer to be rejected")
	}
	if h.c.gesture.pointerID != 1 || h.c.gesture.startY != 50 || h.c.gesture.startPos != 0.5 {
		t.Fatalf("expected gesture untouched, got %+v", h.c.gesture)
	}

	pos := h.c.Position()
	h.drag(2, 10)
	if h.c.Position() != pos {
		t.Fatalf("expected foreign pointer move ignored, position %v -> %v", pos, h.c.Position())
	}
	h.c.PointerUp(PointerEvent{ID: 2})
	if !h.c.Dragging() {
		t.Fatal("expected foreign pointer release ignored")
	}

	starts := 0
	for _, e := range h.events {
		if e == "drag-start" {
			starts++
		}
	}
	if starts != 1 {
		t.Fatalf("expected one drag start, got %d", starts)
	}
}

func TestPointerCancelReturnsToNearest(t *testing.T) {
	h := newHarness(t, "half")

	h.c.PointerDown(PointerEvent{ID: 1, Y: 50, Target: TargetSheet})
	h.drag(1, 60, 70)
	if math.Abs(h.c.Position()-0.3) > 1e-9 {
		t.Fatalf("expected 0.3 before cancel, got %v", h.c.Position())
	}

	h.c.PointerCancel(PointerEvent{ID: 1})
	if v := h.c.State().Velocity; v != 0 {
		t.Fatalf("expected cancel to release with zero velocity, got %v", v)
	}
	h.settle(t)

	if h.c.Current() != "docked" || h.c.Position() != 0.12 {
		t.Fatalf("expected docked at 0.12, got %q at %v", h.c.Current(), h.c.Position())
	}
	if !strings.Contains(strings.Join(h.events, ","), "drag-end:docked") {
		t.Fatalf("expected drag end with docked, got %v", h.events)
	}
}

func TestDragPastTopIsResisted(t *testing.T) {
	h := newHarness(t, "full")

	h.c.PointerDown(PointerEvent{ID: 1, Y: 5, Target: TargetHandle})
	h.drag(1, -5)
	want := UpperLimit + 0.1*ResistanceFactor
	if math.Abs(h.c.Position()-want) > 1e-9 {
		t.Fatalf("expected resisted position %v, got %v", want, h.c.Position())
	}
}

func TestBackgroundStartsDragOnlyWhenLowered(t *testing.T) {
	h := newHarness(t, "half")

	if h.c.PointerDown(PointerEvent{ID: 1, Y: 10, Target: TargetBackground}) {
		t.Fatal("expected background press ignored at half")
	}
	if err := h.c.SetPosition("docked", false); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}
	if !h.c.PointerDown(PointerEvent{ID: 1, Y: 10, Target: TargetBackground}) {
		t.Fatal("expected background press to drag when docked")
	}
}

func TestContentNeverStartsDrag(t *testing.T) {
	h := newHarness(t, "half")
	if h.c.PointerDown(PointerEvent{ID: 1, Y: 60, Target: TargetContent}) {
		t.Fatal("expected interactive content to keep the pointer")
	}
	if h.c.Dragging() {
		t.Fatal("expected no drag")
	}
}

func TestPointerDownStopsAnimation(t *testing.T) {
	h := newHarness(t, "half")
	if err := h.c.SetPosition("full", true); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}
	h.tick(frame)
	h.c.Step(h.now)

	h.c.PointerDown(PointerEvent{ID: 1, Y: 40, Target: TargetSheet})
	if h.c.Animating() {
		t.Fatal("expected grab to stop the animation")
	}

	want := "transition-start,transition-end,transition-start,drag-start"
	if got := strings.Join(h.events, ","); got != want {
		t.Fatalf("events = %s, want %s", got, want)
	}
}

func TestTransitionsStayPaired(t *testing.T) {
	h := newHarness(t, "half")

	if err := h.c.SetPosition("full", true); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}
	h.tick(frame)
	h.c.Step(h.now)
	if err := h.c.SetPosition("closed", true); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}
	h.tick(frame)
	h.c.Step(h.now)
	if err := h.c.SetPosition("docked", false); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}

	want := "transition-start,transition-end,position:docked"
	if got := strings.Join(h.events, ","); got != want {
		t.Fatalf("events = %s, want %s", got, want)
	}
	if h.c.Animating() || h.c.Position() != 0.12 {
		t.Fatalf("expected docked at rest, got %+v", h.c.State())
	}
}

func TestSetPosition(t *testing.T) {
	h := newHarness(t, "half")

	if err := h.c.SetPosition("peek", true); !errors.Is(err, ErrUnknownPosition) {
		t.Fatalf("expected ErrUnknownPosition, got %v", err)
	}

	if err := h.c.SetPosition("closed", true); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}
	if !h.c.Animating() {
		t.Fatal("expected animated move")
	}
	h.settle(t)
	if h.c.Current() != "closed" || h.c.Position() != 0 {
		t.Fatalf("expected closed at 0, got %q at %v", h.c.Current(), h.c.Position())
	}

	h.events = nil
	if err := h.c.SetPosition("full", false); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}
	if h.c.Animating() || h.c.Position() != 0.95 {
		t.Fatalf("expected immediate jump to 0.95, got %+v", h.c.State())
	}
	if got := strings.Join(h.events, ","); got != "position:full" {
		t.Fatalf("expected a single position change, got %s", got)
	}
	if f := h.view.last(); f.Name != "full" || f.TranslateY > 5.0000001 {
		t.Fatalf("unexpected frame %+v", f)
	}
}

func TestPositionValue(t *testing.T) {
	h := newHarness(t, "half")
	if v, ok := h.c.PositionValue("docked"); !ok || v != 0.12 {
		t.Fatalf("expected docked = 0.12, got %v %v", v, ok)
	}
	if v, ok := h.c.PositionValue("peek"); ok || v != 0 {
		t.Fatalf("expected unknown name to report (0, false), got %v %v", v, ok)
	}
}

func TestUnsubscribe(t *testing.T) {
	h := newHarness(t, "half")
	calls := 0
	stop := h.c.OnDragStart(func() { calls++ })

	h.c.PointerDown(PointerEvent{ID: 1, Y: 50, Target: TargetSheet})
	h.c.PointerCancel(PointerEvent{ID: 1})
	h.settle(t)
	stop()
	h.c.PointerDown(PointerEvent{ID: 1, Y: 50, Target: TargetSheet})

	if calls != 1 {
		t.Fatalf("expected listener to run once, ran %d times", calls)
	}
}
