package ui

import (
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/olivier-w/sheet/internal/config"
	"github.com/olivier-w/sheet/internal/physics"
	"github.com/olivier-w/sheet/internal/sheet"
)

// The terminal has a single mouse, so every gesture uses the same pointer id.
const mousePointer = 1

// Model is the Bubbletea model hosting the sheet.
type Model struct {
	ctrl     *sheet.Controller
	frame    *sheet.Frame // last frame applied by the controller
	feed     *eventFeed
	scene    backdrop
	sceneOn  []string // positions that show the backdrop
	keys     keyMap
	help     help.Model
	note     textinput.Model
	interval time.Duration
	width    int
	height   int
	ticking  bool
	quitting bool
	log      *slog.Logger
}

// New builds the sheet controller from cfg and wraps it in a Model.
func New(cfg config.Config, log *slog.Logger) (Model, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	snaps, err := cfg.SnapTable()
	if err != nil {
		return Model{}, fmt.Errorf("snap table: %w", err)
	}

	frame := &sheet.Frame{}
	ctrl, err := sheet.New(sheet.Options{
		Snaps:          snaps,
		Spring:         cfg.SpringConfig(),
		Initial:        cfg.Initial,
		BackgroundDrag: cfg.BackgroundDrag,
		View:           sheet.ViewFunc(func(f sheet.Frame) { *frame = f }),
		Logger:         log,
	})
	if err != nil {
		return Model{}, err
	}

	feed := newEventFeed(3)
	feed.attach(ctrl)

	note := textinput.New()
	note.Placeholder = "notes"
	note.Prompt = "› "
	note.CharLimit = 120

	return Model{
		ctrl:     ctrl,
		frame:    frame,
		feed:     feed,
		scene:    newBackdrop(cfg.FPS),
		sceneOn:  cfg.ScenePositions,
		keys:     newKeyMap(),
		help:     help.New(),
		note:     note,
		interval: time.Duration(harmonica.FPS(cfg.FPS) * float64(time.Second)),
		log:      log,
	}, nil
}

func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle("sheet")
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.note.Width = max(msg.Width-8, 10)
		m.ctrl.Mount(float64(msg.Height))
		cmd := m.startFrames()
		return m, cmd

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case frameMsg:
		m.ctrl.Step(time.Time(msg))
		m.scene.setVisible(m.sceneVisible())
		fading := m.scene.step()
		if m.ctrl.Animating() || fading {
			return m, frameCmd(m.interval)
		}
		m.ticking = false
		return m, nil
	}

	var cmd tea.Cmd
	m.note, cmd = m.note.Update(msg)
	return m, cmd
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	ev := sheet.PointerEvent{ID: mousePointer, Y: float64(msg.Y)}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		ev.Target = m.hitTest(msg.Y)
		if ev.Target == sheet.TargetContent {
			cmd := m.note.Focus()
			return m, cmd
		}
		m.note.Blur()
		m.ctrl.PointerDown(ev)
	case tea.MouseActionMotion:
		m.ctrl.PointerMove(ev)
	case tea.MouseActionRelease:
		m.ctrl.PointerUp(ev)
	}
	cmd := m.startFrames()
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.note.Focused() {
		if msg.Type == tea.KeyEsc {
			m.note.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.note, cmd = m.note.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
	case key.Matches(msg, m.keys.Cancel):
		if m.ctrl.Dragging() {
			m.ctrl.PointerCancel(sheet.PointerEvent{ID: mousePointer})
			cmd := m.startFrames()
			return m, cmd
		}
		m.quitting = true
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
	case key.Matches(msg, m.keys.Up):
		m.moveBy(1)
	case key.Matches(msg, m.keys.Down):
		m.moveBy(-1)
	case key.Matches(msg, m.keys.Jump) && len(msg.Runes) == 1:
		i := int(msg.Runes[0] - '1')
		if sorted := m.ctrl.Snaps().Sorted(); i < len(sorted) {
			m.setPosition(sorted[i].Name, false)
		}
	}
	cmd := m.startFrames()
	return m, cmd
}

// moveBy animates to the snap point dir steps above (positive) or below the
// current one.
func (m *Model) moveBy(dir int) {
	if m.ctrl.Dragging() {
		return
	}
	sorted := m.ctrl.Snaps().Sorted()
	i := slices.IndexFunc(sorted, func(p physics.SnapPoint) bool { return p.Name == m.ctrl.Current() })
	if i < 0 {
		return
	}
	j := i + dir
	if j < 0 || j >= len(sorted) {
		return
	}
	m.setPosition(sorted[j].Name, true)
}

func (m *Model) setPosition(name string, animated bool) {
	if err := m.ctrl.SetPosition(name, animated); err != nil {
		m.log.Error("set position failed", "position", name, "error", err)
	}
}

// startFrames schedules the frame loop if something is moving and no frame
// is already pending.
func (m *Model) startFrames() tea.Cmd {
	m.scene.setVisible(m.sceneVisible())
	if m.ticking {
		return nil
	}
	if !m.ctrl.Animating() && !m.scene.moving() {
		return nil
	}
	m.ticking = true
	return frameCmd(m.interval)
}

func (m Model) sceneVisible() bool {
	return slices.Contains(m.sceneOn, m.ctrl.Current())
}

// sheetTop is the row of the sheet's top edge.
func (m Model) sheetTop() int {
	return int(math.Round(m.frame.TranslateY))
}

func (m Model) hitTest(y int) sheet.Target {
	top := m.sheetTop()
	switch {
	case y < top:
		return sheet.TargetBackground
	case y == top:
		return sheet.TargetHandle
	case y == top+noteRow:
		return sheet.TargetContent
	default:
		return sheet.TargetSheet
	}
}
