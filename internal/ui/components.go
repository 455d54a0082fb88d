package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olivier-w/sheet/internal/sheet"
	"github.com/olivier-w/sheet/internal/util"
)

// noteRow is the sheet row holding the note field, counted from the handle.
const noteRow = 3

func (m Model) View() string {
	if m.quitting || m.height <= 0 {
		return ""
	}

	top := min(max(m.sheetTop(), 0), m.height)
	lines := m.scene.render(m.width, top)
	lines = append(lines, m.renderSheet(m.height-top)...)
	return strings.Join(lines, "\n")
}

func (m Model) renderSheet(rows int) []string {
	if rows <= 0 {
		return nil
	}

	handle := "━━━━━━"
	if m.frame.Dragging {
		handle = "══════"
	}
	status := fmt.Sprintf("%s  %s", m.frame.Name, util.FormatPercent(m.frame.Position))
	if st := m.ctrl.State(); st.Animating {
		status += "  " + util.FormatVelocity(st.Velocity)
	}

	content := []string{
		lipgloss.PlaceHorizontal(m.width, lipgloss.Center, handleStyle.Render(handle)),
		"  " + titleStyle.Render("sheet") + "  " + statusStyle.Render(status),
		"",
		"  " + m.note.View(),
		"",
	}
	for _, e := range m.feed.lines() {
		content = append(content, "  "+eventStyle.Render(e))
	}
	content = append(content, "", "  "+m.help.View(m.keys))

	out := make([]string, rows)
	row := sheetStyle.Width(m.width).MaxHeight(1)
	for i := range out {
		var line string
		if i < len(content) {
			line = content[i]
		}
		out[i] = row.Render(line)
	}
	return out
}

// eventFeed keeps the most recent controller events for display.
type eventFeed struct {
	max    int
	events []string
}

func newEventFeed(n int) *eventFeed {
	return &eventFeed{max: n}
}

func (f *eventFeed) attach(c *sheet.Controller) {
	c.OnDragStart(func() { f.push("drag") })
	c.OnDragEnd(func(target string) { f.push("release → " + target) })
	c.OnPositionChange(func(name string) { f.push("settled at " + name) })
}

func (f *eventFeed) push(s string) {
	f.events = append(f.events, s)
	if len(f.events) > f.max {
		f.events = f.events[len(f.events)-f.max:]
	}
}

func (f *eventFeed) lines() []string {
	return f.events
}
