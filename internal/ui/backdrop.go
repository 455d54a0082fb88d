package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/harmonica"
)

// sceneRamp goes from invisible to fully lit.
var sceneRamp = []rune{' ', '.', '·', '•', '✶'}

// backdrop is the decorative layer above the sheet. It fades in while the
// sheet is lowered and out while it covers the screen.
type backdrop struct {
	spring  harmonica.Spring
	opacity float64
	vel     float64
	target  float64
	phase   int
}

func newBackdrop(fps int) backdrop {
	return backdrop{spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0)}
}

func (b *backdrop) setVisible(visible bool) {
	if visible {
		b.target = 1
	} else {
		b.target = 0
	}
}

func (b *backdrop) moving() bool {
	return math.Abs(b.opacity-b.target) > 0.005 || math.Abs(b.vel) > 0.005
}

// step advances the fade by one frame and reports whether it is still moving.
func (b *backdrop) step() bool {
	if !b.moving() {
		b.opacity, b.vel = b.target, 0
		return false
	}
	b.opacity, b.vel = b.spring.Update(b.opacity, b.vel, b.target)
	b.phase++
	return true
}

func (b backdrop) render(width, rows int) []string {
	if rows <= 0 {
		return nil
	}
	level := int(math.Round(clampUnit(b.opacity) * float64(len(sceneRamp)-1)))
	lines := make([]string, rows)
	var sb strings.Builder
	for r := range rows {
		sb.Reset()
		for c := range width {
			// Sparse fixed starfield with a slow drift while animating.
			if (r*31+c*17+b.phase/8)%23 == 0 {
				sb.WriteRune(sceneRamp[level])
			} else {
				sb.WriteByte(' ')
			}
		}
		lines[r] = sceneStyle.Render(sb.String())
	}
	return lines
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
