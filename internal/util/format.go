package util

import (
	"fmt"
	"math"
)

// FormatPercent formats a sheet position as a whole percentage.
func FormatPercent(position float64) string {
	if math.IsNaN(position) {
		position = 0
	}
	return fmt.Sprintf("%d%%", int(math.Round(position*100)))
}

// FormatVelocity formats a velocity in positions per second.
func FormatVelocity(v float64) string {
	return fmt.Sprintf("%+.2f/s", v)
}
