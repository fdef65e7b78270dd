package reporter

import (
	"fmt"
	"strings"
)

const (
	// barMargin is the room left on the line for brackets, percentage and
	// counters.
	barMargin   = 28
	minBarWidth = 10
)

// Render draws a progress bar of width cells followed by the percentage
// with one decimal and the raw counters, e.g. "[####------]  40.0% (2/5)".
func Render(completed, total, width int) string {
	if width < minBarWidth {
		width = minBarWidth
	}

	ratio := 1.0
	if total > 0 {
		ratio = float64(completed) / float64(total)
	}

	ratio = min(max(ratio, 0), 1)
	filled := int(ratio * float64(width))

	return fmt.Sprintf(
		"[%s%s] %5.1f%% (%d/%d)",
		strings.Repeat("#", filled), strings.Repeat("-", width-filled),
		ratio*100, completed, total,
	)
}

// barWidth turns terminal columns into bar cells.
func barWidth(columns int) int {
	return max(columns-barMargin, minBarWidth)
}
