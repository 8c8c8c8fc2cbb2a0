package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a 0–100 percentage as a bar like [████░░░░]  45%.
func RenderProgress(pct float64, width int) string {
	pct = clampPercent(pct)
	return fmt.Sprintf("[%s] %3.0f%%", RenderCompactBar(pct, width), pct)
}

// RenderCompactBar renders the bar alone, without brackets or label.
func RenderCompactBar(pct float64, width int) string {
	pct = clampPercent(pct)
	if width < 2 {
		width = 2
	}
	filled := int(pct / 100 * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
	return ProgressStyle(pct).Render(bar)
}

func clampPercent(pct float64) float64 {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
