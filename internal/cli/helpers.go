package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// padRight pads s with spaces to width visible columns. Styled text is
// measured without its escape codes; longer text is left as is.
func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
