package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/okrview/internal/domain"
	"github.com/alexanderramin/okrview/internal/render"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen      = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow     = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed        = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue       = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple     = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim        = lipgloss.NewStyle().Foreground(ColorDim)
	StyleHeader     = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold       = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
	StyleYellowBold = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	StyleSelected   = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
)

// ProgressStyle grades a 0–100 percentage: green from 70, yellow from 40,
// red below.
func ProgressStyle(pct float64) lipgloss.Style {
	switch {
	case pct >= 70:
		return StyleGreen
	case pct >= 40:
		return StyleYellow
	default:
		return StyleRed
	}
}

// KindBadge returns a short coloured tag for a node kind.
func KindBadge(kind domain.NodeKind) string {
	if kind == domain.KindObjective {
		return StyleHeader.Render("OBJ")
	}
	return StyleBlue.Render("KR ")
}

// CanvasStyle colours one run of a render.Canvas.
func CanvasStyle(class render.Class, s string) string {
	switch class {
	case render.ClassEdge, render.ClassBox, render.ClassDim:
		return StyleDim.Render(s)
	case render.ClassSelected:
		return StyleSelected.Render(s)
	case render.ClassObjective:
		return StyleHeader.Render(s)
	case render.ClassKeyResult:
		return StyleBlue.Render(s)
	case render.ClassProgressHigh:
		return StyleGreen.Render(s)
	case render.ClassProgressMid:
		return StyleYellow.Render(s)
	case render.ClassProgressLow:
		return StyleRed.Render(s)
	}
	return s
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
