package render

import "github.com/alexanderramin/okrview/internal/domain"

// Gruvbox colours shared by the SVG and PNG exporters.
const (
	colorBackground = "#282828"
	colorPanel      = "#3c3836"
	colorFg         = "#ebdbb2"
	colorDim        = "#928374"
	colorGreen      = "#8ec07c"
	colorYellow     = "#fabd2f"
	colorRed        = "#fb4934"
	colorBlue       = "#83a598"
	colorOrange     = "#fe8019"
)

func kindColor(k domain.NodeKind) string {
	if k == domain.KindObjective {
		return colorOrange
	}
	return colorBlue
}

// progressColor grades progress red, yellow, green.
func progressColor(pct float64) string {
	switch {
	case pct >= 70:
		return colorGreen
	case pct >= 40:
		return colorYellow
	default:
		return colorRed
	}
}
