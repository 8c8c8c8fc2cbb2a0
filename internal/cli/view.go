package cli

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewID identifies each type of view in the TUI.
type ViewID int

const (
	ViewCycleList ViewID = iota
	ViewObjectiveList
	ViewTree
)

// View is the interface that all TUI views must implement.
// It extends tea.Model with navigation and help metadata.
type View interface {
	tea.Model
	ID() ViewID
	ShortHelp() []key.Binding // key hints shown in the bottom bar
	Title() string            // breadcrumb segment for this view
}

// inputCapturer is implemented by views that sometimes need every key,
// e.g. while a filter prompt is open.
type inputCapturer interface {
	CapturesInput() bool
}

// viewCapturesInput reports whether v wants keys that are normally global
// (q, esc) delivered to it instead.
func viewCapturesInput(v View) bool {
	c, ok := v.(inputCapturer)
	return ok && c.CapturesInput()
}

// closeView releases resources held by v, such as file watchers.
func closeView(v View) {
	if c, ok := v.(interface{ Close() error }); ok {
		_ = c.Close()
	}
}
