package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/okrview/internal/cli/formatter"
	"github.com/alexanderramin/okrview/internal/domain"
	"github.com/alexanderramin/okrview/internal/service"
)

// tuiStart says where the TUI opens. Zero values start at the cycle list.
type tuiStart struct {
	cycleID     int64
	objectiveID int64
	file        string
	cached      bool
}

// appModel is the root bubbletea Model for the TUI. It owns a stack of
// views; only the top one receives input.
type appModel struct {
	state     *SharedState
	viewStack []View
	quitting  bool
}

func newAppModel(app *App, start tuiStart) appModel {
	state := &SharedState{App: app}
	m := appModel{state: state}

	if start.file != "" {
		m.viewStack = []View{newFileTreeView(state, start.file)}
		return m
	}

	m.viewStack = []View{newCycleListView(state)}
	if start.cycleID == 0 {
		return m
	}
	state.SetCycle(domain.Cycle{ID: start.cycleID})
	m.viewStack = append(m.viewStack, newObjectiveListView(state))
	if start.objectiveID == 0 {
		return m
	}

	state.SetObjective(domain.CompanyObjective{ID: start.objectiveID, CycleID: start.cycleID})
	var src service.TreeSource
	if start.cached {
		src = service.NewCachedTreeSource(app.OKR, start.cycleID, start.objectiveID)
	} else {
		src = service.NewAPITreeSource(app.OKR, start.cycleID, start.objectiveID)
	}
	title := fmt.Sprintf("Objective %d", start.objectiveID)
	m.viewStack = append(m.viewStack, newTreeView(state, src, title, start.cycleID, start.objectiveID))
	return m
}

func (m *appModel) activeView() View {
	if len(m.viewStack) == 0 {
		return nil
	}
	return m.viewStack[len(m.viewStack)-1]
}

func (m *appModel) setActiveView(v View) {
	if len(m.viewStack) > 0 {
		m.viewStack[len(m.viewStack)-1] = v
	}
}

// closeAll releases every view on the stack.
func (m *appModel) closeAll() {
	for _, v := range m.viewStack {
		closeView(v)
	}
}

func (m *appModel) pop() {
	if len(m.viewStack) <= 1 {
		return
	}
	closeView(m.activeView())
	m.viewStack = m.viewStack[:len(m.viewStack)-1]
}

// ── bubbletea interface ──────────────────────────────────────────────────────

func (m appModel) Init() tea.Cmd {
	// Views below the top were pushed without being shown; the top one
	// loads first and the rest load when they become active.
	if v := m.activeView(); v != nil {
		return v.Init()
	}
	return nil
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		return m.forward(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case pushViewMsg:
		m.viewStack = append(m.viewStack, msg.view)
		return m, msg.view.Init()

	case popViewMsg:
		m.pop()
		return m, m.refreshActive()
	}
	return m.forward(msg)
}

// refreshActive loads a view that became active without having been
// initialised.
func (m *appModel) refreshActive() tea.Cmd {
	v := m.activeView()
	if l, ok := v.(interface{ needsLoad() bool }); ok && l.needsLoad() {
		return v.Init()
	}
	return nil
}

func (m appModel) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	v := m.activeView()
	if v == nil {
		return m, nil
	}
	updated, cmd := v.Update(msg)
	m.setActiveView(updated.(View))
	return m, cmd
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		m.closeAll()
		return m, tea.Quit
	}

	if v := m.activeView(); v != nil && viewCapturesInput(v) {
		return m.forward(msg)
	}

	switch {
	case msg.String() == "q":
		m.quitting = true
		m.closeAll()
		return m, tea.Quit

	case msg.Type == tea.KeyEsc:
		m.pop()
		return m, m.refreshActive()
	}
	return m.forward(msg)
}

func (m appModel) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{m.renderHeader()}
	if v := m.activeView(); v != nil {
		sections = append(sections, v.View())
	}
	body := strings.Join(sections, "\n")

	// Pin the status bar to the bottom of the alt screen.
	if m.state.Height > 0 {
		lines := strings.Count(body, "\n") + 1
		if pad := m.state.Height - 2 - lines; pad > 0 {
			body += strings.Repeat("\n", pad)
		}
	}
	return body + "\n" + m.renderStatusBar()
}

// ── rendering helpers ────────────────────────────────────────────────────────

func (m *appModel) renderHeader() string {
	title := formatter.StylePurple.Render("okrview")

	var crumbs []string
	for _, v := range m.viewStack {
		if t := v.Title(); t != "" {
			crumbs = append(crumbs, t)
		}
	}
	header := title
	if len(crumbs) > 0 {
		header += " " + formatter.Dim("›") + " " + formatter.Dim(strings.Join(crumbs, " › "))
	}

	sep := formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
	return header + "\n" + sep
}

func (m *appModel) renderStatusBar() string {
	var hints []string
	if v := m.activeView(); v != nil {
		for _, b := range v.ShortHelp() {
			hints = append(hints, formatter.Dim(b.Help().Key+": "+b.Help().Desc))
		}
	}
	if len(m.viewStack) > 1 {
		hints = append(hints, formatter.Dim("esc: back"))
	}
	hints = append(hints, formatter.Dim("q: quit"))

	sepStyle := lipgloss.NewStyle().Foreground(formatter.ColorDim)
	sep := sepStyle.Render(strings.Repeat("─", max(m.state.Width, 20)))
	return sep + "\n" + strings.Join(hints, "  ")
}
