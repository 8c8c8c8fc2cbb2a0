package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/okrview/internal/cli/formatter"
	"github.com/alexanderramin/okrview/internal/domain"
	"github.com/alexanderramin/okrview/internal/okrapi"
)

// cyclesLoadedMsg signals that the cycle list has been loaded.
type cyclesLoadedMsg struct {
	cycles []domain.Cycle
	err    error
}

// cycleListView lists OKR cycles; enter opens the cycle's objectives.
type cycleListView struct {
	state   *SharedState
	cycles  []domain.Cycle
	list    pickList
	loading bool
	// requested is set once the first load has been issued.
	requested bool
	err       error
	now       func() time.Time
}

func newCycleListView(state *SharedState) *cycleListView {
	return &cycleListView{state: state, loading: true, now: time.Now}
}

func (v *cycleListView) ID() ViewID          { return ViewCycleList }
func (v *cycleListView) Title() string       { return "Cycles" }
func (v *cycleListView) CapturesInput() bool { return v.list.filtering }

func (v *cycleListView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "objectives")),
		key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	}
}

func (v *cycleListView) needsLoad() bool { return !v.requested }

func (v *cycleListView) Init() tea.Cmd {
	return v.load()
}

func (v *cycleListView) load() tea.Cmd {
	v.requested = true
	svc := v.state.App.OKR
	return func() tea.Msg {
		cycles, err := svc.ListCycles(context.Background())
		return cyclesLoadedMsg{cycles: cycles, err: err}
	}
}

func (v *cycleListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case cyclesLoadedMsg:
		v.loading = false
		v.err = msg.err
		v.cycles = msg.cycles
		labels := make([]string, len(msg.cycles))
		for i, c := range msg.cycles {
			labels[i] = c.Name
		}
		v.list.setLabels(labels)
		v.cursorToActive()
		return v, nil

	case tea.KeyMsg:
		if !v.list.filtering && msg.String() == "r" {
			v.loading = true
			return v, v.load()
		}
		if v.list.update(msg) {
			if i, ok := v.list.selected(); ok {
				v.state.SetCycle(v.cycles[i])
				return v, pushView(newObjectiveListView(v.state))
			}
		}
	}
	return v, nil
}

// cursorToActive starts the cursor on the first active cycle.
func (v *cycleListView) cursorToActive() {
	now := v.now()
	for i, c := range v.cycles {
		if c.Active(now) {
			v.list.cursor = i
			return
		}
	}
}

func (v *cycleListView) View() string {
	if v.loading {
		return "\n  " + formatter.Dim("Loading cycles...")
	}
	if v.err != nil {
		return "\n  " + formatter.StyleRed.Render("Error: "+okrapi.UserMessage(v.err)) +
			"\n  " + formatter.Dim("r to retry")
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(v.list.renderPrompt())

	rows := v.list.rows()
	if len(rows) == 0 {
		b.WriteString("  " + formatter.Dim("No cycles found.") + "\n")
		return b.String()
	}

	height := v.state.ContentHeight() - 3
	start := v.list.window(height)
	now := v.now()
	for pos := start; pos < len(rows) && (height <= 0 || pos < start+height); pos++ {
		i := rows[pos]
		c := v.cycles[i]

		cursor := "  "
		name := v.list.highlighted(i)
		if pos == v.list.cursor {
			cursor = formatter.StyleGreen.Render("▸ ")
			name = formatter.StyleBold.Render(name)
		}
		active := ""
		if c.Active(now) {
			active = "  " + formatter.StyleGreen.Render("● active")
		}
		b.WriteString(fmt.Sprintf("%s%s  %s%s\n",
			cursor, padRight(name, 24), formatter.Dim(formatter.CycleWindow(c)), active))
	}
	return b.String()
}
