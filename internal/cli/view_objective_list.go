package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/okrview/internal/cli/formatter"
	"github.com/alexanderramin/okrview/internal/domain"
	"github.com/alexanderramin/okrview/internal/okrapi"
	"github.com/alexanderramin/okrview/internal/service"
)

// objectivesLoadedMsg signals that a cycle's company objectives arrived.
type objectivesLoadedMsg struct {
	cycleID int64
	objs    []domain.CompanyObjective
	err     error
}

// objectiveListView lists the company objectives of the selected cycle.
type objectiveListView struct {
	state     *SharedState
	cycle     domain.Cycle
	objs      []domain.CompanyObjective
	list      pickList
	loading   bool
	requested bool
	err       error
}

func newObjectiveListView(state *SharedState) *objectiveListView {
	v := &objectiveListView{state: state, loading: true}
	if state.Cycle != nil {
		v.cycle = *state.Cycle
	}
	return v
}

func (v *objectiveListView) ID() ViewID          { return ViewObjectiveList }
func (v *objectiveListView) CapturesInput() bool { return v.list.filtering }

func (v *objectiveListView) Title() string {
	if v.cycle.Name != "" {
		return v.cycle.Name
	}
	return fmt.Sprintf("Cycle %d", v.cycle.ID)
}

func (v *objectiveListView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open tree")),
		key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	}
}

func (v *objectiveListView) needsLoad() bool { return !v.requested }

func (v *objectiveListView) Init() tea.Cmd {
	return v.load()
}

func (v *objectiveListView) load() tea.Cmd {
	v.requested = true
	svc, cycleID := v.state.App.OKR, v.cycle.ID
	return func() tea.Msg {
		objs, err := svc.ListCompanyObjectives(context.Background(), cycleID)
		return objectivesLoadedMsg{cycleID: cycleID, objs: objs, err: err}
	}
}

func (v *objectiveListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case objectivesLoadedMsg:
		if msg.cycleID != v.cycle.ID {
			return v, nil
		}
		v.loading = false
		v.err = msg.err
		v.objs = msg.objs
		labels := make([]string, len(msg.objs))
		for i, o := range msg.objs {
			labels[i] = o.Title
		}
		v.list.setLabels(labels)
		return v, nil

	case tea.KeyMsg:
		if !v.list.filtering && msg.String() == "r" {
			v.loading = true
			return v, v.load()
		}
		if v.list.update(msg) {
			if i, ok := v.list.selected(); ok {
				o := v.objs[i]
				v.state.SetObjective(o)
				src := service.NewAPITreeSource(v.state.App.OKR, v.cycle.ID, o.ID)
				return v, pushView(newTreeView(v.state, src, o.Title, v.cycle.ID, o.ID))
			}
		}
	}
	return v, nil
}

func (v *objectiveListView) View() string {
	if v.loading {
		return "\n  " + formatter.Dim("Loading company objectives...")
	}
	if v.err != nil {
		return "\n  " + formatter.StyleRed.Render("Error: "+okrapi.UserMessage(v.err)) +
			"\n  " + formatter.Dim("r to retry · esc to go back")
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(v.list.renderPrompt())

	rows := v.list.rows()
	if len(rows) == 0 {
		b.WriteString("  " + formatter.Dim("No company objectives in this cycle.") + "\n")
		return b.String()
	}

	height := v.state.ContentHeight() - 3
	start := v.list.window(height)
	for pos := start; pos < len(rows) && (height <= 0 || pos < start+height); pos++ {
		i := rows[pos]
		o := v.objs[i]

		cursor := "  "
		title := v.list.highlighted(i)
		if pos == v.list.cursor {
			cursor = formatter.StyleGreen.Render("▸ ")
			title = formatter.StyleBold.Render(title)
		}
		b.WriteString(fmt.Sprintf("%s%s  %s\n", cursor, padRight(title, 40), formatter.RenderProgress(o.Progress, 12)))
	}
	return b.String()
}
