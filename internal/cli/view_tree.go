package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/okrview/internal/cli/formatter"
	"github.com/alexanderramin/okrview/internal/domain"
	"github.com/alexanderramin/okrview/internal/okrapi"
	"github.com/alexanderramin/okrview/internal/render"
	"github.com/alexanderramin/okrview/internal/repository"
	"github.com/alexanderramin/okrview/internal/service"
	"github.com/alexanderramin/okrview/internal/tree"
	"github.com/alexanderramin/okrview/internal/watcher"
)

type treeMode int

const (
	modeOutline treeMode = iota
	modeGraph
)

func (m treeMode) String() string {
	if m == modeGraph {
		return "graph"
	}
	return "outline"
}

// treeLoadedMsg carries a fetch result tagged with the seq it was started
// under.
type treeLoadedMsg struct {
	seq  uint64
	root *domain.TreeNode
	err  error
}

// fitMsg fires when a scheduled viewport fit is due. Only the latest
// scheduled seq applies.
type fitMsg struct{ seq uint64 }

type fileChangedMsg struct{}

type watchErrMsg struct{ err error }

// treeView shows one objective tree. All tree state lives in a tree.State
// and changes only through tree.Reduce.
type treeView struct {
	state  *SharedState
	source service.TreeSource
	title  string

	cycleID     int64
	objectiveID int64

	tree     tree.State
	mode     treeMode
	selected string
	offset   int

	layoutOpts tree.LayoutOptions
	fitOpts    tree.FitOptions
	fitDelay   time.Duration
	fitSeq     uint64
	viewport   tree.Viewport

	watcher  *watcher.FileWatcher
	watchErr string
}

func newTreeView(state *SharedState, src service.TreeSource, title string, cycleID, objectiveID int64) *treeView {
	cfg := state.App.Config
	return &treeView{
		state:       state,
		source:      src,
		title:       title,
		cycleID:     cycleID,
		objectiveID: objectiveID,
		tree:        tree.NewState(cfg.View.Direction),
		layoutOpts:  tree.DefaultLayoutOptions(),
		fitOpts:     cfg.FitOptions(),
		fitDelay:    cfg.View.FitDelay.Duration(),
		viewport:    tree.IdentityViewport(),
	}
}

// newFileTreeView shows a tree read from path and reloads it whenever the
// file changes.
func newFileTreeView(state *SharedState, path string) *treeView {
	v := newTreeView(state, service.NewFileTreeSource(path), filepath.Base(path), 0, 0)
	w, err := watcher.Watch(path, watcher.DefaultDebounceDuration)
	if err != nil {
		v.watchErr = err.Error()
		return v
	}
	v.watcher = w
	return v
}

func (v *treeView) ID() ViewID { return ViewTree }

func (v *treeView) Title() string {
	if v.title != "" {
		return v.title
	}
	return v.source.Describe()
}

func (v *treeView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "expand")),
		key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "direction")),
		key.NewBinding(key.WithKeys("g"), key.WithHelp("g", v.otherMode().String())),
		key.NewBinding(key.WithKeys("E", "C"), key.WithHelp("E/C", "expand/collapse all")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	}
}

func (v *treeView) otherMode() treeMode {
	if v.mode == modeGraph {
		return modeOutline
	}
	return modeGraph
}

// Close stops the file watcher, if any.
func (v *treeView) Close() error {
	if v.watcher == nil {
		return nil
	}
	return v.watcher.Close()
}

func (v *treeView) Init() tea.Cmd {
	return tea.Batch(v.reload(), v.waitForChange())
}

// dispatch runs an action through the reducer and schedules a fit when the
// rendered subgraph or direction changed.
func (v *treeView) dispatch(a tree.Action) tea.Cmd {
	before := v.tree.Revision
	v.tree = tree.Reduce(v.tree, a)
	v.keepSelection()
	if v.tree.Revision != before {
		return v.scheduleFit()
	}
	return nil
}

// reload starts a fetch under a new seq from the shared counter. Any
// response still in flight for another seq, from this view or a closed one,
// is discarded when it arrives.
func (v *treeView) reload() tea.Cmd {
	seq := v.state.nextSeq()
	cmd := v.dispatch(tree.FetchStart{Seq: seq, CycleID: v.cycleID, ObjectiveID: v.objectiveID})
	src := v.source
	fetch := func() tea.Msg {
		root, err := src.LoadTree(context.Background())
		return treeLoadedMsg{seq: seq, root: root, err: err}
	}
	return tea.Batch(cmd, fetch)
}

func (v *treeView) scheduleFit() tea.Cmd {
	v.fitSeq = v.state.nextSeq()
	seq := v.fitSeq
	if v.fitDelay <= 0 {
		return func() tea.Msg { return fitMsg{seq: seq} }
	}
	return tea.Tick(v.fitDelay, func(time.Time) tea.Msg { return fitMsg{seq: seq} })
}

func (v *treeView) waitForChange() tea.Cmd {
	w := v.watcher
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case <-w.Done():
			return nil
		case <-w.Changes():
			return fileChangedMsg{}
		case err := <-w.Errors():
			return watchErrMsg{err: err}
		}
	}
}

func (v *treeView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case treeLoadedMsg:
		if msg.err != nil {
			return v, v.dispatch(tree.FetchFailure{Seq: msg.seq, Err: msg.err, Message: loadErrorMessage(msg.err)})
		}
		cmd := v.dispatch(tree.FetchSuccess{Seq: msg.seq, Root: msg.root})
		if msg.seq == v.tree.Seq {
			v.selectFirst()
		}
		return v, cmd

	case fitMsg:
		if msg.seq == v.fitSeq {
			v.fit()
		}
		return v, nil

	case tea.WindowSizeMsg:
		return v, v.scheduleFit()

	case fileChangedMsg:
		v.watchErr = ""
		return v, tea.Batch(v.reload(), v.waitForChange())

	case watchErrMsg:
		v.watchErr = msg.err.Error()
		return v, v.waitForChange()

	case tea.KeyMsg:
		return v, v.handleKey(msg)
	}
	return v, nil
}

func (v *treeView) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		v.moveSelection(-1)
	case "down", "j":
		v.moveSelection(1)
	case "home":
		v.selectFirst()
	case "enter", " ", "space":
		if v.selected != "" {
			return v.dispatch(tree.ToggleExpand{ID: v.selected})
		}
	case "d":
		return v.dispatch(tree.ToggleDirection{})
	case "g":
		v.mode = v.otherMode()
		return v.scheduleFit()
	case "E":
		return v.dispatch(tree.ExpandAllNodes{})
	case "C":
		return v.dispatch(tree.CollapseAllNodes{})
	case "r":
		return v.reload()
	case "x":
		v.watchErr = ""
		return v.dispatch(tree.DismissNotice{})
	case "backspace":
		return popView()
	}
	return nil
}

// loadErrorMessage turns a load failure into a notice.
func loadErrorMessage(err error) string {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return "No cached snapshot for this objective"
	case errors.Is(err, service.ErrCacheDisabled):
		return "The snapshot cache is disabled"
	}
	return okrapi.UserMessage(err)
}

// ── selection ────────────────────────────────────────────────────────────────

func (v *treeView) outline() []tree.OutlineRow {
	return tree.Outline(v.tree.Graph, v.tree.Visible(), v.tree.Expanded)
}

func (v *treeView) cursor(rows []tree.OutlineRow) int {
	for i, r := range rows {
		if r.Node.ID == v.selected {
			return i
		}
	}
	return -1
}

func (v *treeView) selectFirst() {
	v.selected = ""
	v.offset = 0
	if rows := v.outline(); len(rows) > 0 {
		v.selected = rows[0].Node.ID
	}
}

func (v *treeView) moveSelection(delta int) {
	rows := v.outline()
	if len(rows) == 0 {
		return
	}
	i := v.cursor(rows)
	if i < 0 {
		i = 0
	} else {
		i = min(max(i+delta, 0), len(rows)-1)
	}
	v.selected = rows[i].Node.ID
}

// keepSelection moves the selection to the nearest visible ancestor when
// the selected node was hidden.
func (v *treeView) keepSelection() {
	if v.selected == "" {
		return
	}
	sub := v.tree.Visible()
	id := v.selected
	for id != "" && !sub.Contains(id) {
		parent, ok := v.tree.Graph.Parent(id)
		if !ok {
			id = ""
			break
		}
		id = parent
	}
	if id == "" {
		v.selectFirst()
		return
	}
	v.selected = id
}

// ── layout & fit ─────────────────────────────────────────────────────────────

func (v *treeView) layout() tree.Positioned {
	return v.tree.Layout(v.layoutOpts)
}

// canvasSize is the graph area in terminal cells.
func (v *treeView) canvasSize() (int, int) {
	return max(v.state.Width, 20), max(v.state.ContentHeight()-v.chromeLines(), 3)
}

// chromeLines counts the lines drawn above the tree body.
func (v *treeView) chromeLines() int {
	n := 1
	if v.tree.Notice != "" || v.watchErr != "" {
		n++
	}
	return n
}

func (v *treeView) fit() {
	cols, rows := v.canvasSize()
	v.viewport = tree.Fit(v.layout(), float64(cols*render.CellW), float64(rows*render.CellH), v.fitOpts)
}

// ── rendering ────────────────────────────────────────────────────────────────

func (v *treeView) View() string {
	var b strings.Builder
	b.WriteString(v.renderStatusLine() + "\n")
	if v.tree.Notice != "" {
		b.WriteString(" " + formatter.Notice(v.tree.Notice) + "\n")
	} else if v.watchErr != "" {
		b.WriteString(" " + formatter.StyleYellow.Render("⚠ watch: "+v.watchErr) + "\n")
	}

	switch {
	case v.tree.Status == tree.StatusLoading && v.tree.Graph.Len() == 0:
		b.WriteString("\n  " + formatter.Dim("Loading OKR tree..."))
	case v.tree.Graph.Len() == 0 && v.tree.Status == tree.StatusReady:
		b.WriteString("\n  " + formatter.Dim(noTreeMessage))
	case v.tree.Graph.Len() == 0:
		b.WriteString("\n  " + formatter.Dim("Nothing to show. Press r to retry."))
	case v.mode == modeGraph:
		b.WriteString(v.renderGraph())
	default:
		b.WriteString(v.renderOutline())
	}
	return b.String()
}

func (v *treeView) renderStatusLine() string {
	parts := []string{
		formatter.StyleBold.Render(v.Title()),
		v.tree.Direction.Label(),
		v.mode.String(),
	}
	if n := v.tree.Graph.Len(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d of %d nodes", v.tree.Visible().Len(), n))
	}
	if v.tree.Status == tree.StatusLoading {
		parts = append(parts, formatter.StyleYellow.Render("loading…"))
	}
	if v.watcher != nil {
		parts = append(parts, formatter.StyleGreen.Render("watching"))
	}
	return " " + strings.Join(parts, formatter.Dim(" · "))
}

func (v *treeView) renderOutline() string {
	rows := v.outline()
	items := formatter.OutlineItems(rows)
	cur := v.cursor(rows)
	if cur >= 0 {
		items[cur].Selected = true
	}

	_, height := v.canvasSize()
	if cur >= 0 {
		if cur < v.offset {
			v.offset = cur
		} else if cur >= v.offset+height {
			v.offset = cur - height + 1
		}
	}
	v.offset = min(v.offset, max(0, len(items)-height))
	end := min(len(items), v.offset+height)
	return strings.TrimRight(formatter.RenderTree(items[v.offset:end]), "\n")
}

func (v *treeView) renderGraph() string {
	cols, rows := v.canvasSize()
	c := render.NewCanvas(cols, rows)
	c.DrawGraph(v.layout(), v.viewport, render.CanvasOptions{
		Selected: v.selected,
		Expanded: v.tree.Expanded.Has,
	})
	return c.Render(formatter.CanvasStyle)
}
