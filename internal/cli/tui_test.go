package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/okrview/internal/domain"
	"github.com/alexanderramin/okrview/internal/okrapi"
	"github.com/alexanderramin/okrview/internal/render"
	"github.com/alexanderramin/okrview/internal/service"
	"github.com/alexanderramin/okrview/internal/testutil"
	"github.com/alexanderramin/okrview/internal/tree"
)

func TestTUI_StartsAtCycleList(t *testing.T) {
	d := NewTestDriver(t, tuiApp(newFakeOKR()), tuiStart{})

	assert.Equal(t, ViewCycleList, d.ActiveViewID())
	d.AssertViewContains("okrview", "Cycles", "Q1 2026", "Q2 2026", "● active", "q: quit")
}

func TestTUI_DrillDownToTree(t *testing.T) {
	d := NewTestDriver(t, tuiApp(newFakeOKR()), tuiStart{})

	d.PressEnter()
	require.Equal(t, ViewObjectiveList, d.ActiveViewID())
	d.AssertViewContains("Cycles › Q1 2026", "Grow the business", "Delight customers", "esc: back")

	d.PressEnter()
	require.Equal(t, ViewTree, d.ActiveViewID())
	d.AssertViewContains("Grow the business", "Reach 100 customers", "Launch in two regions", "3 of 4 nodes", "horizontal")
	d.AssertViewNotContains("Sign 10 enterprise deals")
}

func TestTUI_FilterCycles(t *testing.T) {
	d := NewTestDriver(t, tuiApp(newFakeOKR()), tuiStart{})

	d.PressKey('/')
	d.Type("q2 2")
	assert.False(t, d.Quitting, "q while filtering must not quit")
	d.AssertViewNotContains("Q1 2026")

	d.PressEnter()
	require.Equal(t, ViewObjectiveList, d.ActiveViewID())
	d.AssertViewContains("Q2 2026")
}

func TestTUI_ToggleExpand(t *testing.T) {
	d := NewTestDriver(t, tuiApp(newFakeOKR()), tuiStart{})
	d.OpenSampleTree()

	d.PressDown()
	assert.Equal(t, "kr-1", d.TreeView().selected)

	d.PressEnter()
	d.AssertViewContains("Sign 10 enterprise deals", "Dana Cruz", "4 of 4 nodes")

	d.PressSpace()
	d.AssertViewNotContains("Sign 10 enterprise deals")
	d.AssertViewContains("3 of 4 nodes")
}

func TestTUI_ExpandAllThenCollapseKeepsSelectionVisible(t *testing.T) {
	d := NewTestDriver(t, tuiApp(newFakeOKR()), tuiStart{})
	d.OpenSampleTree()

	d.PressKey('E')
	d.AssertViewContains("4 of 4 nodes")
	d.PressDown()
	d.PressDown()
	require.Equal(t, "kr-3", d.TreeView().selected)

	d.PressKey('C')
	assert.Equal(t, "kr-1", d.TreeView().selected)
	d.AssertViewContains("3 of 4 nodes")
}

func TestTUI_DirectionToggleSchedulesFit(t *testing.T) {
	d := NewTestDriver(t, tuiApp(newFakeOKR()), tuiStart{})
	d.OpenSampleTree()
	d.Settle(time.Second)

	d.PressKey('d')
	v := d.TreeView()
	assert.Equal(t, domain.DirectionTB, v.tree.Direction)
	d.AssertViewContains("vertical")
	assert.Positive(t, d.Pending(), "fit waits for the debounce tick")

	d.Settle(time.Second)
	v = d.TreeView()
	cols, rows := v.canvasSize()
	want := tree.Fit(v.layout(), float64(cols*render.CellW), float64(rows*render.CellH), v.fitOpts)
	assert.Equal(t, want, v.viewport)
}

func TestTUI_GraphMode(t *testing.T) {
	d := NewTestDriver(t, tuiApp(newFakeOKR()), tuiStart{})
	d.OpenSampleTree()

	d.PressKey('g')
	d.Settle(time.Second)
	d.AssertViewContains("graph", "╔", "▶")

	d.PressKey('g')
	d.AssertViewContains("outline", "Reach 100 customers")
	d.AssertViewNotContains("╔")
}

func TestTUI_LoadErrorShowsDismissableNotice(t *testing.T) {
	svc := newFakeOKR()
	svc.setTreeErr(&okrapi.APIError{Endpoint: "/api/okr-tree", Status: 403, Message: "Forbidden"})
	d := NewTestDriver(t, tuiApp(svc), tuiStart{})
	d.OpenSampleTree()

	d.AssertViewContains("✖", "x to dismiss", "r to retry")

	d.PressKey('x')
	d.AssertViewNotContains("✖")

	svc.setTreeErr(nil)
	d.PressKey('r')
	d.AssertViewContains("Reach 100 customers")
	assert.Equal(t, 2, svc.calls())
}

func TestTUI_EmptyTree(t *testing.T) {
	d := NewTestDriver(t, tuiApp(newFakeOKR()), tuiStart{})
	d.PressEnter()
	d.PressDown()
	d.PressEnter()

	require.Equal(t, ViewTree, d.ActiveViewID())
	d.AssertViewContains(noTreeMessage)
}

func TestTUI_StartAtObjectiveAndGoBack(t *testing.T) {
	svc := newFakeOKR()
	d := NewTestDriver(t, tuiApp(svc), tuiStart{cycleID: 1, objectiveID: 1})

	require.Equal(t, 3, d.ViewStackLen())
	d.AssertViewContains("Objective 1", "Reach 100 customers")

	d.PressEsc()
	require.Equal(t, ViewObjectiveList, d.ActiveViewID())
	d.AssertViewContains("Cycle 1", "Delight customers")

	d.PressEsc()
	require.Equal(t, ViewCycleList, d.ActiveViewID())
	d.AssertViewContains("Q1 2026")

	d.PressEsc()
	assert.Equal(t, 1, d.ViewStackLen(), "esc never pops the last view")

	d.PressKey('q')
	assert.True(t, d.Quitting)
}

func TestTUI_BackspaceLeavesTree(t *testing.T) {
	d := NewTestDriver(t, tuiApp(newFakeOKR()), tuiStart{})
	d.OpenSampleTree()

	d.PressBackspace()
	assert.Equal(t, ViewObjectiveList, d.ActiveViewID())
	assert.Equal(t, 2, d.ViewStackLen())
}

func TestTUI_StartCached(t *testing.T) {
	svc := newFakeOKR()
	d := NewTestDriver(t, tuiApp(svc), tuiStart{cycleID: 1, objectiveID: 1, cached: true})

	d.AssertViewContains("Reach 100 customers")
	assert.Zero(t, svc.calls())
}

func TestTUI_StartCachedMissing(t *testing.T) {
	d := NewTestDriver(t, tuiApp(newFakeOKR()), tuiStart{cycleID: 1, objectiveID: 2, cached: true})

	d.AssertViewContains("No cached snapshot for this objective")
}

func TestTUI_CtrlCQuits(t *testing.T) {
	d := NewTestDriver(t, tuiApp(newFakeOKR()), tuiStart{})
	d.PressCtrlC()
	assert.True(t, d.Quitting)
}

func TestTreeView_DiscardsStaleResponses(t *testing.T) {
	state := &SharedState{App: tuiApp(newFakeOKR()), Width: 120, Height: 40}
	v := newTreeView(state, service.NewAPITreeSource(state.App.OKR, 1, 1), "t", 1, 1)

	v.reload()
	v.reload()
	require.Equal(t, uint64(2), v.tree.Seq)

	other := testutil.NewObjective(9, "Old objective")
	v.Update(treeLoadedMsg{seq: 1, root: other})
	assert.Zero(t, v.tree.Graph.Len())
	assert.Equal(t, tree.StatusLoading, v.tree.Status)

	v.Update(treeLoadedMsg{seq: 2, root: testutil.SampleTree()})
	assert.Equal(t, 4, v.tree.Graph.Len())
	assert.Equal(t, "obj-1", v.selected)

	v.Update(treeLoadedMsg{seq: 1, err: errors.New("late failure")})
	assert.Empty(t, v.tree.Notice)
	assert.Equal(t, tree.StatusReady, v.tree.Status)
}

func TestTreeView_IgnoresResponsesForClosedView(t *testing.T) {
	app := tuiApp(newFakeOKR())
	m := newAppModel(app, tuiStart{})
	send := func(msg tea.Msg) {
		updated, _ := m.Update(msg)
		m = updated.(appModel)
	}

	first := newTreeView(m.state, service.NewAPITreeSource(app.OKR, 1, 1), "Grow the business", 1, 1)
	send(pushViewMsg{view: first})
	send(popViewMsg{})
	second := newTreeView(m.state, service.NewAPITreeSource(app.OKR, 1, 2), "Delight customers", 1, 2)
	send(pushViewMsg{view: second})
	require.Same(t, second, m.activeView())
	require.NotEqual(t, first.tree.Seq, second.tree.Seq)

	send(treeLoadedMsg{seq: second.tree.Seq, root: testutil.NewObjective(2, "Delight customers")})
	send(treeLoadedMsg{seq: first.tree.Seq, root: testutil.SampleTree()})

	assert.Equal(t, 1, second.tree.Graph.Len())
	_, ok := second.tree.Graph.Node("kr-1")
	assert.False(t, ok, "late response for objective 1 replaced objective 2")
	assert.Equal(t, "obj-2", second.selected)
}

func TestTreeView_OnlyLatestFitApplies(t *testing.T) {
	state := &SharedState{App: tuiApp(newFakeOKR()), Width: 120, Height: 40}
	v := newTreeView(state, service.NewAPITreeSource(state.App.OKR, 1, 1), "t", 1, 1)
	v.reload()
	v.Update(treeLoadedMsg{seq: 1, root: testutil.SampleTree()})

	sentinel := tree.Viewport{Zoom: 42}
	v.viewport = sentinel
	v.scheduleFit()
	v.scheduleFit()

	v.Update(fitMsg{seq: v.fitSeq - 1})
	assert.Equal(t, sentinel, v.viewport)

	v.Update(fitMsg{seq: v.fitSeq})
	cols, rows := v.canvasSize()
	assert.Equal(t, tree.Fit(v.layout(), float64(cols*render.CellW), float64(rows*render.CellH), v.fitOpts), v.viewport)
}

func TestTUI_FileViewReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.json")
	write := func(root *domain.TreeNode) {
		raw, err := okrapi.EncodeTree(root)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, raw, 0o644))
	}
	write(testutil.SampleTree())

	d := NewTestDriver(t, tuiApp(newFakeOKR()), tuiStart{file: path})
	require.Equal(t, ViewTree, d.ActiveViewID())
	d.AssertViewContains("tree.json", "watching", "Reach 100 customers")

	changed := testutil.SampleTree()
	changed.Children[1].Title = "Launch in three regions"
	write(changed)

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) && !d.Contains("Launch in three regions") {
		d.Settle(200 * time.Millisecond)
	}
	d.AssertViewContains("Launch in three regions")
}
