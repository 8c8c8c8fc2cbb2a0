package cli

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/okrview/internal/config"
	"github.com/alexanderramin/okrview/internal/domain"
	"github.com/alexanderramin/okrview/internal/repository"
	"github.com/alexanderramin/okrview/internal/teatest"
	"github.com/alexanderramin/okrview/internal/testutil"
)

// fakeOKR answers from memory so TUI loads complete within the driver's
// cmd timeout.
type fakeOKR struct {
	mu         sync.Mutex
	cycles     []domain.Cycle
	objectives map[int64][]domain.CompanyObjective
	trees      map[[2]int64]*domain.TreeNode
	treeErr    error
	treeCalls  int
}

func newFakeOKR() *fakeOKR {
	f := &fakeOKR{
		cycles:     testutil.SampleCycles(),
		objectives: map[int64][]domain.CompanyObjective{},
		trees:      map[[2]int64]*domain.TreeNode{{1, 1}: testutil.SampleTree()},
	}
	for _, c := range f.cycles {
		f.objectives[c.ID] = testutil.SampleObjectives(c.ID)
	}
	return f
}

func (f *fakeOKR) ListCycles(context.Context) ([]domain.Cycle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cycles, nil
}

func (f *fakeOKR) ListCompanyObjectives(_ context.Context, cycleID int64) ([]domain.CompanyObjective, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.objectives[cycleID], nil
}

func (f *fakeOKR) LoadTree(_ context.Context, cycleID, objectiveID int64) (*domain.TreeNode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.treeCalls++
	if f.treeErr != nil {
		return nil, f.treeErr
	}
	return f.trees[[2]int64{cycleID, objectiveID}], nil
}

func (f *fakeOKR) LoadCachedTree(_ context.Context, cycleID, objectiveID int64) (*domain.TreeNode, *domain.TreeSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	root, ok := f.trees[[2]int64{cycleID, objectiveID}]
	if !ok {
		return nil, nil, repository.ErrNotFound
	}
	return root, &domain.TreeSnapshot{CycleID: cycleID, ObjectiveID: objectiveID, Title: root.Title}, nil
}

func (f *fakeOKR) ListSnapshots(context.Context) ([]*domain.TreeSnapshot, error) { return nil, nil }

func (f *fakeOKR) PruneSnapshots(context.Context, time.Duration) (int64, error) { return 0, nil }

func (f *fakeOKR) setTreeErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.treeErr = err
}

func (f *fakeOKR) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.treeCalls
}

func tuiApp(svc *fakeOKR) *App {
	cfg := config.DefaultConfig()
	cfg.View.FitDelay = config.Duration(20 * time.Millisecond)
	return &App{OKR: svc, Config: cfg}
}

// TestDriver wraps teatest.Driver with access to the app model's stack.
type TestDriver struct {
	*teatest.Driver
}

func NewTestDriver(t *testing.T, app *App, start tuiStart) *TestDriver {
	t.Helper()
	m := newAppModel(app, start)
	td := &TestDriver{Driver: teatest.New(t, m, teatest.WithSize(120, 40))}
	td.DrainInit()
	t.Cleanup(func() {
		m := td.appModel()
		m.closeAll()
	})
	return td
}

func (d *TestDriver) appModel() appModel {
	return d.Model.(appModel)
}

func (d *TestDriver) ActiveViewID() ViewID {
	m := d.appModel()
	v := m.activeView()
	if v == nil {
		return ViewID(-1)
	}
	return v.ID()
}

func (d *TestDriver) ViewStackLen() int {
	return len(d.appModel().viewStack)
}

// TreeView returns the active tree view or fails the test.
func (d *TestDriver) TreeView() *treeView {
	d.T.Helper()
	m := d.appModel()
	v, ok := m.activeView().(*treeView)
	if !ok {
		d.T.Fatalf("active view is %T, want *treeView", m.activeView())
	}
	return v
}

// AssertViewContains fails with the rendered view when a part is missing.
func (d *TestDriver) AssertViewContains(parts ...string) {
	d.T.Helper()
	if !d.Contains(parts...) {
		d.T.Fatalf("view does not contain %q:\n%s", parts, d.View())
	}
}

func (d *TestDriver) AssertViewNotContains(part string) {
	d.T.Helper()
	if d.Contains(part) {
		d.T.Fatalf("view unexpectedly contains %q:\n%s", part, d.View())
	}
}

// OpenSampleTree navigates cycles → Q1 2026 → "Grow the business".
func (d *TestDriver) OpenSampleTree() {
	d.T.Helper()
	d.PressEnter()
	d.PressEnter()
	if d.ActiveViewID() != ViewTree {
		d.T.Fatalf("expected tree view, stack has %d views:\n%s", d.ViewStackLen(), d.View())
	}
}
