package cli

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/okrview/internal/config"
	"github.com/alexanderramin/okrview/internal/domain"
	"github.com/alexanderramin/okrview/internal/okrapi"
	"github.com/alexanderramin/okrview/internal/repository"
	"github.com/alexanderramin/okrview/internal/service"
	"github.com/alexanderramin/okrview/internal/testutil"
)

// testApp wires a full App against a fake OKR server and an in-memory cache.
func testApp(t *testing.T) (*App, *testutil.FakeAPI) {
	t.Helper()
	api := testutil.NewFakeAPI(t)
	database := testutil.NewTestDB(t)

	cfg := config.DefaultConfig()
	return &App{
		OKR: service.NewOKRService(
			okrapi.NewClient(api.Config(), nil),
			repository.NewSQLiteSnapshotRepo(database),
			testutil.NewTestUoW(database),
		),
		Config: cfg,
	}, api
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func writeTreeFile(t *testing.T) string {
	t.Helper()
	raw, err := okrapi.EncodeTree(testutil.SampleTree())
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "tree.json")
	require.NoError(t, os.WriteFile(path, raw, 0o644))
	return path
}

// --- root ---

func TestRootCmd_NoArgs_ShowsHelp(t *testing.T) {
	app, _ := testApp(t)

	output, err := executeCmd(t, app)
	require.NoError(t, err)
	assert.Contains(t, output, "okrview")
	assert.Contains(t, output, "export")
}

func TestBrowseCmd_RequiresTerminal(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "browse")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs a terminal")
}

// --- cycles / objectives ---

func TestCyclesCmd(t *testing.T) {
	app, _ := testApp(t)

	output, err := executeCmd(t, app, "cycles")
	require.NoError(t, err)
	assert.Contains(t, output, "Q1 2026")
	assert.Contains(t, output, "Q2 2026")
	assert.Contains(t, output, "no dates")
}

func TestCyclesCmd_ServerError(t *testing.T) {
	app, api := testApp(t)
	api.Fail("/cycles", 500, "database unavailable")

	_, err := executeCmd(t, app, "cycles")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database unavailable")
}

func TestFormatCycles_Ends(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	past := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)

	out := formatCycles([]domain.Cycle{
		{ID: 1, Name: "Q1 2026", StartDate: &start, EndDate: &end},
		{ID: 2, Name: "Q4 2025", EndDate: &past},
	}, now)
	assert.Contains(t, out, "Ends")
	assert.Contains(t, out, "In 8w")
	assert.Contains(t, out, "4w ago")
	assert.Contains(t, out, "● active")
}

func TestObjectivesCmd(t *testing.T) {
	app, _ := testApp(t)

	output, err := executeCmd(t, app, "objectives", "--cycle", "2")
	require.NoError(t, err)
	assert.Contains(t, output, "Grow the business")
	assert.Contains(t, output, "Delight customers")
	assert.Contains(t, output, "Build the platform")
}

func TestObjectivesCmd_Empty(t *testing.T) {
	app, api := testApp(t)
	api.SetObjectives(1, nil)

	output, err := executeCmd(t, app, "objs", "--cycle", "1")
	require.NoError(t, err)
	assert.Contains(t, output, "No company objectives in this cycle.")
}

// --- tree ---

func TestTreeCmd_DefaultExpansion(t *testing.T) {
	app, _ := testApp(t)

	output, err := executeCmd(t, app, "tree", "--cycle", "1", "--objective", "1")
	require.NoError(t, err)
	assert.Contains(t, output, "Grow the business")
	assert.Contains(t, output, "Reach 100 customers")
	assert.Contains(t, output, "Launch in two regions")
	assert.NotContains(t, output, "Sign 10 enterprise deals")
	assert.Contains(t, output, "3 of 4 nodes shown")
}

func TestTreeCmd_Expand(t *testing.T) {
	app, _ := testApp(t)

	output, err := executeCmd(t, app, "tree", "--cycle", "1", "--objective", "1", "--expand", "kr-1")
	require.NoError(t, err)
	assert.Contains(t, output, "Sign 10 enterprise deals")
	assert.Contains(t, output, "Dana Cruz")
	assert.Contains(t, output, "4 of 4 nodes shown")
}

func TestTreeCmd_ExpandAll(t *testing.T) {
	app, _ := testApp(t)

	output, err := executeCmd(t, app, "tree", "--cycle", "1", "--objective", "1", "--expand-all")
	require.NoError(t, err)
	assert.Contains(t, output, "4 of 4 nodes shown")
}

func TestTreeCmd_Graph(t *testing.T) {
	app, _ := testApp(t)

	output, err := executeCmd(t, app, "tree", "--cycle", "1", "--objective", "1", "--graph")
	require.NoError(t, err)
	assert.Contains(t, output, "┌")
	assert.Contains(t, output, "▶")

	output, err = executeCmd(t, app, "tree", "--cycle", "1", "--objective", "1", "--graph", "-d", "TB")
	require.NoError(t, err)
	assert.Contains(t, output, "▼")
}

func TestTreeCmd_BadDirection(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "tree", "--cycle", "1", "--objective", "1", "--direction", "RL")
	require.Error(t, err)
}

func TestTreeCmd_NoData(t *testing.T) {
	app, _ := testApp(t)

	output, err := executeCmd(t, app, "tree", "--cycle", "1", "--objective", "2")
	require.NoError(t, err)
	assert.Contains(t, output, noTreeMessage)
}

func TestTreeCmd_RequiresCycleWhenAmbiguous(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "tree", "--objective", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--cycle is required")
}

func TestTreeCmd_RequiresObjectiveWhenAmbiguous(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "tree", "--cycle", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--objective is required")
}

func TestTreeCmd_SingleObjectiveIsPicked(t *testing.T) {
	app, api := testApp(t)
	api.SetObjectives(1, testutil.SampleObjectives(1)[:1])

	output, err := executeCmd(t, app, "tree", "--cycle", "1")
	require.NoError(t, err)
	assert.Contains(t, output, "Reach 100 customers")
}

func TestTreeCmd_File(t *testing.T) {
	app, api := testApp(t)
	path := writeTreeFile(t)

	output, err := executeCmd(t, app, "tree", "--file", path, "--expand-all")
	require.NoError(t, err)
	assert.Contains(t, output, "Sign 10 enterprise deals")
	assert.Contains(t, output, path)
	assert.Zero(t, api.Hits("/api/okr-tree"))
}

func TestTreeCmd_Cached(t *testing.T) {
	app, api := testApp(t)

	_, err := executeCmd(t, app, "tree", "--cycle", "1", "--objective", "1")
	require.NoError(t, err)
	require.Equal(t, 1, api.Hits("/api/okr-tree"))

	output, err := executeCmd(t, app, "tree", "--cycle", "1", "--objective", "1", "--cached")
	require.NoError(t, err)
	assert.Contains(t, output, "Reach 100 customers")
	assert.Contains(t, output, "(cached)")
	assert.Equal(t, 1, api.Hits("/api/okr-tree"))
}

// --- export ---

func TestExportCmd_SVG(t *testing.T) {
	app, _ := testApp(t)
	out := filepath.Join(t.TempDir(), "nested", "tree.svg")

	output, err := executeCmd(t, app, "export", "--cycle", "1", "--objective", "1", "-o", out)
	require.NoError(t, err)
	assert.Contains(t, output, "(3 nodes)")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "<?xml"))
	assert.Contains(t, string(data), "Reach 100 customers")
}

func TestExportCmd_PNGFromExtension(t *testing.T) {
	app, _ := testApp(t)
	out := filepath.Join(t.TempDir(), "tree.png")

	_, err := executeCmd(t, app, "export", "--cycle", "1", "--objective", "1", "-o", out,
		"--expand-all", "--width", "640", "--height", "480")
	require.NoError(t, err)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 640, img.Bounds().Dx())
	assert.Equal(t, 480, img.Bounds().Dy())
}

func TestExportCmd_All(t *testing.T) {
	app, _ := testApp(t)
	dir := t.TempDir()

	output, err := executeCmd(t, app, "export", "--cycle", "1", "--all", "-o", dir, "--format", "png")
	require.NoError(t, err)

	for _, name := range []string{
		"objective-1-grow-the-business.png",
		"objective-2-delight-customers.png",
		"objective-3-build-the-platform.png",
	} {
		assert.FileExists(t, filepath.Join(dir, name))
		assert.Contains(t, output, name)
	}
}

func TestExportCmd_RequiresOut(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "export", "--cycle", "1", "--objective", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--out")
}

func TestExportCmd_UnknownFormat(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "export", "--cycle", "1", "--objective", "1",
		"-o", filepath.Join(t.TempDir(), "tree.gif"), "--format", "gif")
	require.Error(t, err)
}

func TestExportCmd_AllExcludesObjective(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "export", "--cycle", "1", "--objective", "1", "--all", "-o", t.TempDir())
	require.Error(t, err)
}

func TestExportFileName(t *testing.T) {
	o := testutil.SampleObjectives(1)[0]
	o.Title = "  Grow -- the Business! "
	assert.Equal(t, "objective-1-grow-the-business.svg", exportFileName(o, "svg"))

	o.Title = "???"
	assert.Equal(t, "objective-1.png", exportFileName(o, "png"))
}

// --- cache ---

func TestCacheCmd_ListAfterFetch(t *testing.T) {
	app, _ := testApp(t)

	output, err := executeCmd(t, app, "cache", "list")
	require.NoError(t, err)
	assert.Contains(t, output, "No cached snapshots.")

	_, err = executeCmd(t, app, "tree", "--cycle", "1", "--objective", "1")
	require.NoError(t, err)

	output, err = executeCmd(t, app, "cache", "list")
	require.NoError(t, err)
	assert.Contains(t, output, "Grow the business")
	assert.Contains(t, output, "api")
}

func TestCacheCmd_Prune(t *testing.T) {
	app, _ := testApp(t)
	_, err := executeCmd(t, app, "tree", "--cycle", "1", "--objective", "1")
	require.NoError(t, err)

	output, err := executeCmd(t, app, "cache", "prune")
	require.NoError(t, err)
	assert.Contains(t, output, "Deleted 0 snapshot(s).")

	_, err = executeCmd(t, app, "cache", "prune", "--older-than", "0s")
	require.Error(t, err)
}

func TestCacheCmd_Disabled(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	app := &App{
		OKR:    service.NewOKRService(okrapi.NewClient(api.Config(), nil), nil, nil),
		Config: config.DefaultConfig(),
	}

	_, err := executeCmd(t, app, "cache", "list")
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrCacheDisabled)
	assert.Contains(t, err.Error(), "OKRVIEW_NO_CACHE")
}
