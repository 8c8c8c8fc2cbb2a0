package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/alexanderramin/okrview/internal/domain"
	"github.com/alexanderramin/okrview/internal/okrapi"
)

type fakeFailure struct {
	status  int
	message string
}

type treeKey struct {
	cycleID, objectiveID int64
}

// FakeAPI is an httptest server speaking the OKR JSON API.
type FakeAPI struct {
	*httptest.Server

	mu         sync.Mutex
	cycles     []domain.Cycle
	objectives map[int64][]domain.CompanyObjective
	trees      map[treeKey]*domain.TreeNode
	failures   map[string]fakeFailure
	hits       map[string]int
}

// NewFakeAPI starts a server preloaded with SampleCycles, SampleObjectives
// for every cycle and SampleTree for cycle 1, objective 1.
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()
	f := &FakeAPI{
		cycles:     SampleCycles(),
		objectives: map[int64][]domain.CompanyObjective{},
		trees:      map[treeKey]*domain.TreeNode{{1, 1}: SampleTree()},
		failures:   map[string]fakeFailure{},
		hits:       map[string]int{},
	}
	for _, c := range f.cycles {
		f.objectives[c.ID] = SampleObjectives(c.ID)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/cycles", f.handleCycles)
	mux.HandleFunc("/api/okr-tree/company-objectives", f.handleObjectives)
	mux.HandleFunc("/api/okr-tree", f.handleTree)
	f.Server = httptest.NewServer(f.track(mux))
	t.Cleanup(f.Close)
	return f
}

// Config returns client settings pointing at the fake.
func (f *FakeAPI) Config() okrapi.Config {
	cfg := okrapi.DefaultConfig()
	cfg.BaseURL = f.URL
	cfg.TimeoutMs = 2000
	return cfg
}

func (f *FakeAPI) SetTree(cycleID, objectiveID int64, root *domain.TreeNode) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trees[treeKey{cycleID, objectiveID}] = root
}

func (f *FakeAPI) SetObjectives(cycleID int64, objs []domain.CompanyObjective) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objectives[cycleID] = objs
}

// Fail makes every request to path answer with status and message. A 200
// status produces a success=false body.
func (f *FakeAPI) Fail(path string, status int, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[path] = fakeFailure{status: status, message: message}
}

func (f *FakeAPI) ClearFailures() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = map[string]fakeFailure{}
}

// Hits returns how many requests reached path.
func (f *FakeAPI) Hits(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

func (f *FakeAPI) track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.hits[r.URL.Path]++
		fail, failing := f.failures[r.URL.Path]
		f.mu.Unlock()

		if failing {
			writeJSON(w, fail.status, map[string]any{"success": false, "message": fail.message})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeAPI) handleCycles(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data := make([]map[string]any, 0, len(f.cycles))
	for _, c := range f.cycles {
		row := map[string]any{"cycle_id": c.ID, "cycle_name": c.Name}
		if c.StartDate != nil {
			row["start_date"] = c.StartDate.Format("2006-01-02")
		}
		if c.EndDate != nil {
			row["end_date"] = c.EndDate.Format("2006-01-02")
		}
		data = append(data, row)
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": data})
}

func (f *FakeAPI) handleObjectives(w http.ResponseWriter, r *http.Request) {
	cycleID, _ := strconv.ParseInt(r.URL.Query().Get("cycle_id"), 10, 64)
	f.mu.Lock()
	defer f.mu.Unlock()
	data := make([]map[string]any, 0)
	for _, o := range f.objectives[cycleID] {
		data = append(data, map[string]any{
			"objective_id":     o.ID,
			"obj_title":        o.Title,
			"cycle_id":         o.CycleID,
			"progress_percent": o.Progress,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": data})
}

func (f *FakeAPI) handleTree(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cycleID, _ := strconv.ParseInt(q.Get("cycle_id"), 10, 64)
	objectiveID, _ := strconv.ParseInt(q.Get("objective_id"), 10, 64)

	f.mu.Lock()
	root := f.trees[treeKey{cycleID, objectiveID}]
	f.mu.Unlock()

	raw, err := okrapi.EncodeTree(root)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"message": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": json.RawMessage(raw)})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
