package okrapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/okrview/internal/domain"
)

const (
	cyclesPath     = "/cycles"
	objectivesPath = "/api/okr-tree/company-objectives"
	treePath       = "/api/okr-tree"
)

// Client reads cycles, company objectives and objective trees from the OKR API.
type Client interface {
	ListCycles(ctx context.Context) ([]domain.Cycle, error)
	ListCompanyObjectives(ctx context.Context, cycleID int64) ([]domain.CompanyObjective, error)
	// FetchTree returns the hierarchy under one company objective. A nil tree
	// with a nil error means the objective has nothing to show.
	FetchTree(ctx context.Context, cycleID, objectiveID int64) (*domain.TreeNode, error)
}

type httpClient struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewClient creates a Client for the server at cfg.BaseURL.
func NewClient(cfg Config, observer Observer) Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	if cfg.TimeoutMs <= 0 {
		cfg.TimeoutMs = DefaultConfig().TimeoutMs
	}
	return &httpClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

func (c *httpClient) ListCycles(ctx context.Context) ([]domain.Cycle, error) {
	env, err := c.get(ctx, cyclesPath, nil)
	if err != nil {
		return nil, err
	}
	var raw []cycleJSON
	if !env.dataIsNull() {
		if err := json.Unmarshal(env.Data, &raw); err != nil {
			return nil, fmt.Errorf("%w: cycles: %v", ErrInvalidResponse, err)
		}
	}
	cycles := make([]domain.Cycle, 0, len(raw))
	for _, r := range raw {
		cycles = append(cycles, r.toDomain())
	}
	return cycles, nil
}

func (c *httpClient) ListCompanyObjectives(ctx context.Context, cycleID int64) ([]domain.CompanyObjective, error) {
	q := url.Values{}
	q.Set("cycle_id", strconv.FormatInt(cycleID, 10))
	env, err := c.get(ctx, objectivesPath, q)
	if err != nil {
		return nil, err
	}
	var raw []objectiveJSON
	if !env.dataIsNull() {
		if err := json.Unmarshal(env.Data, &raw); err != nil {
			return nil, fmt.Errorf("%w: company objectives: %v", ErrInvalidResponse, err)
		}
	}
	objectives := make([]domain.CompanyObjective, 0, len(raw))
	for _, r := range raw {
		o := r.toDomain()
		if o.CycleID == 0 {
			o.CycleID = cycleID
		}
		objectives = append(objectives, o)
	}
	return objectives, nil
}

func (c *httpClient) FetchTree(ctx context.Context, cycleID, objectiveID int64) (*domain.TreeNode, error) {
	q := url.Values{}
	q.Set("cycle_id", strconv.FormatInt(cycleID, 10))
	q.Set("objective_id", strconv.FormatInt(objectiveID, 10))
	env, err := c.get(ctx, treePath, q)
	if err != nil {
		return nil, err
	}
	return DecodeTree(env.Data)
}

// get performs one GET, reports it to the observer and unwraps the envelope.
func (c *httpClient) get(ctx context.Context, path string, query url.Values) (*envelope, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutMs)*time.Millisecond)
	defer cancel()

	status, env, err := c.doRequest(ctx, path, query)
	if err != nil && ctx.Err() != nil && !errors.Is(err, ErrApplication) {
		err = fmt.Errorf("GET %s: %w", path, ErrTimeout)
	}

	c.observer.OnCallComplete(CallEvent{
		Endpoint:  path,
		Status:    status,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
		ErrorCode: errorCode(err),
	})
	if err != nil {
		return nil, err
	}
	return env, nil
}

func (c *httpClient) doRequest(ctx context.Context, path string, query url.Values) (int, *envelope, error) {
	u := strings.TrimRight(c.cfg.BaseURL, "/") + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	if c.cfg.CSRFToken != "" {
		req.Header.Set("X-CSRF-TOKEN", c.cfg.CSRFToken)
	}
	if c.cfg.SessionCookie != "" {
		req.Header.Set("Cookie", c.cfg.SessionCookie)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("GET %s: %w: %v", path, ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("GET %s: %w: reading body: %v", path, ErrUnavailable, err)
	}

	var env envelope
	decodeErr := json.Unmarshal(body, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, nil, &APIError{Endpoint: path, Status: resp.StatusCode, Message: env.Message}
	}
	if decodeErr != nil {
		return resp.StatusCode, nil, fmt.Errorf("GET %s: %w: %v", path, ErrInvalidResponse, decodeErr)
	}
	if env.Success != nil && !*env.Success {
		msg := env.Message
		if msg == "" {
			msg = "request was not successful"
		}
		return resp.StatusCode, nil, &APIError{Endpoint: path, Status: resp.StatusCode, Message: msg}
	}
	return resp.StatusCode, &env, nil
}
