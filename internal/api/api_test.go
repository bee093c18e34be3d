package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/knapset/pkg/errors"
	"github.com/matzehuels/knapset/pkg/observability"
	"github.com/matzehuels/knapset/pkg/pipeline"
	"github.com/matzehuels/knapset/pkg/store"
)

const toyJSON = `{
  "name": "toy",
  "capacity": 5,
  "vertices": [
    {"id": "A", "weight": 2, "value": 3},
    {"id": "B", "weight": 3, "value": 5},
    {"id": "C", "weight": 4, "value": 6},
    {"id": "D", "weight": 1, "value": 2}
  ],
  "edges": [{"u": "A", "v": "B"}, {"u": "C", "v": "D"}, {"u": "A", "v": "C"}]
}`

func newTestServer(t *testing.T) (*Server, *store.MemoryStore) {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	st := store.NewMemoryStore()
	s, err := New(Options{
		Runner: pipeline.NewRunner(nil, nil, logger),
		Store:  st,
		Logger: logger,
	})
	if err != nil {
		t.Fatal(err)
	}
	return s, st
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestNewRequiresDeps(t *testing.T) {
	if _, err := New(Options{Store: store.NewMemoryStore()}); err == nil {
		t.Error("missing runner should fail")
	}
	if _, err := New(Options{Runner: pipeline.NewRunner(nil, nil, nil)}); err == nil {
		t.Error("missing store should fail")
	}
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz = %d %s", rec.Code, rec.Body)
	}
	if h := decode[healthResponse](t, rec); h.Status != "ok" || h.Build.Version == "" {
		t.Errorf("healthz body = %+v", h)
	}
}

func TestSolveAndRuns(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/v1/solve", toyJSON)
	if rec.Code != http.StatusOK {
		t.Fatalf("solve status = %d: %s", rec.Code, rec.Body)
	}
	if rec.Header().Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %q", rec.Header().Get("Content-Type"))
	}
	run := decode[store.Run](t, rec)
	if run.Value != 7 || !run.Optimal || strings.Join(run.Vertices, ",") != "B,D" {
		t.Errorf("run = %+v", run)
	}
	if !store.ValidID(run.ID) || run.InstanceHash == "" {
		t.Errorf("run identity = %q %q", run.ID, run.InstanceHash)
	}

	rec = do(t, s, http.MethodGet, "/v1/runs/"+run.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	if got := decode[store.Run](t, rec); got.ID != run.ID || got.Value != 7 {
		t.Errorf("get = %+v", got)
	}

	do(t, s, http.MethodPost, "/v1/solve", strings.Replace(toyJSON, `"toy"`, `"other"`, 1))

	rec = do(t, s, http.MethodGet, "/v1/runs", "")
	if list := decode[listResponse](t, rec); len(list.Runs) != 2 {
		t.Errorf("list = %d runs, want 2", len(list.Runs))
	}
	rec = do(t, s, http.MethodGet, "/v1/runs?instance=toy&limit=10", "")
	list := decode[listResponse](t, rec)
	if len(list.Runs) != 1 || list.Runs[0].Instance != "toy" {
		t.Errorf("filtered list = %+v", list.Runs)
	}
}

func TestSolveBudget(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/v1/solve?max_steps=1", toyJSON)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if run := decode[store.Run](t, rec); run.Optimal || run.Steps != 1 {
		t.Errorf("budgeted run = %+v", run)
	}
}

func TestSolveErrors(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name     string
		target   string
		body     string
		wantCode int
		wantErr  errs.Code
	}{
		{"malformed body", "/v1/solve", "{", http.StatusBadRequest, errs.ErrCodeInvalidFormat},
		{"bad weight", "/v1/solve", strings.Replace(toyJSON, `"weight": 2`, `"weight": 0`, 1), http.StatusBadRequest, errs.ErrCodeInvalidWeight},
		{"unknown edge", "/v1/solve", strings.Replace(toyJSON, `"u": "A"`, `"u": "Z"`, 1), http.StatusBadRequest, errs.ErrCodeInvalidInstance},
		{"bad time limit", "/v1/solve?time_limit=soon", toyJSON, http.StatusBadRequest, errs.ErrCodeInvalidInput},
		{"bad max steps", "/v1/solve?max_steps=-3", toyJSON, http.StatusBadRequest, errs.ErrCodeInvalidInput},
		{"name with separator", "/v1/solve", strings.Replace(toyJSON, `"toy"`, `"../toy"`, 1), http.StatusBadRequest, errs.ErrCodeInvalidInstance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, tt.target, tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantCode, rec.Body)
			}
			if body := decode[errorBody](t, rec); body.Error != string(tt.wantErr) {
				t.Errorf("error = %q, want %q", body.Error, tt.wantErr)
			}
		})
	}
}

func TestSolveClientGone(t *testing.T) {
	var logs strings.Builder
	logger := log.NewWithOptions(&logs, log.Options{})
	st := store.NewMemoryStore()
	s, err := New(Options{
		Runner: pipeline.NewRunner(nil, nil, logger),
		Store:  st,
		Logger: logger,
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/v1/solve", strings.NewReader(toyJSON)).WithContext(ctx)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != statusClientClosedRequest {
		t.Fatalf("status = %d, want %d: %s", rec.Code, statusClientClosedRequest, rec.Body)
	}
	if body := decode[errorBody](t, rec); body.Error != string(errs.ErrCodeCanceled) {
		t.Errorf("error = %q, want %q", body.Error, errs.ErrCodeCanceled)
	}
	if strings.Contains(logs.String(), "request failed") {
		t.Errorf("canceled request logged as a failure:\n%s", logs.String())
	}
	if runs, _ := st.List(context.Background(), store.ListOptions{}); len(runs) != 0 {
		t.Errorf("canceled solve archived %d runs", len(runs))
	}
}

func TestGetRunNotFound(t *testing.T) {
	s, _ := newTestServer(t)
	for _, id := range []string{"not-a-uuid", "6f1c2b2e-8c1e-4f7a-9a51-0b8f4b8c0d11"} {
		rec := do(t, s, http.MethodGet, "/v1/runs/"+id, "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("GET %s = %d, want 404", id, rec.Code)
		}
		if body := decode[errorBody](t, rec); body.Error != string(errs.ErrCodeRunNotFound) {
			t.Errorf("error = %q", body.Error)
		}
	}
}

func TestVerify(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name         string
		vertices     string
		wantCode     int
		wantFeasible bool
		wantReason   string
	}{
		{"feasible", `["B","D"]`, http.StatusOK, true, ""},
		{"adjacent", `["A","B"]`, http.StatusOK, false, "adjacent"},
		{"over capacity", `["B","C"]`, http.StatusOK, false, "capacity"},
		{"unknown vertex", `["Q"]`, http.StatusBadRequest, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := fmt.Sprintf(`{"instance": %s, "vertices": %s}`, toyJSON, tt.vertices)
			rec := do(t, s, http.MethodPost, "/v1/verify", body)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantCode, rec.Body)
			}
			if tt.wantCode != http.StatusOK {
				return
			}
			resp := decode[verifyResponse](t, rec)
			if resp.Feasible != tt.wantFeasible || !strings.Contains(resp.Reason, tt.wantReason) {
				t.Errorf("resp = %+v", resp)
			}
		})
	}

	rec := do(t, s, http.MethodPost, "/v1/verify", `{"vertices": ["A"]}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing instance = %d, want 400", rec.Code)
	}
}

func TestRoutingErrors(t *testing.T) {
	s, _ := newTestServer(t)
	if rec := do(t, s, http.MethodGet, "/v2/nothing", ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown route = %d", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, "/v1/solve", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("wrong method = %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "# HELP") {
		t.Errorf("metrics = %d", rec.Code)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errs.New(errs.ErrCodeInvalidCapacity, "x"), http.StatusBadRequest},
		{errs.New(errs.ErrCodeNotFound, "x"), http.StatusNotFound},
		{fmt.Errorf("%w: abc", store.ErrRunNotFound), http.StatusNotFound},
		{errs.New(errs.ErrCodeInfeasible, "x"), http.StatusUnprocessableEntity},
		{errs.New(errs.ErrCodeTimeout, "x"), http.StatusGatewayTimeout},
		{fmt.Errorf("solve: %w", context.Canceled), statusClientClosedRequest},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got, _ := classify(tt.err); got != tt.want {
			t.Errorf("classify(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}

	rec := httptest.NewRecorder()
	writeError(rec, errors.New("secret detail"))
	if strings.Contains(rec.Body.String(), "secret") {
		t.Error("uncoded errors must not leak their text")
	}
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	mu     sync.Mutex
	routes []string
	errors int
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, route string, _ int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, route)
}

func (h *recordingHTTPHooks) OnError(context.Context, string, string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors++
}

func TestHTTPHooks(t *testing.T) {
	h := &recordingHTTPHooks{}
	observability.SetHTTPHooks(h)
	t.Cleanup(observability.Reset)

	s, _ := newTestServer(t)
	do(t, s, http.MethodGet, "/v1/runs/6f1c2b2e-8c1e-4f7a-9a51-0b8f4b8c0d11", "")
	do(t, s, http.MethodGet, "/healthz", "")

	if len(h.routes) != 2 || h.routes[0] != "/v1/runs/{id}" || h.routes[1] != "/healthz" {
		t.Errorf("routes = %v", h.routes)
	}
	if h.errors != 1 {
		t.Errorf("errors = %d, want 1", h.errors)
	}
}
