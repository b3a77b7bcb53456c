package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	turing "github.com/WizardOfMenlo/turing-machine"
	"github.com/WizardOfMenlo/turing-machine/internal/fixtures"
	"github.com/WizardOfMenlo/turing-machine/pkg/adapters/memory"
	"github.com/WizardOfMenlo/turing-machine/pkg/domain"
	"github.com/WizardOfMenlo/turing-machine/pkg/observability"
	"github.com/WizardOfMenlo/turing-machine/pkg/runner"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	n := 0
	svc := runner.NewService(
		runner.WithEngineOptions(turing.WithLifecycleHooks(metrics.Hooks())),
		runner.WithLoader(memory.NewLoader(map[string]string{
			"compare": fixtures.Compare48,
			"tiny":    fixtures.TinyAccept,
		})),
		runner.WithRecordStore(memory.NewStore()),
		runner.WithLoadObserver(metrics.ObserveLoad),
		runner.WithServiceIDGenerator(func() string {
			n++
			return fmt.Sprintf("run-%d", n)
		}),
	)
	return NewHandler(svc, WithGatherer(reg))
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	h := newTestHandler(t)
	w := do(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestValidate(t *testing.T) {
	h := newTestHandler(t)

	w := do(t, h, http.MethodPost, "/validate", runner.Request{Machine: "compare"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var info ProgramInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "compare", info.Name)
	assert.Equal(t, 48, info.States)
	assert.Equal(t, 4, info.Symbols)
	assert.NotEmpty(t, info.Digest)
}

func TestValidate_Errors(t *testing.T) {
	h := newTestHandler(t)

	t.Run("parse error carries the line", func(t *testing.T) {
		w := do(t, h, http.MethodPost, "/validate", runner.Request{Program: "states 1\nstart q\nq a b\n"})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 3, resp.Line)
	})

	t.Run("validation error lists defects", func(t *testing.T) {
		text := "states 3\nstart a\nalphabet 1 0\nacc +\nrej -\na 0 b 0 R\n"
		w := do(t, h, http.MethodPost, "/validate", runner.Request{Program: text})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), `"kind":"unknown-state"`)
	})

	t.Run("unknown machine", func(t *testing.T) {
		w := do(t, h, http.MethodPost, "/validate", runner.Request{Machine: "nope"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/validate", strings.NewReader("{"))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRunAndFetch(t *testing.T) {
	h := newTestHandler(t)

	w := do(t, h, http.MethodPost, "/run", runner.Request{Machine: "compare", Input: "0#0", Mode: "compat"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var rec domain.RunRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Equal(t, "run-1", rec.ID)
	assert.Equal(t, domain.VerdictAccept, rec.Result.Verdict.Kind)
	assert.Equal(t, uint64(16), rec.Result.Steps)
	assert.Contains(t, w.Body.String(), `"kind":"accept"`)

	w = do(t, h, http.MethodGet, "/runs/run-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fetched domain.RunRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Equal(t, rec.Result.Verdict, fetched.Result.Verdict)

	w = do(t, h, http.MethodGet, "/runs", nil)
	assert.JSONEq(t, `{"runs":["run-1"]}`, w.Body.String())

	w = do(t, h, http.MethodDelete, "/runs/run-1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodGet, "/runs/run-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRun_InputErrors(t *testing.T) {
	h := newTestHandler(t)

	w := do(t, h, http.MethodPost, "/run", runner.Request{Machine: "tiny", Input: "9"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/run", runner.Request{Machine: "tiny", Mode: "maybe"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTrace(t *testing.T) {
	h := newTestHandler(t)

	w := do(t, h, http.MethodPost, "/trace", runner.Request{Machine: "tiny", Input: "0"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out runner.TraceResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out.Snapshots, 2)
	assert.Equal(t, "start", out.Snapshots[0].State)
	require.NotNil(t, out.Snapshots[1].Verdict)
	assert.Equal(t, domain.VerdictAccept, out.Snapshots[1].Verdict.Kind)
}

func TestMachines(t *testing.T) {
	h := newTestHandler(t)

	w := do(t, h, http.MethodGet, "/machines", nil)
	assert.JSONEq(t, `{"machines":["compare","tiny"]}`, w.Body.String())

	w = do(t, h, http.MethodGet, "/machines/tiny/graph", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "graph LR\n"))
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestHandler(t)

	do(t, h, http.MethodPost, "/run", runner.Request{Machine: "tiny", Input: "0"})
	w := do(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `tm_runs_total{program="tiny",verdict="accept"} 1`)
	assert.Contains(t, body, `tm_loads_total{outcome="ok"} 1`)
}

func TestOpenAPI(t *testing.T) {
	doc, err := Spec()
	require.NoError(t, err)
	for _, path := range []string{"/healthz", "/info", "/validate", "/run", "/trace", "/machines", "/machines/{name}/graph", "/runs", "/runs/{id}"} {
		assert.NotNil(t, doc.Paths.Value(path), path)
	}

	h := newTestHandler(t)
	w := do(t, h, http.MethodGet, "/openapi.json", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"openapi":"3.0.3"`)
}

func TestRequestValidation(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name string
		body string
	}{
		{"unknown field", `{"machine":"tiny","input":"0","extra":1}`},
		{"wrong type", `{"machine":"tiny","input":0}`},
		{"zero step limit", `{"machine":"tiny","input":"0","step_limit":0}`},
		{"unknown mode", `{"machine":"tiny","input":"0","mode":"lax"}`},
		{"empty body", ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/run", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "text/plain")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "invalid request")
		})
	}

	// A body sent without a JSON content type is still accepted.
	req := httptest.NewRequest(http.MethodPost, "/run", strings.NewReader(`{"machine":"tiny","input":"0"}`))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}
