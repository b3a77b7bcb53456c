package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	turing "github.com/WizardOfMenlo/turing-machine"
	"github.com/WizardOfMenlo/turing-machine/internal/compiler"
	"github.com/WizardOfMenlo/turing-machine/internal/logging"
	"github.com/WizardOfMenlo/turing-machine/internal/presentation/graph"
	"github.com/WizardOfMenlo/turing-machine/internal/validator"
	"github.com/WizardOfMenlo/turing-machine/pkg/domain"
	"github.com/WizardOfMenlo/turing-machine/pkg/runner"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodyBytes bounds request bodies; descriptions are plain text and small.
const maxBodyBytes = 4 << 20

// Server exposes a runner.Service over JSON/HTTP.
type Server struct {
	svc      *runner.Service
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithGatherer serves the given registry on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates the HTTP handler for svc. Requests are checked against
// the embedded OpenAPI document, which is also served on /openapi.json.
func NewHandler(svc *runner.Service, opts ...Option) http.Handler {
	s := &Server{
		svc:    svc,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	api, err := loadOpenAPI()
	if err != nil {
		panic(err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(limitBody)
	r.Use(validateRequests(api.router, s.logger))

	r.Get("/healthz", s.Health)
	r.Get("/info", s.Info)
	r.Get("/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, api.doc)
	})
	r.Post("/validate", s.Validate)
	r.Post("/run", s.Run)
	r.Post("/trace", s.Trace)
	r.Get("/machines", s.ListMachines)
	r.Get("/machines/{name}/graph", s.MachineGraph)
	r.Get("/runs", s.ListRuns)
	r.Get("/runs/{id}", s.GetRun)
	r.Delete("/runs/{id}", s.DeleteRun)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	return enableCORS(r)
}

func limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ErrorResponse is the body of every non-2xx JSON reply.
type ErrorResponse struct {
	Error   string             `json:"error"`
	Line    int                `json:"line,omitempty"`
	Defects []validator.Defect `json:"defects,omitempty"`
}

// ProgramInfo summarises a loaded program.
type ProgramInfo struct {
	Name        string   `json:"name"`
	Start       string   `json:"start"`
	States      int      `json:"states"`
	Symbols     int      `json:"symbols"`
	Transitions int      `json:"transitions"`
	Digest      string   `json:"digest"`
	Warnings    []string `json:"warnings,omitempty"`
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Info handles GET /info.
func (s *Server) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version": strings.TrimSpace(turing.Version),
	})
}

// Validate handles POST /validate.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	prog, err := s.svc.Program(req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ProgramInfo{
		Name:        prog.Name(),
		Start:       prog.StateName(prog.Start()),
		States:      prog.NumStates(),
		Symbols:     prog.NumSymbols() - 1,
		Transitions: len(prog.Transitions()),
		Digest:      prog.Digest(),
		Warnings:    prog.Warnings(),
	})
}

// Run handles POST /run. The record is persisted when the service has a store.
func (s *Server) Run(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	rec, err := s.svc.Run(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Trace handles POST /trace.
func (s *Server) Trace(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	out, err := s.svc.Trace(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// ListMachines handles GET /machines.
func (s *Server) ListMachines(w http.ResponseWriter, r *http.Request) {
	names, err := s.svc.Machines()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"machines": names})
}

// MachineGraph handles GET /machines/{name}/graph and returns a Mermaid diagram.
func (s *Server) MachineGraph(w http.ResponseWriter, r *http.Request) {
	prog, err := s.svc.Program(runner.Request{Machine: chi.URLParam(r, "name")})
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte(graph.GenerateMermaid(prog, nil))); err != nil {
		s.logger.Error("graph response write failed", "err", err)
	}
}

// ListRuns handles GET /runs.
func (s *Server) ListRuns(w http.ResponseWriter, r *http.Request) {
	ids, err := s.svc.Records(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"runs": ids})
}

// GetRun handles GET /runs/{id}.
func (s *Server) GetRun(w http.ResponseWriter, r *http.Request) {
	rec, err := s.svc.Record(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// DeleteRun handles DELETE /runs/{id}.
func (s *Server) DeleteRun(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteRecord(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request) (runner.Request, bool) {
	var req runner.Request
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.logger.Warn("invalid request body", "path", r.URL.Path, "err", err)
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return req, false
	}
	return req, true
}

// writeError maps domain errors to status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	resp := ErrorResponse{Error: err.Error()}
	status := http.StatusInternalServerError

	var perr *compiler.ParseError
	var verr *validator.ValidationError
	switch {
	case errors.As(err, &perr):
		status = http.StatusUnprocessableEntity
		resp.Line = perr.Line
	case errors.As(err, &verr):
		status = http.StatusUnprocessableEntity
		resp.Defects = verr.Defects
	case errors.Is(err, domain.ErrParse), errors.Is(err, domain.ErrInvalidProgram):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, runner.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrMachineNotFound), errors.Is(err, domain.ErrRunNotFound):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	} else {
		s.logger.Debug("request rejected", "status", status, "err", err)
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}
