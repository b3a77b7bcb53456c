package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	turing "github.com/WizardOfMenlo/turing-machine"
	"github.com/WizardOfMenlo/turing-machine/internal/logging"
	"github.com/WizardOfMenlo/turing-machine/pkg/domain"
	"github.com/WizardOfMenlo/turing-machine/pkg/ports"
	"github.com/WizardOfMenlo/turing-machine/pkg/program"
	"github.com/google/uuid"
)

// ErrInvalidRequest is wrapped by errors caused by a malformed request
// (no program, unknown mode, step limit above the ceiling).
var ErrInvalidRequest = errors.New("invalid request")

// DefaultMaxSnapshots caps the number of snapshots a single trace request returns.
const DefaultMaxSnapshots = 10_000

// InlineProgramName names programs submitted as text without a machine name.
const InlineProgramName = "inline"

// Request is a one-shot job submitted through a network adapter.
// Exactly one of Program (description text) or Machine (a name resolved
// through the loader) is required; when both are set, Program wins and
// Machine only names it.
type Request struct {
	Machine   string `json:"machine,omitempty"`
	Program   string `json:"program,omitempty"`
	Input     string `json:"input"`
	Mode      string `json:"mode,omitempty"`
	StepLimit uint64 `json:"step_limit,omitempty"`
}

// TraceResult is a bounded trace of one run.
type TraceResult struct {
	Program   string            `json:"program"`
	Snapshots []domain.Snapshot `json:"snapshots"`
	Truncated bool              `json:"truncated"`
}

// Service answers validate/run/trace requests on behalf of the HTTP and MCP adapters.
// Engines are built per request from the base options, so each request may pick
// its own mode and step limit while sharing hooks and header policy.
type Service struct {
	base         []turing.Option
	loadEngine   *turing.Engine
	loader       ports.MachineLoader
	store        ports.RunResultStore
	logger       *slog.Logger
	observeLoad  func(error)
	maxStepLimit uint64
	maxSnapshots int
	newID        func() string
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithEngineOptions sets the options every per-request engine starts from.
func WithEngineOptions(opts ...turing.Option) ServiceOption {
	return func(s *Service) {
		s.base = append(s.base, opts...)
	}
}

// WithLoader resolves Request.Machine names.
func WithLoader(loader ports.MachineLoader) ServiceOption {
	return func(s *Service) {
		s.loader = loader
	}
}

// WithRecordStore persists every run started through the service.
func WithRecordStore(store ports.RunResultStore) ServiceOption {
	return func(s *Service) {
		s.store = store
	}
}

// WithServiceLogger configures the structured logger.
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithLoadObserver is called after every load attempt with its error (nil on success).
func WithLoadObserver(fn func(error)) ServiceOption {
	return func(s *Service) {
		s.observeLoad = fn
	}
}

// WithMaxStepLimit rejects requests asking for a larger step budget.
func WithMaxStepLimit(limit uint64) ServiceOption {
	return func(s *Service) {
		s.maxStepLimit = limit
	}
}

// WithMaxSnapshots caps trace responses.
func WithMaxSnapshots(n int) ServiceOption {
	return func(s *Service) {
		if n > 0 {
			s.maxSnapshots = n
		}
	}
}

// WithServiceIDGenerator replaces the random run ID source.
func WithServiceIDGenerator(gen func() string) ServiceOption {
	return func(s *Service) {
		s.newID = gen
	}
}

// NewService creates a Service.
func NewService(opts ...ServiceOption) *Service {
	s := &Service{
		logger:       logging.NewNop(),
		maxStepLimit: domain.DefaultStepLimit,
		maxSnapshots: DefaultMaxSnapshots,
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.loadEngine = turing.New(s.base...)
	return s
}

// Store returns the record store, or nil if runs are not persisted.
func (s *Service) Store() ports.RunResultStore {
	return s.store
}

// Machines lists the names the loader can resolve.
func (s *Service) Machines() ([]string, error) {
	if s.loader == nil {
		return []string{}, nil
	}
	return s.loader.ListMachines()
}

// Program resolves and loads the program named or carried by req.
func (s *Service) Program(req Request) (*program.Program, error) {
	name, text := req.Machine, req.Program
	switch {
	case text != "":
		if name == "" {
			name = InlineProgramName
		}
	case name != "":
		if s.loader == nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrMachineNotFound, name)
		}
		raw, err := s.loader.GetMachine(name)
		if err != nil {
			return nil, err
		}
		text = string(raw)
	default:
		return nil, fmt.Errorf("%w: program or machine is required", ErrInvalidRequest)
	}

	prog, err := s.loadEngine.LoadString(name, text)
	if s.observeLoad != nil {
		s.observeLoad(err)
	}
	if err != nil {
		s.logger.Debug("load rejected", "program", name, "err", err)
		return nil, err
	}
	return prog, nil
}

func (s *Service) engineFor(req Request) (*turing.Engine, error) {
	mode := s.loadEngine.Mode()
	if req.Mode != "" {
		m, err := domain.ParseMode(req.Mode)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		mode = m
	}
	limit := s.loadEngine.StepLimit()
	if req.StepLimit != 0 {
		limit = req.StepLimit
	}
	if s.maxStepLimit != 0 && limit > s.maxStepLimit {
		return nil, fmt.Errorf("%w: step limit %d exceeds maximum %d", ErrInvalidRequest, limit, s.maxStepLimit)
	}

	opts := append(slices.Clone(s.base), turing.WithMode(mode), turing.WithStepLimit(limit))
	return turing.New(opts...), nil
}

// Run executes req and returns the persisted record.
func (s *Service) Run(ctx context.Context, req Request) (*domain.RunRecord, error) {
	eng, err := s.engineFor(req)
	if err != nil {
		return nil, err
	}
	prog, err := s.Program(req)
	if err != nil {
		return nil, err
	}
	r := New(eng, WithStore(s.store), WithLogger(s.logger), WithIDGenerator(s.newID))
	return r.RunOne(ctx, prog, req.Input)
}

// Trace executes req and collects at most the configured number of snapshots.
func (s *Service) Trace(ctx context.Context, req Request) (*TraceResult, error) {
	eng, err := s.engineFor(req)
	if err != nil {
		return nil, err
	}
	prog, err := s.Program(req)
	if err != nil {
		return nil, err
	}
	seq, err := eng.Trace(ctx, prog, domain.SplitSymbols(req.Input))
	if err != nil {
		return nil, err
	}

	out := &TraceResult{Program: prog.Name(), Snapshots: []domain.Snapshot{}}
	for snap := range seq {
		if len(out.Snapshots) == s.maxSnapshots {
			out.Truncated = true
			break
		}
		out.Snapshots = append(out.Snapshots, snap)
	}
	if err := ctx.Err(); err != nil {
		return out, err
	}
	return out, nil
}

// Record loads a persisted run.
func (s *Service) Record(ctx context.Context, id string) (*domain.RunRecord, error) {
	if s.store == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrRunNotFound, id)
	}
	return s.store.Load(ctx, id)
}

// Records lists persisted run IDs.
func (s *Service) Records(ctx context.Context) ([]string, error) {
	if s.store == nil {
		return []string{}, nil
	}
	return s.store.List(ctx)
}

// DeleteRecord removes a persisted run.
func (s *Service) DeleteRecord(ctx context.Context, id string) error {
	if s.store == nil {
		return fmt.Errorf("%w: %s", domain.ErrRunNotFound, id)
	}
	return s.store.Delete(ctx, id)
}
