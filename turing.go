package turing

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/WizardOfMenlo/turing-machine/internal/compiler"
	"github.com/WizardOfMenlo/turing-machine/internal/logging"
	"github.com/WizardOfMenlo/turing-machine/internal/runtime"
	"github.com/WizardOfMenlo/turing-machine/internal/validator"
	"github.com/WizardOfMenlo/turing-machine/pkg/domain"
	"github.com/WizardOfMenlo/turing-machine/pkg/program"
)

// Version is the library release.
const Version = "0.3.0"

// Engine is the high-level entry point of the library.
// It loads descriptions into programs and runs them with a fixed policy.
type Engine struct {
	runtime      *runtime.Engine
	logger       *slog.Logger
	hooks        domain.LifecycleHooks
	mode         domain.Mode
	headerPolicy domain.HeaderPolicy
	stepLimit    uint64
	traceWindow  int
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a structured logger for loading and running.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithMode selects strict (Undefined verdict) or compat (implicit Reject)
// handling of missing transitions. Default: strict.
func WithMode(mode domain.Mode) Option {
	return func(e *Engine) {
		e.mode = mode
	}
}

// WithHeaderPolicy decides whether a state-count header mismatch is an error.
// Default: lenient, which records a warning on the program.
func WithHeaderPolicy(policy domain.HeaderPolicy) Option {
	return func(e *Engine) {
		e.headerPolicy = policy
	}
}

// WithStepLimit sets the step budget used by Run, RunString and Trace.
func WithStepLimit(limit uint64) Option {
	return func(e *Engine) {
		e.stepLimit = limit
	}
}

// WithTraceWindow sets the tape radius carried by trace snapshots.
func WithTraceWindow(radius int) Option {
	return func(e *Engine) {
		e.traceWindow = radius
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		mode:         domain.ModeStrict,
		headerPolicy: domain.HeaderLenient,
		stepLimit:    domain.DefaultStepLimit,
		traceWindow:  domain.DefaultTraceWindow,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logging.NewNop()
	}

	e.runtime = runtime.NewEngine(
		runtime.WithLogger(e.logger),
		runtime.WithLifecycleHooks(e.hooks),
		runtime.WithMode(e.mode),
		runtime.WithTraceWindow(e.traceWindow),
	)
	return e
}

// Mode returns the missing-transition policy.
func (e *Engine) Mode() domain.Mode { return e.mode }

// HeaderPolicy returns the state-count header policy.
func (e *Engine) HeaderPolicy() domain.HeaderPolicy { return e.headerPolicy }

// StepLimit returns the configured step budget.
func (e *Engine) StepLimit() uint64 { return e.stepLimit }

// Load parses and validates a description read from r.
// The returned error wraps domain.ErrParse or domain.ErrInvalidProgram.
func (e *Engine) Load(name string, r io.Reader) (*program.Program, error) {
	parser := compiler.NewParser(e.headerPolicy, compiler.WithLogger(e.logger), compiler.WithName(name))
	desc, err := parser.Parse(r)
	if err != nil {
		return nil, err
	}
	prog, err := validator.Validate(desc)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("program loaded",
		"program", name,
		"states", prog.NumStates(),
		"symbols", prog.NumSymbols()-1,
		"transitions", len(prog.Transitions()),
		"digest", prog.Digest(),
	)
	return prog, nil
}

// LoadString loads a description held in memory.
func (e *Engine) LoadString(name, text string) (*program.Program, error) {
	return e.Load(name, strings.NewReader(text))
}

// LoadFile loads a description from disk. The program is named after the file.
func (e *Engine) LoadFile(path string) (*program.Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open description: %w", err)
	}
	defer f.Close()
	return e.Load(filepath.Base(path), f)
}

// Run executes prog on input with the configured step limit.
func (e *Engine) Run(ctx context.Context, prog *program.Program, input []domain.Symbol) (*domain.Result, error) {
	return e.runtime.Run(ctx, prog, input, e.stepLimit)
}

// RunLimit executes prog on input with an explicit step limit.
func (e *Engine) RunLimit(ctx context.Context, prog *program.Program, input []domain.Symbol, stepLimit uint64) (*domain.Result, error) {
	return e.runtime.Run(ctx, prog, input, stepLimit)
}

// RunString splits input into one symbol per character (whitespace ignored) and runs it.
func (e *Engine) RunString(ctx context.Context, prog *program.Program, input string) (*domain.Result, error) {
	return e.Run(ctx, prog, domain.SplitSymbols(input))
}

// Trace returns a lazy sequence of per-step snapshots of a run.
func (e *Engine) Trace(ctx context.Context, prog *program.Program, input []domain.Symbol) (iter.Seq[domain.Snapshot], error) {
	return e.runtime.Trace(ctx, prog, input, e.stepLimit)
}

var defaultEngine = New()

// Load parses and validates description text. The caller picks how a
// state-count header mismatch is treated: domain.HeaderLenient records a
// warning on the Program, domain.HeaderStrict fails with a parse error.
func Load(text string, policy domain.HeaderPolicy) (*program.Program, error) {
	if policy == defaultEngine.headerPolicy {
		return defaultEngine.LoadString("", text)
	}
	return New(WithHeaderPolicy(policy)).LoadString("", text)
}

// Run executes prog on input in strict mode.
func Run(ctx context.Context, prog *program.Program, input []domain.Symbol, stepLimit uint64) (*domain.Result, error) {
	return defaultEngine.RunLimit(ctx, prog, input, stepLimit)
}
