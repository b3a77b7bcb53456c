// Package runtime drives a validated program over an input tape.
//
// The step loop in this package is the only place where a run's
// configuration is mutated. Programs are read-only here and may be shared
// by any number of concurrent runs.
package runtime

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/WizardOfMenlo/turing-machine/internal/logging"
	"github.com/WizardOfMenlo/turing-machine/pkg/domain"
	"github.com/WizardOfMenlo/turing-machine/pkg/program"
)

// Engine executes programs. It holds configuration only and is safe for concurrent use.
type Engine struct {
	logger      *slog.Logger
	hooks       domain.LifecycleHooks
	mode        domain.Mode
	traceWindow int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observers for run start, every step and halt.
// Hooks run synchronously on the run's goroutine.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithMode selects how a missing transition is treated. The default is ModeStrict.
func WithMode(mode domain.Mode) Option {
	return func(e *Engine) {
		e.mode = mode
	}
}

// WithTraceWindow sets how many cells on each side of the head a trace snapshot carries.
func WithTraceWindow(radius int) Option {
	return func(e *Engine) {
		if radius >= 0 {
			e.traceWindow = radius
		}
	}
}

// NewEngine creates an engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		logger:      logging.NewNop(),
		mode:        domain.ModeStrict,
		traceWindow: domain.DefaultTraceWindow,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Mode returns the missing-transition policy applied to every run.
func (e *Engine) Mode() domain.Mode {
	return e.mode
}

// Run executes prog on input until it halts or takes more than stepLimit steps.
//
// Every halting outcome, Undefined and StepLimitExceeded included, is returned
// as a Result with a nil error. An input symbol outside the alphabet is an
// error and the run never starts. If ctx is cancelled the run stops within one
// step and returns a Result with VerdictCanceled together with ctx.Err().
func (e *Engine) Run(ctx context.Context, prog *program.Program, input []domain.Symbol, stepLimit uint64) (*domain.Result, error) {
	ids, err := prog.Encode(input)
	if err != nil {
		return nil, fmt.Errorf("failed to load input for %q: %w", prog.Name(), err)
	}

	r := newRun(prog, ids, stepLimit, e.mode)
	runID := domain.RunIDFromContext(ctx)
	start := time.Now()

	e.logger.Debug("run started", "program", prog.Name(), "run_id", runID, "input_len", len(input), "mode", e.mode, "step_limit", stepLimit)
	if e.hooks.OnRunStart != nil {
		e.hooks.OnRunStart(ctx, e.runEvent(domain.EventRunStart, runID, prog, len(input), start))
	}

	onStep := e.hooks.OnStep
	done := ctx.Done()
	var kind domain.VerdictKind
	for {
		if done != nil {
			select {
			case <-done:
				kind = domain.VerdictCanceled
			default:
			}
			if kind != 0 {
				break
			}
		}
		if kind = r.check(); kind != 0 {
			break
		}
		a := r.apply()
		if onStep != nil {
			onStep(ctx, e.stepEvent(runID, r, a))
		}
	}

	res := r.result(kind)
	elapsed := time.Since(start)
	e.logger.Debug("run halted", "program", prog.Name(), "run_id", runID, "verdict", res.Verdict.Kind, "state", res.Verdict.State, "steps", res.Steps, "duration", elapsed)
	if e.hooks.OnHalt != nil {
		ev := e.runEvent(domain.EventRunHalt, runID, prog, len(input), time.Now())
		ev.Verdict = &res.Verdict
		ev.Duration = elapsed
		e.hooks.OnHalt(ctx, ev)
	}

	if kind == domain.VerdictCanceled {
		return res, ctx.Err()
	}
	return res, nil
}

// Trace returns a lazy, forward-only sequence of snapshots of a run of prog on input.
//
// The first snapshot is the initial configuration; each further one follows a
// single step. The last snapshot carries the verdict. Breaking out of the loop
// abandons the run; ranging again replays it from the start. Trace never fires
// lifecycle hooks and has no effect on Run.
func (e *Engine) Trace(ctx context.Context, prog *program.Program, input []domain.Symbol, stepLimit uint64) (iter.Seq[domain.Snapshot], error) {
	ids, err := prog.Encode(input)
	if err != nil {
		return nil, fmt.Errorf("failed to load input for %q: %w", prog.Name(), err)
	}
	radius, mode := e.traceWindow, e.mode

	return func(yield func(domain.Snapshot) bool) {
		r := newRun(prog, ids, stepLimit, mode)
		done := ctx.Done()
		for {
			kind := r.check()
			if kind == 0 && done != nil {
				select {
				case <-done:
					kind = domain.VerdictCanceled
				default:
				}
			}
			if !yield(r.snapshot(kind, radius)) || kind != 0 {
				return
			}
			r.apply()
		}
	}, nil
}

func (e *Engine) runEvent(t domain.EventType, runID string, prog *program.Program, inputLen int, at time.Time) *domain.RunEvent {
	return &domain.RunEvent{
		EventBase: domain.EventBase{Timestamp: at, Type: t, RunID: runID},
		Program:   prog.Name(),
		InputLen:  inputLen,
		Mode:      e.mode,
	}
}

func (e *Engine) stepEvent(runID string, r *run, a applied) *domain.StepEvent {
	return &domain.StepEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventStep, RunID: runID},
		Step:      r.steps,
		From:      r.prog.StateName(a.from),
		Read:      r.prog.Symbol(a.read),
		To:        r.prog.StateName(a.action.Next),
		Wrote:     r.prog.Symbol(a.action.Write),
		Move:      a.action.Move,
		Head:      r.tape.Head(),
	}
}
