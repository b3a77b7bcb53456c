package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/WizardOfMenlo/turing-machine/internal/logging"
	"github.com/WizardOfMenlo/turing-machine/pkg/domain"
	"github.com/WizardOfMenlo/turing-machine/pkg/ports"
	"github.com/WizardOfMenlo/turing-machine/pkg/program"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Engine is what the runner needs from an execution engine.
// *turing.Engine satisfies it.
type Engine interface {
	Run(ctx context.Context, prog *program.Program, input []domain.Symbol) (*domain.Result, error)
	Mode() domain.Mode
	StepLimit() uint64
}

// Outcome is the result of one input in a batch.
// Err is set when the input could not be run (e.g. a symbol outside the alphabet);
// Record is then nil.
type Outcome struct {
	Input  string
	Record *domain.RunRecord
	Err    error
}

// Runner executes inputs against a program and optionally persists the records.
type Runner struct {
	engine      Engine
	store       ports.RunResultStore
	logger      *slog.Logger
	concurrency int
	newID       func() string
}

// New creates a Runner around engine.
func New(engine Engine, opts ...Option) *Runner {
	r := &Runner{
		engine:      engine,
		logger:      logging.NewNop(),
		concurrency: DefaultConcurrency,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunOne executes a single input, given as a string with one symbol per character.
func (r *Runner) RunOne(ctx context.Context, prog *program.Program, input string) (*domain.RunRecord, error) {
	id := r.newID()
	started := time.Now()

	res, err := r.engine.Run(domain.ContextWithRunID(ctx, id), prog, domain.SplitSymbols(input))
	if err != nil && res == nil {
		return nil, err
	}

	rec := &domain.RunRecord{
		ID:        id,
		Program:   prog.Name(),
		Input:     input,
		Mode:      r.engine.Mode(),
		StepLimit: r.engine.StepLimit(),
		Result:    *res,
		StartedAt: started.UTC(),
		Duration:  time.Since(started),
	}
	if err != nil {
		// Cancelled: the partial result is returned but never persisted.
		return rec, err
	}

	if r.store != nil {
		if err := r.store.Save(ctx, rec); err != nil {
			return rec, fmt.Errorf("failed to persist run %s: %w", id, err)
		}
	}
	r.logger.Debug("run recorded", "run_id", id, "program", rec.Program, "verdict", rec.Result.Verdict.Kind, "steps", rec.Result.Steps)
	return rec, nil
}

// RunBatch executes every input with bounded concurrency. Outcomes are in input order.
// Per-input failures are reported in the Outcome; the returned error is set only
// when the batch as a whole failed (cancellation or a store error), in which case
// remaining inputs are abandoned.
func (r *Runner) RunBatch(ctx context.Context, prog *program.Program, inputs []string) ([]Outcome, error) {
	outcomes := make([]Outcome, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, in := range inputs {
		outcomes[i].Input = in
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec, err := r.RunOne(gctx, prog, in)
			outcomes[i].Record = rec
			outcomes[i].Err = err
			if err != nil && !isInputError(err) {
				return err
			}
			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		r.logger.Warn("batch aborted", "program", prog.Name(), "inputs", len(inputs), "error", err)
	} else {
		r.logger.Info("batch finished", "program", prog.Name(), "inputs", len(inputs))
	}
	return outcomes, err
}

func isInputError(err error) bool {
	return errors.Is(err, domain.ErrInvalidInput)
}
