package runner

import (
	"log/slog"

	"github.com/WizardOfMenlo/turing-machine/pkg/ports"
)

// DefaultConcurrency is the number of runs executed at once when not configured.
const DefaultConcurrency = 4

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithStore persists every finished run.
func WithStore(store ports.RunResultStore) Option {
	return func(r *Runner) {
		r.store = store
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithConcurrency bounds the number of simultaneous runs in a batch.
func WithConcurrency(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithIDGenerator replaces the random run ID source (useful in tests).
func WithIDGenerator(gen func() string) Option {
	return func(r *Runner) {
		r.newID = gen
	}
}
