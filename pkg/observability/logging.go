package observability

import (
	"context"
	"log/slog"

	"github.com/WizardOfMenlo/turing-machine/pkg/domain"
)

// LoggingHooks logs run boundaries at INFO and, if steps is true, every
// transition at DEBUG.
func LoggingHooks(logger *slog.Logger, steps bool) domain.LifecycleHooks {
	hooks := domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			logger.InfoContext(ctx, "run_start",
				"run_id", e.RunID,
				"program", e.Program,
				"input_len", e.InputLen,
				"mode", e.Mode,
			)
		},
		OnHalt: func(ctx context.Context, e *domain.RunEvent) {
			attrs := []any{"run_id", e.RunID, "program", e.Program, "duration", e.Duration}
			if e.Verdict != nil {
				attrs = append(attrs,
					"verdict", e.Verdict.Kind,
					"state", e.Verdict.State,
					"steps", e.Verdict.Steps,
					"head", e.Verdict.Head,
				)
			}
			logger.InfoContext(ctx, "run_halt", attrs...)
		},
	}
	if steps {
		hooks.OnStep = func(ctx context.Context, e *domain.StepEvent) {
			logger.DebugContext(ctx, "step",
				"run_id", e.RunID,
				"n", e.Step,
				"from", e.From,
				"read", e.Read,
				"to", e.To,
				"write", e.Wrote,
				"move", e.Move,
				"head", e.Head,
			)
		}
	}
	return hooks
}
