package observability

import (
	"context"
	"errors"
	"fmt"

	"github.com/WizardOfMenlo/turing-machine/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tm"

// Metrics holds the collectors fed by engine hooks.
type Metrics struct {
	runs     *prometheus.CounterVec
	steps    *prometheus.HistogramVec
	duration *prometheus.HistogramVec
	active   prometheus.Gauge
	loads    *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Finished runs by program and verdict.",
			},
			[]string{"program", "verdict"},
		),
		steps: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_steps",
				Help:      "Transitions applied per run.",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 12),
			},
			[]string{"program"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Wall time per run.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"program"},
		),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "runs_in_flight",
			Help:      "Runs currently executing.",
		}),
		loads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "loads_total",
				Help:      "Description loads by outcome.",
			},
			[]string{"outcome"},
		),
	}

	for _, c := range []prometheus.Collector{m.runs, m.steps, m.duration, m.active, m.loads} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that record every run.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			m.active.Inc()
		},
		OnHalt: func(ctx context.Context, e *domain.RunEvent) {
			m.active.Dec()
			if e.Verdict == nil {
				return
			}
			m.runs.WithLabelValues(e.Program, e.Verdict.Kind.String()).Inc()
			m.steps.WithLabelValues(e.Program).Observe(float64(e.Verdict.Steps))
			m.duration.WithLabelValues(e.Program).Observe(e.Duration.Seconds())
		},
	}
}

// ObserveLoad counts a load attempt by its outcome.
func (m *Metrics) ObserveLoad(err error) {
	m.loads.WithLabelValues(LoadOutcome(err)).Inc()
}

// LoadOutcome classifies a load error for metrics and logs.
func LoadOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrParse):
		return "parse_error"
	case errors.Is(err, domain.ErrInvalidProgram):
		return "invalid"
	default:
		return "error"
	}
}
