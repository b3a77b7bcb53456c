package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRunStart EventType = "run_start"
	EventStep     EventType = "step"
	EventRunHalt  EventType = "run_halt"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id,omitempty"`
}

// RunEvent marks the start or the end of a run.
type RunEvent struct {
	EventBase
	Program  string        `json:"program"`
	InputLen int           `json:"input_len"`
	Mode     Mode          `json:"mode"`
	Verdict  *Verdict      `json:"verdict,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
}

// StepEvent describes one applied transition.
type StepEvent struct {
	EventBase
	Step  uint64 `json:"step"`
	From  string `json:"from"`
	Read  Symbol `json:"read"`
	To    string `json:"to"`
	Wrote Symbol `json:"wrote"`
	Move  Move   `json:"move"`
	Head  int    `json:"head"`
}

// LifecycleHooks defines callbacks for engine observability.
// Hooks observe a run; they cannot influence it.
type LifecycleHooks struct {
	OnRunStart func(context.Context, *RunEvent)
	OnStep     func(context.Context, *StepEvent)
	OnHalt     func(context.Context, *RunEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnRunStart: chainRun(h.OnRunStart, other.OnRunStart),
		OnStep:     chainStep(h.OnStep, other.OnStep),
		OnHalt:     chainRun(h.OnHalt, other.OnHalt),
	}
}

func chainRun(a, b func(context.Context, *RunEvent)) func(context.Context, *RunEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *RunEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chainStep(a, b func(context.Context, *StepEvent)) func(context.Context, *StepEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *StepEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
