package domain

import "time"

// RunRecord is a persisted run: what was executed and how it ended.
type RunRecord struct {
	ID        string        `json:"id"`
	Program   string        `json:"program"`
	Input     string        `json:"input"`
	Mode      Mode          `json:"mode"`
	StepLimit uint64        `json:"step_limit"`
	Result    Result        `json:"result"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}
