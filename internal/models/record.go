// Package models defines data structures and domain types.
package models

import "time"

// RunStatus is the terminal state of a traced run.
type RunStatus string

const (
	// StatusSuccess marks a run that completed without error.
	StatusSuccess RunStatus = "success"
	// StatusError marks a run that finished with an error.
	StatusError RunStatus = "error"
)

// Valid reports whether the status is one of the known values.
func (s RunStatus) Valid() bool {
	return s == StatusSuccess || s == StatusError
}

// RunRecord is one traced LLM invocation, normalized from the raw API shape.
// Records are immutable once fetched; CostUSD is filled in by the cost
// estimator before aggregation.
type RunRecord struct {
	ID               string
	StartTime        time.Time
	Status           RunStatus
	LatencyMS        *float64 // nil while the run is still in flight
	Model            string
	PromptTokens     int
	CompletionTokens int
	ErrorMessage     string
	CostUSD          float64
}

// TotalTokens returns prompt plus completion tokens.
func (r *RunRecord) TotalTokens() int {
	return r.PromptTokens + r.CompletionTokens
}

// IsError returns true when the run finished with an error.
func (r *RunRecord) IsError() bool {
	return r.Status == StatusError
}

// Latency returns the recorded latency and whether one exists yet.
func (r *RunRecord) Latency() (float64, bool) {
	if r.LatencyMS == nil {
		return 0, false
	}
	return *r.LatencyMS, true
}
