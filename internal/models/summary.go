package models

import "time"

// Summary holds range-wide statistics over the full requested window.
// SuccessRate is a fraction in [0, 1].
type Summary struct {
	TotalRuns    int
	SuccessRate  float64
	AvgLatencyMS float64
	TotalTokens  int
	TotalCostUSD float64
	SlowRuns     int // runs slower than the slow-run latency threshold
}

// HourlyPattern represents activity by hour of day across the range.
type HourlyPattern struct {
	Hour     int // 0-23
	RunCount int
}

// WeekdayPattern represents activity by day of week across the range.
type WeekdayPattern struct {
	DayName  string
	Weekday  int // time.Weekday ordering, Sunday = 0
	RunCount int
}

// ErrorSample is one failed run kept for display in the error breakdown.
type ErrorSample struct {
	ID        string
	Timestamp time.Time
	Message   string
}

// ErrorReport maps error categories to counts plus recent samples,
// most recent first.
type ErrorReport struct {
	Categories map[string]int
	Samples    []ErrorSample
	Total      int
}
