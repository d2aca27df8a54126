package analytics

import (
	"testing"
	"time"

	"github.com/tracelens/tracelens/internal/models"
)

func TestSummarize_EmptyInput(t *testing.T) {
	s := Summarize(nil)
	if s.TotalRuns != 0 || s.SuccessRate != 0 || s.AvgLatencyMS != 0 || s.TotalTokens != 0 || s.TotalCostUSD != 0 {
		t.Errorf("Summarize(nil) = %+v, want all zero", s)
	}
}

func TestSummarize(t *testing.T) {
	fast := 1000.0
	slow := 20000.0
	records := []models.RunRecord{
		{ID: "a", Status: models.StatusSuccess, LatencyMS: &fast, PromptTokens: 100, CostUSD: 0.01},
		{ID: "b", Status: models.StatusSuccess, LatencyMS: &slow, PromptTokens: 300, CostUSD: 0.02},
		{ID: "c", Status: models.StatusError, PromptTokens: 100, CostUSD: 0.01},
		{ID: "d", Status: models.StatusError, LatencyMS: &fast, CompletionTokens: 500, CostUSD: 0},
	}

	s := Summarize(records)
	if s.TotalRuns != 4 {
		t.Errorf("TotalRuns = %d, want 4", s.TotalRuns)
	}
	if s.SuccessRate != 0.5 {
		t.Errorf("SuccessRate = %v, want 0.5", s.SuccessRate)
	}
	// Latency averages over the three runs that have one.
	wantLatency := (1000.0 + 20000.0 + 1000.0) / 3
	if s.AvgLatencyMS != wantLatency {
		t.Errorf("AvgLatencyMS = %v, want %v", s.AvgLatencyMS, wantLatency)
	}
	if s.TotalTokens != 1000 {
		t.Errorf("TotalTokens = %d, want 1000", s.TotalTokens)
	}
	if !almostEqual(s.TotalCostUSD, 0.04) {
		t.Errorf("TotalCostUSD = %v, want 0.04", s.TotalCostUSD)
	}
	if s.SlowRuns != 1 {
		t.Errorf("SlowRuns = %d, want 1", s.SlowRuns)
	}
}

func TestHourlyPatterns(t *testing.T) {
	records := []models.RunRecord{
		{StartTime: time.Date(2026, 8, 20, 9, 15, 0, 0, time.UTC)},
		{StartTime: time.Date(2026, 8, 20, 9, 45, 0, 0, time.UTC)},
		{StartTime: time.Date(2026, 8, 21, 14, 0, 0, 0, time.UTC)},
	}
	patterns := HourlyPatterns(records)
	if len(patterns) != 24 {
		t.Fatalf("len(patterns) = %d, want 24", len(patterns))
	}
	if patterns[9].RunCount != 2 {
		t.Errorf("hour 9 count = %d, want 2", patterns[9].RunCount)
	}
	if patterns[14].RunCount != 1 {
		t.Errorf("hour 14 count = %d, want 1", patterns[14].RunCount)
	}

	hour, count := PeakHour(patterns)
	if hour != 9 || count != 2 {
		t.Errorf("PeakHour() = %d, %d, want 9, 2", hour, count)
	}
}

func TestWeekdayPatterns(t *testing.T) {
	// 2026-08-20 is a Thursday.
	records := []models.RunRecord{
		{StartTime: time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)},
		{StartTime: time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)},
		{StartTime: time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC)}, // Sunday
	}
	patterns := WeekdayPatterns(records)
	if len(patterns) != 7 {
		t.Fatalf("len(patterns) = %d, want 7", len(patterns))
	}
	if patterns[int(time.Thursday)].RunCount != 2 {
		t.Errorf("Thursday count = %d, want 2", patterns[int(time.Thursday)].RunCount)
	}
	if patterns[int(time.Sunday)].RunCount != 1 {
		t.Errorf("Sunday count = %d, want 1", patterns[int(time.Sunday)].RunCount)
	}
	if patterns[0].DayName != "Sunday" {
		t.Errorf("patterns[0].DayName = %q, want Sunday", patterns[0].DayName)
	}
}
