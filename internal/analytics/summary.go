package analytics

import (
	"time"

	"github.com/tracelens/tracelens/internal/models"
)

// SlowRunThresholdMS marks runs slower than 15 seconds.
const SlowRunThresholdMS = 15000

// Summarize computes range-wide statistics over the enriched record
// set. An empty input yields a zero-valued summary.
func Summarize(records []models.RunRecord) models.Summary {
	var s models.Summary
	if len(records) == 0 {
		return s
	}

	successes := 0
	latencySum := 0.0
	latencyCount := 0
	for i := range records {
		rec := &records[i]
		s.TotalRuns++
		if !rec.IsError() {
			successes++
		}
		if ms, ok := rec.Latency(); ok {
			latencySum += ms
			latencyCount++
			if ms > SlowRunThresholdMS {
				s.SlowRuns++
			}
		}
		s.TotalTokens += rec.TotalTokens()
		s.TotalCostUSD += rec.CostUSD
	}

	s.SuccessRate = float64(successes) / float64(s.TotalRuns)
	if latencyCount > 0 {
		s.AvgLatencyMS = latencySum / float64(latencyCount)
	}
	return s
}

// HourlyPatterns counts runs by hour of day, always returning all 24
// slots.
func HourlyPatterns(records []models.RunRecord) []models.HourlyPattern {
	patterns := make([]models.HourlyPattern, 24)
	for h := range patterns {
		patterns[h].Hour = h
	}
	for i := range records {
		patterns[records[i].StartTime.Hour()].RunCount++
	}
	return patterns
}

// WeekdayPatterns counts runs by day of week, Sunday first.
func WeekdayPatterns(records []models.RunRecord) []models.WeekdayPattern {
	patterns := make([]models.WeekdayPattern, 7)
	for d := range patterns {
		patterns[d].Weekday = d
		patterns[d].DayName = time.Weekday(d).String()
	}
	for i := range records {
		patterns[int(records[i].StartTime.Weekday())].RunCount++
	}
	return patterns
}

// PeakHour returns the busiest hour slot and its count.
func PeakHour(patterns []models.HourlyPattern) (hour, count int) {
	for _, p := range patterns {
		if p.RunCount > count {
			hour = p.Hour
			count = p.RunCount
		}
	}
	return hour, count
}
