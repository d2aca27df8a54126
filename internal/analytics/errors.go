package analytics

import (
	"sort"
	"strings"

	"github.com/tracelens/tracelens/internal/models"
)

// DefaultMaxSamples bounds the recent-failure list in an error report.
const DefaultMaxSamples = 10

const sampleMessageLimit = 120

// errorClasses are checked in order; the first match wins. Messages
// matching nothing fall into "other".
var errorClasses = []struct {
	category string
	patterns []string
}{
	{"rate_limit", []string{"rate limit", "429", "too many requests", "quota"}},
	{"timeout", []string{"timeout", "timed out", "deadline exceeded"}},
	{"auth", []string{"unauthorized", "401", "403", "api key", "forbidden"}},
	{"context_length", []string{"context length", "maximum context", "token limit"}},
	{"network", []string{"connection", "network", "unreachable", "refused"}},
	{"invalid_request", []string{"invalid request", "400", "bad request", "validation"}},
}

// categorize maps an error message onto its first matching class.
func categorize(message string) string {
	lower := strings.ToLower(message)
	for _, class := range errorClasses {
		for _, p := range class.patterns {
			if strings.Contains(lower, p) {
				return class.category
			}
		}
	}
	return "other"
}

// AnalyzeErrors filters records to failures, counts them by category,
// and keeps up to maxSamples of the most recent for display, ties
// broken by arrival order. Deterministic for a given input.
func AnalyzeErrors(records []models.RunRecord, maxSamples int) models.ErrorReport {
	if maxSamples <= 0 {
		maxSamples = DefaultMaxSamples
	}

	report := models.ErrorReport{Categories: make(map[string]int)}

	type indexed struct {
		pos int
		rec *models.RunRecord
	}
	var failed []indexed
	for i := range records {
		if !records[i].IsError() {
			continue
		}
		report.Total++
		report.Categories[categorize(records[i].ErrorMessage)]++
		failed = append(failed, indexed{pos: i, rec: &records[i]})
	}

	// Most recent first; equal timestamps keep arrival order.
	sort.SliceStable(failed, func(a, b int) bool {
		return failed[a].rec.StartTime.After(failed[b].rec.StartTime)
	})

	if len(failed) > maxSamples {
		failed = failed[:maxSamples]
	}
	for _, f := range failed {
		report.Samples = append(report.Samples, models.ErrorSample{
			ID:        f.rec.ID,
			Timestamp: f.rec.StartTime,
			Message:   truncateMessage(f.rec.ErrorMessage),
		})
	}
	return report
}

func truncateMessage(msg string) string {
	if len(msg) <= sampleMessageLimit {
		return msg
	}
	return msg[:sampleMessageLimit-3] + "..."
}
