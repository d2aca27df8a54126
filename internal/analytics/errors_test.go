package analytics

import (
	"strings"
	"testing"
	"time"

	"github.com/tracelens/tracelens/internal/models"
)

func failedRecord(id string, at time.Time, msg string) models.RunRecord {
	return models.RunRecord{ID: id, StartTime: at, Status: models.StatusError, ErrorMessage: msg}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"RateLimit", "Rate limit exceeded, retry after 30s", "rate_limit"},
		{"Http429", "upstream returned 429", "rate_limit"},
		{"Timeout", "request timed out after 30s", "timeout"},
		{"Deadline", "context deadline exceeded", "timeout"},
		{"Auth", "401 Unauthorized", "auth"},
		{"ApiKey", "invalid API key provided", "auth"},
		{"ContextLength", "maximum context length is 8192 tokens", "context_length"},
		{"Network", "connection refused", "network"},
		{"BadRequest", "400 bad request", "invalid_request"},
		{"Other", "something completely unexpected", "other"},
		{"Empty", "", "other"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := categorize(tt.message); got != tt.want {
				t.Errorf("categorize(%q) = %q, want %q", tt.message, got, tt.want)
			}
		})
	}
}

func TestAnalyzeErrors(t *testing.T) {
	base := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	records := []models.RunRecord{
		{ID: "ok", StartTime: base, Status: models.StatusSuccess},
		failedRecord("e1", base.Add(1*time.Minute), "rate limit exceeded"),
		failedRecord("e2", base.Add(3*time.Minute), "request timed out"),
		failedRecord("e3", base.Add(2*time.Minute), "429 too many requests"),
	}

	report := AnalyzeErrors(records, 10)
	if report.Total != 3 {
		t.Errorf("Total = %d, want 3", report.Total)
	}
	if report.Categories["rate_limit"] != 2 {
		t.Errorf("Categories[rate_limit] = %d, want 2", report.Categories["rate_limit"])
	}
	if report.Categories["timeout"] != 1 {
		t.Errorf("Categories[timeout] = %d, want 1", report.Categories["timeout"])
	}

	// Most recent first.
	wantOrder := []string{"e2", "e3", "e1"}
	for i, want := range wantOrder {
		if report.Samples[i].ID != want {
			t.Errorf("Samples[%d].ID = %q, want %q", i, report.Samples[i].ID, want)
		}
	}
}

func TestAnalyzeErrors_SampleLimit(t *testing.T) {
	base := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	var records []models.RunRecord
	for i := 0; i < 25; i++ {
		records = append(records, failedRecord("e", base.Add(time.Duration(i)*time.Minute), "boom"))
	}
	report := AnalyzeErrors(records, 5)
	if len(report.Samples) != 5 {
		t.Errorf("len(Samples) = %d, want 5", len(report.Samples))
	}
	if report.Total != 25 {
		t.Errorf("Total = %d, want 25", report.Total)
	}
}

func TestAnalyzeErrors_TiesKeepArrivalOrder(t *testing.T) {
	at := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	records := []models.RunRecord{
		failedRecord("first", at, "boom"),
		failedRecord("second", at, "boom"),
	}
	report := AnalyzeErrors(records, 10)
	if report.Samples[0].ID != "first" || report.Samples[1].ID != "second" {
		t.Errorf("tie order = %q, %q, want first, second", report.Samples[0].ID, report.Samples[1].ID)
	}
}

func TestAnalyzeErrors_TruncatesMessages(t *testing.T) {
	long := strings.Repeat("x", 500)
	records := []models.RunRecord{
		failedRecord("e1", time.Now(), long),
	}
	report := AnalyzeErrors(records, 10)
	if len(report.Samples[0].Message) > sampleMessageLimit {
		t.Errorf("sample message length = %d, want <= %d", len(report.Samples[0].Message), sampleMessageLimit)
	}
	if !strings.HasSuffix(report.Samples[0].Message, "...") {
		t.Error("truncated message missing ellipsis")
	}
}

func TestAnalyzeErrors_NoFailures(t *testing.T) {
	records := []models.RunRecord{
		{ID: "ok", Status: models.StatusSuccess},
	}
	report := AnalyzeErrors(records, 10)
	if report.Total != 0 || len(report.Samples) != 0 {
		t.Errorf("report = %+v, want empty", report)
	}
}
