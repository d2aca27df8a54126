// Package analytics implements the trace processing pipeline: normalizing
// raw API records, estimating cost, bucketing over time, flagging misuse,
// and summarizing errors. Every function is a pure pass over its input;
// nothing here holds state between calls.
package analytics

import (
	"fmt"
	"time"

	"github.com/tidwall/gjson"

	"github.com/tracelens/tracelens/internal/logger"
	"github.com/tracelens/tracelens/internal/models"
)

// MalformedRecordError reports a raw record that could not be normalized.
// Such records are skipped and counted, never fatal to the batch.
type MalformedRecordError struct {
	Index  int
	Field  string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record %d: field %q %s", e.Index, e.Field, e.Reason)
}

// Normalize converts raw API run records of arbitrary JSON shape into
// RunRecords. Records missing a required field (id, start_time, status)
// or carrying a semantically wrong value are dropped; the second return
// value counts the drops.
func Normalize(raw [][]byte) ([]models.RunRecord, int) {
	records := make([]models.RunRecord, 0, len(raw))
	skipped := 0
	for i, body := range raw {
		rec, err := normalizeOne(i, body)
		if err != nil {
			logger.Debug("skipping malformed record", "error", err)
			skipped++
			continue
		}
		records = append(records, rec)
	}
	return records, skipped
}

func normalizeOne(index int, body []byte) (models.RunRecord, error) {
	if !gjson.ValidBytes(body) {
		return models.RunRecord{}, &MalformedRecordError{Index: index, Field: "", Reason: "is not valid JSON"}
	}

	id := gjson.GetBytes(body, "id")
	if id.Type != gjson.String || id.Str == "" {
		return models.RunRecord{}, &MalformedRecordError{Index: index, Field: "id", Reason: "is missing or not a string"}
	}

	start, err := parseTimestamp(gjson.GetBytes(body, "start_time"))
	if err != nil {
		return models.RunRecord{}, &MalformedRecordError{Index: index, Field: "start_time", Reason: err.Error()}
	}

	status, err := parseStatus(body)
	if err != nil {
		return models.RunRecord{}, &MalformedRecordError{Index: index, Field: "status", Reason: err.Error()}
	}

	rec := models.RunRecord{
		ID:               id.Str,
		StartTime:        start,
		Status:           status,
		Model:            extractModel(body),
		PromptTokens:     nonNegativeInt(gjson.GetBytes(body, "prompt_tokens")),
		CompletionTokens: nonNegativeInt(gjson.GetBytes(body, "completion_tokens")),
	}

	if status == models.StatusError {
		rec.ErrorMessage = gjson.GetBytes(body, "error").String()
	}

	// Latency stays nil while the run has no end_time yet.
	if end, err := parseTimestamp(gjson.GetBytes(body, "end_time")); err == nil && !end.Before(start) {
		ms := float64(end.Sub(start)) / float64(time.Millisecond)
		rec.LatencyMS = &ms
	}

	return rec, nil
}

// parseStatus maps the wire status onto the success|error enum. A run
// carrying an error message is an error regardless of its status field.
func parseStatus(body []byte) (models.RunStatus, error) {
	if gjson.GetBytes(body, "error").String() != "" {
		return models.StatusError, nil
	}
	raw := gjson.GetBytes(body, "status")
	switch raw.String() {
	case "success", "completed":
		return models.StatusSuccess, nil
	case "error", "failed":
		return models.StatusError, nil
	case "":
		return "", fmt.Errorf("is missing")
	default:
		return "", fmt.Errorf("has unknown value %q", raw.String())
	}
}

func parseTimestamp(v gjson.Result) (time.Time, error) {
	switch v.Type {
	case gjson.String:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02 15:04:05"} {
			if ts, err := time.Parse(layout, v.Str); err == nil {
				return ts, nil
			}
		}
		return time.Time{}, fmt.Errorf("has unparseable timestamp %q", v.Str)
	case gjson.Number:
		// Unix epoch, seconds or milliseconds.
		n := v.Float()
		if n > 1e12 {
			return time.UnixMilli(int64(n)).UTC(), nil
		}
		return time.Unix(int64(n), 0).UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("is missing or not a timestamp")
	}
}

// extractModel walks the places tracing backends put the model name.
func extractModel(body []byte) string {
	for _, path := range []string{
		"extra.metadata.ls_model_name",
		"extra.invocation_params.model",
		"model",
	} {
		if v := gjson.GetBytes(body, path); v.Type == gjson.String && v.Str != "" {
			return v.Str
		}
	}
	return ""
}

func nonNegativeInt(v gjson.Result) int {
	if v.Type != gjson.Number {
		return 0
	}
	n := int(v.Int())
	if n < 0 {
		return 0
	}
	return n
}
