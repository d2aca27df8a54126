// Package langsmith implements a minimal client for a LangSmith-style
// tracing API: querying root runs for a project over a time window,
// following pagination cursors.
package langsmith

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tracelens/tracelens/internal/logger"
)

// DefaultEndpoint is the hosted tracing API base URL.
const DefaultEndpoint = "https://api.smith.langchain.com"

const (
	pageLimit = 100
	// maxPages bounds a single fetch so a runaway cursor cannot hang a
	// refresh forever.
	maxPages = 200
)

// FetchError wraps any failure to retrieve runs from the API. It is
// non-fatal to the dashboard: callers surface it as a no-data state.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Client queries a tracing API for run records.
type Client struct {
	endpoint string
	apiKey   string
	project  string
	http     *http.Client
}

// NewClient builds a client for the given endpoint and project. An
// empty endpoint falls back to DefaultEndpoint.
func NewClient(endpoint, apiKey, project string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		project:  project,
		http:     &http.Client{Timeout: timeout},
	}
}

type queryRequest struct {
	SessionName string `json:"session_name,omitempty"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	IsRoot      bool   `json:"is_root"`
	Limit       int    `json:"limit"`
	Cursor      string `json:"cursor,omitempty"`
}

type queryResponse struct {
	Runs    []json.RawMessage `json:"runs"`
	Cursors struct {
		Next string `json:"next"`
	} `json:"cursors"`
}

// ListRuns fetches all root runs whose start time falls in [start, end),
// following pagination until the API reports no further cursor. The
// returned bodies are raw JSON; normalization happens downstream.
func (c *Client) ListRuns(ctx context.Context, start, end time.Time) ([][]byte, error) {
	var runs [][]byte
	cursor := ""

	for page := 0; page < maxPages; page++ {
		resp, err := c.queryPage(ctx, start, end, cursor)
		if err != nil {
			return nil, err
		}
		for _, r := range resp.Runs {
			runs = append(runs, []byte(r))
		}
		if resp.Cursors.Next == "" {
			return runs, nil
		}
		cursor = resp.Cursors.Next
	}

	logger.Warn("run query hit page cap, result truncated", "pages", maxPages)
	return runs, nil
}

func (c *Client) queryPage(ctx context.Context, start, end time.Time, cursor string) (*queryResponse, error) {
	payload, err := json.Marshal(queryRequest{
		SessionName: c.project,
		StartTime:   start.UTC().Format(time.RFC3339),
		EndTime:     end.UTC().Format(time.RFC3339),
		IsRoot:      true,
		Limit:       pageLimit,
		Cursor:      cursor,
	})
	if err != nil {
		return nil, &FetchError{Op: "runs", Err: fmt.Errorf("failed to encode query: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.endpoint+"/runs/query", bytes.NewReader(payload))
	if err != nil {
		return nil, &FetchError{Op: "runs", Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{Op: "runs", Err: fmt.Errorf("request failed: %w", err)}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Op: "runs", Err: fmt.Errorf("failed to read response: %w", err)}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &FetchError{Op: "runs", Err: fmt.Errorf("unauthorized (status %d): check API key", resp.StatusCode)}
	case resp.StatusCode != http.StatusOK:
		return nil, &FetchError{Op: "runs", Err: fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))}
	}

	var parsed queryResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &FetchError{Op: "runs", Err: fmt.Errorf("failed to parse response: %w", err)}
	}
	return &parsed, nil
}
