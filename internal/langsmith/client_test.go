package langsmith

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClient_ListRuns_SinglePage(t *testing.T) {
	var gotKey, gotPath string
	var gotReq queryRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		fmt.Fprint(w, `{"runs": [{"id": "run-1"}, {"id": "run-2"}], "cursors": {"next": ""}}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "my-project", 5*time.Second)
	start := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	runs, err := c.ListRuns(context.Background(), start, start.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("len(runs) = %d, want 2", len(runs))
	}
	if gotKey != "test-key" {
		t.Errorf("x-api-key = %q, want test-key", gotKey)
	}
	if gotPath != "/runs/query" {
		t.Errorf("path = %q, want /runs/query", gotPath)
	}
	if gotReq.SessionName != "my-project" || !gotReq.IsRoot {
		t.Errorf("request = %+v, want project filter and is_root", gotReq)
	}
}

func TestClient_ListRuns_FollowsCursor(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		var req queryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if calls == 1 {
			if req.Cursor != "" {
				t.Errorf("first page cursor = %q, want empty", req.Cursor)
			}
			fmt.Fprint(w, `{"runs": [{"id": "a"}], "cursors": {"next": "page2"}}`)
			return
		}
		if req.Cursor != "page2" {
			t.Errorf("second page cursor = %q, want page2", req.Cursor)
		}
		fmt.Fprint(w, `{"runs": [{"id": "b"}], "cursors": {"next": ""}}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", "p", 5*time.Second)
	runs, err := c.ListRuns(context.Background(), time.Now().Add(-time.Hour), time.Now())
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	if len(runs) != 2 {
		t.Errorf("len(runs) = %d, want 2", len(runs))
	}
}

func TestClient_ListRuns_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "bad-key", "p", 5*time.Second)
	_, err := c.ListRuns(context.Background(), time.Now().Add(-time.Hour), time.Now())
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error = %T, want *FetchError", err)
	}
}

func TestClient_ListRuns_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL, "k", "p", time.Second)
	_, err := c.ListRuns(context.Background(), time.Now().Add(-time.Hour), time.Now())
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error = %T, want *FetchError", err)
	}
}

func TestClient_ListRuns_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json at all`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", "p", 5*time.Second)
	_, err := c.ListRuns(context.Background(), time.Now().Add(-time.Hour), time.Now())
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error = %T, want *FetchError", err)
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("", "k", "p", 0)
	if c.endpoint != DefaultEndpoint {
		t.Errorf("endpoint = %q, want %q", c.endpoint, DefaultEndpoint)
	}
	if c.http.Timeout != 30*time.Second {
		t.Errorf("timeout = %v, want 30s", c.http.Timeout)
	}
}
