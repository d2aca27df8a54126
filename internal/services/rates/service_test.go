package rates

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNew_NoFile(t *testing.T) {
	s, err := New("", 0.01)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	rates := s.GetRates()
	if rates["gpt-4"] != 0.03 {
		t.Errorf("rates[gpt-4] = %v, want 0.03 from built-in table", rates["gpt-4"])
	}
	if s.DefaultRate() != 0.01 {
		t.Errorf("DefaultRate() = %v, want 0.01", s.DefaultRate())
	}
}

func TestNew_MissingFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.json")
	s, err := New(path, 0.01)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	if s.Count() == 0 {
		t.Error("Count() = 0, want built-in table")
	}
}

func TestNew_OverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.json")
	content := `{"gpt-4": 0.05, "my-custom-model": 0.5}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	s, err := New(path, 0.01)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	rates := s.GetRates()
	if rates["gpt-4"] != 0.05 {
		t.Errorf("rates[gpt-4] = %v, want file override 0.05", rates["gpt-4"])
	}
	if rates["my-custom-model"] != 0.5 {
		t.Errorf("rates[my-custom-model] = %v, want 0.5", rates["my-custom-model"])
	}
	if rates["claude-3"] != 0.015 {
		t.Errorf("rates[claude-3] = %v, want built-in 0.015", rates["claude-3"])
	}
}

func TestNew_InvalidFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"NotJSON", "nope"},
		{"NegativeRate", `{"m": -1}`},
		{"ZeroRate", `{"m": 0}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "rates.json")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatalf("WriteFile failed: %v", err)
			}
			if _, err := New(path, 0.01); err == nil {
				t.Error("New() succeeded with invalid rates file")
			}
		})
	}
}

func TestService_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rates.json")
	if err := os.WriteFile(path, []byte(`{"gpt-4": 0.03}`), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	s, err := New(path, 0.01)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	// Drain the load event.
	select {
	case <-s.Events():
	case <-time.After(time.Second):
		t.Fatal("no load event")
	}

	if err := os.WriteFile(path, []byte(`{"gpt-4": 0.99}`), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	deadline := time.After(3 * time.Second)
	for {
		select {
		case event := <-s.Events():
			if event.Type == EventRatesChanged {
				if got := s.GetRates()["gpt-4"]; got != 0.99 {
					t.Errorf("rates[gpt-4] = %v after reload, want 0.99", got)
				}
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for rates change event")
		}
	}
}

func TestService_GetRatesReturnsCopy(t *testing.T) {
	s, err := New("", 0.01)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	rates := s.GetRates()
	rates["gpt-4"] = 999

	if got := s.GetRates()["gpt-4"]; got != 0.03 {
		t.Errorf("rates[gpt-4] = %v after caller mutation, want 0.03", got)
	}
}

func TestService_Estimator(t *testing.T) {
	s, err := New("", 0.02)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	est := s.Estimator()
	if got := est.Cost("unknown-model", 1000, 0); got != 0.02 {
		t.Errorf("Cost(unknown) = %v, want default rate pricing 0.02", got)
	}
}
