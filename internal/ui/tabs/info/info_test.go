package info

import (
	"strings"
	"testing"
	"time"

	"github.com/tracelens/tracelens/internal/app"
	"github.com/tracelens/tracelens/internal/config"
	"github.com/tracelens/tracelens/internal/models"
	"github.com/tracelens/tracelens/internal/services/runs"
)

func testConfig() *config.Config {
	return &config.Config{
		Endpoint:           "https://api.smith.langchain.com",
		Project:            "default",
		RefreshInterval:    2 * time.Minute,
		FetchTimeout:       30 * time.Second,
		BucketWidth:        time.Hour,
		FreqThreshold:      100,
		TokenThreshold:     5000,
		ErrorRateThreshold: 0.25,
	}
}

func TestNew(t *testing.T) {
	m := New(app.NewState(), testConfig())
	if m == nil {
		t.Fatal("New returned nil")
	}
}

func TestModel_Init(t *testing.T) {
	m := New(app.NewState(), testConfig())
	if m.Init() != nil {
		t.Error("Init should return nil")
	}
}

func TestModel_Update(t *testing.T) {
	m := New(app.NewState(), testConfig())

	updated, _ := m.Update(nil)
	if updated == nil {
		t.Error("Update returned nil model")
	}
}

func TestModel_View(t *testing.T) {
	state := app.NewState()
	m := New(state, testConfigWithRates())
	m.SetSize(80, 24)

	view := m.View()
	for _, want := range []string{
		"Configuration",
		"api.smith.langchain.com",
		"25%",
		"Session",
		"No snapshot yet",
		"About TraceLens",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func testConfigWithRates() *config.Config {
	cfg := testConfig()
	cfg.ModelRatesPath = "/tmp/rates.json"
	return cfg
}

func TestModel_View_WithSnapshot(t *testing.T) {
	state := app.NewState()
	state.SetSnapshot(&runs.Snapshot{
		FetchedAt: time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC),
		Summary:   models.Summary{TotalRuns: 77},
		Skipped:   2,
	})
	state.SetRateCount(9)

	m := New(state, testConfig())
	m.SetSize(80, 24)

	view := m.View()
	for _, want := range []string{"77", "09:30:00", "2 malformed", "9"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModel_View_NilConfig(t *testing.T) {
	m := New(app.NewState(), nil)
	m.SetSize(80, 24)

	if !strings.Contains(m.View(), "Configuration not loaded") {
		t.Error("nil config placeholder missing")
	}
}

func TestModel_SetSize(t *testing.T) {
	m := New(app.NewState(), testConfig())
	m.SetSize(100, 50)
	if m.viewport.Width != 100 || m.viewport.Height != 50 {
		t.Errorf("viewport size = %dx%d, want 100x50", m.viewport.Width, m.viewport.Height)
	}
}

func TestModel_Help(t *testing.T) {
	m := New(app.NewState(), testConfig())
	if len(m.ShortHelp()) == 0 {
		t.Error("ShortHelp empty")
	}
	if len(m.FullHelp()) == 0 {
		t.Error("FullHelp empty")
	}
}
