// Package services provides service orchestration for the TUI.
package services

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tracelens/tracelens/internal/analytics"
	"github.com/tracelens/tracelens/internal/config"
	"github.com/tracelens/tracelens/internal/langsmith"
	"github.com/tracelens/tracelens/internal/models"
	"github.com/tracelens/tracelens/internal/services/rates"
	"github.com/tracelens/tracelens/internal/services/runs"
)

type (
	// SnapshotUpdatedEvent is emitted when a refresh completes with data.
	SnapshotUpdatedEvent struct {
		Snapshot *runs.Snapshot
	}

	// RefreshStartedEvent is emitted when a refresh begins.
	RefreshStartedEvent struct{}

	// FetchFailedEvent is emitted when a refresh could not reach the
	// API. It carries the empty snapshot so views can show the no-data
	// state.
	FetchFailedEvent struct {
		Snapshot *runs.Snapshot
		Error    error
	}

	// RatesChangedEvent is emitted when the model pricing table reloads.
	RatesChangedEvent struct {
		ModelCount int
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (SnapshotUpdatedEvent) isServiceEvent() {}
func (RefreshStartedEvent) isServiceEvent()  {}
func (FetchFailedEvent) isServiceEvent()     {}
func (RatesChangedEvent) isServiceEvent()    {}
func (ErrorEvent) isServiceEvent()           {}

// Manager orchestrates services and event routing.
type Manager struct {
	mu          sync.RWMutex
	runs        *runs.Service
	rates       *rates.Service
	stopChan    chan struct{}
	subscribers []chan<- ServiceEvent

	latest *runs.Snapshot
}

// NewManager creates a new service manager.
func NewManager(cfg *config.Config) (*Manager, error) {
	m := &Manager{
		stopChan: make(chan struct{}),
	}

	var err error
	m.rates, err = rates.New(cfg.ModelRatesPath, cfg.DefaultCostRate)
	if err != nil {
		return nil, err
	}

	client := langsmith.NewClient(cfg.Endpoint, cfg.APIKey, cfg.Project, cfg.FetchTimeout)

	runsConfig := runs.Config{
		PollInterval: cfg.RefreshInterval,
		FetchTimeout: cfg.FetchTimeout,
		BucketWidth:  cfg.BucketWidth,
		Thresholds:   thresholdsFromConfig(cfg),
		MaxSamples:   runs.DefaultConfig().MaxSamples,
		InitialRange: rangeFromDays(cfg.RangeDays),
	}
	m.runs = runs.New(client, m.rates, runsConfig)

	go m.routeEvents()

	return m, nil
}

// newManagerFromServices wires a manager around injected services.
func newManagerFromServices(runsSvc *runs.Service, ratesSvc *rates.Service) *Manager {
	m := &Manager{
		stopChan: make(chan struct{}),
		runs:     runsSvc,
		rates:    ratesSvc,
	}
	go m.routeEvents()
	return m
}

func thresholdsFromConfig(cfg *config.Config) analytics.Thresholds {
	return analytics.Thresholds{
		FreqThreshold:      cfg.FreqThreshold,
		TokenThreshold:     cfg.TokenThreshold,
		ErrorRateThreshold: cfg.ErrorRateThreshold,
	}
}

func rangeFromDays(days int) models.TimeRange {
	switch {
	case days <= 1:
		return models.TimeRange24Hours
	case days <= 7:
		return models.TimeRange7Days
	case days <= 30:
		return models.TimeRange30Days
	default:
		return models.TimeRangeAllTime
	}
}

// routeEvents routes events from individual services to subscribers.
func (m *Manager) routeEvents() {
	for {
		select {
		case event := <-m.runs.Events():
			m.handleRunsEvent(event)

		case event := <-m.rates.Events():
			m.handleRatesEvent(event)

		case <-m.stopChan:
			return
		}
	}
}

func (m *Manager) handleRunsEvent(event runs.Event) {
	switch event.Type {
	case runs.EventRefreshing:
		m.broadcast(RefreshStartedEvent{})

	case runs.EventSnapshotUpdated:
		m.setLatest(event.Snapshot)
		m.broadcast(SnapshotUpdatedEvent{Snapshot: event.Snapshot})

	case runs.EventFetchError:
		m.setLatest(event.Snapshot)
		m.broadcast(FetchFailedEvent{Snapshot: event.Snapshot, Error: event.Error})
	}
}

func (m *Manager) handleRatesEvent(event rates.Event) {
	switch event.Type {
	case rates.EventRatesChanged:
		m.broadcast(RatesChangedEvent{ModelCount: event.Count})
		// Reprice on the next snapshot.
		m.runs.Refresh()

	case rates.EventError:
		m.broadcast(ErrorEvent{Service: "rates", Error: event.Error})
	}
}

func (m *Manager) setLatest(snapshot *runs.Snapshot) {
	m.mu.Lock()
	m.latest = snapshot
	m.mu.Unlock()
}

// LatestSnapshot returns the most recent snapshot, nil before the
// first refresh completes.
func (m *Manager) LatestSnapshot() *runs.Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.latest
}

// Refresh forces a refresh of the run data.
func (m *Manager) Refresh() {
	m.runs.Refresh()
}

// SetTimeRange switches the lookback window.
func (m *Manager) SetTimeRange(tr models.TimeRange) {
	m.runs.SetTimeRange(tr)
}

// SetDense toggles dense bucket output.
func (m *Manager) SetDense(dense bool) {
	m.runs.SetDense(dense)
}

// Rates returns the rates service.
func (m *Manager) Rates() *rates.Service {
	return m.rates
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, waitForEvent(ch)
}

// waitForEvent returns a tea.Cmd that waits for the next event.
func waitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return waitForEvent(ch)
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	close(m.stopChan)

	m.mu.Lock()
	for _, sub := range m.subscribers {
		close(sub)
	}
	m.subscribers = nil
	m.mu.Unlock()

	var errs []error

	if err := m.runs.Close(); err != nil {
		errs = append(errs, err)
	}

	if err := m.rates.Close(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
