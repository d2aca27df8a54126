// Package rates provides the model pricing table with live file watching.
package rates

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tracelens/tracelens/internal/analytics"
	"github.com/tracelens/tracelens/internal/logger"
)

// Event represents a rates service event.
type Event struct {
	Type  EventType
	Error error
	Count int
}

// EventType defines the type of rates event.
type EventType int

const (
	EventRatesLoaded EventType = iota
	EventRatesChanged
	EventError
)

// Service owns the model → rate-per-1000-tokens table. With no file
// configured it serves the built-in table; with one it overlays the
// file's entries and reloads on change. The file is never written.
type Service struct {
	mu            sync.RWMutex
	rates         map[string]float64
	defaultRate   float64
	filePath      string
	watcher       *fsnotify.Watcher
	eventChan     chan Event
	stopChan      chan struct{}
	debounceTimer *time.Timer
}

// New creates a rates service. filePath may be empty, in which case
// only the built-in table is used and nothing is watched.
func New(filePath string, defaultRate float64) (*Service, error) {
	s := &Service{
		rates:       analytics.DefaultRates(),
		defaultRate: defaultRate,
		filePath:    filePath,
		eventChan:   make(chan Event, 100),
		stopChan:    make(chan struct{}),
	}

	if filePath == "" {
		s.sendEvent(Event{Type: EventRatesLoaded, Count: len(s.rates)})
		return s, nil
	}

	if err := s.loadRates(); err != nil {
		// A missing file is fine until it shows up; anything else is a
		// configuration problem worth failing on.
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load model rates: %w", err)
		}
		logger.Warn("model rates file not found, using built-in table", "path", filePath)
	}

	if err := s.startWatcher(); err != nil {
		return nil, fmt.Errorf("failed to start rates watcher: %w", err)
	}

	s.sendEvent(Event{Type: EventRatesLoaded, Count: s.Count()})
	return s, nil
}

// Events returns the event channel.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// GetRates returns a copy of the current rate table.
func (s *Service) GetRates() map[string]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rates := make(map[string]float64, len(s.rates))
	for model, rate := range s.rates {
		rates[model] = rate
	}
	return rates
}

// DefaultRate returns the fallback rate for unknown models.
func (s *Service) DefaultRate() float64 {
	return s.defaultRate
}

// Estimator builds a cost estimator over the current table.
func (s *Service) Estimator() *analytics.Estimator {
	return analytics.NewEstimator(s.GetRates(), s.defaultRate)
}

// Count returns the number of known models.
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rates)
}

// loadRates reads the overrides file and overlays it on the built-in
// table.
func (s *Service) loadRates() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	var overrides map[string]float64
	if err := json.Unmarshal(data, &overrides); err != nil {
		return fmt.Errorf("failed to parse rates file: %w", err)
	}
	for model, rate := range overrides {
		if rate <= 0 {
			return fmt.Errorf("rate for model %q must be positive, got %v", model, rate)
		}
	}

	rates := analytics.DefaultRates()
	for model, rate := range overrides {
		rates[model] = rate
	}

	s.mu.Lock()
	s.rates = rates
	s.mu.Unlock()
	return nil
}

// startWatcher starts the file system watcher.
func (s *Service) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	s.watcher = watcher

	// Watch the directory (to catch file creation/deletion)
	dir := filepath.Dir(s.filePath)
	if err := watcher.Add(dir); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return err
	}

	go s.watchLoop()
	return nil
}

// watchLoop handles file system events with debouncing.
func (s *Service) watchLoop() {
	const debounceInterval = 100 * time.Millisecond

	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}

			// Only care about our rates file
			if filepath.Base(event.Name) != filepath.Base(s.filePath) {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				// Debounce rapid changes
				if s.debounceTimer != nil {
					s.debounceTimer.Stop()
				}
				s.debounceTimer = time.AfterFunc(debounceInterval, func() {
					s.handleFileChange()
				})
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.sendEvent(Event{Type: EventError, Error: err})

		case <-s.stopChan:
			return
		}
	}
}

// handleFileChange reloads the rate table after an external change.
func (s *Service) handleFileChange() {
	if err := s.loadRates(); err != nil {
		s.sendEvent(Event{Type: EventError, Error: err})
		return
	}
	logger.Info("model rates reloaded", "path", s.filePath, "models", s.Count())
	s.sendEvent(Event{Type: EventRatesChanged, Count: s.Count()})
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest event
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}

// Close stops the file watcher and cleans up resources.
func (s *Service) Close() error {
	close(s.stopChan)

	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}

	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}
