// Package runs provides trace fetching and the analytics refresh loop.
package runs

import (
	"context"
	"time"

	"github.com/tracelens/tracelens/internal/analytics"
	"github.com/tracelens/tracelens/internal/logger"
	"github.com/tracelens/tracelens/internal/models"
)

// Fetcher retrieves raw run records for a time window.
type Fetcher interface {
	ListRuns(ctx context.Context, start, end time.Time) ([][]byte, error)
}

// RateProvider supplies the current pricing table.
type RateProvider interface {
	Estimator() *analytics.Estimator
}

// Snapshot is one immutable result of the full pipeline. A refresh
// always builds a new Snapshot from scratch; nothing accumulates
// across refreshes.
type Snapshot struct {
	FetchedAt time.Time
	Range     models.TimeRange
	Start     time.Time
	End       time.Time
	Dense     bool
	Summary   models.Summary
	Buckets   []models.Bucket
	Hourly    []models.HourlyPattern
	Weekdays  []models.WeekdayPattern
	Errors    models.ErrorReport
	Skipped   int
	FetchErr  error
}

// HasData reports whether the snapshot carries any runs.
func (s *Snapshot) HasData() bool {
	return s != nil && s.Summary.TotalRuns > 0
}

// Event represents a runs service event.
type Event struct {
	Type     EventType
	Snapshot *Snapshot
	Error    error
}

// EventType defines the type of runs event.
type EventType int

const (
	// EventRefreshing indicates a refresh has started.
	EventRefreshing EventType = iota
	// EventSnapshotUpdated indicates a new snapshot is available.
	EventSnapshotUpdated
	// EventFetchError indicates the fetch failed; the snapshot still
	// updates, carrying the error and no data.
	EventFetchError
)

// Config holds configuration for the runs service.
type Config struct {
	PollInterval time.Duration
	FetchTimeout time.Duration
	BucketWidth  time.Duration
	Thresholds   analytics.Thresholds
	MaxSamples   int
	InitialRange models.TimeRange
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		PollInterval: 5 * time.Minute,
		FetchTimeout: 30 * time.Second,
		BucketWidth:  time.Hour,
		Thresholds:   analytics.DefaultThresholds(),
		MaxSamples:   analytics.DefaultMaxSamples,
		InitialRange: models.TimeRange7Days,
	}
}

// allTimeLookbackDays bounds the "All Time" range so a fetch stays
// finite.
const allTimeLookbackDays = 365

// Service runs the fetch → normalize → enrich → aggregate → detect →
// analyze pipeline on a timer and on demand.
type Service struct {
	fetcher    Fetcher
	rates      RateProvider
	config     Config
	eventChan chan Event
	stopChan  chan struct{}
	// refreshReq holds at most one pending request; refreshes are
	// serialized on the poll loop, so requests arriving while one is
	// in flight coalesce into a single follow-up.
	refreshReq chan struct{}
	stateChan  chan stateUpdate
}

type stateUpdate struct {
	timeRange *models.TimeRange
	dense     *bool
}

// New creates a runs service and starts its polling loop.
func New(fetcher Fetcher, rates RateProvider, config Config) *Service {
	if config.PollInterval <= 0 {
		config = DefaultConfig()
	}

	s := &Service{
		fetcher:    fetcher,
		rates:      rates,
		config:     config,
		eventChan:  make(chan Event, 100),
		stopChan:   make(chan struct{}),
		refreshReq: make(chan struct{}, 1),
		stateChan:  make(chan stateUpdate, 8),
	}

	go s.pollLoop()

	return s
}

// Events returns the event channel.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// Refresh requests a refresh. If one is already running or queued the
// request coalesces into it.
func (s *Service) Refresh() {
	select {
	case s.refreshReq <- struct{}{}:
	default:
	}
}

// SetTimeRange switches the lookback window and triggers a refresh.
func (s *Service) SetTimeRange(tr models.TimeRange) {
	select {
	case s.stateChan <- stateUpdate{timeRange: &tr}:
	default:
	}
	s.Refresh()
}

// SetDense toggles dense bucket output and triggers a refresh.
func (s *Service) SetDense(dense bool) {
	select {
	case s.stateChan <- stateUpdate{dense: &dense}:
	default:
	}
	s.Refresh()
}

// pollLoop owns the range/dense state and serializes refreshes.
func (s *Service) pollLoop() {
	timeRange := s.config.InitialRange
	dense := false

	// Initial refresh
	s.runRefresh(timeRange, dense)

	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runRefresh(timeRange, dense)
		case <-s.refreshReq:
			// Apply any pending state changes before refreshing.
			for applied := true; applied; {
				select {
				case upd := <-s.stateChan:
					if upd.timeRange != nil {
						timeRange = *upd.timeRange
					}
					if upd.dense != nil {
						dense = *upd.dense
					}
				default:
					applied = false
				}
			}
			s.runRefresh(timeRange, dense)
		case <-s.stopChan:
			return
		}
	}
}

// runRefresh executes one pipeline pass.
func (s *Service) runRefresh(timeRange models.TimeRange, dense bool) {
	s.sendEvent(Event{Type: EventRefreshing})

	snapshot := s.buildSnapshot(timeRange, dense)
	if snapshot.FetchErr != nil {
		logger.Warn("fetch failed, publishing empty snapshot", "error", snapshot.FetchErr)
		s.sendEvent(Event{Type: EventFetchError, Snapshot: snapshot, Error: snapshot.FetchErr})
		return
	}

	s.sendEvent(Event{Type: EventSnapshotUpdated, Snapshot: snapshot})
}

// buildSnapshot runs the full pipeline for one window.
func (s *Service) buildSnapshot(timeRange models.TimeRange, dense bool) *Snapshot {
	end := time.Now().UTC()
	days := timeRange.Days()
	if days == 0 {
		days = allTimeLookbackDays
	}
	start := end.AddDate(0, 0, -days)

	snapshot := &Snapshot{
		FetchedAt: end,
		Range:     timeRange,
		Start:     start,
		End:       end,
		Dense:     dense,
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.config.FetchTimeout)
	defer cancel()

	raw, err := s.fetcher.ListRuns(ctx, start, end)
	if err != nil {
		snapshot.FetchErr = err
		return snapshot
	}

	records, skipped := analytics.Normalize(raw)
	if skipped > 0 {
		logger.Info("skipped malformed records", "count", skipped)
	}
	snapshot.Skipped = skipped

	s.rates.Estimator().Enrich(records)

	snapshot.Buckets = analytics.Aggregate(records, start, end, s.config.BucketWidth, dense)
	analytics.Detect(snapshot.Buckets, s.config.Thresholds)

	snapshot.Summary = analytics.Summarize(records)
	snapshot.Hourly = analytics.HourlyPatterns(records)
	snapshot.Weekdays = analytics.WeekdayPatterns(records)
	snapshot.Errors = analytics.AnalyzeErrors(records, s.config.MaxSamples)

	return snapshot
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest
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

// Close stops the service.
func (s *Service) Close() error {
	close(s.stopChan)
	return nil
}
