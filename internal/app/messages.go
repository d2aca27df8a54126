package app

import (
	"time"

	"github.com/tracelens/tracelens/internal/models"
	"github.com/tracelens/tracelens/internal/services"
	"github.com/tracelens/tracelens/internal/services/runs"
)

// TickMsg is sent periodically to trigger state refresh.
type TickMsg struct {
	Time time.Time
}

// SnapshotLoadedMsg carries the latest analytics snapshot into the UI.
type SnapshotLoadedMsg struct {
	Snapshot *runs.Snapshot
}

// RefreshMsg requests a refresh of run data from the API.
type RefreshMsg struct{}

// SetTimeRangeMsg requests switching the dashboard lookback window.
type SetTimeRangeMsg struct {
	Range models.TimeRange
}

// ToggleDensityMsg toggles between sparse and dense bucket rendering.
type ToggleDensityMsg struct{}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}
