package app

import (
	"time"

	"github.com/r-ledesma/cambio/internal/models"
	"github.com/r-ledesma/cambio/internal/services"
)

// TickMsg is sent periodically to trigger state refresh.
type TickMsg struct {
	Time time.Time
}

// StartLoadingMsg signals that a resource is starting to load.
type StartLoadingMsg struct {
	Resource string
}

// StopLoadingMsg signals that a resource has finished loading.
type StopLoadingMsg struct {
	Resource string
}

// SymbolsLoadedMsg contains the supported currencies, or the fetch error.
type SymbolsLoadedMsg struct {
	Symbols []models.Symbol
	Err     error
}

// HistoryLoadedMsg contains the conversion history, most recent last.
type HistoryLoadedMsg struct {
	Records []models.ConversionRecord
}

// ConvertResultMsg contains the outcome of a conversion request.
type ConvertResultMsg struct {
	Record models.ConversionRecord
	Err    error
}

// RefreshMsg requests a refresh of data.
type RefreshMsg struct {
	Resource string // "all", "symbols", "history"
}

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
