// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"sync"
	"time"

	"github.com/r-ledesma/cambio/internal/models"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"

	// maxNotifications caps how many toasts are kept.
	maxNotifications = 10
)

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// LoadingState tracks loading states for different resources.
type LoadingState struct {
	Initial bool
	Symbols bool
	History bool
	Convert bool
}

// State is the shared application state all tabs read from.
type State struct {
	mu sync.RWMutex

	Symbols        []models.Symbol
	Records        []models.ConversionRecord
	LastConversion *models.ConversionRecord

	Loading LoadingState

	LastUpdated time.Time

	notifications   []Notification
	notificationSeq int
}

// NewState creates an empty application state.
func NewState() *State {
	return &State{
		Symbols:       make([]models.Symbol, 0),
		Records:       make([]models.ConversionRecord, 0),
		notifications: make([]Notification, 0),
		Loading: LoadingState{
			Initial: true,
		},
	}
}

// SetLoading sets the loading state for a specific resource.
func (s *State) SetLoading(resource string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch resource {
	case "initial":
		s.Loading.Initial = loading
	case "symbols":
		s.Loading.Symbols = loading
	case "history":
		s.Loading.History = loading
	case "convert":
		s.Loading.Convert = loading
	}
}

// AnyLoading returns true if any resource is currently loading.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.Loading.Initial ||
		s.Loading.Symbols ||
		s.Loading.History ||
		s.Loading.Convert
}

// SetSymbols updates the supported currencies list.
func (s *State) SetSymbols(symbols []models.Symbol) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Symbols = symbols
	s.LastUpdated = time.Now()
}

// GetSymbols returns a copy of the supported currencies.
func (s *State) GetSymbols() []models.Symbol {
	s.mu.RLock()
	defer s.mu.RUnlock()

	symbols := make([]models.Symbol, len(s.Symbols))
	copy(symbols, s.Symbols)
	return symbols
}

// SymbolCount returns the number of supported currencies.
func (s *State) SymbolCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.Symbols)
}

// SetRecords replaces the conversion history, most recent last.
func (s *State) SetRecords(records []models.ConversionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Records = records
	s.LastUpdated = time.Now()
}

// GetRecords returns a copy of the conversion history.
func (s *State) GetRecords() []models.ConversionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]models.ConversionRecord, len(s.Records))
	copy(records, s.Records)
	return records
}

// SetLastConversion stores the most recent conversion result.
func (s *State) SetLastConversion(record models.ConversionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastConversion = &record
	s.LastUpdated = time.Now()
}

// GetLastConversion returns the most recent conversion result, or nil.
func (s *State) GetLastConversion() *models.ConversionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastConversion
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	id := time.Now().Format("20060102150405") + "-" + string(rune('A'+s.notificationSeq%26))

	notification := Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	}

	s.notifications = append(s.notifications, notification)

	if len(s.notifications) > maxNotifications {
		s.notifications = s.notifications[len(s.notifications)-maxNotifications:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	s.notifications = active
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Clear expired inline when reading
	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}

	return active
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  0,
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// GetLastUpdated returns the last time the state was updated.
func (s *State) GetLastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastUpdated
}

// TimeSinceUpdate returns the duration since the last update.
func (s *State) TimeSinceUpdate() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.LastUpdated.IsZero() {
		return 0
	}
	return time.Since(s.LastUpdated)
}
