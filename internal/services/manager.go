// Package services provides service orchestration for the converter.
package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"github.com/r-ledesma/cambio/internal/config"
	"github.com/r-ledesma/cambio/internal/convert"
	"github.com/r-ledesma/cambio/internal/exchange"
	"github.com/r-ledesma/cambio/internal/history"
	"github.com/r-ledesma/cambio/internal/models"
)

type (
	// ConversionDoneEvent is emitted after a conversion has been recorded.
	ConversionDoneEvent struct {
		Record models.ConversionRecord
	}

	// HistoryChangedEvent is emitted when the history file changed,
	// including changes made by another process.
	HistoryChangedEvent struct {
		Records []models.ConversionRecord
	}

	// RateMovedEvent is emitted when a pair's rate moved noticeably since
	// the last recorded conversion of that pair.
	RateMovedEvent struct {
		From    string
		To      string
		OldRate float64
		NewRate float64
		Percent float64
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

func (ConversionDoneEvent) isServiceEvent() {}
func (HistoryChangedEvent) isServiceEvent() {}
func (RateMovedEvent) isServiceEvent()      {}
func (ErrorEvent) isServiceEvent()          {}

// rateMoveThresholdPercent is how far a pair's rate must move since the last
// recorded conversion before a desktop notification fires.
const rateMoveThresholdPercent = 2.0

// Manager orchestrates the exchange and history services and routes their
// events to subscribers.
type Manager struct {
	mu          sync.RWMutex
	exchange    *exchange.Service
	store       *history.Store
	eventChan   chan ServiceEvent
	stopChan    chan struct{}
	subscribers []chan<- ServiceEvent
	notify      bool
}

// NewManager creates a new service manager.
func NewManager(cfg *config.Config) (*Manager, error) {
	m := &Manager{
		eventChan: make(chan ServiceEvent, 100),
		stopChan:  make(chan struct{}),
		notify:    true,
	}

	client := exchange.NewClient(cfg.APIBaseURL, cfg.APIKey, &http.Client{Timeout: cfg.HTTPTimeout})
	m.exchange = exchange.NewService(client)

	var err error
	m.store, err = history.New(cfg.HistoryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize history: %w", err)
	}

	go m.routeEvents()

	return m, nil
}

// routeEvents routes events from individual services to subscribers.
func (m *Manager) routeEvents() {
	for {
		select {
		case event := <-m.store.Events():
			m.handleHistoryEvent(event)

		case <-m.stopChan:
			return
		}
	}
}

// handleHistoryEvent converts and broadcasts history events.
func (m *Manager) handleHistoryEvent(event history.Event) {
	switch event.Type {
	case history.EventHistoryLoaded, history.EventHistoryChanged, history.EventRecordAppended:
		m.broadcast(HistoryChangedEvent{Records: m.store.Records()})

	case history.EventError:
		m.broadcast(ErrorEvent{
			Service: "history",
			Error:   event.Error,
		})
	}
}

// Convert runs the full conversion pipeline: fetch a fresh rate table keyed
// to the source currency, compute the result, record it in history and
// broadcast the outcome. The rate table is discarded afterwards.
func (m *Manager) Convert(ctx context.Context, from, to string, amount float64) (models.ConversionRecord, error) {
	from = convert.NormalizeCode(from)
	to = convert.NormalizeCode(to)

	table, err := m.exchange.Rates(ctx, from)
	if err != nil {
		m.broadcast(ErrorEvent{Service: "exchange", Error: err})
		return models.ConversionRecord{}, err
	}

	result, rate, err := convert.Convert(amount, from, to, table)
	if err != nil {
		return models.ConversionRecord{}, err
	}

	record := models.ConversionRecord{
		Timestamp: time.Now(),
		From:      from,
		To:        to,
		Amount:    amount,
		Result:    result,
		Rate:      rate,
	}

	m.checkRateMovement(record)

	if err := m.store.Append(record); err != nil {
		m.broadcast(ErrorEvent{Service: "history", Error: err})
		return record, err
	}

	m.broadcast(ConversionDoneEvent{Record: record})
	return record, nil
}

// checkRateMovement compares the new rate against the last recorded
// conversion of the same pair and raises a desktop notification when it
// crossed the movement threshold.
func (m *Manager) checkRateMovement(record models.ConversionRecord) {
	prev := m.store.Last(record.From, record.To)
	if prev == nil || prev.Rate <= 0 {
		return
	}

	percent := (record.Rate - prev.Rate) / prev.Rate * 100
	if math.Abs(percent) < rateMoveThresholdPercent {
		return
	}

	m.broadcast(RateMovedEvent{
		From:    record.From,
		To:      record.To,
		OldRate: prev.Rate,
		NewRate: record.Rate,
		Percent: percent,
	})

	if m.notify {
		title := fmt.Sprintf("Rate moved: %s/%s", record.From, record.To)
		body := fmt.Sprintf("%.6f -> %.6f (%+.1f%%) since your last conversion",
			prev.Rate, record.Rate, percent)
		_ = beeep.Notify(title, body, "")
	}
}

// Symbols returns the currencies the provider supports.
func (m *Manager) Symbols(ctx context.Context) ([]models.Symbol, error) {
	symbols, err := m.exchange.Symbols(ctx)
	if err != nil {
		m.broadcast(ErrorEvent{Service: "exchange", Error: err})
		return nil, err
	}
	return symbols, nil
}

// RefreshSymbols drops the memoized symbols and refetches them.
func (m *Manager) RefreshSymbols(ctx context.Context) ([]models.Symbol, error) {
	m.exchange.InvalidateSymbols()
	return m.Symbols(ctx)
}

// History returns the stored conversions, most recent last.
func (m *Manager) History() []models.ConversionRecord {
	return m.store.Records()
}

// HistoryPath returns the location of the history file.
func (m *Manager) HistoryPath() string {
	return m.store.Path()
}

// SetDesktopNotifications toggles beeep notifications.
func (m *Manager) SetDesktopNotifications(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notify = enabled
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	// Send to main event channel
	select {
	case m.eventChan <- event:
	default:
	}

	// Send to subscribers
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

	if m.store != nil {
		return m.store.Close()
	}
	return nil
}

// UserMessage maps an error from the conversion pipeline to the single-line
// message shown to the user. Fetch failures collapse into one condition.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, exchange.ErrNetwork), errors.Is(err, exchange.ErrAPI):
		return "unable to retrieve rates"
	case errors.Is(err, convert.ErrInvalidAmount):
		return "invalid amount: please enter a positive number"
	case errors.Is(err, convert.ErrUnsupportedCurrency):
		return err.Error()
	default:
		return err.Error()
	}
}
