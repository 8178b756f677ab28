package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/r-ledesma/cambio/internal/convert"
	"github.com/r-ledesma/cambio/internal/services"
)

const (
	// DefaultTickInterval is the default interval between ticks.
	DefaultTickInterval = 2 * time.Second

	// DefaultNotificationDuration is the default duration for notifications.
	DefaultNotificationDuration = 5 * time.Second

	// QuickNotificationDuration is for brief notifications.
	QuickNotificationDuration = 3 * time.Second

	// LongNotificationDuration is for important notifications.
	LongNotificationDuration = 10 * time.Second
)

// tickCmd returns a command that sends a TickMsg after the specified interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// defaultTickCmd returns a command that sends a TickMsg after the default interval.
func defaultTickCmd() tea.Cmd {
	return tickCmd(DefaultTickInterval)
}

// loadInitialData returns a command that loads all initial data.
func loadInitialData(mgr *services.Manager) tea.Cmd {
	return tea.Batch(
		loadSymbolsCmd(mgr),
		loadHistoryCmd(mgr),
	)
}

// loadSymbolsCmd returns a command that fetches the supported currencies.
func loadSymbolsCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		symbols, err := mgr.Symbols(context.Background())
		return SymbolsLoadedMsg{Symbols: symbols, Err: err}
	}
}

// refreshSymbolsCmd drops the memoized currencies and refetches them.
func refreshSymbolsCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		symbols, err := mgr.RefreshSymbols(context.Background())
		return SymbolsLoadedMsg{Symbols: symbols, Err: err}
	}
}

// loadHistoryCmd returns a command that loads the conversion history.
func loadHistoryCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		return HistoryLoadedMsg{Records: mgr.History()}
	}
}

// convertCmd runs the conversion pipeline for raw form input.
func convertCmd(mgr *services.Manager, from, to, amountInput string) tea.Cmd {
	return func() tea.Msg {
		amount, err := convert.ParseAmount(amountInput)
		if err != nil {
			return ConvertResultMsg{Err: err}
		}
		record, err := mgr.Convert(context.Background(), from, to, amount)
		return ConvertResultMsg{Record: record, Err: err}
	}
}

// subscribeToServicesCmd returns a command that subscribes to service events.
func subscribeToServicesCmd(mgr *services.Manager) tea.Cmd {
	ch, _ := mgr.Subscribe()
	return func() tea.Msg {
		return SubscriptionEventMsg{Channel: ch}
	}
}

// waitForServiceEventCmd returns a command that waits for the next service event.
func waitForServiceEventCmd(ch <-chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

// clearNotificationCmd returns a command that removes a notification after a delay.
func clearNotificationCmd(id string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return RemoveNotificationMsg{ID: id}
	})
}

// notifySuccessCmd returns a command that adds a success notification.
func notifySuccessCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationSuccess,
			Message:  message,
			Duration: DefaultNotificationDuration,
		}
	}
}

// notifyErrorCmd returns a command that adds an error notification.
func notifyErrorCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationError,
			Message:  message,
			Duration: LongNotificationDuration,
		}
	}
}

// notifyWarningCmd returns a command that adds a warning notification.
func notifyWarningCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationWarning,
			Message:  message,
			Duration: DefaultNotificationDuration,
		}
	}
}

// notifyInfoCmd returns a command that adds an info notification.
func notifyInfoCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationInfo,
			Message:  message,
			Duration: QuickNotificationDuration,
		}
	}
}

// Commands provides a public interface to the command functions for tabs.
type Commands struct {
	manager *services.Manager
}

// NewCommands creates a new Commands instance.
func NewCommands(mgr *services.Manager) *Commands {
	return &Commands{manager: mgr}
}

// Convert returns a command that runs the conversion pipeline.
func (c *Commands) Convert(from, to, amountInput string) tea.Cmd {
	return convertCmd(c.manager, from, to, amountInput)
}

// LoadSymbols returns a command that fetches the supported currencies.
func (c *Commands) LoadSymbols() tea.Cmd {
	return loadSymbolsCmd(c.manager)
}

// RefreshSymbols returns a command that refetches the supported currencies.
func (c *Commands) RefreshSymbols() tea.Cmd {
	return refreshSymbolsCmd(c.manager)
}

// LoadHistory returns a command that loads the conversion history.
func (c *Commands) LoadHistory() tea.Cmd {
	return loadHistoryCmd(c.manager)
}

// NotifySuccess returns a command that adds a success notification.
func (c *Commands) NotifySuccess(message string) tea.Cmd {
	return notifySuccessCmd(message)
}

// NotifyError returns a command that adds an error notification.
func (c *Commands) NotifyError(message string) tea.Cmd {
	return notifyErrorCmd(message)
}

// NotifyInfo returns a command that adds an info notification.
func (c *Commands) NotifyInfo(message string) tea.Cmd {
	return notifyInfoCmd(message)
}
