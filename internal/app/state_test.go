package app

import (
	"testing"
	"time"

	"github.com/r-ledesma/cambio/internal/models"
)

func TestSetLoadingAndAnyLoading(t *testing.T) {
	s := NewState()

	if s.AnyLoading() {
		t.Error("fresh state reports loading")
	}

	for _, resource := range []string{"initial", "symbols", "history", "convert"} {
		s.SetLoading(resource, true)
		if !s.AnyLoading() {
			t.Errorf("AnyLoading() = false after SetLoading(%q, true)", resource)
		}
		s.SetLoading(resource, false)
		if s.AnyLoading() {
			t.Errorf("AnyLoading() = true after SetLoading(%q, false)", resource)
		}
	}

	// Unknown resources are ignored.
	s.SetLoading("bogus", true)
	if s.AnyLoading() {
		t.Error("unknown resource flipped the loading state")
	}
}

func TestSymbols(t *testing.T) {
	s := NewState()

	if s.SymbolCount() != 0 {
		t.Errorf("SymbolCount = %d, want 0", s.SymbolCount())
	}

	s.SetSymbols([]models.Symbol{
		{Code: "EUR", Description: "Euro"},
		{Code: "USD", Description: "United States Dollar"},
	})

	if s.SymbolCount() != 2 {
		t.Errorf("SymbolCount = %d, want 2", s.SymbolCount())
	}

	got := s.GetSymbols()
	if len(got) != 2 || got[0].Code != "EUR" {
		t.Errorf("GetSymbols = %+v", got)
	}

	// The returned slice is a copy.
	got[0].Code = "XXX"
	if s.GetSymbols()[0].Code != "EUR" {
		t.Error("mutation of the returned slice leaked into state")
	}
}

func TestLastConversion(t *testing.T) {
	s := NewState()

	if s.GetLastConversion() != nil {
		t.Error("fresh state has a last conversion")
	}

	record := models.ConversionRecord{From: "USD", To: "EUR", Amount: 10, Result: 9, Rate: 0.9}
	s.SetLastConversion(record)

	got := s.GetLastConversion()
	if got == nil || got.Result != 9 {
		t.Errorf("GetLastConversion = %+v", got)
	}
}

func TestNotificationLifecycle(t *testing.T) {
	s := NewState()

	id := s.AddNotification(NotificationSuccess, "done", 5*time.Second)
	if id == "" {
		t.Fatal("AddNotification returned an empty ID")
	}

	notifications := s.GetNotifications()
	if len(notifications) != 1 {
		t.Fatalf("got %d notifications, want 1", len(notifications))
	}
	if notifications[0].Message != "done" || notifications[0].Type != NotificationSuccess {
		t.Errorf("notification = %+v", notifications[0])
	}

	s.RemoveNotification(id)
	if len(s.GetNotifications()) != 0 {
		t.Error("notification survived RemoveNotification")
	}
}

func TestClearExpiredNotifications(t *testing.T) {
	s := NewState()

	s.AddNotification(NotificationInfo, "short lived", time.Nanosecond)
	s.AddNotification(NotificationInfo, "persistent", 0)

	time.Sleep(10 * time.Millisecond)
	s.ClearExpiredNotifications()

	notifications := s.GetNotifications()
	if len(notifications) != 1 {
		t.Fatalf("got %d notifications after expiry, want 1", len(notifications))
	}
	if notifications[0].Message != "persistent" {
		t.Errorf("surviving notification = %q, want the zero-duration one", notifications[0].Message)
	}
}

func TestNotificationCap(t *testing.T) {
	s := NewState()

	for i := 0; i < maxNotifications+5; i++ {
		s.AddNotification(NotificationInfo, "n", 0)
	}

	if got := len(s.GetNotifications()); got > maxNotifications {
		t.Errorf("%d notifications kept, cap is %d", got, maxNotifications)
	}
}

func TestLoadingNotification(t *testing.T) {
	s := NewState()

	s.SetLoadingNotification("Loading...")
	notifications := s.GetNotifications()
	if len(notifications) != 1 || notifications[0].ID != LoadingNotificationID {
		t.Fatalf("loading notification not present: %+v", notifications)
	}

	// Setting it again replaces rather than stacks.
	s.SetLoadingNotification("Still loading...")
	if got := len(s.GetNotifications()); got != 1 {
		t.Errorf("got %d notifications after second set, want 1", got)
	}

	s.ClearLoadingNotification()
	if len(s.GetNotifications()) != 0 {
		t.Error("loading notification survived clear")
	}
}

func TestSetRecordsUpdatesTimestamp(t *testing.T) {
	s := NewState()
	before := s.GetLastUpdated()

	time.Sleep(time.Millisecond)
	s.SetRecords([]models.ConversionRecord{{From: "USD", To: "EUR"}})

	if !s.GetLastUpdated().After(before) {
		t.Error("SetRecords did not advance the last-updated timestamp")
	}
	if len(s.GetRecords()) != 1 {
		t.Errorf("GetRecords returned %d records, want 1", len(s.GetRecords()))
	}
}
