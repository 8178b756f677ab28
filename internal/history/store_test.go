package history

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/r-ledesma/cambio/internal/models"
)

func testRecord(i int) models.ConversionRecord {
	return models.ConversionRecord{
		Timestamp: time.Date(2026, 1, 1, 12, 0, i, 0, time.UTC),
		From:      "USD",
		To:        "EUR",
		Amount:    float64(i),
		Result:    float64(i) * 0.9,
		Rate:      0.9,
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.jsonl")
	s, err := New(path)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNewWithMissingFile(t *testing.T) {
	s := newTestStore(t)
	if s.Len() != 0 {
		t.Errorf("fresh store has %d records, want 0", s.Len())
	}
}

func TestAppendAndRecords(t *testing.T) {
	s := newTestStore(t)

	for i := 1; i <= 3; i++ {
		if err := s.Append(testRecord(i)); err != nil {
			t.Fatalf("Append(%d) returned error: %v", i, err)
		}
	}

	records := s.Records()
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	// Most recent last.
	for i, r := range records {
		if r.Amount != float64(i+1) {
			t.Errorf("records[%d].Amount = %v, want %v", i, r.Amount, i+1)
		}
	}
}

func TestAppendCapsAtMaxEntries(t *testing.T) {
	s := newTestStore(t)

	for i := 1; i <= MaxEntries+1; i++ {
		if err := s.Append(testRecord(i)); err != nil {
			t.Fatal(err)
		}
	}

	records := s.Records()
	if len(records) != MaxEntries {
		t.Fatalf("got %d records, want %d", len(records), MaxEntries)
	}
	// Oldest entry (amount 1) was dropped, 2..11 remain in order.
	if records[0].Amount != 2 {
		t.Errorf("oldest surviving amount = %v, want 2", records[0].Amount)
	}
	if records[MaxEntries-1].Amount != float64(MaxEntries+1) {
		t.Errorf("newest amount = %v, want %d", records[MaxEntries-1].Amount, MaxEntries+1)
	}
}

func TestPersistenceAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")

	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i <= 2; i++ {
		if err := s.Append(testRecord(i)); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	records := reopened.Records()
	if len(records) != 2 {
		t.Fatalf("reopened store has %d records, want 2", len(records))
	}
	if records[1].Amount != 2 || records[1].Result != 1.8 {
		t.Errorf("reopened record = %+v, want amount 2 result 1.8", records[1])
	}
	if !records[1].Timestamp.Equal(testRecord(2).Timestamp) {
		t.Errorf("timestamp did not round-trip: %v", records[1].Timestamp)
	}
}

func TestLoadSkipsCorruptLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.jsonl")

	lines := []string{
		`{"timestamp":"2026-01-01T12:00:00Z","base":"USD","target":"EUR","amount":10,"converted":9,"rate":0.9}`,
		`this is not json`,
		``,
		`{"timestamp":"2026-01-01T12:00:01Z","base":"EUR","target":"GBP","amount":9,"converted":8,"rate":0.888889}`,
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	s, err := New(path)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer s.Close()

	records := s.Records()
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2 (corrupt lines skipped)", len(records))
	}
	if records[0].From != "USD" || records[1].To != "GBP" {
		t.Errorf("unexpected records after corrupt-line skip: %+v", records)
	}
}

func TestLoadCapsOversizedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.jsonl")

	var b strings.Builder
	for i := 1; i <= MaxEntries+5; i++ {
		fmt.Fprintf(&b,
			`{"timestamp":"2026-01-01T12:00:00Z","base":"USD","target":"EUR","amount":%d,"converted":%d,"rate":0.9}`+"\n",
			i, i)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		t.Fatal(err)
	}

	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	records := s.Records()
	if len(records) != MaxEntries {
		t.Fatalf("got %d records, want %d", len(records), MaxEntries)
	}
	if records[0].Amount != 6 {
		t.Errorf("oldest kept amount = %v, want 6", records[0].Amount)
	}
}

func TestLast(t *testing.T) {
	s := newTestStore(t)

	first := testRecord(1)
	second := testRecord(2)
	second.Rate = 0.95
	other := testRecord(3)
	other.To = "GBP"

	for _, r := range []models.ConversionRecord{first, second, other} {
		if err := s.Append(r); err != nil {
			t.Fatal(err)
		}
	}

	got := s.Last("USD", "EUR")
	if got == nil {
		t.Fatal("Last returned nil for an existing pair")
	}
	if got.Rate != 0.95 {
		t.Errorf("Last returned rate %v, want the most recent 0.95", got.Rate)
	}

	if s.Last("USD", "JPY") != nil {
		t.Error("Last returned a record for a pair never converted")
	}
}

func TestAppendEmitsEvent(t *testing.T) {
	s := newTestStore(t)

	// Drain the initial load event.
	select {
	case ev := <-s.Events():
		if ev.Type != EventHistoryLoaded {
			t.Fatalf("first event type = %v, want EventHistoryLoaded", ev.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("no load event received")
	}

	if err := s.Append(testRecord(1)); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(time.Second)
	for {
		select {
		case ev := <-s.Events():
			if ev.Type == EventRecordAppended {
				if ev.Record == nil || ev.Record.Amount != 1 {
					t.Fatalf("append event record = %+v", ev.Record)
				}
				return
			}
			// The file watcher may also report the write; skip those.
		case <-deadline:
			t.Fatal("no append event received")
		}
	}
}

func TestFileWatcherReload(t *testing.T) {
	s := newTestStore(t)

	// Drain initial event.
	<-s.Events()

	line := `{"timestamp":"2026-01-01T12:00:00Z","base":"USD","target":"EUR","amount":10,"converted":9,"rate":0.9}` + "\n"
	if err := os.WriteFile(s.Path(), []byte(line), 0600); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(3 * time.Second)
	for {
		select {
		case ev := <-s.Events():
			if ev.Type == EventHistoryChanged {
				if s.Len() != 1 {
					t.Fatalf("store has %d records after reload, want 1", s.Len())
				}
				return
			}
		case <-deadline:
			t.Fatal("no change event after external write")
		}
	}
}
