// Package history persists recent conversions to a line-delimited local file
// with file watching and change notifications.
package history

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/r-ledesma/cambio/internal/logger"
	"github.com/r-ledesma/cambio/internal/models"
)

// MaxEntries is the number of conversions the history file retains. Appends
// beyond this drop the oldest entry.
const MaxEntries = 10

// Event represents a history store event.
type Event struct {
	Type   EventType
	Error  error
	Record *models.ConversionRecord
}

// EventType defines the type of history event.
type EventType int

const (
	// EventHistoryLoaded is emitted once the initial load completes.
	EventHistoryLoaded EventType = iota
	// EventHistoryChanged is emitted when the file changed on disk.
	EventHistoryChanged
	// EventRecordAppended is emitted after a successful Append.
	EventRecordAppended
	// EventError is emitted when watching or reloading fails.
	EventError
)

// Store manages the conversion history file. Records are held most-recent-last
// in memory and on disk; the file is one JSON record per line.
type Store struct {
	mu            sync.RWMutex
	records       []models.ConversionRecord
	filePath      string
	watcher       *fsnotify.Watcher
	eventChan     chan Event
	stopChan      chan struct{}
	debounceTimer *time.Timer
}

// New creates a history store backed by filePath and starts watching the file
// for external changes. A missing file is treated as an empty history.
func New(filePath string) (*Store, error) {
	s := &Store{
		records:   make([]models.ConversionRecord, 0, MaxEntries),
		filePath:  filePath,
		eventChan: make(chan Event, 100),
		stopChan:  make(chan struct{}),
	}

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	if err := s.load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	if err := s.startWatcher(); err != nil {
		return nil, fmt.Errorf("failed to start file watcher: %w", err)
	}

	s.sendEvent(Event{Type: EventHistoryLoaded})

	return s, nil
}

// Events returns the event channel for subscribing to history changes.
func (s *Store) Events() <-chan Event {
	return s.eventChan
}

// Records returns a copy of the history, most recent last.
func (s *Store) Records() []models.ConversionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]models.ConversionRecord, len(s.records))
	copy(records, s.records)
	return records
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Last returns the most recent record for a currency pair, or nil.
func (s *Store) Last(from, to string) *models.ConversionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.records) - 1; i >= 0; i-- {
		if s.records[i].From == from && s.records[i].To == to {
			rec := s.records[i]
			return &rec
		}
	}
	return nil
}

// Append adds a record, drops the oldest entries beyond MaxEntries and
// rewrites the file.
func (s *Store) Append(record models.ConversionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, record)
	if len(s.records) > MaxEntries {
		s.records = s.records[len(s.records)-MaxEntries:]
	}

	if err := s.saveLocked(); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}

	s.sendEvent(Event{Type: EventRecordAppended, Record: &record})
	return nil
}

// load reads the history file into memory. Lines that do not parse are
// skipped so a damaged file degrades instead of blocking startup.
func (s *Store) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	records := make([]models.ConversionRecord, 0, MaxEntries)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec models.ConversionRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			logger.Warn("skipping unparseable history line", "error", err)
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	if len(records) > MaxEntries {
		records = records[len(records)-MaxEntries:]
	}

	s.records = records
	return nil
}

// saveLocked writes the history file (must hold lock). Writes go to a temp
// file first, then rename.
func (s *Store) saveLocked() error {
	var buf bytes.Buffer
	for _, rec := range s.records {
		line, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to marshal record: %w", err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}

	tmpFile := s.filePath + ".tmp"
	if err := os.WriteFile(tmpFile, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tmpFile, s.filePath); err != nil {
		if removeErr := os.Remove(tmpFile); removeErr != nil {
			logger.Error("failed to remove temp file", "error", removeErr)
		}
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// startWatcher starts the file system watcher.
func (s *Store) startWatcher() error {
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
func (s *Store) watchLoop() {
	const debounceInterval = 100 * time.Millisecond

	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}

			// Only care about our history file
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

// handleFileChange reloads the history after an external write.
func (s *Store) handleFileChange() {
	s.mu.Lock()
	err := s.load()
	s.mu.Unlock()

	if err != nil && !os.IsNotExist(err) {
		s.sendEvent(Event{Type: EventError, Error: err})
		return
	}

	s.sendEvent(Event{Type: EventHistoryChanged})
}

// sendEvent delivers an event without blocking.
func (s *Store) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		logger.Warn("history event channel full, dropping event")
	}
}

// Path returns the location of the backing file.
func (s *Store) Path() string {
	return s.filePath
}

// Close stops the watcher and releases resources.
func (s *Store) Close() error {
	close(s.stopChan)

	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}

	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}
