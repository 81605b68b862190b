package store

import (
	"encoding/json"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/driftwatch/driftwatch/internal/event"
	"github.com/driftwatch/driftwatch/internal/metrics"
)

// Store holds every user's event history behind a read/write lock and
// mirrors it to a single JSON document on disk. Readers take the shared
// lock; Append holds the exclusive lock across both the in-memory append
// and the file rewrite, so no reader ever observes a half-applied ingest.
type Store struct {
	path string
	log  *slog.Logger

	mu   sync.RWMutex
	data map[string][]event.Event
}

// Open loads the store persisted at path. Loading is best-effort: a
// missing or unparsable file yields an empty store, never an error —
// that is the sole recovery path for corrupt state.
func Open(path string, log *slog.Logger) *Store {
	s := &Store{
		path: path,
		log:  log,
		data: make(map[string][]event.Event),
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			metrics.StoreLoadFailures.Inc()
			log.Warn("store load failed, starting empty", "path", path, "err", err)
		}
		return s
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		metrics.StoreLoadFailures.Inc()
		log.Warn("store file unparsable, starting empty", "path", path, "err", err)
		s.data = make(map[string][]event.Event)
	}
	return s
}

// Append stamps ev with the current UTC time when ts is absent, appends it
// to the user's sequence (creating the sequence for a new user), rewrites
// the persisted file, and returns the event as stored. A failed write is
// logged and counted but never surfaced: the in-memory append has already
// happened. This is a known durability gap — a crash between append and a
// failed flush loses the event.
func (s *Store) Append(ev event.Event) event.Event {
	if ev.TS == "" {
		ev.TS = time.Now().UTC().Format(time.RFC3339)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[ev.UserID] = append(s.data[ev.UserID], ev)
	s.flushLocked()
	return ev
}

// Events returns a copy of the user's event sequence in insertion order,
// and false if the user has never been seen.
func (s *Store) Events(userID string) ([]event.Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seq, ok := s.data[userID]
	if !ok {
		return nil, false
	}
	out := make([]event.Event, len(seq))
	copy(out, seq)
	return out, true
}

// Counts returns the number of stored events per user.
func (s *Store) Counts() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]int, len(s.data))
	for user, seq := range s.data {
		out[user] = len(seq)
	}
	return out
}

// flushLocked rewrites the persisted file wholesale. Callers hold the
// write lock.
func (s *Store) flushLocked() {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		metrics.StoreSaveFailures.Inc()
		s.log.Error("store marshal failed", "err", err)
		return
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		metrics.StoreSaveFailures.Inc()
		s.log.Error("store flush failed", "path", s.path, "err", err)
	}
}
