package storage

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Tiliavir/jtrack/internal/model"
)

// DateNotes stores at most one note per ISO date.
type DateNotes struct {
	kv  KV
	log *zap.Logger

	mu     sync.RWMutex
	notes  []model.DateNote
	loaded bool
}

// NewDateNotes returns a store backed by kv.
func NewDateNotes(kv KV, log *zap.Logger) *DateNotes {
	if log == nil {
		log = zap.NewNop()
	}
	return &DateNotes{kv: kv, log: log}
}

// Load (re)reads all notes from the backend. A failed read leaves an empty
// view and blocks writes until a later read succeeds.
func (s *DateNotes) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *DateNotes) loadLocked() error {
	notes, err := loadList[model.DateNote](s.kv, KeyDateNotes, s.log)
	s.notes = notes
	s.loaded = err == nil
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrUnavailable, KeyDateNotes, err)
	}
	s.log.Debug("date notes loaded", zap.Int("count", len(notes)))
	return nil
}

func (s *DateNotes) ensureLoaded() {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		_ = s.loadLocked()
	}
}

// writable hydrates the store before a mutation. Called with mu held.
func (s *DateNotes) writable() error {
	if s.loaded {
		return nil
	}
	return s.loadLocked()
}

// All returns a copy of every note.
func (s *DateNotes) All() []model.DateNote {
	s.ensureLoaded()
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.DateNote, len(s.notes))
	copy(out, s.notes)
	return out
}

// GetByDate returns the note for date (YYYY-MM-DD).
func (s *DateNotes) GetByDate(date string) (model.DateNote, bool) {
	s.ensureLoaded()
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.notes {
		if n.Date == date {
			return n, true
		}
	}
	return model.DateNote{}, false
}

// Save inserts note or replaces the existing note for the same date.
func (s *DateNotes) Save(note model.DateNote) error {
	if _, err := time.Parse("2006-01-02", note.Date); err != nil {
		return fmt.Errorf("invalid note date %q (want YYYY-MM-DD)", note.Date)
	}
	if note.Applications == nil {
		note.Applications = []string{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writable(); err != nil {
		return err
	}

	next := make([]model.DateNote, 0, len(s.notes)+1)
	replaced := false
	for _, n := range s.notes {
		if n.Date == note.Date {
			next = append(next, note)
			replaced = true
			continue
		}
		next = append(next, n)
	}
	if !replaced {
		next = append(next, note)
	}

	if err := saveList(s.kv, KeyDateNotes, next); err != nil {
		return err
	}
	s.notes = next
	s.log.Debug("date note saved", zap.String("date", note.Date), zap.Bool("replaced", replaced))
	return nil
}

// Delete removes the note for date. It reports whether a note existed.
func (s *DateNotes) Delete(date string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writable(); err != nil {
		return false, err
	}

	next := make([]model.DateNote, 0, len(s.notes))
	for _, n := range s.notes {
		if n.Date != date {
			next = append(next, n)
		}
	}
	if len(next) == len(s.notes) {
		return false, nil
	}
	if err := saveList(s.kv, KeyDateNotes, next); err != nil {
		return false, err
	}
	s.notes = next
	return true, nil
}

// Clear removes every note from the backend.
func (s *DateNotes) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Remove(KeyDateNotes); err != nil {
		return err
	}
	s.notes = []model.DateNote{}
	s.loaded = true
	return nil
}
