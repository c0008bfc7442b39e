package storage

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Tiliavir/jtrack/internal/model"
)

// Applications is the application record store. Records are hydrated once by
// Load and every mutation is flushed to the backend immediately.
type Applications struct {
	kv  KV
	log *zap.Logger

	mu     sync.RWMutex
	apps   []model.Application
	loaded bool
}

// NewApplications returns a store backed by kv. A nil logger discards
// warnings.
func NewApplications(kv KV, log *zap.Logger) *Applications {
	if log == nil {
		log = zap.NewNop()
	}
	return &Applications{kv: kv, log: log}
}

// Load (re)reads all applications from the backend. On a read error the
// store shows an empty list and refuses writes until a later read succeeds.
func (s *Applications) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

// loadLocked must be called with mu held for writing.
func (s *Applications) loadLocked() error {
	apps, err := loadList[model.Application](s.kv, KeyApplications, s.log)
	s.apps = apps
	s.loaded = err == nil
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrUnavailable, KeyApplications, err)
	}
	s.log.Debug("applications loaded", zap.Int("count", len(apps)))
	return nil
}

// ensureLoaded hydrates the store on first use. Read errors are logged by
// loadList and leave an empty view.
func (s *Applications) ensureLoaded() {
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

// All returns a copy of every application in insertion order.
func (s *Applications) All() []model.Application {
	s.ensureLoaded()
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Application, len(s.apps))
	copy(out, s.apps)
	return out
}

// Len returns the number of stored applications.
func (s *Applications) Len() int {
	s.ensureLoaded()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.apps)
}

// Get returns the application with the given id.
func (s *Applications) Get(id string) (model.Application, error) {
	s.ensureLoaded()
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.apps {
		if a.ID == id {
			return a, nil
		}
	}
	return model.Application{}, fmt.Errorf("application %q: %w", id, ErrNotFound)
}

// Add appends app and flushes the collection. The id must be unique and the
// status one of the fixed values.
func (s *Applications) Add(app model.Application) error {
	if app.ID == "" {
		return fmt.Errorf("%w: id", model.ErrMissingField)
	}
	if !app.Status.Valid() {
		return fmt.Errorf("%w %q", model.ErrInvalidStatus, app.Status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		if err := s.loadLocked(); err != nil {
			return err
		}
	}
	for _, a := range s.apps {
		if a.ID == app.ID {
			return fmt.Errorf("application %q: %w", app.ID, ErrDuplicateID)
		}
	}

	next := append(append([]model.Application{}, s.apps...), app)
	if err := saveList(s.kv, KeyApplications, next); err != nil {
		return err
	}
	s.apps = next
	s.log.Debug("application added", zap.String("id", app.ID), zap.String("company", app.CompanyName))
	return nil
}

// Clear removes every application from the backend.
func (s *Applications) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Remove(KeyApplications); err != nil {
		return err
	}
	s.apps = []model.Application{}
	s.loaded = true
	return nil
}
