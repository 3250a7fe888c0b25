// Package memory provides an in-process store. It backs the server when no
// database is configured and doubles as the test fixture for everything
// that depends on the store ports.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"tourbill/internal/core"
	"tourbill/internal/store"
)

type Store struct {
	mu      sync.RWMutex
	entries map[string]core.Entry
	profile core.Profile
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{
		entries: make(map[string]core.Entry),
		profile: core.Profile{TourName: "Inspection Tour", Currency: "INR"},
		now:     time.Now,
	}
}

// SaveEntry validates e, stamps LastSavedAt, and persists it. A new id is
// assigned when the entry has none. Saving a second entry on a date already
// held by a different entry fails with store.ErrDuplicateDate.
func (s *Store) SaveEntry(ctx context.Context, e core.Entry) (core.Entry, error) {
	if err := e.Validate(); err != nil {
		return core.Entry{}, fmt.Errorf("validate entry: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == "" {
		e.ID = core.NewID()
	}
	for id, existing := range s.entries {
		if id != e.ID && existing.Date == e.Date {
			return core.Entry{}, store.ErrDuplicateDate
		}
	}

	ts := s.now()
	e.LastSavedAt = &ts
	s.entries[e.ID] = e
	return e, nil
}

func (s *Store) ListEntries(ctx context.Context, month core.Month) ([]core.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []core.Entry
	for _, e := range s.entries {
		if month.Contains(e.Date) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *Store) GetEntry(ctx context.Context, id string) (core.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok {
		return core.Entry{}, store.ErrNotFound
	}
	return e, nil
}

func (s *Store) DeleteEntry(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.entries, id)
	return nil
}

func (s *Store) GetProfile(ctx context.Context) (core.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile, nil
}

func (s *Store) UpdateProfile(ctx context.Context, p core.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = p
	return nil
}
