// Package store defines the persistence ports the HTTP server, the entry
// service, and the sync worker depend on, plus the errors adapters use to
// signal the outcomes callers branch on.
package store

import (
	"context"
	"errors"

	"tourbill/internal/core"
)

var (
	// ErrNotFound is returned when no entry exists for the given id.
	ErrNotFound = errors.New("entry not found")

	// ErrDuplicateDate is returned when a save would leave two saved
	// entries on the same calendar date.
	ErrDuplicateDate = errors.New("an entry is already saved for this date")
)

// Ports for persistence adapters.
type (
	EntrySaver interface {
		// SaveEntry persists e and stamps its LastSavedAt.
		SaveEntry(ctx context.Context, e core.Entry) (core.Entry, error)
	}

	EntryLister interface {
		// ListEntries returns the saved entries of the given month,
		// ordered by date.
		ListEntries(ctx context.Context, month core.Month) ([]core.Entry, error)
	}

	EntryGetter interface {
		GetEntry(ctx context.Context, id string) (core.Entry, error)
	}

	EntryDeleter interface {
		DeleteEntry(ctx context.Context, id string) error
	}

	ProfileReader interface {
		GetProfile(ctx context.Context) (core.Profile, error)
	}

	ProfileWriter interface {
		UpdateProfile(ctx context.Context, p core.Profile) error
	}
)

// Store is the full persistence surface the HTTP server wires.
type Store interface {
	EntrySaver
	EntryLister
	EntryGetter
	EntryDeleter
	ProfileReader
	ProfileWriter
}
