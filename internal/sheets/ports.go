package sheets

import (
	"context"

	"tourbill/internal/core"
)

// Ports for the external tour log.
type (
	// TourLogWriter mirrors saved entries into a shared tour log.
	TourLogWriter interface {
		// AppendEntry writes e as a new row and returns its range reference.
		AppendEntry(ctx context.Context, e core.Entry) (rowRef string, err error)

		// RemoveEntry deletes the row holding the given entry id.
		RemoveEntry(ctx context.Context, entryID string) error
	}
)
