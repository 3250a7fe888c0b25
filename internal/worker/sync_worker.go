// Package worker mirrors saved entries from SQLite into the external tour
// log, driven by AMQP messages with a periodic pending sweep as backup.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tourbill/internal/amqp"
	"tourbill/internal/sheets"
	"tourbill/internal/storage"
	"tourbill/internal/store"
)

type SyncWorker struct {
	storage   *storage.SQLiteRepository
	tourLog   sheets.TourLogWriter
	batchSize int
}

func NewSyncWorker(storage *storage.SQLiteRepository, tourLog sheets.TourLogWriter, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		tourLog:   tourLog,
		batchSize: batchSize,
	}
}

// HandleMessage dispatches one queue message. The entry is always re-read
// from SQLite, so a message delivered late or twice converges on the stored
// state.
func (w *SyncWorker) HandleMessage(ctx context.Context, msg *amqp.EntryMessage) error {
	switch msg.Action {
	case amqp.ActionSync:
		return w.handleSync(ctx, msg.EntryID)
	case amqp.ActionDelete:
		return w.handleDelete(ctx, msg.EntryID)
	default:
		return fmt.Errorf("unknown message action %q", msg.Action)
	}
}

func (w *SyncWorker) handleSync(ctx context.Context, entryID string) error {
	slog.InfoContext(ctx, "Processing sync message", "entry_id", entryID)

	entry, err := w.storage.GetEntry(ctx, entryID)
	if errors.Is(err, store.ErrNotFound) {
		// Deleted since the message was published, nothing to mirror.
		slog.InfoContext(ctx, "Entry vanished before sync", "entry_id", entryID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get entry from storage: %w", err)
	}

	return w.syncToTourLog(ctx, entry.ID, func() (string, error) {
		return w.tourLog.AppendEntry(ctx, entry)
	})
}

func (w *SyncWorker) handleDelete(ctx context.Context, entryID string) error {
	slog.InfoContext(ctx, "Processing delete message", "entry_id", entryID)

	if w.tourLog == nil {
		slog.WarnContext(ctx, "No tour log configured, skipping deletion", "entry_id", entryID)
		return nil
	}

	if err := w.tourLog.RemoveEntry(ctx, entryID); err != nil {
		return fmt.Errorf("remove entry from tour log: %w", err)
	}

	slog.InfoContext(ctx, "Entry removed from tour log", "entry_id", entryID)
	return nil
}

// ProcessPendingEntries sweeps entries that never made it to the tour log.
// Backup for lost AMQP messages.
func (w *SyncWorker) ProcessPendingEntries(ctx context.Context) error {
	pending, err := w.storage.GetPendingSyncEntries(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending entries: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending entries", "count", len(pending))

	for _, p := range pending {
		if err := w.handleSync(ctx, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to sync pending entry", "entry_id", p.ID, "error", err)
		}
	}
	return nil
}

// StartupSyncCheck drains the pending backlog once at worker startup to
// recover from downtime or missed messages.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.storage.GetPendingSyncEntries(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending entries for startup check: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending entries found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending entries on startup, processing...",
		"count", len(pending))

	synced, failed := 0, 0
	for _, p := range pending {
		if err := w.handleSync(ctx, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to sync entry during startup",
				"entry_id", p.ID, "error", err)
			failed++
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", synced,
		"errors", failed)

	return nil
}

func (w *SyncWorker) syncToTourLog(ctx context.Context, entryID string, append func() (string, error)) error {
	if w.tourLog == nil {
		slog.WarnContext(ctx, "No tour log configured, skipping sync", "entry_id", entryID)
		return nil
	}

	ref, err := append()
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, entryID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "entry_id", entryID, "error", markErr)
		}
		return fmt.Errorf("append to tour log: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, entryID); err != nil {
		// The append worked; only the bookkeeping failed.
		slog.ErrorContext(ctx, "Failed to mark as synced", "entry_id", entryID, "error", err)
	}

	slog.InfoContext(ctx, "Entry synced to tour log", "entry_id", entryID, "ref", ref)
	return nil
}
