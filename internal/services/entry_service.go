// Package services orchestrates entry writes across SQLite and the AMQP
// sync queue.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"tourbill/internal/amqp"
	"tourbill/internal/core"
	"tourbill/internal/storage"
)

// EntryService saves entries locally first and notifies the sync worker
// asynchronously. A failed publish never fails the request: the startup
// sweep and the periodic pending check pick the entry up later.
type EntryService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewEntryService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *EntryService {
	return &EntryService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// SaveEntry implements store.EntrySaver.
func (s *EntryService) SaveEntry(ctx context.Context, e core.Entry) (core.Entry, error) {
	saved, err := s.storage.SaveEntry(ctx, e)
	if err != nil {
		return core.Entry{}, err
	}

	if err := s.publish(ctx, amqp.NewEntrySyncMessage(saved.ID)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"entry_id", saved.ID, "error", err)
	}

	return saved, nil
}

// DeleteEntry implements store.EntryDeleter.
func (s *EntryService) DeleteEntry(ctx context.Context, id string) error {
	if err := s.storage.DeleteEntry(ctx, id); err != nil {
		return err
	}

	if err := s.publish(ctx, amqp.NewEntryDeleteMessage(id)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish delete message",
			"entry_id", id, "error", err)
	}

	return nil
}

func (s *EntryService) ListEntries(ctx context.Context, month core.Month) ([]core.Entry, error) {
	return s.storage.ListEntries(ctx, month)
}

func (s *EntryService) GetEntry(ctx context.Context, id string) (core.Entry, error) {
	return s.storage.GetEntry(ctx, id)
}

func (s *EntryService) GetProfile(ctx context.Context) (core.Profile, error) {
	return s.storage.GetProfile(ctx)
}

func (s *EntryService) UpdateProfile(ctx context.Context, p core.Profile) error {
	return s.storage.UpdateProfile(ctx, p)
}

func (s *EntryService) publish(ctx context.Context, msg *amqp.EntryMessage) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping message",
			"action", string(msg.Action), "entry_id", msg.EntryID)
		return nil
	}
	return s.amqpClient.Publish(ctx, msg)
}

func (s *EntryService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close entry service: %v", errs)
	}
	return nil
}
