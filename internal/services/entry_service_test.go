package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"tourbill/internal/core"
	"tourbill/internal/storage"
	"tourbill/internal/store"
)

func testService(t *testing.T) *EntryService {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	// No AMQP client: publishes are skipped, saves still succeed.
	svc := NewEntryService(repo, nil)
	t.Cleanup(func() { svc.Close() })
	return svc
}

func TestSaveAndDeleteWithoutAMQP(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	d, _ := core.ParseDate("2024-03-05")
	saved, err := svc.SaveEntry(ctx, core.Entry{Date: d, DayStatus: core.StatusLeave})
	if err != nil {
		t.Fatalf("SaveEntry: %v", err)
	}
	if saved.ID == "" {
		t.Error("expected assigned id")
	}

	entries, err := svc.ListEntries(ctx, core.Month{Year: 2024, Month: 3})
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %+v", entries)
	}

	if err := svc.DeleteEntry(ctx, saved.ID); err != nil {
		t.Fatalf("DeleteEntry: %v", err)
	}
	if _, err := svc.GetEntry(ctx, saved.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetEntry after delete = %v, want ErrNotFound", err)
	}
}

func TestSaveEntryPropagatesDuplicate(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	d, _ := core.ParseDate("2024-03-05")
	if _, err := svc.SaveEntry(ctx, core.Entry{Date: d, DayStatus: core.StatusLeave}); err != nil {
		t.Fatalf("first save: %v", err)
	}
	_, err := svc.SaveEntry(ctx, core.Entry{Date: d, DayStatus: core.StatusHoliday})
	if !errors.Is(err, store.ErrDuplicateDate) {
		t.Errorf("err = %v, want ErrDuplicateDate", err)
	}
}
