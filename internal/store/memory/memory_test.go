package memory

import (
	"context"
	"errors"
	"testing"

	"tourbill/internal/core"
	"tourbill/internal/store"
)

func entry(t *testing.T, date string, status core.DayStatus) core.Entry {
	t.Helper()
	d, err := core.ParseDate(date)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", date, err)
	}
	e := core.Entry{Date: d, DayStatus: status}
	if status == core.StatusInspection {
		e.Branch = "Central Branch"
		e.DPCode = "DP01"
		e.InspectionType = "RBIA"
	}
	return e
}

func TestSaveEntryAssignsIDAndTimestamp(t *testing.T) {
	s := NewStore()
	saved, err := s.SaveEntry(context.Background(), entry(t, "2024-03-04", core.StatusInspection))
	if err != nil {
		t.Fatalf("SaveEntry: %v", err)
	}
	if saved.ID == "" {
		t.Error("expected an assigned id")
	}
	if saved.LastSavedAt == nil {
		t.Error("expected LastSavedAt to be stamped")
	}
}

func TestSaveEntryRejectsDuplicateDate(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	if _, err := s.SaveEntry(ctx, entry(t, "2024-03-04", core.StatusInspection)); err != nil {
		t.Fatalf("first save: %v", err)
	}
	_, err := s.SaveEntry(ctx, entry(t, "2024-03-04", core.StatusLeave))
	if !errors.Is(err, store.ErrDuplicateDate) {
		t.Errorf("err = %v, want ErrDuplicateDate", err)
	}
}

func TestSaveEntryUpdatesSameID(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	saved, err := s.SaveEntry(ctx, entry(t, "2024-03-04", core.StatusInspection))
	if err != nil {
		t.Fatalf("first save: %v", err)
	}

	saved.InspectionType = "Others"
	if _, err := s.SaveEntry(ctx, saved); err != nil {
		t.Fatalf("resave: %v", err)
	}

	got, err := s.GetEntry(ctx, saved.ID)
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if got.InspectionType != "Others" {
		t.Errorf("InspectionType = %q, want Others", got.InspectionType)
	}
}

func TestSaveEntryRejectsInvalid(t *testing.T) {
	s := NewStore()
	e := entry(t, "2024-03-04", core.StatusInspection)
	e.Branch = "   "
	if _, err := s.SaveEntry(context.Background(), e); !errors.Is(err, core.ErrEmptyBranch) {
		t.Errorf("err = %v, want ErrEmptyBranch", err)
	}
}

func TestListEntriesFiltersMonthAndSorts(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	for _, d := range []string{"2024-03-10", "2024-03-02", "2024-04-01"} {
		if _, err := s.SaveEntry(ctx, entry(t, d, core.StatusInspection)); err != nil {
			t.Fatalf("save %s: %v", d, err)
		}
	}

	got, err := s.ListEntries(ctx, core.Month{Year: 2024, Month: 3})
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Date.Day != 2 || got[1].Date.Day != 10 {
		t.Errorf("order = %d,%d, want 2,10", got[0].Date.Day, got[1].Date.Day)
	}
}

func TestDeleteEntry(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	saved, err := s.SaveEntry(ctx, entry(t, "2024-03-04", core.StatusInspection))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := s.DeleteEntry(ctx, saved.ID); err != nil {
		t.Fatalf("DeleteEntry: %v", err)
	}
	if _, err := s.GetEntry(ctx, saved.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetEntry after delete = %v, want ErrNotFound", err)
	}
	if err := s.DeleteEntry(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("DeleteEntry(missing) = %v, want ErrNotFound", err)
	}

	// Deleting an entry frees its date for a new save.
	if _, err := s.SaveEntry(ctx, entry(t, "2024-03-04", core.StatusLeave)); err != nil {
		t.Errorf("resave on freed date: %v", err)
	}
}

func TestProfileDefaultsAndUpdate(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	p, err := s.GetProfile(ctx)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if p.TourName != "Inspection Tour" || p.Currency != "INR" {
		t.Errorf("defaults = %+v", p)
	}

	p.Name = "A. Kumar"
	p.EmployeeID = "E123"
	if err := s.UpdateProfile(ctx, p); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	got, _ := s.GetProfile(ctx)
	if got.Name != "A. Kumar" || got.EmployeeID != "E123" {
		t.Errorf("profile = %+v", got)
	}
}
