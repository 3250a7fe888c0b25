// Package storage persists entries and the inspector profile in SQLite and
// keeps the outbox state the sheet-sync worker drains.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"tourbill/internal/core"
	"tourbill/internal/store"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SaveEntry implements store.EntrySaver. It writes the entry together with
// its journey legs and expense items in one transaction and resets the sync
// status so the worker picks the change up.
func (r *SQLiteRepository) SaveEntry(ctx context.Context, e core.Entry) (core.Entry, error) {
	if err := e.Validate(); err != nil {
		return core.Entry{}, fmt.Errorf("validate entry: %w", err)
	}
	if e.ID == "" {
		e.ID = core.NewID()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Entry{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var clash string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM entries WHERE entry_date = ? AND id != ?`,
		e.Date.String(), e.ID).Scan(&clash)
	switch {
	case err == nil:
		return core.Entry{}, store.ErrDuplicateDate
	case !errors.Is(err, sql.ErrNoRows):
		return core.Entry{}, fmt.Errorf("check date conflict: %w", err)
	}

	ts := time.Now().UTC()
	e.LastSavedAt = &ts

	_, err = tx.ExecContext(ctx, `
		INSERT INTO entries (id, entry_date, day_status, branch, dp_code, inspection_type, last_saved_at, sync_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, 'pending')
		ON CONFLICT(id) DO UPDATE SET
			entry_date = excluded.entry_date,
			day_status = excluded.day_status,
			branch = excluded.branch,
			dp_code = excluded.dp_code,
			inspection_type = excluded.inspection_type,
			last_saved_at = excluded.last_saved_at,
			sync_status = 'pending',
			synced_at = NULL`,
		e.ID, e.Date.String(), string(e.DayStatus), e.Branch, e.DPCode, e.InspectionType, ts)
	if err != nil {
		return core.Entry{}, fmt.Errorf("upsert entry: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM journey_legs WHERE entry_id = ?`, e.ID); err != nil {
		return core.Entry{}, fmt.Errorf("clear journey legs: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM expense_items WHERE entry_id = ?`, e.ID); err != nil {
		return core.Entry{}, fmt.Errorf("clear expense items: %w", err)
	}

	if err := insertLegs(ctx, tx, e.ID, "onward", e.OnwardJourney); err != nil {
		return core.Entry{}, err
	}
	if err := insertLegs(ctx, tx, e.ID, "return", e.ReturnJourney); err != nil {
		return core.Entry{}, err
	}
	for i, item := range e.OtherExpenses {
		id := item.ID
		if id == "" {
			id = core.NewID()
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO expense_items (id, entry_id, position, halting_cents, lodging_cents)
			VALUES (?, ?, ?, ?, ?)`,
			id, e.ID, i, item.Halting.Cents, item.Lodging.Cents)
		if err != nil {
			return core.Entry{}, fmt.Errorf("insert expense item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return core.Entry{}, fmt.Errorf("commit transaction: %w", err)
	}

	slog.InfoContext(ctx, "Entry saved to SQLite",
		"id", e.ID,
		"date", e.Date.String(),
		"day_status", string(e.DayStatus))

	return e, nil
}

func insertLegs(ctx context.Context, tx *sql.Tx, entryID, direction string, legs []core.JourneyLeg) error {
	for i, leg := range legs {
		id := leg.ID
		if id == "" {
			id = core.NewID()
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO journey_legs (id, entry_id, direction, position, start_from, start_time, arrival_to, arrival_time, distance_km, travel_by, amount_cents)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, entryID, direction, i, leg.From, leg.StartTime, leg.To, leg.ArrivedTime,
			leg.DistanceKM, leg.TravelBy, leg.Amount.Cents)
		if err != nil {
			return fmt.Errorf("insert %s leg: %w", direction, err)
		}
	}
	return nil
}

// ListEntries implements store.EntryLister.
func (r *SQLiteRepository) ListEntries(ctx context.Context, month core.Month) ([]core.Entry, error) {
	prefix := fmt.Sprintf("%04d-%02d-%%", month.Year, month.Month)
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, entry_date, day_status, branch, dp_code, inspection_type, last_saved_at
		FROM entries
		WHERE entry_date LIKE ?
		ORDER BY entry_date`, prefix)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []core.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}

	for i := range entries {
		if err := r.loadDetails(ctx, &entries[i]); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

// GetEntry implements store.EntryGetter.
func (r *SQLiteRepository) GetEntry(ctx context.Context, id string) (core.Entry, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, entry_date, day_status, branch, dp_code, inspection_type, last_saved_at
		FROM entries WHERE id = ?`, id)

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Entry{}, store.ErrNotFound
	}
	if err != nil {
		return core.Entry{}, err
	}
	if err := r.loadDetails(ctx, &e); err != nil {
		return core.Entry{}, err
	}
	return e, nil
}

// DeleteEntry implements store.EntryDeleter. Legs and items go with the
// entry via ON DELETE CASCADE.
func (r *SQLiteRepository) DeleteEntry(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}

	slog.InfoContext(ctx, "Entry deleted from SQLite", "id", id)
	return nil
}

func (r *SQLiteRepository) GetProfile(ctx context.Context) (core.Profile, error) {
	var p core.Profile
	err := r.db.QueryRowContext(ctx, `
		SELECT name, employee_id, mobile, email, unit, zi, tour_name, currency
		FROM profile WHERE id = 1`).
		Scan(&p.Name, &p.EmployeeID, &p.Mobile, &p.Email, &p.Unit, &p.ZI, &p.TourName, &p.Currency)
	if err != nil {
		return core.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) UpdateProfile(ctx context.Context, p core.Profile) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE profile SET name = ?, employee_id = ?, mobile = ?, email = ?, unit = ?, zi = ?, tour_name = ?, currency = ?
		WHERE id = 1`,
		p.Name, p.EmployeeID, p.Mobile, p.Email, p.Unit, p.ZI, p.TourName, p.Currency)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

// PendingSyncEntry is the minimal payload the sync queue carries; the worker
// fetches the full entry by id before mirroring it.
type PendingSyncEntry struct {
	ID          string
	LastSavedAt time.Time
}

// GetPendingSyncEntries returns entries not yet mirrored to the tour log.
func (r *SQLiteRepository) GetPendingSyncEntries(ctx context.Context, limit int) ([]PendingSyncEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, last_saved_at FROM entries
		WHERE sync_status = 'pending'
		ORDER BY last_saved_at
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync entries: %w", err)
	}
	defer rows.Close()

	var pending []PendingSyncEntry
	for rows.Next() {
		var p PendingSyncEntry
		if err := rows.Scan(&p.ID, &p.LastSavedAt); err != nil {
			return nil, fmt.Errorf("scan pending sync entry: %w", err)
		}
		pending = append(pending, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending sync entries: %w", err)
	}
	return pending, nil
}

// MarkSynced marks an entry as mirrored to the tour log.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `
		UPDATE entries SET sync_status = 'synced', synced_at = CURRENT_TIMESTAMP
		WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark entry synced: %w", err)
	}

	slog.InfoContext(ctx, "Entry marked as synced", "id", id)
	return nil
}

// MarkSyncError flags an entry whose mirror attempt failed.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `
		UPDATE entries SET sync_status = 'error' WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark entry sync error: %w", err)
	}

	slog.WarnContext(ctx, "Entry marked with sync error", "id", id)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (core.Entry, error) {
	var (
		e       core.Entry
		date    string
		status  string
		savedAt time.Time
	)
	err := row.Scan(&e.ID, &date, &status, &e.Branch, &e.DPCode, &e.InspectionType, &savedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Entry{}, err
		}
		return core.Entry{}, fmt.Errorf("scan entry: %w", err)
	}

	e.Date, err = core.ParseDate(date)
	if err != nil {
		return core.Entry{}, fmt.Errorf("parse stored date %q: %w", date, err)
	}
	e.DayStatus = core.DayStatus(status)
	e.LastSavedAt = &savedAt
	return e, nil
}

func (r *SQLiteRepository) loadDetails(ctx context.Context, e *core.Entry) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, direction, start_from, start_time, arrival_to, arrival_time, distance_km, travel_by, amount_cents
		FROM journey_legs
		WHERE entry_id = ?
		ORDER BY direction, position`, e.ID)
	if err != nil {
		return fmt.Errorf("load journey legs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			leg       core.JourneyLeg
			direction string
		)
		err := rows.Scan(&leg.ID, &direction, &leg.From, &leg.StartTime, &leg.To,
			&leg.ArrivedTime, &leg.DistanceKM, &leg.TravelBy, &leg.Amount.Cents)
		if err != nil {
			return fmt.Errorf("scan journey leg: %w", err)
		}
		if direction == "return" {
			e.ReturnJourney = append(e.ReturnJourney, leg)
		} else {
			e.OnwardJourney = append(e.OnwardJourney, leg)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate journey legs: %w", err)
	}

	items, err := r.db.QueryContext(ctx, `
		SELECT id, halting_cents, lodging_cents
		FROM expense_items
		WHERE entry_id = ?
		ORDER BY position`, e.ID)
	if err != nil {
		return fmt.Errorf("load expense items: %w", err)
	}
	defer items.Close()

	for items.Next() {
		var item core.ExpenseItem
		if err := items.Scan(&item.ID, &item.Halting.Cents, &item.Lodging.Cents); err != nil {
			return fmt.Errorf("scan expense item: %w", err)
		}
		e.OtherExpenses = append(e.OtherExpenses, item)
	}
	if err := items.Err(); err != nil {
		return fmt.Errorf("iterate expense items: %w", err)
	}
	return nil
}
