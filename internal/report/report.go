// Package report is the pure aggregation engine: it turns a month's saved
// entries into segment summaries, day totals and allowance totals. No I/O,
// no hidden state; callers rebuild a Report whenever the snapshot or the
// selected month changes.
package report

import (
	"sort"

	"tourbill/internal/core"
)

// Snapshot is the immutable input to one aggregation pass: the saved
// entries of a single month, deduplicated by date (last write wins) and
// sorted ascending.
type Snapshot struct {
	Month   core.Month
	Entries []core.Entry
}

// Report is everything the summary view and the CSV export need, computed
// in one pass over a snapshot.
type Report struct {
	Snapshot Snapshot
	Branches []BranchSegment
	Leaves   []LeaveSegment
	Holidays []HolidayBucket
	Days     DayTotals
	Totals   Totals
}

// Totals are the monthly allowance sums. Only inspection days outside
// holidays accrue; a Leave day contributes nothing even when its journey
// and expense lists still carry values from before the status change.
type Totals struct {
	Halting core.Money
	Lodging core.Money
	Travel  core.Money
	Total   core.Money
}

// NewSnapshot filters entries down to saved ones inside the month,
// deduplicates by date keeping the last occurrence, and sorts by date.
func NewSnapshot(month core.Month, entries []core.Entry) Snapshot {
	byDate := make(map[core.Date]core.Entry)
	for _, e := range entries {
		if !e.Saved() || !month.Contains(e.Date) {
			continue
		}
		byDate[e.Date] = e
	}
	out := make([]core.Entry, 0, len(byDate))
	for _, e := range byDate {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return Snapshot{Month: month, Entries: out}
}

// Build assembles the full report for a month from a raw entry list.
func Build(month core.Month, entries []core.Entry) Report {
	snap := NewSnapshot(month, entries)
	r := Report{
		Snapshot: snap,
		Branches: snap.BranchSegments(),
		Leaves:   snap.LeaveSegments(),
		Holidays: snap.HolidayBuckets(),
		Totals:   snap.Totals(),
	}
	for _, seg := range r.Branches {
		r.Days.ManDays += seg.ManDays
	}
	for _, seg := range r.Leaves {
		r.Days.Leaves += seg.Count
	}
	for _, b := range r.Holidays {
		r.Days.Holidays += b.Count
	}
	r.Days.Grand = r.Days.ManDays + r.Days.Leaves + r.Days.Holidays
	return r
}

// Entry returns the snapshot entry for a calendar date, if any.
func (s Snapshot) Entry(d core.Date) (core.Entry, bool) {
	for _, e := range s.Entries {
		if e.Date == d {
			return e, true
		}
	}
	return core.Entry{}, false
}

// IsEffectiveHoliday reports whether the entry's day counts as a holiday in
// reports: the automatic calendar rule always wins, a manual Holiday status
// wins over everything but that.
func IsEffectiveHoliday(e core.Entry) bool {
	return core.IsHoliday(e.Date) || e.DayStatus == core.StatusHoliday
}

// Totals sums halting, lodging, and travel over genuine inspection days.
func (s Snapshot) Totals() Totals {
	var t Totals
	for _, e := range s.Entries {
		if e.DayStatus != core.StatusInspection || IsEffectiveHoliday(e) {
			continue
		}
		for _, item := range e.OtherExpenses {
			t.Halting = t.Halting.Add(item.Halting)
			t.Lodging = t.Lodging.Add(item.Lodging)
		}
		for _, leg := range e.OnwardJourney {
			t.Travel = t.Travel.Add(leg.Amount)
		}
		for _, leg := range e.ReturnJourney {
			t.Travel = t.Travel.Add(leg.Amount)
		}
	}
	t.Total = t.Halting.Add(t.Lodging).Add(t.Travel)
	return t
}
