package report

import (
	"strings"

	"tourbill/internal/core"
)

type (
	// BranchSegment is a maximal run of calendar-consecutive inspection
	// days at the same (branch, dpCode, inspectionType).
	BranchSegment struct {
		Branch         string
		DPCode         string
		InspectionType string
		From           core.Date
		To             core.Date
		ManDays        int
		Days           []int // day-of-month numbers, for display
	}

	// LeaveSegment is a maximal run of calendar-consecutive leave days.
	LeaveSegment struct {
		From  core.Date
		To    core.Date
		Count int
		Days  []int
	}

	// HolidayBucket accumulates holiday days by nature across the whole
	// month; holidays are bucketed, not run-length grouped.
	HolidayBucket struct {
		Nature string
		Count  int
		Days   []int
	}

	// DayTotals partitions the month's saved-entry dates across the three
	// categories.
	DayTotals struct {
		ManDays  int
		Leaves   int
		Holidays int
		Grand    int
	}
)

// BranchSegments walks the snapshot in date order and groups inspection
// days into segments. Any holiday, leave, non-inspection, or blank-branch
// day closes the open segment without starting a new one; a change of
// branch, DP code or inspection type, or a gap in dates, starts a fresh
// segment.
func (s Snapshot) BranchSegments() []BranchSegment {
	var segs []BranchSegment
	var cur *BranchSegment
	for _, e := range s.Entries {
		if IsEffectiveHoliday(e) || e.DayStatus != core.StatusInspection || strings.TrimSpace(e.Branch) == "" {
			if cur != nil {
				segs = append(segs, *cur)
				cur = nil
			}
			continue
		}
		branch := strings.TrimSpace(e.Branch)
		dpCode := strings.TrimSpace(e.DPCode)
		insType := strings.TrimSpace(e.InspectionType)
		if cur != nil &&
			cur.Branch == branch &&
			cur.DPCode == dpCode &&
			cur.InspectionType == insType &&
			core.IsConsecutive(cur.To, e.Date) {
			cur.To = e.Date
			cur.ManDays++
			cur.Days = append(cur.Days, e.Date.Day)
			continue
		}
		if cur != nil {
			segs = append(segs, *cur)
		}
		cur = &BranchSegment{
			Branch:         branch,
			DPCode:         dpCode,
			InspectionType: insType,
			From:           e.Date,
			To:             e.Date,
			ManDays:        1,
			Days:           []int{e.Date.Day},
		}
	}
	if cur != nil {
		segs = append(segs, *cur)
	}
	return segs
}

// LeaveSegments groups consecutive genuine leave days. A leave entry that
// falls on a holiday (automatic or manual) counts as holiday, not leave.
func (s Snapshot) LeaveSegments() []LeaveSegment {
	var segs []LeaveSegment
	var cur *LeaveSegment
	for _, e := range s.Entries {
		if e.DayStatus != core.StatusLeave || IsEffectiveHoliday(e) {
			if cur != nil {
				segs = append(segs, *cur)
				cur = nil
			}
			continue
		}
		if cur != nil && core.IsConsecutive(cur.To, e.Date) {
			cur.To = e.Date
			cur.Count++
			cur.Days = append(cur.Days, e.Date.Day)
			continue
		}
		if cur != nil {
			segs = append(segs, *cur)
		}
		cur = &LeaveSegment{From: e.Date, To: e.Date, Count: 1, Days: []int{e.Date.Day}}
	}
	if cur != nil {
		segs = append(segs, *cur)
	}
	return segs
}

// HolidayBuckets counts holiday days per nature in the fixed order
// Sundays, Saturdays, Holidays. Empty buckets are omitted.
func (s Snapshot) HolidayBuckets() []HolidayBucket {
	byNature := map[string]*HolidayBucket{}
	for _, e := range s.Entries {
		if !IsEffectiveHoliday(e) {
			continue
		}
		nature := core.HolidayNature(e.Date)
		b, ok := byNature[nature]
		if !ok {
			b = &HolidayBucket{Nature: nature}
			byNature[nature] = b
		}
		b.Count++
		b.Days = append(b.Days, e.Date.Day)
	}
	var out []HolidayBucket
	for _, nature := range []string{core.NatureSundays, core.NatureSaturdays, core.NatureHolidays} {
		if b, ok := byNature[nature]; ok {
			out = append(out, *b)
		}
	}
	return out
}
