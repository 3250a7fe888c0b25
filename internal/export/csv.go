// Package export renders a monthly report into the fixed comma-delimited
// document downstream spreadsheets expect. Section titles and column
// headers are literal contract: existing consumers key on them.
package export

import (
	"strconv"
	"strings"

	"tourbill/internal/core"
	"tourbill/internal/report"
)

// Meta carries the header-block fields of the export document.
type Meta struct {
	TourName      string
	InspectorName string
	EmployeeID    string
	Currency      string
}

const (
	dash       = "-"
	doubleRule = "=================================================="
	singleRule = "--------------------------------------------------"
)

// Filename is the suggested download name, e.g. Tour_Report_March_2024.csv.
func Filename(m core.Month) string {
	return "Tour_Report_" + strings.ReplaceAll(m.Label(), " ", "_") + ".csv"
}

// Document renders the complete report: header block, allowance summary,
// the five Sheet-1 summary tables, and the Sheet-2 two-rows-per-day audit
// log covering every calendar date of the month.
func Document(r report.Report, meta Meta) string {
	var b strings.Builder
	label := r.Snapshot.Month.Label()

	b.WriteString("TOUR EXPENSE REPORT - " + label + "\n")
	b.WriteString(doubleRule + "\n")
	b.WriteString("Inspector Name:," + quote(meta.InspectorName) + "\n")
	b.WriteString("Employee ID:," + quote(meta.EmployeeID) + "\n")
	b.WriteString("Tour Name:," + quote(meta.TourName) + "\n")
	b.WriteString("Report Month:," + quote(label) + "\n")
	b.WriteString(doubleRule + "\n\n")

	writeAllowances(&b, r.Totals, meta.Currency)
	writeSheet1(&b, r)
	writeSheet2(&b, r)

	return b.String()
}

func writeAllowances(b *strings.Builder, t report.Totals, currency string) {
	pad := strings.Repeat(",", 11)
	b.WriteString("SUMMARY OF ALLOWANCES\n")
	b.WriteString(singleRule + "\n")
	b.WriteString("Total Halting Allowance:" + pad + quote(t.Halting.Format()) + "\n")
	b.WriteString("Total Lodging Allowance:" + pad + quote(t.Lodging.Format()) + "\n")
	b.WriteString("Total Travel Expenses:" + pad + quote(t.Travel.Format()) + "\n")
	b.WriteString("TOTAL REIMBURSEMENT CLAIM:" + pad + quote(t.Total.Format()+" "+currency) + "\n\n")
}

func writeSheet1(b *strings.Builder, r report.Report) {
	b.WriteString("--- SHEET 1: SUMMARIES ---\n\n")

	b.WriteString("1. PARTICULARS OF DUTY\n")
	b.WriteString("Sl.No,Branch Name,DP Code,Inspection Type,From,To,Place of Operation\n")
	if len(r.Branches) == 0 {
		b.WriteString(dash + "," + quote("No inspection data recorded for this month") + "\n")
	}
	for i, seg := range r.Branches {
		b.WriteString(strconv.Itoa(i+1) + "," + quote(seg.Branch) + "," + quote(seg.DPCode) + "," +
			quote(seg.InspectionType) + "," + quote(seg.From.DMY()) + "," + quote(seg.To.DMY()) + "," +
			quote(seg.Branch) + "\n")
	}
	b.WriteString("\n")

	b.WriteString("2. TOTAL MANDAYS ATTENDED\n")
	b.WriteString("Sl.No,Branch,DP Code,From,To,Man Days,Dates\n")
	if len(r.Branches) == 0 {
		b.WriteString(dash + "," + quote("No detailed inspection data available") + "\n")
	}
	for i, seg := range r.Branches {
		b.WriteString(strconv.Itoa(i+1) + "," + quote(seg.Branch) + "," + quote(seg.DPCode) + "," +
			quote(seg.From.DMY()) + "," + quote(seg.To.DMY()) + "," + strconv.Itoa(seg.ManDays) + "," +
			quote(dayList(seg.Days)) + "\n")
	}
	b.WriteString("\n")

	b.WriteString("3. LEAVES AVAILED\n")
	b.WriteString("Sl.No,Nature,From,To,No. of Days,Dates\n")
	if len(r.Leaves) == 0 {
		b.WriteString(dash + "," + quote("No leave data available for this month") + "\n")
	}
	for i, seg := range r.Leaves {
		b.WriteString(strconv.Itoa(i+1) + "," + quote("Leave") + "," + quote(seg.From.DMY()) + "," +
			quote(seg.To.DMY()) + "," + strconv.Itoa(seg.Count) + "," + quote(dayList(seg.Days)) + "\n")
	}
	b.WriteString("\n")

	b.WriteString("4. HOLIDAYS\n")
	b.WriteString("Sl.No,Nature,No. of Full Days,Dates\n")
	if len(r.Holidays) == 0 {
		b.WriteString(dash + "," + quote("No holiday data available for this month") + "\n")
	}
	for i, bucket := range r.Holidays {
		b.WriteString(strconv.Itoa(i+1) + "," + quote(bucket.Nature) + "," +
			strconv.Itoa(bucket.Count) + "," + quote(dayList(bucket.Days)) + "\n")
	}
	b.WriteString("Total,," + strconv.Itoa(r.Days.Holidays) + "\n\n")

	b.WriteString("5. TOTAL DAYS SUMMARY\n")
	b.WriteString("Sl.No,Nature,Total No. of Days\n")
	rows := []struct {
		nature string
		count  int
	}{
		{"Man Days", r.Days.ManDays},
		{"Leaves", r.Days.Leaves},
		{"Holidays", r.Days.Holidays},
		{"", 0}, // reserved blank row, kept for layout compatibility
	}
	for i, row := range rows {
		count := ""
		if row.count != 0 {
			count = strconv.Itoa(row.count)
		}
		b.WriteString(strconv.Itoa(i+1) + "," + quote(row.nature) + "," + count + "\n")
	}
	b.WriteString("Total,," + strconv.Itoa(r.Days.Grand) + "\n\n")
}

func writeSheet2(b *strings.Builder, r report.Report) {
	b.WriteString("--- SHEET 2: DETAILED AUDIT LOG ---\n\n")
	b.WriteString("Date,Category/Branch,O/R,Start From,Start Time,Arrival To,Arrival Time," +
		"Distance,Mode,Fare,Lodging,Boarding,Halting,Diem\n")

	for _, date := range r.Snapshot.Month.Days() {
		entry, found := r.Snapshot.Entry(date)
		isHoliday := core.IsHoliday(date) || (found && entry.DayStatus == core.StatusHoliday)
		isLeave := found && entry.DayStatus == core.StatusLeave
		offDuty := isHoliday || isLeave

		category, branch := dash, dash
		switch {
		case isHoliday:
			category, branch = "Holiday", "Holiday"
		case isLeave:
			category, branch = "Leave", "Leave"
		case found:
			category = textOr(entry.InspectionType, dash)
			branch = textOr(entry.Branch, dash)
		}

		var onward, returnLeg *core.JourneyLeg
		var halting, lodging core.Money
		if found {
			if len(entry.OnwardJourney) > 0 {
				onward = &entry.OnwardJourney[0]
			}
			if len(entry.ReturnJourney) > 0 {
				returnLeg = &entry.ReturnJourney[0]
			}
			for _, item := range entry.OtherExpenses {
				halting = halting.Add(item.Halting)
				lodging = lodging.Add(item.Lodging)
			}
		}

		// Onward row carries the date and the daily allowances; the return
		// row leaves the date blank to signal a continued span.
		b.WriteString(date.DMY() + "," + quote(category) + ",Onward," +
			legFields(onward, offDuty) + "," +
			moneyOr(lodging, offDuty) + "," + dash + "," + moneyOr(halting, offDuty) + "," + dash + "\n")
		b.WriteString("," + quote(branch) + ",Return," +
			legFields(returnLeg, offDuty) + "," +
			dash + "," + dash + "," + dash + "," + dash + "\n")
	}
}

// legFields renders the seven journey columns of one audit-log row:
// origin, start time, destination, arrival time, distance, mode, fare.
func legFields(leg *core.JourneyLeg, offDuty bool) string {
	if offDuty || leg == nil {
		return quote(dash) + "," + quote(dash) + "," + quote(dash) + "," + quote(dash) + "," +
			dash + "," + quote(dash) + "," + dash
	}
	distance := dash
	if leg.DistanceKM != 0 {
		distance = strconv.FormatFloat(leg.DistanceKM, 'f', -1, 64) + " km"
	}
	mode := leg.TravelBy
	if mode == "" {
		mode = "Bus" // default transport when a leg exists without a mode
	}
	fare := dash
	if !leg.Amount.IsZero() {
		fare = leg.Amount.Format()
	}
	return quote(textOr(leg.From, dash)) + "," + quote(textOr(leg.StartTime, dash)) + "," +
		quote(textOr(leg.To, dash)) + "," + quote(textOr(leg.ArrivedTime, dash)) + "," +
		distance + "," + quote(mode) + "," + fare
}

func moneyOr(m core.Money, offDuty bool) string {
	if offDuty || m.IsZero() {
		return dash
	}
	return m.Format()
}

func textOr(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func dayList(days []int) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ", ")
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
