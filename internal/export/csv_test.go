package export

import (
	"strings"
	"testing"
	"time"

	"tourbill/internal/core"
	"tourbill/internal/report"
)

func mustDate(t *testing.T, s string) core.Date {
	t.Helper()
	d, err := core.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func savedAt() *time.Time {
	ts := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)
	return &ts
}

func marchReport(t *testing.T) report.Report {
	t.Helper()
	entries := []core.Entry{
		{
			// Sunday: auto-holiday even though it was entered as Inspection.
			ID:             "e0",
			Date:           mustDate(t, "2024-03-03"),
			DayStatus:      core.StatusInspection,
			Branch:         "Central Branch",
			DPCode:         "DP01",
			InspectionType: "RBIA",
			LastSavedAt:    savedAt(),
		},
		{
			ID:             "e1",
			Date:           mustDate(t, "2024-03-04"),
			DayStatus:      core.StatusInspection,
			Branch:         "Central Branch",
			DPCode:         "DP01",
			InspectionType: "RBIA",
			OnwardJourney: []core.JourneyLeg{{
				From:        "HQ",
				StartTime:   "09:00",
				To:          "Central Branch",
				ArrivedTime: "10:30",
				DistanceKM:  42.5,
				TravelBy:    "Train",
				Amount:      core.Money{Cents: 15000},
			}},
			ReturnJourney: []core.JourneyLeg{{
				From:        "Central Branch",
				StartTime:   "17:00",
				To:          "HQ",
				ArrivedTime: "18:30",
			}},
			OtherExpenses: []core.ExpenseItem{{Halting: core.Money{Cents: 20000}}},
			LastSavedAt:   savedAt(),
		},
		{
			ID:          "e2",
			Date:        mustDate(t, "2024-03-05"),
			DayStatus:   core.StatusLeave,
			LastSavedAt: savedAt(),
		},
		{
			// Weekday marked as a holiday by hand.
			ID:          "e3",
			Date:        mustDate(t, "2024-03-06"),
			DayStatus:   core.StatusHoliday,
			LastSavedAt: savedAt(),
		},
		{
			// Second Saturday: auto-holiday.
			ID:          "e4",
			Date:        mustDate(t, "2024-03-09"),
			DayStatus:   core.StatusHoliday,
			LastSavedAt: savedAt(),
		},
	}
	return report.Build(core.Month{Year: 2024, Month: 3}, entries)
}

func assertLine(t *testing.T, doc, line string) {
	t.Helper()
	if !strings.Contains(doc, line+"\n") {
		t.Errorf("document missing line %q", line)
	}
}

func TestDocumentHeaderAndAllowances(t *testing.T) {
	doc := Document(marchReport(t), Meta{
		TourName:      "Q1 Inspection Tour",
		InspectorName: "A. Kumar",
		EmployeeID:    "E123",
		Currency:      "INR",
	})

	assertLine(t, doc, "TOUR EXPENSE REPORT - March 2024")
	assertLine(t, doc, `Inspector Name:,"A. Kumar"`)
	assertLine(t, doc, `Employee ID:,"E123"`)
	assertLine(t, doc, `Tour Name:,"Q1 Inspection Tour"`)
	assertLine(t, doc, `Report Month:,"March 2024"`)
	assertLine(t, doc, `Total Halting Allowance:,,,,,,,,,,,"200.00"`)
	assertLine(t, doc, `Total Lodging Allowance:,,,,,,,,,,,"0.00"`)
	assertLine(t, doc, `Total Travel Expenses:,,,,,,,,,,,"150.00"`)
	assertLine(t, doc, `TOTAL REIMBURSEMENT CLAIM:,,,,,,,,,,,"350.00 INR"`)
}

func TestDocumentSummaryTables(t *testing.T) {
	doc := Document(marchReport(t), Meta{Currency: "INR"})

	assertLine(t, doc, `1,"Central Branch","DP01","RBIA","04/03/2024","04/03/2024","Central Branch"`)
	assertLine(t, doc, `1,"Central Branch","DP01","04/03/2024","04/03/2024",1,"4"`)
	assertLine(t, doc, `1,"Leave","05/03/2024","05/03/2024",1,"5"`)

	// Only recorded entries feed the holiday buckets: the Sunday the 3rd,
	// the Saturday the 9th and the hand-marked 6th.
	assertLine(t, doc, `1,"Sundays",1,"3"`)
	assertLine(t, doc, `2,"Saturdays",1,"9"`)
	assertLine(t, doc, `3,"Holidays",1,"6"`)
	assertLine(t, doc, "Total,,3")

	assertLine(t, doc, `1,"Man Days",1`)
	assertLine(t, doc, `2,"Leaves",1`)
	assertLine(t, doc, `3,"Holidays",3`)
	assertLine(t, doc, `4,"",`)
	assertLine(t, doc, "Total,,5")
}

func TestDocumentAuditLog(t *testing.T) {
	doc := Document(marchReport(t), Meta{Currency: "INR"})

	// Inspection day: onward row carries date, distance, fare, allowances;
	// the return leg defaults its mode to Bus and blanks the allowances.
	assertLine(t, doc, `04/03/2024,"RBIA",Onward,"HQ","09:00","Central Branch","10:30",42.5 km,"Train",150.00,-,-,200.00,-`)
	assertLine(t, doc, `,"Central Branch",Return,"Central Branch","17:00","HQ","18:30",-,"Bus",-,-,-,-,-`)

	// Sundays render as Holiday pairs even when an entry was recorded.
	assertLine(t, doc, `03/03/2024,"Holiday",Onward,"-","-","-","-",-,"-",-,-,-,-,-`)
	assertLine(t, doc, `,"Holiday",Return,"-","-","-","-",-,"-",-,-,-,-,-`)

	// Plain weekday with no entry.
	assertLine(t, doc, `01/03/2024,"-",Onward,"-","-","-","-",-,"-",-,-,-,-,-`)

	// Leave day suppresses every journey and expense field.
	assertLine(t, doc, `05/03/2024,"Leave",Onward,"-","-","-","-",-,"-",-,-,-,-,-`)

	// Two rows for each of the 31 calendar days.
	idx := strings.Index(doc, "--- SHEET 2: DETAILED AUDIT LOG ---")
	if idx < 0 {
		t.Fatal("audit log section missing")
	}
	audit := strings.TrimRight(doc[idx:], "\n")
	lines := strings.Split(audit, "\n")
	// Section title, blank line, column header, then the day rows.
	if got, want := len(lines)-3, 62; got != want {
		t.Errorf("audit rows = %d, want %d", got, want)
	}
}

func TestDocumentEmptyMonthPlaceholders(t *testing.T) {
	doc := Document(report.Build(core.Month{Year: 2024, Month: 3}, nil), Meta{Currency: "INR"})

	assertLine(t, doc, `-,"No inspection data recorded for this month"`)
	assertLine(t, doc, `-,"No detailed inspection data available"`)
	assertLine(t, doc, `-,"No leave data available for this month"`)
	// No entries means no holiday buckets either.
	assertLine(t, doc, `-,"No holiday data available for this month"`)
	assertLine(t, doc, `10/03/2024,"Holiday",Onward,"-","-","-","-",-,"-",-,-,-,-,-`)
	assertLine(t, doc, `TOTAL REIMBURSEMENT CLAIM:,,,,,,,,,,,"0.00 INR"`)
}

func TestFilename(t *testing.T) {
	if got := Filename(core.Month{Year: 2024, Month: 3}); got != "Tour_Report_March_2024.csv" {
		t.Errorf("Filename = %q", got)
	}
}
