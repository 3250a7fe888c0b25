package core

import "time"

// Holiday bucket natures used by the monthly summary.
const (
	NatureSundays   = "Sundays"
	NatureSaturdays = "Saturdays"
	NatureHolidays  = "Holidays"
)

// IsHoliday reports whether the date is an automatic holiday: a Sunday, or a
// Saturday falling on day-of-month 8-14 (2nd Saturday) or 22-28 (4th
// Saturday). Purely arithmetic, no holiday calendar.
func IsHoliday(d Date) bool {
	switch d.Weekday() {
	case time.Sunday:
		return true
	case time.Saturday:
		return (d.Day >= 8 && d.Day <= 14) || (d.Day >= 22 && d.Day <= 28)
	}
	return false
}

// IsHolidayYMD is IsHoliday over a plain (year, month, day) triple.
func IsHolidayYMD(year, month, day int) bool {
	return IsHoliday(NewDate(year, month, day))
}

// IsHolidayString is IsHoliday over a YYYY-MM-DD string. Unparseable input
// is simply not a holiday.
func IsHolidayString(s string) bool {
	d, err := ParseDate(s)
	if err != nil {
		return false
	}
	return IsHoliday(d)
}

// HolidayNature classifies a holiday date for bucketing: Sundays, Saturdays,
// or Holidays for a manually marked holiday on any other weekday.
func HolidayNature(d Date) string {
	switch d.Weekday() {
	case time.Sunday:
		return NatureSundays
	case time.Saturday:
		return NatureSaturdays
	}
	return NatureHolidays
}
