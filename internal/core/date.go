package core

import (
	"fmt"
	"time"
)

type (
	// Date is a plain calendar date. No time of day, no zone: the tracker
	// only ever deals in local calendar days.
	Date struct {
		Year  int
		Month int // 1-12
		Day   int
	}

	// Month identifies a reporting month.
	Month struct {
		Year  int
		Month int // 1-12
	}
)

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}, nil
}

func (d Date) IsZero() bool {
	return d == Date{}
}

// Time returns the date at midnight UTC. Used for calendar arithmetic only.
func (d Date) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// Next returns the following calendar day, rolling over months and years.
func (d Date) Next() Date {
	t := d.Time().AddDate(0, 0, 1)
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// String renders the storage form, YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// DMY renders the report form, DD/MM/YYYY.
func (d Date) DMY() string {
	return fmt.Sprintf("%02d/%02d/%04d", d.Day, d.Month, d.Year)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrZeroDate
	}
	if d.Month < 1 || d.Month > 12 {
		return ErrInvalidMonth
	}
	if d.Day < 1 || d.Day > daysIn(d.Year, d.Month) {
		return ErrInvalidDay
	}
	return nil
}

// IsConsecutive reports whether b is exactly one calendar day after a.
func IsConsecutive(a, b Date) bool {
	return a.Next() == b
}

// NewMonth creates a Month token.
func NewMonth(year, month int) Month {
	return Month{Year: year, Month: month}
}

func (m Month) Contains(d Date) bool {
	return d.Year == m.Year && d.Month == m.Month
}

// Days enumerates every calendar date of the month in order.
func (m Month) Days() []Date {
	n := daysIn(m.Year, m.Month)
	days := make([]Date, n)
	for i := range days {
		days[i] = Date{Year: m.Year, Month: m.Month, Day: i + 1}
	}
	return days
}

// Label renders the display form, e.g. "March 2024".
func (m Month) Label() string {
	return fmt.Sprintf("%s %d", time.Month(m.Month), m.Year)
}

// String renders the token form, YYYY-MM.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, m.Month)
}

func (m Month) Validate() error {
	if m.Month < 1 || m.Month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

func daysIn(year, month int) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
