package core

import "testing"

func TestIsHoliday(t *testing.T) {
	tests := []struct {
		name string
		date Date
		want bool
	}{
		{name: "sunday", date: NewDate(2024, 3, 3), want: true},
		{name: "plain weekday", date: NewDate(2024, 3, 4), want: false},
		{name: "first saturday", date: NewDate(2024, 3, 2), want: false},
		{name: "second saturday", date: NewDate(2024, 3, 9), want: true},
		{name: "third saturday", date: NewDate(2024, 3, 16), want: false},
		{name: "fourth saturday", date: NewDate(2024, 3, 23), want: true},
		{name: "fifth saturday", date: NewDate(2024, 3, 30), want: false},
		// Window boundaries of the 2nd-Saturday rule.
		{name: "saturday on the 7th", date: NewDate(2025, 6, 7), want: false},
		{name: "saturday on the 8th", date: NewDate(2025, 3, 8), want: true},
		{name: "saturday on the 14th", date: NewDate(2026, 3, 14), want: true},
		{name: "saturday on the 15th", date: NewDate(2025, 3, 15), want: false},
		// Window boundaries of the 4th-Saturday rule.
		{name: "saturday on the 21st", date: NewDate(2026, 3, 21), want: false},
		{name: "saturday on the 22nd", date: NewDate(2025, 3, 22), want: true},
		{name: "saturday on the 28th", date: NewDate(2026, 3, 28), want: true},
		{name: "saturday on the 29th", date: NewDate(2025, 3, 29), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsHoliday(tt.date); got != tt.want {
				t.Errorf("IsHoliday(%s) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}
}

func TestIsHolidayString(t *testing.T) {
	if !IsHolidayString("2024-03-10") {
		t.Error("IsHolidayString(2024-03-10) = false, want true (Sunday)")
	}
	if IsHolidayString("2024-03-11") {
		t.Error("IsHolidayString(2024-03-11) = true, want false (Monday)")
	}
	if IsHolidayString("not-a-date") {
		t.Error("IsHolidayString(not-a-date) = true, want false")
	}
}

func TestHolidayNature(t *testing.T) {
	tests := []struct {
		name string
		date Date
		want string
	}{
		{name: "sunday", date: NewDate(2024, 3, 10), want: NatureSundays},
		{name: "saturday", date: NewDate(2024, 3, 9), want: NatureSaturdays},
		{name: "weekday marked holiday", date: NewDate(2024, 3, 12), want: NatureHolidays},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HolidayNature(tt.date); got != tt.want {
				t.Errorf("HolidayNature(%s) = %q, want %q", tt.date, got, tt.want)
			}
		})
	}
}
