package core

import "testing"

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-05")
	if err != nil {
		t.Fatalf("ParseDate() error = %v", err)
	}
	if d != NewDate(2024, 3, 5) {
		t.Errorf("ParseDate() = %v, want 2024-03-05", d)
	}
	if _, err := ParseDate("2024-13-05"); err == nil {
		t.Error("ParseDate(2024-13-05) expected error")
	}
}

func TestIsConsecutive(t *testing.T) {
	tests := []struct {
		name string
		a, b Date
		want bool
	}{
		{name: "same month", a: NewDate(2024, 3, 1), b: NewDate(2024, 3, 2), want: true},
		{name: "gap", a: NewDate(2024, 3, 1), b: NewDate(2024, 3, 3), want: false},
		{name: "month rollover", a: NewDate(2024, 2, 29), b: NewDate(2024, 3, 1), want: true},
		{name: "year rollover", a: NewDate(2023, 12, 31), b: NewDate(2024, 1, 1), want: true},
		{name: "reversed", a: NewDate(2024, 3, 2), b: NewDate(2024, 3, 1), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsConsecutive(tt.a, tt.b); got != tt.want {
				t.Errorf("IsConsecutive(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestMonthDays(t *testing.T) {
	tests := []struct {
		name  string
		month Month
		want  int
	}{
		{name: "march", month: NewMonth(2024, 3), want: 31},
		{name: "leap february", month: NewMonth(2024, 2), want: 29},
		{name: "plain february", month: NewMonth(2023, 2), want: 28},
		{name: "april", month: NewMonth(2024, 4), want: 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days := tt.month.Days()
			if len(days) != tt.want {
				t.Fatalf("Days() length = %d, want %d", len(days), tt.want)
			}
			if days[0].Day != 1 || days[len(days)-1].Day != tt.want {
				t.Errorf("Days() range = %s..%s", days[0], days[len(days)-1])
			}
		})
	}
}

func TestDateFormatting(t *testing.T) {
	d := NewDate(2024, 3, 5)
	if got := d.String(); got != "2024-03-05" {
		t.Errorf("String() = %q", got)
	}
	if got := d.DMY(); got != "05/03/2024" {
		t.Errorf("DMY() = %q", got)
	}
	if got := NewMonth(2024, 3).Label(); got != "March 2024" {
		t.Errorf("Label() = %q", got)
	}
}
