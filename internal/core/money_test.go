package core

import "testing"

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    int64
		wantErr bool
	}{
		{name: "plain", in: "12.34", want: 1234},
		{name: "comma separator", in: "12,34", want: 1234},
		{name: "no fraction", in: "200", want: 20000},
		{name: "rounds down", in: "12.344", want: 1234},
		{name: "rounds up", in: "12.346", want: 1235},
		{name: "empty is zero", in: "", want: 0},
		{name: "zero", in: "0", want: 0},
		{name: "negative rejected", in: "-5", wantErr: true},
		{name: "garbage rejected", in: "12.3.4", wantErr: true},
		{name: "letters rejected", in: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAmount(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && got.Cents != tt.want {
				t.Errorf("ParseAmount(%q) = %d cents, want %d", tt.in, got.Cents, tt.want)
			}
		})
	}
}

func TestMoneyFormat(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{cents: 0, want: "0.00"},
		{cents: 5, want: "0.05"},
		{cents: 1234, want: "12.34"},
		{cents: 65000, want: "650.00"},
		{cents: -150, want: "-1.50"},
	}

	for _, tt := range tests {
		if got := (Money{Cents: tt.cents}).Format(); got != tt.want {
			t.Errorf("Money{%d}.Format() = %q, want %q", tt.cents, got, tt.want)
		}
	}
}
