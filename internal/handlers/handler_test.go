package handlers

import "testing"

func TestIsClockTime(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"06:30", true},
		{"6:30", true},
		{"0:00", true},
		{"23:59", true},
		{"24:00", false},
		{"12:60", false},
		{"45:30", false},
		{"1:02:03", false},
		{"06-30", false},
		{"легко", false},
	}
	for _, tt := range tests {
		if got := isClockTime(tt.input); got != tt.want {
			t.Errorf("isClockTime(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeClock(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"6:30", "06:30"},
		{"06:30", "06:30"},
		{"9:05", "09:05"},
		{"23:59", "23:59"},
	}
	for _, tt := range tests {
		if got := normalizeClock(tt.input); got != tt.want {
			t.Errorf("normalizeClock(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFormatKm(t *testing.T) {
	tests := []struct {
		input float64
		want  string
	}{
		{42.195, "42.195"},
		{21.1, "21.1"},
		{10, "10"},
	}
	for _, tt := range tests {
		if got := formatKm(tt.input); got != tt.want {
			t.Errorf("formatKm(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
