package domain

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
		ok    bool
	}{
		{
			name:  "two-digit year maps to 2000s",
			input: "15/01/25",
			want:  time.Date(2025, time.January, 15, 0, 0, 0, 0, time.Local),
			ok:    true,
		},
		{
			name:  "four-digit year accepted",
			input: "03/07/2024",
			want:  time.Date(2024, time.July, 3, 0, 0, 0, 0, time.Local),
			ok:    true,
		},
		{
			name:  "whitespace tolerated",
			input: " 15/01/25 ",
			want:  time.Date(2025, time.January, 15, 0, 0, 0, 0, time.Local),
			ok:    true,
		},
		{
			name:  "overflow rolls over instead of failing",
			input: "31/02/25",
			want:  time.Date(2025, time.March, 3, 0, 0, 0, 0, time.Local),
			ok:    true,
		},
		{
			name:  "iso fallback",
			input: "2025-01-15",
			want:  time.Date(2025, time.January, 15, 0, 0, 0, 0, time.Local),
			ok:    true,
		},
		{
			name:  "rfc3339 fallback",
			input: "2025-01-15T10:30:00Z",
			want:  time.Date(2025, time.January, 15, 0, 0, 0, 0, time.Local),
			ok:    true,
		},
		{
			name:  "non-numeric slash parts fail",
			input: "aa/bb/cc",
			ok:    false,
		},
		{
			name:  "free text fails",
			input: "not a date",
			ok:    false,
		},
		{
			name:  "empty string fails",
			input: "",
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseDate(%q) ok = %v; want %v", tt.input, ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v; want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidDate(t *testing.T) {
	tests := []struct {
		name           string
		input          string
		allowFourDigit bool
		want           bool
	}{
		{name: "valid strict form", input: "15/01/25", want: true},
		{name: "leap day on leap year", input: "29/02/24", want: true},
		{name: "leap day on non-leap year", input: "29/02/25", want: false},
		{name: "feb 30 rejected", input: "30/02/25", want: false},
		{name: "month 13 rejected", input: "01/13/25", want: false},
		{name: "four-digit year rejected by default", input: "15/01/2025", want: false},
		{name: "four-digit year admitted when allowed", input: "15/01/2025", allowFourDigit: true, want: true},
		{name: "strict form still valid when relaxed", input: "15/01/25", allowFourDigit: true, want: true},
		{name: "single-digit day rejected", input: "5/01/25", want: false},
		{name: "iso format rejected", input: "2025-01-15", want: false},
		{name: "empty rejected", input: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidDate(tt.input, tt.allowFourDigit); got != tt.want {
				t.Errorf("ValidDate(%q, %v) = %v; want %v", tt.input, tt.allowFourDigit, got, tt.want)
			}
		})
	}
}
