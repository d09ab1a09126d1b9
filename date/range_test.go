package date

import (
	"testing"
	"time"
)

func TestNewRange(t *testing.T) {
	wed := New(2025, time.September, 10)
	testCases := []struct {
		period Period
		in     Date
		want   Range
	}{
		{Daily, wed, Range{wed, wed}},
		{Weekly, wed, Range{New(2025, time.September, 8), New(2025, time.September, 14)}},
		{Weekly, New(2025, time.September, 14), Range{New(2025, time.September, 8), New(2025, time.September, 14)}},
		{Monthly, New(2024, time.February, 15), Range{New(2024, time.February, 1), New(2024, time.February, 29)}},
		{Quarterly, New(2025, time.May, 20), Range{New(2025, time.April, 1), New(2025, time.June, 30)}},
		{Yearly, wed, Range{New(2025, time.January, 1), New(2025, time.December, 31)}},
	}
	for _, tc := range testCases {
		t.Run(tc.period.String()+" "+tc.in.String(), func(t *testing.T) {
			if got := NewRange(tc.in, tc.period); got != tc.want {
				t.Errorf("NewRange(%v, %v) = %v, want %v", tc.in, tc.period, got, tc.want)
			}
			if p, ok := tc.want.Period(); !ok || p != tc.period {
				t.Errorf("%v.Period() = %v, %v want %v, true", tc.want, p, ok, tc.period)
			}
		})
	}
}

func TestRange_Identifier(t *testing.T) {
	testCases := []struct {
		name string
		in   Range
		want string
	}{
		{"daily", NewRange(New(2025, time.September, 8), Daily), "2025-09-08"},
		{"weekly", NewRange(New(2025, time.September, 8), Weekly), "2025-W37"},
		{"weekly across years", NewRange(New(2024, time.December, 31), Weekly), "2025-W01"},
		{"monthly", NewRange(New(2025, time.September, 1), Monthly), "2025-09"},
		{"quarterly", NewRange(New(2025, time.July, 1), Quarterly), "2025-Q3"},
		{"yearly", NewRange(New(2025, time.January, 1), Yearly), "2025"},
		{"special", Range{From: New(2025, time.January, 1), To: New(2026, time.December, 31)}, "2025-01-01_2026-12-31"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.Identifier(); got != tc.want {
				t.Errorf("Identifier() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestLastYears(t *testing.T) {
	r := LastYears(10, New(2025, time.October, 19))
	if r.From != New(2015, time.October, 19) || r.To != New(2025, time.October, 19) {
		t.Errorf("LastYears(10) = %v", r)
	}
	if !r.Contains(New(2020, time.January, 1)) || r.Contains(New(2015, time.October, 18)) {
		t.Errorf("Contains() does not include boundaries only")
	}
}
