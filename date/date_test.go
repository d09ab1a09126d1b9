package date

import (
	"encoding/json"
	"slices"
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestNewNormalizes(t *testing.T) {
	if got, want := New(2025, time.January, 32), New(2025, time.February, 1); got != want {
		t.Errorf("New(2025, 1, 32) = %v want %v", got, want)
	}
}

func TestParse(t *testing.T) {
	testCases := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{"2025-07-01", New(2025, time.July, 1), false},
		{"2025-7-1", New(2025, time.July, 1), false},
		{"2025/07/01", Date{}, true},
		{"", Date{}, true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Parse(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("Parse(%q) = %v want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	a, b := New(2024, time.December, 31), New(2025, time.January, 1)
	if a.Compare(b) != -1 || b.Compare(a) != 1 || a.Compare(a) != 0 {
		t.Errorf("Compare() is not a total order on %v and %v", a, b)
	}
	if !a.Before(b) || !b.After(a) {
		t.Errorf("Before/After inconsistent with Compare")
	}
}

func TestAddYears(t *testing.T) {
	testCases := []struct {
		name string
		in   Date
		n    int
		want Date
	}{
		{"plain", New(2025, time.March, 10), -5, New(2020, time.March, 10)},
		{"leap day", New(2024, time.February, 29), 1, New(2025, time.March, 1)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.AddYears(tc.n); got != tc.want {
				t.Errorf("%v.AddYears(%d) = %v want %v", tc.in, tc.n, got, tc.want)
			}
		})
	}
}

func TestSub(t *testing.T) {
	if got := New(2025, time.March, 1).Sub(New(2025, time.February, 1)); got != 28 {
		t.Errorf("Sub() = %d want 28", got)
	}
}

func TestJSON(t *testing.T) {
	d := New(2025, time.July, 1)
	buf, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("json.Marshal() unexpected error: %v", err)
	}
	if string(buf) != `"2025-07-01"` {
		t.Errorf("json.Marshal() = %s want %q", buf, "2025-07-01")
	}
	var got Date
	if err := json.Unmarshal(buf, &got); err != nil {
		t.Fatalf("json.Unmarshal() unexpected error: %v", err)
	}
	if got != d {
		t.Errorf("json.Unmarshal() = %v want %v", got, d)
	}
}

func TestIterate(t *testing.T) {
	d1, d2, d3, d4 := New(2025, 1, 1), New(2025, 1, 2), New(2025, 1, 3), New(2025, 1, 4)
	a := new(History[float64]).Append(d1, 1).Append(d3, 3)
	b := new(History[float64]).Append(d2, 2).Append(d3, 3).Append(d4, 4)

	got := slices.Collect(Iterate(a, b, nil))
	want := []Date{d1, d2, d3, d4}
	if !slices.Equal(got, want) {
		t.Errorf("Iterate() = %v want %v", got, want)
	}
}

func TestIterateEmpty(t *testing.T) {
	if got := slices.Collect(Iterate[float64]()); len(got) != 0 {
		t.Errorf("Iterate() = %v want empty", got)
	}
}
