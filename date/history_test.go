package date

import (
	"slices"
	"testing"
)

func TestAppend(t *testing.T) {
	h := new(History[string])
	d1, v1 := New(2025, 07, 01), "25 Jul 1"
	d2, v2 := New(2024, 07, 01), "24 Jul 1"

	// Test is about appending two values in reverse order and checking that everything is
	// as expected at every step of the way.

	if h.Len() != 0 {
		t.Errorf("History.Len() = %v want 0", h.Len())
	}

	h.Append(d1, v1)
	if h.Len() != 1 {
		t.Errorf("Append(d1, v1).Len() = %v want 1", h.Len())
	}

	h.Append(d2, v2)
	if h.Len() != 2 {
		t.Errorf("Append(d2, v2).Len() = %v want 2", h.Len())
	}

	want := []point[string]{{d2, v2}, {d1, v1}}
	if !slices.Equal(h.points, want) {
		t.Errorf("history points = %v want %v", h.points, want)
	}
}

func TestAppendOverwrites(t *testing.T) {
	h := new(History[float64])
	d := New(2025, 1, 1)
	h.Append(d, 1).Append(d, 2)
	if h.Len() != 1 {
		t.Fatalf("Len() = %d want 1", h.Len())
	}
	if v, _ := h.Get(d); v != 2 {
		t.Errorf("Get() = %v want 2", v)
	}
}

func TestValueAsOf(t *testing.T) {
	h := new(History[float64])
	h.Append(New(2025, 1, 2), 10).Append(New(2025, 1, 5), 20)

	testCases := []struct {
		name   string
		on     Date
		want   float64
		wantOk bool
	}{
		{"before first", New(2025, 1, 1), 0, false},
		{"on first", New(2025, 1, 2), 10, true},
		{"in gap", New(2025, 1, 4), 10, true},
		{"on last", New(2025, 1, 5), 20, true},
		{"after last", New(2025, 2, 1), 20, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := h.ValueAsOf(tc.on)
			if got != tc.want || ok != tc.wantOk {
				t.Errorf("ValueAsOf(%v) = %v, %v want %v, %v", tc.on, got, ok, tc.want, tc.wantOk)
			}
		})
	}
}

func TestFirstLatest(t *testing.T) {
	h := new(History[float64])
	if d, v := h.First(); !d.IsZero() || v != 0 {
		t.Errorf("First() on empty = %v, %v want zero values", d, v)
	}
	h.Append(New(2025, 3, 1), 3).Append(New(2025, 1, 1), 1)
	if d, v := h.First(); d != New(2025, 1, 1) || v != 1 {
		t.Errorf("First() = %v, %v want 2025-01-01, 1", d, v)
	}
	if d, v := h.Latest(); d != New(2025, 3, 1) || v != 3 {
		t.Errorf("Latest() = %v, %v want 2025-03-01, 3", d, v)
	}
}

func TestClone(t *testing.T) {
	h := new(History[float64]).Append(New(2025, 1, 1), 1)
	c := h.Clone()
	c.Append(New(2025, 1, 2), 2)
	if h.Len() != 1 {
		t.Errorf("Clone() shares memory with the original")
	}
	if !h.Equal(h.Clone()) {
		t.Errorf("Equal(Clone()) = false want true")
	}
}
