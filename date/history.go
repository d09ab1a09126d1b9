package date

import (
	"iter"
	"slices"
)

// Value is the set of types a History can hold.
type Value interface {
	float32 | float64 | string
}

type point[T Value] struct {
	on    Date
	value T
}

// History is a series of values indexed by unique dates, kept in chronological order.
type History[T Value] struct {
	points []point[T]
}

// Len returns the number of points.
func (h *History[T]) Len() int { return len(h.points) }

// First returns the earliest point, or zero values when h is empty.
func (h *History[T]) First() (Date, T) {
	if len(h.points) == 0 {
		var zero T
		return Date{}, zero
	}
	p := h.points[0]
	return p.on, p.value
}

// Latest returns the most recent point, or zero values when h is empty.
func (h *History[T]) Latest() (Date, T) {
	if len(h.points) == 0 {
		var zero T
		return Date{}, zero
	}
	p := h.points[len(h.points)-1]
	return p.on, p.value
}

// Append sets the value on a date, replacing any previous one.
func (h *History[T]) Append(on Date, v T) *History[T] {
	i, found := h.search(on)
	if found {
		h.points[i].value = v
		return h
	}
	h.points = slices.Insert(h.points, i, point[T]{on, v})
	return h
}

// Values iterates over the points in chronological order.
func (h *History[T]) Values() iter.Seq2[Date, T] {
	return func(yield func(Date, T) bool) {
		for _, p := range h.points {
			if !yield(p.on, p.value) {
				return
			}
		}
	}
}

// Days returns the dates of h, in chronological order.
func (h *History[T]) Days() []Date {
	days := make([]Date, len(h.points))
	for i, p := range h.points {
		days[i] = p.on
	}
	return days
}

// Get returns the value on day exactly.
func (h *History[T]) Get(day Date) (T, bool) {
	if i, found := h.search(day); found {
		return h.points[i].value, true
	}
	var zero T
	return zero, false
}

// ValueAsOf returns the value on day, or else the latest one before it. It reports false
// when h starts after day.
func (h *History[T]) ValueAsOf(day Date) (T, bool) {
	i, found := h.search(day)
	switch {
	case found:
		return h.points[i].value, true
	case i > 0:
		return h.points[i-1].value, true
	}
	var zero T
	return zero, false
}

// search returns the position of day in h, or where it would be inserted.
func (h *History[T]) search(day Date) (int, bool) {
	return slices.BinarySearchFunc(h.points, day, func(p point[T], d Date) int { return p.on.Compare(d) })
}

// Clone returns an independent copy of h.
func (h *History[T]) Clone() *History[T] {
	return &History[T]{points: slices.Clone(h.points)}
}

// Equal reports whether h and x hold the same points.
func (h *History[T]) Equal(x *History[T]) bool { return slices.Equal(h.points, x.points) }
