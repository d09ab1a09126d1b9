// Package date provides a day granularity Date and chronological series of values.
package date

import (
	"cmp"
	"encoding/json"
	"fmt"
	"iter"
	"time"
)

const (
	// DateFormat is the ISO 8601 layout dates are written with.
	DateFormat     = "2006-01-02"
	readDateFormat = "2006-1-2"

	Day = 24 * time.Hour
)

// Date represents a date with day-level granularity.
type Date struct {
	y int
	m time.Month
	d int
}

// Month returns the month of the date.
func (d Date) Month() time.Month { return d.m }

// Weekday returns the day of the week for the date.
func (d Date) Weekday() time.Weekday { return d.time().Weekday() }

// ISOWeek returns the ISO 8601 year and week number in which d occurs.
func (d Date) ISOWeek() (year, week int) { return d.time().ISOWeek() }

// time returns d at midnight UTC.
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// Time returns the day at midnight UTC.
func (d Date) Time() time.Time { return d.time() }

// New returns a normalized Date for the given year, month, and day.
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// FromTime returns the Date of t in t's own location.
func FromTime(t time.Time) Date { return New(t.Date()) }

// Before reports whether the day d is before x.
func (d Date) Before(x Date) bool { return d.Compare(x) < 0 }

// After reports whether the day d is after x.
func (d Date) After(x Date) bool { return d.Compare(x) > 0 }

// Compare returns -1, 0 or +1 whether d is before, equal or after x.
func (d Date) Compare(x Date) int {
	if c := cmp.Compare(d.y, x.y); c != 0 {
		return c
	}
	if c := cmp.Compare(d.m, x.m); c != 0 {
		return c
	}
	return cmp.Compare(d.d, x.d)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d == Date{} }

// Today returns the current date.
func Today() Date { return New(time.Now().Date()) }

// Add returns a new Date with the given number of days added.
func (d Date) Add(i int) Date { return New(d.y, d.m, d.d+i) }

// AddYears returns a new Date with the given number of years added.
// A 29th of February lands on the 1st of March of a non leap year.
func (d Date) AddYears(i int) Date { return New(d.y+i, d.m, d.d) }

// Sub returns the number of days between x and d.
func (d Date) Sub(x Date) int { return int(d.time().Sub(x.time()) / Day) }

// Year returns the year of d.
func (d Date) Year() int { return d.y }

// Day returns the day of the month of d.
func (d Date) Day() int { return d.d }

// String returns d in DateFormat.
func (d Date) String() string { return d.time().Format(DateFormat) }

// Format returns a textual representation of the date, see time.Time.Format.
func (d Date) Format(layout string) string { return d.time().Format(layout) }

// StartOf returns the first day of the period containing d. Weeks start on Monday.
func (d Date) StartOf(period Period) Date {
	switch period {
	case Weekly:
		back := (int(d.Weekday()) + 6) % 7 // days since Monday
		return d.Add(-back)
	case Monthly:
		return New(d.y, d.m, 1)
	case Quarterly:
		return New(d.y, d.m-(d.m-1)%3, 1)
	case Yearly:
		return New(d.y, time.January, 1)
	case Daily:
		return d
	}
	panic(fmt.Sprintf("invalid period %d", period))
}

// EndOf returns the last day of the period containing d.
func (d Date) EndOf(period Period) Date {
	switch period {
	case Weekly:
		return d.StartOf(Weekly).Add(6)
	case Monthly:
		return New(d.y, d.m+1, 0) // day 0 is the last day of the previous month
	case Quarterly:
		return New(d.y, d.StartOf(Quarterly).m+3, 0)
	case Yearly:
		return New(d.y, time.December, 31)
	case Daily:
		return d
	}
	panic(fmt.Sprintf("invalid period %d", period))
}

// Parse parses a Date. Single digit months and days are accepted, as in "2025-7-1".
func Parse(str string) (Date, error) {
	on, err := time.Parse(readDateFormat, str)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q want format %q: %w", str, readDateFormat, err)
	}
	return New(on.Date()), nil
}

// UnmarshalJSON reads a date from a JSON string.
func (d *Date) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := Parse(str)
	if err == nil {
		*d = parsed
	}
	return err
}

// MarshalJSON writes d as a "YYYY-MM-DD" JSON string.
func (d Date) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }

var (
	_ json.Marshaler   = Date{}
	_ json.Unmarshaler = (*Date)(nil)
)

// iterate merges sorted series of dates into one sorted sequence without duplicates.
func iterate(series ...[]Date) iter.Seq[Date] {
	return func(yield func(Date) bool) {
		next := make([]int, len(series)) // position of the next unread date in each series
		for {
			var (
				m  Date
				ok bool
			)
			for i, pos := range next {
				if pos < len(series[i]) && (!ok || series[i][pos].Before(m)) {
					m, ok = series[i][pos], true
				}
			}
			if !ok {
				return
			}
			for i, pos := range next {
				if pos < len(series[i]) && series[i][pos] == m {
					next[i]++
				}
			}
			if !yield(m) {
				return
			}
		}
	}
}

// Iterate returns the sorted union of the dates of histories. Nil histories are skipped.
func Iterate[T Value](histories ...*History[T]) iter.Seq[Date] {
	days := make([][]Date, 0, len(histories))
	for _, h := range histories {
		if h != nil {
			days = append(days, h.Days())
		}
	}
	return iterate(days...)
}
