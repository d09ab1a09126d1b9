package date

import "fmt"

// Range is a span of dates, both ends included.
type Range struct{ From, To Date }

// NewRange returns the range of the period containing d.
func NewRange(d Date, period Period) Range {
	return Range{From: d.StartOf(period), To: d.EndOf(period)}
}

// LastYears returns the range of the given number of years ending on 'to'.
func LastYears(years int, to Date) Range {
	return Range{From: to.AddYears(-years), To: to}
}

// Contains reports whether d is within r.
func (r Range) Contains(d Date) bool { return !d.Before(r.From) && !d.After(r.To) }

// Period returns the period whose range is exactly r, if any.
func (r Range) Period() (Period, bool) {
	for _, p := range Periods {
		if NewRange(r.From, p) == r {
			return p, true
		}
	}
	return Daily, false
}

// Identifier names r: "2025-09-08", "2025-W37", "2025-09", "2025-Q3" or "2025" for the
// range of a period, "<from>_<to>" otherwise.
func (r Range) Identifier() string {
	p, ok := r.Period()
	if !ok {
		return fmt.Sprintf("%s_%s", r.From, r.To)
	}
	y := r.From.Year()
	switch p {
	case Weekly:
		iy, w := r.From.ISOWeek()
		return fmt.Sprintf("%d-W%02d", iy, w)
	case Monthly:
		return fmt.Sprintf("%d-%02d", y, int(r.From.Month()))
	case Quarterly:
		return fmt.Sprintf("%d-Q%d", y, (int(r.From.Month())+2)/3)
	case Yearly:
		return fmt.Sprint(y)
	}
	return r.From.String()
}
