package date

import (
	"fmt"
	"strings"
)

// Period is a standard calendar period, used to sample a daily series.
type Period int

const (
	Daily Period = iota
	Weekly
	Monthly
	Quarterly
	Yearly
)

// Periods lists every period, from the shortest.
var Periods = []Period{Daily, Weekly, Monthly, Quarterly, Yearly}

var periodNames = [...]struct{ adjective, noun string }{
	Daily:     {"daily", "day"},
	Weekly:    {"weekly", "week"},
	Monthly:   {"monthly", "month"},
	Quarterly: {"quarterly", "quarter"},
	Yearly:    {"yearly", "year"},
}

func (p Period) valid() bool { return p >= Daily && p <= Yearly }

func (p Period) String() string {
	if !p.valid() {
		return fmt.Sprintf("Period(%d)", int(p))
	}
	return periodNames[p].adjective
}

// Range returns the range of the period that contains d.
func (p Period) Range(d Date) Range { return NewRange(d, p) }

// ParsePeriod parses a period name, adjective or noun ("monthly" or "month").
func ParsePeriod(s string) (Period, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, p := range Periods {
		if s == periodNames[p].adjective || s == periodNames[p].noun {
			return p, nil
		}
	}
	return Daily, fmt.Errorf("unknown period %q, want one of %v", s, Periods)
}

// Set implements flag.Value.
func (p *Period) Set(s string) error {
	v, err := ParsePeriod(s)
	if err != nil {
		return err
	}
	*p = v
	return nil
}
