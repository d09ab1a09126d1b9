package folio

import (
	"slices"

	"github.com/etnz/folio/date"
)

// Table is a set of labeled columns sharing one calendar. Missing cells are NaN.
type Table struct {
	Days   []date.Date
	Labels []string
	Values [][]float64 // Values[column][row]
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Days) }

// Column returns the column labeled label.
func (t *Table) Column(label string) ([]float64, bool) {
	i := slices.Index(t.Labels, label)
	if i < 0 {
		return nil, false
	}
	return t.Values[i], true
}

// Row returns the cells of row i, in column order.
func (t *Table) Row(i int) []float64 {
	row := make([]float64, len(t.Values))
	for col, values := range t.Values {
		row[col] = values[i]
	}
	return row
}

// Series is a single labeled time series.
type Series struct {
	Label  string
	Days   []date.Date
	Values []float64
}

// Len returns the number of points.
func (s *Series) Len() int { return len(s.Days) }
