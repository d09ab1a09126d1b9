// Package renderer renders portfolio analytics as markdown.
package renderer

import (
	"fmt"
	"math"
	"slices"

	"github.com/Rhymond/go-money"
	"github.com/etnz/folio/date"
	md "github.com/nao1215/markdown"
	"github.com/shopspring/decimal"
)

// sample returns the index of the last row of each period covered by days.
func sample(days []date.Date, period date.Period) []int {
	var rows []int
	for i, day := range days {
		if i+1 < len(days) && days[i+1].StartOf(period) == day.StartOf(period) {
			continue
		}
		rows = append(rows, i)
	}
	return rows
}

// formatPercent formats a fraction as a percentage, e.g. "12.50%".
func formatPercent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	return decimal.NewFromFloat(v).Shift(2).StringFixed(2) + "%"
}

// formatSignedPercent formats a rate, with its sign, e.g. "+3.20%".
func formatSignedPercent(v float64) string {
	s := formatPercent(v)
	if s != "-" && v >= 0 {
		return "+" + s
	}
	return s
}

// formatValue formats a scaled price or a worth.
func formatValue(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	return decimal.NewFromFloat(v).StringFixed(4)
}

// formatCurrency returns the currency code, with its symbol when it differs.
func formatCurrency(code string) string {
	if code == "" {
		return "-"
	}
	c := money.GetCurrency(code)
	if c == nil || c.Grapheme == "" || c.Grapheme == code {
		return code
	}
	return fmt.Sprintf("%s (%s)", code, c.Grapheme)
}

// orDash returns s or a dash when s is empty.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// alignment returns the alignments of a table of n columns whose first column is a label
// and the others are numbers.
func alignment(n int) []md.TableAlignment {
	a := slices.Repeat([]md.TableAlignment{md.AlignRight}, n)
	if n > 0 {
		a[0] = md.AlignLeft
	}
	return a
}
