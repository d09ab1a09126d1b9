package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
	md "github.com/nao1215/markdown"
)

// SummaryMarkdown renders the composition of the portfolio: its assets, their metadata and
// weights.
func SummaryMarkdown(p *folio.Portfolio) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Portfolio")
	doc.PlainText(fmt.Sprintf("%d assets over %d years, scaled to %s.", p.Len(), p.Horizon(), formatValue(p.Options().Baseline)))
	if p.Len() == 0 {
		return doc.String()
	}
	if days := p.Prices().Days(); len(days) > 0 {
		doc.PlainText(fmt.Sprintf("Prices from %s to %s.", days[0], days[len(days)-1]))
	}

	w := p.Weights()
	rows := make([][]string, 0, p.Len())
	for _, a := range p.Assets() {
		rows = append(rows, []string{
			a.Ticker,
			orDash(a.Name),
			formatCurrency(a.Currency),
			orDash(a.Market),
			orDash(a.Sector),
			formatPercent(w.Of(a.Ticker)),
		})
	}
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignRight},
		Header:    []string{"Ticker", "Name", "Currency", "Market", "Sector", "Weight"},
		Rows:      rows,
	})
	return doc.String()
}

// PricesMarkdown renders the scaled prices of every asset, one row per period.
func PricesMarkdown(p *folio.Portfolio, period date.Period) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Scaled Prices")
	t := p.ScaledPrices()
	if t.Len() == 0 {
		doc.PlainText("No prices.")
		return doc.String()
	}
	header := append([]string{"Date"}, t.Labels...)
	var rows [][]string
	for _, i := range sample(t.Days, period) {
		row := []string{t.Days[i].String()}
		for _, v := range t.Row(i) {
			row = append(row, formatValue(v))
		}
		rows = append(rows, row)
	}
	doc.Table(md.TableSet{Alignment: alignment(len(header)), Header: header, Rows: rows})
	return doc.String()
}

// WorthMarkdown renders the combined worth of the portfolio, one row per period.
func WorthMarkdown(p *folio.Portfolio, period date.Period) (string, error) {
	s, err := p.CombinedWorth()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(s.Label)
	var rows [][]string
	for _, i := range sample(s.Days, period) {
		rows = append(rows, []string{s.Days[i].String(), formatValue(s.Values[i])})
	}
	doc.Table(md.TableSet{Alignment: alignment(2), Header: []string{"Date", "Value"}, Rows: rows})
	return doc.String(), nil
}

// SplitMarkdown renders the distribution of the portfolio over the values of field.
func SplitMarkdown(field folio.Field, split folio.Split) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Split by %s", field))
	var rows [][]string
	for _, s := range split.Sorted() {
		key := orDash(s.Key)
		if field == folio.FieldCurrency {
			key = formatCurrency(s.Key)
		}
		rows = append(rows, []string{key, formatPercent(s.Weight)})
	}
	doc.Table(md.TableSet{Alignment: alignment(2), Header: []string{string(field), "Weight"}, Rows: rows})
	return doc.String()
}

// CAGRMarkdown renders the compound annual growth rate of every asset and of the combined
// worth.
func CAGRMarkdown(p *folio.Portfolio) (string, error) {
	cagr, err := p.CAGR()
	if err != nil {
		return "", err
	}
	combined, err := p.CombinedCAGR()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Annual Growth")
	rows := make([][]string, 0, p.Len()+1)
	for _, a := range p.Assets() {
		rows = append(rows, []string{a.DisplayName(), formatSignedPercent(cagr[a.Ticker])})
	}
	rows = append(rows, []string{md.Bold(folio.CombinedLabel), md.Bold(formatSignedPercent(combined))})
	doc.Table(md.TableSet{Alignment: alignment(2), Header: []string{"Asset", "CAGR"}, Rows: rows})
	return doc.String(), nil
}
