package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
	"github.com/etnz/folio/renderer"
	"github.com/google/subcommands"
)

type showCmd struct {
	period date.Period
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "show the portfolio, its scaled prices or its worth" }
func (*showCmd) Usage() string {
	return `pfs show [-period <period>] [summary|prices|worth]...

  Shows the portfolio composition (summary, the default), the scaled prices of each
  asset (prices) or the combined worth of the portfolio (worth). Prices and worth have
  one row per period: daily, weekly, monthly, quarterly or yearly.
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	c.period = date.Monthly
	f.Var(&c.period, "period", fmt.Sprintf("Row period of prices and worth, one of %v", date.Periods))
}

func (c *showCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	views := f.Args()
	if len(views) == 0 {
		views = []string{"summary"}
	}
	p, err := loadOnly(ctx)
	if err != nil {
		return fail("%v", err)
	}
	for _, view := range views {
		var md string
		switch view {
		case "summary":
			md = renderer.SummaryMarkdown(p)
		case "prices":
			md = renderer.PricesMarkdown(p, c.period)
		case "worth":
			if md, err = renderer.WorthMarkdown(p, c.period); err != nil {
				return fail("computing worth: %v", err)
			}
		default:
			fmt.Fprintf(f.Output(), "Error: unknown view %q, want summary, prices or worth.\n", view)
			return subcommands.ExitUsageError
		}
		printMarkdown(md)
	}
	return subcommands.ExitSuccess
}

type splitCmd struct{}

func (*splitCmd) Name() string     { return "split" }
func (*splitCmd) Synopsis() string { return "show the weight split by a metadata field" }
func (*splitCmd) Usage() string {
	return `pfs split <field>...

  Sums the portfolio weights by value of a metadata field: currency, market, sector,
  exchange, name or ticker.
  Funds with a sector breakdown spread their weight across it.
`
}

func (c *splitCmd) SetFlags(f *flag.FlagSet) {}

func (c *splitCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(f.Output(), "Error: a field is required: currency, market, sector, exchange, name or ticker.")
		return subcommands.ExitUsageError
	}
	fields := make([]folio.Field, f.NArg())
	for i, arg := range f.Args() {
		field, err := folio.ParseField(arg)
		if err != nil {
			return fail("%v", err)
		}
		fields[i] = field
	}
	p, err := loadOnly(ctx)
	if err != nil {
		return fail("%v", err)
	}
	for _, field := range fields {
		split, err := p.Split(field)
		if err != nil {
			return fail("splitting by %s: %v", field, err)
		}
		printMarkdown(renderer.SplitMarkdown(field, split))
	}
	return subcommands.ExitSuccess
}

type cagrCmd struct{}

func (*cagrCmd) Name() string     { return "cagr" }
func (*cagrCmd) Synopsis() string { return "show the compound annual growth rates" }
func (*cagrCmd) Usage() string {
	return `pfs cagr

  Shows the compound annual growth rate of each asset and of the combined portfolio.
`
}

func (c *cagrCmd) SetFlags(f *flag.FlagSet) {}

func (c *cagrCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := loadOnly(ctx)
	if err != nil {
		return fail("%v", err)
	}
	md, err := renderer.CAGRMarkdown(p)
	if err != nil {
		return fail("computing growth rates: %v", err)
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}
