package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/folio"
	"github.com/google/subcommands"
)

// searchCmd implements the "search" command.
type searchCmd struct{}

func (*searchCmd) Name() string     { return "search" }
func (*searchCmd) Synopsis() string { return "searches for tickers on EODHD" }
func (*searchCmd) Usage() string {
	return `pfs search <search term>

  Searches for assets via EOD Historical Data API and prints ready-to-use
  'pfs add' commands for the results.

  Requires the EODHD_API_KEY environment variable to be set or the -eodhd-api-key flag.
`
}

func (c *searchCmd) SetFlags(f *flag.FlagSet) {}

func (c *searchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(f.Output(), "Error: a search term is required.")
		return subcommands.ExitUsageError
	}
	searchTerm := strings.Join(f.Args(), " ")

	provider, err := newEODHD()
	if err != nil {
		return fail("%v", err)
	}
	results, err := provider.Search(ctx, searchTerm)
	if err != nil {
		return fail("searching assets: %v", err)
	}
	if len(results) == 0 {
		fmt.Fprintf(stdout, "No results found for '%s'.\n", searchTerm)
		return subcommands.ExitSuccess
	}

	fmt.Fprintf(stdout, "Found %d results for '%s':\n\n", len(results), searchTerm)
	for _, item := range results {
		fmt.Fprintf(stdout, "➡️   Name       : %s (%s)\n", item.Name, item.Code)
		fmt.Fprintf(stdout, "    Type        : %s, Country: %s, Currency: %s\n", item.Type, item.Country, item.Currency)
		if item.ISIN != "" {
			fmt.Fprintf(stdout, "    ISIN        : %s\n", item.ISIN)
		}
		fmt.Fprintf(stdout, "    Prev. Close : %.2f\n", item.PreviousClose)
		fmt.Fprintf(stdout, "    $ pfs add %s\n\n", item.Ticker())
	}
	return subcommands.ExitSuccess
}

// exportCmd implements the "export" command.
type exportCmd struct {
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the portfolio market data" }
func (*exportCmd) Usage() string {
	return `pfs export [-o <file>]

  Writes the metadata and prices of the portfolio assets in the market data format, one
  asset per line. The file can be served back with '-provider file -market-file <file>'
  to work offline.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output file, defaults to stdout")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := loadOnly(ctx)
	if err != nil {
		return fail("%v", err)
	}
	if c.output == "" {
		if err := folio.ExportProvider(stdout, p.Market()); err != nil {
			return fail("%v", err)
		}
		return subcommands.ExitSuccess
	}
	out, err := os.Create(c.output)
	if err != nil {
		return fail("creating %q: %v", c.output, err)
	}
	if err := folio.ExportProvider(out, p.Market()); err != nil {
		out.Close()
		return fail("%v", err)
	}
	if err := out.Close(); err != nil {
		return fail("closing %q: %v", c.output, err)
	}
	return subcommands.ExitSuccess
}
