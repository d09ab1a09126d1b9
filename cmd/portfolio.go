package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"strconv"
	"time"

	"github.com/etnz/folio"
	"github.com/etnz/folio/renderer"
	"github.com/google/subcommands"
)

type newCmd struct {
	horizon    int
	weights    string
	baseline   float64
	duplicates string
	force      bool
}

func (*newCmd) Name() string     { return "new" }
func (*newCmd) Synopsis() string { return "create a portfolio from a list of tickers" }
func (*newCmd) Usage() string {
	return `pfs new [-horizon <years>] [-weights <w1,w2,...>] <ticker>...

  Fetches the metadata and price history of each ticker and saves a new portfolio.
  Without -weights, the tickers are equally weighted.
`
}

func (c *newCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.horizon, "horizon", 10, "Number of years of price history")
	f.StringVar(&c.weights, "weights", "", "Comma separated weights, bound to the tickers in order")
	f.Float64Var(&c.baseline, "baseline", 1, "Value every scaled price starts at")
	f.StringVar(&c.duplicates, "duplicates", "reject", "What 'add' does with a ticker already present: reject or ignore")
	f.BoolVar(&c.force, "force", false, "Overwrite an existing portfolio")
}

func (c *newCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	weights, err := parseWeights(c.weights)
	if err != nil {
		return fail("%v", err)
	}
	policy, err := folio.ParseDuplicatePolicy(c.duplicates)
	if err != nil {
		return fail("%v", err)
	}

	w, err := openWorkspace(f.NArg() > 0)
	if err != nil {
		return fail("%v", err)
	}
	defer w.close()

	if !c.force {
		_, err := w.store.Load(ctx, w.name, nil)
		if err == nil {
			return fail("portfolio %q already exists, use -force to overwrite it", w.name)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return fail("%v", err)
		}
	}

	p, err := folio.New(ctx, w.provider, f.Args(), c.horizon, weights, folio.WithBaseline(c.baseline), folio.WithDuplicates(policy))
	if err != nil {
		return fail("creating portfolio: %v", err)
	}
	if err := w.save(ctx, p); err != nil {
		return fail("%v", err)
	}
	printMarkdown(renderer.SummaryMarkdown(p))
	return subcommands.ExitSuccess
}

type addCmd struct {
	weights string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add a ticker to the portfolio" }
func (*addCmd) Usage() string {
	return `pfs add [-weights <w1,w2,...>] <ticker>

  Fetches the metadata and price history of ticker and adds it to the portfolio.
  -weights are the weights of the new set of tickers: the current ones in order, then
  the new one. Without -weights, the new set is equally weighted.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.weights, "weights", "", "Comma separated weights of the whole new set of tickers")
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(f.Output(), "Error: exactly one ticker is required.")
		return subcommands.ExitUsageError
	}
	weights, err := parseWeights(c.weights)
	if err != nil {
		return fail("%v", err)
	}
	p, err := mutate(ctx, true, func(p *folio.Portfolio) error {
		return p.Add(ctx, f.Arg(0), weights...)
	})
	if err != nil {
		return fail("adding %q: %v", f.Arg(0), err)
	}
	printMarkdown(renderer.SummaryMarkdown(p))
	return subcommands.ExitSuccess
}

type removeCmd struct{}

func (*removeCmd) Name() string     { return "remove" }
func (*removeCmd) Synopsis() string { return "remove tickers from the portfolio" }
func (*removeCmd) Usage() string {
	return `pfs remove <ticker>...

  Removes each ticker from the portfolio. The remaining weights keep their proportions.
`
}

func (c *removeCmd) SetFlags(f *flag.FlagSet) {}

func (c *removeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(f.Output(), "Error: a ticker is required.")
		return subcommands.ExitUsageError
	}
	p, err := mutate(ctx, false, func(p *folio.Portfolio) error {
		// Remove on a clone so that a failure on any ticker saves nothing.
		q := p.Clone()
		for _, ticker := range f.Args() {
			if err := q.Remove(ticker); err != nil {
				return err
			}
		}
		*p = *q
		return nil
	})
	if err != nil {
		return fail("removing: %v", err)
	}
	printMarkdown(renderer.SummaryMarkdown(p))
	return subcommands.ExitSuccess
}

type weightCmd struct{}

func (*weightCmd) Name() string     { return "weight" }
func (*weightCmd) Synopsis() string { return "set the weights of the portfolio" }
func (*weightCmd) Usage() string {
	return `pfs weight [<weight>... | <ticker>=<weight>...]

  Sets the weights of the portfolio, either in ticker order or by ticker name.
  Weights are normalized to sum to 1. Without arguments, the tickers are equally weighted.
`
}

func (c *weightCmd) SetFlags(f *flag.FlagSet) {}

func (c *weightCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	weights, named, err := parseWeightArgs(f.Args())
	if err != nil {
		return fail("%v", err)
	}
	p, err := mutate(ctx, false, func(p *folio.Portfolio) error {
		if named != nil {
			return p.ReweightNamed(named)
		}
		return p.Reweight(weights)
	})
	if err != nil {
		return fail("setting weights: %v", err)
	}
	printMarkdown(renderer.SummaryMarkdown(p))
	return subcommands.ExitSuccess
}

type horizonCmd struct{}

func (*horizonCmd) Name() string     { return "horizon" }
func (*horizonCmd) Synopsis() string { return "change the years of price history" }
func (*horizonCmd) Usage() string {
	return `pfs horizon <years>

  Fetches again the prices of every ticker over the last <years> years.
`
}

func (c *horizonCmd) SetFlags(f *flag.FlagSet) {}

func (c *horizonCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(f.Output(), "Error: a number of years is required.")
		return subcommands.ExitUsageError
	}
	years, err := strconv.Atoi(f.Arg(0))
	if err != nil {
		return fail("invalid number of years %q", f.Arg(0))
	}
	p, err := mutate(ctx, true, func(p *folio.Portfolio) error {
		return p.Rehorizon(ctx, years)
	})
	if err != nil {
		return fail("changing horizon: %v", err)
	}
	printMarkdown(renderer.SummaryMarkdown(p))
	return subcommands.ExitSuccess
}

type listCmd struct {
	long bool
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list the saved portfolios" }
func (*listCmd) Usage() string {
	return `pfs list [-l]

  Lists the portfolios of the SQLite database (-sqlite-db), or of the folder of the
  portfolio file. With -l, each name is followed by the time it was last saved.
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.long, "l", false, "Show when each portfolio was last saved")
}

func (c *listCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	w, err := openWorkspace(false)
	if err != nil {
		return fail("%v", err)
	}
	defer w.close()
	names, err := w.store.List(ctx)
	if err != nil {
		return fail("listing portfolios: %v", err)
	}
	for _, name := range names {
		if !c.long {
			fmt.Fprintln(stdout, name)
			continue
		}
		at, err := w.store.SavedAt(ctx, name)
		if err != nil {
			return fail("reading portfolio %q: %v", name, err)
		}
		fmt.Fprintf(stdout, "%s\t%s\n", name, at.Local().Format(time.DateTime))
	}
	return subcommands.ExitSuccess
}

type deleteCmd struct{}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "delete saved portfolios" }
func (*deleteCmd) Usage() string {
	return `pfs delete [<name>...]

  Deletes the named portfolios from the store, or the current portfolio (-name, or the
  portfolio file) when no name is given.
`
}

func (*deleteCmd) SetFlags(*flag.FlagSet) {}

func (*deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	w, err := openWorkspace(false)
	if err != nil {
		return fail("%v", err)
	}
	defer w.close()
	names := f.Args()
	if len(names) == 0 {
		names = []string{w.name}
	}
	for _, name := range names {
		if err := w.store.Remove(ctx, name); err != nil {
			return fail("cannot delete portfolio %q: %v", name, err)
		}
		fmt.Fprintf(stdout, "Deleted portfolio %q.\n", name)
	}
	return subcommands.ExitSuccess
}
