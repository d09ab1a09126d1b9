// Package cmd implements the CLI application to simulate a portfolio.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
	"github.com/etnz/folio/eodhd"
	"github.com/etnz/folio/store"
	"github.com/etnz/folio/yahoo"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&newCmd{}, "portfolio")
	c.Register(&addCmd{}, "portfolio")
	c.Register(&removeCmd{}, "portfolio")
	c.Register(&weightCmd{}, "portfolio")
	c.Register(&horizonCmd{}, "portfolio")
	c.Register(&listCmd{}, "portfolio")
	c.Register(&deleteCmd{}, "portfolio")

	c.Register(&showCmd{}, "analysis")
	c.Register(&splitCmd{}, "analysis")
	c.Register(&cagrCmd{}, "analysis")

	c.Register(&searchCmd{}, "market")
	c.Register(&exportCmd{}, "market")

	c.Register(&topicCmd{}, "help")
	c.Register(c.HelpCommand(), "help")
	c.Register(c.FlagsCommand(), "help")
	c.Register(c.CommandsCommand(), "help")
}

// PortfolioFileEnv is the environment variable holding the default portfolio file.
const PortfolioFileEnv = "PFS_PORTFOLIO_FILE"

const defaultPortfolioFile = "portfolio.jsonl"

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	portfolioFile = flag.String("portfolio-file", "", "Path to the portfolio file (JSONL, gzipped if it ends with .gz). Defaults to $"+PortfolioFileEnv+" or "+defaultPortfolioFile)
	sqliteDB      = flag.String("sqlite-db", "", "Path to a SQLite database holding portfolios by name. Takes precedence over -portfolio-file")
	portfolioName = flag.String("name", "default", "Name of the portfolio in the SQLite database")
	providerName  = flag.String("provider", "eodhd", "Market data provider: eodhd, yahoo or file")
	marketFile    = flag.String("market-file", "market.jsonl", "Path to the market data file used by -provider file")
	eodhdAPIFlag  = flag.String("eodhd-api-key", "", "EODHD API key to use for consuming EODHD.com API. This flag takes precedence over the "+eodhd.APIKeyEnv+" environment variable. You can get one at https://eodhd.com/")
	cache         = flag.Bool("cache", false, "Cache EODHD responses on disk for the day")
	verbose       = flag.Bool("v", false, "Log provider traffic on stderr")
)

// stdout is where commands print their reports.
var stdout io.Writer = os.Stdout

// SetupLogging silences the log unless -v is set. Call it after flag.Parse.
func SetupLogging() {
	log.SetFlags(0)
	if *verbose {
		log.SetOutput(os.Stderr)
		return
	}
	log.SetOutput(io.Discard)
}

// portfolioPath resolves the portfolio file from the flag or the environment.
func portfolioPath() string {
	if *portfolioFile != "" {
		return *portfolioFile
	}
	if env := os.Getenv(PortfolioFileEnv); env != "" {
		return env
	}
	return defaultPortfolioFile
}

// eodhdAPIKey retrieves the EODHD API key from the command-line flag or the environment variable.
// It prioritizes the flag over the environment variable.
func eodhdAPIKey() string {
	if *eodhdAPIFlag == "" {
		*eodhdAPIFlag = os.Getenv(eodhd.APIKeyEnv)
	}
	return *eodhdAPIFlag
}

func newEODHD() (*eodhd.Provider, error) {
	key := eodhdAPIKey()
	if key == "" {
		return nil, fmt.Errorf("EODHD API key is not set. Use -eodhd-api-key flag or %s environment variable", eodhd.APIKeyEnv)
	}
	var opts []eodhd.Option
	if *cache {
		dir, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("cannot locate the cache folder: %w", err)
		}
		dir = filepath.Join(dir, "pfs")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("cannot create the cache folder: %w", err)
		}
		opts = append(opts, eodhd.WithDiskCache(date.Daily, dir))
	}
	return eodhd.New(key, opts...), nil
}

// openProvider returns the market data provider selected by -provider.
func openProvider() (folio.Provider, error) {
	switch *providerName {
	case "eodhd":
		return newEODHD()
	case "yahoo":
		return yahoo.New(), nil
	case "file":
		f, err := os.Open(*marketFile)
		if err != nil {
			return nil, fmt.Errorf("cannot open market file: %w", err)
		}
		defer f.Close()
		return folio.ImportProvider(f)
	default:
		return nil, fmt.Errorf("unknown provider %q, want eodhd, yahoo or file", *providerName)
	}
}

// workspace is the store and the portfolio name a command works on.
type workspace struct {
	store    store.Store
	name     string
	provider folio.Provider
	close    func() error
}

// openWorkspace opens the store selected by the global flags. The provider is only opened
// when fetch is true, commands that never fetch data run offline.
func openWorkspace(fetch bool) (*workspace, error) {
	w := &workspace{close: func() error { return nil }}
	if *sqliteDB != "" {
		s, err := store.OpenSQLite(*sqliteDB)
		if err != nil {
			return nil, err
		}
		w.store, w.name, w.close = s, *portfolioName, s.Close
	} else {
		w.store, w.name = store.ForFile(portfolioPath())
	}
	if fetch {
		p, err := openProvider()
		if err != nil {
			w.close()
			return nil, err
		}
		w.provider = p
	}
	return w, nil
}

func (w *workspace) load(ctx context.Context) (*folio.Portfolio, error) {
	p, err := w.store.Load(ctx, w.name, w.provider)
	if err != nil {
		return nil, fmt.Errorf("cannot load portfolio %q: %w", w.name, err)
	}
	return p, nil
}

func (w *workspace) save(ctx context.Context, p *folio.Portfolio) error {
	if err := w.store.Save(ctx, w.name, p); err != nil {
		return fmt.Errorf("cannot save portfolio %q: %w", w.name, err)
	}
	return nil
}

// mutate loads the portfolio, applies f and saves it back. Nothing is saved if f fails.
func mutate(ctx context.Context, fetch bool, f func(*folio.Portfolio) error) (*folio.Portfolio, error) {
	w, err := openWorkspace(fetch)
	if err != nil {
		return nil, err
	}
	defer w.close()
	p, err := w.load(ctx)
	if err != nil {
		return nil, err
	}
	if err := f(p); err != nil {
		return nil, err
	}
	return p, w.save(ctx, p)
}

// loadOnly loads the portfolio for a read only command.
func loadOnly(ctx context.Context) (*folio.Portfolio, error) {
	w, err := openWorkspace(false)
	if err != nil {
		return nil, err
	}
	defer w.close()
	return w.load(ctx)
}

// printMarkdown renders md for the terminal, falling back to the raw markdown.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		log.Printf("cannot render markdown: %v", err)
		out = md
	}
	fmt.Fprint(stdout, out)
}

// fail prints an error message on stderr and returns the failure status.
func fail(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	return subcommands.ExitFailure
}
