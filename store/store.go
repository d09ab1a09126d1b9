// Package store saves and loads portfolios by name.
package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/etnz/folio"
)

// ErrNotFound reports a portfolio name unknown to the store. It is fs.ErrNotExist.
var ErrNotFound = fs.ErrNotExist

// Store keeps encoded portfolios by name.
type Store interface {
	// Save stores p under name, replacing any previous version.
	Save(ctx context.Context, name string, p *folio.Portfolio) error
	// Load restores the portfolio saved under name. provider is attached to it for later
	// mutations.
	Load(ctx context.Context, name string, provider folio.Provider) (*folio.Portfolio, error)
	// List returns the stored names, sorted.
	List(ctx context.Context) ([]string, error)
	// Remove deletes the portfolio saved under name.
	Remove(ctx context.Context, name string) error
	// SavedAt returns when the portfolio saved under name was last saved.
	SavedAt(ctx context.Context, name string) (time.Time, error)
}

// checkName rejects names that cannot be used as a file name.
func checkName(name string) error {
	if name == "" {
		return errors.New("portfolio name is required")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("invalid portfolio name %q", name)
	}
	return nil
}
