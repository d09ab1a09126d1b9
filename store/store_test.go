package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
	"github.com/google/go-cmp/cmp"
)

// testPortfolio returns a two asset portfolio on a static provider.
func testPortfolio(t *testing.T) (*folio.Portfolio, folio.Provider) {
	t.Helper()
	s := folio.NewStaticProvider()
	days := []date.Date{date.New(2024, 1, 2), date.New(2024, 1, 3), date.New(2024, 1, 4)}
	a, b := new(date.History[float64]), new(date.History[float64])
	for i, day := range days {
		a.Append(day, float64(10*(i+1)))
		if i > 0 {
			b.Append(day, 100/float64(i))
		}
	}
	s.Set(folio.Asset{Ticker: "A", Name: "Alpha", Currency: "USD"}, a)
	s.Set(folio.Asset{Ticker: "B", Name: "Beta", Currency: "EUR", Sectors: map[string]float64{"Tech": 1, "Health": 2}}, b)
	p, err := folio.New(context.Background(), s, []string{"A", "B"}, 3, []float64{1, 2})
	if err != nil {
		t.Fatalf("folio.New() error = %v", err)
	}
	return p, s
}

// testStore runs the behavior every Store must have.
func testStore(t *testing.T, s Store) {
	ctx := context.Background()
	p, provider := testPortfolio(t)

	names, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(names) != 0 {
		t.Errorf("List() on a new store = %v, want empty", names)
	}

	if _, err := s.Load(ctx, "main", provider); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load(main) error = %v, want %v", err, ErrNotFound)
	}

	for _, name := range []string{"main", "alt"} {
		if err := s.Save(ctx, name, p); err != nil {
			t.Fatalf("Save(%s) error = %v", name, err)
		}
	}
	got, err := s.Load(ctx, "main", provider)
	if err != nil {
		t.Fatalf("Load(main) error = %v", err)
	}
	if !got.Weights().Equal(p.Weights()) || !got.Prices().Equal(p.Prices()) {
		t.Errorf("Load(main) does not restore the saved portfolio")
	}
	if diff := cmp.Diff(p.Assets(), got.Assets()); diff != "" {
		t.Errorf("Load(main) assets (-want +got):\n%s", diff)
	}

	// Save replaces.
	if err := got.Remove("A"); err != nil {
		t.Fatalf("Remove(A) error = %v", err)
	}
	if err := s.Save(ctx, "main", got); err != nil {
		t.Fatalf("Save(main) error = %v", err)
	}
	if again, err := s.Load(ctx, "main", provider); err != nil || again.Len() != 1 {
		t.Errorf("Load(main) after replace = %v, %v, want 1 asset", again, err)
	}

	names, err = s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if diff := cmp.Diff([]string{"alt", "main"}, names); diff != "" {
		t.Errorf("List() (-want +got):\n%s", diff)
	}

	if err := s.Remove(ctx, "alt"); err != nil {
		t.Errorf("Remove(alt) error = %v", err)
	}
	if err := s.Remove(ctx, "alt"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Remove(alt) twice error = %v, want %v", err, ErrNotFound)
	}

	if at, err := s.SavedAt(ctx, "main"); err != nil || at.IsZero() {
		t.Errorf("SavedAt(main) = %v, %v, want a save time", at, err)
	}
	if _, err := s.SavedAt(ctx, "alt"); !errors.Is(err, ErrNotFound) {
		t.Errorf("SavedAt(alt) after Remove error = %v, want %v", err, ErrNotFound)
	}

	for _, bad := range []string{"", "../x", "a/b"} {
		if err := s.Save(ctx, bad, p); err == nil {
			t.Errorf("Save(%q) succeeded, want error", bad)
		}
	}
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	testStore(t, NewFileStore(dir))
	if _, err := os.Stat(filepath.Join(dir, "main.jsonl")); err != nil {
		t.Errorf("main.jsonl not written: %v", err)
	}
}

func TestGzipFileStore(t *testing.T) {
	dir := t.TempDir()
	testStore(t, &FileStore{Dir: dir, Gzip: true})
	data, err := os.ReadFile(filepath.Join(dir, "main.jsonl.gz"))
	if err != nil {
		t.Fatalf("main.jsonl.gz not written: %v", err)
	}
	if len(data) < 2 || data[0] != 0x1f || data[1] != 0x8b {
		t.Errorf("main.jsonl.gz is not gzipped")
	}
	// A plain store on the same directory does not see gzipped portfolios.
	if names, _ := NewFileStore(dir).List(context.Background()); len(names) != 0 {
		t.Errorf("plain List() = %v, want empty", names)
	}
}

func TestForFile(t *testing.T) {
	testCases := []struct {
		path, dir, name string
		gzip            bool
	}{
		{"/tmp/p/main.jsonl", "/tmp/p", "main", false},
		{"/tmp/p/main.jsonl.gz", "/tmp/p", "main", true},
		{"portfolio.jsonl", ".", "portfolio", false},
	}
	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			s, name := ForFile(tc.path)
			if s.Dir != tc.dir || name != tc.name || s.Gzip != tc.gzip {
				t.Errorf("ForFile(%q) = %q %q %v, want %q %q %v", tc.path, s.Dir, name, s.Gzip, tc.dir, tc.name, tc.gzip)
			}
		})
	}
}

func TestFileStoreCorrupted(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.jsonl"), []byte("not json\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileStore(dir).Load(context.Background(), "bad", nil); err == nil {
		t.Errorf("Load(bad) succeeded, want error")
	}
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "folio.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	defer s.Close()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	testStore(t, s)

	at, err := s.SavedAt(context.Background(), "main")
	if err != nil {
		t.Fatalf("SavedAt(main) error = %v", err)
	}
	if !at.Equal(now) {
		t.Errorf("SavedAt(main) = %v, want %v", at, now)
	}
	if _, err := s.SavedAt(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("SavedAt(nope) error = %v, want %v", err, ErrNotFound)
	}
}

func TestSQLiteStoreReopen(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "folio.db")
	p, provider := testPortfolio(t)

	s, err := OpenSQLite(dsn)
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	if err := s.Save(ctx, "main", p); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	s.Close()

	s, err = OpenSQLite(dsn)
	if err != nil {
		t.Fatalf("OpenSQLite() again error = %v", err)
	}
	defer s.Close()
	got, err := s.Load(ctx, "main", provider)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff([]string{"A", "B"}, got.Tickers()); diff != "" {
		t.Errorf("Load() tickers (-want +got):\n%s", diff)
	}
}
