package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/etnz/folio"
	// Register sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore keeps encoded portfolios in a sqlite table.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens, and initializes if needed, the sqlite database at dsn.
func OpenSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS portfolios(
		name TEXT PRIMARY KEY, blob BLOB NOT NULL, saved_at INTEGER NOT NULL
	)`)
	return err
}

// Close closes the database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Save(ctx context.Context, name string, p *folio.Portfolio) error {
	if err := checkName(name); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := folio.Encode(&buf, p); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO portfolios(name,blob,saved_at) VALUES(?,?,?)
		ON CONFLICT(name) DO UPDATE SET blob=excluded.blob, saved_at=excluded.saved_at`,
		name, buf.Bytes(), s.now().Unix())
	return err
}

func (s *SQLiteStore) Load(ctx context.Context, name string, provider folio.Provider) (*folio.Portfolio, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	var blob []byte
	err := s.db.QueryRowContext(ctx, `SELECT blob FROM portfolios WHERE name=?`, name).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return folio.Decode(bytes.NewReader(blob), provider)
}

// SavedAt returns when the portfolio was last saved, to the second.
func (s *SQLiteStore) SavedAt(ctx context.Context, name string) (time.Time, error) {
	if err := checkName(name); err != nil {
		return time.Time{}, err
	}
	var ts int64
	err := s.db.QueryRowContext(ctx, `SELECT saved_at FROM portfolios WHERE name=?`, name).Scan(&ts)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, ErrNotFound
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(ts, 0), nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM portfolios ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *SQLiteStore) Remove(ctx context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM portfolios WHERE name=?`, name)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
