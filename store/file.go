package store

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/etnz/folio"
)

const (
	ext     = ".jsonl"
	extGzip = ".jsonl.gz"
)

// FileStore keeps portfolios as JSONL files within a base directory.
// Each portfolio is stored as <name>.jsonl, or <name>.jsonl.gz when Gzip is set.
type FileStore struct {
	Dir  string
	Gzip bool
	mu   sync.RWMutex
}

var _ Store = (*FileStore)(nil)

// NewFileStore returns a FileStore writing plain JSONL files in dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

// ForFile returns a FileStore and the name under which it stores the portfolio file at
// path. The file is compressed if path ends with .gz.
func ForFile(path string) (*FileStore, string) {
	base := filepath.Base(path)
	s := &FileStore{Dir: filepath.Dir(path)}
	switch {
	case strings.HasSuffix(base, extGzip):
		s.Gzip = true
		return s, strings.TrimSuffix(base, extGzip)
	default:
		return s, strings.TrimSuffix(base, ext)
	}
}

func (s *FileStore) Save(ctx context.Context, name string, p *folio.Portfolio) error {
	if err := checkName(name); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := folio.Encode(&buf, p); err != nil {
		return err
	}
	data := buf.Bytes()
	if s.Gzip {
		var err error
		if data, err = deflate(data); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return err
	}
	// write then rename, so that a failed save never leaves a truncated portfolio.
	tmp, err := os.CreateTemp(s.Dir, "."+name+"-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.pathFor(name))
}

func (s *FileStore) Load(ctx context.Context, name string, provider folio.Provider) (*folio.Portfolio, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	s.mu.RLock()
	data, err := os.ReadFile(s.pathFor(name))
	s.mu.RUnlock()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if s.Gzip {
		if data, err = inflate(data); err != nil {
			return nil, err
		}
	}
	return folio.Decode(bytes.NewReader(data), provider)
}

func (s *FileStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.Dir)
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	names := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		// a .jsonl.gz file is not listed by a plain store and the other way around.
		if s.Gzip && strings.HasSuffix(name, extGzip) {
			names = append(names, strings.TrimSuffix(name, extGzip))
		}
		if !s.Gzip && strings.HasSuffix(name, ext) {
			names = append(names, strings.TrimSuffix(name, ext))
		}
	}
	slices.Sort(names)
	return names, nil
}

func (s *FileStore) Remove(ctx context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.pathFor(name)); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// SavedAt returns the modification time of the portfolio file.
func (s *FileStore) SavedAt(ctx context.Context, name string) (time.Time, error) {
	if err := checkName(name); err != nil {
		return time.Time{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	info, err := os.Stat(s.pathFor(name))
	if os.IsNotExist(err) {
		return time.Time{}, ErrNotFound
	}
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

func (s *FileStore) pathFor(name string) string {
	if s.Gzip {
		return filepath.Join(s.Dir, name+extGzip)
	}
	return filepath.Join(s.Dir, name+ext)
}

func deflate(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func inflate(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}
