package eodhd

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"

	"github.com/etnz/folio/date"
)

// diskCache is an http.RoundTripper that keeps successful responses on disk for the
// current period: a response fetched today is served again until the period ends.
type diskCache struct {
	base   http.RoundTripper
	period date.Period
	dir    string // os.TempDir() when empty
	today  func() date.Date
}

// path returns the cache file of req. The period identifier is part of the hashed key,
// entries of a past period are simply never read again.
func (c *diskCache) path(req *http.Request) string {
	today := date.Today
	if c.today != nil {
		today = c.today
	}
	id := c.period.Range(today()).Identifier()
	sum := sha1.Sum([]byte(id + " " + req.Method + " " + req.URL.String()))
	dir := c.dir
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, fmt.Sprintf("eodhd-%s-%x", c.period, sum))
}

func (c *diskCache) RoundTrip(req *http.Request) (*http.Response, error) {
	file := c.path(req)
	if content, err := os.ReadFile(file); err == nil {
		if resp, err := http.ReadResponse(bufio.NewReader(bytes.NewReader(content)), req); err == nil {
			return resp, nil
		}
	}

	resp, err := c.base.RoundTrip(req)
	if err != nil || resp.StatusCode >= 300 {
		return resp, err
	}
	// DumpResponse reads the body and leaves an equivalent one in resp.
	content, err := httputil.DumpResponse(resp, true)
	if err == nil {
		err = os.WriteFile(file, content, 0o600)
	}
	if err != nil {
		log.Printf("eodhd cache write error (ignored): %v", err)
	}
	return resp, nil
}

// getJSON GETs addr and decodes its JSON body into data. Any status but 200 is an error.
func getJSON(ctx context.Context, client *http.Client, addr string, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	log.Printf("%s %s%s %s", req.Method, req.URL.Host, req.URL.Path, resp.Status)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s%s: %s", req.URL.Host, req.URL.Path, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(data); err != nil {
		return fmt.Errorf("GET %s%s: invalid JSON: %w", req.URL.Host, req.URL.Path, err)
	}
	return nil
}
