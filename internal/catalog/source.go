package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Source fetches a raw catalog document.
type Source interface {
	Fetch(ctx context.Context) (Document, error)
	String() string
}

var ErrNoSource = errors.New("no catalog source configured")

const sqliteScheme = "sqlite://"

// ParseSource maps a source string to a Source:
// http(s) URLs, sqlite://<path> snapshots, or a local file path.
func ParseSource(raw string) (Source, error) {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return nil, ErrNoSource
	case strings.HasPrefix(raw, "http://"), strings.HasPrefix(raw, "https://"):
		if _, err := url.Parse(raw); err != nil {
			return nil, fmt.Errorf("parse catalog url: %w", err)
		}
		return &HTTPSource{URL: raw}, nil
	case strings.HasPrefix(raw, sqliteScheme):
		p := strings.TrimPrefix(raw, sqliteScheme)
		if p == "" {
			return nil, fmt.Errorf("sqlite source needs a path: %q", raw)
		}
		return Snapshot{Path: p}, nil
	default:
		return FileSource{Path: raw}, nil
	}
}

// FileSource reads a JSON or YAML document from disk.
type FileSource struct {
	Path string
}

func (s FileSource) String() string { return s.Path }

func (s FileSource) Fetch(ctx context.Context) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return Document{}, err
	}
	return Decode(b, FormatForName(s.Path))
}

// HTTPSource fetches the document over HTTP. Each request carries a
// cache-busting v=<unix ms> query parameter.
type HTTPSource struct {
	URL    string
	Client *http.Client
	// Now is used for the cache-bust value; defaults to time.Now.
	Now func() time.Time
}

func (s *HTTPSource) String() string { return s.URL }

type statusError struct {
	url  string
	code int
}

func (e statusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d", e.url, e.code)
}

func (s *HTTPSource) Fetch(ctx context.Context) (Document, error) {
	u, err := url.Parse(s.URL)
	if err != nil {
		return Document{}, err
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	q := u.Query()
	q.Set("v", strconv.FormatInt(now().UnixMilli(), 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Document{}, err
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Document{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Document{}, statusError{url: s.URL, code: resp.StatusCode}
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return Document{}, err
	}

	f := FormatForName(u.Path)
	if strings.Contains(resp.Header.Get("Content-Type"), "yaml") {
		f = FormatYAML
	}
	return Decode(b, f)
}
