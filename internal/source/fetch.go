package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nikbrunner/postlist/internal/model"
)

// IndexPath is the well-known location of a site's search index.
const IndexPath = "/search.json"

const (
	defaultUserAgent = "postlist/0.1"
	requestTimeout   = 10 * time.Second
)

// ErrMalformedIndex is returned when the index document cannot be used.
var ErrMalformedIndex = errors.New("malformed search index")

// StatusError reports a non-2xx response from the index endpoint.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
}

// Fetcher retrieves a site's search index over HTTP.
type Fetcher struct {
	indexURL  *url.URL
	http      *http.Client
	userAgent string
}

// NewFetcher builds a Fetcher for siteURL. A URL ending in .json is used as
// the index location directly; anything else is treated as the site root
// and IndexPath is resolved against it.
func NewFetcher(siteURL string) (*Fetcher, error) {
	indexURL, err := resolveIndexURL(siteURL)
	if err != nil {
		return nil, err
	}
	return &Fetcher{
		indexURL: indexURL,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// WithHTTPClient replaces the HTTP client.
func (f *Fetcher) WithHTTPClient(c *http.Client) *Fetcher {
	f.http = c
	return f
}

// URL returns the index URL the fetcher requests.
func (f *Fetcher) URL() string {
	return f.indexURL.String()
}

// Fetch downloads and validates the index.
func (f *Fetcher) Fetch(ctx context.Context) (*model.Store, error) {
	if f == nil {
		return nil, fmt.Errorf("fetcher is nil")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.indexURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: f.indexURL.String(), StatusCode: resp.StatusCode}
	}

	var entries []model.Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedIndex, err)
	}
	for i, e := range entries {
		if !e.Valid() {
			return nil, fmt.Errorf("%w: entry %d is missing title or href", ErrMalformedIndex, i)
		}
	}

	return model.NewStore(entries), nil
}

func resolveIndexURL(siteURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(siteURL)
	if trimmed == "" {
		return nil, fmt.Errorf("site url is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse site url %q: %w", siteURL, err)
	}
	u.Fragment = ""
	if strings.HasSuffix(u.Path, ".json") {
		return u, nil
	}
	u.RawQuery = ""
	return u.ResolveReference(&url.URL{Path: IndexPath}), nil
}
