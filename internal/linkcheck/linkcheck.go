// Package linkcheck verifies that the links of a post collection resolve.
package linkcheck

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/nikbrunner/postlist/internal/model"
)

// Status is the health of one link.
type Status int

const (
	Healthy     Status = iota // 2xx or 3xx response
	Dead                      // 404 or 410 Gone
	Unreachable               // timeout, DNS failure, server error, etc.
)

func (s Status) String() string {
	switch s {
	case Healthy:
		return "ok"
	case Dead:
		return "dead"
	default:
		return "unreachable"
	}
}

const (
	DefaultConcurrency = 8
	DefaultTimeout     = 10 * time.Second
)

// Result holds the check result for one entry.
type Result struct {
	Entry      model.Entry
	URL        string // absolute URL that was requested
	Status     Status
	StatusCode int    // 0 if no response was received
	Error      string // readable reason for unreachable links
}

// ProgressFunc is called after each link is checked.
type ProgressFunc func(completed, total int)

// Options configures Check. Zero values select the defaults.
type Options struct {
	Concurrency int
	Timeout     time.Duration
	Client      *http.Client
	Progress    ProgressFunc
}

// Check requests the link of every entry, resolved against base, and returns
// one result per entry in collection order. Relative links need a base.
func Check(ctx context.Context, entries []model.Entry, base string, opts Options) ([]Result, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	baseURL, err := parseBase(base)
	if err != nil {
		return nil, err
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		}
	}

	// The transport logs protocol noise through the standard logger.
	originalOutput := log.Writer()
	log.SetOutput(io.Discard)
	defer log.SetOutput(originalOutput)

	results := make([]Result, len(entries))
	jobs := make(chan int, len(entries))
	var wg sync.WaitGroup

	var progressMu sync.Mutex
	completed := 0

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = checkEntry(ctx, client, baseURL, entries[idx])

				if opts.Progress != nil {
					progressMu.Lock()
					completed++
					opts.Progress(completed, len(entries))
					progressMu.Unlock()
				}
			}
		}()
	}

	for i := range entries {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results, ctx.Err()
}

func parseBase(base string) (*url.URL, error) {
	if strings.TrimSpace(base) == "" {
		return nil, nil
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.New("base URL must be absolute")
	}
	return u, nil
}

func checkEntry(ctx context.Context, client *http.Client, base *url.URL, e model.Entry) Result {
	result := Result{Entry: e}

	target, err := url.Parse(e.Href)
	if err != nil {
		result.Status = Unreachable
		result.Error = "Malformed link"
		return result
	}
	if base != nil {
		target = base.ResolveReference(target)
	}
	if !target.IsAbs() {
		result.Status = Unreachable
		result.Error = "Relative link without a site URL"
		return result
	}
	result.URL = target.String()

	// HEAD first; some servers only answer GET.
	resp, err := request(ctx, client, http.MethodHead, result.URL)
	if err != nil || resp.StatusCode == http.StatusMethodNotAllowed {
		if resp != nil {
			resp.Body.Close()
		}
		resp, err = request(ctx, client, http.MethodGet, result.URL)
		if err != nil {
			result.Status = Unreachable
			result.Error = normalizeError(err.Error())
			return result
		}
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 400:
		result.Status = Healthy
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		result.Status = Dead
	default:
		result.Status = Unreachable
		result.Error = http.StatusText(resp.StatusCode)
	}
	return result
}

func request(ctx context.Context, client *http.Client, method, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, err
	}
	return client.Do(req)
}

// Broken returns the results that are not Healthy.
func Broken(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if r.Status != Healthy {
			out = append(out, r)
		}
	}
	return out
}

// normalizeError turns transport errors into short readable categories.
func normalizeError(errStr string) string {
	lower := strings.ToLower(errStr)

	switch {
	case strings.Contains(lower, "no such host"):
		return "DNS failure"
	case strings.Contains(lower, "context canceled"):
		return "Canceled"
	case strings.Contains(lower, "context deadline exceeded"),
		strings.Contains(lower, "timeout"):
		return "Timeout"
	case strings.Contains(lower, "connection refused"):
		return "Connection refused"
	case strings.Contains(lower, "certificate"):
		return "TLS/certificate error"
	case strings.Contains(lower, "network is unreachable"):
		return "Network unreachable"
	case strings.Contains(lower, "tls:"):
		return "TLS error"
	default:
		return errStr
	}
}
