// Package fetcher downloads paginated listing pages from the marketplace
// inventory API.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sethvargo/go-retry"

	"skin_tracker/internal/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options configures a Fetcher. Zero values fall back to the defaults the
// upstream API is known to tolerate.
type Options struct {
	BaseURL        string
	PagesToScan    int
	ResultsPerPage int
	Timeout        time.Duration
	Backoff        time.Duration
}

// Fetcher retrieves inventory pages. Transient failures are retried up to
// maxAttempts per page; a page that still fails yields zero items rather
// than an error, so one bad page never aborts a scan.
type Fetcher struct {
	client         HTTPClient
	baseURL        string
	pagesToScan    int
	resultsPerPage int
	timeout        time.Duration
	backoff        time.Duration
	log            *slog.Logger
}

const maxAttempts = 3

// New creates a Fetcher with the given HTTP client and options.
func New(client HTTPClient, opts Options, log *slog.Logger) *Fetcher {
	if opts.PagesToScan <= 0 {
		opts.PagesToScan = 2
	}
	if opts.ResultsPerPage <= 0 {
		opts.ResultsPerPage = 50
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 2 * time.Second
	}
	return &Fetcher{
		client:         client,
		baseURL:        opts.BaseURL,
		pagesToScan:    opts.PagesToScan,
		resultsPerPage: opts.ResultsPerPage,
		timeout:        opts.Timeout,
		backoff:        opts.Backoff,
		log:            log,
	}
}

// inventoryResponse keeps the listing records raw so a single malformed
// record can be skipped without losing the rest of the page.
type inventoryResponse struct {
	Data []jsoniter.RawMessage `json:"data"`
}

// FetchAll retrieves all configured pages and concatenates their listings
// in page order. Failed pages contribute nothing.
func (f *Fetcher) FetchAll(ctx context.Context) []model.Listing {
	var all []model.Listing
	for page := 1; page <= f.pagesToScan; page++ {
		if ctx.Err() != nil {
			break
		}
		all = append(all, f.FetchPage(ctx, page)...)
	}
	f.log.Info("inventory fetched", "pages", f.pagesToScan, "items", len(all))
	return all
}

// FetchPage retrieves a single inventory page (page >= 1). Timeouts and
// connection failures are retried with a constant backoff; an HTTP error
// status or a malformed body abandons the page immediately. Either way a
// failed page returns an empty slice, never an error.
func (f *Fetcher) FetchPage(ctx context.Context, page int) []model.Listing {
	if page < 1 {
		f.log.Warn("invalid page number", "page", page)
		return nil
	}

	var listings []model.Listing
	backoff := retry.WithMaxRetries(maxAttempts-1, retry.NewConstant(f.backoff))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		items, err := f.fetchPage(ctx, page)
		if err != nil {
			return err
		}
		listings = items
		return nil
	})
	if err != nil {
		f.log.Error("page abandoned", "page", page, "error", err)
		return nil
	}

	f.log.Debug("page fetched", "page", page, "items", len(listings))
	return listings
}

// fetchPage performs one attempt. Network-level failures are marked
// retryable; HTTP status and decode failures are permanent.
func (f *Fetcher) fetchPage(ctx context.Context, page int) ([]model.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("results", strconv.Itoa(f.resultsPerPage))
	q.Set("orderBy", "price")
	q.Set("sortOrder", "desc")
	req.URL.RawQuery = q.Encode()
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, retry.RetryableError(fmt.Errorf("http get: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10*1024*1024))
	if err != nil {
		return nil, retry.RetryableError(fmt.Errorf("read body: %w", err))
	}

	var inv inventoryResponse
	if err := json.Unmarshal(body, &inv); err != nil {
		return nil, fmt.Errorf("decode inventory: %w", err)
	}

	// A response without the data array means "no items this page".
	// Within the array, a bad record costs only itself.
	listings := make([]model.Listing, 0, len(inv.Data))
	for _, raw := range inv.Data {
		var l model.Listing
		if err := json.Unmarshal(raw, &l); err != nil {
			f.log.Warn("skipping malformed listing record", "page", page, "error", err)
			continue
		}
		listings = append(listings, l)
	}
	return listings, nil
}
