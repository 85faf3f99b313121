package fetcher

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"skin_tracker/internal/model"
)

const inventoryPage = `{
	"data": [
		{"id": 101, "marketHashName": "AK-47 | Redline", "price": 42.5, "float": 0.21, "keyChains": [], "inspectInGameLink": "steam://inspect/101"},
		{"id": "102", "marketHashName": "AWP | Dragon Lore", "price": 9100.0, "float": 0.02, "keyChains": [{"name": "Baby Karat"}], "inspectInGameLink": ""}
	]
}`

type response struct {
	body       string
	statusCode int
	err        error
}

// seqTransport replays a fixed sequence of responses and counts attempts.
type seqTransport struct {
	mu        sync.Mutex
	responses []response
	calls     int
}

func (s *seqTransport) Do(_ *http.Request) (*http.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.responses[min(s.calls, len(s.responses)-1)]
	s.calls++
	if r.err != nil {
		return nil, r.err
	}
	return &http.Response{
		StatusCode: r.statusCode,
		Body:       io.NopCloser(bytes.NewBufferString(r.body)),
	}, nil
}

func (s *seqTransport) attempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newTestFetcher(t *testing.T, transport *seqTransport) *Fetcher {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(transport, Options{
		BaseURL:        "https://market.example.com/inventory",
		PagesToScan:    2,
		ResultsPerPage: 50,
		Timeout:        time.Second,
		Backoff:        time.Millisecond,
	}, log)
}

func TestFetchPage(t *testing.T) {
	tests := []struct {
		name         string
		responses    []response
		wantItems    int
		wantAttempts int
	}{
		{
			name:         "successful fetch",
			responses:    []response{{body: inventoryPage, statusCode: 200}},
			wantItems:    2,
			wantAttempts: 1,
		},
		{
			name:         "missing data array is empty page",
			responses:    []response{{body: `{"total": 0}`, statusCode: 200}},
			wantItems:    0,
			wantAttempts: 1,
		},
		{
			name:         "http error status is not retried",
			responses:    []response{{body: "gone", statusCode: 502}},
			wantItems:    0,
			wantAttempts: 1,
		},
		{
			name:         "malformed body is not retried",
			responses:    []response{{body: "<html>nope</html>", statusCode: 200}},
			wantItems:    0,
			wantAttempts: 1,
		},
		{
			name: "transient failure retried to success",
			responses: []response{
				{err: io.ErrUnexpectedEOF},
				{err: io.ErrUnexpectedEOF},
				{body: inventoryPage, statusCode: 200},
			},
			wantItems:    2,
			wantAttempts: 3,
		},
		{
			name: "retry budget exhausted yields empty page",
			responses: []response{
				{err: io.ErrUnexpectedEOF},
			},
			wantItems:    0,
			wantAttempts: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := &seqTransport{responses: tt.responses}
			f := newTestFetcher(t, transport)

			items := f.FetchPage(context.Background(), 1)

			if diff := cmp.Diff(tt.wantItems, len(items)); diff != "" {
				t.Errorf("item count mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantAttempts, transport.attempts()); diff != "" {
				t.Errorf("attempt count mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFetchPageInvalidPageNumber(t *testing.T) {
	transport := &seqTransport{responses: []response{{body: inventoryPage, statusCode: 200}}}
	f := newTestFetcher(t, transport)

	items := f.FetchPage(context.Background(), 0)

	if items != nil {
		t.Errorf("expected nil for page 0, got %d items", len(items))
	}
	if transport.attempts() != 0 {
		t.Errorf("expected no HTTP calls for page 0, got %d", transport.attempts())
	}
}

func TestFetchPageCanonicalIDs(t *testing.T) {
	transport := &seqTransport{responses: []response{{body: inventoryPage, statusCode: 200}}}
	f := newTestFetcher(t, transport)

	items := f.FetchPage(context.Background(), 1)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	// Numeric 101 and string "102" both land as canonical strings.
	want := []model.ItemID{"101", "102"}
	got := []model.ItemID{items[0].ID, items[1].ID}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchPageSkipsMalformedRecord(t *testing.T) {
	// One record with an object for an id must cost only itself, not the page.
	body := `{
		"data": [
			{"id": 101, "marketHashName": "AK-47 | Redline", "price": 42.5},
			{"id": {"oops": true}, "marketHashName": "Broken"},
			{"id": "103", "marketHashName": "AWP | Dragon Lore", "price": 9100.0}
		]
	}`
	transport := &seqTransport{responses: []response{{body: body, statusCode: 200}}}
	f := newTestFetcher(t, transport)

	items := f.FetchPage(context.Background(), 1)

	want := []model.ItemID{"101", "103"}
	var got []model.ItemID
	for _, item := range items {
		got = append(got, item.ID)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("surviving ids mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(1, transport.attempts()); diff != "" {
		t.Errorf("attempt count mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchAll(t *testing.T) {
	transport := &seqTransport{responses: []response{{body: inventoryPage, statusCode: 200}}}
	f := newTestFetcher(t, transport)

	items := f.FetchAll(context.Background())

	// Two configured pages, two items each.
	if diff := cmp.Diff(4, len(items)); diff != "" {
		t.Errorf("item count mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(2, transport.attempts()); diff != "" {
		t.Errorf("page request count mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchAllOneBadPage(t *testing.T) {
	transport := &seqTransport{responses: []response{
		{body: "oops", statusCode: 500},
		{body: inventoryPage, statusCode: 200},
	}}
	f := newTestFetcher(t, transport)

	items := f.FetchAll(context.Background())

	// Page 1 abandoned immediately, page 2 still fetched.
	if diff := cmp.Diff(2, len(items)); diff != "" {
		t.Errorf("item count mismatch (-want +got):\n%s", diff)
	}
}
