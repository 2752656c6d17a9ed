package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/ethpandaops/injuryboard/pkg/clickhouse"
)

// Response is a canned answer of the fake ClickHouse server
type Response struct {
	Status    int
	Exception string
	Meta      []clickhouse.Column
	Data      []map[string]interface{}
}

// FakeClickHouse serves the ClickHouse HTTP interface from canned responses.
// Queries are matched by their text with the trailing FORMAT clause removed.
type FakeClickHouse struct {
	server *httptest.Server

	mu        sync.Mutex
	responses map[string]Response
	fallback  *Response
	queries   []string
}

// NewFakeClickHouse starts a fake server that is closed when the test completes
func NewFakeClickHouse(t *testing.T) *FakeClickHouse {
	t.Helper()

	f := &FakeClickHouse{
		responses: make(map[string]Response),
	}

	f.server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.server.Close)

	return f
}

// URL returns the base URL of the fake server
func (f *FakeClickHouse) URL() string {
	return f.server.URL
}

// Respond registers the answer for query
func (f *FakeClickHouse) Respond(query string, resp Response) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.responses[normalize(query)] = resp
}

// RespondAll registers the answer for any query without its own response
func (f *FakeClickHouse) RespondAll(resp Response) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.fallback = &resp
}

// Fail makes query fail with status and a ClickHouse exception message
func (f *FakeClickHouse) Fail(query string, status int, exception string) {
	f.Respond(query, Response{Status: status, Exception: exception})
}

// Count returns how many times query reached the server
func (f *FakeClickHouse) Count(query string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	want := normalize(query)
	n := 0

	for _, q := range f.queries {
		if q == want {
			n++
		}
	}

	return n
}

// Queries returns every query received, in order
func (f *FakeClickHouse) Queries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, len(f.queries))
	copy(out, f.queries)

	return out
}

func (f *FakeClickHouse) handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	query := normalize(string(body))

	f.mu.Lock()
	f.queries = append(f.queries, query)
	resp, ok := f.responses[query]
	if !ok && f.fallback != nil {
		resp, ok = *f.fallback, true
	}
	f.mu.Unlock()

	if query == "SELECT 1" && !ok {
		_, _ = w.Write([]byte("1\n"))
		return
	}

	if !ok {
		resp = Response{Status: http.StatusNotFound, Exception: "Code: 60. DB::Exception: Unknown table expression identifier. (UNKNOWN_TABLE)"}
	}

	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	if resp.Exception != "" {
		status := resp.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}

		w.WriteHeader(status)
		_, _ = w.Write([]byte(resp.Exception + "\n"))

		return
	}

	data := resp.Data
	if data == nil {
		data = []map[string]interface{}{}
	}

	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"meta":      resp.Meta,
		"data":      data,
		"rows":      len(data),
		"rows_read": len(data),
	})
}

func normalize(query string) string {
	q := strings.TrimSpace(query)
	q = strings.TrimSuffix(q, "FORMAT JSON")

	return strings.TrimSpace(q)
}
