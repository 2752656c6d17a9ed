// Package querycache memoizes warehouse query results in process memory
package querycache

import (
	"context"
	"sync"
	"time"

	"github.com/ethpandaops/injuryboard/pkg/clickhouse"
	"github.com/ethpandaops/injuryboard/pkg/observability"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// TTL is how long a query result stays valid after it was computed
const TTL = 600 * time.Second

// Fetcher executes a live query against the warehouse
type Fetcher interface {
	Query(ctx context.Context, query string) (*clickhouse.Rows, error)
}

// Entry is a cached query result. Rows are shared between callers and must not
// be modified.
type Entry struct {
	Query      string
	ComputedAt time.Time
	TTL        time.Duration
	Rows       *clickhouse.Rows
}

// ExpiresAt returns the instant the entry stops being valid
func (e Entry) ExpiresAt() time.Time {
	return e.ComputedAt.Add(e.TTL)
}

// Valid reports whether the entry can still be served at now
func (e Entry) Valid(now time.Time) bool {
	return now.Before(e.ExpiresAt())
}

// Cache holds one entry per literal query text
type Cache struct {
	name    string
	log     logrus.FieldLogger
	fetcher Fetcher
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]Entry
	group   singleflight.Group
}

// Option configures a Cache
type Option func(*Cache)

// WithClock replaces the clock used to stamp and expire entries
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New creates a query cache in front of fetcher
func New(name string, fetcher Fetcher, log logrus.FieldLogger, opts ...Option) (*Cache, error) {
	if fetcher == nil {
		return nil, ErrNilFetcher
	}

	c := &Cache{
		name:    name,
		log:     log.WithField("component", "querycache").WithField("cache", name),
		fetcher: fetcher,
		now:     time.Now,
		entries: make(map[string]Entry),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Fetch returns the rows for query, executing it only when no valid entry exists.
// Failures are returned as *RemoteQueryError and leave any previous entry in place.
func (c *Cache) Fetch(ctx context.Context, query string) (*clickhouse.Rows, error) {
	if entry, ok := c.lookup(query); ok {
		observability.RecordQueryCacheHit(c.name)
		return entry.Rows, nil
	}

	// Concurrent misses for the same text share one live execution, detached
	// from the cancellation of whichever caller started it
	shared := context.WithoutCancel(ctx)

	v, err, joined := c.group.Do(query, func() (interface{}, error) {
		// Another caller may have filled the entry while we waited on the group
		if entry, ok := c.peek(query); ok {
			return entry.Rows, nil
		}

		start := c.now()

		rows, err := c.fetcher.Query(shared, query)
		if err != nil {
			observability.RecordError("querycache", "remote_query")
			return nil, &RemoteQueryError{Query: query, Err: err}
		}

		c.store(Entry{
			Query:      query,
			ComputedAt: c.now(),
			TTL:        TTL,
			Rows:       rows,
		})

		c.log.WithFields(logrus.Fields{
			"rows":     rows.Len(),
			"duration": c.now().Sub(start).String(),
		}).Debug("Stored query result")

		return rows, nil
	})
	if err != nil {
		return nil, err
	}

	if joined {
		c.log.Debug("Shared in-flight query result")
	}

	rows, _ := v.(*clickhouse.Rows)

	return rows, nil
}

// entry returns the current entry for query, valid or not
func (c *Cache) entry(query string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[query]

	return entry, ok
}

// size returns the number of stored entries, including expired ones not yet replaced
func (c *Cache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

func (c *Cache) lookup(query string) (Entry, bool) {
	c.mu.Lock()
	entry, ok := c.entries[query]
	c.mu.Unlock()

	if !ok {
		observability.RecordQueryCacheMiss(c.name, "absent")
		return Entry{}, false
	}

	if !entry.Valid(c.now()) {
		observability.RecordQueryCacheMiss(c.name, "expired")
		return Entry{}, false
	}

	return entry, true
}

func (c *Cache) peek(query string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[query]
	if !ok || !entry.Valid(c.now()) {
		return Entry{}, false
	}

	return entry, true
}

// store replaces any previous entry for the same query
func (c *Cache) store(entry Entry) {
	c.mu.Lock()
	c.entries[entry.Query] = entry
	n := len(c.entries)
	c.mu.Unlock()

	observability.SetQueryCacheEntries(n)
}
