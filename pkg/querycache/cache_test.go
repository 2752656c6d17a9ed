package querycache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethpandaops/injuryboard/pkg/clickhouse"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errWarehouseDown = errors.New("connection refused")

type countingFetcher struct {
	calls atomic.Int32
	err   error
	delay time.Duration
}

func (f *countingFetcher) Query(_ context.Context, query string) (*clickhouse.Rows, error) {
	n := f.calls.Add(1)

	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	if f.err != nil {
		return nil, f.err
	}

	return &clickhouse.Rows{
		Columns: []clickhouse.Column{{Name: "query", Type: "String"}, {Name: "call", Type: "Int32"}},
		Records: []map[string]interface{}{{"query": query, "call": int64(n)}},
	}, nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

// blockingFetcher holds every query until release is closed or its context ends
type blockingFetcher struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlockingFetcher() *blockingFetcher {
	return &blockingFetcher{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (f *blockingFetcher) Query(ctx context.Context, query string) (*clickhouse.Rows, error) {
	f.calls.Add(1)
	f.once.Do(func() { close(f.started) })

	select {
	case <-f.release:
		return &clickhouse.Rows{
			Columns: []clickhouse.Column{{Name: "query", Type: "String"}},
			Records: []map[string]interface{}{{"query": query}},
		}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func newTestCache(t *testing.T, fetcher Fetcher) (*Cache, *fakeClock) {
	t.Helper()

	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	cache, err := New("test", fetcher, log, WithClock(clock.Now))
	require.NoError(t, err)

	return cache, clock
}

func TestNew_RequiresFetcher(t *testing.T) {
	_, err := New("test", nil, logrus.New())
	assert.ErrorIs(t, err, ErrNilFetcher)
}

func TestCache_Fetch_TTL(t *testing.T) {
	tests := []struct {
		name      string
		advance   time.Duration
		wantCalls int32
	}{
		{name: "immediate second call is a hit", advance: 0, wantCalls: 1},
		{name: "inside ttl is a hit", advance: 599 * time.Second, wantCalls: 1},
		{name: "at ttl boundary is a miss", advance: TTL, wantCalls: 2},
		{name: "after ttl is a miss", advance: 601 * time.Second, wantCalls: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &countingFetcher{}
			cache, clock := newTestCache(t, fetcher)
			ctx := context.Background()

			_, err := cache.Fetch(ctx, "SELECT 1")
			require.NoError(t, err)

			clock.Advance(tt.advance)

			_, err = cache.Fetch(ctx, "SELECT 1")
			require.NoError(t, err)

			assert.Equal(t, tt.wantCalls, fetcher.calls.Load())
		})
	}
}

func TestCache_Fetch_ReplacesExpiredEntry(t *testing.T) {
	fetcher := &countingFetcher{}
	cache, clock := newTestCache(t, fetcher)
	ctx := context.Background()

	first, err := cache.Fetch(ctx, "SELECT 1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Records[0]["call"])

	clock.Advance(TTL + time.Second)

	second, err := cache.Fetch(ctx, "SELECT 1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.Records[0]["call"])

	entry, ok := cache.entry("SELECT 1")
	require.True(t, ok)
	assert.Equal(t, clock.Now(), entry.ComputedAt)
	assert.Equal(t, TTL, entry.TTL)
	assert.Len(t, entry.Rows.Records, 1)
	assert.Equal(t, 1, cache.size())
}

func TestCache_Fetch_KeyedByQueryText(t *testing.T) {
	fetcher := &countingFetcher{}
	cache, _ := newTestCache(t, fetcher)
	ctx := context.Background()

	_, err := cache.Fetch(ctx, "SELECT 1")
	require.NoError(t, err)
	_, err = cache.Fetch(ctx, "SELECT 2")
	require.NoError(t, err)
	_, err = cache.Fetch(ctx, "SELECT 1")
	require.NoError(t, err)

	assert.Equal(t, int32(2), fetcher.calls.Load())
	assert.Equal(t, 2, cache.size())
}

func TestCache_Fetch_RemoteError(t *testing.T) {
	fetcher := &countingFetcher{err: errWarehouseDown}
	cache, _ := newTestCache(t, fetcher)
	ctx := context.Background()

	rows, err := cache.Fetch(ctx, "SELECT 1")
	require.Error(t, err)
	assert.Nil(t, rows)

	var rqe *RemoteQueryError
	require.ErrorAs(t, err, &rqe)
	assert.Equal(t, "SELECT 1", rqe.Query)
	assert.ErrorIs(t, err, errWarehouseDown)
	assert.True(t, IsRemoteQueryError(err))

	// Failures are not cached, the next call goes back to the warehouse
	_, err = cache.Fetch(ctx, "SELECT 1")
	require.Error(t, err)
	assert.Equal(t, int32(2), fetcher.calls.Load())
	assert.Equal(t, 0, cache.size())
}

func TestCache_Fetch_ConcurrentMissesShareExecution(t *testing.T) {
	fetcher := &countingFetcher{delay: 50 * time.Millisecond}
	cache, _ := newTestCache(t, fetcher)
	ctx := context.Background()

	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			rows, err := cache.Fetch(ctx, "SELECT 1")
			assert.NoError(t, err)
			assert.Equal(t, 1, rows.Len())
		}()
	}

	wg.Wait()

	assert.Equal(t, int32(1), fetcher.calls.Load())
}

func TestCache_Fetch_CanceledCallerDoesNotFailOthers(t *testing.T) {
	fetcher := newBlockingFetcher()
	cache, _ := newTestCache(t, fetcher)

	ctxA, cancel := context.WithCancel(context.Background())
	defer cancel()

	errA := make(chan error, 1)

	go func() {
		_, err := cache.Fetch(ctxA, "Q")
		errA <- err
	}()

	<-fetcher.started

	type result struct {
		rows *clickhouse.Rows
		err  error
	}

	resB := make(chan result, 1)

	go func() {
		rows, err := cache.Fetch(context.Background(), "Q")
		resB <- result{rows: rows, err: err}
	}()

	// Let the second caller join the in-flight execution before cancelling
	time.Sleep(20 * time.Millisecond)
	cancel()
	time.Sleep(20 * time.Millisecond)
	close(fetcher.release)

	b := <-resB
	require.NoError(t, b.err)
	assert.Equal(t, 1, b.rows.Len())
	assert.NoError(t, <-errA)

	assert.Equal(t, int32(1), fetcher.calls.Load())
	assert.Equal(t, 1, cache.size())
}

func TestIsRemoteQueryError(t *testing.T) {
	assert.False(t, IsRemoteQueryError(nil))
	assert.False(t, IsRemoteQueryError(errWarehouseDown))

	wrapped := errors.Join(errors.New("render failed"), &RemoteQueryError{Query: "q", Err: errWarehouseDown})
	assert.True(t, IsRemoteQueryError(wrapped))
}
