// Package downloader resolves the bytes of remote media, consulting the
// content cache first and coalescing concurrent fetches of the same URL into
// a single network transfer.
package downloader

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/llehouerou/wavecast/internal/cache"
	"github.com/llehouerou/wavecast/internal/errmsg"
	"github.com/llehouerou/wavecast/internal/logging"
)

const defaultTimeout = 60 * time.Second

// Store is the subset of the content cache used by the downloader.
type Store interface {
	Get(key string) ([]byte, bool)
	Put(key string, data []byte)
}

// Transport performs the actual network transfer.
type Transport interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Executor runs result callbacks on the caller's execution context.
type Executor interface {
	Post(fn func())
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(fn func())

// Post implements Executor.
func (f ExecutorFunc) Post(fn func()) { f(fn) }

// Inline runs callbacks directly on the delivering goroutine.
var Inline Executor = ExecutorFunc(func(fn func()) { fn() })

// Options configures a Downloader.
type Options struct {
	RateLimit float64       // network fetches per second, 0 = unlimited
	Burst     int           // limiter burst, default 1
	Timeout   time.Duration // per-transfer timeout, default 60s
	Logger    *log.Logger
}

// Stats counts how requests were resolved.
type Stats struct {
	Requests       int64 // FetchAsync calls
	Flights        int64 // distinct single-flight executions
	NetworkFetches int64 // transport calls
	CacheHits      int64 // flights served from the store
	Coalesced      int64 // requests that joined an existing flight
}

// Downloader is safe for concurrent use.
type Downloader struct {
	store     Store
	transport Transport
	group     singleflight.Group
	limiter   *rate.Limiter
	timeout   time.Duration
	log       *log.Logger

	requests atomic.Int64
	flights  atomic.Int64
	fetches  atomic.Int64
	hits     atomic.Int64
}

// New creates a downloader backed by store and transport.
func New(store Store, transport Transport, opts Options) *Downloader {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}

	d := &Downloader{
		store:     store,
		transport: transport,
		timeout:   opts.Timeout,
		log:       logging.Component(opts.Logger, "downloader"),
	}
	if opts.RateLimit > 0 {
		d.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), opts.Burst)
	}
	return d
}

// Fetch returns the bytes for url, blocking until they are available or ctx
// is done.
func (d *Downloader) Fetch(ctx context.Context, url string) ([]byte, error) {
	type result struct {
		data []byte
		err  error
	}
	ch := make(chan result, 1)
	d.FetchAsync(ctx, url, Inline, func(data []byte, err error) {
		ch <- result{data: data, err: err}
	})
	r := <-ch
	return r.data, r.err
}

// FetchAsync resolves url and delivers the result through exec.
//
// The single-flight registration happens before FetchAsync returns, so N
// calls for the same URL made before the first flight completes share one
// cache lookup and at most one network transfer. The store is only read on
// the flight goroutine; FetchAsync never blocks on I/O. Every subscriber
// receives the same bytes (which must not be modified) or the same error.
// Cancelling ctx only stops this caller from waiting; the shared flight
// keeps running for the other subscribers.
func (d *Downloader) FetchAsync(ctx context.Context, url string, exec Executor, fn func([]byte, error)) {
	if exec == nil {
		exec = Inline
	}
	key := cache.Key(url)

	d.requests.Add(1)
	ch := d.group.DoChan(key, func() (any, error) {
		return d.resolve(key, url)
	})

	go func() {
		select {
		case res := <-ch:
			data, _ := res.Val.([]byte)
			exec.Post(func() { fn(data, res.Err) })
		case <-ctx.Done():
			err := ctx.Err()
			exec.Post(func() { fn(nil, err) })
		}
	}()
}

// resolve runs once per flight: store first, then the transport.
func (d *Downloader) resolve(key, url string) ([]byte, error) {
	d.flights.Add(1)

	if data, ok := d.store.Get(key); ok {
		d.hits.Add(1)
		d.log.Debug("cache hit", "url", url, "size", humanize.IBytes(uint64(len(data))))
		return data, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if d.limiter != nil {
		if err := d.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limiter: %w", errmsg.ErrNetworkUnavailable, err)
		}
	}

	d.fetches.Add(1)
	start := time.Now()
	data, err := d.transport.Get(ctx, url)
	if err != nil {
		d.log.Warn(errmsg.FormatWith(errmsg.OpDownloadFetch, url, err))
		return nil, err
	}

	d.log.Debug("downloaded", "url", url, "size", humanize.IBytes(uint64(len(data))), "took", time.Since(start).Round(time.Millisecond))
	d.store.Put(key, data)
	return data, nil
}

// Stats returns a snapshot of the resolution counters.
func (d *Downloader) Stats() Stats {
	s := Stats{
		Requests:       d.requests.Load(),
		Flights:        d.flights.Load(),
		NetworkFetches: d.fetches.Load(),
		CacheHits:      d.hits.Load(),
	}
	s.Coalesced = max(s.Requests-s.Flights, 0)
	return s
}
