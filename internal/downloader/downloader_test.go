package downloader

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/wavecast/internal/cache"
	"github.com/llehouerou/wavecast/internal/errmsg"
)

type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
	puts int
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (s *memStore) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.data[key]
	return d, ok
}

func (s *memStore) Put(key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = data
	s.puts++
}

// slowStore blocks every Get until released.
type slowStore struct {
	*memStore
	gets    atomic.Int32
	release chan struct{}
}

func (s *slowStore) Get(key string) ([]byte, bool) {
	s.gets.Add(1)
	<-s.release
	return s.memStore.Get(key)
}

type gatedTransport struct {
	calls   atomic.Int32
	release chan struct{}
	body    []byte
	err     error
}

func newGatedTransport(body []byte, err error) *gatedTransport {
	return &gatedTransport{release: make(chan struct{}), body: body, err: err}
}

func (t *gatedTransport) Get(ctx context.Context, _ string) ([]byte, error) {
	t.calls.Add(1)
	select {
	case <-t.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return t.body, t.err
}

type result struct {
	data []byte
	err  error
}

func TestFetchAsync_CoalescesConcurrentRequests(t *testing.T) {
	store := newMemStore()
	tr := newGatedTransport([]byte("audio-bytes"), nil)
	d := New(store, tr, Options{})

	const n = 8
	results := make(chan result, n)
	for range n {
		d.FetchAsync(context.Background(), "https://example.com/a.mp3", Inline, func(data []byte, err error) {
			results <- result{data, err}
		})
	}
	close(tr.release)

	for range n {
		select {
		case r := <-results:
			require.NoError(t, r.err)
			assert.Equal(t, []byte("audio-bytes"), r.data)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for result")
		}
	}

	assert.Equal(t, int32(1), tr.calls.Load())
	assert.Equal(t, 1, store.puts)

	s := d.Stats()
	assert.Equal(t, int64(n), s.Requests)
	assert.Equal(t, int64(1), s.Flights)
	assert.Equal(t, int64(1), s.NetworkFetches)
	assert.Equal(t, int64(n-1), s.Coalesced)
}

func TestFetch_ConcurrentCallersShareOneTransfer(t *testing.T) {
	tr := newGatedTransport([]byte("x"), nil)
	d := New(newMemStore(), tr, Options{})

	const n = 5
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = d.Fetch(context.Background(), "https://example.com/a.mp3")
		}()
	}

	require.Eventually(t, func() bool {
		return d.Stats().Requests == n
	}, 2*time.Second, 5*time.Millisecond)
	close(tr.release)
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), tr.calls.Load())
}

func TestFetch_CacheHitSkipsTransport(t *testing.T) {
	store := newMemStore()
	url := "https://example.com/cached.mp3"
	store.Put(cache.Key(url), []byte("cached"))
	tr := newGatedTransport(nil, nil)
	d := New(store, tr, Options{})

	data, err := d.Fetch(context.Background(), url)

	require.NoError(t, err)
	assert.Equal(t, []byte("cached"), data)
	assert.Zero(t, tr.calls.Load())
	assert.Equal(t, int64(1), d.Stats().CacheHits)
}

func TestFetchAsync_StoreReadOffCallerGoroutine(t *testing.T) {
	url := "https://example.com/big.mp3"
	store := &slowStore{memStore: newMemStore(), release: make(chan struct{})}
	store.memStore.Put(cache.Key(url), []byte("cached"))
	tr := newGatedTransport(nil, nil)
	d := New(store, tr, Options{})

	results := make(chan result, 2)
	returned := make(chan struct{})
	go func() {
		for range 2 {
			d.FetchAsync(context.Background(), url, Inline, func(data []byte, err error) {
				results <- result{data, err}
			})
		}
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(2 * time.Second):
		t.Fatal("FetchAsync blocked on the store")
	}
	close(store.release)

	for range 2 {
		r := <-results
		require.NoError(t, r.err)
		assert.Equal(t, []byte("cached"), r.data)
	}
	assert.Zero(t, tr.calls.Load())
	assert.Equal(t, int32(1), store.gets.Load(), "joined requests share one lookup")
	assert.Equal(t, int64(1), d.Stats().CacheHits)
	assert.Equal(t, int64(1), d.Stats().Coalesced)
}

func TestFetch_SecondRequestServedFromCache(t *testing.T) {
	tr := newGatedTransport([]byte("x"), nil)
	close(tr.release)
	d := New(newMemStore(), tr, Options{})
	url := "https://example.com/a.mp3"

	_, err := d.Fetch(context.Background(), url)
	require.NoError(t, err)
	_, err = d.Fetch(context.Background(), url)
	require.NoError(t, err)

	assert.Equal(t, int32(1), tr.calls.Load())
}

func TestFetch_ErrorSharedAndNotCached(t *testing.T) {
	store := newMemStore()
	fail := fmt.Errorf("%w: boom", errmsg.ErrNetworkUnavailable)
	tr := newGatedTransport(nil, fail)
	d := New(store, tr, Options{})

	const n = 3
	results := make(chan result, n)
	for range n {
		d.FetchAsync(context.Background(), "https://example.com/a.mp3", Inline, func(data []byte, err error) {
			results <- result{data, err}
		})
	}
	close(tr.release)

	for range n {
		r := <-results
		require.ErrorIs(t, r.err, errmsg.ErrNetworkUnavailable)
		assert.Nil(t, r.data)
	}
	assert.Zero(t, store.puts)

	// A later request retries the transfer.
	_, err := d.Fetch(context.Background(), "https://example.com/a.mp3")
	require.Error(t, err)
	assert.Equal(t, int32(2), tr.calls.Load())
}

func TestFetchAsync_CallerCancelDoesNotCancelFlight(t *testing.T) {
	store := newMemStore()
	tr := newGatedTransport([]byte("x"), nil)
	d := New(store, tr, Options{})
	url := "https://example.com/a.mp3"

	ctx, cancel := context.WithCancel(context.Background())
	cancelled := make(chan result, 1)
	d.FetchAsync(ctx, url, Inline, func(data []byte, err error) {
		cancelled <- result{data, err}
	})
	other := make(chan result, 1)
	d.FetchAsync(context.Background(), url, Inline, func(data []byte, err error) {
		other <- result{data, err}
	})

	cancel()
	r := <-cancelled
	require.ErrorIs(t, r.err, context.Canceled)

	close(tr.release)
	r = <-other
	require.NoError(t, r.err)
	assert.Equal(t, []byte("x"), r.data)
	assert.Equal(t, 1, store.puts)
}

func TestFetchAsync_DeliversThroughExecutor(t *testing.T) {
	tr := newGatedTransport([]byte("x"), nil)
	close(tr.release)
	d := New(newMemStore(), tr, Options{})

	var posted atomic.Int32
	done := make(chan struct{})
	exec := ExecutorFunc(func(fn func()) {
		posted.Add(1)
		go fn()
	})
	d.FetchAsync(context.Background(), "https://example.com/a.mp3", exec, func([]byte, error) {
		close(done)
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("callback not delivered")
	}
	assert.Equal(t, int32(1), posted.Load())
}

func TestFetch_RateLimited(t *testing.T) {
	tr := newGatedTransport([]byte("x"), nil)
	close(tr.release)
	d := New(newMemStore(), tr, Options{RateLimit: 20, Burst: 1})

	start := time.Now()
	for i := range 3 {
		_, err := d.Fetch(context.Background(), fmt.Sprintf("https://example.com/%d.mp3", i))
		require.NoError(t, err)
	}

	// Burst of one then two waits of 50ms each.
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}

func TestFetch_TransportTimeout(t *testing.T) {
	tr := newGatedTransport(nil, nil)
	d := New(newMemStore(), tr, Options{Timeout: 20 * time.Millisecond})

	_, err := d.Fetch(context.Background(), "https://example.com/slow.mp3")

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
