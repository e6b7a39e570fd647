package playback

import (
	"context"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/llehouerou/wavecast/internal/downloader"
	"github.com/llehouerou/wavecast/internal/lifecycle"
	"github.com/llehouerou/wavecast/internal/player"
	"github.com/llehouerou/wavecast/internal/playlist"
)

const (
	urlA = "https://example.com/a.mp3"
	urlB = "https://example.com/b.mp3"
	urlC = "https://example.com/c.mp3"
)

var audio = []byte("not really audio")

type fetchRequest struct {
	ctx  context.Context
	url  string
	exec downloader.Executor
	fn   func([]byte, error)
}

// fakeFetcher holds requests until the test resolves them.
type fakeFetcher struct {
	mu      sync.Mutex
	pending []fetchRequest
	calls   map[string]int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{calls: make(map[string]int)}
}

func (f *fakeFetcher) FetchAsync(ctx context.Context, url string, exec downloader.Executor, fn func([]byte, error)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = append(f.pending, fetchRequest{ctx: ctx, url: url, exec: exec, fn: fn})
	f.calls[url]++
}

// resolve completes the oldest pending request for url.
func (f *fakeFetcher) resolve(t *testing.T, url string, data []byte, err error) {
	t.Helper()
	f.mu.Lock()
	var req fetchRequest
	found := false
	for i, r := range f.pending {
		if r.url == url {
			req = r
			f.pending = append(f.pending[:i], f.pending[i+1:]...)
			found = true
			break
		}
	}
	f.mu.Unlock()
	if !found {
		t.Fatalf("no pending fetch for %s", url)
	}
	req.exec.Post(func() { req.fn(data, err) })
}

func (f *fakeFetcher) callCount(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[url]
}

func (f *fakeFetcher) cancelled(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.pending {
		if r.url == url && r.ctx.Err() != nil {
			return true
		}
	}
	return false
}

// recorder collects callback invocations.
type recorder struct {
	mu        sync.Mutex
	statuses  []Status
	progress  []float64
	elapsed   []time.Duration
	durations []time.Duration
	cache     []float64
	finished  []bool
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		OnStatusChanged: func(s Status) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.statuses = append(r.statuses, s)
		},
		OnProgress: func(v float64) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.progress = append(r.progress, v)
		},
		OnElapsed: func(d time.Duration) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.elapsed = append(r.elapsed, d)
		},
		OnDurationConfirmed: func(d time.Duration) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.durations = append(r.durations, d)
		},
		OnCacheProgress: func(v float64) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.cache = append(r.cache, v)
		},
		OnFinished: func(ok bool) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.finished = append(r.finished, ok)
		},
	}
}

func (r *recorder) Statuses() []Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Status(nil), r.statuses...)
}

func (r *recorder) Progress() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]float64(nil), r.progress...)
}

func (r *recorder) Elapsed() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.elapsed...)
}

func (r *recorder) Durations() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.durations...)
}

func (r *recorder) Cache() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]float64(nil), r.cache...)
}

func (r *recorder) Finished() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bool(nil), r.finished...)
}

type testEnv struct {
	engine  *Engine
	player  *player.Mock
	fetcher *fakeFetcher
	life    *lifecycle.Manual
	rec     *recorder
}

func newTestEnv(t *testing.T, opts Options) *testEnv {
	t.Helper()
	env := &testEnv{
		player:  player.NewMock(),
		fetcher: newFakeFetcher(),
		life:    lifecycle.NewManual(),
		rec:     &recorder{},
	}
	opts.Lifecycle = env.life
	opts.Reachability = env.life
	env.engine = New(env.player, env.fetcher, opts)
	env.engine.SetCallbacks(env.rec.callbacks())
	t.Cleanup(func() { _ = env.engine.Close() })
	return env
}

// startPlaying appends urls, plays index 0 and drives it to Playing.
func (env *testEnv) startPlaying(t *testing.T, d time.Duration, urls ...string) {
	t.Helper()
	if err := env.engine.Append(urls...); err != nil {
		t.Fatal(err)
	}
	if err := env.engine.Play(0); err != nil {
		t.Fatal(err)
	}
	env.fetcher.resolve(t, urls[0], audio, nil)
	env.settle()
	env.player.SimulateDecodeReady(d)
	env.settle()
}

// settle waits until the engine and notifier goroutines are idle.
func (env *testEnv) settle() {
	synctest.Wait()
}

func sourceURLs(items []playlist.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.SourceURL
	}
	return out
}
