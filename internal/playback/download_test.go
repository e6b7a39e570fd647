package playback

import (
	"context"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/wavecast/internal/downloader"
	"github.com/llehouerou/wavecast/internal/lifecycle"
	"github.com/llehouerou/wavecast/internal/player"
)

type mapStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (s *mapStore) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.data[key]
	return b, ok
}

func (s *mapStore) Put(key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = data
}

type countingTransport struct {
	mu    sync.Mutex
	calls map[string]int
}

func (c *countingTransport) Get(_ context.Context, url string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[url]++
	return audio, nil
}

func (c *countingTransport) count(url string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[url]
}

func TestEngine_WithDownloader_ReplayServedFromCache(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		transport := &countingTransport{calls: make(map[string]int)}
		dl := downloader.New(&mapStore{data: make(map[string][]byte)}, transport, downloader.Options{})
		p := player.NewMock()
		e := New(p, dl, Options{Preload: true, Lifecycle: lifecycle.NewManual()})
		defer e.Close()

		require.NoError(t, e.Append(urlA, urlB, urlA))
		require.NoError(t, e.Play(0))
		synctest.Wait()
		require.Len(t, p.LoadCalls(), 1)

		p.SimulateDecodeReady(time.Second)
		synctest.Wait()
		assert.Equal(t, StatusPlaying, e.Status())
		assert.Equal(t, 1, transport.count(urlB), "next item preloaded")

		p.SimulateReachedEnd()
		synctest.Wait()
		require.Len(t, p.LoadCalls(), 2, "preloaded bytes load without waiting")
		p.SimulateDecodeReady(time.Second)
		p.SimulateReachedEnd()
		synctest.Wait()

		require.Len(t, p.LoadCalls(), 3)
		assert.Equal(t, 2, e.Cursor())
		assert.Equal(t, 1, transport.count(urlA), "replay comes from the cache")
		assert.Equal(t, 1, transport.count(urlB))

		stats := dl.Stats()
		assert.Equal(t, int64(2), stats.NetworkFetches)
		assert.GreaterOrEqual(t, stats.CacheHits, int64(2))
	})
}
