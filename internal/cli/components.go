package cli

import (
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/llehouerou/wavecast/internal/artwork"
	"github.com/llehouerou/wavecast/internal/cache"
	"github.com/llehouerou/wavecast/internal/downloader"
	"github.com/llehouerou/wavecast/internal/errmsg"
)

func openCache() (*cache.Cache, error) {
	cc := cfg.GetCacheConfig()
	c, err := cache.Open(cache.Options{
		Dir:    cc.Dir,
		Quota:  cc.QuotaBytes(),
		Fs:     afero.NewOsFs(),
		Logger: logger,
	})
	if err != nil {
		return nil, errmsg.Wrap(errmsg.OpCacheOpen, cc.Dir, err)
	}
	return c, nil
}

// openArtwork returns the store for embedded cover art, kept beside the
// download cache.
func openArtwork() *artwork.Store {
	return artwork.New(afero.NewOsFs(), filepath.Join(cfg.GetCacheConfig().Dir, "art"), logger)
}

// nopStore never hits and drops writes; it backs --no-cache.
type nopStore struct{}

func (nopStore) Get(string) ([]byte, bool) { return nil, false }
func (nopStore) Put(string, []byte)        {}

func newDownloader(store downloader.Store) *downloader.Downloader {
	dc := cfg.GetDownloadConfig()
	return downloader.New(store,
		downloader.NewHTTPTransport(dc.Timeout(), dc.UserAgent),
		downloader.Options{
			RateLimit: dc.RateLimit,
			Burst:     dc.Burst,
			Timeout:   dc.Timeout(),
			Logger:    logger,
		})
}
