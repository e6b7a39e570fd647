package playback

import (
	"context"
	"errors"
	"fmt"

	"github.com/llehouerou/wavecast/internal/downloader"
	"github.com/llehouerou/wavecast/internal/errmsg"
	"github.com/llehouerou/wavecast/internal/player"
	"github.com/llehouerou/wavecast/internal/playlist"
	"github.com/llehouerou/wavecast/internal/tags"
)

// startItem cancels whatever is loading, then resolves the bytes of item and
// enters Buffering.
func (e *Engine) startItem(item *playlist.Item, autoplay bool) {
	prev := e.loaded
	e.unload()

	e.loaded = item
	e.shouldPlay = autoplay
	item.LastError = nil
	src := fmt.Sprintf("%s/%d", item.ID, e.loadGen)
	e.sourceID = src
	e.fetching = true

	e.setStatus(StatusBuffering)
	e.emitItem(prev, item)
	e.log.Debug("loading", "url", item.SourceURL, "source", src)

	ctx, cancel := context.WithCancel(context.Background())
	e.loadCancel = cancel
	e.fetcher.FetchAsync(ctx, item.SourceURL, e, func(data []byte, err error) {
		e.onFetched(src, data, err)
	})
}

// unload cancels the pending load and seek, stops timers and releases the
// media handle. Status is left to the caller.
func (e *Engine) unload() {
	if e.loadCancel != nil {
		e.loadCancel()
		e.loadCancel = nil
	}
	e.loadGen++
	e.seekGen++
	e.stopTicker()
	e.cancelResume()

	if e.sourceID != "" && !e.fetching {
		e.player.Release()
	}
	if e.loaded != nil {
		e.loaded.Loaded = false
	}
	e.loaded = nil
	e.sourceID = ""
	e.fetching = false
	e.mediaReady = false
	e.stalled = false
}

func (e *Engine) onFetched(src string, data []byte, err error) {
	if src != e.sourceID {
		return
	}
	item := e.loaded
	e.fetching = false
	if e.loadCancel != nil {
		e.loadCancel()
		e.loadCancel = nil
	}

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		item.LastError = err
		e.log.Warn(errmsg.FormatWith(errmsg.OpDownloadFetch, item.SourceURL, err))
		e.emitError(errmsg.OpDownloadFetch, item, err)
		if errmsg.IsNetwork(err) {
			e.setStatus(StatusNetworkError)
			return
		}
		e.fail(item, err)
		return
	}

	if meta, err := tags.ReadBytes(data); err == nil {
		item.Meta = meta
	}

	if err := e.player.Load(player.Source{ID: src, Data: data}); err != nil {
		e.fail(item, fmt.Errorf("%w: %w", errmsg.ErrDecodeFailed, err))
		return
	}
	item.Loaded = true
}

// fail marks the loaded item Failed and moves on to the next one.
func (e *Engine) fail(item *playlist.Item, err error) {
	if !errors.Is(err, errmsg.ErrFetchFailed) && !errors.Is(err, errmsg.ErrDecodeFailed) {
		err = fmt.Errorf("%w: %w", errmsg.ErrFetchFailed, err)
	}
	item.LastError = err
	e.log.Warn(errmsg.FormatWith(errmsg.OpPlaybackLoad, item.SourceURL, err))

	autoplay := e.shouldPlay
	e.setStatus(StatusFailed)
	e.unload()
	e.notifyFinished(false)

	if next := e.queue.Next(); next != nil {
		e.startItem(next, autoplay)
		return
	}
	e.shouldPlay = false
}

// finish handles a natural end of the loaded item.
func (e *Engine) finish() {
	item := e.loaded
	e.stopTicker()
	e.stalled = false
	e.emitProgress(item.Duration, item.Duration)
	e.setStatus(StatusFinished)
	e.notifyFinished(true)

	if next := e.queue.Next(); next != nil {
		e.startItem(next, true)
		return
	}
	e.shouldPlay = false
}

// startRendering enters Playing. In the background the media stays paused
// until the application returns to the foreground.
func (e *Engine) startRendering() {
	if e.interrupt {
		e.setStatus(StatusPaused)
		return
	}
	e.setStatus(StatusPlaying)
	if e.background {
		return
	}
	e.player.Play()
	e.startTicker()
	e.preloadNext()
}

// preloadNext warms the cache for the item after the cursor.
func (e *Engine) preloadNext() {
	if !e.opts.Preload {
		return
	}
	next := e.queue.Peek()
	if next == nil || next.ID == e.preloaded {
		return
	}
	e.preloaded = next.ID
	url := next.SourceURL
	e.fetcher.FetchAsync(context.Background(), url, downloader.Inline, func(_ []byte, err error) {
		if err != nil {
			e.log.Debug("preload failed", "url", url, "err", err)
		}
	})
}
