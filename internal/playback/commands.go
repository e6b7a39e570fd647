package playback

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/llehouerou/wavecast/internal/errmsg"
	"github.com/llehouerou/wavecast/internal/playlist"
)

// Append validates every URL and appends them to the queue. If any URL is
// malformed nothing is appended. The cursor never moves.
func (e *Engine) Append(urls ...string) error {
	var err error
	if cerr := e.call(func() {
		var items []*playlist.Item
		items, err = e.queue.Append(urls...)
		if err != nil {
			e.log.Debug(errmsg.Format(errmsg.OpQueueAppend, err))
			return
		}
		e.log.Debug("appended", "count", len(items), "len", e.queue.Len())
		e.emitQueue()
	}); cerr != nil {
		return cerr
	}
	return err
}

// Play starts playback of the item at index.
func (e *Engine) Play(index int) error {
	var err error
	if cerr := e.call(func() {
		item := e.queue.JumpTo(index)
		if item == nil {
			err = fmt.Errorf("%w: %d not in [0, %d)", errmsg.ErrIndexOutOfRange, index, e.queue.Len())
			return
		}
		e.startItem(item, true)
	}); cerr != nil {
		return cerr
	}
	return err
}

// QuickPlay swaps the current item for one playing url and starts it. With
// no current item url is appended and started. The queue is untouched when
// url is malformed.
func (e *Engine) QuickPlay(url string) error {
	var err error
	if cerr := e.call(func() {
		var item *playlist.Item
		item, err = e.queue.ReplaceCurrent(url)
		if err != nil {
			e.log.Debug(errmsg.Format(errmsg.OpPlaybackStart, err))
			return
		}
		e.emitQueue()
		e.startItem(item, true)
	}); cerr != nil {
		return cerr
	}
	return err
}

// Next starts the item after the cursor.
func (e *Engine) Next() error {
	var err error
	if cerr := e.call(func() {
		item := e.queue.Next()
		if item == nil {
			err = fmt.Errorf("%w: no next item", errmsg.ErrIndexOutOfRange)
			return
		}
		e.startItem(item, true)
	}); cerr != nil {
		return cerr
	}
	return err
}

// Previous starts the item before the cursor.
func (e *Engine) Previous() error {
	var err error
	if cerr := e.call(func() {
		item := e.queue.Previous()
		if item == nil {
			err = fmt.Errorf("%w: no previous item", errmsg.ErrIndexOutOfRange)
			return
		}
		e.startItem(item, true)
	}); cerr != nil {
		return cerr
	}
	return err
}

// Pause pauses playback and clears the intent to play.
func (e *Engine) Pause() {
	e.Post(e.pause)
}

// ContinuePlay resumes playback after Pause. Once the queue has ended, in
// Finished or Failed, it restarts the item at the cursor; with nothing loaded
// it starts the cursor item or the first one.
func (e *Engine) ContinuePlay() {
	e.Post(e.continuePlay)
}

// Toggle pauses when playing and resumes otherwise.
func (e *Engine) Toggle() {
	e.Post(func() {
		if e.status == StatusPlaying || e.status == StatusBuffering {
			e.pause()
			return
		}
		e.continuePlay()
	})
}

// SetVolume sets the media volume (0.0 to 1.0).
func (e *Engine) SetVolume(level float64) {
	e.Post(func() { e.player.SetVolume(level) })
}

// Remove removes every queue entry whose source is url and returns how many
// were removed. If the loaded item was among them playback moves to the item
// that followed it, or stops when none remains.
func (e *Engine) Remove(url string) int {
	var n int
	_ = e.call(func() {
		removed := e.queue.RemoveURL(url)
		n = len(removed)
		if n == 0 {
			return
		}

		wasLoaded := false
		for _, it := range removed {
			if it == e.loaded {
				wasLoaded = true
			}
		}
		e.log.Debug("removed", "url", url, "count", n, "current", wasLoaded)
		e.emitQueue()

		if !wasLoaded {
			return
		}
		autoplay := e.shouldPlay
		if next := e.queue.Current(); next != nil {
			e.startItem(next, autoplay)
			return
		}
		e.stop()
	})
	return n
}

// Clear empties the queue, cancels any in-flight load and releases the media
// handle.
func (e *Engine) Clear() {
	_ = e.call(func() {
		e.queue.Clear()
		e.stop()
		e.emitQueue()
	})
}

// UpdateProgress seeks to rate*duration. It reports false without side
// effects when rate is outside [0,1] or the duration is not known yet, and
// blocks until the media engine confirms the seek or ctx is done.
func (e *Engine) UpdateProgress(ctx context.Context, rate float64) bool {
	if math.IsNaN(rate) || rate < 0 || rate > 1 {
		e.log.Debug(errmsg.Format(errmsg.OpPlaybackSeek, fmt.Errorf("%w: rate %v", errmsg.ErrSeekOutOfRange, rate)))
		return false
	}
	return e.seek(ctx, func(d time.Duration) (time.Duration, bool) {
		return time.Duration(rate * float64(d)), true
	})
}

// SeekTo seeks to an absolute position within [0, duration].
func (e *Engine) SeekTo(ctx context.Context, pos time.Duration) bool {
	return e.seek(ctx, func(d time.Duration) (time.Duration, bool) {
		if pos < 0 || pos > d {
			e.log.Debug(errmsg.Format(errmsg.OpPlaybackSeek, fmt.Errorf("%w: %v of %v", errmsg.ErrSeekOutOfRange, pos, d)))
			return 0, false
		}
		return pos, true
	})
}

func (e *Engine) seek(ctx context.Context, target func(time.Duration) (time.Duration, bool)) bool {
	result := make(chan bool, 1)
	if err := e.call(func() {
		if e.loaded == nil || !e.mediaReady || e.loaded.Duration <= 0 {
			result <- false
			return
		}
		pos, ok := target(e.loaded.Duration)
		if !ok {
			result <- false
			return
		}

		e.seekGen++
		gen, src, dur := e.seekGen, e.sourceID, e.loaded.Duration
		e.player.Seek(pos, func(applied bool) {
			e.Post(func() {
				if gen != e.seekGen || src != e.sourceID {
					result <- false
					return
				}
				if applied {
					e.emitProgress(pos, dur)
				}
				result <- applied
			})
		})
	}); err != nil {
		return false
	}

	select {
	case ok := <-result:
		return ok
	case <-ctx.Done():
		return false
	case <-e.done:
		return false
	}
}

// The functions below run on the engine goroutine.

func (e *Engine) pause() {
	e.shouldPlay = false
	e.cancelResume()
	switch e.status {
	case StatusPlaying:
		if !e.background && !e.stalled {
			e.player.Pause()
		}
		e.stopTicker()
		e.setStatus(StatusPaused)
	case StatusBuffering, StatusReady:
		e.setStatus(StatusPaused)
	}
}

func (e *Engine) continuePlay() {
	e.cancelResume()
	switch e.status {
	case StatusPaused, StatusReady:
		e.shouldPlay = true
		e.interrupt = false
		switch {
		case e.mediaReady && !e.stalled:
			e.startRendering()
		case e.mediaReady, e.fetching, e.sourceID != "":
			e.setStatus(StatusBuffering)
		}
	case StatusUnknown, StatusFinished, StatusFailed:
		item := e.queue.Current()
		if item == nil {
			item = e.queue.JumpTo(0)
		}
		if item != nil {
			e.startItem(item, true)
		}
	case StatusNetworkError:
		e.shouldPlay = true
		if e.reachable {
			e.recover()
		}
	case StatusBuffering:
		e.shouldPlay = true
		e.interrupt = false
		if e.mediaReady && !e.stalled {
			e.startRendering()
		}
	}
}

// stop unloads the current item and returns to Unknown.
func (e *Engine) stop() {
	e.unload()
	e.shouldPlay = false
	e.setStatus(StatusUnknown)
}
