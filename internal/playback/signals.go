package playback

import (
	"time"

	"github.com/llehouerou/wavecast/internal/errmsg"
	"github.com/llehouerou/wavecast/internal/lifecycle"
	"github.com/llehouerou/wavecast/internal/player"
)

// mediaSignals forwards media engine signals onto the engine goroutine.
type mediaSignals struct{ e *Engine }

var _ player.Listener = mediaSignals{}

func (m mediaSignals) DecodeReady(id string, d time.Duration) {
	m.e.Post(func() { m.e.onDecodeReady(id, d) })
}

func (m mediaSignals) DecodeFailed(id string, err error) {
	m.e.Post(func() { m.e.onDecodeFailed(id, err) })
}

func (m mediaSignals) BufferEmpty(id string) {
	m.e.Post(func() { m.e.onBufferEmpty(id) })
}

func (m mediaSignals) BufferLikelyToKeepUp(id string) {
	m.e.Post(func() { m.e.onBufferLikelyToKeepUp(id) })
}

func (m mediaSignals) BufferedRangeChanged(id string, start, length time.Duration) {
	m.e.Post(func() { m.e.onBufferedRange(id, start, length) })
}

func (m mediaSignals) ReachedEnd(id string) {
	m.e.Post(func() { m.e.onReachedEnd(id) })
}

// lifecycleSignals forwards lifecycle signals onto the engine goroutine.
type lifecycleSignals struct{ e *Engine }

var _ lifecycle.Listener = lifecycleSignals{}

func (l lifecycleSignals) EnteredBackground() { l.e.Post(l.e.onBackground) }
func (l lifecycleSignals) EnteredForeground() { l.e.Post(l.e.onForeground) }
func (l lifecycleSignals) InterruptionBegan() { l.e.Post(l.e.onInterruptionBegan) }

func (l lifecycleSignals) InterruptionEnded(shouldResume bool) {
	l.e.Post(func() { l.e.onInterruptionEnded(shouldResume) })
}

func (l lifecycleSignals) ReachabilityChanged(reachable bool) {
	l.e.Post(func() { l.e.onReachability(reachable) })
}

// Handlers below run on the engine goroutine. Media handlers drop signals
// whose source is no longer the current load.

func (e *Engine) onDecodeReady(id string, d time.Duration) {
	if id != e.sourceID || e.loaded == nil {
		return
	}
	e.mediaReady = true
	if d > 0 {
		e.confirmDuration(d)
	}

	switch {
	case e.status == StatusNetworkError:
		// Held until reachability is restored.
	case e.shouldPlay && !e.background && !e.interrupt:
		e.startRendering()
	case e.status == StatusBuffering:
		e.setStatus(StatusReady)
	}
}

func (e *Engine) onDecodeFailed(id string, err error) {
	if id != e.sourceID || e.loaded == nil {
		return
	}
	e.emitError(errmsg.OpPlaybackLoad, e.loaded, err)
	e.fail(e.loaded, err)
}

func (e *Engine) onBufferEmpty(id string) {
	if id != e.sourceID || e.status != StatusPlaying {
		return
	}
	if !e.background {
		e.player.Pause()
	}
	e.stopTicker()
	e.stalled = true
	e.setStatus(StatusBuffering)
}

func (e *Engine) onBufferLikelyToKeepUp(id string) {
	if id != e.sourceID || !e.stalled {
		return
	}
	e.stalled = false
	if e.status == StatusBuffering && e.shouldPlay && !e.background && !e.interrupt {
		e.startRendering()
	}
}

func (e *Engine) onBufferedRange(id string, start, length time.Duration) {
	if id != e.sourceID || e.loaded == nil || e.loaded.Duration <= 0 {
		return
	}
	ratio := clamp01(float64(start+length) / float64(e.loaded.Duration))
	if cb := e.callbacks.OnCacheProgress; cb != nil {
		e.notifier.post(func() { cb(ratio) })
	}
}

func (e *Engine) onReachedEnd(id string) {
	if id != e.sourceID || e.loaded == nil {
		return
	}
	switch e.status {
	case StatusPlaying, StatusPaused, StatusBuffering:
		e.finish()
	}
}

func (e *Engine) onBackground() {
	if e.background {
		return
	}
	e.background = true
	if e.status == StatusPlaying {
		e.player.Pause()
		e.stopTicker()
	}
}

func (e *Engine) onForeground() {
	if !e.background {
		return
	}
	e.background = false
	if !e.shouldPlay || !e.mediaReady || e.interrupt {
		return
	}
	switch {
	case e.status == StatusPlaying, e.status == StatusReady,
		e.status == StatusBuffering && !e.stalled:
		e.setStatus(StatusPlaying)
		e.player.Play()
		e.startTicker()
	case e.status == StatusBuffering && e.stalled:
		// Wait for the buffer to refill.
	}
}

func (e *Engine) onInterruptionBegan() {
	e.interrupt = true
	e.cancelResume()
	if e.status != StatusPlaying {
		return
	}
	if !e.background {
		e.player.Pause()
	}
	e.stopTicker()
	e.setStatus(StatusPaused)
}

func (e *Engine) onInterruptionEnded(shouldResume bool) {
	e.interrupt = false
	if !shouldResume || !e.shouldPlay {
		return
	}
	e.cancelResume()
	e.resumeGen++
	gen := e.resumeGen
	e.resume = time.AfterFunc(e.opts.ResumeDelay, func() {
		e.Post(func() {
			if gen != e.resumeGen {
				return
			}
			e.resume = nil
			if !e.shouldPlay || !e.mediaReady || e.stalled {
				return
			}
			switch e.status {
			case StatusPaused, StatusReady, StatusBuffering:
				e.startRendering()
			}
		})
	})
}

func (e *Engine) cancelResume() {
	e.resumeGen++
	if e.resume != nil {
		e.resume.Stop()
		e.resume = nil
	}
}

func (e *Engine) onReachability(reachable bool) {
	if e.reachable == reachable {
		return
	}
	e.reachable = reachable
	e.log.Debug("reachability changed", "reachable", reachable)

	if !reachable {
		switch e.status {
		case StatusPlaying, StatusBuffering:
			if !e.background {
				e.player.Pause()
			}
			e.stopTicker()
			e.setStatus(StatusNetworkError)
		}
		return
	}
	if e.status == StatusNetworkError {
		e.recover()
	}
}

// recover leaves NetworkError: resumes loaded media, waits for a fetch still
// in flight, or reloads an item whose fetch failed.
func (e *Engine) recover() {
	switch {
	case e.mediaReady:
		switch {
		case e.shouldPlay && !e.background && !e.interrupt:
			e.startRendering()
		case e.shouldPlay:
			e.setStatus(StatusReady)
		default:
			e.setStatus(StatusPaused)
		}
	case e.fetching || e.sourceID != "" && e.loaded != nil && e.loaded.Loaded:
		e.setStatus(StatusBuffering)
	case e.loaded != nil:
		e.startItem(e.loaded, e.shouldPlay)
	}
}
