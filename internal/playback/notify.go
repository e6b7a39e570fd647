package playback

import (
	"time"

	"github.com/llehouerou/wavecast/internal/errmsg"
	"github.com/llehouerou/wavecast/internal/playlist"
)

// setStatus records s on the engine and the loaded item and notifies
// observers. Repeating the current status is a no-op.
func (e *Engine) setStatus(s Status) {
	if s == e.status {
		return
	}
	prev := e.status
	e.status = s

	var itemID string
	if e.loaded != nil {
		e.loaded.Status = s
		itemID = e.loaded.ID
	}
	e.log.Debug("status", "from", prev, "to", s, "item", itemID)

	if cb := e.callbacks.OnStatusChanged; cb != nil {
		e.notifier.post(func() { cb(s) })
	}
	change := StatusChange{Previous: prev, Current: s, ItemID: itemID}
	e.eachSub(func(sub *Subscription) { sub.sendStatus(change) })
}

// confirmDuration stores the first known duration of the loaded item.
func (e *Engine) confirmDuration(d time.Duration) {
	if e.loaded.Duration > 0 {
		return
	}
	e.loaded.Duration = d
	if cb := e.callbacks.OnDurationConfirmed; cb != nil {
		e.notifier.post(func() { cb(d) })
	}
}

// startTicker begins periodic progress emission while Playing with a known
// duration.
func (e *Engine) startTicker() {
	if e.tickTimer != nil || e.status != StatusPlaying || e.loaded == nil || e.loaded.Duration <= 0 {
		return
	}
	e.tickGen++
	e.scheduleTick(e.tickGen)
}

func (e *Engine) scheduleTick(gen uint64) {
	e.tickTimer = time.AfterFunc(e.opts.ProgressInterval, func() {
		e.Post(func() { e.onTick(gen) })
	})
}

func (e *Engine) onTick(gen uint64) {
	if gen != e.tickGen || e.status != StatusPlaying || e.loaded == nil {
		return
	}
	e.emitProgress(e.player.Position(), e.loaded.Duration)
	e.scheduleTick(gen)
}

// stopTicker stops progress emission. A tick already posted is discarded.
func (e *Engine) stopTicker() {
	e.tickGen++
	if e.tickTimer != nil {
		e.tickTimer.Stop()
		e.tickTimer = nil
	}
}

func (e *Engine) emitProgress(elapsed, duration time.Duration) {
	if duration <= 0 {
		return
	}
	elapsed = max(0, min(elapsed, duration))
	ratio := clamp01(float64(elapsed) / float64(duration))

	if cb := e.callbacks.OnElapsed; cb != nil {
		e.notifier.post(func() { cb(elapsed) })
	}
	if cb := e.callbacks.OnProgress; cb != nil {
		e.notifier.post(func() { cb(ratio) })
	}
	change := ProgressChange{Elapsed: elapsed, Duration: duration, Ratio: ratio}
	e.eachSub(func(sub *Subscription) { sub.sendProgress(change) })
}

func (e *Engine) notifyFinished(success bool) {
	if cb := e.callbacks.OnFinished; cb != nil {
		e.notifier.post(func() { cb(success) })
	}
}

func (e *Engine) emitItem(prev, cur *playlist.Item) {
	change := ItemChange{Previous: copyItem(prev), Current: copyItem(cur), Index: e.queue.Cursor()}
	e.eachSub(func(sub *Subscription) { sub.sendItem(change) })
}

func (e *Engine) emitQueue() {
	items := e.queue.Items()
	change := QueueChange{Items: make([]playlist.Item, len(items)), Cursor: e.queue.Cursor()}
	for i, it := range items {
		change.Items[i] = *it
	}
	e.eachSub(func(sub *Subscription) { sub.sendQueue(change) })
}

func (e *Engine) emitError(op errmsg.Op, item *playlist.Item, err error) {
	ev := ErrorEvent{Operation: string(op), Err: err}
	if item != nil {
		ev.URL = item.SourceURL
	}
	e.eachSub(func(sub *Subscription) { sub.sendError(ev) })
}

func copyItem(it *playlist.Item) *playlist.Item {
	if it == nil {
		return nil
	}
	c := *it
	return &c
}

func clamp01(v float64) float64 {
	return max(0, min(v, 1))
}
