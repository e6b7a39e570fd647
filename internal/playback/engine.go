// Package playback implements the playback engine: a single-writer state
// machine that owns the queue, drives the media engine and reports status,
// progress and buffering to its observers.
package playback

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/llehouerou/wavecast/internal/downloader"
	"github.com/llehouerou/wavecast/internal/errmsg"
	"github.com/llehouerou/wavecast/internal/logging"
	"github.com/llehouerou/wavecast/internal/player"
	"github.com/llehouerou/wavecast/internal/playlist"
)

// Verify Engine implements Service and Executor at compile time.
var (
	_ Service             = (*Engine)(nil)
	_ downloader.Executor = (*Engine)(nil)
)

// Engine is the playback state machine. All mutable state is owned by one
// loop goroutine; public methods post closures to it. Queries read a snapshot
// published after every closure.
type Engine struct {
	player  player.Interface
	fetcher Fetcher
	opts    Options
	log     *log.Logger

	loop     *serial
	notifier *serial

	// Owned by the loop goroutine.
	queue      *playlist.Queue
	status     Status
	callbacks  Callbacks
	loaded     *playlist.Item // item whose bytes are loading or loaded
	sourceID   string         // media source ID of the current load, "" when none
	loadGen    uint64
	loadCancel context.CancelFunc
	fetching   bool
	mediaReady bool
	stalled    bool
	shouldPlay bool // user intent
	background bool
	interrupt  bool
	reachable  bool
	seekGen    uint64
	tickGen    uint64
	tickTimer  *time.Timer
	resumeGen  uint64
	resume     *time.Timer
	preloaded  string

	mu   sync.RWMutex
	snap snapshot

	subs   []*Subscription
	subsMu sync.RWMutex

	unsubscribe []func()
	closeOnce   sync.Once
	done        chan struct{}
}

type snapshot struct {
	status     Status
	cursor     int
	items      []playlist.Item
	current    *playlist.Item
	duration   time.Duration
	mediaReady bool
}

// New creates an engine driving p and resolving bytes through d. It
// subscribes to the lifecycle sources in opts until Close.
func New(p player.Interface, d Fetcher, opts Options) *Engine {
	opts = opts.withDefaults()
	e := &Engine{
		player:    p,
		fetcher:   d,
		opts:      opts,
		log:       logging.Component(opts.Logger, "playback"),
		loop:      newSerial(),
		notifier:  newSerial(),
		queue:     playlist.NewQueue(),
		status:    StatusUnknown,
		reachable: true,
		done:      make(chan struct{}),
	}
	e.snap = snapshot{status: StatusUnknown, cursor: -1}

	if r, ok := opts.Reachability.(interface{ Reachable() bool }); ok {
		e.reachable = r.Reachable()
	}

	p.SetListener(mediaSignals{e})
	ls := lifecycleSignals{e}
	if opts.Lifecycle != nil {
		e.unsubscribe = append(e.unsubscribe, opts.Lifecycle.Subscribe(ls))
	}
	if opts.Reachability != nil && opts.Reachability != opts.Lifecycle {
		e.unsubscribe = append(e.unsubscribe, opts.Reachability.Subscribe(ls))
	}
	return e
}

// Post runs fn on the engine goroutine. Posts after Close are dropped.
// It implements downloader.Executor.
func (e *Engine) Post(fn func()) {
	e.loop.post(func() {
		fn()
		e.publish()
	})
}

// call runs fn on the engine goroutine and waits for it. fn must not block.
func (e *Engine) call(fn func()) error {
	finished := make(chan struct{})
	ok := e.loop.post(func() {
		defer close(finished)
		fn()
		e.publish()
	})
	if !ok {
		return errmsg.ErrClosed
	}
	<-finished
	return nil
}

// publish copies loop-owned state into the query snapshot.
func (e *Engine) publish() {
	items := e.queue.Items()
	snap := snapshot{
		status:     e.status,
		cursor:     e.queue.Cursor(),
		items:      make([]playlist.Item, len(items)),
		mediaReady: e.mediaReady,
	}
	for i, it := range items {
		snap.items[i] = *it
	}
	if cur := e.queue.Current(); cur != nil {
		c := *cur
		snap.current = &c
		snap.duration = cur.Duration
	}

	e.mu.Lock()
	e.snap = snap
	e.mu.Unlock()
}

// Status returns the current playback status.
func (e *Engine) Status() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snap.status
}

// Position returns the media position of the current item.
func (e *Engine) Position() time.Duration {
	e.mu.RLock()
	ready := e.snap.mediaReady
	e.mu.RUnlock()
	if !ready {
		return 0
	}
	return e.player.Position()
}

// Duration returns the confirmed duration of the current item, 0 if unknown.
func (e *Engine) Duration() time.Duration {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snap.duration
}

// Current returns a copy of the item at the cursor, or nil.
func (e *Engine) Current() *playlist.Item {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.snap.current == nil {
		return nil
	}
	c := *e.snap.current
	return &c
}

// Items returns a copy of the queue.
func (e *Engine) Items() []playlist.Item {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]playlist.Item, len(e.snap.items))
	copy(out, e.snap.items)
	return out
}

// Cursor returns the queue cursor (-1 if none).
func (e *Engine) Cursor() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snap.cursor
}

// SetCallbacks replaces the registered callbacks.
func (e *Engine) SetCallbacks(cb Callbacks) {
	_ = e.call(func() { e.callbacks = cb })
}

// Subscribe creates a new event subscription.
func (e *Engine) Subscribe() *Subscription {
	e.subsMu.Lock()
	defer e.subsMu.Unlock()
	sub := newSubscription()
	select {
	case <-e.done:
		sub.close()
		return sub
	default:
	}
	e.subs = append(e.subs, sub)
	return sub
}

func (e *Engine) eachSub(fn func(*Subscription)) {
	e.subsMu.RLock()
	defer e.subsMu.RUnlock()
	for _, sub := range e.subs {
		fn(sub)
	}
}

// Close stops the engine: the pending load and seek are cancelled, timers
// stop, the media handle is released and subscriptions are closed. Queued
// callbacks are still delivered. Close must not be called from a function
// passed to Post or from a callback.
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		for _, unsub := range e.unsubscribe {
			unsub()
		}
		_ = e.call(e.teardown)
		e.loop.close()
		e.loop.wait()
		e.notifier.close()
		e.notifier.wait()

		e.subsMu.Lock()
		close(e.done)
		for _, sub := range e.subs {
			sub.close()
		}
		e.subs = nil
		e.subsMu.Unlock()
	})
	return nil
}

func (e *Engine) teardown() {
	e.unload()
	e.shouldPlay = false
	e.log.Debug("engine closed")
}
