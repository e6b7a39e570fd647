package playback

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/llehouerou/wavecast/internal/downloader"
	"github.com/llehouerou/wavecast/internal/lifecycle"
	"github.com/llehouerou/wavecast/internal/playlist"
)

// Service defines the playback engine contract.
type Service interface {
	// Queue manipulation
	Append(urls ...string) error
	Remove(url string) int
	Clear()

	// Playback control
	Play(index int) error
	QuickPlay(url string) error
	Pause()
	ContinuePlay()
	Toggle()
	Next() error
	Previous() error
	UpdateProgress(ctx context.Context, rate float64) bool
	SeekTo(ctx context.Context, pos time.Duration) bool
	SetVolume(level float64)

	// State queries
	Status() Status
	Position() time.Duration
	Duration() time.Duration
	Current() *playlist.Item
	Items() []playlist.Item
	Cursor() int

	// Event delivery
	SetCallbacks(cb Callbacks)
	Subscribe() *Subscription

	// Lifecycle
	Close() error
}

// Fetcher resolves the bytes of a source URL. downloader.Downloader
// implements it.
type Fetcher interface {
	FetchAsync(ctx context.Context, url string, exec downloader.Executor, fn func([]byte, error))
}

// Callbacks are invoked in order on a dedicated goroutine. They may call back
// into the engine. Nil fields are skipped.
type Callbacks struct {
	OnStatusChanged     func(Status)
	OnProgress          func(ratio float64)
	OnElapsed           func(elapsed time.Duration)
	OnDurationConfirmed func(duration time.Duration)
	OnCacheProgress     func(ratio float64)
	OnFinished          func(success bool)
}

const (
	DefaultProgressInterval = 100 * time.Millisecond
	DefaultResumeDelay      = 1500 * time.Millisecond
)

// Options configures an Engine.
type Options struct {
	ProgressInterval time.Duration // default 100ms
	ResumeDelay      time.Duration // delay before resuming after an interruption, default 1.5s
	Preload          bool          // warm the cache for the next item once playback starts

	Lifecycle    lifecycle.Source
	Reachability lifecycle.Reachability
	Logger       *log.Logger
}

func (o Options) withDefaults() Options {
	if o.ProgressInterval <= 0 {
		o.ProgressInterval = DefaultProgressInterval
	}
	if o.ResumeDelay <= 0 {
		o.ResumeDelay = DefaultResumeDelay
	}
	return o
}
