package playback

import (
	"time"

	"github.com/llehouerou/wavecast/internal/playlist"
)

// StatusChange is emitted when the engine status changes.
type StatusChange struct {
	Previous Status
	Current  Status
	ItemID   string // item the status applies to, empty when none
}

// ItemChange is emitted when the engine starts loading a different item.
//
// Emitted by Play, Next, Previous, auto-advance after Finished or Failed, and
// the advance that follows removing the current item. Not emitted by Pause,
// ContinuePlay or seeks.
type ItemChange struct {
	Previous *playlist.Item
	Current  *playlist.Item
	Index    int
}

// QueueChange is emitted when the queue contents change.
type QueueChange struct {
	Items  []playlist.Item
	Cursor int
}

// ProgressChange is emitted on every progress tick and after a seek.
type ProgressChange struct {
	Elapsed  time.Duration
	Duration time.Duration
	Ratio    float64
}

// ErrorEvent is emitted when an item fails to load or play.
type ErrorEvent struct {
	Operation string // e.g., "download", "load media"
	URL       string
	Err       error
}
