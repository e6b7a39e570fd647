// internal/playback/state.go
package playback

import "github.com/llehouerou/wavecast/internal/playlist"

// Status is the engine's playback status.
//
//	Unknown ──play──▶ Buffering ──decode ready──▶ (Ready ▶) Playing ⇄ Paused
//	                     ▲   │                        │  ▲
//	                     │   └──decode failed─▶ Failed │  │ buffer refilled
//	                     │                             ▼  │
//	                     └──────── next item ◀─ Finished  Buffering (stalled)
//
// Playing and Buffering move to NetworkError when reachability is lost and
// leave it only when reachability is restored.
type Status = playlist.Status

const (
	StatusUnknown      = playlist.StatusUnknown
	StatusBuffering    = playlist.StatusBuffering
	StatusReady        = playlist.StatusReady
	StatusPlaying      = playlist.StatusPlaying
	StatusPaused       = playlist.StatusPaused
	StatusFinished     = playlist.StatusFinished
	StatusFailed       = playlist.StatusFailed
	StatusNetworkError = playlist.StatusNetworkError
)
