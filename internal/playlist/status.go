package playlist

// Status is the playback status of the engine, and the last status an item
// reached while it was current.
type Status int

// Status values.
const (
	StatusUnknown Status = iota
	StatusBuffering
	StatusReady
	StatusPlaying
	StatusPaused
	StatusFinished
	StatusFailed
	StatusNetworkError
)

var statusNames = [...]string{
	StatusUnknown:      "Unknown",
	StatusBuffering:    "Buffering",
	StatusReady:        "Ready",
	StatusPlaying:      "Playing",
	StatusPaused:       "Paused",
	StatusFinished:     "Finished",
	StatusFailed:       "Failed",
	StatusNetworkError: "NetworkError",
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "Status(?)"
	}
	return statusNames[s]
}

// Terminal reports whether the status ends the current item.
func (s Status) Terminal() bool {
	return s == StatusFinished || s == StatusFailed
}
