// internal/player/interface.go
package player

import "time"

// Source is one in-memory audio resource to decode.
type Source struct {
	ID   string // caller-chosen identity echoed back in every signal
	Data []byte
}

// Listener receives media signals. Every signal carries the ID of the source
// it refers to so receivers can drop signals for sources they no longer track.
// Implementations must not block.
type Listener interface {
	DecodeReady(id string, duration time.Duration)
	DecodeFailed(id string, err error)
	BufferEmpty(id string)
	BufferLikelyToKeepUp(id string)
	BufferedRangeChanged(id string, start, length time.Duration)
	ReachedEnd(id string)
}

// Interface defines the media engine contract for dependency injection and testing.
type Interface interface {
	// Load releases the current source and starts decoding src. The outcome
	// is reported through DecodeReady or DecodeFailed. The decoded source
	// starts paused.
	Load(src Source) error
	Play()
	Pause()
	// Seek moves to pos and reports through done whether it was applied.
	Seek(pos time.Duration, done func(ok bool))
	Release()
	State() State
	Position() time.Duration
	SetListener(l Listener)
	SetVolume(level float64)
	Close() error
}

// Verify Player implements Interface at compile time.
var _ Interface = (*Player)(nil)
