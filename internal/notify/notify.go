// Package notify announces playback changes as freedesktop desktop
// notifications.
package notify

import "time"

// Urgency is the freedesktop urgency hint.
type Urgency byte

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Category values sent in the "category" hint.
const (
	CategoryNowPlaying = "x-wavecast.now-playing"
	CategoryError      = "x-wavecast.error"
)

// Notification is a single bubble shown by the notification daemon.
type Notification struct {
	Summary  string
	Body     string
	Icon     string
	Category string
	Urgency  Urgency
	// Expire is how long the bubble stays up. Zero leaves it to the daemon.
	Expire time.Duration
	// Replaces is the id of a previous notification to update in place.
	Replaces uint32
}

// expireMillis converts Expire to the daemon's timeout argument, where -1
// means server default.
func (n Notification) expireMillis() int32 {
	if n.Expire <= 0 {
		return -1
	}
	return int32(n.Expire / time.Millisecond)
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify shows n and returns the id assigned by the daemon.
	Notify(n Notification) (uint32, error)
	Close(id uint32) error
}

// noopNotifier drops every notification.
type noopNotifier struct{}

func (noopNotifier) Notify(Notification) (uint32, error) { return 0, nil }

func (noopNotifier) Close(uint32) error { return nil }
