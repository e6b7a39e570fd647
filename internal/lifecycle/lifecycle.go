// Package lifecycle delivers application lifecycle, audio interruption and
// network reachability signals to subscribers.
package lifecycle

import (
	"maps"
	"slices"
	"sync"
)

// Listener receives lifecycle signals. Implementations must not block.
type Listener interface {
	EnteredBackground()
	EnteredForeground()
	InterruptionBegan()
	InterruptionEnded(shouldResume bool)
	ReachabilityChanged(reachable bool)
}

// Source emits background/foreground and interruption signals.
type Source interface {
	Subscribe(l Listener) (unsubscribe func())
}

// Reachability emits network reachability changes.
type Reachability interface {
	Subscribe(l Listener) (unsubscribe func())
}

// Manual is a Source and Reachability driven by explicit calls. It backs the
// tests, the CLI job-control signals and platforms without a system bus.
type Manual struct {
	mu         sync.Mutex
	subs       map[int]Listener
	nextID     int
	background bool
	reachable  bool
}

var (
	_ Source       = (*Manual)(nil)
	_ Reachability = (*Manual)(nil)
)

// NewManual returns a Manual in the foreground with the network reachable.
func NewManual() *Manual {
	return &Manual{
		subs:      make(map[int]Listener),
		reachable: true,
	}
}

// Subscribe registers l until the returned function is called.
func (m *Manual) Subscribe(l Listener) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.subs[id] = l

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, id)
			m.mu.Unlock()
		})
	}
}

func (m *Manual) broadcast(fn func(Listener)) {
	m.mu.Lock()
	subs := make([]Listener, 0, len(m.subs))
	for _, id := range slices.Sorted(maps.Keys(m.subs)) {
		subs = append(subs, m.subs[id])
	}
	m.mu.Unlock()

	for _, l := range subs {
		fn(l)
	}
}

// EnterBackground signals that the application moved to the background.
// Repeated calls are ignored.
func (m *Manual) EnterBackground() {
	if !m.swapBackground(true) {
		return
	}
	m.broadcast(func(l Listener) { l.EnteredBackground() })
}

// EnterForeground signals that the application returned to the foreground.
// Repeated calls are ignored.
func (m *Manual) EnterForeground() {
	if !m.swapBackground(false) {
		return
	}
	m.broadcast(func(l Listener) { l.EnteredForeground() })
}

func (m *Manual) swapBackground(bg bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.background == bg {
		return false
	}
	m.background = bg
	return true
}

// BeginInterruption signals that another client took the audio output.
func (m *Manual) BeginInterruption() {
	m.broadcast(func(l Listener) { l.InterruptionBegan() })
}

// EndInterruption signals that the interruption is over.
func (m *Manual) EndInterruption(shouldResume bool) {
	m.broadcast(func(l Listener) { l.InterruptionEnded(shouldResume) })
}

// SetReachable records network reachability and notifies on change.
func (m *Manual) SetReachable(reachable bool) {
	m.mu.Lock()
	changed := m.reachable != reachable
	m.reachable = reachable
	m.mu.Unlock()
	if changed {
		m.broadcast(func(l Listener) { l.ReachabilityChanged(reachable) })
	}
}

// Background reports whether the application is in the background.
func (m *Manual) Background() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.background
}

// Reachable reports the last known reachability.
func (m *Manual) Reachable() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reachable
}
