// internal/player/mock.go
package player

import (
	"sync"
	"time"
)

// Mock is a test double for Player. Commands are recorded; signals are
// delivered only through the Simulate helpers.
type Mock struct {
	mu       sync.Mutex
	listener Listener
	state    State
	position time.Duration
	current  string
	loadErr  error
	seekOK   bool
	volume   float64
	closed   bool

	loadCalls    []Source
	playCalls    int
	pauseCalls   int
	releaseCalls int
	seekCalls    []time.Duration
}

// NewMock creates a new mock player for testing.
func NewMock() *Mock {
	return &Mock{
		state:  Stopped,
		seekOK: true,
	}
}

func (m *Mock) Load(src Source) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadCalls = append(m.loadCalls, src)
	if m.loadErr != nil {
		return m.loadErr
	}
	m.current = src.ID
	m.state = Stopped
	m.position = 0
	return nil
}

func (m *Mock) Play() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playCalls++
	if m.current != "" {
		m.state = Playing
	}
}

func (m *Mock) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pauseCalls++
	if m.state == Playing {
		m.state = Paused
	}
}

func (m *Mock) Seek(pos time.Duration, done func(ok bool)) {
	m.mu.Lock()
	m.seekCalls = append(m.seekCalls, pos)
	ok := m.seekOK
	if ok {
		m.position = pos
	}
	m.mu.Unlock()
	if done != nil {
		done(ok)
	}
}

func (m *Mock) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.releaseCalls++
	m.current = ""
	m.state = Stopped
	m.position = 0
}

func (m *Mock) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Mock) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *Mock) SetListener(l Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listener = l
}

func (m *Mock) SetVolume(level float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = level
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Test helpers

func (m *Mock) SetLoadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

func (m *Mock) SetSeekOK(ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seekOK = ok
}

func (m *Mock) SetPosition(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = d
}

// LoadCalls returns the IDs of every loaded source in order.
func (m *Mock) LoadCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, len(m.loadCalls))
	for i, s := range m.loadCalls {
		ids[i] = s.ID
	}
	return ids
}

// LastLoad returns the most recently loaded source.
func (m *Mock) LastLoad() (Source, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.loadCalls) == 0 {
		return Source{}, false
	}
	return m.loadCalls[len(m.loadCalls)-1], true
}

func (m *Mock) PlayCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playCalls
}

func (m *Mock) PauseCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pauseCalls
}

func (m *Mock) ReleaseCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.releaseCalls
}

func (m *Mock) SeekCalls() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.seekCalls...)
}

func (m *Mock) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

func (m *Mock) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Current returns the ID of the loaded source, or "".
func (m *Mock) Current() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

func (m *Mock) emit(fn func(l Listener)) {
	m.mu.Lock()
	l := m.listener
	m.mu.Unlock()
	if l != nil {
		fn(l)
	}
}

// SimulateDecodeReady reports the current source as decoded.
func (m *Mock) SimulateDecodeReady(d time.Duration) {
	m.SimulateDecodeReadyFor(m.Current(), d)
}

// SimulateDecodeReadyFor reports an arbitrary source as decoded, for stale
// signal tests.
func (m *Mock) SimulateDecodeReadyFor(id string, d time.Duration) {
	m.mu.Lock()
	if id == m.current && m.state == Stopped {
		m.state = Paused
	}
	m.mu.Unlock()
	m.emit(func(l Listener) { l.DecodeReady(id, d) })
}

func (m *Mock) SimulateDecodeFailed(err error) {
	id := m.Current()
	m.emit(func(l Listener) { l.DecodeFailed(id, err) })
}

func (m *Mock) SimulateDecodeFailedFor(id string, err error) {
	m.emit(func(l Listener) { l.DecodeFailed(id, err) })
}

func (m *Mock) SimulateBufferEmpty() {
	id := m.Current()
	m.emit(func(l Listener) { l.BufferEmpty(id) })
}

func (m *Mock) SimulateBufferLikelyToKeepUp() {
	id := m.Current()
	m.emit(func(l Listener) { l.BufferLikelyToKeepUp(id) })
}

func (m *Mock) SimulateBufferedRange(start, length time.Duration) {
	id := m.Current()
	m.emit(func(l Listener) { l.BufferedRangeChanged(id, start, length) })
}

// SimulateReachedEnd simulates the current source finishing.
func (m *Mock) SimulateReachedEnd() {
	m.SimulateReachedEndFor(m.Current())
}

func (m *Mock) SimulateReachedEndFor(id string) {
	m.mu.Lock()
	if id == m.current {
		m.state = Stopped
	}
	m.mu.Unlock()
	m.emit(func(l Listener) { l.ReachedEnd(id) })
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
