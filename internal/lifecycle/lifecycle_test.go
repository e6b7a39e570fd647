package lifecycle

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(e string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func (r *recorder) EnteredBackground() { r.add("background") }
func (r *recorder) EnteredForeground() { r.add("foreground") }
func (r *recorder) InterruptionBegan() { r.add("interrupted") }
func (r *recorder) InterruptionEnded(shouldResume bool) {
	r.add(fmt.Sprintf("resumed:%v", shouldResume))
}
func (r *recorder) ReachabilityChanged(reachable bool) {
	r.add(fmt.Sprintf("reachable:%v", reachable))
}

func TestManual_Broadcast(t *testing.T) {
	m := NewManual()
	r := &recorder{}
	m.Subscribe(r)

	m.EnterBackground()
	m.EnterForeground()
	m.BeginInterruption()
	m.EndInterruption(true)
	m.SetReachable(false)
	m.SetReachable(true)

	assert.Equal(t, []string{
		"background", "foreground", "interrupted", "resumed:true",
		"reachable:false", "reachable:true",
	}, r.Events())
}

func TestManual_DeduplicatesStateSignals(t *testing.T) {
	m := NewManual()
	r := &recorder{}
	m.Subscribe(r)

	m.EnterForeground() // already foreground
	m.EnterBackground()
	m.EnterBackground()
	m.SetReachable(true) // already reachable

	assert.Equal(t, []string{"background"}, r.Events())
	assert.True(t, m.Background())
	assert.True(t, m.Reachable())
}

func TestManual_Unsubscribe(t *testing.T) {
	m := NewManual()
	a, b := &recorder{}, &recorder{}
	unsubA := m.Subscribe(a)
	m.Subscribe(b)

	unsubA()
	unsubA() // idempotent
	m.BeginInterruption()

	assert.Empty(t, a.Events())
	assert.Equal(t, []string{"interrupted"}, b.Events())
}
