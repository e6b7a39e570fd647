package player

import (
	"testing"
	"time"
)

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{Stopped, "Stopped"},
		{Playing, "Playing"},
		{Paused, "Paused"},
		{State(99), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.state.String(); got != tt.want {
				t.Errorf("State.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestState_IsActive(t *testing.T) {
	tests := []struct {
		state State
		want  bool
	}{
		{Stopped, false},
		{Playing, true},
		{Paused, true},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			if got := tt.state.IsActive(); got != tt.want {
				t.Errorf("State.IsActive() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestState_CanPause(t *testing.T) {
	tests := []struct {
		state State
		want  bool
	}{
		{Stopped, false},
		{Playing, true},
		{Paused, false},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			if got := tt.state.CanPause(); got != tt.want {
				t.Errorf("State.CanPause() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestState_CanResume(t *testing.T) {
	tests := []struct {
		state State
		want  bool
	}{
		{Stopped, false},
		{Playing, false},
		{Paused, true},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			if got := tt.state.CanResume(); got != tt.want {
				t.Errorf("State.CanResume() = %v, want %v", got, tt.want)
			}
		})
	}
}


// TestMock_StateTransitions validates the state machine using the Mock player.
func TestMock_StateTransitions(t *testing.T) {
	t.Run("play before load is ignored", func(t *testing.T) {
		m := NewMock()
		m.Play()
		if m.State() != Stopped {
			t.Errorf("State() = %v, want Stopped", m.State())
		}
	})

	t.Run("load then decode leaves source paused", func(t *testing.T) {
		m := NewMock()
		_ = m.Load(Source{ID: "a", Data: []byte{1}})
		m.SimulateDecodeReady(time.Second)
		if m.State() != Paused {
			t.Errorf("State() = %v, want Paused", m.State())
		}
	})

	t.Run("play pause cycle", func(t *testing.T) {
		m := NewMock()
		_ = m.Load(Source{ID: "a", Data: []byte{1}})
		m.Play()
		m.Pause()
		if m.State() != Paused {
			t.Errorf("State() = %v, want Paused", m.State())
		}
		if m.PlayCalls() != 1 || m.PauseCalls() != 1 {
			t.Errorf("calls play=%d pause=%d, want 1/1", m.PlayCalls(), m.PauseCalls())
		}
	})

	t.Run("release stops", func(t *testing.T) {
		m := NewMock()
		_ = m.Load(Source{ID: "a", Data: []byte{1}})
		m.Play()
		m.Release()
		if m.State() != Stopped || m.Current() != "" {
			t.Errorf("State() = %v current=%q, want Stopped and empty", m.State(), m.Current())
		}
	})
}

type recordingListener struct {
	events []string
}

func (r *recordingListener) DecodeReady(id string, _ time.Duration) {
	r.events = append(r.events, "ready:"+id)
}
func (r *recordingListener) DecodeFailed(id string, _ error) {
	r.events = append(r.events, "failed:"+id)
}
func (r *recordingListener) BufferEmpty(id string) { r.events = append(r.events, "empty:"+id) }
func (r *recordingListener) BufferLikelyToKeepUp(id string) {
	r.events = append(r.events, "keepup:"+id)
}
func (r *recordingListener) BufferedRangeChanged(id string, _, _ time.Duration) {
	r.events = append(r.events, "range:"+id)
}
func (r *recordingListener) ReachedEnd(id string) { r.events = append(r.events, "end:"+id) }

func TestMock_SimulateSignals(t *testing.T) {
	m := NewMock()
	l := &recordingListener{}
	m.SetListener(l)
	_ = m.Load(Source{ID: "a", Data: []byte{1}})

	m.SimulateDecodeReady(time.Second)
	m.SimulateBufferEmpty()
	m.SimulateBufferLikelyToKeepUp()
	m.SimulateBufferedRange(0, time.Second)
	m.SimulateReachedEnd()
	m.SimulateDecodeFailedFor("stale", nil)

	want := []string{"ready:a", "empty:a", "keepup:a", "range:a", "end:a", "failed:stale"}
	if len(l.events) != len(want) {
		t.Fatalf("events = %v, want %v", l.events, want)
	}
	for i := range want {
		if l.events[i] != want[i] {
			t.Errorf("events[%d] = %q, want %q", i, l.events[i], want[i])
		}
	}
}
