//go:build linux

package lifecycle

import (
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"

	"github.com/llehouerou/wavecast/internal/logging"
)

func newTestSystem() *System {
	return &System{
		Manual: NewManual(),
		done:   make(chan struct{}),
		log:    logging.Discard(),
	}
}

func TestSystem_Dispatch(t *testing.T) {
	s := newTestSystem()
	r := &recorder{}
	s.Subscribe(r)

	s.dispatch(&dbus.Signal{Name: login1Interface + ".PrepareForSleep", Body: []any{true}})
	s.dispatch(&dbus.Signal{Name: login1Interface + ".PrepareForSleep", Body: []any{false}})
	s.dispatch(&dbus.Signal{Name: nmInterface + ".StateChanged", Body: []any{uint32(20)}})
	s.dispatch(&dbus.Signal{Name: nmInterface + ".StateChanged", Body: []any{uint32(70)}})

	assert.Equal(t, []string{"background", "foreground", "reachable:false", "reachable:true"}, r.Events())
}

func TestSystem_DispatchIgnoresMalformedSignals(t *testing.T) {
	s := newTestSystem()
	r := &recorder{}
	s.Subscribe(r)

	s.dispatch(&dbus.Signal{Name: login1Interface + ".PrepareForSleep"})
	s.dispatch(&dbus.Signal{Name: login1Interface + ".PrepareForSleep", Body: []any{"yes"}})
	s.dispatch(&dbus.Signal{Name: nmInterface + ".StateChanged", Body: []any{"up"}})
	s.dispatch(&dbus.Signal{Name: "org.example.Other", Body: []any{true}})

	assert.Empty(t, r.Events())
}

func TestSystem_CloseWithoutBus(t *testing.T) {
	s := newTestSystem()
	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}
