//go:build linux

package lifecycle

import (
	"github.com/charmbracelet/log"
	"github.com/godbus/dbus/v5"

	"github.com/llehouerou/wavecast/internal/logging"
)

const (
	login1Interface = "org.freedesktop.login1.Manager"
	login1Path      = "/org/freedesktop/login1"

	nmDest      = "org.freedesktop.NetworkManager"
	nmPath      = "/org/freedesktop/NetworkManager"
	nmInterface = "org.freedesktop.NetworkManager"

	// NM_STATE_CONNECTED_SITE and above can reach remote hosts.
	nmStateConnectedSite = 60
)

// System translates system bus signals into lifecycle signals: logind
// PrepareForSleep maps to background/foreground and NetworkManager
// StateChanged maps to reachability.
type System struct {
	*Manual
	conn    *dbus.Conn
	signals chan *dbus.Signal
	done    chan struct{}
	log     *log.Logger
}

// NewSystem connects to the system bus. When the bus is unavailable it
// returns a System backed only by its Manual controls.
func NewSystem(logger *log.Logger) *System {
	s := &System{
		Manual: NewManual(),
		done:   make(chan struct{}),
		log:    logging.Component(logger, "lifecycle"),
	}

	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		s.log.Debug("system bus unavailable, lifecycle signals are manual only", "err", err)
		return s
	}

	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(login1Path),
		dbus.WithMatchInterface(login1Interface),
		dbus.WithMatchMember("PrepareForSleep"),
	); err != nil {
		s.log.Debug("watch logind", "err", err)
	}
	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(nmPath),
		dbus.WithMatchInterface(nmInterface),
		dbus.WithMatchMember("StateChanged"),
	); err != nil {
		s.log.Debug("watch NetworkManager", "err", err)
	}

	if v, err := conn.Object(nmDest, nmPath).GetProperty(nmInterface + ".State"); err == nil {
		if state, ok := v.Value().(uint32); ok {
			s.Manual.reachable = state >= nmStateConnectedSite
		}
	}

	s.conn = conn
	s.signals = make(chan *dbus.Signal, 16)
	conn.Signal(s.signals)
	go s.loop()
	return s
}

func (s *System) loop() {
	for {
		select {
		case sig, ok := <-s.signals:
			if !ok {
				return
			}
			s.dispatch(sig)
		case <-s.done:
			return
		}
	}
}

func (s *System) dispatch(sig *dbus.Signal) {
	if len(sig.Body) == 0 {
		return
	}
	switch sig.Name {
	case login1Interface + ".PrepareForSleep":
		sleeping, ok := sig.Body[0].(bool)
		if !ok {
			return
		}
		s.log.Debug("prepare for sleep", "sleeping", sleeping)
		if sleeping {
			s.EnterBackground()
		} else {
			s.EnterForeground()
		}
	case nmInterface + ".StateChanged":
		state, ok := sig.Body[0].(uint32)
		if !ok {
			return
		}
		s.log.Debug("network state changed", "state", state)
		s.SetReachable(state >= nmStateConnectedSite)
	}
}

// Close stops watching the system bus.
func (s *System) Close() error {
	select {
	case <-s.done:
		return nil
	default:
	}
	close(s.done)
	if s.conn == nil {
		return nil
	}
	s.conn.RemoveSignal(s.signals)
	return s.conn.Close()
}
