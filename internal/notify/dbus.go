//go:build linux

package notify

import (
	"github.com/godbus/dbus/v5"
)

const (
	notificationsDest  = "org.freedesktop.Notifications"
	notificationsPath  = "/org/freedesktop/Notifications"
	notificationsIface = "org.freedesktop.Notifications"

	appName      = "Wavecast"
	desktopEntry = "wavecast"
)

// busNotifier talks to the freedesktop notification daemon on the session bus.
type busNotifier struct {
	obj dbus.BusObject
}

// New returns a Notifier backed by the session bus, or a no-op notifier when
// no session bus is reachable.
func New() (Notifier, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return noopNotifier{}, nil //nolint:nilerr // headless sessions just skip notifications
	}
	return &busNotifier{obj: conn.Object(notificationsDest, notificationsPath)}, nil
}

func hints(n Notification) map[string]dbus.Variant {
	h := map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(byte(n.Urgency)),
		"desktop-entry": dbus.MakeVariant(desktopEntry),
	}
	if n.Category != "" {
		h["category"] = dbus.MakeVariant(n.Category)
	}
	return h
}

// Notify calls Notify(app_name, replaces_id, icon, summary, body, actions,
// hints, timeout) and returns the daemon's id.
func (b *busNotifier) Notify(n Notification) (uint32, error) {
	call := b.obj.Call(notificationsIface+".Notify", 0,
		appName, n.Replaces, n.Icon, n.Summary, n.Body,
		[]string{}, hints(n), n.expireMillis())
	if call.Err != nil {
		return 0, call.Err
	}
	var id uint32
	if err := call.Store(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (b *busNotifier) Close(id uint32) error {
	return b.obj.Call(notificationsIface+".CloseNotification", 0, id).Err
}
