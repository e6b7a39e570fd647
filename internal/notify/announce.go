package notify

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/llehouerou/wavecast/internal/artwork"
	"github.com/llehouerou/wavecast/internal/logging"
	"github.com/llehouerou/wavecast/internal/playback"
	"github.com/llehouerou/wavecast/internal/playlist"
)

const (
	bubbleExpire = 5 * time.Second
	defaultIcon  = "audio-x-generic"
)

// Announcer shows a desktop notification each time a new item starts playing
// and when a load fails. Successive notifications replace each other.
type Announcer struct {
	notifier Notifier
	service  playback.Service
	art      *artwork.Store
	log      *log.Logger

	lastID   uint32
	lastItem string
}

// NewAnnouncer creates an announcer for service. Embedded cover art saved
// through art, which may be nil, is used as the notification icon.
func NewAnnouncer(n Notifier, service playback.Service, art *artwork.Store, logger *log.Logger) *Announcer {
	return &Announcer{
		notifier: n,
		service:  service,
		art:      art,
		log:      logging.Component(logger, "notify"),
	}
}

// Run consumes sub until it is closed or ctx is done.
func (a *Announcer) Run(ctx context.Context, sub *playback.Subscription) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Done:
			return
		case ev := <-sub.StatusChanged:
			if ev.Current != playback.StatusPlaying || ev.ItemID == a.lastItem {
				continue
			}
			item := a.service.Current()
			if item == nil || item.ID != ev.ItemID {
				continue
			}
			a.lastItem = item.ID
			n := NowPlaying(item)
			if icon := a.art.Path(item.Meta.Cover()); icon != "" {
				n.Icon = icon
			}
			a.send(n)
		case ev := <-sub.Error:
			a.send(LoadFailed(ev))
		}
	}
}

func (a *Announcer) send(n Notification) {
	n.Replaces = a.lastID
	id, err := a.notifier.Notify(n)
	if err != nil {
		a.log.Debug("notification failed", "err", err)
		return
	}
	a.lastID = id
}

// NowPlaying builds the notification for an item that started playing.
func NowPlaying(item *playlist.Item) Notification {
	n := Notification{
		Summary:  item.Title(),
		Icon:     defaultIcon,
		Category: CategoryNowPlaying,
		Urgency:  UrgencyLow,
		Expire:   bubbleExpire,
	}
	if m := item.Meta; m != nil {
		if m.Title != "" {
			n.Summary = m.Title
		}
		switch {
		case m.Artist != "" && m.Album != "":
			n.Body = m.Artist + " - " + m.Album
		case m.Artist != "":
			n.Body = m.Artist
		default:
			n.Body = m.Album
		}
	}
	return n
}

// LoadFailed builds the notification for an engine error event.
func LoadFailed(ev playback.ErrorEvent) Notification {
	body := ev.URL
	if ev.Err != nil {
		body = ev.Err.Error() + "\n" + ev.URL
	}
	return Notification{
		Summary:  "Playback error",
		Body:     body,
		Icon:     "dialog-error",
		Category: CategoryError,
		Urgency:  UrgencyNormal,
		Expire:   bubbleExpire,
	}
}
