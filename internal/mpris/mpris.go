//go:build linux

// Package mpris exposes the playback engine on the session bus so desktop
// media keys and applets can control it.
package mpris

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/wavecast/internal/artwork"
	"github.com/llehouerou/wavecast/internal/logging"
	"github.com/llehouerou/wavecast/internal/playback"
)

const busName = "wavecast"

// Adapter connects a playback.Service to MPRIS over D-Bus.
type Adapter struct {
	server *server.Server
	log    *log.Logger
}

// New creates and starts a new MPRIS adapter. Embedded cover art is exported
// through art, which may be nil.
func New(service playback.Service, art *artwork.Store, logger *log.Logger) (*Adapter, error) {
	a := &Adapter{log: logging.Component(logger, "mpris")}
	a.server = server.NewServer(busName, &rootAdapter{}, newPlayerAdapter(service, art))

	go func() {
		if err := a.server.Listen(); err != nil {
			a.log.Warn("mpris server stopped", "err", err)
		}
	}()
	return a, nil
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error {
	return nil // Not supported
}

func (r *rootAdapter) Quit() error {
	return nil
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return "Wavecast", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"http", "https", "file"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/flac", "audio/ogg", "audio/wav"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter.
type playerAdapter struct {
	service playback.Service
	art     *artwork.Store

	mu     sync.Mutex
	volume float64
}

func newPlayerAdapter(service playback.Service, art *artwork.Store) *playerAdapter {
	return &playerAdapter{service: service, art: art, volume: 1.0}
}

func (p *playerAdapter) Next() error {
	return p.service.Next()
}

func (p *playerAdapter) Previous() error {
	return p.service.Previous()
}

func (p *playerAdapter) Pause() error {
	p.service.Pause()
	return nil
}

func (p *playerAdapter) PlayPause() error {
	p.service.Toggle()
	return nil
}

// Stop pauses and rewinds; the queue is kept.
func (p *playerAdapter) Stop() error {
	p.service.Pause()
	p.service.SeekTo(context.Background(), 0)
	return nil
}

func (p *playerAdapter) Play() error {
	p.service.ContinuePlay()
	return nil
}

func (p *playerAdapter) Seek(offset types.Microseconds) error {
	d := p.service.Duration()
	if d <= 0 {
		return nil
	}
	pos := p.service.Position() + time.Duration(offset)*time.Microsecond
	p.service.SeekTo(context.Background(), max(0, min(pos, d)))
	return nil
}

func (p *playerAdapter) SetPosition(_ string, position types.Microseconds) error {
	p.service.SeekTo(context.Background(), time.Duration(position)*time.Microsecond)
	return nil
}

// OpenUri replaces the current item with uri and starts it.
//
//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(uri string) error {
	return p.service.QuickPlay(uri)
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	return playbackStatus(p.service.Status()), nil
}

func playbackStatus(s playback.Status) types.PlaybackStatus {
	switch s {
	case playback.StatusPlaying, playback.StatusBuffering:
		return types.PlaybackStatusPlaying
	case playback.StatusPaused, playback.StatusReady, playback.StatusNetworkError:
		return types.PlaybackStatusPaused
	case playback.StatusUnknown, playback.StatusFinished, playback.StatusFailed:
		return types.PlaybackStatusStopped
	}
	return types.PlaybackStatusStopped
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	item := p.service.Current()
	if item == nil {
		return types.Metadata{}, nil
	}

	meta := types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(item.ID)),
		Length:  types.Microseconds(item.Duration.Microseconds()),
		Title:   item.Title(),
	}
	if m := item.Meta; m != nil {
		if m.Title != "" {
			meta.Title = m.Title
		}
		if m.Artist != "" {
			meta.Artist = []string{m.Artist}
		}
		meta.Album = m.Album
		meta.TrackNumber = m.TrackNumber
	}
	meta.ArtUrl = p.art.URL(item.Meta.Cover())
	if meta.ArtUrl == "" {
		meta.ArtUrl = artURL(item.SourceURL)
	}
	return meta, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume, nil
}

func (p *playerAdapter) SetVolume(v float64) error {
	v = max(0, min(v, 1))
	p.mu.Lock()
	p.volume = v
	p.mu.Unlock()
	p.service.SetVolume(v)
	return nil
}

func (p *playerAdapter) Position() (int64, error) {
	return p.service.Position().Microseconds(), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) CanGoNext() (bool, error) {
	return p.service.Cursor() < len(p.service.Items())-1, nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return p.service.Cursor() > 0, nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return len(p.service.Items()) > 0, nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return p.service.Duration() > 0, nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

func formatTrackID(id string) string {
	h := fnv.New64a()
	h.Write([]byte(id))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}
