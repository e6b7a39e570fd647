package playlist

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/llehouerou/wavecast/internal/cache"
	"github.com/llehouerou/wavecast/internal/errmsg"
	"github.com/llehouerou/wavecast/internal/tags"
)

// Item is one playable entry of the queue.
type Item struct {
	ID        string // unique per queue entry, survives reordering
	Key       string // content-cache key of SourceURL
	SourceURL string

	// Loaded is true while the media engine holds a decode handle for the item.
	Loaded    bool
	Duration  time.Duration // 0 until confirmed by the media engine
	LastError error
	Status    Status
	Meta      *tags.Info
}

// NewItem validates rawURL and creates an item for it.
func NewItem(rawURL string) (*Item, error) {
	if err := ValidateURL(rawURL); err != nil {
		return nil, err
	}
	return &Item{
		ID:        uuid.NewString(),
		Key:       cache.Key(rawURL),
		SourceURL: rawURL,
	}, nil
}

// Title returns a display name for the item.
func (it *Item) Title() string {
	fallback := it.SourceURL
	if u, err := url.Parse(it.SourceURL); err == nil {
		if i := strings.LastIndex(u.Path, "/"); i >= 0 && i < len(u.Path)-1 {
			fallback = u.Path[i+1:]
		}
	}
	return it.Meta.Display(fallback)
}

// ValidateURL checks that rawURL parses as a URL reference. Absolute http(s)
// and file URLs as well as relative references ("a.mp3", "music/b.flac")
// are accepted; relative ones are resolved by the transport as local paths.
// Empty strings and strings containing whitespace are rejected.
func ValidateURL(rawURL string) error {
	if rawURL == "" || strings.IndexFunc(rawURL, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%w: %q", errmsg.ErrMalformedURL, rawURL)
	}
	if _, err := url.Parse(rawURL); err != nil {
		return fmt.Errorf("%w: %w", errmsg.ErrMalformedURL, err)
	}
	return nil
}
