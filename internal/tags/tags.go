// Package tags reads music metadata from in-memory audio resources.
package tags

import (
	"strconv"
	"strings"
)

// Format names reported in Info.Format.
const (
	FormatMP3   = "MP3"
	FormatFLAC  = "FLAC"
	FormatOGG   = "OGG"
	FormatM4A   = "M4A"
	FormatOther = "UNKNOWN"
)

// id3Magic is the magic bytes for ID3v2 header detection.
const id3Magic = "ID3"

// Info contains the descriptive metadata of one resource.
type Info struct {
	Title       string
	Artist      string
	AlbumArtist string
	Album       string
	Genre       string
	Date        string // YYYY or YYYY-MM-DD

	TrackNumber int
	TotalTracks int
	DiscNumber  int
	TotalDiscs  int

	Format string

	// Picture is the embedded cover art, nil when the resource has none.
	Picture *Picture
}

// Picture is an embedded image.
type Picture struct {
	MIMEType string
	Data     []byte
}

// Cover returns the embedded art of i, or nil.
func (i *Info) Cover() *Picture {
	if i == nil || i.Picture == nil || len(i.Picture.Data) == 0 {
		return nil
	}
	return i.Picture
}

// Ext returns a file extension, with the dot, matching the image type.
func (p *Picture) Ext() string {
	switch strings.ToLower(p.MIMEType) {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	return ".jpg"
}

// Year derives the year from the Date field.
// Returns 0 if Date is empty or cannot be parsed.
func (i *Info) Year() int {
	if i == nil || i.Date == "" {
		return 0
	}
	year := i.Date
	if len(year) > 4 {
		year = year[:4]
	}
	y, _ := strconv.Atoi(year)
	return y
}

// Display returns "Artist - Title", falling back to whichever is set, or
// fallback when neither is.
func (i *Info) Display(fallback string) string {
	if i == nil {
		return fallback
	}
	switch {
	case i.Artist != "" && i.Title != "":
		return i.Artist + " - " + i.Title
	case i.Title != "":
		return i.Title
	case i.Artist != "":
		return i.Artist
	}
	return fallback
}

// parseTrackNumber parses a track number string like "5" or "5/10".
func parseTrackNumber(s string) (num, total int) {
	if s == "" {
		return 0, 0
	}
	parts := strings.SplitN(s, "/", 2)
	num, _ = strconv.Atoi(parts[0])
	if len(parts) == 2 {
		total, _ = strconv.Atoi(parts[1])
	}
	return num, total
}
