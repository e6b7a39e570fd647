package tags

import (
	"bytes"
	"errors"
	"strconv"

	"github.com/dhowden/tag"
)

// ErrNoTags is returned when the resource carries no readable metadata.
var ErrNoTags = errors.New("no tags found")

// ReadBytes reads tag metadata from a complete in-memory resource.
func ReadBytes(data []byte) (*Info, error) {
	if len(data) == 0 {
		return nil, ErrNoTags
	}

	m, err := tag.ReadFrom(bytes.NewReader(data))
	if err != nil {
		// dhowden/tag has issues with some UTF-16 encoded ID3 tags
		if bytes.HasPrefix(data, []byte(id3Magic)) {
			return readID3v2(data)
		}
		if errors.Is(err, tag.ErrNoTagsFound) {
			return nil, ErrNoTags
		}
		return nil, err
	}

	track, totalTracks := m.Track()
	disc, totalDiscs := m.Disc()

	albumArtist := m.AlbumArtist()
	if albumArtist == "" {
		albumArtist = m.Artist()
	}

	info := &Info{
		Title:       m.Title(),
		Artist:      m.Artist(),
		AlbumArtist: albumArtist,
		Album:       m.Album(),
		Genre:       m.Genre(),
		Date:        yearToDate(m.Year()),
		TrackNumber: track,
		TotalTracks: totalTracks,
		DiscNumber:  disc,
		TotalDiscs:  totalDiscs,
		Format:      formatName(m.FileType()),
	}
	if pic := m.Picture(); pic != nil && len(pic.Data) > 0 {
		info.Picture = &Picture{MIMEType: pic.MIMEType, Data: pic.Data}
	}
	return info, nil
}

func formatName(ft tag.FileType) string {
	switch ft {
	case tag.MP3:
		return FormatMP3
	case tag.FLAC:
		return FormatFLAC
	case tag.OGG:
		return FormatOGG
	case tag.M4A, tag.M4B, tag.M4P, tag.ALAC:
		return FormatM4A
	}
	return FormatOther
}

// yearToDate converts a year integer to a date string.
// Returns empty string for year 0.
func yearToDate(year int) string {
	if year == 0 {
		return ""
	}
	return strconv.Itoa(year)
}
