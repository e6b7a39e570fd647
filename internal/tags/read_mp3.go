package tags

import (
	"bytes"

	"github.com/bogem/id3v2/v2"
)

// readID3v2 reads MP3 metadata using only the id3v2 library.
func readID3v2(data []byte) (*Info, error) {
	id3tag, err := id3v2.ParseReader(bytes.NewReader(data), id3v2.Options{Parse: true})
	if err != nil {
		return nil, err
	}
	if !id3tag.HasFrames() {
		return nil, ErrNoTags
	}

	artist := id3tag.Artist()
	albumArtist := getID3TextFrame(id3tag, "TPE2")
	if albumArtist == "" {
		albumArtist = artist
	}

	track, totalTracks := parseTrackNumber(getID3TextFrame(id3tag, "TRCK"))
	disc, totalDiscs := parseTrackNumber(getID3TextFrame(id3tag, "TPOS"))

	date := ""
	if yearStr := id3tag.Year(); len(yearStr) >= 4 {
		date = yearStr[:4]
	}

	info := &Info{
		Title:       id3tag.Title(),
		Artist:      artist,
		AlbumArtist: albumArtist,
		Album:       id3tag.Album(),
		Genre:       id3tag.Genre(),
		Date:        date,
		TrackNumber: track,
		TotalTracks: totalTracks,
		DiscNumber:  disc,
		TotalDiscs:  totalDiscs,
		Format:      FormatMP3,
		Picture:     readAPIC(id3tag),
	}
	return info, nil
}

// readAPIC returns the front cover, or the first attached picture.
func readAPIC(id3tag *id3v2.Tag) *Picture {
	var found *Picture
	for _, f := range id3tag.GetFrames("APIC") {
		pf, ok := f.(id3v2.PictureFrame)
		if !ok || len(pf.Picture) == 0 {
			continue
		}
		pic := &Picture{MIMEType: pf.MimeType, Data: pf.Picture}
		if pf.PictureType == id3v2.PTFrontCover {
			return pic
		}
		if found == nil {
			found = pic
		}
	}
	return found
}

// getID3TextFrame reads a text frame value from an ID3v2 tag.
func getID3TextFrame(id3tag *id3v2.Tag, frameID string) string {
	frames := id3tag.GetFrames(frameID)
	if len(frames) == 0 {
		return ""
	}
	if tf, ok := frames[0].(id3v2.TextFrame); ok {
		return tf.Text
	}
	return ""
}
