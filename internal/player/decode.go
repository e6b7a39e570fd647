package player

import (
	"bytes"
	"fmt"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"

	"github.com/llehouerou/wavecast/internal/errmsg"
)

// Container formats recognised by sniff.
const (
	formatUnknown = ""
	formatMP3     = "MP3"
	formatFLAC    = "FLAC"
	formatWAV     = "WAV"
	formatVorbis  = "VORBIS"
)

// byteSource is a seekable in-memory ReadCloser. The mp3 decoder only
// supports seeking when its reader implements io.Seeker.
type byteSource struct {
	*bytes.Reader
}

func (byteSource) Close() error { return nil }

// sniff detects the container format from magic bytes and returns it with the
// offset at which the decoder should start reading.
func sniff(data []byte) (format string, offset int) {
	offset = id3v2Size(data)
	b := data[offset:]

	switch {
	case bytes.HasPrefix(b, []byte("fLaC")):
		return formatFLAC, offset
	case len(b) >= 12 && bytes.Equal(b[0:4], []byte("RIFF")) && bytes.Equal(b[8:12], []byte("WAVE")):
		return formatWAV, offset
	case bytes.HasPrefix(b, []byte("OggS")):
		return formatVorbis, offset
	case len(b) >= 2 && b[0] == 0xFF && b[1]&0xE0 == 0xE0:
		// MPEG frame sync
		return formatMP3, 0
	case offset > 0:
		// ID3 followed by padding or junk before the first frame
		return formatMP3, 0
	}
	return formatUnknown, 0
}

// id3v2Size returns the length of a leading ID3v2 tag, or 0.
// Some FLAC files have ID3v2 tags prepended, which the FLAC decoder doesn't handle.
func id3v2Size(data []byte) int {
	if len(data) < 10 || string(data[0:3]) != "ID3" {
		return 0
	}
	// ID3v2 size is stored as a syncsafe integer in bytes 6-9
	size := int(data[6])<<21 | int(data[7])<<14 | int(data[8])<<7 | int(data[9])
	if 10+size > len(data) {
		return 0
	}
	return 10 + size
}

// decode picks a beep decoder for data.
func decode(data []byte) (beep.StreamSeekCloser, beep.Format, string, error) {
	format, offset := sniff(data)
	src := byteSource{bytes.NewReader(data[offset:])}

	var (
		streamer beep.StreamSeekCloser
		f        beep.Format
		err      error
	)
	switch format {
	case formatMP3:
		streamer, f, err = mp3.Decode(src)
	case formatFLAC:
		streamer, f, err = flac.Decode(src)
	case formatWAV:
		streamer, f, err = wav.Decode(src)
	case formatVorbis:
		streamer, f, err = vorbis.Decode(src)
	default:
		return nil, beep.Format{}, formatUnknown, fmt.Errorf("%w: unrecognised audio format", errmsg.ErrDecodeFailed)
	}
	if err != nil {
		return nil, beep.Format{}, format, fmt.Errorf("%w: %s: %w", errmsg.ErrDecodeFailed, format, err)
	}
	return streamer, f, format, nil
}
