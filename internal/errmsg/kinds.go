package errmsg

import "errors"

// Error kinds shared by the cache, downloader and playback engine.
// Callers match them with errors.Is; producers wrap them with fmt.Errorf("%w: ...").
var (
	ErrMalformedURL       = errors.New("malformed url")
	ErrDecodeFailed       = errors.New("decode failed")
	ErrNetworkUnavailable = errors.New("network unavailable")
	ErrDiskWriteFailed    = errors.New("disk write failed")
	ErrSeekOutOfRange     = errors.New("seek out of range")
	ErrFetchFailed        = errors.New("fetch failed")
	ErrIndexOutOfRange    = errors.New("index out of range")
	ErrClosed             = errors.New("engine closed")
)

var kinds = []error{
	ErrMalformedURL,
	ErrDecodeFailed,
	ErrNetworkUnavailable,
	ErrDiskWriteFailed,
	ErrSeekOutOfRange,
	ErrFetchFailed,
	ErrIndexOutOfRange,
	ErrClosed,
}

// KindOf returns the error kind err wraps, or nil if it wraps none.
func KindOf(err error) error {
	if err == nil {
		return nil
	}
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// IsNetwork reports whether err should surface as a network error rather than
// an item failure.
func IsNetwork(err error) bool {
	return errors.Is(err, ErrNetworkUnavailable)
}
