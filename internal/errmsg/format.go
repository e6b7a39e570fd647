// Package errmsg defines the error kinds shared across wavecast and formats
// them for the terminal.
package errmsg

import "fmt"

// Op names the user-visible operation that failed.
type Op string

const (
	OpQueueAppend   Op = "add to queue"
	OpPlaybackStart Op = "start playback"
	OpPlaybackSeek  Op = "seek"
	OpPlaybackLoad  Op = "load media"

	OpDownloadFetch Op = "download"
	OpCacheOpen     Op = "open cache"
	OpCacheWrite    Op = "write cache entry"
	OpCacheClear    Op = "clear cache"
	OpCacheStats    Op = "read cache stats"

	OpConfigLoad Op = "load configuration"
)

var hints = map[error]string{
	ErrNetworkUnavailable: "check your connection",
	ErrMalformedURL:       "expected a URL or path without spaces",
	ErrDiskWriteFailed:    "is the cache directory writable?",
}

// Format renders err as "Failed to <op>: <err>", followed by a hint when
// err wraps a kind that has one.
func Format(op Op, err error) string {
	return FormatWith(op, "", err)
}

// FormatWith is Format with the failing subject (a URL, a path) quoted
// after the operation.
func FormatWith(op Op, subject string, err error) string {
	if err == nil {
		return ""
	}
	msg := "Failed to " + string(op)
	if subject != "" {
		msg += fmt.Sprintf(" '%s'", subject)
	}
	msg += fmt.Sprintf(": %v", err)
	if h, ok := hints[KindOf(err)]; ok {
		msg += " (" + h + ")"
	}
	return msg
}

// Error carries the operation alongside the underlying error so callers can
// still match kinds with errors.Is.
type Error struct {
	Op      Op
	Subject string
	Err     error
}

// Wrap returns nil for a nil err.
func Wrap(op Op, subject string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Subject: subject, Err: err}
}

func (e *Error) Error() string { return FormatWith(e.Op, e.Subject, e.Err) }

func (e *Error) Unwrap() error { return e.Err }
