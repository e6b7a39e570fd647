//go:build unix

// Package stderr captures output that native audio libraries (ALSA, oto)
// write straight to file descriptor 2, so it cannot corrupt the status line.
package stderr

import (
	"bufio"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/sys/unix"
)

// Capture redirects fd 2 into a pipe until Stop.
type Capture struct {
	orig *os.File
	r, w *os.File
	done chan struct{}
	once sync.Once
}

// Start redirects fd 2 and calls fn with every non-empty captured line from
// a dedicated goroutine. Anything that must stay visible, including the
// logger, should write to Original.
func Start(fn func(line string)) (*Capture, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}

	origFd, err := unix.Dup(int(os.Stderr.Fd()))
	if err != nil {
		r.Close()
		w.Close()
		return nil, err
	}
	if err := unix.Dup2(int(w.Fd()), int(os.Stderr.Fd())); err != nil {
		unix.Close(origFd)
		r.Close()
		w.Close()
		return nil, err
	}

	c := &Capture{
		orig: os.NewFile(uintptr(origFd), "stderr"),
		r:    r,
		w:    w,
		done: make(chan struct{}),
	}
	go c.read(fn)
	return c, nil
}

func (c *Capture) read(fn func(string)) {
	defer close(c.done)
	scanner := bufio.NewScanner(c.r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			fn(line)
		}
	}
}

// Original returns the stderr that was in place before Start.
func (c *Capture) Original() io.Writer {
	return c.orig
}

// Stop restores fd 2 and waits for the reader to drain.
func (c *Capture) Stop() {
	c.once.Do(func() {
		_ = unix.Dup2(int(c.orig.Fd()), int(os.Stderr.Fd()))
		c.w.Close()
		<-c.done
		c.r.Close()
		c.orig.Close()
	})
}
