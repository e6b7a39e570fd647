//go:build !unix

// Package stderr is a no-op where native audio libraries stay quiet.
package stderr

import (
	"io"
	"os"
)

// Capture leaves stderr untouched.
type Capture struct{}

// Start returns a Capture that forwards nothing.
func Start(_ func(line string)) (*Capture, error) {
	return &Capture{}, nil
}

// Original returns os.Stderr.
func (c *Capture) Original() io.Writer {
	return os.Stderr
}

// Stop is a no-op.
func (c *Capture) Stop() {}
