//go:build !linux

package lifecycle

import "github.com/charmbracelet/log"

// System is a Manual on platforms without a system bus.
type System struct {
	*Manual
}

// NewSystem returns a System driven only by its Manual controls.
func NewSystem(_ *log.Logger) *System {
	return &System{Manual: NewManual()}
}

// Close is a no-op.
func (s *System) Close() error { return nil }
