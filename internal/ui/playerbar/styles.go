package playerbar

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/wavecast/internal/playback"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	artistStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	metaStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	timeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	playedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	cachedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("237"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func statusSymbol(s playback.Status) string {
	switch s {
	case playback.StatusPlaying:
		return "▶"
	case playback.StatusPaused:
		return "⏸"
	case playback.StatusBuffering:
		return metaStyle.Render("…")
	case playback.StatusReady:
		return "■"
	case playback.StatusFinished:
		return "✓"
	case playback.StatusFailed:
		return errorStyle.Render("✗")
	case playback.StatusNetworkError:
		return warnStyle.Render("⚠")
	case playback.StatusUnknown:
	}
	return " "
}
