package playerbar

import (
	"strings"
	"time"
)

const (
	playedBlock  = "━"
	cachedBlock  = "╌"
	pendingBlock = "─"
)

// renderBar draws width cells: played, then downloaded but not played, then
// the rest. cached is the buffered fraction in [0,1].
func renderBar(position, duration time.Duration, cached float64, width int) string {
	if width <= 0 {
		return ""
	}
	var ratio float64
	if duration > 0 {
		ratio = float64(position) / float64(duration)
	}
	played := cells(ratio, width)
	buffered := max(cells(cached, width)-played, 0)
	rest := width - played - buffered

	return playedStyle.Render(strings.Repeat(playedBlock, played)) +
		cachedStyle.Render(strings.Repeat(cachedBlock, buffered)) +
		pendingStyle.Render(strings.Repeat(pendingBlock, rest))
}

func cells(ratio float64, width int) int {
	ratio = max(0, min(ratio, 1))
	return min(int(float64(width)*ratio), width)
}
