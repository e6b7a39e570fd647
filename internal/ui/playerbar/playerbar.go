// Package playerbar renders the one-line playback status shown by the CLI.
package playerbar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/wavecast/internal/playback"
)

const minBarWidth = 10

// State holds everything needed to render the bar.
type State struct {
	Status   playback.Status
	Title    string
	Artist   string
	Album    string
	Index    int // 1-based position in the queue, 0 if none
	Total    int
	Position time.Duration
	Duration time.Duration
	Cached   float64 // buffered fraction of the current item
	Err      error   // last error of the current item
}

// NewState reads the current item and position from svc. cached comes from
// the cache progress callback, which has no query counterpart.
func NewState(svc playback.Service, cached float64) State {
	s := State{
		Status: svc.Status(),
		Total:  len(svc.Items()),
		Cached: cached,
	}
	item := svc.Current()
	if item == nil {
		return s
	}
	s.Index = svc.Cursor() + 1
	s.Title = item.Title()
	s.Duration = item.Duration
	s.Position = svc.Position()
	s.Err = item.LastError
	if m := item.Meta; m != nil {
		if m.Title != "" {
			s.Title = m.Title
		}
		s.Artist = m.Artist
		s.Album = m.Album
	}
	return s
}

// Render returns the status line for the given terminal width.
//
//	▶  Title   Artist · Album   2/5   ━━━━╌╌╌────   1:23 / 3:58
func Render(s State, width int) string {
	if s.Index == 0 {
		return metaStyle.Render("nothing queued")
	}

	const sep = "   "
	status := statusSymbol(s.Status) + "  "
	queue := fmt.Sprintf("%d/%d", s.Index, s.Total)
	times := fmt.Sprintf("%s / %s", formatDuration(s.Position), formatDuration(s.Duration))
	if s.Duration <= 0 {
		times = formatDuration(s.Position) + " / --:--"
	}

	var info []string
	if s.Artist != "" {
		info = append(info, s.Artist)
	}
	if s.Album != "" {
		info = append(info, s.Album)
	}
	detail := strings.Join(info, " · ")
	if s.Err != nil && (s.Status == playback.StatusFailed || s.Status == playback.StatusNetworkError) {
		detail = s.Err.Error()
	}

	fixed := lipgloss.Width(status) + lipgloss.Width(queue) + lipgloss.Width(times) + 3*len(sep)
	available := max(width-fixed-minBarWidth, 10)

	title := s.Title
	if title == "" {
		title = "Unknown"
	}
	var content string
	switch tw := lipgloss.Width(title); {
	case detail != "" && tw+len(sep)+lipgloss.Width(detail) <= available:
		content = titleStyle.Render(title) + sep + artistStyle.Render(detail)
	case detail != "" && tw+len(sep)+1 < available:
		content = titleStyle.Render(title) + sep + artistStyle.Render(truncate(detail, available-tw-len(sep)))
	default:
		content = titleStyle.Render(truncate(title, available))
	}

	barWidth := max(width-fixed-lipgloss.Width(content), 5)

	var b strings.Builder
	b.WriteString(status)
	b.WriteString(content)
	b.WriteString(sep)
	b.WriteString(metaStyle.Render(queue))
	b.WriteString(sep)
	b.WriteString(renderBar(s.Position, s.Duration, s.Cached, barWidth))
	b.WriteString(sep)
	b.WriteString(timeStyle.Render(times))
	return b.String()
}

func truncate(s string, maxWidth int) string {
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r)) > maxWidth-1 {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}

func formatDuration(d time.Duration) string {
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", m, s)
}
