//go:build linux

package mpris

import (
	"net/url"
	"os"
	"path/filepath"
)

// coverNames lists common album art filenames in priority order.
var coverNames = []string{
	"cover.jpg", "cover.png", "cover.jpeg",
	"folder.jpg", "folder.png", "folder.jpeg",
	"front.jpg", "front.png",
}

// artURL returns a file URL for album art stored next to a local source, or
// "" for remote sources and directories without art.
func artURL(sourceURL string) string {
	u, err := url.Parse(sourceURL)
	if err != nil || (u.Scheme != "file" && u.Scheme != "") || u.Path == "" {
		return ""
	}
	dir, err := filepath.Abs(filepath.Dir(u.Path))
	if err != nil {
		return ""
	}
	for _, name := range coverNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return (&url.URL{Scheme: "file", Path: p}).String()
		}
	}
	return ""
}
