// Package artwork keeps embedded cover art on disk so desktop integrations
// can reference it by path or file URL.
package artwork

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/llehouerou/wavecast/internal/logging"
	"github.com/llehouerou/wavecast/internal/tags"
)

// Store writes pictures under a directory, named by content hash.
// A nil *Store is valid and stores nothing.
type Store struct {
	fs  afero.Afero
	dir string
	log *log.Logger

	mu sync.Mutex
}

// New creates a store rooted at dir on fs.
func New(fs afero.Fs, dir string, logger *log.Logger) *Store {
	return &Store{
		fs:  afero.Afero{Fs: fs},
		dir: dir,
		log: logging.Component(logger, "artwork"),
	}
}

// Path returns the on-disk path of pic, writing it on first use.
// It returns "" when pic is nil or cannot be written.
func (s *Store) Path(pic *tags.Picture) string {
	if s == nil || pic == nil || len(pic.Data) == 0 {
		return ""
	}
	sum := sha256.Sum256(pic.Data)
	path := filepath.Join(s.dir, hex.EncodeToString(sum[:8])+pic.Ext())

	s.mu.Lock()
	defer s.mu.Unlock()

	if ok, _ := s.fs.Exists(path); ok {
		return path
	}
	if err := s.write(path, pic.Data); err != nil {
		s.log.Warn("storing artwork", "path", path, "err", err)
		return ""
	}
	return path
}

// URL returns the file URL of pic, or "".
func (s *Store) URL(pic *tags.Picture) string {
	p := s.Path(pic)
	if p == "" {
		return ""
	}
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	return (&url.URL{Scheme: "file", Path: p}).String()
}

// Clear removes every stored picture.
func (s *Store) Clear() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fs.RemoveAll(s.dir)
}

func (s *Store) write(path string, data []byte) error {
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := s.fs.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := s.fs.Rename(tmp, path); err != nil {
		_ = s.fs.Remove(tmp)
		return err
	}
	return nil
}

