// Package cache provides a content-addressed disk cache for downloaded media
// with a total-size quota.
//
// Blobs live on an afero filesystem under <dir>/blobs; a sqlite index records
// their sizes and creation times. Eviction is oldest-created first and runs in
// the same transaction as the insert that needs the room.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"

	"github.com/llehouerou/wavecast/internal/db"
	"github.com/llehouerou/wavecast/internal/errmsg"
	"github.com/llehouerou/wavecast/internal/logging"
)

// DefaultQuota is the quota used when Options.Quota is not set.
const DefaultQuota int64 = 100 * 1024 * 1024

const (
	blobDirName   = "blobs"
	indexFileName = "index.db"
)

// Options configures a Cache.
type Options struct {
	Dir       string // cache root
	IndexPath string // sqlite index, default <Dir>/index.db; ":memory:" allowed
	Quota     int64  // total size quota in bytes, default DefaultQuota
	Fs        afero.Fs
	Logger    *log.Logger
	Now       func() time.Time
}

// Entry describes one cached blob.
type Entry struct {
	Key       string
	Size      int64
	CreatedAt time.Time
}

// Stats summarizes the cache contents.
type Stats struct {
	Entries    int
	TotalBytes int64
	Quota      int64
	Oldest     time.Time // zero if empty
}

// Cache is safe for concurrent use.
type Cache struct {
	mu    sync.Mutex
	db    *sql.DB
	fs    afero.Afero
	dir   string
	quota int64
	size  int64
	log   *log.Logger
	now   func() time.Time
}

// Key derives the content address of a source URL.
func Key(url string) string {
	hash := sha256.Sum256([]byte(url))
	return hex.EncodeToString(hash[:])
}

// Open opens (or creates) the cache described by opts.
func Open(opts Options) (*Cache, error) {
	if opts.Dir == "" {
		return nil, errors.New("cache dir is empty")
	}
	if opts.Quota <= 0 {
		opts.Quota = DefaultQuota
	}
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.IndexPath == "" {
		if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
			return nil, err
		}
		opts.IndexPath = filepath.Join(opts.Dir, indexFileName)
	}

	sqlDB, err := db.Open(opts.IndexPath)
	if err != nil {
		return nil, err
	}
	if err := initSchema(sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}

	c := &Cache{
		db:    sqlDB,
		fs:    afero.Afero{Fs: opts.Fs},
		dir:   opts.Dir,
		quota: opts.Quota,
		log:   logging.Component(opts.Logger, "cache"),
		now:   opts.Now,
	}

	if err := sqlDB.QueryRow(`SELECT COALESCE(SUM(size), 0) FROM cache_entries`).Scan(&c.size); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("read cache size: %w", err)
	}

	if err := c.sweep(); err != nil {
		c.log.Warn("sweep orphan blobs", "err", err)
	}

	c.log.Debug("opened", "dir", opts.Dir, "size", humanize.IBytes(uint64(c.size)), "quota", humanize.IBytes(uint64(c.quota)))
	return c, nil
}

// Close releases the index.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Quota returns the configured size quota in bytes.
func (c *Cache) Quota() int64 {
	return c.quota
}

// CurrentSize returns the total size of cached entries in bytes.
func (c *Cache) CurrentSize() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

func (c *Cache) blobPath(key string) string {
	prefix := key
	if len(prefix) > 2 {
		prefix = prefix[:2]
	}
	return filepath.Join(c.dir, blobDirName, prefix, key)
}

// Get returns the cached bytes for key. Only indexed blobs are hits, so
// every byte served is counted against the quota.
func (c *Cache) Get(key string) ([]byte, bool) {
	if !c.indexed(key) {
		return nil, false
	}
	data, err := c.fs.ReadFile(c.blobPath(key))
	if err == nil {
		return data, true
	}

	// Blob vanished underneath us: drop the stale index row so accounting
	// stays honest. Re-check under the lock, a Put may have just replaced it.
	c.mu.Lock()
	defer c.mu.Unlock()
	if data, err := c.fs.ReadFile(c.blobPath(key)); err == nil {
		return data, true
	}
	var size int64
	if err := c.db.QueryRow(`SELECT size FROM cache_entries WHERE key = ?`, key).Scan(&size); err != nil {
		return nil, false
	}
	if _, err := c.db.Exec(`DELETE FROM cache_entries WHERE key = ?`, key); err == nil {
		c.size -= size
		c.log.Warn("dropped index entry without blob", "key", key)
	}
	return nil, false
}

func (c *Cache) indexed(key string) bool {
	var one int
	err := c.db.QueryRow(`SELECT 1 FROM cache_entries WHERE key = ?`, key).Scan(&one)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		c.log.Warn("index lookup failed", "key", key, "err", err)
	}
	return err == nil
}

// sweep removes blobs the index does not know about: leftovers of a write
// whose transaction failed, or of a crash between rename and commit.
func (c *Cache) sweep() error {
	rows, err := c.db.Query(`SELECT key FROM cache_entries`)
	if err != nil {
		return err
	}
	known := make(map[string]struct{})
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			rows.Close()
			return err
		}
		known[key] = struct{}{}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	root := filepath.Join(c.dir, blobDirName)
	if ok, _ := c.fs.DirExists(root); !ok {
		return nil
	}
	var orphans []string
	err = c.fs.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		if _, ok := known[filepath.Base(path)]; !ok {
			orphans = append(orphans, path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, path := range orphans {
		if err := c.fs.Remove(path); err != nil {
			c.log.Warn("remove orphan blob", "path", path, "err", err)
			continue
		}
		c.log.Debug("removed orphan blob", "path", path)
	}
	return nil
}

// Put stores data under key, evicting the oldest entries until it fits.
//
// Put never fails from the caller's point of view: an entry larger than the
// quota is ignored and disk errors are logged and leave the cache unchanged.
func (c *Cache) Put(key string, data []byte) {
	size := int64(len(data))
	if size > c.quota {
		c.log.Debug("entry exceeds quota, not cached", "key", key, "size", humanize.IBytes(uint64(size)))
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var victims []Entry
	total := c.size
	wrote := false

	err := db.WithTx(c.db, func(tx *sql.Tx) error {
		var old int64
		err := tx.QueryRow(`SELECT size FROM cache_entries WHERE key = ?`, key).Scan(&old)
		switch {
		case errors.Is(err, sql.ErrNoRows):
		case err != nil:
			return err
		default:
			if _, err := tx.Exec(`DELETE FROM cache_entries WHERE key = ?`, key); err != nil {
				return err
			}
			total -= old
		}

		if total+size > c.quota {
			victims, total, err = oldestUntilFits(tx, total, size, c.quota)
			if err != nil {
				return err
			}
			for _, v := range victims {
				if _, err := tx.Exec(`DELETE FROM cache_entries WHERE key = ?`, v.Key); err != nil {
					return err
				}
			}
		}

		if err := c.writeBlob(key, data); err != nil {
			return fmt.Errorf("%w: %w", errmsg.ErrDiskWriteFailed, err)
		}
		wrote = true

		_, err = tx.Exec(`
			INSERT INTO cache_entries (key, size, created_at) VALUES (?, ?, ?)
		`, key, size, c.now().UnixNano())
		return err
	})
	if err != nil {
		if wrote {
			_ = c.fs.Remove(c.blobPath(key))
		}
		c.log.Warn(errmsg.Format(errmsg.OpCacheWrite, err), "key", key)
		return
	}

	for _, v := range victims {
		if err := c.fs.Remove(c.blobPath(v.Key)); err != nil && !os.IsNotExist(err) {
			c.log.Warn("remove evicted blob", "key", v.Key, "err", err)
		}
		c.log.Debug("evicted", "key", v.Key, "size", humanize.IBytes(uint64(v.Size)))
	}
	c.size = total + size
}

// oldestUntilFits selects entries, oldest first, whose removal brings total
// down far enough for size more bytes to fit under quota.
func oldestUntilFits(tx *sql.Tx, total, size, quota int64) ([]Entry, int64, error) {
	rows, err := tx.Query(`
		SELECT key, size, created_at
		FROM cache_entries
		ORDER BY created_at ASC, seq ASC
	`)
	if err != nil {
		return nil, total, err
	}
	defer rows.Close()

	var victims []Entry
	for total+size > quota && rows.Next() {
		var e Entry
		var created int64
		if err := rows.Scan(&e.Key, &e.Size, &created); err != nil {
			return nil, total, err
		}
		e.CreatedAt = time.Unix(0, created)
		victims = append(victims, e)
		total -= e.Size
	}
	return victims, total, rows.Err()
}

// writeBlob writes through a temporary file so readers never observe a
// partially written blob.
func (c *Cache) writeBlob(key string, data []byte) error {
	path := c.blobPath(key)
	if err := c.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := c.fs.WriteFile(tmp, data, 0o600); err != nil {
		_ = c.fs.Remove(tmp)
		return err
	}
	if err := c.fs.Rename(tmp, path); err != nil {
		_ = c.fs.Remove(tmp)
		return err
	}
	return nil
}

// Entries lists cached entries, oldest first.
func (c *Cache) Entries() ([]Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows, err := c.db.Query(`
		SELECT key, size, created_at
		FROM cache_entries
		ORDER BY created_at ASC, seq ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Entry
	for rows.Next() {
		var e Entry
		var created int64
		if err := rows.Scan(&e.Key, &e.Size, &created); err != nil {
			return nil, err
		}
		e.CreatedAt = time.Unix(0, created)
		result = append(result, e)
	}
	return result, rows.Err()
}

// Stats returns a summary of the cache contents.
func (c *Cache) Stats() (Stats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{Quota: c.quota}
	var oldest sql.NullInt64
	err := c.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(size), 0), MIN(created_at)
		FROM cache_entries
	`).Scan(&s.Entries, &s.TotalBytes, &oldest)
	if err != nil {
		return Stats{}, err
	}
	if oldest.Valid {
		s.Oldest = time.Unix(0, oldest.Int64)
	}
	return s, nil
}

// Clear removes every entry and blob.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.db.Exec(`DELETE FROM cache_entries`); err != nil {
		return err
	}
	c.size = 0
	if err := c.fs.RemoveAll(filepath.Join(c.dir, blobDirName)); err != nil {
		return err
	}
	c.log.Info("cleared")
	return nil
}
