package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const appName = "wavecast"

type Config struct {
	LogLevel string `koanf:"log_level"` // "debug", "info", "warn", "error"

	// On-disk content cache
	Cache CacheConfig `koanf:"cache"`

	// Remote fetching
	Download DownloadConfig `koanf:"download"`

	// Playback engine tuning
	Playback PlaybackConfig `koanf:"playback"`
}

// CacheConfig holds the content cache configuration.
type CacheConfig struct {
	Dir     string `koanf:"dir"`      // default: $XDG_CACHE_HOME/wavecast
	QuotaMB int    `koanf:"quota_mb"` // total size quota in MiB (default: 100)
}

// DownloadConfig holds the downloader configuration.
type DownloadConfig struct {
	RateLimit      float64 `koanf:"rate_limit"`      // network fetches per second, 0 = unlimited
	Burst          int     `koanf:"burst"`           // limiter burst (default: 1)
	TimeoutSeconds int     `koanf:"timeout_seconds"` // per-fetch timeout (default: 60)
	UserAgent      string  `koanf:"user_agent"`
}

// PlaybackConfig holds the playback engine configuration.
type PlaybackConfig struct {
	ProgressIntervalMs int     `koanf:"progress_interval_ms"` // progress cadence (default: 100)
	ResumeDelayMs      int     `koanf:"resume_delay_ms"`      // delay before resuming after an interruption (default: 1500)
	Preload            bool    `koanf:"preload"`              // warm the cache for the next item
	Volume             float64 `koanf:"volume"`               // 0.0-1.0 (default: 0.5)
}

func Load() (*Config, error) {
	return LoadFrom(getConfigPaths()...)
}

// LoadFrom loads the given config files in order; later files win.
// Missing files are skipped.
func LoadFrom(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{
		LogLevel: "info",
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	// Expand ~ in cache dir
	if cfg.Cache.Dir != "" {
		cfg.Cache.Dir = expandPath(cfg.Cache.Dir)
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. $XDG_CONFIG_HOME/wavecast/config.toml
	if xdg.ConfigHome != "" {
		paths = append(paths, filepath.Join(xdg.ConfigHome, appName, "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetCacheConfig returns the cache configuration with defaults applied.
func (c *Config) GetCacheConfig() CacheConfig {
	cfg := c.Cache

	if cfg.Dir == "" {
		cfg.Dir = filepath.Join(xdg.CacheHome, appName)
	}
	if cfg.QuotaMB <= 0 {
		cfg.QuotaMB = 100
	}

	return cfg
}

// QuotaBytes returns the cache quota in bytes.
func (c CacheConfig) QuotaBytes() int64 {
	return int64(c.QuotaMB) * 1024 * 1024
}

// GetDownloadConfig returns the download configuration with defaults applied.
func (c *Config) GetDownloadConfig() DownloadConfig {
	cfg := c.Download

	if cfg.RateLimit < 0 {
		cfg.RateLimit = 0
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 60
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "wavecast/1.0 (https://github.com/llehouerou/wavecast)"
	}

	return cfg
}

// Timeout returns the per-fetch timeout.
func (c DownloadConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// GetPlaybackConfig returns the playback configuration with defaults applied.
func (c *Config) GetPlaybackConfig() PlaybackConfig {
	cfg := c.Playback

	if cfg.ProgressIntervalMs <= 0 {
		cfg.ProgressIntervalMs = 100
	}
	if cfg.ResumeDelayMs <= 0 {
		cfg.ResumeDelayMs = 1500
	}
	if cfg.Volume <= 0 || cfg.Volume > 1 {
		cfg.Volume = 0.5
	}

	return cfg
}

// ProgressInterval returns the progress reporting cadence.
func (c PlaybackConfig) ProgressInterval() time.Duration {
	return time.Duration(c.ProgressIntervalMs) * time.Millisecond
}

// ResumeDelay returns the delay applied before resuming after an interruption.
func (c PlaybackConfig) ResumeDelay() time.Duration {
	return time.Duration(c.ResumeDelayMs) * time.Millisecond
}
