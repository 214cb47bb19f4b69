package fetch

import (
	"time"

	"surveylens/internal/platform/config"
)

// Config holds the fetcher settings read from CORE_FETCH_*
type Config struct {
	CacheDir     string        `env:"CORE_FETCH_CACHE_DIR" validate:"required"`
	Timeout      time.Duration `env:"CORE_FETCH_HTTP_TIMEOUT_SECONDS" validate:"min=0"`
	RefreshAfter time.Duration `env:"CORE_FETCH_REFRESH_AFTER_HOURS" validate:"min=0"`
}

// FromConfig extracts Config from the given config.Conf
func FromConfig(cfg config.Conf) Config {
	fc := cfg.Prefix("CORE_FETCH_")
	return Config{
		CacheDir:     fc.MayPath("CACHE_DIR", ".cache/surveylens"),
		Timeout:      time.Duration(fc.MayInt("HTTP_TIMEOUT_SECONDS", 60)) * time.Second,
		RefreshAfter: time.Duration(fc.MayInt("REFRESH_AFTER_HOURS", 0)) * time.Hour,
	}
}

// NewFromConfig builds a Fetcher from Config
func NewFromConfig(c Config) *Fetcher {
	return New(c.CacheDir, WithTimeout(c.Timeout), WithRefreshAfter(c.RefreshAfter))
}
