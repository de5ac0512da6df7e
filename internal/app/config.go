package app

import (
	"errors"
	"time"
)

// Defaults applied after flags, environment and the config file have had
// their say.
const (
	DefaultConfigPath    = "config.yaml"
	DefaultOutputPath    = "dorks.txt"
	DefaultMaxResults    = 10
	DefaultProvider      = "google"
	DefaultSearchTimeout = 30 * time.Second
	DefaultCacheDir      = ".godork-cache"
	DefaultSearxUA       = "godork/1.0 (+https://github.com/hyperifyio/godork)"
)

// ErrInvalidConfig marks configuration problems detected before any network
// call is made.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds runtime configuration for the application.
type Config struct {
	Query      string
	OutputPath string
	// OutputPDFPath, when set, also renders the results as PDF.
	OutputPDFPath string
	MaxResults    int
	Highlight     bool
	Quiet         bool

	// ConfigPath is the YAML/JSON file holding credentials and defaults.
	ConfigPath  string
	Credentials Credentials

	// Search
	Provider      string
	SearxURL      string
	SearxUA       string
	SearchFile    string
	SearchTimeout time.Duration

	// Cache
	CacheDir         string
	CacheMaxAge      time.Duration
	CacheClear       bool
	CacheStrictPerms bool
	CacheMaxBytes    int64
	CacheMaxEntries  int

	// CacheBypass skips revalidation of cached pages but still refreshes them.
	CacheBypass bool

	// Screenshots, when ScreenshotDir is set, captures every result URL after
	// the search.
	ScreenshotDir      string
	ScreenshotTimeout  time.Duration
	ScreenshotPDF      bool
	ScreenshotMaxBytes int64
}

// ApplyDefaults fills any field still unset after flags, env and file.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}
	if cfg.ConfigPath == "" {
		cfg.ConfigPath = DefaultConfigPath
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = DefaultOutputPath
	}
	if cfg.MaxResults == 0 {
		cfg.MaxResults = DefaultMaxResults
	}
	if cfg.Provider == "" {
		cfg.Provider = DefaultProvider
	}
	if cfg.SearchTimeout == 0 {
		cfg.SearchTimeout = DefaultSearchTimeout
	}
	if cfg.SearxUA == "" {
		cfg.SearxUA = DefaultSearxUA
	}
}
