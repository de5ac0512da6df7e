package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema. The google
// list matches the credential file format the tool has always read.
type FileConfig struct {
	Google Credentials `yaml:"google" json:"google"`

	Provider  string `yaml:"provider" json:"provider"`
	Output    string `yaml:"output" json:"output"`
	OutputPDF string `yaml:"outputPDF" json:"outputPDF"`
	Max       int    `yaml:"max" json:"max"`
	Highlight bool   `yaml:"highlight" json:"highlight"`
	Quiet     bool   `yaml:"quiet" json:"quiet"`

	Searx struct {
		URL string `yaml:"url" json:"url"`
		UA  string `yaml:"ua" json:"ua"`
	} `yaml:"searx" json:"searx"`

	Search struct {
		File    string        `yaml:"file" json:"file"`
		Timeout time.Duration `yaml:"timeout" json:"timeout"`
	} `yaml:"search" json:"search"`

	Cache struct {
		Dir         string        `yaml:"dir" json:"dir"`
		MaxAge      time.Duration `yaml:"maxAge" json:"maxAge"`
		Clear       bool          `yaml:"clear" json:"clear"`
		StrictPerms bool          `yaml:"strictPerms" json:"strictPerms"`
		MaxBytes    int64         `yaml:"maxBytes" json:"maxBytes"`
		MaxEntries  int           `yaml:"maxEntries" json:"maxEntries"`
		Bypass      bool          `yaml:"bypass" json:"bypass"`
	} `yaml:"cache" json:"cache"`

	Screenshots struct {
		Dir      string        `yaml:"dir" json:"dir"`
		Timeout  time.Duration `yaml:"timeout" json:"timeout"`
		PDF      bool          `yaml:"pdf" json:"pdf"`
		MaxBytes int64         `yaml:"maxBytes" json:"maxBytes"`
	} `yaml:"screenshots" json:"screenshots"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from fc into cfg for any fields that are
// still zero. Flags and environment are applied first so they win.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if len(cfg.Credentials) == 0 && len(fc.Google) > 0 {
		cfg.Credentials = append(Credentials(nil), fc.Google...)
	}
	if cfg.Provider == "" {
		cfg.Provider = fc.Provider
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = fc.Output
	}
	if cfg.OutputPDFPath == "" {
		cfg.OutputPDFPath = fc.OutputPDF
	}
	if cfg.MaxResults == 0 {
		cfg.MaxResults = fc.Max
	}
	if !cfg.Highlight && fc.Highlight {
		cfg.Highlight = true
	}
	if !cfg.Quiet && fc.Quiet {
		cfg.Quiet = true
	}

	if cfg.SearxURL == "" {
		cfg.SearxURL = fc.Searx.URL
	}
	if cfg.SearxUA == "" {
		cfg.SearxUA = fc.Searx.UA
	}
	if cfg.SearchFile == "" {
		cfg.SearchFile = fc.Search.File
	}
	if cfg.SearchTimeout == 0 {
		cfg.SearchTimeout = fc.Search.Timeout
	}

	if cfg.CacheDir == "" {
		cfg.CacheDir = fc.Cache.Dir
	}
	if cfg.CacheMaxAge == 0 {
		cfg.CacheMaxAge = fc.Cache.MaxAge
	}
	if !cfg.CacheClear && fc.Cache.Clear {
		cfg.CacheClear = true
	}
	if !cfg.CacheStrictPerms && fc.Cache.StrictPerms {
		cfg.CacheStrictPerms = true
	}
	if cfg.CacheMaxBytes == 0 {
		cfg.CacheMaxBytes = fc.Cache.MaxBytes
	}
	if cfg.CacheMaxEntries == 0 {
		cfg.CacheMaxEntries = fc.Cache.MaxEntries
	}
	if !cfg.CacheBypass && fc.Cache.Bypass {
		cfg.CacheBypass = true
	}

	if cfg.ScreenshotDir == "" {
		cfg.ScreenshotDir = fc.Screenshots.Dir
	}
	if cfg.ScreenshotTimeout == 0 {
		cfg.ScreenshotTimeout = fc.Screenshots.Timeout
	}
	if !cfg.ScreenshotPDF && fc.Screenshots.PDF {
		cfg.ScreenshotPDF = true
	}
	if cfg.ScreenshotMaxBytes == 0 {
		cfg.ScreenshotMaxBytes = fc.Screenshots.MaxBytes
	}
}

// ValidateConfig checks the settings a run cannot do without. Credentials are
// not checked here; a missing key surfaces from the search run itself.
func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.Query) == "" {
		return fmt.Errorf("%w: query is required", ErrInvalidConfig)
	}
	if strings.TrimSpace(cfg.OutputPath) == "" {
		return fmt.Errorf("%w: output path is required", ErrInvalidConfig)
	}
	if cfg.CacheMaxBytes < 0 || cfg.CacheMaxEntries < 0 || cfg.SearchTimeout < 0 || cfg.ScreenshotTimeout < 0 {
		return fmt.Errorf("%w: negative limits are not allowed", ErrInvalidConfig)
	}
	if cfg.ScreenshotPDF && strings.TrimSpace(cfg.ScreenshotDir) == "" {
		return fmt.Errorf("%w: pdf capture needs a screenshots directory", ErrInvalidConfig)
	}
	switch cfg.Provider {
	case "google":
	case "searxng":
		if strings.TrimSpace(cfg.SearxURL) == "" {
			return fmt.Errorf("%w: searxng provider needs searx.url", ErrInvalidConfig)
		}
	case "file":
		if strings.TrimSpace(cfg.SearchFile) == "" {
			return fmt.Errorf("%w: file provider needs search.file", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, cfg.Provider)
	}
	return nil
}

// LoadConfig layers environment, config file and defaults beneath whatever
// the caller already set from flags. A missing config file is an error unless
// the environment already supplied a credential.
func LoadConfig(cfg Config) (Config, error) {
	ApplyEnvToConfig(&cfg)
	path := cfg.ConfigPath
	if path == "" {
		path = DefaultConfigPath
	}
	fc, err := LoadConfigFile(path)
	switch {
	case err == nil:
		ApplyFileConfig(&cfg, fc)
	case os.IsNotExist(err) && len(cfg.Credentials) > 0:
	case os.IsNotExist(err):
		return cfg, fmt.Errorf("%w: config file %s not found", ErrInvalidConfig, path)
	default:
		return cfg, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	ApplyDefaults(&cfg)
	return cfg, nil
}
