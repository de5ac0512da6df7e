package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvToConfig populates unset fields of cfg from GODORK_* environment
// variables. Explicit cfg values take precedence over env.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}

	setString := func(dst *string, key string) {
		if *dst == "" {
			*dst = strings.TrimSpace(os.Getenv(key))
		}
	}
	setString(&cfg.ConfigPath, "GODORK_CONFIG")
	setString(&cfg.OutputPath, "GODORK_OUTPUT")
	setString(&cfg.OutputPDFPath, "GODORK_OUTPUT_PDF")
	setString(&cfg.Provider, "GODORK_PROVIDER")
	setString(&cfg.SearchFile, "GODORK_SEARCH_FILE")
	setString(&cfg.CacheDir, "GODORK_CACHE_DIR")
	setString(&cfg.ScreenshotDir, "GODORK_SCREENSHOTS")

	if cfg.SearxURL == "" {
		v := os.Getenv("GODORK_SEARX_URL")
		if v == "" {
			v = os.Getenv("SEARX_URL")
		}
		cfg.SearxURL = strings.TrimSpace(v)
	}

	// A single credential may come from the environment instead of the file.
	if len(cfg.Credentials) == 0 {
		if key := strings.TrimSpace(os.Getenv("GODORK_API_KEY")); key != "" {
			cfg.Credentials = Credentials{{
				APIKey:         key,
				SearchEngineID: strings.TrimSpace(os.Getenv("GODORK_SEARCH_ENGINE_ID")),
			}}
		}
	}

	if cfg.MaxResults == 0 {
		if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv("GODORK_MAX"))); err == nil && n > 0 {
			cfg.MaxResults = n
		}
	}

	setDuration := func(dst *time.Duration, key string) {
		if *dst != 0 {
			return
		}
		if s := strings.TrimSpace(os.Getenv(key)); s != "" {
			if d, err := time.ParseDuration(s); err == nil {
				*dst = d
			}
		}
	}
	setDuration(&cfg.CacheMaxAge, "GODORK_CACHE_MAX_AGE")
	setDuration(&cfg.SearchTimeout, "GODORK_SEARCH_TIMEOUT")
	setDuration(&cfg.ScreenshotTimeout, "GODORK_SCREENSHOT_TIMEOUT")

	setBool := func(dst *bool, key string) {
		if *dst {
			return
		}
		switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
		case "1", "true", "yes", "on":
			*dst = true
		}
	}
	setBool(&cfg.Highlight, "GODORK_HIGHLIGHT")
	setBool(&cfg.Quiet, "GODORK_QUIET")
	setBool(&cfg.CacheClear, "GODORK_CACHE_CLEAR")
	setBool(&cfg.CacheBypass, "GODORK_CACHE_BYPASS")
	setBool(&cfg.ScreenshotPDF, "GODORK_SCREENSHOT_PDF")
}
