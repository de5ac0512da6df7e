package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/godork/internal/cache"
	"github.com/hyperifyio/godork/internal/dorker"
	"github.com/hyperifyio/godork/internal/extract"
	"github.com/hyperifyio/godork/internal/fetch"
	"github.com/hyperifyio/godork/internal/report"
	"github.com/hyperifyio/godork/internal/screenshot"
	"github.com/hyperifyio/godork/internal/search"
)

// ErrNoResults is returned when the search succeeded but found nothing. No
// output file is written in that case.
var ErrNoResults = errors.New("no results found")

type App struct {
	cfg      Config
	provider search.Provider
	dorker   *dorker.Dorker
	fetcher  *fetch.Client
	screens  *screenshot.Capturer // nil unless a screenshots dir is set
	now      func() time.Time
}

// New validates cfg, prepares the page cache and assembles the search
// provider and line extractor.
func New(ctx context.Context, cfg Config) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	hc := newHTTPClient()

	var pages *cache.PageCache
	if cfg.CacheDir != "" {
		pages = prepareCache(cfg)
	}

	provider, err := newProvider(cfg, hc)
	if err != nil {
		return nil, err
	}
	if cfg.SearchTimeout > 0 {
		provider = &boundedProvider{Provider: provider, timeout: cfg.SearchTimeout}
	}

	fetcher := &fetch.Client{
		HTTPClient:  hc,
		UserAgent:   fetch.DefaultUserAgent,
		Cache:       pages,
		BypassCache: cfg.CacheBypass,
	}
	a := &App{
		cfg:      cfg,
		provider: provider,
		dorker: &dorker.Dorker{
			Credentials: cfg.Credentials,
			Provider:    provider,
			Extractor:   &extract.Extractor{Fetcher: fetcher},
		},
		fetcher: fetcher,
		now:     time.Now,
	}
	if cfg.ScreenshotDir != "" {
		a.screens = &screenshot.Capturer{
			Dir:        cfg.ScreenshotDir,
			Timeout:    cfg.ScreenshotTimeout,
			PDFMode:    cfg.ScreenshotPDF,
			MaxBytes:   cfg.ScreenshotMaxBytes,
			HTTPClient: hc,
			UserAgent:  fetch.DefaultUserAgent,
		}
	}
	log.Debug().Str("provider", provider.Name()).Str("cache", cfg.CacheDir).Msg("app ready")
	return a, nil
}

// Run performs the search and writes the report files.
func (a *App) Run(ctx context.Context) error {
	log.Info().Str("query", a.cfg.Query).Msg("searching")
	results, err := a.dorker.Run(ctx, a.cfg.Query, a.cfg.MaxResults)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return ErrNoResults
	}

	if a.screens != nil {
		urls := make([]string, len(results))
		for i, r := range results {
			urls[i] = r.URL
		}
		shots, err := a.screens.CaptureAll(ctx, urls)
		if err != nil {
			return fmt.Errorf("screenshots: %w", err)
		}
		log.Info().Int("count", len(shots)).Str("dir", a.cfg.ScreenshotDir).Msg("screenshots done")
	}

	meta := report.Meta{
		Query:       a.cfg.Query,
		Provider:    a.provider.Name(),
		GeneratedAt: a.now(),
		Highlight:   a.cfg.Highlight,
	}
	if err := report.WriteTextFile(a.cfg.OutputPath, meta, results); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	log.Info().Int("results", len(results)).Str("path", a.cfg.OutputPath).Msg("results saved")

	if a.cfg.OutputPDFPath != "" {
		meta.Highlight = false
		if err := report.WritePDF(a.cfg.OutputPDFPath, meta, results); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		log.Info().Str("path", a.cfg.OutputPDFPath).Msg("pdf saved")
	}
	return nil
}

func newProvider(cfg Config, hc *http.Client) (search.Provider, error) {
	switch cfg.Provider {
	case "google":
		return &search.Google{HTTPClient: hc}, nil
	case "searxng":
		return &search.SearxNG{BaseURL: cfg.SearxURL, HTTPClient: hc, UserAgent: cfg.SearxUA}, nil
	case "file":
		return &search.FileProvider{Path: cfg.SearchFile}, nil
	}
	return nil, fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, cfg.Provider)
}

// prepareCache applies the invalidation controls and returns the cache to use
// for page bodies. Failures are logged; the run continues with what is left.
func prepareCache(cfg Config) *cache.PageCache {
	if cfg.CacheClear {
		if err := cache.ClearDir(cfg.CacheDir); err != nil {
			log.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("cache clear failed")
		}
	}
	if cfg.CacheMaxAge > 0 {
		n, err := cache.PurgeByAge(cfg.CacheDir, cfg.CacheMaxAge)
		if err != nil {
			log.Warn().Err(err).Msg("cache purge failed")
		} else if n > 0 {
			log.Debug().Int("removed", n).Msg("purged stale cache entries")
		}
	}
	if cfg.CacheMaxBytes > 0 || cfg.CacheMaxEntries > 0 {
		if _, err := cache.EnforceLimits(cfg.CacheDir, cfg.CacheMaxBytes, cfg.CacheMaxEntries); err != nil {
			log.Warn().Err(err).Msg("cache limit enforcement failed")
		}
	}
	return &cache.PageCache{Dir: cfg.CacheDir, StrictPerms: cfg.CacheStrictPerms}
}

// boundedProvider gives the search call its own deadline so a stalled API
// cannot hang the run. Page fetches carry their own timeout.
type boundedProvider struct {
	search.Provider
	timeout time.Duration
}

func (b *boundedProvider) Search(ctx context.Context, req search.Request) ([]search.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	return b.Provider.Search(ctx, req)
}
