package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/godork/internal/app"
	"github.com/hyperifyio/godork/internal/dorker"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	if err := app.LoadEnvFiles(".env"); err != nil {
		log.Warn().Err(err).Msg("dotenv load failed")
	}

	cfg, showVersion, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		log.Error().Err(err).Msg("invalid arguments")
		os.Exit(1)
	}
	if showVersion {
		fmt.Println(app.VersionString())
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = run(ctx, cfg)
	reportError(err)
	os.Exit(exitCode(err))
}

// parseFlags returns a Config holding only the values set explicitly on the
// command line, so environment and config file can fill in the rest.
func parseFlags(args []string, stderr io.Writer) (app.Config, bool, error) {
	fs := flag.NewFlagSet("godork", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		cfg         app.Config
		showVersion bool
	)
	fs.StringVar(&cfg.Query, "q", "", "Search query, e.g. 'intitle:\"index of\" backup' (required)")
	fs.StringVar(&cfg.OutputPath, "o", app.DefaultOutputPath, "Output file for results")
	fs.IntVar(&cfg.MaxResults, "max", app.DefaultMaxResults, "Maximum number of results (at most 10 per search)")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "Only log warnings and errors")
	fs.StringVar(&cfg.ConfigPath, "config", app.DefaultConfigPath, "Config file with google api_key/search_engine_id entries (YAML or JSON)")
	fs.StringVar(&cfg.Provider, "provider", app.DefaultProvider, "Search backend: google, searxng or file")
	fs.StringVar(&cfg.SearxURL, "searx.url", "", "SearxNG base URL for the searxng provider")
	fs.StringVar(&cfg.SearchFile, "search.file", "", "JSON file of {link,title,snippet} items for the file provider")
	fs.DurationVar(&cfg.SearchTimeout, "search.timeout", app.DefaultSearchTimeout, "Deadline for the search API call")
	fs.StringVar(&cfg.CacheDir, "cache.dir", "", "Page cache directory; empty disables caching")
	fs.DurationVar(&cfg.CacheMaxAge, "cache.maxAge", 0, "Purge cached pages older than this (e.g. 24h); 0 disables")
	fs.BoolVar(&cfg.CacheClear, "cache.clear", false, "Clear the cache directory before the run")
	fs.BoolVar(&cfg.CacheBypass, "cache.bypass", false, "Refetch pages without revalidating cached copies (responses are still cached)")
	fs.StringVar(&cfg.ScreenshotDir, "screenshots", "", "Directory to save a screenshot of every result")
	fs.DurationVar(&cfg.ScreenshotTimeout, "screenshots.timeout", 0, "Deadline per screenshot capture (default 10s)")
	fs.BoolVar(&cfg.ScreenshotPDF, "pdf", false, "PDF mode: download each result as PDF and capture its first page (needs -screenshots)")
	fs.StringVar(&cfg.OutputPDFPath, "output.pdf", "", "Also render results to this PDF file")
	fs.BoolVar(&cfg.Highlight, "highlight", false, "Highlight query keywords in snippets with ANSI color")
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return app.Config{}, false, err
	}
	if showVersion {
		return cfg, true, nil
	}
	if fs.NArg() > 0 {
		return app.Config{}, false, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	// Unset flags go back to zero so lower layers can supply them.
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if !set["o"] {
		cfg.OutputPath = ""
	}
	if !set["max"] {
		cfg.MaxResults = 0
	}
	if !set["config"] {
		cfg.ConfigPath = ""
	}
	if !set["provider"] {
		cfg.Provider = ""
	}
	if !set["search.timeout"] {
		cfg.SearchTimeout = 0
	}

	if cfg.Query == "" {
		fs.Usage()
		return app.Config{}, false, errors.New("-q is required")
	}
	return cfg, false, nil
}

func run(ctx context.Context, cfg app.Config) error {
	cfg, err := app.LoadConfig(cfg)
	if err != nil {
		return err
	}
	if cfg.Quiet {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	return a.Run(ctx)
}

func reportError(err error) {
	switch {
	case err == nil:
	case errors.Is(err, app.ErrNoResults):
		log.Warn().Msg("no results found")
	case errors.Is(err, dorker.ErrNotConfigured):
		log.Error().Err(err).Msg("add a google api_key and search_engine_id to the config file")
	case errors.Is(err, dorker.ErrSearchFailed):
		log.Error().Err(err).Msg("search request failed")
	default:
		log.Error().Err(err).Msg("run failed")
	}
}

// exitCode maps a run outcome to the process status: 0 only when results were
// written.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}
