package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/googleapi/transport"
	"google.golang.org/api/option"
)

// Google queries the Custom Search JSON API.
type Google struct {
	// Endpoint overrides the API base URL; used by tests.
	Endpoint   string
	HTTPClient *http.Client
	UserAgent  string
}

func (g *Google) Name() string { return "google" }

func (g *Google) Search(ctx context.Context, req Request) ([]Result, error) {
	if strings.TrimSpace(req.APIKey) == "" || strings.TrimSpace(req.ScopeID) == "" {
		return nil, fmt.Errorf("%w: api key and search engine id are required", ErrInvalidRequest)
	}
	svc, err := customsearch.NewService(ctx, g.options(req.APIKey)...)
	if err != nil {
		return nil, fmt.Errorf("customsearch client: %w", err)
	}
	resp, err := svc.Cse.List().
		Q(req.Query).
		Cx(req.ScopeID).
		Num(int64(ClampNum(req.Num))).
		Context(ctx).
		Do()
	if err != nil {
		return nil, classifyGoogleError(err)
	}
	out := make([]Result, 0, len(resp.Items))
	for _, it := range resp.Items {
		if it == nil {
			continue
		}
		if strings.TrimSpace(it.Link) == "" {
			log.Debug().Str("title", it.Title).Msg("skipping result without link")
			continue
		}
		out = append(out, Result{
			Title:   it.Title,
			URL:     it.Link,
			Snippet: it.Snippet,
			Source:  g.Name(),
		})
	}
	return out, nil
}

// options always hands the library our own client so the key travels as a
// query parameter and no ambient Google credentials are consulted.
func (g *Google) options(apiKey string) []option.ClientOption {
	hc := g.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	base := hc.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	keyed := *hc
	keyed.Transport = &transport.APIKey{Key: apiKey, Transport: base}

	opts := []option.ClientOption{option.WithHTTPClient(&keyed)}
	if g.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(g.Endpoint))
	}
	if g.UserAgent != "" {
		opts = append(opts, option.WithUserAgent(g.UserAgent))
	}
	return opts
}

func classifyGoogleError(err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return fmt.Errorf("customsearch: %w", err)
	}
	for _, item := range gerr.Errors {
		switch item.Reason {
		case "rateLimitExceeded", "dailyLimitExceeded", "userRateLimitExceeded", "quotaExceeded":
			return fmt.Errorf("%w: %s", ErrQuotaExceeded, gerr.Message)
		case "keyInvalid":
			return fmt.Errorf("%w: %s", ErrUnauthorized, gerr.Message)
		}
	}
	switch {
	case gerr.Code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrQuotaExceeded, gerr.Message)
	case gerr.Code == http.StatusUnauthorized || gerr.Code == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, gerr.Message)
	case gerr.Code == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrInvalidRequest, gerr.Message)
	case gerr.Code >= 500:
		return fmt.Errorf("%w: status %d", ErrUnavailable, gerr.Code)
	}
	return fmt.Errorf("customsearch: %w", err)
}
