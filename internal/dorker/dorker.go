package dorker

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/godork/internal/query"
	"github.com/hyperifyio/godork/internal/search"
)

var (
	// ErrNotConfigured means no search credentials are available.
	ErrNotConfigured = errors.New("no search credentials available")
	// ErrSearchFailed wraps any failure of the search call itself.
	ErrSearchFailed = errors.New("search failed")
)

// Credential is an API key paired with the search scope it applies to.
type Credential struct {
	APIKey  string
	ScopeID string
}

// CredentialSource returns the credential at index i, if there is one.
type CredentialSource interface {
	Credential(i int) (Credential, bool)
}

// LineExtractor picks the representative line for one search hit.
type LineExtractor interface {
	RepresentativeLine(ctx context.Context, url, snippet string, keywords []query.Term) string
}

// Result is one search hit with the line chosen to represent it.
type Result struct {
	URL         string
	Title       string
	Snippet     string
	MatchedLine string
	Keywords    []query.Term
}

// Dorker runs a query against a search provider and extracts a line from
// every hit, one at a time, in the provider's order.
type Dorker struct {
	Credentials CredentialSource
	Provider    search.Provider
	Extractor   LineExtractor
}

// Run executes q and returns up to min(10, maxResults) results. A nil error
// with an empty slice means the search ran and found nothing. ErrNotConfigured
// and ErrSearchFailed abort the run without partial results; reporting them
// is left to the caller.
func (d *Dorker) Run(ctx context.Context, q string, maxResults int) ([]Result, error) {
	var cred Credential
	ok := false
	if d.Credentials != nil {
		cred, ok = d.Credentials.Credential(0)
	}
	if !ok {
		return nil, ErrNotConfigured
	}
	if d.Provider == nil || d.Extractor == nil {
		return nil, errors.New("dorker: provider and extractor are required")
	}

	keywords := query.ExtractKeywords(q)
	log.Debug().Str("query", q).Strs("keywords", query.Strings(keywords)).Str("provider", d.Provider.Name()).Msg("starting search")

	items, err := d.Provider.Search(ctx, search.Request{
		Query:   q,
		APIKey:  cred.APIKey,
		ScopeID: cred.ScopeID,
		Num:     search.ClampNum(maxResults),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}
	log.Debug().Int("count", len(items)).Msg("search returned")

	results := make([]Result, 0, len(items))
	for i, it := range items {
		line := d.Extractor.RepresentativeLine(ctx, it.URL, it.Snippet, keywords)
		log.Debug().Int("n", i+1).Str("url", it.URL).Str("line", truncateForLog(line)).Msg("matched line")
		results = append(results, Result{
			URL:         it.URL,
			Title:       it.Title,
			Snippet:     it.Snippet,
			MatchedLine: line,
			Keywords:    keywords,
		})
	}
	return results, nil
}

func truncateForLog(s string) string {
	r := []rune(s)
	if len(r) > 100 {
		return string(r[:100]) + "..."
	}
	return s
}
