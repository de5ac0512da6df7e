package extract

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/godork/internal/query"
)

const (
	// NoContentMessage is returned when a page was fetched but had no usable
	// line and there is no snippet.
	NoContentMessage = "No content extracted"
	// FetchFailedMessage is returned when the page could not be fetched and
	// there is no snippet.
	FetchFailedMessage = "Failed to extract content"
)

// Getter fetches a URL and returns its body and content type.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, string, error)
}

// Extractor picks a representative line of text for a search hit.
type Extractor struct {
	Fetcher Getter
}

// RepresentativeLine fetches url and returns the line that best shows why the
// page matched. It degrades through a keyword match, the first meaningful
// line, and finally the snippet. The result is never empty and failures never
// escape; a failed fetch is logged at debug level.
func (e *Extractor) RepresentativeLine(ctx context.Context, url, snippet string, keywords []query.Term) (line string) {
	defer func() {
		if r := recover(); r != nil {
			line = errorLine(fmt.Sprint(r))
		}
	}()

	if e == nil || e.Fetcher == nil {
		return errorLine("fetcher not configured")
	}
	body, contentType, err := e.Fetcher.Get(ctx, url)
	if err != nil {
		log.Debug().Str("url", url).Str("err", Truncate(err.Error(), MaxLogErrorChars)).Msg("could not fetch content")
		return snippetOr(snippet, FetchFailedMessage)
	}
	text, err := Decode(body, contentType)
	if err != nil {
		return errorLine(err.Error())
	}
	if l, ok := SelectLine(text, keywords); ok {
		return l
	}
	return snippetOr(snippet, NoContentMessage)
}

func snippetOr(snippet, fallback string) string {
	if snippet == "" {
		return fallback
	}
	return Truncate(snippet, MaxSnippetChars)
}

func errorLine(msg string) string {
	return "Error: " + Truncate(msg, MaxErrorChars)
}
