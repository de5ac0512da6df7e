package search

import (
	"context"
	"errors"
)

// MaxPerCall is the most results a single search call may request.
const MaxPerCall = 10

var (
	ErrUnauthorized   = errors.New("search api rejected credentials")
	ErrQuotaExceeded  = errors.New("search api quota exceeded")
	ErrInvalidRequest = errors.New("invalid search request")
	ErrUnavailable    = errors.New("search api unavailable")
)

// Request is one search call.
type Request struct {
	Query string
	// APIKey and ScopeID come from the first configured credential. ScopeID
	// is the Programmable Search Engine id for Google.
	APIKey  string
	ScopeID string
	// Num is the number of results wanted, clamped to 1..MaxPerCall.
	Num int
}

// Result represents a single search hit from any provider.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"link"`
	Snippet string `json:"snippet"`
	Source  string `json:"-"` // provider name for observability
}

// Provider performs one page of search per call.
type Provider interface {
	Search(ctx context.Context, req Request) ([]Result, error)
	Name() string
}

// ClampNum bounds n to the per-call range, treating non-positive as the max.
func ClampNum(n int) int {
	if n <= 0 || n > MaxPerCall {
		return MaxPerCall
	}
	return n
}
