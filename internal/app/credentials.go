package app

import (
	"strings"

	"github.com/hyperifyio/godork/internal/dorker"
)

// Credential is one entry of the config file's google list.
type Credential struct {
	APIKey         string `yaml:"api_key" json:"api_key"`
	SearchEngineID string `yaml:"search_engine_id" json:"search_engine_id"`
}

// Credentials is the ordered credential list. Only index 0 is used for
// searching; the rest are kept so a config file can be shared with other
// tools that rotate keys.
type Credentials []Credential

// Credential returns the entry at index i. Entries without an API key are
// reported as absent.
func (c Credentials) Credential(i int) (dorker.Credential, bool) {
	if i < 0 || i >= len(c) {
		return dorker.Credential{}, false
	}
	e := c[i]
	if strings.TrimSpace(e.APIKey) == "" {
		return dorker.Credential{}, false
	}
	return dorker.Credential{
		APIKey:  strings.TrimSpace(e.APIKey),
		ScopeID: strings.TrimSpace(e.SearchEngineID),
	}, true
}
