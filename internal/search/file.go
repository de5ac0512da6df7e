package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// FileProvider replays search results from a local JSON file, for offline
// runs and tests. The file is an array of {"link", "title", "snippet"}
// objects, the same item shape the Custom Search API returns. Items are
// returned in file order regardless of the query.
type FileProvider struct {
	Path string
}

func (f *FileProvider) Name() string { return "file" }

func (f *FileProvider) Search(_ context.Context, req Request) ([]Result, error) {
	if strings.TrimSpace(f.Path) == "" {
		return nil, errors.New("file provider path is empty")
	}
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}
	var raw []Result
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.Path, err)
	}
	limit := ClampNum(req.Num)
	out := make([]Result, 0, limit)
	for _, r := range raw {
		if strings.TrimSpace(r.URL) == "" {
			log.Debug().Str("title", r.Title).Msg("skipping result without url")
			continue
		}
		r.Source = f.Name()
		out = append(out, r)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}
