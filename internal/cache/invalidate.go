package cache

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ClearDir removes dir with everything in it and recreates it empty.
func ClearDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return errors.New("empty dir")
	}
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

// PurgeByAge removes pages saved more than maxAge ago, judged by the SavedAt
// field of each meta file. It returns the number of pages removed.
func PurgeByAge(dir string, maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		return 0, nil
	}
	now := time.Now().UTC()
	removed := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), metaSuffix) {
			return nil
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		var m PageMeta
		if err := json.Unmarshal(b, &m); err != nil {
			return nil
		}
		if now.Sub(m.SavedAt) <= maxAge {
			return nil
		}
		removed++
		_ = os.Remove(path)
		_ = os.Remove(strings.TrimSuffix(path, metaSuffix) + bodySuffix)
		return nil
	})
	return removed, err
}

type pageFile struct {
	stem  string
	size  int64
	mtime time.Time
}

// EnforceLimits evicts least recently used pages until the cache holds at most
// maxEntries pages and maxBytes body bytes. A zero limit is not enforced.
func EnforceLimits(dir string, maxBytes int64, maxEntries int) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}
	var pages []pageFile
	var total int64
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), bodySuffix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		pages = append(pages, pageFile{
			stem:  filepath.Join(dir, strings.TrimSuffix(e.Name(), bodySuffix)),
			size:  info.Size(),
			mtime: info.ModTime(),
		})
		total += info.Size()
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].mtime.Before(pages[j].mtime) })

	removed := 0
	for _, p := range pages {
		overCount := maxEntries > 0 && len(pages)-removed > maxEntries
		overBytes := maxBytes > 0 && total > maxBytes
		if !overCount && !overBytes {
			break
		}
		_ = os.Remove(p.stem + bodySuffix)
		_ = os.Remove(p.stem + metaSuffix)
		total -= p.size
		removed++
	}
	return removed, nil
}
