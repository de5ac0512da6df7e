package screenshot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultTimeout bounds one capture, external tool and fallback together.
	DefaultTimeout = 10 * time.Second
	// DefaultMaxBytes is the size above which a capture is downscaled.
	DefaultMaxBytes = 120 << 10

	// MethodRender marks a placeholder image drawn in-process because no
	// external tool produced one.
	MethodRender = "render"

	maxFilenameChars = 50
	viewportWidth    = 1024
	viewportHeight   = 768
)

// Shot is the outcome of capturing one URL.
type Shot struct {
	URL    string
	Path   string
	Method string
	// Detail describes why a placeholder was drawn, e.g. "HTTP 404".
	Detail string
	Bytes  int64
	Err    error
}

// Capturer writes one image per URL into Dir. Browsers and PDF rasterizers
// are used when installed; otherwise a placeholder is rendered.
type Capturer struct {
	Dir string
	// Timeout bounds each capture. Zero means DefaultTimeout.
	Timeout time.Duration
	// PDFMode downloads each URL as a PDF and rasterizes its first page.
	PDFMode bool
	// MaxBytes triggers downscaling of larger images. Zero means
	// DefaultMaxBytes, negative disables it.
	MaxBytes   int64
	HTTPClient *http.Client
	UserAgent  string

	// LookPath and Run default to exec.LookPath and running the command.
	LookPath func(file string) (string, error)
	Run      func(ctx context.Context, name string, args ...string) error
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// Filename turns a URL into a file stem: scheme dropped, anything outside
// [a-zA-Z0-9._-] replaced by '_', at most 50 characters.
func Filename(rawURL string) string {
	s := strings.TrimPrefix(rawURL, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = unsafeChars.ReplaceAllString(s, "_")
	if len(s) > maxFilenameChars {
		s = s[:maxFilenameChars]
	}
	if s == "" {
		s = "page"
	}
	return s
}

// CaptureAll captures every URL in order. Only a failure to create Dir is
// returned as an error; per-URL failures are recorded in the Shot.
func (c *Capturer) CaptureAll(ctx context.Context, urls []string) ([]Shot, error) {
	if strings.TrimSpace(c.Dir) == "" {
		return nil, errors.New("screenshot dir not configured")
	}
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create screenshot dir: %w", err)
	}
	used := make(map[string]int)
	shots := make([]Shot, 0, len(urls))
	for i, u := range urls {
		stem := Filename(u)
		if n := used[stem]; n > 0 {
			used[stem] = n + 1
			stem = fmt.Sprintf("%s-%d", stem, n+1)
		} else {
			used[stem] = 1
		}
		path := filepath.Join(c.Dir, stem+".png")
		log.Debug().Int("n", i+1).Int("of", len(urls)).Str("url", u).Bool("pdf", c.PDFMode).Msg("capturing")

		shot := c.captureOne(ctx, u, path)
		if shot.Err != nil {
			log.Warn().Err(shot.Err).Str("url", u).Msg("screenshot failed")
		} else {
			log.Info().Str("path", shot.Path).Str("method", shot.Method).Float64("kb", float64(shot.Bytes)/1024).Msg("screenshot saved")
		}
		shots = append(shots, shot)
	}
	return shots, nil
}

func (c *Capturer) captureOne(ctx context.Context, rawURL, path string) Shot {
	ctx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	shot := Shot{URL: rawURL, Path: path}
	if c.PDFMode {
		shot.Method, shot.Detail, shot.Err = c.capturePDF(ctx, rawURL, path)
	} else {
		shot.Method, shot.Detail, shot.Err = c.capturePage(ctx, rawURL, path)
	}
	if shot.Err != nil {
		return shot
	}
	size, err := limitSize(path, c.maxBytes())
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("could not shrink screenshot")
	}
	shot.Bytes = size
	return shot
}

type tool struct {
	name string
	args func(url, out string) []string
}

func browserArgs(url, out string) []string {
	return []string{"--headless", "--disable-gpu", "--no-sandbox", "--screenshot=" + out,
		fmt.Sprintf("--window-size=%d,%d", viewportWidth, viewportHeight), url}
}

var pageTools = []tool{
	{"wkhtmltoimage", func(url, out string) []string { return []string{"--quiet", url, out} }},
	{"google-chrome", browserArgs},
	{"chromium", browserArgs},
}

// capturePage tries each installed browser tool, then renders a placeholder
// describing what the URL returned.
func (c *Capturer) capturePage(ctx context.Context, rawURL, path string) (string, string, error) {
	for _, t := range pageTools {
		if _, err := c.lookPath(t.name); err != nil {
			continue
		}
		if err := c.run(ctx, t.name, t.args(rawURL, path)...); err != nil {
			log.Debug().Err(err).Str("tool", t.name).Msg("capture tool failed")
			continue
		}
		if fileExists(path) {
			return t.name, "", nil
		}
	}

	resp, err := c.get(ctx, rawURL)
	if err != nil {
		detail := "connection failed"
		return MethodRender, detail, renderFile(path, kindError, rawURL, detail)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		detail := fmt.Sprintf("HTTP %d", resp.StatusCode)
		return MethodRender, detail, renderFile(path, kindError, rawURL, detail)
	}
	ct := strings.ToLower(resp.Header.Get("Content-Type"))
	switch {
	case strings.Contains(ct, "pdf"):
		return MethodRender, ct, renderFile(path, kindPDF, rawURL, ct)
	case strings.Contains(ct, "html"):
		return MethodRender, ct, renderFile(path, kindHTML, rawURL, ct)
	}
	return MethodRender, ct, renderFile(path, kindOther, rawURL, ct)
}

// capturePDF downloads rawURL to a temporary file next to path and rasterizes
// its first page with pdftoppm, ImageMagick or pdfimages, in that order.
func (c *Capturer) capturePDF(ctx context.Context, rawURL, path string) (string, string, error) {
	resp, err := c.get(ctx, rawURL)
	if err != nil {
		detail := "download failed"
		return MethodRender, detail, renderFile(path, kindError, rawURL, detail)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		detail := fmt.Sprintf("HTTP %d", resp.StatusCode)
		return MethodRender, detail, renderFile(path, kindError, rawURL, detail)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".godork-*.pdf")
	if err != nil {
		return "", "", fmt.Errorf("create temp pdf: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)
	_, err = io.Copy(tmp, resp.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", "", fmt.Errorf("save temp pdf: %w", err)
	}

	stem := strings.TrimSuffix(path, filepath.Ext(path))
	if _, err := c.lookPath("pdftoppm"); err == nil {
		if err := c.run(ctx, "pdftoppm", "-png", "-f", "1", "-l", "1", "-singlefile", tmpPath, stem); err == nil && fileExists(path) {
			return "pdftoppm", "", nil
		}
	}
	if _, err := c.lookPath("convert"); err == nil {
		args := []string{"-density", "150", "-quality", "85", tmpPath + "[0]", "-resize",
			fmt.Sprintf("%dx%d", viewportWidth, viewportHeight), path}
		if err := c.run(ctx, "convert", args...); err == nil && fileExists(path) {
			return "convert", "", nil
		}
	}
	if _, err := c.lookPath("pdfimages"); err == nil {
		base := stem + ".pdfimage"
		if err := c.run(ctx, "pdfimages", "-png", "-f", "1", "-l", "1", tmpPath, base); err == nil {
			first := base + "-000.png"
			if fileExists(first) {
				if err := os.Rename(first, path); err == nil {
					return "pdfimages", "", nil
				}
			}
		}
	}
	ct := resp.Header.Get("Content-Type")
	return MethodRender, ct, renderFile(path, kindPDF, rawURL, ct)
}

func (c *Capturer) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	hc := c.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	return hc.Do(req)
}

func (c *Capturer) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultTimeout
}

func (c *Capturer) maxBytes() int64 {
	if c.MaxBytes == 0 {
		return DefaultMaxBytes
	}
	return c.MaxBytes
}

func (c *Capturer) lookPath(file string) (string, error) {
	if c.LookPath != nil {
		return c.LookPath(file)
	}
	return execLookPath(file)
}

func (c *Capturer) run(ctx context.Context, name string, args ...string) error {
	if c.Run != nil {
		return c.Run(ctx, name, args...)
	}
	return runCommand(ctx, name, args...)
}

func fileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.Size() > 0
}
