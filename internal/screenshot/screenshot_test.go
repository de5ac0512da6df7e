package screenshot

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func notInstalled(string) (string, error) { return "", errors.New("not found") }

func installed(names ...string) func(string) (string, error) {
	return func(file string) (string, error) {
		for _, n := range names {
			if n == file {
				return "/usr/bin/" + n, nil
			}
		}
		return "", errors.New("not found")
	}
}

func decodePNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return img
}

func newSiteServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>hi</html>"))
	})
	mux.HandleFunc("/doc.pdf", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 test document"))
	})
	mux.HandleFunc("/missing", http.NotFound)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFilename(t *testing.T) {
	cases := map[string]string{
		"https://example.com/a/b?c=d":  "example.com_a_b_c_d",
		"http://x.org/file name.sql":   "x.org_file_name.sql",
		"ftp://host/path":              "ftp___host_path",
		"":                             "page",
		"https://" + strings.Repeat("a", 80): strings.Repeat("a", 50),
	}
	for in, want := range cases {
		if got := Filename(in); got != want {
			t.Fatalf("Filename(%q)=%q want %q", in, got, want)
		}
	}
}

func TestCaptureAll_RenderFallback(t *testing.T) {
	srv := newSiteServer(t)
	dir := filepath.Join(t.TempDir(), "shots")
	c := &Capturer{Dir: dir, LookPath: notInstalled, HTTPClient: srv.Client()}

	shots, err := c.CaptureAll(context.Background(), []string{srv.URL + "/page", srv.URL + "/missing", srv.URL + "/doc.pdf"})
	if err != nil {
		t.Fatalf("CaptureAll: %v", err)
	}
	if len(shots) != 3 {
		t.Fatalf("expected 3 shots, got %d", len(shots))
	}
	for _, s := range shots {
		if s.Err != nil || s.Method != MethodRender {
			t.Fatalf("unexpected shot %+v", s)
		}
		img := decodePNG(t, s.Path)
		if b := img.Bounds(); b.Dx() != viewportWidth || b.Dy() != viewportHeight {
			t.Fatalf("unexpected size %v", b)
		}
		if s.Bytes == 0 {
			t.Fatalf("size not recorded for %s", s.Path)
		}
	}
	if shots[1].Detail != "HTTP 404" {
		t.Fatalf("detail=%q", shots[1].Detail)
	}
	if !strings.Contains(shots[2].Detail, "pdf") {
		t.Fatalf("pdf detail=%q", shots[2].Detail)
	}
}

func TestCaptureAll_DuplicateURLsGetDistinctFiles(t *testing.T) {
	srv := newSiteServer(t)
	c := &Capturer{Dir: t.TempDir(), LookPath: notInstalled, HTTPClient: srv.Client()}
	shots, err := c.CaptureAll(context.Background(), []string{srv.URL + "/page", srv.URL + "/page"})
	if err != nil {
		t.Fatalf("CaptureAll: %v", err)
	}
	if shots[0].Path == shots[1].Path || !strings.HasSuffix(shots[1].Path, "-2.png") {
		t.Fatalf("paths %q %q", shots[0].Path, shots[1].Path)
	}
}

func TestCaptureAll_UsesFirstWorkingTool(t *testing.T) {
	var calls []string
	c := &Capturer{
		Dir:      t.TempDir(),
		LookPath: installed("wkhtmltoimage", "google-chrome"),
		Run: func(_ context.Context, name string, args ...string) error {
			calls = append(calls, name)
			if name == "wkhtmltoimage" {
				return errors.New("exit status 1")
			}
			for _, a := range args {
				if out, ok := strings.CutPrefix(a, "--screenshot="); ok {
					return writePNG(out, image.NewRGBA(image.Rect(0, 0, 10, 10)))
				}
			}
			return errors.New("no --screenshot arg")
		},
	}
	shots, err := c.CaptureAll(context.Background(), []string{"https://example.com/x"})
	if err != nil {
		t.Fatalf("CaptureAll: %v", err)
	}
	if shots[0].Method != "google-chrome" || shots[0].Err != nil {
		t.Fatalf("unexpected shot %+v", shots[0])
	}
	if strings.Join(calls, ",") != "wkhtmltoimage,google-chrome" {
		t.Fatalf("calls=%v", calls)
	}
}

func TestCaptureAll_PDFModeRasterizes(t *testing.T) {
	srv := newSiteServer(t)
	dir := t.TempDir()
	var downloaded string
	c := &Capturer{
		Dir:        dir,
		PDFMode:    true,
		HTTPClient: srv.Client(),
		LookPath:   installed("pdftoppm"),
		Run: func(_ context.Context, name string, args ...string) error {
			pdf, stem := args[len(args)-2], args[len(args)-1]
			b, err := os.ReadFile(pdf)
			if err != nil {
				return err
			}
			downloaded = string(b)
			return writePNG(stem+".png", image.NewRGBA(image.Rect(0, 0, 20, 20)))
		},
	}
	shots, err := c.CaptureAll(context.Background(), []string{srv.URL + "/doc.pdf"})
	if err != nil {
		t.Fatalf("CaptureAll: %v", err)
	}
	if shots[0].Method != "pdftoppm" || shots[0].Err != nil {
		t.Fatalf("unexpected shot %+v", shots[0])
	}
	if downloaded != "%PDF-1.4 test document" {
		t.Fatalf("tool saw %q", downloaded)
	}
	matches, _ := filepath.Glob(filepath.Join(dir, ".godork-*.pdf"))
	if len(matches) != 0 {
		t.Fatalf("temp pdf left behind: %v", matches)
	}
}

func TestCaptureAll_PDFModeDownloadFailure(t *testing.T) {
	srv := newSiteServer(t)
	c := &Capturer{Dir: t.TempDir(), PDFMode: true, HTTPClient: srv.Client(), LookPath: notInstalled}
	shots, err := c.CaptureAll(context.Background(), []string{srv.URL + "/missing"})
	if err != nil {
		t.Fatalf("CaptureAll: %v", err)
	}
	if shots[0].Method != MethodRender || shots[0].Detail != "HTTP 404" {
		t.Fatalf("unexpected shot %+v", shots[0])
	}
	decodePNG(t, shots[0].Path)
}

func TestCaptureAll_TimeoutBoundsTool(t *testing.T) {
	c := &Capturer{
		Dir:      t.TempDir(),
		Timeout:  50 * time.Millisecond,
		LookPath: installed("chromium"),
		Run: func(ctx context.Context, name string, args ...string) error {
			<-ctx.Done()
			return ctx.Err()
		},
	}
	start := time.Now()
	shots, err := c.CaptureAll(context.Background(), []string{"http://127.0.0.1:1/"})
	if err != nil {
		t.Fatalf("CaptureAll: %v", err)
	}
	if time.Since(start) > 3*time.Second {
		t.Fatalf("timeout not applied")
	}
	if shots[0].Method != MethodRender || shots[0].Err != nil {
		t.Fatalf("expected placeholder after timeout, got %+v", shots[0])
	}
}

func TestCaptureAll_DirError(t *testing.T) {
	file := filepath.Join(t.TempDir(), "f")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	c := &Capturer{Dir: filepath.Join(file, "sub"), LookPath: notInstalled}
	if _, err := c.CaptureAll(context.Background(), []string{"http://x"}); err == nil {
		t.Fatalf("expected dir error")
	}
	if _, err := (&Capturer{}).CaptureAll(context.Background(), nil); err == nil {
		t.Fatalf("expected error for empty dir")
	}
}

func TestLimitSize_Downscales(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	img := image.NewRGBA(image.Rect(0, 0, 800, 600))
	for y := 0; y < 600; y++ {
		for x := 0; x < 800; x++ {
			img.Set(x, y, color.RGBA{uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256)), 255})
		}
	}
	path := filepath.Join(t.TempDir(), "noise.png")
	if err := writePNG(path, img); err != nil {
		t.Fatalf("write: %v", err)
	}
	const limit = 64 << 10
	size, err := limitSize(path, limit)
	if err != nil {
		t.Fatalf("limitSize: %v", err)
	}
	if size > limit {
		t.Fatalf("size %d over limit", size)
	}
	if b := decodePNG(t, path).Bounds(); b.Dx() >= 800 {
		t.Fatalf("image not downscaled: %v", b)
	}
}

func TestLimitSize_SmallFileUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "small.png")
	if err := writePNG(path, image.NewRGBA(image.Rect(0, 0, 30, 30))); err != nil {
		t.Fatalf("write: %v", err)
	}
	before, _ := os.Stat(path)
	size, err := limitSize(path, DefaultMaxBytes)
	if err != nil || size != before.Size() {
		t.Fatalf("size=%d err=%v", size, err)
	}
}
