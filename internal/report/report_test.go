package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hyperifyio/godork/internal/dorker"
	"github.com/hyperifyio/godork/internal/query"
)

func sampleResults() []dorker.Result {
	return []dorker.Result{
		{URL: "https://a.example/backup.sql", Title: "Index of /", Snippet: "a Backup file", MatchedLine: "-- MySQL dump backup", Keywords: []query.Term{"backup"}},
		{URL: "https://b.example/", Title: "", Snippet: "", MatchedLine: "Failed to extract content", Keywords: []query.Term{"backup"}},
	}
}

func TestWriteText_Blocks(t *testing.T) {
	var buf bytes.Buffer
	meta := Meta{Query: "intitle:index.of backup", Provider: "file", GeneratedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	if err := WriteText(&buf, meta, sampleResults()); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	out := buf.String()
	want := "URL: https://a.example/backup.sql\nTitle: Index of /\nMatched Line: -- MySQL dump backup\nSnippet: a Backup file\n" + strings.Repeat("-", 80) + "\n\n"
	if !strings.HasPrefix(out, want) {
		t.Fatalf("unexpected first block:\n%q", out)
	}
	if strings.Count(out, "URL: ") != 2 {
		t.Fatalf("expected two blocks, got %q", out)
	}
	if !strings.Contains(out, "Matched Line: Failed to extract content\nSnippet: \n") {
		t.Fatalf("second block missing: %q", out)
	}
	for _, s := range []string{"Query: intitle:index.of backup", "Provider: file", "Results: 2", "Generated: 2026-01-02T03:04:05Z"} {
		if !strings.Contains(out, s) {
			t.Fatalf("footer missing %q in %q", s, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("no ANSI expected without highlight")
	}
}

func TestWriteText_Highlight(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(&buf, Meta{Highlight: true}, sampleResults()[:1]); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	if !strings.Contains(buf.String(), "Snippet: a \x1b[32mBackup\x1b[0m file") {
		t.Fatalf("expected highlighted snippet, got %q", buf.String())
	}
}

func TestHighlight(t *testing.T) {
	cases := []struct {
		name string
		text string
		kws  []query.Term
		want string
	}{
		{"empty keyword", "plain text", []query.Term{""}, "plain text"},
		{"no keywords", "plain text", nil, "plain text"},
		{"case preserved", "SQL and sql", []query.Term{"sql"}, "\x1b[32mSQL\x1b[0m and \x1b[32msql\x1b[0m"},
		{"regex meta quoted", "a.b axb", []query.Term{"a.b"}, "\x1b[32ma.b\x1b[0m axb"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Highlight(tc.text, tc.kws); got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestWriteTextFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dorks.txt")
	if err := WriteTextFile(path, Meta{Query: "q"}, nil); err != nil {
		t.Fatalf("WriteTextFile: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(b), "Results: 0") {
		t.Fatalf("unexpected content %q", string(b))
	}
}

func TestWriteTextFile_BadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dorks.txt")
	if err := WriteTextFile(path, Meta{}, nil); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}

func TestRenderPDF(t *testing.T) {
	var buf bytes.Buffer
	results := sampleResults()
	results[0].Snippet = "naïve café"
	if err := RenderPDF(&buf, Meta{Query: "backup", Provider: "file"}, results); err != nil {
		t.Fatalf("RenderPDF: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("output is not a PDF")
	}
}

func TestWritePDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dorks.pdf")
	if err := WritePDF(path, Meta{Query: "backup"}, sampleResults()); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	st, err := os.Stat(path)
	if err != nil || st.Size() == 0 {
		t.Fatalf("pdf not written: %v", err)
	}
}
