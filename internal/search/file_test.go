package search

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileProvider_ReplaysInOrder(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "results.json")
	data := `[
		{"link": "https://a.example/1", "title": "One", "snippet": "first"},
		{"link": "", "title": "skipped"},
		{"link": "https://a.example/2", "title": "", "snippet": ""},
		{"link": "https://a.example/3", "title": "Three"}
	]`
	if err := os.WriteFile(p, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	f := &FileProvider{Path: p}
	got, err := f.Search(context.Background(), Request{Query: "ignored", Num: 2})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got[0].URL != "https://a.example/1" || got[1].URL != "https://a.example/2" {
		t.Fatalf("unexpected order: %+v", got)
	}
	if got[0].Source != "file" {
		t.Fatalf("expected source file, got %q", got[0].Source)
	}
}

func TestFileProvider_Errors(t *testing.T) {
	if _, err := (&FileProvider{}).Search(context.Background(), Request{}); err == nil {
		t.Fatalf("expected error for empty path")
	}
	p := filepath.Join(t.TempDir(), "bad.json")
	_ = os.WriteFile(p, []byte("{not json"), 0o644)
	if _, err := (&FileProvider{Path: p}).Search(context.Background(), Request{}); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestClampNum(t *testing.T) {
	cases := map[int]int{0: 10, -3: 10, 1: 1, 7: 7, 10: 10, 50: 10}
	for in, want := range cases {
		if got := ClampNum(in); got != want {
			t.Fatalf("ClampNum(%d) = %d, want %d", in, got, want)
		}
	}
}
