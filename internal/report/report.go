package report

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/hyperifyio/godork/internal/dorker"
	"github.com/hyperifyio/godork/internal/query"
)

const (
	separatorWidth = 80
	greenStart     = "\x1b[32m"
	colorReset     = "\x1b[0m"
)

// Meta describes the run a report was produced by.
type Meta struct {
	Query       string
	Provider    string
	GeneratedAt time.Time
	// Highlight wraps keyword occurrences in the snippet with ANSI green.
	Highlight bool
}

// WriteText writes one block per result followed by a footer.
func WriteText(w io.Writer, meta Meta, results []dorker.Result) error {
	bw := bufio.NewWriter(w)
	sep := strings.Repeat("-", separatorWidth)
	for _, r := range results {
		snippet := r.Snippet
		if meta.Highlight {
			snippet = Highlight(snippet, r.Keywords)
		}
		fmt.Fprintf(bw, "URL: %s\n", r.URL)
		fmt.Fprintf(bw, "Title: %s\n", r.Title)
		fmt.Fprintf(bw, "Matched Line: %s\n", r.MatchedLine)
		fmt.Fprintf(bw, "Snippet: %s\n", snippet)
		fmt.Fprintf(bw, "%s\n\n", sep)
	}
	bw.WriteString(footer(meta, len(results)))
	return bw.Flush()
}

// WriteTextFile creates path and writes the text report into it.
func WriteTextFile(path string, meta Meta, results []dorker.Result) error {
	return writeFile(path, func(w io.Writer) error { return WriteText(w, meta, results) })
}

// Highlight wraps every case-insensitive occurrence of a keyword in text with
// ANSI green, keeping the original casing. Empty keywords are ignored.
func Highlight(text string, keywords []query.Term) string {
	var alts []string
	for _, k := range keywords {
		if k != "" {
			alts = append(alts, regexp.QuoteMeta(string(k)))
		}
	}
	if len(alts) == 0 || text == "" {
		return text
	}
	re := regexp.MustCompile("(?i)" + strings.Join(alts, "|"))
	return re.ReplaceAllStringFunc(text, func(m string) string {
		return greenStart + m + colorReset
	})
}

// footer records what produced the report so a saved file can be traced back
// to its query.
func footer(meta Meta, n int) string {
	var b strings.Builder
	b.WriteString("Query: ")
	b.WriteString(meta.Query)
	b.WriteString("\nProvider: ")
	b.WriteString(meta.Provider)
	b.WriteString(fmt.Sprintf("\nResults: %d", n))
	if !meta.GeneratedAt.IsZero() {
		b.WriteString("\nGenerated: ")
		b.WriteString(meta.GeneratedAt.UTC().Format(time.RFC3339))
	}
	b.WriteString("\n")
	return b.String()
}
