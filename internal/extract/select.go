package extract

import (
	"strings"

	"github.com/hyperifyio/godork/internal/query"
)

const (
	// MaxLineChars caps a returned page line.
	MaxLineChars = 200
	// MaxSnippetChars caps a returned snippet.
	MaxSnippetChars = 150
	// MaxErrorChars caps the message of an unexpected failure.
	MaxErrorChars = 100
	// MaxLogErrorChars caps a fetch error in diagnostic logs.
	MaxLogErrorChars = 50

	minKeywordLineChars    = 6
	minMeaningfulLineChars = 11
	pdfMarker              = "%PDF"
)

// KeywordLine returns the first line that contains any keyword, ignoring
// case. Lines are scanned outer and keywords inner, so an earlier line always
// wins over a later one. Lines of five characters or fewer are skipped.
func KeywordLine(lines []string, keywords []query.Term) (string, bool) {
	lowered := make([]string, len(keywords))
	for i, k := range keywords {
		lowered[i] = strings.ToLower(string(k))
	}
	for _, line := range lines {
		if runeLen(line) < minKeywordLineChars {
			continue
		}
		l := strings.ToLower(line)
		for _, k := range lowered {
			if strings.Contains(l, k) {
				return Truncate(line, MaxLineChars), true
			}
		}
	}
	return "", false
}

// FirstMeaningfulLine returns the first line longer than ten characters that
// is not a PDF header.
func FirstMeaningfulLine(lines []string) (string, bool) {
	for _, line := range lines {
		if runeLen(line) < minMeaningfulLineChars || strings.HasPrefix(line, pdfMarker) {
			continue
		}
		return Truncate(line, MaxLineChars), true
	}
	return "", false
}

// SelectLine applies the keyword scan and then the first-meaningful-line scan
// to text.
func SelectLine(text string, keywords []query.Term) (string, bool) {
	lines := Lines(text)
	if line, ok := KeywordLine(lines, keywords); ok {
		return line, true
	}
	return FirstMeaningfulLine(lines)
}
