package extract

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// noise matches control characters and the Latin-1 block. Binary payloads
// such as PDF streams decode mostly into these, so replacing them with a space
// leaves any embedded readable text behind. This is a heuristic, not a
// content-type decoder.
var noise = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F-\xFF]+`)

// Decode converts a fetched body to UTF-8 using the charset declared in
// contentType, a BOM, or an HTML meta tag. Undeclared bodies that are not
// valid UTF-8 are read as ISO-8859-1 so every byte 0x80-0xFF stays inside the
// range noise strips; the windows-1252 guess would turn 0x80-0x9F into
// printable punctuation.
func Decode(body []byte, contentType string) (string, error) {
	enc, name, certain := charset.DetermineEncoding(body, contentType)
	if !certain && name == "windows-1252" {
		enc = charmap.ISO8859_1
	}
	out, _, err := transform.Bytes(enc.NewDecoder(), body)
	if err != nil {
		return "", fmt.Errorf("decode body: %w", err)
	}
	return string(out), nil
}

// NormalizeLine strips control and high-byte noise, collapses whitespace runs
// to single spaces and trims the result.
func NormalizeLine(line string) string {
	line = noise.ReplaceAllString(line, " ")
	return strings.Join(strings.Fields(line), " ")
}

// Lines splits raw text on its original newlines and normalizes each line on
// its own. Splitting comes first so that collapsing whitespace cannot merge
// lines together.
func Lines(text string) []string {
	raw := strings.Split(text, "\n")
	out := make([]string, len(raw))
	for i, l := range raw {
		out[i] = NormalizeLine(l)
	}
	return out
}

// Truncate returns at most n characters of s.
func Truncate(s string, n int) string {
	if n < 0 {
		n = 0
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func runeLen(s string) int { return utf8.RuneCountInString(s) }
