package query

import "strings"

// Term is one literal keyword taken from a search expression. The empty Term
// matches every line.
type Term string

// operatorPrefixes are the search-operator tokens recognized in a dork query.
// A token that starts with one of these is a directive for the search engine,
// not text to look for in a page.
var operatorPrefixes = []string{
	"site:",
	"ext:",
	"inurl:",
	"intitle:",
	"intext:",
	"filetype:",
	"cache:",
	"link:",
}

// IsOperator reports whether token starts with a recognized operator prefix,
// ignoring case.
func IsOperator(token string) bool {
	lower := strings.ToLower(token)
	for _, op := range operatorPrefixes {
		if strings.HasPrefix(lower, op) {
			return true
		}
	}
	return false
}

// ExtractKeywords splits q on whitespace and returns the literal terms it
// contains in order. Operator tokens are dropped whole, surrounding quotes are
// stripped from the rest. When nothing literal remains the result is a single
// empty Term.
func ExtractKeywords(q string) []Term {
	var terms []Term
	for _, part := range strings.Fields(q) {
		if IsOperator(part) {
			continue
		}
		if cleaned := strings.Trim(part, `"'`); cleaned != "" {
			terms = append(terms, Term(cleaned))
		}
	}
	if len(terms) == 0 {
		return []Term{""}
	}
	return terms
}

// Strings converts terms to plain strings.
func Strings(terms []Term) []string {
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = string(t)
	}
	return out
}
