package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/hyperifyio/godork/internal/app"
	"github.com/hyperifyio/godork/internal/query"
	"github.com/hyperifyio/godork/internal/search"
)

// debugsearch runs one raw provider query and prints the hits without
// fetching any page. Useful for checking credentials and operator syntax.
func main() {
	provider := flag.String("provider", "google", "google, searxng or file")
	configPath := flag.String("config", app.DefaultConfigPath, "Config file with google credentials")
	searxURL := flag.String("searx.url", os.Getenv("SEARX_URL"), "SearxNG base URL")
	searchFile := flag.String("search.file", "", "JSON hits file for the file provider")
	num := flag.Int("n", 5, "Number of results")
	flag.Parse()

	q := "intitle:\"index of\" backup"
	if flag.NArg() > 0 {
		q = flag.Arg(0)
	}

	var req search.Request
	req.Query = q
	req.Num = *num
	if fc, err := app.LoadConfigFile(*configPath); err == nil {
		if cred, ok := fc.Google.Credential(0); ok {
			req.APIKey, req.ScopeID = cred.APIKey, cred.ScopeID
		}
	}

	client := &http.Client{Timeout: 20 * time.Second}
	var prov search.Provider
	switch *provider {
	case "searxng":
		prov = &search.SearxNG{BaseURL: *searxURL, HTTPClient: client, UserAgent: "debugsearch/1.0"}
	case "file":
		prov = &search.FileProvider{Path: *searchFile}
	default:
		prov = &search.Google{HTTPClient: client}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()
	fmt.Println("keywords:", query.Strings(query.ExtractKeywords(q)))
	res, err := prov.Search(ctx, req)
	fmt.Println("err:", err)
	for i, r := range res {
		fmt.Printf("%d. %s - %s\n   %s\n", i+1, r.Title, r.URL, r.Snippet)
	}
}
