// Package source talks to the lobby register API: the cursor-paginated
// search listing and the per-entry detail documents. The client performs a
// single request per call and classifies failures; retry policy belongs to
// the pipeline.
package source

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"lobbyreg/internal/document"
	strutil "lobbyreg/pkg/platform/strings"
)

// Client fetches register documents over HTTP.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     *log.Logger
}

// New returns a client for the API at baseURL. The key is sent as an ApiKey
// authorization header on every request.
func New(baseURL, apiKey string, timeout time.Duration, logger *log.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		log:     logger,
	}
}

// Listing is one page of the register search endpoint.
type Listing struct {
	Cursor     string
	Numbers    []string
	Provenance Provenance
}

// Provenance is the dataset metadata the listing endpoint repeats on every
// page. It is stored on each register entry row.
type Provenance struct {
	Source     string
	SourceURL  string
	SourceDate string
	JSONDocURL string
}

// ListEntries walks the search cursor to the end and returns every register
// number exactly once, with the listing provenance. A repeated cursor ends
// the walk; the API echoes the final cursor forever.
func (c *Client) ListEntries(ctx context.Context) ([]string, Provenance, error) {
	var (
		numbers []string
		prov    Provenance
		cursor  string
		visited = map[string]bool{}
	)
	for {
		page, err := c.listPage(ctx, cursor)
		if err != nil {
			return nil, Provenance{}, err
		}
		if prov == (Provenance{}) {
			prov = page.Provenance
		}
		numbers = append(numbers, page.Numbers...)
		next := page.Cursor
		if next == "" || next == cursor || visited[next] {
			break
		}
		visited[next] = true
		cursor = next
	}
	numbers = strutil.DedupeAndTrim(numbers)
	c.log.Printf("listed %d register entries", len(numbers))
	return numbers, prov, nil
}

func (c *Client) listPage(ctx context.Context, cursor string) (*Listing, error) {
	params := url.Values{"format": {"json"}}
	if cursor != "" {
		params.Set("cursor", cursor)
	}
	doc, err := c.getJSON(ctx, "registerentries?"+params.Encode())
	if err != nil {
		return nil, err
	}

	page := &Listing{
		Provenance: Provenance{
			Source:     str(doc["source"]),
			SourceURL:  str(doc["sourceUrl"]),
			SourceDate: str(doc["sourceDate"]),
			JSONDocURL: str(doc["jsonDocumentationUrl"]),
		},
	}
	page.Cursor = str(doc["cursor"])

	entries := document.Objs(doc, "results")
	if entries == nil {
		entries = document.Objs(doc, "registerEntries")
	}
	for _, entry := range entries {
		if n := str(entry["registerNumber"]); n != "" {
			page.Numbers = append(page.Numbers, n)
		}
	}
	if page.Numbers == nil && page.Cursor == "" {
		return nil, fmt.Errorf("listing page without entries or cursor")
	}
	return page, nil
}

// FetchEntry retrieves the current detail document for one register number.
func (c *Client) FetchEntry(ctx context.Context, registerNumber string) (document.Raw, error) {
	doc, err := c.getJSON(ctx, "registerentries/"+url.PathEscape(registerNumber))
	if err != nil {
		return nil, fmt.Errorf("fetch entry %s: %w", registerNumber, err)
	}
	return doc, nil
}

func (c *Client) getJSON(ctx context.Context, path string) (document.Raw, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "ApiKey "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransientError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode >= 500,
		resp.StatusCode == http.StatusRequestTimeout,
		resp.StatusCode == http.StatusTooManyRequests:
		return nil, &TransientError{Err: fmt.Errorf("http %d from %s", resp.StatusCode, path)}
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 500))
		return nil, fmt.Errorf("http %d from %s: %s", resp.StatusCode, path, body)
	}

	doc, err := document.Decode(resp.Body)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func str(v any) string {
	s, _ := v.(string)
	return s
}
