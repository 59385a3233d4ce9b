package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/138.0.0.0 Safari/537.36"

// DefaultFetchTimeout bounds a single listing request. The fetch is the
// only timing boundary in the pipeline; there is no retry on failure.
const DefaultFetchTimeout = 30 * time.Second

// Yes24Client fetches English-language listing pages (HTML) from the
// Yes24 ticket site.
type Yes24Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewYes24Client creates a listing client with the given request timeout
func NewYes24Client(timeout time.Duration) *Yes24Client {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &Yes24Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    "https://ticket.yes24.com",
	}
}

// FetchListing fetches the event listing page for a genre key ("all",
// "concert", ...) and returns the raw HTML body. Any transport problem
// or non-200 status is a fatal fetch error; partial output is never
// produced from a failed fetch.
func (c *Yes24Client) FetchListing(ctx context.Context, genre string) (string, error) {
	code, ok := Yes24Genres[genre]
	if !ok {
		return "", fmt.Errorf("unknown genre %q (valid: %v)", genre, Yes24GenreKeys())
	}

	listingURL := c.baseURL + "/Pages/English/Perf/FnPerfList.aspx"
	if code != "" {
		listingURL += "?" + url.Values{"Genre": {code}}.Encode()
	}

	return fetchBody(ctx, c.httpClient, listingURL, navigationHeaders())
}

// MelonClient fetches product-list payloads (JSON) from the Melon
// ticket API.
type MelonClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewMelonClient creates a product-list client with the given request timeout
func NewMelonClient(timeout time.Duration) *MelonClient {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &MelonClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    "https://ticket.melon.com",
	}
}

// FetchProductList fetches the product-list JSON payload for one
// category and returns the raw body.
func (c *MelonClient) FetchProductList(ctx context.Context, category MelonCategory) (string, error) {
	params := url.Values{
		"commCode":      {""},
		"sortType":      {"HIT"},
		"perfGenreCode": {category.PerfGenreCode},
		"perfThemeCode": {category.PerfThemeCode},
		"filterCode":    {"FILTER_ALL"},
		"v":             {"1"},
	}
	listURL := c.baseURL + "/performance/ajax/prodList.json?" + params.Encode()

	headers := xhrHeaders()
	headers.Set("Origin", c.baseURL)
	headers.Set("Referer", c.baseURL+"/concert/index.htm?genreType=GENRE_CON")

	return fetchBody(ctx, c.httpClient, listURL, headers)
}

// fetchBody issues one GET with browser-like headers and returns the
// response body as a string. No retries: a run either gets its document
// on the first attempt or fails.
func fetchBody(ctx context.Context, client *http.Client, rawURL string, headers http.Header) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header = headers
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("source returned status %d for %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	return string(body), nil
}

// navigationHeaders mimics a top-level browser navigation
func navigationHeaders() http.Header {
	h := http.Header{}
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8")
	h.Set("Accept-Language", "en-US,en;q=0.9")
	h.Set("Upgrade-Insecure-Requests", "1")
	h.Set("Connection", "keep-alive")
	return h
}

// xhrHeaders mimics the site's own same-origin AJAX calls
func xhrHeaders() http.Header {
	h := http.Header{}
	h.Set("Accept", "*/*")
	h.Set("Accept-Language", "en-US,en;q=0.9")
	h.Set("X-Requested-With", "XMLHttpRequest")
	return h
}
