// Package fetch retrieves article pages and extracts their readable text.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"pivotcast/internal/logger"
)

const (
	fetchTimeout = 15 * time.Second
	browserUA    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// Below this many characters the readability pass is considered to have
	// failed and the selector-based fallback runs.
	minReadableChars = 100
)

// Fetcher downloads pages and extracts their main text content.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a fetcher with the standard article-fetch timeout.
func NewFetcher() *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: fetchTimeout},
	}
}

// FetchContent downloads the page at rawURL and returns its extracted text.
// Readability extraction runs first; when it yields too little text, the
// selector fallback takes over.
func (f *Fetcher) FetchContent(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create fetch request: %w", err)
	}
	req.Header.Set("User-Agent", browserUA)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch returned status %d for %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	return ExtractText(body, rawURL)
}

// ExtractText pulls the readable text out of an HTML document.
func ExtractText(html []byte, rawURL string) (string, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		parsedURL = &url.URL{}
	}

	if article, err := readability.FromReader(strings.NewReader(string(html)), parsedURL); err == nil {
		text := strings.TrimSpace(article.TextContent)
		if len(text) >= minReadableChars {
			return text, nil
		}
		logger.Debug("Readability extraction too short, trying fallback", "url", rawURL, "chars", len(text))
	}

	return extractWithSelectors(html, rawURL)
}

// extractWithSelectors is the fallback extractor: it strips non-content
// elements, prefers article-like containers, and prepends any page metadata
// it can find.
func extractWithSelectors(html []byte, rawURL string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(html)))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML from %s: %w", rawURL, err)
	}

	doc.Find("script, style, nav, header, footer, aside, form, iframe").Remove()

	var body string
	for _, selector := range []string{"article", "main", "[role=main]", ".article-body", ".post-content", ".entry-content"} {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			body = strings.TrimSpace(sel.Text())
			if len(body) >= minReadableChars {
				break
			}
		}
	}
	if len(body) < minReadableChars {
		body = strings.TrimSpace(doc.Find("body").Text())
	}
	if body == "" {
		return "", fmt.Errorf("no readable content found at %s", rawURL)
	}

	var header strings.Builder
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		header.WriteString("Title: " + title + "\n")
	}
	if author, ok := doc.Find(`meta[name="author"]`).Attr("content"); ok && author != "" {
		header.WriteString("Author: " + author + "\n")
	}
	if published, ok := doc.Find(`meta[property="article:published_time"]`).Attr("content"); ok && published != "" {
		header.WriteString("Published: " + published + "\n")
	}

	text := collapseWhitespace(body)
	if header.Len() > 0 {
		return header.String() + "\n" + text, nil
	}
	return text, nil
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
