package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const serperNewsEndpoint = "https://google.serper.dev/news"

// SerperProvider searches Google News through the Serper API.
type SerperProvider struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

type serperRequest struct {
	Query      string `json:"q"`
	NumResults int    `json:"num"`
	Locale     string `json:"gl"`
	Language   string `json:"hl"`
}

type serperResponse struct {
	News []struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
		Link    string `json:"link"`
		Source  string `json:"source"`
		Date    string `json:"date"`
	} `json:"news"`
}

// NewSerperProvider creates a Serper-backed news search provider.
func NewSerperProvider(apiKey string) *SerperProvider {
	return &SerperProvider{
		apiKey:   apiKey,
		endpoint: serperNewsEndpoint,
		client:   &http.Client{},
	}
}

// GetName returns the provider identifier.
func (p *SerperProvider) GetName() string {
	return "serper"
}

// Search runs a news query and returns the raw hits. The request timeout
// comes from cfg; a non-200 response surfaces the body in the error.
func (p *SerperProvider) Search(ctx context.Context, query string, cfg Config) ([]Result, error) {
	reqBody := serperRequest{
		Query:      query,
		NumResults: cfg.MaxResults,
		Locale:     cfg.Locale,
		Language:   cfg.Language,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search request: %w", err)
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("X-API-KEY", p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("search API error %d: %s", resp.StatusCode, string(body))
	}

	var parsed serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	results := make([]Result, 0, len(parsed.News))
	for _, item := range parsed.News {
		results = append(results, Result{
			Title:   item.Title,
			Snippet: item.Snippet,
			URL:     item.Link,
			Source:  item.Source,
			Date:    item.Date,
		})
	}
	return results, nil
}
