// Package search defines the news search provider contract and its
// implementations.
package search

import (
	"context"
	"time"
)

// Result is a single news search hit, prior to any article-level processing.
type Result struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"link"`
	Source  string `json:"source"`
	Date    string `json:"date"`
}

// Config carries the per-request search parameters.
type Config struct {
	MaxResults int
	Locale     string
	Language   string
	Timeout    time.Duration
}

// Provider executes news searches against an external search API.
type Provider interface {
	Search(ctx context.Context, query string, cfg Config) ([]Result, error)
	GetName() string
}
