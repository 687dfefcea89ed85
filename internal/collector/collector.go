// Package collector gathers candidate news articles from the configured
// search provider.
package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pivotcast/internal/core"
	"pivotcast/internal/logger"
	"pivotcast/internal/search"
)

// Mode selects the query strategy for a collection run.
const (
	ModeBasicKeywords = "basic_keywords"
	ModeGoogleDorks   = "google_dorks"
	ModeBoth          = "both"
)

// Options configures a collection run. Categories runs parallel to Queries;
// queries beyond its length are treated as plain keyword queries and labeled
// Query_<n>. In "both" mode the dork queries come first, then the keywords.
type Options struct {
	Mode        string
	Queries     []string
	Categories  []string
	DaysBack    int
	PerCategory int // cap per categorized query, 0 means unlimited
	Search      search.Config
}

// Collector runs the configured queries and normalizes the hits into
// articles.
type Collector struct {
	provider search.Provider
	now      func() time.Time
}

// New creates a collector backed by the given search provider.
func New(provider search.Provider) *Collector {
	return &Collector{provider: provider, now: time.Now}
}

// dateFilter restricts results to the trailing daysBack window. The upper
// bound is tomorrow so that today's news is always included.
func (c *Collector) dateFilter(daysBack int) string {
	today := c.now().UTC()
	start := today.AddDate(0, 0, -daysBack)
	end := today.AddDate(0, 0, 1)
	return fmt.Sprintf("after:%s before:%s", start.Format("2006-01-02"), end.Format("2006-01-02"))
}

// Collect executes every configured query and returns the merged,
// deduplicated article list. A failed query is logged and skipped; the run
// continues with the remaining queries.
func (c *Collector) Collect(ctx context.Context, opts Options) []core.Article {
	filter := c.dateFilter(opts.DaysBack)

	var collected []core.Article
	for i, query := range opts.Queries {
		categorized := i < len(opts.Categories)
		category := fmt.Sprintf("Query_%d", i+1)
		queryMode := ModeBasicKeywords
		if categorized {
			category = opts.Categories[i]
			queryMode = ModeGoogleDorks
		}

		fullQuery := query + " " + filter
		logger.Info("Searching news", "category", category, "provider", c.provider.GetName())

		results, err := c.provider.Search(ctx, fullQuery, opts.Search)
		if err != nil {
			logger.Warn("Search query failed", "category", category, "error", err.Error())
			continue
		}

		articles := c.normalize(results, query, category, queryMode)
		if categorized && opts.PerCategory > 0 && len(articles) > opts.PerCategory {
			articles = articles[:opts.PerCategory]
		}
		logger.Info("Query results", "category", category, "count", len(articles))
		collected = append(collected, articles...)
	}

	deduped := dedupe(collected)
	logger.Info("Collection complete",
		"mode", opts.Mode,
		"queries", len(opts.Queries),
		"raw", len(collected),
		"unique", len(deduped))
	return deduped
}

// normalize converts raw search hits into articles, dropping any hit that
// lacks a title or snippet.
func (c *Collector) normalize(results []search.Result, query, category, mode string) []core.Article {
	articles := make([]core.Article, 0, len(results))
	for _, r := range results {
		if r.Title == "" || r.Snippet == "" {
			continue
		}
		articles = append(articles, core.Article{
			ID:         uuid.NewString(),
			Title:      r.Title,
			Snippet:    r.Snippet,
			URL:        r.URL,
			Source:     r.Source,
			Date:       r.Date,
			Query:      query,
			Category:   category,
			SearchMode: mode,
		})
	}
	return articles
}

// dedupe removes duplicate URLs, keeping the first occurrence so that
// earlier categories retain their articles.
func dedupe(articles []core.Article) []core.Article {
	seen := make(map[string]bool, len(articles))
	unique := make([]core.Article, 0, len(articles))
	for _, a := range articles {
		if a.URL != "" && seen[a.URL] {
			continue
		}
		if a.URL != "" {
			seen[a.URL] = true
		}
		unique = append(unique, a)
	}
	return unique
}
