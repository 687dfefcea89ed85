// Package analyze selects the most newsworthy articles per category by
// asking the generative backend and recovering its picks by URL.
package analyze

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"pivotcast/internal/budget"
	"pivotcast/internal/core"
	"pivotcast/internal/llm"
	"pivotcast/internal/logger"
	"pivotcast/internal/prompts"
)

const (
	selectionTemperature = 0.3

	// Reserved on top of the system prompt when sizing the article listing.
	safetyBufferTokens = 100
)

// Result carries the stage outputs: the model's raw analysis text (persisted
// as an artifact) and the recovered selection.
type Result struct {
	Analysis string
	Selected []core.Article
}

// Analyzer runs the category selection stage.
type Analyzer struct {
	completer      llm.Completer
	counter        *budget.Counter
	loader         *prompts.Loader
	extractors     []URLExtractor
	maxPerCategory int
}

// New creates an analyzer. Extractors are tried in order until one matches.
func New(completer llm.Completer, counter *budget.Counter, loader *prompts.Loader, maxPerCategory int) *Analyzer {
	return &Analyzer{
		completer:      completer,
		counter:        counter,
		loader:         loader,
		extractors:     []URLExtractor{BulletExtractor(), LegacyExtractor()},
		maxPerCategory: maxPerCategory,
	}
}

// bucket keeps a category's articles in collection order.
type bucket struct {
	category string
	articles []*core.Article
}

// groupByCategory builds category buckets in canonical order; categories not
// on the canonical list keep insertion order after the known ones.
func groupByCategory(articles []core.Article) []bucket {
	index := make(map[string]int)
	var buckets []bucket
	for i := range articles {
		a := &articles[i]
		pos, ok := index[a.Category]
		if !ok {
			pos = len(buckets)
			index[a.Category] = pos
			buckets = append(buckets, bucket{category: a.Category})
		}
		buckets[pos].articles = append(buckets[pos].articles, a)
	}
	sort.SliceStable(buckets, func(i, j int) bool {
		return core.CategoryRank(buckets[i].category) < core.CategoryRank(buckets[j].category)
	})
	return buckets
}

// formatListing renders the grouped articles for the user prompt. A positive
// perArticleTokens trims each summary and marks the cut.
func formatListing(buckets []bucket, perArticleTokens int) string {
	var b strings.Builder
	for _, bk := range buckets {
		fmt.Fprintf(&b, "## %s\n\n", bk.category)
		for _, a := range bk.articles {
			summary := a.BestSummary()
			if perArticleTokens > 0 {
				trimmed := budget.TrimToTokens(summary, perArticleTokens)
				if len(trimmed) < len(summary) {
					summary = trimmed + "... [trimmed]"
				}
			}
			fmt.Fprintf(&b, "- Title: %s\n  Source: %s\n  Date: %s\n  URL: %s\n  Summary: %s\n\n",
				a.Title, a.Source, a.Date, a.URL, summary)
		}
	}
	return b.String()
}

// emergencyListing names only the first article of each category, used when
// even trimmed summaries cannot fit the message budget.
func emergencyListing(buckets []bucket) string {
	var b strings.Builder
	for _, bk := range buckets {
		if len(bk.articles) == 0 {
			continue
		}
		a := bk.articles[0]
		fmt.Fprintf(&b, "%s: %s (URL: %s)\n", bk.category, a.Title, a.URL)
	}
	return b.String()
}

// Select asks the backend to pick the strongest stories and recovers them by
// exact URL match. A failed generative call yields an empty selection with
// the error text as the analysis artifact; the caller decides how to degrade.
func (an *Analyzer) Select(ctx context.Context, articles []core.Article) Result {
	if len(articles) == 0 {
		return Result{Analysis: "No articles available for analysis."}
	}

	buckets := groupByCategory(articles)

	systemPrompt, err := an.loader.Render(prompts.ArticleAnalysisSystem, map[string]string{
		"categories":       strings.Join(core.CategoryOrder, "\n"),
		"max_per_category": strconv.Itoa(an.maxPerCategory),
	})
	if err != nil {
		return Result{Analysis: fmt.Sprintf("Analysis unavailable: %v", err)}
	}

	listing := formatListing(buckets, 0)
	sampleUser, err := an.loader.Render(prompts.ArticleAnalysisUser, map[string]string{"articles": listing})
	if err != nil {
		return Result{Analysis: fmt.Sprintf("Analysis unavailable: %v", err)}
	}

	maxMessage, completion := an.counter.DynamicLimits(systemPrompt, sampleUser)
	available := maxMessage - an.counter.Count(systemPrompt) - safetyBufferTokens

	if an.counter.Count(listing) > available {
		perArticle := available / len(articles)
		logger.Info("Article listing over budget, trimming",
			"available_tokens", available,
			"tokens_per_article", perArticle)
		listing = formatListing(buckets, perArticle)

		if an.counter.Count(listing) > maxMessage {
			logger.Warn("Trimmed listing still over budget, using emergency summary")
			listing = emergencyListing(buckets)
		}
	}

	userPrompt, err := an.loader.Render(prompts.ArticleAnalysisUser, map[string]string{"articles": listing})
	if err != nil {
		return Result{Analysis: fmt.Sprintf("Analysis unavailable: %v", err)}
	}

	messages := []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	}
	analysis, err := an.completer.Complete(ctx, messages, completion, selectionTemperature)
	if err != nil {
		logger.Error("Category selection call failed", err)
		return Result{Analysis: fmt.Sprintf("Analysis failed: %v", err)}
	}

	selected := an.recoverSelection(analysis, buckets)
	logger.Info("Category selection complete", "candidates", len(articles), "selected", len(selected))
	return Result{Analysis: analysis, Selected: selected}
}

// recoverSelection maps URLs found in the response back to article records,
// flags them, and orders them by canonical category.
func (an *Analyzer) recoverSelection(analysis string, buckets []bucket) []core.Article {
	var urls []string
	for _, ex := range an.extractors {
		urls = ex.ExtractURLs(analysis)
		if len(urls) > 0 {
			break
		}
	}
	if len(urls) == 0 {
		logger.Warn("No article URLs found in analysis response")
		return nil
	}

	byURL := make(map[string]*core.Article)
	for _, bk := range buckets {
		for _, a := range bk.articles {
			byURL[a.URL] = a
		}
	}

	seen := make(map[string]bool)
	var selected []core.Article
	for _, u := range urls {
		u = strings.TrimRight(u, ").,")
		article, ok := byURL[u]
		if !ok || seen[u] {
			continue
		}
		seen[u] = true
		article.SelectedForPodcast = true
		selected = append(selected, *article)
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return core.CategoryRank(selected[i].Category) < core.CategoryRank(selected[j].Category)
	})
	return selected
}
