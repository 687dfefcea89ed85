// Package enhance replaces article snippets with model-written executive
// briefs backed by full-text fetches and a summary cache.
package enhance

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"

	"pivotcast/internal/budget"
	"pivotcast/internal/core"
	"pivotcast/internal/llm"
	"pivotcast/internal/logger"
	"pivotcast/internal/prompts"
)

const (
	briefTemperature = 0.3

	// Input ceiling for the fetched article text in precise mode. Distinct
	// from the per-article summary budget, which caps only the completion.
	preciseInputTokens = 5000

	// Literal text stored when the model call fails after a successful fetch.
	failurePlaceholder = "(AI summary generation failed)"
)

// Fetcher retrieves the readable text of an article page.
type Fetcher interface {
	FetchContent(ctx context.Context, url string) (string, error)
}

// Cache is the summary store consulted before any network work.
type Cache interface {
	GetSummary(url string, maxAge time.Duration) (string, bool)
	PutSummary(url, summary string)
}

// Enhancer runs the per-article brief generation stage.
type Enhancer struct {
	fetcher   Fetcher
	completer llm.Completer
	cache     Cache
	counter   *budget.Counter
	loader    *prompts.Loader
	maxAge    time.Duration
}

// New creates an enhancer wired to its collaborators.
func New(fetcher Fetcher, completer llm.Completer, cache Cache, counter *budget.Counter, loader *prompts.Loader, maxAge time.Duration) *Enhancer {
	return &Enhancer{
		fetcher:   fetcher,
		completer: completer,
		cache:     cache,
		counter:   counter,
		loader:    loader,
		maxAge:    maxAge,
	}
}

// perArticleTokens derives the summary token budget for a batch of the given
// size. Precise profiles get a fixed allowance that scales down for very
// large batches; approximate profiles divide a generous pool instead.
func (e *Enhancer) perArticleTokens(count int) int {
	if count <= 0 {
		count = 1
	}
	if e.counter.Profile().PreciseCounting {
		if count <= 60 {
			return 180
		}
		scaled := 10800 / count
		if scaled < 120 {
			scaled = 120
		}
		return scaled
	}
	tokens := 8000 / count
	if tokens > 1000 {
		tokens = 1000
	}
	return tokens
}

// Enhance processes every article in place and returns the same slice. A
// single article's failure degrades that article only; the batch always
// completes.
func (e *Enhancer) Enhance(ctx context.Context, articles []core.Article) []core.Article {
	perArticle := e.perArticleTokens(len(articles))
	logger.Info("Enhancing articles", "count", len(articles), "tokens_per_article", perArticle)

	var cached, generated, failed int
	for i := range articles {
		article := &articles[i]
		if article.ID == "" {
			article.ID = uuid.NewString()
		}
		if article.URL == "" {
			continue
		}

		if summary, ok := e.cache.GetSummary(article.URL, e.maxAge); ok {
			article.OriginalSnippet = article.Snippet
			article.Summary = summary
			article.Enhanced = true
			article.EnhancementMethod = core.EnhancedFromCache
			cached++
			continue
		}

		content, err := e.fetcher.FetchContent(ctx, article.URL)
		if err != nil || content == "" {
			if err != nil {
				logger.Warn("Article fetch failed", "url", article.URL, "error", err.Error())
			}
			article.OriginalSnippet = article.Snippet
			article.Summary = article.Snippet
			article.EnhancementMethod = core.EnhancementFetchFailed
			failed++
			continue
		}

		if e.counter.Profile().PreciseCounting {
			content = budget.TrimToTokens(content, preciseInputTokens)
		}

		summary, err := e.summarize(ctx, content, perArticle)
		article.OriginalSnippet = article.Snippet
		article.Enhanced = true
		article.EnhancementMethod = core.EnhancedByModel
		if err != nil {
			logger.Warn("Brief generation failed", "url", article.URL, "error", err.Error())
			article.Summary = failurePlaceholder
			failed++
			continue
		}
		article.Summary = summary
		e.cache.PutSummary(article.URL, summary)
		generated++
	}

	logger.Info("Enhancement complete",
		"cached", cached,
		"generated", generated,
		"degraded", failed)
	return articles
}

// summarize asks the backend for an executive brief of the article text.
func (e *Enhancer) summarize(ctx context.Context, content string, maxTokens int) (string, error) {
	systemPrompt, err := e.loader.Render(prompts.ArticleBriefSystem, map[string]string{
		"max_tokens": strconv.Itoa(maxTokens),
	})
	if err != nil {
		return "", err
	}

	messages := []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: content},
	}
	return e.completer.Complete(ctx, messages, maxTokens, briefTemperature)
}
