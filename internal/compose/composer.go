// Package compose turns the selected articles into a narrated episode
// script.
package compose

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"pivotcast/internal/budget"
	"pivotcast/internal/core"
	"pivotcast/internal/llm"
	"pivotcast/internal/logger"
	"pivotcast/internal/prompts"
)

const (
	scriptTemperature = 0.7

	// Words per minute at a natural narration pace, used for the length
	// target and the reading-time estimate.
	wordsPerMinute = 150

	// Combined article text ceiling for small-context profiles.
	preciseArticleCharLimit = 3000

	preciseScriptTokens     = 2000
	approximateScriptTokens = 8000
)

// Composer runs the script generation stage.
type Composer struct {
	completer llm.Completer
	counter   *budget.Counter
	loader    *prompts.Loader
	minutes   int
	now       func() time.Time
}

// New creates a composer targeting the given episode length in minutes.
func New(completer llm.Completer, counter *budget.Counter, loader *prompts.Loader, minutes int) *Composer {
	return &Composer{
		completer: completer,
		counter:   counter,
		loader:    loader,
		minutes:   minutes,
		now:       time.Now,
	}
}

// formatArticles renders the selected articles as a flat numbered list.
func formatArticles(articles []core.Article) string {
	var b strings.Builder
	for i, a := range articles {
		fmt.Fprintf(&b, "%d. %s\n   Source: %s (%s)\n   Summary: %s\n   URL: %s\n\n",
			i+1, a.Title, a.Source, a.Date, a.BestSummary(), a.URL)
	}
	return b.String()
}

// truncateAtSentence cuts text to at most limit characters, preferring the
// last sentence boundary in the final fifth of the allowance.
func truncateAtSentence(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	cut := text[:limit]
	if last := strings.LastIndex(cut, "."); last > limit*4/5 {
		cut = cut[:last+1]
	}
	return cut
}

// Compose generates the episode script. Zero input articles or a failed
// generative call produce the static fallback script instead of an error.
func (c *Composer) Compose(ctx context.Context, articles []core.Article) string {
	today := c.now().Format("Monday, January 2, 2006")

	if len(articles) == 0 {
		logger.Warn("No articles to compose, using fallback script")
		return c.fallbackScript(today)
	}

	articlesText := formatArticles(articles)
	if c.counter.Profile().PreciseCounting {
		articlesText = truncateAtSentence(articlesText, preciseArticleCharLimit)
	}

	systemPrompt, err := c.loader.Render(prompts.PodcastScriptSystem, map[string]string{
		"length_minutes": strconv.Itoa(c.minutes),
		"target_words":   strconv.Itoa(c.minutes * wordsPerMinute),
	})
	if err != nil {
		logger.Error("Failed to render script prompt", err)
		return c.fallbackScript(today)
	}
	userPrompt, err := c.loader.Render(prompts.PodcastScriptUser, map[string]string{
		"date":     today,
		"articles": articlesText,
	})
	if err != nil {
		logger.Error("Failed to render script prompt", err)
		return c.fallbackScript(today)
	}

	maxTokens := approximateScriptTokens
	if c.counter.Profile().PreciseCounting {
		maxTokens = preciseScriptTokens
	}

	messages := []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	}
	script, err := c.completer.Complete(ctx, messages, maxTokens, scriptTemperature)
	if err != nil {
		logger.Error("Script generation failed", err)
		return c.fallbackScript(today)
	}

	logger.Info("Script composed",
		"articles", len(articles),
		"words", WordCount(script),
		"estimated_minutes", fmt.Sprintf("%.1f", ReadingTimeMinutes(script)))
	return script
}

// fallbackScript renders the static placeholder episode.
func (c *Composer) fallbackScript(date string) string {
	script, err := c.loader.Render(prompts.FallbackScriptContent, map[string]string{"date": date})
	if err != nil {
		// The embedded template always renders; this covers a broken override.
		return "Welcome to PivotPoint. Today's briefing could not be prepared. We will be back with the next run."
	}
	return script
}

// WordCount reports the number of whitespace-separated words in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// ReadingTimeMinutes estimates how long the script takes to narrate.
func ReadingTimeMinutes(text string) float64 {
	return float64(WordCount(text)) / wordsPerMinute
}
