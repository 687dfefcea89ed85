// Package relevance scores and filters articles by keyword matching.
package relevance

import (
	"sort"
	"strings"

	"pivotcast/internal/core"
	"pivotcast/internal/logger"
)

// Scorer ranks articles by how many configured keywords appear in their
// title and snippet.
type Scorer struct {
	keywords []string
	minScore int
	maxCount int
}

// NewScorer creates a scorer. Articles scoring below minScore are dropped;
// at most maxCount survivors are kept.
func NewScorer(keywords []string, minScore, maxCount int) *Scorer {
	lowered := make([]string, len(keywords))
	for i, kw := range keywords {
		lowered[i] = strings.ToLower(kw)
	}
	return &Scorer{keywords: lowered, minScore: minScore, maxCount: maxCount}
}

// Score counts the keywords that appear in the article's title or snippet.
// Matching is case-insensitive; each keyword counts at most once.
func (s *Scorer) Score(article core.Article) int {
	haystack := strings.ToLower(article.Title + " " + article.Snippet)
	score := 0
	for _, kw := range s.keywords {
		if strings.Contains(haystack, kw) {
			score++
		}
	}
	return score
}

// Filter scores every article, drops those below the minimum, sorts the
// survivors by descending score, and truncates to the configured maximum.
// The sort is stable so equally scored articles keep their collection order.
func (s *Scorer) Filter(articles []core.Article) []core.Article {
	kept := make([]core.Article, 0, len(articles))
	for _, a := range articles {
		a.RelevanceScore = s.Score(a)
		if a.RelevanceScore < s.minScore {
			continue
		}
		kept = append(kept, a)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].RelevanceScore > kept[j].RelevanceScore
	})

	if s.maxCount > 0 && len(kept) > s.maxCount {
		kept = kept[:s.maxCount]
	}

	logger.Info("Relevance filtering complete",
		"input", len(articles),
		"kept", len(kept),
		"min_score", s.minScore)
	return kept
}
