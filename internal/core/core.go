package core

// EnhancementMethod records how an article's summary was produced.
type EnhancementMethod string

const (
	// EnhancedFromCache means the summary came from the persistent cache.
	EnhancedFromCache EnhancementMethod = "cache"
	// EnhancedByModel means the summary was generated by the chat backend.
	EnhancedByModel EnhancementMethod = "gpt_generated"
	// EnhancementFetchFailed means the page could not be fetched or parsed
	// and the original snippet was kept.
	EnhancementFetchFailed EnhancementMethod = "fetch_failed"
)

// Article represents a news article as it moves through the pipeline.
// It is created by the collector and mutated in place by the filter,
// enhancer, and analyzer stages.
type Article struct {
	ID                 string            `json:"id"`
	Title              string            `json:"title"`
	Snippet            string            `json:"snippet"`
	URL                string            `json:"url"`
	Source             string            `json:"source"`
	Date               string            `json:"date"`
	Query              string            `json:"search_query"`
	Category           string            `json:"category"`
	SearchMode         string            `json:"search_mode"`
	Summary            string            `json:"summary,omitempty"`
	Enhanced           bool              `json:"enhanced"`
	EnhancementMethod  EnhancementMethod `json:"enhancement_method,omitempty"`
	OriginalSnippet    string            `json:"original_snippet,omitempty"`
	RelevanceScore     int               `json:"relevance_score"`
	SelectedForPodcast bool              `json:"selected_for_podcast"`
}

// BestSummary returns the enhanced summary when present, falling back to
// the original search snippet.
func (a *Article) BestSummary() string {
	if a.Summary != "" {
		return a.Summary
	}
	return a.Snippet
}

// CategoryOrder is the canonical ordering of article categories. Dork-style
// queries map to these names by position; selection output is sorted by this
// order, with unknown categories last.
var CategoryOrder = []string{
	"APTs & Cyber-Espionage",
	"Arrests & Cybercrime",
	"Breaches & Incidents",
	"Cybersecurity IPOs",
	"Cybersecurity Funding",
	"Cybersecurity M&A",
}

// CategoryRank returns the canonical index of a category name. Unknown
// categories rank after all known ones.
func CategoryRank(category string) int {
	for i, name := range CategoryOrder {
		if name == category {
			return i
		}
	}
	return len(CategoryOrder)
}
