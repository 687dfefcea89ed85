package relevance

import (
	"testing"

	"pivotcast/internal/core"
)

func TestScoreCountsKeywordsOnce(t *testing.T) {
	s := NewScorer([]string{"ransomware", "breach"}, 1, 0)

	article := core.Article{
		Title:   "Ransomware breach at hospital",
		Snippet: "The ransomware group leaked the stolen data.",
	}
	if got := s.Score(article); got != 2 {
		t.Errorf("Score() = %d, want 2 (each keyword counts once)", got)
	}
}

func TestScoreIsCaseInsensitive(t *testing.T) {
	s := NewScorer([]string{"RANSOMWARE"}, 1, 0)

	article := core.Article{Title: "ransomware attack", Snippet: ""}
	if got := s.Score(article); got != 1 {
		t.Errorf("Score() = %d, want 1", got)
	}
}

func TestFilterKeepsAndOrdersByScore(t *testing.T) {
	s := NewScorer([]string{"ransomware", "breach"}, 1, 0)

	articles := []core.Article{
		{Title: "Ransomware breach confirmed", Snippet: "", URL: "https://a.com"},
		{Title: "Quarterly earnings report", Snippet: "", URL: "https://b.com"},
		{Title: "New breach disclosed", Snippet: "", URL: "https://c.com"},
	}

	got := s.Filter(articles)
	if len(got) != 2 {
		t.Fatalf("Filter() kept %d articles, want 2", len(got))
	}
	if got[0].URL != "https://a.com" || got[0].RelevanceScore != 2 {
		t.Errorf("first = %s (score %d), want https://a.com with score 2", got[0].URL, got[0].RelevanceScore)
	}
	if got[1].URL != "https://c.com" || got[1].RelevanceScore != 1 {
		t.Errorf("second = %s (score %d), want https://c.com with score 1", got[1].URL, got[1].RelevanceScore)
	}
}

func TestFilterStableOnTies(t *testing.T) {
	s := NewScorer([]string{"breach"}, 1, 0)

	articles := []core.Article{
		{Title: "breach one", URL: "https://one.com"},
		{Title: "breach two", URL: "https://two.com"},
	}
	got := s.Filter(articles)
	if len(got) != 2 || got[0].URL != "https://one.com" {
		t.Errorf("tie order changed: %+v", got)
	}
}

func TestFilterTruncatesToMax(t *testing.T) {
	s := NewScorer([]string{"breach"}, 1, 1)

	articles := []core.Article{
		{Title: "breach one", URL: "https://one.com"},
		{Title: "breach two", URL: "https://two.com"},
	}
	got := s.Filter(articles)
	if len(got) != 1 {
		t.Errorf("Filter() kept %d articles, want 1", len(got))
	}
}
