package enhance

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"pivotcast/internal/budget"
	"pivotcast/internal/core"
	"pivotcast/internal/llm"
	"pivotcast/internal/prompts"
)

type fakeFetcher struct {
	content string
	err     error
	calls   int
}

func (f *fakeFetcher) FetchContent(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.content, f.err
}

type fakeCompleter struct {
	response  string
	err       error
	calls     int
	messages  []llm.Message
	maxTokens int
}

func (f *fakeCompleter) Complete(_ context.Context, messages []llm.Message, maxTokens int, _ float32) (string, error) {
	f.calls++
	f.messages = messages
	f.maxTokens = maxTokens
	return f.response, f.err
}

type memoryCache struct {
	entries map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]string)}
}

func (m *memoryCache) GetSummary(url string, _ time.Duration) (string, bool) {
	s, ok := m.entries[url]
	return s, ok
}

func (m *memoryCache) PutSummary(url, summary string) {
	m.entries[url] = summary
}

func newTestEnhancer(f *fakeFetcher, c *fakeCompleter, cache Cache) *Enhancer {
	profile, _ := llm.ProfileByName("gemini")
	return New(f, c, cache, budget.NewCounter(profile), prompts.NewLoader(""), 24*time.Hour)
}

func TestEnhanceGeneratesAndCaches(t *testing.T) {
	fetcher := &fakeFetcher{content: "Full article text about a breach at a large retailer."}
	completer := &fakeCompleter{response: "A large retailer was breached."}
	cache := newMemoryCache()
	e := newTestEnhancer(fetcher, completer, cache)

	articles := []core.Article{{Title: "Breach", Snippet: "short snippet", URL: "https://a.com/x"}}
	got := e.Enhance(context.Background(), articles)

	a := got[0]
	if a.Summary != "A large retailer was breached." {
		t.Errorf("Summary = %q", a.Summary)
	}
	if !a.Enhanced || a.EnhancementMethod != core.EnhancedByModel {
		t.Errorf("enhanced = %v, method = %q", a.Enhanced, a.EnhancementMethod)
	}
	if a.OriginalSnippet != "short snippet" {
		t.Errorf("OriginalSnippet = %q", a.OriginalSnippet)
	}
	if a.ID == "" {
		t.Error("article left without an identifier")
	}
	if _, ok := cache.GetSummary("https://a.com/x", 0); !ok {
		t.Error("summary not cached")
	}
}

func TestEnhanceCacheIdempotence(t *testing.T) {
	fetcher := &fakeFetcher{content: "Full article text about a breach."}
	completer := &fakeCompleter{response: "Generated summary."}
	cache := newMemoryCache()
	e := newTestEnhancer(fetcher, completer, cache)

	articles := []core.Article{{Title: "Breach", Snippet: "snippet", URL: "https://a.com/x"}}
	first := e.Enhance(context.Background(), articles)

	again := []core.Article{{Title: "Breach", Snippet: "snippet", URL: "https://a.com/x"}}
	second := e.Enhance(context.Background(), again)

	if fetcher.calls != 1 || completer.calls != 1 {
		t.Errorf("second pass did extra work: %d fetches, %d completions", fetcher.calls, completer.calls)
	}
	if second[0].Summary != first[0].Summary {
		t.Errorf("cached summary differs: %q vs %q", second[0].Summary, first[0].Summary)
	}
	if second[0].EnhancementMethod != core.EnhancedFromCache {
		t.Errorf("method = %q, want cache", second[0].EnhancementMethod)
	}
}

func TestEnhanceFetchFailureKeepsSnippet(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("timeout")}
	completer := &fakeCompleter{}
	e := newTestEnhancer(fetcher, completer, newMemoryCache())

	articles := []core.Article{{Title: "Breach", Snippet: "the snippet", URL: "https://a.com/x"}}
	got := e.Enhance(context.Background(), articles)

	a := got[0]
	if a.Summary != "the snippet" {
		t.Errorf("Summary = %q, want the original snippet", a.Summary)
	}
	if a.EnhancementMethod != core.EnhancementFetchFailed {
		t.Errorf("method = %q, want fetch_failed", a.EnhancementMethod)
	}
	if completer.calls != 0 {
		t.Error("model called after fetch failure")
	}
}

func TestEnhanceModelFailurePlaceholder(t *testing.T) {
	fetcher := &fakeFetcher{content: "Article text."}
	completer := &fakeCompleter{err: errors.New("model unavailable")}
	cache := newMemoryCache()
	e := newTestEnhancer(fetcher, completer, cache)

	articles := []core.Article{{Title: "Breach", Snippet: "snippet", URL: "https://a.com/x"}}
	got := e.Enhance(context.Background(), articles)

	if got[0].Summary != failurePlaceholder {
		t.Errorf("Summary = %q, want placeholder", got[0].Summary)
	}
	if len(cache.entries) != 0 {
		t.Error("failed summary was cached")
	}
}

func TestEnhanceSkipsArticlesWithoutURL(t *testing.T) {
	fetcher := &fakeFetcher{content: "text"}
	completer := &fakeCompleter{response: "summary"}
	e := newTestEnhancer(fetcher, completer, newMemoryCache())

	articles := []core.Article{{Title: "No link", Snippet: "snippet"}}
	got := e.Enhance(context.Background(), articles)

	if fetcher.calls != 0 || completer.calls != 0 {
		t.Error("work performed for article without a URL")
	}
	if got[0].BestSummary() != "snippet" {
		t.Errorf("BestSummary() = %q", got[0].BestSummary())
	}
}

func TestEnhanceFailureIsolation(t *testing.T) {
	fetcher := &fakeFetcher{content: "Article text."}
	completer := &fakeCompleter{response: "summary"}
	cache := newMemoryCache()
	cache.entries["https://cached.com/x"] = "from cache"
	e := newTestEnhancer(fetcher, completer, cache)

	articles := []core.Article{
		{Title: "Cached", Snippet: "s", URL: "https://cached.com/x"},
		{Title: "Fresh", Snippet: "s", URL: "https://fresh.com/x"},
	}
	got := e.Enhance(context.Background(), articles)

	if got[0].Summary != "from cache" || got[1].Summary != "summary" {
		t.Errorf("summaries = %q, %q", got[0].Summary, got[1].Summary)
	}
	if fetcher.calls != 1 {
		t.Errorf("fetches = %d, want 1 (cache hit skips network)", fetcher.calls)
	}
}

func TestPreciseModeSendsFullArticleText(t *testing.T) {
	body := strings.Repeat("The attackers moved laterally through the vendor network. ", 110)
	fetcher := &fakeFetcher{content: body}
	completer := &fakeCompleter{response: "summary"}

	profile, _ := llm.ProfileByName("openai")
	e := New(fetcher, completer, newMemoryCache(), budget.NewCounter(profile), prompts.NewLoader(""), time.Hour)

	articles := []core.Article{{Title: "Breach", Snippet: "snippet", URL: "https://a.com/x"}}
	e.Enhance(context.Background(), articles)

	if completer.calls != 1 {
		t.Fatalf("completions = %d, want 1", completer.calls)
	}
	user := completer.messages[len(completer.messages)-1]
	if user.Role != "user" {
		t.Fatalf("last message role = %q, want user", user.Role)
	}
	// The summary budget caps only the completion; the full fetched body
	// stays within the separate input ceiling and must arrive untrimmed.
	if len(user.Content) != len(body) {
		t.Errorf("model received %d chars of article text, want the full %d", len(user.Content), len(body))
	}
	if completer.maxTokens != 180 {
		t.Errorf("completion cap = %d, want the 180-token summary budget", completer.maxTokens)
	}
}

func TestPreciseModeInputCeiling(t *testing.T) {
	// Four sentences short of 21,000 chars, well past the input ceiling.
	body := strings.Repeat("Another detailed paragraph about the intrusion timeline follows here. ", 300)
	fetcher := &fakeFetcher{content: body}
	completer := &fakeCompleter{response: "summary"}

	profile, _ := llm.ProfileByName("openai")
	e := New(fetcher, completer, newMemoryCache(), budget.NewCounter(profile), prompts.NewLoader(""), time.Hour)

	e.Enhance(context.Background(), []core.Article{{Title: "Breach", Snippet: "s", URL: "https://a.com/x"}})

	user := completer.messages[len(completer.messages)-1]
	if len(user.Content) > preciseInputTokens*4 {
		t.Errorf("model received %d chars, want at most %d", len(user.Content), preciseInputTokens*4)
	}
	if len(user.Content) < 10000 {
		t.Errorf("model received only %d chars, input trimmed far below the ceiling", len(user.Content))
	}
}

func TestPerArticleTokensPrecise(t *testing.T) {
	profile, _ := llm.ProfileByName("openai")
	e := New(nil, nil, nil, budget.NewCounter(profile), prompts.NewLoader(""), time.Hour)

	if got := e.perArticleTokens(10); got != 180 {
		t.Errorf("perArticleTokens(10) = %d, want 180", got)
	}
	if got := e.perArticleTokens(60); got != 180 {
		t.Errorf("perArticleTokens(60) = %d, want 180", got)
	}
	if got := e.perArticleTokens(90); got != 120 {
		t.Errorf("perArticleTokens(90) = %d, want 120", got)
	}
	if got := e.perArticleTokens(200); got != 120 {
		t.Errorf("perArticleTokens(200) = %d, want floor of 120", got)
	}
}

func TestPerArticleTokensApproximate(t *testing.T) {
	profile, _ := llm.ProfileByName("gemini")
	e := New(nil, nil, nil, budget.NewCounter(profile), prompts.NewLoader(""), time.Hour)

	if got := e.perArticleTokens(4); got != 1000 {
		t.Errorf("perArticleTokens(4) = %d, want capped 1000", got)
	}
	if got := e.perArticleTokens(40); got != 200 {
		t.Errorf("perArticleTokens(40) = %d, want 200", got)
	}
}
