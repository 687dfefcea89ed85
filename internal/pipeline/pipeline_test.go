package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pivotcast/internal/audio"
	"pivotcast/internal/budget"
	"pivotcast/internal/config"
	"pivotcast/internal/core"
	"pivotcast/internal/fetch"
	"pivotcast/internal/llm"
	"pivotcast/internal/prompts"
	"pivotcast/internal/search"
	"pivotcast/internal/store"
)

// fixedProvider returns the same results for every query.
type fixedProvider struct {
	results []search.Result
}

func (p *fixedProvider) GetName() string { return "fixed" }

func (p *fixedProvider) Search(_ context.Context, _ string, _ search.Config) ([]search.Result, error) {
	return p.results, nil
}

// scriptedCompleter returns one canned response per call, in order.
type scriptedCompleter struct {
	responses []string
	calls     int
}

func (s *scriptedCompleter) Complete(_ context.Context, _ []llm.Message, _ int, _ float32) (string, error) {
	resp := s.responses[s.calls%len(s.responses)]
	s.calls++
	return resp, nil
}

type stubSynth struct{}

func (stubSynth) Name() string { return "stub" }

func (stubSynth) Spec() audio.ChunkSpec {
	return audio.ChunkSpec{SingleCallLimit: 4096, MaxChunkChars: 4000, HeaderSkipBytes: 1024}
}

func (stubSynth) SynthesizeChunk(_ context.Context, _ string) ([]byte, error) {
	return bytes.Repeat([]byte{0x7F}, 2048), nil
}

func newTestRun(t *testing.T, provider search.Provider, completer llm.Completer) *Run {
	t.Helper()
	cache, err := store.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { _ = cache.Close() })

	profile, _ := llm.ProfileByName("gemini")
	cfg := &config.Config{
		ModelProfile:           "gemini",
		TTSProvider:            "openai",
		SearchMode:             "basic_keywords",
		BasicKeywords:          []string{"cybersecurity news"},
		MaxResults:             10,
		DaysBack:               1,
		FilteringEnabled:       true,
		MinRelevanceScore:      1,
		MaxArticles:            5,
		MaxArticlesPerCategory: 2,
		RelevanceKeywords:      []string{"breach"},
		EnhancementEnabled:     false,
		PodcastMinutes:         5,
	}

	return &Run{
		cfg:       cfg,
		profile:   profile,
		counter:   budget.NewCounter(profile),
		completer: completer,
		provider:  provider,
		cache:     cache,
		loader:    prompts.NewLoader(""),
		fetcher:   fetch.NewFetcher(),
		synth:     stubSynth{},
		outputDir: t.TempDir(),
	}
}

func TestExecuteWritesAllArtifacts(t *testing.T) {
	provider := &fixedProvider{results: []search.Result{
		{Title: "Retailer breach confirmed", Snippet: "a breach", URL: "https://a.com/1", Source: "Wire", Date: "1h ago"},
		{Title: "Hospital breach disclosed", Snippet: "another breach", URL: "https://a.com/2", Source: "Desk", Date: "2h ago"},
		{Title: "Quarterly earnings roundup", Snippet: "finance", URL: "https://a.com/3", Source: "Biz", Date: "3h ago"},
	}}
	completer := &scriptedCompleter{responses: []string{
		"## Breaches & Incidents\n• **URL:** https://a.com/1\n",
		"Good morning, this is the briefing script.",
	}}
	run := newTestRun(t, provider, completer)

	if err := run.Execute(context.Background()); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	// The sources artifact holds everything collected, before filtering
	// dropped the non-matching article.
	var sources []core.Article
	data, err := os.ReadFile(filepath.Join(run.outputDir, sourcesFile))
	if err != nil {
		t.Fatalf("reading sources artifact: %v", err)
	}
	if err := json.Unmarshal(data, &sources); err != nil {
		t.Fatalf("decoding sources artifact: %v", err)
	}
	if len(sources) != 3 {
		t.Errorf("sources artifact has %d articles, want all 3 collected", len(sources))
	}

	analysis, err := os.ReadFile(filepath.Join(run.outputDir, analysisFile))
	if err != nil {
		t.Fatalf("reading analysis artifact: %v", err)
	}
	if !strings.Contains(string(analysis), "https://a.com/1") {
		t.Errorf("analysis artifact = %q", analysis)
	}

	transcript, err := os.ReadFile(filepath.Join(run.outputDir, transcriptFile))
	if err != nil {
		t.Fatalf("reading transcript artifact: %v", err)
	}
	if string(transcript) != "Good morning, this is the briefing script." {
		t.Errorf("transcript = %q", transcript)
	}

	audioOut, err := os.ReadFile(filepath.Join(run.outputDir, audioFile))
	if err != nil {
		t.Fatalf("reading audio artifact: %v", err)
	}
	if len(audioOut) != 2048 {
		t.Errorf("audio artifact = %d bytes, want the synthesized 2048", len(audioOut))
	}

	if completer.calls != 2 {
		t.Errorf("completer calls = %d, want selection + script", completer.calls)
	}
}

func TestFilterScoresOnlyKeywordArticlesInBothMode(t *testing.T) {
	run := newTestRun(t, &fixedProvider{}, &scriptedCompleter{responses: []string{""}})
	run.cfg.SearchMode = "both"

	articles := []core.Article{
		{Title: "No keywords here", URL: "https://d.com/1", Category: "Breaches & Incidents", SearchMode: "google_dorks"},
		{Title: "Plain breach story", URL: "https://k.com/1", Category: "Query_2", SearchMode: "basic_keywords"},
		{Title: "Off-topic keyword hit", URL: "https://k.com/2", Category: "Query_2", SearchMode: "basic_keywords"},
	}
	got := run.filter(articles)

	if len(got) != 2 {
		t.Fatalf("filter kept %d articles, want 2", len(got))
	}
	if got[0].URL != "https://d.com/1" {
		t.Errorf("dork article did not pass through unscored: %+v", got[0])
	}
	if got[1].URL != "https://k.com/1" {
		t.Errorf("keyword article = %+v, want the breach story kept", got[1])
	}
}
