// Package pipeline wires the stages into a complete briefing run.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pivotcast/internal/analyze"
	"pivotcast/internal/audio"
	"pivotcast/internal/budget"
	"pivotcast/internal/collector"
	"pivotcast/internal/compose"
	"pivotcast/internal/config"
	"pivotcast/internal/core"
	"pivotcast/internal/enhance"
	"pivotcast/internal/fetch"
	"pivotcast/internal/llm"
	"pivotcast/internal/logger"
	"pivotcast/internal/prompts"
	"pivotcast/internal/relevance"
	"pivotcast/internal/search"
	"pivotcast/internal/store"
)

// Artifact file names written into each run's output directory.
const (
	sourcesFile    = "sources.json"
	enhancedFile   = "articles_summarised.json"
	analysisFile   = "gpt-article-analysis.txt"
	transcriptFile = "daily_briefing.txt"
	audioFile      = "daily_briefing.mp3"
)

// Run holds everything a single briefing run needs. It is constructed once
// from the resolved configuration and never mutated mid-pipeline.
type Run struct {
	cfg       *config.Config
	profile   llm.Profile
	counter   *budget.Counter
	completer llm.Completer
	provider  search.Provider
	cache     *store.Store
	loader    *prompts.Loader
	fetcher   *fetch.Fetcher
	synth     audio.Synthesizer
	outputDir string
}

// NewRun resolves the backend profile, builds every client once, and creates
// the run's output directory.
func NewRun(ctx context.Context, cfg *config.Config) (*Run, error) {
	profile, err := llm.ProfileByName(cfg.ModelProfile)
	if err != nil {
		return nil, err
	}

	completer, err := llm.NewCompleter(ctx, profile, llm.Options{
		OpenAIKey:  cfg.OpenAIKey,
		OpenAIBase: cfg.OpenAIBase,
		GeminiKey:  cfg.GeminiKey,
	})
	if err != nil {
		return nil, err
	}

	cache, err := store.NewStore(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	synth, err := buildSynthesizer(cfg)
	if err != nil {
		_ = cache.Close()
		return nil, err
	}

	outputDir, err := createOutputDir(cfg.OutputDir)
	if err != nil {
		_ = cache.Close()
		return nil, err
	}

	return &Run{
		cfg:       cfg,
		profile:   profile,
		counter:   budget.NewCounter(profile),
		completer: completer,
		provider:  search.NewSerperProvider(cfg.SerperKey),
		cache:     cache,
		loader:    prompts.NewLoader(cfg.PromptsDir),
		fetcher:   fetch.NewFetcher(),
		synth:     synth,
		outputDir: outputDir,
	}, nil
}

func buildSynthesizer(cfg *config.Config) (audio.Synthesizer, error) {
	switch cfg.TTSProvider {
	case "openai":
		return audio.NewOpenAISynthesizer(cfg.OpenAIKey, cfg.Voice, cfg.AudioFormat, cfg.SpeechSpeed), nil
	case "elevenlabs":
		return audio.NewElevenLabsSynthesizer(cfg.ElevenLabsKey, cfg.ElevenVoiceID, cfg.ElevenModel, audio.VoiceSettings{
			Stability:       cfg.ElevenStability,
			SimilarityBoost: cfg.ElevenSimilarity,
			Style:           cfg.ElevenStyle,
			UseSpeakerBoost: cfg.ElevenSpeakerBoost,
			Speed:           cfg.ElevenSpeed,
		}), nil
	default:
		return nil, fmt.Errorf("unknown TTS provider %q", cfg.TTSProvider)
	}
}

// createOutputDir makes a fresh timestamped directory, suffixing a counter
// when two runs start within the same second.
func createOutputDir(base string) (string, error) {
	stamp := time.Now().Format("20060102_150405")
	dir := filepath.Join(base, "briefing_"+stamp)
	for i := 2; ; i++ {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			break
		}
		dir = filepath.Join(base, fmt.Sprintf("briefing_%s_%d", stamp, i))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return dir, nil
}

// Close releases the run's resources.
func (r *Run) Close() error {
	return r.cache.Close()
}

// OutputDir returns the run's artifact directory.
func (r *Run) OutputDir() string {
	return r.outputDir
}

// Execute runs the full pipeline: collect, filter, enhance, select, compose,
// synthesize. Each stage persists its artifact before the next begins.
func (r *Run) Execute(ctx context.Context) error {
	started := time.Now()
	logger.Info("Starting briefing run",
		"model", r.profile.Model,
		"tts", r.synth.Name(),
		"search_mode", r.cfg.SearchMode,
		"output_dir", r.outputDir)

	articles := r.collect(ctx)
	collected := len(articles)
	r.writeJSON(sourcesFile, articles)
	if len(articles) == 0 {
		logger.Warn("No articles collected, the briefing will use the fallback script")
	}

	articles = r.filter(articles)

	if r.cfg.EnhancementEnabled && len(articles) > 0 {
		enhancer := enhance.New(r.fetcher, r.completer, r.cache, r.counter, r.loader, store.DefaultMaxAge)
		articles = enhancer.Enhance(ctx, articles)
		r.writeJSON(enhancedFile, articles)
	}

	analyzer := analyze.New(r.completer, r.counter, r.loader, r.cfg.MaxArticlesPerCategory)
	result := analyzer.Select(ctx, articles)
	r.writeText(analysisFile, result.Analysis)

	selected := result.Selected
	if len(selected) == 0 && len(articles) > 0 {
		logger.Warn("Selection empty, composing from the full article list")
		selected = articles
	}

	composer := compose.New(r.completer, r.counter, r.loader, r.cfg.PodcastMinutes)
	script := composer.Compose(ctx, selected)
	r.writeText(transcriptFile, script)

	generator := audio.NewGenerator(r.synth)
	audioPath, err := generator.Generate(ctx, script, filepath.Join(r.outputDir, audioFile))
	if err != nil {
		return fmt.Errorf("audio synthesis failed: %w", err)
	}

	logger.Info("Briefing run complete",
		"articles_collected", collected,
		"articles_kept", len(articles),
		"articles_selected", len(selected),
		"script_words", compose.WordCount(script),
		"estimated_minutes", fmt.Sprintf("%.1f", compose.ReadingTimeMinutes(script)),
		"audio", audioPath,
		"elapsed", time.Since(started).Round(time.Second).String())
	return nil
}

func (r *Run) collect(ctx context.Context) []core.Article {
	opts := collector.Options{
		Mode:     r.cfg.SearchMode,
		DaysBack: r.cfg.DaysBack,
		Search: search.Config{
			MaxResults: r.cfg.MaxResults,
			Locale:     r.cfg.Locale,
			Language:   r.cfg.Language,
			Timeout:    time.Duration(r.cfg.SearchTimeout) * time.Second,
		},
	}
	switch r.cfg.SearchMode {
	case collector.ModeGoogleDorks:
		opts.Queries, opts.Categories = r.cfg.OrderedDorks()
		opts.PerCategory = r.cfg.MaxArticlesPerCategory
	case collector.ModeBoth:
		opts.Queries, opts.Categories = r.cfg.OrderedDorks()
		opts.Queries = append(opts.Queries, r.cfg.BasicKeywords...)
		opts.PerCategory = r.cfg.MaxArticlesPerCategory
	default:
		opts.Queries = r.cfg.BasicKeywords
	}
	return collector.New(r.provider).Collect(ctx, opts)
}

// filter applies the relevance stage to keyword-sourced articles. Dork
// articles are already categorized and capped, so they bypass scoring; in
// "both" mode only the keyword subset is scored.
func (r *Run) filter(articles []core.Article) []core.Article {
	if !r.cfg.FilteringEnabled || r.cfg.SearchMode == collector.ModeGoogleDorks {
		return articles
	}
	scorer := relevance.NewScorer(r.cfg.RelevanceKeywords, r.cfg.MinRelevanceScore, r.cfg.MaxArticles)
	if r.cfg.SearchMode != collector.ModeBoth {
		return scorer.Filter(articles)
	}

	var dork, basic []core.Article
	for _, a := range articles {
		if a.SearchMode == collector.ModeGoogleDorks {
			dork = append(dork, a)
		} else {
			basic = append(basic, a)
		}
	}
	return append(dork, scorer.Filter(basic)...)
}

func (r *Run) writeJSON(name string, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		logger.Warn("Failed to encode artifact", "file", name, "error", err.Error())
		return
	}
	r.writeBytes(name, data)
}

func (r *Run) writeText(name, text string) {
	r.writeBytes(name, []byte(text))
}

func (r *Run) writeBytes(name string, data []byte) {
	path := filepath.Join(r.outputDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		logger.Warn("Failed to write artifact", "file", name, "error", err.Error())
	}
}
