package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the fully resolved runtime configuration, populated from config
// files, environment variables, and command-line flags via viper.
type Config struct {
	// Credentials
	OpenAIKey     string
	OpenAIBase    string
	GeminiKey     string
	SerperKey     string
	ElevenLabsKey string

	// Backend selection
	ModelProfile string
	TTSProvider  string

	// Search
	SearchMode    string
	BasicKeywords []string
	GoogleDorks   map[string]string
	DorkOrder     []string
	MaxResults    int
	Locale        string
	Language      string
	SearchTimeout int // seconds
	DaysBack      int

	// Filtering
	FilteringEnabled       bool
	MinRelevanceScore      int
	MaxArticles            int
	MaxArticlesPerCategory int
	RelevanceKeywords      []string

	// Enhancement
	EnhancementEnabled bool

	// Output
	OutputDir      string
	DataDir        string
	PromptsDir     string
	PodcastMinutes int

	// OpenAI TTS
	Voice       string
	AudioFormat string
	SpeechSpeed float64

	// ElevenLabs TTS
	ElevenVoiceID      string
	ElevenModel        string
	ElevenStability    float64
	ElevenSimilarity   float64
	ElevenStyle        float64
	ElevenSpeakerBoost bool
	ElevenSpeed        float64
}

// Load resolves the configuration from viper's merged sources.
func Load() *Config {
	return &Config{
		OpenAIKey:     viper.GetString("openai_api_key"),
		OpenAIBase:    viper.GetString("openai_api_base"),
		GeminiKey:     viper.GetString("gemini_api_key"),
		SerperKey:     viper.GetString("serper_api_key"),
		ElevenLabsKey: viper.GetString("eleven_labs_api_key"),

		ModelProfile: viper.GetString("model"),
		TTSProvider:  viper.GetString("tts"),

		SearchMode:    viper.GetString("search.mode"),
		BasicKeywords: viper.GetStringSlice("search.basic_keywords"),
		GoogleDorks:   viper.GetStringMapString("search.google_dorks"),
		DorkOrder:     viper.GetStringSlice("search.dork_order"),
		MaxResults:    viper.GetInt("search.max_results"),
		Locale:        viper.GetString("search.locale"),
		Language:      viper.GetString("search.language"),
		SearchTimeout: viper.GetInt("search.timeout_seconds"),
		DaysBack:      viper.GetInt("search.days_back"),

		FilteringEnabled:       viper.GetBool("filtering.enabled"),
		MinRelevanceScore:      viper.GetInt("filtering.min_relevance_score"),
		MaxArticles:            viper.GetInt("filtering.max_articles"),
		MaxArticlesPerCategory: viper.GetInt("filtering.max_articles_per_category"),
		RelevanceKeywords:      viper.GetStringSlice("filtering.keywords"),

		EnhancementEnabled: viper.GetBool("enhancement.enabled"),

		OutputDir:      viper.GetString("output_dir"),
		DataDir:        viper.GetString("data_dir"),
		PromptsDir:     viper.GetString("prompts_dir"),
		PodcastMinutes: viper.GetInt("podcast.length_minutes"),

		Voice:       viper.GetString("audio.voice"),
		AudioFormat: viper.GetString("audio.format"),
		SpeechSpeed: viper.GetFloat64("audio.speed"),

		ElevenVoiceID:      viper.GetString("elevenlabs.voice_id"),
		ElevenModel:        viper.GetString("elevenlabs.model"),
		ElevenStability:    viper.GetFloat64("elevenlabs.stability"),
		ElevenSimilarity:   viper.GetFloat64("elevenlabs.similarity_boost"),
		ElevenStyle:        viper.GetFloat64("elevenlabs.style"),
		ElevenSpeakerBoost: viper.GetBool("elevenlabs.speaker_boost"),
		ElevenSpeed:        viper.GetFloat64("elevenlabs.speed"),
	}
}

// SetDefaults registers the built-in defaults with viper. Called before any
// config file or environment source is merged.
func SetDefaults() {
	viper.SetDefault("model", "gemini-flash")
	viper.SetDefault("tts", "openai")

	viper.SetDefault("search.mode", "google_dorks")
	viper.SetDefault("search.basic_keywords", defaultBasicKeywords)
	viper.SetDefault("search.google_dorks", defaultGoogleDorks)
	viper.SetDefault("search.dork_order", defaultDorkOrder)
	viper.SetDefault("search.max_results", 10)
	viper.SetDefault("search.locale", "us")
	viper.SetDefault("search.language", "en")
	viper.SetDefault("search.timeout_seconds", 10)
	viper.SetDefault("search.days_back", 1)

	viper.SetDefault("filtering.enabled", true)
	viper.SetDefault("filtering.min_relevance_score", 1)
	viper.SetDefault("filtering.max_articles", 5)
	viper.SetDefault("filtering.max_articles_per_category", 5)
	viper.SetDefault("filtering.keywords", defaultRelevanceKeywords)

	viper.SetDefault("enhancement.enabled", true)

	viper.SetDefault("output_dir", "output")
	viper.SetDefault("data_dir", "data")
	viper.SetDefault("prompts_dir", "")
	viper.SetDefault("podcast.length_minutes", 5)

	viper.SetDefault("audio.voice", "alloy")
	viper.SetDefault("audio.format", "mp3")
	viper.SetDefault("audio.speed", 1.0)

	viper.SetDefault("elevenlabs.voice_id", "21m00Tcm4TlvDq8ikWAM")
	viper.SetDefault("elevenlabs.model", "eleven_multilingual_v2")
	viper.SetDefault("elevenlabs.stability", 0.5)
	viper.SetDefault("elevenlabs.similarity_boost", 0.85)
	viper.SetDefault("elevenlabs.style", 0.0)
	viper.SetDefault("elevenlabs.speaker_boost", true)
	viper.SetDefault("elevenlabs.speed", 0.9)
}

// Validate checks that the credentials required by the selected backends are
// present and that enum-valued settings are recognized.
func (c *Config) Validate() error {
	var missing []string

	switch c.ModelProfile {
	case "openai":
		if c.OpenAIKey == "" {
			missing = append(missing, "OPENAI_API_KEY")
		}
	case "gemini", "gemini-flash":
		if c.GeminiKey == "" {
			missing = append(missing, "GEMINI_API_KEY")
		}
	default:
		return fmt.Errorf("unknown model profile %q", c.ModelProfile)
	}

	if c.SerperKey == "" {
		missing = append(missing, "SERPER_API_KEY")
	}

	switch c.TTSProvider {
	case "openai":
		if c.OpenAIKey == "" && c.ModelProfile != "openai" {
			missing = append(missing, "OPENAI_API_KEY")
		}
	case "elevenlabs":
		if c.ElevenLabsKey == "" {
			missing = append(missing, "ELEVEN_LABS_API_KEY")
		}
	default:
		return fmt.Errorf("unknown TTS provider %q", c.TTSProvider)
	}

	switch c.SearchMode {
	case "basic_keywords", "google_dorks", "both":
	default:
		return fmt.Errorf("unknown search mode %q", c.SearchMode)
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required credentials: %s", strings.Join(missing, ", "))
	}
	return nil
}

// OrderedDorks returns the dork queries paired with their category labels, in
// the configured category order. Categories without a query are skipped.
func (c *Config) OrderedDorks() (queries, categories []string) {
	for _, cat := range c.DorkOrder {
		q, ok := c.GoogleDorks[strings.ToLower(cat)]
		if !ok || q == "" {
			continue
		}
		queries = append(queries, q)
		categories = append(categories, cat)
	}
	return queries, categories
}
