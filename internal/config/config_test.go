package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		OpenAIKey:    "sk-test",
		SerperKey:    "serper-test",
		ModelProfile: "openai",
		TTSProvider:  "openai",
		SearchMode:   "google_dorks",
	}
}

func TestValidateAccepts(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestValidateMissingCredentials(t *testing.T) {
	cfg := validConfig()
	cfg.OpenAIKey = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing OpenAI key")
	}
	if !strings.Contains(err.Error(), "OPENAI_API_KEY") {
		t.Errorf("error %q does not name the missing credential", err)
	}

	cfg = validConfig()
	cfg.SerperKey = ""
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "SERPER_API_KEY") {
		t.Errorf("err = %v, want SERPER_API_KEY named", err)
	}

	cfg = validConfig()
	cfg.ModelProfile = "gemini"
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "GEMINI_API_KEY") {
		t.Errorf("err = %v, want GEMINI_API_KEY named", err)
	}

	cfg = validConfig()
	cfg.TTSProvider = "elevenlabs"
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "ELEVEN_LABS_API_KEY") {
		t.Errorf("err = %v, want ELEVEN_LABS_API_KEY named", err)
	}
}

func TestValidateRejectsUnknownEnums(t *testing.T) {
	cfg := validConfig()
	cfg.ModelProfile = "mystery"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown model profile")
	}

	cfg = validConfig()
	cfg.TTSProvider = "espeak"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown TTS provider")
	}

	cfg = validConfig()
	cfg.SearchMode = "bing"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown search mode")
	}
}

func TestOrderedDorksFollowsConfiguredOrder(t *testing.T) {
	cfg := &Config{
		DorkOrder: []string{"Breaches & Incidents", "Cybersecurity Funding", "No Query Category"},
		GoogleDorks: map[string]string{
			"breaches & incidents":  "breach query",
			"cybersecurity funding": "funding query",
		},
	}

	queries, categories := cfg.OrderedDorks()
	if len(queries) != 2 || len(categories) != 2 {
		t.Fatalf("OrderedDorks() = %v, %v", queries, categories)
	}
	if queries[0] != "breach query" || categories[0] != "Breaches & Incidents" {
		t.Errorf("first dork = %q / %q", queries[0], categories[0])
	}
	if categories[1] != "Cybersecurity Funding" {
		t.Errorf("second category = %q", categories[1])
	}
}
