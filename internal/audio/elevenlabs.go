package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	elevenLabsEndpoint = "https://api.elevenlabs.io/v1/text-to-speech"

	// Kept well under the API ceiling; longer chunks drift in voice quality.
	elevenChunkChars = 1000
	elevenHeaderSkip = 1024
	elevenCallDelay  = time.Second
)

// ElevenLabsSynthesizer speaks text through the ElevenLabs API.
type ElevenLabsSynthesizer struct {
	apiKey   string
	voiceID  string
	model    string
	settings VoiceSettings
	client   *http.Client
}

// VoiceSettings are the ElevenLabs voice tuning knobs.
type VoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
	Speed           float64 `json:"speed"`
}

type elevenLabsRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings VoiceSettings `json:"voice_settings"`
}

// NewElevenLabsSynthesizer creates the ElevenLabs speech provider.
func NewElevenLabsSynthesizer(apiKey, voiceID, model string, settings VoiceSettings) *ElevenLabsSynthesizer {
	return &ElevenLabsSynthesizer{
		apiKey:   apiKey,
		voiceID:  voiceID,
		model:    model,
		settings: settings,
		client:   &http.Client{Timeout: 120 * time.Second},
	}
}

// Name returns the provider identifier.
func (s *ElevenLabsSynthesizer) Name() string { return "elevenlabs" }

// Spec returns the provider's chunking constraints. Text is always chunked
// small for voice consistency, with a pacing delay between calls.
func (s *ElevenLabsSynthesizer) Spec() ChunkSpec {
	return ChunkSpec{
		SingleCallLimit: 0,
		MaxChunkChars:   elevenChunkChars,
		HeaderSkipBytes: elevenHeaderSkip,
		InterCallDelay:  elevenCallDelay,
	}
}

// SynthesizeChunk converts one chunk of text to audio bytes.
func (s *ElevenLabsSynthesizer) SynthesizeChunk(ctx context.Context, text string) ([]byte, error) {
	reqBody := elevenLabsRequest{
		Text:          text,
		ModelID:       s.model,
		VoiceSettings: s.settings,
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal speech request: %w", err)
	}

	url := fmt.Sprintf("%s/%s", elevenLabsEndpoint, s.voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create speech request: %w", err)
	}
	req.Header.Set("xi-api-key", s.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("speech request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("speech API error %d: %s", resp.StatusCode, string(body))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio response: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("speech API returned empty audio")
	}
	return audio, nil
}
