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
	openAISpeechEndpoint = "https://api.openai.com/v1/audio/speech"

	// Hard input ceiling documented for the speech endpoint.
	openAISingleCallLimit = 4096
	openAIChunkChars      = 4000
	openAIHeaderSkip      = 1024
)

// OpenAISynthesizer speaks text through the OpenAI speech endpoint.
type OpenAISynthesizer struct {
	apiKey string
	voice  string
	format string
	speed  float64
	client *http.Client
}

type openAISpeechRequest struct {
	Model          string  `json:"model"`
	Input          string  `json:"input"`
	Voice          string  `json:"voice"`
	ResponseFormat string  `json:"response_format"`
	Speed          float64 `json:"speed"`
}

// NewOpenAISynthesizer creates the OpenAI speech provider.
func NewOpenAISynthesizer(apiKey, voice, format string, speed float64) *OpenAISynthesizer {
	return &OpenAISynthesizer{
		apiKey: apiKey,
		voice:  voice,
		format: format,
		speed:  speed,
		client: &http.Client{Timeout: 120 * time.Second},
	}
}

// Name returns the provider identifier.
func (s *OpenAISynthesizer) Name() string { return "openai" }

// Spec returns the provider's chunking constraints. Short scripts go out in
// a single call; only oversized ones are chunked.
func (s *OpenAISynthesizer) Spec() ChunkSpec {
	return ChunkSpec{
		SingleCallLimit: openAISingleCallLimit,
		MaxChunkChars:   openAIChunkChars,
		HeaderSkipBytes: openAIHeaderSkip,
	}
}

// SynthesizeChunk converts one chunk of text to audio bytes.
func (s *OpenAISynthesizer) SynthesizeChunk(ctx context.Context, text string) ([]byte, error) {
	reqBody := openAISpeechRequest{
		Model:          "tts-1",
		Input:          text,
		Voice:          s.voice,
		ResponseFormat: s.format,
		Speed:          s.speed,
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal speech request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAISpeechEndpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create speech request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

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
