package llm

import (
	"context"
	"fmt"

	"pivotcast/internal/logger"
)

// Message is a single chat message sent to the generative backend.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer is the narrow contract every chat backend implements. MaxTokens
// caps the completion; temperature controls randomness.
type Completer interface {
	Complete(ctx context.Context, messages []Message, maxTokens int, temperature float32) (string, error)
}

// Options carries the credentials needed to construct a backend client.
type Options struct {
	OpenAIKey  string
	OpenAIBase string // defaults to the public OpenAI endpoint
	GeminiKey  string
}

// NewCompleter builds the chat client for the given profile. The client is
// constructed once per run; profile switching mid-run is not supported.
func NewCompleter(ctx context.Context, profile Profile, opts Options) (Completer, error) {
	switch profile.Name {
	case "openai":
		if opts.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for the %s profile", profile.Name)
		}
		logger.Info("Configured chat backend", "profile", profile.Name, "model", profile.Model)
		return newOpenAIClient(opts.OpenAIKey, opts.OpenAIBase, profile.Model), nil
	case "gemini", "gemini-flash":
		if opts.GeminiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for the %s profile", profile.Name)
		}
		client, err := newGeminiClient(ctx, opts.GeminiKey, profile.Model)
		if err != nil {
			return nil, err
		}
		logger.Info("Configured chat backend", "profile", profile.Name, "model", profile.Model)
		return client, nil
	default:
		return nil, fmt.Errorf("no client available for profile %q", profile.Name)
	}
}
