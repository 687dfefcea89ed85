package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// geminiClient adapts the Gemini SDK to the Completer contract. System
// messages map to the system instruction; the remaining messages become the
// conversation contents.
type geminiClient struct {
	gClient *genai.Client
	model   string
}

func newGeminiClient(ctx context.Context, apiKey, model string) (*geminiClient, error) {
	gClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &geminiClient{gClient: gClient, model: model}, nil
}

// Complete generates a response from the Gemini model.
func (c *geminiClient) Complete(ctx context.Context, messages []Message, maxTokens int, temperature float32) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(temperature),
	}
	if maxTokens > 0 {
		cfg.MaxOutputTokens = int32(maxTokens)
	}

	var contents []*genai.Content
	for _, msg := range messages {
		if msg.Role == "system" {
			cfg.SystemInstruction = &genai.Content{
				Parts: []*genai.Part{{Text: msg.Content}},
			}
			continue
		}
		contents = append(contents, &genai.Content{
			Parts: []*genai.Part{{Text: msg.Content}},
			Role:  msg.Role,
		})
	}
	if len(contents) == 0 {
		return "", fmt.Errorf("no user messages to send to %s", c.model)
	}

	resp, err := c.gClient.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from model %s", c.model)
	}
	return text, nil
}
