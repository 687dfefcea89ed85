package budget

import (
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"pivotcast/internal/llm"
	"pivotcast/internal/logger"
)

// Characters-per-token ratios used when exact counting is unavailable or
// unnecessary.
const (
	preciseFallbackRatio = 4 // conservative, matches GPT-family averages
	approximateRatio     = 3 // looser estimate for large-context profiles
)

// Counter estimates or exactly counts tokens for the active backend profile.
// Precise profiles use the cl100k_base BPE; large-context profiles use a
// character-ratio estimate, which is cheap and safe given their headroom.
type Counter struct {
	profile llm.Profile

	encOnce sync.Once
	enc     *tiktoken.Tiktoken
}

// NewCounter builds a counter for the given profile. The tokenizer is loaded
// lazily on first use.
func NewCounter(profile llm.Profile) *Counter {
	return &Counter{profile: profile}
}

// Profile returns the profile this counter was built for.
func (c *Counter) Profile() llm.Profile {
	return c.profile
}

// Count returns the token count of text under the active profile's counting
// mode. Tokenizer failures degrade to the character-ratio estimate.
func (c *Counter) Count(text string) int {
	if !c.profile.PreciseCounting {
		return len(text) / approximateRatio
	}

	c.encOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			logger.Warn("Tokenizer unavailable, using character estimate", "error", err.Error())
			return
		}
		c.enc = enc
	})
	if c.enc == nil {
		return len(text) / preciseFallbackRatio
	}
	return len(c.enc.Encode(text, nil, nil))
}

// Limits holds the per-profile token allocation boundaries used by the
// category analysis stage.
type Limits struct {
	MaxContextTokens    int
	MaxMessageTokens    int
	MinCompletionTokens int
}

// LimitsFor derives the analysis-stage allocation boundaries for a profile.
func LimitsFor(profile llm.Profile) Limits {
	if profile.PreciseCounting {
		return Limits{
			MaxContextTokens:    profile.MaxContextTokens,
			MaxMessageTokens:    6000,
			MinCompletionTokens: 500,
		}
	}
	maxMessage := profile.MaxContextTokens / 2
	if maxMessage > 500000 {
		maxMessage = 500000
	}
	return Limits{
		MaxContextTokens:    profile.MaxContextTokens,
		MaxMessageTokens:    maxMessage,
		MinCompletionTokens: 8000,
	}
}

// DynamicLimits computes the message and completion budgets for a request
// whose system prompt and representative user prompt are known. The returned
// pair always satisfies maxMessage + completion <= MaxContextTokens.
func (c *Counter) DynamicLimits(systemPrompt, sampleUserPrompt string) (maxMessage, completion int) {
	limits := LimitsFor(c.profile)

	if c.profile.PreciseCounting {
		completion = limits.MaxContextTokens / 3
		if completion > 2000 {
			completion = 2000
		}
	} else {
		completion = limits.MaxContextTokens / 4
		if completion > limits.MinCompletionTokens {
			completion = limits.MinCompletionTokens
		}
	}

	maxMessage = limits.MaxContextTokens - completion
	if maxMessage > limits.MaxMessageTokens {
		maxMessage = limits.MaxMessageTokens
	}

	if maxMessage+completion > limits.MaxContextTokens {
		completion = limits.MaxContextTokens - maxMessage
		if completion < limits.MinCompletionTokens {
			completion = limits.MinCompletionTokens
		}
	}
	// Clamp the message budget so the invariant holds even when the
	// completion floor pushed the sum past the window.
	if maxMessage+completion > limits.MaxContextTokens {
		maxMessage = limits.MaxContextTokens - completion
	}

	logger.Debug("Token allocation",
		"system_tokens", c.Count(systemPrompt),
		"sample_user_tokens", c.Count(sampleUserPrompt),
		"max_message", maxMessage,
		"completion", completion)

	return maxMessage, completion
}

// TrimToTokens trims text to roughly maxTokens using the 4-chars-per-token
// ratio, preferring to cut at the last sentence boundary that falls within
// the final 20% of the target length.
func TrimToTokens(text string, maxTokens int) string {
	targetChars := maxTokens * preciseFallbackRatio
	if len(text) <= targetChars {
		return text
	}

	trimmed := text[:targetChars]
	if last := strings.LastIndex(trimmed, "."); last > targetChars*4/5 {
		trimmed = trimmed[:last+1]
	}
	return trimmed
}
