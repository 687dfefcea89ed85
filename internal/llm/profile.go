package llm

import "fmt"

// Profile describes one selectable chat backend: its wire model name, context
// window, output ceiling, and whether token counts must be exact. The active
// profile is resolved once per run and treated as immutable afterwards, since
// every downstream budgeting decision depends on it.
type Profile struct {
	Name             string
	Model            string
	MaxContextTokens int
	MaxOutputTokens  int
	// PreciseCounting selects exact sub-word token counting. Profiles with
	// very large context windows use a cheap character-ratio estimate instead.
	PreciseCounting bool
}

var profiles = map[string]Profile{
	"openai": {
		Name:             "openai",
		Model:            "gpt-4",
		MaxContextTokens: 8192,
		MaxOutputTokens:  4096,
		PreciseCounting:  true,
	},
	"gemini": {
		Name:             "gemini",
		Model:            "gemini-2.5-pro",
		MaxContextTokens: 1048576,
		MaxOutputTokens:  65536,
	},
	"gemini-flash": {
		Name:             "gemini-flash",
		Model:            "gemini-2.5-flash-lite",
		MaxContextTokens: 1048576,
		MaxOutputTokens:  8192,
	},
}

// ProfileByName resolves a backend profile by its configuration name.
func ProfileByName(name string) (Profile, error) {
	p, ok := profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown model profile %q (available: openai, gemini, gemini-flash)", name)
	}
	return p, nil
}

// ProfileNames returns the names of all selectable profiles.
func ProfileNames() []string {
	return []string{"openai", "gemini", "gemini-flash"}
}
