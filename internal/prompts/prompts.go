// Package prompts loads the model prompt templates and fills in their
// placeholders.
package prompts

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

//go:embed templates/*.txt
var embedded embed.FS

// Template names recognized by the loader.
const (
	ArticleBriefSystem    = "article-brief-system"
	ArticleAnalysisSystem = "article-analysis-system"
	ArticleAnalysisUser   = "article-analysis-user"
	PodcastScriptSystem   = "podcast-script-system"
	PodcastScriptUser     = "podcast-script-user"
	FallbackScriptContent = "fallback-script-content"
)

var placeholderPattern = regexp.MustCompile(`\{([a-z_]+)\}`)

// Loader serves prompt templates, preferring files in an override directory
// over the embedded defaults.
type Loader struct {
	overrideDir string
}

// NewLoader creates a loader. An empty overrideDir means embedded templates
// only.
func NewLoader(overrideDir string) *Loader {
	return &Loader{overrideDir: overrideDir}
}

// raw returns the template text for name.
func (l *Loader) raw(name string) (string, error) {
	if l.overrideDir != "" {
		path := filepath.Join(l.overrideDir, name+".txt")
		if data, err := os.ReadFile(path); err == nil {
			return string(data), nil
		}
	}

	data, err := embedded.ReadFile("templates/" + name + ".txt")
	if err != nil {
		return "", fmt.Errorf("unknown prompt template %q", name)
	}
	return string(data), nil
}

// Render loads the named template and substitutes every {placeholder} with
// its value from vars. A placeholder with no matching value is an error, so
// a malformed prompt never reaches the model.
func (l *Loader) Render(name string, vars map[string]string) (string, error) {
	text, err := l.raw(name)
	if err != nil {
		return "", err
	}

	var missing []string
	rendered := placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		key := match[1 : len(match)-1]
		value, ok := vars[key]
		if !ok {
			missing = append(missing, key)
			return match
		}
		return value
	})

	if len(missing) > 0 {
		return "", fmt.Errorf("prompt template %q is missing values for: %s", name, strings.Join(missing, ", "))
	}
	return rendered, nil
}
