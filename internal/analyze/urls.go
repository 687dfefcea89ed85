package analyze

import "regexp"

// URLExtractor recovers article URLs from a model's free-text response.
type URLExtractor interface {
	ExtractURLs(text string) []string
}

var (
	bulletURLPattern = regexp.MustCompile(`•\s*\*\*URL:\*\*\s*(https?://[^\s\n]+)`)
	legacyURLPattern = regexp.MustCompile(`\*\*URL:\*\*\s*(https?://[^\s\n]+)`)
)

// patternExtractor matches one regular expression whose first capture group
// is the URL.
type patternExtractor struct {
	pattern *regexp.Regexp
}

func (p patternExtractor) ExtractURLs(text string) []string {
	var urls []string
	for _, match := range p.pattern.FindAllStringSubmatch(text, -1) {
		urls = append(urls, match[1])
	}
	return urls
}

// BulletExtractor matches the current response format, where each URL sits on
// a bulleted **URL:** line.
func BulletExtractor() URLExtractor {
	return patternExtractor{pattern: bulletURLPattern}
}

// LegacyExtractor matches **URL:** markers without the leading bullet, kept
// for older response layouts some models still produce.
func LegacyExtractor() URLExtractor {
	return patternExtractor{pattern: legacyURLPattern}
}
