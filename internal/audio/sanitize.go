package audio

import (
	"regexp"
	"strings"
)

var (
	urlPattern       = regexp.MustCompile(`https?://[^\s]+`)
	markdownPattern  = regexp.MustCompile("[#*_`]+")
	nonSpeechPattern = regexp.MustCompile(`[^\p{L}\p{N}_\s.,!?;:\-()']`)
	spacePattern     = regexp.MustCompile(`\s+`)
)

// SanitizeForSpeech strips everything a narrator should not read aloud:
// URLs, markdown punctuation, and characters outside normal spoken text.
func SanitizeForSpeech(text string) string {
	text = urlPattern.ReplaceAllString(text, "")
	text = markdownPattern.ReplaceAllString(text, "")
	text = nonSpeechPattern.ReplaceAllString(text, "")
	text = spacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
