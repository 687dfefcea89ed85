package audio

import "strings"

// splitSentences cuts text into sentences, keeping the terminal punctuation
// attached. Anything after the last terminator becomes a final sentence.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			sentence := strings.TrimSpace(text[start : i+1])
			if sentence != "" {
				sentences = append(sentences, sentence)
			}
			start = i + 1
		}
	}
	if tail := strings.TrimSpace(text[start:]); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

// splitWords breaks an oversized sentence at word boundaries into pieces
// within maxChars. A single word longer than maxChars is cut hard.
func splitWords(sentence string, maxChars int) []string {
	var pieces []string
	var current strings.Builder
	for _, word := range strings.Fields(sentence) {
		for len(word) > maxChars {
			if current.Len() > 0 {
				pieces = append(pieces, current.String())
				current.Reset()
			}
			pieces = append(pieces, word[:maxChars])
			word = word[maxChars:]
		}
		switch {
		case current.Len() == 0:
			current.WriteString(word)
		case current.Len()+1+len(word) <= maxChars:
			current.WriteString(" ")
			current.WriteString(word)
		default:
			pieces = append(pieces, current.String())
			current.Reset()
			current.WriteString(word)
		}
	}
	if current.Len() > 0 {
		pieces = append(pieces, current.String())
	}
	return pieces
}

// SplitIntoChunks greedily packs sentences into chunks of at most maxChars.
// A sentence that alone exceeds the limit is split at word boundaries, so no
// returned chunk ever exceeds maxChars.
func SplitIntoChunks(text string, maxChars int) []string {
	var chunks []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
	}

	for _, sentence := range splitSentences(text) {
		if len(sentence) > maxChars {
			flush()
			chunks = append(chunks, splitWords(sentence, maxChars)...)
			continue
		}
		switch {
		case current.Len() == 0:
			current.WriteString(sentence)
		case current.Len()+1+len(sentence) <= maxChars:
			current.WriteString(" ")
			current.WriteString(sentence)
		default:
			flush()
			current.WriteString(sentence)
		}
	}
	flush()
	return chunks
}
