package openai

import "strings"

// sentenceEnders terminate a sentence when followed by whitespace.
const sentenceEnders = ".!?"

// ExtractiveFallback produces a deterministic degraded summary by
// truncation: the first maxSentences sentences of text, capped at
// maxChars characters. It never touches the AI backend.
func ExtractiveFallback(text string, maxSentences, maxChars int) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if maxSentences < 1 {
		maxSentences = 1
	}

	end := len(text)
	sentences := 0
	for i, r := range text {
		if !strings.ContainsRune(sentenceEnders, r) {
			continue
		}
		// Sentence boundary: ender at end of text or followed by whitespace
		if i+1 == len(text) || text[i+1] == ' ' || text[i+1] == '\n' || text[i+1] == '\t' {
			sentences++
			if sentences >= maxSentences {
				end = i + 1
				break
			}
		}
	}

	result := strings.TrimSpace(text[:end])
	if maxChars > 0 && len(result) > maxChars {
		result = truncateRuneSafe(result, maxChars)
	}
	return result
}

// truncateRuneSafe cuts s to at most maxBytes without splitting a rune.
func truncateRuneSafe(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	cut := maxBytes
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return strings.TrimSpace(s[:cut])
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
