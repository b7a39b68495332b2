package phrase

import (
	"strings"
	"unicode"
)

var sanitizeFilter = NewSanitizeFilter()

var sanitizeFillerTokens = map[string]bool{
	"uh": true, "um": true, "ok": true, "okay": true, "hmm": true,
}

// TitleCase capitalizes each space-separated word, lowering the rest.
func TitleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = capitalizeWord(strings.ToLower(word))
	}
	return strings.Join(words, " ")
}

func capitalizeWord(word string) string {
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func isUpperString(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

// Sanitize reduces highlight display text to a compact noun phrase,
// preserving acronym casing and falling back to the original wording when
// aggressive filtering would leave too little.
func Sanitize(value string) string {
	if value == "" {
		return value
	}

	original := strings.Join(strings.Fields(value), " ")
	if original == "" {
		return original
	}

	tokens := latinWordRe.FindAllString(original, -1)
	if len(tokens) == 0 {
		return original
	}

	filtered := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if !displayStopWords[strings.ToLower(token)] {
			filtered = append(filtered, token)
		}
	}
	candidate := filtered
	if len(candidate) == 0 {
		candidate = tokens
	}
	if noun := sanitizeFilter.NounPhrase(candidate, 6); len(noun) > 0 {
		candidate = noun
	}

	if len(candidate) < 2 {
		fallback := make([]string, 0, len(tokens))
		for _, token := range tokens {
			if !sanitizeFillerTokens[strings.ToLower(token)] {
				fallback = append(fallback, token)
			}
		}
		if len(fallback) >= 2 {
			candidate = fallback
		} else {
			candidate = tokens
		}
		if len(candidate) > 4 {
			candidate = candidate[:4]
		}
	}

	out := strings.TrimSpace(strings.Join(candidate, " "))
	if out == "" {
		out = original
	}
	if out == "" {
		return strings.TrimSpace(value)
	}

	// Keep original casing for acronyms, otherwise title-case words.
	if isUpperString(out) {
		return out
	}

	words := strings.Fields(out)
	for i, word := range words {
		if !isUpperString(word) {
			words[i] = capitalizeWord(word)
		}
	}
	normalized := strings.Join(words, " ")
	if len(normalized) <= 1 {
		return original
	}
	if len(words) == 1 && len(strings.Fields(original)) >= 2 {
		n := len(tokens)
		if n > 2 {
			n = 2
		}
		fallbackWords := make([]string, 0, n)
		for _, token := range tokens[:n] {
			fallbackWords = append(fallbackWords, capitalizeWord(token))
		}
		if fb := strings.Join(fallbackWords, " "); fb != "" {
			return fb
		}
	}
	return normalized
}

// SectionTitle returns decorated (display, keyword) text for a section
// card. The suffix is picked by the byte sum of the highlight id so the
// same id always gets the same descriptor.
func SectionTitle(highlightID, basePhrase, fallback string) (string, string) {
	if fallback == "" {
		fallback = "Key Theme"
	}
	sanitized := ""
	if basePhrase != "" {
		sanitized = Sanitize(basePhrase)
	}
	if sanitized == "" {
		sanitized = fallback
	}

	suffix := SectionTitleSuffixes[SuffixSeed(highlightID)%len(SectionTitleSuffixes)]
	display := sanitized
	if !strings.Contains(strings.ToLower(sanitized), strings.ToLower(suffix)) {
		display = sanitized + " " + suffix
	}
	return display, strings.ToUpper(display)
}

// SuffixSeed sums the code points of id, keying the suffix rotation.
func SuffixSeed(id string) int {
	seed := 0
	for _, r := range id {
		seed += int(r)
	}
	return seed
}
