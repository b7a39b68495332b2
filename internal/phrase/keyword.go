package phrase

import (
	"regexp"
	"strings"
)

const (
	// MinKeywordLength rejects short tokens unless whitelisted.
	MinKeywordLength = 3
	// MaxKeywordTokens bounds keyword phrases to three content words.
	MaxKeywordTokens = 3
)

var (
	defaultKeywordFilter = NewKeywordFilter()
	nonAlnumLowerRe      = regexp.MustCompile(`[^a-z0-9]`)
)

// Meaningful reports whether text carries enough content to anchor an
// overlay. Pure filler, generic verbs and lone short words are rejected.
func Meaningful(text string) bool {
	raw := AlnumWords(text)
	if len(raw) == 0 {
		return false
	}
	tokens := make([]string, len(raw))
	for i, t := range raw {
		tokens[i] = strings.ToUpper(t)
	}
	if len(tokens) == 2 && tokens[0] == "FIRST" && tokens[1] == "ONE" {
		return false
	}
	allGeneric := true
	for _, t := range tokens {
		if !genericSkipTokens[t] {
			allGeneric = false
		}
		if commonVerbs[strings.ToLower(t)] {
			return false
		}
	}
	if allGeneric {
		return false
	}
	content := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if !allowedConnectors[t] {
			content = append(content, t)
		}
	}
	if len(content) == 1 && len(content[0]) < 5 {
		return false
	}
	return true
}

// SelectKeyword extracts an uppercase keyword phrase from free text.
// Returns "" when nothing meaningful survives filtering.
func SelectKeyword(text string, maxTokens, maxChars int) string {
	if text == "" {
		return ""
	}
	if maxTokens <= 0 {
		maxTokens = MaxKeywordTokens
	}

	var rawCandidates []string
	seen := map[string]bool{}
	for _, token := range Words(text) {
		normalized := nonAlnumLowerRe.ReplaceAllString(strings.ToLower(token), "")
		if normalized == "" {
			continue
		}
		if fillerWords[normalized] {
			continue
		}
		if stopWords[normalized] && !importantShortTokens[normalized] {
			continue
		}
		if genericSkipTokens[strings.ToUpper(normalized)] {
			continue
		}
		if len(normalized) < MinKeywordLength && !importantShortTokens[normalized] {
			continue
		}
		upper := strings.ToUpper(token)
		if seen[upper] {
			continue
		}
		seen[upper] = true
		rawCandidates = append(rawCandidates, token)
		if len(rawCandidates) >= maxTokens*3 {
			break
		}
	}

	if len(rawCandidates) == 0 {
		return ""
	}

	filtered := defaultKeywordFilter.NounPhrase(rawCandidates, maxTokens)
	if len(filtered) == 0 {
		filtered = rawCandidates
		if len(filtered) > maxTokens {
			filtered = filtered[:maxTokens]
		}
	}

	keywords := make([]string, 0, len(filtered))
	for _, token := range filtered {
		if token != "" {
			keywords = append(keywords, strings.ToUpper(token))
		}
	}
	if len(keywords) == 0 {
		return ""
	}

	limit := maxTokens
	if limit > len(keywords) {
		limit = len(keywords)
	}
	phrase := strings.Join(keywords[:limit], " ")
	if !Meaningful(phrase) {
		meaningful := make([]string, 0, len(keywords))
		for _, kw := range keywords {
			if Meaningful(kw) {
				meaningful = append(meaningful, kw)
			}
		}
		if len(meaningful) == 0 {
			return ""
		}
		if len(meaningful) == 1 {
			phrase = meaningful[0]
		} else {
			n := maxTokens
			if n > len(meaningful) {
				n = len(meaningful)
			}
			phrase = strings.Join(meaningful[:n], " ")
		}
		if !Meaningful(phrase) {
			return ""
		}
	}

	if maxChars > 0 && len(phrase) > maxChars {
		phrase = strings.TrimRight(phrase[:maxChars-1], " ") + "..."
	}
	return phrase
}

// Condense returns a short keyword phrase for supporting-text slots.
func Condense(text string, maxWords, maxChars int) string {
	if maxWords > MaxKeywordTokens {
		maxWords = MaxKeywordTokens
	}
	return SelectKeyword(text, maxWords, maxChars)
}

// FromWords joins words and selects a keyword phrase, condensing when the
// primary selection yields nothing.
func FromWords(words []string, maxWords, maxChars int) string {
	joined := strings.Join(words, " ")
	if phrase := SelectKeyword(joined, MaxKeywordTokens, maxChars); phrase != "" {
		return phrase
	}
	return Condense(joined, maxWords, maxChars)
}

var supportingSplitTokens = map[string]bool{
	"and": true, "but": true, "versus": true, "vs": true, "while": true,
	"because": true, "so": true, "then": true, "what": true, "that": true,
	"which": true, "where": true, "who": true,
}

// SplitSupporting breaks a word list into left/right halves for dual
// supporting texts, preferring a conjunction as the split point.
func SplitSupporting(words []string) ([]string, []string) {
	if len(words) <= 3 {
		return words, nil
	}
	for idx, token := range words {
		if supportingSplitTokens[strings.ToLower(token)] && idx >= 2 && idx <= len(words)-3 {
			return words[:idx], words[idx:]
		}
	}
	mid := len(words) / 2
	if mid < 2 {
		mid = 2
	}
	return words[:mid], words[mid:]
}
